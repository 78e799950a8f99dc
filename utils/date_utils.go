package utils

import (
	"fmt"
	"time"
)

//
// ===========================================================
//  CALENDAR DATE UTILITIES
// ===========================================================
//
// Every nights/overlap/past-date computation in the project goes
// through these helpers so all date math lives in one calendar
// convention: date-only values at midnight in DateLocation.
//

// DateLocation is the single reference timezone for calendar dates.
var DateLocation = time.Local

// CalendarDate truncates t to its calendar date in DateLocation.
func CalendarDate(t time.Time) time.Time {
	lt := t.In(DateLocation)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, DateLocation)
}

// Today returns the current calendar date.
func Today() time.Time {
	return CalendarDate(time.Now())
}

// ParseCalendarDate accepts "2006-01-02" or RFC3339 and returns the
// calendar date.
func ParseCalendarDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, DateLocation); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return CalendarDate(t), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
}

// NightsBetween counts the nights in the half-open range [start, end).
// A checkout on or before check-in yields 0.
func NightsBetween(start, end time.Time) int {
	s := CalendarDate(start)
	e := CalendarDate(end)
	if !e.After(s) {
		return 0
	}
	n := 0
	for d := s; d.Before(e); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

// DateRangesOverlap reports whether the half-open ranges [s1, e1) and
// [s2, e2) intersect: a booking ending on another's start date does
// not conflict.
func DateRangesOverlap(s1, e1, s2, e2 time.Time) bool {
	return CalendarDate(s1).Before(CalendarDate(e2)) && CalendarDate(s2).Before(CalendarDate(e1))
}

// OverlapWindow returns the intersection of two half-open ranges and
// its night count. A zero night count means no overlap.
func OverlapWindow(s1, e1, s2, e2 time.Time) (time.Time, time.Time, int) {
	start := CalendarDate(s1)
	if s2c := CalendarDate(s2); s2c.After(start) {
		start = s2c
	}
	end := CalendarDate(e1)
	if e2c := CalendarDate(e2); e2c.Before(end) {
		end = e2c
	}
	return start, end, NightsBetween(start, end)
}
