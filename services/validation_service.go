package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"lodge-backend/models"
	"lodge-backend/utils"
)

// BookingStore is the persistent-store boundary of the conflict
// validator. AcquireLock must be an atomic server-side check-and-set;
// the validator itself holds no shared state.
type BookingStore interface {
	// OverlappingBookings returns every booked stay whose room is in
	// roomIDs and whose half-open date range intersects [start, end),
	// excluding excludeBookingID when non-zero.
	OverlappingBookings(roomIDs []uint, start, end time.Time, excludeBookingID uint) ([]models.BookedStay, error)
	ActiveRoomsByID(roomIDs []uint) ([]models.Room, error)
	ActiveRooms() ([]models.Room, error)
	AcquireLock(sessionID string, roomIDs []uint, start, end time.Time, ttl time.Duration) (models.LockResult, error)
}

// Business-rule bounds for pre-commit validation.
const (
	maxNightsBeforeWarning = 30
	maxGuestsBeforeWarning = 100
	capacityWarnRatio      = 0.8
)

// BookingCandidate is the pre-commit shape of a booking, as supplied
// by the booking form.
type BookingCandidate struct {
	RoomIDs   []uint            `json:"roomIds"`
	CheckIn   time.Time         `json:"checkIn"`
	CheckOut  time.Time         `json:"checkOut"`
	Guests    models.GuestCount `json:"guests"`
	GuestName string            `json:"guestName"`
}

// BookingValidationService detects double bookings, runs the
// pre-commit rule set and brokers exclusive editing locks. Every call
// is one-shot and stateless; only the lock rows in the store persist
// between invocations.
type BookingValidationService struct {
	store BookingStore
	now   func() time.Time
}

func NewBookingValidationService(store BookingStore) *BookingValidationService {
	return &BookingValidationService{store: store, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (s *BookingValidationService) WithClock(now func() time.Time) *BookingValidationService {
	s.now = now
	return s
}

// ValidateBookingExclusively checks the candidate room/date assignment
// against every existing booking. A store failure never passes as "no
// conflicts": the result comes back invalid with the underlying error.
func (s *BookingValidationService) ValidateBookingExclusively(roomIDs []uint, start, end time.Time, excludeBookingID uint) models.BookingValidation {
	v := models.BookingValidation{
		Conflicts: []models.BookingConflict{},
		Warnings:  []string{},
		Errors:    []string{},
	}

	start = utils.CalendarDate(start)
	end = utils.CalendarDate(end)

	stays, err := s.store.OverlappingBookings(roomIDs, start, end, excludeBookingID)
	if err != nil {
		v.Errors = append(v.Errors, fmt.Sprintf("%s: %v", ErrStoreQueryFailure, err))
		return v
	}

	for _, stay := range stays {
		os, oe, nights := utils.OverlapWindow(start, end, stay.CheckIn, stay.CheckOut)
		if nights < 1 {
			continue
		}
		v.Conflicts = append(v.Conflicts, models.BookingConflict{
			RoomID:               stay.RoomID,
			ConflictingBookingID: stay.BookingID,
			ConflictingGuestName: stay.GuestName,
			OverlapStart:         os,
			OverlapEnd:           oe,
			OverlapNights:        nights,
		})
	}

	sort.SliceStable(v.Conflicts, func(i, j int) bool {
		if v.Conflicts[i].RoomID != v.Conflicts[j].RoomID {
			return v.Conflicts[i].RoomID < v.Conflicts[j].RoomID
		}
		return v.Conflicts[i].ConflictingBookingID < v.Conflicts[j].ConflictingBookingID
	})

	if len(v.Conflicts) > 0 {
		seenRoom := map[uint]bool{}
		for _, c := range v.Conflicts {
			if !seenRoom[c.RoomID] {
				seenRoom[c.RoomID] = true
				v.Warnings = append(v.Warnings, fmt.Sprintf("room %d already has bookings in this period", c.RoomID))
			}
			v.Warnings = append(v.Warnings, fmt.Sprintf(
				"room %d: overlaps booking #%d (%s) %s - %s (%d night(s))",
				c.RoomID, c.ConflictingBookingID, c.ConflictingGuestName,
				c.OverlapStart.Format("2006-01-02"), c.OverlapEnd.Format("2006-01-02"), c.OverlapNights,
			))
		}
		v.Errors = append(v.Errors, fmt.Sprintf("%s: selected rooms are already booked for the requested dates", ErrConflictDetected))
	}

	v.IsValid = len(v.Conflicts) == 0
	v.CanProceed = len(v.Errors) == 0
	return v
}

// PerformRealtimeCheck wraps the conflict check for polling UIs. It is
// idempotent and cheap enough to call every 20-30 seconds.
func (s *BookingValidationService) PerformRealtimeCheck(roomIDs []uint, start, end time.Time, currentBookingID uint) models.RealtimeUpdateResult {
	v := s.ValidateBookingExclusively(roomIDs, start, end, currentBookingID)

	// A failed store query reads as "invalid with zero conflicts";
	// everything else, conflicts included, is a successful check.
	storeFailed := !v.IsValid && len(v.Conflicts) == 0

	res := models.RealtimeUpdateResult{
		Success:   !storeFailed,
		Conflicts: v.Conflicts,
		UpdatedAt: s.now(),
	}
	switch {
	case storeFailed:
		res.Message = strings.Join(v.Errors, "; ")
	case len(v.Conflicts) > 0:
		res.Message = fmt.Sprintf("%d conflicting booking(s) found", len(v.Conflicts))
	default:
		res.Message = "no conflicts"
	}
	return res
}

// FinalValidationBeforeCommit unions the conflict check, the capacity
// check and the pure business-rule check. CanProceed is true only when
// no hard error fired anywhere.
func (s *BookingValidationService) FinalValidationBeforeCommit(candidate BookingCandidate, excludeBookingID uint) models.BookingValidation {
	v := s.checkBusinessRules(candidate)

	// Capacity: combined active-room capacity must cover the party.
	guestTotal := candidate.Guests.Total()
	rooms, err := s.store.ActiveRoomsByID(candidate.RoomIDs)
	if err != nil {
		v.Errors = append(v.Errors, fmt.Sprintf("%s: %v", ErrStoreQueryFailure, err))
	} else {
		capacity := 0
		for _, r := range rooms {
			capacity += r.MaxOccupancy
		}
		switch {
		case guestTotal > capacity:
			v.Errors = append(v.Errors, fmt.Sprintf(
				"%s: %d guest(s) exceed the combined room capacity of %d", ErrCapacityExceeded, guestTotal, capacity))
		case capacity > 0 && float64(guestTotal) > capacityWarnRatio*float64(capacity):
			v.Warnings = append(v.Warnings, fmt.Sprintf(
				"occupancy above %d%%: %d of %d places used", int(capacityWarnRatio*100), guestTotal, capacity))
		}
	}

	// Conflict check only once the range itself is orderable.
	if utils.CalendarDate(candidate.CheckIn).Before(utils.CalendarDate(candidate.CheckOut)) {
		cv := s.ValidateBookingExclusively(candidate.RoomIDs, candidate.CheckIn, candidate.CheckOut, excludeBookingID)
		v.Conflicts = append(v.Conflicts, cv.Conflicts...)
		v.Warnings = append(v.Warnings, cv.Warnings...)
		v.Errors = append(v.Errors, cv.Errors...)
	}

	v.IsValid = len(v.Conflicts) == 0 && len(v.Errors) == 0
	v.CanProceed = len(v.Errors) == 0
	return v
}

// checkBusinessRules is pure: no store access, day-granularity
// comparisons against the service clock's calendar date.
func (s *BookingValidationService) checkBusinessRules(candidate BookingCandidate) models.BookingValidation {
	v := models.BookingValidation{
		Conflicts: []models.BookingConflict{},
		Warnings:  []string{},
		Errors:    []string{},
	}

	today := utils.CalendarDate(s.now())
	start := utils.CalendarDate(candidate.CheckIn)
	end := utils.CalendarDate(candidate.CheckOut)

	if start.Before(today) {
		v.Errors = append(v.Errors, fmt.Sprintf("%s: check-in date is in the past", ErrBusinessRuleViolation))
	}
	if !start.Before(end) {
		v.Errors = append(v.Errors, fmt.Sprintf("%s: check-out must be after check-in", ErrBusinessRuleViolation))
	} else if nights := utils.NightsBetween(start, end); nights > maxNightsBeforeWarning {
		v.Warnings = append(v.Warnings, fmt.Sprintf("stay of %d nights is unusually long", nights))
	}

	guestTotal := candidate.Guests.Total()
	if guestTotal <= 0 {
		v.Errors = append(v.Errors, fmt.Sprintf("%s: at least one guest is required", ErrBusinessRuleViolation))
	} else if guestTotal > maxGuestsBeforeWarning {
		v.Warnings = append(v.Warnings, fmt.Sprintf("party of %d guests is unusually large", guestTotal))
	}

	if strings.TrimSpace(candidate.GuestName) == "" {
		v.Errors = append(v.Errors, fmt.Sprintf("%s: representative name is required", ErrBusinessRuleViolation))
	}

	return v
}

// HandleConcurrentAccess requests a 10-minute exclusive lock for the
// session. The store is the sole arbiter; this method adds nothing but
// the TTL and date normalization.
func (s *BookingValidationService) HandleConcurrentAccess(sessionID string, roomIDs []uint, start, end time.Time) (models.LockResult, error) {
	if strings.TrimSpace(sessionID) == "" || len(roomIDs) == 0 {
		return models.LockResult{}, ErrInvalidStayParameters
	}
	return s.store.AcquireLock(
		sessionID, roomIDs,
		utils.CalendarDate(start), utils.CalendarDate(end),
		models.LockTTL,
	)
}

// DetectAndResolveConflicts re-runs the conflict check for an edited
// booking and, when it still collides, proposes alternative rooms for
// the same dates and alternative date windows (±14 days) for the same
// rooms. The options list may legitimately come back empty.
func (s *BookingValidationService) DetectAndResolveConflicts(originalBookingID uint, roomIDs []uint, start, end time.Time) models.ConflictResolution {
	start = utils.CalendarDate(start)
	end = utils.CalendarDate(end)

	v := s.ValidateBookingExclusively(roomIDs, start, end, originalBookingID)
	res := models.ConflictResolution{
		HasNewConflicts:   len(v.Conflicts) > 0,
		Conflicts:         v.Conflicts,
		ResolutionOptions: []models.ResolutionOption{},
	}
	if !res.HasNewConflicts {
		return res
	}

	res.ResolutionOptions = append(res.ResolutionOptions, s.alternativeRooms(roomIDs, start, end, v.Conflicts)...)
	res.ResolutionOptions = append(res.ResolutionOptions, s.alternativeDates(originalBookingID, roomIDs, start, end)...)
	return res
}

func (s *BookingValidationService) alternativeRooms(roomIDs []uint, start, end time.Time, conflicts []models.BookingConflict) []models.ResolutionOption {
	requested := map[uint]bool{}
	for _, id := range roomIDs {
		requested[id] = true
	}

	// A replacement must hold at least as many guests as the smallest
	// conflicted room it would stand in for.
	neededCapacity := 0
	conflicted := map[uint]bool{}
	for _, c := range conflicts {
		conflicted[c.RoomID] = true
	}
	if rooms, err := s.store.ActiveRoomsByID(roomIDs); err == nil {
		for _, r := range rooms {
			if conflicted[r.ID] && (neededCapacity == 0 || r.MaxOccupancy < neededCapacity) {
				neededCapacity = r.MaxOccupancy
			}
		}
	}

	all, err := s.store.ActiveRooms()
	if err != nil {
		return nil
	}

	options := []models.ResolutionOption{}
	for _, room := range all {
		if requested[room.ID] || room.MaxOccupancy < neededCapacity {
			continue
		}
		check := s.ValidateBookingExclusively([]uint{room.ID}, start, end, 0)
		if !check.IsValid {
			continue
		}
		options = append(options, models.ResolutionOption{
			Type:       models.ResolutionAlternativeRoom,
			RoomID:     room.ID,
			RoomNumber: room.RoomNumber,
			Description: fmt.Sprintf("room %s (capacity %d) is free %s - %s",
				room.RoomNumber, room.MaxOccupancy, start.Format("2006-01-02"), end.Format("2006-01-02")),
		})
		if len(options) >= 5 {
			break
		}
	}
	return options
}

func (s *BookingValidationService) alternativeDates(excludeBookingID uint, roomIDs []uint, start, end time.Time) []models.ResolutionOption {
	options := []models.ResolutionOption{}

	// Search outward: +1, -1, +2, -2 ... +14, -14 days.
	for step := 1; step <= 14 && len(options) < 3; step++ {
		for _, offset := range []int{step, -step} {
			ns := start.AddDate(0, 0, offset)
			ne := end.AddDate(0, 0, offset)
			if ns.Before(utils.CalendarDate(s.now())) {
				continue
			}
			check := s.ValidateBookingExclusively(roomIDs, ns, ne, excludeBookingID)
			if !check.IsValid {
				continue
			}
			nsCopy, neCopy := ns, ne
			options = append(options, models.ResolutionOption{
				Type:      models.ResolutionAlternativeDates,
				StartDate: &nsCopy,
				EndDate:   &neCopy,
				Description: fmt.Sprintf("same rooms are free %s - %s",
					ns.Format("2006-01-02"), ne.Format("2006-01-02")),
			})
			if len(options) >= 3 {
				break
			}
		}
	}
	return options
}
