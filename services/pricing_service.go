package services

import (
	"errors"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"lodge-backend/models"
	"lodge-backend/utils"
)

// RateSource supplies the pricing engine with rate-table rows, season
// windows and the active rule set. The gorm-backed implementation is
// RateStore; tests inject fakes.
type RateSource interface {
	// RateFor returns the nightly per-guest price for the tuple, with
	// ErrRateNotFound when no row exists. seasonID 0 is the regular
	// period.
	RateFor(seasonID uint, dayType, usageType, ageGroup string) (int64, error)
	// SeasonFor returns the active season covering the calendar date,
	// or nil when the date falls in the regular period.
	SeasonFor(date time.Time) (*models.Season, error)
	ActiveRules() ([]models.PricingRule, error)
}

// PricingService computes nightly-resolved price breakdowns. It is
// side-effect free apart from missing-rate diagnostics and holds no
// per-stay state.
type PricingService struct {
	rates RateSource

	mu      sync.RWMutex
	weekend map[time.Weekday]bool
}

func NewPricingService(rates RateSource, weekendDays []time.Weekday) *PricingService {
	s := &PricingService{rates: rates}
	s.SetWeekendDays(weekendDays)
	return s
}

// SetWeekendDays replaces the configured weekend set. An empty set
// falls back to Friday/Saturday.
func (s *PricingService) SetWeekendDays(days []time.Weekday) {
	if len(days) == 0 {
		days = []time.Weekday{time.Friday, time.Saturday}
	}
	set := make(map[time.Weekday]bool, len(days))
	for _, d := range days {
		set[d] = true
	}
	s.mu.Lock()
	s.weekend = set
	s.mu.Unlock()
}

// DayType classifies a calendar date against the weekend set.
func (s *PricingService) DayType(d time.Time) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.weekend[d.Weekday()] {
		return models.DayTypeWeekend
	}
	return models.DayTypeWeekday
}

// stayUsage picks the rate-table usage type for a stay: shared pricing
// applies as soon as any bunk room is in the selection.
func stayUsage(rooms []models.RoomUsage) string {
	for _, r := range rooms {
		if r.UsageType == models.UsageShared {
			return models.UsageShared
		}
	}
	return models.UsagePrivate
}

// CalculateTotalPrice resolves the full stay price night by night.
//
// The flat room rate is charged literally each night; season and
// day-type sensitivity lives entirely in the rate-table lookups that
// produce the per-guest charge. Add-ons are whole-stay flat lines
// (quantity × unit price) booked onto the first night so the daily
// series still sums to the grand total.
//
// A stay with no rooms or fewer than one night is rejected with
// ErrInvalidStayParameters rather than priced to zero.
func (s *PricingService) CalculateTotalPrice(
	rooms []models.RoomUsage,
	guests models.GuestCount,
	dateRange models.DateRange,
	addons []models.AddonItem,
) (models.PriceBreakdown, error) {

	start := utils.CalendarDate(dateRange.CheckIn)
	end := utils.CalendarDate(dateRange.CheckOut)
	nights := utils.NightsBetween(start, end)

	if len(rooms) == 0 || nights < 1 {
		return models.PriceBreakdown{}, ErrInvalidStayParameters
	}

	usage := stayUsage(rooms)

	var roomPerNight int64
	for _, r := range rooms {
		roomPerNight += r.RoomRate
	}

	var addonTotal int64
	for _, a := range addons {
		addonTotal += int64(a.Quantity) * a.UnitPrice
	}

	breakdown := models.PriceBreakdown{
		DailyBreakdown: make([]models.DailyCharge, 0, nights),
	}

	for i, d := 0, start; i < nights; i, d = i+1, d.AddDate(0, 0, 1) {
		dayType := s.DayType(d)

		season, err := s.rates.SeasonFor(d)
		if err != nil {
			return models.PriceBreakdown{}, fmt.Errorf("%w: season lookup: %v", ErrStoreQueryFailure, err)
		}
		seasonID := uint(0)
		seasonName := models.SeasonRegular
		if season != nil {
			seasonID = season.ID
			seasonName = season.Name
		}

		var guestNight int64
		for _, gc := range guests.ByGroup() {
			if gc.Count == 0 {
				continue
			}
			rate, err := s.nightlyGuestRate(seasonID, season, dayType, usage, gc.AgeGroup)
			if err != nil {
				return models.PriceBreakdown{}, err
			}
			guestNight += rate * int64(gc.Count)
		}

		var addonNight int64
		if i == 0 {
			addonNight = addonTotal
		}

		day := models.DailyCharge{
			Date:        d,
			DayType:     dayType,
			SeasonName:  seasonName,
			RoomAmount:  roomPerNight,
			GuestAmount: guestNight,
			AddonAmount: addonNight,
		}
		day.Total = day.RoomAmount + day.GuestAmount + day.AddonAmount

		breakdown.RoomAmount += day.RoomAmount
		breakdown.GuestAmount += day.GuestAmount
		breakdown.DailyBreakdown = append(breakdown.DailyBreakdown, day)
	}

	breakdown.AddonAmount = addonTotal
	breakdown.Total = breakdown.RoomAmount + breakdown.GuestAmount + breakdown.AddonAmount
	return breakdown, nil
}

// nightlyGuestRate resolves one rate-table tuple. A peak season with
// no dedicated row falls back to the regular row scaled by the
// season's pax multiplier. A tuple with no row at all prices as zero:
// that is a data-completeness problem for the operator, not a reason
// to block the whole quote.
func (s *PricingService) nightlyGuestRate(seasonID uint, season *models.Season, dayType, usageType, ageGroup string) (int64, error) {
	rate, err := s.rates.RateFor(seasonID, dayType, usageType, ageGroup)
	if err == nil {
		return rate, nil
	}
	if !errors.Is(err, ErrRateNotFound) {
		return 0, fmt.Errorf("%w: rate lookup: %v", ErrStoreQueryFailure, err)
	}

	if seasonID != 0 && season != nil {
		base, err2 := s.rates.RateFor(0, dayType, usageType, ageGroup)
		if err2 == nil {
			return int64(math.Round(float64(base) * season.PaxRateMultiplier)), nil
		}
		if !errors.Is(err2, ErrRateNotFound) {
			return 0, fmt.Errorf("%w: rate lookup: %v", ErrStoreQueryFailure, err2)
		}
	}

	log.Printf("⚠️  missing rate for season=%d dayType=%s usage=%s ageGroup=%s; pricing as 0",
		seasonID, dayType, usageType, ageGroup)
	return 0, nil
}

// ApplicableRules filters the active rule set down to the rules whose
// type-specific predicate matches the date/day, ordered ascending by
// priority (lower number applies first).
func (s *PricingService) ApplicableRules(roomType string, date time.Time, day time.Weekday) ([]models.PricingRule, error) {
	all, err := s.rates.ActiveRules()
	if err != nil {
		return nil, fmt.Errorf("%w: rule lookup: %v", ErrStoreQueryFailure, err)
	}

	d := utils.CalendarDate(date)
	matched := make([]models.PricingRule, 0, len(all))
	for _, r := range all {
		if r.RoomType != "" && r.RoomType != roomType {
			continue
		}
		if r.AppliesOn(d, day) {
			matched = append(matched, r)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority < matched[j].Priority
		}
		return matched[i].ID < matched[j].ID
	})
	return matched, nil
}

// CalculatePrice is the rule-multiplier strategy used by the quick
// estimate path. It is deliberately separate from CalculateTotalPrice:
// this one starts from a single base price and folds in multiplier
// rules per night, then adds flat addon-rule amounts once; it knows
// nothing about age groups or the rate table.
func (s *PricingService) CalculatePrice(
	roomID uint,
	roomType string,
	basePrice int64,
	checkIn, checkOut time.Time,
	guestCount int,
) (models.PricingCalculation, error) {

	start := utils.CalendarDate(checkIn)
	end := utils.CalendarDate(checkOut)
	nights := utils.NightsBetween(start, end)
	if nights < 1 {
		return models.PricingCalculation{}, ErrInvalidStayParameters
	}

	calc := models.PricingCalculation{
		RoomID:         roomID,
		RoomType:       roomType,
		BasePrice:      basePrice,
		Nights:         nights,
		GuestCount:     guestCount,
		DailyBreakdown: make([]models.DailyCharge, 0, nights),
	}

	contributions := map[uint]*models.AppliedRule{}
	order := []uint{}
	record := func(r models.PricingRule, amount int64) {
		ar, ok := contributions[r.ID]
		if !ok {
			ar = &models.AppliedRule{RuleID: r.ID, Name: r.Name, RuleType: r.RuleType}
			contributions[r.ID] = ar
			order = append(order, r.ID)
		}
		ar.Amount += amount
	}

	var addonRules []models.PricingRule

	for i, d := 0, start; i < nights; i, d = i+1, d.AddDate(0, 0, 1) {
		rules, err := s.ApplicableRules(roomType, d, d.Weekday())
		if err != nil {
			return models.PricingCalculation{}, err
		}

		night := basePrice
		for _, r := range rules {
			switch {
			case r.RuleType == models.RuleAddon:
				if i == 0 && r.FixedAmount != nil {
					addonRules = append(addonRules, r)
				}
			case r.Multiplier != nil:
				before := night
				night = int64(math.Round(float64(night) * *r.Multiplier))
				record(r, night-before)
			}
		}

		day := models.DailyCharge{
			Date:       d,
			DayType:    s.DayType(d),
			RoomAmount: night,
			Total:      night,
		}
		calc.Subtotal += night
		calc.DailyBreakdown = append(calc.DailyBreakdown, day)
	}

	// Addon rules contribute a flat per-guest-per-night amount exactly
	// once per rule, outside the nightly loop.
	for _, r := range addonRules {
		amount := *r.FixedAmount * int64(guestCount) * int64(nights)
		calc.AddonTotal += amount
		record(r, amount)
	}

	for _, id := range order {
		calc.AppliedRules = append(calc.AppliedRules, *contributions[id])
	}

	calc.Total = calc.Subtotal + calc.AddonTotal
	return calc, nil
}
