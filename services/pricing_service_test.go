package services

import (
	"errors"
	"testing"
	"time"

	"lodge-backend/models"
	"lodge-backend/utils"

	"gorm.io/datatypes"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, utils.DateLocation)
}

type rateKey struct {
	seasonID  uint
	dayType   string
	usageType string
	ageGroup  string
}

type fakeRateSource struct {
	rates     map[rateKey]int64
	seasons   []models.Season
	rules     []models.PricingRule
	rateErr   error
	seasonErr error
	rulesErr  error
}

func (f *fakeRateSource) RateFor(seasonID uint, dayType, usageType, ageGroup string) (int64, error) {
	if f.rateErr != nil {
		return 0, f.rateErr
	}
	if price, ok := f.rates[rateKey{seasonID, dayType, usageType, ageGroup}]; ok {
		return price, nil
	}
	return 0, ErrRateNotFound
}

func (f *fakeRateSource) SeasonFor(d time.Time) (*models.Season, error) {
	if f.seasonErr != nil {
		return nil, f.seasonErr
	}
	for i := range f.seasons {
		if f.seasons[i].IsActive && f.seasons[i].Covers(d) {
			return &f.seasons[i], nil
		}
	}
	return nil, nil
}

func (f *fakeRateSource) ActiveRules() ([]models.PricingRule, error) {
	if f.rulesErr != nil {
		return nil, f.rulesErr
	}
	out := []models.PricingRule{}
	for _, r := range f.rules {
		if r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func newTestPricing(rates *fakeRateSource) *PricingService {
	return NewPricingService(rates, []time.Weekday{time.Friday, time.Saturday})
}

func assertBreakdownInvariants(t *testing.T, b models.PriceBreakdown, wantNights int) {
	t.Helper()
	if len(b.DailyBreakdown) != wantNights {
		t.Fatalf("daily breakdown has %d entries, want %d", len(b.DailyBreakdown), wantNights)
	}
	if b.Total != b.RoomAmount+b.GuestAmount+b.AddonAmount {
		t.Errorf("total %d != room %d + guest %d + addon %d", b.Total, b.RoomAmount, b.GuestAmount, b.AddonAmount)
	}
	var dailySum int64
	for _, day := range b.DailyBreakdown {
		if day.Total != day.RoomAmount+day.GuestAmount+day.AddonAmount {
			t.Errorf("day %v: total %d does not decompose", day.Date, day.Total)
		}
		dailySum += day.Total
	}
	if dailySum != b.Total {
		t.Errorf("sum of daily totals %d != total %d", dailySum, b.Total)
	}
}

func TestCalculateTotalPriceRoomOnly(t *testing.T) {
	svc := newTestPricing(&fakeRateSource{})

	// Mon 2025-06-16 .. Wed 2025-06-18: two weekday nights, no guests.
	b, err := svc.CalculateTotalPrice(
		[]models.RoomUsage{{RoomID: 1, RoomRate: 20000, Capacity: 2, UsageType: models.UsagePrivate}},
		models.GuestCount{},
		models.DateRange{CheckIn: date(2025, 6, 16), CheckOut: date(2025, 6, 18)},
		nil,
	)
	if err != nil {
		t.Fatalf("CalculateTotalPrice: %v", err)
	}

	assertBreakdownInvariants(t, b, 2)
	if b.RoomAmount != 40000 {
		t.Errorf("room amount = %d, want 40000", b.RoomAmount)
	}
	if b.GuestAmount != 0 || b.AddonAmount != 0 {
		t.Errorf("guest/addon amounts = %d/%d, want 0/0", b.GuestAmount, b.AddonAmount)
	}
	if b.Total != 40000 {
		t.Errorf("total = %d, want 40000", b.Total)
	}
}

func TestCalculateTotalPriceInvalidInput(t *testing.T) {
	svc := newTestPricing(&fakeRateSource{})
	rooms := []models.RoomUsage{{RoomID: 1, RoomRate: 20000}}

	if _, err := svc.CalculateTotalPrice(nil, models.GuestCount{},
		models.DateRange{CheckIn: date(2025, 6, 16), CheckOut: date(2025, 6, 18)}, nil); !errors.Is(err, ErrInvalidStayParameters) {
		t.Errorf("empty rooms: err = %v, want ErrInvalidStayParameters", err)
	}

	if _, err := svc.CalculateTotalPrice(rooms, models.GuestCount{},
		models.DateRange{CheckIn: date(2025, 6, 16), CheckOut: date(2025, 6, 16)}, nil); !errors.Is(err, ErrInvalidStayParameters) {
		t.Errorf("zero nights: err = %v, want ErrInvalidStayParameters", err)
	}

	if _, err := svc.CalculateTotalPrice(rooms, models.GuestCount{},
		models.DateRange{CheckIn: date(2025, 6, 18), CheckOut: date(2025, 6, 16)}, nil); !errors.Is(err, ErrInvalidStayParameters) {
		t.Errorf("inverted range: err = %v, want ErrInvalidStayParameters", err)
	}
}

func TestCalculateTotalPriceGuestRates(t *testing.T) {
	rates := &fakeRateSource{
		rates: map[rateKey]int64{
			{0, models.DayTypeWeekday, models.UsagePrivate, models.AgeGroupAdult}: 4800,
			{0, models.DayTypeWeekend, models.UsagePrivate, models.AgeGroupAdult}: 5800,
			{0, models.DayTypeWeekday, models.UsagePrivate, models.AgeGroupChild}: 3200,
			{0, models.DayTypeWeekend, models.UsagePrivate, models.AgeGroupChild}: 3900,
		},
	}
	svc := newTestPricing(rates)

	// Thu 2025-06-19 .. Sat 2025-06-21: one weekday night, one weekend
	// night (Friday).
	b, err := svc.CalculateTotalPrice(
		[]models.RoomUsage{{RoomID: 1, RoomRate: 20000, UsageType: models.UsagePrivate}},
		models.GuestCount{Adults: 2, Children: 1},
		models.DateRange{CheckIn: date(2025, 6, 19), CheckOut: date(2025, 6, 21)},
		nil,
	)
	if err != nil {
		t.Fatalf("CalculateTotalPrice: %v", err)
	}

	assertBreakdownInvariants(t, b, 2)

	if b.DailyBreakdown[0].DayType != models.DayTypeWeekday {
		t.Errorf("night 1 dayType = %s, want weekday", b.DailyBreakdown[0].DayType)
	}
	if b.DailyBreakdown[1].DayType != models.DayTypeWeekend {
		t.Errorf("night 2 dayType = %s, want weekend", b.DailyBreakdown[1].DayType)
	}

	wantWeekday := int64(2*4800 + 3200)
	wantWeekend := int64(2*5800 + 3900)
	if b.DailyBreakdown[0].GuestAmount != wantWeekday {
		t.Errorf("weekday guest amount = %d, want %d", b.DailyBreakdown[0].GuestAmount, wantWeekday)
	}
	if b.DailyBreakdown[1].GuestAmount != wantWeekend {
		t.Errorf("weekend guest amount = %d, want %d", b.DailyBreakdown[1].GuestAmount, wantWeekend)
	}
	if b.GuestAmount != wantWeekday+wantWeekend {
		t.Errorf("guest amount = %d, want %d", b.GuestAmount, wantWeekday+wantWeekend)
	}

	// The flat room rate is untouched by day type.
	if b.RoomAmount != 40000 {
		t.Errorf("room amount = %d, want 40000", b.RoomAmount)
	}
}

func TestCalculateTotalPricePeakSeasonFallback(t *testing.T) {
	rates := &fakeRateSource{
		rates: map[rateKey]int64{
			{0, models.DayTypeWeekday, models.UsagePrivate, models.AgeGroupAdult}: 4800,
		},
		seasons: []models.Season{{
			Name:              "Summer Peak",
			SeasonType:        models.SeasonPeak,
			StartDate:         date(2025, 7, 15),
			EndDate:           date(2025, 8, 31),
			PaxRateMultiplier: 1.15,
			IsActive:          true,
		}},
	}
	rates.seasons[0].ID = 3
	svc := newTestPricing(rates)

	// Mon 2025-08-04, one night, inside the peak window with no
	// peak-specific rate row: regular row scaled by the pax multiplier.
	b, err := svc.CalculateTotalPrice(
		[]models.RoomUsage{{RoomID: 1, RoomRate: 20000, UsageType: models.UsagePrivate}},
		models.GuestCount{Adults: 1},
		models.DateRange{CheckIn: date(2025, 8, 4), CheckOut: date(2025, 8, 5)},
		nil,
	)
	if err != nil {
		t.Fatalf("CalculateTotalPrice: %v", err)
	}

	assertBreakdownInvariants(t, b, 1)
	if want := int64(5520); b.GuestAmount != want { // round(4800 * 1.15)
		t.Errorf("guest amount = %d, want %d", b.GuestAmount, want)
	}
	if b.DailyBreakdown[0].SeasonName != "Summer Peak" {
		t.Errorf("season = %q, want Summer Peak", b.DailyBreakdown[0].SeasonName)
	}
	// Flat room rate is never scaled by the season.
	if b.RoomAmount != 20000 {
		t.Errorf("room amount = %d, want 20000", b.RoomAmount)
	}
}

func TestCalculateTotalPriceMissingRatePricesZero(t *testing.T) {
	svc := newTestPricing(&fakeRateSource{}) // empty rate table

	b, err := svc.CalculateTotalPrice(
		[]models.RoomUsage{{RoomID: 1, RoomRate: 20000, UsageType: models.UsagePrivate}},
		models.GuestCount{Adults: 2},
		models.DateRange{CheckIn: date(2025, 6, 16), CheckOut: date(2025, 6, 17)},
		nil,
	)
	if err != nil {
		t.Fatalf("missing rate must not fail the calculation: %v", err)
	}
	if b.GuestAmount != 0 {
		t.Errorf("guest amount = %d, want 0 for missing rate", b.GuestAmount)
	}
	if b.Total != 20000 {
		t.Errorf("total = %d, want 20000", b.Total)
	}
}

func TestCalculateTotalPriceAddonsWholeStay(t *testing.T) {
	svc := newTestPricing(&fakeRateSource{})

	addons := []models.AddonItem{
		{ID: 1, Name: "Dinner", Quantity: 3, UnitPrice: 1500},
		{ID: 2, Name: "Linen", Quantity: 2, UnitPrice: 400},
	}

	b, err := svc.CalculateTotalPrice(
		[]models.RoomUsage{{RoomID: 1, RoomRate: 10000, UsageType: models.UsagePrivate}},
		models.GuestCount{},
		models.DateRange{CheckIn: date(2025, 6, 16), CheckOut: date(2025, 6, 19)},
		addons,
	)
	if err != nil {
		t.Fatalf("CalculateTotalPrice: %v", err)
	}

	assertBreakdownInvariants(t, b, 3)

	// Whole-stay flat: quantity × unit price, counted exactly once.
	if want := int64(3*1500 + 2*400); b.AddonAmount != want {
		t.Errorf("addon amount = %d, want %d", b.AddonAmount, want)
	}
	if b.DailyBreakdown[0].AddonAmount != b.AddonAmount {
		t.Errorf("first night addon = %d, want %d", b.DailyBreakdown[0].AddonAmount, b.AddonAmount)
	}
	for _, day := range b.DailyBreakdown[1:] {
		if day.AddonAmount != 0 {
			t.Errorf("night %v addon = %d, want 0", day.Date, day.AddonAmount)
		}
	}
}

func TestCalculatePriceRulePriorityOrder(t *testing.T) {
	peak := 1.15
	weekend := 1.22

	rules := &fakeRateSource{
		rules: []models.PricingRule{
			{
				ID: 2, Name: "Weekend uplift", RuleType: models.RuleWeekday,
				DaysOfWeek: datatypes.JSON([]byte("[5,6]")),
				Multiplier: &weekend, IsActive: true, Priority: 2,
			},
			{
				ID: 1, Name: "Peak season uplift", RuleType: models.RuleSeasonal,
				StartDate: timePtr(date(2025, 7, 15)), EndDate: timePtr(date(2025, 8, 31)),
				Multiplier: &peak, IsActive: true, Priority: 1,
			},
		},
	}
	svc := newTestPricing(rules)

	// Fri 2025-08-01: both rules fire. Priority 1 applies first:
	// 20000 × 1.15 = 23000, then × 1.22 = 28060.
	calc, err := svc.CalculatePrice(1, "Private Twin", 20000, date(2025, 8, 1), date(2025, 8, 2), 2)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}

	if calc.Nights != 1 {
		t.Fatalf("nights = %d, want 1", calc.Nights)
	}
	if calc.Subtotal != 28060 {
		t.Errorf("subtotal = %d, want 28060 (priority order matters)", calc.Subtotal)
	}
	if calc.Total != 28060 {
		t.Errorf("total = %d, want 28060", calc.Total)
	}

	if len(calc.AppliedRules) != 2 {
		t.Fatalf("applied rules = %d, want 2", len(calc.AppliedRules))
	}
	if calc.AppliedRules[0].Name != "Peak season uplift" || calc.AppliedRules[0].Amount != 3000 {
		t.Errorf("first applied rule = %+v, want Peak season uplift +3000", calc.AppliedRules[0])
	}
	if calc.AppliedRules[1].Name != "Weekend uplift" || calc.AppliedRules[1].Amount != 5060 {
		t.Errorf("second applied rule = %+v, want Weekend uplift +5060", calc.AppliedRules[1])
	}
}

func TestCalculatePriceAddonRuleAppliedOnce(t *testing.T) {
	fee := int64(500)
	rules := &fakeRateSource{
		rules: []models.PricingRule{
			{ID: 7, Name: "Facility fee", RuleType: models.RuleAddon, FixedAmount: &fee, IsActive: true, Priority: 10},
		},
	}
	svc := newTestPricing(rules)

	// Two weekday nights, two guests: 500 × 2 × 2 = 2000, once.
	calc, err := svc.CalculatePrice(1, "Private Twin", 10000, date(2025, 6, 16), date(2025, 6, 18), 2)
	if err != nil {
		t.Fatalf("CalculatePrice: %v", err)
	}

	if calc.Subtotal != 20000 {
		t.Errorf("subtotal = %d, want 20000", calc.Subtotal)
	}
	if calc.AddonTotal != 2000 {
		t.Errorf("addon total = %d, want 2000", calc.AddonTotal)
	}
	if calc.Total != 22000 {
		t.Errorf("total = %d, want 22000", calc.Total)
	}
}

func TestApplicableRulesFilteringAndOrder(t *testing.T) {
	m := 1.1
	rules := &fakeRateSource{
		rules: []models.PricingRule{
			{ID: 1, Name: "Inactive", RuleType: models.RuleSpecial, StartDate: timePtr(date(2025, 6, 1)), EndDate: timePtr(date(2025, 6, 30)), Multiplier: &m, IsActive: false, Priority: 1},
			{ID: 2, Name: "Other room type", RuleType: models.RuleAddon, RoomType: "Shared Bunk", FixedAmount: int64Ptr(100), IsActive: true, Priority: 1},
			{ID: 3, Name: "June special", RuleType: models.RuleSpecial, StartDate: timePtr(date(2025, 6, 1)), EndDate: timePtr(date(2025, 6, 30)), Multiplier: &m, IsActive: true, Priority: 5},
			{ID: 4, Name: "Monday deal", RuleType: models.RuleWeekday, DaysOfWeek: datatypes.JSON([]byte("[1]")), Multiplier: &m, IsActive: true, Priority: 3},
			{ID: 5, Name: "Out of window", RuleType: models.RuleSeasonal, StartDate: timePtr(date(2025, 7, 1)), EndDate: timePtr(date(2025, 7, 31)), Multiplier: &m, IsActive: true, Priority: 1},
		},
	}
	svc := newTestPricing(rules)

	// Mon 2025-06-16 for a Private Twin.
	got, err := svc.ApplicableRules("Private Twin", date(2025, 6, 16), time.Monday)
	if err != nil {
		t.Fatalf("ApplicableRules: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("got %d rules, want 2", len(got))
	}
	if got[0].Name != "Monday deal" || got[1].Name != "June special" {
		t.Errorf("rule order = [%s, %s], want [Monday deal, June special]", got[0].Name, got[1].Name)
	}
}

func timePtr(t time.Time) *time.Time { return &t }
func int64Ptr(v int64) *int64        { return &v }
