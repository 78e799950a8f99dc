package models

import "time"

// DateRange is a half-open calendar interval [CheckIn, CheckOut): the
// checkout date is not an occupied night. Both ends are calendar dates
// (midnight in the reference location).
type DateRange struct {
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
}

// Nights is the number of occupied nights. Zero or negative means the
// range is invalid for a stay.
func (d DateRange) Nights() int {
	return int(d.CheckOut.Sub(d.CheckIn).Hours() / 24)
}

// GuestCount carries the party size per priced age group.
type GuestCount struct {
	Adults       int `json:"adults"`
	AdultLeaders int `json:"adultLeaders"`
	Students     int `json:"students"`
	Children     int `json:"children"`
	Infants      int `json:"infants"`
	Babies       int `json:"babies"`
}

// Total sums every age group.
func (g GuestCount) Total() int {
	return g.Adults + g.AdultLeaders + g.Students + g.Children + g.Infants + g.Babies
}

// ByGroup returns (age group, count) pairs in canonical order.
func (g GuestCount) ByGroup() []GroupCount {
	return []GroupCount{
		{AgeGroupAdult, g.Adults},
		{AgeGroupAdultLeader, g.AdultLeaders},
		{AgeGroupStudent, g.Students},
		{AgeGroupChild, g.Children},
		{AgeGroupInfant, g.Infants},
		{AgeGroupBaby, g.Babies},
	}
}

type GroupCount struct {
	AgeGroup string `json:"ageGroup"`
	Count    int    `json:"count"`
}

// RoomUsage is one room selected for a stay, immutable for the
// duration of a single price calculation.
type RoomUsage struct {
	RoomID uint `json:"roomId"`
	// RoomRate is the flat per-night price in yen.
	RoomRate  int64  `json:"roomRate"`
	Capacity  int    `json:"capacity"`
	UsageType string `json:"usageType"`
}

// AddonItem is a whole-stay add-on line. TotalPrice is always
// Quantity × UnitPrice; callers wanting a per-night add-on pre-multiply
// the quantity by the night count.
type AddonItem struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
	TotalPrice int64 `json:"totalPrice"`
}

// DailyCharge is one night of a resolved price breakdown.
type DailyCharge struct {
	Date        time.Time `json:"date"`
	DayType     string    `json:"dayType"`
	SeasonName  string    `json:"season"`
	RoomAmount  int64     `json:"roomAmount"`
	GuestAmount int64     `json:"guestAmount"`
	AddonAmount int64     `json:"addonAmount"`
	Total       int64     `json:"total"`
}

// PriceBreakdown is the output of the rate-table pricing strategy.
// Total == RoomAmount + GuestAmount + AddonAmount, and also equals the
// sum of the daily totals.
type PriceBreakdown struct {
	RoomAmount     int64         `json:"roomAmount"`
	GuestAmount    int64         `json:"guestAmount"`
	AddonAmount    int64         `json:"addonAmount"`
	Total          int64         `json:"total"`
	DailyBreakdown []DailyCharge `json:"dailyBreakdown"`
}

// AppliedRule records one pricing rule's contribution in the
// rule-multiplier strategy, for the audit trail.
type AppliedRule struct {
	RuleID   uint   `json:"ruleId"`
	Name     string `json:"name"`
	RuleType string `json:"ruleType"`
	// Amount is the rule's marginal yen contribution across the stay.
	Amount int64 `json:"amount"`
}

// PricingCalculation is the output of the rule-multiplier strategy
// used by the quick-estimate path.
type PricingCalculation struct {
	RoomID         uint          `json:"roomId"`
	RoomType       string        `json:"roomType"`
	BasePrice      int64         `json:"basePrice"`
	Nights         int           `json:"nights"`
	GuestCount     int           `json:"guestCount"`
	Subtotal       int64         `json:"subtotal"`
	AddonTotal     int64         `json:"addonTotal"`
	Total          int64         `json:"total"`
	AppliedRules   []AppliedRule `json:"appliedRules"`
	DailyBreakdown []DailyCharge `json:"dailyBreakdown"`
}
