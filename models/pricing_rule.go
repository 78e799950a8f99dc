package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Pricing rule types.
const (
	RuleSeasonal = "seasonal"
	RuleWeekday  = "weekday"
	RuleSpecial  = "special"
	RuleAddon    = "addon"
)

// PricingRule is one entry of the secondary rule layer used by the
// quick-estimate pricing path and the admin simulation tooling.
// Multiplier rules scale the running nightly price; addon rules add a
// flat per-guest-per-night amount once after the nightly loop.
type PricingRule struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"size:255" json:"name"`
	RuleType string `gorm:"column:rule_type;size:16;index" json:"ruleType"`

	// Empty RoomType means the rule applies to every room type.
	RoomType string `gorm:"column:room_type;size:64" json:"roomType,omitempty"`

	StartDate *time.Time `gorm:"column:start_date" json:"startDate,omitempty"`
	EndDate   *time.Time `gorm:"column:end_date" json:"endDate,omitempty"`

	// DaysOfWeek holds a JSON array of time.Weekday ints (0=Sunday)
	// for weekday-type rules.
	DaysOfWeek datatypes.JSON `gorm:"column:days_of_week" json:"daysOfWeek,omitempty"`

	Multiplier  *float64 `gorm:"column:multiplier" json:"multiplier,omitempty"`
	FixedAmount *int64   `gorm:"column:fixed_amount" json:"fixedAmount,omitempty"`

	IsActive bool `gorm:"column:is_active;default:true" json:"isActive"`
	Priority int  `gorm:"column:priority;default:100" json:"priority"`
}

// Weekdays decodes the DaysOfWeek column. A missing or malformed
// column yields an empty set, which matches no day.
func (r PricingRule) Weekdays() []time.Weekday {
	if len(r.DaysOfWeek) == 0 {
		return nil
	}
	var raw []int
	if err := json.Unmarshal(r.DaysOfWeek, &raw); err != nil {
		return nil
	}
	days := make([]time.Weekday, 0, len(raw))
	for _, d := range raw {
		days = append(days, time.Weekday(d))
	}
	return days
}

// AppliesOn reports whether the rule matches the given calendar date
// and day of week, per its type-specific predicate.
func (r PricingRule) AppliesOn(date time.Time, day time.Weekday) bool {
	if !r.IsActive {
		return false
	}
	switch r.RuleType {
	case RuleSeasonal, RuleSpecial:
		if r.StartDate == nil || r.EndDate == nil {
			return false
		}
		return !date.Before(*r.StartDate) && !date.After(*r.EndDate)
	case RuleWeekday:
		for _, d := range r.Weekdays() {
			if d == day {
				return true
			}
		}
		return false
	case RuleAddon:
		return true
	}
	return false
}
