package models

import (
	"time"

	"gorm.io/gorm"
)

// Season types.
const (
	SeasonRegular = "regular"
	SeasonPeak    = "peak"
)

// Season is a named calendar interval with its own rate multipliers.
// A calendar date belongs to at most one active season; dates covered
// by no season are priced as the regular period.
type Season struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name       string    `gorm:"size:255" json:"name"`
	SeasonType string    `gorm:"column:season_type;size:16;default:regular" json:"seasonType"`
	StartDate  time.Time `gorm:"column:start_date;index" json:"startDate"`
	EndDate    time.Time `gorm:"column:end_date;index" json:"endDate"`

	// RoomRateMultiplier and PaxRateMultiplier scale rate-table lookups
	// that have no season-specific row. They never touch the flat
	// per-night room price.
	RoomRateMultiplier float64 `gorm:"column:room_rate_multiplier;default:1" json:"roomRateMultiplier"`
	PaxRateMultiplier  float64 `gorm:"column:pax_rate_multiplier;default:1" json:"paxRateMultiplier"`

	IsActive bool `gorm:"column:is_active;default:true" json:"isActive"`
}

// Covers reports whether the calendar date d falls inside the season,
// both bounds inclusive.
func (s Season) Covers(d time.Time) bool {
	return !d.Before(s.StartDate) && !d.After(s.EndDate)
}
