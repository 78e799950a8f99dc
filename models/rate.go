package models

import (
	"time"

	"gorm.io/gorm"
)

// Day types for rate lookup.
const (
	DayTypeWeekday = "weekday"
	DayTypeWeekend = "weekend"
)

// Room usage types.
const (
	UsageShared  = "shared"
	UsagePrivate = "private"
)

// Age groups priced by the rate table.
const (
	AgeGroupAdult       = "adult"
	AgeGroupAdultLeader = "adult_leader"
	AgeGroupStudent     = "student"
	AgeGroupChild       = "child"
	AgeGroupInfant      = "infant"
	AgeGroupBaby        = "baby"
)

// AgeGroups lists every priced age group in display order.
var AgeGroups = []string{
	AgeGroupAdult,
	AgeGroupAdultLeader,
	AgeGroupStudent,
	AgeGroupChild,
	AgeGroupInfant,
	AgeGroupBaby,
}

// Rate is one row of the per-guest price table, keyed by
// (season, day type, usage type, age group). SeasonID 0 is the
// regular-period row; peak seasons carry their own rows.
type Rate struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	SeasonID  uint   `gorm:"column:season_id;uniqueIndex:idx_rate_key" json:"seasonId"`
	DayType   string `gorm:"column:day_type;size:16;uniqueIndex:idx_rate_key" json:"dayType"`
	UsageType string `gorm:"column:usage_type;size:16;uniqueIndex:idx_rate_key" json:"usageType"`
	AgeGroup  string `gorm:"column:age_group;size:32;uniqueIndex:idx_rate_key" json:"ageGroup"`

	// BasePrice is the nightly charge per guest in whole yen.
	BasePrice int64 `gorm:"column:base_price" json:"basePrice"`
}
