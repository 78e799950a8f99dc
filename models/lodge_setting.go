package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

type LodgeSetting struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"size:255" json:"name"`
	Address string `gorm:"type:text" json:"address"`
	Phone   string `gorm:"size:50" json:"phone"`
	Email   string `gorm:"size:150" json:"email"`

	// WeekendDays is a JSON array of time.Weekday ints that the pricing
	// engine treats as weekend nights. Default is Friday and Saturday.
	WeekendDays datatypes.JSON `gorm:"column:weekend_days" json:"weekendDays,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Weekend decodes the configured weekend set, falling back to Fri/Sat
// when unset or malformed.
func (s LodgeSetting) Weekend() []time.Weekday {
	if len(s.WeekendDays) > 0 {
		var raw []int
		if err := json.Unmarshal(s.WeekendDays, &raw); err == nil && len(raw) > 0 {
			days := make([]time.Weekday, 0, len(raw))
			for _, d := range raw {
				days = append(days, time.Weekday(d))
			}
			return days
		}
	}
	return []time.Weekday{time.Friday, time.Saturday}
}
