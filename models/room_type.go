package models

import (
	"time"

	"gorm.io/gorm"
)

type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	TypeName    string `json:"typeName"`
	Description string `json:"description"`
	MaxGuests   uint   `json:"maxGuests"`

	// UsageType selects the rate-table column group for rooms of this
	// type: shared bunk rooms vs private rooms.
	UsageType string `gorm:"column:usage_type;size:16;default:private" json:"usageType"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
