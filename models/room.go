package models

import (
	"gorm.io/gorm"
)

type Room struct {
	gorm.Model

	// Nullable so a payload without a valid FK doesn't force a 0 insert.
	RoomTypeID *uint  `json:"roomTypeId,omitempty" gorm:"column:room_type_id"`
	RoomNumber string `json:"roomNumber" gorm:"column:room_number;uniqueIndex;type:varchar(50)"`
	Floor      string `json:"floor" gorm:"type:varchar(10)"`

	Status string `json:"status" gorm:"size:64;default:Available"`

	// Price is the flat per-night room charge in whole yen. Season and
	// day-type multipliers apply to the rate table, never to this field.
	Price        int64 `json:"price"`
	MaxOccupancy int   `json:"maxOccupancy" gorm:"column:max_occupancy"`
	IsActive     bool  `json:"isActive" gorm:"column:is_active;default:true"`

	Description string `json:"description" gorm:"type:text"`

	RoomType RoomType `gorm:"foreignKey:RoomTypeID" json:"roomType,omitempty"`
}

// Usage resolves the room's rate-table usage type, defaulting to
// private when no room type is attached.
func (r Room) Usage() string {
	if r.RoomType.ID != 0 && r.RoomType.UsageType != "" {
		return r.RoomType.UsageType
	}
	return UsagePrivate
}
