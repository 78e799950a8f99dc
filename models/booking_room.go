package models

import (
	"gorm.io/gorm"
)

type BookingRoom struct {
	gorm.Model
	BookingID uint `gorm:"index;column:booking_id" json:"bookingId"`
	RoomID    uint `gorm:"index;column:room_id" json:"roomId"`

	Nights int `gorm:"column:nights;default:0" json:"nights,omitempty"`

	// RoomRate freezes the per-night room price at booking time.
	RoomRate int64  `gorm:"column:room_rate" json:"roomRate"`
	Status   string `gorm:"column:status;size:64" json:"status,omitempty"`

	Room Room `gorm:"foreignKey:RoomID;references:ID" json:"room,omitempty"`
}
