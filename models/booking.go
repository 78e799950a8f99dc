package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Booking statuses.
const (
	BookingPending    = "Pending"
	BookingConfirmed  = "Confirmed"
	BookingCancelled  = "Cancelled"
	BookingCheckedIn  = "Checked-In"
	BookingCheckedOut = "Checked-Out"
)

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ReferenceCode string `gorm:"column:reference_code;size:64;uniqueIndex" json:"referenceCode"`
	Status        string `gorm:"column:status;size:64;index" json:"status"`

	// CustomerName is the representative for the stay.
	CustomerName  string `gorm:"column:customer_name;size:255" json:"customerName"`
	CustomerEmail string `gorm:"column:customer_email;size:150" json:"customerEmail,omitempty"`
	CustomerPhone string `gorm:"column:customer_phone;size:50" json:"customerPhone,omitempty"`

	// Calendar dates, half-open: the checkout date is not occupied.
	CheckInDate  *time.Time `gorm:"column:check_in_date;index" json:"checkInDate,omitempty"`
	CheckOutDate *time.Time `gorm:"column:check_out_date;index" json:"checkOutDate,omitempty"`
	Nights       int        `gorm:"column:nights" json:"nights,omitempty"`

	Adults       int `gorm:"column:adults;default:0" json:"adults"`
	AdultLeaders int `gorm:"column:adult_leaders;default:0" json:"adultLeaders"`
	Students     int `gorm:"column:students;default:0" json:"students"`
	Children     int `gorm:"column:children;default:0" json:"children"`
	Infants      int `gorm:"column:infants;default:0" json:"infants"`
	Babies       int `gorm:"column:babies;default:0" json:"babies"`

	NumberOfGuests int `gorm:"column:number_of_guests" json:"numberOfGuests"`

	// AddonItems stores the whole-stay add-on lines as JSON.
	AddonItems datatypes.JSON `gorm:"column:addon_items" json:"addonItems,omitempty"`

	RoomAmount  int64 `gorm:"column:room_amount" json:"roomAmount"`
	GuestAmount int64 `gorm:"column:guest_amount" json:"guestAmount"`
	AddonAmount int64 `gorm:"column:addon_amount" json:"addonAmount"`
	TotalAmount int64 `gorm:"column:total_amount" json:"totalAmount"`

	CheckedInAt  *time.Time `gorm:"column:checked_in_at" json:"checkedInAt,omitempty"`
	CheckedOutAt *time.Time `gorm:"column:checked_out_at" json:"checkedOutAt,omitempty"`

	Rooms []BookingRoom `gorm:"foreignKey:BookingID" json:"rooms"`
}

// Guests assembles the per-age-group counts stored on the row.
func (b Booking) Guests() GuestCount {
	return GuestCount{
		Adults:       b.Adults,
		AdultLeaders: b.AdultLeaders,
		Students:     b.Students,
		Children:     b.Children,
		Infants:      b.Infants,
		Babies:       b.Babies,
	}
}
