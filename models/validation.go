package models

import "time"

// BookedStay is the slice of an existing booking relevant to conflict
// checks, as returned by the booking store.
type BookedStay struct {
	BookingID uint      `json:"bookingId"`
	RoomID    uint      `json:"roomId"`
	GuestName string    `json:"guestName"`
	CheckIn   time.Time `json:"checkIn"`
	CheckOut  time.Time `json:"checkOut"`
	Status    string    `json:"status"`
}

// BookingConflict describes one overlap between a candidate assignment
// and an existing booking for the same room.
type BookingConflict struct {
	RoomID               uint      `json:"roomId"`
	ConflictingBookingID uint      `json:"conflictingBookingId"`
	ConflictingGuestName string    `json:"conflictingGuestName"`
	OverlapStart         time.Time `json:"overlapStart"`
	OverlapEnd           time.Time `json:"overlapEnd"`
	OverlapNights        int       `json:"overlapNights"`
}

// BookingValidation is the structured result of a conflict or
// pre-commit check. Errors block commit; warnings do not.
type BookingValidation struct {
	IsValid    bool              `json:"isValid"`
	Conflicts  []BookingConflict `json:"conflicts"`
	Warnings   []string          `json:"warnings"`
	Errors     []string          `json:"errors"`
	CanProceed bool              `json:"canProceed"`
}

// RealtimeUpdateResult wraps a conflict check for polling UIs.
type RealtimeUpdateResult struct {
	Success   bool              `json:"success"`
	Conflicts []BookingConflict `json:"conflicts"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Message   string            `json:"message"`
}

// LockResult reports the outcome of an exclusive lock request.
// OtherActiveSessions is advisory telemetry for the UI, not a
// correctness mechanism.
type LockResult struct {
	LockAcquired        bool      `json:"lockAcquired"`
	LockExpiresAt       time.Time `json:"lockExpiresAt"`
	OtherActiveSessions int       `json:"otherActiveSessions"`
}

// Resolution option types.
const (
	ResolutionAlternativeRoom  = "alternative_room"
	ResolutionAlternativeDates = "alternative_dates"
)

// ResolutionOption is one suggested way out of a detected conflict.
type ResolutionOption struct {
	Type        string     `json:"type"`
	RoomID      uint       `json:"roomId,omitempty"`
	RoomNumber  string     `json:"roomNumber,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Description string     `json:"description"`
}

// ConflictResolution is the result of re-checking an edited booking.
// ResolutionOptions may be empty; callers must not assume a suggestion
// exists.
type ConflictResolution struct {
	HasNewConflicts   bool               `json:"hasNewConflicts"`
	Conflicts         []BookingConflict  `json:"conflicts"`
	ResolutionOptions []ResolutionOption `json:"resolutionOptions"`
}
