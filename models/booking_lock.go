package models

import "time"

// LockTTL is how long an exclusive booking lock stays valid. Locks are
// not renewable; a session re-acquires instead.
const LockTTL = 10 * time.Minute

// BookingLock is a time-boxed advisory exclusivity claim on one room
// for a date range, held by one editing session. A multi-room claim is
// stored as one row per room so overlap checks stay plain SQL. The
// lock is advisory: commit paths re-check conflicts regardless.
type BookingLock struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time

	SessionID string    `gorm:"column:session_id;size:64;index" json:"sessionId"`
	RoomID    uint      `gorm:"column:room_id;index" json:"roomId"`
	StartDate time.Time `gorm:"column:start_date" json:"startDate"`
	EndDate   time.Time `gorm:"column:end_date" json:"endDate"`
	ExpiresAt time.Time `gorm:"column:expires_at;index" json:"expiresAt"`
}
