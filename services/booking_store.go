package services

import (
	"fmt"
	"time"

	"lodge-backend/models"
	"lodge-backend/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Booking statuses that occupy a room for conflict purposes.
var blockingStatuses = []string{
	models.BookingPending,
	models.BookingConfirmed,
	models.BookingCheckedIn,
}

// GormBookingStore implements BookingStore against MySQL.
type GormBookingStore struct {
	DB  *gorm.DB
	now func() time.Time
}

func NewGormBookingStore(db *gorm.DB) *GormBookingStore {
	return &GormBookingStore{DB: db, now: time.Now}
}

func (s *GormBookingStore) OverlappingBookings(roomIDs []uint, start, end time.Time, excludeBookingID uint) ([]models.BookedStay, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}

	q := s.DB.
		Table("booking_rooms").
		Select(`bookings.id AS booking_id,
			booking_rooms.room_id AS room_id,
			bookings.customer_name AS guest_name,
			bookings.check_in_date AS check_in,
			bookings.check_out_date AS check_out,
			bookings.status AS status`).
		Joins("JOIN bookings ON bookings.id = booking_rooms.booking_id").
		Where("booking_rooms.room_id IN ?", roomIDs).
		Where("bookings.status IN ?", blockingStatuses).
		Where("bookings.deleted_at IS NULL AND booking_rooms.deleted_at IS NULL").
		// Half-open overlap: existing.check_in < end AND start < existing.check_out.
		Where("bookings.check_in_date < ? AND bookings.check_out_date > ?", end, start).
		Order("booking_rooms.room_id ASC, bookings.id ASC")

	if excludeBookingID != 0 {
		q = q.Where("bookings.id <> ?", excludeBookingID)
	}

	var stays []models.BookedStay
	if err := q.Scan(&stays).Error; err != nil {
		return nil, fmt.Errorf("failed to query overlapping bookings: %w", err)
	}
	return stays, nil
}

func (s *GormBookingStore) ActiveRoomsByID(roomIDs []uint) ([]models.Room, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}
	var rooms []models.Room
	if err := s.DB.
		Preload("RoomType").
		Where("id IN ? AND is_active = ?", roomIDs, true).
		Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}
	return rooms, nil
}

func (s *GormBookingStore) ActiveRooms() ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.
		Preload("RoomType").
		Where("is_active = ?", true).
		Order("room_number ASC").
		Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to load rooms: %w", err)
	}
	return rooms, nil
}

// AcquireLock grants a session an exclusive claim on the room/date
// tuple, or reports who else holds one. The whole check-and-set runs
// in one transaction with the competing rows read FOR UPDATE, so two
// sessions racing for the same window serialize at the database.
func (s *GormBookingStore) AcquireLock(sessionID string, roomIDs []uint, start, end time.Time, ttl time.Duration) (models.LockResult, error) {
	var result models.LockResult
	now := s.now()

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		// Expired rows are garbage, not claims.
		if err := tx.
			Where("expires_at <= ?", now).
			Delete(&models.BookingLock{}).Error; err != nil {
			return fmt.Errorf("failed to sweep expired locks: %w", err)
		}

		var competing []models.BookingLock
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("room_id IN ? AND expires_at > ?", roomIDs, now).
			Where("start_date < ? AND end_date > ?", end, start).
			Where("session_id <> ?", sessionID).
			Find(&competing).Error; err != nil {
			return fmt.Errorf("failed to query competing locks: %w", err)
		}

		sessions := map[string]bool{}
		for _, l := range competing {
			sessions[l.SessionID] = true
		}
		result.OtherActiveSessions = len(sessions)

		if len(competing) > 0 {
			result.LockAcquired = false
			return nil
		}

		// Re-acquisition replaces the session's previous claim.
		if err := tx.
			Where("session_id = ? AND room_id IN ?", sessionID, roomIDs).
			Delete(&models.BookingLock{}).Error; err != nil {
			return fmt.Errorf("failed to replace previous lock: %w", err)
		}

		expiresAt := now.Add(ttl)
		locks := make([]models.BookingLock, 0, len(roomIDs))
		for _, roomID := range roomIDs {
			locks = append(locks, models.BookingLock{
				SessionID: sessionID,
				RoomID:    roomID,
				StartDate: utils.CalendarDate(start),
				EndDate:   utils.CalendarDate(end),
				ExpiresAt: expiresAt,
			})
		}
		if err := tx.Create(&locks).Error; err != nil {
			return fmt.Errorf("failed to create lock: %w", err)
		}

		result.LockAcquired = true
		result.LockExpiresAt = expiresAt
		return nil
	})
	if err != nil {
		return models.LockResult{}, err
	}
	return result, nil
}
