package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"lodge-backend/models"
	"lodge-backend/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ValidationError carries a failed pre-commit validation back to the
// controller so the form can render every problem at once.
type ValidationError struct {
	Validation models.BookingValidation
}

func (e *ValidationError) Error() string {
	return "validation: " + strings.Join(e.Validation.Errors, "; ")
}

// CreateBookingInput is the booking form payload.
type CreateBookingInput struct {
	CustomerName  string             `json:"customerName"`
	CustomerEmail string             `json:"customerEmail"`
	CustomerPhone string             `json:"customerPhone"`
	CheckIn       string             `json:"checkIn"`
	CheckOut      string             `json:"checkOut"`
	RoomIDs       []uint             `json:"roomIds"`
	Guests        models.GuestCount  `json:"guests"`
	Addons        []models.AddonItem `json:"addons"`
}

// BookingService persists bookings. It composes the conflict validator
// and the pricing engine: nothing is written until the pre-commit
// validation passes, and the overlap check is repeated inside the
// write transaction because an advisory lock alone cannot rule out a
// race between validation and insert.
type BookingService struct {
	DB        *gorm.DB
	validator *BookingValidationService
	pricing   *PricingService
}

func NewBookingService(db *gorm.DB, validator *BookingValidationService, pricing *PricingService) *BookingService {
	return &BookingService{DB: db, validator: validator, pricing: pricing}
}

func (s *BookingService) CreateBooking(input CreateBookingInput) (models.Booking, error) {
	var booking models.Booking

	checkIn, err := utils.ParseCalendarDate(input.CheckIn)
	if err != nil {
		return booking, fmt.Errorf("invalid check_in: %w", err)
	}
	checkOut, err := utils.ParseCalendarDate(input.CheckOut)
	if err != nil {
		return booking, fmt.Errorf("invalid check_out: %w", err)
	}
	if len(input.RoomIDs) == 0 {
		return booking, ErrInvalidStayParameters
	}

	rooms, err := s.loadRequestedRooms(input.RoomIDs)
	if err != nil {
		return booking, err
	}

	candidate := BookingCandidate{
		RoomIDs:   input.RoomIDs,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    input.Guests,
		GuestName: input.CustomerName,
	}
	if v := s.validator.FinalValidationBeforeCommit(candidate, 0); !v.CanProceed {
		return booking, &ValidationError{Validation: v}
	}

	usages := make([]models.RoomUsage, 0, len(rooms))
	for _, r := range rooms {
		usages = append(usages, models.RoomUsage{
			RoomID:    r.ID,
			RoomRate:  r.Price,
			Capacity:  r.MaxOccupancy,
			UsageType: r.Usage(),
		})
	}

	for i := range input.Addons {
		input.Addons[i].TotalPrice = int64(input.Addons[i].Quantity) * input.Addons[i].UnitPrice
	}

	breakdown, err := s.pricing.CalculateTotalPrice(
		usages, input.Guests,
		models.DateRange{CheckIn: checkIn, CheckOut: checkOut},
		input.Addons,
	)
	if err != nil {
		return booking, fmt.Errorf("failed to price stay: %w", err)
	}

	addonJSON, _ := json.Marshal(input.Addons) // best-effort
	nights := utils.NightsBetween(checkIn, checkOut)

	txErr := s.DB.Transaction(func(tx *gorm.DB) error {
		// Commit-time re-check under a row lock: the advisory editing
		// lock and the earlier validation are both check-then-act from
		// here, so this query is the one that actually decides.
		var clashing int64
		if err := tx.
			Table("booking_rooms").
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Joins("JOIN bookings ON bookings.id = booking_rooms.booking_id").
			Where("booking_rooms.room_id IN ?", input.RoomIDs).
			Where("bookings.status IN ?", blockingStatuses).
			Where("bookings.deleted_at IS NULL AND booking_rooms.deleted_at IS NULL").
			Where("bookings.check_in_date < ? AND bookings.check_out_date > ?", checkOut, checkIn).
			Count(&clashing).Error; err != nil {
			return fmt.Errorf("failed commit-time conflict check: %w", err)
		}
		if clashing > 0 {
			return ErrConflictDetected
		}

		booking = models.Booking{
			ReferenceCode:  utils.NewReferenceCode(),
			Status:         models.BookingConfirmed,
			CustomerName:   strings.TrimSpace(input.CustomerName),
			CustomerEmail:  strings.TrimSpace(input.CustomerEmail),
			CustomerPhone:  strings.TrimSpace(input.CustomerPhone),
			CheckInDate:    &checkIn,
			CheckOutDate:   &checkOut,
			Nights:         nights,
			Adults:         input.Guests.Adults,
			AdultLeaders:   input.Guests.AdultLeaders,
			Students:       input.Guests.Students,
			Children:       input.Guests.Children,
			Infants:        input.Guests.Infants,
			Babies:         input.Guests.Babies,
			NumberOfGuests: input.Guests.Total(),
			AddonItems:     datatypes.JSON(addonJSON),
			RoomAmount:     breakdown.RoomAmount,
			GuestAmount:    breakdown.GuestAmount,
			AddonAmount:    breakdown.AddonAmount,
			TotalAmount:    breakdown.Total,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		for _, r := range rooms {
			br := models.BookingRoom{
				BookingID: booking.ID,
				RoomID:    r.ID,
				Nights:    nights,
				RoomRate:  r.Price,
				Status:    "Reserved",
			}
			if err := tx.Create(&br).Error; err != nil {
				return fmt.Errorf("failed to create booking_room for room %d: %w", r.ID, err)
			}

			if err := tx.Model(&models.Room{}).
				Where("id = ?", r.ID).
				Updates(map[string]interface{}{"status": "Reserved"}).Error; err != nil {
				return fmt.Errorf("failed to update room %d status: %w", r.ID, err)
			}
		}
		return nil
	})
	if txErr != nil {
		return models.Booking{}, txErr
	}

	// reload with relations
	if err := s.DB.
		Preload("Rooms").
		Preload("Rooms.Room").
		Preload("Rooms.Room.RoomType").
		First(&booking, booking.ID).Error; err != nil {
		return booking, err
	}
	return booking, nil
}

func (s *BookingService) loadRequestedRooms(roomIDs []uint) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.DB.
		Preload("RoomType").
		Where("id IN ? AND is_active = ?", roomIDs, true).
		Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("db error loading rooms: %w", err)
	}
	found := map[uint]bool{}
	for _, r := range rooms {
		found[r.ID] = true
	}
	for _, id := range roomIDs {
		if !found[id] {
			return nil, fmt.Errorf("validation: room %d not found or inactive", id)
		}
	}
	return rooms, nil
}

func (s *BookingService) GetBookingDetails(bookingID uint) (*models.Booking, error) {
	var bk models.Booking
	if err := s.DB.
		Preload("Rooms.Room.RoomType").
		First(&bk, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to retrieve booking details: %w", err)
	}
	return &bk, nil
}

func (s *BookingService) GetAllWithRelations() ([]models.Booking, error) {
	var list []models.Booking
	if err := s.DB.
		Preload("Rooms").
		Preload("Rooms.Room").
		Preload("Rooms.Room.RoomType").
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	for i := range list {
		if list[i].Rooms == nil {
			list[i].Rooms = []models.BookingRoom{}
		}
	}
	return list, nil
}

// CancelBooking releases the rooms and marks the booking cancelled.
func (s *BookingService) CancelBooking(bookingID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Preload("Rooms").First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status == models.BookingCheckedOut || booking.Status == models.BookingCancelled {
			return fmt.Errorf("cannot cancel a %s booking", strings.ToLower(booking.Status))
		}

		if err := tx.Model(&booking).Updates(map[string]interface{}{
			"status": models.BookingCancelled,
		}).Error; err != nil {
			return err
		}
		return s.releaseRooms(tx, booking.Rooms)
	})
}

// CheckoutBooking transitions Checked-In -> Checked-Out and frees the
// rooms.
func (s *BookingService) CheckoutBooking(bookingID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.Preload("Rooms").First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status != models.BookingCheckedIn {
			return errors.New("not_checked_in")
		}

		now := time.Now()
		if err := tx.Model(&booking).Updates(map[string]interface{}{
			"status":         models.BookingCheckedOut,
			"checked_out_at": now,
		}).Error; err != nil {
			return err
		}
		return s.releaseRooms(tx, booking.Rooms)
	})
}

// CheckInBooking marks a confirmed booking as checked in.
func (s *BookingService) CheckInBooking(bookingID uint) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&booking, bookingID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.Status != models.BookingConfirmed && booking.Status != models.BookingPending {
			return fmt.Errorf("cannot check in a %s booking", strings.ToLower(booking.Status))
		}

		now := time.Now()
		return tx.Model(&booking).Updates(map[string]interface{}{
			"status":        models.BookingCheckedIn,
			"checked_in_at": now,
		}).Error
	})
}

func (s *BookingService) releaseRooms(tx *gorm.DB, rooms []models.BookingRoom) error {
	for _, br := range rooms {
		if err := tx.Model(&models.Room{}).
			Where("id = ?", br.RoomID).
			Updates(map[string]interface{}{"status": "Available"}).Error; err != nil {
			return err
		}
	}
	return nil
}

// DeleteByReferenceCode removes a booking by its public reference.
func (s *BookingService) DeleteByReferenceCode(referenceCode string) error {
	if err := s.DB.Where("reference_code = ?", referenceCode).Delete(&models.Booking{}).Error; err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	return nil
}
