package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"lodge-backend/services"
	"lodge-backend/utils"

	"github.com/gin-gonic/gin"
)

type BookingController struct {
	service *services.BookingService
}

func NewBookingController(service *services.BookingService) *BookingController {
	return &BookingController{service: service}
}

// GetBookings (GET /api/bookings)
func (bc *BookingController) GetBookings(c *gin.Context) {
	bookings, err := bc.service.GetAllWithRelations()
	if err != nil {
		log.Printf("❌ failed to list bookings: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve bookings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// CreateBooking (POST /api/bookings)
func (bc *BookingController) CreateBooking(c *gin.Context) {
	var input services.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	booking, err := bc.service.CreateBooking(input)
	if err != nil {
		var ve *services.ValidationError
		switch {
		case errors.As(err, &ve):
			// Surface the whole validation so the form can render
			// every conflict and rule violation at once.
			c.JSON(http.StatusConflict, gin.H{
				"success":    false,
				"error":      "booking_validation_failed",
				"validation": ve.Validation,
			})
		case errors.Is(err, services.ErrConflictDetected):
			utils.JSONError(c, http.StatusConflict, err.Error())
		case errors.Is(err, services.ErrInvalidStayParameters):
			utils.JSONError(c, http.StatusBadRequest, err.Error())
		default:
			log.Printf("❌ failed to create booking: %v", err)
			utils.JSONError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, booking)
}

// GetBookingDetails (GET /api/bookings/:id)
func (bc *BookingController) GetBookingDetails(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id")
		return
	}

	booking, err := bc.service.GetBookingDetails(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// CheckInBooking (POST /api/bookings/:id/checkin)
func (bc *BookingController) CheckInBooking(c *gin.Context) {
	bc.transition(c, bc.service.CheckInBooking)
}

// CheckoutBooking (POST /api/bookings/:id/checkout)
func (bc *BookingController) CheckoutBooking(c *gin.Context) {
	bc.transition(c, bc.service.CheckoutBooking)
}

// CancelBooking (POST /api/bookings/:id/cancel)
func (bc *BookingController) CancelBooking(c *gin.Context) {
	bc.transition(c, bc.service.CancelBooking)
}

func (bc *BookingController) transition(c *gin.Context, op func(uint) error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id")
		return
	}

	if err := op(uint(id)); err != nil {
		if errors.Is(err, services.ErrBookingNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusConflict, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// DeleteBooking (DELETE /api/bookings/:ref) removes by reference code.
func (bc *BookingController) DeleteBooking(c *gin.Context) {
	ref := c.Param("ref")
	if ref == "" {
		utils.JSONError(c, http.StatusBadRequest, "reference code required")
		return
	}
	if err := bc.service.DeleteByReferenceCode(ref); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"referenceCode": ref})
}
