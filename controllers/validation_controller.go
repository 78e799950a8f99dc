package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"lodge-backend/models"
	"lodge-backend/services"
	"lodge-backend/utils"

	"github.com/gin-gonic/gin"
)

type ValidationController struct {
	validator *services.BookingValidationService
}

func NewValidationController(validator *services.BookingValidationService) *ValidationController {
	return &ValidationController{validator: validator}
}

type conflictCheckRequest struct {
	RoomIDs          []uint `json:"roomIds" binding:"required"`
	CheckIn          string `json:"checkIn" binding:"required"`
	CheckOut         string `json:"checkOut" binding:"required"`
	ExcludeBookingID uint   `json:"excludeBookingId"`
}

// Validate (POST /api/bookings/validate) runs the exclusive
// double-booking check for a candidate room/date assignment.
func (vc *ValidationController) Validate(c *gin.Context) {
	var req conflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	checkIn, err := utils.ParseCalendarDate(req.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	checkOut, err := utils.ParseCalendarDate(req.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	v := vc.validator.ValidateBookingExclusively(req.RoomIDs, checkIn, checkOut, req.ExcludeBookingID)
	utils.JSONValidation(c, http.StatusOK, v)
}

type finalValidationRequest struct {
	RoomIDs          []uint            `json:"roomIds" binding:"required"`
	CheckIn          string            `json:"checkIn" binding:"required"`
	CheckOut         string            `json:"checkOut" binding:"required"`
	Guests           models.GuestCount `json:"guests"`
	GuestName        string            `json:"guestName"`
	ExcludeBookingID uint              `json:"excludeBookingId"`
}

// FinalValidate (POST /api/bookings/validate/final) is the full
// pre-commit gate: conflicts + capacity + business rules.
func (vc *ValidationController) FinalValidate(c *gin.Context) {
	var req finalValidationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	checkIn, err := utils.ParseCalendarDate(req.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	checkOut, err := utils.ParseCalendarDate(req.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	candidate := services.BookingCandidate{
		RoomIDs:   req.RoomIDs,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    req.Guests,
		GuestName: req.GuestName,
	}
	v := vc.validator.FinalValidationBeforeCommit(candidate, req.ExcludeBookingID)
	utils.JSONValidation(c, http.StatusOK, v)
}

// RealtimeCheck (POST /api/bookings/realtime-check) is the polling
// variant used while the booking form is open.
func (vc *ValidationController) RealtimeCheck(c *gin.Context) {
	var req conflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	checkIn, err := utils.ParseCalendarDate(req.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	checkOut, err := utils.ParseCalendarDate(req.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	res := vc.validator.PerformRealtimeCheck(req.RoomIDs, checkIn, checkOut, req.ExcludeBookingID)
	utils.JSONValidation(c, http.StatusOK, res)
}

type lockRequest struct {
	SessionID string `json:"sessionId"`
	RoomIDs   []uint `json:"roomIds" binding:"required"`
	CheckIn   string `json:"checkIn" binding:"required"`
	CheckOut  string `json:"checkOut" binding:"required"`
}

// AcquireLock (POST /api/bookings/locks) claims a 10-minute exclusive
// editing lock. A blank session id gets a fresh one, echoed back so
// the client can re-acquire under the same identity.
func (vc *ValidationController) AcquireLock(c *gin.Context) {
	var req lockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	checkIn, err := utils.ParseCalendarDate(req.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	checkOut, err := utils.ParseCalendarDate(req.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = utils.NewSessionID()
	}

	result, err := vc.validator.HandleConcurrentAccess(sessionID, req.RoomIDs, checkIn, checkOut)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStayParameters) {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("❌ lock acquisition failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to acquire lock")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"sessionId":           sessionID,
		"lockAcquired":        result.LockAcquired,
		"lockExpiresAt":       result.LockExpiresAt,
		"otherActiveSessions": result.OtherActiveSessions,
	})
}

// ResolveConflicts (POST /api/bookings/:id/resolve-conflicts) re-runs
// the conflict check for an edited booking and proposes alternatives.
func (vc *ValidationController) ResolveConflicts(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid booking id")
		return
	}

	var req conflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	checkIn, err := utils.ParseCalendarDate(req.CheckIn)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	checkOut, err := utils.ParseCalendarDate(req.CheckOut)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	res := vc.validator.DetectAndResolveConflicts(uint(id), req.RoomIDs, checkIn, checkOut)
	utils.JSONValidation(c, http.StatusOK, res)
}
