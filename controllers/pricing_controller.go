package controllers

import (
	"errors"
	"log"
	"net/http"

	"lodge-backend/models"
	"lodge-backend/services"
	"lodge-backend/utils"

	"github.com/gin-gonic/gin"
)

type PricingController struct {
	pricing *services.PricingService
	rooms   *services.RoomService
}

func NewPricingController(pricing *services.PricingService, rooms *services.RoomService) *PricingController {
	return &PricingController{pricing: pricing, rooms: rooms}
}

type quoteRequest struct {
	RoomIDs  []uint             `json:"roomIds" binding:"required"`
	CheckIn  string             `json:"checkIn" binding:"required"`
	CheckOut string             `json:"checkOut" binding:"required"`
	Guests   models.GuestCount  `json:"guests"`
	Addons   []models.AddonItem `json:"addons"`
}

// Quote (POST /api/pricing/quote) returns the detailed nightly
// breakdown from the rate-table strategy.
func (pc *PricingController) Quote(c *gin.Context) {
	var req quoteRequest
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

	usages := make([]models.RoomUsage, 0, len(req.RoomIDs))
	for _, id := range req.RoomIDs {
		room, err := pc.rooms.GetByID(id)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "unknown room in selection")
			return
		}
		usages = append(usages, models.RoomUsage{
			RoomID:    room.ID,
			RoomRate:  room.Price,
			Capacity:  room.MaxOccupancy,
			UsageType: room.Usage(),
		})
	}

	for i := range req.Addons {
		req.Addons[i].TotalPrice = int64(req.Addons[i].Quantity) * req.Addons[i].UnitPrice
	}

	breakdown, err := pc.pricing.CalculateTotalPrice(
		usages, req.Guests,
		models.DateRange{CheckIn: checkIn, CheckOut: checkOut},
		req.Addons,
	)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStayParameters) {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("❌ pricing quote failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute quote")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, breakdown)
}

type estimateRequest struct {
	RoomID     uint   `json:"roomId" binding:"required"`
	CheckIn    string `json:"checkIn" binding:"required"`
	CheckOut   string `json:"checkOut" binding:"required"`
	GuestCount int    `json:"guestCount"`
}

// Estimate (POST /api/pricing/estimate) runs the rule-multiplier
// strategy for the quick-estimate booking flow.
func (pc *PricingController) Estimate(c *gin.Context) {
	var req estimateRequest
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

	room, err := pc.rooms.GetByID(req.RoomID)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unknown room")
		return
	}

	roomType := room.RoomType.TypeName
	calc, err := pc.pricing.CalculatePrice(room.ID, roomType, room.Price, checkIn, checkOut, req.GuestCount)
	if err != nil {
		if errors.Is(err, services.ErrInvalidStayParameters) {
			utils.JSONError(c, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("❌ pricing estimate failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to compute estimate")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, calc)
}

// ApplicableRules (GET /api/pricing/rules/applicable) lists the rules
// that would fire for a room type on a date, in application order.
func (pc *PricingController) ApplicableRules(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		utils.JSONError(c, http.StatusBadRequest, "date query parameter is required")
		return
	}
	date, err := utils.ParseCalendarDate(dateStr)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}

	roomType := c.Query("roomType")
	rules, err := pc.pricing.ApplicableRules(roomType, date, date.Weekday())
	if err != nil {
		log.Printf("❌ rule lookup failed: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to load rules")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"date":      date.Format("2006-01-02"),
		"dayOfWeek": int(date.Weekday()),
		"weekday":   date.Weekday().String(),
		"rules":     rules,
	})
}
