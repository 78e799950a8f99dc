package controllers

import (
	"log"
	"net/http"
	"strconv"

	"lodge-backend/models"
	"lodge-backend/services"
	"lodge-backend/utils"

	"github.com/gin-gonic/gin"
)

// RateController exposes the admin CRUD surface for the rate table,
// seasons and pricing rules.
type RateController struct {
	store *services.RateStore
}

func NewRateController(store *services.RateStore) *RateController {
	return &RateController{store: store}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// ---------------- Rates ----------------

func (rc *RateController) GetRates(c *gin.Context) {
	rates, err := rc.store.ListRates()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve rates")
		return
	}
	c.JSON(http.StatusOK, rates)
}

func (rc *RateController) CreateRate(c *gin.Context) {
	var rate models.Rate
	if err := c.ShouldBindJSON(&rate); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := rc.store.CreateRate(&rate); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Database error")
		return
	}
	c.JSON(http.StatusCreated, rate)
}

func (rc *RateController) UpdateRate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var rate models.Rate
	if err := c.ShouldBindJSON(&rate); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	rate.ID = id
	if err := rc.store.UpdateRate(rate); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Database error")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rate)
}

func (rc *RateController) DeleteRate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := rc.store.DeleteRate(id); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Database error")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// ---------------- Seasons ----------------

func (rc *RateController) GetSeasons(c *gin.Context) {
	seasons, err := rc.store.ListSeasons()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve seasons")
		return
	}
	c.JSON(http.StatusOK, seasons)
}

func (rc *RateController) CreateSeason(c *gin.Context) {
	var season models.Season
	if err := c.ShouldBindJSON(&season); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if season.SeasonType != models.SeasonPeak {
		season.SeasonType = models.SeasonRegular
	}
	if err := rc.store.CreateSeason(&season); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Database error")
		return
	}
	c.JSON(http.StatusCreated, season)
}

func (rc *RateController) UpdateSeason(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var season models.Season
	if err := c.ShouldBindJSON(&season); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	season.ID = id
	if err := rc.store.UpdateSeason(season); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Database error")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, season)
}

func (rc *RateController) DeleteSeason(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := rc.store.DeleteSeason(id); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Database error")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// ---------------- Pricing rules ----------------

func (rc *RateController) GetRules(c *gin.Context) {
	rules, err := rc.store.ListRules()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve pricing rules")
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (rc *RateController) CreateRule(c *gin.Context) {
	var rule models.PricingRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	switch rule.RuleType {
	case models.RuleSeasonal, models.RuleWeekday, models.RuleSpecial, models.RuleAddon:
	default:
		utils.JSONError(c, http.StatusBadRequest, "unknown rule type")
		return
	}
	if err := rc.store.CreateRule(&rule); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Database error")
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (rc *RateController) UpdateRule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var rule models.PricingRule
	if err := c.ShouldBindJSON(&rule); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	rule.ID = id
	if err := rc.store.UpdateRule(rule); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Database error")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rule)
}

func (rc *RateController) DeleteRule(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := rc.store.DeleteRule(id); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Database error")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}
