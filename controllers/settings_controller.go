package controllers

import (
	"net/http"

	"lodge-backend/models"
	"lodge-backend/services"
	"lodge-backend/utils"

	"github.com/gin-gonic/gin"
)

type SettingsController struct {
	settings *services.SettingsService
	pricing  *services.PricingService
}

func NewSettingsController(settings *services.SettingsService, pricing *services.PricingService) *SettingsController {
	return &SettingsController{settings: settings, pricing: pricing}
}

// GetSettings (GET /api/settings)
func (sc *SettingsController) GetSettings(c *gin.Context) {
	setting, err := sc.settings.Get()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to load settings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, setting)
}

// UpdateSettings (PUT /api/settings) persists the settings row and
// pushes the new weekend set into the running pricing engine.
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var setting models.LodgeSetting
	if err := c.ShouldBindJSON(&setting); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := sc.settings.Update(setting)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to update settings")
		return
	}

	sc.pricing.SetWeekendDays(updated.Weekend())
	utils.JSONSuccess(c, http.StatusOK, updated)
}
