package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"lodge-backend/controllers"
	"lodge-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires the controller instances onto the API surface.
func SetupRouter(
	pc *controllers.PricingController,
	vc *controllers.ValidationController,
	bc *controllers.BookingController,
	rmc *controllers.RoomController,
	rtc *controllers.RateController,
	sc *controllers.SettingsController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		pricing := api.Group("/pricing")
		{
			pricing.POST("/quote", pc.Quote)
			pricing.POST("/estimate", pc.Estimate)
			pricing.GET("/rules/applicable", pc.ApplicableRules)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("", bc.GetBookings)
			bookings.POST("", bc.CreateBooking)

			// the candidate-level checks the booking form gates on
			bookings.POST("/validate", vc.Validate)
			bookings.POST("/validate/final", vc.FinalValidate)
			bookings.POST("/realtime-check", vc.RealtimeCheck)
			bookings.POST("/locks", vc.AcquireLock)

			bookings.GET("/:id", bc.GetBookingDetails)
			bookings.POST("/:id/checkin", bc.CheckInBooking)
			bookings.POST("/:id/checkout", bc.CheckoutBooking)
			bookings.POST("/:id/cancel", bc.CancelBooking)
			bookings.POST("/:id/resolve-conflicts", vc.ResolveConflicts)
			bookings.DELETE("/ref/:ref", bc.DeleteBooking)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", rmc.GetRooms)
			rooms.POST("", rmc.CreateRoom)
			rooms.PUT("/:id", rmc.UpdateRoom)
			rooms.DELETE("/:id", rmc.DeleteRoom)
		}

		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", rmc.GetRoomTypes)
			roomTypes.POST("", rmc.CreateRoomType)
			roomTypes.PUT("/:id", rmc.UpdateRoomType)
			roomTypes.DELETE("/:id", rmc.DeleteRoomType)
		}

		rates := api.Group("/rates")
		{
			rates.GET("", rtc.GetRates)
			rates.POST("", rtc.CreateRate)
			rates.PUT("/:id", rtc.UpdateRate)
			rates.DELETE("/:id", rtc.DeleteRate)
		}

		seasons := api.Group("/seasons")
		{
			seasons.GET("", rtc.GetSeasons)
			seasons.POST("", rtc.CreateSeason)
			seasons.PUT("/:id", rtc.UpdateSeason)
			seasons.DELETE("/:id", rtc.DeleteSeason)
		}

		rules := api.Group("/pricing-rules")
		{
			rules.GET("", rtc.GetRules)
			rules.POST("", rtc.CreateRule)
			rules.PUT("/:id", rtc.UpdateRule)
			rules.DELETE("/:id", rtc.DeleteRule)
		}

		settings := api.Group("/settings")
		{
			settings.GET("", sc.GetSettings)
			settings.PUT("", sc.UpdateSettings)
		}
	}

	return r
}
