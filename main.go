package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lodge-backend/config"
	"lodge-backend/controllers"
	"lodge-backend/routes"
	"lodge-backend/services"
)

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env not found or couldn't load it; continuing with environment variables")
	}

	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	db := config.DB
	if db == nil {
		log.Fatal("❌ config.DB is nil after ConnectDatabase()")
	}
	log.Println("✅ Database connection established and migrations applied")

	// Stores and services
	rateStore := services.NewRateStore(db)
	bookingStore := services.NewGormBookingStore(db)
	settingsService := services.NewSettingsService(db)
	roomService := services.NewRoomService(db)

	setting, err := settingsService.Get()
	if err != nil {
		log.Fatalf("❌ failed to load settings: %v", err)
	}

	pricingService := services.NewPricingService(rateStore, setting.Weekend())
	validationService := services.NewBookingValidationService(bookingStore)
	bookingService := services.NewBookingService(db, validationService, pricingService)

	// Controllers
	pricingController := controllers.NewPricingController(pricingService, roomService)
	validationController := controllers.NewValidationController(validationService)
	bookingController := controllers.NewBookingController(bookingService)
	roomController := controllers.NewRoomController(roomService)
	rateController := controllers.NewRateController(rateStore)
	settingsController := controllers.NewSettingsController(settingsService, pricingService)

	router := routes.SetupRouter(
		pricingController,
		validationController,
		bookingController,
		roomController,
		rateController,
		settingsController,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:    addr,
		Handler: router,
		// useful timeouts
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("⚠️  Shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}
