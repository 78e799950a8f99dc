package config

import (
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"lodge-backend/models"
	"lodge-backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func mustParseTime(layout, value string) time.Time {
	t, err := time.ParseInLocation(layout, value, utils.DateLocation)
	if err != nil {
		log.Fatalf("Error parsing time for seeding (%s): %v", value, err)
	}
	return t
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "lodge_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}

func ConnectDatabase() error {
	dsn, err := resolveMySQLDSN()
	if err != nil {
		return err
	}

	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Warn,
			Colorful:      true,
		},
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: newLogger})
	if err != nil {
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		log.Printf("info: cannot get raw sql.DB: %v", err)
	}

	DB = db

	// AutoMigrate in parent->child order
	if err := DB.AutoMigrate(
		&models.Admin{},
		&models.LodgeSetting{},
		&models.RoomType{},
		&models.Room{},
		&models.Season{},
		&models.Rate{},
		&models.PricingRule{},
		&models.Booking{},
		&models.BookingRoom{},
		&models.BookingLock{},
	); err != nil {
		return err
	}

	SeedDatabase()
	return nil
}

// SeedDatabase fills an empty schema with a usable default data set:
// an operator account, room inventory, a complete regular-period rate
// grid, a peak season and the two reference pricing rules.
func SeedDatabase() {
	seedAdmin()
	seedSettings()
	roomTypes := seedRoomTypes()
	seedRooms(roomTypes)
	season := seedSeasons()
	seedRates()
	seedRules(season)
}

func seedAdmin() {
	var count int64
	DB.Model(&models.Admin{}).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(envOrDefault("ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("warning: failed to hash default admin password: %v", err)
		return
	}
	admin := models.Admin{
		FullName: "Admin User",
		Username: "admin@lodge.local",
		Password: string(hash),
	}
	if err := DB.Create(&admin).Error; err != nil {
		log.Printf("warning: failed to create default admin: %v", err)
		return
	}
	log.Println("Default admin seeded")
}

func seedSettings() {
	var count int64
	DB.Model(&models.LodgeSetting{}).Count(&count)
	if count > 0 {
		return
	}

	weekend, _ := json.Marshal([]int{int(time.Friday), int(time.Saturday)})
	setting := models.LodgeSetting{
		Name:        "Lodge",
		WeekendDays: datatypes.JSON(weekend),
	}
	if err := DB.Create(&setting).Error; err != nil {
		log.Printf("warning: failed to seed settings: %v", err)
		return
	}
	log.Println("Settings seeded")
}

func seedRoomTypes() []models.RoomType {
	var count int64
	DB.Model(&models.RoomType{}).Count(&count)
	if count > 0 {
		var existing []models.RoomType
		DB.Find(&existing)
		return existing
	}

	roomTypes := []models.RoomType{
		{TypeName: "Private Twin", Description: "Private room, two beds", MaxGuests: 2, UsageType: models.UsagePrivate},
		{TypeName: "Private Quad", Description: "Private room, four beds", MaxGuests: 4, UsageType: models.UsagePrivate},
		{TypeName: "Shared Bunk", Description: "Bunk room, shared use", MaxGuests: 8, UsageType: models.UsageShared},
	}
	DB.Create(&roomTypes)
	log.Println("RoomTypes seeded")
	return roomTypes
}

func seedRooms(roomTypes []models.RoomType) {
	var count int64
	DB.Model(&models.Room{}).Count(&count)
	if count > 0 || len(roomTypes) < 3 {
		return
	}

	twin, quad, bunk := roomTypes[0].ID, roomTypes[1].ID, roomTypes[2].ID
	rooms := []models.Room{
		{RoomTypeID: &twin, RoomNumber: "101", Floor: "1", Price: 20000, MaxOccupancy: 2, IsActive: true, Status: "Available"},
		{RoomTypeID: &twin, RoomNumber: "102", Floor: "1", Price: 20000, MaxOccupancy: 2, IsActive: true, Status: "Available"},
		{RoomTypeID: &quad, RoomNumber: "201", Floor: "2", Price: 28000, MaxOccupancy: 4, IsActive: true, Status: "Available"},
		{RoomTypeID: &quad, RoomNumber: "202", Floor: "2", Price: 28000, MaxOccupancy: 4, IsActive: true, Status: "Available"},
		{RoomTypeID: &bunk, RoomNumber: "301", Floor: "3", Price: 12000, MaxOccupancy: 8, IsActive: true, Status: "Available"},
	}
	if err := DB.Create(&rooms).Error; err != nil {
		log.Printf("warning: failed to seed rooms: %v", err)
		return
	}
	log.Println("Rooms seeded")
}

func seedSeasons() *models.Season {
	var existing models.Season
	if err := DB.Where("season_type = ?", models.SeasonPeak).First(&existing).Error; err == nil {
		return &existing
	}

	year := time.Now().Year()
	season := models.Season{
		Name:               "Summer Peak",
		SeasonType:         models.SeasonPeak,
		StartDate:          mustParseTime("2006-01-02", fmt.Sprintf("%d-07-15", year)),
		EndDate:            mustParseTime("2006-01-02", fmt.Sprintf("%d-08-31", year)),
		RoomRateMultiplier: 1.0,
		PaxRateMultiplier:  1.15,
		IsActive:           true,
	}
	if err := DB.Create(&season).Error; err != nil {
		log.Printf("warning: failed to seed season: %v", err)
		return nil
	}
	log.Println("Seasons seeded")
	return &season
}

// regular-period per-guest nightly prices, weekday first
var seedPrices = map[string]map[string][2]int64{
	models.UsagePrivate: {
		models.AgeGroupAdult:       {4800, 5800},
		models.AgeGroupAdultLeader: {4300, 5200},
		models.AgeGroupStudent:     {3800, 4600},
		models.AgeGroupChild:       {3200, 3900},
		models.AgeGroupInfant:      {1500, 1800},
		models.AgeGroupBaby:        {0, 0},
	},
	models.UsageShared: {
		models.AgeGroupAdult:       {3600, 4400},
		models.AgeGroupAdultLeader: {3200, 3900},
		models.AgeGroupStudent:     {2800, 3400},
		models.AgeGroupChild:       {2400, 2900},
		models.AgeGroupInfant:      {1200, 1500},
		models.AgeGroupBaby:        {0, 0},
	},
}

func seedRates() {
	var count int64
	DB.Model(&models.Rate{}).Count(&count)
	if count > 0 {
		return
	}

	rates := []models.Rate{}
	for usage, groups := range seedPrices {
		for group, prices := range groups {
			rates = append(rates,
				models.Rate{SeasonID: 0, DayType: models.DayTypeWeekday, UsageType: usage, AgeGroup: group, BasePrice: prices[0]},
				models.Rate{SeasonID: 0, DayType: models.DayTypeWeekend, UsageType: usage, AgeGroup: group, BasePrice: prices[1]},
			)
		}
	}
	if err := DB.Create(&rates).Error; err != nil {
		log.Printf("warning: failed to seed rates: %v", err)
		return
	}
	// Peak-season rows are intentionally not seeded: lookups fall back
	// to the regular row scaled by the season's pax multiplier.
	log.Println("Rates seeded")
}

func seedRules(season *models.Season) {
	var count int64
	DB.Model(&models.PricingRule{}).Count(&count)
	if count > 0 {
		return
	}

	weekendDays, _ := json.Marshal([]int{int(time.Friday), int(time.Saturday)})
	peakMult := 1.15
	weekendMult := 1.22

	rules := []models.PricingRule{
		{
			Name:       "Weekend uplift",
			RuleType:   models.RuleWeekday,
			DaysOfWeek: datatypes.JSON(weekendDays),
			Multiplier: &weekendMult,
			IsActive:   true,
			Priority:   2,
		},
	}
	if season != nil {
		rules = append(rules, models.PricingRule{
			Name:       "Peak season uplift",
			RuleType:   models.RuleSeasonal,
			StartDate:  &season.StartDate,
			EndDate:    &season.EndDate,
			Multiplier: &peakMult,
			IsActive:   true,
			Priority:   1,
		})
	}

	if err := DB.Create(&rules).Error; err != nil {
		log.Printf("warning: failed to seed pricing rules: %v", err)
		return
	}
	log.Println("Pricing rules seeded")
}
