package services

import (
	"errors"
	"fmt"
	"time"

	"lodge-backend/models"
	"lodge-backend/utils"

	"gorm.io/gorm"
)

// RateStore is the gorm-backed RateSource plus the CRUD surface the
// admin controllers use for rates, seasons and pricing rules.
type RateStore struct {
	DB *gorm.DB
}

func NewRateStore(db *gorm.DB) *RateStore {
	return &RateStore{DB: db}
}

func (s *RateStore) RateFor(seasonID uint, dayType, usageType, ageGroup string) (int64, error) {
	var rate models.Rate
	err := s.DB.
		Where("season_id = ? AND day_type = ? AND usage_type = ? AND age_group = ?",
			seasonID, dayType, usageType, ageGroup).
		First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrRateNotFound
		}
		return 0, fmt.Errorf("failed to query rate: %w", err)
	}
	return rate.BasePrice, nil
}

func (s *RateStore) SeasonFor(date time.Time) (*models.Season, error) {
	d := utils.CalendarDate(date)
	var season models.Season
	err := s.DB.
		Where("is_active = ? AND start_date <= ? AND end_date >= ?", true, d, d).
		Order("id ASC").
		First(&season).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query season: %w", err)
	}
	return &season, nil
}

func (s *RateStore) ActiveRules() ([]models.PricingRule, error) {
	var rules []models.PricingRule
	if err := s.DB.
		Where("is_active = ?", true).
		Order("priority ASC, id ASC").
		Find(&rules).Error; err != nil {
		return nil, fmt.Errorf("failed to query pricing rules: %w", err)
	}
	return rules, nil
}

// ---------------- Rates CRUD ----------------

func (s *RateStore) CreateRate(rate *models.Rate) error {
	return s.DB.Create(rate).Error
}

func (s *RateStore) ListRates() ([]models.Rate, error) {
	var rates []models.Rate
	err := s.DB.Order("season_id ASC, usage_type ASC, day_type ASC, age_group ASC").Find(&rates).Error
	return rates, err
}

func (s *RateStore) UpdateRate(rate models.Rate) error {
	return s.DB.Model(&models.Rate{}).Where("id = ?", rate.ID).Updates(rate).Error
}

func (s *RateStore) DeleteRate(id uint) error {
	return s.DB.Delete(&models.Rate{}, id).Error
}

// ---------------- Seasons CRUD ----------------

func (s *RateStore) CreateSeason(season *models.Season) error {
	season.StartDate = utils.CalendarDate(season.StartDate)
	season.EndDate = utils.CalendarDate(season.EndDate)
	return s.DB.Create(season).Error
}

func (s *RateStore) ListSeasons() ([]models.Season, error) {
	var seasons []models.Season
	err := s.DB.Order("start_date ASC").Find(&seasons).Error
	return seasons, err
}

func (s *RateStore) UpdateSeason(season models.Season) error {
	season.StartDate = utils.CalendarDate(season.StartDate)
	season.EndDate = utils.CalendarDate(season.EndDate)
	return s.DB.Model(&models.Season{}).Where("id = ?", season.ID).Updates(season).Error
}

func (s *RateStore) DeleteSeason(id uint) error {
	return s.DB.Delete(&models.Season{}, id).Error
}

// ---------------- Pricing rules CRUD ----------------

func (s *RateStore) CreateRule(rule *models.PricingRule) error {
	return s.DB.Create(rule).Error
}

func (s *RateStore) ListRules() ([]models.PricingRule, error) {
	var rules []models.PricingRule
	err := s.DB.Order("priority ASC, id ASC").Find(&rules).Error
	return rules, err
}

func (s *RateStore) UpdateRule(rule models.PricingRule) error {
	return s.DB.Model(&models.PricingRule{}).Where("id = ?", rule.ID).Updates(rule).Error
}

func (s *RateStore) DeleteRule(id uint) error {
	return s.DB.Delete(&models.PricingRule{}, id).Error
}
