package services

import (
	"errors"
	"fmt"

	"lodge-backend/models"

	"gorm.io/gorm"
)

// SettingsService manages the single LodgeSetting row.
type SettingsService struct {
	DB *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{DB: db}
}

// Get returns the settings row, creating a default one when missing.
func (s *SettingsService) Get() (models.LodgeSetting, error) {
	var setting models.LodgeSetting
	err := s.DB.Order("id ASC").First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting = models.LodgeSetting{Name: "Lodge"}
		if err := s.DB.Create(&setting).Error; err != nil {
			return setting, fmt.Errorf("failed to create default settings: %w", err)
		}
		return setting, nil
	}
	if err != nil {
		return setting, fmt.Errorf("failed to load settings: %w", err)
	}
	return setting, nil
}

func (s *SettingsService) Update(setting models.LodgeSetting) (models.LodgeSetting, error) {
	existing, err := s.Get()
	if err != nil {
		return existing, err
	}
	setting.ID = existing.ID
	if err := s.DB.Model(&existing).Updates(setting).Error; err != nil {
		return existing, fmt.Errorf("failed to update settings: %w", err)
	}
	return s.Get()
}
