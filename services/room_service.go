package services

import (
	"lodge-backend/models"

	"gorm.io/gorm"
)

type RoomService struct {
	DB *gorm.DB
}

func NewRoomService(db *gorm.DB) *RoomService {
	return &RoomService{DB: db}
}

func (s *RoomService) Create(room *models.Room) error {
	return s.DB.Create(room).Error
}

func (s *RoomService) GetAll() ([]models.Room, error) {
	var rooms []models.Room
	err := s.DB.Preload("RoomType").Order("room_number ASC").Find(&rooms).Error
	return rooms, err
}

func (s *RoomService) GetByID(id uint) (models.Room, error) {
	var room models.Room
	err := s.DB.Preload("RoomType").First(&room, id).Error
	return room, err
}

func (s *RoomService) Update(room models.Room) error {
	return s.DB.Model(&models.Room{}).Where("id = ?", room.ID).Updates(room).Error
}

func (s *RoomService) Delete(id uint) error {
	return s.DB.Delete(&models.Room{}, id).Error
}

func (s *RoomService) CreateType(rt *models.RoomType) error {
	return s.DB.Create(rt).Error
}

func (s *RoomService) GetAllTypes() ([]models.RoomType, error) {
	var types []models.RoomType
	err := s.DB.Order("id ASC").Find(&types).Error
	return types, err
}

func (s *RoomService) UpdateType(rt models.RoomType) error {
	return s.DB.Model(&models.RoomType{}).Where("id = ?", rt.ID).Updates(rt).Error
}

func (s *RoomService) DeleteType(id uint) error {
	return s.DB.Delete(&models.RoomType{}, id).Error
}
