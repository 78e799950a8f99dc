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
	"github.com/go-sql-driver/mysql"
)

type RoomController struct {
	service *services.RoomService
}

func NewRoomController(service *services.RoomService) *RoomController {
	return &RoomController{service: service}
}

// GetRooms (GET /api/rooms)
func (rc *RoomController) GetRooms(c *gin.Context) {
	rooms, err := rc.service.GetAll()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve rooms")
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// CreateRoom (POST /api/rooms)
func (rc *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		log.Printf("❌ JSON BINDING ERROR (400): %v", err)
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		utils.JSONError(c, http.StatusBadRequest, "Room Number is required.")
		return
	}

	if err := rc.service.Create(&room); err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			utils.JSONError(c, http.StatusConflict, "Room Number '"+room.RoomNumber+"' already exists.")
			return
		}
		log.Printf("❌ DB ERROR: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "Database error")
		return
	}
	c.JSON(http.StatusCreated, room)
}

// UpdateRoom (PUT /api/rooms/:id)
func (rc *RoomController) UpdateRoom(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid room id")
		return
	}

	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	room.ID = uint(id)

	if err := rc.service.Update(room); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Database error")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, room)
}

// DeleteRoom (DELETE /api/rooms/:id)
func (rc *RoomController) DeleteRoom(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid room id")
		return
	}
	if err := rc.service.Delete(uint(id)); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Database error")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}

// GetRoomTypes (GET /api/room-types)
func (rc *RoomController) GetRoomTypes(c *gin.Context) {
	types, err := rc.service.GetAllTypes()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to retrieve room types")
		return
	}
	c.JSON(http.StatusOK, types)
}

// CreateRoomType (POST /api/room-types)
func (rc *RoomController) CreateRoomType(c *gin.Context) {
	var rt models.RoomType
	if err := c.ShouldBindJSON(&rt); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if rt.UsageType != models.UsageShared && rt.UsageType != models.UsagePrivate {
		rt.UsageType = models.UsagePrivate
	}
	if err := rc.service.CreateType(&rt); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Database error")
		return
	}
	c.JSON(http.StatusCreated, rt)
}

// UpdateRoomType (PUT /api/room-types/:id)
func (rc *RoomController) UpdateRoomType(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid room type id")
		return
	}
	var rt models.RoomType
	if err := c.ShouldBindJSON(&rt); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}
	rt.ID = uint(id)
	if err := rc.service.UpdateType(rt); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Database error")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rt)
}

// DeleteRoomType (DELETE /api/room-types/:id)
func (rc *RoomController) DeleteRoomType(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid room type id")
		return
	}
	if err := rc.service.DeleteType(uint(id)); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "Database error")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"id": id})
}
