package handlers

import (
	"strconv"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AvailabilityHandler manages doctors' weekly availability windows.
type AvailabilityHandler struct {
	DB *gorm.DB
}

func NewAvailabilityHandler(db *gorm.DB) *AvailabilityHandler {
	return &AvailabilityHandler{DB: db}
}

// authorizeDoctor lets admins through and otherwise requires the caller to
// be the doctor identified by doctorID.
func authorizeDoctor(c *gin.Context, db *gorm.DB, doctorID string) bool {
	var doctor models.Doctor
	if err := db.First(&doctor, "id = ?", doctorID).Error; err != nil {
		respondLookupError(c, err, "Doctor")
		return false
	}
	userID, role := caller(c)
	if role != models.RoleAdmin && doctor.UserID != userID {
		utils.Forbidden(c, "You can only manage your own schedule")
		return false
	}
	return true
}

type CreateAvailabilityRequest struct {
	DoctorID    string `json:"doctorId" binding:"required,uuid"`
	Weekday     *int   `json:"weekday" binding:"required,gte=0,lte=6"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	IsAvailable *bool  `json:"isAvailable"`
}

func (h *AvailabilityHandler) CreateAvailability(c *gin.Context) {
	var req CreateAvailabilityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	start, err := utils.ParseClock(req.StartTime)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	end, err := utils.ParseClock(req.EndTime)
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	window := models.DoctorAvailability{
		DoctorID:    req.DoctorID,
		Weekday:     *req.Weekday,
		StartTime:   start,
		EndTime:     end,
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		window.IsAvailable = *req.IsAvailable
	}
	if err := window.Validate(); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}
	if !authorizeDoctor(c, h.DB, req.DoctorID) {
		return
	}

	if err := h.DB.Create(&window).Error; err != nil {
		respondWriteError(c, err, "Availability window")
		return
	}
	utils.Created(c, "Availability created successfully", window)
}

// GetAvailability lists windows ordered by doctor, weekday and start.
// Supports ?doctorId= and ?weekday=.
func (h *AvailabilityHandler) GetAvailability(c *gin.Context) {
	q := h.DB.Order("doctor_id asc, weekday asc, start_time asc")
	if doctorID := c.Query("doctorId"); doctorID != "" {
		q = q.Where("doctor_id = ?", doctorID)
	}
	if raw := c.Query("weekday"); raw != "" {
		weekday, err := strconv.Atoi(raw)
		if err != nil || weekday < 0 || weekday > 6 {
			utils.BadRequest(c, models.ErrInvalidWeekday.Error())
			return
		}
		q = q.Where("weekday = ?", weekday)
	}

	var windows []models.DoctorAvailability
	if err := q.Find(&windows).Error; err != nil {
		utils.InternalError(c, "Failed to fetch availability", err)
		return
	}
	utils.Success(c, "Availability fetched successfully", windows)
}

func (h *AvailabilityHandler) GetAvailabilityByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var window models.DoctorAvailability
	if err := h.DB.First(&window, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Availability window")
		return
	}
	utils.Success(c, "Availability fetched successfully", window)
}

type UpdateAvailabilityRequest struct {
	Weekday     *int    `json:"weekday" binding:"omitempty,gte=0,lte=6"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	IsAvailable *bool   `json:"isAvailable"`
}

func (h *AvailabilityHandler) UpdateAvailability(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateAvailabilityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var window models.DoctorAvailability
	if err := h.DB.First(&window, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Availability window")
		return
	}
	if !authorizeDoctor(c, h.DB, window.DoctorID) {
		return
	}

	if req.Weekday != nil {
		window.Weekday = *req.Weekday
	}
	if req.StartTime != nil {
		t, err := utils.ParseClock(*req.StartTime)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		window.StartTime = t
	}
	if req.EndTime != nil {
		t, err := utils.ParseClock(*req.EndTime)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		window.EndTime = t
	}
	if req.IsAvailable != nil {
		window.IsAvailable = *req.IsAvailable
	}
	if err := window.Validate(); err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	if err := h.DB.Omit("Doctor").Save(&window).Error; err != nil {
		respondWriteError(c, err, "Availability window")
		return
	}
	utils.Success(c, "Availability updated successfully", window)
}

func (h *AvailabilityHandler) DeleteAvailability(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var window models.DoctorAvailability
	if err := h.DB.First(&window, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Availability window")
		return
	}
	if !authorizeDoctor(c, h.DB, window.DoctorID) {
		return
	}

	if err := h.DB.Delete(&window).Error; err != nil {
		respondWriteError(c, err, "Availability window")
		return
	}
	utils.Success(c, "Availability deleted successfully", nil)
}
