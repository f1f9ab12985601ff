package handlers

import (
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TimeOffHandler manages doctors' time off.
type TimeOffHandler struct {
	DB *gorm.DB
}

func NewTimeOffHandler(db *gorm.DB) *TimeOffHandler {
	return &TimeOffHandler{DB: db}
}

type CreateTimeOffRequest struct {
	DoctorID    string  `json:"doctorId" binding:"required,uuid"`
	StartDate   string  `json:"startDate" binding:"required"`
	EndDate     string  `json:"endDate" binding:"required"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	TimeOffType string  `json:"timeOffType" binding:"required,oneof=vacation sick_leave conference personal other"`
	Reason      string  `json:"reason"`
	IsFullDay   *bool   `json:"isFullDay"`
}

func (h *TimeOffHandler) CreateTimeOff(c *gin.Context) {
	var req CreateTimeOffRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	period := models.DoctorTimeOff{
		DoctorID:    req.DoctorID,
		TimeOffType: models.TimeOffType(req.TimeOffType),
		Reason:      req.Reason,
		IsFullDay:   true,
	}
	if req.IsFullDay != nil {
		period.IsFullDay = *req.IsFullDay
	}
	if !applyTimeOffWindow(c, &period, &req.StartDate, &req.EndDate, req.StartTime, req.EndTime) {
		return
	}
	if !authorizeDoctor(c, h.DB, req.DoctorID) {
		return
	}

	if err := h.DB.Create(&period).Error; err != nil {
		respondWriteError(c, err, "Time off")
		return
	}
	utils.Created(c, "Time off created successfully", period)
}

// applyTimeOffWindow parses whichever of the date and time fields are set
// onto period and validates the result.
func applyTimeOffWindow(c *gin.Context, period *models.DoctorTimeOff, startDate, endDate, startTime, endTime *string) bool {
	if startDate != nil {
		d, err := utils.ParseDate(*startDate)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return false
		}
		period.StartDate = d
	}
	if endDate != nil {
		d, err := utils.ParseDate(*endDate)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return false
		}
		period.EndDate = d
	}
	if startTime != nil {
		t, err := utils.ParseOptionalClock(startTime)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return false
		}
		period.StartTime = t
	}
	if endTime != nil {
		t, err := utils.ParseOptionalClock(endTime)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return false
		}
		period.EndTime = t
	}
	if period.IsFullDay {
		period.StartTime, period.EndTime = nil, nil
	}
	if err := period.Validate(); err != nil {
		utils.BadRequest(c, err.Error())
		return false
	}
	return true
}

// GetTimeOff lists time off ordered by start date. Supports ?doctorId= and
// ?date=YYYY-MM-DD to keep only periods covering that date.
func (h *TimeOffHandler) GetTimeOff(c *gin.Context) {
	q := h.DB.Order("start_date asc")
	if doctorID := c.Query("doctorId"); doctorID != "" {
		q = q.Where("doctor_id = ?", doctorID)
	}
	if raw := c.Query("date"); raw != "" {
		date, err := utils.ParseDate(raw)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		q = q.Where("start_date <= ? AND end_date >= ?", date, date)
	}

	var periods []models.DoctorTimeOff
	if err := q.Find(&periods).Error; err != nil {
		utils.InternalError(c, "Failed to fetch time off", err)
		return
	}
	utils.Success(c, "Time off fetched successfully", periods)
}

func (h *TimeOffHandler) GetTimeOffByID(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var period models.DoctorTimeOff
	if err := h.DB.First(&period, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Time off")
		return
	}
	utils.Success(c, "Time off fetched successfully", period)
}

type UpdateTimeOffRequest struct {
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
	StartTime   *string `json:"startTime"`
	EndTime     *string `json:"endTime"`
	TimeOffType *string `json:"timeOffType" binding:"omitempty,oneof=vacation sick_leave conference personal other"`
	Reason      *string `json:"reason"`
	IsFullDay   *bool   `json:"isFullDay"`
}

func (h *TimeOffHandler) UpdateTimeOff(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTimeOffRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var period models.DoctorTimeOff
	if err := h.DB.First(&period, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Time off")
		return
	}
	if !authorizeDoctor(c, h.DB, period.DoctorID) {
		return
	}

	if req.TimeOffType != nil {
		period.TimeOffType = models.TimeOffType(*req.TimeOffType)
	}
	if req.Reason != nil {
		period.Reason = *req.Reason
	}
	if req.IsFullDay != nil {
		period.IsFullDay = *req.IsFullDay
	}
	if !applyTimeOffWindow(c, &period, req.StartDate, req.EndDate, req.StartTime, req.EndTime) {
		return
	}

	if err := h.DB.Omit("Doctor").Save(&period).Error; err != nil {
		respondWriteError(c, err, "Time off")
		return
	}
	utils.Success(c, "Time off updated successfully", period)
}

func (h *TimeOffHandler) DeleteTimeOff(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var period models.DoctorTimeOff
	if err := h.DB.First(&period, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Time off")
		return
	}
	if !authorizeDoctor(c, h.DB, period.DoctorID) {
		return
	}

	if err := h.DB.Delete(&period).Error; err != nil {
		respondWriteError(c, err, "Time off")
		return
	}
	utils.Success(c, "Time off deleted successfully", nil)
}
