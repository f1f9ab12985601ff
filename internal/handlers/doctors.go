package handlers

import (
	"strings"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/scheduling"
	"clinic-app-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DoctorHandler serves doctor profiles, their bookable slots and the
// patients they have seen.
type DoctorHandler struct {
	DB  *gorm.DB
	Svc *scheduling.Service
}

func NewDoctorHandler(db *gorm.DB, svc *scheduling.Service) *DoctorHandler {
	return &DoctorHandler{DB: db, Svc: svc}
}

type CreateDoctorRequest struct {
	UserID              string  `json:"userId" binding:"required,uuid"`
	LicenseNumber       string  `json:"licenseNumber" binding:"required,max=50"`
	Specializations     string  `json:"specializations" binding:"omitempty,max=200"`
	YearsOfExperience   int     `json:"yearsOfExperience" binding:"gte=0,lte=50"`
	ConsultationFee     float64 `json:"consultationFee" binding:"gte=0"`
	AppointmentDuration int     `json:"appointmentDuration" binding:"omitempty,gte=5,lte=480"`
	IsAcceptingPatients *bool   `json:"isAcceptingPatients"`
}

// CreateDoctor attaches a doctor profile to a doctor user. Doctors may only
// create their own.
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, role := caller(c)
	if role != models.RoleAdmin && req.UserID != userID {
		utils.Forbidden(c, "You can only create your own doctor profile")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", req.UserID).Error; err != nil {
		respondLookupError(c, err, "User")
		return
	}
	if user.Role != models.RoleDoctor {
		utils.BadRequest(c, "User is not a doctor")
		return
	}

	doctor := models.Doctor{
		UserID:              req.UserID,
		LicenseNumber:       req.LicenseNumber,
		Specializations:     req.Specializations,
		YearsOfExperience:   req.YearsOfExperience,
		ConsultationFee:     req.ConsultationFee,
		AppointmentDuration: req.AppointmentDuration,
		IsAcceptingPatients: true,
	}
	if doctor.AppointmentDuration == 0 {
		doctor.AppointmentDuration = models.DefaultAppointmentDuration
	}
	if req.IsAcceptingPatients != nil {
		doctor.IsAcceptingPatients = *req.IsAcceptingPatients
	}

	if err := h.DB.Create(&doctor).Error; err != nil {
		respondWriteError(c, err, "Doctor profile")
		return
	}
	doctor.User = &user

	utils.Created(c, "Doctor created successfully", doctor)
}

// GetDoctors lists doctors ordered by name. Supports ?specialization= and
// ?accepting=true.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	q := h.DB.Preload("User").
		Joins("JOIN users ON users.id = doctors.user_id").
		Order("users.last_name asc, users.first_name asc")
	if specialty := strings.TrimSpace(c.Query("specialization")); specialty != "" {
		q = q.Where("LOWER(doctors.specializations) LIKE ?", "%"+strings.ToLower(specialty)+"%")
	}
	if c.Query("accepting") == "true" {
		q = q.Where("doctors.is_accepting_patients = ?", true)
	}

	var doctors []models.Doctor
	if err := q.Find(&doctors).Error; err != nil {
		utils.InternalError(c, "Failed to fetch doctors", err)
		return
	}
	utils.Success(c, "Doctors fetched successfully", doctors)
}

func (h *DoctorHandler) GetDoctor(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var doctor models.Doctor
	if err := h.DB.Preload("User").First(&doctor, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Doctor")
		return
	}
	utils.Success(c, "Doctor fetched successfully", doctor)
}

type UpdateDoctorRequest struct {
	LicenseNumber       *string  `json:"licenseNumber" binding:"omitempty,max=50"`
	Specializations     *string  `json:"specializations" binding:"omitempty,max=200"`
	YearsOfExperience   *int     `json:"yearsOfExperience" binding:"omitempty,gte=0,lte=50"`
	ConsultationFee     *float64 `json:"consultationFee" binding:"omitempty,gte=0"`
	AppointmentDuration *int     `json:"appointmentDuration" binding:"omitempty,gte=5,lte=480"`
	IsAcceptingPatients *bool    `json:"isAcceptingPatients"`
}

// UpdateDoctor applies the fields present in the body. Admins or the doctor
// themself.
func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var doctor models.Doctor
	if err := h.DB.Preload("User").First(&doctor, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Doctor")
		return
	}
	userID, role := caller(c)
	if role != models.RoleAdmin && doctor.UserID != userID {
		utils.Forbidden(c, "You can only update your own doctor profile")
		return
	}

	if req.LicenseNumber != nil {
		doctor.LicenseNumber = *req.LicenseNumber
	}
	if req.Specializations != nil {
		doctor.Specializations = *req.Specializations
	}
	if req.YearsOfExperience != nil {
		doctor.YearsOfExperience = *req.YearsOfExperience
	}
	if req.ConsultationFee != nil {
		doctor.ConsultationFee = *req.ConsultationFee
	}
	if req.AppointmentDuration != nil {
		doctor.AppointmentDuration = *req.AppointmentDuration
	}
	if req.IsAcceptingPatients != nil {
		doctor.IsAcceptingPatients = *req.IsAcceptingPatients
	}

	if err := h.DB.Omit("User").Save(&doctor).Error; err != nil {
		respondWriteError(c, err, "Doctor profile")
		return
	}
	utils.Success(c, "Doctor updated successfully", doctor)
}

func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res := h.DB.Delete(&models.Doctor{}, "id = ?", id)
	if res.Error != nil {
		respondWriteError(c, res.Error, "Doctor profile")
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Doctor not found")
		return
	}
	utils.Success(c, "Doctor deleted successfully", nil)
}

// GetAvailableSlots lists the free slots of a doctor on ?date=YYYY-MM-DD.
func (h *DoctorHandler) GetAvailableSlots(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	date, err := utils.ParseDate(c.Query("date"))
	if err != nil {
		utils.BadRequest(c, err.Error())
		return
	}

	slots, err := h.Svc.AvailableSlots(c.Request.Context(), id, date)
	if err != nil {
		respondSchedulingError(c, err, "Failed to compute available slots")
		return
	}
	utils.Success(c, "Available slots fetched successfully", gin.H{
		"doctorId": id,
		"date":     models.FormatDate(date),
		"slots":    slots,
	})
}

// GetDoctorPatients lists the distinct patients that have appointments with
// the doctor. Admins or the doctor themself.
func (h *DoctorHandler) GetDoctorPatients(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Doctor")
		return
	}
	userID, role := caller(c)
	if role != models.RoleAdmin && doctor.UserID != userID {
		utils.Forbidden(c, "You can only view your own patients")
		return
	}

	var patients []models.Patient
	err := h.DB.Preload("User").
		Where("id IN (?)", h.DB.Model(&models.Appointment{}).Select("patient_id").Where("doctor_id = ?", id)).
		Find(&patients).Error
	if err != nil {
		utils.InternalError(c, "Failed to fetch patients for doctor", err)
		return
	}
	utils.Success(c, "Patients fetched successfully", patients)
}
