package handlers

import (
	"clinic-app-server/internal/middleware"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PatientHandler serves patient profiles.
type PatientHandler struct {
	DB *gorm.DB
}

func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{DB: db}
}

func caller(c *gin.Context) (string, models.Role) {
	id, _ := middleware.GetUserIDFromContext(c)
	role, _ := middleware.GetUserRoleFromContext(c)
	return id, role
}

type CreatePatientRequest struct {
	UserID            string `json:"userId" binding:"required,uuid"`
	Gender            string `json:"gender" binding:"required,oneof=M F O P"`
	BloodType         string `json:"bloodType" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Address           string `json:"address" binding:"required"`
	InsuranceProvider string `json:"insuranceProvider" binding:"omitempty,max=100"`
}

// CreatePatient attaches a patient profile to a patient user. Patients may
// only create their own.
func (h *PatientHandler) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, role := caller(c)
	if role != models.RoleAdmin && req.UserID != userID {
		utils.Forbidden(c, "You can only create your own patient profile")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", req.UserID).Error; err != nil {
		respondLookupError(c, err, "User")
		return
	}
	if user.Role != models.RolePatient {
		utils.BadRequest(c, "User is not a patient")
		return
	}

	patient := models.Patient{
		UserID:            req.UserID,
		Gender:            models.Gender(req.Gender),
		BloodType:         req.BloodType,
		Address:           req.Address,
		InsuranceProvider: req.InsuranceProvider,
	}
	if err := h.DB.Create(&patient).Error; err != nil {
		respondWriteError(c, err, "Patient profile")
		return
	}
	patient.User = &user

	utils.Created(c, "Patient created successfully", patient)
}

// GetPatients lists patient profiles ordered by name. Patients only see
// their own.
func (h *PatientHandler) GetPatients(c *gin.Context) {
	userID, role := caller(c)

	q := h.DB.Preload("User").
		Joins("JOIN users ON users.id = patients.user_id").
		Order("users.last_name asc, users.first_name asc")
	if role == models.RolePatient {
		q = q.Where("patients.user_id = ?", userID)
	}

	var patients []models.Patient
	if err := q.Find(&patients).Error; err != nil {
		utils.InternalError(c, "Failed to fetch patients", err)
		return
	}
	utils.Success(c, "Patients fetched successfully", patients)
}

func (h *PatientHandler) loadAuthorized(c *gin.Context) (*models.Patient, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	var patient models.Patient
	if err := h.DB.Preload("User").First(&patient, "id = ?", id).Error; err != nil {
		respondLookupError(c, err, "Patient")
		return nil, false
	}

	userID, role := caller(c)
	if role == models.RolePatient && patient.UserID != userID {
		utils.Forbidden(c, "You are not authorized to access this patient")
		return nil, false
	}
	return &patient, true
}

func (h *PatientHandler) GetPatient(c *gin.Context) {
	patient, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	utils.Success(c, "Patient fetched successfully", patient)
}

type UpdatePatientRequest struct {
	Gender            *string `json:"gender" binding:"omitempty,oneof=M F O P"`
	BloodType         *string `json:"bloodType" binding:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Address           *string `json:"address" binding:"omitempty,min=1"`
	InsuranceProvider *string `json:"insuranceProvider" binding:"omitempty,max=100"`
}

// UpdatePatient applies the fields present in the body (PUT and PATCH).
// Doctors can read patient profiles but not edit them.
func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	var req UpdatePatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	patient, ok := h.loadAuthorized(c)
	if !ok {
		return
	}
	if _, role := caller(c); role == models.RoleDoctor {
		utils.Forbidden(c, "Doctors cannot edit patient profiles")
		return
	}

	if req.Gender != nil {
		patient.Gender = models.Gender(*req.Gender)
	}
	if req.BloodType != nil {
		patient.BloodType = *req.BloodType
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.InsuranceProvider != nil {
		patient.InsuranceProvider = *req.InsuranceProvider
	}

	if err := h.DB.Omit("User").Save(patient).Error; err != nil {
		respondWriteError(c, err, "Patient profile")
		return
	}
	utils.Success(c, "Patient updated successfully", patient)
}

func (h *PatientHandler) DeletePatient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	res := h.DB.Delete(&models.Patient{}, "id = ?", id)
	if res.Error != nil {
		respondWriteError(c, res.Error, "Patient profile")
		return
	}
	if res.RowsAffected == 0 {
		utils.NotFound(c, "Patient not found")
		return
	}
	utils.Success(c, "Patient deleted successfully", nil)
}
