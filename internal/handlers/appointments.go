package handlers

import (
	"errors"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/repository"
	"clinic-app-server/internal/scheduling"
	"clinic-app-server/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AppointmentHandler exposes the appointment lifecycle over HTTP. All
// booking rules live in scheduling.Service.
type AppointmentHandler struct {
	DB  *gorm.DB
	Svc *scheduling.Service
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB, svc *scheduling.Service) *AppointmentHandler {
	return &AppointmentHandler{DB: db, Svc: svc}
}

// profiles resolves the caller's patient and doctor profile ids. Either may
// be empty.
func (h *AppointmentHandler) profiles(c *gin.Context) (patientID, doctorID string, err error) {
	userID, role := caller(c)
	switch role {
	case models.RolePatient:
		var p models.Patient
		err = h.DB.Select("id").Where("user_id = ?", userID).First(&p).Error
		patientID = p.ID
	case models.RoleDoctor:
		var d models.Doctor
		err = h.DB.Select("id").Where("user_id = ?", userID).First(&d).Error
		doctorID = d.ID
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = nil
	}
	return patientID, doctorID, err
}

// involvement reports how the caller relates to appt.
func involvement(c *gin.Context, appt *models.Appointment) (isPatient, isDoctor bool) {
	userID, _ := caller(c)
	isPatient = appt.Patient != nil && appt.Patient.UserID == userID
	isDoctor = appt.Doctor != nil && appt.Doctor.UserID == userID
	return isPatient, isDoctor
}

// CreateAppointmentRequest represents the request body for booking.
// Patients may omit patientId; it defaults to their own profile.
type CreateAppointmentRequest struct {
	DoctorID             string `json:"doctorId" binding:"required,uuid"`
	PatientID            string `json:"patientId" binding:"omitempty,uuid"`
	AppointmentDate      string `json:"appointmentDate" binding:"required"`
	StartTime            string `json:"startTime" binding:"required"`
	EndTime              string `json:"endTime" binding:"required"`
	AppointmentType      string `json:"appointmentType" binding:"omitempty,oneof=consultation follow_up check_up procedure emergency"`
	ReasonForVisit       string `json:"reasonForVisit" binding:"required"`
	Notes                string `json:"notes"`
	FollowUpRequired     bool   `json:"followUpRequired"`
	FollowUpInstructions string `json:"followUpInstructions"`
}

// CreateAppointment books an appointment.
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	date, err := utils.ParseDate(req.AppointmentDate)
	if err != nil {
		utils.BadRequest(c, err.Error())
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

	ownPatient, ownDoctor, err := h.profiles(c)
	if err != nil {
		utils.InternalError(c, "Failed to load caller profile", err)
		return
	}
	userID, role := caller(c)
	switch role {
	case models.RolePatient:
		if ownPatient == "" {
			utils.BadRequest(c, "Create your patient profile before booking")
			return
		}
		if req.PatientID != "" && req.PatientID != ownPatient {
			utils.Forbidden(c, "Patients can only book appointments for themselves")
			return
		}
		req.PatientID = ownPatient
	case models.RoleDoctor:
		if req.DoctorID != ownDoctor {
			utils.Forbidden(c, "Doctors can only book into their own calendar")
			return
		}
	}
	if req.PatientID == "" {
		utils.BadRequest(c, "patientId is required")
		return
	}

	appt, err := h.Svc.CreateAppointment(c.Request.Context(), scheduling.CreateAppointmentInput{
		PatientID:            req.PatientID,
		DoctorID:             req.DoctorID,
		AppointmentDate:      date,
		StartTime:            start,
		EndTime:              end,
		AppointmentType:      models.AppointmentType(req.AppointmentType),
		ReasonForVisit:       req.ReasonForVisit,
		Notes:                req.Notes,
		FollowUpRequired:     req.FollowUpRequired,
		FollowUpInstructions: req.FollowUpInstructions,
	}, userID)
	if err != nil {
		respondSchedulingError(c, err, "Failed to create appointment")
		return
	}

	utils.Created(c, "Appointment created successfully", appt)
}

// GetAppointments lists appointments visible to the caller: patients see
// their own, doctors their calendar, admins everything. Supports ?doctorId=,
// ?patientId=, ?date= and ?status=.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	filter := repository.AppointmentFilter{
		DoctorID:  c.Query("doctorId"),
		PatientID: c.Query("patientId"),
		Status:    models.AppointmentStatus(c.Query("status")),
	}
	if filter.Status != "" && !filter.Status.Valid() {
		utils.BadRequest(c, "Unknown status "+string(filter.Status))
		return
	}
	if raw := c.Query("date"); raw != "" {
		date, err := utils.ParseDate(raw)
		if err != nil {
			utils.BadRequest(c, err.Error())
			return
		}
		filter.Date = &date
	}

	ownPatient, ownDoctor, err := h.profiles(c)
	if err != nil {
		utils.InternalError(c, "Failed to load caller profile", err)
		return
	}
	switch _, role := caller(c); role {
	case models.RolePatient:
		if ownPatient == "" {
			utils.Success(c, "Appointments fetched successfully", []models.Appointment{})
			return
		}
		filter.PatientID = ownPatient
	case models.RoleDoctor:
		if ownDoctor == "" {
			utils.Success(c, "Appointments fetched successfully", []models.Appointment{})
			return
		}
		filter.DoctorID = ownDoctor
	}

	appts, err := h.Svc.ListAppointments(c.Request.Context(), filter)
	if err != nil {
		utils.InternalError(c, "Failed to fetch appointments", err)
		return
	}
	utils.Success(c, "Appointments fetched successfully", appts)
}

// loadVisible fetches the appointment and checks the caller may see it.
func (h *AppointmentHandler) loadVisible(c *gin.Context) (*models.Appointment, bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return nil, false
	}

	appt, err := h.Svc.GetAppointment(c.Request.Context(), id)
	if err != nil {
		respondSchedulingError(c, err, "Failed to load appointment")
		return nil, false
	}

	isPatient, isDoctor := involvement(c, appt)
	if _, role := caller(c); role != models.RoleAdmin && !isPatient && !isDoctor {
		utils.Forbidden(c, "You are not authorized to access this appointment")
		return nil, false
	}
	return appt, true
}

// GetAppointmentByID is open to the involved patient, the doctor, or an
// admin.
func (h *AppointmentHandler) GetAppointmentByID(c *gin.Context) {
	appt, ok := h.loadVisible(c)
	if !ok {
		return
	}
	utils.Success(c, "Appointment fetched successfully", appt)
}

// UpdateAppointmentRequest carries free-form edits. Status changes follow
// the lifecycle transition table.
type UpdateAppointmentRequest struct {
	Status               *string `json:"status" binding:"omitempty,oneof=scheduled confirmed in_progress completed cancelled no_show rescheduled"`
	AppointmentType      *string `json:"appointmentType" binding:"omitempty,oneof=consultation follow_up check_up procedure emergency"`
	ReasonForVisit       *string `json:"reasonForVisit"`
	Notes                *string `json:"notes"`
	FollowUpRequired     *bool   `json:"followUpRequired"`
	FollowUpInstructions *string `json:"followUpInstructions"`
}

// UpdateAppointment is reserved to the doctor and admins.
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	var req UpdateAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	appt, ok := h.loadVisible(c)
	if !ok {
		return
	}
	if _, isDoctor := involvement(c, appt); !isDoctor {
		if _, role := caller(c); role != models.RoleAdmin {
			utils.Forbidden(c, "Only the doctor or an admin can update this appointment")
			return
		}
	}

	in := scheduling.UpdateAppointmentInput{
		ReasonForVisit:       req.ReasonForVisit,
		Notes:                req.Notes,
		FollowUpRequired:     req.FollowUpRequired,
		FollowUpInstructions: req.FollowUpInstructions,
	}
	if req.Status != nil {
		status := models.AppointmentStatus(*req.Status)
		in.Status = &status
	}
	if req.AppointmentType != nil {
		apptType := models.AppointmentType(*req.AppointmentType)
		in.AppointmentType = &apptType
	}

	updated, err := h.Svc.UpdateAppointment(c.Request.Context(), appt.ID, in)
	if err != nil {
		respondSchedulingError(c, err, "Failed to update appointment")
		return
	}
	utils.Success(c, "Appointment updated successfully", updated)
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=1000"`
}

// CancelAppointment cancels on behalf of the involved patient, the doctor,
// or an admin.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	var req CancelAppointmentRequest
	if c.Request.ContentLength > 0 && !utils.BindAndValidate(c, &req) {
		return
	}

	appt, ok := h.loadVisible(c)
	if !ok {
		return
	}

	userID, _ := caller(c)
	cancelled, err := h.Svc.CancelAppointment(c.Request.Context(), appt.ID, userID, req.Reason)
	if err != nil {
		respondSchedulingError(c, err, "Failed to cancel appointment")
		return
	}
	utils.Success(c, "Appointment cancelled successfully", cancelled)
}

// RescheduleAppointmentRequest moves an appointment to a new window.
type RescheduleAppointmentRequest struct {
	AppointmentDate string `json:"appointmentDate" binding:"required"`
	StartTime       string `json:"startTime" binding:"required"`
	EndTime         string `json:"endTime" binding:"required"`
}

// RescheduleAppointment is open to the involved patient, the doctor, or an
// admin.
func (h *AppointmentHandler) RescheduleAppointment(c *gin.Context) {
	var req RescheduleAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	date, err := utils.ParseDate(req.AppointmentDate)
	if err != nil {
		utils.BadRequest(c, err.Error())
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

	appt, ok := h.loadVisible(c)
	if !ok {
		return
	}

	moved, err := h.Svc.RescheduleAppointment(c.Request.Context(), appt.ID, scheduling.RescheduleInput{
		AppointmentDate: date,
		StartTime:       start,
		EndTime:         end,
	})
	if err != nil {
		respondSchedulingError(c, err, "Failed to reschedule appointment")
		return
	}
	utils.Success(c, "Appointment rescheduled successfully", moved)
}

// DeleteAppointment removes the record (admin).
func (h *AppointmentHandler) DeleteAppointment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.Svc.DeleteAppointment(c.Request.Context(), id); err != nil {
		respondSchedulingError(c, err, "Failed to delete appointment")
		return
	}
	utils.Success(c, "Appointment deleted successfully", nil)
}
