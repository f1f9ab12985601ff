package models

import (
	"time"

	"gorm.io/datatypes"
)

// AppointmentStatus enum
type AppointmentStatus string

const (
	StatusScheduled   AppointmentStatus = "scheduled"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusInProgress  AppointmentStatus = "in_progress"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusNoShow      AppointmentStatus = "no_show"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// ActiveStatuses occupy the doctor's time and take part in conflict checks.
var ActiveStatuses = []AppointmentStatus{StatusScheduled, StatusConfirmed, StatusInProgress}

// IsActive reports whether the status blocks the doctor's calendar.
func (s AppointmentStatus) IsActive() bool {
	for _, active := range ActiveStatuses {
		if s == active {
			return true
		}
	}
	return false
}

// Valid reports whether s is a known status.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted,
		StatusCancelled, StatusNoShow, StatusRescheduled:
		return true
	}
	return false
}

// AppointmentType enum
type AppointmentType string

const (
	TypeConsultation AppointmentType = "consultation"
	TypeFollowUp     AppointmentType = "follow_up"
	TypeCheckUp      AppointmentType = "check_up"
	TypeProcedure    AppointmentType = "procedure"
	TypeEmergency    AppointmentType = "emergency"
)

// Appointment books a patient with a doctor for a window on a single date.
type Appointment struct {
	BaseModel
	PatientID            string            `gorm:"size:36;not null;index" json:"patientId"`
	DoctorID             string            `gorm:"size:36;not null;uniqueIndex:idx_doctor_date_start,priority:1" json:"doctorId"`
	AppointmentDate      datatypes.Date    `gorm:"not null;uniqueIndex:idx_doctor_date_start,priority:2" json:"appointmentDate"`
	StartTime            datatypes.Time    `gorm:"not null;uniqueIndex:idx_doctor_date_start,priority:3" json:"startTime"`
	EndTime              datatypes.Time    `gorm:"not null" json:"endTime"`
	Duration             int               `gorm:"not null" json:"duration"`
	AppointmentType      AppointmentType   `gorm:"size:20;not null" json:"appointmentType"`
	Status               AppointmentStatus `gorm:"size:20;not null;index" json:"status"`
	ReasonForVisit       string            `gorm:"type:text;not null" json:"reasonForVisit"`
	Notes                string            `gorm:"type:text" json:"notes"`
	CancellationReason   string            `gorm:"type:text" json:"cancellationReason"`
	CancelledBy          *string           `gorm:"size:36" json:"cancelledBy,omitempty"`
	CancelledAt          *time.Time        `json:"cancelledAt,omitempty"`
	FollowUpRequired     bool              `gorm:"not null" json:"followUpRequired"`
	FollowUpInstructions string            `gorm:"type:text" json:"followUpInstructions"`
	CreatedBy            *string           `gorm:"size:36" json:"createdBy,omitempty"`

	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

// DateTime is the scheduled start instant in loc.
func (a *Appointment) DateTime(loc *time.Location) time.Time {
	return Combine(a.AppointmentDate, a.StartTime, loc)
}

// IsPast reports whether the scheduled start is strictly before now.
func (a *Appointment) IsPast(now time.Time, loc *time.Location) bool {
	return a.DateTime(loc).Before(now)
}

// CanBeCancelled is true while the appointment has not started and is not
// already closed out.
func (a *Appointment) CanBeCancelled(now time.Time, loc *time.Location) bool {
	if a.IsPast(now, loc) {
		return false
	}
	switch a.Status {
	case StatusCancelled, StatusCompleted, StatusNoShow:
		return false
	}
	return true
}

// MinutesBetween is the length of [start, end) in whole minutes.
func MinutesBetween(start, end datatypes.Time) int {
	return int(time.Duration(end-start) / time.Minute)
}
