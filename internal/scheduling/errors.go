package scheduling

import (
	"errors"
	"fmt"

	"clinic-app-server/internal/models"

	"gorm.io/datatypes"
)

// ErrorKind is the machine-readable category of a rejected operation.
type ErrorKind string

const (
	KindInvalidTimeRange   ErrorKind = "INVALID_TIME_RANGE"
	KindPastDateNotAllowed ErrorKind = "PAST_DATE_NOT_ALLOWED"
	KindSchedulingConflict ErrorKind = "SCHEDULING_CONFLICT"
	KindInvalidTransition  ErrorKind = "INVALID_TRANSITION"
	KindNotFound           ErrorKind = "NOT_FOUND"
)

// ConflictDetail identifies the window that blocked a booking.
type ConflictDetail struct {
	AppointmentID string         `json:"appointmentId,omitempty"`
	StartTime     datatypes.Time `json:"startTime"`
	EndTime       datatypes.Time `json:"endTime"`
}

// Error is an expected rejection: a validation failure, a forbidden
// transition or a missing record. Infrastructure failures are never wrapped
// in Error.
type Error struct {
	Kind     ErrorKind
	Message  string
	Conflict *ConflictDetail
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// KindOf extracts the kind of a scheduling error, or "" for anything else.
func KindOf(err error) ErrorKind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsKind reports whether err is a scheduling error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

func invalidTimeRange() error {
	return &Error{Kind: KindInvalidTimeRange, Message: "end time must be after start time"}
}

func pastDateNotAllowed() error {
	return &Error{Kind: KindPastDateNotAllowed, Message: "cannot schedule appointments in the past"}
}

func schedulingConflict(existing *models.Appointment) error {
	return &Error{
		Kind: KindSchedulingConflict,
		Message: fmt.Sprintf("doctor already has an appointment from %s to %s",
			existing.StartTime.String(), existing.EndTime.String()),
		Conflict: &ConflictDetail{
			AppointmentID: existing.ID,
			StartTime:     existing.StartTime,
			EndTime:       existing.EndTime,
		},
	}
}

func invalidTransition(msg string) error {
	return &Error{Kind: KindInvalidTransition, Message: msg}
}

func notFound(what string) error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}
