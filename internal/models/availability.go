package models

import (
	"errors"

	"gorm.io/datatypes"
)

// DoctorAvailability is a recurring weekly window in which a doctor sees
// patients. Weekday runs from 0 (Monday) to 6 (Sunday).
type DoctorAvailability struct {
	BaseModel
	DoctorID    string         `gorm:"size:36;not null;uniqueIndex:idx_availability_window,priority:1" json:"doctorId"`
	Weekday     int            `gorm:"not null;uniqueIndex:idx_availability_window,priority:2" json:"weekday"`
	StartTime   datatypes.Time `gorm:"not null;uniqueIndex:idx_availability_window,priority:3" json:"startTime"`
	EndTime     datatypes.Time `gorm:"not null;uniqueIndex:idx_availability_window,priority:4" json:"endTime"`
	IsAvailable bool           `gorm:"not null" json:"isAvailable"`

	Doctor *Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

var (
	ErrInvalidWeekday      = errors.New("weekday must be between 0 (Monday) and 6 (Sunday)")
	ErrWindowOutOfOrder    = errors.New("end time must be after start time")
	ErrDateRangeOutOfOrder = errors.New("end date cannot be before start date")
	ErrPartialDayTimes     = errors.New("start and end times are required for partial day time off")
)

// Validate checks the window on its own.
func (a *DoctorAvailability) Validate() error {
	if a.Weekday < 0 || a.Weekday > 6 {
		return ErrInvalidWeekday
	}
	if a.StartTime >= a.EndTime {
		return ErrWindowOutOfOrder
	}
	return nil
}
