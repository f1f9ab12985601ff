package models

import (
	"gorm.io/datatypes"
)

// TimeOffType classifies a doctor's absence.
type TimeOffType string

const (
	TimeOffVacation   TimeOffType = "vacation"
	TimeOffSickLeave  TimeOffType = "sick_leave"
	TimeOffConference TimeOffType = "conference"
	TimeOffPersonal   TimeOffType = "personal"
	TimeOffOther      TimeOffType = "other"
)

// DoctorTimeOff blocks a doctor's calendar from StartDate to EndDate
// inclusive. Partial-day entries apply StartTime..EndTime on every day of
// the range.
type DoctorTimeOff struct {
	BaseModel
	DoctorID    string          `gorm:"size:36;not null;index" json:"doctorId"`
	StartDate   datatypes.Date  `gorm:"not null;index" json:"startDate"`
	EndDate     datatypes.Date  `gorm:"not null;index" json:"endDate"`
	StartTime   *datatypes.Time `json:"startTime,omitempty"`
	EndTime     *datatypes.Time `json:"endTime,omitempty"`
	TimeOffType TimeOffType     `gorm:"size:20;not null" json:"timeOffType"`
	Reason      string          `gorm:"type:text" json:"reason"`
	IsFullDay   bool            `gorm:"not null" json:"isFullDay"`

	Doctor *Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

// Validate checks date ordering and, for partial days, the time window.
func (t *DoctorTimeOff) Validate() error {
	if DateBefore(t.EndDate, t.StartDate) {
		return ErrDateRangeOutOfOrder
	}
	if t.IsFullDay {
		return nil
	}
	if t.StartTime == nil || t.EndTime == nil {
		return ErrPartialDayTimes
	}
	if *t.StartTime >= *t.EndTime {
		return ErrWindowOutOfOrder
	}
	return nil
}

// Covers reports whether date falls inside the time-off range.
func (t *DoctorTimeOff) Covers(date datatypes.Date) bool {
	return !DateBefore(date, t.StartDate) && !DateBefore(t.EndDate, date)
}

// Blocks reports whether the window [start, end) on date is unavailable
// because of this time off.
func (t *DoctorTimeOff) Blocks(date datatypes.Date, start, end datatypes.Time) bool {
	if !t.Covers(date) {
		return false
	}
	if t.IsFullDay || t.StartTime == nil || t.EndTime == nil {
		return true
	}
	return start < *t.EndTime && end > *t.StartTime
}
