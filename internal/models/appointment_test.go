package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/datatypes"
)

func date(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestAppointmentDateTime(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skip("tzdata unavailable")
	}

	a := Appointment{AppointmentDate: date(2026, 3, 29), StartTime: datatypes.NewTime(9, 30, 0, 0)}

	assert.Equal(t, time.Date(2026, 3, 29, 9, 30, 0, 0, time.UTC), a.DateTime(time.UTC))
	// DST starts that morning in Berlin; wall clock must still read 09:30
	got := a.DateTime(berlin)
	assert.Equal(t, 9, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestAppointmentIsPast(t *testing.T) {
	a := Appointment{AppointmentDate: date(2026, 10, 16), StartTime: datatypes.NewTime(9, 0, 0, 0)}

	assert.False(t, a.IsPast(time.Date(2026, 10, 16, 8, 59, 0, 0, time.UTC), time.UTC))
	assert.False(t, a.IsPast(time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC), time.UTC))
	assert.True(t, a.IsPast(time.Date(2026, 10, 16, 9, 0, 1, 0, time.UTC), time.UTC))
}

func TestAppointmentCanBeCancelled(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	future := date(2026, 10, 20)

	tests := []struct {
		name   string
		date   datatypes.Date
		status AppointmentStatus
		want   bool
	}{
		{"scheduled in future", future, StatusScheduled, true},
		{"confirmed in future", future, StatusConfirmed, true},
		{"in progress in future", future, StatusInProgress, true},
		{"rescheduled in future", future, StatusRescheduled, true},
		{"already cancelled", future, StatusCancelled, false},
		{"completed", future, StatusCompleted, false},
		{"no show", future, StatusNoShow, false},
		{"scheduled in past", date(2026, 10, 15), StatusScheduled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Appointment{AppointmentDate: tt.date, StartTime: datatypes.NewTime(10, 0, 0, 0), Status: tt.status}
			assert.Equal(t, tt.want, a.CanBeCancelled(now, time.UTC))
		})
	}
}

func TestStatusIsActive(t *testing.T) {
	assert.True(t, StatusScheduled.IsActive())
	assert.True(t, StatusConfirmed.IsActive())
	assert.True(t, StatusInProgress.IsActive())
	assert.False(t, StatusCancelled.IsActive())
	assert.False(t, StatusRescheduled.IsActive())
	assert.False(t, StatusNoShow.IsActive())
	assert.False(t, AppointmentStatus("pending").Valid())
}

func TestMinutesBetween(t *testing.T) {
	assert.Equal(t, 45, MinutesBetween(datatypes.NewTime(9, 15, 0, 0), datatypes.NewTime(10, 0, 0, 0)))
}

func TestWeekday(t *testing.T) {
	assert.Equal(t, 0, Weekday(date(2026, 10, 19))) // Monday
	assert.Equal(t, 6, Weekday(date(2026, 10, 18))) // Sunday
}

func TestTimeOffBlocks(t *testing.T) {
	start := datatypes.NewTime(12, 0, 0, 0)
	end := datatypes.NewTime(14, 0, 0, 0)
	partial := DoctorTimeOff{StartDate: date(2026, 10, 19), EndDate: date(2026, 10, 20), StartTime: &start, EndTime: &end}
	full := DoctorTimeOff{StartDate: date(2026, 10, 19), EndDate: date(2026, 10, 19), IsFullDay: true}

	assert.True(t, partial.Blocks(date(2026, 10, 20), datatypes.NewTime(13, 30, 0, 0), datatypes.NewTime(14, 0, 0, 0)))
	assert.False(t, partial.Blocks(date(2026, 10, 20), datatypes.NewTime(14, 0, 0, 0), datatypes.NewTime(14, 30, 0, 0)))
	assert.False(t, partial.Blocks(date(2026, 10, 21), datatypes.NewTime(12, 0, 0, 0), datatypes.NewTime(12, 30, 0, 0)))
	assert.True(t, full.Blocks(date(2026, 10, 19), datatypes.NewTime(8, 0, 0, 0), datatypes.NewTime(8, 30, 0, 0)))
}

func TestTimeOffValidate(t *testing.T) {
	start := datatypes.NewTime(14, 0, 0, 0)
	end := datatypes.NewTime(12, 0, 0, 0)

	backwards := DoctorTimeOff{StartDate: date(2026, 10, 20), EndDate: date(2026, 10, 19), IsFullDay: true}
	assert.ErrorIs(t, backwards.Validate(), ErrDateRangeOutOfOrder)

	missing := DoctorTimeOff{StartDate: date(2026, 10, 19), EndDate: date(2026, 10, 19)}
	assert.ErrorIs(t, missing.Validate(), ErrPartialDayTimes)

	inverted := DoctorTimeOff{StartDate: date(2026, 10, 19), EndDate: date(2026, 10, 19), StartTime: &start, EndTime: &end}
	assert.ErrorIs(t, inverted.Validate(), ErrWindowOutOfOrder)
}

func TestAvailabilityValidate(t *testing.T) {
	ok := DoctorAvailability{Weekday: 2, StartTime: datatypes.NewTime(9, 0, 0, 0), EndTime: datatypes.NewTime(17, 0, 0, 0)}
	assert.NoError(t, ok.Validate())

	bad := DoctorAvailability{Weekday: 7, StartTime: datatypes.NewTime(9, 0, 0, 0), EndTime: datatypes.NewTime(17, 0, 0, 0)}
	assert.ErrorIs(t, bad.Validate(), ErrInvalidWeekday)

	inverted := DoctorAvailability{Weekday: 1, StartTime: datatypes.NewTime(17, 0, 0, 0), EndTime: datatypes.NewTime(9, 0, 0, 0)}
	assert.ErrorIs(t, inverted.Validate(), ErrWindowOutOfOrder)
}

func TestUserPassword(t *testing.T) {
	u := User{}
	assert.NoError(t, u.SetPassword("s3cret-pass"))
	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("wrong"))
	assert.Equal(t, "Ada", (&User{FirstName: "Ada"}).FullName())
}
