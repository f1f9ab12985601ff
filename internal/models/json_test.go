package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestAppointmentDateMarshalsAsCalendarDate(t *testing.T) {
	a := Appointment{AppointmentDate: date(2026, 10, 20), StartTime: datatypes.NewTime(9, 0, 0, 0), Status: StatusScheduled}
	a.ID = "a1"

	raw, err := json.Marshal(a)
	require.NoError(t, err)
	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Equal(t, "2026-10-20", fields["appointmentDate"])
	assert.Equal(t, "a1", fields["id"])
	assert.Equal(t, "scheduled", fields["status"])

	// pointers and slices go through the same marshaller
	raw, err = json.Marshal([]*Appointment{&a})
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"appointmentDate":"2026-10-20"`)

	var back Appointment
	require.NoError(t, json.Unmarshal(raw[1:len(raw)-1], &back))
	assert.Equal(t, "a1", back.ID)
	assert.True(t, SameDate(a.AppointmentDate, back.AppointmentDate))
	assert.Equal(t, a.StartTime, back.StartTime)
}

func TestDateUnmarshalAcceptsTimestamps(t *testing.T) {
	var a Appointment
	require.NoError(t, json.Unmarshal([]byte(`{"appointmentDate":"2026-10-20T00:00:00Z"}`), &a))
	assert.Equal(t, "2026-10-20", FormatDate(a.AppointmentDate))

	assert.Error(t, json.Unmarshal([]byte(`{"appointmentDate":"20/10/2026"}`), &a))
}

func TestTimeOffDatesMarshalAsCalendarDates(t *testing.T) {
	period := DoctorTimeOff{StartDate: date(2026, 12, 24), EndDate: date(2027, 1, 2), TimeOffType: TimeOffVacation, IsFullDay: true}

	raw, err := json.Marshal(period)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"startDate":"2026-12-24"`)
	assert.Contains(t, string(raw), `"endDate":"2027-01-02"`)
	assert.Contains(t, string(raw), `"timeOffType":"vacation"`)

	var back DoctorTimeOff
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, back.Covers(date(2026, 12, 31)))
	assert.False(t, back.Covers(date(2027, 1, 3)))
}
