package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// jsonDate puts a calendar date on the wire as "YYYY-MM-DD", the same form
// the API accepts. RFC 3339 timestamps are still read, truncated to their
// date.
type jsonDate datatypes.Date

func (d jsonDate) MarshalJSON() ([]byte, error) {
	return json.Marshal(FormatDate(datatypes.Date(d)))
}

func (d *jsonDate) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, raw); err != nil {
			return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
		}
	}
	*d = jsonDate(DateOf(t))
	return nil
}

type appointmentFields Appointment

func (a Appointment) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		appointmentFields
		AppointmentDate jsonDate `json:"appointmentDate"`
	}{appointmentFields(a), jsonDate(a.AppointmentDate)})
}

func (a *Appointment) UnmarshalJSON(b []byte) error {
	aux := struct {
		*appointmentFields
		AppointmentDate jsonDate `json:"appointmentDate"`
	}{(*appointmentFields)(a), jsonDate(a.AppointmentDate)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	a.AppointmentDate = datatypes.Date(aux.AppointmentDate)
	return nil
}

type timeOffFields DoctorTimeOff

func (t DoctorTimeOff) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		timeOffFields
		StartDate jsonDate `json:"startDate"`
		EndDate   jsonDate `json:"endDate"`
	}{timeOffFields(t), jsonDate(t.StartDate), jsonDate(t.EndDate)})
}

func (t *DoctorTimeOff) UnmarshalJSON(b []byte) error {
	aux := struct {
		*timeOffFields
		StartDate jsonDate `json:"startDate"`
		EndDate   jsonDate `json:"endDate"`
	}{(*timeOffFields)(t), jsonDate(t.StartDate), jsonDate(t.EndDate)}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	t.StartDate = datatypes.Date(aux.StartDate)
	t.EndDate = datatypes.Date(aux.EndDate)
	return nil
}
