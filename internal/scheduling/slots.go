package scheduling

import (
	"context"
	"errors"
	"time"

	"clinic-app-server/internal/models"
	"clinic-app-server/internal/repository"

	"gorm.io/datatypes"
)

// Slot is a bookable window.
type Slot struct {
	StartTime datatypes.Time `json:"startTime"`
	EndTime   datatypes.Time `json:"endTime"`
}

// AvailableSlots cuts the doctor's weekly windows for date into slots of the
// doctor's appointment length and drops those blocked by time off, by active
// appointments, or already begun when date is today.
func (s *Service) AvailableSlots(ctx context.Context, doctorID string, date datatypes.Date) ([]Slot, error) {
	date = models.DateOf(time.Time(date))
	today := s.today()
	if models.DateBefore(date, today) {
		return nil, pastDateNotAllowed()
	}

	doctor, err := s.repo.GetDoctor(ctx, doctorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("doctor")
		}
		return nil, err
	}

	windows, err := s.repo.ListAvailability(ctx, doctorID, models.Weekday(date))
	if err != nil {
		return nil, err
	}
	timeOff, err := s.repo.ListTimeOff(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	booked, err := s.repo.ListAppointments(ctx, doctorID, date, models.ActiveStatuses)
	if err != nil {
		return nil, err
	}

	var earliest datatypes.Time
	if models.SameDate(date, today) {
		earliest = models.ClockOf(s.clock.Now().In(s.loc))
	}

	return buildSlots(date, windows, timeOff, booked, doctor.SlotLength(), earliest), nil
}

func buildSlots(date datatypes.Date, windows []models.DoctorAvailability, timeOff []models.DoctorTimeOff, booked []models.Appointment, lengthMinutes int, earliest datatypes.Time) []Slot {
	step := datatypes.Time(time.Duration(lengthMinutes) * time.Minute)
	slots := []Slot{}
	for _, w := range windows {
		if !w.IsAvailable {
			continue
		}
		for start := w.StartTime; start+step <= w.EndTime; start += step {
			end := start + step
			if start < earliest {
				continue
			}
			if blockedByTimeOff(timeOff, date, start, end) {
				continue
			}
			if FindConflict(booked, start, end, "") != nil {
				continue
			}
			slots = append(slots, Slot{StartTime: start, EndTime: end})
		}
	}
	return slots
}

func blockedByTimeOff(periods []models.DoctorTimeOff, date datatypes.Date, start, end datatypes.Time) bool {
	for i := range periods {
		if periods[i].Blocks(date, start, end) {
			return true
		}
	}
	return false
}
