// Package scheduling owns appointment validation and the appointment
// lifecycle: booking, cancellation, status changes and rescheduling.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-app-server/internal/lock"
	"clinic-app-server/internal/models"
	"clinic-app-server/internal/repository"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
)

// CreateAppointmentInput carries a booking request.
type CreateAppointmentInput struct {
	PatientID            string
	DoctorID             string
	AppointmentDate      datatypes.Date
	StartTime            datatypes.Time
	EndTime              datatypes.Time
	AppointmentType      models.AppointmentType
	ReasonForVisit       string
	Notes                string
	FollowUpRequired     bool
	FollowUpInstructions string
}

// UpdateAppointmentInput carries free-form edits. Nil fields are left alone.
type UpdateAppointmentInput struct {
	Status               *models.AppointmentStatus
	AppointmentType      *models.AppointmentType
	ReasonForVisit       *string
	Notes                *string
	FollowUpRequired     *bool
	FollowUpInstructions *string
}

// RescheduleInput moves an appointment to a new window.
type RescheduleInput struct {
	AppointmentDate datatypes.Date
	StartTime       datatypes.Time
	EndTime         datatypes.Time
}

type Service struct {
	repo   repository.ScheduleRepository
	locker lock.Locker
	clock  Clock
	loc    *time.Location
	log    zerolog.Logger
}

func NewService(repo repository.ScheduleRepository, locker lock.Locker, clock Clock, loc *time.Location, logger zerolog.Logger) *Service {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, locker: locker, clock: clock, loc: loc, log: logger}
}

// Location is the reference time zone for "today" and "now".
func (s *Service) Location() *time.Location { return s.loc }

func (s *Service) today() datatypes.Date {
	return models.DateOf(s.clock.Now().In(s.loc))
}

// HasConflict returns the first active appointment of doctorID on date that
// overlaps [start, end), ignoring excludeID. Nil means no conflict.
func (s *Service) HasConflict(ctx context.Context, doctorID string, date datatypes.Date, start, end datatypes.Time, excludeID string) (*models.Appointment, error) {
	return hasConflict(ctx, s.repo, doctorID, date, start, end, excludeID)
}

func hasConflict(ctx context.Context, repo repository.ScheduleRepository, doctorID string, date datatypes.Date, start, end datatypes.Time, excludeID string) (*models.Appointment, error) {
	existing, err := repo.ListAppointments(ctx, doctorID, date, models.ActiveStatuses)
	if err != nil {
		return nil, err
	}
	return FindConflict(existing, start, end, excludeID), nil
}

// validateWindow runs the checks that need no stored data: ordering first,
// then the date against today.
func (s *Service) validateWindow(date datatypes.Date, start, end datatypes.Time) error {
	if start >= end {
		return invalidTimeRange()
	}
	if models.DateBefore(date, s.today()) {
		return pastDateNotAllowed()
	}
	return nil
}

// ValidateForCreation applies the booking rules in order and stops at the
// first failure.
func (s *Service) ValidateForCreation(ctx context.Context, appt *models.Appointment) error {
	if err := s.validateWindow(appt.AppointmentDate, appt.StartTime, appt.EndTime); err != nil {
		return err
	}
	conflict, err := s.HasConflict(ctx, appt.DoctorID, appt.AppointmentDate, appt.StartTime, appt.EndTime, "")
	if err != nil {
		return err
	}
	if conflict != nil {
		return schedulingConflict(conflict)
	}
	return nil
}

func bookingKey(doctorID string, date datatypes.Date) string {
	return "booking:" + doctorID + ":" + models.FormatDate(date)
}

// withBookingLock serializes everything touching one doctor's calendar for
// one date, then runs fn inside a transaction holding the doctor row lock.
func (s *Service) withBookingLock(ctx context.Context, doctorID string, date datatypes.Date, fn func(tx repository.ScheduleRepository) error) error {
	release, err := s.locker.Acquire(ctx, bookingKey(doctorID, date))
	if err != nil {
		return fmt.Errorf("booking lock: %w", err)
	}
	defer release()

	return s.repo.Transaction(ctx, func(tx repository.ScheduleRepository) error {
		if _, err := tx.LockDoctor(ctx, doctorID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFound("doctor")
			}
			return err
		}
		return fn(tx)
	})
}

// CreateAppointment validates and books an appointment. Check and insert run
// under the per-(doctor, date) lock in one transaction.
func (s *Service) CreateAppointment(ctx context.Context, in CreateAppointmentInput, createdBy string) (*models.Appointment, error) {
	if err := s.validateWindow(in.AppointmentDate, in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	apptType := in.AppointmentType
	if apptType == "" {
		apptType = models.TypeConsultation
	}
	appt := &models.Appointment{
		PatientID:            in.PatientID,
		DoctorID:             in.DoctorID,
		AppointmentDate:      models.DateOf(time.Time(in.AppointmentDate)),
		StartTime:            in.StartTime,
		EndTime:              in.EndTime,
		Duration:             models.MinutesBetween(in.StartTime, in.EndTime),
		AppointmentType:      apptType,
		Status:               models.StatusScheduled,
		ReasonForVisit:       in.ReasonForVisit,
		Notes:                in.Notes,
		FollowUpRequired:     in.FollowUpRequired,
		FollowUpInstructions: in.FollowUpInstructions,
	}
	if createdBy != "" {
		appt.CreatedBy = &createdBy
	}

	err := s.withBookingLock(ctx, appt.DoctorID, appt.AppointmentDate, func(tx repository.ScheduleRepository) error {
		if _, err := tx.GetPatient(ctx, appt.PatientID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return notFound("patient")
			}
			return err
		}

		conflict, err := hasConflict(ctx, tx, appt.DoctorID, appt.AppointmentDate, appt.StartTime, appt.EndTime, "")
		if err != nil {
			return err
		}
		if conflict != nil {
			return schedulingConflict(conflict)
		}

		if err := tx.SaveAppointment(ctx, appt); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return s.duplicateConflict(ctx, tx, appt)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("appointment_id", appt.ID).
		Str("doctor_id", appt.DoctorID).
		Str("date", models.FormatDate(appt.AppointmentDate)).
		Str("start", appt.StartTime.String()).
		Msg("appointment booked")
	return appt, nil
}

// duplicateConflict reports a unique-index violation on (doctor, date,
// start) as a scheduling conflict against the row that holds the slot.
func (s *Service) duplicateConflict(ctx context.Context, tx repository.ScheduleRepository, appt *models.Appointment) error {
	existing, err := tx.ListAppointments(ctx, appt.DoctorID, appt.AppointmentDate, nil)
	if err == nil {
		for i := range existing {
			if existing[i].ID != appt.ID && existing[i].StartTime == appt.StartTime {
				return schedulingConflict(&existing[i])
			}
		}
	}
	return &Error{
		Kind:     KindSchedulingConflict,
		Message:  "doctor already has an appointment starting at " + appt.StartTime.String(),
		Conflict: &ConflictDetail{StartTime: appt.StartTime, EndTime: appt.EndTime},
	}
}

// CancelAppointment cancels on behalf of actor. Appointments that already
// started, or are cancelled, completed or marked no-show, cannot be
// cancelled.
func (s *Service) CancelAppointment(ctx context.Context, id, actor, reason string) (*models.Appointment, error) {
	var updated *models.Appointment
	err := s.repo.Transaction(ctx, func(tx repository.ScheduleRepository) error {
		appt, err := s.lockForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		if !appt.CanBeCancelled(now, s.loc) {
			if appt.IsPast(now, s.loc) {
				return invalidTransition("appointments in the past cannot be cancelled")
			}
			return invalidTransition(fmt.Sprintf("cannot cancel an appointment that is %s", appt.Status))
		}

		cancelledAt := now.UTC()
		appt.Status = models.StatusCancelled
		appt.CancelledBy = &actor
		appt.CancelledAt = &cancelledAt
		appt.CancellationReason = reason

		if err := tx.SaveAppointment(ctx, appt); err != nil {
			return err
		}
		updated = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("appointment_id", id).Str("cancelled_by", actor).Msg("appointment cancelled")
	return updated, nil
}

// UpdateAppointment applies free-form edits. A status change must follow the
// transition table; cancelling goes through CancelAppointment instead.
func (s *Service) UpdateAppointment(ctx context.Context, id string, in UpdateAppointmentInput) (*models.Appointment, error) {
	var updated *models.Appointment
	err := s.repo.Transaction(ctx, func(tx repository.ScheduleRepository) error {
		appt, err := s.lockForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if in.Status != nil && *in.Status != appt.Status {
			next := *in.Status
			if next == models.StatusCancelled {
				return invalidTransition("use the cancel operation to cancel an appointment")
			}
			if !CanTransition(appt.Status, next) {
				return invalidTransition(fmt.Sprintf("cannot change status from %s to %s", appt.Status, next))
			}
			appt.Status = next
		}
		if in.AppointmentType != nil {
			appt.AppointmentType = *in.AppointmentType
		}
		if in.ReasonForVisit != nil {
			appt.ReasonForVisit = *in.ReasonForVisit
		}
		if in.Notes != nil {
			appt.Notes = *in.Notes
		}
		if in.FollowUpRequired != nil {
			appt.FollowUpRequired = *in.FollowUpRequired
		}
		if in.FollowUpInstructions != nil {
			appt.FollowUpInstructions = *in.FollowUpInstructions
		}

		if err := tx.SaveAppointment(ctx, appt); err != nil {
			return err
		}
		updated = appt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RescheduleAppointment moves an appointment to a new window, re-running the
// booking checks with the appointment itself excluded. The moved
// appointment goes back to scheduled.
func (s *Service) RescheduleAppointment(ctx context.Context, id string, in RescheduleInput) (*models.Appointment, error) {
	if err := s.validateWindow(in.AppointmentDate, in.StartTime, in.EndTime); err != nil {
		return nil, err
	}
	date := models.DateOf(time.Time(in.AppointmentDate))

	current, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	switch current.Status {
	case models.StatusScheduled, models.StatusConfirmed, models.StatusRescheduled:
	default:
		return nil, invalidTransition(fmt.Sprintf("cannot reschedule an appointment that is %s", current.Status))
	}

	var updated *models.Appointment
	err = s.withBookingLock(ctx, current.DoctorID, date, func(tx repository.ScheduleRepository) error {
		appt, err := s.lockForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		switch appt.Status {
		case models.StatusScheduled, models.StatusConfirmed, models.StatusRescheduled:
		default:
			return invalidTransition(fmt.Sprintf("cannot reschedule an appointment that is %s", appt.Status))
		}

		conflict, err := hasConflict(ctx, tx, appt.DoctorID, date, in.StartTime, in.EndTime, appt.ID)
		if err != nil {
			return err
		}
		if conflict != nil {
			return schedulingConflict(conflict)
		}

		appt.AppointmentDate = date
		appt.StartTime = in.StartTime
		appt.EndTime = in.EndTime
		appt.Duration = models.MinutesBetween(in.StartTime, in.EndTime)
		appt.Status = models.StatusScheduled

		if err := tx.SaveAppointment(ctx, appt); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return s.duplicateConflict(ctx, tx, appt)
			}
			return err
		}
		updated = appt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("appointment_id", id).
		Str("date", models.FormatDate(date)).
		Str("start", in.StartTime.String()).
		Msg("appointment rescheduled")
	return updated, nil
}

// GetAppointment loads one appointment with patient and doctor attached.
func (s *Service) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	return s.load(ctx, s.repo, id)
}

// ListAppointments returns appointments matching filter, newest first.
func (s *Service) ListAppointments(ctx context.Context, filter repository.AppointmentFilter) ([]models.Appointment, error) {
	return s.repo.FindAppointments(ctx, filter)
}

// DeleteAppointment removes the record outright.
func (s *Service) DeleteAppointment(ctx context.Context, id string) error {
	if err := s.repo.DeleteAppointment(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("appointment")
		}
		return err
	}
	return nil
}

// lockForUpdate loads the appointment under a row lock so concurrent
// cancel, update and reschedule calls apply one after another.
func (s *Service) lockForUpdate(ctx context.Context, tx repository.ScheduleRepository, id string) (*models.Appointment, error) {
	appt, err := tx.LockAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("appointment")
		}
		return nil, err
	}
	return appt, nil
}

func (s *Service) load(ctx context.Context, repo repository.ScheduleRepository, id string) (*models.Appointment, error) {
	appt, err := repo.GetAppointment(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound("appointment")
		}
		return nil, err
	}
	return appt, nil
}
