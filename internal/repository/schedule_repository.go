package repository

import (
	"context"
	"errors"
	"fmt"

	"clinic-app-server/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// AppointmentFilter narrows FindAppointments. Zero fields are ignored.
type AppointmentFilter struct {
	DoctorID  string
	PatientID string
	Date      *datatypes.Date
	Status    models.AppointmentStatus
}

// ScheduleRepository is the persistence boundary of the scheduling core.
type ScheduleRepository interface {
	// Transaction runs fn against a repository bound to a single database
	// transaction. Returning an error rolls everything back.
	Transaction(ctx context.Context, fn func(repo ScheduleRepository) error) error
	// LockDoctor loads the doctor row with an exclusive row lock held until
	// the surrounding transaction ends.
	LockDoctor(ctx context.Context, doctorID string) (*models.Doctor, error)
	GetDoctor(ctx context.Context, id string) (*models.Doctor, error)
	GetPatient(ctx context.Context, id string) (*models.Patient, error)

	ListAppointments(ctx context.Context, doctorID string, date datatypes.Date, statuses []models.AppointmentStatus) ([]models.Appointment, error)
	FindAppointments(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)
	// LockAppointment is GetAppointment under an exclusive row lock, for
	// read-modify-write inside a transaction.
	LockAppointment(ctx context.Context, id string) (*models.Appointment, error)
	SaveAppointment(ctx context.Context, appt *models.Appointment) error
	DeleteAppointment(ctx context.Context, id string) error

	ListAvailability(ctx context.Context, doctorID string, weekday int) ([]models.DoctorAvailability, error)
	ListTimeOff(ctx context.Context, doctorID string, date datatypes.Date) ([]models.DoctorTimeOff, error)
}

type GormScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

func (r *GormScheduleRepository) Transaction(ctx context.Context, fn func(repo ScheduleRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormScheduleRepository{db: tx})
	})
}

func (r *GormScheduleRepository) LockDoctor(ctx context.Context, doctorID string) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&doctor, "id = ?", doctorID).Error
	if err != nil {
		return nil, translate(err, "lock doctor")
	}
	return &doctor, nil
}

func (r *GormScheduleRepository) GetDoctor(ctx context.Context, id string) (*models.Doctor, error) {
	var doctor models.Doctor
	if err := r.db.WithContext(ctx).Preload("User").First(&doctor, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get doctor")
	}
	return &doctor, nil
}

func (r *GormScheduleRepository) GetPatient(ctx context.Context, id string) (*models.Patient, error) {
	var patient models.Patient
	if err := r.db.WithContext(ctx).Preload("User").First(&patient, "id = ?", id).Error; err != nil {
		return nil, translate(err, "get patient")
	}
	return &patient, nil
}

func (r *GormScheduleRepository) ListAppointments(ctx context.Context, doctorID string, date datatypes.Date, statuses []models.AppointmentStatus) ([]models.Appointment, error) {
	var appts []models.Appointment
	q := r.db.WithContext(ctx).
		Where("doctor_id = ? AND appointment_date = ?", doctorID, date)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	if err := q.Order("start_time asc").Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

func (r *GormScheduleRepository) FindAppointments(ctx context.Context, filter AppointmentFilter) ([]models.Appointment, error) {
	var appts []models.Appointment
	q := r.db.WithContext(ctx).Preload("Patient.User").Preload("Doctor.User")
	if filter.DoctorID != "" {
		q = q.Where("doctor_id = ?", filter.DoctorID)
	}
	if filter.PatientID != "" {
		q = q.Where("patient_id = ?", filter.PatientID)
	}
	if filter.Date != nil {
		q = q.Where("appointment_date = ?", *filter.Date)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if err := q.Order("appointment_date desc, start_time desc").Find(&appts).Error; err != nil {
		return nil, fmt.Errorf("find appointments: %w", err)
	}
	return appts, nil
}

func (r *GormScheduleRepository) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient.User").
		Preload("Doctor.User").
		First(&appt, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "get appointment")
	}
	return &appt, nil
}

func (r *GormScheduleRepository) LockAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	var appt models.Appointment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Patient.User").
		Preload("Doctor.User").
		First(&appt, "id = ?", id).Error
	if err != nil {
		return nil, translate(err, "lock appointment")
	}
	return &appt, nil
}

func (r *GormScheduleRepository) SaveAppointment(ctx context.Context, appt *models.Appointment) error {
	q := r.db.WithContext(ctx).Omit(clause.Associations)
	var err error
	if appt.ID == "" {
		err = q.Create(appt).Error
	} else {
		err = q.Save(appt).Error
	}
	if err != nil {
		return translate(err, "save appointment")
	}
	return nil
}

func (r *GormScheduleRepository) DeleteAppointment(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Appointment{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete appointment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormScheduleRepository) ListAvailability(ctx context.Context, doctorID string, weekday int) ([]models.DoctorAvailability, error) {
	var windows []models.DoctorAvailability
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND weekday = ? AND is_available = ?", doctorID, weekday, true).
		Order("start_time asc").
		Find(&windows).Error
	if err != nil {
		return nil, fmt.Errorf("list availability: %w", err)
	}
	return windows, nil
}

func (r *GormScheduleRepository) ListTimeOff(ctx context.Context, doctorID string, date datatypes.Date) ([]models.DoctorTimeOff, error) {
	var periods []models.DoctorTimeOff
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND start_date <= ? AND end_date >= ?", doctorID, date, date).
		Find(&periods).Error
	if err != nil {
		return nil, fmt.Errorf("list time off: %w", err)
	}
	return periods, nil
}

func translate(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
