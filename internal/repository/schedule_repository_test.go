package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-app-server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, models.Migrate(db))
	return db
}

func seedDoctorAndPatient(t *testing.T, db *gorm.DB) (*models.Doctor, *models.Patient) {
	t.Helper()
	doctorUser := models.User{Email: "house@clinic.test", FirstName: "Greg", LastName: "House", Role: models.RoleDoctor, IsActive: true}
	require.NoError(t, doctorUser.SetPassword("password123"))
	require.NoError(t, db.Create(&doctorUser).Error)
	doctor := models.Doctor{UserID: doctorUser.ID, LicenseNumber: "LIC-1", AppointmentDuration: 30, IsAcceptingPatients: true}
	require.NoError(t, db.Create(&doctor).Error)

	patientUser := models.User{Email: "pat@clinic.test", FirstName: "Pat", LastName: "Doe", Role: models.RolePatient, IsActive: true}
	require.NoError(t, patientUser.SetPassword("password123"))
	require.NoError(t, db.Create(&patientUser).Error)
	patient := models.Patient{UserID: patientUser.ID, Gender: models.GenderOther, Address: "1 Main St"}
	require.NoError(t, db.Create(&patient).Error)

	return &doctor, &patient
}

func day(y int, m time.Month, d int) datatypes.Date {
	return datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func newAppointment(doctorID, patientID string, date datatypes.Date, sh, sm, eh, em int, status models.AppointmentStatus) *models.Appointment {
	start := datatypes.NewTime(sh, sm, 0, 0)
	end := datatypes.NewTime(eh, em, 0, 0)
	return &models.Appointment{
		DoctorID:        doctorID,
		PatientID:       patientID,
		AppointmentDate: date,
		StartTime:       start,
		EndTime:         end,
		Duration:        models.MinutesBetween(start, end),
		AppointmentType: models.TypeConsultation,
		Status:          status,
		ReasonForVisit:  "checkup",
	}
}

func TestListAppointmentsFiltersByDateAndStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewScheduleRepository(db)
	ctx := context.Background()
	doctor, patient := seedDoctorAndPatient(t, db)

	require.NoError(t, repo.SaveAppointment(ctx, newAppointment(doctor.ID, patient.ID, day(2026, 10, 20), 10, 0, 10, 30, models.StatusConfirmed)))
	require.NoError(t, repo.SaveAppointment(ctx, newAppointment(doctor.ID, patient.ID, day(2026, 10, 20), 9, 0, 9, 30, models.StatusScheduled)))
	require.NoError(t, repo.SaveAppointment(ctx, newAppointment(doctor.ID, patient.ID, day(2026, 10, 20), 11, 0, 11, 30, models.StatusCancelled)))
	require.NoError(t, repo.SaveAppointment(ctx, newAppointment(doctor.ID, patient.ID, day(2026, 10, 21), 9, 0, 9, 30, models.StatusScheduled)))

	active, err := repo.ListAppointments(ctx, doctor.ID, day(2026, 10, 20), models.ActiveStatuses)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "09:00:00", active[0].StartTime.String())
	assert.Equal(t, "10:00:00", active[1].StartTime.String())

	all, err := repo.ListAppointments(ctx, doctor.ID, day(2026, 10, 20), nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSaveAppointmentUniqueBackstop(t *testing.T) {
	db := newTestDB(t)
	repo := NewScheduleRepository(db)
	ctx := context.Background()
	doctor, patient := seedDoctorAndPatient(t, db)

	require.NoError(t, repo.SaveAppointment(ctx, newAppointment(doctor.ID, patient.ID, day(2026, 10, 20), 9, 0, 9, 30, models.StatusScheduled)))
	err := repo.SaveAppointment(ctx, newAppointment(doctor.ID, patient.ID, day(2026, 10, 20), 9, 0, 9, 45, models.StatusScheduled))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicate))
}

func TestGetAppointmentPreloadsParticipants(t *testing.T) {
	db := newTestDB(t)
	repo := NewScheduleRepository(db)
	ctx := context.Background()
	doctor, patient := seedDoctorAndPatient(t, db)

	appt := newAppointment(doctor.ID, patient.ID, day(2026, 10, 20), 9, 0, 9, 30, models.StatusScheduled)
	require.NoError(t, repo.SaveAppointment(ctx, appt))

	got, err := repo.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Doctor)
	require.NotNil(t, got.Doctor.User)
	assert.Equal(t, "house@clinic.test", got.Doctor.User.Email)
	require.NotNil(t, got.Patient)
	assert.Equal(t, patient.UserID, got.Patient.User.ID)
	assert.True(t, models.SameDate(day(2026, 10, 20), got.AppointmentDate))

	_, err = repo.GetAppointment(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAppointmentUpdatesInPlace(t *testing.T) {
	db := newTestDB(t)
	repo := NewScheduleRepository(db)
	ctx := context.Background()
	doctor, patient := seedDoctorAndPatient(t, db)

	appt := newAppointment(doctor.ID, patient.ID, day(2026, 10, 20), 9, 0, 9, 30, models.StatusScheduled)
	require.NoError(t, repo.SaveAppointment(ctx, appt))

	loaded, err := repo.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	loaded.Notes = "bring x-rays"
	loaded.Status = models.StatusConfirmed
	require.NoError(t, repo.SaveAppointment(ctx, loaded))

	var count int64
	require.NoError(t, db.Model(&models.Appointment{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	again, err := repo.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, "bring x-rays", again.Notes)
	assert.Equal(t, models.StatusConfirmed, again.Status)
}

func TestTransactionRollsBack(t *testing.T) {
	db := newTestDB(t)
	repo := NewScheduleRepository(db)
	ctx := context.Background()
	doctor, patient := seedDoctorAndPatient(t, db)

	boom := errors.New("boom")
	err := repo.Transaction(ctx, func(tx ScheduleRepository) error {
		if _, err := tx.LockDoctor(ctx, doctor.ID); err != nil {
			return err
		}
		if err := tx.SaveAppointment(ctx, newAppointment(doctor.ID, patient.ID, day(2026, 10, 20), 9, 0, 9, 30, models.StatusScheduled)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	appts, err := repo.ListAppointments(ctx, doctor.ID, day(2026, 10, 20), nil)
	require.NoError(t, err)
	assert.Empty(t, appts)
}

func TestLockDoctorMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewScheduleRepository(db)

	_, err := repo.LockDoctor(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLockAppointmentInsideTransaction(t *testing.T) {
	db := newTestDB(t)
	repo := NewScheduleRepository(db)
	ctx := context.Background()
	doctor, patient := seedDoctorAndPatient(t, db)

	appt := newAppointment(doctor.ID, patient.ID, day(2026, 10, 20), 9, 0, 9, 30, models.StatusScheduled)
	require.NoError(t, repo.SaveAppointment(ctx, appt))

	err := repo.Transaction(ctx, func(tx ScheduleRepository) error {
		locked, err := tx.LockAppointment(ctx, appt.ID)
		if err != nil {
			return err
		}
		require.NotNil(t, locked.Doctor)
		require.NotNil(t, locked.Patient)
		assert.Equal(t, "house@clinic.test", locked.Doctor.User.Email)
		locked.Status = models.StatusConfirmed
		return tx.SaveAppointment(ctx, locked)
	})
	require.NoError(t, err)

	got, err := repo.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	_, err = repo.LockAppointment(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAvailabilityAndTimeOffLookups(t *testing.T) {
	db := newTestDB(t)
	repo := NewScheduleRepository(db)
	ctx := context.Background()
	doctor, _ := seedDoctorAndPatient(t, db)

	require.NoError(t, db.Create(&models.DoctorAvailability{DoctorID: doctor.ID, Weekday: 0, StartTime: datatypes.NewTime(9, 0, 0, 0), EndTime: datatypes.NewTime(12, 0, 0, 0), IsAvailable: true}).Error)
	require.NoError(t, db.Create(&models.DoctorAvailability{DoctorID: doctor.ID, Weekday: 0, StartTime: datatypes.NewTime(13, 0, 0, 0), EndTime: datatypes.NewTime(17, 0, 0, 0), IsAvailable: false}).Error)
	require.NoError(t, db.Create(&models.DoctorTimeOff{DoctorID: doctor.ID, StartDate: day(2026, 10, 19), EndDate: day(2026, 10, 23), TimeOffType: models.TimeOffVacation, IsFullDay: true}).Error)

	windows, err := repo.ListAvailability(ctx, doctor.ID, 0)
	require.NoError(t, err)
	require.Len(t, windows, 1)
	assert.Equal(t, "09:00:00", windows[0].StartTime.String())

	inside, err := repo.ListTimeOff(ctx, doctor.ID, day(2026, 10, 23))
	require.NoError(t, err)
	assert.Len(t, inside, 1)

	outside, err := repo.ListTimeOff(ctx, doctor.ID, day(2026, 10, 24))
	require.NoError(t, err)
	assert.Empty(t, outside)
}
