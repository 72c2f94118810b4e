package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanolv/doctor-agenda/internal/model"
	apperrors "github.com/ryanolv/doctor-agenda/pkg/errors"
)

var fixedNow = time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

func newTestBase(t *testing.T) (BaseRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	base := NewBaseRepository(sqlx.NewDb(db, "sqlmock"), nil)
	base.now = func() time.Time { return fixedNow }
	return base, mock
}

func TestClinicRepository_CreateWithMembership(t *testing.T) {
	base, mock := newTestBase(t)
	repo := &clinicRepository{base}
	userID := uuid.New()
	clinic := &model.Clinic{Name: "Clínica Centro", Address: "Rua A, 1", Phone: "11999999999", Email: "c@x.com"}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO clinics")).
		WithArgs(sqlmock.AnyArg(), clinic.Name, clinic.Address, clinic.Phone, clinic.Email, nil, fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users_to_clinics")).
		WithArgs(userID, sqlmock.AnyArg(), fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.CreateWithMembership(context.Background(), clinic, userID)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, clinic.ID)
	assert.Equal(t, fixedNow, clinic.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClinicRepository_CreateWithMembership_RollsBackOnMembershipFailure(t *testing.T) {
	base, mock := newTestBase(t)
	repo := &clinicRepository{base}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO clinics")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users_to_clinics")).
		WillReturnError(errors.New("foreign key violation"))
	mock.ExpectRollback()

	err := repo.CreateWithMembership(context.Background(), &model.Clinic{Name: "X"}, uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create clinic membership")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClinicRepository_GetFirstForUser(t *testing.T) {
	userID := uuid.New()

	t.Run("no membership", func(t *testing.T) {
		base, mock := newTestBase(t)
		repo := &clinicRepository{base}

		mock.ExpectQuery(regexp.QuoteMeta("FROM users_to_clinics uc")).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		clinic, err := repo.GetFirstForUser(context.Background(), userID)
		require.NoError(t, err)
		assert.Nil(t, clinic)
	})

	t.Run("first membership", func(t *testing.T) {
		base, mock := newTestBase(t)
		repo := &clinicRepository{base}
		clinicID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "name", "address", "phone", "email", "website", "created_at", "updated_at"}).
			AddRow(clinicID.String(), "Centro", "Rua A", "1199999999", "c@x.com", nil, fixedNow, fixedNow)
		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY uc.created_at ASC")).
			WithArgs(userID).
			WillReturnRows(rows)

		clinic, err := repo.GetFirstForUser(context.Background(), userID)
		require.NoError(t, err)
		require.NotNil(t, clinic)
		assert.Equal(t, clinicID, clinic.ID)
		assert.Nil(t, clinic.Website)
	})
}

func TestClinicRepository_GetNotFound(t *testing.T) {
	base, mock := newTestBase(t)
	repo := &clinicRepository{base}

	mock.ExpectQuery(regexp.QuoteMeta("FROM clinics WHERE id = $1")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.Get(context.Background(), uuid.New())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}

func TestDoctorRepository_Upsert(t *testing.T) {
	doctor := &model.Doctor{
		ClinicID:                uuid.New(),
		Name:                    "Dra. Ana",
		Email:                   "ana@x.com",
		Phone:                   "11999999999",
		Specialization:          "Cardiologia",
		AppointmentPriceInCents: 15000,
		AvailableWeekdays:       model.Weekdays{1, 3},
		AvailableFromTime:       "11:00:00",
		AvailableToTime:         "21:00:00",
	}

	t.Run("inserted", func(t *testing.T) {
		base, mock := newTestBase(t)
		repo := &doctorRepository{base}

		mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (id) DO UPDATE SET")).
			WithArgs(sqlmock.AnyArg(), doctor.ClinicID, doctor.Name, doctor.Email, doctor.Phone, "",
				doctor.Specialization, int64(15000), "{1,3}", "11:00:00", "21:00:00", fixedNow).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(fixedNow, fixedNow))

		d := *doctor
		require.NoError(t, repo.Upsert(context.Background(), &d))
		assert.NotEqual(t, uuid.Nil, d.ID)
		assert.Equal(t, fixedNow, d.UpdatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row owned by another clinic", func(t *testing.T) {
		base, mock := newTestBase(t)
		repo := &doctorRepository{base}

		mock.ExpectQuery(regexp.QuoteMeta("WHERE doctors.clinic_id = EXCLUDED.clinic_id")).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

		d := *doctor
		d.ID = uuid.New()
		err := repo.Upsert(context.Background(), &d)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
	})
}

func TestDoctorRepository_Get(t *testing.T) {
	base, mock := newTestBase(t)
	repo := &doctorRepository{base}
	clinicID, doctorID := uuid.New(), uuid.New()

	rows := sqlmock.NewRows([]string{
		"id", "clinic_id", "name", "email", "phone", "avatar_image_url", "specialization",
		"appointment_price_in_cents", "available_week_days", "available_from_time", "available_to_time",
		"created_at", "updated_at",
	}).AddRow(doctorID.String(), clinicID.String(), "Dra. Ana", "ana@x.com", "11999999999", "", "Cardiologia",
		15000, []byte("{1,3,5}"), "11:00:00", "21:00:00", fixedNow, fixedNow)

	mock.ExpectQuery(regexp.QuoteMeta("FROM doctors WHERE id = $1 AND clinic_id = $2")).
		WithArgs(doctorID, clinicID).
		WillReturnRows(rows)

	doctor, err := repo.Get(context.Background(), clinicID, doctorID)
	require.NoError(t, err)
	assert.Equal(t, model.Weekdays{1, 3, 5}, doctor.AvailableWeekdays)
	assert.Equal(t, "11:00:00", doctor.AvailableFromTime)
	assert.Equal(t, int64(15000), doctor.AppointmentPriceInCents)
}

func TestDoctorRepository_CountAvailableOn(t *testing.T) {
	base, mock := newTestBase(t)
	repo := &doctorRepository{base}
	clinicID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("$2 = ANY(available_week_days)")).
		WithArgs(clinicID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountAvailableOn(context.Background(), clinicID, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestPatientRepository_Upsert(t *testing.T) {
	base, mock := newTestBase(t)
	repo := &patientRepository{base}
	patient := &model.Patient{
		ClinicID:    uuid.New(),
		Name:        "João",
		Email:       "joao@x.com",
		Phone:       "11988887777",
		Sex:         model.SexMale,
		DateOfBirth: "1990-05-20",
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO patients")).
		WithArgs(sqlmock.AnyArg(), patient.ClinicID, "João", "joao@x.com", "11988887777", "male", "1990-05-20", fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(fixedNow, fixedNow))

	require.NoError(t, repo.Upsert(context.Background(), patient))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientRepository_DeleteNotFound(t *testing.T) {
	base, mock := newTestBase(t)
	repo := &patientRepository{base}

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM patients")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), uuid.New(), uuid.New())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}

func appointmentRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "patient_id", "doctor_id", "clinic_id", "date", "status",
		"appointment_price_in_cents", "created_at", "updated_at",
		"patient.id", "patient.name", "patient.phone", "patient.email",
		"doctor.id", "doctor.name", "doctor.specialization",
	})
}

func TestAppointmentRepository_List(t *testing.T) {
	base, mock := newTestBase(t)
	repo := &appointmentRepository{base}
	clinicID, patientID, doctorID := uuid.New(), uuid.New(), uuid.New()
	date := time.Date(2024, 6, 10, 17, 30, 0, 0, time.UTC)

	rows := appointmentRows().
		AddRow(uuid.New().String(), patientID.String(), doctorID.String(), clinicID.String(), date, "scheduled",
			15000, fixedNow, fixedNow,
			patientID.String(), "João", "11988887777", "joao@x.com",
			doctorID.String(), "Dra. Ana", "Cardiologia")

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY a.created_at DESC")).
		WithArgs(clinicID).
		WillReturnRows(rows)

	appointments, err := repo.List(context.Background(), clinicID)
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.Equal(t, "João", appointments[0].Patient.Name)
	assert.Equal(t, "Cardiologia", appointments[0].Doctor.Specialization)
	assert.Equal(t, model.AppointmentStatusScheduled, appointments[0].Status)
	assert.True(t, date.Equal(appointments[0].Date))
}

func TestAppointmentRepository_ListInWindowWithStatus(t *testing.T) {
	base, mock := newTestBase(t)
	repo := &appointmentRepository{base}
	clinicID := uuid.New()
	status := model.AppointmentStatusScheduled
	start := time.Date(2024, 6, 11, 3, 0, 0, 0, time.UTC)
	end := start.Add(24*time.Hour - time.Microsecond)

	mock.ExpectQuery(regexp.QuoteMeta("AND a.status = $4 ORDER BY a.date ASC")).
		WithArgs(clinicID, start, end, "scheduled").
		WillReturnRows(appointmentRows())

	appointments, err := repo.ListInWindow(context.Background(), &model.AppointmentFilters{
		ClinicID: clinicID,
		Start:    start,
		End:      end,
		Status:   &status,
	})
	require.NoError(t, err)
	assert.Empty(t, appointments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentRepository_SumPriceInWindow(t *testing.T) {
	base, mock := newTestBase(t)
	repo := &appointmentRepository{base}
	clinicID := uuid.New()
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC).Add(-time.Microsecond)

	mock.ExpectQuery(regexp.QuoteMeta("COALESCE(SUM(appointment_price_in_cents), 0)")).
		WithArgs(clinicID, start, end, "completed").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(15000))

	total, err := repo.SumPriceInWindow(context.Background(), clinicID, start, end, model.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), total)
}

func TestAppointmentRepository_UpdateStatusNotFound(t *testing.T) {
	base, mock := newTestBase(t)
	repo := &appointmentRepository{base}

	mock.ExpectExec(regexp.QuoteMeta("UPDATE appointments")).
		WithArgs("completed", fixedNow, sqlmock.AnyArg(), sqlmock.AnyArg(), "scheduled").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), uuid.New(), uuid.New(),
		model.AppointmentStatusScheduled, model.AppointmentStatusCompleted)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
}
