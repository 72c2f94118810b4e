package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ryanolv/doctor-agenda/internal/email"
	"github.com/ryanolv/doctor-agenda/internal/model"
	"github.com/ryanolv/doctor-agenda/internal/repository/mocks"
	"github.com/ryanolv/doctor-agenda/pkg/logger"
	"github.com/ryanolv/doctor-agenda/pkg/timezone"
)

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendAppointmentReminder(ctx context.Context, to string, r email.Reminder) error {
	return m.Called(ctx, to, r).Error(0)
}

func setupWorker(t *testing.T) (*ReminderWorker, *mocks.ClinicRepository, *mocks.AppointmentRepository, *mockMailer) {
	t.Helper()
	tz, err := timezone.New(timezone.DefaultLocation)
	require.NoError(t, err)

	clinics := new(mocks.ClinicRepository)
	appointments := new(mocks.AppointmentRepository)
	mailer := new(mockMailer)

	w := NewReminderWorker(clinics, appointments, mailer, tz, logger.Nop(), nil, time.Hour)
	w.now = func() time.Time { return time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC) }
	return w, clinics, appointments, mailer
}

func tomorrowAppointment(addr string) *model.AppointmentWithRelations {
	apt := &model.AppointmentWithRelations{
		Patient: model.AppointmentPatient{ID: uuid.New(), Name: "João", Email: addr},
		Doctor:  model.AppointmentDoctor{ID: uuid.New(), Name: "Dra. Ana", Specialization: "Cardiologia"},
	}
	apt.ID = uuid.New()
	apt.Date = time.Date(2024, 6, 11, 17, 30, 0, 0, time.UTC)
	apt.Status = model.AppointmentStatusScheduled
	return apt
}

func TestReminderWorker_SendsOncePerAppointment(t *testing.T) {
	w, clinics, appointments, mailer := setupWorker(t)
	clinic := &model.Clinic{Name: "Clínica Centro"}
	clinic.ID = uuid.New()
	apt := tomorrowAppointment("joao@x.com")

	clinics.On("ListIDs", mock.Anything).Return([]uuid.UUID{clinic.ID}, nil)
	clinics.On("Get", mock.Anything, clinic.ID).Return(clinic, nil)
	appointments.On("ListInWindow", mock.Anything, mock.MatchedBy(func(f *model.AppointmentFilters) bool {
		return f.ClinicID == clinic.ID &&
			f.Start.Equal(time.Date(2024, 6, 11, 3, 0, 0, 0, time.UTC)) &&
			f.Status != nil && *f.Status == model.AppointmentStatusScheduled
	})).Return([]*model.AppointmentWithRelations{apt, tomorrowAppointment("")}, nil)
	mailer.On("SendAppointmentReminder", mock.Anything, "joao@x.com", email.Reminder{
		PatientName:    "João",
		DoctorName:     "Dra. Ana",
		Specialization: "Cardiologia",
		ClinicName:     "Clínica Centro",
		LocalDate:      "11/06/2024",
		LocalTime:      "14:30",
	}).Return(nil)

	require.NoError(t, w.RunOnce(context.Background()))
	require.NoError(t, w.RunOnce(context.Background()))

	mailer.AssertNumberOfCalls(t, "SendAppointmentReminder", 1)
}

func TestReminderWorker_RetriesFailedSend(t *testing.T) {
	w, clinics, appointments, mailer := setupWorker(t)
	clinic := &model.Clinic{Name: "Clínica Centro"}
	clinic.ID = uuid.New()

	clinics.On("ListIDs", mock.Anything).Return([]uuid.UUID{clinic.ID}, nil)
	clinics.On("Get", mock.Anything, clinic.ID).Return(clinic, nil)
	appointments.On("ListInWindow", mock.Anything, mock.Anything).
		Return([]*model.AppointmentWithRelations{tomorrowAppointment("joao@x.com")}, nil)
	mailer.On("SendAppointmentReminder", mock.Anything, mock.Anything, mock.Anything).
		Return(errors.New("smtp down")).Once()
	mailer.On("SendAppointmentReminder", mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()

	require.NoError(t, w.RunOnce(context.Background()))
	require.NoError(t, w.RunOnce(context.Background()))
	require.NoError(t, w.RunOnce(context.Background()))

	mailer.AssertNumberOfCalls(t, "SendAppointmentReminder", 2)
}

func TestReminderWorker_ListFailure(t *testing.T) {
	w, clinics, _, _ := setupWorker(t)
	clinics.On("ListIDs", mock.Anything).Return(nil, errors.New("db down"))

	err := w.RunOnce(context.Background())
	assert.ErrorContains(t, err, "failed to list clinics")
}
