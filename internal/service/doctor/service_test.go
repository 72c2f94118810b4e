package doctor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ryanolv/doctor-agenda/internal/model"
	"github.com/ryanolv/doctor-agenda/internal/repository/mocks"
	"github.com/ryanolv/doctor-agenda/internal/revalidate"
	apperrors "github.com/ryanolv/doctor-agenda/pkg/errors"
	"github.com/ryanolv/doctor-agenda/pkg/timezone"
	"github.com/ryanolv/doctor-agenda/pkg/validator"
)

func setupTestService(t *testing.T) (*Service, *mocks.DoctorRepository, *mocks.Notifier) {
	t.Helper()
	tz, err := timezone.New(timezone.DefaultLocation)
	require.NoError(t, err)

	repo := new(mocks.DoctorRepository)
	notifier := new(mocks.Notifier)
	svc := NewService(repo, tz, validator.New(validator.NewRules(tz.Location())), notifier)
	return svc, repo, notifier
}

func clinicSession(clinicID uuid.UUID) *model.Session {
	return &model.Session{User: &model.SessionUser{
		ID:     uuid.New(),
		Clinic: &model.SessionClinic{ID: clinicID},
	}}
}

func upsertRequest() *model.UpsertDoctorRequest {
	return &model.UpsertDoctorRequest{
		Name:                    "Dra. Ana",
		Email:                   "ana@clinica.com",
		Phone:                   "11999999999",
		Specialization:          "Cardiologia",
		AppointmentPriceInCents: 15000,
		AvailableWeekdays:       model.Weekdays{5, 1, 3},
		AvailableFromTime:       "08:00:00",
		AvailableToTime:         "18:00:00",
	}
}

func TestUpsertDoctor_StoresAvailabilityInUTC(t *testing.T) {
	svc, repo, notifier := setupTestService(t)
	clinicID := uuid.New()

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(d *model.Doctor) bool {
		return d.ClinicID == clinicID &&
			d.AvailableFromTime == "11:00:00" &&
			d.AvailableToTime == "21:00:00" &&
			assert.ObjectsAreEqual(model.Weekdays{1, 3, 5}, d.AvailableWeekdays)
	})).Return(nil)
	notifier.On("Revalidate", mock.Anything, clinicID,
		[]string{revalidate.PathDoctors, revalidate.PathDashboard}).Return()

	view, err := svc.UpsertDoctor(context.Background(), clinicSession(clinicID), upsertRequest())
	require.NoError(t, err)
	assert.Equal(t, "08:00:00", view.AvailableFromTimeLocal)
	assert.Equal(t, "18:00:00", view.AvailableToTimeLocal)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestUpsertDoctor_RejectsWindowCrossingUTCMidnight(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
	}{
		{"evening shift", "18:00:00", "22:00:00"},
		{"ends at local 21:00", "08:00:00", "21:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, notifier := setupTestService(t)
			clinicID := uuid.New()

			req := upsertRequest()
			req.AvailableFromTime = tt.from
			req.AvailableToTime = tt.to

			_, err := svc.UpsertDoctor(context.Background(), clinicSession(clinicID), req)
			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrValidation, appErr.Code)
			assert.Contains(t, appErr.Fields, "available_to_time")
			repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
			notifier.AssertNotCalled(t, "Revalidate", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUpsertDoctor_AcceptsWindowEndingBeforeUTCMidnight(t *testing.T) {
	svc, repo, notifier := setupTestService(t)
	clinicID := uuid.New()

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(d *model.Doctor) bool {
		return d.AvailableFromTime == "17:00:00" && d.AvailableToTime == "23:59:00"
	})).Return(nil)
	notifier.On("Revalidate", mock.Anything, clinicID, mock.Anything).Return()

	req := upsertRequest()
	req.AvailableFromTime = "14:00:00"
	req.AvailableToTime = "20:59:00"

	_, err := svc.UpsertDoctor(context.Background(), clinicSession(clinicID), req)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpsertDoctor_SamePayloadTwiceSendsSameRow(t *testing.T) {
	svc, repo, notifier := setupTestService(t)
	clinicID := uuid.New()
	id := uuid.New()

	var stored []model.Doctor
	repo.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = append(stored, *args.Get(1).(*model.Doctor))
	}).Return(nil)
	notifier.On("Revalidate", mock.Anything, clinicID, mock.Anything).Return()

	req := upsertRequest()
	req.ID = &id
	for i := 0; i < 2; i++ {
		_, err := svc.UpsertDoctor(context.Background(), clinicSession(clinicID), req)
		require.NoError(t, err)
	}

	require.Len(t, stored, 2)
	assert.Equal(t, id, stored[0].ID)
	assert.Equal(t, stored[0], stored[1])
}

func TestUpsertDoctor_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.UpsertDoctorRequest)
		field  string
	}{
		{"end before start", func(r *model.UpsertDoctorRequest) {
			r.AvailableFromTime, r.AvailableToTime = "09:00:00", "08:00:00"
		}, "available_to_time"},
		{"equal times", func(r *model.UpsertDoctorRequest) {
			r.AvailableFromTime, r.AvailableToTime = "09:00:00", "09:00:00"
		}, "available_to_time"},
		{"bad weekday", func(r *model.UpsertDoctorRequest) {
			r.AvailableWeekdays = model.Weekdays{7}
		}, "available_week_days"},
		{"no weekdays", func(r *model.UpsertDoctorRequest) {
			r.AvailableWeekdays = nil
		}, "available_week_days"},
		{"free consultation", func(r *model.UpsertDoctorRequest) {
			r.AppointmentPriceInCents = 0
		}, "appointment_price_in_cents"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := setupTestService(t)
			req := upsertRequest()
			tt.mutate(req)

			_, err := svc.UpsertDoctor(context.Background(), clinicSession(uuid.New()), req)

			appErr, ok := apperrors.As(err)
			require.True(t, ok)
			assert.Equal(t, apperrors.ErrValidation, appErr.Code)
			assert.Contains(t, appErr.Fields, tt.field)
			repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		})
	}
}

func TestUpsertDoctor_OtherClinicRow(t *testing.T) {
	svc, repo, notifier := setupTestService(t)
	id := uuid.New()
	req := upsertRequest()
	req.ID = &id

	repo.On("Upsert", mock.Anything, mock.Anything).Return(apperrors.NotFound("doctor", nil))

	_, err := svc.UpsertDoctor(context.Background(), clinicSession(uuid.New()), req)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrNotFound))
	notifier.AssertNotCalled(t, "Revalidate", mock.Anything, mock.Anything, mock.Anything)
}

func TestListDoctors(t *testing.T) {
	svc, repo, _ := setupTestService(t)
	clinicID := uuid.New()

	repo.On("List", mock.Anything, clinicID).Return([]*model.Doctor{
		{Name: "Dra. Ana", AvailableFromTime: "11:00:00", AvailableToTime: "21:00:00"},
	}, nil)

	views, err := svc.ListDoctors(context.Background(), clinicSession(clinicID))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "08:00:00", views[0].AvailableFromTimeLocal)
}

func TestDeleteDoctor_RequiresClinic(t *testing.T) {
	svc, repo, _ := setupTestService(t)

	err := svc.DeleteDoctor(context.Background(), &model.Session{User: &model.SessionUser{ID: uuid.New()}}, uuid.New())
	assert.True(t, apperrors.HasCode(err, apperrors.ErrClinicNotFound))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}
