package appointment

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ryanolv/doctor-agenda/internal/model"
	"github.com/ryanolv/doctor-agenda/internal/repository"
	"github.com/ryanolv/doctor-agenda/internal/revalidate"
	apperrors "github.com/ryanolv/doctor-agenda/pkg/errors"
	"github.com/ryanolv/doctor-agenda/pkg/metrics"
	"github.com/ryanolv/doctor-agenda/pkg/timezone"
	"github.com/ryanolv/doctor-agenda/pkg/validator"
)

type AppointmentServicer interface {
	CreateAppointment(ctx context.Context, sess *model.Session, req *model.CreateAppointmentRequest) (*model.Appointment, error)
	GetAppointment(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.AppointmentView, error)
	UpdateStatus(ctx context.Context, sess *model.Session, id uuid.UUID, req *model.UpdateAppointmentStatusRequest) (*model.AppointmentView, error)
	ListAppointments(ctx context.Context, sess *model.Session) ([]*model.AppointmentView, error)
	AppointmentsInWindow(ctx context.Context, sess *model.Session, start, end time.Time, status *model.AppointmentStatus) ([]*model.AppointmentView, error)
}

type Service struct {
	repo      repository.AppointmentRepository
	patients  repository.PatientRepository
	doctors   repository.DoctorRepository
	tz        *timezone.Normalizer
	validator *validator.Validator
	notifier  revalidate.Notifier
	views     *revalidate.ViewCache
	metrics   *metrics.Metrics
}

func NewService(
	repo repository.AppointmentRepository,
	patients repository.PatientRepository,
	doctors repository.DoctorRepository,
	tz *timezone.Normalizer,
	v *validator.Validator,
	notifier revalidate.Notifier,
	views *revalidate.ViewCache,
	m *metrics.Metrics,
) *Service {
	return &Service{
		repo:      repo,
		patients:  patients,
		doctors:   doctors,
		tz:        tz,
		validator: v,
		notifier:  notifier,
		views:     views,
		metrics:   m,
	}
}

// CreateAppointment books a patient with a doctor of the caller's clinic. The price
// arrives in reais and is stored in cents. No overlap or availability check is made.
func (s *Service) CreateAppointment(ctx context.Context, sess *model.Session, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	date, err := s.tz.CombineLocalDateAndTimeToUTCInstant(req.AppointmentDate, req.AppointmentTime)
	if err != nil {
		return nil, apperrors.BadRequest("invalid appointment date or time", err)
	}

	if _, err := s.patients.Get(ctx, clinicID, req.PatientID); err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	if _, err := s.doctors.Get(ctx, clinicID, req.DoctorID); err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	apt := &model.Appointment{
		PatientID:               req.PatientID,
		DoctorID:                req.DoctorID,
		ClinicID:                clinicID,
		Date:                    date,
		Status:                  model.AppointmentStatusScheduled,
		AppointmentPriceInCents: int64(math.Round(req.AppointmentPrice * 100)),
	}
	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.metrics.AppointmentCreated()
	s.notifier.Revalidate(ctx, clinicID, revalidate.PathAppointments, revalidate.PathDashboard)
	return apt, nil
}

func (s *Service) GetAppointment(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.AppointmentView, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return nil, err
	}

	apt, err := s.repo.Get(ctx, clinicID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return ToView(s.tz, apt), nil
}

// UpdateStatus completes or cancels a scheduled appointment. Finished appointments
// never change again.
func (s *Service) UpdateStatus(ctx context.Context, sess *model.Session, id uuid.UUID, req *model.UpdateAppointmentStatusRequest) (*model.AppointmentView, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	apt, err := s.repo.Get(ctx, clinicID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	if !apt.Status.CanTransitionTo(req.Status) {
		return nil, apperrors.BadRequest(
			fmt.Sprintf("cannot change appointment status from %s to %s", apt.Status, req.Status), nil)
	}

	if err := s.repo.UpdateStatus(ctx, clinicID, id, apt.Status, req.Status); err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	apt.Status = req.Status

	s.metrics.StatusChanged(string(req.Status))
	s.notifier.Revalidate(ctx, clinicID, revalidate.PathAppointments, revalidate.PathDashboard)
	return ToView(s.tz, apt), nil
}

// ListAppointments returns the clinic's appointments, most recently booked first.
func (s *Service) ListAppointments(ctx context.Context, sess *model.Session) ([]*model.AppointmentView, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return nil, err
	}

	if cached, ok := s.views.Get(clinicID, revalidate.PathAppointments); ok {
		if views, ok := cached.([]*model.AppointmentView); ok {
			return views, nil
		}
	}

	appointments, err := s.repo.List(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	views := make([]*model.AppointmentView, 0, len(appointments))
	for _, a := range appointments {
		v := ToView(s.tz, a)
		v.Patient.Phone = ""
		views = append(views, v)
	}

	s.views.Set(clinicID, revalidate.PathAppointments, views)
	return views, nil
}

// AppointmentsInWindow returns appointments with start <= date <= end.
func (s *Service) AppointmentsInWindow(ctx context.Context, sess *model.Session, start, end time.Time, status *model.AppointmentStatus) ([]*model.AppointmentView, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, apperrors.BadRequest("window end must not be before its start", nil)
	}
	if status != nil && !status.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown appointment status %q", *status), nil)
	}

	appointments, err := s.repo.ListInWindow(ctx, &model.AppointmentFilters{
		ClinicID: clinicID,
		Start:    start.UTC(),
		End:      end.UTC(),
		Status:   status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments in window: %w", err)
	}

	views := make([]*model.AppointmentView, 0, len(appointments))
	for _, a := range appointments {
		views = append(views, ToView(s.tz, a))
	}
	return views, nil
}

// ToView adds the local date and time the appointment is displayed with.
func ToView(tz *timezone.Normalizer, a *model.AppointmentWithRelations) *model.AppointmentView {
	rel := *a
	rel.Date = a.Date.UTC()
	return &model.AppointmentView{
		AppointmentWithRelations: rel,
		LocalDate:                tz.UTCInstantToLocalDate(a.Date),
		LocalTime:                tz.UTCInstantToLocalTimeString(a.Date),
	}
}
