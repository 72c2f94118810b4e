package doctor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ryanolv/doctor-agenda/internal/model"
	"github.com/ryanolv/doctor-agenda/internal/repository"
	"github.com/ryanolv/doctor-agenda/internal/revalidate"
	apperrors "github.com/ryanolv/doctor-agenda/pkg/errors"
	"github.com/ryanolv/doctor-agenda/pkg/timezone"
	"github.com/ryanolv/doctor-agenda/pkg/validator"
)

type DoctorServicer interface {
	UpsertDoctor(ctx context.Context, sess *model.Session, req *model.UpsertDoctorRequest) (*model.DoctorView, error)
	GetDoctor(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.DoctorView, error)
	ListDoctors(ctx context.Context, sess *model.Session) ([]*model.DoctorView, error)
	DeleteDoctor(ctx context.Context, sess *model.Session, id uuid.UUID) error
}

type Service struct {
	repo      repository.DoctorRepository
	tz        *timezone.Normalizer
	validator *validator.Validator
	notifier  revalidate.Notifier
}

func NewService(repo repository.DoctorRepository, tz *timezone.Normalizer, v *validator.Validator, notifier revalidate.Notifier) *Service {
	return &Service{
		repo:      repo,
		tz:        tz,
		validator: v,
		notifier:  notifier,
	}
}

// UpsertDoctor inserts or fully replaces a doctor. Availability arrives in local time
// and is stored in UTC.
func (s *Service) UpsertDoctor(ctx context.Context, sess *model.Session, req *model.UpsertDoctorRequest) (*model.DoctorView, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	from, err := s.tz.LocalTimeToUTC(req.AvailableFromTime)
	if err != nil {
		return nil, fmt.Errorf("failed to convert availability start: %w", err)
	}
	to, err := s.tz.LocalTimeToUTC(req.AvailableToTime)
	if err != nil {
		return nil, fmt.Errorf("failed to convert availability end: %w", err)
	}

	doctor := &model.Doctor{
		ClinicID:                clinicID,
		Name:                    req.Name,
		Email:                   req.Email,
		Phone:                   req.Phone,
		AvatarImageURL:          req.AvatarImageURL,
		Specialization:          req.Specialization,
		AppointmentPriceInCents: req.AppointmentPriceInCents,
		AvailableWeekdays:       req.AvailableWeekdays.Normalized(),
		AvailableFromTime:       from,
		AvailableToTime:         to,
	}
	// Stored bounds are compared as UTC wall clock, so the window must not
	// wrap past midnight UTC.
	if !doctor.AvailabilityValid() {
		return nil, apperrors.Validation(apperrors.FieldErrors{
			"available_to_time": "availability window must not cross midnight UTC",
		})
	}
	if req.ID != nil {
		doctor.ID = *req.ID
	}

	if err := s.repo.Upsert(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to upsert doctor: %w", err)
	}

	s.notifier.Revalidate(ctx, clinicID, revalidate.PathDoctors, revalidate.PathDashboard)
	return s.view(doctor), nil
}

func (s *Service) GetDoctor(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.DoctorView, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return nil, err
	}

	doctor, err := s.repo.Get(ctx, clinicID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return s.view(doctor), nil
}

func (s *Service) ListDoctors(ctx context.Context, sess *model.Session) ([]*model.DoctorView, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return nil, err
	}

	doctors, err := s.repo.List(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	views := make([]*model.DoctorView, 0, len(doctors))
	for _, d := range doctors {
		views = append(views, s.view(d))
	}
	return views, nil
}

func (s *Service) DeleteDoctor(ctx context.Context, sess *model.Session, id uuid.UUID) error {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, clinicID, id); err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}

	s.notifier.Revalidate(ctx, clinicID, revalidate.PathDoctors, revalidate.PathDashboard, revalidate.PathAppointments)
	return nil
}

func (s *Service) view(d *model.Doctor) *model.DoctorView {
	v := &model.DoctorView{Doctor: *d}
	// Stored values are canonical, so conversion cannot fail for rows we wrote.
	v.AvailableFromTimeLocal, _ = s.tz.UTCTimeToLocal(d.AvailableFromTime)
	v.AvailableToTimeLocal, _ = s.tz.UTCTimeToLocal(d.AvailableToTime)
	return v
}
