package patient

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ryanolv/doctor-agenda/internal/model"
	"github.com/ryanolv/doctor-agenda/internal/repository"
	"github.com/ryanolv/doctor-agenda/internal/revalidate"
	"github.com/ryanolv/doctor-agenda/pkg/timezone"
	"github.com/ryanolv/doctor-agenda/pkg/validator"
)

type PatientServicer interface {
	UpsertPatient(ctx context.Context, sess *model.Session, req *model.UpsertPatientRequest) (*model.PatientView, error)
	GetPatient(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.PatientView, error)
	ListPatients(ctx context.Context, sess *model.Session) ([]*model.PatientView, error)
	DeletePatient(ctx context.Context, sess *model.Session, id uuid.UUID) error
}

type Service struct {
	repo      repository.PatientRepository
	tz        *timezone.Normalizer
	validator *validator.Validator
	notifier  revalidate.Notifier
}

func NewService(repo repository.PatientRepository, tz *timezone.Normalizer, v *validator.Validator, notifier revalidate.Notifier) *Service {
	return &Service{
		repo:      repo,
		tz:        tz,
		validator: v,
		notifier:  notifier,
	}
}

// UpsertPatient takes the date of birth as DD/MM/YYYY; it must be a real date and not
// in the future.
func (s *Service) UpsertPatient(ctx context.Context, sess *model.Session, req *model.UpsertPatientRequest) (*model.PatientView, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	dob, err := s.tz.LocalDateToUTCDate(req.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("failed to convert date of birth: %w", err)
	}

	patient := &model.Patient{
		ClinicID:    clinicID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Sex:         req.Sex,
		DateOfBirth: dob,
	}
	if req.ID != nil {
		patient.ID = *req.ID
	}

	if err := s.repo.Upsert(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to upsert patient: %w", err)
	}

	// Appointment lists and the dashboard render patient names and phones.
	s.notifier.Revalidate(ctx, clinicID, revalidate.PathPatients, revalidate.PathAppointments, revalidate.PathDashboard)
	return s.view(patient), nil
}

func (s *Service) GetPatient(ctx context.Context, sess *model.Session, id uuid.UUID) (*model.PatientView, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return nil, err
	}

	patient, err := s.repo.Get(ctx, clinicID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return s.view(patient), nil
}

func (s *Service) ListPatients(ctx context.Context, sess *model.Session) ([]*model.PatientView, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return nil, err
	}

	patients, err := s.repo.List(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}

	views := make([]*model.PatientView, 0, len(patients))
	for _, p := range patients {
		views = append(views, s.view(p))
	}
	return views, nil
}

func (s *Service) DeletePatient(ctx context.Context, sess *model.Session, id uuid.UUID) error {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, clinicID, id); err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}

	s.notifier.Revalidate(ctx, clinicID, revalidate.PathPatients, revalidate.PathAppointments, revalidate.PathDashboard)
	return nil
}

func (s *Service) view(p *model.Patient) *model.PatientView {
	v := &model.PatientView{Patient: *p}
	v.DateOfBirthLocal, _ = s.tz.UTCDateToLocalDate(p.DateOfBirth)
	return v
}
