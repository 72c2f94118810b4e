package clinic

import (
	"context"
	"fmt"

	"github.com/ryanolv/doctor-agenda/internal/model"
	"github.com/ryanolv/doctor-agenda/internal/repository"
	"github.com/ryanolv/doctor-agenda/internal/revalidate"
	"github.com/ryanolv/doctor-agenda/pkg/validator"
)

type ClinicServicer interface {
	CreateClinic(ctx context.Context, sess *model.Session, req *model.CreateClinicRequest) (*model.Clinic, error)
	GetCurrentClinic(ctx context.Context, sess *model.Session) (*model.Clinic, error)
	UpdateCurrentClinic(ctx context.Context, sess *model.Session, req *model.UpdateClinicRequest) (*model.Clinic, error)
}

type Service struct {
	repo      repository.ClinicRepository
	validator *validator.Validator
	notifier  revalidate.Notifier
}

func NewService(repo repository.ClinicRepository, v *validator.Validator, notifier revalidate.Notifier) *Service {
	return &Service{
		repo:      repo,
		validator: v,
		notifier:  notifier,
	}
}

// CreateClinic creates the clinic and makes the caller its first member in one transaction.
func (s *Service) CreateClinic(ctx context.Context, sess *model.Session, req *model.CreateClinicRequest) (*model.Clinic, error) {
	userID, err := sess.RequireUser()
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	clinic := &model.Clinic{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Email:   req.Email,
		Website: req.Website,
	}
	if err := s.repo.CreateWithMembership(ctx, clinic, userID); err != nil {
		return nil, fmt.Errorf("failed to create clinic: %w", err)
	}

	s.notifier.Revalidate(ctx, clinic.ID, revalidate.PathClinic)
	return clinic, nil
}

func (s *Service) GetCurrentClinic(ctx context.Context, sess *model.Session) (*model.Clinic, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return nil, err
	}

	clinic, err := s.repo.Get(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	return clinic, nil
}

func (s *Service) UpdateCurrentClinic(ctx context.Context, sess *model.Session, req *model.UpdateClinicRequest) (*model.Clinic, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	clinic, err := s.repo.Get(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get clinic: %w", err)
	}
	clinic.Name = req.Name
	clinic.Address = req.Address
	clinic.Phone = req.Phone
	clinic.Email = req.Email
	clinic.Website = req.Website

	if err := s.repo.Update(ctx, clinic); err != nil {
		return nil, fmt.Errorf("failed to update clinic: %w", err)
	}

	s.notifier.Revalidate(ctx, clinicID, revalidate.PathClinic)
	return clinic, nil
}
