// Package mocks provides testify mocks of the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/ryanolv/doctor-agenda/internal/model"
	"github.com/ryanolv/doctor-agenda/internal/repository"
)

var (
	_ repository.ClinicRepository      = (*ClinicRepository)(nil)
	_ repository.DoctorRepository      = (*DoctorRepository)(nil)
	_ repository.PatientRepository     = (*PatientRepository)(nil)
	_ repository.AppointmentRepository = (*AppointmentRepository)(nil)
)

type ClinicRepository struct {
	mock.Mock
}

func (m *ClinicRepository) CreateWithMembership(ctx context.Context, clinic *model.Clinic, userID uuid.UUID) error {
	return m.Called(ctx, clinic, userID).Error(0)
}

func (m *ClinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	args := m.Called(ctx, id)
	clinic, _ := args.Get(0).(*model.Clinic)
	return clinic, args.Error(1)
}

func (m *ClinicRepository) Update(ctx context.Context, clinic *model.Clinic) error {
	return m.Called(ctx, clinic).Error(0)
}

func (m *ClinicRepository) GetFirstForUser(ctx context.Context, userID uuid.UUID) (*model.Clinic, error) {
	args := m.Called(ctx, userID)
	clinic, _ := args.Get(0).(*model.Clinic)
	return clinic, args.Error(1)
}

func (m *ClinicRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

type DoctorRepository struct {
	mock.Mock
}

func (m *DoctorRepository) Upsert(ctx context.Context, doctor *model.Doctor) error {
	return m.Called(ctx, doctor).Error(0)
}

func (m *DoctorRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Doctor, error) {
	args := m.Called(ctx, clinicID, id)
	doctor, _ := args.Get(0).(*model.Doctor)
	return doctor, args.Error(1)
}

func (m *DoctorRepository) List(ctx context.Context, clinicID uuid.UUID) ([]*model.Doctor, error) {
	args := m.Called(ctx, clinicID)
	doctors, _ := args.Get(0).([]*model.Doctor)
	return doctors, args.Error(1)
}

func (m *DoctorRepository) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	return m.Called(ctx, clinicID, id).Error(0)
}

func (m *DoctorRepository) CountAvailableOn(ctx context.Context, clinicID uuid.UUID, weekday int) (int, error) {
	args := m.Called(ctx, clinicID, weekday)
	return args.Int(0), args.Error(1)
}

type PatientRepository struct {
	mock.Mock
}

func (m *PatientRepository) Upsert(ctx context.Context, patient *model.Patient) error {
	return m.Called(ctx, patient).Error(0)
}

func (m *PatientRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.Patient, error) {
	args := m.Called(ctx, clinicID, id)
	patient, _ := args.Get(0).(*model.Patient)
	return patient, args.Error(1)
}

func (m *PatientRepository) List(ctx context.Context, clinicID uuid.UUID) ([]*model.Patient, error) {
	args := m.Called(ctx, clinicID)
	patients, _ := args.Get(0).([]*model.Patient)
	return patients, args.Error(1)
}

func (m *PatientRepository) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	return m.Called(ctx, clinicID, id).Error(0)
}

type AppointmentRepository struct {
	mock.Mock
}

func (m *AppointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	return m.Called(ctx, appointment).Error(0)
}

func (m *AppointmentRepository) Get(ctx context.Context, clinicID, id uuid.UUID) (*model.AppointmentWithRelations, error) {
	args := m.Called(ctx, clinicID, id)
	appointment, _ := args.Get(0).(*model.AppointmentWithRelations)
	return appointment, args.Error(1)
}

func (m *AppointmentRepository) UpdateStatus(ctx context.Context, clinicID, id uuid.UUID, from, to model.AppointmentStatus) error {
	return m.Called(ctx, clinicID, id, from, to).Error(0)
}

func (m *AppointmentRepository) List(ctx context.Context, clinicID uuid.UUID) ([]*model.AppointmentWithRelations, error) {
	args := m.Called(ctx, clinicID)
	appointments, _ := args.Get(0).([]*model.AppointmentWithRelations)
	return appointments, args.Error(1)
}

func (m *AppointmentRepository) ListInWindow(ctx context.Context, filters *model.AppointmentFilters) ([]*model.AppointmentWithRelations, error) {
	args := m.Called(ctx, filters)
	appointments, _ := args.Get(0).([]*model.AppointmentWithRelations)
	return appointments, args.Error(1)
}

func (m *AppointmentRepository) CountInWindow(ctx context.Context, clinicID uuid.UUID, start, end time.Time) (int, error) {
	args := m.Called(ctx, clinicID, start, end)
	return args.Int(0), args.Error(1)
}

func (m *AppointmentRepository) SumPriceInWindow(ctx context.Context, clinicID uuid.UUID, start, end time.Time, status model.AppointmentStatus) (int64, error) {
	args := m.Called(ctx, clinicID, start, end, status)
	total, _ := args.Get(0).(int64)
	return total, args.Error(1)
}

// Notifier records revalidation requests.
type Notifier struct {
	mock.Mock
}

func (m *Notifier) Revalidate(ctx context.Context, clinicID uuid.UUID, paths ...string) {
	m.Called(ctx, clinicID, paths)
}
