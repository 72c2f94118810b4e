package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/ryanolv/doctor-agenda/internal/model"
	"github.com/ryanolv/doctor-agenda/internal/repository"
	"github.com/ryanolv/doctor-agenda/internal/revalidate"
	"github.com/ryanolv/doctor-agenda/pkg/timezone"
)

// AppointmentLister is the window query the dashboard builds on.
type AppointmentLister interface {
	AppointmentsInWindow(ctx context.Context, sess *model.Session, start, end time.Time, status *model.AppointmentStatus) ([]*model.AppointmentView, error)
}

type DashboardServicer interface {
	Dashboard(ctx context.Context, sess *model.Session) (*model.Dashboard, error)
	AppointmentsTomorrow(ctx context.Context, sess *model.Session) ([]*model.AppointmentView, error)
	CountAppointmentsToday(ctx context.Context, sess *model.Session) (int, error)
	MonthlyBilling(ctx context.Context, sess *model.Session) (float64, error)
	DoctorsAvailableToday(ctx context.Context, sess *model.Session) (int, error)
}

type Service struct {
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	lister       AppointmentLister
	tz           *timezone.Normalizer
	views        *revalidate.ViewCache
	now          func() time.Time
}

func NewService(
	appointments repository.AppointmentRepository,
	doctors repository.DoctorRepository,
	lister AppointmentLister,
	tz *timezone.Normalizer,
	views *revalidate.ViewCache,
) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		lister:       lister,
		tz:           tz,
		views:        views,
		now:          time.Now,
	}
}

// WithClock replaces the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Dashboard(ctx context.Context, sess *model.Session) (*model.Dashboard, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return nil, err
	}

	if cached, ok := s.views.Get(clinicID, revalidate.PathDashboard); ok {
		if d, ok := cached.(*model.Dashboard); ok {
			return d, nil
		}
	}

	d := &model.Dashboard{}
	if d.AppointmentsToday, err = s.CountAppointmentsToday(ctx, sess); err != nil {
		return nil, err
	}
	if d.MonthlyBilling, err = s.MonthlyBilling(ctx, sess); err != nil {
		return nil, err
	}
	if d.DoctorsAvailableToday, err = s.DoctorsAvailableToday(ctx, sess); err != nil {
		return nil, err
	}
	tomorrow, err := s.AppointmentsTomorrow(ctx, sess)
	if err != nil {
		return nil, err
	}
	d.AppointmentsTomorrow = make([]model.AppointmentView, 0, len(tomorrow))
	for _, v := range tomorrow {
		d.AppointmentsTomorrow = append(d.AppointmentsTomorrow, *v)
	}

	s.views.Set(clinicID, revalidate.PathDashboard, d)
	return d, nil
}

// AppointmentsTomorrow lists scheduled appointments of the next local calendar day.
func (s *Service) AppointmentsTomorrow(ctx context.Context, sess *model.Session) ([]*model.AppointmentView, error) {
	start, end := s.tz.LocalDayWindow(s.now(), 1)
	status := model.AppointmentStatusScheduled
	return s.lister.AppointmentsInWindow(ctx, sess, start, end, &status)
}

// CountAppointmentsToday counts appointments of the current UTC day, whatever their status.
func (s *Service) CountAppointmentsToday(ctx context.Context, sess *model.Session) (int, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return 0, err
	}

	start, end := timezone.UTCDayWindow(s.now())
	count, err := s.appointments.CountInWindow(ctx, clinicID, start, end)
	if err != nil {
		return 0, fmt.Errorf("failed to count today's appointments: %w", err)
	}
	return count, nil
}

// MonthlyBilling sums completed appointments of the current UTC month, in reais.
func (s *Service) MonthlyBilling(ctx context.Context, sess *model.Session) (float64, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return 0, err
	}

	start, end := timezone.UTCMonthWindow(s.now())
	cents, err := s.appointments.SumPriceInWindow(ctx, clinicID, start, end, model.AppointmentStatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("failed to sum monthly billing: %w", err)
	}
	return float64(cents) / 100, nil
}

// DoctorsAvailableToday counts doctors who attend on today's local weekday.
func (s *Service) DoctorsAvailableToday(ctx context.Context, sess *model.Session) (int, error) {
	clinicID, err := sess.RequireClinic()
	if err != nil {
		return 0, err
	}

	count, err := s.doctors.CountAvailableOn(ctx, clinicID, s.tz.LocalWeekday(s.now()))
	if err != nil {
		return 0, fmt.Errorf("failed to count available doctors: %w", err)
	}
	return count, nil
}
