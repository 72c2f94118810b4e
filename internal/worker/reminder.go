package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ryanolv/doctor-agenda/internal/email"
	"github.com/ryanolv/doctor-agenda/internal/model"
	"github.com/ryanolv/doctor-agenda/internal/repository"
	"github.com/ryanolv/doctor-agenda/pkg/logger"
	"github.com/ryanolv/doctor-agenda/pkg/metrics"
	"github.com/ryanolv/doctor-agenda/pkg/timezone"
)

// sentTTL outlives the tomorrow window so a reminder is sent at most once.
const sentTTL = 48 * time.Hour

// ReminderWorker e-mails patients about their scheduled appointments of the next local day.
type ReminderWorker struct {
	clinics      repository.ClinicRepository
	appointments repository.AppointmentRepository
	mailer       email.Service
	tz           *timezone.Normalizer
	sent         *cache.Cache
	logger       *logger.Logger
	metrics      *metrics.Metrics
	interval     time.Duration
	now          func() time.Time
}

func NewReminderWorker(
	clinics repository.ClinicRepository,
	appointments repository.AppointmentRepository,
	mailer email.Service,
	tz *timezone.Normalizer,
	log *logger.Logger,
	m *metrics.Metrics,
	interval time.Duration,
) *ReminderWorker {
	return &ReminderWorker{
		clinics:      clinics,
		appointments: appointments,
		mailer:       mailer,
		tz:           tz,
		sent:         cache.New(sentTTL, time.Hour),
		logger:       log,
		metrics:      m,
		interval:     interval,
		now:          time.Now,
	}
}

func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Info("reminder worker started", "interval", w.interval.String())

	for {
		if err := w.RunOnce(ctx); err != nil {
			w.logger.Error(err, "reminder run failed")
		}

		select {
		case <-ctx.Done():
			w.logger.Info("reminder worker shutting down")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce sends the reminders that are due. A failed e-mail is retried on the next run.
func (w *ReminderWorker) RunOnce(ctx context.Context) error {
	clinicIDs, err := w.clinics.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list clinics: %w", err)
	}

	start, end := w.tz.LocalDayWindow(w.now(), 1)
	status := model.AppointmentStatusScheduled

	for _, clinicID := range clinicIDs {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		clinic, err := w.clinics.Get(ctx, clinicID)
		if err != nil {
			w.logger.Error(err, "failed to load clinic", "clinic_id", clinicID.String())
			continue
		}

		appointments, err := w.appointments.ListInWindow(ctx, &model.AppointmentFilters{
			ClinicID: clinicID,
			Start:    start,
			End:      end,
			Status:   &status,
		})
		if err != nil {
			w.logger.Error(err, "failed to list tomorrow's appointments", "clinic_id", clinicID.String())
			continue
		}

		for _, apt := range appointments {
			w.remind(ctx, clinic, apt)
		}
	}
	return nil
}

func (w *ReminderWorker) remind(ctx context.Context, clinic *model.Clinic, apt *model.AppointmentWithRelations) {
	key := apt.ID.String()
	if _, done := w.sent.Get(key); done || apt.Patient.Email == "" {
		return
	}

	err := w.mailer.SendAppointmentReminder(ctx, apt.Patient.Email, email.Reminder{
		PatientName:    apt.Patient.Name,
		DoctorName:     apt.Doctor.Name,
		Specialization: apt.Doctor.Specialization,
		ClinicName:     clinic.Name,
		LocalDate:      w.tz.UTCInstantToLocalDate(apt.Date),
		LocalTime:      w.tz.UTCInstantToLocalTimeString(apt.Date),
	})
	w.metrics.ReminderSent(err)
	if err != nil {
		w.logger.Error(err, "failed to send reminder", "appointment_id", key)
		return
	}
	w.sent.SetDefault(key, struct{}{})
}
