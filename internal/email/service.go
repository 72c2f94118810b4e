package email

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/ryanolv/doctor-agenda/internal/config"
)

// Reminder is what a patient is told about an upcoming appointment. Date and time are
// already in the clinic's local zone.
type Reminder struct {
	PatientName    string
	DoctorName     string
	Specialization string
	ClinicName     string
	LocalDate      string
	LocalTime      string
}

type Service interface {
	SendAppointmentReminder(ctx context.Context, to string, r Reminder) error
}

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type smtpService struct {
	dialer Dialer
	from   string
}

func NewService(dialer Dialer, from string) Service {
	return &smtpService{dialer: dialer, from: from}
}

func NewSMTPService(cfg config.SMTPConfig) Service {
	return NewService(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg.From)
}

func (s *smtpService) SendAppointmentReminder(ctx context.Context, to string, r Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetAddressHeader("To", to, r.PatientName)
	m.SetHeader("Subject", fmt.Sprintf("Lembrete de consulta - %s", r.LocalDate))
	m.SetBody("text/plain", fmt.Sprintf(
		"Olá, %s.\n\nLembramos que sua consulta com %s (%s) na %s está marcada para %s às %s.\n",
		r.PatientName, r.DoctorName, r.Specialization, r.ClinicName, r.LocalDate, r.LocalTime,
	))

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send reminder to %s: %w", to, err)
	}
	return nil
}
