package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/prescripto/clinic-session/internal/core/domain"
	"github.com/prescripto/clinic-session/internal/core/ports"
	"github.com/prescripto/clinic-session/internal/metrics"
)

const latestAppointmentsLimit = 5

// AdminConfig identifies the single administrator account.
type AdminConfig struct {
	Email        string
	PasswordHash string // bcrypt
	JWTSecret    string
	TokenTTL     time.Duration
}

// AdminService implements ports.AdminService.
type AdminService struct {
	doctors      ports.DoctorRepository
	appointments ports.AppointmentRepository
	cfg          AdminConfig
	log          zerolog.Logger
}

func NewAdminService(doctors ports.DoctorRepository, appointments ports.AppointmentRepository, cfg AdminConfig, log zerolog.Logger) *AdminService {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 24 * time.Hour
	}
	return &AdminService{doctors: doctors, appointments: appointments, cfg: cfg, log: log}
}

// Login checks the administrator credentials and returns a signed token whose
// email claim is what the admin gate compares against.
func (s *AdminService) Login(_ context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}
	if subtle.ConstantTimeCompare([]byte(email), []byte(s.cfg.Email)) != 1 {
		return "", domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"email": s.cfg.Email,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.TokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err := t.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return token, nil
}

func (s *AdminService) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

func (s *AdminService) ToggleAvailability(ctx context.Context, doctorID string) (bool, error) {
	next, err := s.doctors.ToggleAvailability(ctx, doctorID)
	if err != nil {
		return false, fmt.Errorf("toggle availability: %w", err)
	}

	metrics.AdminMutationsTotal.WithLabelValues("toggle_availability").Inc()
	s.log.Info().Str("doctor_id", doctorID).Bool("available", next).Msg("doctor availability changed")
	return next, nil
}

func (s *AdminService) ListAppointments(ctx context.Context) ([]domain.Appointment, error) {
	appts, err := s.appointments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return appts, nil
}

// CancelAppointment moves a scheduled appointment to cancelled. Terminal
// appointments are rejected with ErrInvalidTransition.
func (s *AdminService) CancelAppointment(ctx context.Context, appointmentID string) error {
	appt, err := s.appointments.FindByID(ctx, appointmentID)
	if err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}

	if !appt.Status.CanTransitionTo(domain.StatusCancelled) {
		return fmt.Errorf("cancel appointment: %w (from %s to %s)", domain.ErrInvalidTransition, appt.Status, domain.StatusCancelled)
	}

	if err := s.appointments.UpdateStatus(ctx, appointmentID, appt.Status, domain.StatusCancelled); err != nil {
		return fmt.Errorf("cancel appointment: %w", err)
	}

	metrics.AdminMutationsTotal.WithLabelValues("cancel_appointment").Inc()
	s.log.Info().Str("appointment_id", appointmentID).Msg("appointment cancelled")
	return nil
}

func (s *AdminService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	doctors, err := s.doctors.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: count doctors: %w", err)
	}
	appts, err := s.appointments.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: count appointments: %w", err)
	}
	patients, err := s.appointments.CountPatients(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: count patients: %w", err)
	}
	latest, err := s.appointments.Latest(ctx, latestAppointmentsLimit)
	if err != nil {
		return nil, fmt.Errorf("dashboard: latest appointments: %w", err)
	}

	return &domain.Dashboard{
		Doctors:            doctors,
		Appointments:       appts,
		Patients:           patients,
		LatestAppointments: latest,
	}, nil
}
