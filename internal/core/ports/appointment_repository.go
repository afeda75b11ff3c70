package ports

import (
	"context"

	"github.com/prescripto/clinic-session/internal/core/domain"
)

// AppointmentRepository defines persistence operations for appointments.
type AppointmentRepository interface {
	// List returns every appointment in booking order (oldest first).
	List(ctx context.Context) ([]domain.Appointment, error)
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	// UpdateStatus moves the appointment from `from` to `to` atomically.
	// It returns ErrInvalidTransition when the stored status is no longer `from`.
	UpdateStatus(ctx context.Context, id string, from, to domain.AppointmentStatus) error
	// Latest returns up to limit appointments, most recent first.
	Latest(ctx context.Context, limit int) ([]domain.Appointment, error)
	Count(ctx context.Context) (int, error)
	CountPatients(ctx context.Context) (int, error)
}
