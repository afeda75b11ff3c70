package ports

import (
	"context"

	"github.com/prescripto/clinic-session/internal/core/domain"
)

// AdminService defines the use cases reachable behind the admin gate.
type AdminService interface {
	Login(ctx context.Context, email, password string) (string, error)
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
	// ToggleAvailability flips the doctor's availability and returns the new value.
	ToggleAvailability(ctx context.Context, doctorID string) (bool, error)
	ListAppointments(ctx context.Context) ([]domain.Appointment, error)
	CancelAppointment(ctx context.Context, appointmentID string) error
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
}
