package ports

import (
	"context"

	"github.com/prescripto/clinic-session/internal/core/domain"
)

// DoctorRepository defines persistence operations for doctors.
type DoctorRepository interface {
	List(ctx context.Context) ([]domain.Doctor, error)
	FindByID(ctx context.Context, id string) (*domain.Doctor, error)
	// ToggleAvailability atomically negates the availability flag and returns
	// the new value; ErrDoctorNotFound when id is unknown.
	ToggleAvailability(ctx context.Context, id string) (bool, error)
	Count(ctx context.Context) (int, error)
}
