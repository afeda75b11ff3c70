package ports

import (
	"context"

	"github.com/prescripto/clinic-session/internal/core/domain"
)

// CredentialStore persists one role's session credential across restarts.
// Get returns the empty credential when no session exists. Expiry is never
// tracked locally; an expired credential surfaces as a rejected API call.
type CredentialStore interface {
	Get(ctx context.Context) (domain.Credential, error)
	Set(ctx context.Context, cred domain.Credential) error
	Clear(ctx context.Context) error
}
