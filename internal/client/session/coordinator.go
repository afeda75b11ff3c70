package session

import (
	"context"

	"github.com/prescripto/clinic-session/internal/client/gateway"
)

// Refresh re-fetches one cached collection.
type Refresh func(ctx context.Context) error

// Coordinator sequences a mutating call with the refreshes that depend on
// it. Refreshes start only after the mutation resolved with success, one
// after the other in the given order. A rejected or failed mutation
// triggers none, so caches keep the last confirmed server state.
type Coordinator struct {
	call func(ctx context.Context, req gateway.Request) error
}

func newCoordinator(call func(ctx context.Context, req gateway.Request) error) *Coordinator {
	return &Coordinator{call: call}
}

// Mutate issues req and, on success, runs then. The returned error is the
// mutation's; refresh failures are reported by the gateway on their own.
// Once the server confirmed the mutation, cancelling ctx no longer stops
// the refreshes.
func (c *Coordinator) Mutate(ctx context.Context, req gateway.Request, then ...Refresh) error {
	req.AnnounceSuccess = true
	if err := c.call(ctx, req); err != nil {
		return err
	}
	refreshCtx := context.WithoutCancel(ctx)
	for _, refresh := range then {
		_ = refresh(refreshCtx)
	}
	return nil
}
