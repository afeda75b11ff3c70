package gateway

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/prescripto/clinic-session/internal/core/domain"
	"github.com/prescripto/clinic-session/internal/core/ports"
	"github.com/prescripto/clinic-session/internal/metrics"
)

// Handler performs a backend call.
type Handler interface {
	Do(ctx context.Context, req Request) (*Response, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req Request) (*Response, error)

func (f HandlerFunc) Do(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

// Middleware decorates a Handler.
type Middleware func(Handler) Handler

// Chain wraps h so that mws[0] runs first.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// Notify reports every failure to n exactly once, and the server's message
// on success when the request announces it.
func Notify(n ports.Notifier) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req Request) (*Response, error) {
			resp, err := next.Do(ctx, req)
			if err != nil {
				n.NotifyError(MessageOf(err, req.Op))
				return nil, err
			}
			if req.AnnounceSuccess && resp.Message != "" {
				n.NotifySuccess(resp.Message)
			}
			return resp, nil
		})
	}
}

// Tracker counts outstanding calls for a coarse loading indicator.
type Tracker struct {
	outstanding atomic.Int64
}

func NewTracker() *Tracker { return &Tracker{} }

func (t *Tracker) begin() { t.outstanding.Add(1) }
func (t *Tracker) end()   { t.outstanding.Add(-1) }

// Loading reports whether any tracked call is still outstanding.
func (t *Tracker) Loading() bool { return t.outstanding.Load() > 0 }

// Outstanding returns the number of tracked calls in flight.
func (t *Tracker) Outstanding() int64 { return t.outstanding.Load() }

// Track marks a call outstanding before it is issued and clears it on every
// terminal outcome, including panics further down the chain.
func Track(t *Tracker) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req Request) (*Response, error) {
			t.begin()
			defer t.end()
			return next.Do(ctx, req)
		})
	}
}

// Instrument records Prometheus metrics per role and outcome.
func Instrument(role domain.Role) Middleware {
	label := string(role)
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req Request) (*Response, error) {
			metrics.GatewayOutstanding.Inc()
			start := time.Now()
			defer func() {
				metrics.GatewayOutstanding.Dec()
				metrics.GatewayRequestDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
			}()

			resp, err := next.Do(ctx, req)
			outcome := "ok"
			if err != nil {
				outcome = KindOf(err).String()
			}
			metrics.GatewayRequestsTotal.WithLabelValues(label, outcome).Inc()
			return resp, err
		})
	}
}

// Log writes one debug line per call and a warning per failure.
func Log(log zerolog.Logger) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req Request) (*Response, error) {
			start := time.Now()
			resp, err := next.Do(ctx, req)
			if err != nil {
				ev := log.Warn().Err(err).
					Str("method", req.Method).
					Str("path", req.Path).
					Str("kind", KindOf(err).String())
				var ge *Error
				if errors.As(err, &ge) && ge.Status != 0 {
					ev = ev.Int("status", ge.Status)
				}
				ev.Dur("took", time.Since(start)).Msg("backend call failed")
				return nil, err
			}
			log.Debug().
				Str("method", req.Method).
				Str("path", req.Path).
				Int("status", resp.Status).
				Dur("took", time.Since(start)).
				Msg("backend call")
			return resp, nil
		})
	}
}
