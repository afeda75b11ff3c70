// Package app is the composition root of the session layer: it builds one
// gateway client, credential store and session per role, all sharing a
// single loading tracker and notifier.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/prescripto/clinic-session/internal/client/gateway"
	"github.com/prescripto/clinic-session/internal/client/queue"
	"github.com/prescripto/clinic-session/internal/client/session"
	"github.com/prescripto/clinic-session/internal/core/domain"
	"github.com/prescripto/clinic-session/internal/core/ports"
	"github.com/prescripto/clinic-session/internal/infrastructure/config"
	"github.com/prescripto/clinic-session/internal/infrastructure/credstore"
	"github.com/prescripto/clinic-session/internal/infrastructure/db/redis"
	"github.com/prescripto/clinic-session/pkg/logger"
)

// App holds the three role sessions and their shared collaborators.
type App struct {
	Admin   *session.AdminSession
	Doctor  *session.DoctorSession
	Patient *session.PatientSession
	Tracker *gateway.Tracker

	dispatcher *queue.Dispatcher
	closers    []func() error
	log        zerolog.Logger

	BaseCtx context.Context
	Cancel  context.CancelFunc
}

// Options are the inputs of New. Redis is only needed for the redis
// credential backend; when nil a client is built from Config.Redis.
type Options struct {
	Config     *config.ClientConfig
	Notifier   ports.Notifier
	Log        zerolog.Logger
	HTTPClient *http.Client
	Redis      goredis.Cmdable
}

func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Config == nil {
		return nil, errors.New("config is nil")
	}
	if opts.Notifier == nil {
		return nil, errors.New("notifier is nil")
	}
	cfg := opts.Config

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.HTTPTimeout}
	}

	keys := make([]string, len(domain.Roles))
	for i, r := range domain.Roles {
		keys[i] = string(r)
	}
	a := &App{
		Tracker:    gateway.NewTracker(),
		dispatcher: queue.NewDispatcher(len(keys), logger.With(opts.Log, "dispatcher"), keys...),
		log:        logger.With(opts.Log, "app"),
	}

	rdb := opts.Redis
	if cfg.CredentialBackend == "redis" && rdb == nil {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		rdb = client
		a.closers = append(a.closers, client.Close)
	}

	deps := func(role domain.Role) (session.Deps, error) {
		store, err := credentialStore(cfg, role, rdb)
		if err != nil {
			return session.Deps{}, err
		}
		gw := gateway.New(cfg.BackendURL, gateway.SchemeFor(role), []gateway.Middleware{
			gateway.Track(a.Tracker),
			gateway.Instrument(role),
			gateway.Log(logger.With(opts.Log, "gateway")),
			gateway.Notify(opts.Notifier),
		}, gateway.WithHTTPClient(hc))
		return session.Deps{
			Gateway:     gw,
			Credentials: store,
			Notifier:    opts.Notifier,
			Log:         opts.Log,
		}, nil
	}

	adminDeps, err := deps(domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	doctorDeps, err := deps(domain.RoleDoctor)
	if err != nil {
		return nil, err
	}
	patientDeps, err := deps(domain.RolePatient)
	if err != nil {
		return nil, err
	}
	a.Admin = session.NewAdminSession(adminDeps)
	a.Doctor = session.NewDoctorSession(doctorDeps)
	a.Patient = session.NewPatientSession(patientDeps)

	a.BaseCtx, a.Cancel = context.WithCancel(ctx)
	a.dispatcher.Start(a.BaseCtx)
	return a, nil
}

func credentialStore(cfg *config.ClientConfig, role domain.Role, rdb goredis.Cmdable) (ports.CredentialStore, error) {
	switch cfg.CredentialBackend {
	case "memory":
		return credstore.NewMemoryStore(""), nil
	case "redis":
		return redis.NewCredentialStore(rdb, role.CredentialKey()), nil
	case "file", "":
		return credstore.NewFileStore(cfg.CredentialDir, role.CredentialKey())
	default:
		return nil, fmt.Errorf("unknown credential backend %q", cfg.CredentialBackend)
	}
}

// Bootstrap loads every collection the current credentials can see, all
// roles in parallel. The public doctor list is always loaded. Failures are
// already notified; the first one is returned once all refreshes finished.
func (a *App) Bootstrap(ctx context.Context) error {
	var g errgroup.Group

	if a.Admin.LoggedIn(ctx) {
		g.Go(func() error { return a.Admin.RefreshDoctors(ctx) })
		g.Go(func() error { return a.Admin.RefreshAppointments(ctx) })
		g.Go(func() error { return a.Admin.RefreshDashboard(ctx) })
	}
	if a.Doctor.LoggedIn(ctx) {
		g.Go(func() error { return a.Doctor.RefreshAppointments(ctx) })
		g.Go(func() error { return a.Doctor.RefreshDashboard(ctx) })
		g.Go(func() error { return a.Doctor.RefreshProfile(ctx) })
	}
	g.Go(func() error { return a.Patient.RefreshDoctors(ctx) })
	if a.Patient.LoggedIn(ctx) {
		g.Go(func() error { return a.Patient.RefreshAppointments(ctx) })
		g.Go(func() error { return a.Patient.RefreshProfile(ctx) })
	}

	err := g.Wait()
	if err != nil {
		a.log.Warn().Err(err).Msg("bootstrap finished with failures")
	}
	return err
}

// Submit runs action for role after every action previously submitted for
// the same role. Actions of different roles run in parallel.
func (a *App) Submit(role domain.Role, name string, action func(ctx context.Context) error) <-chan error {
	return a.dispatcher.Submit(queue.Action{Key: string(role), Name: name, Run: action})
}

// Shutdown stops the dispatcher and releases external clients.
func (a *App) Shutdown() {
	if a == nil || a.Cancel == nil {
		return
	}
	a.Cancel()
	for _, c := range a.closers {
		if err := c(); err != nil {
			a.log.Warn().Err(err).Msg("close failed")
		}
	}
}
