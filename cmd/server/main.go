package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"syscall"
	"time"

	"github.com/enrichman/httpgrace"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/prescripto/clinic-session/internal/api"
	"github.com/prescripto/clinic-session/internal/core/service"
	"github.com/prescripto/clinic-session/internal/infrastructure/config"
	"github.com/prescripto/clinic-session/internal/infrastructure/db/mongo"
	"github.com/prescripto/clinic-session/internal/infrastructure/http/handlers"
	"github.com/prescripto/clinic-session/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg, err := config.LoadServer(ctx)
	if err != nil {
		errLog := zerolog.New(os.Stderr)
		errLog.Fatal().Err(err).Msg("configuration error")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.Pretty(), Service: "clinic-server"})
	mainLog := logger.With(log, "main")

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "clinic-server",
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		mainLog.Fatal().Err(err).Msg("cannot connect to mongo")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	doctors := mongo.NewDoctorRepository(db)
	appointments := mongo.NewAppointmentRepository(db)
	if err := mongo.EnsureIndexes(ctx, doctors, appointments); err != nil {
		mainLog.Warn().Err(err).Msg("index creation failed")
	}

	adminService := service.NewAdminService(doctors, appointments, service.AdminConfig{
		Email:        cfg.AdminEmail,
		PasswordHash: cfg.AdminPasswordHash,
		JWTSecret:    cfg.JWTSecret,
		TokenTTL:     cfg.TokenTTL,
	}, logger.With(log, "admin_service"))

	router := api.NewRouter(api.RouterConfig{
		AdminService: adminService,
		JWTSecret:    cfg.JWTSecret,
		AdminEmail:   cfg.AdminEmail,
		Checks:       map[string]handlers.Check{"mongodb": handlers.MongoCheck(db)},
		Log:          logger.With(log, "http"),
	})

	srv := httpgrace.NewServer(router,
		httpgrace.WithTimeout(shutdownTimeout),
		httpgrace.WithSignals(syscall.SIGTERM, syscall.SIGINT),
		httpgrace.WithLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil))),
		httpgrace.WithBeforeShutdown(func() {
			mainLog.Info().Msg("shutting down admin api")
		}),
		httpgrace.WithServerOptions(
			httpgrace.WithReadTimeout(15*time.Second),
			httpgrace.WithWriteTimeout(15*time.Second),
			httpgrace.WithIdleTimeout(60*time.Second),
		),
	)

	mainLog.Info().Str("port", cfg.Port).Msg("admin api listening")
	if err := srv.ListenAndServe(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		mainLog.Error().Err(err).Msg("server error")
	}
}
