// Command sessionctl drives the admin, doctor and patient sessions from the
// command line.
//
//	sessionctl [flags] <admin|doctor|patient> <command> [args]
//	sessionctl [flags] bootstrap
//
// Commands: login <email> <password>, logout, status, doctors,
// appointments, dashboard, profile, toggle <doctorId>, cancel <appointmentId>,
// complete <appointmentId>.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/prescripto/clinic-session/internal/app"
	"github.com/prescripto/clinic-session/internal/core/domain"
	"github.com/prescripto/clinic-session/internal/infrastructure/config"
	"github.com/prescripto/clinic-session/internal/infrastructure/notify"
	"github.com/prescripto/clinic-session/pkg/logger"
)

var (
	flBackend = flag.String("backend", "", "backend base URL (overrides BACKEND_URL)")
	flStore   = flag.String("store", "", "credential backend: file, redis or memory (overrides CREDENTIAL_BACKEND)")
	flDir     = flag.String("dir", "", "credential directory for the file backend (overrides CREDENTIAL_DIR)")
)

var errUsage = errors.New("usage: sessionctl [flags] <admin|doctor|patient> <command> [args] | bootstrap")

func main() {
	flag.Parse()
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadClient(ctx)
	if err != nil {
		errLog := zerolog.New(os.Stderr)
		errLog.Fatal().Err(err).Msg("configuration error")
	}
	if *flBackend != "" {
		cfg.BackendURL = *flBackend
	}
	if *flStore != "" {
		cfg.CredentialBackend = *flStore
	}
	if *flDir != "" {
		cfg.CredentialDir = *flDir
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Pretty(),
		Output:  os.Stderr,
		Service: "sessionctl",
	})

	notes := notify.NewRecorder()
	a, err := app.New(ctx, app.Options{
		Config:   cfg,
		Notifier: notify.Fanout{notify.NewLogSink(logger.With(log, "notifier")), notes},
		Log:      log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("cannot build sessions")
	}
	defer a.Shutdown()

	err = run(ctx, a, flag.Args(), os.Stdout)
	printNotes(os.Stderr, notes)
	if err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, err)
			flag.PrintDefaults()
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, a *app.App, args []string, out io.Writer) error {
	if len(args) == 1 && args[0] == "bootstrap" {
		return bootstrap(ctx, a, out)
	}
	if len(args) < 2 {
		return errUsage
	}
	role := domain.Role(args[0])
	if !role.Valid() {
		return errUsage
	}
	cmd, rest := args[1], args[2:]

	if cmd == "status" {
		return printJSON(out, map[string]bool{
			string(domain.RoleAdmin):   a.Admin.LoggedIn(ctx),
			string(domain.RoleDoctor):  a.Doctor.LoggedIn(ctx),
			string(domain.RolePatient): a.Patient.LoggedIn(ctx),
		})
	}

	action, show, err := resolve(a, role, cmd, rest)
	if err != nil {
		return err
	}
	if err := <-a.Submit(role, cmd, action); err != nil {
		return err
	}
	if show == nil {
		return nil
	}
	return printJSON(out, show())
}

// bootstrap loads every collection the stored credentials allow and prints
// how much each role now holds. Partial failures still print the summary.
func bootstrap(ctx context.Context, a *app.App, out io.Writer) error {
	err := a.Bootstrap(ctx)
	_, doctorProfile := a.Doctor.ProfileData()
	_, patientProfile := a.Patient.Profile()
	summary := map[string]map[string]any{
		string(domain.RoleAdmin): {
			"loggedIn":     a.Admin.LoggedIn(ctx),
			"doctors":      len(a.Admin.Doctors()),
			"appointments": len(a.Admin.Appointments()),
		},
		string(domain.RoleDoctor): {
			"loggedIn":      a.Doctor.LoggedIn(ctx),
			"appointments":  len(a.Doctor.Appointments()),
			"profileLoaded": doctorProfile,
		},
		string(domain.RolePatient): {
			"loggedIn":      a.Patient.LoggedIn(ctx),
			"doctors":       len(a.Patient.Doctors()),
			"appointments":  len(a.Patient.Appointments()),
			"profileLoaded": patientProfile,
		},
	}
	if perr := printJSON(out, summary); perr != nil {
		return perr
	}
	return err
}

// printNotes shows what the user would have seen as toasts.
func printNotes(w io.Writer, notes *notify.Recorder) {
	for _, n := range notes.All() {
		fmt.Fprintf(w, "%s: %s\n", n.Level, n.Message)
	}
}

// resolve maps a command to the session call to submit and, for reads, the
// snapshot to print afterwards.
func resolve(a *app.App, role domain.Role, cmd string, args []string) (func(context.Context) error, func() any, error) {
	arg := func(i int) string {
		if i < len(args) {
			return args[i]
		}
		return ""
	}
	need := func(n int) error {
		if len(args) < n {
			return errUsage
		}
		return nil
	}

	switch role {
	case domain.RoleAdmin:
		s := a.Admin
		switch cmd {
		case "login":
			return func(ctx context.Context) error { return s.Login(ctx, arg(0), arg(1)) }, nil, need(2)
		case "logout":
			return s.Logout, nil, nil
		case "doctors":
			return s.RefreshDoctors, func() any { return s.Doctors() }, nil
		case "appointments":
			return s.RefreshAppointments, func() any { return s.Appointments() }, nil
		case "dashboard":
			return s.RefreshDashboard, func() any { d, _ := s.Dashboard(); return d }, nil
		case "toggle":
			return func(ctx context.Context) error { return s.ToggleAvailability(ctx, arg(0)) },
				func() any { return s.Doctors() }, need(1)
		case "cancel":
			return func(ctx context.Context) error { return s.CancelAppointment(ctx, arg(0)) },
				func() any { return s.Appointments() }, need(1)
		}
	case domain.RoleDoctor:
		s := a.Doctor
		switch cmd {
		case "login":
			return func(ctx context.Context) error { return s.Login(ctx, arg(0), arg(1)) }, nil, need(2)
		case "logout":
			return s.Logout, nil, nil
		case "appointments":
			return s.RefreshAppointments, func() any { return s.Appointments() }, nil
		case "dashboard":
			return s.RefreshDashboard, func() any { d, _ := s.Dashboard(); return d }, nil
		case "profile":
			return s.RefreshProfile, func() any { p, _ := s.ProfileData(); return p }, nil
		case "cancel":
			return func(ctx context.Context) error { return s.CancelAppointment(ctx, arg(0)) },
				func() any { return s.Appointments() }, need(1)
		case "complete":
			return func(ctx context.Context) error { return s.CompleteAppointment(ctx, arg(0)) },
				func() any { return s.Appointments() }, need(1)
		}
	case domain.RolePatient:
		s := a.Patient
		switch cmd {
		case "login":
			return func(ctx context.Context) error { return s.Login(ctx, arg(0), arg(1)) }, nil, need(2)
		case "logout":
			return s.Logout, nil, nil
		case "doctors":
			return s.RefreshDoctors, func() any { return s.Doctors() }, nil
		case "appointments":
			return s.RefreshAppointments, func() any { return s.Appointments() }, nil
		case "profile":
			return s.RefreshProfile, func() any { p, _ := s.Profile(); return p }, nil
		}
	}
	return nil, nil, errUsage
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
