// Package session holds the three role-scoped data layers (admin, doctor,
// patient). Each keeps snapshots of the collections its role can see,
// refreshes them through its own gateway client and credential, and runs
// mutations through a Coordinator so dependent collections are re-fetched
// once the server has confirmed the change.
//
// Failures are classified and reported by the gateway's middleware chain;
// session methods return the same *gateway.Error as a value and leave the
// cached state untouched.
package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prescripto/clinic-session/internal/client/gateway"
	"github.com/prescripto/clinic-session/internal/core/domain"
	"github.com/prescripto/clinic-session/internal/core/ports"
)

// Doer issues one backend call; *gateway.Client implements it.
type Doer interface {
	Do(ctx context.Context, req gateway.Request) (*gateway.Response, error)
}

// Deps are the collaborators every role session needs.
type Deps struct {
	Gateway     Doer
	Credentials ports.CredentialStore
	Notifier    ports.Notifier
	Log         zerolog.Logger
}

var (
	opLogin              = gateway.NewOp("logging in")
	opFetchDoctors       = gateway.NewOp("fetching doctors")
	opChangeAvailability = gateway.NewOp("changing doctor availability")
	opFetchAppointments  = gateway.NewOp("fetching appointments")
	opCancelAppointment  = gateway.Op{
		Rejected:     "Error cancelling appointment",
		Unclassified: "An error occurred while cancelling the appointment",
	}
	opCompleteAppointment = gateway.Op{
		Rejected:     "Error completing appointment",
		Unclassified: "An error occurred while completing the appointment",
	}
	opFetchDashboard     = gateway.NewOp("fetching dashboard data")
	opFetchDoctorProfile = gateway.NewOp("fetching profile data")

	opFetchDoctorList = gateway.Op{
		Rejected:     "Failed to fetch doctors list",
		Unclassified: "An error occurred while fetching doctors",
	}
	opFetchPatientProfile = gateway.Op{
		Rejected:     "Failed to load user profile",
		Unclassified: "An error occurred while loading your profile",
	}
	opFetchMyAppointments = gateway.Op{
		Rejected:     "Failed to fetch your appointments",
		Unclassified: "An error occurred while fetching your appointments",
	}
)

const credentialStoreFailure = "Could not save your session. Please log in again."

// base is shared by the role sessions. It holds no cached data itself.
type base struct {
	role      domain.Role
	loginPath string
	gw        Doer
	creds     ports.CredentialStore
	notifier  ports.Notifier
	log       zerolog.Logger
}

func newBase(role domain.Role, loginPath string, d Deps) base {
	return base{
		role:      role,
		loginPath: loginPath,
		gw:        d.Gateway,
		creds:     d.Credentials,
		notifier:  d.Notifier,
		log:       d.Log.With().Str("component", "session").Str("role", string(role)).Logger(),
	}
}

// credential reads the store on every call. A store failure is treated as
// "no credential": the call is still issued and the server decides.
func (b *base) credential(ctx context.Context) domain.Credential {
	cred, err := b.creds.Get(ctx)
	if err != nil {
		b.log.Warn().Err(err).Msg("credential store read failed, calling without credential")
		return ""
	}
	return cred
}

func (b *base) call(ctx context.Context, req gateway.Request) error {
	req.Credential = b.credential(ctx)
	_, err := b.gw.Do(ctx, req)
	return err
}

// Credential returns the role's current credential (empty when logged out).
func (b *base) Credential(ctx context.Context) domain.Credential {
	return b.credential(ctx)
}

// LoggedIn reports whether a credential is held.
func (b *base) LoggedIn(ctx context.Context) bool {
	return b.credential(ctx).Present()
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// login exchanges email/password for a credential and persists it.
func (b *base) login(ctx context.Context, email, password string) error {
	var out loginResponse
	_, err := b.gw.Do(ctx, gateway.Request{
		Method: http.MethodPost,
		Path:   b.loginPath,
		Body:   loginRequest{Email: email, Password: password},
		Op:     opLogin,
		Into:   &out,
	})
	if err != nil {
		return err
	}
	if out.Token == "" {
		b.notifier.NotifyError(opLogin.Unclassified)
		return &gateway.Error{Kind: gateway.KindUnclassified, Message: opLogin.Unclassified}
	}

	if err := b.creds.Set(ctx, domain.Credential(out.Token)); err != nil {
		b.log.Error().Err(err).Msg("persist credential failed")
		b.notifier.NotifyError(credentialStoreFailure)
		return fmt.Errorf("persist credential: %w", err)
	}
	b.log.Info().Msg("logged in")
	return nil
}

// logout clears the credential. Calls already in flight are not aborted.
func (b *base) logout(ctx context.Context) error {
	if err := b.creds.Clear(ctx); err != nil {
		b.log.Error().Err(err).Msg("clear credential failed")
		b.notifier.NotifyError(credentialStoreFailure)
		return fmt.Errorf("clear credential: %w", err)
	}
	b.log.Info().Msg("logged out")
	return nil
}

func getRequest(path string, op gateway.Op, into any) gateway.Request {
	return gateway.Request{Method: http.MethodGet, Path: path, Op: op, Into: into}
}

func postRequest(path string, body any, op gateway.Op) gateway.Request {
	return gateway.Request{Method: http.MethodPost, Path: path, Body: body, Op: op}
}
