package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/prescripto/clinic-session/internal/client/gateway"
	"github.com/prescripto/clinic-session/internal/core/domain"
	"github.com/prescripto/clinic-session/internal/infrastructure/credstore"
	"github.com/prescripto/clinic-session/internal/infrastructure/notify"
)

// fakeBackend is an in-memory stand-in for the clinic API.
type fakeBackend struct {
	mu           sync.Mutex
	doctors      []domain.Doctor
	appointments []domain.Appointment
	profile      domain.DoctorProfile
	user         domain.PatientProfile
	requests     []string
	tokens       []string
	// rejections answers a path with success:false and the given message.
	rejections map[string]string
	// statuses answers a path with the given non-2xx status.
	statuses map[string]int
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		rejections: map[string]string{},
		statuses:   map[string]int{},
	}
}

func (b *fakeBackend) paths() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.requests))
	copy(out, b.requests)
	return out
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.requests = append(b.requests, r.URL.Path)
	b.tokens = append(b.tokens, r.Header.Get("Authorization"))

	if code, ok := b.statuses[r.URL.Path]; ok {
		writeJSON(w, code, map[string]any{"success": false, "message": http.StatusText(code)})
		return
	}
	if msg, ok := b.rejections[r.URL.Path]; ok {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": msg})
		return
	}

	var body map[string]string
	if r.Method == http.MethodPost {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	switch r.URL.Path {
	case "/api/admin/login", "/api/doctor/login", "/api/user/login":
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "token": "tok-" + body["email"]})
	case "/api/admin/all-doctors", "/api/doctor/list":
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "doctors": b.doctors})
	case "/api/admin/change-availability":
		for i := range b.doctors {
			if b.doctors[i].ID == body["docId"] {
				b.doctors[i].Available = !b.doctors[i].Available
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Availability Changed"})
	case "/api/admin/appointments", "/api/doctor/appointments", "/api/user/appointments":
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "appointments": b.appointments})
	case "/api/admin/cancel-appointment", "/api/doctor/cancel-appointment":
		b.transition(w, body["appointmentId"], domain.StatusCancelled, "Appointment Cancelled")
	case "/api/doctor/complete-appointment":
		b.transition(w, body["appointmentId"], domain.StatusCompleted, "Appointment Completed")
	case "/api/admin/dashboard", "/api/doctor/dashboard":
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "dashData": b.dashboard()})
	case "/api/doctor/profile":
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "profileData": b.profile})
	case "/api/user/get-profile":
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "userData": b.user})
	default:
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "not found"})
	}
}

func (b *fakeBackend) transition(w http.ResponseWriter, id string, to domain.AppointmentStatus, msg string) {
	for i := range b.appointments {
		if b.appointments[i].ID != id {
			continue
		}
		if !b.appointments[i].Status.CanTransitionTo(to) {
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Appointment already closed"})
			return
		}
		b.appointments[i].Status = to
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": msg})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "Appointment not found"})
}

func (b *fakeBackend) dashboard() domain.Dashboard {
	d := domain.Dashboard{Doctors: len(b.doctors), Appointments: len(b.appointments)}
	for _, a := range b.appointments {
		if a.Status == domain.StatusScheduled {
			d.LatestAppointments = append(d.LatestAppointments, a)
		}
	}
	return d
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type harness struct {
	backend *fakeBackend
	server  *httptest.Server
	notes   *notify.Recorder
	tracker *gateway.Tracker
	creds   *credstore.MemoryStore
	deps    Deps
}

func newHarness(t *testing.T, role domain.Role, cred domain.Credential) *harness {
	t.Helper()
	backend := newFakeBackend()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	notes := notify.NewRecorder()
	tracker := gateway.NewTracker()
	creds := credstore.NewMemoryStore(cred)
	gw := gateway.New(srv.URL, gateway.SchemeFor(role), []gateway.Middleware{
		gateway.Track(tracker),
		gateway.Notify(notes),
	})

	return &harness{
		backend: backend,
		server:  srv,
		notes:   notes,
		tracker: tracker,
		creds:   creds,
		deps: Deps{
			Gateway:     gw,
			Credentials: creds,
			Notifier:    notes,
			Log:         zerolog.Nop(),
		},
	}
}
