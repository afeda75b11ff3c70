package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prescripto/clinic-session/internal/app"
	"github.com/prescripto/clinic-session/internal/core/domain"
	"github.com/prescripto/clinic-session/internal/infrastructure/config"
	"github.com/prescripto/clinic-session/internal/infrastructure/notify"
)

func newCLI(t *testing.T, h http.HandlerFunc) (*app.App, *notify.Recorder) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	notes := notify.NewRecorder()
	a, err := app.New(context.Background(), app.Options{
		Config:   &config.ClientConfig{BackendURL: srv.URL, CredentialBackend: "memory"},
		Notifier: notify.Fanout{notify.NewLogSink(zerolog.Nop()), notes},
		Log:      zerolog.Nop(),
	})
	require.NoError(t, err)
	t.Cleanup(a.Shutdown)
	return a, notes
}

func writeJSON(w http.ResponseWriter, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func TestRun_BootstrapPrintsSummary(t *testing.T) {
	a, notes := newCLI(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/doctor/list" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, map[string]any{"success": true, "doctors": []domain.Doctor{{ID: "d1"}, {ID: "d2"}}})
	})

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), a, []string{"bootstrap"}, &out))

	var summary map[string]map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, float64(2), summary["patient"]["doctors"])
	assert.Equal(t, false, summary["admin"]["loggedIn"])
	assert.Empty(t, notes.All())
}

func TestRun_RejectedCallReachesEveryNotifier(t *testing.T) {
	a, notes := newCLI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"success": false, "message": "Invalid credentials"})
	})

	var out bytes.Buffer
	err := run(context.Background(), a, []string{"admin", "login", "a@b.c", "pw"}, &out)
	require.Error(t, err)

	var stderr bytes.Buffer
	printNotes(&stderr, notes)
	assert.Equal(t, "error: Invalid credentials\n", stderr.String())
	assert.Empty(t, out.String())
}

func TestRun_Usage(t *testing.T) {
	a, _ := newCLI(t, func(w http.ResponseWriter, r *http.Request) {})

	for _, args := range [][]string{nil, {"admin"}, {"nurse", "status"}, {"patient", "toggle", "d1"}} {
		assert.ErrorIs(t, run(context.Background(), a, args, &bytes.Buffer{}), errUsage, "%v", args)
	}
}
