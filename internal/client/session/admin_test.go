package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prescripto/clinic-session/internal/client/gateway"
	"github.com/prescripto/clinic-session/internal/core/domain"
)

func seedAdmin(h *harness) {
	h.backend.doctors = []domain.Doctor{
		{ID: "d1", Name: "Dr. Grey", Available: true},
		{ID: "d2", Name: "Dr. House", Available: false},
	}
	h.backend.appointments = []domain.Appointment{
		{ID: "a1", DoctorID: "d1", PatientID: "u1", Status: domain.StatusScheduled},
		{ID: "a2", DoctorID: "d2", PatientID: "u2", Status: domain.StatusScheduled},
	}
}

func TestAdminSession_RefreshDoctors_ReplacesWholesale(t *testing.T) {
	h := newHarness(t, domain.RoleAdmin, "admin-tok")
	seedAdmin(h)
	s := NewAdminSession(h.deps)

	require.NoError(t, s.RefreshDoctors(context.Background()))
	assert.Len(t, s.Doctors(), 2)

	h.backend.doctors = h.backend.doctors[:1]
	require.NoError(t, s.RefreshDoctors(context.Background()))
	assert.Len(t, s.Doctors(), 1, "refresh must not merge with the previous list")
	assert.Equal(t, []string{"Bearer admin-tok", "Bearer admin-tok"}, h.backend.tokens)
}

func TestAdminSession_ToggleAvailability_RefreshesDoctors(t *testing.T) {
	h := newHarness(t, domain.RoleAdmin, "admin-tok")
	seedAdmin(h)
	s := NewAdminSession(h.deps)
	ctx := context.Background()

	require.NoError(t, s.RefreshDoctors(ctx))
	require.True(t, s.Doctors()[0].Available)

	require.NoError(t, s.ToggleAvailability(ctx, "d1"))

	assert.False(t, s.Doctors()[0].Available, "refresh after toggle must reflect the flipped value")
	assert.Equal(t, []string{
		"/api/admin/all-doctors",
		"/api/admin/change-availability",
		"/api/admin/all-doctors",
	}, h.backend.paths())
	assert.Equal(t, []string{"Availability Changed"}, h.notes.Successes())
	assert.Empty(t, h.notes.Errors())
}

func TestAdminSession_CancelAppointment_RefreshesAppointmentsThenDashboard(t *testing.T) {
	h := newHarness(t, domain.RoleAdmin, "admin-tok")
	seedAdmin(h)
	s := NewAdminSession(h.deps)
	ctx := context.Background()

	require.NoError(t, s.CancelAppointment(ctx, "a1"))

	assert.Equal(t, []string{
		"/api/admin/cancel-appointment",
		"/api/admin/appointments",
		"/api/admin/dashboard",
	}, h.backend.paths())
	assert.Equal(t, domain.StatusCancelled, s.Appointments()[0].Status)

	dash, loaded := s.Dashboard()
	require.True(t, loaded)
	require.Len(t, dash.LatestAppointments, 1)
	assert.Equal(t, "a2", dash.LatestAppointments[0].ID)
}

func TestAdminSession_CancelTwice_StaysCancelled(t *testing.T) {
	h := newHarness(t, domain.RoleAdmin, "admin-tok")
	seedAdmin(h)
	s := NewAdminSession(h.deps)
	ctx := context.Background()

	require.NoError(t, s.CancelAppointment(ctx, "a1"))
	err := s.CancelAppointment(ctx, "a1")

	assert.True(t, errors.Is(err, gateway.ErrServerRejected))
	assert.Equal(t, domain.StatusCancelled, s.Appointments()[0].Status)
	assert.Equal(t, []string{"Appointment already closed"}, h.notes.Errors())
}

func TestAdminSession_RejectedMutation_LeavesCacheUntouched(t *testing.T) {
	h := newHarness(t, domain.RoleAdmin, "admin-tok")
	seedAdmin(h)
	s := NewAdminSession(h.deps)
	ctx := context.Background()

	require.NoError(t, s.RefreshDoctors(ctx))
	require.NoError(t, s.RefreshAppointments(ctx))
	require.NoError(t, s.RefreshDashboard(ctx))
	beforeDoctors, beforeAppts := s.Doctors(), s.Appointments()
	beforeDash, _ := s.Dashboard()
	requestsBefore := len(h.backend.paths())

	h.backend.rejections["/api/admin/change-availability"] = "Doctor not found"
	h.backend.rejections["/api/admin/cancel-appointment"] = "Appointment not found"

	err := s.ToggleAvailability(ctx, "d1")
	assert.Equal(t, gateway.KindServerRejected, gateway.KindOf(err))
	err = s.CancelAppointment(ctx, "a1")
	assert.Equal(t, gateway.KindServerRejected, gateway.KindOf(err))

	afterDash, _ := s.Dashboard()
	assert.Equal(t, beforeDoctors, s.Doctors())
	assert.Equal(t, beforeAppts, s.Appointments())
	assert.Equal(t, beforeDash, afterDash)
	assert.Len(t, h.backend.paths(), requestsBefore+2, "no refresh after a rejected mutation")
	assert.Equal(t, []string{"Doctor not found", "Appointment not found"}, h.notes.Errors())
	assert.Empty(t, h.notes.Successes())
}

func TestAdminSession_UnreachableMutation_NoRefresh(t *testing.T) {
	h := newHarness(t, domain.RoleAdmin, "admin-tok")
	seedAdmin(h)
	s := NewAdminSession(h.deps)
	h.server.Close()

	err := s.ToggleAvailability(context.Background(), "d1")

	assert.True(t, errors.Is(err, gateway.ErrNetworkUnreachable))
	assert.Equal(t, []string{gateway.NetworkUnreachableMessage}, h.notes.Errors())
	assert.Empty(t, s.Doctors())
	assert.False(t, h.tracker.Loading())
}

func TestAdminSession_FailedRefresh_KeepsPreviousSnapshot(t *testing.T) {
	h := newHarness(t, domain.RoleAdmin, "admin-tok")
	seedAdmin(h)
	s := NewAdminSession(h.deps)
	ctx := context.Background()

	require.NoError(t, s.RefreshAppointments(ctx))
	h.backend.statuses["/api/admin/appointments"] = 500

	err := s.RefreshAppointments(ctx)

	assert.Error(t, err)
	assert.Len(t, s.Appointments(), 2)
	assert.Len(t, h.notes.Errors(), 1)
}

func TestAdminSession_SnapshotsAreCopies(t *testing.T) {
	h := newHarness(t, domain.RoleAdmin, "admin-tok")
	seedAdmin(h)
	s := NewAdminSession(h.deps)
	require.NoError(t, s.RefreshDoctors(context.Background()))

	got := s.Doctors()
	got[0].Name = "tampered"

	assert.Equal(t, "Dr. Grey", s.Doctors()[0].Name)
}

func TestAdminSession_LoginPersistsAndLogoutClears(t *testing.T) {
	h := newHarness(t, domain.RoleAdmin, "")
	seedAdmin(h)
	s := NewAdminSession(h.deps)
	ctx := context.Background()

	assert.False(t, s.LoggedIn(ctx))
	require.NoError(t, s.Login(ctx, "admin@prescripto.com", "pw"))
	assert.True(t, s.LoggedIn(ctx))

	require.NoError(t, s.RefreshDoctors(ctx))
	assert.Equal(t, "Bearer tok-admin@prescripto.com", h.backend.tokens[len(h.backend.tokens)-1])

	require.NoError(t, s.Logout(ctx))
	assert.False(t, s.LoggedIn(ctx))
}

func TestAdminSession_LoginRejected_KeepsLoggedOut(t *testing.T) {
	h := newHarness(t, domain.RoleAdmin, "")
	h.backend.statuses["/api/admin/login"] = 401
	s := NewAdminSession(h.deps)
	ctx := context.Background()

	err := s.Login(ctx, "admin@prescripto.com", "bad")

	assert.Error(t, err)
	assert.False(t, s.LoggedIn(ctx))
	assert.Len(t, h.notes.Errors(), 1)
}
