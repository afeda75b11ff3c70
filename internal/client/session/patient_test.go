package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prescripto/clinic-session/internal/core/domain"
)

func TestPatientSession_AppointmentsMostRecentFirst(t *testing.T) {
	h := newHarness(t, domain.RolePatient, "user-tok")
	h.backend.appointments = []domain.Appointment{{ID: "A"}, {ID: "B"}, {ID: "C"}}
	s := NewPatientSession(h.deps)

	require.NoError(t, s.RefreshAppointments(context.Background()))

	ids := make([]string, 0, 3)
	for _, a := range s.Appointments() {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"C", "B", "A"}, ids)
}

func TestPatientSession_RefreshDoctors_PublicList(t *testing.T) {
	h := newHarness(t, domain.RolePatient, "")
	h.backend.doctors = []domain.Doctor{{ID: "d1"}}
	s := NewPatientSession(h.deps)

	require.NoError(t, s.RefreshDoctors(context.Background()))

	assert.Len(t, s.Doctors(), 1)
	assert.Equal(t, []string{"/api/doctor/list"}, h.backend.paths())
}

func TestPatientSession_RefreshDoctorsRejected_NotifiesOnce(t *testing.T) {
	h := newHarness(t, domain.RolePatient, "")
	h.backend.statuses["/api/doctor/list"] = 503
	s := NewPatientSession(h.deps)

	assert.Error(t, s.RefreshDoctors(context.Background()))
	assert.Len(t, h.notes.Errors(), 1)
	assert.Empty(t, s.Doctors())
}

func TestPatientSession_LoginLoadsProfile_LogoutForgetsIt(t *testing.T) {
	h := newHarness(t, domain.RolePatient, "")
	h.backend.user = domain.PatientProfile{ID: "u1", Name: "Richard"}
	s := NewPatientSession(h.deps)
	ctx := context.Background()

	require.NoError(t, s.Login(ctx, "richard@example.com", "pw"))

	profile, loaded := s.Profile()
	require.True(t, loaded)
	assert.Equal(t, "Richard", profile.Name)
	assert.Equal(t, []string{"/api/user/login", "/api/user/get-profile"}, h.backend.paths())

	require.NoError(t, s.Logout(ctx))
	_, loaded = s.Profile()
	assert.False(t, loaded)
	assert.False(t, s.LoggedIn(ctx))
}

type failingStore struct{}

func (failingStore) Get(context.Context) (domain.Credential, error) {
	return "", errors.New("disk gone")
}
func (failingStore) Set(context.Context, domain.Credential) error { return errors.New("disk gone") }
func (failingStore) Clear(context.Context) error                  { return errors.New("disk gone") }

func TestPatientSession_StoreReadFailure_StillIssuesCall(t *testing.T) {
	h := newHarness(t, domain.RolePatient, "")
	h.deps.Credentials = failingStore{}
	s := NewPatientSession(h.deps)

	require.NoError(t, s.RefreshAppointments(context.Background()))
	assert.Equal(t, []string{""}, h.backend.tokens)
}

func TestPatientSession_StoreWriteFailure_NotifiesOnce(t *testing.T) {
	h := newHarness(t, domain.RolePatient, "")
	h.deps.Credentials = failingStore{}
	s := NewPatientSession(h.deps)

	err := s.Login(context.Background(), "richard@example.com", "pw")

	assert.Error(t, err)
	assert.Equal(t, []string{credentialStoreFailure}, h.notes.Errors())
}
