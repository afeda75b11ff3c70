package session

import (
	"context"

	"github.com/prescripto/clinic-session/internal/core/domain"
)

// DoctorSession is the doctor panel's data layer.
type DoctorSession struct {
	base
	coord        *Coordinator
	appointments *snapshot[[]domain.Appointment]
	dashboard    *snapshot[domain.Dashboard]
	profile      *snapshot[domain.DoctorProfile]
}

func NewDoctorSession(d Deps) *DoctorSession {
	s := &DoctorSession{
		base:         newBase(domain.RoleDoctor, "/api/doctor/login", d),
		appointments: newAppointmentList(),
		dashboard:    newDashboard(),
		profile:      newSnapshot(domain.DoctorProfile{}, cloneValue[domain.DoctorProfile]),
	}
	s.coord = newCoordinator(s.call)
	return s
}

func (s *DoctorSession) Login(ctx context.Context, email, password string) error {
	return s.login(ctx, email, password)
}

func (s *DoctorSession) Logout(ctx context.Context) error {
	return s.logout(ctx)
}

// Appointments returns the cached appointment list in server order.
func (s *DoctorSession) Appointments() []domain.Appointment {
	v, _ := s.appointments.load()
	return v
}

func (s *DoctorSession) Dashboard() (domain.Dashboard, bool) {
	return s.dashboard.load()
}

// ProfileData returns the cached profile. loaded is false until a profile
// fetch has succeeded, which tells "not fetched yet" apart from an empty profile.
func (s *DoctorSession) ProfileData() (profile domain.DoctorProfile, loaded bool) {
	return s.profile.load()
}

func (s *DoctorSession) RefreshAppointments(ctx context.Context) error {
	var out struct {
		Appointments []domain.Appointment `json:"appointments"`
	}
	if err := s.call(ctx, getRequest("/api/doctor/appointments", opFetchAppointments, &out)); err != nil {
		return err
	}
	s.appointments.replace(out.Appointments)
	return nil
}

func (s *DoctorSession) RefreshDashboard(ctx context.Context) error {
	var out struct {
		DashData domain.Dashboard `json:"dashData"`
	}
	if err := s.call(ctx, getRequest("/api/doctor/dashboard", opFetchDashboard, &out)); err != nil {
		return err
	}
	s.dashboard.replace(out.DashData)
	return nil
}

// RefreshProfile is issued even without a credential; the server's answer
// decides, and a rejection leaves the profile "not loaded".
func (s *DoctorSession) RefreshProfile(ctx context.Context) error {
	var out struct {
		ProfileData domain.DoctorProfile `json:"profileData"`
	}
	if err := s.call(ctx, getRequest("/api/doctor/profile", opFetchDoctorProfile, &out)); err != nil {
		return err
	}
	s.profile.replace(out.ProfileData)
	return nil
}

// CompleteAppointment marks an appointment completed, then refreshes the
// appointments and the dashboard.
func (s *DoctorSession) CompleteAppointment(ctx context.Context, appointmentID string) error {
	return s.coord.Mutate(ctx,
		postRequest("/api/doctor/complete-appointment", map[string]string{"appointmentId": appointmentID}, opCompleteAppointment),
		s.RefreshAppointments,
		s.RefreshDashboard,
	)
}

// CancelAppointment cancels, then refreshes the appointments and the dashboard.
func (s *DoctorSession) CancelAppointment(ctx context.Context, appointmentID string) error {
	return s.coord.Mutate(ctx,
		postRequest("/api/doctor/cancel-appointment", map[string]string{"appointmentId": appointmentID}, opCancelAppointment),
		s.RefreshAppointments,
		s.RefreshDashboard,
	)
}
