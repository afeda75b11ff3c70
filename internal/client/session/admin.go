package session

import (
	"context"

	"github.com/prescripto/clinic-session/internal/core/domain"
)

// AdminSession is the admin panel's data layer.
type AdminSession struct {
	base
	coord        *Coordinator
	doctors      *snapshot[[]domain.Doctor]
	appointments *snapshot[[]domain.Appointment]
	dashboard    *snapshot[domain.Dashboard]
}

func NewAdminSession(d Deps) *AdminSession {
	s := &AdminSession{
		base:         newBase(domain.RoleAdmin, "/api/admin/login", d),
		doctors:      newDoctorList(),
		appointments: newAppointmentList(),
		dashboard:    newDashboard(),
	}
	s.coord = newCoordinator(s.call)
	return s
}

func (s *AdminSession) Login(ctx context.Context, email, password string) error {
	return s.login(ctx, email, password)
}

func (s *AdminSession) Logout(ctx context.Context) error {
	return s.logout(ctx)
}

// Doctors returns the cached doctor list.
func (s *AdminSession) Doctors() []domain.Doctor {
	v, _ := s.doctors.load()
	return v
}

// Appointments returns the cached appointment list in server order.
func (s *AdminSession) Appointments() []domain.Appointment {
	v, _ := s.appointments.load()
	return v
}

// Dashboard returns the cached aggregate and whether it was ever fetched.
func (s *AdminSession) Dashboard() (domain.Dashboard, bool) {
	return s.dashboard.load()
}

func (s *AdminSession) RefreshDoctors(ctx context.Context) error {
	var out struct {
		Doctors []domain.Doctor `json:"doctors"`
	}
	if err := s.call(ctx, getRequest("/api/admin/all-doctors", opFetchDoctors, &out)); err != nil {
		return err
	}
	s.doctors.replace(out.Doctors)
	return nil
}

func (s *AdminSession) RefreshAppointments(ctx context.Context) error {
	var out struct {
		Appointments []domain.Appointment `json:"appointments"`
	}
	if err := s.call(ctx, getRequest("/api/admin/appointments", opFetchAppointments, &out)); err != nil {
		return err
	}
	s.appointments.replace(out.Appointments)
	return nil
}

func (s *AdminSession) RefreshDashboard(ctx context.Context) error {
	var out struct {
		DashData domain.Dashboard `json:"dashData"`
	}
	if err := s.call(ctx, getRequest("/api/admin/dashboard", opFetchDashboard, &out)); err != nil {
		return err
	}
	s.dashboard.replace(out.DashData)
	return nil
}

// ToggleAvailability flips a doctor's availability, then refreshes doctors.
func (s *AdminSession) ToggleAvailability(ctx context.Context, doctorID string) error {
	return s.coord.Mutate(ctx,
		postRequest("/api/admin/change-availability", map[string]string{"docId": doctorID}, opChangeAvailability),
		s.RefreshDoctors,
	)
}

// CancelAppointment cancels, then refreshes appointments and the dashboard
// derived from them.
func (s *AdminSession) CancelAppointment(ctx context.Context, appointmentID string) error {
	return s.coord.Mutate(ctx,
		postRequest("/api/admin/cancel-appointment", map[string]string{"appointmentId": appointmentID}, opCancelAppointment),
		s.RefreshAppointments,
		s.RefreshDashboard,
	)
}
