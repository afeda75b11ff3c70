package session

import (
	"context"
	"slices"

	"github.com/prescripto/clinic-session/internal/core/domain"
)

// PatientSession is the patient site's data layer.
type PatientSession struct {
	base
	doctors      *snapshot[[]domain.Doctor]
	appointments *snapshot[[]domain.Appointment]
	profile      *snapshot[domain.PatientProfile]
}

func NewPatientSession(d Deps) *PatientSession {
	return &PatientSession{
		base:         newBase(domain.RolePatient, "/api/user/login", d),
		doctors:      newDoctorList(),
		appointments: newAppointmentList(),
		profile:      newSnapshot(domain.PatientProfile{}, cloneValue[domain.PatientProfile]),
	}
}

// Login persists the credential and then loads the profile for it.
func (s *PatientSession) Login(ctx context.Context, email, password string) error {
	if err := s.login(ctx, email, password); err != nil {
		return err
	}
	_ = s.RefreshProfile(ctx)
	return nil
}

// Logout clears the credential and forgets the profile.
func (s *PatientSession) Logout(ctx context.Context) error {
	if err := s.logout(ctx); err != nil {
		return err
	}
	s.profile.reset()
	return nil
}

func (s *PatientSession) Doctors() []domain.Doctor {
	v, _ := s.doctors.load()
	return v
}

// Appointments returns the cached appointments, most recent first.
func (s *PatientSession) Appointments() []domain.Appointment {
	v, _ := s.appointments.load()
	return v
}

// Profile returns the cached user data and whether it was ever fetched.
func (s *PatientSession) Profile() (profile domain.PatientProfile, loaded bool) {
	return s.profile.load()
}

// RefreshDoctors reads the public doctor list.
func (s *PatientSession) RefreshDoctors(ctx context.Context) error {
	var out struct {
		Doctors []domain.Doctor `json:"doctors"`
	}
	if err := s.call(ctx, getRequest("/api/doctor/list", opFetchDoctorList, &out)); err != nil {
		return err
	}
	s.doctors.replace(out.Doctors)
	return nil
}

// RefreshAppointments caches the server's chronological list reversed.
func (s *PatientSession) RefreshAppointments(ctx context.Context) error {
	var out struct {
		Appointments []domain.Appointment `json:"appointments"`
	}
	if err := s.call(ctx, getRequest("/api/user/appointments", opFetchMyAppointments, &out)); err != nil {
		return err
	}
	slices.Reverse(out.Appointments)
	s.appointments.replace(out.Appointments)
	return nil
}

func (s *PatientSession) RefreshProfile(ctx context.Context) error {
	var out struct {
		UserData domain.PatientProfile `json:"userData"`
	}
	if err := s.call(ctx, getRequest("/api/user/get-profile", opFetchPatientProfile, &out)); err != nil {
		return err
	}
	s.profile.replace(out.UserData)
	return nil
}
