package handler

import "github.com/prescripto/clinic-session/internal/core/domain"

// --- Request / Response types ---

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type changeAvailabilityRequest struct {
	DocID string `json:"docId" validate:"required"`
}

type cancelAppointmentRequest struct {
	AppointmentID string `json:"appointmentId" validate:"required"`
}

// Every success body carries success:true; the payload key varies per endpoint.

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type doctorsResponse struct {
	Success bool            `json:"success"`
	Doctors []domain.Doctor `json:"doctors"`
}

type appointmentsResponse struct {
	Success      bool                 `json:"success"`
	Appointments []domain.Appointment `json:"appointments"`
}

type dashboardResponse struct {
	Success  bool             `json:"success"`
	DashData domain.Dashboard `json:"dashData"`
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
