package domain

import (
	"errors"
	"time"
)

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// validTransitions defines the allowed state machine transitions.
// Completed and cancelled are terminal.
var validTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusScheduled: {StatusCompleted, StatusCancelled},
}

var ErrInvalidTransition = errors.New("invalid status transition")
var ErrAppointmentNotFound = errors.New("appointment not found")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition out of s exists.
func (s AppointmentStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// Appointment links a patient to a doctor slot.
type Appointment struct {
	ID        string            `json:"_id" bson:"_id,omitempty"`
	DoctorID  string            `json:"docId" bson:"doc_id"`
	PatientID string            `json:"userId" bson:"user_id"`
	SlotDate  string            `json:"slotDate" bson:"slot_date"`
	SlotTime  string            `json:"slotTime" bson:"slot_time"`
	Amount    float64           `json:"amount" bson:"amount"`
	Status    AppointmentStatus `json:"status" bson:"status"`
	BookedAt  time.Time         `json:"date" bson:"date"`
}

// Dashboard is the server-computed summary shown on the admin and doctor
// home screens. Clients never modify it; it is replaced on every refresh.
type Dashboard struct {
	Doctors            int           `json:"doctors"`
	Appointments       int           `json:"appointments"`
	Patients           int           `json:"patients"`
	Earnings           float64       `json:"earnings,omitempty"`
	LatestAppointments []Appointment `json:"latestAppointments"`
}
