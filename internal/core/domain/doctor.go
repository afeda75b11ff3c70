package domain

import (
	"errors"
	"time"
)

var ErrDoctorNotFound = errors.New("doctor not found")

// Address is a two-line postal address as stored on doctor and patient profiles.
type Address struct {
	Line1 string `json:"line1" bson:"line1"`
	Line2 string `json:"line2" bson:"line2"`
}

// Doctor is a bookable practitioner. Available is only ever flipped through
// the availability toggle.
type Doctor struct {
	ID         string    `json:"_id" bson:"_id,omitempty"`
	Name       string    `json:"name" bson:"name"`
	Email      string    `json:"email,omitempty" bson:"email"`
	Image      string    `json:"image,omitempty" bson:"image,omitempty"`
	Speciality string    `json:"speciality" bson:"speciality"`
	Degree     string    `json:"degree,omitempty" bson:"degree,omitempty"`
	Experience string    `json:"experience,omitempty" bson:"experience,omitempty"`
	About      string    `json:"about,omitempty" bson:"about,omitempty"`
	Fees       float64   `json:"fees" bson:"fees"`
	Address    Address   `json:"address" bson:"address"`
	Available  bool      `json:"available" bson:"available"`
	CreatedAt  time.Time `json:"date" bson:"date"`
}

// DoctorProfile is what a logged-in doctor sees about themself.
type DoctorProfile struct {
	ID         string  `json:"_id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Image      string  `json:"image,omitempty"`
	Speciality string  `json:"speciality"`
	Degree     string  `json:"degree,omitempty"`
	Experience string  `json:"experience,omitempty"`
	About      string  `json:"about,omitempty"`
	Fees       float64 `json:"fees"`
	Address    Address `json:"address"`
	Available  bool    `json:"available"`
}

// PatientProfile is the logged-in patient's own user data.
type PatientProfile struct {
	ID      string  `json:"_id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone,omitempty"`
	Gender  string  `json:"gender,omitempty"`
	DOB     string  `json:"dob,omitempty"`
	Image   string  `json:"image,omitempty"`
	Address Address `json:"address"`
}
