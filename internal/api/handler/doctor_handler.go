package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prescripto/clinic-session/internal/core/domain"
)

// DoctorLister is the read side the public doctor directory needs.
type DoctorLister interface {
	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
}

// DoctorHandler serves the unauthenticated doctor directory.
type DoctorHandler struct {
	doctors DoctorLister
}

func NewDoctorHandler(doctors DoctorLister) *DoctorHandler {
	return &DoctorHandler{doctors: doctors}
}

// List handles GET /api/doctor/list. Contact emails are not exposed.
func (h *DoctorHandler) List(c echo.Context) error {
	doctors, err := h.doctors.ListDoctors(c.Request().Context())
	if err != nil {
		return err
	}
	for i := range doctors {
		doctors[i].Email = ""
	}
	return c.JSON(http.StatusOK, doctorsResponse{Success: true, Doctors: nonNil(doctors)})
}
