package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prescripto/clinic-session/internal/core/ports"
)

// AdminHandler serves /api/admin. Everything except Login sits behind the
// admin gate.
type AdminHandler struct {
	service ports.AdminService
}

func NewAdminHandler(service ports.AdminService) *AdminHandler {
	return &AdminHandler{service: service}
}

// Login handles POST /api/admin/login and returns a signed admin token.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	token, err := h.service.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Success: true, Token: token})
}

// AllDoctors handles GET /api/admin/all-doctors.
func (h *AdminHandler) AllDoctors(c echo.Context) error {
	doctors, err := h.service.ListDoctors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doctorsResponse{Success: true, Doctors: nonNil(doctors)})
}

// ChangeAvailability handles POST /api/admin/change-availability.
func (h *AdminHandler) ChangeAvailability(c echo.Context) error {
	var req changeAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if _, err := h.service.ToggleAvailability(c.Request().Context(), req.DocID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Availability Changed"})
}

// Appointments handles GET /api/admin/appointments, oldest booking first.
func (h *AdminHandler) Appointments(c echo.Context) error {
	appts, err := h.service.ListAppointments(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, appointmentsResponse{Success: true, Appointments: nonNil(appts)})
}

// CancelAppointment handles POST /api/admin/cancel-appointment.
func (h *AdminHandler) CancelAppointment(c echo.Context) error {
	var req cancelAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.service.CancelAppointment(c.Request().Context(), req.AppointmentID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Appointment Cancelled"})
}

// Dashboard handles GET /api/admin/dashboard.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	dash, err := h.service.Dashboard(c.Request().Context())
	if err != nil {
		return err
	}
	out := *dash
	out.LatestAppointments = nonNil(out.LatestAppointments)
	return c.JSON(http.StatusOK, dashboardResponse{Success: true, DashData: out})
}
