package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/prescripto/clinic-session/internal/metrics"
)

// requireAdmin lets the request through only when the verified identity
// stored under AdminEmailKey is the configured admin.
func requireAdmin(adminEmail string, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, _ := c.Get(AdminEmailKey).(string)
			if email == "" || subtle.ConstantTimeCompare([]byte(email), []byte(adminEmail)) != 1 {
				return reject(c, log, http.StatusForbidden, "invalid_admin", msgInvalidAdmin)
			}
			metrics.GateDecisionsTotal.WithLabelValues("authorized").Inc()
			return next(c)
		}
	}
}
