package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/prescripto/clinic-session/internal/metrics"
)

// Credential headers, checked in this order.
const (
	HeaderAdminToken  = "atoken"
	HeaderAccessToken = "x-access-token"
)

// Context key holding the verified admin identity.
const AdminEmailKey = "admin_email"

const (
	msgNotAuthorized = "Not Authorized. Login Again"
	msgTokenInvalid  = "Token Invalid or Expired"
	msgInvalidAdmin  = "Forbidden: Invalid Admin"
)

type rejection struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// hmacMethods are the signing algorithms the gate verifies against the
// shared secret.
var hmacMethods = []string{
	jwt.SigningMethodHS256.Alg(),
	jwt.SigningMethodHS384.Alg(),
	jwt.SigningMethodHS512.Alg(),
}

// AdminAuth gates admin-only routes. The credential is taken from the
// atoken header, then a bearer Authorization header, then x-access-token.
// Missing credentials get 401; a token that fails HS256 verification, or
// whose email claim is not the configured admin, gets 403.
func AdminAuth(jwtSecret, adminEmail string, log zerolog.Logger) echo.MiddlewareFunc {
	log = log.With().Str("component", "admin_gate").Logger()
	key := []byte(jwtSecret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := credentialFrom(c.Request().Header)
			if raw == "" {
				return reject(c, log, http.StatusUnauthorized, "missing_credential", msgNotAuthorized)
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
				return key, nil
			}, jwt.WithValidMethods(hmacMethods))
			if err != nil || !tkn.Valid {
				log.Debug().Err(err).Msg("token verification failed")
				return reject(c, log, http.StatusForbidden, "invalid_token", msgTokenInvalid)
			}

			email, _ := claims["email"].(string)
			c.Set(AdminEmailKey, email)

			return requireAdmin(adminEmail, log)(next)(c)
		}
	}
}

// credentialFrom returns the first non-empty credential. An Authorization
// header with a scheme other than Bearer counts as absent.
func credentialFrom(h http.Header) string {
	if v := strings.TrimSpace(h.Get(HeaderAdminToken)); v != "" {
		return v
	}
	if v := h.Get(echo.HeaderAuthorization); v != "" {
		parts := strings.SplitN(v, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			if tok := strings.TrimSpace(parts[1]); tok != "" {
				return tok
			}
		}
	}
	return strings.TrimSpace(h.Get(HeaderAccessToken))
}

func reject(c echo.Context, log zerolog.Logger, code int, outcome, msg string) error {
	metrics.GateDecisionsTotal.WithLabelValues(outcome).Inc()
	log.Info().
		Str("outcome", outcome).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Int("status", code).
		Msg("admin request rejected")
	return c.JSON(code, rejection{Success: false, Message: msg})
}
