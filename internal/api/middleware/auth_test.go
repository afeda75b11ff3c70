package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	testSecret = "secret"
	testAdmin  = "admin@prescripto.com"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func adminClaims(email string, exp time.Time) jwt.MapClaims {
	return jwt.MapClaims{"email": email, "iat": time.Now().Unix(), "exp": exp.Unix()}
}

// serveGate runs one request through the gate and reports whether the next
// handler was reached.
func serveGate(t *testing.T, headers map[string]string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/all-doctors", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := AdminAuth(testSecret, testAdmin, zerolog.Nop())(func(c echo.Context) error {
		called = true
		if c.Get(AdminEmailKey) != testAdmin {
			t.Fatalf("admin email not set, got %v", c.Get(AdminEmailKey))
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func decodeRejection(t *testing.T, rec *httptest.ResponseRecorder) rejection {
	t.Helper()
	var body rejection
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestAdminAuth_ValidTokenInEachHeader(t *testing.T) {
	tok := signToken(t, testSecret, adminClaims(testAdmin, time.Now().Add(time.Hour)))

	cases := map[string]map[string]string{
		"atoken":         {HeaderAdminToken: tok},
		"bearer":         {"Authorization": "Bearer " + tok},
		"bearer casing":  {"Authorization": "bearer " + tok},
		"x-access-token": {HeaderAccessToken: tok},
	}
	for name, headers := range cases {
		t.Run(name, func(t *testing.T) {
			rec, called := serveGate(t, headers)
			if !called {
				t.Fatalf("next not called")
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
		})
	}
}

func TestAdminAuth_MissingCredential(t *testing.T) {
	rec, called := serveGate(t, nil)

	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	body := decodeRejection(t, rec)
	if body.Success || body.Message != "Not Authorized. Login Again" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestAdminAuth_NonBearerSchemeCountsAsMissing(t *testing.T) {
	rec, called := serveGate(t, map[string]string{"Authorization": "Token abc"})

	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAdminAuth_InvalidTokens(t *testing.T) {
	cases := map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": signToken(t, "other", adminClaims(testAdmin, time.Now().Add(time.Hour))),
		"expired":      signToken(t, testSecret, adminClaims(testAdmin, time.Now().Add(-time.Minute))),
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			rec, called := serveGate(t, map[string]string{HeaderAdminToken: tok})
			if called {
				t.Fatalf("should not reach next")
			}
			if rec.Code != http.StatusForbidden {
				t.Fatalf("expected 403, got %d", rec.Code)
			}
			if msg := decodeRejection(t, rec).Message; msg != "Token Invalid or Expired" {
				t.Fatalf("unexpected message %q", msg)
			}
		})
	}
}

func TestAdminAuth_AcceptsHMACFamily(t *testing.T) {
	for _, method := range []jwt.SigningMethod{jwt.SigningMethodHS384, jwt.SigningMethodHS512} {
		t.Run(method.Alg(), func(t *testing.T) {
			tok, err := jwt.NewWithClaims(method, adminClaims(testAdmin, time.Now().Add(time.Hour))).
				SignedString([]byte(testSecret))
			if err != nil {
				t.Fatalf("sign token: %v", err)
			}

			rec, called := serveGate(t, map[string]string{HeaderAdminToken: tok})
			if !called || rec.Code != http.StatusOK {
				t.Fatalf("expected pass, got %d", rec.Code)
			}
		})
	}
}

func TestAdminAuth_RejectsNonHMACAlgorithm(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, adminClaims(testAdmin, time.Now().Add(time.Hour))).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	rec, called := serveGate(t, map[string]string{HeaderAdminToken: tok})
	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestAdminAuth_AtokenWinsOverBearer(t *testing.T) {
	good := signToken(t, testSecret, adminClaims(testAdmin, time.Now().Add(time.Hour)))

	rec, called := serveGate(t, map[string]string{
		HeaderAdminToken: "not-a-token",
		"Authorization":  "Bearer " + good,
	})
	if called {
		t.Fatalf("atoken must take precedence")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}
