// Package gateway issues authenticated calls against the clinic backend and
// folds transport failures and success:false envelopes into one error channel.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prescripto/clinic-session/internal/core/domain"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20

	HeaderRequestID     = "X-Request-ID"
	HeaderAuthorization = "Authorization"
)

// HeaderScheme is the per-role parameter of the client: the legacy custom
// header the credential is sent in next to the bearer header.
type HeaderScheme struct {
	Role        domain.Role
	TokenHeader string
}

// SchemeFor returns the header convention the backend expects for role.
func SchemeFor(role domain.Role) HeaderScheme {
	switch role {
	case domain.RoleAdmin:
		return HeaderScheme{Role: role, TokenHeader: "atoken"}
	case domain.RoleDoctor:
		return HeaderScheme{Role: role, TokenHeader: "dtoken"}
	default:
		return HeaderScheme{Role: domain.RolePatient, TokenHeader: "token"}
	}
}

// Request describes one backend call.
type Request struct {
	Method string
	Path   string
	Body   any
	// Credential is attached when present.
	Credential domain.Credential
	Op         Op
	// Into, when set, receives the decoded envelope payload.
	Into any
	// AnnounceSuccess forwards the server's success message to the notifier.
	AnnounceSuccess bool
}

// Response is a successful envelope ({success:true, message?, ...payload}).
type Response struct {
	Status  int
	Message string
	Body    []byte
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Client is the API gateway for one role.
type Client struct {
	baseURL string
	http    *http.Client
	scheme  HeaderScheme
	handler Handler
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New builds a Client. Middlewares wrap every call in the given order, the
// first one outermost.
func New(baseURL string, scheme HeaderScheme, mws []Middleware, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		scheme:  scheme,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.handler = Chain(HandlerFunc(c.roundTrip), mws...)
	return c
}

// Role returns the role this client sends credentials for.
func (c *Client) Role() domain.Role { return c.scheme.Role }

// Do issues the call. A non-nil error is always a *Error.
func (c *Client) Do(ctx context.Context, req Request) (*Response, error) {
	return c.handler.Do(ctx, req)
}

func (c *Client) roundTrip(ctx context.Context, req Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, unclassified(req.Op, fmt.Errorf("encode body: %w", err))
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, unclassified(req.Op, fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set(HeaderRequestID, uuid.NewString())
	c.attachCredential(httpReq.Header, req.Credential)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, classifyTransport(req.Op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, unclassified(req.Op, fmt.Errorf("read body: %w", err))
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serverRejected(req.Op, resp.StatusCode, env.Message)
	}
	if decodeErr != nil {
		return nil, unclassified(req.Op, fmt.Errorf("decode envelope: %w", decodeErr))
	}
	if !env.Success {
		return nil, serverRejected(req.Op, resp.StatusCode, env.Message)
	}

	if req.Into != nil {
		if err := json.Unmarshal(raw, req.Into); err != nil {
			return nil, unclassified(req.Op, fmt.Errorf("decode payload: %w", err))
		}
	}

	return &Response{Status: resp.StatusCode, Message: env.Message, Body: raw}, nil
}

// attachCredential sends the credential in the role header and as a bearer
// token so both older and current gates accept it.
func (c *Client) attachCredential(h http.Header, cred domain.Credential) {
	if !cred.Present() {
		return
	}
	h.Set(c.scheme.TokenHeader, string(cred))
	h.Set(HeaderAuthorization, "Bearer "+string(cred))
}

// classifyTransport separates "nothing reached the server" from cancellations
// and timeouts, which may have reached it.
func classifyTransport(op Op, err error) *Error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return unclassified(op, err)
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return unclassified(op, err)
	}
	return networkUnreachable(err)
}
