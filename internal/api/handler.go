package api

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/eugenenazirov/coffee-shop-env/internal/environment"
)

type contextKey string

const requestIDContextKey contextKey = "requestID"

// Source exposes the environment record being served.
type Source interface {
	Record() environment.Record
	Target() environment.Target
}

// Handler serves the environment record over HTTP. The record never
// changes, so its encoding and ETag are computed once.
type Handler struct {
	target environment.Target
	body   []byte
	etag   string
	auth0  auth0Response

	clock func() time.Time
}

// HandlerOption configures Handler behaviour.
type HandlerOption func(*Handler)

// WithClock overrides the time source, primarily for tests.
func WithClock(clock func() time.Time) HandlerOption {
	return func(h *Handler) {
		h.clock = clock
	}
}

// NewHandler constructs a Handler serving the record held by source.
func NewHandler(source Source, opts ...HandlerOption) (*Handler, error) {
	record := source.Record()

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(record); err != nil {
		return nil, fmt.Errorf("encode environment record: %w", err)
	}
	sum := sha256.Sum256(buf.Bytes())

	h := &Handler{
		target: source.Target(),
		body:   buf.Bytes(),
		etag:   `"` + hex.EncodeToString(sum[:16]) + `"`,
		auth0: auth0Response{
			Domain:   record.Auth0.Domain(),
			Issuer:   record.Auth0.IssuerURL(),
			JWKSURL:  record.Auth0.JWKSURL(),
			LoginURL: record.Auth0.LoginURL(),
		},
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = r
	resp := healthResponse{
		Status:    "ok",
		Target:    h.target.String(),
		Timestamp: h.clock(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleEnvironment(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", h.etag)
	w.Header().Set("Cache-Control", "no-cache")

	if etagMatches(r.Header.Values("If-None-Match"), h.etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(h.body)
	}
}

// etagMatches applies the weak comparison If-None-Match calls for: any
// listed tag equal to etag once W/ is stripped, or "*".
func etagMatches(headers []string, etag string) bool {
	for _, header := range headers {
		for _, candidate := range strings.Split(header, ",") {
			candidate = strings.TrimSpace(candidate)
			if candidate == "*" {
				return true
			}
			if strings.TrimPrefix(candidate, "W/") == etag {
				return true
			}
		}
	}
	return false
}

func (h *Handler) handleFallback(w http.ResponseWriter, r *http.Request) {
	for _, route := range routes {
		if route.path == r.URL.Path {
			w.Header().Set("Allow", "GET, HEAD, OPTIONS")
			writeError(w, http.StatusMethodNotAllowed, "Method not allowed", r.Method+" is not supported on "+r.URL.Path)
			return
		}
	}
	writeError(w, http.StatusNotFound, "Not found", "no route for "+r.URL.Path)
}

func (h *Handler) handleAuth0(w http.ResponseWriter, r *http.Request) {
	_ = r
	writeJSON(w, http.StatusOK, h.auth0)
}

func requestIDFromContext(ctx context.Context) string {
	if v := ctx.Value(requestIDContextKey); v != nil {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

type auth0Response struct {
	Domain   string `json:"domain"`
	Issuer   string `json:"issuer"`
	JWKSURL  string `json:"jwksUrl"`
	LoginURL string `json:"loginUrl"`
}

type healthResponse struct {
	Status    string    `json:"status"`
	Target    string    `json:"target"`
	Timestamp time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{
		Error:   message,
		Details: details,
	})
}
