package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/barberbook/barberbook/internal/auth"
)

type verifierStub struct{}

func (verifierStub) Verify(token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &auth.Claims{UserID: "u-1", Username: "owner"}, nil
}

func TestRequireAuth(t *testing.T) {
	var seen *auth.Claims
	h := RequireAuth(verifierStub{}, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetClaims(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"invalid", "Bearer nope", http.StatusForbidden},
		{"valid", "Bearer good", http.StatusNoContent},
		{"lowercase scheme", "bearer good", http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
	if seen == nil || seen.Username != "owner" {
		t.Fatalf("expected claims on the context, got %+v", seen)
	}
}

func TestCorrelationID(t *testing.T) {
	var got string
	h := CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetCorrelationID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Correlation-ID", "abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got != "abc" || rec.Header().Get("X-Correlation-ID") != "abc" {
		t.Fatalf("expected the caller's id echoed, got %q / %q", got, rec.Header().Get("X-Correlation-ID"))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if got == "" || got == "abc" {
		t.Fatalf("expected a generated id, got %q", got)
	}
}
