package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campuswell/backend/internal/models"
)

func okHandler(t *testing.T, wantID int64, wantRole models.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok || id != wantID {
			t.Errorf("user id = %d, %v; want %d", id, ok, wantID)
		}
		role, _ := RoleFromContext(r.Context())
		if role != wantRole {
			t.Errorf("role = %q, want %q", role, wantRole)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestTokensRoundTrip(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"), time.Hour)
	tok, err := tokens.Sign(42, models.RoleCounselor)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	c, err := tokens.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if c.UserID != 42 || c.Role != models.RoleCounselor {
		t.Errorf("claims = %+v", c)
	}

	other := NewTokens([]byte("other-secret"), time.Hour)
	if _, err := other.Parse(tok); err == nil {
		t.Error("token signed with a different secret should not parse")
	}
}

func TestTokensExpired(t *testing.T) {
	tokens := &Tokens{secret: []byte("test-secret"), ttl: -time.Minute}
	tok, err := tokens.Sign(1, models.RoleStudent)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if _, err := tokens.Parse(tok); err == nil {
		t.Error("expired token should not parse")
	}
}

func TestAuthMiddleware(t *testing.T) {
	tokens := NewTokens([]byte("test-secret"), time.Hour)
	tok, _ := tokens.Sign(7, models.RoleStudent)
	h := tokens.Auth(okHandler(t, 7, models.RoleStudent))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid", "Bearer " + tok, http.StatusNoContent},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.name, rec.Code, tt.want)
		}
	}
}

func TestRequireRole(t *testing.T) {
	h := RequireRole(models.RoleCounselor, models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		role models.Role
		auth bool
		want int
	}{
		{"", false, http.StatusUnauthorized},
		{models.RoleStudent, true, http.StatusForbidden},
		{models.RoleCounselor, true, http.StatusNoContent},
		{models.RoleAdmin, true, http.StatusNoContent},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/overview", nil)
		if tt.auth {
			req = req.WithContext(WithUser(req.Context(), 1, tt.role))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("role %q: status = %d, want %d", tt.role, rec.Code, tt.want)
		}
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen == "" || rec.Header().Get(RequestIDHeader) != seen {
		t.Errorf("generated id %q not echoed (header %q)", seen, rec.Header().Get(RequestIDHeader))
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "abc-123" {
		t.Errorf("incoming id not propagated: %q", seen)
	}
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}
