package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"numis/console/internal/api"
	"numis/console/internal/platform/validation"
	"numis/console/internal/user/domain"
	"numis/console/internal/user/repository"
)

func newTestService(t *testing.T, h http.HandlerFunc) *UserService {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL+"/api/v1", srv.URL, nil, 0)
	return NewUserService(repository.NewAPIRepository(client))
}

func TestMe(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/users/me" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":4,"email":"ana@example.com","display_name":null,"is_mfa_enabled":true,"created_at":"2024-03-01T10:00:00","updated_at":"2024-03-02T10:00:00"}`))
	})

	u, err := svc.Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if u.ID != 4 || !u.IsMFAEnabled || u.Name() != "ana@example.com" {
		t.Errorf("user = %+v", u)
	}
	if u.CreatedAt.Year() != 2024 {
		t.Errorf("CreatedAt = %v", u.CreatedAt)
	}
}

func TestMe_Unauthorized(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Not authenticated"}`))
	})
	_, err := svc.Me(context.Background())
	if !api.IsUnauthorized(err) {
		t.Fatalf("err = %v, want 401", err)
	}
}

func TestRegister(t *testing.T) {
	var got domain.Registration
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/auth/register" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"id":9,"email":"bo@example.com","display_name":"Bo"}`))
	})

	u, err := svc.Register(context.Background(), domain.Registration{Email: " bo@example.com ", Password: "longenough", DisplayName: "Bo"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got.Email != "bo@example.com" || got.Password != "longenough" {
		t.Errorf("sent = %+v", got)
	}
	if u.ID != 9 || u.Name() != "Bo" {
		t.Errorf("user = %+v", u)
	}
}

func TestRegister_InvalidMakesNoCall(t *testing.T) {
	calls := 0
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) { calls++ })

	tests := []struct {
		name  string
		reg   domain.Registration
		field string
	}{
		{"missing email", domain.Registration{Password: "longenough"}, "email"},
		{"not an email", domain.Registration{Email: "bo", Password: "longenough"}, "email"},
		{"missing password", domain.Registration{Email: "bo@example.com"}, "password"},
		{"short password", domain.Registration{Email: "bo@example.com", Password: "short"}, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.reg)
			verr, ok := validation.As(err)
			if !ok || !verr.Has(tt.field) {
				t.Fatalf("err = %v, want validation problem on %s", err, tt.field)
			}
		})
	}
	if calls != 0 {
		t.Errorf("backend called %d times", calls)
	}
}
