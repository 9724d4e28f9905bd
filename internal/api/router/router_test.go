package router_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sghss/internal/api/auth"
	"sghss/internal/api/patient"
	"sghss/internal/api/router"
	"sghss/internal/domain"
	"sghss/internal/pkg/cache"
	"sghss/internal/pkg/logger"
	"sghss/internal/pkg/token"
	"sghss/internal/service/authservice"
)

type stubAuth struct{}

func (stubAuth) Register(ctx context.Context, payload map[string]interface{}) (domain.User, error) {
	return domain.User{ID: "u-1"}, nil
}

func (stubAuth) Login(ctx context.Context, payload map[string]interface{}) (authservice.LoginResult, error) {
	return authservice.LoginResult{}, nil
}

func (stubAuth) Refresh(ctx context.Context, userID string) (string, error) {
	return "novo", nil
}

func (stubAuth) Me(ctx context.Context, userID string) (authservice.Me, error) {
	return authservice.Me{User: domain.User{ID: userID}}, nil
}

func (stubAuth) Logout(ctx context.Context, session authservice.Session) {}

type stubPatients struct{}

func (stubPatients) Create(ctx context.Context, userID string, payload map[string]interface{}) (domain.PatientView, error) {
	return domain.PatientView{UserID: userID}, nil
}

func (stubPatients) GetMine(ctx context.Context, userID string) (domain.PatientView, error) {
	return domain.PatientView{UserID: userID}, nil
}

func (stubPatients) UpdateMine(ctx context.Context, userID string, payload map[string]interface{}) (domain.PatientView, error) {
	return domain.PatientView{UserID: userID}, nil
}

func (stubPatients) List(ctx context.Context, page, perPage int) ([]domain.PatientView, domain.Pagination, error) {
	return []domain.PatientView{}, domain.NewPagination(page, perPage, 0), nil
}

func newTestRouter(t *testing.T, limit int) (http.Handler, *token.Service) {
	t.Helper()
	log := logger.NewNop()
	tokens := token.NewService("segredo-de-teste-com-tamanho-ok", time.Hour, 24*time.Hour)
	client := cache.NewMemoryClient()

	h := router.NewRouter(router.Dependencies{
		AuthHandler:          auth.NewHandler(stubAuth{}, log),
		PatientHandler:       patient.NewHandler(stubPatients{}, log),
		Tokens:               tokens,
		Revocations:          token.NewRevocationStore(client),
		Cache:                client,
		Logger:               log,
		RateLimitMaxRequests: limit,
		RateLimitPeriod:      time.Minute,
		AllowedOrigins:       []string{"*"},
	})
	return h, tokens
}

func bearer(t *testing.T, tokens *token.Service, role domain.UserRole) string {
	t.Helper()
	raw, err := tokens.GenerateToken("u-1", string(role))
	require.NoError(t, err)
	return "Bearer " + raw
}

func TestHealth(t *testing.T) {
	h, _ := newTestRouter(t, 100)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","message":"SGHSS API is running"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestProtectedRoutes(t *testing.T) {
	h, tokens := newTestRouter(t, 100)

	cases := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"me sem token", http.MethodGet, "/api/auth/me", "", http.StatusUnauthorized},
		{"me com access", http.MethodGet, "/api/auth/me", bearer(t, tokens, domain.RolePatient), http.StatusOK},
		{"perfil como paciente", http.MethodGet, "/api/patients/me", bearer(t, tokens, domain.RolePatient), http.StatusOK},
		{"perfil como profissional", http.MethodGet, "/api/patients/me", bearer(t, tokens, domain.RoleProfessional), http.StatusForbidden},
		{"listagem como paciente", http.MethodGet, "/api/patients", bearer(t, tokens, domain.RolePatient), http.StatusForbidden},
		{"listagem como admin", http.MethodGet, "/api/patients", bearer(t, tokens, domain.RoleAdmin), http.StatusOK},
		{"refresh com access", http.MethodPost, "/api/auth/refresh", bearer(t, tokens, domain.RolePatient), http.StatusUnauthorized},
		{"método não permitido", http.MethodDelete, "/api/patients/me", "", http.StatusMethodNotAllowed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.auth != "" {
				req.Header.Set("Authorization", tc.auth)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestRefreshRoute(t *testing.T) {
	h, tokens := newTestRouter(t, 100)
	refresh, err := tokens.GenerateRefreshToken("u-1", "patient")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "novo")
}

func TestRateLimitApplied(t *testing.T) {
	h, _ := newTestRouter(t, 2)

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.RemoteAddr = "10.0.0.7:5000"
		h.ServeHTTP(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))
}
