package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"sghss/internal/api/auth"
	"sghss/internal/api/patient"
	"sghss/internal/api/respond"
	"sghss/internal/domain"
	"sghss/internal/pkg/cache"
	"sghss/internal/pkg/logger"
	"sghss/internal/pkg/middleware"
	"sghss/internal/pkg/reqmeta"
	"sghss/internal/pkg/token"
)

// Dependencies reúne o que o roteador precisa: handlers já inicializados por
// injeção de dependências e a infraestrutura usada pelos middlewares.
type Dependencies struct {
	AuthHandler    *auth.Handler
	PatientHandler *patient.Handler
	Tokens         middleware.TokenService
	Revocations    middleware.RevocationChecker
	Cache          cache.Client
	Logger         logger.Logger

	RateLimitMaxRequests int
	RateLimitPeriod      time.Duration
	AllowedOrigins       []string
	TrustedProxies       *reqmeta.TrustedProxies
}

// NewRouter configura e retorna o roteador HTTP principal.
func NewRouter(deps Dependencies) http.Handler {
	// ServeMux com padrões de método (Go 1.22+)
	mux := http.NewServeMux()

	requireAccess := middleware.NewAuthMiddleware(deps.Tokens, deps.Revocations, token.TypeAccess, deps.Logger)
	requireRefresh := middleware.NewAuthMiddleware(deps.Tokens, deps.Revocations, token.TypeRefresh, deps.Logger)
	patientOnly := middleware.PermissionMiddleware(deps.Logger, domain.RolePatient)
	adminOnly := middleware.PermissionMiddleware(deps.Logger, domain.RoleAdmin)

	// --- 1. Health Check e Documentação ---
	mux.HandleFunc("GET /api/health", HealthHandler)
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// --- 2. Autenticação ---
	mux.HandleFunc("POST /api/auth/register", deps.AuthHandler.RegisterHandler)
	mux.HandleFunc("POST /api/auth/login", deps.AuthHandler.LoginHandler)
	mux.HandleFunc("POST /api/auth/refresh", requireRefresh(deps.AuthHandler.RefreshHandler))
	mux.HandleFunc("GET /api/auth/me", requireAccess(deps.AuthHandler.MeHandler))
	mux.HandleFunc("POST /api/auth/logout", requireAccess(deps.AuthHandler.LogoutHandler))

	// --- 3. Pacientes ---
	mux.HandleFunc("POST /api/patients", requireAccess(patientOnly(deps.PatientHandler.CreateHandler)))
	mux.HandleFunc("GET /api/patients/me", requireAccess(patientOnly(deps.PatientHandler.GetMineHandler)))
	mux.HandleFunc("PUT /api/patients/me", requireAccess(patientOnly(deps.PatientHandler.UpdateMineHandler)))
	mux.HandleFunc("GET /api/patients", requireAccess(adminOnly(deps.PatientHandler.ListHandler)))

	// --- 4. Middlewares Globais (o primeiro da lista é o mais externo) ---
	var handler http.Handler = mux
	handler = middleware.RateLimiter(deps.Cache, deps.RateLimitMaxRequests, deps.RateLimitPeriod, deps.Logger)(handler)
	handler = middleware.CORS(deps.AllowedOrigins)(handler)
	handler = middleware.SecurityHeaders(handler)
	handler = middleware.AccessLog(deps.Logger)(handler)
	handler = middleware.RequestContext(deps.TrustedProxies)(handler)
	handler = middleware.Recover(deps.Logger)(handler)

	return handler
}

// HealthHandler responde ao health check.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "healthy"
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, respond.Envelope{
		"status":  "healthy",
		"message": "SGHSS API is running",
	})
}
