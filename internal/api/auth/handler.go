package auth

import (
	"context"
	"net/http"

	"sghss/internal/api/respond"
	"sghss/internal/domain"
	apperror "sghss/internal/errors"
	"sghss/internal/pkg/logger"
	"sghss/internal/pkg/middleware"
	"sghss/internal/service/authservice"
)

// AuthService define o contrato que o Handler espera da camada de Serviço.
type AuthService interface {
	Register(ctx context.Context, payload map[string]interface{}) (domain.User, error)
	Login(ctx context.Context, payload map[string]interface{}) (authservice.LoginResult, error)
	Refresh(ctx context.Context, userID string) (string, error)
	Me(ctx context.Context, userID string) (authservice.Me, error)
	Logout(ctx context.Context, session authservice.Session)
}

// RegisterRequest documenta o payload de registro.
type RegisterRequest struct {
	Email    string `json:"email" example:"maria@example.com"`
	Password string `json:"password" example:"abcd123!"`
	Role     string `json:"role" example:"patient" enums:"patient,professional,admin"`
}

// LoginRequest documenta o payload de login.
type LoginRequest struct {
	Email    string `json:"email" example:"maria@example.com"`
	Password string `json:"password" example:"abcd123!"`
}

// Handler agrupa os handlers de autenticação.
type Handler struct {
	Service AuthService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc AuthService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// RegisterHandler lida com POST /api/auth/register.
// @Summary Registra um novo usuário
// @Description Valida e-mail, política de senha e role; grava o hash bcrypt da senha.
// @Tags auth
// @Accept json
// @Produce json
// @Param registration body RegisterRequest true "Credenciais e role"
// @Success 201 {object} map[string]interface{} "User registered successfully"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Email already registered"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /auth/register [post]
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	if err := respond.DecodeJSON(w, r, &payload); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	user, err := h.Service.Register(r.Context(), payload)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	respond.Success(w, http.StatusCreated, "User registered successfully", respond.Envelope{"user": user})
}

// LoginHandler lida com POST /api/auth/login.
// @Summary Autentica um usuário
// @Description Emite um token de acesso e um de renovação. Bloqueia o e-mail após falhas seguidas.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body LoginRequest true "Credenciais"
// @Success 200 {object} map[string]interface{} "Login successful"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Invalid email or password"
// @Failure 429 {object} domain.ErrorResponse "Too many failed login attempts"
// @Router /auth/login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var payload map[string]interface{}
	if err := respond.DecodeJSON(w, r, &payload); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	res, err := h.Service.Login(r.Context(), payload)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	respond.Success(w, http.StatusOK, "Login successful", respond.Envelope{
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
		"user":          res.User,
	})
}

// RefreshHandler lida com POST /api/auth/refresh (Bearer com o token de renovação).
// @Summary Renova o token de acesso
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Token refreshed successfully"
// @Failure 401 {object} domain.ErrorResponse "Token inválido ou conta desativada"
// @Failure 404 {object} domain.ErrorResponse "User not found"
// @Router /auth/refresh [post]
func (h *Handler) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, h.Logger, apperror.NewUnauthorizedError("Invalid token"))
		return
	}

	access, err := h.Service.Refresh(r.Context(), claims.UserID)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	respond.Success(w, http.StatusOK, "Token refreshed successfully", respond.Envelope{"access_token": access})
}

// MeHandler lida com GET /api/auth/me.
// @Summary Dados do usuário autenticado
// @Description Para pacientes inclui o perfil com CPF e telefone formatados e a idade.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "user"
// @Failure 401 {object} domain.ErrorResponse "Não autenticado"
// @Router /auth/me [get]
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, h.Logger, apperror.NewUnauthorizedError("Invalid token"))
		return
	}

	me, err := h.Service.Me(r.Context(), claims.UserID)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	respond.Success(w, http.StatusOK, "", respond.Envelope{"user": me})
}

// LogoutHandler lida com POST /api/auth/logout. Sempre responde 200.
// @Summary Encerra a sessão
// @Description Revoga o token de acesso atual até a sua expiração.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "Logout successful"
// @Router /auth/logout [post]
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if claims, ok := middleware.GetUserClaimsFromContext(r.Context()); ok {
		h.Service.Logout(r.Context(), authservice.Session{
			UserID:    claims.UserID,
			TokenID:   claims.TokenID,
			ExpiresAt: claims.ExpiresAt,
		})
	}

	respond.Success(w, http.StatusOK, "Logout successful", nil)
}
