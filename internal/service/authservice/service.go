package authservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sghss/internal/domain"
	apperror "sghss/internal/errors"
	"sghss/internal/pkg/logger"
	"sghss/internal/service/auditservice"
	"sghss/internal/validation"
)

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
	GenerateRefreshToken(userID string, userRole string) (string, error)
}

// TokenRevoker registra tokens revogados no logout.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
}

// AttemptStore conta falhas de login consecutivas por e-mail.
type AttemptStore interface {
	Failures(ctx context.Context, email string) (int, error)
	RegisterFailure(ctx context.Context, email string) (int, error)
	Reset(ctx context.Context, email string) error
}

// AuditRecorder grava a trilha de auditoria.
type AuditRecorder interface {
	Record(ctx context.Context, e auditservice.Entry)
}

// ProfileFinder busca o perfil de paciente do usuário para /me.
type ProfileFinder interface {
	FindByUserID(ctx context.Context, userID string) (domain.Patient, error)
}

// Dependencies agrupa as dependências injetadas no AuthService.
type Dependencies struct {
	Users            domain.UserRepository
	Profiles         ProfileFinder
	Tokens           TokenService
	Revoker          TokenRevoker
	Attempts         AttemptStore
	Audit            AuditRecorder
	MaxLoginAttempts int
}

// AuthService concentra registro, login, renovação de token, /me e logout.
type AuthService struct {
	Dependencies
	logger logger.Logger
	now    validation.Clock
}

// LoginResult é o retorno de um login bem-sucedido.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         domain.User
}

// Session identifica o token de acesso em uso, para o logout.
type Session struct {
	UserID    string
	TokenID   string
	ExpiresAt time.Time
}

// Me é a visão do usuário autenticado, com o perfil de paciente quando existir.
type Me struct {
	domain.User
	Profile *domain.PatientView `json:"profile,omitempty"`
}

// NewService cria uma nova instância do AuthService.
func NewService(deps Dependencies, log logger.Logger) *AuthService {
	return &AuthService{
		Dependencies: deps,
		logger:       log,
		now:          validation.SystemClock,
	}
}

// WithClock substitui a fonte de tempo (idade no /me e TTL da revogação).
func (s *AuthService) WithClock(now validation.Clock) *AuthService {
	s.now = now
	return s
}

// Register valida o payload e cria o usuário.
func (s *AuthService) Register(ctx context.Context, payload map[string]interface{}) (domain.User, error) {
	if len(payload) == 0 {
		return domain.User{}, apperror.NewValidationErrorKind(string(validation.KindCompleteness), "Request body is required")
	}

	if err := domain.ResultError(validation.ValidateRequiredFields(payload, []string{"email", "password", "role"})); err != nil {
		return domain.User{}, err
	}

	email, err := normalizeEmail(payload["email"])
	if err != nil {
		return domain.User{}, err
	}

	password, isText := payload["password"].(string)
	if !isText {
		return domain.User{}, apperror.NewValidationErrorKind(string(validation.KindFormat), "Password must be a string")
	}
	if err := domain.ResultError(validation.ValidatePassword(password)); err != nil {
		return domain.User{}, err
	}

	rawRole, _ := payload["role"].(string)
	role, valid := domain.ParseUserRole(validation.SanitizeString(rawRole, 0))
	if !valid {
		return domain.User{}, apperror.NewValidationErrorKind(string(validation.KindFormat), "Invalid role. Must be patient, professional, or admin")
	}

	if _, err := s.Users.FindByEmail(ctx, email); err == nil {
		return domain.User{}, apperror.NewConflictError("Email already registered")
	} else if !isNotFound(err) {
		return domain.User{}, err
	}

	newUser := domain.User{
		Email:    email,
		Role:     role,
		IsActive: true,
	}
	if err := newUser.SetPassword(password); err != nil {
		return domain.User{}, err
	}

	user, err := s.Users.Save(ctx, newUser)
	if err != nil {
		return domain.User{}, err
	}

	s.Audit.Record(ctx, auditservice.Entry{
		UserID:    user.ID,
		Action:    domain.AuditUserRegistered,
		TableName: "users",
		RecordID:  user.ID,
		Details:   fmt.Sprintf("New %s user registered", user.Role),
	})

	return user, nil
}

// Login autentica o usuário e emite os tokens de acesso e de renovação.
// Após MaxLoginAttempts falhas, o e-mail fica bloqueado até a janela expirar.
func (s *AuthService) Login(ctx context.Context, payload map[string]interface{}) (LoginResult, error) {
	if len(payload) == 0 {
		return LoginResult{}, apperror.NewValidationErrorKind(string(validation.KindCompleteness), "Request body is required")
	}

	if err := domain.ResultError(validation.ValidateRequiredFields(payload, []string{"email", "password"})); err != nil {
		return LoginResult{}, err
	}

	email, err := normalizeEmail(payload["email"])
	if err != nil {
		return LoginResult{}, err
	}
	password, _ := payload["password"].(string)
	masked := validation.Mask(email, '*', 6)

	if s.locked(ctx, email) {
		s.Audit.Record(ctx, auditservice.Entry{
			Action:    domain.AuditLoginFailed,
			TableName: "users",
			Details:   fmt.Sprintf("Login locked after repeated failures for %s", masked),
		})
		return LoginResult{}, apperror.NewTooManyRequestsError("Too many failed login attempts. Please try again later")
	}

	user, err := s.Users.FindByEmail(ctx, email)
	if err != nil && !isNotFound(err) {
		return LoginResult{}, err
	}

	if err != nil || !user.CheckPassword(password) {
		s.registerFailure(ctx, email)
		s.Audit.Record(ctx, auditservice.Entry{
			Action:    domain.AuditLoginFailed,
			TableName: "users",
			Details:   fmt.Sprintf("Failed login attempt for %s", masked),
		})
		return LoginResult{}, apperror.NewUnauthorizedError("Invalid email or password")
	}

	if !user.IsActive {
		s.Audit.Record(ctx, auditservice.Entry{
			UserID:    user.ID,
			Action:    domain.AuditLoginBlocked,
			TableName: "users",
			RecordID:  user.ID,
			Details:   "Login attempt on deactivated account",
		})
		return LoginResult{}, apperror.NewUnauthorizedError("Account is deactivated")
	}

	access, err := s.Tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return LoginResult{}, apperror.NewInternalError("falha ao gerar token de acesso", err)
	}
	refresh, err := s.Tokens.GenerateRefreshToken(user.ID, string(user.Role))
	if err != nil {
		return LoginResult{}, apperror.NewInternalError("falha ao gerar token de renovação", err)
	}

	if err := s.Attempts.Reset(ctx, email); err != nil {
		s.logger.Warn("Falha ao zerar tentativas de login", map[string]interface{}{"email": masked, "error": err.Error()})
	}
	if err := s.Users.TouchLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn("Falha ao registrar último login", map[string]interface{}{"user_id": user.ID})
	}

	s.Audit.Record(ctx, auditservice.Entry{
		UserID:    user.ID,
		Action:    domain.AuditLoginSuccess,
		TableName: "users",
		RecordID:  user.ID,
		Details:   "User successfully logged in",
	})

	return LoginResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// locked consulta o contador de falhas. Indisponibilidade do cache não bloqueia o login.
func (s *AuthService) locked(ctx context.Context, email string) bool {
	if s.MaxLoginAttempts <= 0 {
		return false
	}
	failures, err := s.Attempts.Failures(ctx, email)
	if err != nil {
		s.logger.Warn("Contador de tentativas indisponível", map[string]interface{}{"error": err.Error()})
		return false
	}
	return failures >= s.MaxLoginAttempts
}

func (s *AuthService) registerFailure(ctx context.Context, email string) {
	n, err := s.Attempts.RegisterFailure(ctx, email)
	if err != nil {
		s.logger.Warn("Falha ao registrar tentativa de login", map[string]interface{}{"error": err.Error()})
		return
	}
	if s.MaxLoginAttempts > 0 && n >= s.MaxLoginAttempts {
		s.logger.Warn("Login bloqueado por excesso de tentativas", map[string]interface{}{"email": validation.Mask(email, '*', 6), "failures": n})
	}
}

// Refresh emite um novo token de acesso para o dono do refresh token.
func (s *AuthService) Refresh(ctx context.Context, userID string) (string, error) {
	user, err := s.Users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", apperror.NewUnauthorizedError("Account is deactivated")
	}

	access, err := s.Tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", apperror.NewInternalError("falha ao gerar token de acesso", err)
	}

	s.Audit.Record(ctx, auditservice.Entry{
		UserID:    user.ID,
		Action:    domain.AuditTokenRefreshed,
		TableName: "users",
		RecordID:  user.ID,
		Details:   "Access token refreshed",
	})

	return access, nil
}

// Me devolve o usuário autenticado e, para pacientes, o perfil formatado com idade.
func (s *AuthService) Me(ctx context.Context, userID string) (Me, error) {
	user, err := domain.LoadActiveUser(ctx, s.Users, userID)
	if err != nil {
		return Me{}, err
	}

	me := Me{User: user}
	if user.Role != domain.RolePatient || s.Profiles == nil {
		return me, nil
	}

	profile, err := s.Profiles.FindByUserID(ctx, user.ID)
	if err != nil {
		if isNotFound(err) {
			return me, nil
		}
		return Me{}, err
	}
	view := profile.View(s.now)
	me.Profile = &view
	return me, nil
}

// Logout revoga o token de acesso até sua expiração e audita a saída.
// Falhas são apenas registradas no log; o logout sempre tem sucesso para o cliente.
func (s *AuthService) Logout(ctx context.Context, session Session) {
	ttl := session.ExpiresAt.Sub(s.now())
	if err := s.Revoker.Revoke(ctx, session.TokenID, ttl); err != nil {
		s.logger.Error("Falha ao revogar token no logout", err)
	}

	s.Audit.Record(ctx, auditservice.Entry{
		UserID:    session.UserID,
		Action:    domain.AuditLogout,
		TableName: "users",
		RecordID:  session.UserID,
		Details:   "User logged out",
	})
}

// normalizeEmail aplica sanitize + lower e valida formato e tamanho.
func normalizeEmail(raw interface{}) (string, error) {
	text, isText := raw.(string)
	email := strings.ToLower(validation.SanitizeString(text, 0))
	if !isText || len(email) > validation.EmailMaxLength || !validation.ValidateEmail(email) {
		return "", apperror.NewValidationErrorKind(string(validation.KindFormat), "Invalid email format")
	}
	return email, nil
}

func isNotFound(err error) bool {
	var nf *apperror.NotFoundError
	return errors.As(err, &nf)
}
