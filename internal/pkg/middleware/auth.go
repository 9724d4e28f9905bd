package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"sghss/internal/api/respond"
	"sghss/internal/domain"
	apperror "sghss/internal/errors"
	"sghss/internal/pkg/logger"
	"sghss/internal/pkg/token"
)

// ContextKey é o tipo das chaves de contexto deste pacote.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// UserClaims representa os dados do usuário extraídos do token JWT.
type UserClaims struct {
	UserID    string
	Role      domain.UserRole
	TokenID   string
	ExpiresAt time.Time
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string, expected token.Type) (*token.CustomClaims, error)
}

// RevocationChecker consulta a lista de tokens revogados no logout.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// NewAuthMiddleware valida o Bearer token do tipo esperado, rejeita tokens revogados
// e anexa as claims ao contexto da requisição.
func NewAuthMiddleware(tokenSvc TokenService, revocations RevocationChecker, expected token.Type, log logger.Logger) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || strings.TrimSpace(tokenString) == "" {
				respond.Error(w, log, apperror.NewUnauthorizedError("Missing or malformed authorization token"))
				return
			}

			claims, err := tokenSvc.ValidateToken(strings.TrimSpace(tokenString), expected)
			if err != nil {
				log.Debug("Token rejeitado", map[string]interface{}{"path": r.URL.Path, "reason": err.Error()})
				respond.Error(w, log, apperror.NewUnauthorizedError("Invalid or expired token"))
				return
			}

			if revocations != nil {
				revoked, err := revocations.IsRevoked(r.Context(), claims.ID)
				if err != nil {
					respond.Error(w, log, apperror.NewInternalError("falha ao consultar revogação de token", err))
					return
				}
				if revoked {
					respond.Error(w, log, apperror.NewUnauthorizedError("Token has been revoked"))
					return
				}
			}

			userClaims := UserClaims{
				UserID:  claims.UserID,
				Role:    domain.UserRole(claims.Role),
				TokenID: claims.ID,
			}
			if claims.ExpiresAt != nil {
				userClaims.ExpiresAt = claims.ExpiresAt.Time
			}

			ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
	}
}

// GetUserClaimsFromContext extrai as claims anexadas por NewAuthMiddleware.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// WithUserClaims anexa claims ao contexto sem passar pelo JWT.
func WithUserClaims(ctx context.Context, claims UserClaims) context.Context {
	return context.WithValue(ctx, UserClaimsKey, claims)
}

// PermissionMiddleware exige que a role do usuário esteja entre requiredRoles.
func PermissionMiddleware(log logger.Logger, requiredRoles ...domain.UserRole) func(next http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			claims, ok := GetUserClaimsFromContext(r.Context())
			if !ok {
				respond.Error(w, log, apperror.NewUnauthorizedError("Authorization required"))
				return
			}

			for _, requiredRole := range requiredRoles {
				if claims.Role == requiredRole {
					next.ServeHTTP(w, r)
					return
				}
			}

			respond.Error(w, log, apperror.NewForbiddenError("Insufficient permissions"))
		}
	}
}
