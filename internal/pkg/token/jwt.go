package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "SGHSS-API"

// Type distingue tokens de acesso de tokens de renovação.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

var (
	// ErrInvalidToken cobre assinatura, formato, emissor ou expiração inválidos.
	ErrInvalidToken = errors.New("token inválido")
	// ErrWrongTokenType é devolvido quando um refresh é usado como access ou vice-versa.
	ErrWrongTokenType = errors.New("tipo de token inesperado")
)

// TokenService define o contrato para manipulação de JWTs.
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
	GenerateRefreshToken(userID string, userRole string) (string, error)
	ValidateToken(tokenString string, expected Type) (*CustomClaims, error)
}

// CustomClaims define as informações armazenadas no JWT.
type CustomClaims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	Type   Type   `json:"typ"`
	jwt.RegisteredClaims
}

// Remaining devolve o tempo até a expiração do token.
func (c *CustomClaims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	return c.ExpiresAt.Sub(now)
}

// Service implementa TokenService com HS256.
type Service struct {
	secretKey     []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

// NewService cria uma nova instância do serviço Token.
func NewService(secretKey string, accessExpiry, refreshExpiry time.Duration) *Service {
	return &Service{
		secretKey:     []byte(secretKey),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
		now:           time.Now,
	}
}

// WithClock substitui a fonte de tempo usada para emitir e validar tokens.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// GenerateToken cria um token de acesso assinado contendo o ID e a Role do usuário.
func (s *Service) GenerateToken(userID string, userRole string) (string, error) {
	return s.sign(userID, userRole, TypeAccess, s.accessExpiry)
}

// GenerateRefreshToken cria um token de renovação de longa duração.
func (s *Service) GenerateRefreshToken(userID string, userRole string) (string, error) {
	return s.sign(userID, userRole, TypeRefresh, s.refreshExpiry)
}

func (s *Service) sign(userID, userRole string, typ Type, expiry time.Duration) (string, error) {
	now := s.now()
	claims := CustomClaims{
		UserID: userID,
		Role:   userRole,
		Type:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
			Subject:   userID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("falha ao assinar o token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken valida o token e confere se é do tipo esperado.
func (s *Service) ValidateToken(tokenString string, expected Type) (*CustomClaims, error) {
	claims := &CustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Type != expected {
		return nil, ErrWrongTokenType
	}

	return claims, nil
}
