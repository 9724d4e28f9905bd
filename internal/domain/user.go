package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	apperror "sghss/internal/errors"
	"sghss/internal/validation"
)

// User representa a entidade do usuário no sistema.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole  `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

const (
	RolePatient      UserRole = "patient"
	RoleProfessional UserRole = "professional"
	RoleAdmin        UserRole = "admin"
)

// ParseUserRole normaliza (trim + lower) e valida a role.
func ParseUserRole(raw string) (UserRole, bool) {
	if !validation.ValidateRole(raw) {
		return "", false
	}
	return UserRole(strings.ToLower(strings.TrimSpace(raw))), true
}

// SetPassword valida o limite de tamanho e grava o hash bcrypt da senha.
// O limite vem de validation.CheckPasswordLength, a mesma regra usada pela política de senha.
func (u *User) SetPassword(password string) error {
	if res := validation.CheckPasswordLength(password); !res.Valid {
		return apperror.NewValidationErrorKind(string(res.Kind), res.Message)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternalError("failed to hash password", err)
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword compara a senha informada com o hash salvo. Nunca retorna erro:
// qualquer falha do bcrypt conta como senha incorreta.
func (u *User) CheckPassword(password string) bool {
	if password == "" || u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// UserRepository define o contrato de persistência para a entidade User.
type UserRepository interface {
	Save(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
	TouchLastLogin(ctx context.Context, id string) error
}

// LoadActiveUser recarrega o usuário dono do token. Usuário inexistente ou desativado
// resulta em 401, como um token que não vale mais.
func LoadActiveUser(ctx context.Context, users UserRepository, userID string) (User, error) {
	user, err := users.FindByID(ctx, userID)
	if err != nil {
		var nf *apperror.NotFoundError
		if errors.As(err, &nf) {
			return User{}, apperror.NewUnauthorizedError("User not found")
		}
		return User{}, err
	}
	if !user.IsActive {
		return User{}, apperror.NewUnauthorizedError("Account is deactivated")
	}
	return user, nil
}
