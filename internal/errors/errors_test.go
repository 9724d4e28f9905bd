package errors_test

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "sghss/internal/errors"
)

func TestMapToHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		category string
		message  string
	}{
		{"validação", apperror.NewValidationError("Invalid email format"), http.StatusBadRequest, "VALIDATION_ERROR", "Invalid email format"},
		{"não autorizado", apperror.NewUnauthorizedError("Invalid credentials"), http.StatusUnauthorized, "UNAUTHORIZED", "Invalid credentials"},
		{"proibido", apperror.NewForbiddenError("Insufficient permissions"), http.StatusForbidden, "FORBIDDEN", "Insufficient permissions"},
		{"não encontrado", apperror.NewNotFoundError("Patient profile not found"), http.StatusNotFound, "NOT_FOUND", "Patient profile not found"},
		{"conflito", apperror.NewConflictError("Email already registered"), http.StatusConflict, "CONFLICT", "Email already registered"},
		{"regra de negócio", apperror.NewBusinessRuleError("x"), http.StatusUnprocessableEntity, "BUSINESS_RULE", "x"},
		{"bloqueio", apperror.NewTooManyRequestsError("Too many login attempts"), http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many login attempts"},
		{"interno oculta detalhe", apperror.NewDBError("falha ao inserir paciente", sql.ErrConnDone), http.StatusInternalServerError, "INTERNAL_ERROR", apperror.InternalErrorMessage},
		{"encapsulado", fmt.Errorf("camada: %w", apperror.NewNotFoundError("User not found")), http.StatusNotFound, "NOT_FOUND", "User not found"},
		{"desconhecido", fmt.Errorf("boom"), http.StatusInternalServerError, "UNKNOWN_ERROR", "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, category, message := apperror.MapToHTTPStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.category, category)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestInternalError_UnwrapAndText(t *testing.T) {
	err := apperror.NewDBError("falha ao buscar usuário", sql.ErrNoRows)

	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Equal(t, "internal error: falha ao buscar usuário (DB): sql: no rows in result set", err.Error())
}

func TestValidationErrorKind(t *testing.T) {
	err := apperror.NewValidationErrorKind("checksum", "Invalid CPF format")

	ve, ok := err.(*apperror.ValidationError)
	assert.True(t, ok)
	assert.Equal(t, "checksum", ve.Kind)
	assert.Equal(t, "validation error: Invalid CPF format", err.Error())
}
