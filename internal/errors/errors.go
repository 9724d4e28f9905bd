package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do SGHSS.
// Ela permite que o Handler acesse a Categoria, o status HTTP e a mensagem pública do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Message() string  // Mensagem exibida ao cliente, sem prefixo
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "NOT_FOUND")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes
}

// --- Tipos de Erro de Domínio ---

// ValidationError representa falhas de validação de dados de entrada.
// Kind replica a taxonomia do pacote validation (format, policy, checksum, completeness).
type ValidationError struct {
	Msg  string
	Kind string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("validation error: %s", e.Msg) }
func (e *ValidationError) Message() string  { return e.Msg }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NewValidationErrorKind cria um erro de validação com a classificação do motivo.
func NewValidationErrorKind(kind, msg string) AppError {
	return &ValidationError{Msg: msg, Kind: kind}
}

// UnauthorizedError representa credenciais ausentes, inválidas ou conta desativada.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("unauthorized: %s", e.Msg) }
func (e *UnauthorizedError) Message() string  { return e.Msg }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um novo erro de autenticação.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// ForbiddenError representa um usuário autenticado sem a role necessária.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string    { return fmt.Sprintf("forbidden: %s", e.Msg) }
func (e *ForbiddenError) Message() string  { return e.Msg }
func (e *ForbiddenError) Category() string { return "FORBIDDEN" }
func (e *ForbiddenError) HTTPStatus() int  { return http.StatusForbidden } // 403
func (e *ForbiddenError) Unwrap() error    { return nil }

// NewForbiddenError cria um novo erro de autorização.
func NewForbiddenError(msg string) AppError {
	return &ForbiddenError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("not found: %s", e.Msg) }
func (e *NotFoundError) Message() string  { return e.Msg }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// ConflictError representa um conflito de estado (recurso duplicado, OCC).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("conflict: %s", e.Msg) }
func (e *ConflictError) Message() string  { return e.Msg }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito.
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// BusinessRuleError representa uma requisição bem formada que viola uma regra de negócio.
type BusinessRuleError struct {
	Msg string
}

func (e *BusinessRuleError) Error() string    { return fmt.Sprintf("business rule: %s", e.Msg) }
func (e *BusinessRuleError) Message() string  { return e.Msg }
func (e *BusinessRuleError) Category() string { return "BUSINESS_RULE" }
func (e *BusinessRuleError) HTTPStatus() int  { return http.StatusUnprocessableEntity } // 422
func (e *BusinessRuleError) Unwrap() error    { return nil }

// NewBusinessRuleError cria um novo erro de regra de negócio.
func NewBusinessRuleError(msg string) AppError {
	return &BusinessRuleError{Msg: msg}
}

// TooManyRequestsError representa bloqueio temporário (rate limit, tentativas de login).
type TooManyRequestsError struct {
	Msg string
}

func (e *TooManyRequestsError) Error() string    { return fmt.Sprintf("too many requests: %s", e.Msg) }
func (e *TooManyRequestsError) Message() string  { return e.Msg }
func (e *TooManyRequestsError) Category() string { return "TOO_MANY_REQUESTS" }
func (e *TooManyRequestsError) HTTPStatus() int  { return http.StatusTooManyRequests } // 429
func (e *TooManyRequestsError) Unwrap() error    { return nil }

// NewTooManyRequestsError cria um novo erro de bloqueio temporário.
func NewTooManyRequestsError(msg string) AppError {
	return &TooManyRequestsError{Msg: msg}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg string
	Err error // Erro original subjacente (e.g., erro do driver SQL)
}

func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("internal error: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("internal error: %s", e.Msg)
}
func (e *InternalError) Message() string  { return e.Msg }
func (e *InternalError) Category() string { return "INTERNAL_ERROR" }
func (e *InternalError) HTTPStatus() int  { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error    { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(msg+" (DB)", err)
}

// --- Helper para o Handler (Tradução Final) ---

// InternalErrorMessage é a mensagem pública de qualquer falha 5xx.
const InternalErrorMessage = "Internal server error"

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP, categoria e mensagem pública.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if stderrors.As(err, &appErr) {
		// Erros internos não expõem detalhes do driver ao cliente.
		if appErr.HTTPStatus() >= http.StatusInternalServerError {
			return appErr.HTTPStatus(), appErr.Category(), InternalErrorMessage
		}
		return appErr.HTTPStatus(), appErr.Category(), appErr.Message()
	}

	// Erro não tipado: tratado como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "An unexpected error occurred"
}
