package domain

import (
	apperror "sghss/internal/errors"
	"sghss/internal/validation"
)

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int    `json:"code" example:"400"`
	Category string `json:"category" example:"VALIDATION_ERROR"`
	Message  string `json:"message" example:"Invalid CPF format"`
	Kind     string `json:"kind,omitempty" example:"checksum"`
}

// ResultError converte um validation.Result reprovado em ValidationError com o motivo.
// Resultados válidos devolvem nil.
func ResultError(res validation.Result) error {
	if res.Valid {
		return nil
	}
	return apperror.NewValidationErrorKind(string(res.Kind), res.Message)
}
