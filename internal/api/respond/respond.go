// Package respond padroniza as respostas JSON da API (sucesso e erro).
package respond

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"

	"sghss/internal/domain"
	apperror "sghss/internal/errors"
	"sghss/internal/pkg/logger"
)

// Envelope é o corpo de sucesso: uma mensagem mais os campos de dados no mesmo nível.
type Envelope map[string]interface{}

// JSON escreve data com o status informado.
func JSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// Success monta o envelope {"message": ..., <data>} e o escreve. Mensagem vazia é omitida.
func Success(w http.ResponseWriter, status int, message string, data Envelope) {
	body := Envelope{}
	if message != "" {
		body["message"] = message
	}
	for k, v := range data {
		body[k] = v
	}
	JSON(w, status, body)
}

// Error traduz err para o status HTTP e escreve domain.ErrorResponse.
// Erros 5xx são registrados no logger com o erro original.
func Error(w http.ResponseWriter, log logger.Logger, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= http.StatusInternalServerError && log != nil {
		log.Error("Erro interno ao processar requisição", err)
	}

	resp := domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	}

	var ve *apperror.ValidationError
	if stderrors.As(err, &ve) {
		resp.Kind = ve.Kind
	}

	JSON(w, status, resp)
}

// MaxBodyBytes limita o corpo JSON aceito pelos handlers.
const MaxBodyBytes = 1 << 20

// DecodeJSON lê o corpo como JSON, até MaxBodyBytes. Corpo vazio, grande demais
// ou malformado vira ValidationError.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Body == nil || r.Body == http.NoBody {
		return apperror.NewValidationError("Request body is required")
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case stderrors.Is(err, io.EOF):
			return apperror.NewValidationError("Request body is required")
		case stderrors.As(err, &tooLarge):
			return apperror.NewValidationError("Request body too large")
		}
		return apperror.NewValidationError("Invalid JSON payload")
	}
	return nil
}
