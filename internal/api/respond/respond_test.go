package respond_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sghss/internal/api/respond"
	apperror "sghss/internal/errors"
	"sghss/internal/pkg/logger"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSuccess_MergesData(t *testing.T) {
	rec := httptest.NewRecorder()

	respond.Success(rec, http.StatusCreated, "User registered successfully", respond.Envelope{"user_id": "u-1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, "User registered successfully", body["message"])
	assert.Equal(t, "u-1", body["user_id"])
}

func TestSuccess_WithoutMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	respond.Success(rec, http.StatusOK, "", respond.Envelope{"patient": map[string]string{"id": "p-1"}})

	body := decode(t, rec)
	assert.NotContains(t, body, "message")
	assert.Contains(t, body, "patient")
}

func TestError_ValidationCarriesKind(t *testing.T) {
	rec := httptest.NewRecorder()

	respond.Error(rec, logger.NewNop(), apperror.NewValidationErrorKind("checksum", "Invalid CPF format"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(400), body["code"])
	assert.Equal(t, "VALIDATION_ERROR", body["category"])
	assert.Equal(t, "Invalid CPF format", body["message"])
	assert.Equal(t, "checksum", body["kind"])
}

func TestError_InternalIsLoggedAndHidden(t *testing.T) {
	var buf strings.Builder
	rec := httptest.NewRecorder()

	respond.Error(rec, logger.NewWithWriter(&buf, "debug"), apperror.NewDBError("falha ao inserir", fmt.Errorf("pq: deadlock")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, apperror.InternalErrorMessage, body["message"])
	assert.NotContains(t, body, "kind")
	assert.Contains(t, buf.String(), "deadlock")
}

func TestDecodeJSON(t *testing.T) {
	var dst map[string]interface{}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":1}`))
	require.NoError(t, respond.DecodeJSON(httptest.NewRecorder(), req, &dst))
	assert.Equal(t, float64(1), dst["a"])

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	err := respond.DecodeJSON(httptest.NewRecorder(), req, &dst)
	require.Error(t, err)
	assert.Equal(t, "Invalid JSON payload", err.(apperror.AppError).Message())

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	err = respond.DecodeJSON(httptest.NewRecorder(), req, &dst)
	require.Error(t, err)
	assert.Equal(t, "Request body is required", err.(apperror.AppError).Message())
}

func TestDecodeJSON_RejectsOversizedBody(t *testing.T) {
	var dst map[string]interface{}
	big := `{"notes":"` + strings.Repeat("a", respond.MaxBodyBytes) + `"}`

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	err := respond.DecodeJSON(httptest.NewRecorder(), req, &dst)

	require.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Equal(t, "Request body too large", err.(apperror.AppError).Message())
}
