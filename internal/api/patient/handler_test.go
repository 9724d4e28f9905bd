package patient_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sghss/internal/api/patient"
	"sghss/internal/domain"
	apperror "sghss/internal/errors"
	"sghss/internal/pkg/logger"
	"sghss/internal/pkg/middleware"
)

// MockPatientService é um mock para a camada de serviço de pacientes.
type MockPatientService struct {
	mock.Mock
}

func (m *MockPatientService) Create(ctx context.Context, userID string, payload map[string]interface{}) (domain.PatientView, error) {
	args := m.Called(ctx, userID, payload)
	return args.Get(0).(domain.PatientView), args.Error(1)
}

func (m *MockPatientService) GetMine(ctx context.Context, userID string) (domain.PatientView, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.PatientView), args.Error(1)
}

func (m *MockPatientService) UpdateMine(ctx context.Context, userID string, payload map[string]interface{}) (domain.PatientView, error) {
	args := m.Called(ctx, userID, payload)
	return args.Get(0).(domain.PatientView), args.Error(1)
}

func (m *MockPatientService) List(ctx context.Context, page, perPage int) ([]domain.PatientView, domain.Pagination, error) {
	args := m.Called(ctx, page, perPage)
	return args.Get(0).([]domain.PatientView), args.Get(1).(domain.Pagination), args.Error(2)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func asPatient(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.WithUserClaims(r.Context(), middleware.UserClaims{UserID: userID, Role: domain.RolePatient}))
}

func TestCreateHandler(t *testing.T) {
	t.Run("sucesso", func(t *testing.T) {
		svc := new(MockPatientService)
		h := patient.NewHandler(svc, logger.NewNop())
		svc.On("Create", mock.Anything, "u-1", mock.MatchedBy(func(p map[string]interface{}) bool {
			return p["cpf"] == "529.982.247-25"
		})).Return(domain.PatientView{ID: "p-1", UserID: "u-1", CPF: "529.982.247-25"}, nil).Once()

		body := `{"full_name":"Maria da Silva","cpf":"529.982.247-25","birth_date":"1990-05-20"}`
		rec := httptest.NewRecorder()
		h.CreateHandler(rec, asPatient(httptest.NewRequest(http.MethodPost, "/api/patients", strings.NewReader(body)), "u-1"))

		assert.Equal(t, http.StatusCreated, rec.Code)
		resp := decode(t, rec)
		assert.Equal(t, "Patient profile created successfully", resp["message"])
		assert.Equal(t, "529.982.247-25", resp["patient"].(map[string]interface{})["cpf"])
		svc.AssertExpectations(t)
	})

	t.Run("erro de validação expõe o kind", func(t *testing.T) {
		svc := new(MockPatientService)
		h := patient.NewHandler(svc, logger.NewNop())
		svc.On("Create", mock.Anything, "u-1", mock.Anything).
			Return(domain.PatientView{}, apperror.NewValidationErrorKind("checksum", "Invalid CPF")).Once()

		rec := httptest.NewRecorder()
		h.CreateHandler(rec, asPatient(httptest.NewRequest(http.MethodPost, "/api/patients", strings.NewReader(`{"cpf":"11111111111"}`)), "u-1"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		resp := decode(t, rec)
		assert.Equal(t, "Invalid CPF", resp["message"])
		assert.Equal(t, "checksum", resp["kind"])
	})

	t.Run("sem claims", func(t *testing.T) {
		svc := new(MockPatientService)
		h := patient.NewHandler(svc, logger.NewNop())

		rec := httptest.NewRecorder()
		h.CreateHandler(rec, httptest.NewRequest(http.MethodPost, "/api/patients", strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestGetMineHandler(t *testing.T) {
	svc := new(MockPatientService)
	h := patient.NewHandler(svc, logger.NewNop())
	svc.On("GetMine", mock.Anything, "u-2").
		Return(domain.PatientView{}, apperror.NewNotFoundError("Patient profile not found")).Once()

	rec := httptest.NewRecorder()
	h.GetMineHandler(rec, asPatient(httptest.NewRequest(http.MethodGet, "/api/patients/me", nil), "u-2"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Patient profile not found", decode(t, rec)["message"])
}

func TestUpdateMineHandler(t *testing.T) {
	svc := new(MockPatientService)
	h := patient.NewHandler(svc, logger.NewNop())
	svc.On("UpdateMine", mock.Anything, "u-1", map[string]interface{}{"address": "Rua A, 10"}).
		Return(domain.PatientView{ID: "p-1"}, nil).Once()

	rec := httptest.NewRecorder()
	h.UpdateMineHandler(rec, asPatient(httptest.NewRequest(http.MethodPut, "/api/patients/me", strings.NewReader(`{"address":"Rua A, 10"}`)), "u-1"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Patient profile updated successfully", decode(t, rec)["message"])
	svc.AssertExpectations(t)
}

func TestListHandler(t *testing.T) {
	t.Run("parâmetros padrão", func(t *testing.T) {
		svc := new(MockPatientService)
		h := patient.NewHandler(svc, logger.NewNop())
		svc.On("List", mock.Anything, domain.DefaultPage, domain.DefaultPerPage).
			Return([]domain.PatientView{{ID: "p-1"}}, domain.NewPagination(1, 10, 1), nil).Once()

		rec := httptest.NewRecorder()
		h.ListHandler(rec, httptest.NewRequest(http.MethodGet, "/api/patients", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		resp := decode(t, rec)
		assert.Len(t, resp["patients"], 1)
		assert.Equal(t, float64(1), resp["pagination"].(map[string]interface{})["total"])
		svc.AssertExpectations(t)
	})

	t.Run("parâmetros informados e inválidos", func(t *testing.T) {
		svc := new(MockPatientService)
		h := patient.NewHandler(svc, logger.NewNop())
		svc.On("List", mock.Anything, 3, domain.DefaultPerPage).
			Return([]domain.PatientView{}, domain.NewPagination(3, 10, 0), nil).Once()

		rec := httptest.NewRecorder()
		h.ListHandler(rec, httptest.NewRequest(http.MethodGet, "/api/patients?page=3&per_page=abc", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})
}
