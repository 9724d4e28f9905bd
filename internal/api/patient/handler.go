package patient

import (
	"context"
	"net/http"
	"strconv"

	"sghss/internal/api/respond"
	"sghss/internal/domain"
	apperror "sghss/internal/errors"
	"sghss/internal/pkg/logger"
	"sghss/internal/pkg/middleware"
)

// PatientService define o contrato que o Handler espera da camada de Serviço.
type PatientService interface {
	Create(ctx context.Context, userID string, payload map[string]interface{}) (domain.PatientView, error)
	GetMine(ctx context.Context, userID string) (domain.PatientView, error)
	UpdateMine(ctx context.Context, userID string, payload map[string]interface{}) (domain.PatientView, error)
	List(ctx context.Context, page, perPage int) ([]domain.PatientView, domain.Pagination, error)
}

// PatientRequest documenta o payload de criação e atualização do perfil.
type PatientRequest struct {
	FullName           string   `json:"full_name" example:"Maria da Silva"`
	CPF                string   `json:"cpf" example:"529.982.247-25"`
	BirthDate          string   `json:"birth_date" example:"1990-05-20"`
	Phone              string   `json:"phone,omitempty" example:"(11) 92222-3333"`
	Address            string   `json:"address,omitempty"`
	Allergies          []string `json:"allergies,omitempty"`
	CurrentMedications []string `json:"current_medications,omitempty"`
	MedicalHistory     string   `json:"medical_history,omitempty"`
}

// Handler agrupa os handlers de perfil de paciente.
type Handler struct {
	Service PatientService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc PatientService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		respond.Error(w, h.Logger, apperror.NewUnauthorizedError("Invalid token"))
		return "", false
	}
	return claims.UserID, true
}

// CreateHandler lida com POST /api/patients.
// @Summary Cria o perfil de paciente do usuário autenticado
// @Description Valida CPF (dígitos verificadores), data de nascimento e telefone; sanitiza textos livres.
// @Tags patients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param patient body PatientRequest true "Dados do perfil"
// @Success 201 {object} map[string]interface{} "Patient profile created successfully"
// @Failure 400 {object} domain.ErrorResponse "Falha de validação (inclui kind)"
// @Failure 409 {object} domain.ErrorResponse "CPF already registered"
// @Failure 422 {object} domain.ErrorResponse "Patient profile already exists"
// @Router /patients [post]
func (h *Handler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var payload map[string]interface{}
	if err := respond.DecodeJSON(w, r, &payload); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	view, err := h.Service.Create(r.Context(), userID, payload)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	respond.Success(w, http.StatusCreated, "Patient profile created successfully", respond.Envelope{"patient": view})
}

// GetMineHandler lida com GET /api/patients/me.
// @Summary Perfil de paciente do usuário autenticado
// @Tags patients
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{} "patient"
// @Failure 404 {object} domain.ErrorResponse "Patient profile not found"
// @Router /patients/me [get]
func (h *Handler) GetMineHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	view, err := h.Service.GetMine(r.Context(), userID)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	respond.Success(w, http.StatusOK, "", respond.Envelope{"patient": view})
}

// UpdateMineHandler lida com PUT /api/patients/me.
// @Summary Atualiza parcialmente o perfil de paciente
// @Description Apenas as chaves presentes são alteradas. O CPF não é alterável.
// @Tags patients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param patient body PatientRequest true "Campos a alterar"
// @Success 200 {object} map[string]interface{} "Patient profile updated successfully"
// @Failure 400 {object} domain.ErrorResponse "Falha de validação"
// @Failure 404 {object} domain.ErrorResponse "Patient profile not found"
// @Failure 409 {object} domain.ErrorResponse "Escrita concorrente"
// @Router /patients/me [put]
func (h *Handler) UpdateMineHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var payload map[string]interface{}
	if err := respond.DecodeJSON(w, r, &payload); err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	view, err := h.Service.UpdateMine(r.Context(), userID, payload)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	respond.Success(w, http.StatusOK, "Patient profile updated successfully", respond.Envelope{"patient": view})
}

// ListHandler lida com GET /api/patients (somente admin).
// @Summary Lista pacientes de usuários ativos
// @Tags patients
// @Produce json
// @Security BearerAuth
// @Param page query int false "Página (padrão 1)"
// @Param per_page query int false "Itens por página (padrão 10, máximo 100)"
// @Success 200 {object} map[string]interface{} "patients e pagination"
// @Failure 403 {object} domain.ErrorResponse "Insufficient permissions"
// @Router /patients [get]
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page := intParam(query.Get("page"), domain.DefaultPage)
	perPage := intParam(query.Get("per_page"), domain.DefaultPerPage)

	patients, pagination, err := h.Service.List(r.Context(), page, perPage)
	if err != nil {
		respond.Error(w, h.Logger, err)
		return
	}

	respond.Success(w, http.StatusOK, "", respond.Envelope{
		"patients":   patients,
		"pagination": pagination,
	})
}

// intParam lê um inteiro da query; ausente ou inválido usa o padrão.
func intParam(raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
