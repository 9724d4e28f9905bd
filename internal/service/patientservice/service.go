package patientservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sghss/internal/domain"
	apperror "sghss/internal/errors"
	"sghss/internal/pkg/logger"
	"sghss/internal/service/auditservice"
	"sghss/internal/validation"
)

// AuditRecorder grava a trilha de auditoria.
type AuditRecorder interface {
	Record(ctx context.Context, e auditservice.Entry)
}

// PatientService aplica as regras do perfil de paciente antes de qualquer persistência.
type PatientService struct {
	Repo   domain.PatientRepository
	Users  domain.UserRepository
	Audit  AuditRecorder
	logger logger.Logger
	now    validation.Clock
}

// NewService cria uma nova instância do PatientService.
func NewService(repo domain.PatientRepository, users domain.UserRepository, audit AuditRecorder, log logger.Logger) *PatientService {
	return &PatientService{
		Repo:   repo,
		Users:  users,
		Audit:  audit,
		logger: log,
		now:    validation.SystemClock,
	}
}

// WithClock substitui a fonte de "hoje" usada na validação da data de nascimento e na idade.
func (s *PatientService) WithClock(now validation.Clock) *PatientService {
	s.now = now
	return s
}

// Create cria o perfil de paciente do usuário autenticado.
func (s *PatientService) Create(ctx context.Context, userID string, payload map[string]interface{}) (domain.PatientView, error) {
	user, err := domain.LoadActiveUser(ctx, s.Users, userID)
	if err != nil {
		return domain.PatientView{}, err
	}

	if _, err := s.Repo.FindByUserID(ctx, user.ID); err == nil {
		return domain.PatientView{}, apperror.NewBusinessRuleError("Patient profile already exists")
	} else if !isNotFound(err) {
		return domain.PatientView{}, err
	}

	if len(payload) == 0 {
		return domain.PatientView{}, requestBodyRequired()
	}

	if err := domain.ResultError(validation.ValidateRequiredFields(payload, []string{"full_name", "cpf", "birth_date"})); err != nil {
		return domain.PatientView{}, err
	}

	patient := domain.Patient{UserID: user.ID}

	if patient.FullName, err = fullName(payload["full_name"]); err != nil {
		return domain.PatientView{}, err
	}

	rawCPF, _ := payload["cpf"].(string)
	if err := domain.ResultError(validation.CheckCPF(rawCPF)); err != nil {
		return domain.PatientView{}, err
	}
	patient.CPF = validation.NormalizeCPF(rawCPF)

	exists, err := s.Repo.ExistsByCPF(ctx, patient.CPF)
	if err != nil {
		return domain.PatientView{}, err
	}
	if exists {
		return domain.PatientView{}, apperror.NewConflictError("CPF already registered")
	}

	if patient.BirthDate, err = s.birthDate(payload["birth_date"]); err != nil {
		return domain.PatientView{}, err
	}

	if patient.Phone, err = phone(payload["phone"]); err != nil {
		return domain.PatientView{}, err
	}
	patient.Address = optionalText(payload["address"], domain.AddressMaxLength)
	patient.MedicalHistory = optionalText(payload["medical_history"], domain.MedicalHistoryMaxLength)

	if patient.Allergies, err = stringList(payload, "allergies", "Allergies must be a list"); err != nil {
		return domain.PatientView{}, err
	}
	if patient.CurrentMedications, err = stringList(payload, "current_medications", "Current medications must be a list"); err != nil {
		return domain.PatientView{}, err
	}

	created, err := s.Repo.Create(ctx, patient)
	if err != nil {
		return domain.PatientView{}, err
	}

	s.Audit.Record(ctx, auditservice.Entry{
		UserID:    user.ID,
		Action:    domain.AuditPatientProfileCreated,
		TableName: "patients",
		RecordID:  created.ID,
		Details:   fmt.Sprintf("Patient profile created for %s", created.FullName),
	})

	return created.View(s.now), nil
}

// GetMine devolve o perfil do usuário autenticado.
func (s *PatientService) GetMine(ctx context.Context, userID string) (domain.PatientView, error) {
	patient, err := s.loadOwnProfile(ctx, userID)
	if err != nil {
		return domain.PatientView{}, err
	}
	return patient.View(s.now), nil
}

// UpdateMine aplica uma atualização parcial: só as chaves presentes no payload são alteradas.
// O CPF não é alterável. A gravação usa a versão lida para detectar escritas concorrentes.
func (s *PatientService) UpdateMine(ctx context.Context, userID string, payload map[string]interface{}) (domain.PatientView, error) {
	patient, err := s.loadOwnProfile(ctx, userID)
	if err != nil {
		return domain.PatientView{}, err
	}

	if len(payload) == 0 {
		return domain.PatientView{}, requestBodyRequired()
	}

	changed := make(map[string]interface{})

	if raw, present := payload["full_name"]; present {
		if patient.FullName, err = fullName(raw); err != nil {
			return domain.PatientView{}, err
		}
		changed["full_name"] = patient.FullName
	}

	if raw, present := payload["phone"]; present {
		if patient.Phone, err = phone(raw); err != nil {
			return domain.PatientView{}, err
		}
		changed["phone"] = patient.Phone != nil
	}

	if raw, present := payload["address"]; present {
		patient.Address = optionalText(raw, domain.AddressMaxLength)
		changed["address"] = patient.Address != nil
	}

	if _, present := payload["allergies"]; present {
		if patient.Allergies, err = stringList(payload, "allergies", "Allergies must be a list"); err != nil {
			return domain.PatientView{}, err
		}
		changed["allergies"] = len(patient.Allergies)
	}

	if _, present := payload["current_medications"]; present {
		if patient.CurrentMedications, err = stringList(payload, "current_medications", "Current medications must be a list"); err != nil {
			return domain.PatientView{}, err
		}
		changed["current_medications"] = len(patient.CurrentMedications)
	}

	if raw, present := payload["medical_history"]; present {
		patient.MedicalHistory = optionalText(raw, domain.MedicalHistoryMaxLength)
		changed["medical_history"] = patient.MedicalHistory != nil
	}

	if raw, present := payload["birth_date"]; present {
		if patient.BirthDate, err = s.birthDate(raw); err != nil {
			return domain.PatientView{}, err
		}
		changed["birth_date"] = patient.BirthDate.Format("2006-01-02")
	}

	updated, err := s.Repo.Update(ctx, patient)
	if err != nil {
		return domain.PatientView{}, err
	}

	s.Audit.Record(ctx, auditservice.Entry{
		UserID:    userID,
		Action:    domain.AuditPatientProfileUpdated,
		TableName: "patients",
		RecordID:  updated.ID,
		Details:   "Patient profile updated",
		NewValues: changed,
	})

	return updated.View(s.now), nil
}

// List devolve uma página de perfis de usuários ativos, com o e-mail de cada um.
func (s *PatientService) List(ctx context.Context, page, perPage int) ([]domain.PatientView, domain.Pagination, error) {
	page, perPage = domain.NormalizePage(page, perPage)

	rows, total, err := s.Repo.ListActive(ctx, domain.PatientFilter{Page: page, PerPage: perPage})
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	views := make([]domain.PatientView, 0, len(rows))
	for _, row := range rows {
		view := row.Patient.View(s.now)
		view.Email = row.Email
		views = append(views, view)
	}

	return views, domain.NewPagination(page, perPage, total), nil
}

func (s *PatientService) loadOwnProfile(ctx context.Context, userID string) (domain.Patient, error) {
	user, err := domain.LoadActiveUser(ctx, s.Users, userID)
	if err != nil {
		return domain.Patient{}, err
	}
	return s.Repo.FindByUserID(ctx, user.ID)
}

func (s *PatientService) birthDate(raw interface{}) (time.Time, error) {
	text, _ := raw.(string)
	date, res := validation.ValidateBirthDate(text, s.now)
	return date, domain.ResultError(res)
}

func requestBodyRequired() error {
	return apperror.NewValidationErrorKind(string(validation.KindCompleteness), "Request body is required")
}

func fullName(raw interface{}) (string, error) {
	text, _ := raw.(string)
	name := validation.SanitizeString(text, domain.FullNameMaxLength)
	if name == "" {
		return "", apperror.NewValidationErrorKind(string(validation.KindCompleteness), "Full name cannot be empty")
	}
	return name, nil
}

// phone aceita ausência (nil ou texto vazio); quando informado, guarda só os dígitos.
func phone(raw interface{}) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	text, isText := raw.(string)
	if isText && text == "" {
		return nil, nil
	}
	if !isText || !validation.ValidatePhone(text) {
		return nil, apperror.NewValidationErrorKind(string(validation.KindFormat), "Invalid phone format")
	}
	digits := validation.NormalizePhone(text)
	return &digits, nil
}

// optionalText sanitiza e trunca; vazio, nulo ou não texto vira NULL.
func optionalText(raw interface{}, maxLength int) *string {
	text, _ := raw.(string)
	clean := validation.SanitizeString(text, maxLength)
	if clean == "" {
		return nil
	}
	return &clean
}

// stringList lê uma lista de textos. Chave ausente ou nula vira lista vazia.
func stringList(payload map[string]interface{}, key, message string) ([]string, error) {
	raw, present := payload[key]
	if !present || raw == nil {
		return []string{}, nil
	}

	items, isList := raw.([]interface{})
	if !isList {
		if typed, ok := raw.([]string); ok {
			items = make([]interface{}, len(typed))
			for i, v := range typed {
				items[i] = v
			}
		} else {
			return nil, apperror.NewValidationErrorKind(string(validation.KindFormat), message)
		}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		text, isText := item.(string)
		if !isText {
			return nil, apperror.NewValidationErrorKind(string(validation.KindFormat), message)
		}
		if clean := validation.SanitizeString(text, 0); clean != "" {
			out = append(out, clean)
		}
	}
	return out, nil
}

func isNotFound(err error) bool {
	var nf *apperror.NotFoundError
	return errors.As(err, &nf)
}
