package patientrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"sghss/internal/domain"
	apperror "sghss/internal/errors"
	"sghss/internal/pkg/cache"
	"sghss/internal/pkg/database"
	"sghss/internal/pkg/logger"
)

// Chave de cache do perfil por usuário dono.
const patientCacheKey = "patient:user:%s"

const patientColumns = `p.id, p.user_id, p.full_name, p.cpf, p.birth_date, p.phone, p.address,
        p.allergies, p.current_medications, p.medical_history, p.version, p.created_at, p.updated_at`

// Constraints de unicidade criadas pela migração 00002.
const (
	cpfConstraint    = "patients_cpf_key"
	userIDConstraint = "patients_user_id_key"
)

// PatientRepository implementa domain.PatientRepository sobre PostgreSQL, com cache-aside no Redis.
type PatientRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewPatientRepository cria e retorna uma nova instância do Repositório de Pacientes.
func NewPatientRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *PatientRepository {
	return &PatientRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanPatient lê as colunas de patientColumns seguidas de extras.
func scanPatient(row rowScanner, extra ...interface{}) (domain.Patient, error) {
	var (
		p                            domain.Patient
		phone, address, history      sql.NullString
		allergiesRaw, medicationsRaw []byte
	)

	dest := []interface{}{
		&p.ID, &p.UserID, &p.FullName, &p.CPF, &p.BirthDate, &phone, &address,
		&allergiesRaw, &medicationsRaw, &history, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return domain.Patient{}, err
	}

	p.Phone = nullableString(phone)
	p.Address = nullableString(address)
	p.MedicalHistory = nullableString(history)

	if err := decodeList(allergiesRaw, &p.Allergies); err != nil {
		return domain.Patient{}, fmt.Errorf("allergies: %w", err)
	}
	if err := decodeList(medicationsRaw, &p.CurrentMedications); err != nil {
		return domain.Patient{}, fmt.Errorf("current_medications: %w", err)
	}
	return p, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func decodeList(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = []string{}
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return err
	}
	if *dst == nil {
		*dst = []string{}
	}
	return nil
}

// encodeList devolve o JSON como string; o lib/pq enviaria []byte como bytea.
func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	return string(data), err
}

// Create insere o perfil. CPF duplicado vira ConflictError; perfil duplicado para o mesmo usuário vira BusinessRuleError.
func (r *PatientRepository) Create(ctx context.Context, patient domain.Patient) (domain.Patient, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if patient.ID == "" {
		patient.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	patient.CreatedAt = now
	patient.UpdatedAt = now
	patient.Version = 1

	allergies, err := encodeList(patient.Allergies)
	if err != nil {
		return domain.Patient{}, apperror.NewInternalError("failed to encode allergies", err)
	}
	medications, err := encodeList(patient.CurrentMedications)
	if err != nil {
		return domain.Patient{}, apperror.NewInternalError("failed to encode medications", err)
	}

	const insertSQL = `INSERT INTO patients (id, user_id, full_name, cpf, birth_date, phone, address,
                            allergies, current_medications, medical_history, version, created_at, updated_at)
                       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err = r.DB.ExecContext(ctxTimeout, insertSQL,
		patient.ID,
		patient.UserID,
		patient.FullName,
		patient.CPF,
		patient.BirthDate,
		patient.Phone,
		patient.Address,
		allergies,
		medications,
		patient.MedicalHistory,
		patient.Version,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		if constraint, dup := database.UniqueViolation(err); dup {
			if constraint == userIDConstraint {
				return domain.Patient{}, apperror.NewBusinessRuleError("Patient profile already exists")
			}
			return domain.Patient{}, apperror.NewConflictError("CPF already registered")
		}
		r.logger.Error("Falha ao inserir paciente no DB.", err)
		return domain.Patient{}, apperror.NewDBError("failed to insert patient", err)
	}

	r.logger.Info("Perfil de paciente criado no repositório.", map[string]interface{}{"patient_id": patient.ID, "user_id": patient.UserID})
	return patient, nil
}

// FindByUserID busca o perfil do usuário usando a estratégia Cache-Aside.
func (r *PatientRepository) FindByUserID(ctx context.Context, userID string) (domain.Patient, error) {
	key := fmt.Sprintf(patientCacheKey, userID)

	if r.Cache != nil {
		cached, err := r.Cache.Get(ctx, key)
		if err == nil {
			var p domain.Patient
			if json.Unmarshal([]byte(cached), &p) == nil {
				return p, nil
			}
			r.logger.Warn("Entrada de cache inválida; consultando DB.", map[string]interface{}{"key": key})
		} else if !errors.Is(err, cache.ErrCacheMiss) {
			r.logger.Warn("Falha ao ler do cache; consultando DB.", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	if _, err := uuid.Parse(userID); err != nil {
		return domain.Patient{}, apperror.NewNotFoundError("Patient profile not found")
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + patientColumns + ` FROM patients p WHERE p.user_id = $1`
	p, err := scanPatient(r.DB.QueryRowContext(ctxTimeout, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Patient{}, apperror.NewNotFoundError("Patient profile not found")
		}
		r.logger.Error("Falha ao buscar paciente no DB.", err)
		return domain.Patient{}, apperror.NewDBError("failed to find patient", err)
	}

	r.store(ctx, key, p)
	return p, nil
}

func (r *PatientRepository) store(ctx context.Context, key string, p domain.Patient) {
	if r.Cache == nil {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.CacheTTL); err != nil {
		r.logger.Warn("Falha ao gravar no cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (r *PatientRepository) invalidate(ctx context.Context, userID string) {
	if r.Cache == nil {
		return
	}
	key := fmt.Sprintf(patientCacheKey, userID)
	if err := r.Cache.Delete(ctx, key); err != nil {
		r.logger.Warn("Falha ao invalidar cache.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// ExistsByCPF informa se algum perfil já usa o CPF normalizado.
func (r *PatientRepository) ExistsByCPF(ctx context.Context, cpf string) (bool, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var exists bool
	err := r.DB.QueryRowContext(ctxTimeout, `SELECT EXISTS(SELECT 1 FROM patients WHERE cpf = $1)`, cpf).Scan(&exists)
	if err != nil {
		r.logger.Error("Falha ao verificar CPF no DB.", err)
		return false, apperror.NewDBError("failed to check cpf", err)
	}
	return exists, nil
}

// Update grava o perfil com controle de concorrência otimista (OCC): a linha só é
// alterada se a versão no banco ainda for patient.Version.
func (r *PatientRepository) Update(ctx context.Context, patient domain.Patient) (domain.Patient, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	allergies, err := encodeList(patient.Allergies)
	if err != nil {
		return domain.Patient{}, apperror.NewInternalError("failed to encode allergies", err)
	}
	medications, err := encodeList(patient.CurrentMedications)
	if err != nil {
		return domain.Patient{}, apperror.NewInternalError("failed to encode medications", err)
	}

	query := `UPDATE patients p
              SET full_name = $1, cpf = $2, birth_date = $3, phone = $4, address = $5,
                  allergies = $6, current_medications = $7, medical_history = $8,
                  version = p.version + 1, updated_at = NOW()
              WHERE p.id = $9 AND p.version = $10
              RETURNING ` + patientColumns

	updated, err := scanPatient(r.DB.QueryRowContext(ctxTimeout, query,
		patient.FullName,
		patient.CPF,
		patient.BirthDate,
		patient.Phone,
		patient.Address,
		allergies,
		medications,
		patient.MedicalHistory,
		patient.ID,
		patient.Version,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.logger.Warn("Conflito de versão ao atualizar paciente.", map[string]interface{}{"patient_id": patient.ID, "version": patient.Version})
			r.invalidate(ctx, patient.UserID)
			return domain.Patient{}, apperror.NewConflictError("Patient profile was modified by another request, please retry")
		}
		if constraint, dup := database.UniqueViolation(err); dup && constraint == cpfConstraint {
			return domain.Patient{}, apperror.NewConflictError("CPF already registered")
		}
		r.logger.Error("Falha ao atualizar paciente no DB.", err)
		return domain.Patient{}, apperror.NewDBError("failed to update patient", err)
	}

	r.invalidate(ctx, updated.UserID)
	r.logger.Info("Perfil de paciente atualizado.", map[string]interface{}{"patient_id": updated.ID, "version": updated.Version})
	return updated, nil
}

// ListActive devolve uma página de perfis de usuários ativos (mais recentes primeiro) e o total.
func (r *PatientRepository) ListActive(ctx context.Context, filter domain.PatientFilter) ([]domain.PatientWithEmail, int, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var total int
	const countSQL = `SELECT COUNT(*) FROM patients p JOIN users u ON u.id = p.user_id WHERE u.is_active`
	if err := r.DB.QueryRowContext(ctxTimeout, countSQL).Scan(&total); err != nil {
		r.logger.Error("Falha ao contar pacientes.", err)
		return nil, 0, apperror.NewDBError("failed to count patients", err)
	}

	offset := (filter.Page - 1) * filter.PerPage
	query := `SELECT ` + patientColumns + `, u.email
              FROM patients p
              JOIN users u ON u.id = p.user_id
              WHERE u.is_active
              ORDER BY p.created_at DESC, p.id
              LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctxTimeout, query, filter.PerPage, offset)
	if err != nil {
		r.logger.Error("Falha ao listar pacientes.", err)
		return nil, 0, apperror.NewDBError("failed to list patients", err)
	}
	defer rows.Close()

	patients := make([]domain.PatientWithEmail, 0, filter.PerPage)
	for rows.Next() {
		var email string
		p, err := scanPatient(rows, &email)
		if err != nil {
			r.logger.Error("Falha ao ler linha de paciente.", err)
			return nil, 0, apperror.NewDBError("failed to scan patient", err)
		}
		patients = append(patients, domain.PatientWithEmail{Patient: p, Email: email})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperror.NewDBError("failed to iterate patients", err)
	}

	return patients, total, nil
}
