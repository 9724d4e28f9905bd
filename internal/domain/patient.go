package domain

import (
	"context"
	"time"

	"sghss/internal/validation"
)

// Limites de tamanho dos campos de texto livre do paciente.
const (
	FullNameMaxLength       = 255
	AddressMaxLength        = 500
	MedicalHistoryMaxLength = 2000
	PhoneMaxLength          = 20
)

// Patient representa o perfil de paciente vinculado a um usuário.
// CPF é armazenado normalizado (11 dígitos). Version controla a concorrência otimista.
type Patient struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	FullName           string    `json:"full_name"`
	CPF                string    `json:"cpf"`
	BirthDate          time.Time `json:"birth_date"`
	Phone              *string   `json:"phone"`
	Address            *string   `json:"address"`
	Allergies          []string  `json:"allergies"`
	CurrentMedications []string  `json:"current_medications"`
	MedicalHistory     *string   `json:"medical_history"`
	Version            int       `json:"version"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// PatientView é a representação de resposta: CPF e telefone formatados e idade calculada.
type PatientView struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	FullName           string    `json:"full_name"`
	CPF                string    `json:"cpf"`
	BirthDate          string    `json:"birth_date"`
	Age                *int      `json:"age"`
	Phone              *string   `json:"phone"`
	Address            *string   `json:"address"`
	Allergies          []string  `json:"allergies"`
	CurrentMedications []string  `json:"current_medications"`
	MedicalHistory     *string   `json:"medical_history"`
	Email              string    `json:"email,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// View monta a representação de resposta usando o relógio informado para a idade.
func (p Patient) View(now validation.Clock) PatientView {
	view := PatientView{
		ID:                 p.ID,
		UserID:             p.UserID,
		FullName:           p.FullName,
		CPF:                validation.FormatCPF(p.CPF),
		BirthDate:          p.BirthDate.Format("2006-01-02"),
		Age:                validation.AgeOf(&p.BirthDate, now),
		Address:            p.Address,
		Allergies:          nonNil(p.Allergies),
		CurrentMedications: nonNil(p.CurrentMedications),
		MedicalHistory:     p.MedicalHistory,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
	if p.Phone != nil {
		formatted := validation.FormatPhone(*p.Phone)
		view.Phone = &formatted
	}
	return view
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

// PatientFilter define os parâmetros de paginação da listagem administrativa.
type PatientFilter struct {
	Page    int
	PerPage int
}

// PatientWithEmail agrega o e-mail do usuário dono do perfil, usado na visão do admin.
type PatientWithEmail struct {
	Patient
	Email string
}

// PatientRepository define o contrato de persistência para a entidade Patient.
type PatientRepository interface {
	Create(ctx context.Context, patient Patient) (Patient, error)
	FindByUserID(ctx context.Context, userID string) (Patient, error)
	ExistsByCPF(ctx context.Context, cpf string) (bool, error)
	Update(ctx context.Context, patient Patient) (Patient, error)
	ListActive(ctx context.Context, filter PatientFilter) ([]PatientWithEmail, int, error)
}
