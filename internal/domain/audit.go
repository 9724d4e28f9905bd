package domain

import (
	"context"
	"time"
)

// AuditAction identifica uma ação registrada na trilha de auditoria.
type AuditAction string

const (
	AuditUserRegistered        AuditAction = "USER_REGISTERED"
	AuditLoginSuccess          AuditAction = "LOGIN_SUCCESS"
	AuditLoginFailed           AuditAction = "LOGIN_FAILED"
	AuditLoginBlocked          AuditAction = "LOGIN_BLOCKED"
	AuditLogout                AuditAction = "LOGOUT"
	AuditTokenRefreshed        AuditAction = "TOKEN_REFRESHED"
	AuditPatientProfileCreated AuditAction = "PATIENT_PROFILE_CREATED"
	AuditPatientProfileUpdated AuditAction = "PATIENT_PROFILE_UPDATED"
)

var auditDescriptions = map[AuditAction]string{
	AuditUserRegistered:        "User registration",
	AuditLoginSuccess:          "Successful login",
	AuditLoginFailed:           "Failed login attempt",
	AuditLoginBlocked:          "Login blocked - inactive account",
	AuditLogout:                "User logout",
	AuditTokenRefreshed:        "Token refreshed",
	AuditPatientProfileCreated: "Patient profile created",
	AuditPatientProfileUpdated: "Patient profile updated",
}

// Description devolve o texto legível da ação.
func (a AuditAction) Description() string {
	if d, ok := auditDescriptions[a]; ok {
		return d
	}
	return string(a)
}

// AuditLog é uma linha da trilha de auditoria.
type AuditLog struct {
	ID        string                 `json:"id"`
	UserID    *string                `json:"user_id"`
	Action    AuditAction            `json:"action"`
	TableName string                 `json:"table_name"`
	RecordID  *string                `json:"record_id"`
	Details   string                 `json:"details,omitempty"`
	NewValues map[string]interface{} `json:"new_values,omitempty"`
	IPAddress string                 `json:"ip_address,omitempty"`
	UserAgent string                 `json:"user_agent,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// AuditRepository define o contrato de persistência da trilha de auditoria.
type AuditRepository interface {
	Save(ctx context.Context, entry AuditLog) error
}
