package auditrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"sghss/internal/domain"
	apperror "sghss/internal/errors"
	"sghss/internal/pkg/logger"
)

// AuditRepository grava a trilha de auditoria na tabela audit_logs.
type AuditRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewAuditRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *AuditRepository {
	return &AuditRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

// Save insere uma linha de auditoria.
func (r *AuditRepository) Save(ctx context.Context, entry domain.AuditLog) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	var newValues interface{}
	if len(entry.NewValues) > 0 {
		data, err := json.Marshal(entry.NewValues)
		if err != nil {
			return apperror.NewInternalError("failed to encode audit values", err)
		}
		newValues = string(data)
	}

	const insertSQL = `INSERT INTO audit_logs (id, user_id, action, table_name, record_id, details,
                            new_values, ip_address, user_agent, created_at)
                       VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.DB.ExecContext(ctxTimeout, insertSQL,
		entry.ID,
		entry.UserID,
		string(entry.Action),
		entry.TableName,
		entry.RecordID,
		entry.Details,
		newValues,
		entry.IPAddress,
		entry.UserAgent,
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao gravar auditoria.", err)
		return apperror.NewDBError("failed to insert audit log", err)
	}
	return nil
}
