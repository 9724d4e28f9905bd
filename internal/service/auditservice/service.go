package auditservice

import (
	"context"

	"sghss/internal/domain"
	"sghss/internal/pkg/logger"
	"sghss/internal/pkg/reqmeta"
	"sghss/internal/validation"
)

// Entry descreve uma ação a ser auditada. UserID e RecordID vazios são gravados como NULL.
type Entry struct {
	UserID    string
	Action    domain.AuditAction
	TableName string
	RecordID  string
	Details   string
	NewValues map[string]interface{}
}

// Recorder grava a trilha de auditoria. Falhas de persistência são registradas no log
// e não interrompem a operação auditada.
type Recorder struct {
	Repo   domain.AuditRepository
	logger logger.Logger
	now    validation.Clock
}

func NewRecorder(repo domain.AuditRepository, log logger.Logger) *Recorder {
	return &Recorder{Repo: repo, logger: log, now: validation.SystemClock}
}

// WithClock substitui a fonte de tempo usada em created_at.
func (r *Recorder) WithClock(now validation.Clock) *Recorder {
	r.now = now
	return r
}

// Record grava a entrada com IP e User-Agent obtidos do contexto da requisição.
func (r *Recorder) Record(ctx context.Context, e Entry) {
	meta := reqmeta.FromContext(ctx)

	details := e.Details
	if details == "" {
		details = e.Action.Description()
	}

	entry := domain.AuditLog{
		UserID:    optional(e.UserID),
		Action:    e.Action,
		TableName: e.TableName,
		RecordID:  optional(e.RecordID),
		Details:   details,
		NewValues: e.NewValues,
		IPAddress: meta.IPAddress,
		UserAgent: meta.UserAgent,
		CreatedAt: r.now().UTC(),
	}

	r.logger.Info("Auditoria", map[string]interface{}{
		"action":     string(e.Action),
		"user_id":    e.UserID,
		"table":      e.TableName,
		"record_id":  e.RecordID,
		"request_id": meta.RequestID,
		"ip":         meta.IPAddress,
	})

	// A auditoria sobrevive ao cancelamento da requisição que a originou.
	if err := r.Repo.Save(context.WithoutCancel(ctx), entry); err != nil {
		r.logger.Error("Falha ao persistir auditoria", err)
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
