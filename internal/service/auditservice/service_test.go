package auditservice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"sghss/internal/domain"
	"sghss/internal/pkg/logger"
	"sghss/internal/pkg/reqmeta"
	"sghss/internal/service/auditservice"
	"sghss/internal/validation"
)

// MockAuditRepository é uma implementação mock de domain.AuditRepository.
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Save(ctx context.Context, entry domain.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func TestRecord_FillsRequestMetadata(t *testing.T) {
	repo := new(MockAuditRepository)
	now := time.Date(2026, time.October, 15, 14, 30, 0, 0, time.UTC)
	rec := auditservice.NewRecorder(repo, logger.NewNop()).WithClock(validation.FixedClock(now))

	ctx := reqmeta.WithMeta(context.Background(), reqmeta.Meta{RequestID: "r-1", IPAddress: "203.0.113.7", UserAgent: "curl/8"})

	repo.On("Save", mock.Anything, mock.MatchedBy(func(e domain.AuditLog) bool {
		return e.UserID != nil && *e.UserID == "u-1" &&
			e.RecordID == nil &&
			e.Action == domain.AuditLoginSuccess &&
			e.Details == "Successful login" &&
			e.IPAddress == "203.0.113.7" &&
			e.UserAgent == "curl/8" &&
			e.CreatedAt.Equal(now)
	})).Return(nil).Once()

	rec.Record(ctx, auditservice.Entry{UserID: "u-1", Action: domain.AuditLoginSuccess, TableName: "users"})

	repo.AssertExpectations(t)
}

func TestRecord_AnonymousAndRepoFailure(t *testing.T) {
	repo := new(MockAuditRepository)
	rec := auditservice.NewRecorder(repo, logger.NewNop())

	repo.On("Save", mock.Anything, mock.MatchedBy(func(e domain.AuditLog) bool {
		return e.UserID == nil && e.Details == "Failed login attempt for a***@x.com"
	})).Return(errors.New("db down")).Once()

	assert.NotPanics(t, func() {
		rec.Record(context.Background(), auditservice.Entry{
			Action:    domain.AuditLoginFailed,
			TableName: "users",
			Details:   "Failed login attempt for a***@x.com",
		})
	})
	repo.AssertExpectations(t)
}
