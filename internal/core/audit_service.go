package core

import (
	"context"

	"go.uber.org/zap"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/db"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/models"
)

// auditService implements the AuditService interface. Entries are written
// best-effort: a failed write is logged and otherwise swallowed so no
// user-facing operation ever fails on account of auditing.
type auditService struct {
	auditRepo db.AuditRepository
	logger    *zap.Logger
}

// NewAuditService creates a new AuditService instance.
func NewAuditService(auditRepo db.AuditRepository, logger *zap.Logger) AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &auditService{auditRepo: auditRepo, logger: logger}
}

func (s *auditService) Record(ctx context.Context, entry models.AuditLog) {
	if s.auditRepo == nil {
		return
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to write audit log entry",
			zap.String("action", entry.Action),
			zap.String("userId", entry.UserID),
			zap.String("targetId", entry.TargetID),
			zap.Error(err))
	}
}
