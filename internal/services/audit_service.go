package services

import (
	"encoding/json"

	"networth/internal/logger"
	"networth/internal/models"

	"gorm.io/gorm"
)

// auditService handles audit log recording.
type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an audit event. Failures are logged and never returned.
func (s *auditService) Log(entry AuditEntry) {
	record := &models.AuditLog{
		UserID:       entry.UserID,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		AccountID:    optionalID(entry.AccountID),
		HoldingID:    optionalID(entry.HoldingID),
		IPAddress:    entry.IPAddress,
		Changes:      marshalChanges(entry),
	}

	if err := s.db.Create(record).Error; err != nil {
		logger.Get().Errorw("failed to create audit log entry",
			"error", err,
			"user_id", entry.UserID,
			"action", entry.Action,
			"resource_type", entry.ResourceType,
			"resource_id", entry.ResourceID,
			"account_id", entry.AccountID,
		)
	}
}

func marshalChanges(entry AuditEntry) string {
	if len(entry.Changes) == 0 {
		return ""
	}
	data, err := json.Marshal(entry.Changes)
	if err != nil {
		logger.Get().Errorw("failed to marshal audit log changes", "error", err, "action", entry.Action)
		return "{}"
	}
	return string(data)
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
