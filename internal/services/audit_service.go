package services

import (
	"context"
	"encoding/json"

	"gorm.io/gorm"

	"homeplanner/internal/logger"
	"homeplanner/internal/models"
)

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer backed by the audit_logs table.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// encodeChanges renders the change set stored with an audit entry. A nil
// set is stored empty; one that cannot be encoded is stored as "{}".
func encodeChanges(changes map[string]any) (string, error) {
	if changes == nil {
		return "", nil
	}
	data, err := json.Marshal(changes)
	if err != nil {
		return "{}", err
	}
	return string(data), nil
}

// Log appends an entry to the audit trail. Write failures are logged, not
// returned: a missing audit row must not undo the user's mutation.
func (s *auditService) Log(ctx context.Context, userID, action, resourceType, resourceID, ipAddress string, changes map[string]any) {
	log := logger.Named("audit").With("user_id", userID, "action", action)

	encoded, err := encodeChanges(changes)
	if err != nil {
		log.Warnw("audit changes not encodable, storing empty object", "error", err)
	}

	row := models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
		Changes:      encoded,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		log.Errorw("audit entry not written", "error", err, "resource", resourceType+"/"+resourceID)
	}
}
