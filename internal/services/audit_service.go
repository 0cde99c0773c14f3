package services

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/ay-man-sup/personal-finance-tracker/internal/logger"
	"github.com/ay-man-sup/personal-finance-tracker/internal/models"
)

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates an audit trail writer.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log records an action. Failures are logged and swallowed; auditing must
// never fail the request that triggered it.
func (s *auditService) Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes interface{}) {
	entry := models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
	}

	if changes != nil {
		data, err := json.Marshal(changes)
		if err == nil {
			entry.Changes = string(data)
		}
	}

	if err := s.db.Create(&entry).Error; err != nil {
		logger.Get().Warnw("audit log write failed",
			"user_id", userID,
			"action", action,
			"error", err,
		)
	}
}
