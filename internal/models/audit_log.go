package models

// AuditLog records a mutating API action for traceability. Writes are
// best-effort and must never fail the request that triggered them.
type AuditLog struct {
	Base
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	Action       string `gorm:"size:50;not null" json:"action"`
	ResourceType string `gorm:"size:50;not null" json:"resource_type"`
	ResourceID   uint   `json:"resource_id"`
	IPAddress    string `gorm:"size:45" json:"ip_address"`
	Changes      string `gorm:"type:text" json:"changes,omitempty"`
}
