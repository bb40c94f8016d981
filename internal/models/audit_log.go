package models

// AuditLog records a mutation made by a user. AccountID and HoldingID carry
// the ownership chain above the resource, when there is one.
type AuditLog struct {
	Base
	UserID       string  `gorm:"not null;index" json:"user_id"`
	Action       string  `gorm:"not null" json:"action"`
	ResourceType string  `gorm:"not null" json:"resource_type"`
	ResourceID   string  `json:"resource_id"`
	AccountID    *string `gorm:"type:uuid;index" json:"account_id,omitempty"`
	HoldingID    *string `gorm:"type:uuid" json:"holding_id,omitempty"`
	IPAddress    string  `json:"ip_address"`
	Changes      string  `json:"changes,omitempty"`
}
