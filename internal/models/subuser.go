package models

// Subuser is a household member accounts can be attributed to. Accounts
// without a sub-user belong to the primary person.
type Subuser struct {
	Base
	UserID string `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`
}
