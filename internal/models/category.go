package models

import "github.com/shopspring/decimal"

// Category is a named, informational slice of an account's balance.
// It has no effect on the contribution ledger.
type Category struct {
	Base
	AccountID string          `gorm:"type:uuid;not null;index" json:"account_id"`
	Name      string          `gorm:"not null" json:"name"`
	Amount    decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"amount"`
}
