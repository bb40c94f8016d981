package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContributionType is the direction of a cash-flow event.
type ContributionType string

const (
	ContributionTypeDeposit    ContributionType = "deposit"
	ContributionTypeWithdrawal ContributionType = "withdrawal"
)

// Contribution is a single dated cash-flow event against an account.
// Amount is always positive; Type carries the sign.
type Contribution struct {
	Base
	AccountID string           `gorm:"type:uuid;not null;index" json:"account_id"`
	Amount    decimal.Decimal  `gorm:"type:decimal(20,8);not null" json:"amount"`
	Type      ContributionType `gorm:"not null;default:'deposit'" json:"type"`
	Date      time.Time        `gorm:"not null" json:"date"`
}

// Signed returns the amount with the sign implied by the contribution type.
func (c Contribution) Signed() decimal.Decimal {
	if c.Type == ContributionTypeWithdrawal {
		return c.Amount.Neg()
	}
	return c.Amount
}
