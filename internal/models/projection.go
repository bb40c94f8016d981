package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Projection is a named linear extrapolation of account balances.
// Income, Expenses and UseNetWorth are stored and returned but are
// reserved: the series computation does not read them.
type Projection struct {
	Base
	UserID      string              `gorm:"not null;index" json:"user_id"`
	Name        string              `gorm:"not null;default:''" json:"name"`
	Income      decimal.NullDecimal `gorm:"type:decimal(20,8)" json:"income"`
	Expenses    decimal.Decimal     `gorm:"type:decimal(20,8);not null;default:0" json:"expenses"`
	EndDate     *time.Time          `json:"end_date"`
	UseNetWorth bool                `gorm:"not null;default:false" json:"use_net_worth"`

	// Relationships
	Allocations         []ProjectionAllocation `gorm:"foreignKey:ProjectionID" json:"allocations"`
	StartingAllocations []StartingAllocation   `gorm:"foreignKey:ProjectionID" json:"starting_allocations"`
}

// ProjectionAllocation is a fixed monthly amount added to one account.
type ProjectionAllocation struct {
	Base
	ProjectionID  string          `gorm:"type:uuid;not null;index" json:"projection_id"`
	AccountID     string          `gorm:"type:uuid;not null" json:"account_id"`
	MonthlyAmount decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"monthly_amount"`
}

// StartingAllocation records an explicit starting balance for an account.
// Reserved: the series always starts from the account's stored balance.
type StartingAllocation struct {
	Base
	ProjectionID    string          `gorm:"type:uuid;not null;index" json:"projection_id"`
	AccountID       string          `gorm:"type:uuid;not null" json:"account_id"`
	StartingBalance decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"starting_balance"`
}
