package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaxTickerLength bounds ticker symbols; holdings.ticker is VARCHAR(16).
const MaxTickerLength = 16

// Holding is a security position inside an investment account.
type Holding struct {
	Base
	AccountID string `gorm:"type:uuid;not null;index" json:"account_id"`
	Ticker    string `gorm:"size:16;not null" json:"ticker"`

	// Derived from Lots on every read, never persisted.
	TotalShares         decimal.Decimal `gorm:"-" json:"total_shares"`
	TotalCostBasis      decimal.Decimal `gorm:"-" json:"total_cost_basis"`
	AverageCostPerShare decimal.Decimal `gorm:"-" json:"average_cost_per_share"`

	// Populated from the quote service when it answers; null otherwise.
	MarketPrice decimal.NullDecimal `gorm:"-" json:"market_price"`
	MarketValue decimal.NullDecimal `gorm:"-" json:"market_value"`

	// Relationships
	Lots []Lot `gorm:"foreignKey:HoldingID" json:"lots"`
}

// Lot is a single purchase (positive shares) or sale (negative shares).
type Lot struct {
	Base
	HoldingID    string          `gorm:"type:uuid;not null;index" json:"holding_id"`
	Date         time.Time       `gorm:"not null" json:"date"`
	Shares       decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"shares"`
	CostPerShare decimal.Decimal `gorm:"type:decimal(20,8);not null" json:"cost_per_share"`
}
