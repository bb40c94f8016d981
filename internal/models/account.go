package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// AccountType is the user-facing account classification.
type AccountType string

const (
	AccountTypeChecking   AccountType = "Checking"
	AccountTypeSavings    AccountType = "Savings"
	AccountTypeInvestment AccountType = "Investment"
	AccountTypeCredit     AccountType = "Credit"
)

// IsInvestment reports whether the account derives its value from holdings.
func (t AccountType) IsInvestment() bool {
	return t == AccountTypeInvestment
}

// Account represents a financial account owned by a user and optionally
// attributed to one of the user's sub-users.
type Account struct {
	Base
	UserID      string          `gorm:"not null;index" json:"user_id"`
	SubuserID   *string         `gorm:"type:uuid;index" json:"subuser_id"`
	Name        string          `json:"name"`
	Institution string          `gorm:"not null" json:"institution"`
	Type        AccountType     `gorm:"not null" json:"type"`
	Balance     decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"balance"`
	Interest    decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"interest"`
	Dividend    decimal.Decimal `gorm:"type:decimal(20,8);not null;default:0" json:"dividend"`

	// Populated at read time from the categories.
	UnallocatedBalance decimal.Decimal `gorm:"-" json:"unallocated_balance"`

	// Relationships
	Contributions []Contribution `gorm:"foreignKey:AccountID" json:"contributions"`
	Categories    []Category     `gorm:"foreignKey:AccountID" json:"categories"`
}

// DisplayName returns the account name, falling back to the institution.
func (a *Account) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Institution
}

// AccountKind selects how an account tracks its value. Cash-like accounts
// carry a ledger seeded with an opening balance; investment accounts start
// empty and are valued through their holdings.
type AccountKind interface {
	accountKind()
}

// CashKind covers Checking, Savings and Credit accounts.
type CashKind struct {
	Balance  decimal.Decimal
	Interest decimal.Decimal
}

// InvestmentKind covers Investment accounts.
type InvestmentKind struct{}

func (CashKind) accountKind()       {}
func (InvestmentKind) accountKind() {}

// ErrBalanceRequired is returned when a cash-like account has no opening balance.
var ErrBalanceRequired = errors.New("balance is required for non-investment accounts")

// NewAccountKind builds the kind for an account type. A nil interest
// defaults to zero; balance and interest are ignored for investment accounts.
func NewAccountKind(t AccountType, balance, interest *decimal.Decimal) (AccountKind, error) {
	if t.IsInvestment() {
		return InvestmentKind{}, nil
	}
	if balance == nil {
		return nil, ErrBalanceRequired
	}
	kind := CashKind{Balance: *balance}
	if interest != nil {
		kind.Interest = *interest
	}
	return kind, nil
}
