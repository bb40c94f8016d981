package services

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/ledger"
	"networth/internal/models"
)

// displayCurrency is the currency used for the formatted total.
const displayCurrency = money.USD

// netWorthService aggregates balances across a user's accounts.
type netWorthService struct {
	db *gorm.DB
}

// NewNetWorthService creates a new NetWorthServicer.
func NewNetWorthService(db *gorm.DB) NetWorthServicer {
	return &netWorthService{db: db}
}

// GetNetWorth sums the stored balances of the matching accounts and builds
// the combined daily timeline of their ledgers. subuserFilter follows
// GetUserAccounts.
func (s *netWorthService) GetNetWorth(userID, subuserFilter string) (*NetWorthSummary, error) {
	query := s.db.Preload("Contributions").Where("user_id = ?", userID)
	switch subuserFilter {
	case "":
	case PrimarySubuser:
		query = query.Where("subuser_id IS NULL")
	default:
		query = query.Where("subuser_id = ?", subuserFilter)
	}

	var accounts []models.Account
	if err := query.Find(&accounts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	total := decimal.Zero
	var contributions []models.Contribution
	for _, a := range accounts {
		total = total.Add(a.Balance)
		contributions = append(contributions, a.Contributions...)
	}

	return &NetWorthSummary{
		Total:           total,
		MonthlyInterest: ledger.MonthlyInterest(accounts),
		AccountCount:    len(accounts),
		Display:         formatAmount(total),
		Timeline:        ledger.Timeline(contributions),
	}, nil
}

// formatAmount renders an amount in the display currency, rounded to cents.
func formatAmount(amount decimal.Decimal) string {
	cents := amount.Shift(2).Round(0).IntPart()
	return money.New(cents, displayCurrency).Display()
}
