package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"networth/internal/ledger"
	"networth/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewUserID returns a unique identity-provider subject.
func NewUserID() string {
	return fmt.Sprintf("auth0|user%d", nextID())
}

// CreateTestAccount creates a cash-like account whose ledger is seeded with
// a single contribution for the given opening balance.
func CreateTestAccount(t *testing.T, db *gorm.DB, userID string, accountType models.AccountType, balance string) *models.Account {
	t.Helper()

	opening := decimal.RequireFromString(balance)
	account := &models.Account{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Account %d", nextID()),
		Institution: "Test Bank",
		Type:        accountType,
		Balance:     opening,
		Contributions: []models.Contribution{
			ledger.SeedContribution(opening, time.Now().UTC()),
		},
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

// CreateTestInvestmentAccount creates an investment account with an empty ledger.
func CreateTestInvestmentAccount(t *testing.T, db *gorm.DB, userID string) *models.Account {
	t.Helper()

	account := &models.Account{
		UserID:      userID,
		Name:        fmt.Sprintf("Test Brokerage %d", nextID()),
		Institution: "Test Broker",
		Type:        models.AccountTypeInvestment,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("failed to create test investment account: %v", err)
	}
	return account
}

// CreateTestContribution appends a contribution without touching the stored balance.
func CreateTestContribution(t *testing.T, db *gorm.DB, accountID string, amount string, contributionType models.ContributionType, date time.Time) *models.Contribution {
	t.Helper()

	contribution := &models.Contribution{
		AccountID: accountID,
		Amount:    decimal.RequireFromString(amount),
		Type:      contributionType,
		Date:      date,
	}
	if err := db.Create(contribution).Error; err != nil {
		t.Fatalf("failed to create test contribution: %v", err)
	}
	return contribution
}

// CreateTestCategory creates a category on the account.
func CreateTestCategory(t *testing.T, db *gorm.DB, accountID string, amount string) *models.Category {
	t.Helper()

	category := &models.Category{
		AccountID: accountID,
		Name:      fmt.Sprintf("Test Category %d", nextID()),
		Amount:    decimal.RequireFromString(amount),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestHolding creates a holding with no lots.
func CreateTestHolding(t *testing.T, db *gorm.DB, accountID, ticker string) *models.Holding {
	t.Helper()

	holding := &models.Holding{
		AccountID: accountID,
		Ticker:    ticker,
	}
	if err := db.Create(holding).Error; err != nil {
		t.Fatalf("failed to create test holding: %v", err)
	}
	return holding
}

// CreateTestLot creates a lot dated today.
func CreateTestLot(t *testing.T, db *gorm.DB, holdingID string, shares, costPerShare string) *models.Lot {
	t.Helper()

	lot := &models.Lot{
		HoldingID:    holdingID,
		Date:         time.Now().UTC(),
		Shares:       decimal.RequireFromString(shares),
		CostPerShare: decimal.RequireFromString(costPerShare),
	}
	if err := db.Create(lot).Error; err != nil {
		t.Fatalf("failed to create test lot: %v", err)
	}
	return lot
}

// CreateTestSubuser creates a sub-user for the given user.
func CreateTestSubuser(t *testing.T, db *gorm.DB, userID string) *models.Subuser {
	t.Helper()

	subuser := &models.Subuser{
		UserID: userID,
		Name:   fmt.Sprintf("Test Subuser %d", nextID()),
	}
	if err := db.Create(subuser).Error; err != nil {
		t.Fatalf("failed to create test subuser: %v", err)
	}
	return subuser
}

// CreateTestProjection creates a projection with one allocation per account.
func CreateTestProjection(t *testing.T, db *gorm.DB, userID string, monthlyAmount string, accountIDs ...string) *models.Projection {
	t.Helper()

	projection := &models.Projection{
		UserID: userID,
		Name:   fmt.Sprintf("Test Projection %d", nextID()),
	}
	for _, id := range accountIDs {
		projection.Allocations = append(projection.Allocations, models.ProjectionAllocation{
			AccountID:     id,
			MonthlyAmount: decimal.RequireFromString(monthlyAmount),
		})
	}
	if err := db.Create(projection).Error; err != nil {
		t.Fatalf("failed to create test projection: %v", err)
	}
	return projection
}
