package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"networth/internal/ledger"
	"networth/internal/models"
	"networth/internal/pagination"
	"networth/internal/projection"
)

// PrimarySubuser selects accounts that are not attributed to any sub-user.
const PrimarySubuser = "primary"

// AccountInput carries the fields of a new account. Kind decides whether
// the account gets an opening ledger entry.
type AccountInput struct {
	Name        string
	Institution string
	Type        models.AccountType
	Kind        models.AccountKind
	Dividend    decimal.Decimal
	SubuserID   *string
}

// AccountUpdateFields holds the patchable account fields. Nil pointers
// leave the stored value untouched; ClearSubuser moves the account back
// to the primary person.
type AccountUpdateFields struct {
	Name         *string
	Institution  *string
	Interest     *decimal.Decimal
	Dividend     *decimal.Decimal
	SubuserID    *string
	ClearSubuser bool
}

// AccountServicer defines the contract for account-related business logic.
type AccountServicer interface {
	CreateAccount(userID string, input AccountInput) (*models.Account, error)
	GetUserAccounts(userID string, page pagination.PageRequest, subuserFilter string) (*pagination.PageResponse[models.Account], error)
	GetAccountByID(userID, accountID string) (*models.Account, error)
	UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error)
	DeleteAccount(userID, accountID string) error
	GetAccountHistory(userID, accountID string) ([]ledger.Point, error)
}

// LedgerServicer defines the contract for contribution ledger mutations.
// Every mutation returns the updated account.
type LedgerServicer interface {
	AddContribution(userID, accountID string, amount decimal.Decimal, contributionType models.ContributionType, date *time.Time) (*models.Account, error)
	Withdraw(userID, accountID string, amount decimal.Decimal, date *time.Time) (*models.Account, error)
	DeleteContribution(userID, accountID, contributionID string) (*models.Account, error)
}

// CategoryServicer defines the contract for budget categories on an account.
// Every mutation returns the updated account.
type CategoryServicer interface {
	AddCategory(userID, accountID, name string, amount decimal.Decimal) (*models.Account, error)
	UpdateCategory(userID, accountID, categoryID, name string, amount decimal.Decimal) (*models.Account, error)
	DeleteCategory(userID, accountID, categoryID string) (*models.Account, error)
}

// LotFields holds the patchable lot fields; nil leaves the stored value.
type LotFields struct {
	Date         *time.Time
	Shares       *decimal.Decimal
	CostPerShare *decimal.Decimal
}

// HoldingServicer defines the contract for holdings and their lots.
type HoldingServicer interface {
	GetAccountHoldings(ctx context.Context, userID, accountID string) ([]models.Holding, error)
	GetHolding(ctx context.Context, userID, accountID, holdingID string) (*models.Holding, error)
	AddHolding(userID, accountID, ticker string) (*models.Holding, error)
	DeleteHolding(userID, accountID, holdingID string) error
	AddLot(userID, accountID, holdingID string, date *time.Time, shares, costPerShare decimal.Decimal) (*models.Holding, error)
	UpdateLot(userID, accountID, holdingID, lotID string, fields LotFields) (*models.Holding, error)
	DeleteLot(userID, accountID, holdingID, lotID string) (*models.Holding, error)
}

// SubuserServicer defines the contract for household sub-users.
type SubuserServicer interface {
	CreateSubuser(userID, name string) (*models.Subuser, error)
	GetUserSubusers(userID string) ([]models.Subuser, error)
	GetSubuserByID(userID, subuserID string) (*models.Subuser, error)
	DeleteSubuser(userID, subuserID string) error
}

// AllocationInput is one account's monthly amount in a projection.
type AllocationInput struct {
	AccountID     string
	MonthlyAmount decimal.Decimal
}

// StartingAllocationInput is one account's explicit starting balance.
type StartingAllocationInput struct {
	AccountID       string
	StartingBalance decimal.Decimal
}

// ProjectionInput carries every field of a projection. Update replaces
// the stored projection with it wholesale.
type ProjectionInput struct {
	Name                string
	Income              *decimal.Decimal
	Expenses            decimal.Decimal
	EndDate             *time.Time
	UseNetWorth         bool
	Allocations         []AllocationInput
	StartingAllocations []StartingAllocationInput
}

// ProjectionResult is a projection with its freshly computed series.
type ProjectionResult struct {
	Projection *models.Projection `json:"projection"`
	projection.Series
}

// ProjectionServicer defines the contract for projections.
type ProjectionServicer interface {
	CreateProjection(userID string, input ProjectionInput) (*models.Projection, error)
	GetUserProjections(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Projection], error)
	GetProjection(userID, projectionID string) (*ProjectionResult, error)
	UpdateProjection(userID, projectionID string, input ProjectionInput) (*models.Projection, error)
	DeleteProjection(userID, projectionID string) error
}

// NetWorthSummary aggregates the balances of a user's accounts.
type NetWorthSummary struct {
	Total           decimal.Decimal `json:"total"`
	MonthlyInterest decimal.Decimal `json:"monthly_interest"`
	AccountCount    int             `json:"account_count"`
	Display         string          `json:"display"`
	Timeline        []ledger.Point  `json:"timeline"`
}

// NetWorthServicer defines the contract for the net-worth summary.
type NetWorthServicer interface {
	GetNetWorth(userID, subuserFilter string) (*NetWorthSummary, error)
}

// QuoteServicer resolves market prices for the quote pass-through endpoint.
type QuoteServicer interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// AuditEntry describes one mutation. AccountID and HoldingID name the
// parents the resource was resolved through; empty means none.
type AuditEntry struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	AccountID    string
	HoldingID    string
	IPAddress    string
	Changes      map[string]interface{}
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(entry AuditEntry)
}
