package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/ledger"
	"networth/internal/metrics"
	"networth/internal/models"
)

// ledgerService appends to and removes from account contribution ledgers.
// Every mutation rewrites the stored balance from the full ledger inside
// the same transaction.
type ledgerService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewLedgerService creates a new LedgerServicer.
func NewLedgerService(db *gorm.DB) LedgerServicer {
	return &ledgerService{db: db, now: time.Now}
}

func (s *ledgerService) dateOrNow(date *time.Time) time.Time {
	if date != nil {
		return date.UTC()
	}
	return s.now().UTC()
}

// cashAccount resolves an owned account whose value is tracked by its ledger.
func cashAccount(tx *gorm.DB, userID, accountID string) (*models.Account, error) {
	account, err := ownedAccount(tx, userID, accountID)
	if err != nil {
		return nil, err
	}
	if account.Type.IsInvestment() {
		return nil, apperrors.ErrInvestmentLedger
	}
	return account, nil
}

// AddContribution appends a deposit or withdrawal. An empty type is a deposit.
func (s *ledgerService) AddContribution(userID, accountID string, amount decimal.Decimal, contributionType models.ContributionType, date *time.Time) (*models.Account, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	switch contributionType {
	case "":
		contributionType = models.ContributionTypeDeposit
	case models.ContributionTypeDeposit, models.ContributionTypeWithdrawal:
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "type must be deposit or withdrawal")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		account, err := cashAccount(tx, userID, accountID)
		if err != nil {
			return err
		}

		contribution := &models.Contribution{
			AccountID: account.ID,
			Amount:    amount,
			Type:      contributionType,
			Date:      s.dateOrNow(date),
		}
		if err := tx.Create(contribution).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return recomputeBalance(tx, account)
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordContribution(string(contributionType))
	return loadAccount(s.db, userID, accountID)
}

// Withdraw appends a withdrawal after checking it does not exceed the
// balance derived from the ledger. A refused withdrawal leaves the ledger untouched.
func (s *ledgerService) Withdraw(userID, accountID string, amount decimal.Decimal, date *time.Time) (*models.Account, error) {
	if !amount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		account, err := cashAccount(tx, userID, accountID)
		if err != nil {
			return err
		}

		var contributions []models.Contribution
		if err := tx.Where("account_id = ?", account.ID).Find(&contributions).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if !ledger.CanWithdraw(contributions, amount) {
			return apperrors.ErrInsufficientFunds
		}

		contribution := &models.Contribution{
			AccountID: account.ID,
			Amount:    amount,
			Type:      models.ContributionTypeWithdrawal,
			Date:      s.dateOrNow(date),
		}
		if err := tx.Create(contribution).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		return recomputeBalance(tx, account)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientFunds) {
			metrics.RecordRejectedWithdrawal()
		}
		return nil, err
	}

	metrics.RecordContribution(string(models.ContributionTypeWithdrawal))
	return loadAccount(s.db, userID, accountID)
}

// DeleteContribution removes one ledger entry and recomputes the balance.
func (s *ledgerService) DeleteContribution(userID, accountID, contributionID string) (*models.Account, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		account, err := cashAccount(tx, userID, accountID)
		if err != nil {
			return err
		}

		result := tx.Where("id = ? AND account_id = ?", contributionID, account.ID).Delete(&models.Contribution{})
		if result.Error != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrContributionNotFound
		}

		return recomputeBalance(tx, account)
	})
	if err != nil {
		return nil, err
	}

	return loadAccount(s.db, userID, accountID)
}
