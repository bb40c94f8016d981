package services

import (
	"time"

	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/ledger"
	"networth/internal/metrics"
	"networth/internal/models"
	"networth/internal/pagination"
)

// accountService handles account-related business logic.
type accountService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewAccountService creates a new AccountServicer.
func NewAccountService(db *gorm.DB) AccountServicer {
	return &accountService{db: db, now: time.Now}
}

// CreateAccount creates an account. Cash-like accounts are created together
// with a single opening contribution equal to their balance.
func (s *accountService) CreateAccount(userID string, input AccountInput) (*models.Account, error) {
	if input.Institution == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "institution is required")
	}

	account := &models.Account{
		UserID:      userID,
		SubuserID:   input.SubuserID,
		Name:        input.Name,
		Institution: input.Institution,
		Type:        input.Type,
		Dividend:    input.Dividend,
	}

	var seed *models.Contribution
	switch kind := input.Kind.(type) {
	case models.CashKind:
		if input.Type.IsInvestment() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "investment accounts do not take an opening balance")
		}
		account.Balance = kind.Balance
		account.Interest = kind.Interest
		c := ledger.SeedContribution(kind.Balance, s.now().UTC())
		seed = &c
	case models.InvestmentKind:
		if !input.Type.IsInvestment() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "balance is required for non-investment accounts")
		}
	default:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account kind is required")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if account.SubuserID != nil {
			if _, err := ownedSubuser(tx, userID, *account.SubuserID); err != nil {
				return err
			}
		}

		if err := tx.Create(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if seed != nil {
			seed.AccountID = account.ID
			if err := tx.Create(seed).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			account.Contributions = []models.Contribution{*seed}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if seed != nil {
		metrics.RecordContribution(string(seed.Type))
	}
	prepareAccount(account)
	return account, nil
}

// GetUserAccounts retrieves a paginated list of accounts for a user.
// subuserFilter is empty for every account, PrimarySubuser for accounts
// without a sub-user, or a sub-user id.
func (s *accountService) GetUserAccounts(userID string, page pagination.PageRequest, subuserFilter string) (*pagination.PageResponse[models.Account], error) {
	base := s.db.Model(&models.Account{}).Where("user_id = ?", userID)
	switch subuserFilter {
	case "":
	case PrimarySubuser:
		base = base.Where("subuser_id IS NULL")
	default:
		base = base.Where("subuser_id = ?", subuserFilter)
	}

	result, err := pagination.Query[models.Account](base, page, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Contributions").Preload("Categories").Order("created_at ASC")
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range result.Data {
		prepareAccount(&result.Data[i])
	}
	return result, nil
}

// GetAccountByID retrieves an account with its ledger and categories.
func (s *accountService) GetAccountByID(userID, accountID string) (*models.Account, error) {
	return loadAccount(s.db, userID, accountID)
}

// UpdateAccount patches the descriptive fields of an account. The type and
// the balance are never patched; the balance only moves through the ledger.
func (s *accountService) UpdateAccount(userID, accountID string, fields AccountUpdateFields) (*models.Account, error) {
	updates := make(map[string]interface{})

	if fields.Name != nil {
		updates["name"] = *fields.Name
	}
	if fields.Institution != nil {
		if *fields.Institution == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "institution cannot be empty")
		}
		updates["institution"] = *fields.Institution
	}
	if fields.Interest != nil {
		updates["interest"] = *fields.Interest
	}
	if fields.Dividend != nil {
		updates["dividend"] = *fields.Dividend
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		account, err := ownedAccount(tx, userID, accountID)
		if err != nil {
			return err
		}

		switch {
		case fields.ClearSubuser:
			updates["subuser_id"] = gorm.Expr("NULL")
		case fields.SubuserID != nil:
			if _, err := ownedSubuser(tx, userID, *fields.SubuserID); err != nil {
				return err
			}
			updates["subuser_id"] = *fields.SubuserID
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(account).Updates(updates).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return loadAccount(s.db, userID, accountID)
}

// DeleteAccount removes an account together with its contributions,
// categories, holdings and lots.
func (s *accountService) DeleteAccount(userID, accountID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		account, err := ownedAccount(tx, userID, accountID)
		if err != nil {
			return err
		}

		var holdingIDs []string
		if err := tx.Model(&models.Holding{}).Where("account_id = ?", account.ID).Pluck("id", &holdingIDs).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(holdingIDs) > 0 {
			if err := tx.Where("holding_id IN ?", holdingIDs).Delete(&models.Lot{}).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		for _, child := range []interface{}{&models.Holding{}, &models.Contribution{}, &models.Category{}} {
			if err := tx.Where("account_id = ?", account.ID).Delete(child).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if err := tx.Delete(account).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// GetAccountHistory returns the daily running balance of an account's ledger.
func (s *accountService) GetAccountHistory(userID, accountID string) ([]ledger.Point, error) {
	account, err := ownedAccount(s.db, userID, accountID)
	if err != nil {
		return nil, err
	}

	var contributions []models.Contribution
	if err := s.db.Where("account_id = ?", account.ID).Find(&contributions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return ledger.Timeline(contributions), nil
}
