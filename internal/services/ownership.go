package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/ledger"
	"networth/internal/models"
)

// ownedAccount resolves an account under its owner. A missing account and
// another user's account are indistinguishable to the caller.
func ownedAccount(db *gorm.DB, userID, accountID string) (*models.Account, error) {
	var account models.Account
	if err := db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &account, nil
}

// loadAccount resolves an owned account with its ledger (newest first),
// its categories and the derived unallocated balance.
func loadAccount(db *gorm.DB, userID, accountID string) (*models.Account, error) {
	var account models.Account
	err := db.Preload("Contributions").Preload("Categories", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAccountNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	prepareAccount(&account)
	return &account, nil
}

// prepareAccount fills the read-time fields of an account loaded with its relations.
func prepareAccount(account *models.Account) {
	if account.Contributions == nil {
		account.Contributions = []models.Contribution{}
	}
	if account.Categories == nil {
		account.Categories = []models.Category{}
	}
	ledger.SortByDateDesc(account.Contributions)
	account.UnallocatedBalance = ledger.Unallocated(account.Balance, account.Categories)
}

// ownedSubuser checks that subuserID names one of the user's sub-users.
func ownedSubuser(db *gorm.DB, userID, subuserID string) (*models.Subuser, error) {
	var subuser models.Subuser
	if err := db.Where("id = ? AND user_id = ?", subuserID, userID).First(&subuser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSubuserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &subuser, nil
}

// recomputeBalance rewrites the stored balance from the full ledger.
func recomputeBalance(tx *gorm.DB, account *models.Account) error {
	var contributions []models.Contribution
	if err := tx.Where("account_id = ?", account.ID).Find(&contributions).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	balance := ledger.Balance(contributions)
	if err := tx.Model(account).Update("balance", balance).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	account.Balance = balance
	return nil
}
