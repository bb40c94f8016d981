package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/models"
)

// categoryService manages the declared budget categories of an account.
// Categories never touch the ledger or the stored balance.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// AddCategory adds a named allocation to an account.
func (s *categoryService) AddCategory(userID, accountID, name string, amount decimal.Decimal) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	account, err := ownedAccount(s.db, userID, accountID)
	if err != nil {
		return nil, err
	}

	category := &models.Category{
		AccountID: account.ID,
		Name:      name,
		Amount:    amount,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return loadAccount(s.db, userID, accountID)
}

// UpdateCategory replaces both the name and the amount of a category.
func (s *categoryService) UpdateCategory(userID, accountID, categoryID, name string, amount decimal.Decimal) (*models.Account, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	account, err := ownedAccount(s.db, userID, accountID)
	if err != nil {
		return nil, err
	}

	result := s.db.Model(&models.Category{}).
		Where("id = ? AND account_id = ?", categoryID, account.ID).
		Updates(map[string]interface{}{"name": name, "amount": amount})
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrCategoryNotFound
	}

	return loadAccount(s.db, userID, accountID)
}

// DeleteCategory removes a category from an account.
func (s *categoryService) DeleteCategory(userID, accountID, categoryID string) (*models.Account, error) {
	account, err := ownedAccount(s.db, userID, accountID)
	if err != nil {
		return nil, err
	}

	result := s.db.Where("id = ? AND account_id = ?", categoryID, account.ID).Delete(&models.Category{})
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrCategoryNotFound
	}

	return loadAccount(s.db, userID, accountID)
}
