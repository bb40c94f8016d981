package services

import (
	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/models"
)

// subuserService manages household members of a user.
type subuserService struct {
	db *gorm.DB
}

// NewSubuserService creates a new SubuserServicer.
func NewSubuserService(db *gorm.DB) SubuserServicer {
	return &subuserService{db: db}
}

// CreateSubuser creates a named household member.
func (s *subuserService) CreateSubuser(userID, name string) (*models.Subuser, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}

	subuser := &models.Subuser{UserID: userID, Name: name}
	if err := s.db.Create(subuser).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return subuser, nil
}

// GetUserSubusers lists a user's sub-users in creation order.
func (s *subuserService) GetUserSubusers(userID string) ([]models.Subuser, error) {
	subusers := []models.Subuser{}
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&subusers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return subusers, nil
}

// GetSubuserByID retrieves one of the user's sub-users.
func (s *subuserService) GetSubuserByID(userID, subuserID string) (*models.Subuser, error) {
	return ownedSubuser(s.db, userID, subuserID)
}

// DeleteSubuser removes a sub-user and hands its accounts back to the
// primary person.
func (s *subuserService) DeleteSubuser(userID, subuserID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		subuser, err := ownedSubuser(tx, userID, subuserID)
		if err != nil {
			return err
		}

		if err := tx.Model(&models.Account{}).
			Where("user_id = ? AND subuser_id = ?", userID, subuser.ID).
			Update("subuser_id", gorm.Expr("NULL")).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if err := tx.Delete(subuser).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
