package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/pagination"
	"networth/internal/projection"
)

// projectionService stores projections and computes their series on read.
// The series always starts from the accounts' current stored balances, so
// the output moves whenever the ledger does.
type projectionService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewProjectionService creates a new ProjectionServicer.
func NewProjectionService(db *gorm.DB) ProjectionServicer {
	return &projectionService{db: db, now: time.Now}
}

func ownedProjection(db *gorm.DB, userID, projectionID string) (*models.Projection, error) {
	var p models.Projection
	err := db.Preload("Allocations", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Preload("StartingAllocations", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("id = ? AND user_id = ?", projectionID, userID).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProjectionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	normalizeProjection(&p)
	return &p, nil
}

func normalizeProjection(p *models.Projection) {
	if p.Allocations == nil {
		p.Allocations = []models.ProjectionAllocation{}
	}
	if p.StartingAllocations == nil {
		p.StartingAllocations = []models.StartingAllocation{}
	}
}

// validateProjection checks the input and that every referenced account
// belongs to the user.
func validateProjection(tx *gorm.DB, userID string, input ProjectionInput, now time.Time) error {
	if input.Name == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "name is required")
	}
	if input.EndDate != nil && input.EndDate.After(projection.HorizonLimit(now)) {
		return apperrors.WithMessage(apperrors.ErrInvalidInput,
			fmt.Sprintf("end_date must be within %d years", projection.MaxHorizonYears))
	}

	ids := make([]string, 0, len(input.Allocations)+len(input.StartingAllocations))
	seen := make(map[string]bool)
	for _, a := range input.Allocations {
		if seen[a.AccountID] {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "each account can be allocated only once")
		}
		seen[a.AccountID] = true
		ids = append(ids, a.AccountID)
	}
	startSeen := make(map[string]bool)
	for _, a := range input.StartingAllocations {
		if startSeen[a.AccountID] {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "each account can have only one starting balance")
		}
		startSeen[a.AccountID] = true
		if !seen[a.AccountID] {
			ids = append(ids, a.AccountID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	var owned int64
	if err := tx.Model(&models.Account{}).Where("user_id = ? AND id IN ?", userID, ids).Count(&owned).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if int(owned) != len(ids) {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

func applyProjectionInput(p *models.Projection, input ProjectionInput) {
	p.Name = input.Name
	p.Income = decimal.NullDecimal{}
	if input.Income != nil {
		p.Income = decimal.NewNullDecimal(*input.Income)
	}
	p.Expenses = input.Expenses
	p.EndDate = nil
	if input.EndDate != nil {
		end := input.EndDate.UTC()
		p.EndDate = &end
	}
	p.UseNetWorth = input.UseNetWorth

	p.Allocations = make([]models.ProjectionAllocation, 0, len(input.Allocations))
	for _, a := range input.Allocations {
		p.Allocations = append(p.Allocations, models.ProjectionAllocation{
			AccountID:     a.AccountID,
			MonthlyAmount: a.MonthlyAmount,
		})
	}
	p.StartingAllocations = make([]models.StartingAllocation, 0, len(input.StartingAllocations))
	for _, a := range input.StartingAllocations {
		p.StartingAllocations = append(p.StartingAllocations, models.StartingAllocation{
			AccountID:       a.AccountID,
			StartingBalance: a.StartingBalance,
		})
	}
}

// CreateProjection stores a projection with its allocations.
func (s *projectionService) CreateProjection(userID string, input ProjectionInput) (*models.Projection, error) {
	p := &models.Projection{UserID: userID}
	applyProjectionInput(p, input)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := validateProjection(tx, userID, input, s.now()); err != nil {
			return err
		}
		if err := tx.Create(p).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetUserProjections lists a user's projections, newest first.
func (s *projectionService) GetUserProjections(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Projection], error) {
	base := s.db.Model(&models.Projection{}).Where("user_id = ?", userID)

	result, err := pagination.Query[models.Projection](base, page, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Allocations").Preload("StartingAllocations").Order("created_at DESC")
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range result.Data {
		normalizeProjection(&result.Data[i])
	}
	return result, nil
}

// GetProjection returns a projection with its series computed from the
// current account balances. Allocations whose account no longer resolves
// start from zero.
func (s *projectionService) GetProjection(userID, projectionID string) (*ProjectionResult, error) {
	p, err := ownedProjection(s.db, userID, projectionID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		ids = append(ids, a.AccountID)
	}

	accounts := make(map[string]models.Account, len(ids))
	if len(ids) > 0 {
		var found []models.Account
		if err := s.db.Where("user_id = ? AND id IN ?", userID, ids).Find(&found).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for _, a := range found {
			accounts[a.ID] = a
		}
	}

	allocations := make([]projection.Allocation, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		alloc := projection.Allocation{
			AccountID:       a.AccountID,
			StartingBalance: decimal.Zero,
			MonthlyAmount:   a.MonthlyAmount,
		}
		if account, ok := accounts[a.AccountID]; ok {
			alloc.Name = account.DisplayName()
			alloc.StartingBalance = account.Balance
		}
		allocations = append(allocations, alloc)
	}

	now := s.now()
	end := projection.DefaultEnd(now)
	if p.EndDate != nil {
		end = *p.EndDate
	}

	return &ProjectionResult{
		Projection: p,
		Series:     projection.Compute(projection.StartOfMonth(now), end, allocations),
	}, nil
}

// UpdateProjection replaces every field and allocation of a projection.
func (s *projectionService) UpdateProjection(userID, projectionID string, input ProjectionInput) (*models.Projection, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		p, err := ownedProjection(tx, userID, projectionID)
		if err != nil {
			return err
		}
		if err := validateProjection(tx, userID, input, s.now()); err != nil {
			return err
		}

		if err := tx.Where("projection_id = ?", p.ID).Delete(&models.ProjectionAllocation{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("projection_id = ?", p.ID).Delete(&models.StartingAllocation{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		applyProjectionInput(p, input)
		if err := tx.Omit("Allocations", "StartingAllocations").Save(p).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		for i := range p.Allocations {
			p.Allocations[i].ProjectionID = p.ID
		}
		for i := range p.StartingAllocations {
			p.StartingAllocations[i].ProjectionID = p.ID
		}
		if len(p.Allocations) > 0 {
			if err := tx.Create(&p.Allocations).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		if len(p.StartingAllocations) > 0 {
			if err := tx.Create(&p.StartingAllocations).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ownedProjection(s.db, userID, projectionID)
}

// DeleteProjection removes a projection and its allocations.
func (s *projectionService) DeleteProjection(userID, projectionID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		p, err := ownedProjection(tx, userID, projectionID)
		if err != nil {
			return err
		}

		if err := tx.Where("projection_id = ?", p.ID).Delete(&models.ProjectionAllocation{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("projection_id = ?", p.ID).Delete(&models.StartingAllocation{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&models.Projection{}, "id = ?", p.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}
