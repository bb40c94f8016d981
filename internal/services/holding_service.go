package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "networth/internal/errors"
	"networth/internal/ledger"
	"networth/internal/logger"
	"networth/internal/models"
	"networth/internal/quote"
)

// holdingService manages holdings and their lots. Aggregates are derived
// from the lots on every read; market values come from the price source
// when it answers.
type holdingService struct {
	db     *gorm.DB
	prices quote.PriceSource
	now    func() time.Time
}

// NewHoldingService creates a new HoldingServicer. A nil price source
// leaves market prices unset.
func NewHoldingService(db *gorm.DB, prices quote.PriceSource) HoldingServicer {
	return &holdingService{db: db, prices: prices, now: time.Now}
}

func lotsByDate(db *gorm.DB) *gorm.DB {
	return db.Order("date ASC").Order("created_at ASC")
}

// ownedHolding resolves a holding through its account and the account's owner.
func ownedHolding(db *gorm.DB, userID, accountID, holdingID string) (*models.Holding, error) {
	account, err := ownedAccount(db, userID, accountID)
	if err != nil {
		return nil, err
	}

	var holding models.Holding
	err = db.Preload("Lots", lotsByDate).
		Where("id = ? AND account_id = ?", holdingID, account.ID).
		First(&holding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHoldingNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if holding.Lots == nil {
		holding.Lots = []models.Lot{}
	}
	ledger.Summarize(&holding)
	return &holding, nil
}

// price attaches the market price of each distinct ticker once. Failures
// leave the holding unpriced.
func (s *holdingService) price(ctx context.Context, holdings []models.Holding) {
	if s.prices == nil {
		return
	}

	cache := make(map[string]*decimal.Decimal)
	for i := range holdings {
		ticker := holdings[i].Ticker
		p, seen := cache[ticker]
		if !seen {
			price, err := s.prices.Price(ctx, ticker)
			if err != nil {
				logger.Get().Warnw("price unavailable", "ticker", ticker, "error", err)
			} else {
				p = &price
			}
			cache[ticker] = p
		}
		if p != nil {
			ledger.Value(&holdings[i], *p)
		}
	}
}

// GetAccountHoldings lists the holdings of an investment account with
// derived totals.
func (s *holdingService) GetAccountHoldings(ctx context.Context, userID, accountID string) ([]models.Holding, error) {
	account, err := ownedAccount(s.db, userID, accountID)
	if err != nil {
		return nil, err
	}
	if !account.Type.IsInvestment() {
		return nil, apperrors.ErrNotInvestmentAccount
	}

	holdings := []models.Holding{}
	err = s.db.Preload("Lots", lotsByDate).
		Where("account_id = ?", account.ID).
		Order("ticker ASC").
		Find(&holdings).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for i := range holdings {
		if holdings[i].Lots == nil {
			holdings[i].Lots = []models.Lot{}
		}
		ledger.Summarize(&holdings[i])
	}
	s.price(ctx, holdings)
	return holdings, nil
}

// GetHolding retrieves one holding with derived totals and market value.
func (s *holdingService) GetHolding(ctx context.Context, userID, accountID, holdingID string) (*models.Holding, error) {
	holding, err := ownedHolding(s.db, userID, accountID, holdingID)
	if err != nil {
		return nil, err
	}

	priced := []models.Holding{*holding}
	s.price(ctx, priced)
	return &priced[0], nil
}

// AddHolding creates an empty holding in an investment account.
func (s *holdingService) AddHolding(userID, accountID, ticker string) (*models.Holding, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "ticker is required")
	}
	if len(ticker) > models.MaxTickerLength {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("ticker must be at most %d characters", models.MaxTickerLength))
	}

	account, err := ownedAccount(s.db, userID, accountID)
	if err != nil {
		return nil, err
	}
	if !account.Type.IsInvestment() {
		return nil, apperrors.ErrNotInvestmentAccount
	}

	holding := &models.Holding{
		AccountID: account.ID,
		Ticker:    ticker,
		Lots:      []models.Lot{},
	}
	if err := s.db.Create(holding).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	ledger.Summarize(holding)
	return holding, nil
}

// DeleteHolding removes a holding and its lots.
func (s *holdingService) DeleteHolding(userID, accountID, holdingID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		holding, err := ownedHolding(tx, userID, accountID, holdingID)
		if err != nil {
			return err
		}

		if err := tx.Where("holding_id = ?", holding.ID).Delete(&models.Lot{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&models.Holding{}, "id = ?", holding.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

func validateLot(shares, costPerShare decimal.Decimal) error {
	if shares.IsZero() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "shares cannot be zero")
	}
	if costPerShare.IsNegative() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "cost per share cannot be negative")
	}
	return nil
}

// AddLot records a purchase (positive shares) or a sale (negative shares).
func (s *holdingService) AddLot(userID, accountID, holdingID string, date *time.Time, shares, costPerShare decimal.Decimal) (*models.Holding, error) {
	if err := validateLot(shares, costPerShare); err != nil {
		return nil, err
	}

	holding, err := ownedHolding(s.db, userID, accountID, holdingID)
	if err != nil {
		return nil, err
	}

	lot := &models.Lot{
		HoldingID:    holding.ID,
		Shares:       shares,
		CostPerShare: costPerShare,
		Date:         s.now().UTC(),
	}
	if date != nil {
		lot.Date = date.UTC()
	}
	if err := s.db.Create(lot).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return ownedHolding(s.db, userID, accountID, holdingID)
}

// UpdateLot patches the date, shares or cost of a lot.
func (s *holdingService) UpdateLot(userID, accountID, holdingID, lotID string, fields LotFields) (*models.Holding, error) {
	holding, err := ownedHolding(s.db, userID, accountID, holdingID)
	if err != nil {
		return nil, err
	}

	var lot *models.Lot
	for i := range holding.Lots {
		if holding.Lots[i].ID == lotID {
			lot = &holding.Lots[i]
			break
		}
	}
	if lot == nil {
		return nil, apperrors.ErrLotNotFound
	}

	shares, cost := lot.Shares, lot.CostPerShare
	if fields.Shares != nil {
		shares = *fields.Shares
	}
	if fields.CostPerShare != nil {
		cost = *fields.CostPerShare
	}
	if err := validateLot(shares, cost); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"shares":         shares,
		"cost_per_share": cost,
	}
	if fields.Date != nil {
		updates["date"] = fields.Date.UTC()
	}
	if err := s.db.Model(&models.Lot{}).Where("id = ?", lot.ID).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return ownedHolding(s.db, userID, accountID, holdingID)
}

// DeleteLot removes a lot from a holding.
func (s *holdingService) DeleteLot(userID, accountID, holdingID, lotID string) (*models.Holding, error) {
	holding, err := ownedHolding(s.db, userID, accountID, holdingID)
	if err != nil {
		return nil, err
	}

	result := s.db.Where("id = ? AND holding_id = ?", lotID, holding.ID).Delete(&models.Lot{})
	if result.Error != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.ErrLotNotFound
	}

	return ownedHolding(s.db, userID, accountID, holdingID)
}
