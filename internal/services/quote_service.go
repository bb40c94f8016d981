package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "networth/internal/errors"
	"networth/internal/logger"
	"networth/internal/quote"
)

// quoteService exposes the price source to the quote endpoint.
type quoteService struct {
	prices quote.PriceSource
}

// NewQuoteService creates a new QuoteServicer.
func NewQuoteService(prices quote.PriceSource) QuoteServicer {
	return &quoteService{prices: prices}
}

// GetPrice returns the latest price for symbol or ErrQuoteUnavailable.
func (s *quoteService) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "symbol is required")
	}
	if s.prices == nil {
		return decimal.Zero, apperrors.ErrQuoteUnavailable
	}

	price, err := s.prices.Price(ctx, symbol)
	if err != nil {
		logger.Get().Warnw("price unavailable", "symbol", symbol, "error", err)
		return decimal.Zero, apperrors.Wrap(apperrors.ErrQuoteUnavailable, err)
	}
	return price, nil
}
