package ledger

import (
	"github.com/shopspring/decimal"

	"networth/internal/models"
)

// Totals are the aggregates derived from a holding's lots.
type Totals struct {
	TotalShares         decimal.Decimal
	TotalCostBasis      decimal.Decimal
	AverageCostPerShare decimal.Decimal
}

// HoldingTotals sums shares and cost basis over lots. The average cost is
// zero when the net share count is zero.
func HoldingTotals(lots []models.Lot) Totals {
	var t Totals
	for _, l := range lots {
		t.TotalShares = t.TotalShares.Add(l.Shares)
		t.TotalCostBasis = t.TotalCostBasis.Add(l.Shares.Mul(l.CostPerShare))
	}
	if !t.TotalShares.IsZero() {
		t.AverageCostPerShare = t.TotalCostBasis.Div(t.TotalShares)
	}
	return t
}

// Summarize fills the derived fields of a holding from its current lots.
func Summarize(h *models.Holding) {
	t := HoldingTotals(h.Lots)
	h.TotalShares = t.TotalShares
	h.TotalCostBasis = t.TotalCostBasis
	h.AverageCostPerShare = t.AverageCostPerShare
}

// Value sets the market price and market value of a holding.
func Value(h *models.Holding, price decimal.Decimal) {
	h.MarketPrice = decimal.NewNullDecimal(price)
	h.MarketValue = decimal.NewNullDecimal(price.Mul(h.TotalShares))
}
