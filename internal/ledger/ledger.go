// Package ledger derives balances, running timelines and holding aggregates
// from the stored contribution and lot records. Nothing here is persisted:
// callers recompute on every read or after every mutation.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"networth/internal/models"
)

const dayLayout = "2006-01-02"

var monthsPerYear = decimal.NewFromInt(12)

// Balance returns deposits minus withdrawals over the full contribution set.
func Balance(contributions []models.Contribution) decimal.Decimal {
	total := decimal.Zero
	for _, c := range contributions {
		total = total.Add(c.Signed())
	}
	return total
}

// CanWithdraw reports whether amount can be taken from the given ledger.
func CanWithdraw(contributions []models.Contribution, amount decimal.Decimal) bool {
	return amount.LessThanOrEqual(Balance(contributions))
}

// Point is one day of a running-balance series.
type Point struct {
	Date    string          `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// Timeline groups contributions by UTC calendar day, orders the days
// ascending and accumulates a running balance. The input order does not matter.
func Timeline(contributions []models.Contribution) []Point {
	deltas := make(map[string]decimal.Decimal)
	for _, c := range contributions {
		day := c.Date.UTC().Format(dayLayout)
		deltas[day] = deltas[day].Add(c.Signed())
	}

	days := make([]string, 0, len(deltas))
	for day := range deltas {
		days = append(days, day)
	}
	sort.Strings(days)

	points := make([]Point, 0, len(days))
	running := decimal.Zero
	for _, day := range days {
		running = running.Add(deltas[day])
		points = append(points, Point{Date: day, Balance: running})
	}
	return points
}

// SortByDateDesc orders contributions newest first, the display order.
func SortByDateDesc(contributions []models.Contribution) {
	sort.SliceStable(contributions, func(i, j int) bool {
		return contributions[i].Date.After(contributions[j].Date)
	})
}

// Allocated sums the declared category amounts.
func Allocated(categories []models.Category) decimal.Decimal {
	total := decimal.Zero
	for _, c := range categories {
		total = total.Add(c.Amount)
	}
	return total
}

// Unallocated is the part of the balance not claimed by any category.
func Unallocated(balance decimal.Decimal, categories []models.Category) decimal.Decimal {
	return balance.Sub(Allocated(categories))
}

// MonthlyInterest estimates one month of interest across accounts,
// treating each account's interest as an annual fraction.
func MonthlyInterest(accounts []models.Account) decimal.Decimal {
	total := decimal.Zero
	for _, a := range accounts {
		total = total.Add(a.Balance.Mul(a.Interest).Div(monthsPerYear))
	}
	return total
}

// SeedContribution builds the opening ledger entry for a cash-like account.
// A negative opening balance (a credit line already drawn) is recorded as
// a withdrawal so that every stored amount stays positive.
func SeedContribution(balance decimal.Decimal, at time.Time) models.Contribution {
	seed := models.Contribution{
		Amount: balance,
		Type:   models.ContributionTypeDeposit,
		Date:   at,
	}
	if balance.IsNegative() {
		seed.Amount = balance.Neg()
		seed.Type = models.ContributionTypeWithdrawal
	}
	return seed
}
