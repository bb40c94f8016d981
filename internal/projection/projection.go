// Package projection extrapolates account balances month by month from a
// fixed monthly allocation per account.
package projection

import (
	"time"

	"github.com/shopspring/decimal"
)

// LabelLayout is the date format used for series labels.
const LabelLayout = "2006-01-02"

// Allocation is one account's starting balance and the amount added to it
// every month.
type Allocation struct {
	AccountID       string
	Name            string
	StartingBalance decimal.Decimal
	MonthlyAmount   decimal.Decimal
}

// AccountSeries is the projected balance of one account for each label.
type AccountSeries struct {
	AccountID string            `json:"account_id"`
	Name      string            `json:"name"`
	Balances  []decimal.Decimal `json:"balances"`
}

// Series is the computed output of a projection.
type Series struct {
	Labels   []string          `json:"labels"`
	NetWorth []decimal.Decimal `json:"net_worth"`
	Accounts []AccountSeries   `json:"accounts"`
}

// StartOfMonth returns midnight UTC on the first day of t's month.
func StartOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// DefaultEnd returns December 31 of now's year.
func DefaultEnd(now time.Time) time.Time {
	return time.Date(now.UTC().Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
}

// MaxHorizonYears bounds how far past the current month a projection may run.
const MaxHorizonYears = 100

// HorizonLimit returns the latest end date a projection may have at now.
func HorizonLimit(now time.Time) time.Time {
	return StartOfMonth(now).AddDate(MaxHorizonYears, 0, 0)
}

// Months returns the first day of every month from start through end
// inclusive, at most MaxHorizonYears*12+1 of them. The result always holds at
// least the start month, even when end falls before it.
func Months(start, end time.Time) []time.Time {
	start = StartOfMonth(start)
	if limit := start.AddDate(MaxHorizonYears, 0, 0); end.After(limit) {
		end = limit
	}
	var months []time.Time
	for dt := start; !dt.After(end); dt = dt.AddDate(0, 1, 0) {
		months = append(months, dt)
	}
	if len(months) == 0 {
		months = append(months, start)
	}
	return months
}

// Compute builds the per-account and net-worth series between start and end.
// Month i holds StartingBalance + (i+1) * MonthlyAmount for each allocation.
func Compute(start, end time.Time, allocations []Allocation) Series {
	months := Months(start, end)

	series := Series{
		Labels:   make([]string, len(months)),
		NetWorth: make([]decimal.Decimal, len(months)),
		Accounts: make([]AccountSeries, 0, len(allocations)),
	}
	for i, m := range months {
		series.Labels[i] = m.Format(LabelLayout)
		series.NetWorth[i] = decimal.Zero
	}

	for _, a := range allocations {
		balances := make([]decimal.Decimal, len(months))
		running := a.StartingBalance
		for i := range months {
			running = running.Add(a.MonthlyAmount)
			balances[i] = running
			series.NetWorth[i] = series.NetWorth[i].Add(running)
		}
		series.Accounts = append(series.Accounts, AccountSeries{
			AccountID: a.AccountID,
			Name:      a.Name,
			Balances:  balances,
		})
	}

	return series
}
