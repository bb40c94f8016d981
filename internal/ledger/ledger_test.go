package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"networth/internal/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func contribution(amount string, typ models.ContributionType, date string) models.Contribution {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	return models.Contribution{Amount: dec(amount), Type: typ, Date: d}
}

func TestBalance(t *testing.T) {
	tests := []struct {
		name          string
		contributions []models.Contribution
		want          string
	}{
		{name: "empty", want: "0"},
		{
			name: "deposits_only",
			contributions: []models.Contribution{
				contribution("1000", models.ContributionTypeDeposit, "2024-01-01"),
				contribution("200.50", models.ContributionTypeDeposit, "2024-01-02"),
			},
			want: "1200.5",
		},
		{
			name: "mixed",
			contributions: []models.Contribution{
				contribution("1000", models.ContributionTypeDeposit, "2024-01-01"),
				contribution("300", models.ContributionTypeWithdrawal, "2024-01-03"),
				contribution("200", models.ContributionTypeDeposit, "2024-01-02"),
			},
			want: "900",
		},
		{
			name: "overdrawn",
			contributions: []models.Contribution{
				contribution("50", models.ContributionTypeWithdrawal, "2024-01-01"),
			},
			want: "-50",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Balance(tt.contributions)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("Balance() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestBalance_OrderIndependent(t *testing.T) {
	a := []models.Contribution{
		contribution("10", models.ContributionTypeDeposit, "2024-01-01"),
		contribution("3", models.ContributionTypeWithdrawal, "2024-02-01"),
		contribution("7.25", models.ContributionTypeDeposit, "2024-03-01"),
	}
	b := []models.Contribution{a[2], a[0], a[1]}

	if !Balance(a).Equal(Balance(b)) {
		t.Errorf("balance depends on order: %s vs %s", Balance(a), Balance(b))
	}
}

func TestCanWithdraw(t *testing.T) {
	ledger := []models.Contribution{
		contribution("100", models.ContributionTypeDeposit, "2024-01-01"),
	}
	if !CanWithdraw(ledger, dec("100")) {
		t.Error("expected withdrawal of the full balance to be allowed")
	}
	if CanWithdraw(ledger, dec("100.01")) {
		t.Error("expected withdrawal above the balance to be refused")
	}
}

func TestTimeline(t *testing.T) {
	contributions := []models.Contribution{
		contribution("300", models.ContributionTypeWithdrawal, "2024-01-05"),
		contribution("1000", models.ContributionTypeDeposit, "2024-01-01"),
		contribution("200", models.ContributionTypeDeposit, "2024-01-05"),
		contribution("50", models.ContributionTypeDeposit, "2024-01-03"),
	}

	points := Timeline(contributions)

	want := []Point{
		{Date: "2024-01-01", Balance: dec("1000")},
		{Date: "2024-01-03", Balance: dec("1050")},
		{Date: "2024-01-05", Balance: dec("950")},
	}
	if len(points) != len(want) {
		t.Fatalf("expected %d points, got %d: %v", len(want), len(points), points)
	}
	for i := range want {
		if points[i].Date != want[i].Date || !points[i].Balance.Equal(want[i].Balance) {
			t.Errorf("point %d = %s %s, want %s %s", i, points[i].Date, points[i].Balance, want[i].Date, want[i].Balance)
		}
	}
}

func TestTimeline_Empty(t *testing.T) {
	if points := Timeline(nil); len(points) != 0 {
		t.Errorf("expected no points, got %v", points)
	}
}

func TestSortByDateDesc(t *testing.T) {
	contributions := []models.Contribution{
		contribution("1", models.ContributionTypeDeposit, "2024-01-01"),
		contribution("3", models.ContributionTypeDeposit, "2024-03-01"),
		contribution("2", models.ContributionTypeDeposit, "2024-02-01"),
	}
	SortByDateDesc(contributions)

	for i, want := range []string{"3", "2", "1"} {
		if !contributions[i].Amount.Equal(dec(want)) {
			t.Errorf("position %d = %s, want %s", i, contributions[i].Amount, want)
		}
	}
}

func TestUnallocated(t *testing.T) {
	categories := []models.Category{
		{Name: "Rent", Amount: dec("400")},
		{Name: "Travel", Amount: dec("150.25")},
	}
	got := Unallocated(dec("1000"), categories)
	if !got.Equal(dec("449.75")) {
		t.Errorf("Unallocated() = %s, want 449.75", got)
	}
}

func TestMonthlyInterest(t *testing.T) {
	accounts := []models.Account{
		{Balance: dec("12000"), Interest: dec("0.015")},
		{Balance: dec("500"), Interest: decimal.Zero},
	}
	got := MonthlyInterest(accounts)
	if !got.Equal(dec("15")) {
		t.Errorf("MonthlyInterest() = %s, want 15", got)
	}
}

func TestSeedContribution(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("positive_balance_is_deposit", func(t *testing.T) {
		seed := SeedContribution(dec("1000"), at)
		if seed.Type != models.ContributionTypeDeposit || !seed.Amount.Equal(dec("1000")) {
			t.Errorf("got %s %s", seed.Type, seed.Amount)
		}
		if !seed.Date.Equal(at) {
			t.Errorf("expected seed dated %v, got %v", at, seed.Date)
		}
	})

	t.Run("zero_balance_is_deposit", func(t *testing.T) {
		seed := SeedContribution(decimal.Zero, at)
		if seed.Type != models.ContributionTypeDeposit || !seed.Amount.IsZero() {
			t.Errorf("got %s %s", seed.Type, seed.Amount)
		}
	})

	t.Run("negative_balance_is_withdrawal", func(t *testing.T) {
		seed := SeedContribution(dec("-250"), at)
		if seed.Type != models.ContributionTypeWithdrawal || !seed.Amount.Equal(dec("250")) {
			t.Errorf("got %s %s", seed.Type, seed.Amount)
		}
		if !Balance([]models.Contribution{seed}).Equal(dec("-250")) {
			t.Error("seeded ledger should reproduce the opening balance")
		}
	})
}
