package projection

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func assertDecimals(t *testing.T, name string, got []decimal.Decimal, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: expected %d values, got %d (%v)", name, len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(decimal.RequireFromString(want[i])) {
			t.Errorf("%s[%d] = %s, want %s", name, i, got[i], want[i])
		}
	}
}

func TestStartOfMonth(t *testing.T) {
	got := StartOfMonth(time.Date(2024, 5, 17, 13, 45, 0, 0, time.UTC))
	if !got.Equal(date(2024, 5, 1)) {
		t.Errorf("StartOfMonth() = %v", got)
	}
}

func TestDefaultEnd(t *testing.T) {
	got := DefaultEnd(time.Date(2024, 5, 17, 13, 45, 0, 0, time.UTC))
	if !got.Equal(date(2024, 12, 31)) {
		t.Errorf("DefaultEnd() = %v", got)
	}
}

func TestMonths(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  []string
	}{
		{
			name:  "quarter",
			start: date(2024, 1, 1),
			end:   date(2024, 3, 31),
			want:  []string{"2024-01-01", "2024-02-01", "2024-03-01"},
		},
		{
			name:  "end_on_month_boundary",
			start: date(2024, 1, 1),
			end:   date(2024, 3, 1),
			want:  []string{"2024-01-01", "2024-02-01", "2024-03-01"},
		},
		{
			name:  "across_year_end",
			start: date(2024, 11, 1),
			end:   date(2025, 1, 15),
			want:  []string{"2024-11-01", "2024-12-01", "2025-01-01"},
		},
		{
			name:  "start_mid_month_is_truncated",
			start: date(2024, 1, 31),
			end:   date(2024, 2, 29),
			want:  []string{"2024-01-01", "2024-02-01"},
		},
		{
			name:  "end_before_start_yields_single_point",
			start: date(2024, 6, 1),
			end:   date(2023, 12, 31),
			want:  []string{"2024-06-01"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			months := Months(tt.start, tt.end)
			if len(months) != len(tt.want) {
				t.Fatalf("expected %d months, got %d: %v", len(tt.want), len(months), months)
			}
			for i, m := range months {
				if got := m.Format(LabelLayout); got != tt.want[i] {
					t.Errorf("month %d = %s, want %s", i, got, tt.want[i])
				}
			}
		})
	}
}

func TestCompute_SingleAccount(t *testing.T) {
	series := Compute(date(2024, 1, 1), date(2024, 3, 31), []Allocation{
		{AccountID: "x", StartingBalance: decimal.NewFromInt(500), MonthlyAmount: decimal.NewFromInt(100)},
	})

	if len(series.Labels) != 3 || series.Labels[0] != "2024-01-01" || series.Labels[2] != "2024-03-01" {
		t.Errorf("unexpected labels: %v", series.Labels)
	}
	if len(series.Accounts) != 1 {
		t.Fatalf("expected 1 account series, got %d", len(series.Accounts))
	}
	if series.Accounts[0].AccountID != "x" {
		t.Errorf("AccountID = %s, want x", series.Accounts[0].AccountID)
	}
	assertDecimals(t, "account", series.Accounts[0].Balances, "600", "700", "800")
	assertDecimals(t, "net worth", series.NetWorth, "600", "700", "800")
}

func TestCompute_MultipleAccounts(t *testing.T) {
	series := Compute(date(2024, 1, 1), date(2024, 2, 1), []Allocation{
		{AccountID: "a", StartingBalance: decimal.NewFromInt(1000), MonthlyAmount: decimal.NewFromInt(50)},
		{AccountID: "b", StartingBalance: decimal.Zero, MonthlyAmount: decimal.RequireFromString("12.5")},
	})

	assertDecimals(t, "a", series.Accounts[0].Balances, "1050", "1100")
	assertDecimals(t, "b", series.Accounts[1].Balances, "12.5", "25")
	assertDecimals(t, "net worth", series.NetWorth, "1062.5", "1125")
}

func TestCompute_NoAllocations(t *testing.T) {
	series := Compute(date(2024, 1, 1), date(2024, 4, 30), nil)

	if len(series.Accounts) != 0 {
		t.Errorf("expected no account series, got %d", len(series.Accounts))
	}
	assertDecimals(t, "net worth", series.NetWorth, "0", "0", "0", "0")
}

func TestCompute_EndBeforeStart(t *testing.T) {
	series := Compute(date(2024, 6, 1), date(2024, 1, 1), []Allocation{
		{AccountID: "a", StartingBalance: decimal.NewFromInt(10), MonthlyAmount: decimal.NewFromInt(5)},
	})

	if len(series.Labels) != 1 || series.Labels[0] != "2024-06-01" {
		t.Errorf("unexpected labels: %v", series.Labels)
	}
	assertDecimals(t, "a", series.Accounts[0].Balances, "15")
}

func TestMonths_BoundedHorizon(t *testing.T) {
	start := date(2024, 1, 17)

	months := Months(start, date(9999, 12, 31))

	if len(months) != MaxHorizonYears*12+1 {
		t.Fatalf("expected %d months, got %d", MaxHorizonYears*12+1, len(months))
	}
	if last := months[len(months)-1]; !last.Equal(HorizonLimit(start)) {
		t.Errorf("expected last month %s, got %s", HorizonLimit(start), last)
	}
	if !HorizonLimit(start).Equal(date(2124, 1, 1)) {
		t.Errorf("unexpected horizon limit %s", HorizonLimit(start))
	}
}
