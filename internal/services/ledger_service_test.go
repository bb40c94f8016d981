package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"networth/internal/ledger"
	"networth/internal/models"
	"networth/internal/testutil"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertLedgerConsistent checks the stored balance against the surviving contributions.
func assertLedgerConsistent(t *testing.T, db *gorm.DB, accountID string) {
	t.Helper()

	var account models.Account
	if err := db.First(&account, "id = ?", accountID).Error; err != nil {
		t.Fatalf("failed to load account: %v", err)
	}
	var contributions []models.Contribution
	if err := db.Where("account_id = ?", accountID).Find(&contributions).Error; err != nil {
		t.Fatalf("failed to load contributions: %v", err)
	}
	if want := ledger.Balance(contributions); !account.Balance.Equal(want) {
		t.Errorf("stored balance %s does not match ledger sum %s", account.Balance, want)
	}
}

func TestAddContribution(t *testing.T) {
	t.Run("deposit_recomputes_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db)
		userID := testutil.NewUserID()
		account := testutil.CreateTestAccount(t, db, userID, models.AccountTypeSavings, "1000")

		updated, err := svc.AddContribution(userID, account.ID, dec("200"), models.ContributionTypeDeposit, nil)
		testutil.AssertNoError(t, err)

		testutil.AssertDecimal(t, updated.Balance, "1200")
		if len(updated.Contributions) != 2 {
			t.Errorf("expected 2 contributions, got %d", len(updated.Contributions))
		}
		assertLedgerConsistent(t, db, account.ID)
	})

	t.Run("empty_type_defaults_to_deposit", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db)
		userID := testutil.NewUserID()
		account := testutil.CreateTestAccount(t, db, userID, models.AccountTypeSavings, "10")

		updated, err := svc.AddContribution(userID, account.ID, dec("5"), "", nil)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, updated.Balance, "15")
	})

	t.Run("withdrawal_type_subtracts", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db)
		userID := testutil.NewUserID()
		account := testutil.CreateTestAccount(t, db, userID, models.AccountTypeCredit, "0")

		updated, err := svc.AddContribution(userID, account.ID, dec("75.50"), models.ContributionTypeWithdrawal, nil)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, updated.Balance, "-75.5")
		assertLedgerConsistent(t, db, account.ID)
	})

	t.Run("explicit_date_is_kept", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db)
		userID := testutil.NewUserID()
		account := testutil.CreateTestAccount(t, db, userID, models.AccountTypeSavings, "10")
		when := time.Date(2020, 6, 15, 0, 0, 0, 0, time.UTC)

		updated, err := svc.AddContribution(userID, account.ID, dec("1"), models.ContributionTypeDeposit, &when)
		testutil.AssertNoError(t, err)

		oldest := updated.Contributions[len(updated.Contributions)-1]
		if !oldest.Date.Equal(when) {
			t.Errorf("expected oldest contribution dated %v, got %v", when, oldest.Date)
		}
	})

	t.Run("invalid_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db)
		userID := testutil.NewUserID()
		account := testutil.CreateTestAccount(t, db, userID, models.AccountTypeSavings, "10")

		for _, amount := range []string{"0", "-5"} {
			_, err := svc.AddContribution(userID, account.ID, dec(amount), models.ContributionTypeDeposit, nil)
			testutil.AssertAppError(t, err, "INVALID_INPUT")
		}
	})

	t.Run("invalid_type", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db)
		userID := testutil.NewUserID()
		account := testutil.CreateTestAccount(t, db, userID, models.AccountTypeSavings, "10")

		_, err := svc.AddContribution(userID, account.ID, dec("1"), "transfer", nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("investment_account_rejected", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db)
		userID := testutil.NewUserID()
		account := testutil.CreateTestInvestmentAccount(t, db, userID)

		_, err := svc.AddContribution(userID, account.ID, dec("1"), models.ContributionTypeDeposit, nil)
		testutil.AssertAppError(t, err, "INVESTMENT_LEDGER")
	})

	t.Run("other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db)
		account := testutil.CreateTestAccount(t, db, testutil.NewUserID(), models.AccountTypeSavings, "10")

		_, err := svc.AddContribution(testutil.NewUserID(), account.ID, dec("1"), models.ContributionTypeDeposit, nil)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestWithdraw(t *testing.T) {
	t.Run("within_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db)
		userID := testutil.NewUserID()
		account := testutil.CreateTestAccount(t, db, userID, models.AccountTypeChecking, "500")

		updated, err := svc.Withdraw(userID, account.ID, dec("500"), nil)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, updated.Balance, "0")

		if updated.Contributions[0].Type != models.ContributionTypeWithdrawal {
			t.Errorf("expected newest contribution to be a withdrawal, got %s", updated.Contributions[0].Type)
		}
		assertLedgerConsistent(t, db, account.ID)
	})

	t.Run("insufficient_funds_leaves_ledger_unchanged", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db)
		userID := testutil.NewUserID()
		account := testutil.CreateTestAccount(t, db, userID, models.AccountTypeChecking, "100")

		_, err := svc.Withdraw(userID, account.ID, dec("100.01"), nil)
		testutil.AssertAppError(t, err, "INSUFFICIENT_FUNDS")

		var count int64
		db.Model(&models.Contribution{}).Where("account_id = ?", account.ID).Count(&count)
		if count != 1 {
			t.Errorf("expected ledger to keep 1 entry, got %d", count)
		}
		var stored models.Account
		db.First(&stored, "id = ?", account.ID)
		testutil.AssertDecimal(t, stored.Balance, "100")
	})

	t.Run("non_positive_amount", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db)
		userID := testutil.NewUserID()
		account := testutil.CreateTestAccount(t, db, userID, models.AccountTypeChecking, "100")

		_, err := svc.Withdraw(userID, account.ID, dec("0"), nil)
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db)
		account := testutil.CreateTestAccount(t, db, testutil.NewUserID(), models.AccountTypeChecking, "100")

		_, err := svc.Withdraw(testutil.NewUserID(), account.ID, dec("1"), nil)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestDeleteContribution(t *testing.T) {
	t.Run("recomputes_balance", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db)
		userID := testutil.NewUserID()
		account := testutil.CreateTestAccount(t, db, userID, models.AccountTypeSavings, "100")

		updated, err := svc.Withdraw(userID, account.ID, dec("30"), nil)
		testutil.AssertNoError(t, err)
		withdrawalID := updated.Contributions[0].ID

		updated, err = svc.DeleteContribution(userID, account.ID, withdrawalID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, updated.Balance, "100")
		assertLedgerConsistent(t, db, account.ID)
	})

	t.Run("missing_contribution", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db)
		userID := testutil.NewUserID()
		account := testutil.CreateTestAccount(t, db, userID, models.AccountTypeSavings, "100")

		_, err := svc.DeleteContribution(userID, account.ID, "0191c1d2-0000-7000-8000-000000000000")
		testutil.AssertAppError(t, err, "CONTRIBUTION_NOT_FOUND")
	})

	t.Run("contribution_of_another_account", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db)
		userID := testutil.NewUserID()
		first := testutil.CreateTestAccount(t, db, userID, models.AccountTypeSavings, "100")
		second := testutil.CreateTestAccount(t, db, userID, models.AccountTypeSavings, "50")

		var foreign models.Contribution
		db.Where("account_id = ?", second.ID).First(&foreign)

		_, err := svc.DeleteContribution(userID, first.ID, foreign.ID)
		testutil.AssertAppError(t, err, "CONTRIBUTION_NOT_FOUND")
	})

	t.Run("other_user", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		svc := NewLedgerService(db)
		ownerID := testutil.NewUserID()
		account := testutil.CreateTestAccount(t, db, ownerID, models.AccountTypeSavings, "100")

		var seed models.Contribution
		db.Where("account_id = ?", account.ID).First(&seed)

		_, err := svc.DeleteContribution(testutil.NewUserID(), account.ID, seed.ID)
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestLedgerScenario(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	accounts := NewAccountService(db)
	svc := NewLedgerService(db)
	userID := testutil.NewUserID()

	account, err := accounts.CreateAccount(userID, AccountInput{
		Institution: "Ally",
		Type:        models.AccountTypeSavings,
		Kind:        cashKind("1000"),
	})
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, account.Balance, "1000")
	if len(account.Contributions) != 1 {
		t.Fatalf("expected 1 seed contribution, got %d", len(account.Contributions))
	}

	later := time.Now().Add(time.Hour)
	account, err = svc.AddContribution(userID, account.ID, dec("200"), models.ContributionTypeDeposit, &later)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, account.Balance, "1200")
	depositID := account.Contributions[0].ID

	latest := time.Now().Add(2 * time.Hour)
	account, err = svc.Withdraw(userID, account.ID, dec("300"), &latest)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, account.Balance, "900")
	if len(account.Contributions) != 3 {
		t.Fatalf("expected 3 contributions, got %d", len(account.Contributions))
	}

	account, err = svc.DeleteContribution(userID, account.ID, depositID)
	testutil.AssertNoError(t, err)
	testutil.AssertDecimal(t, account.Balance, "700")
	if len(account.Contributions) != 2 {
		t.Errorf("expected 2 contributions, got %d", len(account.Contributions))
	}
	assertLedgerConsistent(t, db, account.ID)
}
