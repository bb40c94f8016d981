package services

import (
	"testing"
	"time"

	"gorm.io/gorm"

	"networth/internal/models"
	"networth/internal/pagination"
	"networth/internal/testutil"
)

func newTestProjectionService(db *gorm.DB, now time.Time) *projectionService {
	return &projectionService{db: db, now: func() time.Time { return now }}
}

func TestCreateProjection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewProjectionService(db)
	userID := testutil.NewUserID()
	account := testutil.CreateTestAccount(t, db, userID, models.AccountTypeSavings, "500")
	foreign := testutil.CreateTestAccount(t, db, testutil.NewUserID(), models.AccountTypeSavings, "500")

	t.Run("valid", func(t *testing.T) {
		income := dec("5000")
		p, err := svc.CreateProjection(userID, ProjectionInput{
			Name:        "Retirement",
			Income:      &income,
			Expenses:    dec("3000"),
			UseNetWorth: true,
			Allocations: []AllocationInput{{AccountID: account.ID, MonthlyAmount: dec("100")}},
		})
		testutil.AssertNoError(t, err)

		if p.ID == "" || p.Name != "Retirement" {
			t.Errorf("unexpected projection: %+v", p)
		}
		if !p.Income.Valid {
			t.Error("expected income to be stored")
		}
		if len(p.Allocations) != 1 || p.Allocations[0].ProjectionID != p.ID {
			t.Errorf("expected 1 linked allocation, got %+v", p.Allocations)
		}
	})

	t.Run("name_required", func(t *testing.T) {
		_, err := svc.CreateProjection(userID, ProjectionInput{})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("duplicate_account", func(t *testing.T) {
		_, err := svc.CreateProjection(userID, ProjectionInput{
			Name: "Dup",
			Allocations: []AllocationInput{
				{AccountID: account.ID, MonthlyAmount: dec("1")},
				{AccountID: account.ID, MonthlyAmount: dec("2")},
			},
		})
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})

	t.Run("foreign_account", func(t *testing.T) {
		_, err := svc.CreateProjection(userID, ProjectionInput{
			Name:        "Theirs",
			Allocations: []AllocationInput{{AccountID: foreign.ID, MonthlyAmount: dec("1")}},
		})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})

	t.Run("foreign_starting_allocation", func(t *testing.T) {
		_, err := svc.CreateProjection(userID, ProjectionInput{
			Name:                "Theirs",
			StartingAllocations: []StartingAllocationInput{{AccountID: foreign.ID, StartingBalance: dec("1")}},
		})
		testutil.AssertAppError(t, err, "ACCOUNT_NOT_FOUND")
	})
}

func TestCreateProjection_HorizonLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := newTestProjectionService(db, time.Date(2024, 1, 17, 12, 0, 0, 0, time.UTC))
	userID := testutil.NewUserID()

	farFuture := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
	_, err := svc.CreateProjection(userID, ProjectionInput{Name: "Forever", EndDate: &farFuture})
	testutil.AssertAppError(t, err, "INVALID_INPUT")

	atLimit := time.Date(2124, 1, 1, 0, 0, 0, 0, time.UTC)
	p, err := svc.CreateProjection(userID, ProjectionInput{Name: "Century", EndDate: &atLimit})
	testutil.AssertNoError(t, err)

	_, err = svc.UpdateProjection(userID, p.ID, ProjectionInput{Name: "Century", EndDate: &farFuture})
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestGetUserProjections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewProjectionService(db)
	userID := testutil.NewUserID()

	first := testutil.CreateTestProjection(t, db, userID, "1")
	time.Sleep(2 * time.Millisecond)
	second := testutil.CreateTestProjection(t, db, userID, "1")
	testutil.CreateTestProjection(t, db, testutil.NewUserID(), "1")

	result, err := svc.GetUserProjections(userID, pagination.PageRequest{})
	testutil.AssertNoError(t, err)

	if result.TotalItems != 2 {
		t.Fatalf("expected 2 projections, got %d", result.TotalItems)
	}
	if result.Data[0].ID != second.ID || result.Data[1].ID != first.ID {
		t.Error("expected newest projection first")
	}
}

func TestGetProjection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	now := time.Date(2024, 1, 17, 9, 30, 0, 0, time.UTC)
	svc := newTestProjectionService(db, now)
	userID := testutil.NewUserID()

	account := testutil.CreateTestAccount(t, db, userID, models.AccountTypeSavings, "500")
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	t.Run("linear_extrapolation", func(t *testing.T) {
		p, err := svc.CreateProjection(userID, ProjectionInput{
			Name:        "Quarter",
			EndDate:     &end,
			Allocations: []AllocationInput{{AccountID: account.ID, MonthlyAmount: dec("100")}},
		})
		testutil.AssertNoError(t, err)

		result, err := svc.GetProjection(userID, p.ID)
		testutil.AssertNoError(t, err)

		want := []string{"2024-01-01", "2024-02-01", "2024-03-01"}
		if len(result.Labels) != len(want) {
			t.Fatalf("expected %d labels, got %v", len(want), result.Labels)
		}
		for i := range want {
			if result.Labels[i] != want[i] {
				t.Errorf("label %d = %s, want %s", i, result.Labels[i], want[i])
			}
		}
		for i, v := range []string{"600", "700", "800"} {
			testutil.AssertDecimal(t, result.Accounts[0].Balances[i], v)
			testutil.AssertDecimal(t, result.NetWorth[i], v)
		}
		if result.Accounts[0].Name != account.Name {
			t.Errorf("expected series named %s, got %s", account.Name, result.Accounts[0].Name)
		}
	})

	t.Run("default_end_is_year_end", func(t *testing.T) {
		p := testutil.CreateTestProjection(t, db, userID, "10", account.ID)

		result, err := svc.GetProjection(userID, p.ID)
		testutil.AssertNoError(t, err)
		if len(result.Labels) != 12 || result.Labels[11] != "2024-12-01" {
			t.Errorf("expected Jan through Dec 2024, got %v", result.Labels)
		}
	})

	t.Run("reflects_current_balance", func(t *testing.T) {
		p := testutil.CreateTestProjection(t, db, userID, "100", account.ID)
		db.Model(&models.Account{}).Where("id = ?", account.ID).Update("balance", dec("1000"))

		result, err := svc.GetProjection(userID, p.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, result.NetWorth[0], "1100")
	})

	t.Run("deleted_account_starts_from_zero", func(t *testing.T) {
		gone := testutil.CreateTestAccount(t, db, userID, models.AccountTypeSavings, "900")
		p := testutil.CreateTestProjection(t, db, userID, "50", gone.ID)
		db.Delete(&models.Account{}, "id = ?", gone.ID)

		result, err := svc.GetProjection(userID, p.ID)
		testutil.AssertNoError(t, err)
		testutil.AssertDecimal(t, result.Accounts[0].Balances[0], "50")
		testutil.AssertDecimal(t, result.Accounts[0].Balances[1], "100")
	})

	t.Run("end_before_start_gives_one_point", func(t *testing.T) {
		past := time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC)
		p, err := svc.CreateProjection(userID, ProjectionInput{Name: "Past", EndDate: &past})
		testutil.AssertNoError(t, err)

		result, err := svc.GetProjection(userID, p.ID)
		testutil.AssertNoError(t, err)
		if len(result.Labels) != 1 || result.Labels[0] != "2024-01-01" {
			t.Errorf("expected only the current month, got %v", result.Labels)
		}
		testutil.AssertDecimal(t, result.NetWorth[0], "0")
	})

	t.Run("other_user", func(t *testing.T) {
		p := testutil.CreateTestProjection(t, db, userID, "1")
		_, err := svc.GetProjection(testutil.NewUserID(), p.ID)
		testutil.AssertAppError(t, err, "PROJECTION_NOT_FOUND")
	})
}

func TestUpdateProjection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewProjectionService(db)
	userID := testutil.NewUserID()
	first := testutil.CreateTestAccount(t, db, userID, models.AccountTypeSavings, "1")
	second := testutil.CreateTestAccount(t, db, userID, models.AccountTypeChecking, "2")
	p := testutil.CreateTestProjection(t, db, userID, "10", first.ID)

	updated, err := svc.UpdateProjection(userID, p.ID, ProjectionInput{
		Name:                "Renamed",
		Allocations:         []AllocationInput{{AccountID: second.ID, MonthlyAmount: dec("25")}},
		StartingAllocations: []StartingAllocationInput{{AccountID: first.ID, StartingBalance: dec("7")}},
	})
	testutil.AssertNoError(t, err)

	if updated.Name != "Renamed" {
		t.Errorf("expected name Renamed, got %s", updated.Name)
	}
	if len(updated.Allocations) != 1 || updated.Allocations[0].AccountID != second.ID {
		t.Fatalf("expected allocations replaced, got %+v", updated.Allocations)
	}
	testutil.AssertDecimal(t, updated.Allocations[0].MonthlyAmount, "25")
	if len(updated.StartingAllocations) != 1 {
		t.Errorf("expected 1 starting allocation, got %d", len(updated.StartingAllocations))
	}

	var allocations int64
	db.Model(&models.ProjectionAllocation{}).Where("projection_id = ?", p.ID).Count(&allocations)
	if allocations != 1 {
		t.Errorf("expected old allocations removed, found %d", allocations)
	}

	_, err = svc.UpdateProjection(testutil.NewUserID(), p.ID, ProjectionInput{Name: "Theirs"})
	testutil.AssertAppError(t, err, "PROJECTION_NOT_FOUND")
}

func TestDeleteProjection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	svc := NewProjectionService(db)
	userID := testutil.NewUserID()
	account := testutil.CreateTestAccount(t, db, userID, models.AccountTypeSavings, "1")
	p := testutil.CreateTestProjection(t, db, userID, "10", account.ID)

	err := svc.DeleteProjection(testutil.NewUserID(), p.ID)
	testutil.AssertAppError(t, err, "PROJECTION_NOT_FOUND")

	testutil.AssertNoError(t, svc.DeleteProjection(userID, p.ID))

	_, err = svc.GetProjection(userID, p.ID)
	testutil.AssertAppError(t, err, "PROJECTION_NOT_FOUND")

	var allocations int64
	db.Model(&models.ProjectionAllocation{}).Where("projection_id = ?", p.ID).Count(&allocations)
	if allocations != 0 {
		t.Errorf("expected allocations removed, found %d", allocations)
	}
}
