package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/services"
)

// --- mock ledger service ---

type mockLedgerService struct {
	addContributionFn    func(userID, accountID string, amount decimal.Decimal, contributionType models.ContributionType, date *time.Time) (*models.Account, error)
	withdrawFn           func(userID, accountID string, amount decimal.Decimal, date *time.Time) (*models.Account, error)
	deleteContributionFn func(userID, accountID, contributionID string) (*models.Account, error)
}

func (m *mockLedgerService) AddContribution(userID, accountID string, amount decimal.Decimal, contributionType models.ContributionType, date *time.Time) (*models.Account, error) {
	if m.addContributionFn != nil {
		return m.addContributionFn(userID, accountID, amount, contributionType, date)
	}
	return &models.Account{}, nil
}

func (m *mockLedgerService) Withdraw(userID, accountID string, amount decimal.Decimal, date *time.Time) (*models.Account, error) {
	if m.withdrawFn != nil {
		return m.withdrawFn(userID, accountID, amount, date)
	}
	return &models.Account{}, nil
}

func (m *mockLedgerService) DeleteContribution(userID, accountID, contributionID string) (*models.Account, error) {
	if m.deleteContributionFn != nil {
		return m.deleteContributionFn(userID, accountID, contributionID)
	}
	return &models.Account{}, nil
}

var _ services.LedgerServicer = (*mockLedgerService)(nil)

func setupLedgerRouter(handler *LedgerHandler) *gin.Engine {
	r := newTestRouter()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/accounts/:id/contributions", handler.AddContribution)
	auth.DELETE("/accounts/:id/contributions/:contributionId", handler.DeleteContribution)
	auth.POST("/accounts/:id/withdraw", handler.Withdraw)
	return r
}

func TestLedgerHandler_AddContribution(t *testing.T) {
	t.Run("returns 201 and passes amount, type and date", func(t *testing.T) {
		var gotAmount decimal.Decimal
		var gotType models.ContributionType
		var gotDate *time.Time
		svc := &mockLedgerService{
			addContributionFn: func(_, accountID string, amount decimal.Decimal, ct models.ContributionType, date *time.Time) (*models.Account, error) {
				gotAmount, gotType, gotDate = amount, ct, date
				return &models.Account{Base: models.Base{ID: accountID}, Balance: decimal.NewFromInt(1200)}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupLedgerRouter(NewLedgerHandler(svc, audit))

		rec := doRequest(r, "POST", "/accounts/"+testAccountID+"/contributions",
			`{"amount":"200.25","type":"deposit","date":"2024-02-01"}`)

		assertStatus(t, rec, http.StatusCreated)
		if !gotAmount.Equal(decimal.RequireFromString("200.25")) {
			t.Errorf("expected 200.25, got %s", gotAmount)
		}
		if gotType != models.ContributionTypeDeposit {
			t.Errorf("expected deposit, got %s", gotType)
		}
		if gotDate == nil || gotDate.Format("2006-01-02") != "2024-02-01" {
			t.Errorf("expected 2024-02-01, got %v", gotDate)
		}
		acct := parseJSON(t, rec)["account"].(map[string]interface{})
		if acct["balance"] != float64(1200) {
			t.Errorf("expected balance 1200, got %v", acct["balance"])
		}
		if len(audit.entries) != 1 || audit.entries[0].Action != "ADD_CONTRIBUTION" {
			t.Errorf("expected ADD_CONTRIBUTION audit entry, got %+v", audit.entries)
		}
	})

	t.Run("type and date are optional", func(t *testing.T) {
		var gotType models.ContributionType
		var gotDate *time.Time
		svc := &mockLedgerService{
			addContributionFn: func(_, _ string, _ decimal.Decimal, ct models.ContributionType, date *time.Time) (*models.Account, error) {
				gotType, gotDate = ct, date
				return &models.Account{}, nil
			},
		}
		r := setupLedgerRouter(NewLedgerHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/accounts/"+testAccountID+"/contributions", `{"amount":5}`)

		assertStatus(t, rec, http.StatusCreated)
		if gotType != "" || gotDate != nil {
			t.Errorf("expected empty type and nil date, got %q %v", gotType, gotDate)
		}
	})

	t.Run("returns 400 on missing amount", func(t *testing.T) {
		r := setupLedgerRouter(NewLedgerHandler(&mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/accounts/"+testAccountID+"/contributions", `{"type":"deposit"}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on unknown type", func(t *testing.T) {
		r := setupLedgerRouter(NewLedgerHandler(&mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/accounts/"+testAccountID+"/contributions", `{"amount":5,"type":"transfer"}`)

		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("returns 400 on bad date", func(t *testing.T) {
		r := setupLedgerRouter(NewLedgerHandler(&mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/accounts/"+testAccountID+"/contributions", `{"amount":5,"date":"yesterday"}`)

		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("returns 400 for investment accounts", func(t *testing.T) {
		svc := &mockLedgerService{
			addContributionFn: func(_, _ string, _ decimal.Decimal, _ models.ContributionType, _ *time.Time) (*models.Account, error) {
				return nil, apperrors.ErrInvestmentLedger
			},
		}
		r := setupLedgerRouter(NewLedgerHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/accounts/"+testAccountID+"/contributions", `{"amount":5}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVESTMENT_LEDGER")
	})
}

func TestLedgerHandler_Withdraw(t *testing.T) {
	t.Run("returns 201", func(t *testing.T) {
		var gotAmount decimal.Decimal
		svc := &mockLedgerService{
			withdrawFn: func(_, _ string, amount decimal.Decimal, _ *time.Time) (*models.Account, error) {
				gotAmount = amount
				return &models.Account{}, nil
			},
		}
		r := setupLedgerRouter(NewLedgerHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/accounts/"+testAccountID+"/withdraw", `{"amount":300}`)

		assertStatus(t, rec, http.StatusCreated)
		if !gotAmount.Equal(decimal.NewFromInt(300)) {
			t.Errorf("expected 300, got %s", gotAmount)
		}
	})

	t.Run("returns 400 on insufficient funds", func(t *testing.T) {
		svc := &mockLedgerService{
			withdrawFn: func(_, _ string, _ decimal.Decimal, _ *time.Time) (*models.Account, error) {
				return nil, apperrors.ErrInsufficientFunds
			},
		}
		audit := &mockAuditService{}
		r := setupLedgerRouter(NewLedgerHandler(svc, audit))

		rec := doRequest(r, "POST", "/accounts/"+testAccountID+"/withdraw", `{"amount":1000000}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INSUFFICIENT_FUNDS")
		if len(audit.entries) != 0 {
			t.Errorf("expected no audit entry for a rejected withdrawal, got %+v", audit.entries)
		}
	})
}

func TestLedgerHandler_DeleteContribution(t *testing.T) {
	t.Run("returns 200", func(t *testing.T) {
		var gotID string
		svc := &mockLedgerService{
			deleteContributionFn: func(_, _, contributionID string) (*models.Account, error) {
				gotID = contributionID
				return &models.Account{}, nil
			},
		}
		r := setupLedgerRouter(NewLedgerHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/accounts/"+testAccountID+"/contributions/"+testOtherID, "")

		assertStatus(t, rec, http.StatusOK)
		if gotID != testOtherID {
			t.Errorf("expected %s, got %s", testOtherID, gotID)
		}
	})

	t.Run("returns 404 when missing", func(t *testing.T) {
		svc := &mockLedgerService{
			deleteContributionFn: func(_, _, _ string) (*models.Account, error) {
				return nil, apperrors.ErrContributionNotFound
			},
		}
		r := setupLedgerRouter(NewLedgerHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/accounts/"+testAccountID+"/contributions/"+testOtherID, "")

		assertStatus(t, rec, http.StatusNotFound)
		assertErrorCode(t, parseJSON(t, rec), "CONTRIBUTION_NOT_FOUND")
	})

	t.Run("returns 400 on malformed contribution id", func(t *testing.T) {
		r := setupLedgerRouter(NewLedgerHandler(&mockLedgerService{}, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/accounts/"+testAccountID+"/contributions/abc", "")

		assertStatus(t, rec, http.StatusBadRequest)
	})
}
