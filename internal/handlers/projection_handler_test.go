package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "networth/internal/errors"
	"networth/internal/models"
	"networth/internal/pagination"
	"networth/internal/projection"
	"networth/internal/services"
)

// --- mock projection service ---

type mockProjectionService struct {
	createProjectionFn   func(userID string, input services.ProjectionInput) (*models.Projection, error)
	getUserProjectionsFn func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Projection], error)
	getProjectionFn      func(userID, projectionID string) (*services.ProjectionResult, error)
	updateProjectionFn   func(userID, projectionID string, input services.ProjectionInput) (*models.Projection, error)
	deleteProjectionFn   func(userID, projectionID string) error
}

func (m *mockProjectionService) CreateProjection(userID string, input services.ProjectionInput) (*models.Projection, error) {
	if m.createProjectionFn != nil {
		return m.createProjectionFn(userID, input)
	}
	return &models.Projection{}, nil
}

func (m *mockProjectionService) GetUserProjections(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Projection], error) {
	if m.getUserProjectionsFn != nil {
		return m.getUserProjectionsFn(userID, page)
	}
	resp := pagination.NewPageResponse([]models.Projection{}, 1, 20, 0)
	return &resp, nil
}

func (m *mockProjectionService) GetProjection(userID, projectionID string) (*services.ProjectionResult, error) {
	if m.getProjectionFn != nil {
		return m.getProjectionFn(userID, projectionID)
	}
	return &services.ProjectionResult{Projection: &models.Projection{}}, nil
}

func (m *mockProjectionService) UpdateProjection(userID, projectionID string, input services.ProjectionInput) (*models.Projection, error) {
	if m.updateProjectionFn != nil {
		return m.updateProjectionFn(userID, projectionID, input)
	}
	return &models.Projection{}, nil
}

func (m *mockProjectionService) DeleteProjection(userID, projectionID string) error {
	if m.deleteProjectionFn != nil {
		return m.deleteProjectionFn(userID, projectionID)
	}
	return nil
}

var _ services.ProjectionServicer = (*mockProjectionService)(nil)

func setupProjectionRouter(handler *ProjectionHandler) *gin.Engine {
	r := newTestRouter()
	auth := r.Group("", injectUserID(testUserID))
	auth.POST("/projections", handler.CreateProjection)
	auth.GET("/projections", handler.GetUserProjections)
	auth.GET("/projections/:id", handler.GetProjection)
	auth.PUT("/projections/:id", handler.UpdateProjection)
	auth.DELETE("/projections/:id", handler.DeleteProjection)
	return r
}

func TestProjectionHandler_CreateProjection(t *testing.T) {
	t.Run("maps the request into service input", func(t *testing.T) {
		var got services.ProjectionInput
		svc := &mockProjectionService{
			createProjectionFn: func(_ string, input services.ProjectionInput) (*models.Projection, error) {
				got = input
				return &models.Projection{Base: models.Base{ID: testOtherID}, Name: input.Name}, nil
			},
		}
		r := setupProjectionRouter(NewProjectionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/projections", `{
			"name":"Retirement",
			"income":5000,
			"end_date":"2030-12-31",
			"use_net_worth":true,
			"allocations":[{"account_id":"`+testAccountID+`","monthly_amount":250}],
			"starting_allocations":[{"account_id":"`+testAccountID+`","starting_balance":1000}]
		}`)

		assertStatus(t, rec, http.StatusCreated)
		if got.Name != "Retirement" || !got.UseNetWorth {
			t.Errorf("unexpected input: %+v", got)
		}
		if got.Income == nil || !got.Income.Equal(decimal.NewFromInt(5000)) {
			t.Errorf("expected income 5000, got %v", got.Income)
		}
		if !got.Expenses.IsZero() {
			t.Errorf("expected zero expenses, got %s", got.Expenses)
		}
		if got.EndDate == nil || got.EndDate.Year() != 2030 {
			t.Errorf("expected end date in 2030, got %v", got.EndDate)
		}
		if len(got.Allocations) != 1 || !got.Allocations[0].MonthlyAmount.Equal(decimal.NewFromInt(250)) {
			t.Errorf("unexpected allocations: %+v", got.Allocations)
		}
		if len(got.StartingAllocations) != 1 {
			t.Errorf("expected 1 starting allocation, got %d", len(got.StartingAllocations))
		}
	})

	t.Run("returns 400 on allocation without account", func(t *testing.T) {
		r := setupProjectionRouter(NewProjectionHandler(&mockProjectionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/projections", `{"name":"X","allocations":[{"monthly_amount":1}]}`)

		assertStatus(t, rec, http.StatusBadRequest)
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on bad end date", func(t *testing.T) {
		r := setupProjectionRouter(NewProjectionHandler(&mockProjectionService{}, &mockAuditService{}))

		rec := doRequest(r, "POST", "/projections", `{"name":"X","end_date":"someday"}`)

		assertStatus(t, rec, http.StatusBadRequest)
	})

	t.Run("returns 404 for a foreign account", func(t *testing.T) {
		svc := &mockProjectionService{
			createProjectionFn: func(_ string, _ services.ProjectionInput) (*models.Projection, error) {
				return nil, apperrors.ErrAccountNotFound
			},
		}
		r := setupProjectionRouter(NewProjectionHandler(svc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/projections",
			`{"name":"X","allocations":[{"account_id":"`+testAccountID+`","monthly_amount":1}]}`)

		assertStatus(t, rec, http.StatusNotFound)
	})
}

func TestProjectionHandler_GetProjection(t *testing.T) {
	svc := &mockProjectionService{
		getProjectionFn: func(_, projectionID string) (*services.ProjectionResult, error) {
			return &services.ProjectionResult{
				Projection: &models.Projection{Base: models.Base{ID: projectionID}, Name: "Quarter"},
				Series: projection.Series{
					Labels:   []string{"2024-01-01", "2024-02-01"},
					NetWorth: []decimal.Decimal{decimal.NewFromInt(600), decimal.NewFromInt(700)},
					Accounts: []projection.AccountSeries{},
				},
			}, nil
		},
	}
	r := setupProjectionRouter(NewProjectionHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "GET", "/projections/"+testOtherID, "")

	assertStatus(t, rec, http.StatusOK)
	result := parseJSON(t, rec)
	p := result["projection"].(map[string]interface{})
	if p["name"] != "Quarter" {
		t.Errorf("expected Quarter, got %v", p["name"])
	}
	labels := result["labels"].([]interface{})
	netWorth := result["net_worth"].([]interface{})
	if len(labels) != 2 || netWorth[1] != float64(700) {
		t.Errorf("unexpected series: %v %v", labels, netWorth)
	}
}

func TestProjectionHandler_UpdateProjection(t *testing.T) {
	var gotID string
	svc := &mockProjectionService{
		updateProjectionFn: func(_, projectionID string, _ services.ProjectionInput) (*models.Projection, error) {
			gotID = projectionID
			return &models.Projection{}, nil
		},
	}
	r := setupProjectionRouter(NewProjectionHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "PUT", "/projections/"+testOtherID, `{"name":"Renamed"}`)

	assertStatus(t, rec, http.StatusOK)
	if gotID != testOtherID {
		t.Errorf("expected %s, got %s", testOtherID, gotID)
	}
}

func TestProjectionHandler_DeleteProjection(t *testing.T) {
	svc := &mockProjectionService{
		deleteProjectionFn: func(_, _ string) error {
			return apperrors.ErrProjectionNotFound
		},
	}
	r := setupProjectionRouter(NewProjectionHandler(svc, &mockAuditService{}))

	rec := doRequest(r, "DELETE", "/projections/"+testOtherID, "")

	assertStatus(t, rec, http.StatusNotFound)
	assertErrorCode(t, parseJSON(t, rec), "PROJECTION_NOT_FOUND")
}

func TestProjectionHandler_GetUserProjections(t *testing.T) {
	r := setupProjectionRouter(NewProjectionHandler(&mockProjectionService{}, &mockAuditService{}))

	rec := doRequest(r, "GET", "/projections", "")

	assertStatus(t, rec, http.StatusOK)
	if data := parseJSON(t, rec)["data"].([]interface{}); len(data) != 0 {
		t.Errorf("expected empty data, got %v", data)
	}
}
