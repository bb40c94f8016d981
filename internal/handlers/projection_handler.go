package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"networth/internal/models"
	"networth/internal/pagination"
	"networth/internal/services"
)

// ProjectionHandler handles projection requests.
type ProjectionHandler struct {
	projectionService services.ProjectionServicer
	auditService      services.AuditServicer
}

// NewProjectionHandler creates a new ProjectionHandler.
func NewProjectionHandler(projectionService services.ProjectionServicer, auditService services.AuditServicer) *ProjectionHandler {
	return &ProjectionHandler{projectionService: projectionService, auditService: auditService}
}

// AllocationRequest is one account's monthly amount.
type AllocationRequest struct {
	AccountID     string           `json:"account_id" binding:"required,uuid"`
	MonthlyAmount *decimal.Decimal `json:"monthly_amount" binding:"required" swaggertype:"number"`
}

// StartingAllocationRequest is one account's explicit starting balance.
type StartingAllocationRequest struct {
	AccountID       string           `json:"account_id" binding:"required,uuid"`
	StartingBalance *decimal.Decimal `json:"starting_balance" binding:"required" swaggertype:"number"`
}

// ProjectionRequest represents the request payload for creating or replacing
// a projection. income, expenses, use_net_worth and starting_allocations are
// stored but do not affect the computed series.
type ProjectionRequest struct {
	Name                string                      `json:"name" binding:"required,min=1,max=100"`
	Income              *decimal.Decimal            `json:"income" swaggertype:"number"`
	Expenses            *decimal.Decimal            `json:"expenses" swaggertype:"number"`
	EndDate             *string                     `json:"end_date"`
	UseNetWorth         bool                        `json:"use_net_worth"`
	Allocations         []AllocationRequest         `json:"allocations" binding:"dive"`
	StartingAllocations []StartingAllocationRequest `json:"starting_allocations" binding:"dive"`
}

// ProjectionResponse wraps a single projection.
type ProjectionResponse struct {
	Projection models.Projection `json:"projection"`
}

func (r ProjectionRequest) toInput() (services.ProjectionInput, error) {
	endDate, err := parseOptionalDate(r.EndDate, "end_date")
	if err != nil {
		return services.ProjectionInput{}, err
	}

	input := services.ProjectionInput{
		Name:        r.Name,
		Income:      r.Income,
		EndDate:     endDate,
		UseNetWorth: r.UseNetWorth,
	}
	if r.Expenses != nil {
		input.Expenses = *r.Expenses
	}
	for _, a := range r.Allocations {
		input.Allocations = append(input.Allocations, services.AllocationInput{
			AccountID:     a.AccountID,
			MonthlyAmount: *a.MonthlyAmount,
		})
	}
	for _, a := range r.StartingAllocations {
		input.StartingAllocations = append(input.StartingAllocations, services.StartingAllocationInput{
			AccountID:       a.AccountID,
			StartingBalance: *a.StartingBalance,
		})
	}
	return input, nil
}

// CreateProjection handles creating a projection.
// @Summary     Create projection
// @Tags        projections
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ProjectionRequest true "Projection"
// @Success     201 {object} ProjectionResponse "Projection created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Allocated account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projections [post]
func (h *ProjectionHandler) CreateProjection(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	p, err := h.projectionService.CreateProjection(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditEntry{
		UserID:       userID,
		Action:       "CREATE_PROJECTION",
		ResourceType: "projection",
		ResourceID:   p.ID,
		IPAddress:    c.ClientIP(),
		Changes:      map[string]interface{}{"name": req.Name, "allocations": len(req.Allocations)},
	})

	c.JSON(http.StatusCreated, gin.H{"projection": p})
}

// GetUserProjections handles listing projections.
// @Summary     List projections
// @Description Newest first
// @Tags        projections
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Projection] "Paginated projections"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projections [get]
func (h *ProjectionHandler) GetUserProjections(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithBindError(c, err)
		return
	}

	result, err := h.projectionService.GetUserProjections(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetProjection handles retrieving a projection with its computed series.
// @Summary     Get projection
// @Description Monthly series from the start of the current month to the end date (default Dec 31 of this year)
// @Tags        projections
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Projection ID"
// @Success     200 {object} services.ProjectionResult "Projection and series"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Projection not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projections/{id} [get]
func (h *ProjectionHandler) GetProjection(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.projectionService.GetProjection(userID, projectionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateProjection handles replacing a projection.
// @Summary     Update projection
// @Tags        projections
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Projection ID"
// @Param       request body ProjectionRequest true "Projection"
// @Success     200 {object} ProjectionResponse "Updated projection"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Projection or account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projections/{id} [put]
func (h *ProjectionHandler) UpdateProjection(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ProjectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		respondWithError(c, err)
		return
	}

	p, err := h.projectionService.UpdateProjection(userID, projectionID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditEntry{
		UserID:       userID,
		Action:       "UPDATE_PROJECTION",
		ResourceType: "projection",
		ResourceID:   projectionID,
		IPAddress:    c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{"projection": p})
}

// DeleteProjection handles deleting a projection.
// @Summary     Delete projection
// @Tags        projections
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Projection ID"
// @Success     200 {object} MessageResponse "Projection deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Projection not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projections/{id} [delete]
func (h *ProjectionHandler) DeleteProjection(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	projectionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.projectionService.DeleteProjection(userID, projectionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditEntry{
		UserID:       userID,
		Action:       "DELETE_PROJECTION",
		ResourceType: "projection",
		ResourceID:   projectionID,
		IPAddress:    c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Projection deleted successfully"})
}
