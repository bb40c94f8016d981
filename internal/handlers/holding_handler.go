package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"networth/internal/models"
	"networth/internal/services"
)

// HoldingHandler handles holdings and lots of investment accounts.
type HoldingHandler struct {
	holdingService services.HoldingServicer
	auditService   services.AuditServicer
}

// NewHoldingHandler creates a new HoldingHandler.
func NewHoldingHandler(holdingService services.HoldingServicer, auditService services.AuditServicer) *HoldingHandler {
	return &HoldingHandler{holdingService: holdingService, auditService: auditService}
}

// AddHoldingRequest represents the request payload for adding a holding.
type AddHoldingRequest struct {
	Ticker string `json:"ticker" binding:"required,ticker"`
}

// AddLotRequest represents the request payload for adding a lot.
// Positive shares record a purchase, negative shares a sale.
type AddLotRequest struct {
	Date         *string          `json:"date"`
	Shares       *decimal.Decimal `json:"shares" binding:"required" swaggertype:"number"`
	CostPerShare *decimal.Decimal `json:"cost_per_share" binding:"required" swaggertype:"number"`
}

// UpdateLotRequest represents the request payload for patching a lot.
type UpdateLotRequest struct {
	Date         *string          `json:"date"`
	Shares       *decimal.Decimal `json:"shares" swaggertype:"number"`
	CostPerShare *decimal.Decimal `json:"cost_per_share" swaggertype:"number"`
}

// HoldingResponse wraps a single holding.
type HoldingResponse struct {
	Holding models.Holding `json:"holding"`
}

// HoldingsResponse wraps the holdings of an account.
type HoldingsResponse struct {
	Holdings []models.Holding `json:"holdings"`
}

// GetAccountHoldings handles listing the holdings of an investment account.
// @Summary     List holdings
// @Description Holdings with lot aggregates and, when a quote is available, market value
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} HoldingsResponse "Holdings"
// @Failure     400 {object} ErrorResponse "Invalid ID or not an investment account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/holdings [get]
func (h *HoldingHandler) GetAccountHoldings(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdings, err := h.holdingService.GetAccountHoldings(c.Request.Context(), userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holdings": holdings})
}

// GetHolding handles retrieving one holding with its lots.
// @Summary     Get holding
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       id        path string true "Account ID"
// @Param       holdingId path string true "Holding ID"
// @Success     200 {object} HoldingResponse "Holding"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or holding not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/holdings/{holdingId} [get]
func (h *HoldingHandler) GetHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "holdingId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.holdingService.GetHolding(c.Request.Context(), userID, accountID, holdingID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// AddHolding handles adding a ticker to an investment account.
// @Summary     Add holding
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Param       request body AddHoldingRequest true "Ticker"
// @Success     201 {object} HoldingResponse "Holding created"
// @Failure     400 {object} ErrorResponse "Invalid input or not an investment account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/holdings [post]
func (h *HoldingHandler) AddHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	holding, err := h.holdingService.AddHolding(userID, accountID, req.Ticker)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditEntry{
		UserID:       userID,
		Action:       "CREATE_HOLDING",
		ResourceType: "holding",
		ResourceID:   holding.ID,
		AccountID:    accountID,
		IPAddress:    c.ClientIP(),
		Changes:      map[string]interface{}{"ticker": holding.Ticker},
	})

	c.JSON(http.StatusCreated, gin.H{"holding": holding})
}

// DeleteHolding handles removing a holding and its lots.
// @Summary     Delete holding
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       id        path string true "Account ID"
// @Param       holdingId path string true "Holding ID"
// @Success     200 {object} MessageResponse "Holding deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or holding not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/holdings/{holdingId} [delete]
func (h *HoldingHandler) DeleteHolding(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "holdingId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.holdingService.DeleteHolding(userID, accountID, holdingID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditEntry{
		UserID:       userID,
		Action:       "DELETE_HOLDING",
		ResourceType: "holding",
		ResourceID:   holdingID,
		AccountID:    accountID,
		IPAddress:    c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Holding deleted successfully"})
}

// AddLot handles recording a purchase or sale.
// @Summary     Add lot
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path string true "Account ID"
// @Param       holdingId path string true "Holding ID"
// @Param       request body AddLotRequest true "Lot"
// @Success     201 {object} HoldingResponse "Updated holding"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or holding not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/holdings/{holdingId}/lots [post]
func (h *HoldingHandler) AddLot(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "holdingId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AddLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	date, err := parseOptionalDate(req.Date, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.holdingService.AddLot(userID, accountID, holdingID, date, *req.Shares, *req.CostPerShare)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditEntry{
		UserID:       userID,
		Action:       "CREATE_LOT",
		ResourceType: "holding",
		ResourceID:   holdingID,
		AccountID:    accountID,
		HoldingID:    holdingID,
		IPAddress:    c.ClientIP(),
		Changes:      map[string]interface{}{"shares": req.Shares.String(), "cost_per_share": req.CostPerShare.String()},
	})

	c.JSON(http.StatusCreated, gin.H{"holding": holding})
}

// UpdateLot handles patching a lot.
// @Summary     Update lot
// @Tags        holdings
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id        path string true "Account ID"
// @Param       holdingId path string true "Holding ID"
// @Param       lotId     path string true "Lot ID"
// @Param       request body UpdateLotRequest true "Lot fields"
// @Success     200 {object} HoldingResponse "Updated holding"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account, holding or lot not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/holdings/{holdingId}/lots/{lotId} [put]
func (h *HoldingHandler) UpdateLot(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "holdingId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	lotID, err := parsePathID(c, "lotId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateLotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	date, err := parseOptionalDate(req.Date, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.holdingService.UpdateLot(userID, accountID, holdingID, lotID, services.LotFields{
		Date:         date,
		Shares:       req.Shares,
		CostPerShare: req.CostPerShare,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditEntry{
		UserID:       userID,
		Action:       "UPDATE_LOT",
		ResourceType: "lot",
		ResourceID:   lotID,
		AccountID:    accountID,
		HoldingID:    holdingID,
		IPAddress:    c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}

// DeleteLot handles removing a lot.
// @Summary     Delete lot
// @Tags        holdings
// @Produce     json
// @Security    BearerAuth
// @Param       id        path string true "Account ID"
// @Param       holdingId path string true "Holding ID"
// @Param       lotId     path string true "Lot ID"
// @Success     200 {object} HoldingResponse "Updated holding"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account, holding or lot not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/holdings/{holdingId}/lots/{lotId} [delete]
func (h *HoldingHandler) DeleteLot(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accountID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holdingID, err := parsePathID(c, "holdingId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	lotID, err := parsePathID(c, "lotId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	holding, err := h.holdingService.DeleteLot(userID, accountID, holdingID, lotID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditEntry{
		UserID:       userID,
		Action:       "DELETE_LOT",
		ResourceType: "lot",
		ResourceID:   lotID,
		AccountID:    accountID,
		HoldingID:    holdingID,
		IPAddress:    c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{"holding": holding})
}
