package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"networth/internal/models"
	"networth/internal/services"
)

// LedgerHandler handles contribution and withdrawal requests.
type LedgerHandler struct {
	ledgerService services.LedgerServicer
	auditService  services.AuditServicer
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService services.LedgerServicer, auditService services.AuditServicer) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, auditService: auditService}
}

// ContributionRequest represents the request payload for a ledger entry.
// Type defaults to deposit; date defaults to now.
type ContributionRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required" swaggertype:"number"`
	Type   string           `json:"type" binding:"omitempty,contribution_type"`
	Date   *string          `json:"date"`
}

// WithdrawRequest represents the request payload for a checked withdrawal.
type WithdrawRequest struct {
	Amount *decimal.Decimal `json:"amount" binding:"required" swaggertype:"number"`
	Date   *string          `json:"date"`
}

// AddContribution handles appending a contribution to an account's ledger.
// @Summary     Add a contribution
// @Description Append a deposit or withdrawal and recompute the balance
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Param       request body ContributionRequest true "Contribution"
// @Success     201 {object} AccountResponse "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input or investment account"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/contributions [post]
func (h *LedgerHandler) AddContribution(c *gin.Context) {
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

	var req ContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	date, err := parseOptionalDate(req.Date, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.ledgerService.AddContribution(userID, accountID, *req.Amount, models.ContributionType(req.Type), date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditEntry{
		UserID:       userID,
		Action:       "ADD_CONTRIBUTION",
		ResourceType: "account",
		ResourceID:   accountID,
		AccountID:    accountID,
		IPAddress:    c.ClientIP(),
		Changes:      map[string]interface{}{"amount": req.Amount.String(), "type": req.Type},
	})

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// Withdraw handles a withdrawal that may not overdraw the ledger.
// @Summary     Withdraw
// @Description Record a withdrawal if it does not exceed the ledger balance
// @Tags        ledger
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Param       request body WithdrawRequest true "Withdrawal"
// @Success     201 {object} AccountResponse "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input or insufficient funds"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/withdraw [post]
func (h *LedgerHandler) Withdraw(c *gin.Context) {
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

	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	date, err := parseOptionalDate(req.Date, "date")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.ledgerService.Withdraw(userID, accountID, *req.Amount, date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditEntry{
		UserID:       userID,
		Action:       "WITHDRAW",
		ResourceType: "account",
		ResourceID:   accountID,
		AccountID:    accountID,
		IPAddress:    c.ClientIP(),
		Changes:      map[string]interface{}{"amount": req.Amount.String()},
	})

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// DeleteContribution handles removing a ledger entry.
// @Summary     Delete a contribution
// @Description Remove a contribution and recompute the balance
// @Tags        ledger
// @Produce     json
// @Security    BearerAuth
// @Param       id             path string true "Account ID"
// @Param       contributionId path string true "Contribution ID"
// @Success     200 {object} AccountResponse "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account or contribution not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/contributions/{contributionId} [delete]
func (h *LedgerHandler) DeleteContribution(c *gin.Context) {
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

	contributionID, err := parsePathID(c, "contributionId")
	if err != nil {
		respondWithError(c, err)
		return
	}

	account, err := h.ledgerService.DeleteContribution(userID, accountID, contributionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditEntry{
		UserID:       userID,
		Action:       "DELETE_CONTRIBUTION",
		ResourceType: "contribution",
		ResourceID:   contributionID,
		AccountID:    accountID,
		IPAddress:    c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{"account": account})
}
