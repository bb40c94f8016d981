package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"networth/internal/ledger"
	"networth/internal/models"
	"networth/internal/pagination"
	"networth/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService services.AccountServicer
	auditService   services.AuditServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer, auditService services.AuditServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService, auditService: auditService}
}

// CreateAccountRequest represents the request payload for creating an account.
// Balance is required unless the type is Investment.
type CreateAccountRequest struct {
	Name        string           `json:"name" binding:"max=100"`
	Institution string           `json:"institution" binding:"required,min=1,max=100"`
	Type        string           `json:"type" binding:"required,account_type"`
	Balance     *decimal.Decimal `json:"balance" swaggertype:"number"`
	Interest    *decimal.Decimal `json:"interest" swaggertype:"number"`
	Dividend    *decimal.Decimal `json:"dividend" swaggertype:"number"`
	SubuserID   *string          `json:"subuser_id" binding:"omitempty,uuid"`
}

// UpdateAccountRequest represents the request payload for updating an account.
// A subuser_id of "primary" moves the account back to the primary person.
type UpdateAccountRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=100"`
	Institution *string          `json:"institution" binding:"omitempty,min=1,max=100"`
	Interest    *decimal.Decimal `json:"interest" swaggertype:"number"`
	Dividend    *decimal.Decimal `json:"dividend" swaggertype:"number"`
	SubuserID   *string          `json:"subuser_id"`
}

// AccountResponse wraps a single account.
type AccountResponse struct {
	Account models.Account `json:"account"`
}

// AccountHistoryResponse is the running balance of an account by day.
type AccountHistoryResponse struct {
	History []ledger.Point `json:"history"`
}

// CreateAccount handles the creation of a new account
// @Summary     Create an account
// @Description Create an account. Non-investment accounts are seeded with an opening contribution equal to the balance.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAccountRequest true "Account details"
// @Success     201 {object} AccountResponse "Account created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Sub-user not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [post]
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	accountType := models.AccountType(req.Type)
	kind, err := models.NewAccountKind(accountType, req.Balance, req.Interest)
	if err != nil {
		respondWithBindError(c, err)
		return
	}

	input := services.AccountInput{
		Name:        req.Name,
		Institution: req.Institution,
		Type:        accountType,
		Kind:        kind,
		SubuserID:   req.SubuserID,
	}
	if req.Dividend != nil {
		input.Dividend = *req.Dividend
	}

	account, err := h.accountService.CreateAccount(userID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditEntry{
		UserID:       userID,
		Action:       "CREATE_ACCOUNT",
		ResourceType: "account",
		ResourceID:   account.ID,
		AccountID:    account.ID,
		IPAddress:    c.ClientIP(),
		Changes:      map[string]interface{}{"institution": req.Institution, "type": req.Type},
	})

	c.JSON(http.StatusCreated, gin.H{"account": account})
}

// GetUserAccounts handles the retrieval of accounts for a user
// @Summary     Get user accounts
// @Description Get a paginated list of accounts for the authenticated user
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page       query int    false "Page number (default 1)"
// @Param       page_size  query int    false "Items per page (default 20, max 100)"
// @Param       subuser_id query string false "Sub-user ID, or \"primary\" for unattributed accounts"
// @Success     200 {object} pagination.PageResponse[models.Account] "Paginated accounts"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) GetUserAccounts(c *gin.Context) {
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

	subuserFilter, err := parseSubuserFilter(c.Query("subuser_id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.accountService.GetUserAccounts(userID, page, subuserFilter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAccountByID handles the retrieval of a specific account for a user
// @Summary     Get account by ID
// @Description Get an account with its contributions (newest first) and categories
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} AccountResponse "Account details"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [get]
func (h *AccountHandler) GetAccountByID(c *gin.Context) {
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

	account, err := h.accountService.GetAccountByID(userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// UpdateAccount handles updating an account.
// @Summary     Update account
// @Description Update account metadata. The balance changes only through contributions.
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Param       request body UpdateAccountRequest true "Updated account details"
// @Success     200 {object} AccountResponse "Updated account"
// @Failure     400 {object} ErrorResponse "Invalid input or account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [put]
func (h *AccountHandler) UpdateAccount(c *gin.Context) {
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

	var req UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	fields := services.AccountUpdateFields{
		Name:        req.Name,
		Institution: req.Institution,
		Interest:    req.Interest,
		Dividend:    req.Dividend,
	}
	if req.SubuserID != nil {
		subuserID, err := parseSubuserFilter(*req.SubuserID)
		if err != nil {
			respondWithError(c, err)
			return
		}
		switch subuserID {
		case "", services.PrimarySubuser:
			fields.ClearSubuser = true
		default:
			fields.SubuserID = &subuserID
		}
	}

	account, err := h.accountService.UpdateAccount(userID, accountID, fields)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditEntry{
		UserID:       userID,
		Action:       "UPDATE_ACCOUNT",
		ResourceType: "account",
		ResourceID:   accountID,
		AccountID:    accountID,
		IPAddress:    c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{"account": account})
}

// DeleteAccount handles deleting an account with its ledger, categories and holdings.
// @Summary     Delete account
// @Description Delete an account and everything attached to it
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} MessageResponse "Account deleted"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id} [delete]
func (h *AccountHandler) DeleteAccount(c *gin.Context) {
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

	if err := h.accountService.DeleteAccount(userID, accountID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditEntry{
		UserID:       userID,
		Action:       "DELETE_ACCOUNT",
		ResourceType: "account",
		ResourceID:   accountID,
		AccountID:    accountID,
		IPAddress:    c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

// GetAccountHistory handles the running-balance timeline of an account.
// @Summary     Get account history
// @Description Running balance per UTC day, oldest first
// @Tags        accounts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Account ID"
// @Success     200 {object} AccountHistoryResponse "Balance timeline"
// @Failure     400 {object} ErrorResponse "Invalid account ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Account not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/{id}/history [get]
func (h *AccountHandler) GetAccountHistory(c *gin.Context) {
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

	history, err := h.accountService.GetAccountHistory(userID, accountID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}
