package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"networth/internal/models"
	"networth/internal/services"
)

// SubuserHandler handles household sub-users.
type SubuserHandler struct {
	subuserService services.SubuserServicer
	auditService   services.AuditServicer
}

// NewSubuserHandler creates a new SubuserHandler.
func NewSubuserHandler(subuserService services.SubuserServicer, auditService services.AuditServicer) *SubuserHandler {
	return &SubuserHandler{subuserService: subuserService, auditService: auditService}
}

// CreateSubuserRequest represents the request payload for creating a sub-user.
type CreateSubuserRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// SubuserResponse wraps a single sub-user.
type SubuserResponse struct {
	Subuser models.Subuser `json:"subuser"`
}

// SubusersResponse wraps the sub-users of a user.
type SubusersResponse struct {
	Subusers []models.Subuser `json:"subusers"`
}

// CreateSubuser handles creating a sub-user.
// @Summary     Create sub-user
// @Tags        subusers
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateSubuserRequest true "Sub-user"
// @Success     201 {object} SubuserResponse "Sub-user created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subusers [post]
func (h *SubuserHandler) CreateSubuser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateSubuserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithBindError(c, err)
		return
	}

	subuser, err := h.subuserService.CreateSubuser(userID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditEntry{
		UserID:       userID,
		Action:       "CREATE_SUBUSER",
		ResourceType: "subuser",
		ResourceID:   subuser.ID,
		IPAddress:    c.ClientIP(),
		Changes:      map[string]interface{}{"name": req.Name},
	})

	c.JSON(http.StatusCreated, gin.H{"subuser": subuser})
}

// GetUserSubusers handles listing sub-users.
// @Summary     List sub-users
// @Tags        subusers
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} SubusersResponse "Sub-users"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subusers [get]
func (h *SubuserHandler) GetUserSubusers(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	subusers, err := h.subuserService.GetUserSubusers(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subusers": subusers})
}

// GetSubuserByID handles retrieving a sub-user.
// @Summary     Get sub-user
// @Tags        subusers
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Sub-user ID"
// @Success     200 {object} SubuserResponse "Sub-user"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Sub-user not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subusers/{id} [get]
func (h *SubuserHandler) GetSubuserByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	subuserID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	subuser, err := h.subuserService.GetSubuserByID(userID, subuserID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"subuser": subuser})
}

// DeleteSubuser handles deleting a sub-user. Its accounts move to the primary person.
// @Summary     Delete sub-user
// @Tags        subusers
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Sub-user ID"
// @Success     200 {object} MessageResponse "Sub-user deleted"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Sub-user not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /subusers/{id} [delete]
func (h *SubuserHandler) DeleteSubuser(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	subuserID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.subuserService.DeleteSubuser(userID, subuserID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(services.AuditEntry{
		UserID:       userID,
		Action:       "DELETE_SUBUSER",
		ResourceType: "subuser",
		ResourceID:   subuserID,
		IPAddress:    c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Sub-user deleted successfully"})
}
