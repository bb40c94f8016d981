package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"networth/internal/services"
)

// NetWorthHandler handles the net-worth summary.
type NetWorthHandler struct {
	netWorthService services.NetWorthServicer
}

// NewNetWorthHandler creates a new NetWorthHandler.
func NewNetWorthHandler(netWorthService services.NetWorthServicer) *NetWorthHandler {
	return &NetWorthHandler{netWorthService: netWorthService}
}

// GetNetWorth handles the net-worth summary.
// @Summary     Get net worth
// @Description Sum of account balances with the estimated monthly interest and a daily timeline
// @Tags        networth
// @Produce     json
// @Security    BearerAuth
// @Param       subuser_id query string false "Sub-user ID, or \"primary\" for unattributed accounts"
// @Success     200 {object} services.NetWorthSummary "Net worth"
// @Failure     400 {object} ErrorResponse "Invalid sub-user filter"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /networth [get]
func (h *NetWorthHandler) GetNetWorth(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	subuserFilter, err := parseSubuserFilter(c.Query("subuser_id"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.netWorthService.GetNetWorth(userID, subuserFilter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
