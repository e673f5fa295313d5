package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *httpHandler) handleGetStatistics(c *gin.Context) {
	overview, err := h.statistics.Overview(c.Request.Context())
	if err != nil {
		h.respondError(c, "failed to compute statistics", err)
		return
	}
	c.JSON(http.StatusOK, newStatisticsResponse(overview))
}
