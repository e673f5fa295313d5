package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *httpHandler) handleGetSet(c *gin.Context) {
	set, err := h.sets.FindByID(c.Request.Context(), pathID(c, paramSetID))
	if err != nil {
		h.respondError(c, "failed to load set", err)
		return
	}
	c.JSON(http.StatusOK, newSetResponse(set))
}

func (h *httpHandler) handleUpdateSet(c *gin.Context) {
	var request setRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		respondInvalidRequest(c)
		return
	}
	set, err := h.sets.Update(c.Request.Context(), pathID(c, paramSetID), request.input())
	if err != nil {
		h.respondError(c, "failed to update set", err)
		return
	}
	h.metrics.RecordWrite("set", "update")
	c.JSON(http.StatusOK, newSetResponse(set))
}

func (h *httpHandler) handleDeleteSet(c *gin.Context) {
	if err := h.sets.Delete(c.Request.Context(), pathID(c, paramSetID)); err != nil {
		h.respondError(c, "failed to delete set", err)
		return
	}
	h.metrics.RecordWrite("set", "delete")
	c.Status(http.StatusOK)
}
