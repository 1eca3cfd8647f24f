package handler

import (
	"net/http"

	"github.com/DankerMu/Digital-earth-sub001/internal/infrastructure/http/v1/dto"
	"github.com/gin-gonic/gin"
)

func (h *Handler) Prefetch(c *gin.Context) {
	var req dto.PrefetchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body",
		})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	queued := h.tileUseCase.Prefetch(req.CurrentFrame, req.NextFrame, req.MaxPrefetch)

	h.RespondWithJSON(c, http.StatusOK, "prefetch scheduled", dto.PrefetchResponse{
		Queued: queued,
	})
}

func (h *Handler) Policy(c *gin.Context) {
	h.RespondWithJSON(c, http.StatusOK, "prefetch policy", h.tileUseCase.PrefetchAllowed())
}
