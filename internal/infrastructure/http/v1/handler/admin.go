package handler

import (
	"net/http"
	"time"

	"github.com/DankerMu/Digital-earth-sub001/internal/infrastructure/http/v1/dto"
	"github.com/DankerMu/Digital-earth-sub001/internal/tilecache"
	"github.com/gin-gonic/gin"
)

func (h *Handler) Stats(c *gin.Context) {
	h.RespondWithJSON(c, http.StatusOK, "cache stats", h.tileUseCase.Stats())
}

func (h *Handler) ResetStats(c *gin.Context) {
	h.tileUseCase.ResetStats()
	h.RespondWithJSON(c, http.StatusOK, "stats reset", nil)
}

func (h *Handler) Configure(c *gin.Context) {
	var req dto.ConfigRequest
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

	var partial tilecache.Config
	if req.MaxFrames != nil {
		partial.MaxFrames = *req.MaxFrames
	}
	if req.MaxURLsPerFrame != nil {
		partial.MaxURLsPerFrame = *req.MaxURLsPerFrame
	}
	if req.MaxPrefetchPerFrame != nil {
		partial.MaxPrefetchPerFrame = *req.MaxPrefetchPerFrame
	}
	if req.MaxQueueSize != nil {
		partial.MaxQueueSize = *req.MaxQueueSize
	}
	if req.MaxConcurrentPrefetch != nil {
		partial.MaxConcurrentPrefetch = *req.MaxConcurrentPrefetch
	}
	if req.CooldownThreshold != nil {
		partial.CooldownThreshold = *req.CooldownThreshold
	}
	if req.CooldownWindowMs != nil {
		partial.CooldownWindow = time.Duration(*req.CooldownWindowMs) * time.Millisecond
	}

	applied := h.tileUseCase.Configure(partial)
	h.RespondWithJSON(c, http.StatusOK, "config updated", applied)
}

func (h *Handler) ResetConfig(c *gin.Context) {
	applied := h.tileUseCase.ResetConfig()
	h.RespondWithJSON(c, http.StatusOK, "config reset", applied)
}

func (h *Handler) ClearCache(c *gin.Context) {
	h.tileUseCase.ClearCache()
	h.RespondWithJSON(c, http.StatusOK, "cache cleared", nil)
}

func (h *Handler) Network(c *gin.Context) {
	var req dto.NetworkRequest
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

	h.tileUseCase.SetNetworkStatus(tilecache.NetworkStatus{
		Online:        *req.Online,
		SaveData:      req.SaveData,
		EffectiveType: req.EffectiveType,
	})
	h.RespondWithJSON(c, http.StatusOK, "network status updated", nil)
}

func (h *Handler) Performance(c *gin.Context) {
	var req dto.PerformanceRequest
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

	h.tileUseCase.SetDegradedPerformance(*req.Degraded)
	h.RespondWithJSON(c, http.StatusOK, "performance mode updated", nil)
}
