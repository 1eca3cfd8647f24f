package handler

import (
	"net/http"
	"strconv"

	"github.com/DankerMu/Digital-earth-sub001/pkg/metrics"
	"github.com/gin-gonic/gin"
)

func (h *Handler) Tile(c *gin.Context) {
	frame := c.Param("frame")

	z, err := strconv.Atoi(c.Param("z"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "z should be integer",
		})
		return
	}

	x, err := strconv.Atoi(c.Param("x"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "x should be integer",
		})
		return
	}

	y, err := strconv.Atoi(c.Param("y"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "y should be integer",
		})
		return
	}

	metrics.TileRequests.Inc()

	tileData, err := h.tileUseCase.GetTile(c.Request.Context(), frame, x, y, z)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "failed to get tile",
		})
		return
	}

	c.Data(http.StatusOK, "image/png", tileData)
}
