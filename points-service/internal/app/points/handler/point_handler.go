package handler

import (
	"net/http"

	"triple/points-service/internal/app/points/service"

	"github.com/gin-gonic/gin"
)

type PointHandler struct {
	pointService service.PointServiceInterface
}

func NewPointHandler(pointService service.PointServiceInterface) *PointHandler {
	return &PointHandler{pointService: pointService}
}

// GetAllPoints - GET /points
func (h *PointHandler) GetAllPoints(c *gin.Context) {
	points, err := h.pointService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get points")
		return
	}
	c.JSON(http.StatusOK, points)
}

// GetUserPoints - GET /points/:user_id
func (h *PointHandler) GetUserPoints(c *gin.Context) {
	userID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}

	points, err := h.pointService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to get user points")
		return
	}
	c.JSON(http.StatusOK, points)
}

// GetUserTotal - GET /points/total/:user_id
func (h *PointHandler) GetUserTotal(c *gin.Context) {
	userID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}

	total, err := h.pointService.GetUserTotal(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to get user total points")
		return
	}
	c.JSON(http.StatusOK, total)
}
