package handler

import (
	"net/http"

	"triple/points-service/internal/app/points/entity"
	"triple/points-service/internal/app/points/service"
	"triple/points-service/internal/app/points/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// EventHandler принимает события отзывов напрямую по HTTP
type EventHandler struct {
	distributor service.DistributorInterface
	validator   *validator.Validate
}

func NewEventHandler(distributor service.DistributorInterface) *EventHandler {
	return &EventHandler{
		distributor: distributor,
		validator:   util.NewValidator(),
	}
}

// HandleEvent - POST /events
func (h *EventHandler) HandleEvent(c *gin.Context) {
	var event entity.ReviewEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(&event); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	points, err := h.distributor.Distribute(c.Request.Context(), &event)
	if err != nil {
		respondError(c, err, "Failed to distribute points")
		return
	}

	c.JSON(http.StatusCreated, entity.EventResponse{
		Code:    http.StatusCreated,
		Message: "Review points distributed",
		Data:    entity.EventResultData{Result: eventResult(event.Action, points)},
	})
}

// MOD отдает одну запись или null, остальные действия - список
func eventResult(action entity.EventAction, points []entity.Point) interface{} {
	if action != entity.ActionMod {
		return points
	}
	if len(points) == 0 {
		return nil
	}
	return points[0]
}
