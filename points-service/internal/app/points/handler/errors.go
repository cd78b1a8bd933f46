package handler

import (
	"errors"
	"net/http"

	"triple/pkg/logger"
	"triple/points-service/internal/app/points/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// respondError переводит ошибку сервиса в HTTP статус.
// Неизвестные ошибки логируются и отдаются как 500 с текстом fallback.
func respondError(c *gin.Context, err error, fallback string) {
	status, message := http.StatusInternalServerError, fallback

	switch {
	case errors.Is(err, service.ErrUserNotFound):
		status, message = http.StatusNotFound, "User not found"
	case errors.Is(err, service.ErrReviewNotFound):
		status, message = http.StatusNotFound, "Review not found"
	case errors.Is(err, service.ErrPlaceNotFound):
		status, message = http.StatusNotFound, "Place not found"
	case errors.Is(err, service.ErrReviewAlreadyExists),
		errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrPlaceAlreadyExists):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrConcurrentUpdate):
		status, message = http.StatusConflict, "Concurrent update, retry the request"
	case errors.Is(err, service.ErrInvalidState):
		status, message = http.StatusUnprocessableEntity, err.Error()
	}

	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg(fallback)
	}

	c.JSON(status, gin.H{"error": message})
}

// uuidParam читает uuid из пути, при ошибке сразу отвечает 400
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
