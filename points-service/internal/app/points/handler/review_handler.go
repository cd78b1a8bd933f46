package handler

import (
	"net/http"

	"triple/points-service/internal/app/points/entity"
	"triple/points-service/internal/app/points/service"
	"triple/points-service/internal/app/points/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ReviewHandler struct {
	reviewService service.ReviewServiceInterface
	validator     *validator.Validate
}

func NewReviewHandler(reviewService service.ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     util.NewValidator(),
	}
}

// CreateReview отвечает событием ADD, которое было опубликовано
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req entity.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	event, err := h.reviewService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create review")
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *ReviewHandler) GetReviews(c *gin.Context) {
	reviews, err := h.reviewService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	reviewID, ok := uuidParam(c, "review_id")
	if !ok {
		return
	}

	review, err := h.reviewService.Get(c.Request.Context(), reviewID)
	if err != nil {
		respondError(c, err, "Failed to get review")
		return
	}
	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) GetUserReviews(c *gin.Context) {
	userID, ok := uuidParam(c, "user_id")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "Failed to get user reviews")
		return
	}
	c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	reviewID, ok := uuidParam(c, "review_id")
	if !ok {
		return
	}

	var req entity.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	event, err := h.reviewService.Update(c.Request.Context(), reviewID, &req)
	if err != nil {
		respondError(c, err, "Failed to update review")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	reviewID, ok := uuidParam(c, "review_id")
	if !ok {
		return
	}

	event, err := h.reviewService.Delete(c.Request.Context(), reviewID)
	if err != nil {
		respondError(c, err, "Failed to delete review")
		return
	}
	c.JSON(http.StatusOK, event)
}
