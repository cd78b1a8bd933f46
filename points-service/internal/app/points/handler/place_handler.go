package handler

import (
	"net/http"

	"triple/points-service/internal/app/points/entity"
	"triple/points-service/internal/app/points/service"
	"triple/points-service/internal/app/points/util"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type PlaceHandler struct {
	placeService service.PlaceServiceInterface
	validator    *validator.Validate
}

func NewPlaceHandler(placeService service.PlaceServiceInterface) *PlaceHandler {
	return &PlaceHandler{
		placeService: placeService,
		validator:    util.NewValidator(),
	}
}

func (h *PlaceHandler) CreatePlace(c *gin.Context) {
	var req entity.CreatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": formatValidationError(err)})
		return
	}

	place, err := h.placeService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create place")
		return
	}
	c.JSON(http.StatusCreated, place)
}

func (h *PlaceHandler) GetPlaces(c *gin.Context) {
	places, err := h.placeService.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to get places")
		return
	}
	c.JSON(http.StatusOK, places)
}

// GetPlace возвращает место вместе с отзывами
func (h *PlaceHandler) GetPlace(c *gin.Context) {
	place, err := h.placeService.GetByName(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err, "Failed to get place")
		return
	}
	c.JSON(http.StatusOK, place)
}
