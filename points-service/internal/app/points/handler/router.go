package handler

import (
	"net/http"

	"triple/pkg/logger"
	"triple/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers - все обработчики сервиса баллов
type Handlers struct {
	Events  *EventHandler
	Points  *PointHandler
	Reviews *ReviewHandler
	Users   *UserHandler
	Places  *PlaceHandler
}

func SetupRoutes(h Handlers) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(logger.GinLoggerMiddleware())
	router.Use(metrics.GinPrometheusMiddleware("points-service"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowWildcard:    true,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Content-Type", logger.RequestIDHeader},
		ExposeHeaders:    []string{logger.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "points-service",
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/events", h.Events.HandleEvent)

	points := router.Group("/points")
	{
		points.GET("", h.Points.GetAllPoints)
		points.GET("/total/:user_id", h.Points.GetUserTotal)
		points.GET("/:user_id", h.Points.GetUserPoints)
	}

	reviews := router.Group("/reviews")
	{
		reviews.POST("", h.Reviews.CreateReview)
		reviews.GET("", h.Reviews.GetReviews)
		reviews.GET("/me/:user_id", h.Reviews.GetUserReviews)
		reviews.GET("/:review_id", h.Reviews.GetReview)
		reviews.PATCH("/:review_id", h.Reviews.UpdateReview)
		reviews.DELETE("/:review_id", h.Reviews.DeleteReview)
	}

	users := router.Group("/users")
	{
		users.POST("", h.Users.CreateUser)
		users.GET("", h.Users.GetUsers)
		users.PATCH("/:email", h.Users.UpdateUser)
		users.DELETE("/:email", h.Users.DeleteUser)
	}

	places := router.Group("/places")
	{
		places.POST("", h.Places.CreatePlace)
		places.GET("", h.Places.GetPlaces)
		places.GET("/:name", h.Places.GetPlace)
	}

	return router
}
