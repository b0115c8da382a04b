package server

import (
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/spacesedan/reviewlens/internal/cache"
	"github.com/spacesedan/reviewlens/internal/classifier"
)

// Setup creates and configures the Gin router
func Setup(c classifier.Classifier, pc *cache.PredictionCache, healthy *atomic.Bool) *gin.Engine {
	router := gin.New()
	router.Use(RequestID())
	router.Use(gin.Recovery())

	router.SetHTMLTemplate(pageHTMLTemplate())
	router.GET("/", Page)

	healthHandler := NewHealthHandler(healthy)
	router.GET("/healthz", healthHandler.Health)

	predictHandler := NewPredictHandler(c, pc)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/predict", predictHandler.Predict)
	}

	return router
}

// RequestID tags every request so a prediction can be traced through the logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}
