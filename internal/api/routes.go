package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nileshk/optionpulse-go/internal/api/handlers"
	"github.com/nileshk/optionpulse-go/internal/middleware"
)

// HealthChecker is anything that can report its own liveness; the Postgres
// and Redis wrappers both satisfy it.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Services  map[string]string `json:"services"`
}

// SetupRoutes registers all HTTP routes on the router.
func SetupRoutes(router *gin.Engine, db, redis HealthChecker, analysis *handlers.AnalysisHandler, allowedOrigins []string) {
	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", healthCheck(db, redis))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/analysis/chain", analysis.AnalyzeChain)
		v1.POST("/analysis/:symbol/refresh", analysis.RefreshSymbol)
		v1.GET("/analysis/:symbol/latest", analysis.GetLatest)
		v1.GET("/analysis/:symbol/history", analysis.GetHistory)
	}
}

func healthCheck(db, redis HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := HealthResponse{
			Status:    "healthy",
			Timestamp: time.Now(),
			Version:   "1.0.0",
			Services:  map[string]string{"database": "healthy", "redis": "healthy"},
		}

		ctx := c.Request.Context()
		if err := db.HealthCheck(ctx); err != nil {
			resp.Status = "degraded"
			resp.Services["database"] = "unhealthy: " + err.Error()
		}
		if err := redis.HealthCheck(ctx); err != nil {
			resp.Status = "degraded"
			resp.Services["redis"] = "unhealthy: " + err.Error()
		}

		status := http.StatusOK
		if resp.Status != "healthy" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, resp)
	}
}
