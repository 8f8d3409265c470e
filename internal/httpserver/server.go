package httpserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/firewatch/fire-events-service/internal/auth"
	"github.com/firewatch/fire-events-service/internal/config"
	"github.com/firewatch/fire-events-service/internal/handlers"
)

// NewRouter wires public endpoints and the protected API.
// Public: /, /health
// Protected (bearer, optional): /api/fire-events
func NewRouter(cfg config.Config, st handlers.EventStore, n handlers.Notifier) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery(), corsMiddleware(), requestLogger())

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Fire events service is running")
	})

	// Liveness: confirms the process is running. No side effects.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ok":     true,
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := r.Group("/api")
	api.Use(auth.BearerMiddleware(cfg.AuthToken))

	handlers.RegisterFireEventRoutes(api, st, n)

	return r
}
