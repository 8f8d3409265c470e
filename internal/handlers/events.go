package handlers

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/firewatch/fire-events-service/internal/models"
)

const (
	defaultLimit = 50
	maxLimit     = 200

	// notifyTimeout bounds the fire-and-forget dispatch; the request
	// context cannot be used because it is cancelled once the response
	// is written.
	notifyTimeout = 30 * time.Second
)

// RegisterFireEventRoutes registers the ingestion and serving endpoints.
//
// POST /fire-events
//   - Normalizes the untyped body (bad fields are defaulted, never rejected)
//   - Returns success only after the store write completes
//   - Dispatches a notification afterwards without awaiting it
//
// GET /fire-events?limit=N
//   - Returns up to N most recent events, N clamped to [1,200], default 50
func RegisterFireEventRoutes(r gin.IRoutes, st EventStore, n Notifier) {
	r.POST("/fire-events", func(c *gin.Context) {
		// Lenient by contract: a body that is not a JSON object is
		// treated the same as one with every field missing.
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			body = map[string]any{}
		}

		ev := models.NormalizeEvent(body, time.Now())
		ev.IP = clientIP(c)
		ev.UserAgent = c.GetHeader("User-Agent")

		stored, err := st.InsertEvent(c.Request.Context(), ev)
		if err != nil {
			slog.Error("failed to store fire event", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"ok":      false,
				"error":   "database error",
				"details": err.Error(),
			})
			return
		}

		// Fire-and-forget: outcome is observable only via logs.
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			_ = n.Notify(ctx, stored)
		}()

		c.JSON(http.StatusCreated, gin.H{
			"ok":      true,
			"message": "event stored",
			"event":   stored,
		})
	})

	r.GET("/fire-events", func(c *gin.Context) {
		events, err := st.RecentEvents(c.Request.Context(), parseLimit(c.Query("limit")))
		if err != nil {
			slog.Error("failed to list fire events", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"ok":      false,
				"error":   "database error",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"ok":     true,
			"count":  len(events),
			"events": events,
		})
	})
}

// parseLimit clamps the limit query parameter to [1,maxLimit], falling back
// to defaultLimit when absent or non-numeric.
func parseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return defaultLimit
	}
	if n < 1 {
		return 1
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}

// clientIP prefers the first X-Forwarded-For hop, falling back to the
// transport-level peer address.
func clientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return host
}
