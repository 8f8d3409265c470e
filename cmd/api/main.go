package main

import (
	"log/slog"
	"os"

	"github.com/firewatch/fire-events-service/internal/config"
	"github.com/firewatch/fire-events-service/internal/httpserver"
	"github.com/firewatch/fire-events-service/internal/notify"
	"github.com/firewatch/fire-events-service/internal/store"
)

// main boots the service: config → DB → schema → HTTP server.
func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Load runtime config from environment. Missing DB_URL is fatal.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Connect to durable storage; an unreachable DB is fatal at startup.
	db, err := store.NewPostgresStore(cfg.DBURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Ensure the fire_events table and index exist.
	if err := db.EnsureSchema(); err != nil {
		slog.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	dispatcher := notify.NewDispatcher(cfg.WhatsAppPhoneID, cfg.WhatsAppToken, cfg.WhatsAppTo)
	if !dispatcher.Enabled() {
		slog.Info("whatsapp notifications disabled, credentials not configured")
	}

	router := httpserver.NewRouter(cfg, db, dispatcher)

	slog.Info("server started", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
