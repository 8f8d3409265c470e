package handlers

import (
	"context"

	"github.com/firewatch/fire-events-service/internal/models"
)

// EventStore is the persistence contract the handlers depend on.
type EventStore interface {
	InsertEvent(ctx context.Context, ev models.FireEvent) (models.FireEvent, error)
	RecentEvents(ctx context.Context, limit int) ([]models.FireEvent, error)
}

// Notifier dispatches a best-effort outbound notification for a stored event.
type Notifier interface {
	Notify(ctx context.Context, ev models.FireEvent) error
}
