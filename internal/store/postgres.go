package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/firewatch/fire-events-service/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the durable persistence layer for fire events.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping validates DB connectivity; used by the health path at startup.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// InsertEvent persists a normalized event and returns it with the
// store-assigned id and received_at filled in. received_at is always
// database server time, never client-influenced.
func (p *PostgresStore) InsertEvent(ctx context.Context, ev models.FireEvent) (models.FireEvent, error) {
	ev.ID = uuid.New().String()

	var bestJSON []byte
	if ev.Best != nil {
		b, err := json.Marshal(ev.Best)
		if err != nil {
			return models.FireEvent{}, fmt.Errorf("marshal best: %w", err)
		}
		bestJSON = b
	}

	err := p.pool.QueryRow(ctx, `
		INSERT INTO fire_events(
			id, event_ts, score, best,
			snapshot_filename, image_url, cloudinary_public_id,
			ip, user_agent
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING received_at
	`,
		ev.ID, ev.Timestamp, ev.Score, bestJSON,
		ev.SnapshotFilename, ev.ImageURL, ev.CloudinaryPublicID,
		ev.IP, ev.UserAgent,
	).Scan(&ev.ReceivedAt)
	if err != nil {
		return models.FireEvent{}, fmt.Errorf("insert fire event: %w", err)
	}

	return ev, nil
}

// RecentEvents returns up to limit events ordered by received_at descending,
// ties broken by id so the order is stable.
func (p *PostgresStore) RecentEvents(ctx context.Context, limit int) ([]models.FireEvent, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, received_at, event_ts, score, best,
		       snapshot_filename, image_url, cloudinary_public_id,
		       ip, user_agent
		FROM fire_events
		ORDER BY received_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query fire events: %w", err)
	}
	defer rows.Close()

	events := []models.FireEvent{}
	for rows.Next() {
		var ev models.FireEvent
		var bestJSON []byte
		if err := rows.Scan(
			&ev.ID, &ev.ReceivedAt, &ev.Timestamp, &ev.Score, &bestJSON,
			&ev.SnapshotFilename, &ev.ImageURL, &ev.CloudinaryPublicID,
			&ev.IP, &ev.UserAgent,
		); err != nil {
			return nil, fmt.Errorf("scan fire event: %w", err)
		}
		if len(bestJSON) > 0 {
			if err := json.Unmarshal(bestJSON, &ev.Best); err != nil {
				return nil, fmt.Errorf("decode best: %w", err)
			}
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read fire events: %w", err)
	}

	return events, nil
}
