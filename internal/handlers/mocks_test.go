package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/firewatch/fire-events-service/internal/models"
)

var errUnreachable = errors.New("dial tcp: connection refused")

// fakeStore is an in-memory EventStore for handler tests.
type fakeStore struct {
	mu        sync.Mutex
	events    []models.FireEvent
	failWrite bool
	failRead  bool
	lastLimit int
}

func (f *fakeStore) InsertEvent(_ context.Context, ev models.FireEvent) (models.FireEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failWrite {
		return models.FireEvent{}, errors.New("connection refused")
	}

	ev.ID = uuid.New().String()
	ev.ReceivedAt = time.Now().UTC()
	f.events = append(f.events, ev)
	return ev, nil
}

func (f *fakeStore) RecentEvents(_ context.Context, limit int) ([]models.FireEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failRead {
		return nil, errors.New("connection refused")
	}

	f.lastLimit = limit

	out := []models.FireEvent{}
	for i := len(f.events) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.events[i])
	}
	return out, nil
}

func (f *fakeStore) stored() []models.FireEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.FireEvent{}, f.events...)
}

// fakeNotifier records dispatched events and signals on a channel so tests
// can wait for the async dispatch without sleeping.
type fakeNotifier struct {
	mu     sync.Mutex
	events []models.FireEvent
	err    error
	done   chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{done: make(chan struct{}, 16)}
}

func (f *fakeNotifier) Notify(_ context.Context, ev models.FireEvent) error {
	f.mu.Lock()
	f.events = append(f.events, ev)
	f.mu.Unlock()
	f.done <- struct{}{}
	return f.err
}

func (f *fakeNotifier) wait(timeout time.Duration) bool {
	select {
	case <-f.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (f *fakeNotifier) dispatched() []models.FireEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.FireEvent{}, f.events...)
}
