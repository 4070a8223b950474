package service

import (
	"context"
	"sync"
	"testing"

	"fubot-be/internal/repository/unitofwork"
	"fubot-be/pkg/database/dbtest"
	"fubot-be/pkg/events"
)

type recordingScheduler struct {
	mu        sync.Mutex
	passcodes []string
}

func (r *recordingScheduler) Schedule(_ context.Context, passcode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.passcodes = append(r.passcodes, passcode)
	return nil
}

func (r *recordingScheduler) scheduled() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.passcodes...)
}

type recordingPublisher struct {
	mu    sync.Mutex
	types []string
}

func (r *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, evt.EventType())
	return nil
}

func (r *recordingPublisher) published() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.types...)
}

func newFactory(t *testing.T) unitofwork.RepositoryFactory {
	return unitofwork.NewRepositoryFactory(dbtest.Open(t))
}
