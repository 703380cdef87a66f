package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *fakeSource) GetStats() (*Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &Stats{TotalItems: 3, RefreshedAt: time.Now()}, nil
}

func (s *fakeSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type fakeStore struct {
	mu    sync.Mutex
	saved []*Stats
}

func (s *fakeStore) Save(_ context.Context, stats *Stats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, stats)
	return nil
}

func (s *fakeStore) savedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func TestRefresherWarmsCacheImmediately(t *testing.T) {
	source := &fakeSource{}
	store := &fakeStore{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refresher := NewRefresher(source, store, time.Hour)
	refresher.Start(ctx)

	assert.Eventually(t, func() bool {
		return store.savedCount() == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 3, store.saved[0].TotalItems)
}

func TestRefresherStopsOnCancel(t *testing.T) {
	source := &fakeSource{}
	store := &fakeStore{}

	ctx, cancel := context.WithCancel(context.Background())

	refresher := NewRefresher(source, store, 20*time.Millisecond)
	refresher.Start(ctx)

	assert.Eventually(t, func() bool {
		return source.callCount() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(50 * time.Millisecond)
	callsAfterCancel := source.callCount()
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, callsAfterCancel, source.callCount())
}

func TestRefresherSkipsStoreOnSourceFailure(t *testing.T) {
	source := &fakeSource{err: errors.New("db down")}
	store := &fakeStore{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	refresher := NewRefresher(source, store, time.Hour)
	refresher.Start(ctx)

	assert.Eventually(t, func() bool {
		return source.callCount() == 1
	}, time.Second, 10*time.Millisecond)
	assert.Zero(t, store.savedCount())
}
