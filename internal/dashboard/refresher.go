package dashboard

import (
	"context"
	"log"
	"time"
)

type statsSource interface {
	GetStats() (*Stats, error)
}

type statsStore interface {
	Save(ctx context.Context, stats *Stats) error
}

// Refresher recomputes the dashboard counters on a fixed interval so
// the cache stays warm between user visits. It stops when its context
// is cancelled.
type Refresher struct {
	source   statsSource
	store    statsStore
	interval time.Duration
}

func NewRefresher(source statsSource, store statsStore, interval time.Duration) *Refresher {
	return &Refresher{source: source, store: store, interval: interval}
}

func (r *Refresher) Start(ctx context.Context) {
	go r.run(ctx)
}

func (r *Refresher) run(ctx context.Context) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	stats, err := r.source.GetStats()
	if err != nil {
		log.Printf("dashboard refresh failed: %v", err)
		return
	}

	if err := r.store.Save(ctx, stats); err != nil {
		log.Printf("failed to cache dashboard stats: %v", err)
	}
}
