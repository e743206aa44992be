package remote

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
)

// Poller refreshes the remote snapshot on a fixed interval and holds
// the latest result in memory. Polls never wait on each other: each
// refresh is an independent fetch, and a stale response that finishes
// after a newer one is discarded (last-response-wins).
type Poller struct {
	client   *Client
	interval time.Duration
	cron     *cron.Cron

	seq atomic.Uint64

	mu      sync.RWMutex
	snap    Snapshot
	applied uint64
}

// NewPoller wraps a client with an interval-based refresh loop. The
// poller is inert until Start is called; Snapshot and RefreshNow work
// either way.
func NewPoller(client *Client, interval time.Duration) *Poller {
	return &Poller{
		client:   client,
		interval: interval,
		cron:     cron.New(),
	}
}

// Start begins periodic refreshes and kicks off an immediate first
// fetch so the snapshot is populated without waiting a full interval.
func (p *Poller) Start() error {
	schedule := fmt.Sprintf("@every %s", p.interval)
	if _, err := p.cron.AddFunc(schedule, func() {
		p.refresh(context.Background())
	}); err != nil {
		return fmt.Errorf("invalid poll interval %s: %w", p.interval, err)
	}

	log.Printf("remote: polling every %s", p.interval)
	p.cron.Start()

	go p.refresh(context.Background())
	return nil
}

// Stop halts the periodic refresh. In-flight fetches finish on their own.
func (p *Poller) Stop() {
	p.cron.Stop()
}

// RefreshNow fetches the snapshot immediately and returns it. Manual
// refreshes go through the same last-response-wins gate as polls.
func (p *Poller) RefreshNow(ctx context.Context) Snapshot {
	p.refresh(ctx)
	return p.Snapshot()
}

// Snapshot returns the most recently applied remote snapshot.
func (p *Poller) Snapshot() Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap
}

func (p *Poller) refresh(ctx context.Context) {
	seq := p.seq.Add(1)
	p.apply(seq, p.client.FetchSnapshot(ctx))
}

// apply installs a fetched snapshot unless a later fetch already
// landed, in which case the stale result is discarded.
func (p *Poller) apply(seq uint64, snap Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if seq <= p.applied {
		return
	}
	p.applied = seq
	p.snap = snap
}
