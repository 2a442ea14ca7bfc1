// Package syncer coordinates the two replicas: it debounces local writes into
// cloud uploads and reconciles local against cloud at startup. It never blocks
// a local write on the network.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/jinxingedu/kindersync/internal/domain"
	"github.com/jinxingedu/kindersync/internal/infrastructure/logging"
	"github.com/jinxingedu/kindersync/internal/infrastructure/metrics"
)

// LocalStore is the slice of the record store the coordinator needs.
type LocalStore interface {
	Get(key domain.StorageKey) []domain.Record
	Replace(key domain.StorageKey, records []domain.Record) bool
	MarkSynced()
}

// Mirror is the cloud replica client.
type Mirror interface {
	Configured() bool
	Upload(ctx context.Context, key domain.StorageKey, records []domain.Record) bool
	Download(ctx context.Context, key domain.StorageKey) []domain.Record
}

type Coordinator struct {
	local  LocalStore
	mirror Mirror
	logger logging.Logger

	delay time.Duration
	// protected maps keys to a minimum record count; a debounced push below
	// the minimum is skipped so a half-loaded device cannot clobber the
	// cloud copy.
	protected map[domain.StorageKey]int

	mu     sync.Mutex
	timers map[domain.StorageKey]*time.Timer
	closed bool
}

func New(local LocalStore, mirror Mirror, logger logging.Logger, delay time.Duration, protected map[domain.StorageKey]int) *Coordinator {
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}
	return &Coordinator{
		local:     local,
		mirror:    mirror,
		logger:    logger,
		delay:     delay,
		protected: protected,
		timers:    make(map[domain.StorageKey]*time.Timer),
	}
}

// Schedule arms (or re-arms) the debounce timer for key. Calls landing inside
// the delay window coalesce into one upload carrying whatever the local store
// holds when the timer fires. Keys outside the registry never sync.
func (c *Coordinator) Schedule(key domain.StorageKey) {
	if !domain.IsRegistered(key) || !c.mirror.Configured() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	if timer, ok := c.timers[key]; ok {
		timer.Stop()
		metrics.DebounceCoalesced.Inc()
	}
	c.timers[key] = time.AfterFunc(c.delay, func() {
		c.mu.Lock()
		delete(c.timers, key)
		c.mu.Unlock()
		c.push(context.Background(), key)
	})
}

// push reads the current local value and uploads it. An empty local array is
// never pushed: emptiness from a transient read must not overwrite the cloud.
func (c *Coordinator) push(ctx context.Context, key domain.StorageKey) {
	records := c.local.Get(key)
	if len(records) == 0 {
		return
	}
	if minCount, ok := c.protected[key]; ok && len(records) < minCount {
		c.logger.Warn(logging.Sync, logging.Upload, "below protected minimum, skipping push", map[logging.ExtraKey]any{
			logging.Key:   string(key),
			logging.Count: len(records),
		})
		return
	}
	c.mirror.Upload(ctx, key, records)
}

// Flush fires every armed timer immediately. Used at shutdown so pending
// writes reach the cloud before the process exits.
func (c *Coordinator) Flush(ctx context.Context) {
	c.mu.Lock()
	keys := make([]domain.StorageKey, 0, len(c.timers))
	for key, timer := range c.timers {
		timer.Stop()
		keys = append(keys, key)
	}
	c.timers = make(map[domain.StorageKey]*time.Timer)
	c.mu.Unlock()

	for _, key := range keys {
		c.push(ctx, key)
	}
}

// Close stops accepting schedules and drops armed timers without firing them.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	for _, timer := range c.timers {
		timer.Stop()
	}
	c.timers = make(map[domain.StorageKey]*time.Timer)
}
