package commands

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"assetdump/internal/application"
	"assetdump/internal/domain"
	"assetdump/internal/ports"
)

// DefaultPeriod is the polling fallback interval between passes.
const DefaultPeriod = time.Second

// WatchCommand drives repeated incremental passes until the context is
// cancelled. The poll loop always runs and is the guaranteed-correctness
// fallback; when a TreeWatcher is available, filesystem events trigger
// additional passes for responsiveness. Both trigger sources funnel into one
// mutex-serialized pass so they can never race on the shared snapshot or the
// registry's cache reset.
type WatchCommand struct {
	Registry  ports.AssetRegistry
	Writer    ports.ArtifactWriter
	Store     ports.SnapshotStore
	Watcher   ports.TreeWatcher // nil means poll-only
	Period    time.Duration
	Force     bool
	DumpMains bool

	// OnError is invoked once per distinct pass error; repeats of the same
	// message across consecutive passes are suppressed.
	OnError func(error)

	mu        sync.Mutex
	snap      domain.Snapshot
	pass      *application.Pass
	debouncer application.ErrorDebouncer
}

// Validate checks the watch preconditions. Watch mode requires a
// debug-capable registry; anything else is a fatal configuration error
// reported before any loop starts.
func (c *WatchCommand) Validate() error {
	if c.Registry == nil {
		return application.ErrNoRegistry
	}
	if c.Writer == nil {
		return application.ErrNoWriter
	}
	if !c.Registry.DebugMode() {
		return application.ErrNotDebugCapable
	}
	return nil
}

// Execute runs the watch loop until ctx is cancelled. The first pass runs
// immediately; afterwards a pass runs every Period and additionally on every
// coalesced filesystem event.
func (c *WatchCommand) Execute(ctx context.Context) error {
	if err := c.prepare(); err != nil {
		return err
	}

	if c.Watcher != nil {
		if err := c.Watcher.Watch(c.Registry.WatchDirs(), c.runOnce); err != nil {
			// Event delivery is an optimization; polling still
			// gives correct behavior without it.
			logrus.Warnf("filesystem events unavailable, falling back to polling: %v", err)
		} else {
			defer c.Watcher.Close()
		}
	}

	period := c.Period
	if period <= 0 {
		period = DefaultPeriod
	}
	for {
		c.runOnce()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(period):
		}
	}
}

// prepare loads the persisted snapshot (or starts empty when forced) and
// builds the shared pass routine.
func (c *WatchCommand) prepare() error {
	c.snap = domain.NewSnapshot()
	if !c.Force && c.Store != nil {
		snap, err := c.Store.Load()
		if err != nil {
			return err
		}
		c.snap = snap
	}
	c.pass = &application.Pass{
		Registry:  c.Registry,
		Engine:    &application.DumpEngine{Registry: c.Registry, Writer: c.Writer},
		Store:     c.Store,
		DumpMains: c.DumpMains,
	}
	return nil
}

// runOnce executes one pass behind the serialization guard. Errors never
// escape: they are caught at the pass boundary, debounced, and reported
// through OnError so the loop and the event listener keep running.
func (c *WatchCommand) runOnce() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.pass.Run(c.snap); err != nil {
		if c.debouncer.ShouldReport(err) {
			logrus.Errorf("pass failed: %v", err)
			if c.OnError != nil {
				c.OnError(err)
			}
		}
		return
	}
	c.debouncer.Clear()
}
