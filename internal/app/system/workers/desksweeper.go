// internal/app/system/workers/desksweeper.go
package workers

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/adminpanel/internal/app/store/sessions"
	"github.com/dalemusser/adminpanel/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// DeskSource is the registry of live desks.
type DeskSource interface {
	Sweep(idle time.Duration) []string
}

// SessionCloser ends ledger sessions.
type SessionCloser interface {
	Close(ctx context.Context, id, reason string) error
	CloseInactive(ctx context.Context, threshold time.Duration) (int64, error)
}

// DeskSweeper is a background worker that drops the page state of idle
// desks and closes their sessions, so an idle operator must sign in again.
type DeskSweeper struct {
	desks    DeskSource
	sessions SessionCloser
	log      *zap.Logger
	interval time.Duration
	idle     time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewDeskSweeper creates the worker.
//
// Parameters:
//   - desks: the desk registry
//   - sessionStore: the session ledger; nil skips closing sessions
//   - logger: zap logger for logging
//   - interval: how often to sweep (e.g., 1 minute)
//   - idle: how long a desk may go unused before it is dropped (e.g., 30 minutes)
func NewDeskSweeper(desks DeskSource, sessionStore SessionCloser, logger *zap.Logger, interval, idle time.Duration) *DeskSweeper {
	return &DeskSweeper{
		desks:    desks,
		sessions: sessionStore,
		log:      logger,
		interval: interval,
		idle:     idle,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (w *DeskSweeper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("desk sweeper started",
		zap.Duration("interval", w.interval),
		zap.Duration("idle_timeout", w.idle))
}

// Stop signals the worker to stop and waits for it to finish. It is safe
// to call more than once.
func (w *DeskSweeper) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	w.log.Info("desk sweeper stopped")
}

func (w *DeskSweeper) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.SweepOnce()
		}
	}
}

// SweepOnce runs a single sweep and returns the evicted session ids.
//
// Ledger sessions idle past the timeout are closed even when no desk
// exists for them, which covers sessions left open by a previous process.
func (w *DeskSweeper) SweepOnce() []string {
	evicted := w.desks.Sweep(w.idle)
	if len(evicted) > 0 {
		w.log.Info("evicted idle desks", zap.Int("count", len(evicted)))
	} else {
		evicted = nil
	}

	if w.sessions == nil {
		return evicted
	}
	ctx, cancel := timeouts.WithTimeout(context.Background(), timeouts.Medium(), w.log, "close idle sessions")
	defer cancel()
	for _, id := range evicted {
		if err := w.sessions.Close(ctx, id, sessions.EndInactive); err != nil {
			w.log.Error("failed to close idle session", zap.String("session_id", id), zap.Error(err))
		}
	}

	count, err := w.sessions.CloseInactive(ctx, w.idle)
	if err != nil {
		w.log.Error("failed to close inactive sessions", zap.Error(err))
		return evicted
	}
	if count > 0 {
		w.log.Info("closed inactive sessions",
			zap.Int64("count", count),
			zap.Duration("threshold", w.idle))
	}
	return evicted
}
