package sipper

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Watchdog watches the liveness of the fast acquisition path. The signal is
// the latest MAF value parsing to a positive number; while the engine is
// running this updates every cycle. When the signal stays stale past the
// threshold the stale callback fires, once per second, until the supervisor
// acts on it. The watchdog itself never restarts anything.
//
// An engine idling with zero MAF is indistinguishable from a stalled
// acquisition path; widen the threshold if that matters for the deployment.
type Watchdog struct {
	store     *Store
	threshold time.Duration
	stale     func()
	lastSeen  time.Time
}

func NewWatchdog(store *Store, threshold time.Duration, stale func()) *Watchdog {
	return &Watchdog{
		store:     store,
		threshold: threshold,
		stale:     stale,
		lastSeen:  timeNow(),
	}
}

// Run checks the signal once per second until ctx is cancelled. It runs on
// its own cadence, independent of the engine's cycle counter.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.check()
		}
	}
}

func (w *Watchdog) check() {
	if ParseFirstFloat(w.store.Get(KeyMAF), 0) > 0 {
		w.lastSeen = timeNow()
		return
	}
	if stale := timeNow().Sub(w.lastSeen); stale > w.threshold {
		log.WithField("stale", stale).Error("no fast data")
		watchdogTrips.Inc()
		w.stale()
	}
}
