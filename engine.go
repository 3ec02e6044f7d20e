package sipper

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// to allow testing
var timeNow = time.Now

// Engine runs the acquisition cycle: scheduler, then estimator, then one
// snapshot handed to the sink and every forwarder. All store writes happen
// on the Run goroutine, so raw and computed keys each have a single writer
// and a snapshot is always from a completed cycle boundary.
type Engine struct {
	store      *Store
	scheduler  *Scheduler
	estimator  *Estimator
	sink       Sink
	forwarders []Forwarder
	period     time.Duration
}

func NewEngine(source Source, sink Sink, cfg *Config) *Engine {
	store := NewStore()
	return &Engine{
		store:     store,
		scheduler: NewScheduler(source, store, DefaultCatalog(), cfg.QueryTimeout()),
		estimator: NewEstimator(store),
		sink:      sink,
		period:    cfg.CyclePeriod(),
	}
}

// Store exposes the telemetry store for read-only consumers such as the
// watchdog and a display layer.
func (e *Engine) Store() *Store {
	return e.store
}

func (e *Engine) AddForwarder(fwd Forwarder) {
	e.forwarders = append(e.forwarders, fwd)
}

// Run cycles until ctx is cancelled. A slow acquisition cycle delays the
// next tick rather than piling up cycles, as the ticker drops missed ticks.
func (e *Engine) Run(ctx context.Context) error {
	ticker := time.NewTicker(e.period)
	defer ticker.Stop()
	for {
		e.Cycle(ctx)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Cycle runs one full acquisition cycle. A log write failure is reported
// and counted but never stops the engine.
func (e *Engine) Cycle(ctx context.Context) {
	e.scheduler.Cycle(ctx)
	e.estimator.Cycle(timeNow())

	snap := e.store.Snapshot()
	if err := e.sink.Append(snap); err != nil {
		logWriteErrors.Inc()
		log.WithField("err", err).Error("unable to append log row")
	}
	for _, fwd := range e.forwarders {
		if err := fwd.Forward(snap); err != nil {
			log.WithField("err", err).Warn("unable to forward telemetry")
		}
	}
	cyclesTotal.Inc()
}
