package sipper

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// Scheduler refreshes the catalog into the store on a tiered cadence: the
// fast tier every cycle, the medium tier every 15th and the slow tier every
// 30th. The cadence is driven purely by the cycle counter, not wall-clock.
type Scheduler struct {
	source  Source
	store   *Store
	catalog []Parameter
	timeout time.Duration
	count   uint64
}

func NewScheduler(source Source, store *Store, catalog []Parameter, timeout time.Duration) *Scheduler {
	for _, p := range catalog {
		store.Seed(p.Name, valuePending)
	}
	return &Scheduler{
		source:  source,
		store:   store,
		catalog: catalog,
		timeout: timeout,
	}
}

// Cycle runs one scheduling round. A failing parameter is recorded as a
// failure marker and never aborts the rest of the tier or the cycle.
func (s *Scheduler) Cycle(ctx context.Context) {
	s.count++
	s.refresh(ctx, TierFast)
	if s.count%15 == 0 {
		s.refresh(ctx, TierMedium)
	}
	if s.count%30 == 0 {
		s.refresh(ctx, TierSlow)
	}
}

func (s *Scheduler) refresh(ctx context.Context, tier Tier) {
	for _, p := range s.catalog {
		if p.Tier != tier {
			continue
		}
		queryCtx, cancel := context.WithTimeout(ctx, s.timeout)
		value, err := s.source.Query(queryCtx, p.Name)
		cancel()
		if err != nil {
			queryFailures.Inc()
			log.WithField("err", err).Debugf("query failed: %s", p.Name)
			s.store.Set(p.Name, "error: "+err.Error())
			continue
		}
		if value == "" {
			value = valueNoData
		}
		s.store.Set(p.Name, value)
	}
}
