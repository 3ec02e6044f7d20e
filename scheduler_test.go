package sipper

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type stubSource struct {
	values  map[string]string
	errs    map[string]error
	queries map[string]int
	block   bool
}

func newStubSource() *stubSource {
	return &stubSource{
		values:  map[string]string{},
		errs:    map[string]error{},
		queries: map[string]int{},
	}
}

func (s *stubSource) Query(ctx context.Context, name string) (string, error) {
	s.queries[name]++
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if err := s.errs[name]; err != nil {
		return "", err
	}
	return s.values[name], nil
}

func (s *stubSource) Connected() bool {
	return true
}

func (s *stubSource) Close() error {
	return nil
}

var testCatalog = []Parameter{
	{"F1", TierFast},
	{"F2", TierFast},
	{"M1", TierMedium},
	{"S1", TierSlow},
}

func TestSchedulerSeedsStore(t *testing.T) {
	store := NewStore()
	NewScheduler(newStubSource(), store, testCatalog, time.Second)
	for _, p := range testCatalog {
		assert.Equal(t, valuePending, store.Get(p.Name))
	}
}

func TestSchedulerTierCadence(t *testing.T) {
	store := NewStore()
	src := newStubSource()
	sched := NewScheduler(src, store, testCatalog, time.Second)

	for i := 0; i < 30; i++ {
		sched.Cycle(context.Background())
	}

	assert.Equal(t, 30, src.queries["F1"])
	assert.Equal(t, 30, src.queries["F2"])
	assert.Equal(t, 2, src.queries["M1"], "medium tier fires on cycles 15 and 30")
	assert.Equal(t, 1, src.queries["S1"], "slow tier fires on cycle 30")
}

func TestSchedulerValueAndNoData(t *testing.T) {
	store := NewStore()
	src := newStubSource()
	src.values["F1"] = "1500 revolutions_per_minute"
	sched := NewScheduler(src, store, testCatalog, time.Second)

	sched.Cycle(context.Background())
	assert.Equal(t, "1500 revolutions_per_minute", store.Get("F1"))
	assert.Equal(t, valueNoData, store.Get("F2"), "empty answer records a no-data marker")
	assert.Equal(t, valuePending, store.Get("M1"), "medium tier untouched on cycle 1")
}

func TestSchedulerFailureDoesNotAbortTier(t *testing.T) {
	store := NewStore()
	src := newStubSource()
	src.errs["F1"] = errors.New("unsupported pid")
	src.values["F2"] = "42 kph"
	sched := NewScheduler(src, store, testCatalog, time.Second)

	sched.Cycle(context.Background())
	assert.Equal(t, "error: unsupported pid", store.Get("F1"))
	assert.Equal(t, "42 kph", store.Get("F2"), "later parameters still refreshed")
}

func TestSchedulerQueryTimeout(t *testing.T) {
	store := NewStore()
	src := newStubSource()
	src.block = true
	sched := NewScheduler(src, store, testCatalog, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		sched.Cycle(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cycle stalled on a blocked source")
	}
	assert.Contains(t, store.Get("F1"), "error: ")
	assert.Equal(t, 1, src.queries["F2"], "timeout on one parameter does not skip the rest")
}
