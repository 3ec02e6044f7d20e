package sipper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fakeClock(start time.Time) (advance func(time.Duration), restore func()) {
	current := start
	origNow := timeNow
	timeNow = func() time.Time {
		return current
	}
	return func(d time.Duration) {
			current = current.Add(d)
		}, func() {
			timeNow = origNow
		}
}

func TestWatchdogTripsAfterThreshold(t *testing.T) {
	advance, restore := fakeClock(time.Date(2023, 6, 10, 14, 0, 0, 0, time.UTC))
	defer restore()

	store := NewStore()
	store.Set(KeyMAF, "2.0 grams_per_second")

	trips := 0
	wd := NewWatchdog(store, 5*time.Second, func() {
		trips++
	})

	wd.check()
	assert.Equal(t, 0, trips)

	// signal goes quiet at T
	store.Set(KeyMAF, valueNoData)
	for i := 0; i < 5; i++ {
		advance(time.Second)
		wd.check()
	}
	assert.Equal(t, 0, trips, "must not trip at exactly T+threshold")

	advance(time.Second)
	wd.check()
	assert.Equal(t, 1, trips, "must trip once past T+threshold")
}

func TestWatchdogRefreshedSignalNeverTrips(t *testing.T) {
	advance, restore := fakeClock(time.Date(2023, 6, 10, 14, 0, 0, 0, time.UTC))
	defer restore()

	store := NewStore()
	trips := 0
	wd := NewWatchdog(store, 5*time.Second, func() {
		trips++
	})

	// alternate quiet and live, never quiet longer than the threshold
	for i := 0; i < 20; i++ {
		if i%4 == 0 {
			store.Set(KeyMAF, "1.0 grams_per_second")
		} else {
			store.Set(KeyMAF, valueNoData)
		}
		advance(time.Second)
		wd.check()
	}
	assert.Equal(t, 0, trips)
}

func TestWatchdogZeroMAFIsStale(t *testing.T) {
	advance, restore := fakeClock(time.Date(2023, 6, 10, 14, 0, 0, 0, time.UTC))
	defer restore()

	store := NewStore()
	store.Set(KeyMAF, "0 grams_per_second")

	trips := 0
	wd := NewWatchdog(store, 5*time.Second, func() {
		trips++
	})

	// a zero reading is not a liveness signal
	advance(6 * time.Second)
	wd.check()
	assert.Equal(t, 1, trips)
}
