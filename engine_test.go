package sipper

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type memorySink struct {
	rows []Snapshot
	err  error
}

func (s *memorySink) Append(snap Snapshot) error {
	if s.err != nil {
		return s.err
	}
	s.rows = append(s.rows, snap)
	return nil
}

func (s *memorySink) Close() error {
	return nil
}

type forwarderStub struct {
	snaps []Snapshot
}

func (fwd *forwarderStub) Forward(snap Snapshot) error {
	fwd.snaps = append(fwd.snaps, snap)
	return nil
}

func TestEngineCycle(t *testing.T) {
	src := newStubSource()
	src.values[KeyRPM] = "3000 revolutions_per_minute"
	src.values[KeySpeed] = "30 kph"
	src.values[KeyMAF] = "2.0 grams_per_second"

	sink := &memorySink{}
	engine := NewEngine(src, sink, DefaultConfig())
	fwd := &forwarderStub{}
	engine.AddForwarder(fwd)

	engine.Cycle(context.Background())

	assert.Len(t, sink.rows, 1)
	assert.Len(t, fwd.snaps, 1)
	snap := sink.rows[0]
	assert.Equal(t, "3000 revolutions_per_minute", snap.Get(KeyRPM))
	assert.Equal(t, "11.0", snap.Get(KeyBaseFlow), "estimator ran after the scheduler")
	assert.Equal(t, valueNoData, snap.Get("INTAKE_TEMP"))
	assert.Equal(t, valuePending, snap.Get("COOLANT_TEMP"), "slow tier untouched on cycle 1")
}

func TestEngineComputedKeysAfterRawKeys(t *testing.T) {
	src := newStubSource()
	sink := &memorySink{}
	engine := NewEngine(src, sink, DefaultConfig())
	engine.Cycle(context.Background())

	keys := sink.rows[0].Keys
	assert.Equal(t, len(DefaultCatalog())+4, len(keys))
	assert.Equal(t, KeyBaseFlow, keys[len(keys)-4])
	assert.Equal(t, KeyCorrUsed, keys[len(keys)-1])
}

func TestEngineSinkFailureIsNotFatal(t *testing.T) {
	src := newStubSource()
	sink := &memorySink{err: errors.New("disk full")}
	engine := NewEngine(src, sink, DefaultConfig())
	fwd := &forwarderStub{}
	engine.AddForwarder(fwd)

	engine.Cycle(context.Background())
	engine.Cycle(context.Background())

	assert.Len(t, fwd.snaps, 2, "cycles continue past log write failures")
}
