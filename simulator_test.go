package sipper

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSimulatorRamps(t *testing.T) {
	sim := NewSimulator()
	ctx := context.Background()

	first, err := sim.Query(ctx, KeyRPM)
	assert.NoError(t, err)
	second, err := sim.Query(ctx, KeyRPM)
	assert.NoError(t, err)
	assert.True(t, ParseFirstFloat(second, 0) > ParseFirstFloat(first, 0))

	maf, err := sim.Query(ctx, KeyMAF)
	assert.NoError(t, err)
	assert.True(t, ParseFirstFloat(maf, 0) > 0, "simulated MAF keeps the watchdog happy")
}

func TestSimulatorUnknownParameter(t *testing.T) {
	sim := NewSimulator()
	value, err := sim.Query(context.Background(), "O2_B1S2")
	assert.NoError(t, err)
	assert.Empty(t, value)
}

func TestSimulatorHonorsCancellation(t *testing.T) {
	sim := NewSimulator()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sim.Query(ctx, KeyRPM)
	assert.Error(t, err)
}
