package sipper

import (
	"fmt"
	"math"
	"time"
)

const (
	// gasoline stoichiometric air-fuel ratio
	stoichAFR = 14.7
	// approximate gasoline density, g/ml
	fuelDensity = 0.745
	// largest cycle-to-cycle gap the integrator will bridge
	maxTrapezoidDT = 5 * time.Second
)

// baseFuelFlow converts a mass-air-flow reading in g/s to a fuel flow in
// ml/min, assuming stoichiometric combustion.
func baseFuelFlow(mafGramsSec float64) float64 {
	fuelGramsSec := mafGramsSec / stoichAFR
	fuelMlSec := fuelGramsSec / fuelDensity
	return fuelMlSec * 60.0
}

type flowSample struct {
	base      float64
	corrected float64
	at        time.Time
}

// Integrator accumulates total fuel used with the trapezoidal rule. It is
// cold until it has a baseline sample; the first valid sample after a reset
// or a clock gap only records the baseline and adds nothing to the totals.
type Integrator struct {
	baseTotal      float64
	correctedTotal float64
	prev           *flowSample
}

// Add feeds one valid flow sample. The interval since the previous sample
// is integrated only when 0 < dt <= maxTrapezoidDT; a gap or a clock step
// backwards discards that interval and the sample becomes the new baseline.
func (in *Integrator) Add(base, corrected float64, at time.Time) {
	if in.prev != nil {
		dt := at.Sub(in.prev.at)
		if dt > 0 && dt <= maxTrapezoidDT {
			dtMin := dt.Minutes()
			in.baseTotal += 0.5 * (in.prev.base + base) * dtMin
			in.correctedTotal += 0.5 * (in.prev.corrected + corrected) * dtMin
		}
	}
	in.prev = &flowSample{base: base, corrected: corrected, at: at}
}

// Reset drops the baseline so the next sample will not integrate across an
// invalid cycle. Totals are kept; they only ever grow.
func (in *Integrator) Reset() {
	in.prev = nil
}

func (in *Integrator) Totals() (base, corrected float64) {
	return in.baseTotal, in.correctedTotal
}

// Estimator derives instantaneous fuel flow from the MAF and fuel-trim
// readings in the store and integrates the running totals. It owns the only
// writer of the computed keys.
type Estimator struct {
	store *Store
	integ Integrator
}

func NewEstimator(store *Store) *Estimator {
	store.Seed(KeyBaseFlow, valueNoFlow)
	store.Seed(KeyBaseUsed, "0.0")
	store.Seed(KeyCorrFlow, valueNoFlow)
	store.Seed(KeyCorrUsed, "0.0")
	return &Estimator{store: store}
}

// Cycle runs once per engine cycle, after the scheduler has refreshed the
// fast tier. An absent or non-positive MAF makes both flows undefined for
// this cycle and clears the integration baseline, so a later valid sample
// never closes a trapezoid against stale data.
func (e *Estimator) Cycle(now time.Time) {
	maf := ParseFirstFloat(e.store.Get(KeyMAF), 0)
	if maf <= 0 {
		e.noFlow()
		return
	}

	stft := ParseFirstFloat(e.store.Get(KeySTFT), 0)
	ltft := ParseFirstFloat(e.store.Get(KeyLTFT), 0)

	base := baseFuelFlow(maf)
	corrected := base * (1.0 + ltft/100.0) * (1.0 + stft/100.0)
	if math.IsNaN(corrected) || math.IsInf(corrected, 0) {
		// fail closed: a bad sample is treated the same as no sample
		e.noFlow()
		return
	}

	e.store.Set(KeyBaseFlow, fmt.Sprintf("%.1f", base))
	e.store.Set(KeyCorrFlow, fmt.Sprintf("%.1f", corrected))

	e.integ.Add(base, corrected, now)
	e.writeTotals()
}

func (e *Estimator) noFlow() {
	e.store.Set(KeyBaseFlow, valueNoFlow)
	e.store.Set(KeyCorrFlow, valueNoFlow)
	e.integ.Reset()
	e.writeTotals()
}

func (e *Estimator) writeTotals() {
	baseTotal, correctedTotal := e.integ.Totals()
	e.store.Set(KeyBaseUsed, fmt.Sprintf("%.1f", baseTotal))
	e.store.Set(KeyCorrUsed, fmt.Sprintf("%.1f", correctedTotal))
}
