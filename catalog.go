package sipper

import (
	"regexp"
	"strconv"
)

type Tier int

const (
	TierFast Tier = iota
	TierMedium
	TierSlow
)

func (t Tier) String() string {
	switch t {
	case TierFast:
		return "fast"
	case TierMedium:
		return "medium"
	case TierSlow:
		return "slow"
	}
	return "unknown"
}

// Parameter is one pollable ECU value. The catalog is fixed at start-up;
// parameters are never added or removed while the engine runs.
type Parameter struct {
	Name string
	Tier Tier
}

const (
	KeyRPM      = "RPM"
	KeySpeed    = "SPEED"
	KeyMAF      = "MAF"
	KeySTFT     = "SHORT_FUEL_TRIM_1"
	KeyLTFT     = "LONG_FUEL_TRIM_1"
	KeyBaseFlow = "FUEL_USAGE_ML_MIN"
	KeyBaseUsed = "FUEL_USED_TOTAL_ML"
	KeyCorrFlow = "REAL_FUEL_USAGE_ML_MIN"
	KeyCorrUsed = "REAL_FUEL_USED_TOTAL_ML"
)

const (
	// value shown for a parameter that has never been read
	valuePending = "..."
	// value recorded when the source answered but had no reading
	valueNoData = "No data"
	// value shown for a flow that is undefined this cycle
	valueNoFlow = "-"
)

// DefaultCatalog returns the standard PID set, grouped by how often each
// group is refreshed: fast every cycle, medium every 15th, slow every 30th.
func DefaultCatalog() []Parameter {
	return []Parameter{
		{KeyRPM, TierFast},
		{KeySpeed, TierFast},
		{"THROTTLE_POS", TierFast},
		{"RELATIVE_THROTTLE_POS", TierFast},
		{KeyMAF, TierFast},
		{"ENGINE_LOAD", TierFast},
		{"ABSOLUTE_LOAD", TierFast},
		{"INTAKE_PRESSURE", TierFast},
		{"INTAKE_TEMP", TierFast},
		{"ACCELERATOR_POS_D", TierFast},
		{KeySTFT, TierFast},
		{KeyLTFT, TierFast},

		{"O2_B1S2", TierMedium},
		{"O2_B1S1", TierMedium},

		{"FUEL_LEVEL", TierSlow},
		{"ELM_VOLTAGE", TierSlow},
		{"COOLANT_TEMP", TierSlow},
	}
}

var numberRx = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// ParseFirstFloat extracts the first number from a free-form value such as
// "12.5 grams_per_second". Placeholders, failure markers and values without
// a number all yield def.
func ParseFirstFloat(s string, def float64) float64 {
	if s == "" || s == valueNoData || s == valuePending {
		return def
	}
	m := numberRx.FindString(s)
	if m == "" {
		return def
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return def
	}
	return v
}
