package sipper

import (
	"context"
	"fmt"
)

// Simulator is a synthetic Source for bench use without a vehicle. Each
// fast-tier query advances a simple drive profile: RPM ramps up and down,
// speed follows, MAF tracks RPM. Values come back as unit-annotated strings
// the way a real scan tool reports them, to exercise the value parser.
type Simulator struct {
	rpm   float64
	down  bool
	ticks int
}

func NewSimulator() *Simulator {
	return &Simulator{rpm: 800}
}

func (s *Simulator) step() {
	if s.down {
		s.rpm -= 100
	} else {
		s.rpm += 100
	}
	if s.rpm >= 3500 {
		s.down = true
	} else if s.rpm <= 800 {
		s.down = false
	}
	s.ticks++
}

func (s *Simulator) Query(ctx context.Context, name string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	switch name {
	case KeyRPM:
		s.step()
		return fmt.Sprintf("%.0f revolutions_per_minute", s.rpm), nil
	case KeySpeed:
		return fmt.Sprintf("%.0f kph", s.rpm/35), nil
	case KeyMAF:
		return fmt.Sprintf("%.2f grams_per_second", s.rpm/750), nil
	case KeySTFT:
		return "1.5 percent", nil
	case KeyLTFT:
		return "-2.3 percent", nil
	case "COOLANT_TEMP":
		return fmt.Sprintf("%d degC", 70+s.ticks%20), nil
	case "FUEL_LEVEL":
		return "42.0 percent", nil
	case "ELM_VOLTAGE":
		return "13.8 volt", nil
	case "THROTTLE_POS", "RELATIVE_THROTTLE_POS", "ACCELERATOR_POS_D":
		return fmt.Sprintf("%.1f percent", s.rpm/70), nil
	case "ENGINE_LOAD", "ABSOLUTE_LOAD":
		return fmt.Sprintf("%.1f percent", s.rpm/100), nil
	case "INTAKE_PRESSURE":
		return "98 kilopascal", nil
	case "INTAKE_TEMP":
		return "21 degC", nil
	}
	// parameters the simulated ECU does not report
	return "", nil
}

func (s *Simulator) Connected() bool {
	return true
}

func (s *Simulator) Close() error {
	return nil
}
