package forwarder

import "github.com/jd3nn1s/sipper"

type Header struct {
	Type uint8
}

const (
	TypeTelemetry = 1
)

const (
	GearNeutral = 0
	GearUnknown = 255
)

// Telemetry is the fixed binary packet sent per snapshot. Fields are packed
// little-endian after a Header; keep the layout stable, the receiving side
// decodes it positionally.
type Telemetry struct {
	RPM            float32
	Speed          float32
	MAF            float32
	CoolantTemp    float32
	FuelLevel      float32
	BaseFlow       float32
	CorrectedFlow  float32
	BaseTotal      float32
	CorrectedTotal float32
	Gear           uint8
}

func fromSnapshot(snap sipper.Snapshot) Telemetry {
	rpm := sipper.ParseFirstFloat(snap.Get(sipper.KeyRPM), 0)
	speed := sipper.ParseFirstFloat(snap.Get(sipper.KeySpeed), 0)
	return Telemetry{
		RPM:            float32(rpm),
		Speed:          float32(speed),
		MAF:            float32(sipper.ParseFirstFloat(snap.Get(sipper.KeyMAF), 0)),
		CoolantTemp:    float32(sipper.ParseFirstFloat(snap.Get("COOLANT_TEMP"), 0)),
		FuelLevel:      float32(sipper.ParseFirstFloat(snap.Get("FUEL_LEVEL"), 0)),
		BaseFlow:       float32(sipper.ParseFirstFloat(snap.Get(sipper.KeyBaseFlow), 0)),
		CorrectedFlow:  float32(sipper.ParseFirstFloat(snap.Get(sipper.KeyCorrFlow), 0)),
		BaseTotal:      float32(sipper.ParseFirstFloat(snap.Get(sipper.KeyBaseUsed), 0)),
		CorrectedTotal: float32(sipper.ParseFirstFloat(snap.Get(sipper.KeyCorrUsed), 0)),
		Gear:           gearCode(sipper.EstimateGear(int(rpm), int(speed))),
	}
}

func gearCode(gear string) uint8 {
	switch gear {
	case "N":
		return GearNeutral
	case "1", "2", "3", "4", "5":
		return gear[0] - '0'
	}
	return GearUnknown
}
