package types

// RiskBand is the ordinal classification of a risk score
type RiskBand string

const (
	RiskBandLow      RiskBand = "Bajo"
	RiskBandMedium   RiskBand = "Medio"
	RiskBandHigh     RiskBand = "Alto"
	RiskBandCritical RiskBand = "Crítico"
)

// AllRiskBands returns all bands ordered from lowest to highest
func AllRiskBands() []RiskBand {
	return []RiskBand{
		RiskBandLow,
		RiskBandMedium,
		RiskBandHigh,
		RiskBandCritical,
	}
}

// Rank returns the ordinal position of the band, starting at 1 for Bajo.
// Unknown bands rank 0.
func (b RiskBand) Rank() int {
	switch b {
	case RiskBandLow:
		return 1
	case RiskBandMedium:
		return 2
	case RiskBandHigh:
		return 3
	case RiskBandCritical:
		return 4
	default:
		return 0
	}
}

// Color returns the display color for the band
func (b RiskBand) Color() string {
	switch b {
	case RiskBandLow:
		return "#22c55e"
	case RiskBandMedium:
		return "#eab308"
	case RiskBandHigh:
		return "#f97316"
	case RiskBandCritical:
		return "#ef4444"
	default:
		return "#9ca3af"
	}
}

// IsValid checks if the band is one of the known bands
func (b RiskBand) IsValid() bool {
	return b.Rank() > 0
}

func (b RiskBand) String() string {
	return string(b)
}
