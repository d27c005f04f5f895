package model

// Band groups health scores for display.
type Band int

const (
	// BandPoor is a score below 40.
	BandPoor Band = iota
	// BandFair is a score from 40 to 69.
	BandFair
	// BandGood is a score of 70 or more.
	BandGood
)

// Band thresholds.
const (
	GoodThreshold = 70
	FairThreshold = 40
)

// String returns the lowercase band name.
func (b Band) String() string {
	switch b {
	case BandGood:
		return "good"
	case BandFair:
		return "fair"
	case BandPoor:
		return "poor"
	default:
		return "unknown"
	}
}

// Color returns the display color for the band as an RGB triple.
func (b Band) Color() (r, g, bl int) {
	switch b {
	case BandGood:
		return 46, 160, 67
	case BandFair:
		return 219, 171, 9
	default:
		return 207, 34, 46
	}
}

// HexColor returns the band color in CSS hex notation.
func (b Band) HexColor() string {
	switch b {
	case BandGood:
		return "#2ea043"
	case BandFair:
		return "#dbab09"
	default:
		return "#cf222e"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (b Band) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Band) UnmarshalText(text []byte) error {
	*b = ParseBand(string(text))
	return nil
}

// ParseBand converts a band name back to a Band. Unknown names map to BandPoor.
func ParseBand(s string) Band {
	switch s {
	case "good":
		return BandGood
	case "fair":
		return BandFair
	default:
		return BandPoor
	}
}

// BandFor maps a score to its band.
func BandFor(score int) Band {
	switch {
	case score >= GoodThreshold:
		return BandGood
	case score >= FairThreshold:
		return BandFair
	default:
		return BandPoor
	}
}

// HealthScore is the bounded 0-100 summary score.
type HealthScore struct {
	Value int  `json:"value"`
	Band  Band `json:"band"`

	// Formula names the preset that produced Value.
	Formula string `json:"formula"`
}

// NewHealthScore builds a HealthScore and derives its band.
func NewHealthScore(value int, formula string) HealthScore {
	return HealthScore{Value: value, Band: BandFor(value), Formula: formula}
}
