package score

import (
	"fmt"
	"math"
	"sort"

	"github.com/nao1215/bakeryscan/internal/model"
)

// Score bounds.
const (
	MinScore = 0
	MaxScore = 100
)

// Formula is
//
//	clamp(0, 100, round(pos*PositiveWeight) + Offset
//	    + min(TermBonusCap, terms*PerTermBonus) - round(neg*NegativeWeight))
type Formula struct {
	Name           string  `json:"name"`
	Offset         float64 `json:"offset"`
	PositiveWeight float64 `json:"positive_weight"`
	NegativeWeight float64 `json:"negative_weight"`
	PerTermBonus   float64 `json:"per_term_bonus"`
	TermBonusCap   float64 `json:"term_bonus_cap"`
}

// Preset names.
const (
	PresetPositive   = "positive"
	PresetPositive20 = "positive20"
	PresetPositive30 = "positive30"
	PresetVariety    = "variety"
)

// DefaultPreset is used when no formula is configured.
const DefaultPreset = PresetPositive30

var presets = map[string]Formula{
	PresetPositive:   {Name: PresetPositive, PositiveWeight: 100},
	PresetPositive20: {Name: PresetPositive20, PositiveWeight: 100, Offset: 20},
	PresetPositive30: {Name: PresetPositive30, PositiveWeight: 100, Offset: 30},
	PresetVariety: {
		Name:           PresetVariety,
		Offset:         50,
		PositiveWeight: 20,
		NegativeWeight: 20,
		PerTermBonus:   5,
		TermBonusCap:   20,
	},
}

// Preset returns the named formula.
func Preset(name string) (Formula, error) {
	if name == "" {
		name = DefaultPreset
	}
	f, ok := presets[name]
	if !ok {
		return Formula{}, fmt.Errorf("unknown formula preset %q", name)
	}
	return f, nil
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Overrides replace individual weights of a preset. Nil fields keep it.
type Overrides struct {
	Offset         *float64
	PositiveWeight *float64
	NegativeWeight *float64
	PerTermBonus   *float64
	TermBonusCap   *float64
}

// With returns a copy of f with o applied. A changed formula is renamed
// "<name>+custom" so stored reports show it was not a plain preset.
func (f Formula) With(o Overrides) Formula {
	changed := false
	set := func(dst *float64, v *float64) {
		if v != nil && *v != *dst {
			*dst = *v
			changed = true
		}
	}
	set(&f.Offset, o.Offset)
	set(&f.PositiveWeight, o.PositiveWeight)
	set(&f.NegativeWeight, o.NegativeWeight)
	set(&f.PerTermBonus, o.PerTermBonus)
	set(&f.TermBonusCap, o.TermBonusCap)
	if changed {
		f.Name += "+custom"
	}
	return f
}

// Compute returns the clamped score. It is a pure function: the same
// inputs always give the same result, and every input yields a value in
// [0,100]. Proportions outside [0,1] are clamped first.
func (f Formula) Compute(s model.SentimentScore, terms int) int {
	pos := clamp01(s.Positive)
	neg := clamp01(s.Negative)
	if terms < 0 {
		terms = 0
	}

	bonus := float64(terms) * f.PerTermBonus
	if f.TermBonusCap > 0 && bonus > f.TermBonusCap {
		bonus = f.TermBonusCap
	}

	raw := math.Round(pos*f.PositiveWeight) + f.Offset + bonus - math.Round(neg*f.NegativeWeight)
	return clampScore(raw)
}

// Health computes the score and wraps it with its band.
func (f Formula) Health(s model.SentimentScore, terms int) model.HealthScore {
	return model.NewHealthScore(f.Compute(s, terms), f.Name)
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func clampScore(v float64) int {
	switch {
	case math.IsNaN(v) || v < MinScore:
		return MinScore
	case v > MaxScore:
		return MaxScore
	default:
		return int(math.Round(v))
	}
}
