package model

import "testing"

func TestBandFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score int
		want  Band
	}{
		{0, BandPoor},
		{39, BandPoor},
		{40, BandFair},
		{69, BandFair},
		{70, BandGood},
		{100, BandGood},
	}

	for _, tt := range tests {
		if got := BandFor(tt.score); got != tt.want {
			t.Errorf("BandFor(%d) = %v, want %v", tt.score, got, tt.want)
		}
	}
}

func TestBandString(t *testing.T) {
	t.Parallel()

	for _, b := range []Band{BandPoor, BandFair, BandGood} {
		if got := ParseBand(b.String()); got != b {
			t.Errorf("ParseBand(%q) = %v, want %v", b.String(), got, b)
		}
	}
	if Band(99).String() != "unknown" {
		t.Error("expected unknown for out-of-range band")
	}
}

func TestNewHealthScore(t *testing.T) {
	t.Parallel()

	h := NewHealthScore(75, "positive30")
	if h.Band != BandGood {
		t.Errorf("expected good band, got %v", h.Band)
	}
	if h.Formula != "positive30" {
		t.Errorf("expected formula name to be kept, got %q", h.Formula)
	}
}
