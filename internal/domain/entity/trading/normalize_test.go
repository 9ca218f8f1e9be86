package trading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapPrice(t *testing.T) {
	t.Parallel()

	info := SymbolInfo{Digits: 5, TickSize: 0.00001}

	tests := []struct {
		name  string
		price float64
		want  float64
	}{
		{"already on grid", 1.10003, 1.10003},
		{"rounds down not up", 1.100037, 1.10003},
		{"just above grid", 1.100031, 1.10003},
		{"whole number", 2.0, 2.0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := info.SnapPrice(tt.price)
			assert.InDelta(t, tt.want, got, 1e-9)
			// Snapping a snapped price must be a no-op.
			assert.InDelta(t, got, info.SnapPrice(got), 1e-9)
		})
	}
}

func TestSnapPriceNoGrid(t *testing.T) {
	t.Parallel()

	info := SymbolInfo{Digits: 5}
	assert.InDelta(t, 1.234567, info.SnapPrice(1.234567), 1e-12)
}

func TestClampVolume(t *testing.T) {
	t.Parallel()

	info := SymbolInfo{VolumeMin: 0.01, VolumeMax: 100, VolumeStep: 0.01}

	tests := []struct {
		name   string
		volume float64
		want   float64
	}{
		{"on step", 0.5, 0.5},
		{"floors to step", 0.057, 0.05},
		{"below minimum", 0.004, 0.01},
		{"above maximum", 250, 100},
		{"at maximum", 100, 100},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.InDelta(t, tt.want, info.ClampVolume(tt.volume), 1e-9)
		})
	}
}
