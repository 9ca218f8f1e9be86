package trading

import (
	"github.com/shopspring/decimal"
)

// SnapPrice aligns a price with the instrument's tick grid, always rounding
// towards zero so a snapped price is never more aggressive than the
// requested one. Snapping is done in decimal arithmetic; float division by
// the tick size would drift on prices like 1.10003.
func (s SymbolInfo) SnapPrice(price float64) float64 {
	if s.TickSize <= 0 {
		return price
	}
	p := decimal.NewFromFloat(price)
	tick := decimal.NewFromFloat(s.TickSize)
	snapped := p.Div(tick).Floor().Mul(tick)
	out, _ := snapped.Round(int32(s.Digits)).Float64()
	return out
}

// ClampVolume floors the volume to the instrument's step and clamps it into
// the [VolumeMin, VolumeMax] range.
func (s SymbolInfo) ClampVolume(volume float64) float64 {
	if s.VolumeStep > 0 {
		v := decimal.NewFromFloat(volume)
		step := decimal.NewFromFloat(s.VolumeStep)
		snapped := v.Div(step).Floor().Mul(step)
		volume, _ = snapped.Float64()
	}
	if s.VolumeMin > 0 && volume < s.VolumeMin {
		return s.VolumeMin
	}
	if s.VolumeMax > 0 && volume > s.VolumeMax {
		return s.VolumeMax
	}
	return volume
}
