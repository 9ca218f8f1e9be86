package trading

// SymbolInfo is the instrument metadata snapshot the trading pipeline works
// from: quoting precision, tick grid, volume bounds and the venue's current
// prices. Fields mirror the terminal's symbol record.
type SymbolInfo struct {
	Name           string        `json:"name"`
	Description    string        `json:"description"`
	Visible        bool          `json:"visible"`
	Digits         int           `json:"digits"`
	Point          float64       `json:"point"`
	TickSize       float64       `json:"trade_tick_size"`
	TickValue      float64       `json:"trade_tick_value"`
	ContractSize   float64       `json:"trade_contract_size"`
	VolumeMin      float64       `json:"volume_min"`
	VolumeMax      float64       `json:"volume_max"`
	VolumeStep     float64       `json:"volume_step"`
	StopsLevel     int           `json:"trade_stops_level"`
	FreezeLevel    int           `json:"trade_freeze_level"`
	Spread         int           `json:"spread"`
	ExecutionMode  ExecutionMode `json:"trade_exemode"`
	Bid            float64       `json:"bid"`
	Ask            float64       `json:"ask"`
	Currency       string        `json:"currency_base"`
	CurrencyProfit string        `json:"currency_profit"`
}

// MinStopDistance returns the smallest legal distance between an order price
// and its stop levels, in price units. The venue enforces whichever is larger
// of the current spread and the declared stops level.
func (s SymbolInfo) MinStopDistance() float64 {
	spread := float64(s.Spread) * s.Point
	stops := float64(s.StopsLevel) * s.Point
	if spread > stops {
		return spread
	}
	return stops
}

// Tick is a top-of-book quote snapshot.
type Tick struct {
	Time   int64   `json:"time"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Last   float64 `json:"last"`
	Volume float64 `json:"volume"`
}

// Mid returns the quote midpoint, used as an entry estimate when no side is
// known yet.
func (t Tick) Mid() float64 {
	return (t.Bid + t.Ask) / 2
}
