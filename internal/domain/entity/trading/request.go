package trading

// TradeRequest is the normalized order payload handed to the terminal. All
// prices in it are already snapped to the instrument's tick grid and the
// volume to its step; the terminal sends it as-is.
type TradeRequest struct {
	Action      TradeAction `json:"action"`
	Symbol      string      `json:"symbol"`
	Volume      float64     `json:"volume"`
	Type        OrderType   `json:"type"`
	Price       float64     `json:"price,omitempty"`
	StopLimit   float64     `json:"stoplimit,omitempty"`
	StopLoss    float64     `json:"sl,omitempty"`
	TakeProfit  float64     `json:"tp,omitempty"`
	Deviation   int         `json:"deviation,omitempty"`
	Magic       int64       `json:"magic,omitempty"`
	Order       int64       `json:"order,omitempty"`
	Position    int64       `json:"position,omitempty"`
	PositionBy  int64       `json:"position_by,omitempty"`
	Comment     string      `json:"comment,omitempty"`
	TimeInForce TimeInForce `json:"type_time"`
	Filling     FillingMode `json:"type_filling"`
	Expiration  int64       `json:"expiration,omitempty"`
}

// IsMarket reports whether the request executes immediately at market.
func (r TradeRequest) IsMarket() bool {
	return r.Action == ActionDeal
}
