package trading

// Position is an open position as reported by the terminal.
type Position struct {
	Ticket       int64        `json:"ticket"`
	Symbol       string       `json:"symbol"`
	Type         PositionType `json:"type"`
	Volume       float64      `json:"volume"`
	PriceOpen    float64      `json:"price_open"`
	PriceCurrent float64      `json:"price_current"`
	StopLoss     float64      `json:"sl"`
	TakeProfit   float64      `json:"tp"`
	Profit       float64      `json:"profit"`
	Swap         float64      `json:"swap"`
	Magic        int64        `json:"magic"`
	Comment      string       `json:"comment"`
	TimeOpen     int64        `json:"time"`
}

// CloseType returns the order type that closes this position.
func (p Position) CloseType() OrderType {
	if p.Type == PositionBuy {
		return OrderSell
	}
	return OrderBuy
}

// Order is a pending order as reported by the terminal.
type Order struct {
	Ticket        int64     `json:"ticket"`
	Symbol        string    `json:"symbol"`
	Type          OrderType `json:"type"`
	VolumeInitial float64   `json:"volume_initial"`
	VolumeCurrent float64   `json:"volume_current"`
	PriceOpen     float64   `json:"price_open"`
	StopLoss      float64   `json:"sl"`
	TakeProfit    float64   `json:"tp"`
	Magic         int64     `json:"magic"`
	Comment       string    `json:"comment"`
	TimeSetup     int64     `json:"time_setup"`
	TimeExpire    int64     `json:"time_expiration"`
}

// BulkFailure records a single failed item of a bulk operation.
type BulkFailure struct {
	Ticket int64  `json:"ticket"`
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

// CloseAllOutcome is the per-item accounting of a bulk position close.
type CloseAllOutcome struct {
	Closed []Position    `json:"closed"`
	Failed []BulkFailure `json:"failed"`
}

// CancelAllOutcome is the per-item accounting of a bulk order cancel.
type CancelAllOutcome struct {
	Cancelled []Order       `json:"cancelled"`
	Failed    []BulkFailure `json:"failed"`
}
