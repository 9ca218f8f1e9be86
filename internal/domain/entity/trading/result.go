package trading

// TradeResult is the terminal's answer to an order send.
type TradeResult struct {
	Retcode         int           `json:"retcode"`
	Deal            int64         `json:"deal"`
	Order           int64         `json:"order"`
	Volume          float64       `json:"volume"`
	Price           float64       `json:"price"`
	Bid             float64       `json:"bid"`
	Ask             float64       `json:"ask"`
	Comment         string        `json:"comment"`
	RequestID       int           `json:"request_id"`
	RetcodeExternal int           `json:"retcode_external"`
	Request         *TradeRequest `json:"request,omitempty"`
}

// Succeeded reports whether the venue fully completed the request. Partial
// fills and placed-but-pending states are not success.
func (r *TradeResult) Succeeded() bool {
	return r != nil && r.Retcode == RetcodeDone
}

// Description returns the human-readable meaning of the result's return code.
func (r *TradeResult) Description() string {
	if r == nil {
		return "no result"
	}
	return RetcodeDescription(r.Retcode)
}

// OrderCheckResult is the terminal's answer to a pre-trade margin check.
// A zero Retcode means the request would be accepted.
type OrderCheckResult struct {
	Retcode     int     `json:"retcode"`
	Balance     float64 `json:"balance"`
	Equity      float64 `json:"equity"`
	Profit      float64 `json:"profit"`
	Margin      float64 `json:"margin"`
	MarginFree  float64 `json:"margin_free"`
	MarginLevel float64 `json:"margin_level"`
	Comment     string  `json:"comment"`
}

// Succeeded reports whether the pre-trade check passed.
func (r *OrderCheckResult) Succeeded() bool {
	return r != nil && r.Retcode == 0
}
