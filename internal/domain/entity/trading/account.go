package trading

// AccountInfo is the trading account state as reported by the terminal.
type AccountInfo struct {
	Login        int64   `json:"login"`
	TradeMode    int     `json:"trade_mode"`
	Leverage     int64   `json:"leverage"`
	Balance      float64 `json:"balance"`
	Credit       float64 `json:"credit"`
	Profit       float64 `json:"profit"`
	Equity       float64 `json:"equity"`
	Margin       float64 `json:"margin"`
	MarginFree   float64 `json:"margin_free"`
	MarginLevel  float64 `json:"margin_level"`
	Currency     string  `json:"currency"`
	Server       string  `json:"server"`
	Company      string  `json:"company"`
	Name         string  `json:"name"`
	TradeAllowed bool    `json:"trade_allowed"`
}

// TerminalInfo is the terminal process state, exposed for health reporting.
type TerminalInfo struct {
	Connected      bool   `json:"connected"`
	TradeAllowed   bool   `json:"trade_allowed"`
	Build          int    `json:"build"`
	Name           string `json:"name"`
	Company        string `json:"company"`
	Path           string `json:"path"`
	DataPath       string `json:"data_path"`
	CommonDataPath string `json:"commondata_path"`
}
