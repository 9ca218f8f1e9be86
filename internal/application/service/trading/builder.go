package trading

import (
	trading "mt5bridge/internal/domain/entity/trading"
)

// fillingFor picks the filling mode the symbol's execution style expects.
// A configured filling mode overrides the heuristic.
func (s *Service) fillingFor(info *trading.SymbolInfo) trading.FillingMode {
	if s.cfg.FillingMode >= 0 {
		return trading.FillingMode(s.cfg.FillingMode)
	}
	mode, _ := fillingDefaults(info.ExecutionMode)
	return mode
}

// deviationFor picks the slippage tolerance in points for market orders.
func (s *Service) deviationFor(info *trading.SymbolInfo) int {
	_, deviation := fillingDefaults(info.ExecutionMode)
	return deviation
}

func fillingDefaults(mode trading.ExecutionMode) (trading.FillingMode, int) {
	switch mode {
	case trading.ExecRequest:
		return trading.FillingFOK, 10
	case trading.ExecInstant:
		return trading.FillingFOK, 20
	case trading.ExecMarket:
		return trading.FillingIOC, 5
	default:
		return trading.FillingReturn, 10
	}
}

func (s *Service) buildMarketRequest(info *trading.SymbolInfo, orderType trading.OrderType, volume, price float64, comment string) *trading.TradeRequest {
	return &trading.TradeRequest{
		Action:      trading.ActionDeal,
		Symbol:      info.Name,
		Volume:      volume,
		Type:        orderType,
		Price:       s.snapPrice(info, price),
		Deviation:   s.deviationFor(info),
		Magic:       s.cfg.Magic,
		Comment:     s.comment(comment),
		TimeInForce: trading.TimeGTC,
		Filling:     s.fillingFor(info),
	}
}

func (s *Service) comment(comment string) string {
	if comment == "" {
		return s.cfg.Comment
	}
	return comment
}
