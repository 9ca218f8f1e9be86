package trading

import (
	"context"
	"fmt"

	appinstruments "mt5bridge/internal/application/service/instruments"
	"mt5bridge/internal/config"
	trading "mt5bridge/internal/domain/entity/trading"
	"mt5bridge/internal/infrastructure/terminal"

	"github.com/sirupsen/logrus"
)

// Service executes trade operations against the terminal session. Every
// order goes through the same pipeline: resolve instrument metadata,
// normalize prices and volume, pre-check with the venue, send.
type Service struct {
	session     *terminal.Session
	instruments *appinstruments.Service
	cfg         config.TradingConfig
	logger      *logrus.Logger
}

func NewService(session *terminal.Session, instruments *appinstruments.Service, cfg config.TradingConfig, logger *logrus.Logger) *Service {
	return &Service{session: session, instruments: instruments, cfg: cfg, logger: logger}
}

// PlaceMarketOrder opens a position at market. Volume is clamped to the
// instrument's limits and stops are pushed to the closest legal level before
// sending.
func (s *Service) PlaceMarketOrder(ctx context.Context, symbol, direction string, volume, stopLoss, takeProfit float64, comment string) (*trading.TradeResult, error) {
	orderType, err := trading.ParseDirection(direction)
	if err != nil {
		return nil, err
	}
	info, err := s.instruments.SymbolInfo(ctx, symbol)
	if err != nil {
		return nil, err
	}
	tick, err := s.instruments.Tick(ctx, symbol)
	if err != nil {
		return nil, err
	}
	price := tick.Ask
	if orderType == trading.OrderSell {
		price = tick.Bid
	}
	req := s.buildMarketRequest(info, orderType, info.ClampVolume(volume), price, comment)
	req.StopLoss, req.TakeProfit = s.normalizeStops(info, orderType, price, stopLoss, takeProfit)
	return s.submit(ctx, req)
}

// PlaceLimitOrder places a pending order. The symbol is enabled only for the
// duration of the call when it is not in the terminal's watch list.
func (s *Service) PlaceLimitOrder(ctx context.Context, orderType trading.OrderType, symbol string, volume, price, stopLoss, takeProfit float64, comment string) (*trading.TradeResult, error) {
	switch orderType {
	case trading.OrderBuyLimit, trading.OrderSellLimit, trading.OrderBuyStop, trading.OrderSellStop:
	default:
		return nil, &trading.TradingError{Message: fmt.Sprintf("order type %s is not a pending type", orderType)}
	}
	var result *trading.TradeResult
	err := s.instruments.WithSymbol(ctx, symbol, func(info *trading.SymbolInfo) error {
		req := &trading.TradeRequest{
			Action:      trading.ActionPending,
			Symbol:      symbol,
			Volume:      info.ClampVolume(volume),
			Type:        orderType,
			Price:       s.snapPrice(info, price),
			Deviation:   s.cfg.Deviation,
			Magic:       s.cfg.Magic,
			Comment:     s.comment(comment),
			TimeInForce: trading.TimeGTC,
			Filling:     s.fillingFor(info),
		}
		req.StopLoss, req.TakeProfit = s.normalizeStops(info, orderType, req.Price, stopLoss, takeProfit)
		var err error
		result, err = s.submit(ctx, req)
		return err
	})
	return result, err
}

// ClosePosition closes a position by ticket, fully when volume is zero.
func (s *Service) ClosePosition(ctx context.Context, ticket int64, volume float64) (*trading.TradeResult, error) {
	pos, err := s.findPosition(ctx, ticket)
	if err != nil {
		return nil, err
	}
	info, err := s.instruments.SymbolInfo(ctx, pos.Symbol)
	if err != nil {
		return nil, err
	}
	tick, err := s.instruments.Tick(ctx, pos.Symbol)
	if err != nil {
		return nil, err
	}
	closeType := pos.CloseType()
	price := tick.Ask
	if closeType == trading.OrderSell {
		price = tick.Bid
	}
	if volume <= 0 || volume > pos.Volume {
		volume = pos.Volume
	}
	req := s.buildMarketRequest(info, closeType, volume, price, "")
	req.Position = pos.Ticket
	return s.submit(ctx, req)
}

// ModifyPositionStops changes the stop loss and/or take profit of an open
// position. Nil keeps the current level; at least one of the two must be
// given.
func (s *Service) ModifyPositionStops(ctx context.Context, ticket int64, stopLoss, takeProfit *float64) (*trading.TradeResult, error) {
	if stopLoss == nil && takeProfit == nil {
		return nil, &trading.TradingError{Message: fmt.Sprintf("modify position %d: stop loss or take profit required", ticket)}
	}
	pos, err := s.findPosition(ctx, ticket)
	if err != nil {
		return nil, err
	}
	info, err := s.instruments.SymbolInfo(ctx, pos.Symbol)
	if err != nil {
		return nil, err
	}
	sl := pos.StopLoss
	if stopLoss != nil {
		sl = *stopLoss
	}
	tp := pos.TakeProfit
	if takeProfit != nil {
		tp = *takeProfit
	}
	side := trading.OrderBuy
	if pos.Type == trading.PositionSell {
		side = trading.OrderSell
	}
	sl, tp = s.normalizeStops(info, side, pos.PriceCurrent, sl, tp)
	req := &trading.TradeRequest{
		Action:     trading.ActionSLTP,
		Symbol:     pos.Symbol,
		Position:   pos.Ticket,
		StopLoss:   sl,
		TakeProfit: tp,
		Magic:      s.cfg.Magic,
	}
	return s.submit(ctx, req)
}

// CancelOrder removes a pending order by ticket.
func (s *Service) CancelOrder(ctx context.Context, ticket int64) (*trading.TradeResult, error) {
	req := &trading.TradeRequest{
		Action: trading.ActionRemove,
		Order:  ticket,
	}
	return s.submit(ctx, req)
}

// Positions lists open positions, optionally filtered by symbol.
func (s *Service) Positions(ctx context.Context, symbol string) ([]trading.Position, error) {
	if err := s.session.EnsureConnected(ctx); err != nil {
		return nil, err
	}
	return s.session.PositionsGet(symbol), nil
}

// Orders lists pending orders, optionally filtered by symbol.
func (s *Service) Orders(ctx context.Context, symbol string) ([]trading.Order, error) {
	if err := s.session.EnsureConnected(ctx); err != nil {
		return nil, err
	}
	return s.session.OrdersGet(symbol), nil
}

func (s *Service) findPosition(ctx context.Context, ticket int64) (*trading.Position, error) {
	if err := s.session.EnsureConnected(ctx); err != nil {
		return nil, err
	}
	for _, pos := range s.session.PositionsGet("") {
		if pos.Ticket == ticket {
			p := pos
			return &p, nil
		}
	}
	return nil, &trading.TradingError{Message: fmt.Sprintf("position %d not found", ticket)}
}

// submit runs the mandatory pre-trade check and sends the request. A request
// that fails the check never reaches the venue. Volume is range-checked once
// more here so no caller path can slip an out-of-range lot past the venue
// check.
func (s *Service) submit(ctx context.Context, req *trading.TradeRequest) (*trading.TradeResult, error) {
	if err := s.session.EnsureConnected(ctx); err != nil {
		return nil, err
	}
	if req.Action == trading.ActionDeal || req.Action == trading.ActionPending {
		info, err := s.instruments.SymbolInfo(ctx, req.Symbol)
		if err != nil {
			return nil, err
		}
		if req.Volume < info.VolumeMin || (info.VolumeMax > 0 && req.Volume > info.VolumeMax) {
			return nil, &trading.TradingError{
				Message: fmt.Sprintf("volume %v for %s outside the allowed range [%v, %v]", req.Volume, req.Symbol, info.VolumeMin, info.VolumeMax),
			}
		}
	}
	check := s.session.OrderCheck(req)
	if check == nil {
		code, desc := s.session.LastError()
		return nil, &trading.TradingError{Message: fmt.Sprintf("order check unavailable: %s (code %d)", desc, code)}
	}
	if !check.Succeeded() {
		s.logger.WithFields(logrus.Fields{
			"symbol":  req.Symbol,
			"retcode": check.Retcode,
			"comment": check.Comment,
		}).Warn("order check rejected request")
		return nil, &trading.TradingError{
			Message: "order check failed",
			Result:  &trading.TradeResult{Retcode: check.Retcode, Comment: check.Comment, Request: req},
		}
	}
	result := s.session.OrderSend(req)
	if result == nil {
		code, desc := s.session.LastError()
		return nil, &trading.TradingError{Message: fmt.Sprintf("order send returned no result: %s (code %d)", desc, code)}
	}
	fields := logrus.Fields{
		"symbol":  req.Symbol,
		"action":  int(req.Action),
		"type":    req.Type.String(),
		"volume":  req.Volume,
		"retcode": result.Retcode,
	}
	if !result.Succeeded() {
		s.logger.WithFields(fields).Warn("order rejected: " + result.Description())
		return result, &trading.TradingError{Message: "order rejected", Result: result}
	}
	s.logger.WithFields(fields).Info("order executed")
	return result, nil
}
