package trading

import (
	"context"

	trading "mt5bridge/internal/domain/entity/trading"

	"github.com/sirupsen/logrus"
)

// CloseAll closes every open position, optionally scoped to one symbol.
// Individual failures do not stop the sweep; each is recorded in the
// outcome. ErrNoPositions is returned when there was nothing to close.
func (s *Service) CloseAll(ctx context.Context, symbol string) (*trading.CloseAllOutcome, error) {
	positions, err := s.Positions(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 {
		return nil, trading.ErrNoPositions
	}
	outcome := &trading.CloseAllOutcome{}
	for _, pos := range positions {
		if _, err := s.ClosePosition(ctx, pos.Ticket, 0); err != nil {
			s.logger.WithFields(logrus.Fields{
				"ticket": pos.Ticket,
				"symbol": pos.Symbol,
			}).WithError(err).Warn("failed to close position")
			outcome.Failed = append(outcome.Failed, trading.BulkFailure{
				Ticket: pos.Ticket,
				Symbol: pos.Symbol,
				Error:  err.Error(),
			})
			continue
		}
		outcome.Closed = append(outcome.Closed, pos)
	}
	s.logger.WithFields(logrus.Fields{
		"closed": len(outcome.Closed),
		"failed": len(outcome.Failed),
	}).Info("bulk close finished")
	return outcome, nil
}

// CancelAll removes every pending order, optionally scoped to one symbol.
// ErrNoOrders is returned when there was nothing to cancel.
func (s *Service) CancelAll(ctx context.Context, symbol string) (*trading.CancelAllOutcome, error) {
	orders, err := s.Orders(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, trading.ErrNoOrders
	}
	outcome := &trading.CancelAllOutcome{}
	for _, order := range orders {
		if _, err := s.CancelOrder(ctx, order.Ticket); err != nil {
			s.logger.WithFields(logrus.Fields{
				"ticket": order.Ticket,
				"symbol": order.Symbol,
			}).WithError(err).Warn("failed to cancel order")
			outcome.Failed = append(outcome.Failed, trading.BulkFailure{
				Ticket: order.Ticket,
				Symbol: order.Symbol,
				Error:  err.Error(),
			})
			continue
		}
		outcome.Cancelled = append(outcome.Cancelled, order)
	}
	s.logger.WithFields(logrus.Fields{
		"cancelled": len(outcome.Cancelled),
		"failed":    len(outcome.Failed),
	}).Info("bulk cancel finished")
	return outcome, nil
}
