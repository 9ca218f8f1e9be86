package trading

import (
	trading "mt5bridge/internal/domain/entity/trading"

	"github.com/sirupsen/logrus"
)

// snapPrice aligns a price with the instrument's tick grid. When the
// instrument reports no usable grid the raw value is sent as-is; the venue
// gets to be the judge of it.
func (s *Service) snapPrice(info *trading.SymbolInfo, price float64) float64 {
	if info.TickSize <= 0 {
		s.logger.WithFields(logrus.Fields{
			"symbol": info.Name,
			"price":  price,
		}).Warn("no tick size, sending raw price")
		return price
	}
	return info.SnapPrice(price)
}

func isBuySide(t trading.OrderType) bool {
	switch t {
	case trading.OrderBuy, trading.OrderBuyLimit, trading.OrderBuyStop, trading.OrderBuyStopLimit:
		return true
	default:
		return false
	}
}

// normalizeStops snaps stop loss and take profit to the tick grid and pushes
// them out to the venue's minimum stop distance when they sit too close to
// the price. Zero means the level is not set and passes through untouched.
func (s *Service) normalizeStops(info *trading.SymbolInfo, orderType trading.OrderType, price, stopLoss, takeProfit float64) (float64, float64) {
	minDist := info.MinStopDistance()
	buy := isBuySide(orderType)

	if stopLoss != 0 {
		stopLoss = s.snapPrice(info, stopLoss)
		if buy && stopLoss > price-minDist {
			stopLoss = s.pushLevel(info, "stop_loss", stopLoss, price-minDist)
		} else if !buy && stopLoss < price+minDist {
			stopLoss = s.pushLevel(info, "stop_loss", stopLoss, price+minDist)
		}
	}
	if takeProfit != 0 {
		takeProfit = s.snapPrice(info, takeProfit)
		if buy && takeProfit < price+minDist {
			takeProfit = s.pushLevel(info, "take_profit", takeProfit, price+minDist)
		} else if !buy && takeProfit > price-minDist {
			takeProfit = s.pushLevel(info, "take_profit", takeProfit, price-minDist)
		}
	}
	return stopLoss, takeProfit
}

func (s *Service) pushLevel(info *trading.SymbolInfo, name string, from, to float64) float64 {
	pushed := s.snapPrice(info, to)
	s.logger.WithFields(logrus.Fields{
		"symbol":    info.Name,
		"level":     name,
		"requested": from,
		"adjusted":  pushed,
	}).Debug("stop level adjusted to minimum distance")
	return pushed
}
