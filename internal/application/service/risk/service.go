package risk

import (
	"context"
	"fmt"
	"math"

	appinstruments "mt5bridge/internal/application/service/instruments"
	"mt5bridge/internal/config"
	trading "mt5bridge/internal/domain/entity/trading"
	"mt5bridge/internal/infrastructure/terminal"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// fallbackVolume is used when the account state cannot be read; the smallest
// lot most venues accept.
const fallbackVolume = 0.01

// Service sizes positions from account state and instrument metadata.
type Service struct {
	session     *terminal.Session
	instruments *appinstruments.Service
	cfg         config.TradingConfig
	logger      *logrus.Logger
}

func NewService(session *terminal.Session, instruments *appinstruments.Service, cfg config.TradingConfig, logger *logrus.Logger) *Service {
	return &Service{session: session, instruments: instruments, cfg: cfg, logger: logger}
}

// VolumeByRiskStake converts a stake in account currency into a volume at
// the current ask. A zero stake uses the configured risk fraction of equity;
// a stake above equity is rejected. The result is rounded to two decimals
// and floored at the instrument's minimum volume. An unreadable account
// sizes to the fallback minimum instead of failing the trade.
func (s *Service) VolumeByRiskStake(ctx context.Context, symbol string, stake float64) (float64, error) {
	if stake < 0 {
		return 0, &trading.TradingError{Message: fmt.Sprintf("risk stake %v must not be negative", stake)}
	}
	info, err := s.instruments.SymbolInfo(ctx, symbol)
	if err != nil {
		return 0, err
	}
	acc, err := s.session.AccountInfo()
	if err != nil {
		s.logger.WithError(err).Warn("account unavailable, sizing to fallback volume")
		return fallbackVolume, nil
	}
	if stake == 0 {
		stake = acc.Equity * s.cfg.RiskFraction
	}
	if stake > acc.Equity {
		return 0, &trading.TradingError{Message: fmt.Sprintf("risk stake %v exceeds account equity %v", stake, acc.Equity)}
	}
	tick, err := s.instruments.Tick(ctx, symbol)
	if err != nil {
		return 0, err
	}
	if tick.Ask <= 0 {
		return 0, &trading.SymbolError{Symbol: symbol, Message: "no ask price"}
	}

	volume, _ := decimal.NewFromFloat(stake).Div(decimal.NewFromFloat(tick.Ask)).Round(2).Float64()
	if volume <= 0 {
		volume = fallbackVolume
	}
	if info.VolumeMin > 0 && volume < info.VolumeMin {
		volume = info.VolumeMin
	}
	return info.ClampVolume(volume), nil
}

// VolumeByStopDistance sizes a position so that the given stop being hit
// loses at most riskAmount of account currency. A zero entry uses the quote
// midpoint as the entry estimate.
func (s *Service) VolumeByStopDistance(ctx context.Context, symbol string, riskAmount, entry, stop float64) (float64, error) {
	if riskAmount <= 0 {
		return 0, &trading.TradingError{Message: fmt.Sprintf("risk amount %v must be positive", riskAmount)}
	}
	info, err := s.instruments.SymbolInfo(ctx, symbol)
	if err != nil {
		return 0, err
	}
	if entry == 0 {
		tick, err := s.instruments.Tick(ctx, symbol)
		if err != nil {
			return 0, err
		}
		entry = tick.Mid()
	}
	distance := math.Abs(entry - stop)
	if distance == 0 {
		return 0, &trading.TradingError{Message: fmt.Sprintf("stop %v equals entry %v", stop, entry)}
	}
	if info.TickSize <= 0 || info.TickValue <= 0 {
		return 0, &trading.SymbolError{Symbol: symbol, Message: "tick size or tick value unavailable"}
	}
	ticksAtRisk := distance / info.TickSize
	volume, _ := decimal.NewFromFloat(riskAmount).
		Div(decimal.NewFromFloat(ticksAtRisk * info.TickValue)).
		Round(2).Float64()
	return info.ClampVolume(volume), nil
}
