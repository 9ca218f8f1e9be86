package trading

import (
	"context"
	"testing"

	trading "mt5bridge/internal/domain/entity/trading"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseAllNoPositions(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.CloseAll(context.Background(), "EURUSD")
	require.ErrorIs(t, err, trading.ErrNoPositions)
}

func TestCloseAllSweepsEverything(t *testing.T) {
	t.Parallel()

	svc, mock := newTestService(t)
	mock.AddPosition(trading.Position{Symbol: "EURUSD", Type: trading.PositionBuy, Volume: 0.1, PriceCurrent: 1.1})
	mock.AddPosition(trading.Position{Symbol: "EURUSD", Type: trading.PositionSell, Volume: 0.2, PriceCurrent: 1.1})
	mock.AddPosition(trading.Position{Symbol: "EURUSD", Type: trading.PositionBuy, Volume: 0.3, PriceCurrent: 1.1})

	outcome, err := svc.CloseAll(context.Background(), "EURUSD")
	require.NoError(t, err)
	assert.Len(t, outcome.Closed, 3)
	assert.Empty(t, outcome.Failed)
	assert.Empty(t, mock.PositionsGet("EURUSD"))
}

func TestCloseAllRecordsIndividualFailures(t *testing.T) {
	t.Parallel()

	svc, mock := newTestService(t)
	mock.AddPosition(trading.Position{Symbol: "EURUSD", Type: trading.PositionBuy, Volume: 0.1, PriceCurrent: 1.1})
	mock.AddPosition(trading.Position{Symbol: "EURUSD", Type: trading.PositionSell, Volume: 0.2, PriceCurrent: 1.1})
	// A position on an instrument the terminal no longer serves metadata
	// for cannot be closed; the sweep must continue past it.
	ghost := mock.AddPosition(trading.Position{Symbol: "DELISTED", Type: trading.PositionBuy, Volume: 0.1, PriceCurrent: 9.0})

	outcome, err := svc.CloseAll(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, outcome.Closed, 2)
	require.Len(t, outcome.Failed, 1)
	assert.Equal(t, ghost, outcome.Failed[0].Ticket)
	assert.Equal(t, "DELISTED", outcome.Failed[0].Symbol)
	assert.NotEmpty(t, outcome.Failed[0].Error)
	assert.Empty(t, mock.PositionsGet("EURUSD"))
}

func TestCloseAllScopedToSymbol(t *testing.T) {
	t.Parallel()

	svc, mock := newTestService(t)
	mock.AddSymbol(trading.SymbolInfo{
		Name: "GBPUSD", Visible: true, Digits: 5, Point: 0.00001, TickSize: 0.00001,
		TickValue: 1, VolumeMin: 0.01, VolumeMax: 100, VolumeStep: 0.01,
		Bid: 1.2499, Ask: 1.2500,
	})
	mock.AddPosition(trading.Position{Symbol: "EURUSD", Type: trading.PositionBuy, Volume: 0.1, PriceCurrent: 1.1})
	mock.AddPosition(trading.Position{Symbol: "GBPUSD", Type: trading.PositionBuy, Volume: 0.2, PriceCurrent: 1.25})

	outcome, err := svc.CloseAll(context.Background(), "GBPUSD")
	require.NoError(t, err)
	assert.Len(t, outcome.Closed, 1)
	assert.Len(t, mock.PositionsGet("EURUSD"), 1)
	assert.Empty(t, mock.PositionsGet("GBPUSD"))
}

func TestCancelAllNoOrders(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t)
	_, err := svc.CancelAll(context.Background(), "")
	require.ErrorIs(t, err, trading.ErrNoOrders)
}

func TestCancelAllSweepsEverything(t *testing.T) {
	t.Parallel()

	svc, mock := newTestService(t)
	mock.AddOrder(trading.Order{Symbol: "EURUSD", Type: trading.OrderBuyLimit, VolumeCurrent: 0.1, PriceOpen: 1.09})
	mock.AddOrder(trading.Order{Symbol: "EURUSD", Type: trading.OrderSellStop, VolumeCurrent: 0.2, PriceOpen: 1.08})

	outcome, err := svc.CancelAll(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, outcome.Cancelled, 2)
	assert.Empty(t, outcome.Failed)
	assert.Empty(t, mock.OrdersGet(""))
}
