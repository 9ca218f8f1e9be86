package trading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetcodeDescription(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Request completed", RetcodeDescription(RetcodeDone))
	assert.Equal(t, "Requote", RetcodeDescription(RetcodeRequote))
	assert.Equal(t, "There is not enough money to complete the request", RetcodeDescription(RetcodeNoMoney))
	assert.Equal(t, "Unknown return code: 99999", RetcodeDescription(99999))
}

func TestTerminalErrorDescription(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "RES_S_OK: Generic success", TerminalErrorDescription(1))
	assert.Equal(t, "RES_E_AUTH_FAILED: Authorization failed", TerminalErrorDescription(-6))
	assert.Equal(t, "Unknown error code: -42", TerminalErrorDescription(-42))
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    OrderType
		wantErr bool
	}{
		{"long", "long", OrderBuy, false},
		{"buy uppercase", "BUY", OrderBuy, false},
		{"short", "short", OrderSell, false},
		{"sell mixed case", "Sell", OrderSell, false},
		{"empty", "", 0, true},
		{"garbage", "sideways", 0, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDirection(tt.input)
			if tt.wantErr {
				var tradeErr *TradingError
				require.ErrorAs(t, err, &tradeErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePendingType(t *testing.T) {
	t.Parallel()

	got, err := ParsePendingType("buy_limit")
	require.NoError(t, err)
	assert.Equal(t, OrderBuyLimit, got)

	got, err = ParsePendingType("SELL_STOP")
	require.NoError(t, err)
	assert.Equal(t, OrderSellStop, got)

	_, err = ParsePendingType("BUY")
	var tradeErr *TradingError
	require.ErrorAs(t, err, &tradeErr)
}

func TestTradeResultSucceeded(t *testing.T) {
	t.Parallel()

	var nilResult *TradeResult
	assert.False(t, nilResult.Succeeded())
	assert.Equal(t, "no result", nilResult.Description())

	assert.True(t, (&TradeResult{Retcode: RetcodeDone}).Succeeded())
	assert.False(t, (&TradeResult{Retcode: RetcodeDonePartial}).Succeeded())
	assert.False(t, (&TradeResult{Retcode: RetcodePlaced}).Succeeded())
}

func TestMinStopDistance(t *testing.T) {
	t.Parallel()

	spreadDominates := SymbolInfo{Point: 0.00001, Spread: 200, StopsLevel: 10}
	assert.InDelta(t, 0.002, spreadDominates.MinStopDistance(), 1e-9)

	stopsDominate := SymbolInfo{Point: 0.00001, Spread: 10, StopsLevel: 100}
	assert.InDelta(t, 0.001, stopsDominate.MinStopDistance(), 1e-9)
}
