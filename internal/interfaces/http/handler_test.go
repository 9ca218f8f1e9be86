package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	appinstruments "mt5bridge/internal/application/service/instruments"
	apprisk "mt5bridge/internal/application/service/risk"
	apptrading "mt5bridge/internal/application/service/trading"
	"mt5bridge/internal/config"
	trading "mt5bridge/internal/domain/entity/trading"
	"mt5bridge/internal/infrastructure/terminal"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "test-secret"

func newTestHandler(t *testing.T) (*Handler, *terminal.Mock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	mock := terminal.NewMock()
	sessionCfg := config.TerminalConfig{
		Mode:          "mock",
		MaxRetries:    1,
		RetryDelay:    time.Millisecond,
		CheckInterval: time.Hour,
	}
	session := terminal.NewSession(sessionCfg, mock, logger)
	require.NoError(t, session.Connect(context.Background()))

	instruments := appinstruments.NewService(session, time.Minute, logger)
	tradingCfg := config.TradingConfig{
		RiskFraction:   0.02,
		Deviation:      10,
		Magic:          42,
		Comment:        "bridge-test",
		SymbolCacheTTL: time.Minute,
		FillingMode:    -1,
	}
	risk := apprisk.NewService(session, instruments, tradingCfg, logger)
	tradingSvc := apptrading.NewService(session, instruments, tradingCfg, logger)

	return NewHandler(session, instruments, risk, tradingSvc, testToken, nil, time.Second, logger), mock
}

func doRequest(h *Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRootIsOpen(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	w := doRequest(h, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthReportsConnected(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	w := doRequest(h, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["terminal_connected"])
}

func TestAuthMissingHeader(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	w := doRequest(h, http.MethodGet, "/get_positions", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Authorization header is missing", body["error"])
}

func TestAuthInvalidToken(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	w := doRequest(h, http.MethodGet, "/get_positions", "wrong-token", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "Invalid authorization token", body["error"])
}

func TestCreateOrders(t *testing.T) {
	t.Parallel()

	h, mock := newTestHandler(t)
	// stake_amount is a risk stake in account currency; 500 at an ask of
	// 1.1001 sizes to 454.50 lots, capped at the 100-lot maximum.
	w := doRequest(h, http.MethodPost, "/create_mt5_orders", testToken,
		`{"symbol": "EURUSD", "direction": "long", "stake_amount": 500}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	positions := mock.PositionsGet("EURUSD")
	require.Len(t, positions, 1)
	assert.Equal(t, trading.PositionBuy, positions[0].Type)
	assert.InDelta(t, 100, positions[0].Volume, 1e-9)
}

func TestCreateOrdersDefaultStake(t *testing.T) {
	t.Parallel()

	h, mock := newTestHandler(t)
	// No stake given: 2% of the 10000 equity is a 200 stake, sizing to
	// 181.82 lots before the 100-lot cap.
	w := doRequest(h, http.MethodPost, "/create_mt5_orders", testToken,
		`{"symbol": "EURUSD", "direction": "short"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	positions := mock.PositionsGet("EURUSD")
	require.Len(t, positions, 1)
	assert.Equal(t, trading.PositionSell, positions[0].Type)
	assert.InDelta(t, 100, positions[0].Volume, 1e-9)
}

func TestCreateOrdersBadDirection(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	w := doRequest(h, http.MethodPost, "/create_mt5_orders", testToken,
		`{"symbol": "EURUSD", "direction": "up", "stake_amount": 500}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCloseOrdersNoPositions(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	w := doRequest(h, http.MethodPost, "/close_mt5_orders", testToken, `{"symbol": "EURUSD"}`)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "No open positions found for symbol: EURUSD", body["message"])
}

func TestCloseOrdersClosesAll(t *testing.T) {
	t.Parallel()

	h, mock := newTestHandler(t)
	mock.AddPosition(trading.Position{Symbol: "EURUSD", Type: trading.PositionBuy, Volume: 0.1, PriceCurrent: 1.1})
	mock.AddPosition(trading.Position{Symbol: "EURUSD", Type: trading.PositionSell, Volume: 0.2, PriceCurrent: 1.1})

	w := doRequest(h, http.MethodPost, "/close_mt5_orders", testToken, `{"symbol": "EURUSD"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Empty(t, mock.PositionsGet("EURUSD"))
}

func TestPlaceLimitOrderEndpoint(t *testing.T) {
	t.Parallel()

	h, mock := newTestHandler(t)
	w := doRequest(h, http.MethodPost, "/place_limit_order", testToken,
		`{"order_type": "BUY_LIMIT", "symbol": "EURUSD", "volume": 0.1, "price": 1.095}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, mock.OrdersGet("EURUSD"), 1)
}

func TestModifyPositionEndpoint(t *testing.T) {
	t.Parallel()

	h, mock := newTestHandler(t)
	ticket := mock.AddPosition(trading.Position{Symbol: "EURUSD", Type: trading.PositionBuy, Volume: 0.1, PriceCurrent: 1.1})

	w := doRequest(h, http.MethodPost, "/modify_position_sltp", testToken,
		`{"ticket": `+jsonInt(ticket)+`, "stop_loss": 1.09}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	positions := mock.PositionsGet("EURUSD")
	require.Len(t, positions, 1)
	assert.InDelta(t, 1.09, positions[0].StopLoss, 1e-9)
}

func TestCancelAllOrdersEmpty(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	w := doRequest(h, http.MethodPost, "/cancel_all_orders", testToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "No pending orders found", body["message"])
}

func TestGetPositions(t *testing.T) {
	t.Parallel()

	h, mock := newTestHandler(t)
	mock.AddPosition(trading.Position{Symbol: "EURUSD", Type: trading.PositionBuy, Volume: 0.1})

	w := doRequest(h, http.MethodGet, "/get_positions?symbol=EURUSD", testToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 1, body["count"])
}

func TestGetAccountInfo(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	w := doRequest(h, http.MethodGet, "/get_account_info", testToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.EqualValues(t, 10000, body["balance"])
}

func TestGetSymbolInfo(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	w := doRequest(h, http.MethodGet, "/get_symbol_info?symbol=EURUSD", testToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "EURUSD", body["name"])

	w = doRequest(h, http.MethodGet, "/get_symbol_info", testToken, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetSymbolInfoFreshBypassesCache(t *testing.T) {
	t.Parallel()

	h, mock := newTestHandler(t)
	w := doRequest(h, http.MethodGet, "/get_symbol_info?symbol=EURUSD", testToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 10, decodeBody(t, w)["spread"])

	info := *mock.SymbolInfo("EURUSD")
	info.Spread = 25
	mock.AddSymbol(info)

	// The cached record still serves the stale spread.
	w = doRequest(h, http.MethodGet, "/get_symbol_info?symbol=EURUSD", testToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 10, decodeBody(t, w)["spread"])

	w = doRequest(h, http.MethodGet, "/get_symbol_info?symbol=EURUSD&fresh=1", testToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 25, decodeBody(t, w)["spread"])
}

func TestGetTerminalInfo(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	w := doRequest(h, http.MethodGet, "/get_terminal_info", testToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["connected"])
}

func TestRequestIDHeader(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler(t)
	w := doRequest(h, http.MethodGet, "/", "", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func jsonInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
