package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	apptrading "mt5bridge/internal/application/service/trading"
	domain "mt5bridge/internal/domain/entity/trading"

	appinstruments "mt5bridge/internal/application/service/instruments"
	apprisk "mt5bridge/internal/application/service/risk"
	"mt5bridge/internal/infrastructure/terminal"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	errMissingAuth   = errors.New("Authorization header is missing")
	errInvalidToken  = errors.New("Invalid authorization token")
	errMissingSymbol = errors.New("symbol query param required")
)

type Handler struct {
	router      *gin.Engine
	session     *terminal.Session
	instruments *appinstruments.Service
	risk        *apprisk.Service
	trading     *apptrading.Service
	authToken   string
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      *logrus.Logger
}

func NewHandler(session *terminal.Session, inst *appinstruments.Service, risk *apprisk.Service, trading *apptrading.Service, authToken string, cache *redis.Client, cacheTTL time.Duration, logger *logrus.Logger) *Handler {
	router := gin.New()
	router.Use(gin.Recovery(), requestID())

	h := &Handler{
		router:      router,
		session:     session,
		instruments: inst,
		risk:        risk,
		trading:     trading,
		authToken:   authToken,
		cache:       cache,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/", h.root)
	h.router.GET("/health", h.health)

	api := h.router.Group("/")
	api.Use(h.authMiddleware())
	{
		api.POST("/initialize_mt5_connection", h.initializeConnection)
		api.POST("/create_mt5_orders", h.createOrders)
		api.POST("/close_mt5_orders", h.closeOrders)
		api.POST("/place_limit_order", h.placeLimitOrder)
		api.POST("/modify_position_sltp", h.modifyPositionStops)
		api.POST("/close_position", h.closePosition)
		api.POST("/cancel_order", h.cancelOrder)
		api.POST("/cancel_all_orders", h.cancelAllOrders)

		api.GET("/get_positions", h.getPositions)
		api.GET("/get_orders", h.getOrders)
		api.GET("/get_account_info", h.getAccountInfo)
		api.GET("/get_symbol_info", h.cacheMiddleware(), h.getSymbolInfo)
		api.GET("/get_terminal_info", h.cacheMiddleware(), h.getTerminalInfo)
	}
}

// authMiddleware enforces bearer token auth on the trading surface. With no
// token configured the surface is open, which is only sensible against the
// mock terminal.
func (h *Handler) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.authToken == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if header == "" {
			writeError(c, http.StatusUnauthorized, errMissingAuth)
			c.Abort()
			return
		}
		if header != "Bearer "+h.authToken {
			writeError(c, http.StatusUnauthorized, errInvalidToken)
			c.Abort()
			return
		}
		c.Next()
	}
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func (h *Handler) root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "MT5 trading bridge is running"})
}

func (h *Handler) health(c *gin.Context) {
	if !h.session.Connected() {
		c.JSON(http.StatusOK, gin.H{"status": "degraded", "terminal_connected": false})
		return
	}
	if err := h.session.EnsureConnected(c.Request.Context()); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "degraded", "terminal_connected": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "terminal_connected": true})
}

type connectPayload struct {
	AccountID int64  `json:"account_id"`
	Password  string `json:"password"`
	Server    string `json:"server"`
}

func (h *Handler) initializeConnection(c *gin.Context) {
	var payload connectPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	ctx := c.Request.Context()
	var err error
	if payload.AccountID != 0 || payload.Password != "" || payload.Server != "" {
		err = h.session.Login(ctx, payload.AccountID, payload.Password, payload.Server)
	} else {
		err = h.session.Connect(ctx)
	}
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "MT5 connection initialized"})
}

type createOrdersPayload struct {
	Symbol      string  `json:"symbol" binding:"required"`
	Direction   string  `json:"direction" binding:"required"`
	StakeAmount float64 `json:"stake_amount"`
	StopLoss    float64 `json:"stop_loss"`
	TakeProfit  float64 `json:"take_profit"`
	Comment     string  `json:"comment"`
}

func (h *Handler) createOrders(c *gin.Context) {
	var payload createOrdersPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	ctx := c.Request.Context()
	// stake_amount is a risk stake in account currency, not a lot size; the
	// risk service converts it. Omitted, the configured default fraction of
	// equity is staked.
	volume, err := h.risk.VolumeByRiskStake(ctx, payload.Symbol, payload.StakeAmount)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	result, err := h.trading.PlaceMarketOrder(ctx, payload.Symbol, payload.Direction, volume, payload.StopLoss, payload.TakeProfit, payload.Comment)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order placed", "result": result})
}

type closeOrdersPayload struct {
	Symbol string `json:"symbol"`
}

func (h *Handler) closeOrders(c *gin.Context) {
	var payload closeOrdersPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	outcome, err := h.trading.CloseAll(c.Request.Context(), payload.Symbol)
	if errors.Is(err, domain.ErrNoPositions) {
		c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("No open positions found for symbol: %s", payload.Symbol)})
		return
	}
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Closed %d positions, %d failed", len(outcome.Closed), len(outcome.Failed)),
		"closed":  outcome.Closed,
		"failed":  outcome.Failed,
	})
}

type limitOrderPayload struct {
	OrderType  string  `json:"order_type" binding:"required"`
	Symbol     string  `json:"symbol" binding:"required"`
	Volume     float64 `json:"volume" binding:"required"`
	Price      float64 `json:"price" binding:"required"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
	Comment    string  `json:"comment"`
}

func (h *Handler) placeLimitOrder(c *gin.Context) {
	var payload limitOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	orderType, err := domain.ParsePendingType(payload.OrderType)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	result, err := h.trading.PlaceLimitOrder(c.Request.Context(), orderType, payload.Symbol, payload.Volume, payload.Price, payload.StopLoss, payload.TakeProfit, payload.Comment)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Limit order placed", "result": result})
}

type modifyStopsPayload struct {
	Ticket     int64    `json:"ticket" binding:"required"`
	StopLoss   *float64 `json:"stop_loss"`
	TakeProfit *float64 `json:"take_profit"`
}

func (h *Handler) modifyPositionStops(c *gin.Context) {
	var payload modifyStopsPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	result, err := h.trading.ModifyPositionStops(c.Request.Context(), payload.Ticket, payload.StopLoss, payload.TakeProfit)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Position updated", "result": result})
}

type closePositionPayload struct {
	Ticket int64   `json:"ticket" binding:"required"`
	Volume float64 `json:"volume"`
}

func (h *Handler) closePosition(c *gin.Context) {
	var payload closePositionPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	result, err := h.trading.ClosePosition(c.Request.Context(), payload.Ticket, payload.Volume)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Position closed", "result": result})
}

type cancelOrderPayload struct {
	Ticket int64 `json:"ticket" binding:"required"`
}

func (h *Handler) cancelOrder(c *gin.Context) {
	var payload cancelOrderPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	result, err := h.trading.CancelOrder(c.Request.Context(), payload.Ticket)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled", "result": result})
}

func (h *Handler) cancelAllOrders(c *gin.Context) {
	outcome, err := h.trading.CancelAll(c.Request.Context(), c.Query("symbol"))
	if errors.Is(err, domain.ErrNoOrders) {
		c.JSON(http.StatusOK, gin.H{"message": "No pending orders found"})
		return
	}
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   fmt.Sprintf("Cancelled %d orders, %d failed", len(outcome.Cancelled), len(outcome.Failed)),
		"cancelled": outcome.Cancelled,
		"failed":    outcome.Failed,
	})
}

func (h *Handler) getPositions(c *gin.Context) {
	positions, err := h.trading.Positions(c.Request.Context(), c.Query("symbol"))
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"positions": positions, "count": len(positions)})
}

func (h *Handler) getOrders(c *gin.Context) {
	orders, err := h.trading.Orders(c.Request.Context(), c.Query("symbol"))
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

func (h *Handler) getAccountInfo(c *gin.Context) {
	acc, err := h.session.AccountInfo()
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, acc)
}

func (h *Handler) getSymbolInfo(c *gin.Context) {
	symbol := c.Query("symbol")
	if symbol == "" {
		writeError(c, http.StatusBadRequest, errMissingSymbol)
		return
	}
	lookup := h.instruments.SymbolInfo
	if c.Query("fresh") != "" {
		lookup = h.instruments.SymbolInfoFresh
	}
	info, err := lookup(c.Request.Context(), symbol)
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, info)
}

func (h *Handler) getTerminalInfo(c *gin.Context) {
	info, err := h.session.TerminalInfo()
	if err != nil {
		writeError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, info)
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	var authErr *domain.AuthenticationError
	var connErr *domain.ConnectionError
	var symErr *domain.SymbolError
	var tradeErr *domain.TradingError
	switch {
	case errors.As(err, &authErr):
		return http.StatusUnauthorized
	case errors.As(err, &connErr):
		return http.StatusServiceUnavailable
	case errors.As(err, &symErr):
		return http.StatusBadRequest
	case errors.As(err, &tradeErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// cacheMiddleware caches GET responses in Redis.
func (h *Handler) cacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := h.cacheKey(c)
		ctx := c.Request.Context()

		if cached, err := h.cache.Get(ctx, key).Result(); err == nil {
			c.Data(http.StatusOK, "application/json", []byte(cached))
			c.Abort()
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: c.Writer,
			status:         http.StatusOK,
			body:           &bytes.Buffer{},
		}
		c.Writer = recorder

		c.Next()

		if recorder.status >= 200 && recorder.status < 300 && recorder.body.Len() > 0 {
			_ = h.cache.Set(ctx, key, recorder.body.Bytes(), h.cacheTTL).Err()
		}
	}
}

type responseRecorder struct {
	gin.ResponseWriter
	body   *bytes.Buffer
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(data []byte) (int, error) {
	if len(data) > 0 {
		r.body.Write(data)
	}
	return r.ResponseWriter.Write(data)
}

func (h *Handler) cacheKey(c *gin.Context) string {
	return fmt.Sprintf("cache:%s:%s?%s", c.Request.Method, c.FullPath(), c.Request.URL.RawQuery)
}
