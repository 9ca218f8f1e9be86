package interfaces

import (
	trading "mt5bridge/internal/domain/entity/trading"
)

// Terminal is the raw trading terminal API. Implementations wrap a concrete
// terminal bridge; query methods follow the terminal's convention of
// returning a nil record with a nil error when the terminal has no answer,
// in which case LastError holds the reason.
type Terminal interface {
	// Initialize starts or attaches to the terminal process. With a zero
	// login it reuses the terminal's current account.
	Initialize(path string, login int64, password, server string) bool
	// Login authorizes on a trading account in an already-initialized
	// terminal.
	Login(login int64, password, server string) bool
	// Shutdown detaches from the terminal. Safe to call repeatedly.
	Shutdown()
	// LastError returns the code and description of the last failed call.
	LastError() (int, string)

	AccountInfo() *trading.AccountInfo
	TerminalInfo() *trading.TerminalInfo

	SymbolInfo(symbol string) *trading.SymbolInfo
	SymbolInfoTick(symbol string) *trading.Tick
	// SymbolSelect toggles the symbol's visibility in the terminal's watch
	// list. Hidden symbols cannot be traded or quoted.
	SymbolSelect(symbol string, visible bool) bool

	OrderCheck(req *trading.TradeRequest) *trading.OrderCheckResult
	OrderSend(req *trading.TradeRequest) *trading.TradeResult

	PositionsGet(symbol string) []trading.Position
	OrdersGet(symbol string) []trading.Order
}
