package trading

import (
	"errors"
	"fmt"
)

// ErrNoPositions is returned by bulk close when there is nothing to close.
// Callers treat it as a no-op, not a failure.
var ErrNoPositions = errors.New("no open positions")

// ErrNoOrders is the pending-order counterpart of ErrNoPositions.
var ErrNoOrders = errors.New("no pending orders")

// ConnectionError reports a failure to reach or initialize the terminal.
type ConnectionError struct {
	Message string
	Code    int
}

func (e *ConnectionError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("terminal connection failed: %s (%s)", e.Message, TerminalErrorDescription(e.Code))
	}
	return fmt.Sprintf("terminal connection failed: %s", e.Message)
}

// AuthenticationError reports rejected or incomplete account credentials.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// SymbolError reports an unknown or unavailable instrument.
type SymbolError struct {
	Symbol  string
	Message string
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("symbol %s: %s", e.Symbol, e.Message)
}

// TradingError reports a trade operation rejected by the venue. Result, when
// present, carries the venue's return code and description.
type TradingError struct {
	Message string
	Result  *TradeResult
}

func (e *TradingError) Error() string {
	if e.Result != nil {
		return fmt.Sprintf("%s: %s (retcode %d)", e.Message, e.Result.Description(), e.Result.Retcode)
	}
	return e.Message
}
