package trading

import (
	"fmt"
	"strings"
)

// TradeAction selects the kind of venue operation carried by a TradeRequest.
type TradeAction int

const (
	ActionDeal    TradeAction = 1  // market execution with the given parameters
	ActionPending TradeAction = 5  // pending order, executed when conditions are met
	ActionSLTP    TradeAction = 6  // modify stop loss / take profit of an open position
	ActionModify  TradeAction = 7  // modify a previously placed order
	ActionRemove  TradeAction = 8  // delete a pending order
	ActionCloseBy TradeAction = 10 // close a position by an opposite one
)

// OrderType enumerates venue order types.
type OrderType int

const (
	OrderBuy           OrderType = 0
	OrderSell          OrderType = 1
	OrderBuyLimit      OrderType = 2
	OrderSellLimit     OrderType = 3
	OrderBuyStop       OrderType = 4
	OrderSellStop      OrderType = 5
	OrderBuyStopLimit  OrderType = 6
	OrderSellStopLimit OrderType = 7
	OrderCloseBy       OrderType = 8
)

func (t OrderType) String() string {
	switch t {
	case OrderBuy:
		return "BUY"
	case OrderSell:
		return "SELL"
	case OrderBuyLimit:
		return "BUY_LIMIT"
	case OrderSellLimit:
		return "SELL_LIMIT"
	case OrderBuyStop:
		return "BUY_STOP"
	case OrderSellStop:
		return "SELL_STOP"
	case OrderBuyStopLimit:
		return "BUY_STOP_LIMIT"
	case OrderSellStopLimit:
		return "SELL_STOP_LIMIT"
	case OrderCloseBy:
		return "CLOSE_BY"
	default:
		return fmt.Sprintf("UNKNOWN_%d", int(t))
	}
}

// ParseDirection maps a caller-supplied direction string to a market order
// type. Accepted values are long/buy and short/sell (case-insensitive);
// anything else is an error, never a silent default.
func ParseDirection(s string) (OrderType, error) {
	switch strings.ToLower(s) {
	case "long", "buy":
		return OrderBuy, nil
	case "short", "sell":
		return OrderSell, nil
	default:
		return 0, &TradingError{Message: fmt.Sprintf("invalid direction %q: must be 'long', 'short', 'buy', or 'sell'", s)}
	}
}

// ParsePendingType maps a pending order type name to its venue order type.
func ParsePendingType(s string) (OrderType, error) {
	switch strings.ToUpper(s) {
	case "BUY_LIMIT":
		return OrderBuyLimit, nil
	case "SELL_LIMIT":
		return OrderSellLimit, nil
	case "BUY_STOP":
		return OrderBuyStop, nil
	case "SELL_STOP":
		return OrderSellStop, nil
	default:
		return 0, &TradingError{Message: fmt.Sprintf("invalid pending order type %q", s)}
	}
}

// FillingMode is the venue order filling policy.
type FillingMode int

const (
	FillingFOK    FillingMode = 0 // fill completely or not at all
	FillingIOC    FillingMode = 1 // fill to the maximum possible volume
	FillingReturn FillingMode = 2 // normal filling
)

// TimeInForce is the venue order lifetime.
type TimeInForce int

const (
	TimeGTC          TimeInForce = 0
	TimeDay          TimeInForce = 1
	TimeSpecified    TimeInForce = 2
	TimeSpecifiedDay TimeInForce = 3
)

// PositionType enumerates open position directions.
type PositionType int

const (
	PositionBuy  PositionType = 0
	PositionSell PositionType = 1
)

func (t PositionType) String() string {
	if t == PositionBuy {
		return "BUY"
	}
	return "SELL"
}

// ExecutionMode is the symbol's execution style, which drives the filling
// mode and deviation heuristic in the order builder.
type ExecutionMode int

const (
	ExecRequest  ExecutionMode = 0
	ExecInstant  ExecutionMode = 1
	ExecMarket   ExecutionMode = 2
	ExecExchange ExecutionMode = 3
)

// Trade server return codes. RetcodeDone is the venue's canonical success
// code; every other code is a typed failure.
const (
	RetcodeRequote          = 10004
	RetcodeReject           = 10006
	RetcodeCancel           = 10007
	RetcodePlaced           = 10008
	RetcodeDone             = 10009
	RetcodeDonePartial      = 10010
	RetcodeError            = 10011
	RetcodeTimeout          = 10012
	RetcodeInvalid          = 10013
	RetcodeInvalidVolume    = 10014
	RetcodeInvalidPrice     = 10015
	RetcodeInvalidStops     = 10016
	RetcodeTradeDisabled    = 10017
	RetcodeMarketClosed     = 10018
	RetcodeNoMoney          = 10019
	RetcodePriceChanged     = 10020
	RetcodePriceOff         = 10021
	RetcodeInvalidExp       = 10022
	RetcodeOrderChanged     = 10023
	RetcodeTooManyRequests  = 10024
	RetcodeNoChanges        = 10025
	RetcodeServerDisablesAT = 10026
	RetcodeClientDisablesAT = 10027
	RetcodeLocked           = 10028
	RetcodeFrozen           = 10029
	RetcodeInvalidFill      = 10030
	RetcodeConnection       = 10031
	RetcodeOnlyReal         = 10032
	RetcodeLimitOrders      = 10033
	RetcodeLimitVolume      = 10034
	RetcodeInvalidOrder     = 10035
	RetcodePositionClosed   = 10036
)

var retcodeDescriptions = map[int]string{
	RetcodeRequote:          "Requote",
	RetcodeReject:           "Request rejected",
	RetcodeCancel:           "Request canceled by trader",
	RetcodePlaced:           "Order placed",
	RetcodeDone:             "Request completed",
	RetcodeDonePartial:      "Request partially completed",
	RetcodeError:            "Request processing error",
	RetcodeTimeout:          "Request canceled by timeout",
	RetcodeInvalid:          "Invalid request",
	RetcodeInvalidVolume:    "Invalid volume in the request",
	RetcodeInvalidPrice:     "Invalid price in the request",
	RetcodeInvalidStops:     "Invalid stops in the request",
	RetcodeTradeDisabled:    "Trade is disabled",
	RetcodeMarketClosed:     "Market is closed",
	RetcodeNoMoney:          "There is not enough money to complete the request",
	RetcodePriceChanged:     "Prices changed",
	RetcodePriceOff:         "There are no quotes to process the request",
	RetcodeInvalidExp:       "Invalid order expiration date",
	RetcodeOrderChanged:     "Order state changed",
	RetcodeTooManyRequests:  "Too frequent requests",
	RetcodeNoChanges:        "No changes in request",
	RetcodeServerDisablesAT: "Autotrading disabled by server",
	RetcodeClientDisablesAT: "Autotrading disabled by client terminal",
	RetcodeLocked:           "Request locked for processing",
	RetcodeFrozen:           "Order or position frozen",
	RetcodeInvalidFill:      "Invalid order filling type",
	RetcodeConnection:       "No connection with the trade server",
	RetcodeOnlyReal:         "Operation is allowed only for live accounts",
	RetcodeLimitOrders:      "The number of pending orders has reached the limit",
	RetcodeLimitVolume:      "The volume of orders and positions for the symbol has reached the limit",
	RetcodeInvalidOrder:     "Incorrect or prohibited order type",
	RetcodePositionClosed:   "Position with the specified identifier has already been closed",
}

// RetcodeDescription returns the human-readable description for a trade
// server return code. The mapping is total: unknown codes are reported, not
// rejected.
func RetcodeDescription(code int) string {
	if d, ok := retcodeDescriptions[code]; ok {
		return d
	}
	return fmt.Sprintf("Unknown return code: %d", code)
}

// Terminal-level error codes reported by the last-error accessor.
var terminalErrorDescriptions = map[int]string{
	1:      "RES_S_OK: Generic success",
	-1:     "RES_E_FAIL: Generic fail",
	-2:     "RES_E_INVALID_PARAMS: Invalid arguments/parameters",
	-3:     "RES_E_NO_MEMORY: No memory condition",
	-4:     "RES_E_NOT_FOUND: No history",
	-5:     "RES_E_INVALID_VERSION: Invalid version",
	-6:     "RES_E_AUTH_FAILED: Authorization failed",
	-7:     "RES_E_UNSUPPORTED: Unsupported method",
	-8:     "RES_E_AUTO_TRADING_DISABLED: Auto-trading disabled",
	-10000: "RES_E_INTERNAL_FAIL: Internal IPC general error",
	-10001: "RES_E_INTERNAL_FAIL_SEND: Internal IPC send failed",
	-10002: "RES_E_INTERNAL_FAIL_RECEIVE: Internal IPC receive failed",
	-10003: "RES_E_INTERNAL_FAIL_INIT: Internal IPC init failed",
	-10004: "RES_E_INTERNAL_FAIL_CONNECT: Internal IPC connect failed",
	-10005: "RES_E_INTERNAL_FAIL_TIMEOUT: Internal timeout",
}

// TerminalErrorDescription returns the description for a terminal error code.
func TerminalErrorDescription(code int) string {
	if d, ok := terminalErrorDescriptions[code]; ok {
		return d
	}
	return fmt.Sprintf("Unknown error code: %d", code)
}
