package terminal

import (
	"sync"

	trading "mt5bridge/internal/domain/entity/trading"
)

// Mock is an in-memory Terminal used when no real terminal bridge is
// reachable, and by the test suites. It keeps positions and orders in maps,
// fills every market order at the current quote and lets callers inject
// failures through the Fail* knobs.
type Mock struct {
	mu          sync.Mutex
	initialized bool
	lastErrCode int
	lastErrDesc string

	account    trading.AccountInfo
	symbols    map[string]*trading.SymbolInfo
	positions  map[int64]*trading.Position
	orders     map[int64]*trading.Order
	nextTicket int64

	// Failure injection.
	FailInitializations int  // fail this many Initialize calls, then succeed
	FailLogin           bool // reject Login with an auth error
	FailAccountInfo     bool // make AccountInfo return nil
	FailTerminalInfo    bool // make TerminalInfo return nil
	CheckRetcode        int  // retcode reported by OrderCheck
	SendRetcode         int  // non-zero forces OrderSend to this retcode

	calls map[string]int
}

func NewMock() *Mock {
	m := &Mock{
		symbols:    make(map[string]*trading.SymbolInfo),
		positions:  make(map[int64]*trading.Position),
		orders:     make(map[int64]*trading.Order),
		nextTicket: 100000,
		calls:      make(map[string]int),
	}
	m.account = trading.AccountInfo{
		Login:        50000001,
		Leverage:     100,
		Balance:      10000,
		Equity:       10000,
		MarginFree:   10000,
		Currency:     "USD",
		Server:       "MockServer",
		Company:      "Mock Brokerage",
		Name:         "Mock Account",
		TradeAllowed: true,
	}
	m.symbols["EURUSD"] = &trading.SymbolInfo{
		Name:           "EURUSD",
		Description:    "Euro vs US Dollar",
		Visible:        true,
		Digits:         5,
		Point:          0.00001,
		TickSize:       0.00001,
		TickValue:      1.0,
		ContractSize:   100000,
		VolumeMin:      0.01,
		VolumeMax:      100,
		VolumeStep:     0.01,
		StopsLevel:     10,
		Spread:         10,
		ExecutionMode:  trading.ExecMarket,
		Bid:            1.1000,
		Ask:            1.1001,
		Currency:       "EUR",
		CurrencyProfit: "USD",
	}
	return m
}

// AddSymbol registers an instrument in the mock's universe.
func (m *Mock) AddSymbol(info trading.SymbolInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := info
	m.symbols[info.Name] = &cp
}

// AddPosition seeds an open position and returns its ticket.
func (m *Mock) AddPosition(p trading.Position) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.Ticket == 0 {
		m.nextTicket++
		p.Ticket = m.nextTicket
	}
	cp := p
	m.positions[p.Ticket] = &cp
	return p.Ticket
}

// AddOrder seeds a pending order and returns its ticket.
func (m *Mock) AddOrder(o trading.Order) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.Ticket == 0 {
		m.nextTicket++
		o.Ticket = m.nextTicket
	}
	cp := o
	m.orders[o.Ticket] = &cp
	return o.Ticket
}

// SetAccount replaces the mock account snapshot.
func (m *Mock) SetAccount(acc trading.AccountInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.account = acc
}

// Calls returns how many times the named method was invoked.
func (m *Mock) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *Mock) record(method string) {
	m.calls[method]++
}

func (m *Mock) setError(code int, desc string) {
	m.lastErrCode = code
	m.lastErrDesc = desc
}

func (m *Mock) Initialize(path string, login int64, password, server string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Initialize")
	if m.FailInitializations > 0 {
		m.FailInitializations--
		m.setError(-10004, trading.TerminalErrorDescription(-10004))
		return false
	}
	m.initialized = true
	m.setError(1, trading.TerminalErrorDescription(1))
	return true
}

func (m *Mock) Login(login int64, password, server string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Login")
	if !m.initialized || m.FailLogin {
		m.setError(-6, trading.TerminalErrorDescription(-6))
		return false
	}
	m.account.Login = login
	m.account.Server = server
	m.setError(1, trading.TerminalErrorDescription(1))
	return true
}

func (m *Mock) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("Shutdown")
	m.initialized = false
}

func (m *Mock) LastError() (int, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErrCode, m.lastErrDesc
}

func (m *Mock) AccountInfo() *trading.AccountInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("AccountInfo")
	if !m.initialized || m.FailAccountInfo {
		m.setError(-10001, trading.TerminalErrorDescription(-10001))
		return nil
	}
	acc := m.account
	return &acc
}

func (m *Mock) TerminalInfo() *trading.TerminalInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("TerminalInfo")
	if !m.initialized || m.FailTerminalInfo {
		m.setError(-10001, trading.TerminalErrorDescription(-10001))
		return nil
	}
	return &trading.TerminalInfo{
		Connected:    true,
		TradeAllowed: true,
		Build:        4400,
		Name:         "Mock Terminal",
		Company:      "Mock Brokerage",
	}
}

func (m *Mock) SymbolInfo(symbol string) *trading.SymbolInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SymbolInfo")
	info, ok := m.symbols[symbol]
	if !ok {
		m.setError(-4, trading.TerminalErrorDescription(-4))
		return nil
	}
	cp := *info
	return &cp
}

func (m *Mock) SymbolInfoTick(symbol string) *trading.Tick {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SymbolInfoTick")
	info, ok := m.symbols[symbol]
	if !ok {
		m.setError(-4, trading.TerminalErrorDescription(-4))
		return nil
	}
	return &trading.Tick{Bid: info.Bid, Ask: info.Ask, Last: info.Bid}
}

func (m *Mock) SymbolSelect(symbol string, visible bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("SymbolSelect")
	info, ok := m.symbols[symbol]
	if !ok {
		m.setError(-4, trading.TerminalErrorDescription(-4))
		return false
	}
	info.Visible = visible
	return true
}

func (m *Mock) OrderCheck(req *trading.TradeRequest) *trading.OrderCheckResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("OrderCheck")
	if !m.initialized {
		m.setError(-10001, trading.TerminalErrorDescription(-10001))
		return nil
	}
	return &trading.OrderCheckResult{
		Retcode:    m.CheckRetcode,
		Balance:    m.account.Balance,
		Equity:     m.account.Equity,
		MarginFree: m.account.MarginFree,
		Comment:    trading.RetcodeDescription(m.CheckRetcode),
	}
}

func (m *Mock) OrderSend(req *trading.TradeRequest) *trading.TradeResult {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("OrderSend")
	if !m.initialized {
		m.setError(-10001, trading.TerminalErrorDescription(-10001))
		return nil
	}
	if m.SendRetcode != 0 && m.SendRetcode != trading.RetcodeDone {
		return &trading.TradeResult{Retcode: m.SendRetcode, Comment: trading.RetcodeDescription(m.SendRetcode), Request: req}
	}
	switch req.Action {
	case trading.ActionDeal:
		return m.executeDeal(req)
	case trading.ActionPending:
		m.nextTicket++
		m.orders[m.nextTicket] = &trading.Order{
			Ticket:        m.nextTicket,
			Symbol:        req.Symbol,
			Type:          req.Type,
			VolumeInitial: req.Volume,
			VolumeCurrent: req.Volume,
			PriceOpen:     req.Price,
			StopLoss:      req.StopLoss,
			TakeProfit:    req.TakeProfit,
			Comment:       req.Comment,
		}
		return &trading.TradeResult{Retcode: trading.RetcodeDone, Order: m.nextTicket, Volume: req.Volume, Price: req.Price, Request: req}
	case trading.ActionSLTP:
		pos, ok := m.positions[req.Position]
		if !ok {
			return &trading.TradeResult{Retcode: trading.RetcodeInvalid, Comment: "position not found", Request: req}
		}
		pos.StopLoss = req.StopLoss
		pos.TakeProfit = req.TakeProfit
		return &trading.TradeResult{Retcode: trading.RetcodeDone, Request: req}
	case trading.ActionRemove:
		if _, ok := m.orders[req.Order]; !ok {
			return &trading.TradeResult{Retcode: trading.RetcodeInvalid, Comment: "order not found", Request: req}
		}
		delete(m.orders, req.Order)
		return &trading.TradeResult{Retcode: trading.RetcodeDone, Order: req.Order, Request: req}
	default:
		return &trading.TradeResult{Retcode: trading.RetcodeInvalidOrder, Comment: "unsupported action", Request: req}
	}
}

func (m *Mock) executeDeal(req *trading.TradeRequest) *trading.TradeResult {
	info, ok := m.symbols[req.Symbol]
	if !ok {
		return &trading.TradeResult{Retcode: trading.RetcodeInvalid, Comment: "unknown symbol", Request: req}
	}
	price := info.Ask
	if req.Type == trading.OrderSell {
		price = info.Bid
	}
	if req.Position != 0 {
		pos, ok := m.positions[req.Position]
		if !ok {
			return &trading.TradeResult{Retcode: trading.RetcodePositionClosed, Comment: "position already closed", Request: req}
		}
		if req.Volume >= pos.Volume {
			delete(m.positions, req.Position)
		} else {
			pos.Volume -= req.Volume
		}
		m.nextTicket++
		return &trading.TradeResult{Retcode: trading.RetcodeDone, Deal: m.nextTicket, Volume: req.Volume, Price: price, Bid: info.Bid, Ask: info.Ask, Request: req}
	}
	m.nextTicket++
	ticket := m.nextTicket
	posType := trading.PositionBuy
	if req.Type == trading.OrderSell {
		posType = trading.PositionSell
	}
	m.positions[ticket] = &trading.Position{
		Ticket:       ticket,
		Symbol:       req.Symbol,
		Type:         posType,
		Volume:       req.Volume,
		PriceOpen:    price,
		PriceCurrent: price,
		StopLoss:     req.StopLoss,
		TakeProfit:   req.TakeProfit,
		Comment:      req.Comment,
	}
	m.nextTicket++
	return &trading.TradeResult{Retcode: trading.RetcodeDone, Deal: m.nextTicket, Order: ticket, Volume: req.Volume, Price: price, Bid: info.Bid, Ask: info.Ask, Request: req}
}

func (m *Mock) PositionsGet(symbol string) []trading.Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("PositionsGet")
	if !m.initialized {
		return nil
	}
	out := make([]trading.Position, 0, len(m.positions))
	for _, p := range m.positions {
		if symbol == "" || p.Symbol == symbol {
			out = append(out, *p)
		}
	}
	return out
}

func (m *Mock) OrdersGet(symbol string) []trading.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("OrdersGet")
	if !m.initialized {
		return nil
	}
	out := make([]trading.Order, 0, len(m.orders))
	for _, o := range m.orders {
		if symbol == "" || o.Symbol == symbol {
			out = append(out, *o)
		}
	}
	return out
}
