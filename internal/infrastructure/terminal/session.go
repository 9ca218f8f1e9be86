package terminal

import (
	"context"
	"sync"
	"time"

	"mt5bridge/internal/config"
	trading "mt5bridge/internal/domain/entity/trading"
	interfaces "mt5bridge/internal/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Session owns the connection to the trading terminal. The terminal bridge is
// not safe for concurrent use, so every call goes through the session mutex;
// services hold a *Session, never the raw Terminal.
type Session struct {
	cfg    config.TerminalConfig
	api    interfaces.Terminal
	logger *logrus.Logger

	mu        sync.Mutex
	connected bool
	lastCheck time.Time
	account   *trading.AccountInfo
}

func NewSession(cfg config.TerminalConfig, api interfaces.Terminal, logger *logrus.Logger) *Session {
	return &Session{cfg: cfg, api: api, logger: logger}
}

// Connect initializes the terminal, retrying on transient failures. When
// credentials are configured all three of login, password and server are
// required; a partial set fails immediately without retrying.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connectLocked(ctx)
}

func (s *Session) connectLocked(ctx context.Context) error {
	withCreds := s.cfg.Login != 0 || s.cfg.Password != "" || s.cfg.Server != ""
	if withCreds && (s.cfg.Login == 0 || s.cfg.Password == "" || s.cfg.Server == "") {
		return &trading.AuthenticationError{Message: "login, password and server must all be provided"}
	}

	var lastCode int
	var lastDesc string
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		var ok bool
		if withCreds {
			ok = s.api.Initialize(s.cfg.Path, s.cfg.Login, s.cfg.Password, s.cfg.Server)
		} else {
			ok = s.api.Initialize(s.cfg.Path, 0, "", "")
		}
		if ok {
			s.connected = true
			s.lastCheck = time.Now()
			s.account = s.api.AccountInfo()
			s.logger.WithFields(logrus.Fields{
				"attempt": attempt,
				"server":  s.cfg.Server,
			}).Info("terminal connected")
			return nil
		}
		lastCode, lastDesc = s.api.LastError()
		s.logger.WithFields(logrus.Fields{
			"attempt": attempt,
			"code":    lastCode,
			"error":   lastDesc,
		}).Warn("terminal initialization failed")
		if attempt < s.cfg.MaxRetries {
			timer := time.NewTimer(s.cfg.RetryDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	if lastCode == -6 {
		return &trading.AuthenticationError{Message: lastDesc}
	}
	return &trading.ConnectionError{Message: lastDesc, Code: lastCode}
}

// Login authorizes on a trading account inside the current terminal,
// initializing it first if needed.
func (s *Session) Login(ctx context.Context, login int64, password, server string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if login == 0 || password == "" || server == "" {
		return &trading.AuthenticationError{Message: "login, password and server must all be provided"}
	}
	if !s.connected {
		if err := s.connectLocked(ctx); err != nil {
			return err
		}
	}
	if !s.api.Login(login, password, server) {
		code, desc := s.api.LastError()
		s.logger.WithFields(logrus.Fields{
			"login": login,
			"code":  code,
			"error": desc,
		}).Warn("terminal login failed")
		return &trading.AuthenticationError{Message: desc}
	}
	s.account = s.api.AccountInfo()
	s.lastCheck = time.Now()
	s.logger.WithFields(logrus.Fields{"login": login, "server": server}).Info("terminal login succeeded")
	return nil
}

// EnsureConnected verifies the terminal is still responsive by re-querying
// both the terminal and the account state. The check is rate-limited by the
// configured interval; within it the last verdict is trusted. A failed check
// triggers one reconnect with the original parameters.
func (s *Session) EnsureConnected(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return &trading.ConnectionError{Message: "not connected"}
	}
	if time.Since(s.lastCheck) < s.cfg.CheckInterval {
		return nil
	}
	if acc := s.api.AccountInfo(); acc != nil && s.api.TerminalInfo() != nil {
		s.account = acc
		s.lastCheck = time.Now()
		return nil
	}
	code, desc := s.api.LastError()
	s.logger.WithFields(logrus.Fields{
		"code":  code,
		"error": desc,
	}).Warn("terminal health check failed, reconnecting")
	s.api.Shutdown()
	s.connected = false
	return s.connectLocked(ctx)
}

// Shutdown detaches from the terminal. Calling it on a disconnected session
// is a no-op.
func (s *Session) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return
	}
	s.api.Shutdown()
	s.connected = false
	s.account = nil
	s.logger.Info("terminal disconnected")
}

// Connected reports the session state without touching the terminal.
func (s *Session) Connected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}

// AccountInfo returns a fresh account snapshot.
func (s *Session) AccountInfo() (*trading.AccountInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, &trading.ConnectionError{Message: "not connected"}
	}
	acc := s.api.AccountInfo()
	if acc == nil {
		code, desc := s.api.LastError()
		return nil, &trading.ConnectionError{Message: "account info unavailable: " + desc, Code: code}
	}
	s.account = acc
	s.lastCheck = time.Now()
	return acc, nil
}

// TerminalInfo returns the terminal process state.
func (s *Session) TerminalInfo() (*trading.TerminalInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return nil, &trading.ConnectionError{Message: "not connected"}
	}
	info := s.api.TerminalInfo()
	if info == nil {
		code, desc := s.api.LastError()
		return nil, &trading.ConnectionError{Message: "terminal info unavailable: " + desc, Code: code}
	}
	return info, nil
}

func (s *Session) SymbolInfo(symbol string) *trading.SymbolInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.api.SymbolInfo(symbol)
}

func (s *Session) SymbolInfoTick(symbol string) *trading.Tick {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.api.SymbolInfoTick(symbol)
}

func (s *Session) SymbolSelect(symbol string, visible bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.api.SymbolSelect(symbol, visible)
}

func (s *Session) OrderCheck(req *trading.TradeRequest) *trading.OrderCheckResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.api.OrderCheck(req)
}

func (s *Session) OrderSend(req *trading.TradeRequest) *trading.TradeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.api.OrderSend(req)
}

func (s *Session) PositionsGet(symbol string) []trading.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.api.PositionsGet(symbol)
}

func (s *Session) OrdersGet(symbol string) []trading.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.api.OrdersGet(symbol)
}

func (s *Session) LastError() (int, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.api.LastError()
}
