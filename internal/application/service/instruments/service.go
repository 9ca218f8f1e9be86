package instruments

import (
	"context"
	"sync"
	"time"

	trading "mt5bridge/internal/domain/entity/trading"
	"mt5bridge/internal/infrastructure/terminal"

	"github.com/sirupsen/logrus"
)

type cacheEntry struct {
	info    trading.SymbolInfo
	fetched time.Time
}

// Service is the instrument gateway: it resolves symbol metadata through the
// terminal session, caches it with a TTL and makes hidden symbols visible on
// demand.
type Service struct {
	session *terminal.Session
	ttl     time.Duration
	logger  *logrus.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
}

func NewService(session *terminal.Session, ttl time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		session: session,
		ttl:     ttl,
		logger:  logger,
		cache:   make(map[string]cacheEntry),
	}
}

// SymbolInfo returns the instrument metadata, from cache when fresh. Symbols
// missing from the terminal's watch list are enabled first; the visibility
// change is kept, use WithSymbol for a scoped one.
func (s *Service) SymbolInfo(ctx context.Context, symbol string) (*trading.SymbolInfo, error) {
	s.mu.Lock()
	if entry, ok := s.cache[symbol]; ok && time.Since(entry.fetched) < s.ttl {
		info := entry.info
		s.mu.Unlock()
		return &info, nil
	}
	s.mu.Unlock()

	if err := s.session.EnsureConnected(ctx); err != nil {
		return nil, err
	}
	info := s.session.SymbolInfo(symbol)
	if info == nil {
		_, desc := s.session.LastError()
		return nil, &trading.SymbolError{Symbol: symbol, Message: "not found: " + desc}
	}
	if !info.Visible {
		if !s.session.SymbolSelect(symbol, true) {
			return nil, &trading.SymbolError{Symbol: symbol, Message: "could not be enabled in the terminal"}
		}
		s.logger.WithField("symbol", symbol).Debug("symbol enabled")
		info = s.session.SymbolInfo(symbol)
		if info == nil {
			return nil, &trading.SymbolError{Symbol: symbol, Message: "unavailable after enabling"}
		}
	}

	s.mu.Lock()
	s.cache[symbol] = cacheEntry{info: *info, fetched: time.Now()}
	s.mu.Unlock()
	return info, nil
}

// Tick returns the current top-of-book quote. Quotes are never cached.
func (s *Service) Tick(ctx context.Context, symbol string) (*trading.Tick, error) {
	if _, err := s.SymbolInfo(ctx, symbol); err != nil {
		return nil, err
	}
	tick := s.session.SymbolInfoTick(symbol)
	if tick == nil {
		_, desc := s.session.LastError()
		return nil, &trading.SymbolError{Symbol: symbol, Message: "no quote available: " + desc}
	}
	return tick, nil
}

// SymbolInfoFresh bypasses the cache and re-reads the instrument from the
// terminal. The fresh record replaces the cached one.
func (s *Service) SymbolInfoFresh(ctx context.Context, symbol string) (*trading.SymbolInfo, error) {
	s.Invalidate(symbol)
	return s.SymbolInfo(ctx, symbol)
}

// Invalidate drops the cached metadata for a symbol.
func (s *Service) Invalidate(symbol string) {
	s.mu.Lock()
	delete(s.cache, symbol)
	s.mu.Unlock()
}

// WithSymbol runs fn with the symbol guaranteed visible, restoring the
// original visibility afterwards even when fn fails.
func (s *Service) WithSymbol(ctx context.Context, symbol string, fn func(info *trading.SymbolInfo) error) error {
	if err := s.session.EnsureConnected(ctx); err != nil {
		return err
	}
	raw := s.session.SymbolInfo(symbol)
	if raw == nil {
		_, desc := s.session.LastError()
		return &trading.SymbolError{Symbol: symbol, Message: "not found: " + desc}
	}
	if !raw.Visible {
		if !s.session.SymbolSelect(symbol, true) {
			return &trading.SymbolError{Symbol: symbol, Message: "could not be enabled in the terminal"}
		}
		defer func() {
			if !s.session.SymbolSelect(symbol, false) {
				s.logger.WithField("symbol", symbol).Warn("failed to restore symbol visibility")
			}
			s.Invalidate(symbol)
		}()
		raw = s.session.SymbolInfo(symbol)
		if raw == nil {
			return &trading.SymbolError{Symbol: symbol, Message: "unavailable after enabling"}
		}
	}
	return fn(raw)
}

// WithSymbols is WithSymbol over a set of instruments; all of them are made
// visible before fn runs and every temporarily enabled one is hidden again
// afterwards.
func (s *Service) WithSymbols(ctx context.Context, symbols []string, fn func(infos map[string]*trading.SymbolInfo) error) error {
	if err := s.session.EnsureConnected(ctx); err != nil {
		return err
	}
	infos := make(map[string]*trading.SymbolInfo, len(symbols))
	var enabled []string
	defer func() {
		for _, symbol := range enabled {
			if !s.session.SymbolSelect(symbol, false) {
				s.logger.WithField("symbol", symbol).Warn("failed to restore symbol visibility")
			}
			s.Invalidate(symbol)
		}
	}()
	for _, symbol := range symbols {
		raw := s.session.SymbolInfo(symbol)
		if raw == nil {
			_, desc := s.session.LastError()
			return &trading.SymbolError{Symbol: symbol, Message: "not found: " + desc}
		}
		if !raw.Visible {
			if !s.session.SymbolSelect(symbol, true) {
				return &trading.SymbolError{Symbol: symbol, Message: "could not be enabled in the terminal"}
			}
			enabled = append(enabled, symbol)
			raw = s.session.SymbolInfo(symbol)
			if raw == nil {
				return &trading.SymbolError{Symbol: symbol, Message: "unavailable after enabling"}
			}
		}
		infos[symbol] = raw
	}
	return fn(infos)
}
