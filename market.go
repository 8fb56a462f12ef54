package stockfolio

import (
	"fmt"
	"sync"
)

// PriceSource provides the full daily close history for a symbol, plus the
// list of supported symbols. Implementations decide the transport (local
// files, remote API); the market only requires the (date, close) pairs.
type PriceSource interface {
	// Symbols returns the supported symbol list.
	Symbols() []string
	// DailyCloses returns the complete daily close history for symbol.
	DailyCloses(symbol string) (*History[Money], error)
}

// Market resolves (symbol, date) to a market price. It lazily fetches and
// memoizes each symbol's entire price history on first use.
type Market struct {
	source PriceSource

	mu     sync.Mutex // guards prices against concurrent first-access races
	prices map[string]*History[Money]

	symbols   []string
	supported map[string]struct{}
}

// NewMarket returns a market backed by the given source.
func NewMarket(source PriceSource) *Market {
	symbols := source.Symbols()
	supported := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		supported[s] = struct{}{}
	}
	return &Market{
		source:    source,
		prices:    make(map[string]*History[Money]),
		symbols:   symbols,
		supported: supported,
	}
}

// Symbols returns the supported symbol list, in source order.
func (m *Market) Symbols() []string { return m.symbols }

// Supported reports whether the symbol is in the supported list.
func (m *Market) Supported(symbol string) bool {
	_, ok := m.supported[symbol]
	return ok
}

// history returns the memoized daily history for symbol, fetching it from
// the source on first use.
func (m *Market) history(symbol string) (*History[Money], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if h, ok := m.prices[symbol]; ok {
		return h, nil
	}
	h, err := m.source.DailyCloses(symbol)
	if err != nil {
		return nil, fmt.Errorf("could not fetch price history for %q: %w", symbol, err)
	}
	m.prices[symbol] = h
	return h, nil
}

// Price returns the closing price for symbol on the exact calendar date.
// It fails with ErrUnsupportedSymbol for symbols outside the supported
// list, and with ErrPriceNotFound when the date has no quote (quotes exist
// only for trading days).
func (m *Market) Price(symbol string, on Date) (Money, error) {
	if !m.Supported(symbol) {
		return Money{}, fmt.Errorf("%w: %q", ErrUnsupportedSymbol, symbol)
	}
	h, err := m.history(symbol)
	if err != nil {
		return Money{}, err
	}
	price, ok := h.Get(on)
	if !ok {
		return Money{}, fmt.Errorf("%w: no quote for %s on %s", ErrPriceNotFound, symbol, on)
	}
	return price, nil
}

// IsValidMarketDate reports whether the date is a trading day, derived by
// probing the price of a reference symbol (the first supported one).
func (m *Market) IsValidMarketDate(on Date) bool {
	if len(m.symbols) == 0 {
		return false
	}
	_, err := m.Price(m.symbols[0], on)
	return err == nil
}

// NextValidMarketDate returns on unchanged if it is already a trading day.
// Otherwise it advances one day at a time until a trading day is found or
// the search reaches yesterday; it never advances into the future, and
// returns the last date probed when the bound is hit.
func (m *Market) NextValidMarketDate(on Date) Date {
	d := on
	for !m.IsValidMarketDate(d) {
		if d.After(Today().Add(-1)) {
			break
		}
		d = d.Add(1)
	}
	return d
}
