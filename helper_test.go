package stockfolio

import (
	"testing"
	"time"
)

// stubSource serves a fixed in-memory price book.
type stubSource struct {
	symbols []string
	prices  map[string]map[string]float64 // symbol -> date -> close
	fetches int
}

func (s *stubSource) Symbols() []string { return s.symbols }

func (s *stubSource) DailyCloses(symbol string) (*History[Money], error) {
	s.fetches++
	h := new(History[Money])
	for day, close := range s.prices[symbol] {
		h.Append(MustParse(day), USD(close))
	}
	return h, nil
}

// weekdayQuotes generates one quote per weekday of [from, to].
func weekdayQuotes(from, to Date, price func(Date) float64) map[string]float64 {
	quotes := make(map[string]float64)
	for d := from; !d.After(to); d = d.Add(1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			quotes[d.String()] = price(d)
		}
	}
	return quotes
}

func flat(price float64) func(Date) float64 {
	return func(Date) float64 { return price }
}

// testMarket builds a market quoting AAPL at 100, MSFT at 50 and GOOG at
// 200 on every weekday of the range.
func testMarket(t *testing.T, from, to Date) *Market {
	t.Helper()
	source := &stubSource{
		symbols: []string{"AAPL", "MSFT", "GOOG"},
		prices: map[string]map[string]float64{
			"AAPL": weekdayQuotes(from, to, flat(100)),
			"MSFT": weekdayQuotes(from, to, flat(50)),
			"GOOG": weekdayQuotes(from, to, flat(200)),
		},
	}
	return NewMarket(source)
}

// addLot is a fatal-on-error shorthand for building fixture portfolios.
func addLot(t *testing.T, m *Market, p *Portfolio, symbol string, quantity float64, day string, commission float64) {
	t.Helper()
	lot, err := NewLot(symbol, Q(quantity), MustParse(day))
	if err != nil {
		t.Fatalf("NewLot(%s, %v, %s) failed: %v", symbol, quantity, day, err)
	}
	if err := p.AddLot(m, lot, USD(commission)); err != nil {
		t.Fatalf("AddLot(%s, %v, %s) failed: %v", symbol, quantity, day, err)
	}
}
