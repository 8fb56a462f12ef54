package stockfolio

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Rebalance computes the synthetic buy and sell lots that move the
// portfolio's allocation as of the given date to the target percentages,
// and materializes a fresh ledger with them applied.
//
// For each symbol in targets, the net holding as of the date is priced and
// compared against the target share of total value. A symbol already at
// target (within Percent tolerance) emits no operation; a symbol below
// target buys the delta, a symbol above sells it, both rounded to two
// decimal places of shares at the date's price. Operations are tracked per
// symbol, never by position, so a skipped symbol cannot shift a sell onto
// its neighbor.
//
// The original lots plus one synthetic lot per operation, dated the
// rebalance date, are replayed in purchase-date order through a fresh
// ledger with commission forced to zero, rebuilding the cost basis and
// merging same-day duplicates. The input portfolio is never mutated, so a
// failure mid-transformation leaves it intact.
func Rebalance(m *Market, p *Portfolio, on Date, targets map[string]Percent) (*Portfolio, error) {
	holdings := p.Holdings(on)

	total := M(0, ReportingCurrency)
	value := make(map[string]Money, len(holdings))
	for _, symbol := range sortedKeys(holdings) {
		price, err := m.Price(symbol, on)
		if err != nil {
			return nil, err
		}
		v := price.Mul(holdings[symbol])
		value[symbol] = v
		total = total.Add(v)
	}
	if total.IsZero() {
		return nil, fmt.Errorf("%w: nothing held in %q as of %s", ErrInvalidRange, p.Name(), on)
	}

	// Signed share delta per symbol: positive buys, negative sells.
	deltas := make(map[string]Quantity)
	for _, symbol := range sortedKeys(targets) {
		target := targets[symbol]
		ratio := value[symbol].value.Div(total.value).Mul(decimal.NewFromInt(100))
		current := Percent(ratio.InexactFloat64())
		if current.Equal(target) {
			continue
		}
		price, err := m.Price(symbol, on)
		if err != nil {
			return nil, err
		}
		worth := total.value.Mul(decimal.NewFromFloat(float64(target)).Sub(ratio)).Div(decimal.NewFromInt(100))
		shares := Quantity{value: worth.Div(price.value)}.Round(2)
		if shares.IsZero() {
			continue
		}
		deltas[symbol] = shares
	}

	lots := p.Lots()
	for _, symbol := range sortedKeys(deltas) {
		lots = append(lots, Lot{Symbol: symbol, Quantity: deltas[symbol], Day: on})
	}
	sortLots(lots)

	next := NewPortfolio(p.Name())
	for _, lot := range lots {
		if err := next.AddLot(m, lot, M(0, ReportingCurrency)); err != nil {
			return nil, err
		}
	}
	return next, nil
}

// sortedKeys returns the map's keys in ascending order, for deterministic
// iteration over symbol maps.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
