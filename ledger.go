package stockfolio

import (
	"fmt"
	"sort"
)

// Portfolio is a named lot ledger: an ordered collection of purchase and
// sale lots together with a cost-basis ledger.
//
// Lots are kept in a map keyed by (symbol, purchase day) so a merge is an
// O(1) keyed update; the date-ordered view is rebuilt on demand for the
// ordering-dependent operations (composition, performance, rebalancing
// replay).
//
// A Portfolio must not be mutated by two callers concurrently; ownership
// is exclusive to the Manager.
type Portfolio struct {
	name      string
	lots      map[lotKey]Lot
	costBasis map[Date]Money
}

// NewPortfolio creates an empty portfolio with the given name.
func NewPortfolio(name string) *Portfolio {
	return &Portfolio{
		name:      name,
		lots:      make(map[lotKey]Lot),
		costBasis: make(map[Date]Money),
	}
}

// Name returns the portfolio's name, unique across a Manager's set.
func (p *Portfolio) Name() string { return p.name }

// Lots returns every lot in the ledger, ordered by purchase date.
func (p *Portfolio) Lots() []Lot {
	lots := make([]Lot, 0, len(p.lots))
	for _, lot := range p.lots {
		lots = append(lots, lot)
	}
	sortLots(lots)
	return lots
}

// AddLot records a lot in the ledger.
//
// The symbol must be in the market's supported set. If a lot with the same
// symbol and purchase day already exists, the quantities are summed in
// place and the cost-basis ledger is untouched (a negative quantity thus
// reduces an existing lot, which is how sales against a same-day purchase
// settle). Otherwise the day's price is resolved (ErrPriceNotFound
// propagates whole, for sales as for purchases), price × quantity plus the
// commission is credited to the cost-basis entry for that day, and the lot
// is appended.
func (p *Portfolio) AddLot(m *Market, lot Lot, commission Money) error {
	if !m.Supported(lot.Symbol) {
		return fmt.Errorf("%w: %q", ErrUnsupportedSymbol, lot.Symbol)
	}

	key := lot.key()
	if existing, ok := p.lots[key]; ok {
		existing.Quantity = existing.Quantity.Add(lot.Quantity)
		p.lots[key] = existing
		return nil
	}

	price, err := m.Price(lot.Symbol, lot.Day)
	if err != nil {
		return err
	}
	spent := price.Mul(lot.Quantity).Add(commission)
	p.costBasis[lot.Day] = p.costBasis[lot.Day].Add(spent)
	p.lots[key] = lot
	return nil
}

// Sell disposes of quantity shares of symbol on the given date. It fails
// with ErrInsufficientQuantity when the requested quantity exceeds the net
// quantity held across lots dated on or before the sale date, and records
// the sale as a negative lot otherwise.
func (p *Portfolio) Sell(m *Market, symbol string, quantity Quantity, on Date, commission Money) error {
	if !quantity.IsPositive() {
		return fmt.Errorf("%w: sale quantity must be positive, got %s", ErrInvalidRange, quantity)
	}
	held := p.NetQuantity(symbol, on)
	if !held.IsPositive() {
		return fmt.Errorf("%w: no %s shares held on or before %s", ErrInsufficientQuantity, symbol, on)
	}
	if quantity.GreaterThan(held) {
		return fmt.Errorf("%w: cannot sell %s %s shares, only %s held as of %s",
			ErrInsufficientQuantity, quantity, symbol, held, on)
	}
	lot, err := NewLot(symbol, quantity.Neg(), on)
	if err != nil {
		return err
	}
	return p.AddLot(m, lot, commission)
}

// ValueAt computes the market value of lots purchased on or before the
// given date, priced at that date. A missing quote aborts the whole
// valuation with ErrPriceNotFound.
func (p *Portfolio) ValueAt(m *Market, on Date) (Money, error) {
	value := M(0, ReportingCurrency)
	for _, lot := range p.Lots() {
		if lot.Day.After(on) {
			break // lots are ordered by purchase date
		}
		price, err := m.Price(lot.Symbol, on)
		if err != nil {
			return Money{}, err
		}
		value = value.Add(price.Mul(lot.Quantity))
	}
	return value, nil
}

// CostBasisAt sums the cost-basis entries dated on or before the given
// date: the cumulative money spent acquiring the holdings, commissions
// included.
func (p *Portfolio) CostBasisAt(on Date) Money {
	basis := M(0, ReportingCurrency)
	for day, spent := range p.costBasis {
		if !day.After(on) {
			basis = basis.Add(spent)
		}
	}
	return basis
}

// CompositionAsOf returns the lots purchased on or before the given date,
// ordered by purchase date. An empty result is a valid outcome.
func (p *Portfolio) CompositionAsOf(on Date) []Lot {
	composition := make([]Lot, 0)
	for _, lot := range p.Lots() {
		if lot.Day.After(on) {
			break
		}
		composition = append(composition, lot)
	}
	return composition
}

// NetQuantity returns the net quantity of symbol held across lots dated on
// or before the given date.
func (p *Portfolio) NetQuantity(symbol string, on Date) Quantity {
	var net Quantity
	for _, lot := range p.lots {
		if lot.Symbol == symbol && !lot.Day.After(on) {
			net = net.Add(lot.Quantity)
		}
	}
	return net
}

// Holdings consolidates lots dated on or before the given date into the
// net quantity per symbol. Symbols whose net quantity is zero are dropped.
func (p *Portfolio) Holdings(on Date) map[string]Quantity {
	holdings := make(map[string]Quantity)
	for _, lot := range p.lots {
		if lot.Day.After(on) {
			continue
		}
		holdings[lot.Symbol] = holdings[lot.Symbol].Add(lot.Quantity)
	}
	for symbol, net := range holdings {
		if net.IsZero() {
			delete(holdings, symbol)
		}
	}
	return holdings
}

// restoreLot places a lot in the ledger without price resolution or
// cost-basis accounting. It is used by the persistence layer, which
// restores the cost-basis ledger from its own file.
func (p *Portfolio) restoreLot(lot Lot) {
	key := lot.key()
	if existing, ok := p.lots[key]; ok {
		existing.Quantity = existing.Quantity.Add(lot.Quantity)
		p.lots[key] = existing
		return
	}
	p.lots[key] = lot
}

// restoreCostBasis sets a cost-basis entry directly, for the persistence layer.
func (p *Portfolio) restoreCostBasis(day Date, spent Money) {
	p.costBasis[day] = spent
}

// costBasisEntries returns the cost-basis ledger as (date, money) pairs
// ordered by date.
func (p *Portfolio) costBasisEntries() []costBasisEntry {
	entries := make([]costBasisEntry, 0, len(p.costBasis))
	for day, spent := range p.costBasis {
		entries = append(entries, costBasisEntry{Day: day, Spent: spent})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Day.Before(entries[j].Day) })
	return entries
}

type costBasisEntry struct {
	Day   Date
	Spent Money
}
