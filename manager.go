package stockfolio

import (
	"fmt"
	"io"
	"sort"
)

// Manager orchestrates a set of named portfolios over one market. It owns
// the commission-fee state (a flat fee that decays geometrically after
// every lot-adding transaction) and, when bound to a Store, writes a
// portfolio back after each mutating operation.
type Manager struct {
	market     *Market
	portfolios map[string]*Portfolio
	fee        Money
	decay      Percent
	store      *Store
}

// NewManager returns a manager with no portfolios and a zero commission fee.
func NewManager(market *Market) *Manager {
	return &Manager{
		market:     market,
		portfolios: make(map[string]*Portfolio),
	}
}

// SetStore binds a persistence directory; every mutating operation writes
// the affected portfolio through to it.
func (g *Manager) SetStore(s *Store) { g.store = s }

// Market returns the manager's price resolver.
func (g *Manager) Market() *Market { return g.market }

// SetCommission sets the flat commission fee charged on each new lot and
// the percentage by which it decays after every transaction.
func (g *Manager) SetCommission(fee Money, decay Percent) error {
	if fee.IsNegative() {
		return fmt.Errorf("%w: commission fee cannot be negative", ErrInvalidRange)
	}
	if decay < 0 || decay > 100 {
		return fmt.Errorf("%w: commission decay must be between 0 and 100", ErrInvalidRange)
	}
	g.fee = fee
	g.decay = decay
	return nil
}

// CommissionFee returns the fee the next transaction will be charged.
func (g *Manager) CommissionFee() Money { return g.fee }

// chargeCommission applies the geometric decay after a lot-adding operation.
func (g *Manager) chargeCommission() {
	g.fee = g.fee.Mul(Q(1 - float64(g.decay)/100))
}

// Names returns the portfolio names, sorted.
func (g *Manager) Names() []string {
	names := make([]string, 0, len(g.portfolios))
	for name := range g.portfolios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Portfolio returns the named portfolio, or ErrUnknownPortfolio.
func (g *Manager) Portfolio(name string) (*Portfolio, error) {
	p, ok := g.portfolios[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPortfolio, name)
	}
	return p, nil
}

// Create builds a new portfolio from an import source of
// symbol,quantity,date lines. Bulk-imported quantities must be whole
// positive share counts. The name must not collide with an existing
// portfolio.
func (g *Manager) Create(name string, r io.Reader) (*Portfolio, error) {
	if _, exists := g.portfolios[name]; exists {
		return nil, fmt.Errorf("%w: %q", ErrDuplicatePortfolio, name)
	}
	lots, err := ImportLots(r, true)
	if err != nil {
		return nil, err
	}
	p := NewPortfolio(name)
	for _, lot := range lots {
		if err := p.AddLot(g.market, lot, g.fee); err != nil {
			return nil, err
		}
	}
	g.portfolios[name] = p
	g.chargeCommission()
	return p, g.save(p)
}

// AddLot adds a lot to the named portfolio, charging the current
// commission fee on new (non-merged) lots.
func (g *Manager) AddLot(name, symbol string, quantity Quantity, on Date) error {
	p, err := g.Portfolio(name)
	if err != nil {
		return err
	}
	lot, err := NewLot(symbol, quantity, on)
	if err != nil {
		return err
	}
	if err := p.AddLot(g.market, lot, g.fee); err != nil {
		return err
	}
	g.chargeCommission()
	return g.save(p)
}

// Sell disposes of shares from the named portfolio.
func (g *Manager) Sell(name, symbol string, quantity Quantity, on Date) error {
	p, err := g.Portfolio(name)
	if err != nil {
		return err
	}
	if on.After(Today()) {
		return fmt.Errorf("%w: sale date %s cannot be in the future", ErrInvalidRange, on)
	}
	if err := p.Sell(g.market, symbol, quantity, on, g.fee); err != nil {
		return err
	}
	g.chargeCommission()
	return g.save(p)
}

// ValueAt returns the named portfolio's market value on the given date.
func (g *Manager) ValueAt(name string, on Date) (Money, error) {
	p, err := g.Portfolio(name)
	if err != nil {
		return Money{}, err
	}
	if on.After(Today()) {
		return Money{}, fmt.Errorf("%w: valuation date %s cannot be in the future", ErrInvalidRange, on)
	}
	return p.ValueAt(g.market, on)
}

// CostBasisAt returns the cumulative money spent acquiring the named
// portfolio's holdings as of the given date, commissions included.
func (g *Manager) CostBasisAt(name string, on Date) (Money, error) {
	p, err := g.Portfolio(name)
	if err != nil {
		return Money{}, err
	}
	if on.After(Today()) {
		return Money{}, fmt.Errorf("%w: cost basis date %s cannot be in the future", ErrInvalidRange, on)
	}
	return p.CostBasisAt(on), nil
}

// Composition returns the named portfolio's lots purchased on or before
// the given date. An empty slice means the portfolio held nothing yet; an
// unknown name is an error.
func (g *Manager) Composition(name string, on Date) ([]Lot, error) {
	p, err := g.Portfolio(name)
	if err != nil {
		return nil, err
	}
	if on.After(Today()) {
		return nil, fmt.Errorf("%w: composition date %s cannot be in the future", ErrInvalidRange, on)
	}
	return p.CompositionAsOf(on), nil
}

// Performance computes the named portfolio's valuation trend over the
// range, after validating the range preconditions.
func (g *Manager) Performance(name string, from, to Date) (*PerformanceSeries, error) {
	p, err := g.Portfolio(name)
	if err != nil {
		return nil, err
	}
	today := Today()
	switch {
	case to.Before(from):
		return nil, fmt.Errorf("%w: end date %s is before start date %s", ErrInvalidRange, to, from)
	case from.After(today) || to.After(today):
		return nil, fmt.Errorf("%w: start/end date cannot be in the future", ErrInvalidRange)
	case from.Year() < epochYear || to.Year() < epochYear:
		return nil, fmt.Errorf("%w: start/end date cannot be before the year %d", ErrInvalidRange, epochYear)
	case from == today:
		return nil, fmt.Errorf("%w: start date cannot be today", ErrInvalidRange)
	}
	return Performance(g.market, p, from, to)
}

// Rebalance moves the named portfolio to the target allocation as of the
// given date and substitutes the freshly built ledger under the same name.
func (g *Manager) Rebalance(name string, on Date, targets map[string]Percent) error {
	p, err := g.Portfolio(name)
	if err != nil {
		return err
	}
	if on.After(Today()) {
		return fmt.Errorf("%w: rebalance date %s cannot be in the future", ErrInvalidRange, on)
	}
	if err := validatePercents(targets); err != nil {
		return err
	}
	next, err := Rebalance(g.market, p, on, targets)
	if err != nil {
		return err
	}
	g.portfolios[name] = next
	return g.save(next)
}

// DollarCostAverage creates a new portfolio and invests a fixed total
// amount at a fixed interval across the date range, split between symbols
// by the given proportions. Each investment buys
// round(proportion/100 × amount / price, 2) shares at the nearest valid
// market date, advancing by intervalDays and resolving forward until the
// date passes the end of the range.
func (g *Manager) DollarCostAverage(name string, amount Money, from, to Date, intervalDays int, proportions map[string]Percent) error {
	if !from.Before(to) {
		return fmt.Errorf("%w: start date %s must be before end date %s", ErrInvalidRange, from, to)
	}
	if intervalDays <= 0 {
		return fmt.Errorf("%w: interval must be at least one day", ErrInvalidRange)
	}
	if err := validatePercents(proportions); err != nil {
		return err
	}
	if _, exists := g.portfolios[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePortfolio, name)
	}

	p := NewPortfolio(name)
	g.portfolios[name] = p

	on := g.market.NextValidMarketDate(from)
	for !on.After(to) {
		for _, symbol := range sortedKeys(proportions) {
			price, err := g.market.Price(symbol, on)
			if err != nil {
				return err
			}
			invested := amount.Mul(Q(float64(proportions[symbol]) / 100))
			shares := invested.DivPrice(price).Round(2)
			lot, err := NewLot(symbol, shares, on)
			if err != nil {
				return err
			}
			if err := p.AddLot(g.market, lot, g.fee); err != nil {
				return err
			}
			g.chargeCommission()
		}
		on = g.market.NextValidMarketDate(on.Add(intervalDays))
	}
	return g.save(p)
}

// Reset drops every portfolio and, when a store is bound, its files.
func (g *Manager) Reset() error {
	g.portfolios = make(map[string]*Portfolio)
	if g.store != nil {
		return g.store.Clear()
	}
	return nil
}

// RestorePortfolios loads every portfolio found in the bound store.
func (g *Manager) RestorePortfolios() error {
	if g.store == nil {
		return nil
	}
	names, err := g.store.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		p, err := g.store.Load(name)
		if err != nil {
			return err
		}
		g.portfolios[name] = p
	}
	return nil
}

func (g *Manager) save(p *Portfolio) error {
	if g.store == nil {
		return nil
	}
	return g.store.Save(p)
}

// validatePercents checks every percentage is within [0, 100] and the set
// sums to 100 within tolerance.
func validatePercents(percents map[string]Percent) error {
	if len(percents) == 0 {
		return fmt.Errorf("%w: no target percentages given", ErrInvalidRange)
	}
	var sum Percent
	for symbol, pct := range percents {
		if pct < 0 || pct > 100 {
			return fmt.Errorf("%w: percentage for %s must be between 0 and 100, got %s", ErrInvalidRange, symbol, pct)
		}
		sum += pct
	}
	if !sum.Equal(100) {
		return fmt.Errorf("%w: percentages must sum to 100, got %s", ErrInvalidRange, sum)
	}
	return nil
}
