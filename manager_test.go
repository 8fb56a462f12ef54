package stockfolio

import (
	"errors"
	"strings"
	"testing"
)

func newTestManager(t *testing.T, from, to Date) *Manager {
	t.Helper()
	return NewManager(testMarket(t, from, to))
}

func TestManagerCreate(t *testing.T) {
	g := newTestManager(t, MustParse("2022-01-03"), MustParse("2022-01-31"))
	if err := g.SetCommission(USD(10), 10); err != nil {
		t.Fatalf("SetCommission failed: %v", err)
	}

	in := strings.NewReader("AAPL,5,2022-01-03\nMSFT,10,2022-01-03\n")
	p, err := g.Create("retirement", in)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if len(p.Lots()) != 2 {
		t.Errorf("got %d lots, want 2", len(p.Lots()))
	}
	// Each imported lot is charged the flat fee: 500+10 plus 500+10.
	if basis := p.CostBasisAt(MustParse("2022-01-03")); !basis.Equal(USD(1020)) {
		t.Errorf("cost basis = %s, want %s", basis, USD(1020))
	}
	// Bulk import decays the commission once.
	if fee := g.CommissionFee(); !fee.Equal(USD(9)) {
		t.Errorf("commission fee after create = %s, want %s", fee, USD(9))
	}
}

func TestManagerCreateDuplicate(t *testing.T) {
	g := newTestManager(t, MustParse("2022-01-03"), MustParse("2022-01-31"))

	if _, err := g.Create("retirement", strings.NewReader("AAPL,5,2022-01-03\n")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err := g.Create("retirement", strings.NewReader("MSFT,1,2022-01-03\n"))
	if !errors.Is(err, ErrDuplicatePortfolio) {
		t.Errorf("duplicate Create error = %v, want ErrDuplicatePortfolio", err)
	}
}

func TestManagerUnknownPortfolio(t *testing.T) {
	g := newTestManager(t, MustParse("2022-01-03"), MustParse("2022-01-31"))

	if _, err := g.ValueAt("ghost", MustParse("2022-01-05")); !errors.Is(err, ErrUnknownPortfolio) {
		t.Errorf("ValueAt(ghost) error = %v, want ErrUnknownPortfolio", err)
	}
}

func TestCommissionDecay(t *testing.T) {
	g := newTestManager(t, MustParse("2022-01-03"), MustParse("2022-01-31"))
	if err := g.SetCommission(USD(10), 10); err != nil {
		t.Fatalf("SetCommission failed: %v", err)
	}
	if _, err := g.Create("retirement", strings.NewReader("AAPL,5,2022-01-03\n")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := g.AddLot("retirement", "MSFT", Q(2), MustParse("2022-01-04")); err != nil {
		t.Fatalf("AddLot failed: %v", err)
	}
	// 10 decayed by 10% twice: create then add.
	if fee := g.CommissionFee(); !fee.Equal(USD(8.1)) {
		t.Errorf("commission fee = %s, want %s", fee, USD(8.1))
	}
}

func TestSetCommissionValidation(t *testing.T) {
	g := newTestManager(t, MustParse("2022-01-03"), MustParse("2022-01-31"))

	testCases := []struct {
		name  string
		fee   Money
		decay Percent
	}{
		{"negative fee", USD(-1), 10},
		{"negative decay", USD(1), -5},
		{"decay above 100", USD(1), 101},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := g.SetCommission(tc.fee, tc.decay); !errors.Is(err, ErrInvalidRange) {
				t.Errorf("SetCommission error = %v, want ErrInvalidRange", err)
			}
		})
	}
}

func TestManagerFutureDates(t *testing.T) {
	g := newTestManager(t, MustParse("2022-01-03"), MustParse("2022-01-31"))
	if _, err := g.Create("retirement", strings.NewReader("AAPL,5,2022-01-03\n")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	future := Today().Add(7)
	if _, err := g.ValueAt("retirement", future); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("ValueAt in the future error = %v, want ErrInvalidRange", err)
	}
	if _, err := g.CostBasisAt("retirement", future); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("CostBasisAt in the future error = %v, want ErrInvalidRange", err)
	}
	if _, err := g.Composition("retirement", future); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Composition in the future error = %v, want ErrInvalidRange", err)
	}
	if err := g.Sell("retirement", "AAPL", Q(1), future); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Sell in the future error = %v, want ErrInvalidRange", err)
	}
	if err := g.Rebalance("retirement", future, map[string]Percent{"AAPL": 100}); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("Rebalance in the future error = %v, want ErrInvalidRange", err)
	}
}

func TestManagerPerformancePreconditions(t *testing.T) {
	g := newTestManager(t, MustParse("2022-01-03"), MustParse("2022-01-31"))
	if _, err := g.Create("retirement", strings.NewReader("AAPL,5,2022-01-03\n")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	testCases := []struct {
		name string
		from Date
		to   Date
	}{
		{"end before start", MustParse("2022-02-01"), MustParse("2022-01-03")},
		{"future end", MustParse("2022-01-03"), Today().Add(7)},
		{"before the epoch", MustParse("1999-06-01"), MustParse("2022-01-03")},
		{"start is today", Today(), Today()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := g.Performance("retirement", tc.from, tc.to); !errors.Is(err, ErrInvalidRange) {
				t.Errorf("Performance error = %v, want ErrInvalidRange", err)
			}
		})
	}
}

func TestValidatePercents(t *testing.T) {
	testCases := []struct {
		name      string
		percents  map[string]Percent
		expectErr bool
	}{
		{"sums to 100", map[string]Percent{"AAPL": 60, "MSFT": 40}, false},
		{"single symbol", map[string]Percent{"AAPL": 100}, false},
		{"does not sum to 100", map[string]Percent{"AAPL": 60, "MSFT": 30}, true},
		{"negative percentage", map[string]Percent{"AAPL": 150, "MSFT": -50}, true},
		{"empty", map[string]Percent{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePercents(tc.percents)
			if (err != nil) != tc.expectErr {
				t.Errorf("validatePercents(%v) error = %v, want error: %v", tc.percents, err, tc.expectErr)
			}
		})
	}
}

func TestDollarCostAverage(t *testing.T) {
	g := newTestManager(t, MustParse("2022-01-03"), MustParse("2022-02-28"))

	err := g.DollarCostAverage("steady", USD(300),
		MustParse("2022-01-03"), MustParse("2022-02-28"), 30,
		map[string]Percent{"AAPL": 50, "MSFT": 50})
	if err != nil {
		t.Fatalf("DollarCostAverage failed: %v", err)
	}

	p, err := g.Portfolio("steady")
	if err != nil {
		t.Fatalf("Portfolio failed: %v", err)
	}

	// Two rounds land in range: Jan 3 and Feb 2. Each invests 150 per
	// symbol: 1.5 AAPL at 100 and 3 MSFT at 50.
	on := MustParse("2022-02-28")
	if net := p.NetQuantity("AAPL", on); !net.Equal(Q(3)) {
		t.Errorf("AAPL net quantity = %s, want 3", net)
	}
	if net := p.NetQuantity("MSFT", on); !net.Equal(Q(6)) {
		t.Errorf("MSFT net quantity = %s, want 6", net)
	}
	if len(p.Lots()) != 4 {
		t.Errorf("got %d lots, want 4", len(p.Lots()))
	}
}

func TestDollarCostAverageValidation(t *testing.T) {
	g := newTestManager(t, MustParse("2022-01-03"), MustParse("2022-02-28"))
	split := map[string]Percent{"AAPL": 100}

	testCases := []struct {
		name     string
		from, to Date
		interval int
		split    map[string]Percent
	}{
		{"start after end", MustParse("2022-02-01"), MustParse("2022-01-03"), 30, split},
		{"start equals end", MustParse("2022-01-03"), MustParse("2022-01-03"), 30, split},
		{"zero interval", MustParse("2022-01-03"), MustParse("2022-02-28"), 0, split},
		{"bad split", MustParse("2022-01-03"), MustParse("2022-02-28"), 30, map[string]Percent{"AAPL": 40}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := g.DollarCostAverage("steady", USD(300), tc.from, tc.to, tc.interval, tc.split)
			if !errors.Is(err, ErrInvalidRange) {
				t.Errorf("DollarCostAverage error = %v, want ErrInvalidRange", err)
			}
		})
	}
}

func TestDollarCostAverageDuplicateName(t *testing.T) {
	g := newTestManager(t, MustParse("2022-01-03"), MustParse("2022-02-28"))
	if _, err := g.Create("steady", strings.NewReader("AAPL,5,2022-01-03\n")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err := g.DollarCostAverage("steady", USD(300),
		MustParse("2022-01-03"), MustParse("2022-02-28"), 30,
		map[string]Percent{"AAPL": 100})
	if !errors.Is(err, ErrDuplicatePortfolio) {
		t.Errorf("DollarCostAverage error = %v, want ErrDuplicatePortfolio", err)
	}
}

func TestManagerReset(t *testing.T) {
	g := newTestManager(t, MustParse("2022-01-03"), MustParse("2022-01-31"))
	g.SetStore(NewStore(t.TempDir()))
	if _, err := g.Create("retirement", strings.NewReader("AAPL,5,2022-01-03\n")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := g.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if names := g.Names(); len(names) != 0 {
		t.Errorf("Names after Reset = %v, want empty", names)
	}
	if err := g.RestorePortfolios(); err != nil {
		t.Fatalf("RestorePortfolios failed: %v", err)
	}
	if names := g.Names(); len(names) != 0 {
		t.Errorf("store still holds portfolios after Reset: %v", names)
	}
}

func TestManagerRebalanceSubstitutes(t *testing.T) {
	g := newTestManager(t, MustParse("2022-01-03"), MustParse("2022-01-31"))
	if _, err := g.Create("retirement", strings.NewReader("AAPL,10,2022-01-03\n")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	on := MustParse("2022-01-10")
	if err := g.Rebalance("retirement", on, map[string]Percent{"AAPL": 50, "MSFT": 50}); err != nil {
		t.Fatalf("Rebalance failed: %v", err)
	}

	p, err := g.Portfolio("retirement")
	if err != nil {
		t.Fatalf("Portfolio failed: %v", err)
	}
	holdings := p.Holdings(on)
	if !holdings["AAPL"].Equal(Q(5)) || !holdings["MSFT"].Equal(Q(10)) {
		t.Errorf("holdings after rebalance = %v, want AAPL=5 MSFT=10", holdings)
	}
}
