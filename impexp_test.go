package stockfolio

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestImportLots(t *testing.T) {
	in := strings.NewReader("AAPL,5,2022-01-03\nMSFT,10,2022-02-01\n")

	lots, err := ImportLots(in, true)
	if err != nil {
		t.Fatalf("ImportLots failed: %v", err)
	}
	if len(lots) != 2 {
		t.Fatalf("got %d lots, want 2", len(lots))
	}
	if lots[0].Symbol != "AAPL" || !lots[0].Quantity.Equal(Q(5)) || lots[0].Day != MustParse("2022-01-03") {
		t.Errorf("first lot = %+v", lots[0])
	}
}

func TestImportLotsMalformed(t *testing.T) {
	testCases := []struct {
		name        string
		in          string
		wholeShares bool
	}{
		{"missing field", "AAPL,5\n", true},
		{"non-numeric quantity", "AAPL,five,2022-01-03\n", true},
		{"fractional quantity on bulk import", "AAPL,1.5,2022-01-03\n", true},
		{"negative quantity on bulk import", "AAPL,-5,2022-01-03\n", true},
		{"zero quantity on bulk import", "AAPL,0,2022-01-03\n", true},
		{"unparseable date", "AAPL,5,january\n", true},
		{"future purchase date", fmt.Sprintf("AAPL,5,%s\n", Today().Add(7)), false},
		{"empty symbol", ",5,2022-01-03\n", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ImportLots(strings.NewReader(tc.in), tc.wholeShares)
			if !errors.Is(err, ErrMalformedImport) {
				t.Errorf("ImportLots(%q) error = %v, want ErrMalformedImport", tc.in, err)
			}
		})
	}
}

func TestImportLotsFractionalAllowed(t *testing.T) {
	in := strings.NewReader("AAPL,1.5,2022-01-03\nMSFT,-3,2022-01-04\n")

	lots, err := ImportLots(in, false)
	if err != nil {
		t.Fatalf("ImportLots without whole-share restriction failed: %v", err)
	}
	if !lots[0].Quantity.Equal(Q(1.5)) {
		t.Errorf("fractional quantity = %s, want 1.5", lots[0].Quantity)
	}
	if !lots[1].Quantity.Equal(Q(-3)) {
		t.Errorf("negative quantity = %s, want -3", lots[1].Quantity)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	lots := []Lot{
		{Symbol: "MSFT", Quantity: Q(10), Day: MustParse("2022-02-01")},
		{Symbol: "AAPL", Quantity: Q(5), Day: MustParse("2022-01-03")},
	}

	var buf bytes.Buffer
	if err := ExportLots(&buf, lots); err != nil {
		t.Fatalf("ExportLots failed: %v", err)
	}

	got, err := ImportLots(&buf, false)
	if err != nil {
		t.Fatalf("ImportLots failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d lots, want 2", len(got))
	}
	// Export orders by purchase date.
	if got[0].Symbol != "AAPL" || got[1].Symbol != "MSFT" {
		t.Errorf("round trip lost purchase-date order: %v", got)
	}
}

func TestStoreRoundTrip(t *testing.T) {
	m := testMarket(t, MustParse("2022-01-03"), MustParse("2022-01-31"))
	p := NewPortfolio("retirement")
	addLot(t, m, p, "AAPL", 5, "2022-01-03", 10)
	addLot(t, m, p, "MSFT", 10, "2022-01-04", 10)

	store := NewStore(t.TempDir())
	if err := store.Save(p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	names, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 1 || names[0] != "retirement" {
		t.Fatalf("List = %v, want [retirement]", names)
	}

	loaded, err := store.Load("retirement")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	on := MustParse("2022-01-31")
	if got, want := loaded.CompositionAsOf(on), p.CompositionAsOf(on); len(got) != len(want) {
		t.Fatalf("loaded composition has %d lots, want %d", len(got), len(want))
	}
	if got, want := loaded.CostBasisAt(on), p.CostBasisAt(on); !got.Equal(want) {
		t.Errorf("loaded cost basis = %s, want %s", got, want)
	}
	// The restore must not replay price lookups or commissions.
	value, err := loaded.ValueAt(m, on)
	if err != nil {
		t.Fatalf("ValueAt on loaded portfolio failed: %v", err)
	}
	if !value.Equal(USD(1000)) {
		t.Errorf("loaded value = %s, want %s", value, USD(1000))
	}
}

func TestStoreClear(t *testing.T) {
	m := testMarket(t, MustParse("2022-01-03"), MustParse("2022-01-31"))
	p := NewPortfolio("retirement")
	addLot(t, m, p, "AAPL", 5, "2022-01-03", 0)

	store := NewStore(t.TempDir())
	if err := store.Save(p); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	names, err := store.List()
	if err != nil {
		t.Fatalf("List after Clear failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List after Clear = %v, want empty", names)
	}
}

func TestManagerRestorePortfolios(t *testing.T) {
	dir := t.TempDir()

	g := newTestManager(t, MustParse("2022-01-03"), MustParse("2022-01-31"))
	g.SetStore(NewStore(dir))
	if _, err := g.Create("retirement", strings.NewReader("AAPL,5,2022-01-03\n")); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// A second manager bound to the same directory sees the portfolio.
	h := newTestManager(t, MustParse("2022-01-03"), MustParse("2022-01-31"))
	h.SetStore(NewStore(dir))
	if err := h.RestorePortfolios(); err != nil {
		t.Fatalf("RestorePortfolios failed: %v", err)
	}

	value, err := h.ValueAt("retirement", MustParse("2022-01-05"))
	if err != nil {
		t.Fatalf("ValueAt on restored portfolio failed: %v", err)
	}
	if !value.Equal(USD(500)) {
		t.Errorf("restored value = %s, want %s", value, USD(500))
	}
}
