package stockfolio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// lotRecord is the delimited form of a lot: one symbol,quantity,date line.
type lotRecord struct {
	Symbol   string `csv:"symbol"`
	Quantity string `csv:"quantity"`
	Day      string `csv:"date"`
}

// basisRecord is the delimited form of a cost-basis entry: one date,amount line.
type basisRecord struct {
	Day    string `csv:"date"`
	Amount string `csv:"amount"`
}

// ImportLots parses a sequence of symbol,quantity,date lines into lots.
//
// When wholeShares is set (bulk import into a new portfolio) quantities
// must be positive whole share counts; otherwise fractional and negative
// quantities are accepted. Wrong field counts, non-numeric quantities,
// unparseable dates, and future purchase dates all fail with
// ErrMalformedImport before any lot is returned.
func ImportLots(r io.Reader, wholeShares bool) ([]Lot, error) {
	var records []*lotRecord
	if err := gocsv.UnmarshalWithoutHeaders(r, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}

	lots := make([]Lot, 0, len(records))
	for i, rec := range records {
		symbol := strings.TrimSpace(rec.Symbol)
		if symbol == "" {
			return nil, fmt.Errorf("%w: line %d has an empty symbol", ErrMalformedImport, i+1)
		}
		quantity, err := ParseQuantity(strings.TrimSpace(rec.Quantity))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d has a non-numeric quantity %q", ErrMalformedImport, i+1, rec.Quantity)
		}
		if wholeShares && (!quantity.IsInteger() || !quantity.IsPositive()) {
			return nil, fmt.Errorf("%w: line %d quantity %q must be a positive whole share count", ErrMalformedImport, i+1, rec.Quantity)
		}
		day, err := ParseDate(strings.TrimSpace(rec.Day))
		if err != nil {
			return nil, fmt.Errorf("%w: line %d has an unparseable date %q", ErrMalformedImport, i+1, rec.Day)
		}
		if day.After(Today()) {
			return nil, fmt.Errorf("%w: line %d purchase date %s is in the future", ErrMalformedImport, i+1, day)
		}
		lots = append(lots, Lot{Symbol: symbol, Quantity: quantity, Day: day})
	}
	return lots, nil
}

// ExportLots writes lots as symbol,quantity,date lines, ordered by
// purchase date.
func ExportLots(w io.Writer, lots []Lot) error {
	ordered := make([]Lot, len(lots))
	copy(ordered, lots)
	sortLots(ordered)

	records := make([]*lotRecord, 0, len(ordered))
	for _, lot := range ordered {
		records = append(records, &lotRecord{
			Symbol:   lot.Symbol,
			Quantity: lot.Quantity.String(),
			Day:      lot.Day.String(),
		})
	}
	return gocsv.MarshalWithoutHeaders(&records, w)
}

// exportCostBasis writes a cost-basis ledger as date,amount lines, ordered
// by date.
func exportCostBasis(w io.Writer, entries []costBasisEntry) error {
	records := make([]*basisRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, &basisRecord{
			Day:    e.Day.String(),
			Amount: e.Spent.value.String(),
		})
	}
	return gocsv.MarshalWithoutHeaders(&records, w)
}

// importCostBasis parses date,amount lines into cost-basis entries.
func importCostBasis(r io.Reader) ([]costBasisEntry, error) {
	var records []*basisRecord
	if err := gocsv.UnmarshalWithoutHeaders(r, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	entries := make([]costBasisEntry, 0, len(records))
	for i, rec := range records {
		day, err := ParseDate(strings.TrimSpace(rec.Day))
		if err != nil {
			return nil, fmt.Errorf("%w: cost basis line %d has an unparseable date %q", ErrMalformedImport, i+1, rec.Day)
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(rec.Amount))
		if err != nil {
			return nil, fmt.Errorf("%w: cost basis line %d has a non-numeric amount %q", ErrMalformedImport, i+1, rec.Amount)
		}
		entries = append(entries, costBasisEntry{Day: day, Spent: M(amount, ReportingCurrency)})
	}
	return entries, nil
}

// Store persists portfolios to a directory as pairs of delimited text
// files: <name>.csv for lots and <name>-costbasis.csv for the cost-basis
// ledger.
type Store struct {
	dir string
}

const (
	lotFileExt      = ".csv"
	costBasisSuffix = "-costbasis.csv"
)

// NewStore returns a store rooted at dir. The directory is created on the
// first save.
func NewStore(dir string) *Store { return &Store{dir: dir} }

func (s *Store) lotPath(name string) string { return filepath.Join(s.dir, name+lotFileExt) }
func (s *Store) basisPath(name string) string {
	return filepath.Join(s.dir, name+costBasisSuffix)
}

// Save writes the portfolio's lots and cost-basis ledger.
func (s *Store) Save(p *Portfolio) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("could not create store directory: %w", err)
	}

	lotFile, err := os.Create(s.lotPath(p.Name()))
	if err != nil {
		return fmt.Errorf("could not save portfolio %q: %w", p.Name(), err)
	}
	defer lotFile.Close()
	if err := ExportLots(lotFile, p.Lots()); err != nil {
		return fmt.Errorf("could not save portfolio %q: %w", p.Name(), err)
	}

	basisFile, err := os.Create(s.basisPath(p.Name()))
	if err != nil {
		return fmt.Errorf("could not save cost basis for %q: %w", p.Name(), err)
	}
	defer basisFile.Close()
	if err := exportCostBasis(basisFile, p.costBasisEntries()); err != nil {
		return fmt.Errorf("could not save cost basis for %q: %w", p.Name(), err)
	}
	return nil
}

// Load restores a portfolio from its files. Lots and cost basis are
// restored verbatim, not replayed, so no commission is re-charged and no
// price lookup is needed.
func (s *Store) Load(name string) (*Portfolio, error) {
	lotFile, err := os.Open(s.lotPath(name))
	if err != nil {
		return nil, fmt.Errorf("could not load portfolio %q: %w", name, err)
	}
	defer lotFile.Close()
	lots, err := ImportLots(lotFile, false)
	if err != nil {
		return nil, fmt.Errorf("could not load portfolio %q: %w", name, err)
	}

	p := NewPortfolio(name)
	for _, lot := range lots {
		p.restoreLot(lot)
	}

	basisFile, err := os.Open(s.basisPath(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil // legacy portfolio without a cost-basis file
		}
		return nil, fmt.Errorf("could not load cost basis for %q: %w", name, err)
	}
	defer basisFile.Close()
	entries, err := importCostBasis(basisFile)
	if err != nil {
		return nil, fmt.Errorf("could not load cost basis for %q: %w", name, err)
	}
	for _, e := range entries {
		p.restoreCostBasis(e.Day, e.Spent)
	}
	return p, nil
}

// List returns the names of portfolios stored in the directory.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("could not list store directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, lotFileExt) || strings.HasSuffix(name, costBasisSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(name, lotFileExt))
	}
	return names, nil
}

// Clear removes every stored portfolio file.
func (s *Store) Clear() error {
	if err := os.RemoveAll(s.dir); err != nil {
		return fmt.Errorf("could not clear store directory: %w", err)
	}
	return nil
}
