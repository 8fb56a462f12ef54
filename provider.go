package stockfolio

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
)

// DirSource serves price histories from a local directory: a symbols.txt
// file listing the supported symbols, one per line, and one <symbol>.csv
// file per symbol with timestamp,open,high,low,close,volume columns (only
// timestamp and close are read).
type DirSource struct {
	dir     string
	symbols []string
}

// quoteRow is one line of a daily price file.
type quoteRow struct {
	Timestamp string `csv:"timestamp"`
	Open      string `csv:"open"`
	High      string `csv:"high"`
	Low       string `csv:"low"`
	Close     string `csv:"close"`
	Volume    string `csv:"volume"`
}

// NewDirSource reads the symbol list from dir/symbols.txt. Blank lines and
// lines starting with '#' are skipped.
func NewDirSource(dir string) (*DirSource, error) {
	f, err := os.Open(filepath.Join(dir, "symbols.txt"))
	if err != nil {
		return nil, fmt.Errorf("could not read symbol list: %w", err)
	}
	defer f.Close()

	var symbols []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		symbols = append(symbols, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read symbol list: %w", err)
	}
	return &DirSource{dir: dir, symbols: symbols}, nil
}

// Symbols returns the supported symbol list.
func (s *DirSource) Symbols() []string { return s.symbols }

// DailyCloses reads the symbol's price file into a dated close history.
func (s *DirSource) DailyCloses(symbol string) (*History[Money], error) {
	f, err := os.Open(filepath.Join(s.dir, symbol+".csv"))
	if err != nil {
		return nil, fmt.Errorf("no price file for %q: %w", symbol, err)
	}
	defer f.Close()

	var rows []*quoteRow
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		return nil, fmt.Errorf("malformed price file for %q: %w", symbol, err)
	}

	h := new(History[Money])
	for _, row := range rows {
		day, err := ParseDate(row.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("malformed price file for %q: %w", symbol, err)
		}
		price, err := ParseMoney(row.Close)
		if err != nil {
			return nil, fmt.Errorf("malformed price file for %q: %w", symbol, err)
		}
		h.Append(day, price)
	}
	return h, nil
}
