package stockfolio

import (
	"fmt"
	"sort"
)

// Lot is a single dated entry of shares acquired (positive quantity) or
// disposed (negative quantity) for one symbol. Lots are immutable records;
// a merge produces a new lot with the summed quantity.
type Lot struct {
	Symbol   string
	Quantity Quantity
	Day      Date
}

// NewLot returns a lot after validating the purchase date is not in the
// future and the symbol is not empty.
func NewLot(symbol string, quantity Quantity, day Date) (Lot, error) {
	if symbol == "" {
		return Lot{}, fmt.Errorf("%w: empty symbol", ErrInvalidRange)
	}
	if day.After(Today()) {
		return Lot{}, fmt.Errorf("%w: purchase date %s for %s cannot be in the future", ErrInvalidRange, day, symbol)
	}
	return Lot{Symbol: symbol, Quantity: quantity, Day: day}, nil
}

func (l Lot) String() string {
	return fmt.Sprintf("%s:%s:%s", l.Symbol, l.Quantity, l.Day)
}

// lotKey identifies a lot inside a portfolio. Lots sharing symbol and
// purchase day are merged by summing quantities.
type lotKey struct {
	symbol string
	day    Date
}

func (l Lot) key() lotKey { return lotKey{symbol: l.Symbol, day: l.Day} }

// sortLots orders lots by purchase date ascending, then by symbol so the
// order is deterministic for same-day lots.
func sortLots(lots []Lot) {
	sort.Slice(lots, func(i, j int) bool {
		if lots[i].Day != lots[j].Day {
			return lots[i].Day.Before(lots[j].Day)
		}
		return lots[i].Symbol < lots[j].Symbol
	})
}
