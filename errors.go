package stockfolio

import "errors"

// Sentinel errors for the failure taxonomy. Callers match them with
// errors.Is; the wrapped message carries the human-readable detail.
var (
	// ErrPriceNotFound reports that no quote exists for a symbol on an
	// exact calendar date. It is never silently defaulted to zero.
	ErrPriceNotFound = errors.New("price not found")

	// ErrUnsupportedSymbol reports a symbol outside the market's supported
	// list, rejected before any ledger mutation.
	ErrUnsupportedSymbol = errors.New("unsupported symbol")

	// ErrInsufficientQuantity reports a sale exceeding the quantity held as
	// of the sale date.
	ErrInsufficientQuantity = errors.New("insufficient quantity")

	// ErrInvalidRange reports a date or percentage input failing a
	// precondition: end before start, future dates, dates before the epoch
	// year, or percentages outside [0,100] or not summing to 100.
	ErrInvalidRange = errors.New("invalid range")

	// ErrDuplicatePortfolio reports a name collision on portfolio creation.
	ErrDuplicatePortfolio = errors.New("duplicate portfolio")

	// ErrUnknownPortfolio reports an operation on a portfolio name the
	// manager does not hold. It keeps an empty composition distinguishable
	// from a missing portfolio.
	ErrUnknownPortfolio = errors.New("unknown portfolio")

	// ErrMalformedImport reports an import record with the wrong field
	// count, a non-numeric quantity, an unparseable date, or a future
	// purchase date.
	ErrMalformedImport = errors.New("malformed import")
)
