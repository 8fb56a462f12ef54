// Package cmd implements the CLI application to manage stock portfolios.
package cmd

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/stockfolio/stockfolio"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&createCmd{}, "portfolios")
	c.Register(&listCmd{}, "portfolios")
	c.Register(&dcaCmd{}, "portfolios")

	c.Register(&addCmd{}, "transactions")
	c.Register(&sellCmd{}, "transactions")
	c.Register(&rebalanceCmd{}, "transactions")

	c.Register(&valueCmd{}, "reports")
	c.Register(&costBasisCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&compositionCmd{}, "reports")
	c.Register(&performanceCmd{}, "reports")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var storePath = flag.String("store-path", ".stockfolio", "Path to the folder holding portfolio files")
var pricesPath = flag.String("prices-path", "prices", "Path to the folder holding daily price files and symbols.txt")
var remotePrices = flag.Bool("remote-prices", false, "Fetch prices from Alpha Vantage instead of the local prices folder")
var remoteSymbols = flag.String("remote-symbols", "", "Comma separated symbols supported when fetching remote prices")
var commissionFee = flag.Float64("commission-fee", 0, "Flat commission fee charged on each new lot, in USD")
var commissionDecay = flag.Float64("commission-decay", 0, "Percentage by which the commission fee decays after each transaction")

// loadManager builds the manager from the global flags: price source,
// market, commission schedule and persisted portfolios.
func loadManager() (*stockfolio.Manager, error) {
	var source stockfolio.PriceSource
	if *remotePrices {
		symbols := strings.Split(*remoteSymbols, ",")
		for i := range symbols {
			symbols[i] = strings.TrimSpace(symbols[i])
		}
		source = stockfolio.NewAlphaVantageSource(symbols)
	} else {
		var err error
		source, err = stockfolio.NewDirSource(*pricesPath)
		if err != nil {
			return nil, err
		}
	}

	manager := stockfolio.NewManager(stockfolio.NewMarket(source))
	if err := manager.SetCommission(stockfolio.USD(*commissionFee), stockfolio.Percent(*commissionDecay)); err != nil {
		return nil, err
	}
	manager.SetStore(stockfolio.NewStore(*storePath))
	if err := manager.RestorePortfolios(); err != nil {
		return nil, err
	}
	return manager, nil
}

// percentsFlag collects SYMBOL=PERCENT pairs from a repeatable flag into a
// percentage map.
type percentsFlag map[string]stockfolio.Percent

func (p percentsFlag) String() string {
	var pairs []string
	for symbol, pct := range p {
		pairs = append(pairs, fmt.Sprintf("%s=%v", symbol, float64(pct)))
	}
	return strings.Join(pairs, ",")
}

func (p percentsFlag) Set(s string) error {
	for _, pair := range strings.Split(s, ",") {
		symbol, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			return fmt.Errorf("invalid percentage %q, want SYMBOL=PERCENT", pair)
		}
		pct, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid percentage %q: %v", pair, err)
		}
		p[symbol] = stockfolio.Percent(pct)
	}
	return nil
}
