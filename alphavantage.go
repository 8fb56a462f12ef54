package stockfolio

import (
	"flag"
	"fmt"
	"net/url"
	"os"

	"github.com/PaesslerAG/jsonpath"
)

const alphavantage_api_key = "ALPHAVANTAGE_API_KEY"

var alphavantageApiFlag = flag.String("alphavantage-api-key", "", "Alpha Vantage API key to use for fetching prices.\n If missing it will read the environment variable \""+alphavantage_api_key+"\". You can get one at https://www.alphavantage.co/support/#api-key")

func alphavantageApiKey() string {
	// If the flag is not set, we try to read it from the environment variable.
	if *alphavantageApiFlag == "" {
		*alphavantageApiFlag = os.Getenv(alphavantage_api_key)
	}
	return *alphavantageApiFlag
}

// AlphaVantageSource fetches daily close prices from the Alpha Vantage
// TIME_SERIES_DAILY endpoint. Responses are cached on disk with a daily
// expiry, so repeated lookups for the same symbol on the same day cost one
// request.
type AlphaVantageSource struct {
	symbols []string
	apiKey  string
}

// NewAlphaVantageSource returns a source restricted to the given symbols,
// keyed by the -alphavantage-api-key flag or its environment fallback.
func NewAlphaVantageSource(symbols []string) *AlphaVantageSource {
	return &AlphaVantageSource{symbols: symbols, apiKey: alphavantageApiKey()}
}

// Symbols returns the supported symbol list.
func (s *AlphaVantageSource) Symbols() []string { return s.symbols }

// DailyCloses fetches the symbol's full daily history.
func (s *AlphaVantageSource) DailyCloses(symbol string) (*History[Money], error) {
	// https://www.alphavantage.co/query?function=TIME_SERIES_DAILY&symbol=IBM&outputsize=full
	// {
	//   "Meta Data": { ... },
	//   "Time Series (Daily)": {
	//     "2024-02-13": {
	//       "1. open": "184.70",
	//       "2. high": "186.33",
	//       "3. low": "184.26",
	//       "4. close": "185.80",
	//       "5. volume": "4275644"
	//     },
	//     ...
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("outputsize", "full")
	q.Set("apikey", s.apiKey)
	addr := "https://www.alphavantage.co/query?" + q.Encode()

	var payload interface{}
	// query that endpoint at most once a day
	if err := jwget(daily(), addr, &payload); err != nil {
		return nil, err
	}

	if msg, err := jsonpath.Get(`$["Error Message"]`, payload); err == nil {
		return nil, fmt.Errorf("alphavantage rejected the query for %q: %v", symbol, msg)
	}

	series, err := jsonpath.Get(`$["Time Series (Daily)"]`, payload)
	if err != nil {
		return nil, fmt.Errorf("unexpected alphavantage payload for %q: %w", symbol, err)
	}
	byDate, ok := series.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected alphavantage payload for %q", symbol)
	}

	h := new(History[Money])
	for timestamp := range byDate {
		day, err := ParseDate(timestamp)
		if err != nil {
			return nil, fmt.Errorf("unexpected alphavantage date %q for %q", timestamp, symbol)
		}
		raw, err := jsonpath.Get(fmt.Sprintf(`$["%s"]["4. close"]`, timestamp), series)
		if err != nil {
			return nil, fmt.Errorf("missing close for %q on %s: %w", symbol, day, err)
		}
		text, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected close %v for %q on %s", raw, symbol, day)
		}
		price, err := ParseMoney(text)
		if err != nil {
			return nil, fmt.Errorf("unexpected close %q for %q on %s", text, symbol, day)
		}
		h.Append(day, price)
	}
	return h, nil
}
