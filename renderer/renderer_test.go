package renderer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stockfolio/stockfolio"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// mustRenderHTML converts markdown to HTML, failing the test when the
// markdown does not parse. Pipe tables need the GFM table extension.
func mustRenderHTML(t *testing.T, markdown string) string {
	t.Helper()
	var buf bytes.Buffer
	gm := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := gm.Convert([]byte(markdown), &buf); err != nil {
		t.Fatalf("rendered report is not valid markdown: %v", err)
	}
	return buf.String()
}

func TestPerformanceMarkdown(t *testing.T) {
	series := &stockfolio.PerformanceSeries{
		Portfolio: "retirement",
		From:      stockfolio.MustParse("2022-01-03"),
		To:        stockfolio.MustParse("2022-06-30"),
		Points: []stockfolio.PerformancePoint{
			{Label: "Jan 2022", Value: stockfolio.USD(1000)},
			{Label: "Feb 2022", Value: stockfolio.USD(2000)},
			{Label: "Mar 2022", Value: stockfolio.USD(500)},
		},
	}

	got := PerformanceMarkdown(NewPerformance(series))

	for _, want := range []string{
		"# Performance for retirement",
		"From 2022-01-03 to 2022-06-30.",
		"| Jan 2022 |",
		"| Feb 2022 |",
		"| Mar 2022 |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("performance report misses %q:\n%s", want, got)
		}
	}

	html := mustRenderHTML(t, got)
	if !strings.Contains(html, "<table>") {
		t.Errorf("performance report does not render a table:\n%s", html)
	}
}

func TestNewPerformanceScalesBars(t *testing.T) {
	series := &stockfolio.PerformanceSeries{
		Portfolio: "retirement",
		Points: []stockfolio.PerformancePoint{
			{Label: "2020", Value: stockfolio.USD(500)},
			{Label: "2021", Value: stockfolio.USD(1000)},
			{Label: "2022", Value: stockfolio.USD(0)},
		},
	}

	view := NewPerformance(series)

	full := strings.Repeat("█", barWidth)
	if view.Rows[1].Bar != full {
		t.Errorf("largest value bar = %q, want full width", view.Rows[1].Bar)
	}
	if got, want := view.Rows[0].Bar, strings.Repeat("█", barWidth/2); got != want {
		t.Errorf("half value bar = %q, want %q", got, want)
	}
	if view.Rows[2].Bar != "" {
		t.Errorf("zero value bar = %q, want empty", view.Rows[2].Bar)
	}
}

func TestBarsAllZero(t *testing.T) {
	for _, bar := range bars([]float64{0, 0, 0}) {
		if bar != "" {
			t.Fatalf("all-zero series produced bar %q", bar)
		}
	}
}

func TestCompositionMarkdown(t *testing.T) {
	lots := []stockfolio.Lot{
		{Symbol: "AAPL", Quantity: stockfolio.Q(8), Day: stockfolio.MustParse("2022-01-03")},
		{Symbol: "MSFT", Quantity: stockfolio.Q(2.5), Day: stockfolio.MustParse("2022-02-01")},
	}

	got := CompositionMarkdown("retirement", stockfolio.MustParse("2022-03-01"), lots)

	for _, want := range []string{
		"# Composition of retirement",
		"AAPL",
		"2022-01-03",
		"2.5",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("composition report misses %q:\n%s", want, got)
		}
	}
	mustRenderHTML(t, got)
}

func TestCompositionMarkdownEmpty(t *testing.T) {
	got := CompositionMarkdown("fresh", stockfolio.MustParse("2022-03-01"), nil)
	if !strings.Contains(got, "No shares held yet.") {
		t.Errorf("empty composition report misses placeholder:\n%s", got)
	}
}

func TestSummaryMarkdown(t *testing.T) {
	got := SummaryMarkdown("retirement", stockfolio.MustParse("2022-03-01"),
		stockfolio.USD(1500), stockfolio.USD(1000))

	for _, want := range []string{
		"# Summary for retirement",
		"Market Value",
		"Cost Basis",
		"Unrealized Gain",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary report misses %q:\n%s", want, got)
		}
	}
	mustRenderHTML(t, got)
}
