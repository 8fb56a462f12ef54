package renderer

import (
	"github.com/stockfolio/stockfolio"
)

// Performance is the render-ready view of a valuation trend: one row per
// time bucket, with the bucket's value formatted and a bar pre-scaled
// against the largest value in the series.
type Performance struct {
	Portfolio string
	From, To  string
	Rows      []PerformanceRow
}

// PerformanceRow is one bucket of the performance report.
type PerformanceRow struct {
	Label string
	Value string
	Bar   string
}

// NewPerformance builds the view from a computed series.
func NewPerformance(s *stockfolio.PerformanceSeries) *Performance {
	values := make([]float64, 0, len(s.Points))
	for _, pt := range s.Points {
		values = append(values, pt.Value.AsFloat())
	}
	scaled := bars(values)

	view := &Performance{
		Portfolio: s.Portfolio,
		From:      s.From.String(),
		To:        s.To.String(),
	}
	for i, pt := range s.Points {
		view.Rows = append(view.Rows, PerformanceRow{
			Label: pt.Label,
			Value: pt.Value.String(),
			Bar:   scaled[i],
		})
	}
	return view
}
