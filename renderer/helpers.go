package renderer

import (
	"strings"

	"github.com/montanaflynn/stats"
)

// barWidth is the length of the longest bar in a chart column.
const barWidth = 40

// bars scales the values into text bars, the largest value filling the
// full width. Non-positive values get an empty bar.
func bars(values []float64) []string {
	scaled := make([]string, len(values))

	max, err := stats.Max(values)
	if err != nil || max <= 0 {
		return scaled
	}
	for i, v := range values {
		if v <= 0 {
			continue
		}
		n := int(v / max * barWidth)
		scaled[i] = strings.Repeat("█", n)
	}
	return scaled
}
