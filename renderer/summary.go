package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"
	"github.com/stockfolio/stockfolio"
)

// SummaryMarkdown renders a portfolio's valuation against its cost basis.
func SummaryMarkdown(name string, on stockfolio.Date, value, basis stockfolio.Money) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Summary for %s", name))
	doc.PlainText(fmt.Sprintf("As of %s.", on))

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
		},
		Header: []string{"Metric", "Amount"},
		Rows: [][]string{
			{"Market Value", value.String()},
			{"Cost Basis", basis.String()},
			{"Unrealized Gain", value.Sub(basis).String()},
		},
	}
	doc.Table(table)

	return doc.String()
}
