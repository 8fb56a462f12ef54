package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"
	"github.com/stockfolio/stockfolio"
)

// CompositionMarkdown renders the lots held as of a date to a markdown table.
func CompositionMarkdown(name string, on stockfolio.Date, lots []stockfolio.Lot) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Composition of %s", name))
	doc.PlainText(fmt.Sprintf("As of %s.", on))

	if len(lots) == 0 {
		doc.PlainText("No shares held yet.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignRight,
			md.AlignLeft,
		},
		Header: []string{"Symbol", "Quantity", "Purchased"},
		Rows:   [][]string{},
	}
	for _, lot := range lots {
		table.Rows = append(table.Rows, []string{
			lot.Symbol,
			lot.Quantity.String(),
			lot.Day.String(),
		})
	}
	doc.Table(table)

	return doc.String()
}
