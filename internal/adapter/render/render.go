// Package render draws the price matrix and best deals as plain-text tables.
package render

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/flight-search/flexible-date-search/internal/domain"
	"github.com/flight-search/flexible-date-search/internal/infrastructure/timeutil"
)

// Format represents a text output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatMarkdown Format = "markdown"
)

// MissingCell is printed for matrix cells without a price.
const MissingCell = "-"

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatMarkdown):
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// Matrix renders departures as rows and returns as columns. The cheapest
// cell is marked with an asterisk.
func Matrix(m *domain.PriceMatrix, format Format) string {
	if m == nil {
		return ""
	}

	t := newWriter()
	header := table.Row{"Depart \\ Return"}
	for _, ret := range m.Returns {
		header = append(header, timeutil.FormatShortDate(ret))
	}
	t.AppendHeader(header)

	cheapest, found := cheapestCell(m)
	for i, dep := range m.Departures {
		row := table.Row{timeutil.FormatShortDate(dep)}
		for j := range m.Returns {
			cell := m.Cell(i, j)
			switch {
			case !cell.Present:
				row = append(row, MissingCell)
			case found && cell.Price == cheapest:
				row = append(row, formatPrice(cell.Price)+"*")
			default:
				row = append(row, formatPrice(cell.Price))
			}
		}
		t.AppendRow(row)
	}

	configs := make([]table.ColumnConfig, 0, len(m.Returns))
	for j := range m.Returns {
		configs = append(configs, table.ColumnConfig{Number: j + 2, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)

	footer := fmt.Sprintf("prices in %s, * cheapest", currencyOrDash(m.Currency))
	if missing := m.MissingCells(); missing > 0 {
		footer += fmt.Sprintf(", %d missing", missing)
	}
	t.SetCaption(footer)

	return output(t, format)
}

// Deals renders a ranked list of deals.
func Deals(deals []domain.Deal, format Format) string {
	t := newWriter()
	t.AppendHeader(table.Row{"#", "Route", "Depart", "Return", "Stay", "Price", "Carrier"})

	for i, d := range deals {
		ret := MissingCell
		if r, ok := d.Combination.Return(); ok {
			ret = timeutil.FormatShortDate(r)
		}
		carrier := ""
		if out, ok := d.Offer.Outbound(); ok {
			carrier = out.Carrier
		}
		t.AppendRow(table.Row{
			i + 1,
			d.Route.Key(),
			timeutil.FormatShortDate(d.Combination.Departure()),
			ret,
			d.Combination.StaysAtDestination(),
			formatPrice(d.Price) + " " + d.Currency,
			carrier,
		})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})

	return output(t, format)
}

func newWriter() table.Writer {
	style := table.StyleRounded
	// dates in headers keep their case
	style.Format.Header = text.FormatDefault
	t := table.NewWriter()
	t.SetStyle(style)
	return t
}

func output(t table.Writer, format Format) string {
	if format == FormatMarkdown {
		return t.RenderMarkdown()
	}
	return t.Render()
}

func cheapestCell(m *domain.PriceMatrix) (float64, bool) {
	var best float64
	found := false
	for _, row := range m.Cells {
		for _, cell := range row {
			if cell.Present && (!found || cell.Price < best) {
				best, found = cell.Price, true
			}
		}
	}
	return best, found
}

func formatPrice(p float64) string {
	return fmt.Sprintf("%.2f", p)
}

func currencyOrDash(c string) string {
	if c == "" {
		return MissingCell
	}
	return c
}
