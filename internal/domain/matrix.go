package domain

import (
	"encoding/json"
	"time"
)

// PriceCell is one matrix cell. Present is false when no successful lookup
// priced that (departure, return) pair; Price is meaningless in that case.
type PriceCell struct {
	Price   float64
	Present bool
}

// MarshalJSON renders missing cells as null.
func (c PriceCell) MarshalJSON() ([]byte, error) {
	if !c.Present {
		return []byte("null"), nil
	}
	return json.Marshal(c.Price)
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *PriceCell) UnmarshalJSON(data []byte) error {
	var price *float64
	if err := json.Unmarshal(data, &price); err != nil {
		return err
	}
	if price == nil {
		*c = PriceCell{}
		return nil
	}
	*c = PriceCell{Price: *price, Present: true}
	return nil
}

// PriceMatrix is a departure x return grid of cheapest prices.
// Rows follow Departures and columns follow Returns, both in calendar order.
type PriceMatrix struct {
	Departures []time.Time   `json:"departures"`
	Returns    []time.Time   `json:"returns"`
	Cells      [][]PriceCell `json:"cells"`
	Currency   string        `json:"currency,omitempty"`
}

// Cell returns the cell at row i and column j.
func (m *PriceMatrix) Cell(i, j int) PriceCell {
	return m.Cells[i][j]
}

// MissingCells counts cells without a price.
func (m *PriceMatrix) MissingCells() int {
	missing := 0
	for _, row := range m.Cells {
		for _, cell := range row {
			if !cell.Present {
				missing++
			}
		}
	}
	return missing
}
