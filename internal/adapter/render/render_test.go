package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/flight-search/flexible-date-search/internal/domain"
)

func date(s string) time.Time {
	t, _ := time.Parse(domain.DateLayout, s)
	return t
}

func sampleMatrix() *domain.PriceMatrix {
	return &domain.PriceMatrix{
		Departures: []time.Time{date("2025-11-10"), date("2025-11-11")},
		Returns:    []time.Time{date("2025-11-20"), date("2025-11-21")},
		Cells: [][]domain.PriceCell{
			{{Price: 310, Present: true}, {Price: 295.5, Present: true}},
			{{Price: 260, Present: true}, {}},
		},
		Currency: "EUR",
	}
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("table")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	format, err = ParseFormat("Markdown")
	require.NoError(t, err)
	require.Equal(t, FormatMarkdown, format)

	format, err = ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatTable, format)

	_, err = ParseFormat("csv")
	require.Error(t, err)
}

func TestMatrix(t *testing.T) {
	rendered := Matrix(sampleMatrix(), FormatTable)

	require.Contains(t, rendered, "Mon 10 Nov")
	require.Contains(t, rendered, "Fri 21 Nov")
	require.Contains(t, rendered, "295.50")
	require.Contains(t, rendered, "260.00*")
	require.Contains(t, rendered, "prices in EUR")
	require.Contains(t, rendered, "1 missing")

	lines := strings.Split(rendered, "\n")
	var tuesday string
	for _, line := range lines {
		if strings.Contains(line, "Tue 11 Nov") {
			tuesday = line
		}
	}
	require.Contains(t, tuesday, MissingCell)
}

func TestMatrix_Markdown(t *testing.T) {
	rendered := Matrix(sampleMatrix(), FormatMarkdown)

	require.True(t, strings.HasPrefix(rendered, "|"))
	require.Contains(t, rendered, "| Mon 10 Nov |")
}

func TestMatrix_Nil(t *testing.T) {
	require.Empty(t, Matrix(nil, FormatTable))
}

func TestDeals(t *testing.T) {
	combo, err := domain.NewDateCombination(date("2025-11-10"), date("2025-11-20"))
	require.NoError(t, err)
	deals := []domain.Deal{
		{
			Route:       domain.NewRoute("ZRH", "LIS"),
			Combination: combo,
			Price:       245.3,
			Currency:    "EUR",
			Offer:       domain.Offer{Itineraries: []domain.Itinerary{{Carrier: "LX"}}},
		},
		{
			Route:       domain.NewRoute("ZRH", "OPO"),
			Combination: domain.NewOneWayCombination(date("2025-11-11")),
			Price:       120,
			Currency:    "EUR",
		},
	}

	rendered := Deals(deals, FormatTable)

	require.Contains(t, rendered, "ZRH-LIS")
	require.Contains(t, rendered, "245.30 EUR")
	require.Contains(t, rendered, "LX")
	require.Contains(t, rendered, "Thu 20 Nov")
	require.Contains(t, rendered, "ZRH-OPO")
}
