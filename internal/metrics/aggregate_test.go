package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/domain"
)

func rec(month, source string, tons float64) domain.GhgEmission {
	return domain.GhgEmission{YearMonth: month, Source: source, Emissions: tons}
}

func TestMonthlyTotals(t *testing.T) {
	got := MonthlyTotals([]domain.GhgEmission{
		rec("2024-03", "coal", 1),
		rec("2024-01", "coal", 2),
		rec("2024-03", "diesel", 4),
	})
	assert.Equal(t, []MonthTotal{
		{YearMonth: "2024-01", Emissions: 2},
		{YearMonth: "2024-03", Emissions: 5},
	}, got)
	assert.Empty(t, MonthlyTotals(nil))
}

func TestSourceTotals(t *testing.T) {
	got := SourceTotals([]domain.GhgEmission{
		rec("2024-01", "diesel", 5),
		rec("2024-01", "coal", 10),
		rec("2024-02", "coal", 5),
		rec("2024-02", "hydrogen_fuel", 5),
	})
	require.Len(t, got, 3)
	assert.Equal(t, "coal", got[0].Source)
	assert.Equal(t, "Coal", got[0].Label)
	assert.InDelta(t, 60.0, got[0].Percent, 1e-9)
	// equal tonnage falls back to name order
	assert.Equal(t, "diesel", got[1].Source)
	assert.Equal(t, "hydrogen_fuel", got[2].Source)
	assert.Equal(t, "Hydrogen Fuel", got[2].Label)
}

func TestTrend(t *testing.T) {
	tests := []struct {
		name    string
		monthly []MonthTotal
		want    float64
	}{
		{"no data", nil, 0},
		{"single month", []MonthTotal{{"2024-01", 10}}, 0},
		{"two months", []MonthTotal{{"2024-01", 10}, {"2024-02", 14}}, 4},
		{
			"uses last three months only",
			[]MonthTotal{{"2024-01", 100}, {"2024-02", 10}, {"2024-03", 20}, {"2024-04", 7}},
			-3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Trend(tt.monthly))
		})
	}
}

func TestMonthOverMonth(t *testing.T) {
	ch := MonthOverMonth([]MonthTotal{{"2024-04", 50}, {"2024-05", 100}, {"2024-06", 110}})
	assert.Equal(t, "2024-06", ch.CurrentMonth)
	assert.Equal(t, "2024-05", ch.PreviousMonth)
	assert.InDelta(t, 10.0, ch.Percent, 1e-9)
	assert.True(t, ch.Increase)

	single := MonthOverMonth([]MonthTotal{{"2024-06", 110}})
	assert.Equal(t, 0.0, single.Percent)
	assert.False(t, single.Increase)

	assert.Equal(t, Change{}, MonthOverMonth(nil))
}

func TestAggregate(t *testing.T) {
	countries := []domain.Country{
		{Code: "KR", Name: "South Korea", CarbonTaxRate: 25},
		{Code: "DE", Name: "Germany", CarbonTaxRate: 45},
	}
	companies := []domain.Company{
		{ID: "a", Name: "Alpha", Country: "KR", Emissions: []domain.GhgEmission{
			rec("2024-01", "coal", 10), rec("2024-02", "diesel", 5),
		}},
		{ID: "b", Name: "Beta", Country: "DE", Emissions: []domain.GhgEmission{
			rec("2024-01", "natural_gas", 20), rec("2024-02", "natural_gas", 20),
		}},
		{ID: "c", Name: "Gamma", Country: "BR", Emissions: []domain.GhgEmission{
			rec("2024-02", "lpg", 15),
		}},
	}

	snap := Aggregate(companies, countries)

	assert.Equal(t, 3, snap.CompanyCount)
	assert.Equal(t, 3, snap.CountryCount)
	assert.Equal(t, 70.0, snap.TotalEmissions)
	assert.Equal(t, 15*25.0+40*45.0, snap.TotalTax)
	assert.InDelta(t, snap.TotalTax/3, snap.AverageTax, 1e-9)

	// Alpha and Gamma tie on 15 tons; name order breaks the tie.
	require.Len(t, snap.Companies, 3)
	assert.Equal(t, []string{"b", "a", "c"}, []string{snap.Companies[0].ID, snap.Companies[1].ID, snap.Companies[2].ID})

	gamma := snap.Companies[2]
	assert.Equal(t, "BR", gamma.CountryName)
	assert.Equal(t, 0.0, gamma.CarbonTax)

	alpha := snap.Companies[1]
	assert.Equal(t, "South Korea", alpha.CountryName)
	assert.Equal(t, -5.0, alpha.Trend)
	assert.Equal(t, "coal", alpha.TopSource)

	assert.Equal(t, "b", snap.TaxRanking[0].ID)
	assert.Equal(t, "c", snap.TaxRanking[2].ID)

	require.Len(t, snap.Monthly.Points, 2)
	assert.Equal(t, 40.0, snap.Monthly.Max)
	assert.Equal(t, "natural_gas", snap.Sources[0].Source)

	assert.Equal(t, "2024-02", snap.MonthOverMonth.CurrentMonth)
	assert.InDelta(t, 33.333, snap.MonthOverMonth.Percent, 0.001)

	assert.Equal(t, TreesForEmissions(70), snap.Offset.Trees)
}

func TestAggregateEmpty(t *testing.T) {
	snap := Aggregate(nil, nil)
	assert.Equal(t, 0, snap.CompanyCount)
	assert.Equal(t, 0.0, snap.AverageTax)
	assert.Empty(t, snap.Companies)
	assert.Empty(t, snap.Monthly.Points)
	assert.Equal(t, int64(0), snap.Offset.Trees)
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	companies := []domain.Company{
		{ID: "b", Name: "B", Country: "KR", Emissions: []domain.GhgEmission{rec("2024-01", "coal", 1)}},
		{ID: "a", Name: "A", Country: "KR", Emissions: []domain.GhgEmission{rec("2024-01", "coal", 2)}},
	}
	Aggregate(companies, exampleCountries)
	assert.Equal(t, "b", companies[0].ID)
}
