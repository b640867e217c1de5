package repository

import "github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/domain"

// SeedData returns the mock dataset the dashboard ships with. Every call
// builds fresh slices.
func SeedData() domain.Dataset {
	return domain.Dataset{
		Countries: []domain.Country{
			{Code: "KR", Name: "South Korea", CarbonTaxRate: 25},
			{Code: "JP", Name: "Japan", CarbonTaxRate: 2.6},
			{Code: "DE", Name: "Germany", CarbonTaxRate: 45},
			{Code: "SE", Name: "Sweden", CarbonTaxRate: 126},
			{Code: "US", Name: "United States", CarbonTaxRate: 0},
			{Code: "GB", Name: "United Kingdom", CarbonTaxRate: 22},
		},
		Companies: []domain.Company{
			{
				ID: "c1", Name: "Hanbit Steel", Country: "KR",
				Emissions: series(map[string][6]float64{
					"coal":        {320, 310, 335, 298, 305, 290},
					"electricity": {120, 118, 125, 130, 128, 122},
					"diesel":      {40, 42, 38, 41, 39, 37},
				}),
			},
			{
				ID: "c2", Name: "Sakura Logistics", Country: "JP",
				Emissions: series(map[string][6]float64{
					"diesel":   {210, 205, 220, 215, 230, 240},
					"gasoline": {65, 70, 68, 72, 75, 78},
					"lpg":      {12, 11, 13, 12, 14, 15},
				}),
			},
			{
				ID: "c3", Name: "Rheinwerk Chemie", Country: "DE",
				Emissions: series(map[string][6]float64{
					"natural_gas": {180, 175, 160, 150, 140, 135},
					"electricity": {95, 92, 90, 88, 85, 80},
					"biomass":     {8, 9, 10, 12, 13, 15},
				}),
			},
			{
				ID: "c4", Name: "Nordic Paper", Country: "SE",
				Emissions: series(map[string][6]float64{
					"biomass":     {45, 44, 46, 43, 42, 41},
					"electricity": {30, 29, 31, 28, 27, 26},
				}),
			},
			{
				ID: "c5", Name: "Liberty Freight", Country: "US",
				Emissions: series(map[string][6]float64{
					"diesel":      {260, 255, 270, 280, 275, 290},
					"gasoline":    {90, 95, 88, 92, 97, 99},
					"natural_gas": {25, 24, 26, 27, 25, 24},
				}),
			},
			{
				ID: "c6", Name: "Amazonia Foods", Country: "BR",
				Emissions: series(map[string][6]float64{
					"lpg":         {18, 19, 17, 20, 21, 22},
					"electricity": {35, 36, 34, 37, 38, 40},
				}),
			},
		},
		Posts: []domain.Post{
			{
				ID: "p1", Title: "Coal phase-down plan", ResourceUID: "c1", DateTime: "2024-02",
				Content: "Hanbit Steel announced a staged reduction of coal-fired furnaces.",
			},
			{
				ID: "p2", Title: "Fleet electrification pilot", ResourceUID: "c2", DateTime: "2024-04",
				Content: "Sakura Logistics is trialling electric trucks on two urban routes.",
			},
			{
				ID: "p3", Title: "Heat recovery upgrade", ResourceUID: "c3", DateTime: "2024-05",
				Content: "Rheinwerk Chemie cut natural gas demand with a new heat exchanger.",
			},
		},
	}
}

var seedMonths = [6]string{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06"}

// series lays out per-source monthly tonnage month by month, sources in a
// fixed order so the emission records are deterministic.
func series(bySource map[string][6]float64) []domain.GhgEmission {
	order := []string{"coal", "natural_gas", "diesel", "gasoline", "lpg", "electricity", "biomass"}
	var out []domain.GhgEmission
	for i, month := range seedMonths {
		for _, src := range order {
			values, ok := bySource[src]
			if !ok {
				continue
			}
			out = append(out, domain.GhgEmission{YearMonth: month, Source: src, Emissions: values[i]})
		}
	}
	return out
}
