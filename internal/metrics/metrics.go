// Package metrics derives every dashboard figure from the company and
// country collections. All functions are pure: they never modify their
// arguments and hold no state.
package metrics

import (
	"math"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/domain"
)

// TreeAbsorptionTonsPerYear is the CO2 an average tree absorbs in a year
// (about 48 pounds).
const TreeAbsorptionTonsPerYear = 0.024

// TotalEmissions sums the tonnage of every record of c.
func TotalEmissions(c domain.Company) float64 {
	total := 0.0
	for _, e := range c.Emissions {
		total += e.Emissions
	}
	return total
}

// RateFor returns the carbon tax rate of the country with the given code,
// or 0 when no country matches.
func RateFor(code string, countries []domain.Country) float64 {
	if country, ok := FindCountry(code, countries); ok {
		return country.CarbonTaxRate
	}
	return 0
}

func FindCountry(code string, countries []domain.Country) (domain.Country, bool) {
	for _, c := range countries {
		if c.Code == code {
			return c, true
		}
	}
	return domain.Country{}, false
}

// CarbonTax is TotalEmissions(c) times the rate of c's country. A company
// whose country is unknown pays nothing.
func CarbonTax(c domain.Company, countries []domain.Country) float64 {
	return TotalEmissions(c) * RateFor(c.Country, countries)
}

// TreesForEmissions converts tons of CO2 into the number of trees needed to
// absorb it in a year, rounded to the nearest tree. Negative input counts as 0.
func TreesForEmissions(totalTons float64) int64 {
	if totalTons <= 0 || math.IsNaN(totalTons) {
		return 0
	}
	return round(totalTons / TreeAbsorptionTonsPerYear)
}
