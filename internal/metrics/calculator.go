package metrics

import (
	"errors"
	"fmt"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/domain"
)

var (
	ErrUnknownCountry   = errors.New("unknown country")
	ErrInvalidTimeframe = errors.New("invalid timeframe")
)

type Timeframe string

const (
	Monthly Timeframe = "monthly"
	Yearly  Timeframe = "yearly"
)

// EmissionFactor is the CO2 released per unit of fuel or energy consumed.
type EmissionFactor struct {
	KgPerUnit float64 `json:"kgPerUnit"`
	Unit      string  `json:"unit"`
}

var EmissionFactors = map[string]EmissionFactor{
	"gasoline":    {KgPerUnit: 2.31, Unit: "liter"},
	"diesel":      {KgPerUnit: 2.68, Unit: "liter"},
	"natural_gas": {KgPerUnit: 1.93, Unit: "m3"},
	"electricity": {KgPerUnit: 0.45, Unit: "kWh"},
	"lpg":         {KgPerUnit: 1.51, Unit: "liter"},
	"coal":        {KgPerUnit: 2.42, Unit: "kg"},
	"biomass":     {KgPerUnit: 0.39, Unit: "kg"},
}

type ActivityLine struct {
	Source string  `json:"source"`
	Amount float64 `json:"amount"`
}

type CalculatorInput struct {
	CountryCode string         `json:"countryCode"`
	Timeframe   Timeframe      `json:"timeframe"`
	Lines       []ActivityLine `json:"lines"`
}

type CalculatorLine struct {
	Source    string  `json:"source"`
	Label     string  `json:"label"`
	Unit      string  `json:"unit"`
	Amount    float64 `json:"amount"`
	Emissions float64 `json:"emissions"`
	Tax       float64 `json:"tax"`
}

type CalculatorResult struct {
	CountryCode    string           `json:"countryCode"`
	CarbonTaxRate  float64          `json:"carbonTaxRate"`
	Timeframe      Timeframe        `json:"timeframe"`
	TotalEmissions float64          `json:"totalEmissions"`
	TotalTax       float64          `json:"totalTax"`
	Trees          int64            `json:"trees"`
	Breakdown      []CalculatorLine `json:"breakdown"`
}

// Calculate estimates emissions (tons) and carbon tax from raw activity
// amounts. Lines without a source or with a non-positive amount are skipped;
// sources without a known factor are listed with zero emissions.
func Calculate(in CalculatorInput, countries []domain.Country) (CalculatorResult, error) {
	country, ok := FindCountry(in.CountryCode, countries)
	if !ok {
		return CalculatorResult{}, fmt.Errorf("%w: %q", ErrUnknownCountry, in.CountryCode)
	}

	tf := in.Timeframe
	if tf == "" {
		tf = Monthly
	}
	var multiplier float64
	switch tf {
	case Monthly:
		multiplier = 1
	case Yearly:
		multiplier = 12
	default:
		return CalculatorResult{}, fmt.Errorf("%w: %q", ErrInvalidTimeframe, in.Timeframe)
	}

	res := CalculatorResult{
		CountryCode:   country.Code,
		CarbonTaxRate: country.CarbonTaxRate,
		Timeframe:     tf,
		Breakdown:     []CalculatorLine{},
	}
	for _, l := range in.Lines {
		if l.Source == "" || l.Amount <= 0 {
			continue
		}
		line := CalculatorLine{Source: l.Source, Label: SourceLabel(l.Source), Amount: l.Amount}
		if f, ok := EmissionFactors[l.Source]; ok {
			line.Unit = f.Unit
			line.Emissions = l.Amount * f.KgPerUnit / 1000 * multiplier
			line.Tax = line.Emissions * country.CarbonTaxRate
		}
		res.TotalEmissions += line.Emissions
		res.TotalTax += line.Tax
		res.Breakdown = append(res.Breakdown, line)
	}
	res.Trees = TreesForEmissions(res.TotalEmissions)
	return res, nil
}
