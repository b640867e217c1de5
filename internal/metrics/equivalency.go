package metrics

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidTons = errors.New("tons must be a number")

// Rough per-ton and per-tree conversion factors used by the offset view.
const (
	MilesPerTon            = 2204
	FlightHoursPerTon      = 2.3
	HomeEnergyMonthsPerTon = 1.2
	PoundsPerTon           = 1000 // as displayed by the offset view
	OxygenLbsPerTree       = 260
	PollutantLbsPerTree    = 27
	WaterGallonsPerTree    = 10
	TreesPerAcre           = 400
)

type Equivalencies struct {
	MilesDriven      int64 `json:"milesDriven"`
	FlightHours      int64 `json:"flightHours"`
	HomeEnergyMonths int64 `json:"homeEnergyMonths"`
	CO2AbsorbedLbs   int64 `json:"co2AbsorbedLbs"`
	OxygenLbs        int64 `json:"oxygenLbs"`
	AirPollutantsLbs int64 `json:"airPollutantsLbs"`
	WaterGallons     int64 `json:"waterGallons"`
}

// Offset describes what it takes to absorb a quantity of CO2.
type Offset struct {
	Tons          float64       `json:"tons"`
	Trees         int64         `json:"trees"`
	ForestAcres   int64         `json:"forestAcres"`
	Equivalencies Equivalencies `json:"equivalencies"`
}

// ParseTons parses a user supplied tonnage. NaN and infinities are rejected.
func ParseTons(s string) (float64, error) {
	tons, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(tons) || math.IsInf(tons, 0) {
		return 0, ErrInvalidTons
	}
	return tons, nil
}

func OffsetFor(tons float64) Offset {
	if tons < 0 {
		tons = 0
	}
	trees := TreesForEmissions(tons)
	return Offset{
		Tons:        tons,
		Trees:       trees,
		ForestAcres: round(float64(trees) / TreesPerAcre),
		Equivalencies: Equivalencies{
			MilesDriven:      round(tons * MilesPerTon),
			FlightHours:      round(tons * FlightHoursPerTon),
			HomeEnergyMonths: round(tons * HomeEnergyMonthsPerTon),
			CO2AbsorbedLbs:   round(tons * PoundsPerTon),
			OxygenLbs:        round(float64(trees) * OxygenLbsPerTree),
			AirPollutantsLbs: round(float64(trees) * PollutantLbsPerTree),
			WaterGallons:     round(float64(trees) * WaterGallonsPerTree),
		},
	}
}

// round rounds to the nearest integer, saturating at the int64 range.
func round(f float64) int64 {
	r := math.Round(f)
	switch {
	case math.IsNaN(r):
		return 0
	case r >= math.MaxInt64:
		return math.MaxInt64
	case r <= math.MinInt64:
		return math.MinInt64
	}
	return int64(r)
}
