package metrics

import (
	"sort"
	"strings"
	"time"

	"github.com/ANIKETSHETTY47/energy-grid-analytics-go/aggregator"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/domain"
)

// TrendWindow is how many of the most recent months a company trend spans.
const TrendWindow = 3

// MovingAverageWindow is the window of the fleet-wide monthly moving average.
const MovingAverageWindow = 3

// Snapshot is the single normalized structure every view renders from.
type Snapshot struct {
	TotalEmissions float64          `json:"totalEmissions"`
	TotalTax       float64          `json:"totalTax"`
	AverageTax     float64          `json:"averageTax"`
	CompanyCount   int              `json:"companyCount"`
	CountryCount   int              `json:"countryCount"`
	Companies      []CompanyMetrics `json:"companies"`
	TaxRanking     []TaxEntry       `json:"taxRanking"`
	Monthly        MonthlySeries    `json:"monthly"`
	Sources        []SourceShare    `json:"sources"`
	MonthOverMonth Change           `json:"monthOverMonth"`
	Offset         Offset           `json:"offset"`
}

type CompanyMetrics struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	CountryCode    string        `json:"countryCode"`
	CountryName    string        `json:"countryName"`
	CarbonTaxRate  float64       `json:"carbonTaxRate"`
	TotalEmissions float64       `json:"totalEmissions"`
	CarbonTax      float64       `json:"carbonTax"`
	Trees          int64         `json:"trees"`
	Trend          float64       `json:"trend"`
	TopSource      string        `json:"topSource,omitempty"`
	Monthly        []MonthTotal  `json:"monthly"`
	Sources        []SourceShare `json:"sources"`
}

type TaxEntry struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	CarbonTax float64 `json:"carbonTax"`
}

type MonthTotal struct {
	YearMonth string  `json:"yearMonth"`
	Emissions float64 `json:"emissions"`
}

type MonthlySeries struct {
	Points        []MonthTotal `json:"points"`
	Max           float64      `json:"max"`
	Average       float64      `json:"average"`
	MovingAverage []float64    `json:"movingAverage,omitempty"`
}

type SourceShare struct {
	Source    string  `json:"source"`
	Label     string  `json:"label"`
	Emissions float64 `json:"emissions"`
	Percent   float64 `json:"percent"`
}

// Change compares the two most recent months present in the data.
type Change struct {
	CurrentMonth  string  `json:"currentMonth,omitempty"`
	PreviousMonth string  `json:"previousMonth,omitempty"`
	Current       float64 `json:"current"`
	Previous      float64 `json:"previous"`
	Percent       float64 `json:"percent"`
	Increase      bool    `json:"increase"`
}

// Aggregate builds the dashboard snapshot from companies and countries.
func Aggregate(companies []domain.Company, countries []domain.Country) Snapshot {
	snap := Snapshot{
		CompanyCount: len(companies),
		Companies:    make([]CompanyMetrics, 0, len(companies)),
		TaxRanking:   make([]TaxEntry, 0, len(companies)),
	}

	codes := make(map[string]struct{})
	var all []domain.GhgEmission
	for _, c := range companies {
		cm := ForCompany(c, countries)
		snap.Companies = append(snap.Companies, cm)
		snap.TaxRanking = append(snap.TaxRanking, TaxEntry{ID: cm.ID, Name: cm.Name, CarbonTax: cm.CarbonTax})
		snap.TotalEmissions += cm.TotalEmissions
		snap.TotalTax += cm.CarbonTax
		codes[c.Country] = struct{}{}
		all = append(all, c.Emissions...)
	}
	snap.CountryCount = len(codes)
	if len(companies) > 0 {
		snap.AverageTax = snap.TotalTax / float64(len(companies))
	}

	sort.SliceStable(snap.Companies, func(i, j int) bool {
		a, b := snap.Companies[i], snap.Companies[j]
		if a.TotalEmissions != b.TotalEmissions {
			return a.TotalEmissions > b.TotalEmissions
		}
		return a.Name < b.Name
	})
	sort.SliceStable(snap.TaxRanking, func(i, j int) bool {
		a, b := snap.TaxRanking[i], snap.TaxRanking[j]
		if a.CarbonTax != b.CarbonTax {
			return a.CarbonTax > b.CarbonTax
		}
		return a.Name < b.Name
	})

	monthly := MonthlyTotals(all)
	snap.Monthly = seriesStats(monthly)
	snap.Sources = SourceTotals(all)
	snap.MonthOverMonth = MonthOverMonth(monthly)
	snap.Offset = OffsetFor(snap.TotalEmissions)
	return snap
}

// ForCompany computes the metrics of a single company.
func ForCompany(c domain.Company, countries []domain.Country) CompanyMetrics {
	total := TotalEmissions(c)
	cm := CompanyMetrics{
		ID:             c.ID,
		Name:           c.Name,
		CountryCode:    c.Country,
		CountryName:    c.Country,
		TotalEmissions: total,
		Trees:          TreesForEmissions(total),
		Monthly:        MonthlyTotals(c.Emissions),
		Sources:        SourceTotals(c.Emissions),
	}
	if country, ok := FindCountry(c.Country, countries); ok {
		cm.CountryName = country.Name
		cm.CarbonTaxRate = country.CarbonTaxRate
	}
	cm.CarbonTax = total * cm.CarbonTaxRate
	cm.Trend = Trend(cm.Monthly)
	if len(cm.Sources) > 0 {
		cm.TopSource = cm.Sources[0].Source
	}
	return cm
}

// MonthlyTotals groups records by year-month, sorted by month ascending.
func MonthlyTotals(records []domain.GhgEmission) []MonthTotal {
	byMonth := make(map[string]float64)
	for _, e := range records {
		byMonth[e.YearMonth] += e.Emissions
	}
	out := make([]MonthTotal, 0, len(byMonth))
	for m, v := range byMonth {
		out = append(out, MonthTotal{YearMonth: m, Emissions: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].YearMonth < out[j].YearMonth })
	return out
}

// SourceTotals groups records by source, largest first. Ties are ordered by
// source name so the result is stable.
func SourceTotals(records []domain.GhgEmission) []SourceShare {
	bySource := make(map[string]float64)
	total := 0.0
	for _, e := range records {
		bySource[e.Source] += e.Emissions
		total += e.Emissions
	}
	out := make([]SourceShare, 0, len(bySource))
	for src, v := range bySource {
		share := SourceShare{Source: src, Label: SourceLabel(src), Emissions: v}
		if total > 0 {
			share.Percent = v / total * 100
		}
		out = append(out, share)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Emissions != out[j].Emissions {
			return out[i].Emissions > out[j].Emissions
		}
		return out[i].Source < out[j].Source
	})
	return out
}

// Trend is the latest month's total minus the earliest month's total within
// the last TrendWindow months of monthly (sorted ascending). Fewer than two
// months yield 0.
func Trend(monthly []MonthTotal) float64 {
	if len(monthly) < 2 {
		return 0
	}
	recent := monthly
	if len(recent) > TrendWindow {
		recent = recent[len(recent)-TrendWindow:]
	}
	return recent[len(recent)-1].Emissions - recent[0].Emissions
}

// MonthOverMonth compares the last two entries of monthly (sorted ascending).
func MonthOverMonth(monthly []MonthTotal) Change {
	var ch Change
	n := len(monthly)
	if n == 0 {
		return ch
	}
	ch.CurrentMonth = monthly[n-1].YearMonth
	ch.Current = monthly[n-1].Emissions
	if n > 1 {
		ch.PreviousMonth = monthly[n-2].YearMonth
		ch.Previous = monthly[n-2].Emissions
	}
	if ch.Previous > 0 {
		ch.Percent = (ch.Current - ch.Previous) / ch.Previous * 100
	}
	ch.Increase = ch.Percent > 0
	return ch
}

func seriesStats(monthly []MonthTotal) MonthlySeries {
	s := MonthlySeries{Points: monthly}
	if len(monthly) == 0 {
		return s
	}

	points := make([]aggregator.Point, len(monthly))
	for i, m := range monthly {
		ts, _ := time.Parse("2006-01", m.YearMonth)
		points[i] = aggregator.Point{Value: m.Emissions, Timestamp: ts}
		if m.Emissions > s.Max {
			s.Max = m.Emissions
		}
	}
	s.Average = aggregator.Average(points)
	if len(points) >= MovingAverageWindow {
		s.MovingAverage = aggregator.MovingAverage(points, MovingAverageWindow)
	}
	return s
}

var sourceLabels = map[string]string{
	"gasoline":    "Gasoline",
	"diesel":      "Diesel",
	"natural_gas": "Natural Gas",
	"electricity": "Electricity",
	"lpg":         "LPG",
	"coal":        "Coal",
	"biomass":     "Biomass",
}

// SourceLabel returns the display label of an emission source. Unknown
// sources are title-cased with underscores turned into spaces.
func SourceLabel(source string) string {
	if l, ok := sourceLabels[source]; ok {
		return l
	}
	return cases.Title(language.English).String(strings.ReplaceAll(source, "_", " "))
}
