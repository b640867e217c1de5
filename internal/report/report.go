package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ANIKETSHETTY47/energy-grid-analytics-go/anomaly"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/metrics"
)

// Thresholds for recommendations.
const (
	RisingTrendPercent = 5.0
	DominantSourcePct  = 40.0

	// Monthly totals further than AnomalyThreshold standard deviations from
	// their AnomalyWindow-month neighbourhood are reported as outliers.
	AnomalyThreshold = 2.0
	AnomalyWindow    = 3
)

type Recommendation struct {
	Priority string `json:"priority"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

type Report struct {
	Title           string             `json:"title"`
	GeneratedAt     time.Time          `json:"generatedAt"`
	Summary         map[string]string  `json:"summary"`
	Snapshot        metrics.Snapshot   `json:"snapshot"`
	OverThreshold   []metrics.TaxEntry `json:"overThreshold"`
	Recommendations []Recommendation   `json:"recommendations"`
}

// Build turns a snapshot into a report. Companies whose carbon tax exceeds
// taxThreshold are listed in OverThreshold; a threshold <= 0 disables that.
func Build(snap metrics.Snapshot, taxThreshold float64, now time.Time) Report {
	r := Report{
		Title:       "Carbon Emissions Report",
		GeneratedAt: now.UTC(),
		Snapshot:    snap,
		Summary: map[string]string{
			"total_emissions":  metrics.FormatTons(snap.TotalEmissions),
			"total_tax":        metrics.FormatCurrency(snap.TotalTax),
			"average_tax":      metrics.FormatCurrency(snap.AverageTax),
			"companies":        metrics.FormatNumber(int64(snap.CompanyCount)),
			"countries":        metrics.FormatNumber(int64(snap.CountryCount)),
			"trees_to_offset":  metrics.FormatNumber(snap.Offset.Trees),
			"month_over_month": metrics.FormatPercent(snap.MonthOverMonth.Percent),
		},
		OverThreshold: []metrics.TaxEntry{},
	}
	if taxThreshold > 0 {
		for _, t := range snap.TaxRanking {
			if t.CarbonTax > taxThreshold {
				r.OverThreshold = append(r.OverThreshold, t)
			}
		}
	}
	r.Recommendations = recommendations(snap, r.OverThreshold, taxThreshold)
	return r
}

func recommendations(snap metrics.Snapshot, over []metrics.TaxEntry, threshold float64) []Recommendation {
	recs := []Recommendation{}

	if mom := snap.MonthOverMonth; mom.Percent > RisingTrendPercent {
		recs = append(recs, Recommendation{
			Priority: "high",
			Category: "trend",
			Message: fmt.Sprintf("Emissions rose %s from %s to %s. Review the largest sources first.",
				metrics.FormatPercent(mom.Percent), mom.PreviousMonth, mom.CurrentMonth),
		})
	}

	if len(over) > 0 {
		names := make([]string, len(over))
		for i, t := range over {
			names[i] = t.Name
		}
		recs = append(recs, Recommendation{
			Priority: "medium",
			Category: "tax",
			Message: fmt.Sprintf("%d companies exceed the %s carbon tax threshold: %s.",
				len(over), metrics.FormatCurrency(threshold), strings.Join(names, ", ")),
		})
	}

	if len(snap.Sources) > 0 && snap.Sources[0].Percent > DominantSourcePct {
		top := snap.Sources[0]
		recs = append(recs, Recommendation{
			Priority: "medium",
			Category: "source",
			Message: fmt.Sprintf("%s accounts for %s of all emissions. Diversifying away from it has the largest effect.",
				top.Label, metrics.FormatFloat(top.Percent, 1)+"%"),
		})
	}

	detector := &anomaly.AnomalyDetector{Threshold: AnomalyThreshold, WindowSize: AnomalyWindow}
	for _, c := range snap.Companies {
		if len(c.Monthly) <= AnomalyWindow {
			continue
		}
		readings := make([]anomaly.Reading, len(c.Monthly))
		for i, m := range c.Monthly {
			readings[i] = anomaly.Reading{Consumption: m.Emissions}
		}
		if n := len(detector.DetectOutliers(readings)); n > 0 {
			recs = append(recs, Recommendation{
				Priority: "medium",
				Category: "anomaly",
				Message:  fmt.Sprintf("%s has %d month(s) with unusual emissions. Check those records for errors or one-off events.", c.Name, n),
			})
		}
	}

	for _, c := range snap.Companies {
		if c.CarbonTaxRate == 0 && c.TotalEmissions > 0 {
			recs = append(recs, Recommendation{
				Priority: "low",
				Category: "pricing",
				Message:  fmt.Sprintf("%s (%s) emits %s without a carbon price.", c.Name, c.CountryName, metrics.FormatTons(c.TotalEmissions)),
			})
		}
	}
	return recs
}

type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type Reader interface {
	List(ctx context.Context, prefix string) ([]string, error)
	Download(ctx context.Context, key string) ([]byte, error)
}

type Notifier interface {
	Notify(ctx context.Context, subject, message string) error
}

// Archiver uploads reports and alerts on companies over the tax threshold.
// Either dependency may be nil.
type Archiver struct {
	uploader Uploader
	notifier Notifier
	prefix   string
}

// KeyPrefix is the folder archived reports live under.
const KeyPrefix = "reports"

const keySuffix = "-carbon-report.json"

var ErrNoReports = errors.New("no archived reports")

func NewArchiver(u Uploader, n Notifier) *Archiver {
	return &Archiver{uploader: u, notifier: n, prefix: KeyPrefix}
}

// Key is the object key a report is stored under.
func (a *Archiver) Key(r Report) string {
	return fmt.Sprintf("%s/%s%s", a.prefix, r.GeneratedAt.UTC().Format("2006-01-02T150405Z"), keySuffix)
}

// Archive uploads r as JSON and returns its URL. An empty URL means no
// uploader is configured. Alert failures are logged, not returned.
func (a *Archiver) Archive(ctx context.Context, r Report) (string, error) {
	var url string
	if a.uploader != nil {
		body, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal report: %w", err)
		}
		url, err = a.uploader.Upload(ctx, a.Key(r), body, "application/json")
		if err != nil {
			return "", err
		}
		log.Info().Str("key", a.Key(r)).Msg("report archived")
	}

	if a.notifier != nil && len(r.OverThreshold) > 0 {
		if err := a.notifier.Notify(ctx, alertSubject(r), alertMessage(r, url)); err != nil {
			log.Error().Err(err).Msg("tax alert failed")
		}
	}
	return url, nil
}

// History reads archived reports back.
type History struct {
	reader Reader
	prefix string
}

func NewHistory(r Reader) *History {
	return &History{reader: r, prefix: KeyPrefix}
}

// List returns the keys of archived reports, newest first. Other objects
// under the prefix are skipped.
func (h *History) List(ctx context.Context) ([]string, error) {
	keys, err := h.reader.List(ctx, h.prefix+"/")
	if err != nil {
		return nil, err
	}
	out := keys[:0]
	for _, k := range keys {
		if strings.HasSuffix(k, keySuffix) {
			out = append(out, k)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}

// Fetch downloads and decodes one report. A key without the prefix is
// looked up under it; "latest" fetches the newest report.
func (h *History) Fetch(ctx context.Context, key string) (Report, error) {
	if key == "latest" {
		keys, err := h.List(ctx)
		if err != nil {
			return Report{}, err
		}
		if len(keys) == 0 {
			return Report{}, ErrNoReports
		}
		key = keys[0]
	} else if !strings.HasPrefix(key, h.prefix+"/") {
		key = h.prefix + "/" + key
	}

	body, err := h.reader.Download(ctx, key)
	if err != nil {
		return Report{}, err
	}
	var r Report
	if err := json.Unmarshal(body, &r); err != nil {
		return Report{}, fmt.Errorf("decode report %s: %w", key, err)
	}
	return r, nil
}

func alertSubject(r Report) string {
	return fmt.Sprintf("Carbon tax alert: %d companies over threshold", len(r.OverThreshold))
}

func alertMessage(r Report, url string) string {
	var b strings.Builder
	b.WriteString("Companies over the carbon tax threshold:\n\n")
	for i, t := range r.OverThreshold {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, t.Name, metrics.FormatCurrency(t.CarbonTax))
	}
	if url != "" {
		fmt.Fprintf(&b, "\nFull report: %s\n", url)
	}
	return b.String()
}
