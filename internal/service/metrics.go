package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/domain"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/metrics"
)

// MetricsService fetches both collections through the access layer and
// derives metrics from them.
type MetricsService struct {
	access *Access
}

// Load fetches companies and countries concurrently.
func (s *MetricsService) Load(ctx context.Context) ([]domain.Company, []domain.Country, error) {
	var (
		companies []domain.Company
		countries []domain.Country
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		companies, err = s.access.FetchCompanies(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		countries, err = s.access.FetchCountries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return companies, countries, nil
}

func (s *MetricsService) Snapshot(ctx context.Context) (metrics.Snapshot, error) {
	companies, countries, err := s.Load(ctx)
	if err != nil {
		return metrics.Snapshot{}, err
	}
	return metrics.Aggregate(companies, countries), nil
}

// Company returns one company along with its metrics.
func (s *MetricsService) Company(ctx context.Context, id string) (domain.Company, metrics.CompanyMetrics, error) {
	companies, countries, err := s.Load(ctx)
	if err != nil {
		return domain.Company{}, metrics.CompanyMetrics{}, err
	}
	for _, c := range companies {
		if c.ID == id {
			return c, metrics.ForCompany(c, countries), nil
		}
	}
	return domain.Company{}, metrics.CompanyMetrics{}, fmt.Errorf("company %q: %w", id, domain.ErrNotFound)
}

func (s *MetricsService) Calculate(ctx context.Context, in metrics.CalculatorInput) (metrics.CalculatorResult, error) {
	countries, err := s.access.FetchCountries(ctx)
	if err != nil {
		return metrics.CalculatorResult{}, err
	}
	return metrics.Calculate(in, countries)
}
