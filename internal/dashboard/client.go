package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/domain"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/metrics"
)

// Client talks to the carbon API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: %s", resp.Status)
	}
	return nil
}

func (c *Client) Companies(ctx context.Context) ([]domain.Company, error) {
	var out []domain.Company
	if err := c.getJSON(ctx, "/companies", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Countries(ctx context.Context) ([]domain.Country, error) {
	var out []domain.Country
	if err := c.getJSON(ctx, "/countries", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Snapshot fetches companies and countries concurrently and aggregates them.
// Either fetch failing fails the whole snapshot.
func (c *Client) Snapshot(ctx context.Context) (metrics.Snapshot, error) {
	var (
		companies []domain.Company
		countries []domain.Country
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		companies, err = c.Companies(gctx)
		return err
	})
	g.Go(func() (err error) {
		countries, err = c.Countries(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return metrics.Snapshot{}, err
	}
	return metrics.Aggregate(companies, countries), nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		if body.Error != "" {
			return fmt.Errorf("GET %s: %s: %s", path, resp.Status, body.Error)
		}
		return fmt.Errorf("GET %s: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
