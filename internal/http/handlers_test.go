package http

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/domain"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/metrics"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/repository"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/service"
)

func newApp(t *testing.T, sim service.Simulation) *fiber.App {
	t.Helper()
	store, err := repository.NewMemory(repository.SeedData())
	require.NoError(t, err)
	svcs := service.New(store, sim, service.WithRand(rand.New(rand.NewSource(1))))
	app := fiber.New()
	Register(app, svcs)
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	status, body := do(t, newApp(t, service.Simulation{}), "GET", "/health", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, "ok", string(body))
}

func TestListEndpoints(t *testing.T) {
	app := newApp(t, service.Simulation{})

	status, body := do(t, app, "GET", "/companies", "")
	require.Equal(t, 200, status)
	var companies []domain.Company
	require.NoError(t, json.Unmarshal(body, &companies))
	assert.Len(t, companies, 6)

	status, body = do(t, app, "GET", "/countries", "")
	require.Equal(t, 200, status)
	var countries []domain.Country
	require.NoError(t, json.Unmarshal(body, &countries))
	assert.NotEmpty(t, countries)

	status, body = do(t, app, "GET", "/posts", "")
	require.Equal(t, 200, status)
	var posts []domain.Post
	require.NoError(t, json.Unmarshal(body, &posts))
	assert.Len(t, posts, 3)
}

func TestCompanyByID(t *testing.T) {
	app := newApp(t, service.Simulation{})

	status, body := do(t, app, "GET", "/companies/c1", "")
	require.Equal(t, 200, status)
	var resp companyResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "c1", resp.Company.ID)
	assert.Equal(t, metrics.TotalEmissions(resp.Company), resp.Metrics.TotalEmissions)

	status, _ = do(t, app, "GET", "/companies/unknown", "")
	assert.Equal(t, 404, status)
}

func TestPosts(t *testing.T) {
	app := newApp(t, service.Simulation{})

	status, body := do(t, app, "POST", "/posts",
		`{"title":"Solar roof","resourceUid":"c2","dateTime":"2024-06","content":"phase one"}`)
	require.Equal(t, 201, status)
	var created domain.Post
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotEmpty(t, created.ID)

	status, body = do(t, app, "PUT", "/posts/"+created.ID,
		`{"title":"Solar roof","resourceUid":"c2","dateTime":"2024-07","content":"phase two"}`)
	require.Equal(t, 200, status)
	var updated domain.Post
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "2024-07", updated.DateTime)

	status, _ = do(t, app, "PUT", "/posts/missing", `{"title":"x","resourceUid":"c1","dateTime":"2024-01"}`)
	assert.Equal(t, 404, status)

	status, body = do(t, app, "POST", "/posts", `{"title":"x","resourceUid":"c1","dateTime":"2024-13"}`)
	assert.Equal(t, 400, status)
	assert.Contains(t, string(body), "error")

	status, _ = do(t, app, "POST", "/posts", `{not json`)
	assert.Equal(t, 400, status)
}

func TestMetricsEndpoints(t *testing.T) {
	app := newApp(t, service.Simulation{})

	status, body := do(t, app, "GET", "/metrics", "")
	require.Equal(t, 200, status)
	var snap metrics.Snapshot
	require.NoError(t, json.Unmarshal(body, &snap))
	assert.Equal(t, 6, snap.CompanyCount)

	status, body = do(t, app, "GET", "/metrics/trees?tons=24", "")
	require.Equal(t, 200, status)
	var off metrics.Offset
	require.NoError(t, json.Unmarshal(body, &off))
	assert.Equal(t, int64(1000), off.Trees)

	status, _ = do(t, app, "GET", "/metrics/trees?tons=abc", "")
	assert.Equal(t, 400, status)

	for _, q := range []string{"NaN", "nan", "Inf", "-Inf", "1e400"} {
		status, body = do(t, app, "GET", "/metrics/trees?tons="+q, "")
		assert.Equal(t, 400, status, q)
		assert.Contains(t, string(body), "tons must be a number", q)
	}

	status, body = do(t, app, "GET", "/metrics/trees?tons=1e300", "")
	require.Equal(t, 200, status)
	off = metrics.Offset{}
	require.NoError(t, json.Unmarshal(body, &off))
	assert.Equal(t, int64(math.MaxInt64), off.Trees)
	assert.Positive(t, off.Equivalencies.WaterGallons)
}

func TestCalculator(t *testing.T) {
	app := newApp(t, service.Simulation{})

	status, body := do(t, app, "POST", "/calculator",
		`{"countryCode":"DE","timeframe":"yearly","lines":[{"source":"electricity","amount":1000}]}`)
	require.Equal(t, 200, status)
	var res metrics.CalculatorResult
	require.NoError(t, json.Unmarshal(body, &res))
	assert.InDelta(t, 0.45*12, res.TotalEmissions, 1e-9)
	assert.InDelta(t, 0.45*12*45, res.TotalTax, 1e-9)

	status, _ = do(t, app, "POST", "/calculator", `{"countryCode":"XX","lines":[]}`)
	assert.Equal(t, 400, status)

	status, _ = do(t, app, "POST", "/calculator", `{"countryCode":"DE","timeframe":"weekly"}`)
	assert.Equal(t, 400, status)
}

func TestSimulatedFailureIsServiceUnavailable(t *testing.T) {
	app := newApp(t, service.Simulation{ReadFailureRate: 1, WriteFailureRate: 1})

	for _, path := range []string{"/companies", "/countries", "/posts", "/metrics", "/companies/c1"} {
		status, body := do(t, app, "GET", path, "")
		assert.Equal(t, 503, status, path)
		assert.Contains(t, string(body), service.ErrSimulatedFailure.Error(), path)
	}

	status, _ := do(t, app, "POST", "/posts", `{"title":"x","resourceUid":"c1","dateTime":"2024-01"}`)
	assert.Equal(t, 503, status)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrap: %w", domain.ErrInvalid), 400},
		{metrics.ErrUnknownCountry, 400},
		{metrics.ErrInvalidTimeframe, 400},
		{fmt.Errorf("wrap: %w", domain.ErrNotFound), 404},
		{fmt.Errorf("fetch: %w", service.ErrSimulatedFailure), 503},
		{io.ErrUnexpectedEOF, 500},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
