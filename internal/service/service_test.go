package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/domain"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/events"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/metrics"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/repository"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.PostEvent
	err    error
}

func (p *recordingPublisher) PublishPost(_ context.Context, ev events.PostEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return p.err
}

func newTestServices(t *testing.T, sim Simulation, opts ...Option) *Services {
	t.Helper()
	store, err := repository.NewMemory(repository.SeedData())
	require.NoError(t, err)
	opts = append([]Option{WithRand(rand.New(rand.NewSource(1)))}, opts...)
	return New(store, sim, opts...)
}

func TestFetchWithoutSimulatedFailure(t *testing.T) {
	svcs := newTestServices(t, Simulation{})
	ctx := context.Background()

	countries, err := svcs.Access.FetchCountries(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, countries)

	companies, err := svcs.Access.FetchCompanies(ctx)
	require.NoError(t, err)
	assert.Len(t, companies, 6)

	posts, err := svcs.Access.FetchPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestSimulatedFailure(t *testing.T) {
	svcs := newTestServices(t, Simulation{ReadFailureRate: 1, WriteFailureRate: 1})
	ctx := context.Background()

	_, err := svcs.Access.FetchCompanies(ctx)
	assert.ErrorIs(t, err, ErrSimulatedFailure)
	_, err = svcs.Access.FetchCountries(ctx)
	assert.ErrorIs(t, err, ErrSimulatedFailure)
	_, err = svcs.Access.FetchPosts(ctx)
	assert.ErrorIs(t, err, ErrSimulatedFailure)

	_, err = svcs.Access.CreateOrUpdatePost(ctx, domain.Post{Title: "t", ResourceUID: "c1", DateTime: "2024-01"})
	assert.ErrorIs(t, err, ErrSimulatedFailure)

	// a failed write must not leave anything behind
	svcs.Access.sim = Simulation{}
	posts, err := svcs.Access.FetchPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
}

func TestFailureRateIsApproximatelyHonoured(t *testing.T) {
	svcs := newTestServices(t, Simulation{ReadFailureRate: 0.15})
	ctx := context.Background()

	failures := 0
	const n = 2000
	for i := 0; i < n; i++ {
		if _, err := svcs.Access.FetchCountries(ctx); errors.Is(err, ErrSimulatedFailure) {
			failures++
		}
	}
	rate := float64(failures) / n
	assert.InDelta(t, 0.15, rate, 0.05)
}

func TestSimulatedDelayHonoursCancellation(t *testing.T) {
	svcs := newTestServices(t, Simulation{MinDelay: time.Hour})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := svcs.Access.FetchCompanies(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Minute)
}

func TestCreateOrUpdatePost(t *testing.T) {
	pub := &recordingPublisher{}
	fixed := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	svcs := newTestServices(t, Simulation{},
		WithPublisher(pub),
		WithIDGenerator(func() string { return "generated" }),
		WithClock(func() time.Time { return fixed }),
	)
	ctx := context.Background()

	created, err := svcs.Access.CreateOrUpdatePost(ctx, domain.Post{
		Title: "New report", ResourceUID: "c2", DateTime: "2024-06", Content: "draft",
	})
	require.NoError(t, err)
	assert.Equal(t, "generated", created.ID)

	created.Content = "final"
	updated, err := svcs.Access.CreateOrUpdatePost(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Content)

	posts, err := svcs.Access.FetchPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, posts, 4)

	_, err = svcs.Access.CreateOrUpdatePost(ctx, domain.Post{ID: "nope", Title: "x", ResourceUID: "c1", DateTime: "2024-01"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svcs.Access.CreateOrUpdatePost(ctx, domain.Post{Title: "", ResourceUID: "c1", DateTime: "2024-01"})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	require.Len(t, pub.events, 2)
	assert.Equal(t, events.PostCreated, pub.events[0].Type)
	assert.Equal(t, events.PostUpdated, pub.events[1].Type)
	assert.Equal(t, fixed, pub.events[1].Timestamp)
}

func TestPublishFailureDoesNotFailSave(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svcs := newTestServices(t, Simulation{}, WithPublisher(pub))

	_, err := svcs.Access.CreateOrUpdatePost(context.Background(),
		domain.Post{Title: "t", ResourceUID: "c1", DateTime: "2024-01"})
	assert.NoError(t, err)
}

func TestMetricsService(t *testing.T) {
	svcs := newTestServices(t, Simulation{})
	ctx := context.Background()

	snap, err := svcs.Metrics.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, snap.CompanyCount)
	assert.Greater(t, snap.TotalEmissions, 0.0)

	c, cm, err := svcs.Metrics.Company(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Hanbit Steel", c.Name)
	assert.Equal(t, metrics.TotalEmissions(c), cm.TotalEmissions)
	assert.Equal(t, "South Korea", cm.CountryName)

	_, _, err = svcs.Metrics.Company(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	res, err := svcs.Metrics.Calculate(ctx, metrics.CalculatorInput{
		CountryCode: "KR",
		Lines:       []metrics.ActivityLine{{Source: "coal", Amount: 1000}},
	})
	require.NoError(t, err)
	assert.InDelta(t, 2.42*25, res.TotalTax, 1e-9)
}

func TestMetricsServiceFailure(t *testing.T) {
	svcs := newTestServices(t, Simulation{ReadFailureRate: 1})
	_, err := svcs.Metrics.Snapshot(context.Background())
	assert.ErrorIs(t, err, ErrSimulatedFailure)
}
