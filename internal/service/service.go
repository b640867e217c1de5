package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/domain"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/events"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/repository"
)

// ErrSimulatedFailure is returned when the access layer fakes a network error.
var ErrSimulatedFailure = errors.New("simulated network failure")

// Simulation controls the artificial latency and failure of every call.
type Simulation struct {
	MinDelay         time.Duration
	Jitter           time.Duration
	ReadFailureRate  float64
	WriteFailureRate float64
}

type Services struct {
	Access  *Access
	Metrics *MetricsService
}

func New(store repository.Store, sim Simulation, opts ...Option) *Services {
	access := NewAccess(store, sim, opts...)
	return &Services{
		Access:  access,
		Metrics: &MetricsService{access: access},
	}
}

// Access is the only way presentation code reaches the store.
type Access struct {
	store  repository.Store
	sim    Simulation
	events events.Publisher
	newID  func() string
	now    func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

type Option func(*Access)

func WithRand(r *rand.Rand) Option { return func(a *Access) { a.rng = r } }
func WithPublisher(p events.Publisher) Option { return func(a *Access) { a.events = p } }
func WithIDGenerator(f func() string) Option { return func(a *Access) { a.newID = f } }
func WithClock(f func() time.Time) Option { return func(a *Access) { a.now = f } }

func NewAccess(store repository.Store, sim Simulation, opts ...Option) *Access {
	a := &Access{
		store:  store,
		sim:    sim,
		events: events.Nop{},
		newID:  uuid.NewString,
		now:    time.Now,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

func (a *Access) FetchCountries(ctx context.Context) ([]domain.Country, error) {
	if err := a.simulate(ctx, a.sim.ReadFailureRate); err != nil {
		return nil, fmt.Errorf("fetch countries: %w", err)
	}
	return a.store.ListCountries(ctx)
}

func (a *Access) FetchCompanies(ctx context.Context) ([]domain.Company, error) {
	if err := a.simulate(ctx, a.sim.ReadFailureRate); err != nil {
		return nil, fmt.Errorf("fetch companies: %w", err)
	}
	return a.store.ListCompanies(ctx)
}

func (a *Access) FetchPosts(ctx context.Context) ([]domain.Post, error) {
	if err := a.simulate(ctx, a.sim.ReadFailureRate); err != nil {
		return nil, fmt.Errorf("fetch posts: %w", err)
	}
	return a.store.ListPosts(ctx)
}

// CreateOrUpdatePost stores p. Without an ID a new post is created with a
// fresh ID; with an ID the existing post is replaced (domain.ErrNotFound if
// there is none).
func (a *Access) CreateOrUpdatePost(ctx context.Context, p domain.Post) (domain.Post, error) {
	if err := a.simulate(ctx, a.sim.WriteFailureRate); err != nil {
		return domain.Post{}, fmt.Errorf("save post: %w", err)
	}

	evType := events.PostUpdated
	if p.ID == "" {
		p.ID = a.newID()
		evType = events.PostCreated
		if err := a.store.InsertPost(ctx, p); err != nil {
			return domain.Post{}, fmt.Errorf("save post: %w", err)
		}
	} else if err := a.store.UpdatePost(ctx, p); err != nil {
		return domain.Post{}, fmt.Errorf("save post: %w", err)
	}

	if err := a.events.PublishPost(ctx, events.PostEvent{Type: evType, Post: p, Timestamp: a.now()}); err != nil {
		log.Warn().Err(err).Str("post_id", p.ID).Msg("publish post event failed")
	}
	return p, nil
}

func (a *Access) simulate(ctx context.Context, failureRate float64) error {
	delay := a.sim.MinDelay
	if a.sim.Jitter > 0 {
		delay += time.Duration(a.float() * float64(a.sim.Jitter))
	}
	if delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return err
	}

	if failureRate > 0 && a.float() < failureRate {
		return ErrSimulatedFailure
	}
	return nil
}

func (a *Access) float() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rng.Float64()
}
