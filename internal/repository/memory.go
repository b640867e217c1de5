package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/domain"
)

// MemoryStore keeps the dataset in process memory.
type MemoryStore struct {
	mu        sync.RWMutex
	countries []domain.Country
	companies []domain.Company
	posts     []domain.Post
}

// NewMemory validates ds and returns a store holding a private copy of it.
func NewMemory(ds domain.Dataset) (*MemoryStore, error) {
	for _, c := range ds.Countries {
		if err := domain.Validate(c); err != nil {
			return nil, fmt.Errorf("country %q: %w", c.Code, err)
		}
	}
	for _, c := range ds.Companies {
		if err := domain.Validate(c); err != nil {
			return nil, fmt.Errorf("company %q: %w", c.ID, err)
		}
	}
	for _, p := range ds.Posts {
		if err := domain.Validate(p); err != nil {
			return nil, fmt.Errorf("post %q: %w", p.ID, err)
		}
	}

	s := &MemoryStore{
		countries: append([]domain.Country(nil), ds.Countries...),
		companies: cloneCompanies(ds.Companies),
		posts:     append([]domain.Post(nil), ds.Posts...),
	}
	return s, nil
}

func (s *MemoryStore) ListCountries(_ context.Context) ([]domain.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Country{}, s.countries...), nil
}

func (s *MemoryStore) ListCompanies(_ context.Context) ([]domain.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCompanies(s.companies), nil
}

func (s *MemoryStore) ListPosts(_ context.Context) ([]domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Post{}, s.posts...), nil
}

func (s *MemoryStore) InsertPost(_ context.Context, p domain.Post) error {
	if err := domain.Validate(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.posts {
		if existing.ID == p.ID {
			return fmt.Errorf("%w: duplicate post id %q", domain.ErrInvalid, p.ID)
		}
	}
	s.posts = append(s.posts, p)
	return nil
}

func (s *MemoryStore) UpdatePost(_ context.Context, p domain.Post) error {
	if err := domain.Validate(p); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.posts {
		if s.posts[i].ID == p.ID {
			s.posts[i] = p
			return nil
		}
	}
	return fmt.Errorf("post %q: %w", p.ID, domain.ErrNotFound)
}

func cloneCompanies(in []domain.Company) []domain.Company {
	out := make([]domain.Company, len(in))
	for i, c := range in {
		out[i] = c.Clone()
	}
	return out
}
