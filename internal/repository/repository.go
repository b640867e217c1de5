package repository

import (
	"context"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/domain"
)

// Store is the data store behind the access layer. Implementations return
// copies; callers may modify what they get back without affecting the store.
type Store interface {
	ListCountries(ctx context.Context) ([]domain.Country, error)
	ListCompanies(ctx context.Context) ([]domain.Company, error)
	ListPosts(ctx context.Context) ([]domain.Post, error)
	InsertPost(ctx context.Context, p domain.Post) error
	// UpdatePost replaces the post with the same ID. It returns
	// domain.ErrNotFound when no such post exists.
	UpdatePost(ctx context.Context, p domain.Post) error
}
