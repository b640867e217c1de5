package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/database"
)

// Open returns the store named by driver ("memory" or "postgres") along with
// a function releasing its resources. The postgres store gets its schema
// created and is seeded with SeedData when empty.
func Open(ctx context.Context, driver, dsn string) (Store, func() error, error) {
	switch driver {
	case "", "memory":
		store, err := NewMemory(SeedData())
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("driver", "memory").Msg("store ready")
		return store, func() error { return nil }, nil

	case "postgres":
		db, err := database.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("db connect: %w", err)
		}
		store := NewPostgres(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		if err := store.Seed(ctx, SeedData()); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Info().Str("driver", "postgres").Msg("store ready")
		return store, db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
