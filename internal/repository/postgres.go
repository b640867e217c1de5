package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS countries (
	code            TEXT PRIMARY KEY,
	name            TEXT NOT NULL,
	carbon_tax_rate DOUBLE PRECISION NOT NULL CHECK (carbon_tax_rate >= 0)
);
CREATE TABLE IF NOT EXISTS companies (
	id      TEXT PRIMARY KEY,
	name    TEXT NOT NULL,
	country TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS emissions (
	company_id TEXT NOT NULL REFERENCES companies(id),
	ordinal    INT NOT NULL,
	year_month TEXT NOT NULL,
	source     TEXT NOT NULL,
	emissions  DOUBLE PRECISION NOT NULL CHECK (emissions >= 0),
	PRIMARY KEY (company_id, ordinal)
);
CREATE TABLE IF NOT EXISTS posts (
	id           TEXT PRIMARY KEY,
	title        TEXT NOT NULL,
	resource_uid TEXT NOT NULL,
	date_time    TEXT NOT NULL,
	content      TEXT NOT NULL DEFAULT ''
);`

// PostgresStore reads the dataset from Postgres through sqlx.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *PostgresStore { return &PostgresStore{db: db} }

// EnsureSchema creates the tables if they do not exist yet.
func (r *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Seed loads ds into empty tables. Tables that already hold rows are left alone.
func (r *PostgresStore) Seed(ctx context.Context, ds domain.Dataset) error {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM companies`); err != nil {
		return fmt.Errorf("count companies: %w", err)
	}
	if n > 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	for _, c := range ds.Countries {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO countries(code, name, carbon_tax_rate) VALUES (:code, :name, :carbon_tax_rate)
			 ON CONFLICT (code) DO NOTHING`, c); err != nil {
			return fmt.Errorf("seed country %s: %w", c.Code, err)
		}
	}
	for _, c := range ds.Companies {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO companies(id, name, country) VALUES (:id, :name, :country)`, c); err != nil {
			return fmt.Errorf("seed company %s: %w", c.ID, err)
		}
		for i, e := range c.Emissions {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO emissions(company_id, ordinal, year_month, source, emissions) VALUES ($1,$2,$3,$4,$5)`,
				c.ID, i, e.YearMonth, e.Source, e.Emissions); err != nil {
				return fmt.Errorf("seed emission %s/%d: %w", c.ID, i, err)
			}
		}
	}
	for _, p := range ds.Posts {
		if _, err := tx.NamedExecContext(ctx,
			`INSERT INTO posts(id, title, resource_uid, date_time, content)
			 VALUES (:id, :title, :resource_uid, :date_time, :content)`, p); err != nil {
			return fmt.Errorf("seed post %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

func (r *PostgresStore) ListCountries(ctx context.Context) ([]domain.Country, error) {
	out := []domain.Country{}
	err := r.db.SelectContext(ctx, &out, `SELECT code, name, carbon_tax_rate FROM countries ORDER BY code`)
	return out, err
}

func (r *PostgresStore) ListCompanies(ctx context.Context) ([]domain.Company, error) {
	out := []domain.Company{}
	if err := r.db.SelectContext(ctx, &out, `SELECT id, name, country FROM companies ORDER BY id`); err != nil {
		return nil, err
	}

	var rows []struct {
		CompanyID string `db:"company_id"`
		domain.GhgEmission
	}
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT company_id, year_month, source, emissions FROM emissions ORDER BY company_id, ordinal`); err != nil {
		return nil, err
	}

	idx := make(map[string]int, len(out))
	for i, c := range out {
		idx[c.ID] = i
	}
	for _, row := range rows {
		if i, ok := idx[row.CompanyID]; ok {
			out[i].Emissions = append(out[i].Emissions, row.GhgEmission)
		}
	}
	return out, nil
}

func (r *PostgresStore) ListPosts(ctx context.Context) ([]domain.Post, error) {
	out := []domain.Post{}
	err := r.db.SelectContext(ctx, &out, `SELECT id, title, resource_uid, date_time, content FROM posts ORDER BY id`)
	return out, err
}

func (r *PostgresStore) InsertPost(ctx context.Context, p domain.Post) error {
	if err := domain.Validate(p); err != nil {
		return err
	}
	_, err := r.db.NamedExecContext(ctx,
		`INSERT INTO posts(id, title, resource_uid, date_time, content)
		 VALUES (:id, :title, :resource_uid, :date_time, :content)`, p)
	return err
}

func (r *PostgresStore) UpdatePost(ctx context.Context, p domain.Post) error {
	if err := domain.Validate(p); err != nil {
		return err
	}
	res, err := r.db.NamedExecContext(ctx,
		`UPDATE posts SET title = :title, resource_uid = :resource_uid, date_time = :date_time, content = :content
		 WHERE id = :id`, p)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("post %q: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}
