package assets

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed blob persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert stores a new asset.
func (r *Repository) Insert(ctx context.Context, asset Asset) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO assets (key, mime, data, created_at)
		VALUES ($1, $2, $3, now())
	`, asset.Key, asset.Mime, asset.Data)
	return err
}

// Fetch loads an asset by key.
func (r *Repository) Fetch(ctx context.Context, key string) (*Asset, error) {
	var asset Asset
	err := r.pool.QueryRow(ctx, `
		SELECT key, mime, data, created_at FROM assets WHERE key = $1
	`, key).Scan(&asset.Key, &asset.Mime, &asset.Data, &asset.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &asset, nil
}

// Delete removes an asset by key.
func (r *Repository) Delete(ctx context.Context, key string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM assets WHERE key = $1`, key)
	return err
}
