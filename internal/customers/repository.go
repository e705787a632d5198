package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for customers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Get loads one customer by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx, `
		SELECT id, number, name, street, postal_code, city, COALESCE(email, ''), created_at, updated_at
		FROM customers WHERE id = $1
	`, id).Scan(&c.ID, &c.Number, &c.Name, &c.Street, &c.PostalCode, &c.City, &c.Email, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all customers ordered by number.
func (r *Repository) List(ctx context.Context) ([]Customer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, number, name, street, postal_code, city, COALESCE(email, ''), created_at, updated_at
		FROM customers ORDER BY number
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Number, &c.Name, &c.Street, &c.PostalCode, &c.City, &c.Email, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Create inserts a customer, allocating the next customer number.
func (r *Repository) Create(ctx context.Context, c Customer) (*Customer, error) {
	var seq int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO customer_sequences (id, seq) VALUES (1, 1)
		ON CONFLICT (id) DO UPDATE SET seq = customer_sequences.seq + 1
		RETURNING seq
	`).Scan(&seq)
	if err != nil {
		return nil, fmt.Errorf("customers: next number: %w", err)
	}
	c.Number = fmt.Sprintf("K-%04d", seq)

	err = r.pool.QueryRow(ctx, `
		INSERT INTO customers (number, name, street, postal_code, city, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), now(), now())
		RETURNING id, created_at, updated_at
	`, c.Number, c.Name, c.Street, c.PostalCode, c.City, c.Email).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("customers: insert: %w", err)
	}
	return &c, nil
}

// Update rewrites the mutable fields of a customer.
func (r *Repository) Update(ctx context.Context, c Customer) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE customers
		SET name = $2, street = $3, postal_code = $4, city = $5, email = NULLIF($6, ''), updated_at = now()
		WHERE id = $1
	`, c.ID, c.Name, c.Street, c.PostalCode, c.City, c.Email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
