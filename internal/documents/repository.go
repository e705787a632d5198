package documents

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/belegwerk/belegwerk/internal/platform/db"
)

// Repository defines data access for documents.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Document, error)
	List(ctx context.Context, req ListDocumentsRequest) ([]Document, error)
	Create(ctx context.Context, doc Document) (int64, error)
	SetNumber(ctx context.Context, id int64, number string, seq int64) error
	SetRendered(ctx context.Context, id int64, totals Totals, assetKey string) error
	SetStatus(ctx context.Context, id int64, status Status) error
	GenerateNumber(ctx context.Context, profileID int64, kind Kind) (int64, error)
}

type dbtx interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

type repository struct {
	db   dbtx
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL backed repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{db: tx, pool: r.pool})
	})
}

const documentColumns = `
	id, kind, status, profile_id, customer_id, number, sequence_no,
	issue_date, due_date, tax_rate, COALESCE(intro, ''),
	discount_enabled, COALESCE(discount_label, ''), COALESCE(discount_kind, ''),
	COALESCE(discount_base, ''), discount_value,
	net_subtotal, discount_amount, net_after_discount, tax_amount, gross_total,
	parent_id, parent_number, asset_key, created_at, updated_at`

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.Kind, &d.Status, &d.ProfileID, &d.CustomerID, &d.Number, &d.SequenceNo,
		&d.IssueDate, &d.DueDate, &d.TaxRate, &d.Intro,
		&d.Discount.Enabled, &d.Discount.Label, &d.Discount.Kind,
		&d.Discount.Base, &d.Discount.Value,
		&d.Totals.NetSubtotal, &d.Totals.DiscountAmount, &d.Totals.NetAfterDiscount,
		&d.Totals.TaxAmount, &d.Totals.GrossTotal,
		&d.ParentID, &d.ParentNumber, &d.AssetKey, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Document, error) {
	doc, err := scanDocument(r.db.QueryRow(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, document_id, kind, COALESCE(description, ''), quantity, unit_price, COALESCE(unit, ''), line_order
		FROM document_positions WHERE document_id = $1 ORDER BY line_order
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.Kind, &p.Description, &p.Quantity, &p.UnitPrice, &p.Unit, &p.LineOrder); err != nil {
			return nil, err
		}
		doc.Positions = append(doc.Positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *repository) List(ctx context.Context, req ListDocumentsRequest) ([]Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE 1=1`
	args := []interface{}{}
	if req.Kind != nil {
		args = append(args, *req.Kind)
		query += fmt.Sprintf(" AND kind = $%d", len(args))
	}
	if req.CustomerID != nil {
		args = append(args, *req.CustomerID)
		query += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"
	if req.Limit > 0 {
		args = append(args, req.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if req.Offset > 0 {
		args = append(args, req.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *doc)
	}
	return out, rows.Err()
}

func (r *repository) Create(ctx context.Context, doc Document) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO documents
			(kind, status, profile_id, customer_id, issue_date, due_date, tax_rate, intro,
			 discount_enabled, discount_label, discount_kind, discount_base, discount_value,
			 parent_id, parent_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''),
		        $9, NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''), $13,
		        $14, $15, now(), now())
		RETURNING id
	`, doc.Kind, doc.Status, doc.ProfileID, doc.CustomerID, doc.IssueDate, doc.DueDate, doc.TaxRate, doc.Intro,
		doc.Discount.Enabled, doc.Discount.Label, doc.Discount.Kind, doc.Discount.Base, doc.Discount.Value,
		doc.ParentID, doc.ParentNumber).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert document: %w", err)
	}

	for _, p := range doc.Positions {
		_, err := r.db.Exec(ctx, `
			INSERT INTO document_positions (document_id, kind, description, quantity, unit_price, unit, line_order)
			VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7)
		`, id, p.Kind, p.Description, p.Quantity, p.UnitPrice, p.Unit, p.LineOrder)
		if err != nil {
			return 0, fmt.Errorf("insert position: %w", err)
		}
	}
	return id, nil
}

func (r *repository) SetNumber(ctx context.Context, id int64, number string, seq int64) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE documents SET number = $2, sequence_no = $3, updated_at = now()
		WHERE id = $1 AND number IS NULL
	`, id, number, seq)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %d already numbered", id)
	}
	return nil
}

func (r *repository) SetRendered(ctx context.Context, id int64, totals Totals, assetKey string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE documents
		SET status = $2,
		    net_subtotal = $3, discount_amount = $4, net_after_discount = $5,
		    tax_amount = $6, gross_total = $7,
		    asset_key = $8, updated_at = now()
		WHERE id = $1
	`, id, StatusFinalized, totals.NetSubtotal, totals.DiscountAmount, totals.NetAfterDiscount,
		totals.TaxAmount, totals.GrossTotal, assetKey)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) SetStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.db.Exec(ctx, `UPDATE documents SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GenerateNumber atomically increments and returns the per-profile sequence
// for one document kind. The conditional upsert makes concurrent generations
// serialize on the row, so numbers are never handed out twice.
func (r *repository) GenerateNumber(ctx context.Context, profileID int64, kind Kind) (int64, error) {
	var seq int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO document_sequences (profile_id, kind, seq)
		VALUES ($1, $2, 1)
		ON CONFLICT (profile_id, kind)
		DO UPDATE SET seq = document_sequences.seq + 1
		RETURNING seq
	`, profileID, kind).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next %s sequence: %w", kind, err)
	}
	return seq, nil
}
