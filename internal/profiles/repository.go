package profiles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed persistence for profiles and their
// billing settings.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetProfile loads one business profile.
func (r *Repository) GetProfile(ctx context.Context, id int64) (*Profile, error) {
	var p Profile
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, street, postal_code, city,
		       COALESCE(phone, ''), COALESCE(email, ''), COALESCE(website, ''),
		       COALESCE(tax_id, ''), COALESCE(bank_name, ''), COALESCE(iban, ''), COALESCE(bic, ''),
		       logo_key, letterhead_key, created_at, updated_at
		FROM profiles WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Street, &p.PostalCode, &p.City,
		&p.Phone, &p.Email, &p.Website,
		&p.TaxID, &p.BankName, &p.IBAN, &p.BIC,
		&p.LogoKey, &p.LetterheadKey, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile rewrites the mutable profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, p Profile) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE profiles
		SET name = $2, street = $3, postal_code = $4, city = $5,
		    phone = NULLIF($6, ''), email = NULLIF($7, ''), website = NULLIF($8, ''),
		    tax_id = NULLIF($9, ''), bank_name = NULLIF($10, ''), iban = NULLIF($11, ''), bic = NULLIF($12, ''),
		    logo_key = $13, letterhead_key = $14, updated_at = now()
		WHERE id = $1
	`, p.ID, p.Name, p.Street, p.PostalCode, p.City,
		p.Phone, p.Email, p.Website,
		p.TaxID, p.BankName, p.IBAN, p.BIC,
		p.LogoKey, p.LetterheadKey)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSettings loads the billing settings of a profile, falling back to the
// defaults when none were saved yet.
func (r *Repository) GetSettings(ctx context.Context, profileID int64) (*Settings, error) {
	var s Settings
	err := r.pool.QueryRow(ctx, `
		SELECT profile_id,
		       COALESCE(offer_prefix, ''), COALESCE(offer_suffix, ''),
		       COALESCE(confirmation_prefix, ''), COALESCE(confirmation_suffix, ''),
		       COALESCE(invoice_prefix, ''), COALESCE(invoice_suffix, ''),
		       payment_terms_days, offer_validity_days
		FROM billing_settings WHERE profile_id = $1
	`, profileID).Scan(&s.ProfileID,
		&s.OfferPrefix, &s.OfferSuffix,
		&s.ConfirmationPrefix, &s.ConfirmationSuffix,
		&s.InvoicePrefix, &s.InvoiceSuffix,
		&s.PaymentTermsDays, &s.OfferValidityDays)
	if errors.Is(err, pgx.ErrNoRows) {
		defaults := DefaultSettings(profileID)
		return &defaults, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSettings upserts the billing settings of a profile.
func (r *Repository) SaveSettings(ctx context.Context, s Settings) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO billing_settings
			(profile_id, offer_prefix, offer_suffix, confirmation_prefix, confirmation_suffix,
			 invoice_prefix, invoice_suffix, payment_terms_days, offer_validity_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (profile_id) DO UPDATE SET
			offer_prefix = EXCLUDED.offer_prefix,
			offer_suffix = EXCLUDED.offer_suffix,
			confirmation_prefix = EXCLUDED.confirmation_prefix,
			confirmation_suffix = EXCLUDED.confirmation_suffix,
			invoice_prefix = EXCLUDED.invoice_prefix,
			invoice_suffix = EXCLUDED.invoice_suffix,
			payment_terms_days = EXCLUDED.payment_terms_days,
			offer_validity_days = EXCLUDED.offer_validity_days
	`, s.ProfileID, s.OfferPrefix, s.OfferSuffix, s.ConfirmationPrefix, s.ConfirmationSuffix,
		s.InvoicePrefix, s.InvoiceSuffix, s.PaymentTermsDays, s.OfferValidityDays)
	return err
}
