// Package profiles holds the issuing business profile and its billing
// settings: sender address, bank and contact data for the document footer,
// numbering prefixes/suffixes and payment terms.
package profiles

import (
	"errors"
	"time"
)

// ErrNotFound indicates the profile does not exist.
var ErrNotFound = errors.New("profile not found")

// Profile is the sender party of every generated document.
type Profile struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Street        string    `json:"street"`
	PostalCode    string    `json:"postal_code"`
	City          string    `json:"city"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Website       string    `json:"website,omitempty"`
	TaxID         string    `json:"tax_id,omitempty"`
	BankName      string    `json:"bank_name,omitempty"`
	IBAN          string    `json:"iban,omitempty"`
	BIC           string    `json:"bic,omitempty"`
	LogoKey       *string   `json:"logo_key,omitempty"`
	LetterheadKey *string   `json:"letterhead_key,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Settings configures numbering and dates per profile.
type Settings struct {
	ProfileID          int64  `json:"profile_id"`
	OfferPrefix        string `json:"offer_prefix"`
	OfferSuffix        string `json:"offer_suffix"`
	ConfirmationPrefix string `json:"confirmation_prefix"`
	ConfirmationSuffix string `json:"confirmation_suffix"`
	InvoicePrefix      string `json:"invoice_prefix"`
	InvoiceSuffix      string `json:"invoice_suffix"`
	// PaymentTermsDays is the default span between issue and due date.
	PaymentTermsDays int `json:"payment_terms_days"`
	// OfferValidityDays is the default validity span of an offer.
	OfferValidityDays int `json:"offer_validity_days"`
}

// DefaultSettings returns the settings applied to a profile that never saved
// any: bare sequential numbers and 14-day terms.
func DefaultSettings(profileID int64) Settings {
	return Settings{
		ProfileID:          profileID,
		OfferPrefix:        "AN-",
		ConfirmationPrefix: "AB-",
		InvoicePrefix:      "RE-",
		PaymentTermsDays:   14,
		OfferValidityDays:  14,
	}
}
