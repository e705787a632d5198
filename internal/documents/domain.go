// Package documents implements offers, order confirmations and invoices and
// the three generation flows between them.
package documents

import (
	"errors"
	"time"

	"github.com/belegwerk/belegwerk/internal/render"
)

var (
	// ErrNotFound indicates the document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrNotFinalized indicates a conversion was requested from a document
	// that has not been rendered and numbered yet.
	ErrNotFinalized = errors.New("source document not finalized")
	// ErrWrongKind indicates a conversion from an incompatible document kind.
	ErrWrongKind = errors.New("wrong source document kind")
)

// Kind enumerates the three document flavors.
type Kind string

const (
	KindOffer        Kind = "OFFER"
	KindConfirmation Kind = "CONFIRMATION"
	KindInvoice      Kind = "INVOICE"
)

// renderKind maps a storage kind onto the engine's flavor key.
func (k Kind) renderKind() render.Kind {
	switch k {
	case KindConfirmation:
		return render.KindConfirmation
	case KindInvoice:
		return render.KindInvoice
	default:
		return render.KindOffer
	}
}

// Status enumerates the document lifecycle.
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusFinalized Status = "FINALIZED"
	StatusConverted Status = "CONVERTED"
)

// PositionKind mirrors the engine's row variants at the storage boundary.
type PositionKind string

const (
	PositionItem        PositionKind = "item"
	PositionHeading     PositionKind = "heading"
	PositionDescription PositionKind = "description"
	PositionSubtotal    PositionKind = "subtotal"
	PositionSeparator   PositionKind = "separator"
)

// Position is one stored row of document content.
type Position struct {
	ID          int64        `json:"id"`
	DocumentID  int64        `json:"-"`
	Kind        PositionKind `json:"kind"`
	Description string       `json:"description,omitempty"`
	Quantity    float64      `json:"quantity,omitempty"`
	UnitPrice   float64      `json:"unit_price,omitempty"`
	Unit        string       `json:"unit,omitempty"`
	LineOrder   int          `json:"line_order"`
}

// Discount is the stored discount configuration of a document.
type Discount struct {
	Enabled bool    `json:"enabled"`
	Label   string  `json:"label,omitempty"`
	Kind    string  `json:"kind,omitempty"` // percent | fixed_amount
	Base    string  `json:"base,omitempty"` // net | gross
	Value   float64 `json:"value,omitempty"`
}

// Totals are the persisted money figures of a rendered document. They are
// always recomputed from positions and discount at render time.
type Totals struct {
	NetSubtotal      float64 `json:"net_subtotal"`
	DiscountAmount   float64 `json:"discount_amount"`
	NetAfterDiscount float64 `json:"net_after_discount"`
	TaxAmount        float64 `json:"tax_amount"`
	GrossTotal       float64 `json:"gross_total"`
}

// Document is one offer, order confirmation or invoice.
type Document struct {
	ID         int64      `json:"id"`
	Kind       Kind       `json:"kind"`
	Status     Status     `json:"status"`
	ProfileID  int64      `json:"profile_id"`
	CustomerID int64      `json:"customer_id"`

	// Number and SequenceNo stay unset until the first render allocates them.
	Number     *string `json:"number,omitempty"`
	SequenceNo *int64  `json:"sequence_no,omitempty"`

	IssueDate time.Time `json:"issue_date"`
	DueDate   time.Time `json:"due_date"`
	TaxRate   float64   `json:"tax_rate"`
	Intro     string    `json:"intro,omitempty"`
	Discount  Discount  `json:"discount"`
	Totals    Totals    `json:"totals"`

	// ParentID/ParentNumber back-reference the document this one was
	// derived from (offer for a confirmation, confirmation for an invoice).
	ParentID     *int64  `json:"parent_id,omitempty"`
	ParentNumber *string `json:"parent_number,omitempty"`

	// AssetKey points at the stored page stream of the last render.
	AssetKey *string `json:"asset_key,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Positions []Position `json:"positions,omitempty"`
}

func (d *Document) renderPositions() []render.Position {
	out := make([]render.Position, 0, len(d.Positions))
	for _, p := range d.Positions {
		out = append(out, render.Position{
			Kind:        render.PositionKind(p.Kind),
			Description: p.Description,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
			Unit:        p.Unit,
		})
	}
	return out
}

func (d *Document) renderDiscount() *render.Discount {
	if !d.Discount.Enabled {
		return nil
	}
	return &render.Discount{
		Enabled: true,
		Label:   d.Discount.Label,
		Kind:    render.DiscountKind(d.Discount.Kind),
		Base:    render.DiscountBase(d.Discount.Base),
		Value:   d.Discount.Value,
	}
}
