package documents

import (
	"bytes"
	"strconv"
	"strings"
	"time"
)

// FlexFloat accepts a JSON number or a numeric string (optionally with a
// comma decimal separator, as sent by some clients). Values that do not parse
// are coerced to zero instead of failing the request, since partially filled
// line items are common during manual entry. After decoding, the rest of the
// system only ever sees a plain float64.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(b, `"`)))
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// PositionRequest is one row of an incoming document.
type PositionRequest struct {
	Kind        string    `json:"kind" validate:"required,oneof=item heading description subtotal separator"`
	Description string    `json:"description" validate:"max=2000"`
	Quantity    FlexFloat `json:"quantity"`
	UnitPrice   FlexFloat `json:"unit_price"`
	Unit        string    `json:"unit" validate:"max=20"`
}

// DiscountRequest is the optional discount of an incoming document.
type DiscountRequest struct {
	Enabled bool      `json:"enabled"`
	Label   string    `json:"label" validate:"max=120"`
	Kind    string    `json:"kind" validate:"omitempty,oneof=percent fixed_amount"`
	Base    string    `json:"base" validate:"omitempty,oneof=net gross"`
	Value   FlexFloat `json:"value"`
}

// CreateDocumentRequest creates a draft document. Confirmations and invoices
// are usually derived via the convert flows, but may also be written directly.
type CreateDocumentRequest struct {
	Kind       string            `json:"kind" validate:"required,oneof=OFFER CONFIRMATION INVOICE"`
	ProfileID  int64             `json:"profile_id" validate:"required,gt=0"`
	CustomerID int64             `json:"customer_id" validate:"required,gt=0"`
	IssueDate  *time.Time        `json:"issue_date"`
	TaxRate    FlexFloat         `json:"tax_rate" validate:"gte=0,lte=100"`
	Intro      string            `json:"intro" validate:"max=2000"`
	Positions  []PositionRequest `json:"positions" validate:"dive"`
	Discount   *DiscountRequest  `json:"discount"`
}

func (req CreateDocumentRequest) positions() []Position {
	out := make([]Position, 0, len(req.Positions))
	for i, p := range req.Positions {
		out = append(out, Position{
			Kind:        PositionKind(p.Kind),
			Description: p.Description,
			Quantity:    float64(p.Quantity),
			UnitPrice:   float64(p.UnitPrice),
			Unit:        p.Unit,
			LineOrder:   i + 1,
		})
	}
	return out
}

func (req CreateDocumentRequest) discount() Discount {
	if req.Discount == nil {
		return Discount{}
	}
	d := Discount{
		Enabled: req.Discount.Enabled,
		Label:   req.Discount.Label,
		Kind:    req.Discount.Kind,
		Base:    req.Discount.Base,
		Value:   float64(req.Discount.Value),
	}
	if d.Value < 0 {
		d.Value = 0
	}
	if d.Kind == "" {
		d.Kind = "percent"
	}
	if d.Base == "" {
		d.Base = "net"
	}
	return d
}

// ListDocumentsRequest filters the document list.
type ListDocumentsRequest struct {
	Kind       *Kind
	CustomerID *int64
	Limit      int
	Offset     int
}
