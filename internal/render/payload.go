package render

import "time"

// Kind identifies which of the three document flavors is being rendered.
type Kind string

const (
	KindOffer        Kind = "offer"
	KindConfirmation Kind = "order_confirmation"
	KindInvoice      Kind = "invoice"
)

// Flavor parameterizes the assembler for one document kind. All three
// generation flows share a single layout; only the words differ.
type Flavor struct {
	Kind               Kind
	Title              string
	Intro              string
	NumberLabel        string
	DateLabel          string
	SecondaryDateLabel string
	ParentLabel        string
}

var (
	FlavorOffer = Flavor{
		Kind:               KindOffer,
		Title:              "Angebot",
		Intro:              "vielen Dank für Ihre Anfrage. Gerne unterbreiten wir Ihnen das folgende Angebot.",
		NumberLabel:        "Angebotsnr.",
		DateLabel:          "Datum",
		SecondaryDateLabel: "Gültig bis",
	}
	FlavorConfirmation = Flavor{
		Kind:               KindConfirmation,
		Title:              "Auftragsbestätigung",
		Intro:              "hiermit bestätigen wir Ihren Auftrag und bedanken uns für Ihr Vertrauen.",
		NumberLabel:        "Belegnr.",
		DateLabel:          "Datum",
		SecondaryDateLabel: "Liefertermin",
		ParentLabel:        "zu Angebot",
	}
	FlavorInvoice = Flavor{
		Kind:               KindInvoice,
		Title:              "Rechnung",
		Intro:              "wir erlauben uns, die folgenden Leistungen in Rechnung zu stellen.",
		NumberLabel:        "Rechnungsnr.",
		DateLabel:          "Rechnungsdatum",
		SecondaryDateLabel: "Zahlbar bis",
		ParentLabel:        "zu Auftragsbestätigung",
	}
)

// FlavorFor returns the flavor descriptor for a document kind.
func FlavorFor(kind Kind) Flavor {
	switch kind {
	case KindConfirmation:
		return FlavorConfirmation
	case KindInvoice:
		return FlavorInvoice
	default:
		return FlavorOffer
	}
}

// PositionKind enumerates the row variants of a document table.
type PositionKind string

const (
	PositionItem        PositionKind = "item"
	PositionHeading     PositionKind = "heading"
	PositionDescription PositionKind = "description"
	PositionSubtotal    PositionKind = "subtotal"
	PositionSeparator   PositionKind = "separator"
)

// Position is one row of document content. Only item rows carry money.
type Position struct {
	Kind        PositionKind
	Description string
	Quantity    float64
	UnitPrice   float64
	Unit        string
}

// Party is the recipient block printed in the letter head.
type Party struct {
	Name           string
	Street         string
	PostalCode     string
	City           string
	CustomerNumber string
}

// Sender is the issuing business profile as it appears on the document.
type Sender struct {
	Name       string
	Street     string
	PostalCode string
	City       string
	Phone      string
	Email      string
	Website    string
	TaxID      string
	BankName   string
	IBAN       string
	BIC        string
}

// ImageAsset is a raw asset byte buffer with its declared mime type.
type ImageAsset struct {
	Data []byte
	Mime string
}

// Payload is the fully resolved input for one render call. The engine treats
// it as a read-only snapshot and never mutates it.
type Payload struct {
	Flavor       Flavor
	Number       string
	ParentNumber string
	IssueDate    time.Time
	DueDate      time.Time
	Sender       Sender
	Recipient    Party
	Intro        string
	Positions    []Position
	TaxRate      float64
	Discount     *Discount
	Logo         *ImageAsset
	Letterhead   *ImageAsset
}

func (p Payload) intro() string {
	if p.Intro != "" {
		return p.Intro
	}
	return p.Flavor.Intro
}
