package render

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload(positions []Position) Payload {
	return Payload{
		Flavor:    FlavorOffer,
		Number:    "AN-2026-0007",
		IssueDate: time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC),
		Sender: Sender{
			Name:       "Werkstatt Nord GmbH",
			Street:     "Hafenstraße 12",
			PostalCode: "20457",
			City:       "Hamburg",
			Email:      "post@werkstatt-nord.de",
			Phone:      "+49 40 1234560",
			Website:    "werkstatt-nord.de",
			BankName:   "Hamburger Volksbank",
			IBAN:       "DE02200505501015871393",
			BIC:        "HASPDEHH",
			TaxID:      "DE123456789",
		},
		Recipient: Party{
			Name:           "Möbelhaus Petersen",
			Street:         "Lange Reihe 4",
			PostalCode:     "22085",
			City:           "Hamburg",
			CustomerNumber: "K-1042",
		},
		Positions: positions,
		TaxRate:   19,
	}
}

func manyItems(n int) []Position {
	positions := make([]Position, 0, n)
	for i := 0; i < n; i++ {
		positions = append(positions, Position{
			Kind:        PositionItem,
			Description: fmt.Sprintf("Arbeitsposition %d mit einer etwas längeren Beschreibung, die umgebrochen werden muss", i+1),
			Quantity:    float64(i%5 + 1),
			UnitPrice:   12.5,
			Unit:        "Std.",
		})
	}
	return positions
}

func TestRenderProducesPDF(t *testing.T) {
	p := testPayload(twoItems())
	p.Logo = &ImageAsset{Data: pngBytes(t, 240, 80), Mime: "image/png"}

	data, sum, err := NewRenderer(nil).Render(p)
	require.NoError(t, err)
	assert.True(t, len(data) > 1000, "suspiciously small document")
	assert.Equal(t, "%PDF", string(data[:4]))
	assert.Equal(t, 250.00, sum.NetSubtotal)
	assert.Equal(t, 297.50, sum.GrossTotal)
}

func TestRenderUndecodableLogoIsNotFatal(t *testing.T) {
	p := testPayload(twoItems())
	p.Logo = &ImageAsset{Data: []byte("broken"), Mime: "image/png"}

	data, _, err := NewRenderer(nil).Render(p)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestRenderBrokenLetterheadIsFatal(t *testing.T) {
	p := testPayload(twoItems())
	p.Letterhead = &ImageAsset{Data: []byte("broken"), Mime: "image/png"}

	_, _, err := NewRenderer(nil).Render(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUndecodable)
}

func TestPaginationOverflowAddsPages(t *testing.T) {
	r := NewRenderer(nil)
	j, err := r.newJob(testPayload(manyItems(120)))
	require.NoError(t, err)

	j.drawFirstPage()
	for i, pos := range j.p.Positions {
		j.renderPosition(i, pos)
		// No row may ever end up below the footer band.
		assert.LessOrEqual(t, j.st.y, footerTop-breakMargin, "row %d crossed the footer", i)
	}
	j.renderSummary()
	assert.LessOrEqual(t, j.st.y, footerTop)

	assert.GreaterOrEqual(t, j.st.page, 2, "120 items must overflow one page")
	assert.Equal(t, j.st.page, j.pdf.PageCount())
}

func TestContinuationPageResumesBelowHeaderBand(t *testing.T) {
	r := NewRenderer(nil)
	j, err := r.newJob(testPayload(nil))
	require.NoError(t, err)

	j.drawFirstPage()
	firstTableTop := j.st.tableTop
	j.newContentPage()
	// Continuation pages have no letter head, so the table resumes higher up.
	assert.Less(t, j.st.tableTop, firstTableTop)
	assert.Equal(t, followHeaderY+lineHeight+rowSpacing, j.st.tableTop)
}

func TestLongIntroMovesTableToNextPage(t *testing.T) {
	r := NewRenderer(nil)
	p := testPayload(twoItems())
	p.Intro = strings.Repeat("Dieser einleitende Absatz beschreibt den geplanten Umbau sehr ausführlich. ", 60)
	j, err := r.newJob(p)
	require.NoError(t, err)

	j.drawFirstPage()
	// No column header may be stranded above the footer without room for a row.
	assert.Equal(t, 2, j.st.page)
	assert.Equal(t, followHeaderY+lineHeight+rowSpacing, j.st.tableTop)
	assert.LessOrEqual(t, j.st.tableTop+lineHeight, footerTop-breakMargin)
}

func TestSummaryBlockNeverSplits(t *testing.T) {
	r := NewRenderer(nil)
	p := testPayload(twoItems())
	p.Discount = &Discount{Enabled: true, Label: "Projektrabatt", Kind: DiscountPercent, Base: DiscountBaseNet, Value: 10}
	j, err := r.newJob(p)
	require.NoError(t, err)

	j.drawFirstPage()
	// Push the cursor right above the footer so the block cannot fit.
	j.st.y = footerTop - breakMargin - lineHeight
	pagesBefore := j.st.page
	j.renderSummary()
	assert.Equal(t, pagesBefore+1, j.st.page, "summary must move to a fresh page as a whole")
}

func TestRenderWithAllPositionKinds(t *testing.T) {
	positions := []Position{
		{Kind: PositionHeading, Description: "Phase 1 – Planung"},
		{Kind: PositionItem, Description: "Konzept", Quantity: 8, UnitPrice: 95, Unit: "Std."},
		{Kind: PositionDescription, Description: "Abstimmung erfolgt wöchentlich per Videokonferenz."},
		{Kind: PositionSubtotal},
		{Kind: PositionSeparator},
		{Kind: PositionItem, Description: "Umsetzung", Quantity: 20, UnitPrice: 85, Unit: "Std."},
		{Kind: PositionSubtotal, Description: "Summe gesamt"},
	}
	data, sum, err := NewRenderer(nil).Render(testPayload(positions))
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(data[:4]))
	assert.Equal(t, 2460.00, sum.NetSubtotal)
}

func TestDiscountLabel(t *testing.T) {
	percent := &Discount{Enabled: true, Label: "Treuerabatt", Kind: DiscountPercent, Base: DiscountBaseNet, Value: 10}
	assert.Equal(t, "Treuerabatt - netto (10 %)", discountLabel(percent))

	fixed := &Discount{Enabled: true, Kind: DiscountFixedAmount, Base: DiscountBaseGross, Value: 50}
	assert.Equal(t, "Rabatt - brutto", discountLabel(fixed))
}
