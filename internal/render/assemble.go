// Package render lays out offers, order confirmations and invoices as
// paginated A4 PDF documents. One call renders exactly one document,
// synchronously; the caller persists the returned bytes and figures.
package render

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/go-pdf/fpdf"
)

const dateLayout = "02.01.2006"

// Renderer assembles documents. It carries no per-document state and is safe
// to share across calls.
type Renderer struct {
	logger *slog.Logger
}

// NewRenderer constructs a Renderer.
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{logger: logger}
}

type embeddedImage struct {
	decodedImage
	data       []byte
	registered bool
}

// job holds the mutable state of a single render call.
type job struct {
	pdf        *fpdf.Fpdf
	tr         func(string) string
	p          Payload
	sum        MoneySummary
	logo       *embeddedImage
	letterhead *embeddedImage
	st         pageState
}

// Render produces the finished page stream for the payload together with the
// computed money summary. The summary is returned rounded to two decimals,
// ready for persistence next to the stored bytes.
func (r *Renderer) Render(p Payload) ([]byte, MoneySummary, error) {
	j, err := r.newJob(p)
	if err != nil {
		return nil, MoneySummary{}, err
	}

	j.drawFirstPage()
	for i, pos := range p.Positions {
		j.renderPosition(i, pos)
	}
	j.renderSummary()
	j.drawFooters()

	var buf bytes.Buffer
	if err := j.pdf.Output(&buf); err != nil {
		return nil, MoneySummary{}, fmt.Errorf("render: serialize document: %w", err)
	}
	return buf.Bytes(), j.sum.Rounded(), nil
}

func (r *Renderer) newJob(p Payload) (*job, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(p.Flavor.Title+" "+p.Number, true)

	j := &job{
		pdf: pdf,
		tr:  pdf.UnicodeTranslatorFromDescriptor(""),
		p:   p,
		sum: Compute(p.Positions, p.TaxRate, p.Discount),
	}

	if p.Letterhead != nil {
		img, err := decodeImage(p.Letterhead.Data, p.Letterhead.Mime)
		if err != nil {
			// A configured background template that cannot be used aborts
			// the whole generation; there is no sensible partial output.
			return nil, fmt.Errorf("render: letterhead template: %w", err)
		}
		j.letterhead = &embeddedImage{decodedImage: img, data: p.Letterhead.Data}
	}
	if p.Logo != nil {
		img, err := decodeImage(p.Logo.Data, p.Logo.Mime)
		if err != nil {
			r.logger.Warn("logo not decodable, rendering without it", slog.Any("error", err))
		} else {
			j.logo = &embeddedImage{decodedImage: img, data: p.Logo.Data}
		}
	}
	return j, nil
}

func (j *job) setFont(style string, size float64) {
	j.pdf.SetFont(fontFamily, style, size)
}

// measure returns a width function over the given font for WrapText. The
// measured string is translated the same way it will later be drawn.
func (j *job) measure(style string, size float64) func(string) float64 {
	return func(s string) float64 {
		j.setFont(style, size)
		return j.pdf.GetStringWidth(j.tr(s))
	}
}

func (j *job) drawImage(name string, img *embeddedImage, x, y, w, h float64) {
	opts := fpdf.ImageOptions{ImageType: img.format, ReadDpi: false}
	if !img.registered {
		j.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(img.data))
		img.registered = true
	}
	j.pdf.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}

// drawFirstPage establishes the letter head: logo band, sender line,
// recipient block, document identity block, title and intro, followed by the
// first column header.
func (j *job) drawFirstPage() {
	j.pdf.AddPage()
	j.st.page = 1
	j.drawBackground()
	j.drawLogo()

	// Single sender line above the recipient block, as in a window envelope.
	s := j.p.Sender
	j.setFont("", 7)
	j.pdf.SetXY(pageMargin, senderLineY)
	senderLine := fmt.Sprintf("%s · %s · %s %s", s.Name, s.Street, s.PostalCode, s.City)
	j.pdf.CellFormat(300, 9, j.tr(senderLine), "", 1, "L", false, 0, "")

	j.drawRecipient()
	j.drawIdentity()

	j.setFont("B", 14)
	j.pdf.SetXY(pageMargin, titleBaseY)
	j.pdf.CellFormat(contentWidth, 18, j.tr(j.p.Flavor.Title+" "+j.p.Number), "", 1, "L", false, 0, "")

	y := titleBaseY + 18 + 8
	greeting := "Sehr geehrte Damen und Herren,"
	j.setFont("", 9)
	j.pdf.SetXY(pageMargin, y)
	j.pdf.CellFormat(contentWidth, lineHeight, j.tr(greeting), "", 1, "L", false, 0, "")
	y += lineHeight + 2

	for _, line := range WrapText(j.p.intro(), contentWidth, j.measure("", 9)) {
		j.pdf.SetXY(pageMargin, y)
		j.pdf.CellFormat(contentWidth, lineHeight, j.tr(line), "", 1, "L", false, 0, "")
		y += lineHeight
	}

	j.st.y = y + 14
	// The column header stays glued to at least one row slot. When the intro
	// has pushed the cursor too close to the footer, the whole table starts
	// on a continuation page instead of leaving an orphan header here.
	headerNeed := 2*lineHeight + rowSpacing
	if j.st.y+headerNeed > footerTop-breakMargin {
		j.newContentPage()
		return
	}
	j.drawColumnHeader()
}

func (j *job) drawRecipient() {
	rec := j.p.Recipient
	lines := []string{rec.Name, rec.Street, rec.PostalCode + " " + rec.City}
	j.setFont("", 10)
	y := recipientTopY
	for _, line := range lines {
		j.pdf.SetXY(pageMargin, y)
		j.pdf.CellFormat(300, lineHeight, j.tr(line), "", 1, "L", false, 0, "")
		y += lineHeight
	}
}

// drawIdentity prints the number/date block on the right of the letter head.
func (j *job) drawIdentity() {
	type row struct{ label, value string }
	rows := []row{
		{j.p.Flavor.NumberLabel, j.p.Number},
		{j.p.Flavor.DateLabel, j.p.IssueDate.Format(dateLayout)},
	}
	if !j.p.DueDate.IsZero() {
		rows = append(rows, row{j.p.Flavor.SecondaryDateLabel, j.p.DueDate.Format(dateLayout)})
	}
	if j.p.Recipient.CustomerNumber != "" {
		rows = append(rows, row{"Kundennr.", j.p.Recipient.CustomerNumber})
	}
	if j.p.Flavor.ParentLabel != "" && j.p.ParentNumber != "" {
		rows = append(rows, row{j.p.Flavor.ParentLabel, j.p.ParentNumber})
	}
	if j.p.Sender.TaxID != "" {
		rows = append(rows, row{"USt-IdNr.", j.p.Sender.TaxID})
	}

	y := identityTopY
	for _, rw := range rows {
		j.setFont("", 8)
		j.pdf.SetXY(identityLabelX, y)
		j.pdf.CellFormat(80, lineHeight, j.tr(rw.label), "", 0, "L", false, 0, "")
		j.setFont("B", 8)
		j.pdf.CellFormat(pageWidth-pageMargin-identityLabelX-80, lineHeight, j.tr(rw.value), "", 1, "R", false, 0, "")
		y += lineHeight
	}
}

// renderSummary draws the money block below the table. The block is never
// split across pages; if it does not fit it moves entirely to a new page.
func (j *job) renderSummary() {
	d := j.p.Discount
	lines := 3
	if d.active() {
		lines = 5
	}
	need := float64(lines)*lineHeight + 2*rowSpacing
	if d.active() {
		need += lineHeight // footnote
	}
	j.ensureSpace(need)

	j.st.y += rowSpacing
	j.pdf.Line(summaryLabelX, j.st.y, pageWidth-pageMargin, j.st.y)
	j.st.y += rowSpacing

	j.summaryRow("Nettobetrag", FormatAmount(j.sum.NetSubtotal), false)
	if d.active() {
		j.summaryRow(discountLabel(d), "-"+FormatAmount(j.sum.DiscountAmount), false)
		j.summaryRow("Nettobetrag nach Rabatt", FormatAmount(j.sum.NetAfterDiscount), false)
	}
	j.summaryRow(fmt.Sprintf("zzgl. %s %% USt.", FormatNumber(j.p.TaxRate)), FormatAmount(j.sum.TaxAmount), false)
	j.summaryRow("Gesamtbetrag", FormatAmount(j.sum.GrossTotal), true)

	if d.active() {
		basis := "Nettobetrags"
		if d.Base == DiscountBaseGross {
			basis = "Bruttobetrags"
		}
		j.setFont("I", 7)
		j.pdf.SetXY(pageMargin, j.st.y)
		note := fmt.Sprintf("Der Rabatt wurde auf Basis des %s berechnet.", basis)
		j.pdf.CellFormat(contentWidth, lineHeight, j.tr(note), "", 1, "L", false, 0, "")
		j.st.y += lineHeight
	}
}

func (j *job) summaryRow(label, value string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	j.setFont(style, 9)
	j.pdf.SetXY(summaryLabelX, j.st.y)
	j.pdf.CellFormat(summaryLabelWidth, lineHeight, j.tr(label), "", 0, "L", false, 0, "")
	j.pdf.CellFormat(colTotalWidth, lineHeight, j.tr(value), "", 1, "R", false, 0, "")
	j.st.y += lineHeight
}

// discountLabel builds the human readable discount line, e.g.
// "Treuerabatt - netto (10 %)" or "Aktionsrabatt - brutto" for fixed amounts.
func discountLabel(d *Discount) string {
	label := NormalizeText(d.Label)
	if label == "" {
		label = "Rabatt"
	}
	basis := "netto"
	if d.Base == DiscountBaseGross {
		basis = "brutto"
	}
	if d.Kind == DiscountPercent {
		return fmt.Sprintf("%s - %s (%s %%)", label, basis, FormatNumber(d.Value))
	}
	return fmt.Sprintf("%s - %s", label, basis)
}

// drawFooters stamps the identical footer band onto every produced page.
func (j *job) drawFooters() {
	s := j.p.Sender
	address := []string{s.Name, s.Street, s.PostalCode + " " + s.City}
	payment := trimEmpty([]string{s.BankName, "IBAN " + s.IBAN, "BIC " + s.BIC})
	contact := trimEmpty([]string{s.Phone, s.Email, s.Website})

	for page := 1; page <= j.pdf.PageCount(); page++ {
		j.pdf.SetPage(page)
		j.pdf.SetDrawColor(0, 0, 0)
		j.pdf.Line(pageMargin, footerRuleY, pageWidth-pageMargin, footerRuleY)
		j.setFont("", 7)
		for col, lines := range [][]string{address, payment, contact} {
			x := pageMargin + float64(col)*(footerColWidth+footerColGap)
			for i, line := range lines {
				if i >= 3 {
					break
				}
				j.pdf.SetXY(x, footerTop+float64(i)*9)
				j.pdf.CellFormat(footerColWidth, 9, j.tr(line), "", 0, "L", false, 0, "")
			}
		}
	}
}

func trimEmpty(lines []string) []string {
	out := lines[:0:0]
	for _, l := range lines {
		if l != "" && l != "IBAN " && l != "BIC " {
			out = append(out, l)
		}
	}
	return out
}
