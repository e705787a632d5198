package render

// pageState is the only mutable layout state, threaded explicitly through
// every render step and advanced by the pagination logic alone.
type pageState struct {
	page     int     // 1-based page number
	y        float64 // vertical cursor, grows downward
	tableTop float64 // y of the first row slot below the column header
}

// ensureSpace opens a new page when the next block of the given height would
// intrude into the footer band, then returns the (possibly reset) state.
func (j *job) ensureSpace(need float64) {
	if j.st.y+need <= footerTop-breakMargin {
		return
	}
	j.newContentPage()
}

// newContentPage starts a continuation page: background template and logo are
// re-drawn, the column header is re-established and the cursor is reset to a
// fixed offset below the header band. Continuation pages resume higher than
// the first page because they carry no letter head or intro.
func (j *job) newContentPage() {
	j.pdf.AddPage()
	j.st.page++
	j.drawBackground()
	j.drawLogo()
	j.st.y = followHeaderY
	j.drawColumnHeader()
}

// drawColumnHeader draws the item table header line at the current cursor and
// records the top of the first row slot in the state.
func (j *job) drawColumnHeader() {
	j.setFont("B", 8)
	j.pdf.SetXY(colDescX, j.st.y)
	j.pdf.CellFormat(colDescWidth, lineHeight, j.tr("Beschreibung"), "B", 0, "L", false, 0, "")
	j.pdf.CellFormat(colQtyWidth, lineHeight, j.tr("Menge"), "B", 0, "R", false, 0, "")
	j.pdf.CellFormat(colUnitWidth, lineHeight, j.tr("Einheit"), "B", 0, "C", false, 0, "")
	j.pdf.CellFormat(colPriceWidth, lineHeight, j.tr("Einzelpreis"), "B", 0, "R", false, 0, "")
	j.pdf.CellFormat(colTotalWidth, lineHeight, j.tr("Gesamt"), "B", 1, "R", false, 0, "")
	j.st.y += lineHeight + rowSpacing
	j.st.tableTop = j.st.y
}

// drawBackground paints the letterhead template (when configured) across the
// whole page before any content.
func (j *job) drawBackground() {
	if j.letterhead == nil {
		return
	}
	j.drawImage("letterhead", j.letterhead, 0, 0, pageWidth, pageHeight)
}

// drawLogo places the logo centered in the reserved header band. A document
// without a decodable logo simply leaves the band empty.
func (j *job) drawLogo() {
	if j.logo == nil {
		return
	}
	x, w, h := j.logo.fitted(logoMaxWidth, logoMaxHeight)
	j.drawImage("logo", j.logo, x, logoTop, w, h)
}
