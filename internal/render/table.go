package render

// renderPosition draws one row of the item table at the current cursor and
// advances it. idx is the row's index in the full position list; the subtotal
// variant needs it to compute its running sum.
func (j *job) renderPosition(idx int, pos Position) {
	switch pos.Kind {
	case PositionHeading:
		j.renderHeading(pos)
	case PositionDescription:
		j.renderFreeText(pos)
	case PositionSubtotal:
		j.renderSubtotal(idx, pos)
	case PositionSeparator:
		j.renderSeparator()
	default:
		j.renderItem(pos)
	}
}

func (j *job) renderItem(pos Position) {
	lines := WrapText(pos.Description, colDescWidth-cellPad, j.measure("", 9))
	lineCount := len(lines)
	if lineCount < 1 {
		lineCount = 1
	}
	need := float64(lineCount)*lineHeight + rowSpacing
	j.ensureSpace(need)

	j.setFont("", 9)
	j.pdf.SetXY(colDescX, j.st.y)
	first := ""
	if len(lines) > 0 {
		first = lines[0]
	}
	j.pdf.CellFormat(colDescWidth, lineHeight, j.tr(first), "", 0, "L", false, 0, "")
	j.pdf.CellFormat(colQtyWidth, lineHeight, FormatNumber(pos.Quantity), "", 0, "R", false, 0, "")
	j.pdf.CellFormat(colUnitWidth, lineHeight, j.tr(pos.Unit), "", 0, "C", false, 0, "")
	j.pdf.CellFormat(colPriceWidth, lineHeight, j.tr(FormatAmount(pos.UnitPrice)), "", 0, "R", false, 0, "")
	j.pdf.CellFormat(colTotalWidth, lineHeight, j.tr(FormatAmount(pos.Quantity*pos.UnitPrice)), "", 1, "R", false, 0, "")

	for i, line := range lines[min(1, len(lines)):] {
		j.pdf.SetXY(colDescX, j.st.y+float64(i+1)*lineHeight)
		j.pdf.CellFormat(colDescWidth, lineHeight, j.tr(line), "", 0, "L", false, 0, "")
	}
	j.st.y += need
}

func (j *job) renderHeading(pos Position) {
	j.ensureSpace(lineHeight)
	j.setFont("B", 9)
	j.pdf.SetXY(colDescX, j.st.y)
	j.pdf.CellFormat(contentWidth, lineHeight, j.tr(NormalizeText(pos.Description)), "", 1, "L", false, 0, "")
	j.st.y += lineHeight
}

// renderFreeText spans the whole content width instead of the narrow item
// description column. Empty text advances nothing.
func (j *job) renderFreeText(pos Position) {
	lines := WrapText(pos.Description, contentWidth-cellPad, j.measure("", 9))
	if len(lines) == 0 {
		return
	}
	need := float64(len(lines)) * lineHeight
	j.ensureSpace(need)
	j.setFont("", 9)
	for i, line := range lines {
		j.pdf.SetXY(colDescX, j.st.y+float64(i)*lineHeight)
		j.pdf.CellFormat(contentWidth, lineHeight, j.tr(line), "", 0, "L", false, 0, "")
	}
	j.st.y += need
}

// renderSubtotal draws the running sum of all item rows above this one. The
// value is recomputed from the position list, not stored, so authors can place
// any number of checkpoints inside one document.
func (j *job) renderSubtotal(idx int, pos Position) {
	j.ensureSpace(lineHeight)
	label := NormalizeText(pos.Description)
	if label == "" {
		label = "Zwischensumme"
	}
	sum := runningSubtotal(j.p.Positions, idx)

	j.setFont("B", 9)
	j.pdf.SetXY(colDescX, j.st.y)
	j.pdf.CellFormat(colDescWidth+colQtyWidth+colUnitWidth+colPriceWidth, lineHeight, j.tr(label), "", 0, "L", false, 0, "")
	j.pdf.CellFormat(colTotalWidth, lineHeight, j.tr(FormatAmount(sum)), "", 1, "R", false, 0, "")
	j.st.y += lineHeight
}

func (j *job) renderSeparator() {
	j.ensureSpace(lineHeight)
	y := j.st.y + lineHeight/2
	j.pdf.SetDrawColor(120, 120, 120)
	j.pdf.Line(colDescX, y, pageWidth-pageMargin, y)
	j.pdf.SetDrawColor(0, 0, 0)
	j.st.y += lineHeight
}
