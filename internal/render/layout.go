package render

// All measurements are PDF points on an A4 portrait page.
const (
	pageWidth  = 595.28
	pageHeight = 841.89

	pageMargin   = 32.0
	contentWidth = pageWidth - 2*pageMargin
	lineHeight   = 12.0
	rowSpacing   = 4.0

	fontFamily = "Helvetica"

	// Logo band reserved at the top of every page.
	logoTop       = pageMargin
	logoMaxWidth  = 180.0
	logoMaxHeight = 64.0
	logoBandBottom = logoTop + logoMaxHeight

	// First-page letter head blocks.
	senderLineY    = 150.0
	recipientTopY  = 166.0
	identityTopY   = 166.0
	identityLabelX = 380.0
	titleBaseY     = 268.0

	// Continuation pages carry only the logo band and the column header,
	// so the table resumes higher up than on page one.
	followHeaderY = logoBandBottom + 24.0

	// Item table columns (x offsets and widths, left to right).
	colDescX      = pageMargin
	colDescWidth  = 250.0
	colQtyX       = colDescX + colDescWidth
	colQtyWidth   = 50.0
	colUnitX      = colQtyX + colQtyWidth
	colUnitWidth  = 50.0
	colPriceX     = colUnitX + colUnitWidth
	colPriceWidth = 70.0
	colTotalX     = colPriceX + colPriceWidth
	colTotalWidth = pageWidth - pageMargin - colTotalX

	cellPad = 4.0

	// Summary block column split.
	summaryLabelX     = colQtyX
	summaryLabelWidth = colPriceX + colPriceWidth - colQtyX

	// Footer band: three columns of up to three lines each on every page.
	footerTop    = 772.0
	footerRuleY  = footerTop - 8.0
	footerColGap = 12.0
	footerColWidth = (contentWidth - 2*footerColGap) / 3

	// Minimum clearance kept between the last drawn row and the footer rule.
	breakMargin = 10.0
)
