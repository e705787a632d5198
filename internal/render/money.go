package render

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DiscountKind selects how a discount value is interpreted.
type DiscountKind string

const (
	DiscountPercent     DiscountKind = "percent"
	DiscountFixedAmount DiscountKind = "fixed_amount"
)

// DiscountBase selects the figure a discount is applied against.
type DiscountBase string

const (
	DiscountBaseNet   DiscountBase = "net"
	DiscountBaseGross DiscountBase = "gross"
)

// Discount is an optional modifier on a document. The computed discount
// amount is clamped so that no total ever goes negative.
type Discount struct {
	Enabled bool
	Label   string
	Kind    DiscountKind
	Base    DiscountBase
	Value   float64
}

func (d *Discount) active() bool {
	return d != nil && d.Enabled && d.Value > 0
}

func (d *Discount) amountAgainst(base float64) float64 {
	var amount float64
	if d.Kind == DiscountPercent {
		amount = base * d.Value / 100
	} else {
		amount = d.Value
	}
	return math.Min(math.Max(amount, 0), base)
}

// MoneySummary holds the derived figures for one document. It is recomputed
// from positions and discount, never stored as an independent source of truth.
type MoneySummary struct {
	NetSubtotal      float64
	DiscountAmount   float64
	NetAfterDiscount float64
	TaxAmount        float64
	GrossTotal       float64
}

// Rounded returns the summary with every figure rounded to two decimals.
// Intermediate arithmetic stays unrounded so the percent/amount/base branches
// do not compound rounding error.
func (m MoneySummary) Rounded() MoneySummary {
	return MoneySummary{
		NetSubtotal:      round2(m.NetSubtotal),
		DiscountAmount:   round2(m.DiscountAmount),
		NetAfterDiscount: round2(m.NetAfterDiscount),
		TaxAmount:        round2(m.TaxAmount),
		GrossTotal:       round2(m.GrossTotal),
	}
}

// Compute derives net, discount, tax and gross figures from item positions,
// a tax rate in percent and an optional discount.
//
// With a net-based discount the discount reduces the tax base; with a
// gross-based discount the discount is removed from the gross-before-tax
// figure and net/tax are back-computed from the result. Both branches keep
// gross == net after discount + tax.
func Compute(positions []Position, taxRate float64, discount *Discount) MoneySummary {
	net := runningSubtotal(positions, len(positions))
	taxFactor := 1 + taxRate/100

	if !discount.active() {
		tax := net * taxRate / 100
		return MoneySummary{
			NetSubtotal:      net,
			NetAfterDiscount: net,
			TaxAmount:        tax,
			GrossTotal:       net + tax,
		}
	}

	if discount.Base == DiscountBaseGross {
		grossBefore := net * taxFactor
		amount := discount.amountAgainst(grossBefore)
		grossAfter := grossBefore - amount
		netAfter := grossAfter / taxFactor
		return MoneySummary{
			NetSubtotal:      net,
			DiscountAmount:   amount,
			NetAfterDiscount: netAfter,
			TaxAmount:        grossAfter - netAfter,
			GrossTotal:       grossAfter,
		}
	}

	amount := discount.amountAgainst(net)
	netAfter := net - amount
	tax := netAfter * taxRate / 100
	return MoneySummary{
		NetSubtotal:      net,
		DiscountAmount:   amount,
		NetAfterDiscount: netAfter,
		TaxAmount:        tax,
		GrossTotal:       netAfter + tax,
	}
}

// runningSubtotal sums the item rows at indices strictly below until.
// Subtotal rows are display checkpoints over this sum, so inserting one never
// changes the figures of the rows around it.
func runningSubtotal(positions []Position, until int) float64 {
	var sum float64
	for i := 0; i < until && i < len(positions); i++ {
		if positions[i].Kind == PositionItem {
			sum += positions[i].Quantity * positions[i].UnitPrice
		}
	}
	return sum
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var amountPrinter = message.NewPrinter(language.German)

// FormatAmount renders a monetary value with two fixed decimals and a comma
// decimal separator, e.g. 1.234,50 €.
func FormatAmount(v float64) string {
	return amountPrinter.Sprintf("%.2f €", round2(v))
}

// FormatNumber renders a plain quantity or rate in the same locale, trimming
// a trailing ,00 so whole quantities print as integers.
func FormatNumber(v float64) string {
	s := amountPrinter.Sprintf("%.2f", v)
	if i := len(s) - 3; i > 0 && s[i:] == ",00" {
		return s[:i]
	}
	return s
}
