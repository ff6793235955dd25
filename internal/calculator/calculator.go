// Package calculator computes line, charge and invoice amounts.
// Money is rounded to two decimal places, half away from zero, at the point
// each figure is produced so that sums of stored values stay exact.
package calculator

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
)

const moneyPlaces = 2

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// DefaultTaxRate applies to lines and products created without a rate.
var DefaultTaxRate = decimal.NewFromInt(18)

// ChargesPolicy decides how additional charges reach the invoice header.
type ChargesPolicy string

const (
	// ChargesSeparate keeps charges in their own total added to the grand total.
	ChargesSeparate ChargesPolicy = "separate"
	// ChargesFolded adds charge amounts to subtotal and charge tax to tax_amount.
	ChargesFolded ChargesPolicy = "folded"
)

// ParseChargesPolicy falls back to ChargesSeparate for unknown values.
func ParseChargesPolicy(raw string) ChargesPolicy {
	switch ChargesPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case ChargesFolded:
		return ChargesFolded
	default:
		return ChargesSeparate
	}
}

type LineInput struct {
	Quantity           decimal.Decimal
	UnitPrice          decimal.Decimal
	DiscountPercentage decimal.Decimal
	DiscountAmount     decimal.Decimal
	TaxRate            decimal.Decimal
}

type LineAmounts struct {
	TaxableAmount decimal.Decimal
	TaxAmount     decimal.Decimal
	LineTotal     decimal.Decimal
}

type ChargeAmounts struct {
	Amount      decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

type Totals struct {
	Subtotal     decimal.Decimal
	TaxAmount    decimal.Decimal
	ChargesTotal decimal.Decimal
	TotalAmount  decimal.Decimal
}

// GSTBreakdown splits an invoice tax amount into its GST components.
type GSTBreakdown struct {
	CGSTRate   decimal.Decimal
	CGSTAmount decimal.Decimal
	SGSTRate   decimal.Decimal
	SGSTAmount decimal.Decimal
	IGSTRate   decimal.Decimal
	IGSTAmount decimal.Decimal
}

// ComputeLineAmounts derives taxable, tax and total for one line item.
func ComputeLineAmounts(in LineInput) (LineAmounts, error) {
	if !in.Quantity.IsPositive() {
		return LineAmounts{}, apperr.Invalid("quantity", "must be greater than zero")
	}
	if in.UnitPrice.IsNegative() {
		return LineAmounts{}, apperr.Invalid("unit_price", "must be zero or greater")
	}
	if !withinPercent(in.DiscountPercentage) {
		return LineAmounts{}, apperr.Invalid("discount_percentage", "must be between 0 and 100")
	}
	if in.DiscountAmount.IsNegative() {
		return LineAmounts{}, apperr.Invalid("discount_amount", "must be zero or greater")
	}
	if !withinPercent(in.TaxRate) {
		return LineAmounts{}, apperr.Invalid("tax_rate", "must be between 0 and 100")
	}

	gross := in.Quantity.Mul(in.UnitPrice)
	percentOff := gross.Mul(in.DiscountPercentage).Div(hundred)
	taxable := round(gross.Sub(in.DiscountAmount).Sub(percentOff))
	if taxable.IsNegative() {
		return LineAmounts{}, apperr.Invalid("discount_amount", "discounts exceed the line amount")
	}

	tax := round(taxable.Mul(in.TaxRate).Div(hundred))
	return LineAmounts{
		TaxableAmount: taxable,
		TaxAmount:     tax,
		LineTotal:     taxable.Add(tax),
	}, nil
}

// ComputeChargeAmounts derives tax and total for an additional charge.
func ComputeChargeAmounts(amount decimal.Decimal, isTaxable bool, taxRate decimal.Decimal) (ChargeAmounts, error) {
	if amount.IsNegative() {
		return ChargeAmounts{}, apperr.Invalid("charge_amount", "must be zero or greater")
	}
	if !withinPercent(taxRate) {
		return ChargeAmounts{}, apperr.Invalid("tax_rate", "must be between 0 and 100")
	}

	amount = round(amount)
	tax := decimal.Zero
	if isTaxable {
		tax = round(amount.Mul(taxRate).Div(hundred))
	}
	return ChargeAmounts{Amount: amount, TaxAmount: tax, TotalAmount: amount.Add(tax)}, nil
}

// ChargeLine is the part of a persisted charge the aggregation needs.
type ChargeLine struct {
	Amount    decimal.Decimal
	TaxAmount decimal.Decimal
}

// AggregateInvoiceTotals sums persisted lines and charges into header totals.
func AggregateInvoiceTotals(lines []LineAmounts, charges []ChargeLine, policy ChargesPolicy) Totals {
	subtotal := decimal.Zero
	tax := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.TaxableAmount)
		tax = tax.Add(line.TaxAmount)
	}

	chargesTotal := decimal.Zero
	for _, charge := range charges {
		if policy == ChargesFolded {
			subtotal = subtotal.Add(charge.Amount)
			tax = tax.Add(charge.TaxAmount)
			continue
		}
		chargesTotal = chargesTotal.Add(charge.Amount).Add(charge.TaxAmount)
	}

	return Totals{
		Subtotal:     subtotal,
		TaxAmount:    tax,
		ChargesTotal: chargesTotal,
		TotalAmount:  subtotal.Add(tax).Add(chargesTotal),
	}
}

// SplitGST divides tax into CGST+SGST for intra-state supply or IGST
// otherwise. Rates are the effective rate over subtotal.
func SplitGST(tax, subtotal decimal.Decimal, intraState bool) GSTBreakdown {
	rate := decimal.Zero
	if subtotal.IsPositive() {
		rate = tax.Mul(hundred).Div(subtotal).Round(moneyPlaces)
	}
	if !intraState {
		return GSTBreakdown{IGSTRate: rate, IGSTAmount: tax}
	}

	half := rate.Div(two).Round(moneyPlaces)
	cgst := tax.Div(two).RoundDown(moneyPlaces)
	return GSTBreakdown{
		CGSTRate:   half,
		CGSTAmount: cgst,
		SGSTRate:   half,
		SGSTAmount: tax.Sub(cgst),
	}
}

// RoundOff is the adjustment that would bring total to the nearest rupee.
func RoundOff(total decimal.Decimal) decimal.Decimal {
	return total.Round(0).Sub(total)
}

// BalanceDue is negative when the customer has overpaid.
func BalanceDue(total, paid decimal.Decimal) decimal.Decimal {
	return total.Sub(paid)
}

func withinPercent(v decimal.Decimal) bool {
	return !v.IsNegative() && v.LessThanOrEqual(hundred)
}

func round(v decimal.Decimal) decimal.Decimal {
	return v.Round(moneyPlaces)
}
