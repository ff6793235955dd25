package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	invoicedomain "github.com/smallbiznis/ledgerbook/internal/invoice/domain"
)

const (
	lineHeight = 4.5
	smallText  = 8
	bodyText   = 9
)

var (
	bold      = props.Text{Style: fontstyle.Bold, Size: bodyText}
	body      = props.Text{Size: bodyText}
	cellLeft  = props.Text{Size: smallText}
	cellRight = props.Text{Size: smallText, Align: align.Right}
	headRight = props.Text{Size: smallText, Style: fontstyle.Bold, Align: align.Right}
	headLeft  = props.Text{Size: smallText, Style: fontstyle.Bold}
)

// RenderInvoice lays out a tax invoice: issuer and buyer blocks, logistics,
// the item and charge tables, the GST summary and payment instructions.
func (p *PDFProvider) RenderInvoice(ctx context.Context, doc invoicedomain.Document) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)
	inv := doc.Invoice

	addHeader(m, doc)
	addParties(m, doc)
	addLogistics(m, inv)
	addItems(m, inv)
	addCharges(m, inv)
	addTotals(m, inv)
	addFooter(m, doc)

	out, err := m.Generate()
	if err != nil {
		p.log.Warn("render failed", zap.String("invoice_number", inv.InvoiceNumber), zap.Error(err))
		return nil, fmt.Errorf("render invoice %s: %w", inv.InvoiceNumber, err)
	}
	return out.GetBytes(), nil
}

func addHeader(m core.Maroto, doc invoicedomain.Document) {
	var issuer []string
	name := "Tax Invoice"
	if c := doc.Company; c != nil {
		name = c.CompanyName
		issuer = append(issuer, nonEmpty(
			c.AddressLine1,
			c.AddressLine2,
			joinNonEmpty(", ", c.City, c.State, c.PostalCode),
			c.Country,
		)...)
		if c.GSTNumber != "" {
			issuer = append(issuer, "GSTIN: "+c.GSTNumber)
		}
		if c.PANNumber != "" {
			issuer = append(issuer, "PAN: "+c.PANNumber)
		}
		issuer = append(issuer, nonEmpty(joinNonEmpty(" | ", c.Phone, c.Email, c.Website))...)
	}

	inv := doc.Invoice
	meta := []string{
		"Invoice no: " + inv.InvoiceNumber,
		"Date: " + formatDate(inv.Date),
		"Due date: " + formatDate(inv.DueDate),
	}
	if inv.Status == invoicedomain.StatusCancelled {
		meta = append(meta, "CANCELLED")
	}

	m.AddRow(10,
		text.NewCol(8, name, props.Text{Size: 16, Style: fontstyle.Bold}),
		text.NewCol(4, "TAX INVOICE", props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Right}),
	)
	m.AddRow(rowHeight(len(issuer), len(meta)),
		stack(8, issuer, body),
		stack(4, meta, props.Text{Size: bodyText, Align: align.Right}),
	)
	m.AddRow(3, line.NewCol(12))
}

func addParties(m core.Maroto, doc invoicedomain.Document) {
	inv := doc.Invoice

	billTo := []string{inv.CustomerName}
	if c := doc.Customer; c != nil {
		billTo = append(billTo, addressLines(c.BillingAddress)...)
		if c.GSTNo != "" {
			billTo = append(billTo, "GSTIN: "+c.GSTNo)
		}
		billTo = append(billTo, nonEmpty(joinNonEmpty(" | ", c.Phone, c.Email))...)
	}

	shipTo := addressLines(inv.ShippingDetails)
	if inv.PlaceOfSupply != "" {
		shipTo = append(shipTo, "Place of supply: "+inv.PlaceOfSupply)
	}

	m.AddRow(6,
		text.NewCol(6, "Bill to", bold),
		text.NewCol(6, "Ship to", bold),
	)
	m.AddRow(rowHeight(len(billTo), len(shipTo)),
		stack(6, billTo, body),
		stack(6, shipTo, body),
	)
}

func addLogistics(m core.Maroto, inv invoicedomain.View) {
	fields := nonEmpty(
		labelled("PO no", inv.PONumber),
		labelled("PO date", formatOptionalDate(inv.PODate)),
		labelled("Transport", inv.TransportName),
		labelled("Vehicle no", inv.VehicleNumber),
		labelled("E-way bill", inv.EwayBillNumber),
		labelled("E-way bill date", formatOptionalDate(inv.EwayBillDate)),
	)
	if len(fields) == 0 {
		return
	}
	m.AddRow(lineHeight+2, text.NewCol(12, strings.Join(fields, "   "), cellLeft))
}

func addItems(m core.Maroto, inv invoicedomain.View) {
	m.AddRow(3, line.NewCol(12))
	m.AddRow(6,
		text.NewCol(1, "#", headLeft),
		text.NewCol(3, "Description", headLeft),
		text.NewCol(1, "HSN/SAC", headLeft),
		text.NewCol(1, "Qty", headRight),
		text.NewCol(1, "Rate", headRight),
		text.NewCol(1, "Disc.", headRight),
		text.NewCol(1, "Taxable", headRight),
		text.NewCol(1, "GST %", headRight),
		text.NewCol(1, "GST", headRight),
		text.NewCol(1, "Amount", headRight),
	)

	for i, item := range inv.Items {
		description := item.Description
		if description == "" {
			description = item.ProductName
		}
		discount := item.DiscountAmount
		if item.DiscountPercentage.IsPositive() {
			discount = item.Quantity.Mul(item.UnitPrice).Mul(item.DiscountPercentage).Div(decimal.NewFromInt(100)).Add(item.DiscountAmount)
		}
		m.AddRow(6,
			text.NewCol(1, fmt.Sprintf("%d", i+1), cellLeft),
			text.NewCol(3, description, cellLeft),
			text.NewCol(1, item.HSNSAC, cellLeft),
			text.NewCol(1, item.Quantity.String(), cellRight),
			text.NewCol(1, FormatINR(item.UnitPrice), cellRight),
			text.NewCol(1, FormatINR(discount), cellRight),
			text.NewCol(1, FormatINR(item.TaxableAmount), cellRight),
			text.NewCol(1, item.TaxRate.String(), cellRight),
			text.NewCol(1, FormatINR(item.TaxAmount), cellRight),
			text.NewCol(1, FormatINR(item.LineTotal), cellRight),
		)
	}
	m.AddRow(3, line.NewCol(12))
}

func addCharges(m core.Maroto, inv invoicedomain.View) {
	if len(inv.AdditionalCharges) == 0 {
		return
	}
	m.AddRow(6,
		text.NewCol(6, "Additional charges", headLeft),
		text.NewCol(2, "Amount", headRight),
		text.NewCol(2, "GST", headRight),
		text.NewCol(2, "Total", headRight),
	)
	for _, charge := range inv.AdditionalCharges {
		m.AddRow(6,
			text.NewCol(6, charge.ChargeName, cellLeft),
			text.NewCol(2, FormatINR(charge.ChargeAmount), cellRight),
			text.NewCol(2, FormatINR(charge.TaxAmount), cellRight),
			text.NewCol(2, FormatINR(charge.TotalAmount), cellRight),
		)
	}
	m.AddRow(3, line.NewCol(12))
}

func addTotals(m core.Maroto, inv invoicedomain.View) {
	total := func(label string, amount decimal.Decimal, emphasis bool) {
		labelProps, amountProps := body, props.Text{Size: bodyText, Align: align.Right}
		if emphasis {
			labelProps = bold
			amountProps.Style = fontstyle.Bold
		}
		m.AddRow(lineHeight+1,
			col.New(7),
			text.NewCol(3, label, labelProps),
			text.NewCol(2, FormatINR(amount), amountProps),
		)
	}

	total("Subtotal", inv.Subtotal, false)
	if inv.IGSTAmount.IsPositive() {
		total("IGST @ "+inv.IGSTRate.String()+"%", inv.IGSTAmount, false)
	} else {
		total("CGST @ "+inv.CGSTRate.String()+"%", inv.CGSTAmount, false)
		total("SGST @ "+inv.SGSTRate.String()+"%", inv.SGSTAmount, false)
	}
	if inv.ChargesTotal.IsPositive() {
		total("Additional charges", inv.ChargesTotal, false)
	}
	total("Total (INR)", inv.TotalAmount, true)
	if !inv.RoundOff.IsZero() {
		total("Round off", inv.RoundOff, false)
		total("Rounded total", inv.TotalAmount.Add(inv.RoundOff), false)
	}
	if inv.AmountPaid.IsPositive() {
		total("Amount paid", inv.AmountPaid, false)
	}
	total("Balance due", inv.BalanceDue, true)
}

func addFooter(m core.Maroto, doc invoicedomain.Document) {
	inv := doc.Invoice
	if inv.Notes != "" {
		m.AddRow(6, text.NewCol(12, "Notes", bold))
		m.AddRow(lineHeight+2, text.NewCol(12, inv.Notes, cellLeft))
	}

	c := doc.Company
	terms := inv.Terms
	if terms == "" && c != nil {
		terms = c.TermsAndConditions
	}
	if terms != "" {
		m.AddRow(6, text.NewCol(12, "Terms and conditions", bold))
		m.AddRow(lineHeight*2, text.NewCol(12, terms, cellLeft))
	}
	if c == nil {
		return
	}

	bank := nonEmpty(
		labelled("Bank", c.BankName),
		labelled("Account name", c.BankAccountName),
		labelled("Account no", c.BankAccountNumber),
		labelled("IFSC", c.BankIFSCCode),
		labelled("Branch", c.BankBranch),
	)
	signatory := []string{"For " + c.CompanyName}
	if c.AuthorizedSignatory != "" {
		signatory = append(signatory, "", "", c.AuthorizedSignatory)
	}
	signatory = append(signatory, "Authorised signatory")

	m.AddRow(6,
		text.NewCol(7, "Bank details", bold),
		col.New(5),
	)
	m.AddRow(rowHeight(len(bank), len(signatory)),
		stack(7, bank, cellLeft),
		stack(5, signatory, props.Text{Size: smallText, Align: align.Right}),
	)
}

// stack places lines one under the other in a single column.
func stack(size int, lines []string, style props.Text) core.Col {
	c := col.New(size)
	for i, l := range lines {
		ps := style
		ps.Top = float64(i) * lineHeight
		c.Add(text.New(l, ps))
	}
	return c
}

func rowHeight(counts ...int) float64 {
	most := 1
	for _, n := range counts {
		if n > most {
			most = n
		}
	}
	return float64(most)*lineHeight + 2
}

func labelled(label, value string) string {
	if value == "" {
		return ""
	}
	return label + ": " + value
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}
