package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	chargedomain "github.com/smallbiznis/ledgerbook/internal/additionalcharge/domain"
	companydomain "github.com/smallbiznis/ledgerbook/internal/company/domain"
	customerdomain "github.com/smallbiznis/ledgerbook/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/ledgerbook/internal/invoice/domain"
	itemdomain "github.com/smallbiznis/ledgerbook/internal/invoiceitem/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func sampleDocument() invoicedomain.Document {
	date := time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC)
	po := date.AddDate(0, 0, -3)

	view := invoicedomain.View{
		Summary: invoicedomain.Summary{
			Invoice: invoicedomain.Invoice{
				ID:              snowflake.ID(1),
				InvoiceNumber:   "INV-2025-26-0001",
				Date:            date,
				DueDate:         date.AddDate(0, 0, 15),
				Status:          invoicedomain.StatusSent,
				Subtotal:        d("200"),
				TaxAmount:       d("36"),
				ChargesTotal:    d("590"),
				TotalAmount:     d("826"),
				BalanceDue:      d("826"),
				CGSTRate:        d("9"),
				CGSTAmount:      d("18"),
				SGSTRate:        d("9"),
				SGSTAmount:      d("18"),
				PONumber:        "PO-77",
				PODate:          &po,
				ShippingDetails: datatypes.JSONMap{"city": "Rajkot", "state": "Gujarat", "pincode": "360001"},
				PlaceOfSupply:   "Gujarat",
			},
			CustomerName: "Kothari Textiles",
		},
		Items: []itemdomain.Line{{
			InvoiceItem: itemdomain.InvoiceItem{
				Description:   "Cotton yarn",
				HSNSAC:        "5205",
				Quantity:      d("2"),
				UnitPrice:     d("100"),
				TaxRate:       d("18"),
				TaxableAmount: d("200"),
				TaxAmount:     d("36"),
				LineTotal:     d("236"),
			},
		}},
		AdditionalCharges: []chargedomain.AdditionalCharge{{
			ChargeName:   "Freight",
			ChargeAmount: d("500"),
			TaxAmount:    d("90"),
			TotalAmount:  d("590"),
		}},
	}

	return invoicedomain.Document{
		Invoice:  view,
		Customer: &customerdomain.Customer{Name: "Kothari Textiles", GSTNo: "24AAACK1234F1Z5", BillingAddress: datatypes.JSONMap{"city": "Rajkot"}},
		Company: &companydomain.CompanySettings{
			CompanyName:       "Shree Traders",
			City:              "Ahmedabad",
			State:             "Gujarat",
			GSTNumber:         "24AAACS9999K1Z2",
			BankName:          "State Bank of India",
			BankAccountNumber: "00112233",
			BankIFSCCode:      "SBIN0000001",
		},
	}
}

func TestRenderInvoiceProducesPDF(t *testing.T) {
	renderer := New(zap.NewNop())

	out, err := renderer.RenderInvoice(context.Background(), sampleDocument())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderInvoiceWithoutCompanySettings(t *testing.T) {
	doc := sampleDocument()
	doc.Company = nil
	doc.Customer = nil
	doc.Invoice.AdditionalCharges = nil

	out, err := New(zap.NewNop()).RenderInvoice(context.Background(), doc)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestRenderInvoiceHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(zap.NewNop()).RenderInvoice(ctx, sampleDocument())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFormatINR(t *testing.T) {
	tests := map[string]string{
		"0":          "0.00",
		"999":        "999.00",
		"1000":       "1,000.00",
		"123456.789": "1,23,456.79",
		"1234567.5":  "12,34,567.50",
		"-4500":      "-4,500.00",
		"-0.001":     "0.00",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatINR(d(in)), in)
	}
}

func TestAddressLines(t *testing.T) {
	lines := addressLines(datatypes.JSONMap{
		"line1":   "12 Mill Road",
		"city":    "Rajkot",
		"state":   "Gujarat",
		"pincode": "360001",
		"country": "India",
		"extra":   "ignored",
	})
	assert.Equal(t, []string{"12 Mill Road", "Rajkot, Gujarat - 360001", "India"}, lines)
	assert.Empty(t, addressLines(nil))
}
