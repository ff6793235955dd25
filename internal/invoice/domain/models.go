package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	chargedomain "github.com/smallbiznis/ledgerbook/internal/additionalcharge/domain"
	itemdomain "github.com/smallbiznis/ledgerbook/internal/invoiceitem/domain"
	"gorm.io/datatypes"
)

type InvoiceStatus string

const (
	StatusDraft         InvoiceStatus = "draft"
	StatusSent          InvoiceStatus = "sent"
	StatusPartiallyPaid InvoiceStatus = "partially_paid"
	StatusPaid          InvoiceStatus = "paid"
	StatusOverdue       InvoiceStatus = "overdue"
	StatusCancelled     InvoiceStatus = "cancelled"
)

const (
	DefaultInvoiceType  = "sales"
	DefaultCancelReason = "No reason provided"
)

// Invoice is the persisted header. Amount columns are derived from the
// owned items and charges and are rewritten on every mutation.
type Invoice struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"id"`
	InvoiceNumber   string            `gorm:"type:text;not null;uniqueIndex" json:"invoice_number"`
	InvoiceSeq      int64             `gorm:"not null;uniqueIndex" json:"-"`
	CustomerID      snowflake.ID      `gorm:"not null;index" json:"customer_id"`
	Date            time.Time         `gorm:"column:date;type:date;not null" json:"date"`
	DueDate         time.Time         `gorm:"type:date;not null" json:"due_date"`
	Status          InvoiceStatus     `gorm:"type:text;not null;default:draft;index" json:"status"`
	Subtotal        decimal.Decimal   `gorm:"type:numeric(18,4);not null;default:0" json:"subtotal"`
	TaxAmount       decimal.Decimal   `gorm:"type:numeric(18,4);not null;default:0" json:"tax_amount"`
	TotalAmount     decimal.Decimal   `gorm:"type:numeric(18,4);not null;default:0" json:"total_amount"`
	AmountPaid      decimal.Decimal   `gorm:"type:numeric(18,4);not null;default:0" json:"amount_paid"`
	BalanceDue      decimal.Decimal   `gorm:"type:numeric(18,4);not null;default:0" json:"balance_due"`
	ChargesTotal    decimal.Decimal   `gorm:"type:numeric(18,4);not null;default:0" json:"charges_total"`
	CGSTRate        decimal.Decimal   `gorm:"column:cgst_rate;type:numeric(5,2);not null;default:0" json:"cgst_rate"`
	CGSTAmount      decimal.Decimal   `gorm:"column:cgst_amount;type:numeric(18,4);not null;default:0" json:"cgst_amount"`
	SGSTRate        decimal.Decimal   `gorm:"column:sgst_rate;type:numeric(5,2);not null;default:0" json:"sgst_rate"`
	SGSTAmount      decimal.Decimal   `gorm:"column:sgst_amount;type:numeric(18,4);not null;default:0" json:"sgst_amount"`
	IGSTRate        decimal.Decimal   `gorm:"column:igst_rate;type:numeric(5,2);not null;default:0" json:"igst_rate"`
	IGSTAmount      decimal.Decimal   `gorm:"column:igst_amount;type:numeric(18,4);not null;default:0" json:"igst_amount"`
	RoundOff        decimal.Decimal   `gorm:"type:numeric(18,4);not null;default:0" json:"round_off"`
	PONumber        string            `gorm:"column:po_number;type:text" json:"po_number,omitempty"`
	PODate          *time.Time        `gorm:"column:po_date;type:date" json:"po_date,omitempty"`
	TransportName   string            `gorm:"type:text" json:"transport_name,omitempty"`
	VehicleNumber   string            `gorm:"type:text" json:"vehicle_number,omitempty"`
	EwayBillNumber  string            `gorm:"type:text" json:"eway_bill_number,omitempty"`
	EwayBillDate    *time.Time        `gorm:"type:date" json:"eway_bill_date,omitempty"`
	ShippingDetails datatypes.JSONMap `json:"shipping_details,omitempty"`
	PlaceOfSupply   string            `gorm:"type:text" json:"place_of_supply,omitempty"`
	Notes           string            `gorm:"type:text" json:"notes,omitempty"`
	Terms           string            `gorm:"type:text" json:"terms,omitempty"`
	InvoiceType     string            `gorm:"type:text;not null;default:sales" json:"invoice_type"`
	IsTemplate      bool              `gorm:"not null;default:false" json:"is_template"`
	CancelReason    *string           `gorm:"type:text" json:"cancel_reason,omitempty"`
	CreatedAt       time.Time         `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }

// Summary is an invoice header with the customer name joined, as listed.
type Summary struct {
	Invoice
	CustomerName string `json:"customer_name,omitempty"`
}

// View is the fully assembled invoice returned by reads and writes.
type View struct {
	Summary
	Items             []itemdomain.Line               `json:"items"`
	AdditionalCharges []chargedomain.AdditionalCharge `json:"additional_charges"`
}
