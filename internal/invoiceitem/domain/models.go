package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Kind tells catalog lines, which reference a product, from free-text lines.
type Kind string

const (
	KindCatalog  Kind = "catalog"
	KindFreeText Kind = "free_text"
)

// InvoiceItem is one line of an invoice. TaxableAmount, TaxAmount and
// LineTotal are always derived from the other amounts.
type InvoiceItem struct {
	ID                 snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID          snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	ProductID          *snowflake.ID   `gorm:"index" json:"product_id,omitempty"`
	Description        string          `gorm:"type:text;not null" json:"description"`
	HSNSAC             string          `gorm:"column:hsn_sac;type:text" json:"hsn_sac,omitempty"`
	Quantity           decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"quantity"`
	UnitPrice          decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"unit_price"`
	DiscountPercentage decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"discount_percentage"`
	DiscountAmount     decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"discount_amount"`
	TaxRate            decimal.Decimal `gorm:"type:numeric(5,2);not null;default:18" json:"tax_rate"`
	TaxableAmount      decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"taxable_amount"`
	TaxAmount          decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"tax_amount"`
	LineTotal          decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"line_total"`
}

func (InvoiceItem) TableName() string { return "invoice_items" }

func (i InvoiceItem) Kind() Kind {
	if i.ProductID == nil || *i.ProductID == 0 {
		return KindFreeText
	}
	return KindCatalog
}

// Line is an item as read back for display, with the product name joined.
type Line struct {
	InvoiceItem
	ProductName string `json:"product_name,omitempty"`
}
