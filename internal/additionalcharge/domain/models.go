package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// AdditionalCharge is a non-item amount on an invoice such as freight or
// packing.
type AdditionalCharge struct {
	ID           snowflake.ID    `gorm:"primaryKey" json:"id"`
	InvoiceID    snowflake.ID    `gorm:"not null;index" json:"invoice_id"`
	ChargeName   string          `gorm:"type:text;not null" json:"charge_name"`
	ChargeAmount decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"charge_amount"`
	IsTaxable    bool            `gorm:"not null;default:false" json:"is_taxable"`
	TaxRate      decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0" json:"tax_rate"`
	TaxAmount    decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"tax_amount"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"total_amount"`
	CreatedAt    time.Time       `gorm:"not null" json:"created_at"`
}

func (AdditionalCharge) TableName() string { return "additional_charges" }
