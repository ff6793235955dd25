package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Payment is money received from, or refunded to, a customer. Rows are
// never deleted; a refund is a separate row pointing at the original.
type Payment struct {
	ID         snowflake.ID    `gorm:"primaryKey" json:"id"`
	CustomerID snowflake.ID    `gorm:"not null;index" json:"customer_id"`
	InvoiceID  *snowflake.ID   `gorm:"index" json:"invoice_id,omitempty"`
	Amount     decimal.Decimal `gorm:"type:numeric(18,4);not null" json:"amount"`
	Date       time.Time       `gorm:"column:date;type:date;not null" json:"date"`
	Method     string          `gorm:"type:text;not null" json:"method"`
	Reference  string          `gorm:"type:text" json:"reference,omitempty"`
	Notes      string          `gorm:"type:text" json:"notes,omitempty"`
	IsRefund   bool            `gorm:"not null;default:false" json:"is_refund"`
	IsAdvance  bool            `gorm:"not null;default:false" json:"is_advance"`
	RefundOf   *snowflake.ID   `gorm:"index" json:"refund_of,omitempty"`
	CreatedAt  time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }
