package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Customer struct {
	ID              snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name            string            `gorm:"not null" json:"name"`
	Contact         string            `json:"contact,omitempty"`
	Email           string            `json:"email,omitempty"`
	Phone           string            `json:"phone,omitempty"`
	BillingAddress  datatypes.JSONMap `json:"billing_address,omitempty"`
	ShippingAddress datatypes.JSONMap `json:"shipping_address,omitempty"`
	GSTNo           string            `gorm:"column:gst_no" json:"gst_no,omitempty"`
	PlaceOfSupply   string            `json:"place_of_supply,omitempty"`
	PaymentTerms    int               `gorm:"not null;default:15" json:"payment_terms"`
	CreditLimit     decimal.Decimal   `gorm:"type:numeric(18,4);not null;default:0" json:"credit_limit"`
	CompanyType     string            `json:"company_type,omitempty"`
	Notes           string            `json:"notes,omitempty"`
	IsActive        bool              `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt       time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null" json:"updated_at"`
}

func (Customer) TableName() string { return "customers" }
