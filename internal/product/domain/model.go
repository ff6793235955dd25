package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID           snowflake.ID    `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"type:text;not null"`
	Description  string          `json:"description" gorm:"type:text"`
	HSNSAC       string          `json:"hsn_sac" gorm:"column:hsn_sac;type:text"`
	Price        decimal.Decimal `json:"price" gorm:"type:numeric(18,4);not null;default:0"`
	TaxRate      decimal.Decimal `json:"tax_rate" gorm:"type:numeric(5,2);not null;default:18"`
	Unit         string          `json:"unit" gorm:"type:text;not null;default:'NOS'"`
	IsTaxable    bool            `json:"is_taxable" gorm:"not null;default:true"`
	Category     string          `json:"category" gorm:"type:text"`
	CategorySlug string          `json:"category_slug" gorm:"type:text;index"`
	IsActive     bool            `json:"is_active" gorm:"not null;default:true;index"`
	CreatedAt    time.Time       `json:"created_at" gorm:"not null"`
	UpdatedAt    time.Time       `json:"updated_at" gorm:"not null"`
}

func (Product) TableName() string { return "products" }
