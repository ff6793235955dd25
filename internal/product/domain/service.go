package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
)

const DefaultUnit = "NOS"

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Archive(ctx context.Context, id string) error
}

type ListRequest struct {
	Search          string
	Category        string
	IncludeInactive bool
}

type CreateRequest struct {
	Name        string
	Description string
	HSNSAC      string
	Price       decimal.Decimal
	TaxRate     *decimal.Decimal
	Unit        string
	IsTaxable   *bool
	Category    string
}

type UpdateRequest struct {
	Name        *string
	Description *string
	HSNSAC      *string
	Price       *decimal.Decimal
	TaxRate     *decimal.Decimal
	Unit        *string
	IsTaxable   *bool
	Category    *string
	IsActive    *bool
}

type Response struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	HSNSAC       string          `json:"hsn_sac,omitempty"`
	Price        decimal.Decimal `json:"price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	Unit         string          `json:"unit"`
	IsTaxable    bool            `json:"is_taxable"`
	Category     string          `json:"category,omitempty"`
	CategorySlug string          `json:"category_slug,omitempty"`
	IsActive     bool            `json:"is_active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

var ErrNotFound = apperr.NotFound("product")
