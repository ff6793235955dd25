package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
	"gorm.io/gorm"
)

// CreateRequest describes a new line. Nil amounts fall back to the product
// (when ProductID is set) or to zero and the default tax rate.
type CreateRequest struct {
	ProductID          string
	Description        string
	HSNSAC             string
	Quantity           decimal.Decimal
	UnitPrice          *decimal.Decimal
	DiscountPercentage *decimal.Decimal
	DiscountAmount     *decimal.Decimal
	TaxRate            *decimal.Decimal
}

// UpdateRequest patches a line. An empty ProductID turns it into a free-text
// line.
type UpdateRequest struct {
	ProductID          *string
	Description        *string
	HSNSAC             *string
	Quantity           *decimal.Decimal
	UnitPrice          *decimal.Decimal
	DiscountPercentage *decimal.Decimal
	DiscountAmount     *decimal.Decimal
	TaxRate            *decimal.Decimal
}

// Service stores invoice lines. It never touches the owning invoice; totals
// are recomputed by the invoice aggregate.
type Service interface {
	WithTx(tx *gorm.DB) Service
	ListByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]Line, error)
	GetByID(ctx context.Context, itemID snowflake.ID) (Line, error)
	Create(ctx context.Context, invoiceID snowflake.ID, req CreateRequest) (InvoiceItem, error)
	Update(ctx context.Context, itemID snowflake.ID, req UpdateRequest) (InvoiceItem, error)
	DeleteAllForInvoice(ctx context.Context, invoiceID snowflake.ID) (int64, error)
}

var ErrNotFound = apperr.NotFound("invoice_item")
