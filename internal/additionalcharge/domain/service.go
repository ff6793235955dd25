package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
	"gorm.io/gorm"
)

type CreateRequest struct {
	ChargeName   string
	ChargeAmount decimal.Decimal
	IsTaxable    bool
	TaxRate      decimal.Decimal
}

// Service stores charges. Charges cannot be edited, only removed and added
// again.
type Service interface {
	WithTx(tx *gorm.DB) Service
	Create(ctx context.Context, invoiceID snowflake.ID, req CreateRequest) (AdditionalCharge, error)
	GetByID(ctx context.Context, chargeID snowflake.ID) (AdditionalCharge, error)
	ListByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]AdditionalCharge, error)
	DeleteByID(ctx context.Context, chargeID snowflake.ID) error
}

var ErrNotFound = apperr.NotFound("additional_charge")
