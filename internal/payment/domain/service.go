package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
)

const DefaultRefundReason = "No reason provided"

type ListRequest struct {
	CustomerID string
	InvoiceID  string
}

type CreateRequest struct {
	CustomerID string
	InvoiceID  string
	Amount     decimal.Decimal
	Date       *time.Time
	Method     string
	Reference  string
	Notes      string
	IsAdvance  bool
}

// UpdateRequest patches a payment. The customer, invoice and refund link
// are fixed once recorded.
type UpdateRequest struct {
	Amount    *decimal.Decimal
	Date      *time.Time
	Method    *string
	Reference *string
	Notes     *string
	IsAdvance *bool
}

type Service interface {
	List(ctx context.Context, req ListRequest) ([]Payment, error)
	GetByID(ctx context.Context, id string) (Payment, error)
	Create(ctx context.Context, req CreateRequest) (Payment, error)
	Update(ctx context.Context, id string, req UpdateRequest) (Payment, error)
	Refund(ctx context.Context, id string, reason string) (Payment, error)
}

var ErrNotFound = apperr.NotFound("payment")
