package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type StatusRow struct {
	Status      string
	Count       int64
	TotalAmount decimal.NullDecimal
	AmountPaid  decimal.NullDecimal
	BalanceDue  decimal.NullDecimal
}

type CollectionRow struct {
	Date       time.Time
	AmountPaid decimal.Decimal
}

type Repository interface {
	StatusTotals(ctx context.Context, db *gorm.DB) ([]StatusRow, error)
	Recent(ctx context.Context, db *gorm.DB, limit int) ([]RecentInvoice, error)
	CollectionsSince(ctx context.Context, db *gorm.DB, since time.Time) ([]CollectionRow, error)
	CountCustomers(ctx context.Context, db *gorm.DB) (int64, error)
	CountProducts(ctx context.Context, db *gorm.DB) (int64, error)
}
