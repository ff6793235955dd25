package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentTotals are the sums of payments recorded against one invoice.
type PaymentTotals struct {
	Paid     decimal.Decimal
	Refunded decimal.Decimal
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	NextSeq(ctx context.Context, db *gorm.DB) (int64, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Summary, error)
	// FindForUpdate locks the header row where the dialect supports it.
	FindForUpdate(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB) ([]Summary, error)
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, columns map[string]any) error
	SumPayments(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) (PaymentTotals, error)
	// ListPastDue returns open invoices whose due date is before asOf and
	// that still carry a balance, oldest due date first.
	ListPastDue(ctx context.Context, db *gorm.DB, asOf time.Time, limit int) ([]snowflake.ID, error)
}
