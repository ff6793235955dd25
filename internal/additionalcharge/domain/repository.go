package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, charge *AdditionalCharge) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*AdditionalCharge, error)
	ListByInvoice(ctx context.Context, db *gorm.DB, invoiceID snowflake.ID) ([]AdditionalCharge, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (int64, error)
}
