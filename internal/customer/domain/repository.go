package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, customer *Customer) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Customer, error)
	List(ctx context.Context, db *gorm.DB, filter ListCustomerFilter) ([]Customer, error)
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, columns map[string]any) (int64, error)
	CountActive(ctx context.Context, db *gorm.DB) (int64, error)
}
