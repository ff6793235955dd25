package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	// Latest returns nil when no settings were saved yet.
	Latest(ctx context.Context, db *gorm.DB) (*CompanySettings, error)
	Insert(ctx context.Context, db *gorm.DB, settings *CompanySettings) error
	Update(ctx context.Context, db *gorm.DB, id snowflake.ID, columns map[string]any) error
}
