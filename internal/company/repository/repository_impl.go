package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/ledgerbook/internal/company/domain"
	"github.com/smallbiznis/ledgerbook/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Latest(ctx context.Context, conn *gorm.DB) (*domain.CompanySettings, error) {
	var settings domain.CompanySettings
	err := conn.WithContext(ctx).
		Model(&domain.CompanySettings{}).
		Order("created_at desc, id desc").
		Limit(1).
		Find(&settings).Error
	if err != nil {
		return nil, db.Translate("company_settings", "load company settings", err)
	}
	if settings.ID == 0 {
		return nil, nil
	}
	return &settings, nil
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, settings *domain.CompanySettings) error {
	err := conn.WithContext(ctx).Create(settings).Error
	return db.Translate("company_settings", "insert company settings", err)
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, id snowflake.ID, columns map[string]any) error {
	err := conn.WithContext(ctx).
		Model(&domain.CompanySettings{}).
		Where("id = ?", id).
		Updates(columns).Error
	return db.Translate("company_settings", "update company settings", err)
}
