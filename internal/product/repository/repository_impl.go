package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/ledgerbook/internal/product/domain"
	"github.com/smallbiznis/ledgerbook/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, conn *gorm.DB, product *domain.Product) error {
	err := conn.WithContext(ctx).Exec(
		`INSERT INTO products (id, name, description, hsn_sac, price, tax_rate, unit, is_taxable,
		 category, category_slug, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		product.ID,
		product.Name,
		product.Description,
		product.HSNSAC,
		product.Price,
		product.TaxRate,
		product.Unit,
		product.IsTaxable,
		product.Category,
		product.CategorySlug,
		product.IsActive,
		product.CreatedAt,
		product.UpdatedAt,
	).Error
	return db.Translate("product", "insert product", err)
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Product, error) {
	var product domain.Product
	err := conn.WithContext(ctx).Raw(
		`SELECT id, name, description, hsn_sac, price, tax_rate, unit, is_taxable,
		 category, category_slug, is_active, created_at, updated_at
		 FROM products WHERE id = ?`,
		id,
	).Scan(&product).Error
	if err != nil {
		return nil, db.Translate("product", "load product", err)
	}
	if product.ID == 0 {
		return nil, nil
	}
	return &product, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListRequest) ([]domain.Product, error) {
	stmt := conn.WithContext(ctx).Model(&domain.Product{})
	if !filter.IncludeInactive {
		stmt = stmt.Where("is_active = ?", true)
	}
	if filter.Category != "" {
		stmt = stmt.Where("category_slug = ?", filter.Category)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := "%" + search + "%"
		stmt = stmt.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern, pattern)
	}

	var items []domain.Product
	if err := stmt.Order("name asc, id asc").Find(&items).Error; err != nil {
		return nil, db.Translate("product", "list products", err)
	}
	return items, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, id snowflake.ID, columns map[string]any) error {
	err := conn.WithContext(ctx).
		Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(columns).Error
	return db.Translate("product", "update product", err)
}

func (r *repo) CountActive(ctx context.Context, conn *gorm.DB) (int64, error) {
	var count int64
	err := conn.WithContext(ctx).Raw(`SELECT COUNT(*) FROM products WHERE is_active = ?`, true).Scan(&count).Error
	return count, db.Translate("product", "count products", err)
}
