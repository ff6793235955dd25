package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/ledgerbook/internal/invoiceitem/domain"
	"github.com/smallbiznis/ledgerbook/pkg/db"
	"gorm.io/gorm"
)

const selectLines = `SELECT ii.id, ii.invoice_id, ii.product_id, ii.description, ii.hsn_sac,
	ii.quantity, ii.unit_price, ii.discount_percentage, ii.discount_amount, ii.tax_rate,
	ii.taxable_amount, ii.tax_amount, ii.line_total, p.name AS product_name
	FROM invoice_items ii
	LEFT JOIN products p ON p.id = ii.product_id`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, item *domain.InvoiceItem) error {
	err := conn.WithContext(ctx).Exec(
		`INSERT INTO invoice_items (id, invoice_id, product_id, description, hsn_sac, quantity,
		 unit_price, discount_percentage, discount_amount, tax_rate, taxable_amount, tax_amount, line_total)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID,
		item.InvoiceID,
		item.ProductID,
		item.Description,
		item.HSNSAC,
		item.Quantity,
		item.UnitPrice,
		item.DiscountPercentage,
		item.DiscountAmount,
		item.TaxRate,
		item.TaxableAmount,
		item.TaxAmount,
		item.LineTotal,
	).Error
	return db.Translate("invoice_item", "insert invoice item", err)
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Line, error) {
	var line domain.Line
	err := conn.WithContext(ctx).Raw(selectLines+` WHERE ii.id = ?`, id).Scan(&line).Error
	if err != nil {
		return nil, db.Translate("invoice_item", "load invoice item", err)
	}
	if line.ID == 0 {
		return nil, nil
	}
	return &line, nil
}

func (r *repo) ListByInvoice(ctx context.Context, conn *gorm.DB, invoiceID snowflake.ID) ([]domain.Line, error) {
	lines := []domain.Line{}
	err := conn.WithContext(ctx).Raw(selectLines+` WHERE ii.invoice_id = ? ORDER BY ii.id`, invoiceID).Scan(&lines).Error
	if err != nil {
		return nil, db.Translate("invoice_item", "list invoice items", err)
	}
	return lines, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, id snowflake.ID, columns map[string]any) error {
	err := conn.WithContext(ctx).
		Model(&domain.InvoiceItem{}).
		Where("id = ?", id).
		Updates(columns).Error
	return db.Translate("invoice_item", "update invoice item", err)
}

func (r *repo) DeleteByInvoice(ctx context.Context, conn *gorm.DB, invoiceID snowflake.ID) (int64, error) {
	res := conn.WithContext(ctx).Exec(`DELETE FROM invoice_items WHERE invoice_id = ?`, invoiceID)
	if res.Error != nil {
		return 0, db.Translate("invoice_item", "delete invoice items", res.Error)
	}
	return res.RowsAffected, nil
}
