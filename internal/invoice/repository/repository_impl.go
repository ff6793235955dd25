package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerbook/internal/invoice/domain"
	"github.com/smallbiznis/ledgerbook/pkg/db"
	"gorm.io/gorm"
)

const summaryColumns = `i.*, c.name AS customer_name`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, invoice *domain.Invoice) error {
	err := conn.WithContext(ctx).Create(invoice).Error
	return db.Translate("invoice", "insert invoice", err)
}

func (r *repo) NextSeq(ctx context.Context, conn *gorm.DB) (int64, error) {
	var next int64
	err := conn.WithContext(ctx).Raw(
		`SELECT COALESCE(MAX(invoice_seq), 0) + 1 FROM invoices`,
	).Scan(&next).Error
	if err != nil {
		return 0, db.Translate("invoice", "next invoice sequence", err)
	}
	return next, nil
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Summary, error) {
	var summary domain.Summary
	err := conn.WithContext(ctx).Raw(
		`SELECT `+summaryColumns+`
		 FROM invoices i
		 LEFT JOIN customers c ON c.id = i.customer_id
		 WHERE i.id = ?`,
		id,
	).Scan(&summary).Error
	if err != nil {
		return nil, db.Translate("invoice", "load invoice", err)
	}
	if summary.ID == 0 {
		return nil, nil
	}
	return &summary, nil
}

func (r *repo) FindForUpdate(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := conn.WithContext(ctx).Raw(
		`SELECT * FROM invoices WHERE id = ?`+db.ForUpdate(conn),
		id,
	).Scan(&invoice).Error
	if err != nil {
		return nil, db.Translate("invoice", "lock invoice", err)
	}
	if invoice.ID == 0 {
		return nil, nil
	}
	return &invoice, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB) ([]domain.Summary, error) {
	summaries := []domain.Summary{}
	err := conn.WithContext(ctx).Raw(
		`SELECT ` + summaryColumns + `
		 FROM invoices i
		 LEFT JOIN customers c ON c.id = i.customer_id
		 ORDER BY i.created_at DESC, i.id DESC`,
	).Scan(&summaries).Error
	if err != nil {
		return nil, db.Translate("invoice", "list invoices", err)
	}
	return summaries, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, id snowflake.ID, columns map[string]any) error {
	err := conn.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ?", id).
		Updates(columns).Error
	return db.Translate("invoice", "update invoice", err)
}

func (r *repo) SumPayments(ctx context.Context, conn *gorm.DB, invoiceID snowflake.ID) (domain.PaymentTotals, error) {
	var row struct {
		Paid     decimal.NullDecimal
		Refunded decimal.NullDecimal
	}
	err := conn.WithContext(ctx).Raw(
		`SELECT
		   SUM(CASE WHEN is_refund THEN 0 ELSE amount END) AS paid,
		   SUM(CASE WHEN is_refund THEN amount ELSE 0 END) AS refunded
		 FROM payments
		 WHERE invoice_id = ?`,
		invoiceID,
	).Scan(&row).Error
	if err != nil {
		return domain.PaymentTotals{}, db.Translate("payment", "sum payments", err)
	}
	return domain.PaymentTotals{
		Paid:     row.Paid.Decimal,
		Refunded: row.Refunded.Decimal,
	}, nil
}

func (r *repo) ListPastDue(ctx context.Context, conn *gorm.DB, asOf time.Time, limit int) ([]snowflake.ID, error) {
	ids := []snowflake.ID{}
	err := conn.WithContext(ctx).Raw(
		`SELECT id FROM invoices
		 WHERE status IN (?, ?)
		   AND due_date < ?
		   AND balance_due > 0
		 ORDER BY due_date ASC, id ASC
		 LIMIT ?`,
		domain.StatusSent, domain.StatusPartiallyPaid, asOf, limit,
	).Scan(&ids).Error
	if err != nil {
		return nil, db.Translate("invoice", "list past due invoices", err)
	}
	return ids, nil
}
