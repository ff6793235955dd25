package repository

import (
	"context"
	"time"

	"github.com/smallbiznis/ledgerbook/internal/dashboard/domain"
	"github.com/smallbiznis/ledgerbook/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) StatusTotals(ctx context.Context, conn *gorm.DB) ([]domain.StatusRow, error) {
	rows := []domain.StatusRow{}
	err := conn.WithContext(ctx).Raw(
		`SELECT status,
		        COUNT(*) AS count,
		        SUM(total_amount) AS total_amount,
		        SUM(amount_paid) AS amount_paid,
		        SUM(balance_due) AS balance_due
		 FROM invoices
		 GROUP BY status`,
	).Scan(&rows).Error
	if err != nil {
		return nil, db.Translate("invoice", "aggregate invoices", err)
	}
	return rows, nil
}

func (r *repo) Recent(ctx context.Context, conn *gorm.DB, limit int) ([]domain.RecentInvoice, error) {
	rows := []domain.RecentInvoice{}
	err := conn.WithContext(ctx).Raw(
		`SELECT i.id, i.invoice_number, i.date, i.total_amount, i.status, c.name AS customer_name
		 FROM invoices i
		 LEFT JOIN customers c ON c.id = i.customer_id
		 ORDER BY i.date DESC, i.created_at DESC, i.id DESC
		 LIMIT ?`,
		limit,
	).Scan(&rows).Error
	if err != nil {
		return nil, db.Translate("invoice", "recent invoices", err)
	}
	return rows, nil
}

func (r *repo) CollectionsSince(ctx context.Context, conn *gorm.DB, since time.Time) ([]domain.CollectionRow, error) {
	rows := []domain.CollectionRow{}
	err := conn.WithContext(ctx).Raw(
		`SELECT date, amount_paid
		 FROM invoices
		 WHERE date >= ? AND status <> ?`,
		since, "cancelled",
	).Scan(&rows).Error
	if err != nil {
		return nil, db.Translate("invoice", "revenue trend", err)
	}
	return rows, nil
}

func (r *repo) CountCustomers(ctx context.Context, conn *gorm.DB) (int64, error) {
	var count int64
	err := conn.WithContext(ctx).Raw(`SELECT COUNT(*) FROM customers`).Scan(&count).Error
	return count, db.Translate("customer", "count customers", err)
}

func (r *repo) CountProducts(ctx context.Context, conn *gorm.DB) (int64, error) {
	var count int64
	err := conn.WithContext(ctx).Raw(`SELECT COUNT(*) FROM products`).Scan(&count).Error
	return count, db.Translate("product", "count products", err)
}
