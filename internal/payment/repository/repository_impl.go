package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/ledgerbook/internal/payment/domain"
	"github.com/smallbiznis/ledgerbook/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, payment *domain.Payment) error {
	err := conn.WithContext(ctx).Exec(
		`INSERT INTO payments (
			id, customer_id, invoice_id, amount, date, method, reference, notes,
			is_refund, is_advance, refund_of, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		payment.ID,
		payment.CustomerID,
		payment.InvoiceID,
		payment.Amount,
		payment.Date,
		payment.Method,
		payment.Reference,
		payment.Notes,
		payment.IsRefund,
		payment.IsAdvance,
		payment.RefundOf,
		payment.CreatedAt,
		payment.UpdatedAt,
	).Error
	return db.Translate("payment", "insert payment", err)
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Payment, error) {
	return r.findOne(ctx, conn, "load payment", `SELECT * FROM payments WHERE id = ?`, id)
}

func (r *repo) FindRefundOf(ctx context.Context, conn *gorm.DB, originalID snowflake.ID) (*domain.Payment, error) {
	return r.findOne(ctx, conn, "load refund",
		`SELECT * FROM payments WHERE refund_of = ? AND is_refund = ? ORDER BY id LIMIT 1`,
		originalID, true,
	)
}

func (r *repo) findOne(ctx context.Context, conn *gorm.DB, op, query string, args ...any) (*domain.Payment, error) {
	var payment domain.Payment
	if err := conn.WithContext(ctx).Raw(query, args...).Scan(&payment).Error; err != nil {
		return nil, db.Translate("payment", op, err)
	}
	if payment.ID == 0 {
		return nil, nil
	}
	return &payment, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter) ([]domain.Payment, error) {
	stmt := conn.WithContext(ctx).Model(&domain.Payment{})
	if filter.CustomerID != nil {
		stmt = stmt.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.InvoiceID != nil {
		stmt = stmt.Where("invoice_id = ?", *filter.InvoiceID)
	}

	payments := []domain.Payment{}
	if err := stmt.Order("created_at desc, id desc").Find(&payments).Error; err != nil {
		return nil, db.Translate("payment", "list payments", err)
	}
	return payments, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, id snowflake.ID, columns map[string]any) error {
	err := conn.WithContext(ctx).
		Model(&domain.Payment{}).
		Where("id = ?", id).
		Updates(columns).Error
	return db.Translate("payment", "update payment", err)
}
