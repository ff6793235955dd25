package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/ledgerbook/internal/additionalcharge/domain"
	"github.com/smallbiznis/ledgerbook/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, charge *domain.AdditionalCharge) error {
	err := conn.WithContext(ctx).Exec(
		`INSERT INTO additional_charges (id, invoice_id, charge_name, charge_amount, is_taxable,
		 tax_rate, tax_amount, total_amount, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		charge.ID,
		charge.InvoiceID,
		charge.ChargeName,
		charge.ChargeAmount,
		charge.IsTaxable,
		charge.TaxRate,
		charge.TaxAmount,
		charge.TotalAmount,
		charge.CreatedAt,
	).Error
	return db.Translate("additional_charge", "insert additional charge", err)
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.AdditionalCharge, error) {
	var charge domain.AdditionalCharge
	err := conn.WithContext(ctx).Raw(
		`SELECT id, invoice_id, charge_name, charge_amount, is_taxable, tax_rate, tax_amount, total_amount, created_at
		 FROM additional_charges WHERE id = ?`,
		id,
	).Scan(&charge).Error
	if err != nil {
		return nil, db.Translate("additional_charge", "load additional charge", err)
	}
	if charge.ID == 0 {
		return nil, nil
	}
	return &charge, nil
}

func (r *repo) ListByInvoice(ctx context.Context, conn *gorm.DB, invoiceID snowflake.ID) ([]domain.AdditionalCharge, error) {
	charges := []domain.AdditionalCharge{}
	err := conn.WithContext(ctx).Raw(
		`SELECT id, invoice_id, charge_name, charge_amount, is_taxable, tax_rate, tax_amount, total_amount, created_at
		 FROM additional_charges WHERE invoice_id = ?
		 ORDER BY created_at, id`,
		invoiceID,
	).Scan(&charges).Error
	if err != nil {
		return nil, db.Translate("additional_charge", "list additional charges", err)
	}
	return charges, nil
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) (int64, error) {
	res := conn.WithContext(ctx).Exec(`DELETE FROM additional_charges WHERE id = ?`, id)
	if res.Error != nil {
		return 0, db.Translate("additional_charge", "delete additional charge", res.Error)
	}
	return res.RowsAffected, nil
}
