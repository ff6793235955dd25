package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/ledgerbook/internal/customer/domain"
	"github.com/smallbiznis/ledgerbook/pkg/db"
	"gorm.io/gorm"
)

const customerColumns = `id, name, contact, email, phone, billing_address, shipping_address,
	gst_no, place_of_supply, payment_terms, credit_limit, company_type, notes,
	is_active, created_at, updated_at`

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, customer *domain.Customer) error {
	err := conn.WithContext(ctx).Exec(
		`INSERT INTO customers (`+customerColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		customer.ID,
		customer.Name,
		customer.Contact,
		customer.Email,
		customer.Phone,
		customer.BillingAddress,
		customer.ShippingAddress,
		customer.GSTNo,
		customer.PlaceOfSupply,
		customer.PaymentTerms,
		customer.CreditLimit,
		customer.CompanyType,
		customer.Notes,
		customer.IsActive,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Error
	return db.Translate("customer", "insert customer", err)
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := conn.WithContext(ctx).Raw(
		`SELECT `+customerColumns+` FROM customers WHERE id = ?`,
		id,
	).Scan(&customer).Error
	if err != nil {
		return nil, db.Translate("customer", "load customer", err)
	}
	if customer.ID == 0 {
		return nil, nil
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListCustomerFilter) ([]domain.Customer, error) {
	stmt := conn.WithContext(ctx).Model(&domain.Customer{})
	if !filter.IncludeInactive {
		stmt = stmt.Where("is_active = ?", true)
	}
	if search := strings.ToLower(strings.TrimSpace(filter.Search)); search != "" {
		pattern := "%" + search + "%"
		stmt = stmt.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(gst_no) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	customers := []domain.Customer{}
	if err := stmt.Order("name asc, id asc").Find(&customers).Error; err != nil {
		return nil, db.Translate("customer", "list customers", err)
	}
	return customers, nil
}

func (r *repo) Update(ctx context.Context, conn *gorm.DB, id snowflake.ID, columns map[string]any) (int64, error) {
	res := conn.WithContext(ctx).
		Model(&domain.Customer{}).
		Where("id = ?", id).
		Updates(columns)
	if res.Error != nil {
		return 0, db.Translate("customer", "update customer", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *repo) CountActive(ctx context.Context, conn *gorm.DB) (int64, error) {
	var count int64
	err := conn.WithContext(ctx).Raw(`SELECT COUNT(*) FROM customers WHERE is_active = ?`, true).Scan(&count).Error
	return count, db.Translate("customer", "count customers", err)
}
