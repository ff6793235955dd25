package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerbook/internal/customer/domain"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
	"github.com/smallbiznis/ledgerbook/pkg/ids"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const defaultPaymentTerms = 15

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Customer{}, apperr.Missing("name")
	}
	email := strings.TrimSpace(req.Email)
	if err := validateEmail(email); err != nil {
		return domain.Customer{}, err
	}

	terms := defaultPaymentTerms
	if req.PaymentTerms != nil {
		terms = *req.PaymentTerms
	}
	if terms < 0 {
		return domain.Customer{}, apperr.Invalid("payment_terms", "cannot be negative")
	}
	creditLimit := decimal.Zero
	if req.CreditLimit != nil {
		creditLimit = *req.CreditLimit
	}
	if creditLimit.IsNegative() {
		return domain.Customer{}, apperr.Invalid("credit_limit", "cannot be negative")
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:              s.genID.Generate(),
		Name:            name,
		Contact:         strings.TrimSpace(req.Contact),
		Email:           email,
		Phone:           strings.TrimSpace(req.Phone),
		BillingAddress:  addressOrNil(req.BillingAddress),
		ShippingAddress: addressOrNil(req.ShippingAddress),
		GSTNo:           strings.ToUpper(strings.TrimSpace(req.GSTNo)),
		PlaceOfSupply:   strings.TrimSpace(req.PlaceOfSupply),
		PaymentTerms:    terms,
		CreditLimit:     creditLimit,
		CompanyType:     strings.TrimSpace(req.CompanyType),
		Notes:           req.Notes,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}
	s.log.Debug("customer created", zap.String("customer_id", customer.ID.String()))
	return s.reload(ctx, customer.ID)
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) ([]domain.Customer, error) {
	return s.repo.List(ctx, s.db, domain.ListCustomerFilter{
		Search:          strings.TrimSpace(req.Search),
		IncludeInactive: req.IncludeInactive,
	})
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	customerID, err := ids.Parse("customer_id", id)
	if err != nil {
		return domain.Customer{}, err
	}
	return s.reload(ctx, customerID)
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	customerID, err := ids.Parse("customer_id", id)
	if err != nil {
		return domain.Customer{}, err
	}
	columns, err := buildPatch(req)
	if err != nil {
		return domain.Customer{}, err
	}

	existing, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if existing == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	if len(columns) == 0 {
		return *existing, nil
	}

	columns["updated_at"] = time.Now().UTC()
	if _, err := s.repo.Update(ctx, s.db, customerID, columns); err != nil {
		return domain.Customer{}, err
	}
	return s.reload(ctx, customerID)
}

// Delete deactivates the customer. Invoices keep referencing it.
func (s *Service) Delete(ctx context.Context, id string) error {
	customerID, err := ids.Parse("customer_id", id)
	if err != nil {
		return err
	}
	affected, err := s.repo.Update(ctx, s.db, customerID, map[string]any{
		"is_active":  false,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Service) reload(ctx context.Context, id snowflake.ID) (domain.Customer, error) {
	item, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.ErrNotFound
	}
	return *item, nil
}

func buildPatch(req domain.UpdateCustomerRequest) (map[string]any, error) {
	columns := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Invalid("name", "cannot be empty")
		}
		columns["name"] = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		columns["email"] = email
	}
	if req.PaymentTerms != nil {
		if *req.PaymentTerms < 0 {
			return nil, apperr.Invalid("payment_terms", "cannot be negative")
		}
		columns["payment_terms"] = *req.PaymentTerms
	}
	if req.CreditLimit != nil {
		if req.CreditLimit.IsNegative() {
			return nil, apperr.Invalid("credit_limit", "cannot be negative")
		}
		columns["credit_limit"] = *req.CreditLimit
	}
	if req.BillingAddress != nil {
		columns["billing_address"] = addressOrNil(req.BillingAddress)
	}
	if req.ShippingAddress != nil {
		columns["shipping_address"] = addressOrNil(req.ShippingAddress)
	}
	if req.GSTNo != nil {
		columns["gst_no"] = strings.ToUpper(strings.TrimSpace(*req.GSTNo))
	}
	setText(columns, "contact", req.Contact)
	setText(columns, "phone", req.Phone)
	setText(columns, "place_of_supply", req.PlaceOfSupply)
	setText(columns, "company_type", req.CompanyType)
	if req.Notes != nil {
		columns["notes"] = *req.Notes
	}
	if req.IsActive != nil {
		columns["is_active"] = *req.IsActive
	}
	return columns, nil
}

func setText(columns map[string]any, column string, value *string) {
	if value != nil {
		columns[column] = strings.TrimSpace(*value)
	}
}

func validateEmail(email string) error {
	if email != "" && !strings.Contains(email, "@") {
		return apperr.Invalid("email", "must be a valid email address")
	}
	return nil
}

// addressOrNil stores an empty object as NULL so absent and empty read back
// the same way.
func addressOrNil(address map[string]any) datatypes.JSONMap {
	if len(address) == 0 {
		return nil
	}
	return datatypes.JSONMap(address)
}
