package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
)

type ListCustomerRequest struct {
	Search          string
	IncludeInactive bool
}

type ListCustomerFilter struct {
	Search          string
	IncludeInactive bool
}

type CreateCustomerRequest struct {
	Name            string
	Contact         string
	Email           string
	Phone           string
	BillingAddress  map[string]any
	ShippingAddress map[string]any
	GSTNo           string
	PlaceOfSupply   string
	PaymentTerms    *int
	CreditLimit     *decimal.Decimal
	CompanyType     string
	Notes           string
}

// UpdateCustomerRequest is a patch: nil fields are left unchanged.
type UpdateCustomerRequest struct {
	Name            *string
	Contact         *string
	Email           *string
	Phone           *string
	BillingAddress  map[string]any
	ShippingAddress map[string]any
	GSTNo           *string
	PlaceOfSupply   *string
	PaymentTerms    *int
	CreditLimit     *decimal.Decimal
	CompanyType     *string
	Notes           *string
	IsActive        *bool
}

type Service interface {
	Create(ctx context.Context, req CreateCustomerRequest) (Customer, error)
	List(ctx context.Context, req ListCustomerRequest) ([]Customer, error)
	GetByID(ctx context.Context, id string) (Customer, error)
	Update(ctx context.Context, id string, req UpdateCustomerRequest) (Customer, error)
	Delete(ctx context.Context, id string) error
}

var ErrNotFound = apperr.NotFound("customer")
