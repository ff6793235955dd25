package domain

import (
	"context"

	"github.com/smallbiznis/ledgerbook/pkg/apperr"
)

// UpdateRequest patches the settings. Nil fields are left unchanged.
type UpdateRequest struct {
	CompanyName         *string
	AddressLine1        *string
	AddressLine2        *string
	City                *string
	State               *string
	PostalCode          *string
	Country             *string
	Phone               *string
	Email               *string
	Website             *string
	GSTNumber           *string
	PANNumber           *string
	BankName            *string
	BankAccountName     *string
	BankAccountNumber   *string
	BankIFSCCode        *string
	BankBranch          *string
	TermsAndConditions  *string
	AuthorizedSignatory *string
	LogoURL             *string
}

type Service interface {
	Get(ctx context.Context) (CompanySettings, error)
	// Update patches the latest settings row, creating it when none exists.
	Update(ctx context.Context, req UpdateRequest) (CompanySettings, error)
}

var ErrNotFound = apperr.NotFound("company_settings")
