package domain

import (
	"context"

	companydomain "github.com/smallbiznis/ledgerbook/internal/company/domain"
	customerdomain "github.com/smallbiznis/ledgerbook/internal/customer/domain"
)

// Document is everything a renderer needs to lay out one invoice. Company
// is nil until settings are saved.
type Document struct {
	Invoice  View
	Customer *customerdomain.Customer
	Company  *companydomain.CompanySettings
}

type Renderer interface {
	RenderInvoice(ctx context.Context, doc Document) ([]byte, error)
}
