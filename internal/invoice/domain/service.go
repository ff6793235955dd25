package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/smallbiznis/ledgerbook/internal/additionalcharge/domain"
	itemdomain "github.com/smallbiznis/ledgerbook/internal/invoiceitem/domain"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
	"gorm.io/gorm"
)

// CreateRequest describes a new invoice with its lines and charges. Empty
// shipping details and place of supply are taken from the customer.
type CreateRequest struct {
	CustomerID        string
	Date              *time.Time
	DueDate           *time.Time
	Status            string
	PONumber          string
	PODate            *time.Time
	TransportName     string
	VehicleNumber     string
	EwayBillNumber    string
	EwayBillDate      *time.Time
	ShippingDetails   map[string]any
	PlaceOfSupply     string
	Notes             string
	Terms             string
	InvoiceType       string
	IsTemplate        bool
	Items             []itemdomain.CreateRequest
	AdditionalCharges []chargedomain.CreateRequest
}

// UpdateRequest patches the header. A non-nil Items slice, even an empty
// one, replaces every line of the invoice. An empty ShippingDetails map
// clears the stored address.
type UpdateRequest struct {
	CustomerID      *string
	Date            *time.Time
	DueDate         *time.Time
	Status          *string
	PONumber        *string
	PODate          *time.Time
	TransportName   *string
	VehicleNumber   *string
	EwayBillNumber  *string
	EwayBillDate    *time.Time
	ShippingDetails map[string]any
	PlaceOfSupply   *string
	Notes           *string
	Terms           *string
	InvoiceType     *string
	IsTemplate      *bool
	Items           []itemdomain.CreateRequest
}

// Rendered is a generated document ready to stream.
type Rendered struct {
	Filename    string
	ContentType string
	Content     []byte
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (View, error)
	Update(ctx context.Context, id string, req UpdateRequest) (View, error)
	Cancel(ctx context.Context, id string, reason string) (View, error)
	GetByID(ctx context.Context, id string) (View, error)
	ListAll(ctx context.Context) ([]Summary, error)
	RenderPDF(ctx context.Context, id string) (Rendered, error)

	ListItems(ctx context.Context, invoiceID string) ([]itemdomain.Line, error)
	GetItem(ctx context.Context, itemID string) (itemdomain.Line, error)
	AddItem(ctx context.Context, invoiceID string, req itemdomain.CreateRequest) (itemdomain.Line, error)
	UpdateItem(ctx context.Context, itemID string, req itemdomain.UpdateRequest) (itemdomain.Line, error)

	ListCharges(ctx context.Context, invoiceID string) ([]chargedomain.AdditionalCharge, error)
	AddCharge(ctx context.Context, invoiceID string, req chargedomain.CreateRequest) (chargedomain.AdditionalCharge, error)
	RemoveCharge(ctx context.Context, chargeID string) error

	// ApplyPayments recomputes amount_paid and balance_due from the payments
	// stored against the invoice and moves its status accordingly. It runs
	// inside the caller's transaction.
	ApplyPayments(ctx context.Context, tx *gorm.DB, invoiceID snowflake.ID, refund bool) error

	// MarkOverdue moves up to limit open invoices that are past their due
	// date to overdue and reports how many moved.
	MarkOverdue(ctx context.Context, asOf time.Time, limit int) (int, error)
}

var (
	ErrNotFound         = apperr.NotFound("invoice")
	ErrCustomerNotFound = apperr.NotFound("customer")
)
