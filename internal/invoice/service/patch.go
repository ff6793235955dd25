package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/ledgerbook/internal/invoice/domain"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
	"github.com/smallbiznis/ledgerbook/pkg/ids"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// buildPatch turns a header patch into whitelisted column updates. Status
// changes go through the lifecycle machine.
func (s *Service) buildPatch(ctx context.Context, tx *gorm.DB, invoice *domain.Invoice, req domain.UpdateRequest) (map[string]any, error) {
	columns := map[string]any{}

	if req.CustomerID != nil {
		customerID, err := ids.Parse("customer_id", *req.CustomerID)
		if err != nil {
			return nil, err
		}
		if _, err := s.activeCustomer(ctx, tx, customerID); err != nil {
			return nil, err
		}
		columns["customer_id"] = customerID
	}

	issued, due := invoice.Date, invoice.DueDate
	if req.Date != nil {
		issued = dateOnly(*req.Date)
		columns["date"] = issued
	}
	if req.DueDate != nil {
		due = dateOnly(*req.DueDate)
		columns["due_date"] = due
	}
	if due.Before(issued) {
		return nil, apperr.Invalid("due_date", "cannot be before the invoice date")
	}

	if req.Status != nil {
		status, err := domain.ParseStatus(*req.Status)
		if err != nil {
			return nil, err
		}
		// Payment-driven statuses are derived from recorded payments and the
		// overdue sweep, never set directly.
		if status != invoice.Status && status != domain.StatusSent && status != domain.StatusCancelled {
			return nil, apperr.Invalid("status", "can only be changed to sent or cancelled")
		}
		if err := domain.Transition(invoice.Status, status); err != nil {
			return nil, err
		}
		if status != invoice.Status {
			columns["status"] = status
		}
		if status == domain.StatusCancelled {
			columns["cancel_reason"] = domain.DefaultCancelReason
		}
	}

	if req.InvoiceType != nil {
		invoiceType := strings.TrimSpace(*req.InvoiceType)
		if invoiceType == "" {
			return nil, apperr.Invalid("invoice_type", "cannot be empty")
		}
		columns["invoice_type"] = invoiceType
	}

	setText(columns, "po_number", req.PONumber)
	setText(columns, "transport_name", req.TransportName)
	setText(columns, "eway_bill_number", req.EwayBillNumber)
	setText(columns, "place_of_supply", req.PlaceOfSupply)
	if req.VehicleNumber != nil {
		columns["vehicle_number"] = strings.ToUpper(strings.TrimSpace(*req.VehicleNumber))
	}
	if req.Notes != nil {
		columns["notes"] = *req.Notes
	}
	if req.Terms != nil {
		columns["terms"] = *req.Terms
	}
	if req.PODate != nil {
		columns["po_date"] = optionalDate(req.PODate)
	}
	if req.EwayBillDate != nil {
		columns["eway_bill_date"] = optionalDate(req.EwayBillDate)
	}
	if req.ShippingDetails != nil {
		columns["shipping_details"] = addressOrNil(req.ShippingDetails)
	}
	if req.IsTemplate != nil {
		columns["is_template"] = *req.IsTemplate
	}

	return columns, nil
}

func setText(columns map[string]any, column string, value *string) {
	if value != nil {
		columns[column] = strings.TrimSpace(*value)
	}
}

// addressOrNil stores an empty object as NULL.
func addressOrNil(address map[string]any) datatypes.JSONMap {
	if len(address) == 0 {
		return nil
	}
	return datatypes.JSONMap(address)
}
