package service

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/ledgerbook/internal/invoice/domain"
	"github.com/smallbiznis/ledgerbook/pkg/ids"
	"go.uber.org/zap"
)

var errNoRenderer = errors.New("invoice renderer not configured")

var filenameReplacer = strings.NewReplacer("/", "-", "\\", "-", " ", "_")

func (s *Service) RenderPDF(ctx context.Context, id string) (domain.Rendered, error) {
	invoiceID, err := ids.Parse("invoice_id", id)
	if err != nil {
		return domain.Rendered{}, err
	}
	if s.renderer == nil {
		return domain.Rendered{}, errNoRenderer
	}

	view, err := s.view(ctx, s.db, invoiceID)
	if err != nil {
		return domain.Rendered{}, err
	}
	customer, err := s.customerRepo.FindByID(ctx, s.db, view.CustomerID)
	if err != nil {
		return domain.Rendered{}, err
	}
	company, err := s.companyRepo.Latest(ctx, s.db)
	if err != nil {
		return domain.Rendered{}, err
	}

	content, err := s.renderer.RenderInvoice(ctx, domain.Document{
		Invoice:  view,
		Customer: customer,
		Company:  company,
	})
	if err != nil {
		s.log.Error("render invoice failed", zap.String("invoice_id", invoiceID.String()), zap.Error(err))
		return domain.Rendered{}, err
	}

	s.metrics.RecordDocumentRendered(ctx, "invoice_pdf")
	return domain.Rendered{
		Filename:    "invoice-" + filenameReplacer.Replace(view.InvoiceNumber) + ".pdf",
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}
