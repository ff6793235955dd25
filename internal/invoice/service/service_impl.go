package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/smallbiznis/ledgerbook/internal/additionalcharge/domain"
	"github.com/smallbiznis/ledgerbook/internal/calculator"
	"github.com/smallbiznis/ledgerbook/internal/clock"
	companydomain "github.com/smallbiznis/ledgerbook/internal/company/domain"
	"github.com/smallbiznis/ledgerbook/internal/config"
	customerdomain "github.com/smallbiznis/ledgerbook/internal/customer/domain"
	"github.com/smallbiznis/ledgerbook/internal/invoice/domain"
	"github.com/smallbiznis/ledgerbook/internal/invoice/format"
	itemdomain "github.com/smallbiznis/ledgerbook/internal/invoiceitem/domain"
	"github.com/smallbiznis/ledgerbook/internal/observability/metrics"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
	"github.com/smallbiznis/ledgerbook/pkg/ids"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Clock        clock.Clock
	Invoicing    *config.InvoicingConfigHolder
	Repo         domain.Repository
	CustomerRepo customerdomain.Repository
	CompanyRepo  companydomain.Repository
	ItemSvc      itemdomain.Service
	ChargeSvc    chargedomain.Service
	Renderer     domain.Renderer  `optional:"true"`
	Metrics      *metrics.Metrics `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	invoicing    *config.InvoicingConfigHolder
	repo         domain.Repository
	customerRepo customerdomain.Repository
	companyRepo  companydomain.Repository
	itemSvc      itemdomain.Service
	chargeSvc    chargedomain.Service
	renderer     domain.Renderer
	metrics      *metrics.Metrics
}

func New(p Params) domain.Service {
	c := p.Clock
	if c == nil {
		c = clock.Real{}
	}
	invoicing := p.Invoicing
	if invoicing == nil {
		invoicing = config.NewStaticInvoicingConfig(config.DefaultInvoicingConfig())
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,
		clock: c,

		invoicing:    invoicing,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		companyRepo:  p.CompanyRepo,
		itemSvc:      p.ItemSvc,
		chargeSvc:    p.ChargeSvc,
		renderer:     p.Renderer,
		metrics:      p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.View, error) {
	customerID, err := ids.Parse("customer_id", req.CustomerID)
	if err != nil {
		return domain.View{}, err
	}

	status := domain.StatusDraft
	if strings.TrimSpace(req.Status) != "" {
		status, err = domain.ParseStatus(req.Status)
		if err != nil {
			return domain.View{}, err
		}
		if status != domain.StatusDraft && status != domain.StatusSent {
			return domain.View{}, apperr.Invalid("status", "new invoices must be draft or sent")
		}
	}

	cfg := s.invoicing.Get()
	issued := clock.Today(s.clock)
	if req.Date != nil {
		issued = dateOnly(*req.Date)
	}
	due := issued.AddDate(0, 0, cfg.DefaultDueDays)
	if req.DueDate != nil {
		due = dateOnly(*req.DueDate)
	}
	if due.Before(issued) {
		return domain.View{}, apperr.Invalid("due_date", "cannot be before the invoice date")
	}

	invoiceType := strings.TrimSpace(req.InvoiceType)
	if invoiceType == "" {
		invoiceType = domain.DefaultInvoiceType
	}

	var invoice domain.Invoice
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.activeCustomer(ctx, tx, customerID)
		if err != nil {
			return err
		}

		shipping := req.ShippingDetails
		if len(shipping) == 0 {
			shipping = customer.BillingAddress
		}
		placeOfSupply := strings.TrimSpace(req.PlaceOfSupply)
		if placeOfSupply == "" {
			placeOfSupply = customer.PlaceOfSupply
		}

		seq, err := s.repo.NextSeq(ctx, tx)
		if err != nil {
			return err
		}
		number, err := format.FormatInvoiceNumber(cfg.NumberTemplate, issued, seq)
		if err != nil {
			return fmt.Errorf("format invoice number: %w", err)
		}

		now := s.clock.Now()
		invoice = domain.Invoice{
			ID:              s.genID.Generate(),
			InvoiceNumber:   number,
			InvoiceSeq:      seq,
			CustomerID:      customerID,
			Date:            issued,
			DueDate:         due,
			Status:          status,
			PONumber:        strings.TrimSpace(req.PONumber),
			PODate:          optionalDate(req.PODate),
			TransportName:   strings.TrimSpace(req.TransportName),
			VehicleNumber:   strings.ToUpper(strings.TrimSpace(req.VehicleNumber)),
			EwayBillNumber:  strings.TrimSpace(req.EwayBillNumber),
			EwayBillDate:    optionalDate(req.EwayBillDate),
			ShippingDetails: addressOrNil(shipping),
			PlaceOfSupply:   placeOfSupply,
			Notes:           req.Notes,
			Terms:           req.Terms,
			InvoiceType:     invoiceType,
			IsTemplate:      req.IsTemplate,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := s.repo.Insert(ctx, tx, &invoice); err != nil {
			return err
		}

		if err := s.createItems(ctx, tx, invoice.ID, req.Items); err != nil {
			return err
		}
		charges := s.chargeSvc.WithTx(tx)
		for i, charge := range req.AdditionalCharges {
			if _, err := charges.Create(ctx, invoice.ID, charge); err != nil {
				return apperr.Nest(err, fmt.Sprintf("additional_charges[%d]", i))
			}
		}

		return s.recompute(ctx, tx, &invoice)
	})
	if err != nil {
		return domain.View{}, err
	}

	s.metrics.RecordInvoiceCreated(ctx, invoice.InvoiceType, invoice.TotalAmount.InexactFloat64())
	s.log.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("customer_id", customerID.String()),
		zap.Int("items", len(req.Items)),
	)
	return s.view(ctx, s.db, invoice.ID)
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.View, error) {
	invoiceID, err := ids.Parse("invoice_id", id)
	if err != nil {
		return domain.View{}, err
	}

	var previous domain.InvoiceStatus
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.lockMutable(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		previous = invoice.Status

		columns, err := s.buildPatch(ctx, tx, invoice, req)
		if err != nil {
			return err
		}

		if req.Items != nil {
			if _, err := s.itemSvc.WithTx(tx).DeleteAllForInvoice(ctx, invoiceID); err != nil {
				return err
			}
			if err := s.createItems(ctx, tx, invoiceID, req.Items); err != nil {
				return err
			}
		}

		if len(columns) > 0 {
			columns["updated_at"] = s.clock.Now()
			if err := s.repo.Update(ctx, tx, invoiceID, columns); err != nil {
				return err
			}
			if invoice, err = s.repo.FindForUpdate(ctx, tx, invoiceID); err != nil {
				return err
			}
		}
		return s.recompute(ctx, tx, invoice)
	})
	if err != nil {
		return domain.View{}, err
	}

	view, err := s.view(ctx, s.db, invoiceID)
	if err != nil {
		return domain.View{}, err
	}
	if view.Status == domain.StatusCancelled && previous != domain.StatusCancelled {
		s.metrics.RecordInvoiceCancelled(ctx, string(previous))
	}
	s.log.Info("invoice updated",
		zap.String("invoice_id", invoiceID.String()),
		zap.Bool("items_replaced", req.Items != nil),
	)
	return view, nil
}

func (s *Service) Cancel(ctx context.Context, id string, reason string) (domain.View, error) {
	invoiceID, err := ids.Parse("invoice_id", id)
	if err != nil {
		return domain.View{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = domain.DefaultCancelReason
	}

	var previous domain.InvoiceStatus
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.lockMutable(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		if err := domain.Transition(invoice.Status, domain.StatusCancelled); err != nil {
			return err
		}
		previous = invoice.Status

		return s.repo.Update(ctx, tx, invoiceID, map[string]any{
			"status":        domain.StatusCancelled,
			"cancel_reason": reason,
			"updated_at":    s.clock.Now(),
		})
	})
	if err != nil {
		return domain.View{}, err
	}

	s.metrics.RecordInvoiceCancelled(ctx, string(previous))
	s.log.Info("invoice cancelled",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("previous_status", string(previous)),
	)
	return s.view(ctx, s.db, invoiceID)
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.View, error) {
	invoiceID, err := ids.Parse("invoice_id", id)
	if err != nil {
		return domain.View{}, err
	}
	return s.view(ctx, s.db, invoiceID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Summary, error) {
	return s.repo.List(ctx, s.db)
}

func (s *Service) ApplyPayments(ctx context.Context, tx *gorm.DB, invoiceID snowflake.ID, refund bool) error {
	invoice, err := s.repo.FindForUpdate(ctx, tx, invoiceID)
	if err != nil {
		return err
	}
	if invoice == nil {
		return domain.ErrNotFound
	}

	switch {
	case invoice.Status == domain.StatusCancelled && refund:
		return nil
	case invoice.Status == domain.StatusCancelled, invoice.Status == domain.StatusDraft:
		return apperr.Conflict("invoice", fmt.Sprintf("%s invoices do not accept payments", invoice.Status))
	case invoice.Status == domain.StatusPaid && !refund:
		return apperr.Conflict("invoice", "invoice is already paid")
	}

	totals, err := s.repo.SumPayments(ctx, tx, invoiceID)
	if err != nil {
		return err
	}
	paid := totals.Paid.Sub(totals.Refunded)

	target := invoice.Status
	switch {
	case invoice.TotalAmount.IsPositive() && paid.GreaterThanOrEqual(invoice.TotalAmount):
		target = domain.StatusPaid
	case paid.IsPositive():
		target = domain.StatusPartiallyPaid
	}

	columns := map[string]any{
		"amount_paid": paid,
		"balance_due": calculator.BalanceDue(invoice.TotalAmount, paid),
		"updated_at":  s.clock.Now(),
	}
	if target != invoice.Status && domain.CanTransition(invoice.Status, target) {
		columns["status"] = target
	}
	if err := s.repo.Update(ctx, tx, invoiceID, columns); err != nil {
		return err
	}

	s.log.Debug("payments applied",
		zap.String("invoice_id", invoiceID.String()),
		zap.String("amount_paid", paid.StringFixed(2)),
		zap.Any("status", columns["status"]),
	)
	return nil
}

func (s *Service) MarkOverdue(ctx context.Context, asOf time.Time, limit int) (int, error) {
	if limit <= 0 {
		return 0, nil
	}
	cutoff := dateOnly(asOf)
	candidates, err := s.repo.ListPastDue(ctx, s.db, cutoff, limit)
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, invoiceID := range candidates {
		if err := ctx.Err(); err != nil {
			return moved, err
		}
		var changed bool
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			invoice, err := s.repo.FindForUpdate(ctx, tx, invoiceID)
			if err != nil || invoice == nil {
				return err
			}
			// Re-checked under the lock; a payment may have landed since the scan.
			if invoice.DueDate.IsZero() || !invoice.DueDate.Before(cutoff) || !invoice.BalanceDue.IsPositive() {
				return nil
			}
			if !domain.CanTransition(invoice.Status, domain.StatusOverdue) || invoice.Status == domain.StatusOverdue {
				return nil
			}
			changed = true
			return s.repo.Update(ctx, tx, invoiceID, map[string]any{
				"status":     domain.StatusOverdue,
				"updated_at": s.clock.Now(),
			})
		})
		if err != nil {
			return moved, err
		}
		if changed {
			moved++
			s.log.Info("invoice overdue", zap.String("invoice_id", invoiceID.String()))
		}
	}

	s.metrics.RecordInvoicesOverdue(ctx, moved)
	return moved, nil
}

func (s *Service) createItems(ctx context.Context, tx *gorm.DB, invoiceID snowflake.ID, reqs []itemdomain.CreateRequest) error {
	items := s.itemSvc.WithTx(tx)
	for i, item := range reqs {
		if _, err := items.Create(ctx, invoiceID, item); err != nil {
			return apperr.Nest(err, fmt.Sprintf("items[%d]", i))
		}
	}
	return nil
}

// lockMutable loads the header for update and rejects terminal invoices.
func (s *Service) lockMutable(ctx context.Context, tx *gorm.DB, invoiceID snowflake.ID) (*domain.Invoice, error) {
	invoice, err := s.repo.FindForUpdate(ctx, tx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	if invoice.Status.IsTerminal() {
		return nil, apperr.Conflict("invoice", fmt.Sprintf("%s invoices cannot be modified", invoice.Status))
	}
	return invoice, nil
}

func (s *Service) activeCustomer(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*customerdomain.Customer, error) {
	customer, err := s.customerRepo.FindByID(ctx, conn, id)
	if err != nil {
		return nil, err
	}
	if customer == nil || !customer.IsActive {
		return nil, domain.ErrCustomerNotFound
	}
	return customer, nil
}

// recompute rewrites every derived header amount from the stored lines and
// charges.
func (s *Service) recompute(ctx context.Context, tx *gorm.DB, invoice *domain.Invoice) error {
	lines, err := s.itemSvc.WithTx(tx).ListByInvoice(ctx, invoice.ID)
	if err != nil {
		return err
	}
	charges, err := s.chargeSvc.WithTx(tx).ListByInvoice(ctx, invoice.ID)
	if err != nil {
		return err
	}

	lineAmounts := make([]calculator.LineAmounts, 0, len(lines))
	for _, line := range lines {
		lineAmounts = append(lineAmounts, calculator.LineAmounts{
			TaxableAmount: line.TaxableAmount,
			TaxAmount:     line.TaxAmount,
			LineTotal:     line.LineTotal,
		})
	}
	chargeLines := make([]calculator.ChargeLine, 0, len(charges))
	for _, charge := range charges {
		chargeLines = append(chargeLines, calculator.ChargeLine{
			Amount:    charge.ChargeAmount,
			TaxAmount: charge.TaxAmount,
		})
	}

	policy := calculator.ParseChargesPolicy(s.invoicing.Get().ChargesPolicy)
	totals := calculator.AggregateInvoiceTotals(lineAmounts, chargeLines, policy)

	intraState, err := s.intraState(ctx, tx, invoice.PlaceOfSupply)
	if err != nil {
		return err
	}
	gst := calculator.SplitGST(totals.TaxAmount, totals.Subtotal, intraState)

	columns := map[string]any{
		"subtotal":      totals.Subtotal,
		"tax_amount":    totals.TaxAmount,
		"charges_total": totals.ChargesTotal,
		"total_amount":  totals.TotalAmount,
		"balance_due":   calculator.BalanceDue(totals.TotalAmount, invoice.AmountPaid),
		"cgst_rate":     gst.CGSTRate,
		"cgst_amount":   gst.CGSTAmount,
		"sgst_rate":     gst.SGSTRate,
		"sgst_amount":   gst.SGSTAmount,
		"igst_rate":     gst.IGSTRate,
		"igst_amount":   gst.IGSTAmount,
		"round_off":     calculator.RoundOff(totals.TotalAmount),
		"updated_at":    s.clock.Now(),
	}
	if err := s.repo.Update(ctx, tx, invoice.ID, columns); err != nil {
		return err
	}

	invoice.Subtotal = totals.Subtotal
	invoice.TaxAmount = totals.TaxAmount
	invoice.ChargesTotal = totals.ChargesTotal
	invoice.TotalAmount = totals.TotalAmount
	return nil
}

// intraState compares the place of supply with the company state, falling
// back to the configured home state. Unknown states count as intra-state.
func (s *Service) intraState(ctx context.Context, conn *gorm.DB, placeOfSupply string) (bool, error) {
	home := s.invoicing.Get().HomeState
	company, err := s.companyRepo.Latest(ctx, conn)
	if err != nil {
		return false, err
	}
	if company != nil && strings.TrimSpace(company.State) != "" {
		home = company.State
	}

	home = strings.TrimSpace(home)
	placeOfSupply = strings.TrimSpace(placeOfSupply)
	if home == "" || placeOfSupply == "" {
		return true, nil
	}
	return strings.EqualFold(home, placeOfSupply), nil
}

func (s *Service) view(ctx context.Context, conn *gorm.DB, invoiceID snowflake.ID) (domain.View, error) {
	summary, err := s.repo.FindByID(ctx, conn, invoiceID)
	if err != nil {
		return domain.View{}, err
	}
	if summary == nil {
		return domain.View{}, domain.ErrNotFound
	}

	items, err := s.itemSvc.WithTx(conn).ListByInvoice(ctx, invoiceID)
	if err != nil {
		return domain.View{}, err
	}
	charges, err := s.chargeSvc.WithTx(conn).ListByInvoice(ctx, invoiceID)
	if err != nil {
		return domain.View{}, err
	}
	return domain.View{Summary: *summary, Items: items, AdditionalCharges: charges}, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func optionalDate(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := dateOnly(*t)
	return &d
}
