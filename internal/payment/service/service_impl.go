package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/ledgerbook/internal/clock"
	customerdomain "github.com/smallbiznis/ledgerbook/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/ledgerbook/internal/invoice/domain"
	"github.com/smallbiznis/ledgerbook/internal/observability/metrics"
	"github.com/smallbiznis/ledgerbook/internal/payment/domain"
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
	Repo         domain.Repository
	CustomerRepo customerdomain.Repository
	InvoiceRepo  invoicedomain.Repository
	InvoiceSvc   invoicedomain.Service
	Metrics      *metrics.Metrics `optional:"true"`
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock

	repo         domain.Repository
	customerRepo customerdomain.Repository
	invoiceRepo  invoicedomain.Repository
	invoiceSvc   invoicedomain.Service
	metrics      *metrics.Metrics
}

func New(p Params) domain.Service {
	c := p.Clock
	if c == nil {
		c = clock.Real{}
	}
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("payment.service"),
		genID: p.GenID,
		clock: c,

		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		invoiceRepo:  p.InvoiceRepo,
		invoiceSvc:   p.InvoiceSvc,
		metrics:      p.Metrics,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Payment, error) {
	customerID, err := ids.ParseOptional("customer_id", req.CustomerID)
	if err != nil {
		return nil, err
	}
	invoiceID, err := ids.ParseOptional("invoice_id", req.InvoiceID)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, s.db, domain.ListFilter{CustomerID: customerID, InvoiceID: invoiceID})
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	paymentID, err := ids.Parse("payment_id", id)
	if err != nil {
		return domain.Payment{}, err
	}
	return s.load(ctx, s.db, paymentID)
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Payment, error) {
	customerID, err := ids.Parse("customer_id", req.CustomerID)
	if err != nil {
		return domain.Payment{}, err
	}
	invoiceID, err := ids.ParseOptional("invoice_id", req.InvoiceID)
	if err != nil {
		return domain.Payment{}, err
	}
	if !req.Amount.IsPositive() {
		return domain.Payment{}, apperr.Invalid("amount", "must be greater than zero")
	}
	method, err := normalizeMethod(req.Method)
	if err != nil {
		return domain.Payment{}, err
	}

	date := clock.Today(s.clock)
	if req.Date != nil {
		date = dateOnly(*req.Date)
	}

	now := s.clock.Now()
	payment := domain.Payment{
		ID:         s.genID.Generate(),
		CustomerID: customerID,
		InvoiceID:  invoiceID,
		Amount:     req.Amount.Round(2),
		Date:       date,
		Method:     method,
		Reference:  strings.TrimSpace(req.Reference),
		Notes:      req.Notes,
		IsAdvance:  req.IsAdvance,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		customer, err := s.customerRepo.FindByID(ctx, tx, customerID)
		if err != nil {
			return err
		}
		if customer == nil || !customer.IsActive {
			return customerdomain.ErrNotFound
		}
		if invoiceID != nil {
			invoice, err := s.invoiceRepo.FindByID(ctx, tx, *invoiceID)
			if err != nil {
				return err
			}
			if invoice == nil {
				return invoicedomain.ErrNotFound
			}
			if invoice.CustomerID != customerID {
				return apperr.Conflict("payment", "invoice belongs to another customer")
			}
		}

		if err := s.repo.Insert(ctx, tx, &payment); err != nil {
			return err
		}
		if invoiceID != nil {
			return s.invoiceSvc.ApplyPayments(ctx, tx, *invoiceID, false)
		}
		return nil
	})
	if err != nil {
		return domain.Payment{}, err
	}

	s.metrics.RecordPayment(ctx, payment.Method, false)
	s.log.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("amount", payment.Amount.StringFixed(2)),
	)
	return s.load(ctx, s.db, payment.ID)
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (domain.Payment, error) {
	paymentID, err := ids.Parse("payment_id", id)
	if err != nil {
		return domain.Payment{}, err
	}

	columns := map[string]any{}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return domain.Payment{}, apperr.Invalid("amount", "must be greater than zero")
		}
		columns["amount"] = req.Amount.Round(2)
	}
	if req.Method != nil {
		method, err := normalizeMethod(*req.Method)
		if err != nil {
			return domain.Payment{}, err
		}
		columns["method"] = method
	}
	if req.Date != nil {
		columns["date"] = dateOnly(*req.Date)
	}
	if req.Reference != nil {
		columns["reference"] = strings.TrimSpace(*req.Reference)
	}
	if req.Notes != nil {
		columns["notes"] = *req.Notes
	}
	if req.IsAdvance != nil {
		columns["is_advance"] = *req.IsAdvance
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err := s.load(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if len(columns) == 0 {
			return nil
		}
		if payment.IsRefund && req.Amount != nil && !req.Amount.Equal(payment.Amount) {
			return apperr.Conflict("payment", "refund amounts cannot be changed")
		}

		columns["updated_at"] = s.clock.Now()
		if err := s.repo.Update(ctx, tx, paymentID, columns); err != nil {
			return err
		}
		if payment.InvoiceID != nil && req.Amount != nil {
			return s.invoiceSvc.ApplyPayments(ctx, tx, *payment.InvoiceID, payment.IsRefund)
		}
		return nil
	})
	if err != nil {
		return domain.Payment{}, err
	}
	return s.load(ctx, s.db, paymentID)
}

// Refund records a new row reversing the whole original amount.
func (s *Service) Refund(ctx context.Context, id string, reason string) (domain.Payment, error) {
	paymentID, err := ids.Parse("payment_id", id)
	if err != nil {
		return domain.Payment{}, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = domain.DefaultRefundReason
	}

	var refund domain.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		original, err := s.load(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if original.IsRefund {
			return apperr.Conflict("payment", "a refund cannot be refunded")
		}
		existing, err := s.repo.FindRefundOf(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		if existing != nil {
			return apperr.Conflict("payment", "payment already refunded")
		}

		originalID := original.ID
		now := s.clock.Now()
		refund = domain.Payment{
			ID:         s.genID.Generate(),
			CustomerID: original.CustomerID,
			InvoiceID:  original.InvoiceID,
			Amount:     original.Amount,
			Date:       clock.Today(s.clock),
			Method:     original.Method,
			Reference:  refundReference(originalID),
			Notes:      fmt.Sprintf("Refund for payment %s. Reason: %s", originalID, reason),
			IsRefund:   true,
			IsAdvance:  false,
			RefundOf:   &originalID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.Insert(ctx, tx, &refund); err != nil {
			return err
		}
		if original.InvoiceID != nil {
			return s.invoiceSvc.ApplyPayments(ctx, tx, *original.InvoiceID, true)
		}
		return nil
	})
	if err != nil {
		return domain.Payment{}, err
	}

	s.metrics.RecordPayment(ctx, refund.Method, true)
	s.log.Info("payment refunded",
		zap.String("payment_id", paymentID.String()),
		zap.String("refund_id", refund.ID.String()),
	)
	return s.load(ctx, s.db, refund.ID)
}

func (s *Service) load(ctx context.Context, conn *gorm.DB, id snowflake.ID) (domain.Payment, error) {
	payment, err := s.repo.FindByID(ctx, conn, id)
	if err != nil {
		return domain.Payment{}, err
	}
	if payment == nil {
		return domain.Payment{}, domain.ErrNotFound
	}
	return *payment, nil
}

func normalizeMethod(raw string) (string, error) {
	method := strings.ToLower(strings.TrimSpace(raw))
	if method == "" {
		return "", apperr.Missing("method")
	}
	return method, nil
}

func refundReference(id snowflake.ID) string {
	raw := id.String()
	if len(raw) > 8 {
		raw = raw[:8]
	}
	return "REFUND-" + raw
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
