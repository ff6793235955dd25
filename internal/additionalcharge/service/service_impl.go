package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/ledgerbook/internal/additionalcharge/domain"
	"github.com/smallbiznis/ledgerbook/internal/calculator"
	"github.com/smallbiznis/ledgerbook/internal/clock"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("additionalcharge.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) WithTx(tx *gorm.DB) domain.Service {
	clone := *s
	clone.db = tx
	return &clone
}

func (s *Service) Create(ctx context.Context, invoiceID snowflake.ID, req domain.CreateRequest) (domain.AdditionalCharge, error) {
	if invoiceID == 0 {
		return domain.AdditionalCharge{}, apperr.Invalid("invoice_id", "must be a valid identifier")
	}
	name := strings.TrimSpace(req.ChargeName)
	if name == "" {
		return domain.AdditionalCharge{}, apperr.Missing("charge_name")
	}

	amounts, err := calculator.ComputeChargeAmounts(req.ChargeAmount, req.IsTaxable, req.TaxRate)
	if err != nil {
		return domain.AdditionalCharge{}, err
	}

	charge := domain.AdditionalCharge{
		ID:           s.genID.Generate(),
		InvoiceID:    invoiceID,
		ChargeName:   name,
		ChargeAmount: amounts.Amount,
		IsTaxable:    req.IsTaxable,
		TaxRate:      req.TaxRate,
		TaxAmount:    amounts.TaxAmount,
		TotalAmount:  amounts.TotalAmount,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, &charge); err != nil {
		return domain.AdditionalCharge{}, err
	}
	return charge, nil
}

func (s *Service) GetByID(ctx context.Context, chargeID snowflake.ID) (domain.AdditionalCharge, error) {
	charge, err := s.repo.FindByID(ctx, s.db, chargeID)
	if err != nil {
		return domain.AdditionalCharge{}, err
	}
	if charge == nil {
		return domain.AdditionalCharge{}, domain.ErrNotFound
	}
	return *charge, nil
}

func (s *Service) ListByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]domain.AdditionalCharge, error) {
	return s.repo.ListByInvoice(ctx, s.db, invoiceID)
}

func (s *Service) DeleteByID(ctx context.Context, chargeID snowflake.ID) error {
	affected, err := s.repo.Delete(ctx, s.db, chargeID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
