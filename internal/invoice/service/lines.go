package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	chargedomain "github.com/smallbiznis/ledgerbook/internal/additionalcharge/domain"
	"github.com/smallbiznis/ledgerbook/internal/invoice/domain"
	itemdomain "github.com/smallbiznis/ledgerbook/internal/invoiceitem/domain"
	"github.com/smallbiznis/ledgerbook/pkg/ids"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Service) ListItems(ctx context.Context, invoiceID string) ([]itemdomain.Line, error) {
	id, err := s.existingInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.itemSvc.ListByInvoice(ctx, id)
}

func (s *Service) GetItem(ctx context.Context, itemID string) (itemdomain.Line, error) {
	id, err := ids.Parse("item_id", itemID)
	if err != nil {
		return itemdomain.Line{}, err
	}
	return s.itemSvc.GetByID(ctx, id)
}

func (s *Service) AddItem(ctx context.Context, invoiceID string, req itemdomain.CreateRequest) (itemdomain.Line, error) {
	id, err := ids.Parse("invoice_id", invoiceID)
	if err != nil {
		return itemdomain.Line{}, err
	}

	var line itemdomain.Line
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.lockMutable(ctx, tx, id)
		if err != nil {
			return err
		}
		items := s.itemSvc.WithTx(tx)
		created, err := items.Create(ctx, id, req)
		if err != nil {
			return err
		}
		if err := s.recompute(ctx, tx, invoice); err != nil {
			return err
		}
		line, err = items.GetByID(ctx, created.ID)
		return err
	})
	if err != nil {
		return itemdomain.Line{}, err
	}
	s.log.Info("invoice item added", zap.String("invoice_id", id.String()), zap.String("item_id", line.ID.String()))
	return line, nil
}

func (s *Service) UpdateItem(ctx context.Context, itemID string, req itemdomain.UpdateRequest) (itemdomain.Line, error) {
	id, err := ids.Parse("item_id", itemID)
	if err != nil {
		return itemdomain.Line{}, err
	}

	var line itemdomain.Line
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := s.itemSvc.WithTx(tx)
		existing, err := items.GetByID(ctx, id)
		if err != nil {
			return err
		}
		invoice, err := s.lockMutable(ctx, tx, existing.InvoiceID)
		if err != nil {
			return err
		}
		if _, err := items.Update(ctx, id, req); err != nil {
			return err
		}
		if err := s.recompute(ctx, tx, invoice); err != nil {
			return err
		}
		line, err = items.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return itemdomain.Line{}, err
	}
	return line, nil
}

func (s *Service) ListCharges(ctx context.Context, invoiceID string) ([]chargedomain.AdditionalCharge, error) {
	id, err := s.existingInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.chargeSvc.ListByInvoice(ctx, id)
}

func (s *Service) AddCharge(ctx context.Context, invoiceID string, req chargedomain.CreateRequest) (chargedomain.AdditionalCharge, error) {
	id, err := ids.Parse("invoice_id", invoiceID)
	if err != nil {
		return chargedomain.AdditionalCharge{}, err
	}

	var charge chargedomain.AdditionalCharge
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		invoice, err := s.lockMutable(ctx, tx, id)
		if err != nil {
			return err
		}
		charge, err = s.chargeSvc.WithTx(tx).Create(ctx, id, req)
		if err != nil {
			return err
		}
		return s.recompute(ctx, tx, invoice)
	})
	if err != nil {
		return chargedomain.AdditionalCharge{}, err
	}
	s.log.Info("additional charge added", zap.String("invoice_id", id.String()), zap.String("charge_id", charge.ID.String()))
	return charge, nil
}

func (s *Service) RemoveCharge(ctx context.Context, chargeID string) error {
	id, err := ids.Parse("charge_id", chargeID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		charges := s.chargeSvc.WithTx(tx)
		charge, err := charges.GetByID(ctx, id)
		if err != nil {
			return err
		}
		invoice, err := s.lockMutable(ctx, tx, charge.InvoiceID)
		if err != nil {
			return err
		}
		if err := charges.DeleteByID(ctx, id); err != nil {
			return err
		}
		return s.recompute(ctx, tx, invoice)
	})
}

func (s *Service) existingInvoice(ctx context.Context, invoiceID string) (snowflake.ID, error) {
	id, err := ids.Parse("invoice_id", invoiceID)
	if err != nil {
		return 0, err
	}
	summary, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return 0, err
	}
	if summary == nil {
		return 0, domain.ErrNotFound
	}
	return id, nil
}
