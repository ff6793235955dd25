package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerbook/internal/calculator"
	"github.com/smallbiznis/ledgerbook/internal/invoiceitem/domain"
	productdomain "github.com/smallbiznis/ledgerbook/internal/product/domain"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
	"github.com/smallbiznis/ledgerbook/pkg/ids"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	ProductRepo productdomain.Repository
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	productRepo productdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("invoiceitem.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		productRepo: p.ProductRepo,
	}
}

// WithTx returns a copy bound to tx.
func (s *Service) WithTx(tx *gorm.DB) domain.Service {
	clone := *s
	clone.db = tx
	return &clone
}

func (s *Service) ListByInvoice(ctx context.Context, invoiceID snowflake.ID) ([]domain.Line, error) {
	return s.repo.ListByInvoice(ctx, s.db, invoiceID)
}

func (s *Service) GetByID(ctx context.Context, itemID snowflake.ID) (domain.Line, error) {
	line, err := s.repo.FindByID(ctx, s.db, itemID)
	if err != nil {
		return domain.Line{}, err
	}
	if line == nil {
		return domain.Line{}, domain.ErrNotFound
	}
	return *line, nil
}

func (s *Service) Create(ctx context.Context, invoiceID snowflake.ID, req domain.CreateRequest) (domain.InvoiceItem, error) {
	if invoiceID == 0 {
		return domain.InvoiceItem{}, apperr.Invalid("invoice_id", "must be a valid identifier")
	}
	productID, err := ids.ParseOptional("product_id", req.ProductID)
	if err != nil {
		return domain.InvoiceItem{}, err
	}

	description := strings.TrimSpace(req.Description)
	hsn := strings.TrimSpace(req.HSNSAC)
	unitPrice := req.UnitPrice
	taxRate := req.TaxRate

	if productID != nil && (unitPrice == nil || description == "") {
		product, err := s.activeProduct(ctx, *productID)
		if err != nil {
			return domain.InvoiceItem{}, err
		}
		if unitPrice == nil {
			price := product.Price
			unitPrice = &price
		}
		if description == "" {
			description = product.Name
		}
		if taxRate == nil {
			rate := product.TaxRate
			if !product.IsTaxable {
				rate = decimal.Zero
			}
			taxRate = &rate
		}
		if hsn == "" {
			hsn = product.HSNSAC
		}
	}

	if description == "" {
		return domain.InvoiceItem{}, apperr.Missing("description")
	}
	if unitPrice == nil {
		return domain.InvoiceItem{}, apperr.Missing("unit_price")
	}

	item := domain.InvoiceItem{
		ID:                 s.genID.Generate(),
		InvoiceID:          invoiceID,
		ProductID:          productID,
		Description:        description,
		HSNSAC:             hsn,
		Quantity:           req.Quantity,
		UnitPrice:          *unitPrice,
		DiscountPercentage: valueOr(req.DiscountPercentage, decimal.Zero),
		DiscountAmount:     valueOr(req.DiscountAmount, decimal.Zero),
		TaxRate:            valueOr(taxRate, calculator.DefaultTaxRate),
	}
	if err := derive(&item); err != nil {
		return domain.InvoiceItem{}, err
	}

	if err := s.repo.Insert(ctx, s.db, &item); err != nil {
		return domain.InvoiceItem{}, err
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, itemID snowflake.ID, req domain.UpdateRequest) (domain.InvoiceItem, error) {
	existing, err := s.repo.FindByID(ctx, s.db, itemID)
	if err != nil {
		return domain.InvoiceItem{}, err
	}
	if existing == nil {
		return domain.InvoiceItem{}, domain.ErrNotFound
	}

	item := existing.InvoiceItem
	if req.ProductID != nil {
		productID, err := ids.ParseOptional("product_id", *req.ProductID)
		if err != nil {
			return domain.InvoiceItem{}, err
		}
		if productID != nil && !sameProduct(item.ProductID, *productID) {
			if _, err := s.activeProduct(ctx, *productID); err != nil {
				return domain.InvoiceItem{}, err
			}
		}
		item.ProductID = productID
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return domain.InvoiceItem{}, apperr.Invalid("description", "cannot be empty")
		}
		item.Description = description
	}
	if req.HSNSAC != nil {
		item.HSNSAC = strings.TrimSpace(*req.HSNSAC)
	}
	item.Quantity = valueOr(req.Quantity, item.Quantity)
	item.UnitPrice = valueOr(req.UnitPrice, item.UnitPrice)
	item.DiscountPercentage = valueOr(req.DiscountPercentage, item.DiscountPercentage)
	item.DiscountAmount = valueOr(req.DiscountAmount, item.DiscountAmount)
	item.TaxRate = valueOr(req.TaxRate, item.TaxRate)

	if err := derive(&item); err != nil {
		return domain.InvoiceItem{}, err
	}

	if err := s.repo.Update(ctx, s.db, itemID, map[string]any{
		"product_id":          item.ProductID,
		"description":         item.Description,
		"hsn_sac":             item.HSNSAC,
		"quantity":            item.Quantity,
		"unit_price":          item.UnitPrice,
		"discount_percentage": item.DiscountPercentage,
		"discount_amount":     item.DiscountAmount,
		"tax_rate":            item.TaxRate,
		"taxable_amount":      item.TaxableAmount,
		"tax_amount":          item.TaxAmount,
		"line_total":          item.LineTotal,
	}); err != nil {
		return domain.InvoiceItem{}, err
	}
	return item, nil
}

func (s *Service) DeleteAllForInvoice(ctx context.Context, invoiceID snowflake.ID) (int64, error) {
	return s.repo.DeleteByInvoice(ctx, s.db, invoiceID)
}

// activeProduct loads a catalog product that can still be invoiced.
func (s *Service) activeProduct(ctx context.Context, productID snowflake.ID) (*productdomain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, productdomain.ErrNotFound
	}
	return product, nil
}

func sameProduct(current *snowflake.ID, next snowflake.ID) bool {
	return current != nil && *current == next
}

func derive(item *domain.InvoiceItem) error {
	amounts, err := calculator.ComputeLineAmounts(calculator.LineInput{
		Quantity:           item.Quantity,
		UnitPrice:          item.UnitPrice,
		DiscountPercentage: item.DiscountPercentage,
		DiscountAmount:     item.DiscountAmount,
		TaxRate:            item.TaxRate,
	})
	if err != nil {
		return err
	}
	item.TaxableAmount = amounts.TaxableAmount
	item.TaxAmount = amounts.TaxAmount
	item.LineTotal = amounts.LineTotal
	return nil
}

func valueOr(value *decimal.Decimal, fallback decimal.Decimal) decimal.Decimal {
	if value == nil {
		return fallback
	}
	return *value
}
