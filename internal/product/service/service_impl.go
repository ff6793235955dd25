package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerbook/internal/calculator"
	"github.com/smallbiznis/ledgerbook/internal/product/domain"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
	"github.com/smallbiznis/ledgerbook/pkg/ids"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var hundred = decimal.NewFromInt(100)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  domain.Repository
	genID *snowflake.Node
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("product.service"),
		repo:  p.Repo,
		genID: p.GenID,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	filter := domain.ListRequest{
		Search:          strings.TrimSpace(req.Search),
		IncludeInactive: req.IncludeInactive,
	}
	if category := strings.TrimSpace(req.Category); category != "" {
		filter.Category = slug.Make(category)
	}

	items, err := s.repo.List(ctx, s.db, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, s.toResponse(&item))
	}
	return resp, nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Missing("name")
	}
	if req.Price.IsNegative() {
		return nil, apperr.Invalid("price", "cannot be negative")
	}

	taxRate := calculator.DefaultTaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	if err := validateRate(taxRate); err != nil {
		return nil, err
	}

	unit := strings.ToUpper(strings.TrimSpace(req.Unit))
	if unit == "" {
		unit = domain.DefaultUnit
	}
	taxable := true
	if req.IsTaxable != nil {
		taxable = *req.IsTaxable
	}
	category := strings.TrimSpace(req.Category)

	now := time.Now().UTC()
	p := &domain.Product{
		ID:           s.genID.Generate(),
		Name:         name,
		Description:  strings.TrimSpace(req.Description),
		HSNSAC:       strings.TrimSpace(req.HSNSAC),
		Price:        req.Price,
		TaxRate:      taxRate,
		Unit:         unit,
		IsTaxable:    taxable,
		Category:     category,
		CategorySlug: categorySlug(category),
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, s.db, p); err != nil {
		return nil, err
	}
	return s.Get(ctx, p.ID.String())
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	productID, err := ids.Parse("product_id", id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	resp := s.toResponse(item)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	productID, err := ids.Parse("product_id", id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}

	columns := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperr.Invalid("name", "cannot be empty")
		}
		columns["name"] = name
	}
	if req.Description != nil {
		columns["description"] = strings.TrimSpace(*req.Description)
	}
	if req.HSNSAC != nil {
		columns["hsn_sac"] = strings.TrimSpace(*req.HSNSAC)
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, apperr.Invalid("price", "cannot be negative")
		}
		columns["price"] = *req.Price
	}
	if req.TaxRate != nil {
		if err := validateRate(*req.TaxRate); err != nil {
			return nil, err
		}
		columns["tax_rate"] = *req.TaxRate
	}
	if req.Unit != nil {
		unit := strings.ToUpper(strings.TrimSpace(*req.Unit))
		if unit == "" {
			unit = domain.DefaultUnit
		}
		columns["unit"] = unit
	}
	if req.IsTaxable != nil {
		columns["is_taxable"] = *req.IsTaxable
	}
	if req.Category != nil {
		category := strings.TrimSpace(*req.Category)
		columns["category"] = category
		columns["category_slug"] = categorySlug(category)
	}
	if req.IsActive != nil {
		columns["is_active"] = *req.IsActive
	}

	if len(columns) > 0 {
		columns["updated_at"] = time.Now().UTC()
		if err := s.repo.Update(ctx, s.db, productID, columns); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, id)
}

// Archive hides the product from the catalog. Existing invoice lines keep
// their reference.
func (s *Service) Archive(ctx context.Context, id string) error {
	productID, err := ids.Parse("product_id", id)
	if err != nil {
		return err
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	return s.repo.Update(ctx, s.db, productID, map[string]any{
		"is_active":  false,
		"updated_at": time.Now().UTC(),
	})
}

func (s *Service) toResponse(p *domain.Product) domain.Response {
	return domain.Response{
		ID:           p.ID.String(),
		Name:         p.Name,
		Description:  p.Description,
		HSNSAC:       p.HSNSAC,
		Price:        p.Price,
		TaxRate:      p.TaxRate,
		Unit:         p.Unit,
		IsTaxable:    p.IsTaxable,
		Category:     p.Category,
		CategorySlug: p.CategorySlug,
		IsActive:     p.IsActive,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func categorySlug(category string) string {
	if category == "" {
		return ""
	}
	return slug.Make(category)
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return apperr.Invalid("tax_rate", "must be between 0 and 100")
	}
	return nil
}
