package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/ledgerbook/internal/company/domain"
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
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("company.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Get(ctx context.Context) (domain.CompanySettings, error) {
	settings, err := s.repo.Latest(ctx, s.db)
	if err != nil {
		return domain.CompanySettings{}, err
	}
	if settings == nil {
		return domain.CompanySettings{}, domain.ErrNotFound
	}
	return *settings, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.CompanySettings, error) {
	columns, err := buildPatch(req)
	if err != nil {
		return domain.CompanySettings{}, err
	}

	var saved domain.CompanySettings
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := s.repo.Latest(ctx, tx)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if current == nil {
			settings := domain.CompanySettings{
				ID:        s.genID.Generate(),
				CreatedAt: now,
				UpdatedAt: now,
			}
			applyPatch(&settings, req)
			if strings.TrimSpace(settings.CompanyName) == "" {
				return apperr.Missing("company_name")
			}
			if err := s.repo.Insert(ctx, tx, &settings); err != nil {
				return err
			}
			s.log.Info("company settings created", zap.String("company_settings_id", settings.ID.String()))
			saved = settings
			return nil
		}

		if len(columns) == 0 {
			saved = *current
			return nil
		}
		columns["updated_at"] = now
		if err := s.repo.Update(ctx, tx, current.ID, columns); err != nil {
			return err
		}
		latest, err := s.repo.Latest(ctx, tx)
		if err != nil {
			return err
		}
		saved = *latest
		return nil
	})
	if err != nil {
		return domain.CompanySettings{}, err
	}
	return saved, nil
}

type textField struct {
	column string
	value  *string
	target func(*domain.CompanySettings) *string
}

func fields(req domain.UpdateRequest) []textField {
	return []textField{
		{"company_name", req.CompanyName, func(c *domain.CompanySettings) *string { return &c.CompanyName }},
		{"address_line1", req.AddressLine1, func(c *domain.CompanySettings) *string { return &c.AddressLine1 }},
		{"address_line2", req.AddressLine2, func(c *domain.CompanySettings) *string { return &c.AddressLine2 }},
		{"city", req.City, func(c *domain.CompanySettings) *string { return &c.City }},
		{"state", req.State, func(c *domain.CompanySettings) *string { return &c.State }},
		{"postal_code", req.PostalCode, func(c *domain.CompanySettings) *string { return &c.PostalCode }},
		{"country", req.Country, func(c *domain.CompanySettings) *string { return &c.Country }},
		{"phone", req.Phone, func(c *domain.CompanySettings) *string { return &c.Phone }},
		{"email", req.Email, func(c *domain.CompanySettings) *string { return &c.Email }},
		{"website", req.Website, func(c *domain.CompanySettings) *string { return &c.Website }},
		{"gst_number", req.GSTNumber, func(c *domain.CompanySettings) *string { return &c.GSTNumber }},
		{"pan_number", req.PANNumber, func(c *domain.CompanySettings) *string { return &c.PANNumber }},
		{"bank_name", req.BankName, func(c *domain.CompanySettings) *string { return &c.BankName }},
		{"bank_account_name", req.BankAccountName, func(c *domain.CompanySettings) *string { return &c.BankAccountName }},
		{"bank_account_number", req.BankAccountNumber, func(c *domain.CompanySettings) *string { return &c.BankAccountNumber }},
		{"bank_ifsc_code", req.BankIFSCCode, func(c *domain.CompanySettings) *string { return &c.BankIFSCCode }},
		{"bank_branch", req.BankBranch, func(c *domain.CompanySettings) *string { return &c.BankBranch }},
		{"terms_and_conditions", req.TermsAndConditions, func(c *domain.CompanySettings) *string { return &c.TermsAndConditions }},
		{"authorized_signatory", req.AuthorizedSignatory, func(c *domain.CompanySettings) *string { return &c.AuthorizedSignatory }},
		{"logo_url", req.LogoURL, func(c *domain.CompanySettings) *string { return &c.LogoURL }},
	}
}

func buildPatch(req domain.UpdateRequest) (map[string]any, error) {
	columns := map[string]any{}
	for _, f := range fields(req) {
		if f.value == nil {
			continue
		}
		value := strings.TrimSpace(*f.value)
		if f.column == "company_name" && value == "" {
			return nil, apperr.Invalid("company_name", "cannot be empty")
		}
		if f.column == "gst_number" || f.column == "pan_number" || f.column == "bank_ifsc_code" {
			value = strings.ToUpper(value)
		}
		columns[f.column] = value
	}
	return columns, nil
}

func applyPatch(settings *domain.CompanySettings, req domain.UpdateRequest) {
	columns, _ := buildPatch(req)
	for _, f := range fields(req) {
		if value, ok := columns[f.column]; ok {
			*f.target(settings) = value.(string)
		}
	}
}
