package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerbook/internal/cache"
	"github.com/smallbiznis/ledgerbook/internal/clock"
	"github.com/smallbiznis/ledgerbook/internal/config"
	customerdomain "github.com/smallbiznis/ledgerbook/internal/customer/domain"
	"github.com/smallbiznis/ledgerbook/internal/dashboard/domain"
	productdomain "github.com/smallbiznis/ledgerbook/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var statsKey = cache.Key("dashboard", "stats")

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	Clock        clock.Clock
	Cache        cache.Store
	Invoicing    *config.InvoicingConfigHolder
	Repo         domain.Repository
	CustomerRepo customerdomain.Repository
	ProductRepo  productdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	cache cache.Store

	invoicing    *config.InvoicingConfigHolder
	repo         domain.Repository
	customerRepo customerdomain.Repository
	productRepo  productdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("dashboard.service"),
		clock: p.Clock,
		cache: p.Cache,

		invoicing:    p.Invoicing,
		repo:         p.Repo,
		customerRepo: p.CustomerRepo,
		productRepo:  p.ProductRepo,
	}
}

// Stats serves cached aggregates while they are younger than the configured
// TTL. Cache failures fall through to the database.
func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	if cached, ok := s.cached(ctx); ok {
		return cached, nil
	}

	stats, err := s.compute(ctx)
	if err != nil {
		return domain.Stats{}, err
	}

	ttl := s.invoicing.Get().DashboardCacheTTL
	if payload, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, statsKey, payload, ttl); err != nil {
			s.log.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}

func (s *Service) cached(ctx context.Context) (domain.Stats, bool) {
	payload, ok, err := s.cache.Get(ctx, statsKey)
	if err != nil {
		s.log.Warn("dashboard cache read failed", zap.Error(err))
		return domain.Stats{}, false
	}
	if !ok {
		return domain.Stats{}, false
	}
	var stats domain.Stats
	if err := json.Unmarshal(payload, &stats); err != nil {
		s.log.Warn("dashboard cache entry unreadable", zap.Error(err))
		return domain.Stats{}, false
	}
	return stats, true
}

func (s *Service) compute(ctx context.Context) (domain.Stats, error) {
	now := s.clock.Now()
	stats := domain.Stats{
		InvoicesByStatus:   map[string]int64{},
		TotalRevenue:       decimal.Zero,
		AmountCollected:    decimal.Zero,
		OutstandingBalance: decimal.Zero,
		GeneratedAt:        now,
	}

	rows, err := s.repo.StatusTotals(ctx, s.db)
	if err != nil {
		return domain.Stats{}, err
	}
	for _, row := range rows {
		stats.TotalInvoices += row.Count
		stats.InvoicesByStatus[row.Status] = row.Count
		switch row.Status {
		case "draft", "sent", "partially_paid":
			stats.PendingInvoices += row.Count
		case "paid":
			stats.PaidInvoices += row.Count
		case "overdue":
			stats.OverdueInvoices += row.Count
		}
		if row.Status == "cancelled" {
			continue
		}
		stats.TotalRevenue = stats.TotalRevenue.Add(row.TotalAmount.Decimal)
		stats.AmountCollected = stats.AmountCollected.Add(row.AmountPaid.Decimal)
		stats.OutstandingBalance = stats.OutstandingBalance.Add(row.BalanceDue.Decimal)
	}

	if stats.RecentInvoices, err = s.repo.Recent(ctx, s.db, domain.RecentInvoiceLimit); err != nil {
		return domain.Stats{}, err
	}

	start := monthStart(now).AddDate(0, -(domain.TrendMonths - 1), 0)
	collections, err := s.repo.CollectionsSince(ctx, s.db, start)
	if err != nil {
		return domain.Stats{}, err
	}
	stats.RevenueTrend = revenueTrend(start, collections)

	if stats.TotalCustomers, err = s.repo.CountCustomers(ctx, s.db); err != nil {
		return domain.Stats{}, err
	}
	if stats.ActiveCustomers, err = s.customerRepo.CountActive(ctx, s.db); err != nil {
		return domain.Stats{}, err
	}
	if stats.TotalProducts, err = s.repo.CountProducts(ctx, s.db); err != nil {
		return domain.Stats{}, err
	}
	if stats.ActiveProducts, err = s.productRepo.CountActive(ctx, s.db); err != nil {
		return domain.Stats{}, err
	}

	return stats, nil
}

// revenueTrend buckets collections into TrendMonths consecutive months from
// start, zero-filling months without invoices.
func revenueTrend(start time.Time, rows []domain.CollectionRow) []domain.MonthRevenue {
	trend := make([]domain.MonthRevenue, domain.TrendMonths)
	index := make(map[string]int, domain.TrendMonths)
	for i := range trend {
		month := start.AddDate(0, i, 0).Format("2006-01")
		trend[i] = domain.MonthRevenue{Month: month, Revenue: decimal.Zero}
		index[month] = i
	}
	for _, row := range rows {
		if i, ok := index[row.Date.UTC().Format("2006-01")]; ok {
			trend[i].Revenue = trend[i].Revenue.Add(row.AmountPaid)
		}
	}
	return trend
}

func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
