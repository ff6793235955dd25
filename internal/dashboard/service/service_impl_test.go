package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerbook/internal/cache"
	"github.com/smallbiznis/ledgerbook/internal/clock"
	"github.com/smallbiznis/ledgerbook/internal/config"
	customerdomain "github.com/smallbiznis/ledgerbook/internal/customer/domain"
	customerrepo "github.com/smallbiznis/ledgerbook/internal/customer/repository"
	"github.com/smallbiznis/ledgerbook/internal/dashboard/domain"
	"github.com/smallbiznis/ledgerbook/internal/dashboard/repository"
	"github.com/smallbiznis/ledgerbook/internal/dashboard/service"
	invoicedomain "github.com/smallbiznis/ledgerbook/internal/invoice/domain"
	productdomain "github.com/smallbiznis/ledgerbook/internal/product/domain"
	productrepo "github.com/smallbiznis/ledgerbook/internal/product/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	svc      domain.Service
	customer customerdomain.Customer
	seq      int64
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&customerdomain.Customer{}, &productdomain.Product{}, &invoicedomain.Invoice{}))
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := setupTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2025, time.August, 14, 9, 0, 0, 0, time.UTC))

	f := &fixture{db: conn, node: node, clock: fake}
	f.svc = service.New(service.Params{
		DB:           conn,
		Log:          zap.NewNop(),
		Clock:        fake,
		Cache:        cache.NewMemoryStore(fake),
		Invoicing:    config.NewStaticInvoicingConfig(config.DefaultInvoicingConfig()),
		Repo:         repository.Provide(),
		CustomerRepo: customerrepo.Provide(),
		ProductRepo:  productrepo.Provide(),
	})

	now := fake.Now()
	f.customer = customerdomain.Customer{ID: node.Generate(), Name: "Kothari Textiles", IsActive: true, CreditLimit: decimal.Zero, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, conn.Create(&f.customer).Error)
	inactive := customerdomain.Customer{ID: node.Generate(), Name: "Closed Account", IsActive: true, CreditLimit: decimal.Zero, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, conn.Create(&inactive).Error)
	require.NoError(t, conn.Model(&inactive).Update("is_active", false).Error)

	product := productdomain.Product{ID: node.Generate(), Name: "Cotton yarn", Price: decimal.NewFromInt(320), TaxRate: decimal.NewFromInt(5), Unit: "KGS", IsTaxable: true, IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, conn.Create(&product).Error)
	return f
}

func (f *fixture) invoice(t *testing.T, status invoicedomain.InvoiceStatus, date time.Time, total, paid int64) {
	t.Helper()
	f.seq++
	now := f.clock.Now()
	invoice := invoicedomain.Invoice{
		ID:            f.node.Generate(),
		InvoiceNumber: "INV-" + decimal.NewFromInt(f.seq).String(),
		InvoiceSeq:    f.seq,
		CustomerID:    f.customer.ID,
		Date:          date,
		DueDate:       date.AddDate(0, 0, 15),
		Status:        status,
		Subtotal:      decimal.NewFromInt(total),
		TaxAmount:     decimal.Zero,
		TotalAmount:   decimal.NewFromInt(total),
		AmountPaid:    decimal.NewFromInt(paid),
		BalanceDue:    decimal.NewFromInt(total - paid),
		InvoiceType:   invoicedomain.DefaultInvoiceType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, f.db.Create(&invoice).Error)
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestStatsAggregatesInvoices(t *testing.T) {
	f := newFixture(t)
	f.invoice(t, invoicedomain.StatusPaid, day(2025, time.June, 3), 1000, 1000)
	f.invoice(t, invoicedomain.StatusPartiallyPaid, day(2025, time.August, 1), 500, 200)
	f.invoice(t, invoicedomain.StatusOverdue, day(2025, time.July, 10), 300, 0)
	f.invoice(t, invoicedomain.StatusDraft, day(2025, time.August, 12), 150, 0)
	f.invoice(t, invoicedomain.StatusCancelled, day(2025, time.August, 13), 9999, 0)
	f.invoice(t, invoicedomain.StatusPaid, day(2024, time.December, 20), 700, 700)

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(6), stats.TotalInvoices)
	assert.Equal(t, int64(2), stats.PaidInvoices)
	assert.Equal(t, int64(2), stats.PendingInvoices)
	assert.Equal(t, int64(1), stats.OverdueInvoices)
	assert.Equal(t, int64(1), stats.InvoicesByStatus["cancelled"])

	assert.True(t, stats.TotalRevenue.Equal(decimal.NewFromInt(2650)), stats.TotalRevenue.String())
	assert.True(t, stats.AmountCollected.Equal(decimal.NewFromInt(1900)), stats.AmountCollected.String())
	assert.True(t, stats.OutstandingBalance.Equal(decimal.NewFromInt(750)), stats.OutstandingBalance.String())

	assert.Equal(t, int64(2), stats.TotalCustomers)
	assert.Equal(t, int64(1), stats.ActiveCustomers)
	assert.Equal(t, int64(1), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.ActiveProducts)

	require.Len(t, stats.RecentInvoices, domain.RecentInvoiceLimit)
	assert.Equal(t, "cancelled", stats.RecentInvoices[0].Status)
	assert.Equal(t, "Kothari Textiles", stats.RecentInvoices[0].CustomerName)

	require.Len(t, stats.RevenueTrend, domain.TrendMonths)
	assert.Equal(t, "2025-03", stats.RevenueTrend[0].Month)
	assert.Equal(t, "2025-08", stats.RevenueTrend[5].Month)
	assert.True(t, stats.RevenueTrend[3].Revenue.Equal(decimal.NewFromInt(1000)))
	assert.True(t, stats.RevenueTrend[4].Revenue.IsZero())
	assert.True(t, stats.RevenueTrend[5].Revenue.Equal(decimal.NewFromInt(200)))
}

func TestStatsCacheExpiresAfterTTL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.invoice(t, invoicedomain.StatusSent, day(2025, time.August, 1), 100, 0)

	first, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.TotalInvoices)

	f.invoice(t, invoicedomain.StatusSent, day(2025, time.August, 2), 100, 0)

	f.clock.Advance(4 * time.Minute)
	cached, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cached.TotalInvoices)

	f.clock.Advance(2 * time.Minute)
	fresh, err := f.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh.TotalInvoices)
	assert.True(t, fresh.GeneratedAt.After(first.GeneratedAt))
}

func TestStatsOnEmptyDatabase(t *testing.T) {
	f := newFixture(t)

	stats, err := f.svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.TotalInvoices)
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.Empty(t, stats.RecentInvoices)
	assert.Len(t, stats.RevenueTrend, domain.TrendMonths)
}
