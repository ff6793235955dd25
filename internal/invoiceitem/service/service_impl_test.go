package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerbook/internal/invoiceitem/domain"
	"github.com/smallbiznis/ledgerbook/internal/invoiceitem/repository"
	"github.com/smallbiznis/ledgerbook/internal/invoiceitem/service"
	productdomain "github.com/smallbiznis/ledgerbook/internal/product/domain"
	productrepo "github.com/smallbiznis/ledgerbook/internal/product/repository"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&productdomain.Product{}, &domain.InvoiceItem{}))
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func newService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()
	conn := setupTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	svc := service.New(service.Params{
		DB:          conn,
		Log:         zap.NewNop(),
		GenID:       node,
		Repo:        repository.Provide(),
		ProductRepo: productrepo.Provide(),
	})
	return svc, conn, node
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func seedProduct(t *testing.T, conn *gorm.DB, node *snowflake.Node, active, taxable bool) productdomain.Product {
	t.Helper()
	now := time.Now().UTC()
	product := productdomain.Product{
		ID:        node.Generate(),
		Name:      "Hydraulic hose",
		HSNSAC:    "4009",
		Price:     dec("450"),
		TaxRate:   dec("18"),
		Unit:      "MTR",
		IsTaxable: taxable,
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, conn.Select("*").Create(&product).Error)
	return product
}

func TestCreateFreeTextLine(t *testing.T) {
	svc, _, node := newService(t)
	ctx := context.Background()
	invoiceID := node.Generate()

	item, err := svc.Create(ctx, invoiceID, domain.CreateRequest{
		Description:    "Site visit",
		Quantity:       dec("1.5"),
		UnitPrice:      decPtr("800"),
		DiscountAmount: decPtr("100"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.KindFreeText, item.Kind())
	assert.True(t, item.TaxRate.Equal(dec("18")))
	assert.True(t, item.TaxableAmount.Equal(dec("1100")))
	assert.True(t, item.TaxAmount.Equal(dec("198")))
	assert.True(t, item.LineTotal.Equal(dec("1298")))

	_, err = svc.Create(ctx, invoiceID, domain.CreateRequest{Quantity: dec("1"), UnitPrice: decPtr("1")})
	assert.Equal(t, "description", apperr.FieldOf(err))

	_, err = svc.Create(ctx, invoiceID, domain.CreateRequest{Description: "No price", Quantity: dec("1")})
	assert.Equal(t, "unit_price", apperr.FieldOf(err))
}

func TestCreateFallsBackToProduct(t *testing.T) {
	svc, conn, node := newService(t)
	ctx := context.Background()
	invoiceID := node.Generate()
	exempt := seedProduct(t, conn, node, true, false)

	item, err := svc.Create(ctx, invoiceID, domain.CreateRequest{ProductID: exempt.ID.String(), Quantity: dec("2")})
	require.NoError(t, err)
	assert.Equal(t, domain.KindCatalog, item.Kind())
	assert.Equal(t, "Hydraulic hose", item.Description)
	assert.Equal(t, "4009", item.HSNSAC)
	assert.True(t, item.TaxRate.IsZero())
	assert.True(t, item.LineTotal.Equal(dec("900")))

	line, err := svc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hydraulic hose", line.ProductName)

	archived := seedProduct(t, conn, node, false, true)
	_, err = svc.Create(ctx, invoiceID, domain.CreateRequest{ProductID: archived.ID.String(), Quantity: dec("1")})
	assert.True(t, apperr.IsNotFound(err))

	_, err = svc.Create(ctx, invoiceID, domain.CreateRequest{ProductID: node.Generate().String(), Quantity: dec("1")})
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateRecomputesDerivedAmounts(t *testing.T) {
	svc, _, node := newService(t)
	ctx := context.Background()
	invoiceID := node.Generate()

	item, err := svc.Create(ctx, invoiceID, domain.CreateRequest{Description: "Labour", Quantity: dec("2"), UnitPrice: decPtr("100")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, item.ID, domain.UpdateRequest{
		UnitPrice:          decPtr("150"),
		DiscountPercentage: decPtr("10"),
		TaxRate:            decPtr("12"),
	})
	require.NoError(t, err)
	assert.True(t, updated.TaxableAmount.Equal(dec("270")))
	assert.True(t, updated.TaxAmount.Equal(dec("32.4")))
	assert.True(t, updated.LineTotal.Equal(dec("302.4")))

	_, err = svc.Update(ctx, item.ID, domain.UpdateRequest{UnitPrice: decPtr("-1")})
	assert.Equal(t, "unit_price", apperr.FieldOf(err))

	empty := " "
	_, err = svc.Update(ctx, item.ID, domain.UpdateRequest{Description: &empty})
	assert.Equal(t, "description", apperr.FieldOf(err))

	_, err = svc.Update(ctx, node.Generate(), domain.UpdateRequest{})
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateChecksProductReference(t *testing.T) {
	svc, conn, node := newService(t)
	ctx := context.Background()
	invoiceID := node.Generate()

	item, err := svc.Create(ctx, invoiceID, domain.CreateRequest{Description: "Fitting", Quantity: dec("1"), UnitPrice: decPtr("300")})
	require.NoError(t, err)

	unknown := node.Generate().String()
	_, err = svc.Update(ctx, item.ID, domain.UpdateRequest{ProductID: &unknown})
	assert.True(t, apperr.IsNotFound(err))

	archived := seedProduct(t, conn, node, false, true).ID.String()
	_, err = svc.Update(ctx, item.ID, domain.UpdateRequest{ProductID: &archived})
	assert.True(t, apperr.IsNotFound(err))

	stored, err := svc.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ProductID)

	active := seedProduct(t, conn, node, true, true)
	activeID := active.ID.String()
	updated, err := svc.Update(ctx, item.ID, domain.UpdateRequest{ProductID: &activeID})
	require.NoError(t, err)
	require.NotNil(t, updated.ProductID)
	assert.Equal(t, active.ID, *updated.ProductID)
	assert.Equal(t, "Fitting", updated.Description)

	bad := "not-an-id"
	_, err = svc.Update(ctx, item.ID, domain.UpdateRequest{ProductID: &bad})
	assert.Equal(t, "product_id", apperr.FieldOf(err))
}

func TestDeleteAllForInvoice(t *testing.T) {
	svc, _, node := newService(t)
	ctx := context.Background()
	invoiceID := node.Generate()
	other := node.Generate()

	for _, id := range []snowflake.ID{invoiceID, invoiceID, other} {
		_, err := svc.Create(ctx, id, domain.CreateRequest{Description: "Line", Quantity: dec("1"), UnitPrice: decPtr("10")})
		require.NoError(t, err)
	}

	deleted, err := svc.DeleteAllForInvoice(ctx, invoiceID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := svc.ListByInvoice(ctx, other)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	none, err := svc.ListByInvoice(ctx, invoiceID)
	require.NoError(t, err)
	assert.Empty(t, none)
}
