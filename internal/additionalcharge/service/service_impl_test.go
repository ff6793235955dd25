package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/ledgerbook/internal/additionalcharge/domain"
	"github.com/smallbiznis/ledgerbook/internal/additionalcharge/repository"
	"github.com/smallbiznis/ledgerbook/internal/additionalcharge/service"
	"github.com/smallbiznis/ledgerbook/internal/clock"
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
	require.NoError(t, conn.AutoMigrate(&domain.AdditionalCharge{}))
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

var chargeTime = time.Date(2025, time.June, 7, 11, 0, 0, 0, time.UTC)

func newService(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return service.New(service.Params{
		DB:    setupTestDB(t),
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(chargeTime),
		Repo:  repository.Provide(),
	}), node
}

func TestCreateDerivesTax(t *testing.T) {
	svc, node := newService(t)
	ctx := context.Background()
	invoiceID := node.Generate()

	freight, err := svc.Create(ctx, invoiceID, domain.CreateRequest{
		ChargeName:   " Freight ",
		ChargeAmount: decimal.NewFromInt(500),
		IsTaxable:    true,
		TaxRate:      decimal.NewFromInt(18),
	})
	require.NoError(t, err)
	assert.Equal(t, "Freight", freight.ChargeName)
	assert.True(t, freight.TaxAmount.Equal(decimal.NewFromInt(90)))
	assert.True(t, freight.TotalAmount.Equal(decimal.NewFromInt(590)))

	packing, err := svc.Create(ctx, invoiceID, domain.CreateRequest{
		ChargeName:   "Packing",
		ChargeAmount: decimal.NewFromInt(150),
		TaxRate:      decimal.NewFromInt(18),
	})
	require.NoError(t, err)
	assert.True(t, packing.TaxAmount.IsZero())
	assert.True(t, packing.TotalAmount.Equal(decimal.NewFromInt(150)))

	charges, err := svc.ListByInvoice(ctx, invoiceID)
	require.NoError(t, err)
	require.Len(t, charges, 2)
	assert.Equal(t, freight.ID, charges[0].ID)

	_, err = svc.Create(ctx, invoiceID, domain.CreateRequest{ChargeAmount: decimal.NewFromInt(1)})
	assert.Equal(t, "charge_name", apperr.FieldOf(err))

	_, err = svc.Create(ctx, invoiceID, domain.CreateRequest{ChargeName: "Refund", ChargeAmount: decimal.NewFromInt(-1)})
	assert.Equal(t, "charge_amount", apperr.FieldOf(err))
}

func TestDeleteByID(t *testing.T) {
	svc, node := newService(t)
	ctx := context.Background()

	charge, err := svc.Create(ctx, node.Generate(), domain.CreateRequest{ChargeName: "Loading", ChargeAmount: decimal.NewFromInt(200)})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteByID(ctx, charge.ID))
	assert.True(t, apperr.IsNotFound(svc.DeleteByID(ctx, charge.ID)))

	_, err = svc.GetByID(ctx, charge.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestCreateRoundsAmountToPaise(t *testing.T) {
	svc, node := newService(t)
	ctx := context.Background()

	charge, err := svc.Create(ctx, node.Generate(), domain.CreateRequest{
		ChargeName:   "Courier",
		ChargeAmount: decimal.RequireFromString("100.005"),
	})
	require.NoError(t, err)
	assert.True(t, charge.ChargeAmount.Equal(decimal.RequireFromString("100.01")), "charge_amount=%s", charge.ChargeAmount)
	assert.True(t, charge.ChargeAmount.Add(charge.TaxAmount).Equal(charge.TotalAmount))
	assert.True(t, charge.CreatedAt.Equal(chargeTime))

	stored, err := svc.GetByID(ctx, charge.ID)
	require.NoError(t, err)
	assert.True(t, stored.ChargeAmount.Equal(stored.TotalAmount))
	assert.True(t, stored.CreatedAt.Equal(chargeTime))
}
