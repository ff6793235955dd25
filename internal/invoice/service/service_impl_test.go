package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	chargedomain "github.com/smallbiznis/ledgerbook/internal/additionalcharge/domain"
	chargerepo "github.com/smallbiznis/ledgerbook/internal/additionalcharge/repository"
	chargeservice "github.com/smallbiznis/ledgerbook/internal/additionalcharge/service"
	"github.com/smallbiznis/ledgerbook/internal/clock"
	companydomain "github.com/smallbiznis/ledgerbook/internal/company/domain"
	companyrepo "github.com/smallbiznis/ledgerbook/internal/company/repository"
	"github.com/smallbiznis/ledgerbook/internal/config"
	customerdomain "github.com/smallbiznis/ledgerbook/internal/customer/domain"
	customerrepo "github.com/smallbiznis/ledgerbook/internal/customer/repository"
	"github.com/smallbiznis/ledgerbook/internal/invoice/domain"
	"github.com/smallbiznis/ledgerbook/internal/invoice/repository"
	"github.com/smallbiznis/ledgerbook/internal/invoice/service"
	itemdomain "github.com/smallbiznis/ledgerbook/internal/invoiceitem/domain"
	itemrepo "github.com/smallbiznis/ledgerbook/internal/invoiceitem/repository"
	itemservice "github.com/smallbiznis/ledgerbook/internal/invoiceitem/service"
	productdomain "github.com/smallbiznis/ledgerbook/internal/product/domain"
	productrepo "github.com/smallbiznis/ledgerbook/internal/product/repository"
	"github.com/smallbiznis/ledgerbook/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var issueDate = time.Date(2025, time.June, 7, 0, 0, 0, 0, time.UTC)

type harness struct {
	db       *gorm.DB
	node     *snowflake.Node
	clock    *clock.FakeClock
	svc      domain.Service
	customer customerdomain.Customer
	renderer *stubRenderer
}

type stubRenderer struct {
	doc domain.Document
}

func (r *stubRenderer) RenderInvoice(_ context.Context, doc domain.Document) ([]byte, error) {
	r.doc = doc
	return []byte("%PDF-1.4"), nil
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&customerdomain.Customer{},
		&productdomain.Product{},
		&companydomain.CompanySettings{},
		&domain.Invoice{},
		&itemdomain.InvoiceItem{},
		&chargedomain.AdditionalCharge{},
	))
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

func newHarness(t *testing.T, cfg config.InvoicingConfig) *harness {
	t.Helper()
	conn := setupTestDB(t)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	h := &harness{
		db:       conn,
		node:     node,
		clock:    clock.NewFakeClock(issueDate.Add(10 * time.Hour)),
		renderer: &stubRenderer{},
	}
	log := zap.NewNop()

	h.svc = service.New(service.Params{
		DB:           conn,
		Log:          log,
		GenID:        node,
		Clock:        h.clock,
		Invoicing:    config.NewStaticInvoicingConfig(cfg),
		Repo:         repository.Provide(),
		CustomerRepo: customerrepo.Provide(),
		CompanyRepo:  companyrepo.Provide(),
		ItemSvc: itemservice.New(itemservice.Params{
			DB:          conn,
			Log:         log,
			GenID:       node,
			Repo:        itemrepo.Provide(),
			ProductRepo: productrepo.Provide(),
		}),
		ChargeSvc: chargeservice.New(chargeservice.Params{
			DB:    conn,
			Log:   log,
			GenID: node,
			Clock: h.clock,
			Repo:  chargerepo.Provide(),
		}),
		Renderer: h.renderer,
	})

	h.customer = customerdomain.Customer{
		ID:             node.Generate(),
		Name:           "Rajkot Castings",
		BillingAddress: datatypes.JSONMap{"city": "Rajkot", "state": "Gujarat"},
		PlaceOfSupply:  "Gujarat",
		PaymentTerms:   15,
		CreditLimit:    decimal.Zero,
		IsActive:       true,
		CreatedAt:      h.clock.Now(),
		UpdatedAt:      h.clock.Now(),
	}
	require.NoError(t, conn.Create(&h.customer).Error)
	return h
}

func homeGujarat() config.InvoicingConfig {
	cfg := config.DefaultInvoicingConfig()
	cfg.HomeState = "Gujarat"
	return cfg
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func strPtr(v string) *string { return &v }

func assertAmount(t *testing.T, want string, got decimal.Decimal, field string) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "%s: want %s, got %s", field, want, got)
}

func line(description, qty, price string) itemdomain.CreateRequest {
	return itemdomain.CreateRequest{
		Description: description,
		Quantity:    dec(qty),
		UnitPrice:   decPtr(price),
	}
}

func (h *harness) create(t *testing.T, items ...itemdomain.CreateRequest) domain.View {
	t.Helper()
	view, err := h.svc.Create(context.Background(), domain.CreateRequest{
		CustomerID: h.customer.ID.String(),
		Items:      items,
	})
	require.NoError(t, err)
	return view
}

func TestCreateComputesTotalsAndDefaults(t *testing.T) {
	h := newHarness(t, homeGujarat())

	view := h.create(t, line("MS flange 4in", "2", "100"))

	assert.Equal(t, "INV-2025-26-0001", view.InvoiceNumber)
	assert.Equal(t, domain.StatusDraft, view.Status)
	assert.Equal(t, "Rajkot Castings", view.CustomerName)
	assert.Equal(t, "sales", view.InvoiceType)
	assert.Equal(t, "Gujarat", view.PlaceOfSupply)
	assert.Equal(t, "Rajkot", view.ShippingDetails["city"])
	assert.True(t, view.Date.Equal(issueDate))
	assert.True(t, view.DueDate.Equal(issueDate.AddDate(0, 0, 15)))

	assertAmount(t, "200", view.Subtotal, "subtotal")
	assertAmount(t, "36", view.TaxAmount, "tax_amount")
	assertAmount(t, "236", view.TotalAmount, "total_amount")
	assertAmount(t, "236", view.BalanceDue, "balance_due")
	assertAmount(t, "0", view.AmountPaid, "amount_paid")
	assertAmount(t, "18", view.CGSTAmount, "cgst_amount")
	assertAmount(t, "18", view.SGSTAmount, "sgst_amount")
	assertAmount(t, "9", view.CGSTRate, "cgst_rate")
	assertAmount(t, "0", view.IGSTAmount, "igst_amount")

	require.Len(t, view.Items, 1)
	assert.Equal(t, itemdomain.KindFreeText, view.Items[0].Kind())
	assertAmount(t, "18", view.Items[0].TaxRate, "tax_rate")
	assertAmount(t, "236", view.Items[0].LineTotal, "line_total")
	assert.Empty(t, view.AdditionalCharges)
}

func TestCreateInterStateUsesIGST(t *testing.T) {
	h := newHarness(t, homeGujarat())

	view, err := h.svc.Create(context.Background(), domain.CreateRequest{
		CustomerID:    h.customer.ID.String(),
		PlaceOfSupply: "Maharashtra",
		Items:         []itemdomain.CreateRequest{line("Pump casing", "1", "1000")},
	})
	require.NoError(t, err)

	assertAmount(t, "180", view.IGSTAmount, "igst_amount")
	assertAmount(t, "18", view.IGSTRate, "igst_rate")
	assertAmount(t, "0", view.CGSTAmount, "cgst_amount")
}

func TestCreateUsesCompanyState(t *testing.T) {
	h := newHarness(t, homeGujarat())
	require.NoError(t, h.db.Create(&companydomain.CompanySettings{
		ID:          h.node.Generate(),
		CompanyName: "Patel Engineering Works",
		State:       "Maharashtra",
		CreatedAt:   h.clock.Now(),
		UpdatedAt:   h.clock.Now(),
	}).Error)

	view := h.create(t, line("Bearing", "1", "100"))
	assertAmount(t, "18", view.IGSTAmount, "igst_amount")
}

func TestCreateFromCatalogProduct(t *testing.T) {
	h := newHarness(t, homeGujarat())
	product := productdomain.Product{
		ID:        h.node.Generate(),
		Name:      "Gear box",
		HSNSAC:    "8483",
		Price:     dec("2500"),
		TaxRate:   dec("12"),
		Unit:      "NOS",
		IsTaxable: true,
		IsActive:  true,
		CreatedAt: h.clock.Now(),
		UpdatedAt: h.clock.Now(),
	}
	require.NoError(t, h.db.Create(&product).Error)

	view := h.create(t, itemdomain.CreateRequest{ProductID: product.ID.String(), Quantity: dec("2")})

	require.Len(t, view.Items, 1)
	item := view.Items[0]
	assert.Equal(t, itemdomain.KindCatalog, item.Kind())
	assert.Equal(t, "Gear box", item.Description)
	assert.Equal(t, "Gear box", item.ProductName)
	assert.Equal(t, "8483", item.HSNSAC)
	assertAmount(t, "5000", item.TaxableAmount, "taxable_amount")
	assertAmount(t, "600", item.TaxAmount, "tax_amount")
	assertAmount(t, "5600", view.TotalAmount, "total_amount")
}

func TestCreateRejectsUnknownCustomer(t *testing.T) {
	h := newHarness(t, homeGujarat())

	_, err := h.svc.Create(context.Background(), domain.CreateRequest{
		CustomerID: h.node.Generate().String(),
		Items:      []itemdomain.CreateRequest{line("Bolt", "1", "10")},
	})
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))

	_, err = h.svc.Create(context.Background(), domain.CreateRequest{CustomerID: "not-an-id"})
	assert.Equal(t, "customer_id", apperr.FieldOf(err))
}

func TestCreateRollsBackOnInvalidItem(t *testing.T) {
	h := newHarness(t, homeGujarat())

	_, err := h.svc.Create(context.Background(), domain.CreateRequest{
		CustomerID: h.customer.ID.String(),
		Items: []itemdomain.CreateRequest{
			line("Bolt", "1", "10"),
			line("Nut", "0", "5"),
		},
	})
	require.Error(t, err)
	assert.Equal(t, "items[1].quantity", apperr.FieldOf(err))

	var invoices, items int64
	require.NoError(t, h.db.Model(&domain.Invoice{}).Count(&invoices).Error)
	require.NoError(t, h.db.Model(&itemdomain.InvoiceItem{}).Count(&items).Error)
	assert.Zero(t, invoices)
	assert.Zero(t, items)
}

func TestUpdateRollsBackOnInvalidItems(t *testing.T) {
	h := newHarness(t, homeGujarat())
	ctx := context.Background()
	created := h.create(t,
		line("Bolt", "2", "100"),
		line("Nut", "4", "25"),
		line("Washer", "10", "3"),
	)

	_, err := h.svc.Update(ctx, created.ID.String(), domain.UpdateRequest{
		Notes: strPtr("replaced"),
		Items: []itemdomain.CreateRequest{
			line("Flange", "1", "500"),
			line("Gasket", "0", "40"),
		},
	})
	require.Error(t, err)
	assert.Equal(t, "items[1].quantity", apperr.FieldOf(err))

	got, err := h.svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "Bolt", got.Items[0].Description)
	assertAmount(t, created.Subtotal.String(), got.Subtotal, "subtotal")
	assertAmount(t, created.TaxAmount.String(), got.TaxAmount, "tax_amount")
	assertAmount(t, created.TotalAmount.String(), got.TotalAmount, "total_amount")
	assert.Empty(t, got.Notes)

	var items int64
	require.NoError(t, h.db.Model(&itemdomain.InvoiceItem{}).Count(&items).Error)
	assert.EqualValues(t, 3, items)
}

func TestCreateValidatesStatusAndDates(t *testing.T) {
	h := newHarness(t, homeGujarat())
	ctx := context.Background()

	_, err := h.svc.Create(ctx, domain.CreateRequest{CustomerID: h.customer.ID.String(), Status: "paid"})
	assert.Equal(t, "status", apperr.FieldOf(err))

	before := issueDate.AddDate(0, 0, -1)
	_, err = h.svc.Create(ctx, domain.CreateRequest{CustomerID: h.customer.ID.String(), DueDate: &before})
	assert.Equal(t, "due_date", apperr.FieldOf(err))

	view, err := h.svc.Create(ctx, domain.CreateRequest{CustomerID: h.customer.ID.String(), Status: "sent"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, view.Status)
	assertAmount(t, "0", view.TotalAmount, "total_amount")
}

func TestInvoiceNumbersIncrement(t *testing.T) {
	h := newHarness(t, homeGujarat())

	first := h.create(t, line("Bolt", "1", "10"))
	h.clock.Advance(time.Minute)
	second := h.create(t, line("Nut", "1", "5"))

	assert.Equal(t, "INV-2025-26-0001", first.InvoiceNumber)
	assert.Equal(t, "INV-2025-26-0002", second.InvoiceNumber)

	list, err := h.svc.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, "Rajkot Castings", list[0].CustomerName)
}

func TestUpdateReplacesItems(t *testing.T) {
	h := newHarness(t, homeGujarat())
	created := h.create(t,
		line("Bolt", "10", "10"),
		line("Nut", "10", "5"),
		line("Washer", "10", "1"),
	)
	require.Len(t, created.Items, 3)

	updated, err := h.svc.Update(context.Background(), created.ID.String(), domain.UpdateRequest{
		Notes: strPtr("Revised quote"),
		Items: []itemdomain.CreateRequest{line("Anchor bolt", "4", "50")},
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Anchor bolt", updated.Items[0].Description)
	assert.Equal(t, "Revised quote", updated.Notes)
	assertAmount(t, "200", updated.Subtotal, "subtotal")
	assertAmount(t, "236", updated.TotalAmount, "total_amount")
	assert.Equal(t, created.InvoiceNumber, updated.InvoiceNumber)

	var items int64
	require.NoError(t, h.db.Model(&itemdomain.InvoiceItem{}).Count(&items).Error)
	assert.Equal(t, int64(1), items)
}

func TestUpdateWithoutItemsKeepsLines(t *testing.T) {
	h := newHarness(t, homeGujarat())
	created := h.create(t, line("Bolt", "2", "100"))

	updated, err := h.svc.Update(context.Background(), created.ID.String(), domain.UpdateRequest{
		PlaceOfSupply: strPtr("Karnataka"),
		VehicleNumber: strPtr("gj03ab1234"),
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, "GJ03AB1234", updated.VehicleNumber)
	assertAmount(t, "36", updated.IGSTAmount, "igst_amount")
	assertAmount(t, "0", updated.CGSTAmount, "cgst_amount")
}

func TestStatusPatchFollowsLifecycle(t *testing.T) {
	h := newHarness(t, homeGujarat())
	ctx := context.Background()
	created := h.create(t, line("Bolt", "1", "10"))

	_, err := h.svc.Update(ctx, created.ID.String(), domain.UpdateRequest{Status: strPtr("draft")})
	require.NoError(t, err)

	sent, err := h.svc.Update(ctx, created.ID.String(), domain.UpdateRequest{Status: strPtr("sent")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, sent.Status)

	_, err = h.svc.Update(ctx, created.ID.String(), domain.UpdateRequest{Status: strPtr("draft")})
	assert.Equal(t, "status", apperr.FieldOf(err))

	_, err = h.svc.Update(ctx, created.ID.String(), domain.UpdateRequest{Status: strPtr("archived")})
	assert.Equal(t, "status", apperr.FieldOf(err))
}

func TestStatusPatchRejectsPaymentStatuses(t *testing.T) {
	h := newHarness(t, homeGujarat())
	ctx := context.Background()
	created := h.create(t, line("Bolt", "2", "100"))

	for _, target := range []string{"paid", "partially_paid", "overdue"} {
		_, err := h.svc.Update(ctx, created.ID.String(), domain.UpdateRequest{Status: strPtr(target)})
		assert.True(t, apperr.IsValidation(err), target)
		assert.Equal(t, "status", apperr.FieldOf(err), target)
	}

	_, err := h.svc.Update(ctx, created.ID.String(), domain.UpdateRequest{Status: strPtr("sent")})
	require.NoError(t, err)

	for _, target := range []string{"paid", "partially_paid", "overdue"} {
		_, err := h.svc.Update(ctx, created.ID.String(), domain.UpdateRequest{Status: strPtr(target)})
		assert.True(t, apperr.IsValidation(err), target)
	}

	got, err := h.svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, got.Status)
	assert.True(t, got.BalanceDue.Equal(got.TotalAmount))
	assert.True(t, got.AmountPaid.IsZero())

	cancelled, err := h.svc.Update(ctx, created.ID.String(), domain.UpdateRequest{Status: strPtr("cancelled")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
}

func TestCancelLocksInvoice(t *testing.T) {
	h := newHarness(t, homeGujarat())
	ctx := context.Background()
	created := h.create(t, line("Bolt", "2", "100"))

	cancelled, err := h.svc.Cancel(ctx, created.ID.String(), "duplicate")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, "duplicate", *cancelled.CancelReason)

	_, err = h.svc.Update(ctx, created.ID.String(), domain.UpdateRequest{Notes: strPtr("late edit")})
	assert.True(t, apperr.IsConflict(err))

	_, err = h.svc.Cancel(ctx, created.ID.String(), "again")
	assert.True(t, apperr.IsConflict(err))

	_, err = h.svc.AddItem(ctx, created.ID.String(), line("Nut", "1", "5"))
	assert.True(t, apperr.IsConflict(err))

	_, err = h.svc.UpdateItem(ctx, created.Items[0].ID.String(), itemdomain.UpdateRequest{Quantity: decPtr("5")})
	assert.True(t, apperr.IsConflict(err))

	_, err = h.svc.AddCharge(ctx, created.ID.String(), chargedomain.CreateRequest{ChargeName: "Freight", ChargeAmount: dec("100")})
	assert.True(t, apperr.IsConflict(err))

	unchanged, err := h.svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assertAmount(t, "236", unchanged.TotalAmount, "total_amount")
	require.Len(t, unchanged.Items, 1)
	assertAmount(t, "2", unchanged.Items[0].Quantity, "quantity")
}

func TestCancelDefaultReason(t *testing.T) {
	h := newHarness(t, homeGujarat())
	created := h.create(t, line("Bolt", "1", "10"))

	cancelled, err := h.svc.Cancel(context.Background(), created.ID.String(), "  ")
	require.NoError(t, err)
	require.NotNil(t, cancelled.CancelReason)
	assert.Equal(t, domain.DefaultCancelReason, *cancelled.CancelReason)

	_, err = h.svc.Cancel(context.Background(), h.node.Generate().String(), "")
	assert.True(t, apperr.IsNotFound(err))
}

func TestChargesSeparatePolicy(t *testing.T) {
	h := newHarness(t, homeGujarat())
	ctx := context.Background()
	created := h.create(t, line("Bolt", "2", "100"))

	charge, err := h.svc.AddCharge(ctx, created.ID.String(), chargedomain.CreateRequest{
		ChargeName:   "Freight",
		ChargeAmount: dec("500"),
		IsTaxable:    true,
		TaxRate:      dec("18"),
	})
	require.NoError(t, err)
	assertAmount(t, "90", charge.TaxAmount, "charge tax_amount")
	assertAmount(t, "590", charge.TotalAmount, "charge total_amount")

	view, err := h.svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	require.Len(t, view.AdditionalCharges, 1)
	assertAmount(t, "200", view.Subtotal, "subtotal")
	assertAmount(t, "36", view.TaxAmount, "tax_amount")
	assertAmount(t, "590", view.ChargesTotal, "charges_total")
	assertAmount(t, "826", view.TotalAmount, "total_amount")
	assertAmount(t, "826", view.BalanceDue, "balance_due")

	charges, err := h.svc.ListCharges(ctx, created.ID.String())
	require.NoError(t, err)
	require.Len(t, charges, 1)

	require.NoError(t, h.svc.RemoveCharge(ctx, charge.ID.String()))
	view, err = h.svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Empty(t, view.AdditionalCharges)
	assertAmount(t, "236", view.TotalAmount, "total_amount")

	err = h.svc.RemoveCharge(ctx, charge.ID.String())
	assert.True(t, apperr.IsNotFound(err))
}

func TestChargesFoldedPolicy(t *testing.T) {
	cfg := homeGujarat()
	cfg.ChargesPolicy = "folded"
	h := newHarness(t, cfg)

	view, err := h.svc.Create(context.Background(), domain.CreateRequest{
		CustomerID: h.customer.ID.String(),
		Items:      []itemdomain.CreateRequest{line("Bolt", "2", "100")},
		AdditionalCharges: []chargedomain.CreateRequest{
			{ChargeName: "Freight", ChargeAmount: dec("500"), IsTaxable: true, TaxRate: dec("18")},
		},
	})
	require.NoError(t, err)

	assertAmount(t, "700", view.Subtotal, "subtotal")
	assertAmount(t, "126", view.TaxAmount, "tax_amount")
	assertAmount(t, "0", view.ChargesTotal, "charges_total")
	assertAmount(t, "826", view.TotalAmount, "total_amount")
}

func TestItemMutationsRecomputeTotals(t *testing.T) {
	h := newHarness(t, homeGujarat())
	ctx := context.Background()
	created := h.create(t, line("Bolt", "2", "100"))

	updated, err := h.svc.UpdateItem(ctx, created.Items[0].ID.String(), itemdomain.UpdateRequest{Quantity: decPtr("3")})
	require.NoError(t, err)
	assertAmount(t, "354", updated.LineTotal, "line_total")

	added, err := h.svc.AddItem(ctx, created.ID.String(), itemdomain.CreateRequest{
		Description:        "Nut",
		Quantity:           dec("10"),
		UnitPrice:          decPtr("10"),
		DiscountPercentage: decPtr("10"),
		TaxRate:            decPtr("5"),
	})
	require.NoError(t, err)
	assertAmount(t, "90", added.TaxableAmount, "taxable_amount")
	assertAmount(t, "4.5", added.TaxAmount, "tax_amount")

	view, err := h.svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assertAmount(t, "390", view.Subtotal, "subtotal")
	assertAmount(t, "58.5", view.TaxAmount, "tax_amount")
	assertAmount(t, "448.5", view.TotalAmount, "total_amount")
	assertAmount(t, "0.5", view.RoundOff, "round_off")

	items, err := h.svc.ListItems(ctx, created.ID.String())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, created.Items[0].ID, items[0].ID)

	_, err = h.svc.UpdateItem(ctx, items[1].ID.String(), itemdomain.UpdateRequest{Quantity: decPtr("0")})
	assert.Equal(t, "quantity", apperr.FieldOf(err))

	_, err = h.svc.GetItem(ctx, h.node.Generate().String())
	assert.True(t, apperr.IsNotFound(err))
}

func TestGetByIDIsStable(t *testing.T) {
	h := newHarness(t, homeGujarat())
	ctx := context.Background()
	created := h.create(t, line("Bolt", "2", "100"), line("Nut", "1", "50"))

	first, err := h.svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	second, err := h.svc.GetByID(ctx, created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = h.svc.GetByID(ctx, h.node.Generate().String())
	assert.True(t, apperr.IsNotFound(err))
	_, err = h.svc.GetByID(ctx, "abc")
	assert.True(t, apperr.IsValidation(err))
}

func TestRenderPDF(t *testing.T) {
	h := newHarness(t, homeGujarat())
	created := h.create(t, line("Bolt", "2", "100"))

	rendered, err := h.svc.RenderPDF(context.Background(), created.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "invoice-INV-2025-26-0001.pdf", rendered.Filename)
	assert.Equal(t, "application/pdf", rendered.ContentType)
	assert.NotEmpty(t, rendered.Content)
	assert.Equal(t, created.ID, h.renderer.doc.Invoice.ID)
	require.NotNil(t, h.renderer.doc.Customer)
	assert.Equal(t, "Rajkot Castings", h.renderer.doc.Customer.Name)
	assert.Nil(t, h.renderer.doc.Company)
}

func TestMarkOverdue(t *testing.T) {
	h := newHarness(t, homeGujarat())
	ctx := context.Background()

	open := h.create(t, line("Bolt", "2", "100"))
	_, err := h.svc.Update(ctx, open.ID.String(), domain.UpdateRequest{Status: strPtr("sent")})
	require.NoError(t, err)
	draft := h.create(t, line("Nut", "1", "10"))

	dueDate := issueDate.AddDate(0, 0, 15)

	moved, err := h.svc.MarkOverdue(ctx, dueDate.Add(18*time.Hour), 10)
	require.NoError(t, err)
	assert.Zero(t, moved, "due today is not overdue")

	moved, err = h.svc.MarkOverdue(ctx, dueDate.AddDate(0, 0, 1), 10)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	view, err := h.svc.GetByID(ctx, open.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOverdue, view.Status)

	view, err = h.svc.GetByID(ctx, draft.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, view.Status)

	moved, err = h.svc.MarkOverdue(ctx, dueDate.AddDate(0, 0, 2), 10)
	require.NoError(t, err)
	assert.Zero(t, moved)

	moved, err = h.svc.MarkOverdue(ctx, dueDate.AddDate(0, 0, 2), 0)
	require.NoError(t, err)
	assert.Zero(t, moved)
}
