package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/ledgerbook/internal/additionalcharge"
	"github.com/smallbiznis/ledgerbook/internal/clock"
	"github.com/smallbiznis/ledgerbook/internal/company"
	companydomain "github.com/smallbiznis/ledgerbook/internal/company/domain"
	"github.com/smallbiznis/ledgerbook/internal/config"
	"github.com/smallbiznis/ledgerbook/internal/customer"
	customerdomain "github.com/smallbiznis/ledgerbook/internal/customer/domain"
	"github.com/smallbiznis/ledgerbook/internal/dashboard"
	dashboarddomain "github.com/smallbiznis/ledgerbook/internal/dashboard/domain"
	"github.com/smallbiznis/ledgerbook/internal/idempotency"
	"github.com/smallbiznis/ledgerbook/internal/invoice"
	invoicedomain "github.com/smallbiznis/ledgerbook/internal/invoice/domain"
	"github.com/smallbiznis/ledgerbook/internal/invoiceitem"
	obslogger "github.com/smallbiznis/ledgerbook/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/ledgerbook/internal/observability/metrics"
	obstracing "github.com/smallbiznis/ledgerbook/internal/observability/tracing"
	"github.com/smallbiznis/ledgerbook/internal/payment"
	paymentdomain "github.com/smallbiznis/ledgerbook/internal/payment/domain"
	"github.com/smallbiznis/ledgerbook/internal/product"
	productdomain "github.com/smallbiznis/ledgerbook/internal/product/domain"
	"github.com/smallbiznis/ledgerbook/internal/providers"
)

var Module = fx.Module("http.server",
	customer.Module,
	product.Module,
	company.Module,
	invoiceitem.Module,
	additionalcharge.Module,
	invoice.Module,
	payment.Module,
	dashboard.Module,
	providers.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(clk clock.Clock, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	useJSONFieldNames()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware(clk))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrRouteNotFound)
	})

	return r
}

func registerGin(cfg config.Config, clk clock.Clock, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(clk, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	guard  *idempotency.Guard

	customerSvc  customerdomain.Service
	productSvc   productdomain.Service
	companySvc   companydomain.Service
	invoiceSvc   invoicedomain.Service
	paymentSvc   paymentdomain.Service
	dashboardSvc dashboarddomain.Service
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Guard *idempotency.Guard `optional:"true"`

	CustomerSvc  customerdomain.Service
	ProductSvc   productdomain.Service
	CompanySvc   companydomain.Service
	InvoiceSvc   invoicedomain.Service
	PaymentSvc   paymentdomain.Service
	DashboardSvc dashboarddomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:       p.Gin,
		guard:        p.Guard,
		customerSvc:  p.CustomerSvc,
		productSvc:   p.ProductSvc,
		companySvc:   p.CompanySvc,
		invoiceSvc:   p.InvoiceSvc,
		paymentSvc:   p.PaymentSvc,
		dashboardSvc: p.DashboardSvc,
	}

	svc.registerRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// idempotent guards creation endpoints with the Idempotency-Key header.
func (s *Server) idempotent() gin.HandlerFunc {
	if !s.guard.Enabled() {
		return func(c *gin.Context) { c.Next() }
	}
	return s.guard.Middleware()
}

func (s *Server) registerRoutes() {
	r := s.engine

	// -------- Invoices --------
	r.GET("/invoices", s.ListInvoices)
	r.POST("/invoices", s.idempotent(), s.CreateInvoice)
	r.GET("/invoices/:id", s.GetInvoiceByID)
	r.PUT("/invoices/:id", s.UpdateInvoice)
	r.POST("/invoices/:id/cancel", s.CancelInvoice)
	r.GET("/invoices/:id/pdf", s.RenderInvoicePDF)

	// -------- Invoice Items --------
	r.GET("/invoice-items/invoice/:id", s.ListInvoiceItems)
	r.GET("/invoice-items/:id", s.GetInvoiceItem)
	r.POST("/invoice-items", s.CreateInvoiceItem)
	r.PUT("/invoice-items/:id", s.UpdateInvoiceItem)

	// -------- Additional Charges --------
	r.POST("/additional-charges", s.CreateAdditionalCharge)
	r.GET("/additional-charges/:invoice_id", s.ListAdditionalCharges)
	r.DELETE("/additional-charges/:charge_id", s.DeleteAdditionalCharge)

	// -------- Customers --------
	customers := r.Group("/customers")
	{
		customers.GET("", s.ListCustomers)
		customers.GET("/all", s.ListAllCustomers)
		customers.GET("/:id", s.GetCustomerByID)
		customers.POST("", s.CreateCustomer)
		customers.PUT("/:id", s.UpdateCustomer)
		customers.DELETE("/:id", s.DeleteCustomer)
	}

	// -------- Products --------
	products := r.Group("/products")
	{
		products.GET("", s.ListProducts)
		products.GET("/all", s.ListAllProducts)
		products.GET("/:id", s.GetProductByID)
		products.POST("", s.CreateProduct)
		products.PUT("/:id", s.UpdateProduct)
		products.DELETE("/:id", s.DeleteProduct)
	}

	// -------- Payments --------
	payments := r.Group("/payments")
	{
		payments.GET("", s.ListPayments)
		payments.GET("/:id", s.GetPaymentByID)
		payments.POST("", s.idempotent(), s.CreatePayment)
		payments.PUT("/:id", s.UpdatePayment)
		payments.POST("/:id/refund", s.RefundPayment)
	}

	// -------- Company --------
	r.GET("/company", s.GetCompany)
	r.PUT("/company", s.UpdateCompany)

	// -------- Dashboard --------
	r.GET("/dashboard/stats", s.GetDashboardStats)
}
