package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes invoicing instruments.
type Metrics struct {
	invoicesCreated   metric.Int64Counter
	invoicesCancelled metric.Int64Counter
	invoiceTotal      metric.Float64Histogram
	paymentsRecorded  metric.Int64Counter
	documentsRendered metric.Int64Counter
	invoicesOverdue   metric.Int64Counter
	jobRuns           metric.Int64Counter
	jobErrors         metric.Int64Counter
	jobDuration       metric.Float64Histogram
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				log.Info("shutting down meter provider")
				return provider.Shutdown(ctx)
			},
		})
	}

	log.Info("metrics initialized",
		zap.String("endpoint", cfg.ExporterEndpoint),
		zap.String("protocol", cfg.ExporterProtocol),
	)
	return provider, nil
}

// New configures the invoicing instruments on provider.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "ledgerbook"
	}
	meter := provider.Meter(name)

	invoicesCreated, err := meter.Int64Counter("ledgerbook_invoices_created_total")
	if err != nil {
		return nil, err
	}
	invoicesCancelled, err := meter.Int64Counter("ledgerbook_invoices_cancelled_total")
	if err != nil {
		return nil, err
	}
	invoiceTotal, err := meter.Float64Histogram("ledgerbook_invoice_total_amount",
		metric.WithDescription("Grand total of created invoices."))
	if err != nil {
		return nil, err
	}
	paymentsRecorded, err := meter.Int64Counter("ledgerbook_payments_recorded_total")
	if err != nil {
		return nil, err
	}
	documentsRendered, err := meter.Int64Counter("ledgerbook_documents_rendered_total")
	if err != nil {
		return nil, err
	}

	invoicesOverdue, err := meter.Int64Counter("ledgerbook_invoices_overdue_total")
	if err != nil {
		return nil, err
	}
	jobRuns, err := meter.Int64Counter("ledgerbook_scheduler_job_runs_total")
	if err != nil {
		return nil, err
	}
	jobErrors, err := meter.Int64Counter("ledgerbook_scheduler_job_errors_total")
	if err != nil {
		return nil, err
	}
	jobDuration, err := meter.Float64Histogram("ledgerbook_scheduler_job_duration_seconds",
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	return &Metrics{
		invoicesCreated:   invoicesCreated,
		invoicesCancelled: invoicesCancelled,
		invoiceTotal:      invoiceTotal,
		paymentsRecorded:  paymentsRecorded,
		documentsRendered: documentsRendered,
		invoicesOverdue:   invoicesOverdue,
		jobRuns:           jobRuns,
		jobErrors:         jobErrors,
		jobDuration:       jobDuration,
	}, nil
}

func (m *Metrics) RecordInvoiceCreated(ctx context.Context, invoiceType string, total float64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(FilterAttributes(attribute.String("invoice_type", strings.TrimSpace(invoiceType)))...)
	m.invoicesCreated.Add(ctx, 1, attrs)
	m.invoiceTotal.Record(ctx, total, attrs)
}

func (m *Metrics) RecordInvoiceCancelled(ctx context.Context, fromStatus string) {
	if m == nil {
		return
	}
	m.invoicesCancelled.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("from_status", fromStatus))...))
}

func (m *Metrics) RecordPayment(ctx context.Context, method string, refund bool) {
	if m == nil {
		return
	}
	m.paymentsRecorded.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
		attribute.String("method", strings.ToLower(strings.TrimSpace(method))),
		attribute.Bool("refund", refund),
	)...))
}

func (m *Metrics) RecordDocumentRendered(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.documentsRendered.Add(ctx, 1, metric.WithAttributes(FilterAttributes(attribute.String("kind", kind))...))
}

func (m *Metrics) RecordInvoicesOverdue(ctx context.Context, count int) {
	if m == nil || count <= 0 {
		return
	}
	m.invoicesOverdue.Add(ctx, int64(count))
}

// RecordJob reports one scheduler job run. reason is empty on success.
func (m *Metrics) RecordJob(ctx context.Context, job string, elapsed time.Duration, reason string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(FilterAttributes(attribute.String("job", job))...)
	m.jobRuns.Add(ctx, 1, attrs)
	m.jobDuration.Record(ctx, elapsed.Seconds(), attrs)
	if reason != "" {
		m.jobErrors.Add(ctx, 1, metric.WithAttributes(FilterAttributes(
			attribute.String("job", job),
			attribute.String("reason", reason),
		)...))
	}
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(protocol)) {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"invoice_type": {},
	"from_status":  {},
	"method":       {},
	"refund":       {},
	"kind":         {},
	"route":        {},
	"status_code":  {},
}

// FilterAttributes strips labels outside the allow list so ids never become
// metric dimensions.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
