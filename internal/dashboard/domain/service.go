package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

const (
	RecentInvoiceLimit = 5
	TrendMonths        = 6
)

type Stats struct {
	TotalInvoices    int64            `json:"total_invoices"`
	InvoicesByStatus map[string]int64 `json:"invoices_by_status"`
	PendingInvoices  int64            `json:"pending_invoices"`
	PaidInvoices     int64            `json:"paid_invoices"`
	OverdueInvoices  int64            `json:"overdue_invoices"`

	// Revenue figures exclude cancelled invoices.
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	AmountCollected    decimal.Decimal `json:"amount_collected"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`

	TotalCustomers  int64 `json:"total_customers"`
	ActiveCustomers int64 `json:"active_customers"`
	TotalProducts   int64 `json:"total_products"`
	ActiveProducts  int64 `json:"active_products"`

	RecentInvoices []RecentInvoice `json:"recent_invoices"`
	RevenueTrend   []MonthRevenue  `json:"revenue_trend"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

type RecentInvoice struct {
	ID            snowflake.ID    `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	Date          time.Time       `json:"date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	CustomerName  string          `json:"customer_name"`
}

// MonthRevenue is the amount collected on invoices dated in Month (YYYY-MM).
type MonthRevenue struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}

type Service interface {
	Stats(ctx context.Context) (Stats, error)
}
