package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/ledgerbook/internal/clock"
	appconfig "github.com/smallbiznis/ledgerbook/internal/config"
	invoicedomain "github.com/smallbiznis/ledgerbook/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubInvoices struct {
	invoicedomain.Service

	batches []int
	err     error
	calls   int
	asOf    []time.Time
}

func (s *stubInvoices) MarkOverdue(_ context.Context, asOf time.Time, limit int) (int, error) {
	s.asOf = append(s.asOf, asOf)
	if s.calls >= len(s.batches) {
		s.calls++
		return 0, s.err
	}
	moved := min(s.batches[s.calls], limit)
	s.calls++
	return moved, nil
}

func newTestScheduler(t *testing.T, invoices invoicedomain.Service, cfg Config) *Scheduler {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	s, err := New(Params{
		Log:        zap.NewNop(),
		InvoiceSvc: invoices,
		GenID:      node,
		Clock:      clock.NewFakeClock(time.Date(2025, time.July, 1, 2, 0, 0, 0, time.UTC)),
		Config:     cfg,
	})
	require.NoError(t, err)
	return s
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Params{Log: zap.NewNop()})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestMarkOverdueJobDrainsFullBatches(t *testing.T) {
	invoices := &stubInvoices{batches: []int{2, 2, 1}}
	s := newTestScheduler(t, invoices, Config{BatchSize: 2})

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, 3, invoices.calls)
	for _, asOf := range invoices.asOf {
		assert.Equal(t, time.Date(2025, time.July, 1, 2, 0, 0, 0, time.UTC), asOf)
	}
}

func TestRunOnceWrapsJobErrors(t *testing.T) {
	invoices := &stubInvoices{err: errors.New("connection reset")}
	s := newTestScheduler(t, invoices, Config{})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mark_overdue")
	assert.Contains(t, err.Error(), "connection reset")
}

func TestRunJobTimeoutIsSoft(t *testing.T) {
	s := newTestScheduler(t, &stubInvoices{}, Config{})

	err := s.runJob(context.Background(), "slow", 5*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.NoError(t, err)
}

func TestDisabledJobsAreSkipped(t *testing.T) {
	invoices := &stubInvoices{batches: []int{1}}
	s := newTestScheduler(t, invoices, Config{EnabledJobs: []string{"something_else"}})

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Zero(t, invoices.calls)

	s = newTestScheduler(t, invoices, Config{EnabledJobs: []string{"MARK_OVERDUE"}})
	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, 1, invoices.calls)
}

func TestProvideConfig(t *testing.T) {
	cfg := ProvideConfig(configFor(false, 60))
	assert.False(t, cfg.Enabled)
	assert.Equal(t, time.Minute, cfg.RunInterval)
	assert.Equal(t, 100, cfg.BatchSize)
}

func configFor(enabled bool, intervalSeconds int) appconfig.Config {
	return appconfig.Config{SchedulerEnabled: enabled, SchedulerInterval: intervalSeconds}
}
