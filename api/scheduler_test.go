package api_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/budget-engine/api"
	"github.com/warp/budget-engine/finance"
	"github.com/warp/budget-engine/finance/store"
	"github.com/warp/budget-engine/tracker"
)

func TestMaterializationScheduler_RunsImmediatelyOnStart(t *testing.T) {
	ctx := context.Background()
	tr := tracker.New(store.NewMemory())
	_, err := tr.Payments.Create(ctx, finance.NewRecurringPayment{
		Name:          "Rent",
		DefaultAmount: decimal.RequireFromString("1200"),
		DayOfMonth:    1,
		Type:          finance.Expense,
	})
	require.NoError(t, err)

	s := api.NewMaterializationScheduler(tr, time.Hour)
	s.Start()
	defer s.Stop()

	// The first pass runs in the background goroutine; poll for its result
	deadline := time.Now().Add(2 * time.Second)
	for {
		logs, err := tr.Logs.All(ctx)
		require.NoError(t, err)
		if len(logs) == 1 {
			break
		}
		require.True(t, time.Now().Before(deadline), "no log materialized")
		time.Sleep(10 * time.Millisecond)
	}
}

func TestMaterializationScheduler_StopIsIdempotent(t *testing.T) {
	s := api.NewMaterializationScheduler(tracker.New(store.NewMemory()), time.Hour)
	s.Start()
	s.Stop()
	assert.NotPanics(t, func() { s.Stop() })
}
