package tracker_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/budget-engine/finance"
	"github.com/warp/budget-engine/finance/store"
	"github.com/warp/budget-engine/tracker"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// newTracker pins the clock to Jan 15, 2024 so overdue grouping is stable.
func newTracker(t *testing.T) *tracker.Tracker {
	t.Helper()
	tr := tracker.New(store.NewMemory())
	tr.Now = func() time.Time { return date(2024, time.January, 15) }
	return tr
}

func addRecurring(t *testing.T, tr *tracker.Tracker, name string, day int, pt finance.PaymentType, amount string) finance.RecurringPayment {
	t.Helper()
	p, err := tr.Payments.Create(context.Background(), finance.NewRecurringPayment{
		Name:          name,
		DefaultAmount: dec(amount),
		DayOfMonth:    day,
		Type:          pt,
	})
	require.NoError(t, err)
	return p
}

func TestPeriodView_MaterializesAndGroups(t *testing.T) {
	// GIVEN rent due the 1st (overdue on the 15th), internet due the 20th
	// (upcoming) and a salary on the 25th
	ctx := context.Background()
	tr := newTracker(t)
	addRecurring(t, tr, "Rent", 1, finance.Expense, "1200")
	addRecurring(t, tr, "Internet", 20, finance.Expense, "49.99")
	addRecurring(t, tr, "Salary", 25, finance.Income, "3800")
	require.NoError(t, tr.Balances.SetForKey(ctx, "2024-01-01", dec("2500")))

	// WHEN the current period view is assembled
	v, err := tr.PeriodView(ctx, tr.Now(), 0)
	require.NoError(t, err)

	// THEN logs are materialized, grouped and forecast
	assert.Equal(t, "2024-01-01", v.PeriodKey)
	assert.Equal(t, "$", v.CurrencySymbol)
	assert.True(t, v.Balance.Equal(dec("2500")))

	require.Len(t, v.Logs.Overdue, 1)
	assert.Equal(t, "Rent", v.Logs.Overdue[0].Name)
	require.Len(t, v.Logs.Upcoming, 2)
	assert.Equal(t, "Internet", v.Logs.Upcoming[0].Name)
	assert.Equal(t, "Salary", v.Logs.Upcoming[1].Name)
	assert.Empty(t, v.Logs.Completed)

	assert.True(t, v.Forecast.PendingExpenses.Equal(dec("1249.99")))
	assert.True(t, v.Forecast.PendingIncome.Equal(dec("3800")))
	assert.True(t, v.Forecast.ForecastedBalance.Equal(dec("5050.01")))
}

func TestPeriodView_Idempotent(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t)
	addRecurring(t, tr, "Rent", 1, finance.Expense, "1200")

	first, err := tr.PeriodView(ctx, tr.Now(), 0)
	require.NoError(t, err)
	second, err := tr.PeriodView(ctx, tr.Now(), 0)
	require.NoError(t, err)

	require.Len(t, first.Logs.Overdue, 1)
	require.Len(t, second.Logs.Overdue, 1)
	assert.Equal(t, first.Logs.Overdue[0].ID, second.Logs.Overdue[0].ID)
}

func TestPeriodView_CompletedLogsSortedMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t)
	addRecurring(t, tr, "Rent", 1, finance.Expense, "1200")
	addRecurring(t, tr, "Gym", 5, finance.Expense, "25")

	v, err := tr.PeriodView(ctx, tr.Now(), 0)
	require.NoError(t, err)
	require.Len(t, v.Logs.Overdue, 2)

	// Complete rent first, then gym: gym should list first afterwards
	require.NoError(t, tr.Logs.Complete(ctx, v.Logs.Overdue[0].ID))
	time.Sleep(5 * time.Millisecond)
	require.NoError(t, tr.Logs.Complete(ctx, v.Logs.Overdue[1].ID))

	v, err = tr.PeriodView(ctx, tr.Now(), 0)
	require.NoError(t, err)
	require.Len(t, v.Logs.Completed, 2)
	assert.Equal(t, "Gym", v.Logs.Completed[0].Name)
	assert.Equal(t, "Rent", v.Logs.Completed[1].Name)
	assert.Empty(t, v.Logs.Overdue)
}

func TestPeriodView_OffsetNavigation(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t)
	addRecurring(t, tr, "Rent", 1, finance.Expense, "1200")

	next, err := tr.PeriodView(ctx, tr.Now(), 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", next.PeriodKey)
	require.Len(t, next.Logs.Upcoming, 1, "future logs are never overdue")

	prev, err := tr.PeriodView(ctx, tr.Now(), -1)
	require.NoError(t, err)
	assert.Equal(t, "2023-12-01", prev.PeriodKey)

	// Each period got its own materialized log
	all, err := tr.Logs.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPeriodView_HonorsMonthStartDay(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t)
	require.NoError(t, tr.Settings.SetMonthStartDay(ctx, 25))

	v, err := tr.PeriodView(ctx, tr.Now(), 0) // Jan 15 with start day 25
	require.NoError(t, err)
	assert.Equal(t, "2023-12-25", v.PeriodKey)
	assert.Equal(t, date(2023, time.December, 25), v.Period.Start)
}

func TestAddOneTimePayment(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t)

	l, err := tr.AddOneTimePayment(ctx, tr.Now(), 0, tracker.OneTimePayment{
		Name:       "Car repair",
		Amount:     dec("480"),
		DayOfMonth: 18,
		Type:       finance.Expense,
	})
	require.NoError(t, err)

	assert.Empty(t, l.RecurringPaymentID, "no template behind a one-time payment")
	assert.Equal(t, date(2024, time.January, 18), l.DueDate)
	assert.Equal(t, "2024-01-01", l.PeriodKey())

	// It shows up in the view and never gets duplicated by materialization
	v, err := tr.PeriodView(ctx, tr.Now(), 0)
	require.NoError(t, err)
	require.Len(t, v.Logs.Upcoming, 1)
	assert.Equal(t, "Car repair", v.Logs.Upcoming[0].Name)

	v, err = tr.PeriodView(ctx, tr.Now(), 0)
	require.NoError(t, err)
	assert.Len(t, v.Logs.Upcoming, 1)
}

func TestGroupLogs_DueTodayIsUpcoming(t *testing.T) {
	now := date(2024, time.January, 15)
	logs := []finance.PaymentLog{
		{ID: "a", Name: "Today", DueDate: date(2024, time.January, 15)},
		{ID: "b", Name: "Yesterday", DueDate: date(2024, time.January, 14)},
	}

	g := tracker.GroupLogs(logs, now)

	require.Len(t, g.Upcoming, 1)
	assert.Equal(t, "Today", g.Upcoming[0].Name)
	require.Len(t, g.Overdue, 1)
	assert.Equal(t, "Yesterday", g.Overdue[0].Name)
}

func TestGroupLogs_SortsWithinGroups(t *testing.T) {
	now := date(2024, time.January, 15)
	logs := []finance.PaymentLog{
		{ID: "a", DueDate: date(2024, time.January, 10)},
		{ID: "b", DueDate: date(2024, time.January, 2)},
		{ID: "c", DueDate: date(2024, time.January, 28)},
		{ID: "d", DueDate: date(2024, time.January, 20)},
	}

	g := tracker.GroupLogs(logs, now)

	require.Len(t, g.Overdue, 2)
	assert.Equal(t, "b", g.Overdue[0].ID)
	assert.Equal(t, "a", g.Overdue[1].ID)
	require.Len(t, g.Upcoming, 2)
	assert.Equal(t, "d", g.Upcoming[0].ID)
	assert.Equal(t, "c", g.Upcoming[1].ID)
}
