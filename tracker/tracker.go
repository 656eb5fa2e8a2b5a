/*
Package tracker composes the finance engine into the application flows:
resolve the period in view, materialize its logs, and assemble the grouped
payment list with balance and forecast.

FLOW (per period view):
 1. Read month start day from settings
 2. Resolve the period (current, or offset periods away)
 3. Ensure logs exist for every active recurring payment
 4. Load the period's logs, group them, read the balance
 5. Compute the forecast

All calculation stays in the finance package; this package only sequences
store round-trips the way the original screens did.
*/
package tracker

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/budget-engine/finance"
)

// Tracker is the application service over one storage backend.
type Tracker struct {
	Settings     *finance.SettingsStore
	Payments     *finance.RecurringPaymentStore
	Logs         *finance.PaymentLogStore
	Balances     *finance.PeriodBalanceStore
	Materializer *finance.Materializer

	// Now is the clock used for "today" grouping and period resolution.
	// Overridable in tests.
	Now func() time.Time
}

// New wires a Tracker and all stores onto a single backend.
func New(kv finance.KV) *Tracker {
	logs := finance.NewPaymentLogStore(kv)
	return &Tracker{
		Settings:     finance.NewSettingsStore(kv),
		Payments:     finance.NewRecurringPaymentStore(kv),
		Logs:         logs,
		Balances:     finance.NewPeriodBalanceStore(kv),
		Materializer: finance.NewMaterializer(logs),
		Now:          time.Now,
	}
}

// GroupedLogs partitions a period's logs for display: overdue and upcoming
// pending logs sorted by due date, completed logs most recent first.
type GroupedLogs struct {
	Overdue   []finance.PaymentLog `json:"overdue"`
	Upcoming  []finance.PaymentLog `json:"upcoming"`
	Completed []finance.PaymentLog `json:"completed"`
}

// View is everything one period screen needs.
type View struct {
	Period         finance.MonthPeriod `json:"-"`
	PeriodKey      string              `json:"periodKey"`
	CurrencySymbol string              `json:"currencySymbol"`
	Balance        decimal.Decimal     `json:"currentBalance"`
	Forecast       finance.Forecast    `json:"forecast"`
	Logs           GroupedLogs         `json:"logs"`
}

// OneTimePayment is an ad-hoc payment entered for a single period. It
// creates a log directly, with no recurring template behind it.
type OneTimePayment struct {
	Name       string              `json:"name"`
	Amount     decimal.Decimal     `json:"amount"`
	DayOfMonth int                 `json:"dayOfMonth"`
	IconName   string              `json:"iconName"`
	Type       finance.PaymentType `json:"type"`
}

// ResolvePeriod returns the period `offset` cycles away from the one
// containing ref, using the configured month start day.
func (t *Tracker) ResolvePeriod(ctx context.Context, ref time.Time, offset int) (finance.MonthPeriod, error) {
	startDay, err := t.Settings.MonthStartDay(ctx)
	if err != nil {
		return finance.MonthPeriod{}, err
	}
	return finance.Shift(finance.CurrentPeriod(startDay, ref), offset), nil
}

// PeriodView materializes and assembles the full view of one period.
func (t *Tracker) PeriodView(ctx context.Context, ref time.Time, offset int) (View, error) {
	period, err := t.ResolvePeriod(ctx, ref, offset)
	if err != nil {
		return View{}, err
	}

	settings, err := t.Settings.Get(ctx)
	if err != nil {
		return View{}, err
	}
	payments, err := t.Payments.AllSortedByDay(ctx)
	if err != nil {
		return View{}, err
	}
	if _, err := t.Materializer.EnsureLogsForPeriod(ctx, period, payments); err != nil {
		return View{}, err
	}

	logs, err := t.Logs.ForPeriod(ctx, period)
	if err != nil {
		return View{}, err
	}
	balance, err := t.Balances.ForPeriod(ctx, period)
	if err != nil {
		return View{}, err
	}

	return View{
		Period:         period,
		PeriodKey:      finance.Key(period),
		CurrencySymbol: settings.CurrencySymbol,
		Balance:        balance,
		Forecast:       finance.CalculateForecast(balance, logs),
		Logs:           GroupLogs(logs, t.Now()),
	}, nil
}

// AddOneTimePayment creates a one-off log in the resolved period. The due
// day is placed inside the period with the same clamping rule recurring
// payments use.
func (t *Tracker) AddOneTimePayment(ctx context.Context, ref time.Time, offset int, otp OneTimePayment) (finance.PaymentLog, error) {
	period, err := t.ResolvePeriod(ctx, ref, offset)
	if err != nil {
		return finance.PaymentLog{}, err
	}
	return t.Logs.Create(ctx, finance.NewPaymentLog{
		Name:        otp.Name,
		Amount:      otp.Amount,
		DueDate:     finance.DueDate(otp.DayOfMonth, period),
		IconName:    otp.IconName,
		DayOfMonth:  otp.DayOfMonth,
		Type:        otp.Type,
		PeriodStart: period.Start,
		PeriodEnd:   period.End,
	})
}

// GroupLogs partitions logs by state relative to `now`'s calendar day.
// Pending logs due before today are overdue; the rest are upcoming.
func GroupLogs(logs []finance.PaymentLog, now time.Time) GroupedLogs {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var grouped GroupedLogs
	for _, l := range logs {
		switch {
		case l.Completed:
			grouped.Completed = append(grouped.Completed, l)
		case l.DueDate.Before(today):
			grouped.Overdue = append(grouped.Overdue, l)
		default:
			grouped.Upcoming = append(grouped.Upcoming, l)
		}
	}

	byDueDate := func(logs []finance.PaymentLog) {
		sort.SliceStable(logs, func(i, j int) bool {
			return logs[i].DueDate.Before(logs[j].DueDate)
		})
	}
	byDueDate(grouped.Overdue)
	byDueDate(grouped.Upcoming)
	sort.SliceStable(grouped.Completed, func(i, j int) bool {
		ti, tj := time.Time{}, time.Time{}
		if grouped.Completed[i].CompletedAt != nil {
			ti = *grouped.Completed[i].CompletedAt
		}
		if grouped.Completed[j].CompletedAt != nil {
			tj = *grouped.Completed[j].CompletedAt
		}
		return ti.After(tj)
	})
	return grouped
}
