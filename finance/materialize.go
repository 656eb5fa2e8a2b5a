package finance

import "context"

// =============================================================================
// PAYMENT LOG MATERIALIZER
// =============================================================================

// Materializer derives per-period payment logs from recurring payment
// templates. Materialization is idempotent upsert-by-absence: a log already
// present for a (template, period) pair is never touched or regenerated,
// so completion state and amount edits survive repeated passes.
type Materializer struct {
	Logs *PaymentLogStore
}

func NewMaterializer(logs *PaymentLogStore) *Materializer {
	return &Materializer{Logs: logs}
}

// EnsureLogsForPeriod creates exactly one log per active template that has
// none in the period yet, and returns the logs it created. Inactive
// templates are skipped entirely; logs are never retro-created for them.
// Safe to call repeatedly for the same period.
func (m *Materializer) EnsureLogsForPeriod(ctx context.Context, period MonthPeriod, payments []RecurringPayment) ([]PaymentLog, error) {
	existing, err := m.Logs.ForPeriod(ctx, period)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(existing))
	for _, l := range existing {
		if l.RecurringPaymentID != "" {
			seen[l.RecurringPaymentID] = true
		}
	}

	var missing []NewPaymentLog
	for _, p := range payments {
		if !p.Active || seen[p.ID] {
			continue
		}
		missing = append(missing, NewPaymentLog{
			RecurringPaymentID: p.ID,
			Name:               p.Name,
			Amount:             p.DefaultAmount,
			DueDate:            DueDate(p.DayOfMonth, period),
			IconName:           p.IconName,
			DayOfMonth:         p.DayOfMonth,
			Type:               p.Type,
			PeriodStart:        period.Start,
			PeriodEnd:          period.End,
		})
	}
	if len(missing) == 0 {
		return nil, nil
	}
	return m.Logs.CreateBatch(ctx, missing)
}
