package finance

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYMENT LOG STORE
// =============================================================================

// PaymentLogStore persists the per-period payment logs. Logs are created by
// the materializer (recurring) or directly (one-time) and mutated by
// completion toggling, amount edits, and deletion. Mutations against unknown
// ids are no-ops.
type PaymentLogStore struct {
	kv KV

	mu   sync.Mutex
	subs []func([]PaymentLog)
}

// NewPaymentLog carries the fields of a new log; id and createdAt are
// generated on create. RecurringPaymentID stays empty for one-time payments.
type NewPaymentLog struct {
	RecurringPaymentID string
	Name               string
	Amount             decimal.Decimal
	DueDate            time.Time
	IconName           string
	DayOfMonth         int
	Type               PaymentType
	PeriodStart        time.Time
	PeriodEnd          time.Time
	Completed          bool
	CompletedAt        *time.Time
}

func NewPaymentLogStore(kv KV) *PaymentLogStore {
	return &PaymentLogStore{kv: kv}
}

// All returns every log across all periods, in stored order.
func (s *PaymentLogStore) All(ctx context.Context) ([]PaymentLog, error) {
	return s.load(ctx)
}

// ForPeriod returns the logs belonging to the period, sorted by due date.
func (s *PaymentLogStore) ForPeriod(ctx context.Context, p MonthPeriod) ([]PaymentLog, error) {
	logs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	key := Key(p)
	var result []PaymentLog
	for _, l := range logs {
		if l.PeriodKey() == key {
			result = append(result, l)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DueDate.Before(result[j].DueDate)
	})
	return result, nil
}

// GetByID returns a log by id.
func (s *PaymentLogStore) GetByID(ctx context.Context, id string) (PaymentLog, error) {
	logs, err := s.load(ctx)
	if err != nil {
		return PaymentLog{}, err
	}
	for _, l := range logs {
		if l.ID == id {
			return l, nil
		}
	}
	return PaymentLog{}, ErrLogNotFound
}

// Create stores a single new log with a generated id.
func (s *PaymentLogStore) Create(ctx context.Context, nl NewPaymentLog) (PaymentLog, error) {
	created, err := s.CreateBatch(ctx, []NewPaymentLog{nl})
	if err != nil {
		return PaymentLog{}, err
	}
	return created[0], nil
}

// CreateBatch stores several new logs in one collection write.
func (s *PaymentLogStore) CreateBatch(ctx context.Context, nls []NewPaymentLog) ([]PaymentLog, error) {
	if len(nls) == 0 {
		return nil, nil
	}
	for _, nl := range nls {
		if !nl.Type.Valid() {
			return nil, &FieldError{Field: "type", Value: nl.Type, Err: ErrInvalidPaymentType}
		}
	}

	logs, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	created := make([]PaymentLog, 0, len(nls))
	for _, nl := range nls {
		log := PaymentLog{
			ID:                 uuid.NewString(),
			RecurringPaymentID: nl.RecurringPaymentID,
			Name:               nl.Name,
			Amount:             nl.Amount,
			DueDate:            nl.DueDate,
			Completed:          nl.Completed,
			CompletedAt:        nl.CompletedAt,
			IconName:           nl.IconName,
			DayOfMonth:         nl.DayOfMonth,
			Type:               nl.Type,
			PeriodStart:        nl.PeriodStart,
			PeriodEnd:          nl.PeriodEnd,
			CreatedAt:          now,
		}
		created = append(created, log)
		logs = append(logs, log)
	}
	if err := s.save(ctx, logs); err != nil {
		return nil, err
	}
	return created, nil
}

// Complete marks a log completed and stamps the completion time.
func (s *PaymentLogStore) Complete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	return s.mutate(ctx, id, func(l *PaymentLog) {
		l.Completed = true
		l.CompletedAt = &now
	})
}

// Incomplete marks a log pending again and clears the completion time.
func (s *PaymentLogStore) Incomplete(ctx context.Context, id string) error {
	return s.mutate(ctx, id, func(l *PaymentLog) {
		l.Completed = false
		l.CompletedAt = nil
	})
}

// SetAmount overrides a log's amount for its period. The template's default
// amount is untouched.
func (s *PaymentLogStore) SetAmount(ctx context.Context, id string, amount decimal.Decimal) error {
	return s.mutate(ctx, id, func(l *PaymentLog) {
		l.Amount = amount
	})
}

// Delete removes a log entirely. A recurring-derived log deleted this way
// reappears on the next materialization pass; no deletion marker is kept.
func (s *PaymentLogStore) Delete(ctx context.Context, id string) error {
	logs, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := logs[:0]
	for _, l := range logs {
		if l.ID != id {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(logs) {
		return nil
	}
	return s.save(ctx, kept)
}

// Subscribe registers a callback invoked with the full log set after every
// successful write.
func (s *PaymentLogStore) Subscribe(fn func([]PaymentLog)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *PaymentLogStore) mutate(ctx context.Context, id string, apply func(*PaymentLog)) error {
	logs, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range logs {
		if logs[i].ID == id {
			apply(&logs[i])
			return s.save(ctx, logs)
		}
	}
	return nil
}

func (s *PaymentLogStore) load(ctx context.Context) ([]PaymentLog, error) {
	var logs []PaymentLog
	if err := readCollection(ctx, s.kv, KeyPaymentLogs, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (s *PaymentLogStore) save(ctx context.Context, logs []PaymentLog) error {
	if err := writeCollection(ctx, s.kv, KeyPaymentLogs, logs); err != nil {
		return err
	}
	s.mu.Lock()
	subs := append([]func([]PaymentLog){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(logs)
	}
	return nil
}
