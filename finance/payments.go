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
// RECURRING PAYMENT STORE
// =============================================================================

// RecurringPaymentStore persists payment templates. Delete is a soft delete
// (Active=false) so logs created in past periods keep a valid back-reference;
// PermanentDelete purges the record entirely.
type RecurringPaymentStore struct {
	kv KV

	mu   sync.Mutex
	subs []func([]RecurringPayment)
}

// NewRecurringPayment carries the user-supplied fields of a new template.
type NewRecurringPayment struct {
	Name          string          `json:"name"`
	DefaultAmount decimal.Decimal `json:"defaultAmount"`
	DayOfMonth    int             `json:"dayOfMonth"`
	IconName      string          `json:"iconName"`
	Type          PaymentType     `json:"type"`
}

// RecurringPaymentPatch is a partial update. Nil fields are left unchanged.
// Type and Active are deliberately not patchable: type changes would orphan
// existing logs, and Active is driven by Delete.
type RecurringPaymentPatch struct {
	Name          *string          `json:"name,omitempty"`
	DefaultAmount *decimal.Decimal `json:"defaultAmount,omitempty"`
	DayOfMonth    *int             `json:"dayOfMonth,omitempty"`
	IconName      *string          `json:"iconName,omitempty"`
}

func NewRecurringPaymentStore(kv KV) *RecurringPaymentStore {
	return &RecurringPaymentStore{kv: kv}
}

// All returns every template, active or not, in stored order.
func (s *RecurringPaymentStore) All(ctx context.Context) ([]RecurringPayment, error) {
	return s.load(ctx)
}

// AllSortedByDay returns the active templates sorted by day of month.
// This is the set the materializer consumes.
func (s *RecurringPaymentStore) AllSortedByDay(ctx context.Context) ([]RecurringPayment, error) {
	payments, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return sortActiveByDay(payments, ""), nil
}

// ByType returns the active templates of one type, sorted by day of month.
func (s *RecurringPaymentStore) ByType(ctx context.Context, t PaymentType) ([]RecurringPayment, error) {
	if !t.Valid() {
		return nil, &FieldError{Field: "type", Value: t, Err: ErrInvalidPaymentType}
	}
	payments, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return sortActiveByDay(payments, t), nil
}

// GetByID returns a template by id, including inactive ones.
func (s *RecurringPaymentStore) GetByID(ctx context.Context, id string) (RecurringPayment, error) {
	payments, err := s.load(ctx)
	if err != nil {
		return RecurringPayment{}, err
	}
	for _, p := range payments {
		if p.ID == id {
			return p, nil
		}
	}
	return RecurringPayment{}, ErrPaymentNotFound
}

// Create stores a new active template with a generated id.
func (s *RecurringPaymentStore) Create(ctx context.Context, np NewRecurringPayment) (RecurringPayment, error) {
	if !np.Type.Valid() {
		return RecurringPayment{}, &FieldError{Field: "type", Value: np.Type, Err: ErrInvalidPaymentType}
	}

	payments, err := s.load(ctx)
	if err != nil {
		return RecurringPayment{}, err
	}
	payment := RecurringPayment{
		ID:            uuid.NewString(),
		Name:          np.Name,
		DefaultAmount: np.DefaultAmount,
		DayOfMonth:    np.DayOfMonth,
		IconName:      np.IconName,
		Type:          np.Type,
		CreatedAt:     time.Now().UTC(),
		Active:        true,
	}
	payments = append(payments, payment)
	if err := s.save(ctx, payments); err != nil {
		return RecurringPayment{}, err
	}
	return payment, nil
}

// Update applies a partial update. Unknown ids are a no-op.
func (s *RecurringPaymentStore) Update(ctx context.Context, id string, patch RecurringPaymentPatch) error {
	return s.mutate(ctx, id, func(p *RecurringPayment) {
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.DefaultAmount != nil {
			p.DefaultAmount = *patch.DefaultAmount
		}
		if patch.DayOfMonth != nil {
			p.DayOfMonth = *patch.DayOfMonth
		}
		if patch.IconName != nil {
			p.IconName = *patch.IconName
		}
	})
}

// Delete soft-deletes a template: it stays stored but stops materializing.
// Unknown ids are a no-op.
func (s *RecurringPaymentStore) Delete(ctx context.Context, id string) error {
	return s.mutate(ctx, id, func(p *RecurringPayment) {
		p.Active = false
	})
}

// PermanentDelete removes a template entirely. Unknown ids are a no-op.
func (s *RecurringPaymentStore) PermanentDelete(ctx context.Context, id string) error {
	payments, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := payments[:0]
	for _, p := range payments {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(payments) {
		return nil
	}
	return s.save(ctx, kept)
}

// Subscribe registers a callback invoked with the full template set after
// every successful write.
func (s *RecurringPaymentStore) Subscribe(fn func([]RecurringPayment)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *RecurringPaymentStore) mutate(ctx context.Context, id string, apply func(*RecurringPayment)) error {
	payments, err := s.load(ctx)
	if err != nil {
		return err
	}
	for i := range payments {
		if payments[i].ID == id {
			apply(&payments[i])
			return s.save(ctx, payments)
		}
	}
	return nil
}

func (s *RecurringPaymentStore) load(ctx context.Context) ([]RecurringPayment, error) {
	var payments []RecurringPayment
	if err := readCollection(ctx, s.kv, KeyRecurringPayments, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

func (s *RecurringPaymentStore) save(ctx context.Context, payments []RecurringPayment) error {
	if err := writeCollection(ctx, s.kv, KeyRecurringPayments, payments); err != nil {
		return err
	}
	s.mu.Lock()
	subs := append([]func([]RecurringPayment){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(payments)
	}
	return nil
}

// sortActiveByDay filters to active templates (optionally one type) and
// sorts by day of month, stable within a day.
func sortActiveByDay(payments []RecurringPayment, t PaymentType) []RecurringPayment {
	var result []RecurringPayment
	for _, p := range payments {
		if !p.Active {
			continue
		}
		if t != "" && p.Type != t {
			continue
		}
		result = append(result, p)
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DayOfMonth < result[j].DayOfMonth
	})
	return result
}
