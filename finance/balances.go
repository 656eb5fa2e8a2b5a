package finance

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PERIOD BALANCE STORE
// =============================================================================

// PeriodBalanceStore persists the user-entered starting balance of each
// period, one record per period key, upsert semantics. A period with no
// stored balance reads as zero.
type PeriodBalanceStore struct {
	kv KV

	mu   sync.Mutex
	subs []func([]PeriodBalance)
}

func NewPeriodBalanceStore(kv KV) *PeriodBalanceStore {
	return &PeriodBalanceStore{kv: kv}
}

// All returns every stored period balance.
func (s *PeriodBalanceStore) All(ctx context.Context) ([]PeriodBalance, error) {
	return s.load(ctx)
}

// ForPeriod returns the stored balance for the period, zero if none.
func (s *PeriodBalanceStore) ForPeriod(ctx context.Context, p MonthPeriod) (decimal.Decimal, error) {
	return s.ForKey(ctx, Key(p))
}

// ForKey returns the stored balance for a period key, zero if none.
func (s *PeriodBalanceStore) ForKey(ctx context.Context, key string) (decimal.Decimal, error) {
	balances, err := s.load(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	for _, b := range balances {
		if b.PeriodKey == key {
			return b.Balance, nil
		}
	}
	return decimal.Zero, nil
}

// SetForPeriod upserts the balance for the period.
func (s *PeriodBalanceStore) SetForPeriod(ctx context.Context, p MonthPeriod, amount decimal.Decimal) error {
	return s.SetForKey(ctx, Key(p), amount)
}

// SetForKey upserts the balance for a period key.
func (s *PeriodBalanceStore) SetForKey(ctx context.Context, key string, amount decimal.Decimal) error {
	balances, err := s.load(ctx)
	if err != nil {
		return err
	}
	updated := false
	for i := range balances {
		if balances[i].PeriodKey == key {
			balances[i].Balance = amount
			updated = true
			break
		}
	}
	if !updated {
		balances = append(balances, PeriodBalance{PeriodKey: key, Balance: amount})
	}
	return s.save(ctx, balances)
}

// Subscribe registers a callback invoked with all balances after every
// successful write.
func (s *PeriodBalanceStore) Subscribe(fn func([]PeriodBalance)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *PeriodBalanceStore) load(ctx context.Context) ([]PeriodBalance, error) {
	var balances []PeriodBalance
	if err := readCollection(ctx, s.kv, KeyPeriodBalances, &balances); err != nil {
		return nil, err
	}
	return balances, nil
}

func (s *PeriodBalanceStore) save(ctx context.Context, balances []PeriodBalance) error {
	if err := writeCollection(ctx, s.kv, KeyPeriodBalances, balances); err != nil {
		return err
	}
	s.mu.Lock()
	subs := append([]func([]PeriodBalance){}, s.subs...)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(balances)
	}
	return nil
}
