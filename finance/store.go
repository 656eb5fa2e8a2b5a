/*
store.go - Key-value backend contract and collection persistence

PURPOSE:
  Defines the interface between the engine and its storage backend, and the
  envelope every persisted collection is wrapped in. The backend is a plain
  key-value store holding whole JSON collections; every write replaces the
  full collection. This matches the single-writer usage pattern: one user
  action reads a collection, mutates it in memory, and writes it back.

COLLECTIONS:
  app_settings        -> single partial Settings object
  recurring_payments  -> []RecurringPayment
  payment_logs        -> []PaymentLog
  period_balances     -> []PeriodBalance

SCHEMA VERSIONING:
  Collections are wrapped in {"schema_version": N, "records": [...]}. A bare
  legacy array (no envelope) is accepted on read and treated as version 0.

IMPLEMENTATIONS:
  - finance/store: in-memory map (testing/dev)
  - store/sqlite: SQLite-backed table (production)
*/
package finance

import (
	"context"
	"encoding/json"
	"fmt"
)

// Collection keys in the backend.
const (
	KeySettings          = "app_settings"
	KeyRecurringPayments = "recurring_payments"
	KeyPaymentLogs       = "payment_logs"
	KeyPeriodBalances    = "period_balances"
)

// SchemaVersion is written with every collection.
const SchemaVersion = 1

// KV is the storage backend. Get reports absence through its second return
// rather than an error; missing collections read as empty. Backend I/O
// errors propagate to callers unclassified, with no retry.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// envelope wraps every persisted collection with its schema version.
type envelope struct {
	SchemaVersion int             `json:"schema_version"`
	Records       json.RawMessage `json:"records"`
}

// readCollection loads and decodes a collection into out. An absent key
// leaves out untouched. Bare legacy payloads without an envelope are
// decoded directly.
func readCollection(ctx context.Context, kv KV, key string, out any) error {
	raw, ok, err := kv.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Records != nil {
		raw = env.Records
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// writeCollection encodes records under the current schema version and
// replaces the stored collection.
func writeCollection(ctx context.Context, kv KV, key string, records any) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	payload, err := json.Marshal(envelope{SchemaVersion: SchemaVersion, Records: raw})
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", key, err)
	}
	if err := kv.Set(ctx, key, payload); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
