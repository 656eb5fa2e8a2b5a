/*
Package finance provides the core engine of the budget tracker.

PURPOSE:
  This package contains the domain types and algorithms for tracking
  recurring and one-time payments over rolling monthly periods: the period
  calculator, the payment-log materializer, the forecast engine, and the
  collection stores that persist everything through a key-value backend.

KEY CONCEPTS:
  - MonthPeriod: a billing cycle defined by a configurable start day
  - RecurringPayment: a template that generates one payment log per period
  - PaymentLog: a concrete, period-scoped expense or income obligation
  - Forecast: projected end-of-period balance assuming pending logs settle

DESIGN PRINCIPLES:
  1. Precision: decimal.Decimal for all money, no floats in the engine
  2. Purity: period and forecast calculations are side-effect free
  3. Idempotency: materialization never duplicates, missing ids are no-ops

SEE ALSO:
  - period.go: the period calculator
  - materialize.go: per-period log materialization
  - forecast.go: balance forecasting
  - store.go: the key-value backend contract and collection stores
*/
package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYMENT TYPES
// =============================================================================

// PaymentType classifies a payment as money going out or coming in.
type PaymentType string

const (
	Expense PaymentType = "expense"
	Income  PaymentType = "income"
)

// Valid reports whether t is a known payment type.
func (t PaymentType) Valid() bool {
	return t == Expense || t == Income
}

// =============================================================================
// RECURRING PAYMENT - Template generating one log per period
// =============================================================================

// RecurringPayment is a user-created template. Deleting one is a soft
// delete (Active=false) so past logs keep a valid back-reference; a
// separate permanent delete purges it entirely.
type RecurringPayment struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	DefaultAmount decimal.Decimal `json:"defaultAmount"`
	DayOfMonth    int             `json:"dayOfMonth"`
	IconName      string          `json:"iconName"`
	Type          PaymentType     `json:"type"`
	CreatedAt     time.Time       `json:"createdAt"`
	Active        bool            `json:"isActive"`
}

// =============================================================================
// PAYMENT LOG - One instantiation of a payment within one period
// =============================================================================

// PaymentLog records a single obligation inside a single period.
// RecurringPaymentID is empty for one-time payments. At most one log exists
// per (RecurringPaymentID, period key) pair; the materializer enforces this.
// CompletedAt is nil until the log is marked completed and is cleared again
// when it is marked incomplete.
type PaymentLog struct {
	ID                 string          `json:"id"`
	RecurringPaymentID string          `json:"recurringPaymentId,omitempty"`
	Name               string          `json:"name"`
	Amount             decimal.Decimal `json:"amount"`
	DueDate            time.Time       `json:"dueDate"`
	Completed          bool            `json:"isCompleted"`
	CompletedAt        *time.Time      `json:"completedDate,omitempty"`
	IconName           string          `json:"iconName"`
	DayOfMonth         int             `json:"dayOfMonth"`
	Type               PaymentType     `json:"type"`
	PeriodStart        time.Time       `json:"periodStart"`
	PeriodEnd          time.Time       `json:"periodEnd"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// PeriodKey returns the key of the period this log belongs to.
func (l PaymentLog) PeriodKey() string {
	return KeyForStart(l.PeriodStart)
}

// =============================================================================
// PERIOD BALANCE - User-entered starting balance per period
// =============================================================================

// PeriodBalance holds the account balance the user entered for one period,
// keyed by period key. Upsert semantics: one record per key.
type PeriodBalance struct {
	PeriodKey string          `json:"periodKey"`
	Balance   decimal.Decimal `json:"currentAccountBalance"`
}

// =============================================================================
// SETTINGS
// =============================================================================

// Language selects the UI language. Stored only; translation content is
// outside the engine.
type Language string

const (
	LangEN Language = "en"
	LangNL Language = "nl"
	LangDE Language = "de"
	LangFR Language = "fr"
	LangES Language = "es"
	LangZH Language = "zh"
)

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	switch l {
	case LangEN, LangNL, LangDE, LangFR, LangES, LangZH:
		return true
	}
	return false
}

// Settings is the application configuration. A partially stored value is
// merged shallowly over DefaultSettings on read, so adding fields never
// invalidates stored data.
type Settings struct {
	MonthStartDay  int      `json:"monthStartDay"`
	Currency       string   `json:"currency"`
	CurrencySymbol string   `json:"currencySymbol"`
	Language       Language `json:"language"`
}

// DefaultSettings returns the out-of-the-box configuration.
func DefaultSettings() Settings {
	return Settings{
		MonthStartDay:  1,
		Currency:       "USD",
		CurrencySymbol: "$",
		Language:       LangEN,
	}
}
