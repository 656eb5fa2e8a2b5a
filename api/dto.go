/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *Request: Request body types from clients
  - *DTO: Response types returned to clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/budget-engine/finance"
	"github.com/warp/budget-engine/tracker"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreatePaymentRequest creates a recurring payment template.
type CreatePaymentRequest struct {
	Name          string              `json:"name"`
	DefaultAmount decimal.Decimal     `json:"defaultAmount"`
	DayOfMonth    int                 `json:"dayOfMonth"`
	IconName      string              `json:"iconName"`
	Type          finance.PaymentType `json:"type"`
}

// UpdatePaymentRequest partially updates a template; nil fields are kept.
type UpdatePaymentRequest struct {
	Name          *string          `json:"name,omitempty"`
	DefaultAmount *decimal.Decimal `json:"defaultAmount,omitempty"`
	DayOfMonth    *int             `json:"dayOfMonth,omitempty"`
	IconName      *string          `json:"iconName,omitempty"`
}

// OneTimePaymentRequest adds an ad-hoc payment to the period in view.
type OneTimePaymentRequest struct {
	Name       string              `json:"name"`
	Amount     decimal.Decimal     `json:"amount"`
	DayOfMonth int                 `json:"dayOfMonth"`
	IconName   string              `json:"iconName"`
	Type       finance.PaymentType `json:"type"`
}

// AmountRequest carries a replacement amount for a payment log.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// BalanceRequest upserts a period's starting account balance.
type BalanceRequest struct {
	Balance decimal.Decimal `json:"currentAccountBalance"`
}

// LoadScenarioRequest selects a demo scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// PeriodDTO describes one billing period.
type PeriodDTO struct {
	PeriodStart  string `json:"periodStart"`
	PeriodEnd    string `json:"periodEnd"`
	DisplayLabel string `json:"displayLabel"`
	PeriodKey    string `json:"periodKey"`
}

func toPeriodDTO(p finance.MonthPeriod) PeriodDTO {
	return PeriodDTO{
		PeriodStart:  p.Start.Format("2006-01-02T15:04:05.000Z07:00"),
		PeriodEnd:    p.End.Format("2006-01-02T15:04:05.000Z07:00"),
		DisplayLabel: p.Label,
		PeriodKey:    finance.Key(p),
	}
}

// TrackerViewDTO is the full period screen payload.
type TrackerViewDTO struct {
	Period         PeriodDTO           `json:"period"`
	CurrencySymbol string              `json:"currencySymbol"`
	CurrentBalance decimal.Decimal     `json:"currentBalance"`
	Forecast       finance.Forecast    `json:"forecast"`
	Logs           tracker.GroupedLogs `json:"logs"`
}

func toTrackerViewDTO(v tracker.View) TrackerViewDTO {
	return TrackerViewDTO{
		Period:         toPeriodDTO(v.Period),
		CurrencySymbol: v.CurrencySymbol,
		CurrentBalance: v.Balance,
		Forecast:       v.Forecast,
		Logs:           v.Logs,
	}
}

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ScenarioListDTO lists the available scenarios and which one is active.
// Active is empty after a reset or before any scenario has been loaded.
type ScenarioListDTO struct {
	Scenarios []ScenarioDTO `json:"scenarios"`
	Active    string        `json:"active"`
}

type errorResponse struct {
	Error string `json:"error"`
}
