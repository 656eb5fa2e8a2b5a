/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:
  Provides pre-built scenarios that populate the store with realistic data
  for demos. Each scenario resets the store first.

AVAILABLE SCENARIOS:
  fresh-start: Empty store, default settings
  household:   Rent, utilities and salary on a mid-month cycle, with a
               starting balance for the current period

NOTE:
  Scenarios reset the store. Only use in development/demo environments.
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/warp/budget-engine/finance"
)

var scenarios = []ScenarioDTO{
	{
		ID:          "fresh-start",
		Name:        "Fresh Start",
		Description: "Empty store with default settings",
	},
	{
		ID:          "household",
		Name:        "Household Budget",
		Description: "Rent, utilities and salary on a cycle starting the 25th",
	},
}

func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ScenarioListDTO{
		Scenarios: scenarios,
		Active:    h.currentScenario,
	})
}

func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx := r.Context()
	if err := h.resetStore(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var err error
	switch req.ScenarioID {
	case "fresh-start":
		// Reset is the whole scenario.
	case "household":
		err = h.loadHouseholdScenario(ctx)
	default:
		writeErrorMsg(w, http.StatusBadRequest, "unknown scenario: "+req.ScenarioID)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"loaded": req.ScenarioID})
}

func (h *Handler) ResetData(w http.ResponseWriter, r *http.Request) {
	if err := h.resetStore(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) resetStore(ctx context.Context) error {
	keys := []string{
		finance.KeySettings,
		finance.KeyRecurringPayments,
		finance.KeyPaymentLogs,
		finance.KeyPeriodBalances,
	}
	for _, key := range keys {
		if err := h.KV.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadHouseholdScenario(ctx context.Context) error {
	if err := h.Tracker.Settings.SetMonthStartDay(ctx, 25); err != nil {
		return err
	}

	templates := []finance.NewRecurringPayment{
		{Name: "Rent", DefaultAmount: decimal.NewFromInt(1200), DayOfMonth: 1, IconName: "home", Type: finance.Expense},
		{Name: "Utilities", DefaultAmount: decimal.NewFromInt(150), DayOfMonth: 5, IconName: "flash", Type: finance.Expense},
		{Name: "Internet", DefaultAmount: decimal.RequireFromString("49.99"), DayOfMonth: 12, IconName: "wifi", Type: finance.Expense},
		{Name: "Salary", DefaultAmount: decimal.NewFromInt(3800), DayOfMonth: 25, IconName: "cash", Type: finance.Income},
	}
	for _, t := range templates {
		if _, err := h.Tracker.Payments.Create(ctx, t); err != nil {
			return err
		}
	}

	// Materialize the current period and give it a starting balance.
	view, err := h.Tracker.PeriodView(ctx, h.Tracker.Now().UTC(), 0)
	if err != nil {
		return err
	}
	return h.Tracker.Balances.SetForKey(ctx, view.PeriodKey, decimal.NewFromInt(2500))
}
