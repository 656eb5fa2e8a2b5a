/*
handlers.go - HTTP API handlers for the budget tracker

PURPOSE:
  Exposes the finance engine via REST. Handles HTTP request/response, JSON
  serialization, input validation, and delegates to the tracker service.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Store errors

  Input validation that the original app did in its forms (positive
  amounts, day-of-month ranges) lives here, at the presentation boundary.
  The engine's own invariants (month start day range) are enforced again
  in the stores.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - scenarios.go: Demo scenario loaders
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/budget-engine/finance"
	"github.com/warp/budget-engine/tracker"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Tracker *tracker.Tracker
	KV      finance.KV

	currentScenario string
}

// NewHandler creates a handler over one storage backend.
func NewHandler(kv finance.KV) *Handler {
	return &Handler{Tracker: tracker.New(kv), KV: kv}
}

// =============================================================================
// SETTINGS
// =============================================================================

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Tracker.Settings.Get(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch finance.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	settings, err := h.Tracker.Settings.Update(r.Context(), patch)
	if err != nil {
		if finance.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// =============================================================================
// RECURRING PAYMENTS
// =============================================================================

func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		payments []finance.RecurringPayment
		err      error
	)
	if t := r.URL.Query().Get("type"); t != "" {
		payments, err = h.Tracker.Payments.ByType(ctx, finance.PaymentType(t))
	} else {
		payments, err = h.Tracker.Payments.All(ctx)
	}
	if err != nil {
		if finance.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if payments == nil {
		payments = []finance.RecurringPayment{}
	}
	writeJSON(w, http.StatusOK, payments)
}

func (h *Handler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeErrorMsg(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.DayOfMonth < 1 || req.DayOfMonth > 31 {
		writeErrorMsg(w, http.StatusBadRequest, "dayOfMonth must be between 1 and 31")
		return
	}
	if !req.DefaultAmount.IsPositive() {
		writeErrorMsg(w, http.StatusBadRequest, "defaultAmount must be positive")
		return
	}

	payment, err := h.Tracker.Payments.Create(r.Context(), finance.NewRecurringPayment{
		Name:          req.Name,
		DefaultAmount: req.DefaultAmount,
		DayOfMonth:    req.DayOfMonth,
		IconName:      req.IconName,
		Type:          req.Type,
	})
	if err != nil {
		if finance.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.Tracker.Payments.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if finance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var req UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DayOfMonth != nil && (*req.DayOfMonth < 1 || *req.DayOfMonth > 31) {
		writeErrorMsg(w, http.StatusBadRequest, "dayOfMonth must be between 1 and 31")
		return
	}

	if _, err := h.Tracker.Payments.GetByID(ctx, id); err != nil {
		if finance.IsNotFound(err) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	err := h.Tracker.Payments.Update(ctx, id, finance.RecurringPaymentPatch{
		Name:          req.Name,
		DefaultAmount: req.DefaultAmount,
		DayOfMonth:    req.DayOfMonth,
		IconName:      req.IconName,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	payment, err := h.Tracker.Payments.GetByID(ctx, id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

// DeletePayment soft-deletes: the template stops materializing but stays
// stored so past logs keep their back-reference.
func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.Tracker.Payments.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) PermanentDeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.Tracker.Payments.PermanentDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// TRACKER VIEW
// =============================================================================

// GetTrackerView returns the period screen: the resolved period, grouped
// logs (materialized on demand), balance, and forecast.
//
// Query parameters:
//
//	date   reference date (YYYY-MM-DD, default today)
//	offset periods to shift from the current one (default 0)
func (h *Handler) GetTrackerView(w http.ResponseWriter, r *http.Request) {
	ref, offset, ok := h.viewParams(w, r)
	if !ok {
		return
	}
	view, err := h.Tracker.PeriodView(r.Context(), ref, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrackerViewDTO(view))
}

func (h *Handler) CreateOneTimePayment(w http.ResponseWriter, r *http.Request) {
	ref, offset, ok := h.viewParams(w, r)
	if !ok {
		return
	}

	var req OneTimePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Name == "" {
		writeErrorMsg(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.DayOfMonth < 1 || req.DayOfMonth > 31 {
		writeErrorMsg(w, http.StatusBadRequest, "dayOfMonth must be between 1 and 31")
		return
	}
	if !req.Amount.IsPositive() {
		writeErrorMsg(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	log, err := h.Tracker.AddOneTimePayment(r.Context(), ref, offset, tracker.OneTimePayment{
		Name:       req.Name,
		Amount:     req.Amount,
		DayOfMonth: req.DayOfMonth,
		IconName:   req.IconName,
		Type:       req.Type,
	})
	if err != nil {
		if finance.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, log)
}

// =============================================================================
// PAYMENT LOGS
// =============================================================================

func (h *Handler) CompleteLog(w http.ResponseWriter, r *http.Request) {
	h.logAction(w, r, h.Tracker.Logs.Complete)
}

func (h *Handler) IncompleteLog(w http.ResponseWriter, r *http.Request) {
	h.logAction(w, r, h.Tracker.Logs.Incomplete)
}

func (h *Handler) SetLogAmount(w http.ResponseWriter, r *http.Request) {
	var req AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !req.Amount.IsPositive() {
		writeErrorMsg(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if err := h.Tracker.Logs.SetAmount(r.Context(), chi.URLParam(r, "id"), req.Amount); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	if err := h.Tracker.Logs.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PERIOD BALANCES
// =============================================================================

func (h *Handler) SetPeriodBalance(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if _, err := time.Parse("2006-01-02", key); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "period key must be YYYY-MM-DD")
		return
	}
	var req BalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorMsg(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := h.Tracker.Balances.SetForKey(r.Context(), key, req.Balance); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, finance.PeriodBalance{PeriodKey: key, Balance: req.Balance})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) viewParams(w http.ResponseWriter, r *http.Request) (time.Time, int, bool) {
	ref := h.Tracker.Now().UTC()
	if d := r.URL.Query().Get("date"); d != "" {
		parsed, err := time.Parse("2006-01-02", d)
		if err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return time.Time{}, 0, false
		}
		ref = parsed
	}
	offset := 0
	if o := r.URL.Query().Get("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil {
			writeErrorMsg(w, http.StatusBadRequest, "offset must be an integer")
			return time.Time{}, 0, false
		}
		offset = parsed
	}
	return ref, offset, true
}

func (h *Handler) logAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, id string) error) {
	if err := action(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeErrorMsg(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
