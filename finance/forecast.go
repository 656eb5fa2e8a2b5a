package finance

import "github.com/shopspring/decimal"

// =============================================================================
// FORECAST ENGINE
// =============================================================================

// Forecast is the projected end-of-period position: what is still owed,
// what is still expected, and where the balance lands if every pending log
// settles at its logged amount.
type Forecast struct {
	PendingExpenses   decimal.Decimal `json:"pendingExpenses"`
	PendingIncome     decimal.Decimal `json:"pendingIncome"`
	ForecastedBalance decimal.Decimal `json:"forecastedBalance"`
}

// CalculateForecast computes the forecast for a period from its starting
// balance and log set. Completed logs of either type are excluded entirely:
// they are assumed already reflected in the balance. An empty log set yields
// zero pending sums and an unchanged balance.
//
//	forecastedBalance = balance - pendingExpenses + pendingIncome
func CalculateForecast(balance decimal.Decimal, logs []PaymentLog) Forecast {
	expenses, income := decimal.Zero, decimal.Zero
	for _, l := range logs {
		if l.Completed {
			continue
		}
		switch l.Type {
		case Expense:
			expenses = expenses.Add(l.Amount)
		case Income:
			income = income.Add(l.Amount)
		}
	}
	return Forecast{
		PendingExpenses:   expenses,
		PendingIncome:     income,
		ForecastedBalance: balance.Sub(expenses).Add(income),
	}
}
