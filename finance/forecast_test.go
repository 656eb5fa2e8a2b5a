package finance_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/warp/budget-engine/finance"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func pendingLog(amount string, pt finance.PaymentType) finance.PaymentLog {
	return finance.PaymentLog{
		Amount:  dec(amount),
		Type:    pt,
		DueDate: date(2024, time.January, 15),
	}
}

func completedLog(amount string, pt finance.PaymentType) finance.PaymentLog {
	l := pendingLog(amount, pt)
	done := date(2024, time.January, 10)
	l.Completed = true
	l.CompletedAt = &done
	return l
}

func TestCalculateForecast(t *testing.T) {
	// GIVEN a balance of 1000 with pending expenses of 100 and 200 and
	// pending income of 500
	logs := []finance.PaymentLog{
		pendingLog("100", finance.Expense),
		pendingLog("200", finance.Expense),
		pendingLog("500", finance.Income),
	}

	// WHEN the forecast is calculated
	f := finance.CalculateForecast(dec("1000"), logs)

	// THEN pending amounts are summed by type and the balance projected
	assert.True(t, f.PendingExpenses.Equal(dec("300")), "expenses: %s", f.PendingExpenses)
	assert.True(t, f.PendingIncome.Equal(dec("500")), "income: %s", f.PendingIncome)
	assert.True(t, f.ForecastedBalance.Equal(dec("1200")), "balance: %s", f.ForecastedBalance)
}

func TestCalculateForecast_IgnoresCompletedLogs(t *testing.T) {
	logs := []finance.PaymentLog{
		completedLog("100", finance.Expense),
		completedLog("500", finance.Income),
		pendingLog("50", finance.Expense),
	}

	f := finance.CalculateForecast(dec("1000"), logs)

	assert.True(t, f.PendingExpenses.Equal(dec("50")))
	assert.True(t, f.PendingIncome.Equal(decimal.Zero))
	assert.True(t, f.ForecastedBalance.Equal(dec("950")))
}

func TestCalculateForecast_EmptyLogs(t *testing.T) {
	f := finance.CalculateForecast(dec("1000"), nil)

	assert.True(t, f.PendingExpenses.Equal(decimal.Zero))
	assert.True(t, f.PendingIncome.Equal(decimal.Zero))
	assert.True(t, f.ForecastedBalance.Equal(dec("1000")))
}

func TestCalculateForecast_NegativeProjection(t *testing.T) {
	logs := []finance.PaymentLog{
		pendingLog("1500", finance.Expense),
	}

	f := finance.CalculateForecast(dec("1000"), logs)

	assert.True(t, f.ForecastedBalance.Equal(dec("-500")))
}

func TestCalculateForecast_DecimalAmounts(t *testing.T) {
	// Cent-level amounts must not lose precision
	logs := []finance.PaymentLog{
		pendingLog("49.99", finance.Expense),
		pendingLog("0.01", finance.Expense),
		pendingLog("1234.56", finance.Income),
	}

	f := finance.CalculateForecast(dec("100.10"), logs)

	assert.True(t, f.PendingExpenses.Equal(dec("50")))
	assert.True(t, f.PendingIncome.Equal(dec("1234.56")))
	assert.True(t, f.ForecastedBalance.Equal(dec("1284.66")))
}

func TestCalculateForecast_ZeroBalance(t *testing.T) {
	logs := []finance.PaymentLog{
		pendingLog("200", finance.Income),
	}

	f := finance.CalculateForecast(decimal.Zero, logs)

	assert.True(t, f.ForecastedBalance.Equal(dec("200")))
}
