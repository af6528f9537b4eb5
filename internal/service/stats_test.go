package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/xixi-finance/tracker/internal/model"
)

func record(date string, amount int64, category string, tp model.Type) model.Transaction {
	return model.Transaction{
		ID:       category + date,
		Date:     date,
		Amount:   decimal.NewFromInt(amount),
		Category: category,
		Type:     tp,
	}
}

func TestBalanceInflowOutflow(t *testing.T) {
	records := []model.Transaction{
		record("2026-08-01", 1000, "Salary", model.TypeIncome),
		record("2026-08-02", 400, "Food", model.TypeExpense),
	}

	require.True(t, Balance(records).Equal(decimal.NewFromInt(600)))
	require.True(t, Inflow(records).Equal(decimal.NewFromInt(1000)))
	require.True(t, Outflow(records).Equal(decimal.NewFromInt(400)))
}

func TestBalance_SignConvention(t *testing.T) {
	records := []model.Transaction{
		record("2026-08-01", 1000, "Salary", model.TypeIncome),
		record("2026-08-02", 300, "Food", model.TypeExpense),
		record("2026-08-03", 200, "Retirement", model.TypeSavings),
		record("2026-08-04", 500, "Car Loan", model.TypeLoans),
	}

	// income and loans add, expense and savings subtract
	require.True(t, Balance(records).Equal(decimal.NewFromInt(1000)))
	require.True(t, Inflow(records).Equal(decimal.NewFromInt(1500)))
	// savings are excluded from outflow even though they reduce the balance
	require.True(t, Outflow(records).Equal(decimal.NewFromInt(300)))
}

func TestBalance_OrderInvariant(t *testing.T) {
	records := []model.Transaction{
		record("2026-08-01", 1000, "Salary", model.TypeIncome),
		record("2026-08-02", 300, "Food", model.TypeExpense),
		record("2026-08-03", 200, "Retirement", model.TypeSavings),
		record("2026-08-04", 500, "Car Loan", model.TypeLoans),
	}
	reversed := make([]model.Transaction, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		reversed = append(reversed, records[i])
	}

	require.True(t, Balance(records).Equal(Balance(reversed)))
}

func TestTotalsByType(t *testing.T) {
	records := []model.Transaction{
		record("2026-08-01", 1000, "Salary", model.TypeIncome),
		record("2026-08-02", 300, "Food", model.TypeExpense),
		record("2026-08-03", 100, "Food", model.TypeExpense),
	}

	totals := TotalsByType(records)
	require.True(t, totals[model.TypeIncome].Equal(decimal.NewFromInt(1000)))
	require.True(t, totals[model.TypeExpense].Equal(decimal.NewFromInt(400)))
	require.True(t, totals[model.TypeSavings].IsZero())
	require.True(t, totals[model.TypeLoans].IsZero())
}

func TestCategoryBreakdown_ExpensesOnlySortedDescending(t *testing.T) {
	records := []model.Transaction{
		record("2026-08-01", 5000, "Salary", model.TypeIncome),
		record("2026-08-02", 900, "Retirement", model.TypeSavings),
		record("2026-08-03", 300, "Food", model.TypeExpense),
		record("2026-08-04", 250, "Food", model.TypeExpense),
		record("2026-08-05", 700, "Rent", model.TypeExpense),
		record("2026-08-06", 100, "Transport", model.TypeExpense),
	}

	breakdown := CategoryBreakdown(records)
	require.Len(t, breakdown, 3)
	require.Equal(t, "Rent", breakdown[0].Category)
	require.Equal(t, "Food", breakdown[1].Category)
	require.Equal(t, "Transport", breakdown[2].Category)
	require.True(t, breakdown[1].Total.Equal(decimal.NewFromInt(550)))
}

func TestMonthlyHistogram_WindowAndLabels(t *testing.T) {
	now := time.Date(2026, time.September, 15, 12, 0, 0, 0, time.UTC)
	records := []model.Transaction{
		record("2026-09-01", 1000, "Salary", model.TypeIncome),
		record("2026-04-10", 200, "Food", model.TypeExpense),
		record("2026-02-10", 999, "Rent", model.TypeExpense),  // before the window
		record("2025-09-05", 777, "Salary", model.TypeIncome), // same month name, previous year
	}

	buckets := MonthlyHistogram(records, now)
	require.Len(t, buckets, 6)

	labels := make([]string, 0, len(buckets))
	for _, bucket := range buckets {
		labels = append(labels, bucket.Month)
	}
	require.Equal(t, []string{"Apr", "May", "Jun", "Jul", "Aug", "Sep"}, labels)

	require.True(t, buckets[0].Expense.Equal(decimal.NewFromInt(200)))
	// only the current-year September lands in the last bucket
	require.True(t, buckets[5].Income.Equal(decimal.NewFromInt(1000)))
	for _, bucket := range buckets[1:5] {
		require.True(t, bucket.Income.IsZero())
		require.True(t, bucket.Expense.IsZero())
	}
}

func TestMonthlyHistogram_MonthEndAnchor(t *testing.T) {
	// a month-end date must not skip short months when walking back
	now := time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)
	buckets := MonthlyHistogram(nil, now)

	labels := make([]string, 0, len(buckets))
	for _, bucket := range buckets {
		labels = append(labels, bucket.Month)
	}
	require.Equal(t, []string{"Oct", "Nov", "Dec", "Jan", "Feb", "Mar"}, labels)
}

func TestMonthlyHistogram_SkipsUnparseableDates(t *testing.T) {
	now := time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC)
	records := []model.Transaction{
		record("not-a-date", 100, "Food", model.TypeExpense),
		record("2026-09-02", 50, "Food", model.TypeExpense),
	}

	buckets := MonthlyHistogram(records, now)
	require.True(t, buckets[5].Expense.Equal(decimal.NewFromInt(50)))
}
