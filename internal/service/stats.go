package service

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/xixi-finance/tracker/internal/model"
)

// Aggregations are pure and recomputed from scratch on every read; there is
// no incremental maintenance.

const histogramMonths = 6

// Balance sums the ledger with the product's sign convention: income and
// loans add, expense and savings subtract.
func Balance(records []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, record := range records {
		switch record.Type {
		case model.TypeIncome, model.TypeLoans:
			total = total.Add(record.Amount)
		case model.TypeExpense, model.TypeSavings:
			total = total.Sub(record.Amount)
		}
	}
	return total
}

// Inflow sums income and loans.
func Inflow(records []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, record := range records {
		if record.Type == model.TypeIncome || record.Type == model.TypeLoans {
			total = total.Add(record.Amount)
		}
	}
	return total
}

// Outflow sums expenses only. Savings are deliberately excluded here even
// though they subtract from the balance.
func Outflow(records []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, record := range records {
		if record.Type == model.TypeExpense {
			total = total.Add(record.Amount)
		}
	}
	return total
}

// TotalsByType sums amounts per transaction type.
func TotalsByType(records []model.Transaction) map[model.Type]decimal.Decimal {
	totals := map[model.Type]decimal.Decimal{
		model.TypeIncome:  decimal.Zero,
		model.TypeExpense: decimal.Zero,
		model.TypeSavings: decimal.Zero,
		model.TypeLoans:   decimal.Zero,
	}
	for _, record := range records {
		totals[record.Type] = totals[record.Type].Add(record.Amount)
	}
	return totals
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// CategoryBreakdown sums expense amounts per category, sorted descending by
// sum, category name ascending on ties. Non-expense records are excluded.
func CategoryBreakdown(records []model.Transaction) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	for _, record := range records {
		if record.Type != model.TypeExpense {
			continue
		}
		sums[record.Category] = sums[record.Category].Add(record.Amount)
	}

	breakdown := make([]CategoryTotal, 0, len(sums))
	for category, total := range sums {
		breakdown = append(breakdown, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if c := breakdown[i].Total.Cmp(breakdown[j].Total); c != 0 {
			return c > 0
		}
		return breakdown[i].Category < breakdown[j].Category
	})
	return breakdown
}

type MonthBucket struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Savings decimal.Decimal `json:"savings"`
	Loans   decimal.Decimal `json:"loans"`
}

// MonthlyHistogram buckets per-type sums over the 6 most recent calendar
// months ending at now, oldest first. Buckets are keyed by absolute
// (year, month) so a record from the same-named month of another year never
// collides; records outside the window are dropped.
func MonthlyHistogram(records []model.Transaction, now time.Time) []MonthBucket {
	type monthKey struct {
		year  int
		month time.Month
	}

	buckets := make([]MonthBucket, histogramMonths)
	index := make(map[monthKey]int, histogramMonths)
	// anchor on the first of the month so month-end dates can't skip a month
	first := time.Date(now.Year(), now.Month()-(histogramMonths-1), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < histogramMonths; i++ {
		at := first.AddDate(0, i, 0)
		buckets[i] = MonthBucket{
			Month:   at.Month().String()[:3],
			Income:  decimal.Zero,
			Expense: decimal.Zero,
			Savings: decimal.Zero,
			Loans:   decimal.Zero,
		}
		index[monthKey{year: at.Year(), month: at.Month()}] = i
	}

	for _, record := range records {
		day, err := record.When()
		if err != nil {
			logrus.Warnf("histogram skipped record %s with bad date %q: %v", record.ID, record.Date, err)
			continue
		}
		i, ok := index[monthKey{year: day.Year(), month: day.Month()}]
		if !ok {
			continue
		}
		switch record.Type {
		case model.TypeIncome:
			buckets[i].Income = buckets[i].Income.Add(record.Amount)
		case model.TypeExpense:
			buckets[i].Expense = buckets[i].Expense.Add(record.Amount)
		case model.TypeSavings:
			buckets[i].Savings = buckets[i].Savings.Add(record.Amount)
		case model.TypeLoans:
			buckets[i].Loans = buckets[i].Loans.Add(record.Amount)
		}
	}
	return buckets
}
