package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used everywhere a transaction date
// crosses a boundary: the persisted ledger, the HTTP API and the analysis prompt.
const DateLayout = "2006-01-02"

type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
	TypeSavings Type = "savings"
	TypeLoans   Type = "loans"
)

// Transaction is one record of the ledger
type Transaction struct {
	ID          string          `json:"id"`
	Date        string          `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Type        Type            `json:"type"`
	Description string          `json:"description"`
}

// When parses the transaction date. Dates are stored as plain YYYY-MM-DD
// strings with no time component.
func (t Transaction) When() (time.Time, error) {
	return time.Parse(DateLayout, t.Date)
}

// Categories holds the suggested category set per transaction type. It is
// advisory only: entry forms offer these labels but any free-form label is
// accepted.
var Categories = map[Type][]string{
	TypeIncome:  {"Salary", "Freelance", "Investments", "Gift", "Other"},
	TypeExpense: {"Rent", "Food", "Transport", "Entertainment", "Shopping", "Utilities", "Healthcare", "Other"},
	TypeSavings: {"Emergency Fund", "Retirement", "Travel", "Education", "Investment Pot"},
	TypeLoans:   {"Home Loan", "Personal Loan", "Car Loan", "Credit Card Debt", "Education Loan", "Business Loan", "Other"},
}
