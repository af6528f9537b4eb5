package model

// Insight is the narrative assessment returned by the remote analysis
// provider. It is derived and disposable: never persisted, replaced wholesale
// by the next successful analysis and discarded when the ledger empties.
type Insight struct {
	Summary           string             `json:"summary" validate:"required"`
	Tips              []string           `json:"tips"`
	ProjectedSavings  float64            `json:"projectedSavings"`
	Warnings          []string           `json:"warnings"`
	CategoryAnalysis  []CategoryInsight  `json:"categoryAnalysis"`
	RecurringExpenses []RecurringExpense `json:"recurringExpenses"`
	Metrics           Metrics            `json:"metrics"`
}

type CategoryInsight struct {
	Category string `json:"category" validate:"required"`
	Insight  string `json:"insight" validate:"required"`
}

type RecurringExpense struct {
	Description string  `json:"description" validate:"required"`
	Amount      float64 `json:"amount"`
	Frequency   string  `json:"frequency" validate:"required"`
}

type Metrics struct {
	DebtToIncomeRatio float64 `json:"debtToIncomeRatio"`
	SavingsRate       float64 `json:"savingsRate"`
}

type AnalysisStatus string

const (
	StatusIdle    AnalysisStatus = "idle"
	StatusPending AnalysisStatus = "pending"
	StatusLoading AnalysisStatus = "loading"
	StatusError   AnalysisStatus = "error"
)

// AnalysisState is the externally visible snapshot of the analysis trigger:
// the current status, the last settled insight if any, and the last error
// message if the most recent call failed.
type AnalysisState struct {
	Status  AnalysisStatus `json:"status"`
	Insight *Insight       `json:"insight,omitempty"`
	Error   string         `json:"error,omitempty"`
}
