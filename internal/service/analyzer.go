package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/xixi-finance/tracker/internal/model"
)

// Analyzer turns a ledger snapshot into a narrative Insight.
type Analyzer interface {
	Analyze(ctx context.Context, records []model.Transaction) (*model.Insight, error)
}

// ContentGenerator is the slice of the Gemini client the advisor needs.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, schema json.RawMessage) (string, error)
}

// insightSchema constrains the model response to the Insight shape.
const insightSchema = `{
  "type": "OBJECT",
  "properties": {
    "summary": {"type": "STRING"},
    "tips": {"type": "ARRAY", "items": {"type": "STRING"}},
    "projectedSavings": {"type": "NUMBER"},
    "warnings": {"type": "ARRAY", "items": {"type": "STRING"}},
    "categoryAnalysis": {
      "type": "ARRAY",
      "items": {
        "type": "OBJECT",
        "properties": {"category": {"type": "STRING"}, "insight": {"type": "STRING"}},
        "required": ["category", "insight"]
      }
    },
    "recurringExpenses": {
      "type": "ARRAY",
      "items": {
        "type": "OBJECT",
        "properties": {"description": {"type": "STRING"}, "amount": {"type": "NUMBER"}, "frequency": {"type": "STRING"}},
        "required": ["description", "amount", "frequency"]
      }
    },
    "metrics": {
      "type": "OBJECT",
      "properties": {"debtToIncomeRatio": {"type": "NUMBER"}, "savingsRate": {"type": "NUMBER"}},
      "required": ["debtToIncomeRatio", "savingsRate"]
    }
  },
  "required": ["summary", "tips", "projectedSavings", "warnings", "categoryAnalysis", "recurringExpenses", "metrics"]
}`

// GeminiAnalyzer formats the ledger into an analysis prompt, sends it to the
// remote provider and parses the structured response. Transport, parse and
// schema failures all collapse to a single error with a message; no retries
// happen here.
type GeminiAnalyzer struct {
	generator  ContentGenerator
	validate   *validator.Validate
	maxRecords int
	now        func() time.Time
}

func NewGeminiAnalyzer(generator ContentGenerator, validate *validator.Validate, maxRecords int) *GeminiAnalyzer {
	return &GeminiAnalyzer{
		generator:  generator,
		validate:   validate,
		maxRecords: maxRecords,
		now:        time.Now,
	}
}

func (a *GeminiAnalyzer) Analyze(ctx context.Context, records []model.Transaction) (*model.Insight, error) {
	prompt, err := a.buildPrompt(records)
	if err != nil {
		return nil, err
	}

	text, err := a.generator.GenerateContent(ctx, prompt, json.RawMessage(insightSchema))
	if err != nil {
		return nil, fmt.Errorf("analysis request failed: %v", err)
	}

	var insight model.Insight
	if err = json.Unmarshal([]byte(extractJSON(text)), &insight); err != nil {
		return nil, fmt.Errorf("analysis response is not valid JSON: %v", err)
	}
	if err = a.validate.Struct(&insight); err != nil {
		return nil, fmt.Errorf("analysis response failed schema validation: %v", err)
	}

	if insight.Tips == nil {
		insight.Tips = []string{}
	}
	if insight.Warnings == nil {
		insight.Warnings = []string{}
	}
	return &insight, nil
}

// buildPrompt serializes the most recent maxRecords records (a latency cap,
// not a correctness requirement) into the analysis prompt.
func (a *GeminiAnalyzer) buildPrompt(records []model.Transaction) (string, error) {
	recent := make([]model.Transaction, len(records))
	copy(recent, records)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date > recent[j].Date
	})
	if a.maxRecords > 0 && len(recent) > a.maxRecords {
		recent = recent[:a.maxRecords]
	}

	dataset, err := json.Marshal(recent)
	if err != nil {
		return "", fmt.Errorf("analyzer couldn't marshal dataset: %v", err)
	}

	return fmt.Sprintf(`Perform a deep granular analysis of these financial movements (INR).
Context:
- Date: %s
- Dataset: %s

Analysis Requirements:
1. Overall health summary (concise).
2. Category Analysis: For at least 3 high-volume categories, provide a specific insight.
3. Recurring Expenses: Identify potential subscriptions or repeating bills.
4. Metrics: Calculate Debt-to-Income Ratio (Total Loans / Total Income) and Savings Rate (Savings / Income).
5. Actionable tips and Risk warnings.

Return ONLY a JSON object following the schema.`, a.now().Format(model.DateLayout), dataset), nil
}

// extractJSON recovers the first brace-delimited object from text that is not
// pure JSON, matching the tolerant parsing of the response contract.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return text
	}
	return text[start : end+1]
}
