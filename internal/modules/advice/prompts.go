// Package advice generates personalized budgeting advice with Gemini.
package advice

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aristath/budgetwise/internal/modules/profile"
)

const systemInstruction = "You are an AI financial assistant."

// QuestionPrompt frames an ad-hoc user question for the model.
func QuestionPrompt(query string) string {
	return fmt.Sprintf(
		"User question: %s\n\nGive a concise, actionable answer in the context of personal budgeting.",
		query,
	)
}

// BudgetPlanPrompt asks for a next-month budget plan from this month's
// category breakdown. Categories are listed alphabetically so the prompt is
// stable across runs.
func BudgetPlanPrompt(byCategory map[string]float64) string {
	categories := make([]string, 0, len(byCategory))
	for cat := range byCategory {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var b strings.Builder
	b.WriteString("Here is my spending breakdown for this month:\n")
	for _, cat := range categories {
		fmt.Fprintf(&b, "%s: $%.2f\n", cat, byCategory[cat])
	}
	b.WriteString("\nPlease evaluate my spending and propose a detailed budget plan for next month, ")
	b.WriteString("including category targets and 3-5 practical optimization tips.")
	return b.String()
}

// ProfileReviewPrompt asks for a full review of a financial profile.
func ProfileReviewPrompt(p profile.FinancialProfile) string {
	var b strings.Builder
	b.WriteString("Here is my complete financial profile:\n")
	fmt.Fprintf(&b, "After-tax income: $%.2f\n", p.AfterTaxIncome)
	fmt.Fprintf(&b, "Total monthly expenses: $%.2f\n", p.TotalExpenses)
	fmt.Fprintf(&b, "Current savings: $%.2f\n", p.Savings)
	fmt.Fprintf(&b, "Current debt: $%.2f\n", p.Debt)
	fmt.Fprintf(&b, "1-month investment goal: $%.2f\n", p.Goal1M)
	fmt.Fprintf(&b, "3-month investment goal: $%.2f\n", p.Goal3M)
	fmt.Fprintf(&b, "6-month investment goal: $%.2f\n", p.Goal6M)
	fmt.Fprintf(&b, "1-year investment goal: $%.2f\n", p.Goal1Y)
	b.WriteString("\nBased on this, provide a comprehensive summary and personalized recommendations: ")
	b.WriteString("identify any red flags; suggest an optimal monthly budget split; ")
	b.WriteString("propose adjustments to meet my investment goals; and give 3-5 concrete next steps.")
	return b.String()
}
