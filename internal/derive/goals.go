package derive

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/spice-budget/internal/model"
)

// GoalProgress returns min(100, current / target * 100), or 0 when target is not positive.
func GoalProgress(current, target decimal.Decimal) float64 {
	if !target.IsPositive() {
		return 0
	}
	return math.Min(100, current.Div(target).Mul(hundred).InexactFloat64())
}

// GoalRow reports progress toward one goal.
type GoalRow struct {
	Goal      model.Goal      `json:"goal"`
	Remaining decimal.Decimal `json:"remaining"`
	Progress  float64         `json:"progress"`
	// MonthsLeft is how many planned contributions cover Remaining, or -1 when
	// nothing is planned and the goal is not yet reached.
	MonthsLeft int `json:"monthsLeft"`
}

// GoalsReport returns one row per goal, in goal order.
func GoalsReport(goals []model.Goal) []GoalRow {
	rows := make([]GoalRow, 0, len(goals))
	for _, g := range goals {
		remaining := g.TargetValue.Sub(g.CurrentValue)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		months := 0
		switch {
		case remaining.IsZero():
		case g.MonthlyPlannedValue.IsPositive():
			months = int(remaining.Div(g.MonthlyPlannedValue).Ceil().IntPart())
		default:
			months = -1
		}
		rows = append(rows, GoalRow{
			Goal:       g,
			Remaining:  remaining,
			Progress:   GoalProgress(g.CurrentValue, g.TargetValue),
			MonthsLeft: months,
		})
	}
	return rows
}
