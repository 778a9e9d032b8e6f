// Package chart renders budget views as PNG bar charts.
package chart

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Veraticus/spice-budget/internal/derive"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to chart")

var hexColor = regexp.MustCompile(`^#?[0-9A-Fa-f]{6}$`)

var (
	incomeColor  = drawing.Color{R: 16, G: 185, B: 129, A: 255}
	expenseColor = drawing.Color{R: 244, G: 63, B: 94, A: 255}
	neutralColor = drawing.Color{R: 148, G: 163, B: 184, A: 255}
)

// Options sizes a chart.
type Options struct {
	Title    string
	Currency string
	Width    int
	Height   int
}

func (o Options) withDefaults(title string) Options {
	if o.Title == "" {
		o.Title = title
	}
	if o.Width <= 0 {
		o.Width = 900
	}
	if o.Height <= 0 {
		o.Height = 420
	}
	return o
}

// TrendBars returns an income bar and an expense bar per month, oldest first.
func TrendBars(rows []derive.TrendRow) []gochart.Value {
	bars := make([]gochart.Value, 0, 2*len(rows))
	for _, row := range rows {
		label := monthLabel(row.Month)
		bars = append(bars,
			bar(label+" in", row.Income.InexactFloat64(), incomeColor),
			bar(label+" out", row.Expense.InexactFloat64(), expenseColor),
		)
	}
	return bars
}

// BreakdownBars returns one bar per category label, in the given order,
// coloured with the category colour when it is a valid hex value.
func BreakdownBars(rows []derive.BreakdownRow) []gochart.Value {
	bars := make([]gochart.Value, 0, len(rows))
	for _, row := range rows {
		color := neutralColor
		if hexColor.MatchString(row.Color) {
			color = drawing.ColorFromHex(strings.TrimPrefix(row.Color, "#"))
		}
		bars = append(bars, bar(row.Name, row.Total.InexactFloat64(), color))
	}
	return bars
}

// RenderTrend writes the monthly income and expense trend as a PNG.
func RenderTrend(w io.Writer, rows []derive.TrendRow, opts Options) error {
	return render(w, TrendBars(rows), opts.withDefaults("Income vs expense"), opts.Currency)
}

// RenderBreakdown writes the expense breakdown as a PNG.
func RenderBreakdown(w io.Writer, rows []derive.BreakdownRow, opts Options) error {
	return render(w, BreakdownBars(rows), opts.withDefaults("Expenses by category"), opts.Currency)
}

func render(w io.Writer, bars []gochart.Value, opts Options, currency string) error {
	if !hasValue(bars) {
		return ErrNoData
	}

	width, spacing := barLayout(opts.Width, len(bars))
	barChart := gochart.BarChart{
		Title: opts.Title,
		Background: gochart.Style{
			Padding: gochart.Box{
				Top:    40,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
		},
		Width:        opts.Width,
		Height:       opts.Height,
		BarWidth:     width,
		BarSpacing:   spacing,
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}
	barChart.YAxis.Range = &gochart.ContinuousRange{Min: 0, Max: maxValue(bars) * 1.1}
	barChart.YAxis.ValueFormatter = func(v any) string {
		if vf, ok := v.(float64); ok {
			return strings.TrimSpace(fmt.Sprintf("%s %.0f", currency, vf))
		}
		return ""
	}

	if err := barChart.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func bar(label string, value float64, color drawing.Color) gochart.Value {
	return gochart.Value{
		Label: label,
		Value: value,
		Style: gochart.Style{
			FillColor:   color,
			StrokeColor: color,
			StrokeWidth: 0,
		},
	}
}

func hasValue(bars []gochart.Value) bool {
	return maxValue(bars) > 0
}

func maxValue(bars []gochart.Value) float64 {
	var m float64
	for _, b := range bars {
		m = max(m, b.Value)
	}
	return m
}

// barLayout splits the plot width into equal slots, two thirds bar and one third gap.
func barLayout(width, n int) (barWidth, spacing int) {
	if n == 0 {
		return 0, 0
	}
	slot := max(12, (width-80)/n)
	barWidth = min(slot*2/3, 60)
	return barWidth, slot - barWidth
}

// monthLabel turns "2024-03" into "Mar 24"; other input is returned as is.
func monthLabel(key string) string {
	t, err := derive.ParseMonthKey(key)
	if err != nil {
		return key
	}
	return t.Format("Jan 06")
}
