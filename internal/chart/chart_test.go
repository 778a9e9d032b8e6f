package chart

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-budget/internal/derive"
	"github.com/Veraticus/spice-budget/internal/idgen"
	"github.com/Veraticus/spice-budget/internal/seed"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func TestTrendBars(t *testing.T) {
	rows := []derive.TrendRow{
		{Month: "2024-01", Income: decimal.NewFromInt(5000), Expense: decimal.NewFromInt(2250)},
		{Month: "2024-02", Income: decimal.Zero, Expense: decimal.Zero},
	}

	bars := TrendBars(rows)
	require.Len(t, bars, 4)
	assert.Equal(t, "Jan 24 in", bars[0].Label)
	assert.Equal(t, 5000.0, bars[0].Value)
	assert.Equal(t, "Jan 24 out", bars[1].Label)
	assert.Equal(t, 2250.0, bars[1].Value)
	assert.Equal(t, incomeColor, bars[0].Style.FillColor)
	assert.Equal(t, expenseColor, bars[1].Style.FillColor)
	assert.Equal(t, "Feb 24 in", bars[2].Label)
}

func TestBreakdownBars(t *testing.T) {
	rows := []derive.BreakdownRow{
		{Name: "Rent", Color: "#F43F5E", Total: decimal.NewFromInt(1800)},
		{Name: derive.UncategorizedLabel, Total: decimal.NewFromInt(20)},
		{Name: "Odd", Color: "tomato", Total: decimal.NewFromInt(5)},
	}

	bars := BreakdownBars(rows)
	require.Len(t, bars, 3)
	assert.Equal(t, uint8(0xF4), bars[0].Style.FillColor.R)
	assert.Equal(t, uint8(0x3F), bars[0].Style.FillColor.G)
	assert.Equal(t, neutralColor, bars[1].Style.FillColor)
	assert.Equal(t, neutralColor, bars[2].Style.FillColor)
}

func TestRenderTrend(t *testing.T) {
	now := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	state := seed.DefaultSnapshot(now, idgen.NewSequence("t"))
	rows := derive.TrailingTrend(state.Transactions, now, 6)

	var buf bytes.Buffer
	require.NoError(t, RenderTrend(&buf, rows, Options{Currency: "BRL"}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
}

func TestRenderBreakdown(t *testing.T) {
	rows := []derive.BreakdownRow{{Name: "Rent", Color: "#F43F5E", Total: decimal.NewFromInt(1800)}}

	var buf bytes.Buffer
	require.NoError(t, RenderBreakdown(&buf, rows, Options{Width: 400, Height: 300}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngSignature))
}

func TestRender_NoData(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, RenderTrend(&buf, nil, Options{}), ErrNoData)
	assert.ErrorIs(t, RenderTrend(&buf, []derive.TrendRow{{Month: "2024-01"}}, Options{}), ErrNoData)
	assert.ErrorIs(t, RenderBreakdown(&buf, nil, Options{}), ErrNoData)
	assert.Zero(t, buf.Len())
}

func TestBarLayout(t *testing.T) {
	width, spacing := barLayout(900, 12)
	assert.Equal(t, 45, width)
	assert.Equal(t, 23, spacing)

	width, spacing = barLayout(900, 1)
	assert.Equal(t, 60, width)
	assert.Equal(t, 760, spacing)
}
