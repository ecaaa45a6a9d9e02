package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputePortfolioStatsEmpty(t *testing.T) {
	stats := ComputePortfolioStats(nil)
	assert.Equal(t, 0.0, stats.TotalInvestment)
	assert.Equal(t, 0.0, stats.CurrentValue)
	assert.Equal(t, 0.0, stats.ReturnPercentage, "zero principal must yield 0, not NaN")
	assert.Equal(t, 0, stats.ActiveInvestments)
	assert.Empty(t, stats.AssetAllocation)
}

func TestComputePortfolioStatsTotals(t *testing.T) {
	investments := []Investment{
		{InvestmentAmount: 10000, CurrentValue: 11000, AssetType: "Real Estate"},
		{InvestmentAmount: 5000, CurrentValue: 5500, AssetType: "Real Estate"},
		{InvestmentAmount: 5000, CurrentValue: 5500, AssetType: "Digital Assets"},
	}

	stats := ComputePortfolioStats(investments)
	assert.Equal(t, 20000.0, stats.TotalInvestment)
	assert.Equal(t, 22000.0, stats.CurrentValue)
	assert.Equal(t, 2000.0, stats.TotalReturn)
	assert.Equal(t, 10.0, stats.ReturnPercentage)
	assert.Equal(t, 3, stats.ActiveInvestments)

	re := stats.AssetAllocation["Real Estate"]
	assert.Equal(t, 16500.0, re.Value)
	assert.Equal(t, 2, re.Count)
	assert.InDelta(t, 75.0, re.Percentage, 0.001)

	da := stats.AssetAllocation["Digital Assets"]
	assert.InDelta(t, 25.0, da.Percentage, 0.001)

	var pctSum float64
	for _, b := range stats.AssetAllocation {
		pctSum += b.Percentage
	}
	assert.InDelta(t, 100.0, pctSum, 0.001)
}

func TestComputePortfolioStatsRounding(t *testing.T) {
	stats := ComputePortfolioStats([]Investment{
		{InvestmentAmount: 3000, CurrentValue: 3100, AssetType: "Other"},
	})
	// 100/3000 = 3.333..., rounded to two decimals
	assert.Equal(t, 3.33, stats.ReturnPercentage)
}

func TestBuildTransactionHistory(t *testing.T) {
	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	investments := []Investment{
		{
			ID:               1,
			InvestmentName:   "Harbor District",
			InvestmentAmount: 10000,
			CurrentValue:     10800,
			PurchaseDate:     base,
			UpdatedAt:        base.AddDate(0, 2, 0),
		},
		{
			ID:               2,
			InvestmentName:   "Vertical Farm",
			InvestmentAmount: 4000,
			CurrentValue:     4000,
			PurchaseDate:     base.AddDate(0, 1, 0),
		},
	}

	txs := BuildTransactionHistory(investments)
	require.Len(t, txs, 3, "one purchase each plus one return for the grown investment")

	// Newest first
	for i := 1; i < len(txs); i++ {
		assert.False(t, txs[i].Date.After(txs[i-1].Date), "transactions must be sorted newest first")
	}

	assert.Equal(t, "1_return", txs[0].ID)
	assert.Equal(t, "Return", txs[0].Type)
	assert.Equal(t, 800.0, txs[0].Amount)

	ids := []string{txs[0].ID, txs[1].ID, txs[2].ID}
	assert.Contains(t, ids, "1_purchase")
	assert.Contains(t, ids, "2_purchase")
}

func TestBuildTransactionHistoryFallsBackToCreatedAt(t *testing.T) {
	created := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	txs := BuildTransactionHistory([]Investment{
		{ID: 7, InvestmentAmount: 1000, CurrentValue: 1000, CreatedAt: created},
	})
	require.Len(t, txs, 1)
	assert.Equal(t, created, txs[0].Date)
}

func TestMonthlyPerformanceEmpty(t *testing.T) {
	points := MonthlyPerformance(nil, time.Now())
	assert.NotNil(t, points)
	assert.Empty(t, points)
}

func TestMonthlyPerformanceSeries(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	purchase := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	points := MonthlyPerformance([]Investment{
		{InvestmentAmount: 10000, ReturnRate: 0.12, PurchaseDate: purchase},
	}, now)

	require.Len(t, points, 6)
	assert.Equal(t, "Mar", points[0].Month)
	assert.Equal(t, "Aug", points[5].Month)

	// Linear growth: later months are worth at least as much
	for i := 1; i < len(points); i++ {
		assert.GreaterOrEqual(t, points[i].Value, points[i-1].Value)
	}

	// First point: 28 days after purchase at 1% monthly (0.12 / 12),
	// with months measured as 30-day blocks
	assert.InDelta(t, 10093, points[0].Value, 1)
}

func TestMonthlyPerformanceSkipsFuturePurchases(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	points := MonthlyPerformance([]Investment{
		{InvestmentAmount: 10000, PurchaseDate: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)},
	}, now)

	require.Len(t, points, 6)
	// Months before the purchase contribute nothing
	assert.Equal(t, 0.0, points[0].Value)
	assert.Equal(t, 0.0, points[3].Value)
	assert.Greater(t, points[5].Value, 0.0)
}

func TestMonthlyPerformanceDefaultGrowth(t *testing.T) {
	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	purchase := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

	// No recorded return rate falls back to the placeholder monthly rate
	points := MonthlyPerformance([]Investment{
		{InvestmentAmount: 10000, PurchaseDate: purchase},
	}, now)

	require.Len(t, points, 6)
	assert.InDelta(t, 10103, points[5].Value, 10)
}
