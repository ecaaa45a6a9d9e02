package models

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Portfolio views are derived on read; nothing in this file touches storage.

type AllocationBucket struct {
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count"`
}

type PortfolioStats struct {
	TotalInvestment   float64                     `json:"total_investment"`
	CurrentValue      float64                     `json:"current_value"`
	TotalReturn       float64                     `json:"total_return"`
	ReturnPercentage  float64                     `json:"return_percentage"`
	ActiveInvestments int                         `json:"active_investments"`
	AssetAllocation   map[string]AllocationBucket `json:"asset_allocation"`
}

// ComputePortfolioStats aggregates the given (active) investments. The
// return percentage is 0, never NaN, for an empty or zero-principal set.
func ComputePortfolioStats(investments []Investment) PortfolioStats {
	stats := PortfolioStats{
		ActiveInvestments: len(investments),
		AssetAllocation:   make(map[string]AllocationBucket),
	}

	for _, inv := range investments {
		stats.TotalInvestment += inv.InvestmentAmount
		stats.CurrentValue += inv.CurrentValue

		bucket := stats.AssetAllocation[inv.AssetType]
		bucket.Value += inv.CurrentValue
		bucket.Count++
		stats.AssetAllocation[inv.AssetType] = bucket
	}

	stats.TotalReturn = stats.CurrentValue - stats.TotalInvestment
	if stats.TotalInvestment > 0 {
		stats.ReturnPercentage = roundTo(stats.TotalReturn/stats.TotalInvestment*100, 2)
	}

	if stats.CurrentValue > 0 {
		for assetType, bucket := range stats.AssetAllocation {
			bucket.Percentage = bucket.Value / stats.CurrentValue * 100
			stats.AssetAllocation[assetType] = bucket
		}
	}

	return stats
}

type PortfolioTransaction struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"`
	Asset        string    `json:"asset"`
	Amount       float64   `json:"amount"`
	Date         time.Time `json:"date"`
	Status       string    `json:"status"`
	InvestmentID uint      `json:"investment_id"`
}

// BuildTransactionHistory synthesizes a transaction list from investments:
// one purchase per investment, plus a return entry when the current value
// exceeds the principal. No transaction rows are stored anywhere.
func BuildTransactionHistory(investments []Investment) []PortfolioTransaction {
	transactions := make([]PortfolioTransaction, 0, len(investments))

	for _, inv := range investments {
		purchaseDate := inv.PurchaseDate
		if purchaseDate.IsZero() {
			purchaseDate = inv.CreatedAt
		}
		transactions = append(transactions, PortfolioTransaction{
			ID:           fmt.Sprintf("%d_purchase", inv.ID),
			Type:         "Investment",
			Asset:        inv.InvestmentName,
			Amount:       inv.InvestmentAmount,
			Date:         purchaseDate,
			Status:       "Completed",
			InvestmentID: inv.ID,
		})

		if inv.CurrentValue > inv.InvestmentAmount {
			transactions = append(transactions, PortfolioTransaction{
				ID:           fmt.Sprintf("%d_return", inv.ID),
				Type:         "Return",
				Asset:        inv.InvestmentName,
				Amount:       inv.CurrentValue - inv.InvestmentAmount,
				Date:         inv.UpdatedAt,
				Status:       "Completed",
				InvestmentID: inv.ID,
			})
		}
	}

	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].Date.After(transactions[j].Date)
	})

	return transactions
}

type PerformancePoint struct {
	Month string  `json:"month"`
	Value float64 `json:"value"`
}

// defaultMonthlyGrowth is the placeholder monthly rate applied when an
// investment has no recorded return rate yet.
const defaultMonthlyGrowth = 0.01

// MonthlyPerformance returns a 6-point series ending in the month of now.
// Each point is the sum over investments purchased on or before that month of
// principal * (1 + monthlyRate * monthsElapsed), a linear approximation
// rather than compounding. Returns an empty series when there are no
// investments.
func MonthlyPerformance(investments []Investment, now time.Time) []PerformancePoint {
	if len(investments) == 0 {
		return []PerformancePoint{}
	}

	points := make([]PerformancePoint, 0, 6)
	for i := 5; i >= 0; i-- {
		monthDate := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)

		var monthValue float64
		for _, inv := range investments {
			purchased := inv.PurchaseDate
			if purchased.IsZero() {
				purchased = inv.CreatedAt
			}
			if purchased.After(monthDate) {
				continue
			}

			monthsElapsed := monthDate.Sub(purchased).Hours() / (24 * 30)
			if monthsElapsed < 0 {
				monthsElapsed = 0
			}
			monthlyRate := defaultMonthlyGrowth
			if inv.ReturnRate > 0 {
				monthlyRate = inv.ReturnRate / 12
			}
			monthValue += inv.InvestmentAmount * (1 + monthlyRate*monthsElapsed)
		}

		points = append(points, PerformancePoint{
			Month: monthDate.Format("Jan"),
			Value: math.Round(monthValue),
		})
	}

	return points
}

func roundTo(v float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(v*ratio) / ratio
}
