package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"clarity/internal/cache"
	"clarity/internal/model"
	"clarity/internal/repository"
)

const (
	statsCacheTTL = 5 * time.Minute

	// DefaultSummaryMonths is the monthly summary window when the caller
	// does not supply one.
	DefaultSummaryMonths = 6

	monthKeyLayout = "2006-01"
)

// DashboardStats are the aggregate totals over all of a user's transactions.
type DashboardStats struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int             `json:"transaction_count"`
}

// CategoryBreakdown is one category's share of a transaction type's total.
type CategoryBreakdown struct {
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Percentage decimal.Decimal `json:"percentage"`
}

// MonthlyBucket aggregates one calendar month of activity.
type MonthlyBucket struct {
	Month    string          `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// DashboardService computes reporting aggregates over a user's transactions.
type DashboardService interface {
	Stats(ctx context.Context, ownerID uint) (*DashboardStats, error)
	CategoryBreakdown(ctx context.Context, ownerID uint, txType model.TransactionType) ([]CategoryBreakdown, error)
	MonthlySummary(ctx context.Context, ownerID uint, months int) ([]MonthlyBucket, error)
}

type dashboardService struct {
	repo  repository.TransactionRepository
	cache *cache.Client
	now   func() time.Time
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(repo repository.TransactionRepository, cache *cache.Client) DashboardService {
	return &dashboardService{
		repo:  repo,
		cache: cache,
		now:   time.Now,
	}
}

// Stats computes totals in a single pass, cache-aside. Writes to the owner's
// transactions invalidate the cached entry.
func (s *dashboardService) Stats(ctx context.Context, ownerID uint) (*DashboardStats, error) {
	if data, _ := s.cache.Get(ctx, statsCacheKey(ownerID)); data != nil {
		var cached DashboardStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	txs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalIncome:      decimal.Zero,
		TotalExpenses:    decimal.Zero,
		TransactionCount: len(txs),
	}
	for _, tx := range txs {
		switch tx.Type {
		case model.TransactionTypeIncome:
			stats.TotalIncome = stats.TotalIncome.Add(tx.Amount)
		case model.TransactionTypeExpense:
			stats.TotalExpenses = stats.TotalExpenses.Add(tx.Amount)
		}
	}
	stats.Balance = stats.TotalIncome.Sub(stats.TotalExpenses)

	if payload, err := json.Marshal(stats); err == nil {
		_ = s.cache.Set(ctx, statsCacheKey(ownerID), payload, statsCacheTTL)
	}
	return stats, nil
}

// CategoryBreakdown groups the owner's transactions of one type by category.
// Percentages are shares of the grand total, rounded to two decimal places;
// a zero grand total yields zero percentages rather than a division error.
func (s *dashboardService) CategoryBreakdown(ctx context.Context, ownerID uint, txType model.TransactionType) ([]CategoryBreakdown, error) {
	sums, err := s.repo.SumByCategory(ctx, ownerID, txType)
	if err != nil {
		return nil, err
	}

	grandTotal := decimal.Zero
	for _, sum := range sums {
		grandTotal = grandTotal.Add(sum.Total)
	}

	hundred := decimal.NewFromInt(100)
	breakdown := make([]CategoryBreakdown, 0, len(sums))
	for _, sum := range sums {
		percentage := decimal.Zero
		if grandTotal.IsPositive() {
			percentage = sum.Total.Mul(hundred).Div(grandTotal).Round(2)
		}
		breakdown = append(breakdown, CategoryBreakdown{
			Category:   sum.Category,
			Total:      sum.Total,
			Percentage: percentage,
		})
	}
	return breakdown, nil
}

// MonthlySummary buckets the last months of activity by occurrence year-month,
// ascending. The window is months x 30 days back from now, not calendar-month
// accurate. Months without transactions are omitted.
func (s *dashboardService) MonthlySummary(ctx context.Context, ownerID uint, months int) ([]MonthlyBucket, error) {
	if months <= 0 {
		months = DefaultSummaryMonths
	}

	end := s.now().UTC()
	start := end.Add(-time.Duration(months) * 30 * 24 * time.Hour)

	txs, err := s.repo.ListInRange(ctx, ownerID, start, end)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*MonthlyBucket)
	for _, tx := range txs {
		key := tx.Date.Format(monthKeyLayout)
		bucket, ok := buckets[key]
		if !ok {
			bucket = &MonthlyBucket{
				Month:    key,
				Income:   decimal.Zero,
				Expenses: decimal.Zero,
			}
			buckets[key] = bucket
		}
		if tx.Type == model.TransactionTypeIncome {
			bucket.Income = bucket.Income.Add(tx.Amount)
		} else {
			bucket.Expenses = bucket.Expenses.Add(tx.Amount)
		}
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	summary := make([]MonthlyBucket, 0, len(keys))
	for _, key := range keys {
		summary = append(summary, *buckets[key])
	}
	return summary, nil
}
