package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"clarity/internal/model"
)

// TransactionFilter narrows a transaction listing. Zero values mean "no filter";
// the date range is inclusive on both ends.
type TransactionFilter struct {
	Category  string
	Type      model.TransactionType
	StartDate *time.Time
	EndDate   *time.Time
}

// CategorySum is one row of a per-category amount aggregation.
type CategorySum struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// TransactionRepository defines transaction persistence operations. Every
// query is scoped to an owning user; lookups for records owned by someone
// else behave exactly like lookups for records that do not exist.
type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	Save(ctx context.Context, tx *model.Transaction) error
	Delete(ctx context.Context, tx *model.Transaction) error
	FindByID(ctx context.Context, userID, id uint) (*model.Transaction, error)
	FindByOwner(ctx context.Context, userID uint, filter TransactionFilter, skip, limit int) ([]model.Transaction, error)
	ListByOwner(ctx context.Context, userID uint) ([]model.Transaction, error)
	ListInRange(ctx context.Context, userID uint, from, to time.Time) ([]model.Transaction, error)
	SumByCategory(ctx context.Context, userID uint, txType model.TransactionType) ([]CategorySum, error)
	DistinctCategories(ctx context.Context, userID uint) ([]string, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository builds a GORM-backed repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *transactionRepository) Save(ctx context.Context, tx *model.Transaction) error {
	return r.db.WithContext(ctx).Save(tx).Error
}

func (r *transactionRepository) Delete(ctx context.Context, tx *model.Transaction) error {
	return r.db.WithContext(ctx).Delete(tx).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, userID, id uint) (*model.Transaction, error) {
	var tx model.Transaction
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&tx).Error
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) FindByOwner(ctx context.Context, userID uint, filter TransactionFilter, skip, limit int) ([]model.Transaction, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", *filter.EndDate)
	}

	var txs []model.Transaction
	err := query.Order("date DESC").Offset(skip).Limit(limit).Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *transactionRepository) ListByOwner(ctx context.Context, userID uint) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *transactionRepository) ListInRange(ctx context.Context, userID uint, from, to time.Time) ([]model.Transaction, error) {
	var txs []model.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date >= ? AND date <= ?", userID, from, to).
		Find(&txs).Error
	if err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *transactionRepository) SumByCategory(ctx context.Context, userID uint, txType model.TransactionType) ([]CategorySum, error) {
	var sums []CategorySum
	err := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Select("category, SUM(amount) AS total").
		Where("user_id = ? AND type = ?", userID, txType).
		Group("category").
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	return sums, nil
}

func (r *transactionRepository) DistinctCategories(ctx context.Context, userID uint) ([]string, error) {
	var categories []string
	err := r.db.WithContext(ctx).
		Model(&model.Transaction{}).
		Where("user_id = ? AND category <> ''", userID).
		Distinct().
		Pluck("category", &categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
