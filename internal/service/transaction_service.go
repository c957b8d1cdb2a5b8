package service

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"clarity/internal/cache"
	"clarity/internal/errors"
	"clarity/internal/model"
	"clarity/internal/repository"
)

// DefaultListLimit caps a transaction listing when the caller does not.
const DefaultListLimit = 100

func statsCacheKey(userID uint) string {
	return cache.Key("dashboard_stats", strconv.FormatUint(uint64(userID), 10))
}

// TransactionService handles transaction CRUD scoped to an owning user.
type TransactionService interface {
	Create(ctx context.Context, ownerID uint, tx *model.Transaction) (*model.Transaction, error)
	List(ctx context.Context, ownerID uint, filter repository.TransactionFilter, skip, limit int) ([]model.Transaction, error)
	Get(ctx context.Context, ownerID, id uint) (*model.Transaction, error)
	Update(ctx context.Context, ownerID, id uint, patch model.TransactionPatch) (*model.Transaction, error)
	Delete(ctx context.Context, ownerID, id uint) (*model.Transaction, error)
	Categories(ctx context.Context, ownerID uint) ([]string, error)
}

type transactionService struct {
	repo  repository.TransactionRepository
	cache *cache.Client
}

// NewTransactionService creates a new transaction service.
func NewTransactionService(repo repository.TransactionRepository, cache *cache.Client) TransactionService {
	return &transactionService{repo: repo, cache: cache}
}

// Create validates and persists a new transaction for the owner.
func (s *transactionService) Create(ctx context.Context, ownerID uint, tx *model.Transaction) (*model.Transaction, error) {
	if !tx.Type.Valid() {
		return nil, errors.ErrInvalidTransactionType
	}
	if tx.Amount.IsNegative() {
		return nil, errors.ErrInvalidAmount
	}

	tx.UserID = ownerID
	if err := s.repo.Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	_ = s.cache.Delete(ctx, statsCacheKey(ownerID))
	return tx, nil
}

// List returns the owner's transactions, newest occurrence date first.
func (s *transactionService) List(ctx context.Context, ownerID uint, filter repository.TransactionFilter, skip, limit int) ([]model.Transaction, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.repo.FindByOwner(ctx, ownerID, filter, skip, limit)
}

// Get fetches one transaction. A record owned by another user is reported
// missing, never forbidden.
func (s *transactionService) Get(ctx context.Context, ownerID, id uint) (*model.Transaction, error) {
	tx, err := s.repo.FindByID(ctx, ownerID, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

// Update applies a partial patch; absent fields keep their prior values.
func (s *transactionService) Update(ctx context.Context, ownerID, id uint, patch model.TransactionPatch) (*model.Transaction, error) {
	if patch.Type != nil && !patch.Type.Valid() {
		return nil, errors.ErrInvalidTransactionType
	}
	if patch.Amount != nil && patch.Amount.IsNegative() {
		return nil, errors.ErrInvalidAmount
	}

	tx, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	patch.Apply(tx)
	if err := s.repo.Save(ctx, tx); err != nil {
		return nil, fmt.Errorf("update transaction: %w", err)
	}

	_ = s.cache.Delete(ctx, statsCacheKey(ownerID))
	return tx, nil
}

// Delete removes a transaction and returns the deleted record.
func (s *transactionService) Delete(ctx context.Context, ownerID, id uint) (*model.Transaction, error) {
	tx, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, tx); err != nil {
		return nil, fmt.Errorf("delete transaction: %w", err)
	}

	_ = s.cache.Delete(ctx, statsCacheKey(ownerID))
	return tx, nil
}

// Categories returns the distinct category labels the owner has used.
func (s *transactionService) Categories(ctx context.Context, ownerID uint) ([]string, error) {
	return s.repo.DistinctCategories(ctx, ownerID)
}
