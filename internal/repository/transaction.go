package repository

import (
	"context"
	"fmt"

	"github.com/apexearn/apexearn/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateTransaction(ctx context.Context, transaction *models.Transaction, tx *gorm.DB) error {
	return r.handle(tx).WithContext(ctx).Create(transaction).Error
}

// UpdateTransactionStatus flips one ledger row from its current non-final
// status. The caller decides the transition; the row must exist.
func (r *Repository) UpdateTransactionStatus(ctx context.Context, id string, status models.TransactionStatus, tx *gorm.DB) error {
	res := r.handle(tx).WithContext(ctx).
		Model(&models.Transaction{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update transaction status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("transaction %s not found for status update", id)
	}
	return nil
}

func (r *Repository) GetTransactionsByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	var transactions []*models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions for %s: %w", userID, err)
	}
	return transactions, nil
}
