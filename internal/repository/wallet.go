package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/apexearn/apexearn/internal/common"
	"github.com/apexearn/apexearn/internal/models"
	"gorm.io/gorm"
)

// bucketColumn maps the closed Bucket enum onto its wallet column. Only
// these three values can ever reach the SQL below.
func bucketColumn(bucket models.Bucket) (string, error) {
	switch bucket {
	case models.BucketAvailable:
		return "available", nil
	case models.BucketPending:
		return "pending", nil
	case models.BucketHeld:
		return "held", nil
	default:
		return "", fmt.Errorf("unknown wallet bucket %q", bucket)
	}
}

func (r *Repository) GetWallet(ctx context.Context, userID string, tx *gorm.DB) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.handle(tx).WithContext(ctx).First(&wallet, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get wallet for %s: %w", userID, err)
	}
	return &wallet, nil
}

// CreditBucket increments one bucket by amount. A single guarded UPDATE
// keeps the increment atomic under concurrent commits.
func (r *Repository) CreditBucket(ctx context.Context, userID string, bucket models.Bucket, amount float64, tx *gorm.DB) error {
	col, err := bucketColumn(bucket)
	if err != nil {
		return err
	}

	res := r.handle(tx).WithContext(ctx).
		Model(&models.Wallet{}).
		Where("user_id = ?", userID).
		Update(col, gorm.Expr(col+" + ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to credit %s/%s: %w", userID, bucket, res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrUserNotFound
	}
	return nil
}

// DebitBucket decrements one bucket by amount. The balance guard in the
// WHERE clause makes over-debit impossible: a concurrent debit that would
// push the bucket negative simply affects zero rows.
func (r *Repository) DebitBucket(ctx context.Context, userID string, bucket models.Bucket, amount float64, tx *gorm.DB) error {
	col, err := bucketColumn(bucket)
	if err != nil {
		return err
	}

	res := r.handle(tx).WithContext(ctx).
		Model(&models.Wallet{}).
		Where("user_id = ? AND "+col+" >= ?", userID, amount).
		Update(col, gorm.Expr(col+" - ?", amount))
	if res.Error != nil {
		return fmt.Errorf("failed to debit %s/%s: %w", userID, bucket, res.Error)
	}
	if res.RowsAffected == 0 {
		wallet, err := r.GetWallet(ctx, userID, tx)
		if err != nil {
			return err
		}
		if wallet == nil {
			return common.ErrUserNotFound
		}
		return common.ErrInsufficientFunds
	}
	return nil
}
