package service

import (
	"context"

	"github.com/apexearn/apexearn/internal/common"
	"github.com/apexearn/apexearn/internal/models"
	"github.com/apexearn/apexearn/utils"
	"gorm.io/gorm"
)

// The ledger owns all wallet mutations. Every operation runs against the
// transaction the caller began, so a failed multi-step flow leaves no
// partial bucket state behind.

func (s *Service) credit(ctx context.Context, userID string, bucket models.Bucket, amount float64, tx *gorm.DB) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	return s.repo.CreditBucket(ctx, userID, bucket, utils.RoundMoney(amount), tx)
}

func (s *Service) debit(ctx context.Context, userID string, bucket models.Bucket, amount float64, tx *gorm.DB) error {
	if amount <= 0 {
		return common.ErrInvalidAmount
	}
	return s.repo.DebitBucket(ctx, userID, bucket, utils.RoundMoney(amount), tx)
}

// move debits one bucket and credits another on the same wallet. Both
// legs share the caller's transaction, so the pair is atomic.
func (s *Service) move(ctx context.Context, userID string, from, to models.Bucket, amount float64, tx *gorm.DB) error {
	if err := s.debit(ctx, userID, from, amount, tx); err != nil {
		return err
	}
	return s.credit(ctx, userID, to, amount, tx)
}

// GetWallet returns the current bucket balances for a user.
func (s *Service) GetWallet(ctx context.Context, userID string) (*models.Wallet, error) {
	wallet, err := s.repo.GetWallet(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if wallet == nil {
		return nil, common.ErrUserNotFound
	}
	return wallet, nil
}
