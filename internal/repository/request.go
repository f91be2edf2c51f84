package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/apexearn/apexearn/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateDepositRequest(ctx context.Context, request *models.DepositRequest, tx *gorm.DB) error {
	return r.handle(tx).WithContext(ctx).Create(request).Error
}

func (r *Repository) GetDepositRequestByID(ctx context.Context, id string) (*models.DepositRequest, error) {
	var request models.DepositRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get deposit request %s: %w", id, err)
	}
	return &request, nil
}

// TransitionDepositStatus moves a deposit request out of PENDING. Returns
// false when the request was already terminal, making the transition
// one-shot under concurrent admin actions.
func (r *Repository) TransitionDepositStatus(ctx context.Context, id string, to models.RequestStatus, tx *gorm.DB) (bool, error) {
	res := r.handle(tx).WithContext(ctx).
		Model(&models.DepositRequest{}).
		Where("id = ? AND status = ?", id, models.RequestPending).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("failed to transition deposit request %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) GetAllDepositRequests(ctx context.Context) ([]*models.DepositRequest, error) {
	var requests []*models.DepositRequest
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list deposit requests: %w", err)
	}
	return requests, nil
}

func (r *Repository) CreateWithdrawalRequest(ctx context.Context, request *models.WithdrawalRequest, tx *gorm.DB) error {
	return r.handle(tx).WithContext(ctx).Create(request).Error
}

func (r *Repository) GetWithdrawalRequestByID(ctx context.Context, id string) (*models.WithdrawalRequest, error) {
	var request models.WithdrawalRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get withdrawal request %s: %w", id, err)
	}
	return &request, nil
}

func (r *Repository) TransitionWithdrawalStatus(ctx context.Context, id string, to models.RequestStatus, tx *gorm.DB) (bool, error) {
	res := r.handle(tx).WithContext(ctx).
		Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, models.RequestPending).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("failed to transition withdrawal request %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) GetAllWithdrawalRequests(ctx context.Context) ([]*models.WithdrawalRequest, error) {
	var requests []*models.WithdrawalRequest
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list withdrawal requests: %w", err)
	}
	return requests, nil
}

// CountPendingRequests reports how many deposit and withdrawal requests
// are still awaiting admin action. Used by the reminder job.
func (r *Repository) CountPendingRequests(ctx context.Context) (deposits int64, withdrawals int64, err error) {
	if err = r.db.WithContext(ctx).
		Model(&models.DepositRequest{}).
		Where("status = ?", models.RequestPending).
		Count(&deposits).Error; err != nil {
		return 0, 0, err
	}
	if err = r.db.WithContext(ctx).
		Model(&models.WithdrawalRequest{}).
		Where("status = ?", models.RequestPending).
		Count(&withdrawals).Error; err != nil {
		return 0, 0, err
	}
	return deposits, withdrawals, nil
}
