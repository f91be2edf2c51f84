package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/apexearn/apexearn/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) CreateCommission(ctx context.Context, commission *models.Commission, tx *gorm.DB) error {
	return r.handle(tx).WithContext(ctx).Create(commission).Error
}

func (r *Repository) GetCommissionByID(ctx context.Context, id string) (*models.Commission, error) {
	var commission models.Commission
	err := r.db.WithContext(ctx).First(&commission, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get commission %s: %w", id, err)
	}
	return &commission, nil
}

// TransitionCommissionStatus moves a commission out of HELD. The status
// guard in the WHERE clause is the idempotency check: a commission that
// was already released affects zero rows.
func (r *Repository) TransitionCommissionStatus(ctx context.Context, id string, to models.CommissionStatus, tx *gorm.DB) (bool, error) {
	res := r.handle(tx).WithContext(ctx).
		Model(&models.Commission{}).
		Where("id = ? AND status = ?", id, models.CommissionHeld).
		Update("status", to)
	if res.Error != nil {
		return false, fmt.Errorf("failed to transition commission %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *Repository) GetCommissionsByUser(ctx context.Context, userID string) ([]*models.Commission, error) {
	var commissions []*models.Commission
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&commissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get commissions for %s: %w", userID, err)
	}
	return commissions, nil
}

func (r *Repository) GetAllCommissions(ctx context.Context) ([]*models.Commission, error) {
	var commissions []*models.Commission
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&commissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list commissions: %w", err)
	}
	return commissions, nil
}
