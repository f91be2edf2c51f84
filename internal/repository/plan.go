package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apexearn/apexearn/internal/models"
	"gorm.io/gorm"
)

func (r *Repository) GetPlan(ctx context.Context, id string) (*models.Plan, error) {
	var plan models.Plan
	err := r.db.WithContext(ctx).First(&plan, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan %s: %w", id, err)
	}
	return &plan, nil
}

func (r *Repository) GetPlans(ctx context.Context, activeOnly bool) ([]*models.Plan, error) {
	var plans []*models.Plan
	q := r.db.WithContext(ctx).Order("created_at ASC")
	if activeOnly {
		q = q.Where("status = ?", models.PlanActive)
	}
	if err := q.Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (r *Repository) CreatePlan(ctx context.Context, plan *models.Plan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *Repository) UpdatePlan(ctx context.Context, plan *models.Plan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *Repository) CreateUserPlan(ctx context.Context, userPlan *models.UserPlan, tx *gorm.DB) error {
	return r.handle(tx).WithContext(ctx).Create(userPlan).Error
}

func (r *Repository) GetUserPlans(ctx context.Context, userID string) ([]*models.UserPlan, error) {
	var plans []*models.UserPlan
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("purchased_at DESC").
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user plans: %w", err)
	}
	return plans, nil
}

// GetActiveUserPlans returns the purchases that have not yet expired.
func (r *Repository) GetActiveUserPlans(ctx context.Context, userID string, now time.Time) ([]*models.UserPlan, error) {
	var plans []*models.UserPlan
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND expires_at > ?", userID, now).
		Order("purchased_at DESC").
		Find(&plans).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get active user plans: %w", err)
	}
	return plans, nil
}

// CountExpiredSince counts purchases whose expiry fell inside (since, now].
// Used by the daily sweep job.
func (r *Repository) CountExpiredSince(ctx context.Context, since, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.UserPlan{}).
		Where("expires_at > ? AND expires_at <= ?", since, now).
		Count(&count).Error
	return count, err
}
