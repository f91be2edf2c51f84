package service

import (
	"context"
	"fmt"
	"time"

	"github.com/apexearn/apexearn/internal/common"
	"github.com/apexearn/apexearn/internal/models"
	"github.com/google/uuid"
)

type PlanInput struct {
	Title               string
	Price               float64
	Duration            int // days
	CommissionStructure models.CommissionStructure
	Status              models.PlanStatus
}

func validatePlanInput(input PlanInput) error {
	if input.Title == "" {
		return fmt.Errorf("plan title is required")
	}
	if input.Price <= 0 {
		return fmt.Errorf("plan price must be positive")
	}
	if input.Duration <= 0 {
		return fmt.Errorf("plan duration must be positive")
	}
	for level, percent := range input.CommissionStructure {
		if level < 1 || level > models.MaxReferralDepth {
			return fmt.Errorf("commission level %d out of range", level)
		}
		if percent < 0 || percent > 100 {
			return fmt.Errorf("commission percentage for level %d out of range", level)
		}
	}
	return nil
}

func (s *Service) CreatePlan(ctx context.Context, input PlanInput) (*models.Plan, error) {
	if err := validatePlanInput(input); err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = models.PlanActive
	}
	plan := &models.Plan{
		ID:                  uuid.NewString(),
		Title:               input.Title,
		Price:               input.Price,
		Duration:            input.Duration,
		CommissionStructure: input.CommissionStructure,
		Status:              status,
		CreatedAt:           s.now(),
	}
	if err := s.repo.CreatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return plan, nil
}

// UpdatePlan edits the catalog entry. Past purchases are untouched:
// commission amounts are materialized at purchase time, so an edit never
// rewrites history.
func (s *Service) UpdatePlan(ctx context.Context, planID string, input PlanInput) (*models.Plan, error) {
	if err := validatePlanInput(input); err != nil {
		return nil, err
	}
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, common.ErrPlanNotFound
	}

	plan.Title = input.Title
	plan.Price = input.Price
	plan.Duration = input.Duration
	plan.CommissionStructure = input.CommissionStructure
	if input.Status != "" {
		plan.Status = input.Status
	}
	if err := s.repo.UpdatePlan(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	return plan, nil
}

func (s *Service) GetPlans(ctx context.Context, activeOnly bool) ([]*models.Plan, error) {
	return s.repo.GetPlans(ctx, activeOnly)
}

func (s *Service) CountExpiredSince(ctx context.Context, window time.Duration) (int64, error) {
	now := s.now()
	return s.repo.CountExpiredSince(ctx, now.Add(-window), now)
}

func (s *Service) CountPendingRequests(ctx context.Context) (int64, int64, error) {
	return s.repo.CountPendingRequests(ctx)
}
