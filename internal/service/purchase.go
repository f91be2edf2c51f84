package service

import (
	"context"
	"fmt"

	"github.com/apexearn/apexearn/internal/common"
	"github.com/apexearn/apexearn/internal/models"
	"github.com/apexearn/apexearn/monitoring"
	"github.com/google/uuid"
)

// BuyPlan debits the buyer, records the purchase and distributes
// commissions up the sponsor chain, all inside one DB transaction.
func (s *Service) BuyPlan(ctx context.Context, userID, planID string) (*models.UserPlan, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, common.ErrPlanNotFound
	}
	if plan.Status != models.PlanActive {
		return nil, common.ErrPlanInactive
	}

	buyer, err := s.repo.GetUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if buyer == nil {
		return nil, common.ErrUserNotFound
	}

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			s.repo.Rollback(tx)
		}
	}()

	// The guarded debit is the funds check: zero rows means insufficient.
	if err = s.debit(ctx, buyer.ID, models.BucketAvailable, plan.Price, tx); err != nil {
		return nil, err
	}

	purchasedAt := s.now()
	purchaseTx := &models.Transaction{
		ID:          uuid.NewString(),
		UserID:      buyer.ID,
		Type:        models.TxPlanPurchase,
		Amount:      -plan.Price,
		Status:      models.TxApproved,
		Description: fmt.Sprintf("Purchased %s", plan.Title),
		CreatedAt:   purchasedAt,
	}
	if err = s.repo.CreateTransaction(ctx, purchaseTx, tx); err != nil {
		return nil, fmt.Errorf("failed to record purchase transaction: %w", err)
	}

	userPlan := &models.UserPlan{
		ID:          uuid.NewString(),
		UserID:      buyer.ID,
		PlanID:      plan.ID,
		PurchasedAt: purchasedAt,
		ExpiresAt:   purchasedAt.AddDate(0, 0, plan.Duration),
	}
	if err = s.repo.CreateUserPlan(ctx, userPlan, tx); err != nil {
		return nil, fmt.Errorf("failed to create user plan: %w", err)
	}

	commissions, err := s.distribute(ctx, buyer, plan, tx)
	if err != nil {
		return nil, err
	}

	if err = s.repo.Commit(tx); err != nil {
		return nil, fmt.Errorf("failed to commit purchase: %w", err)
	}

	monitoring.PurchasesTotal.Inc()
	monitoring.CommissionsDistributedTotal.Add(float64(len(commissions)))
	s.logger.Infof("User %s purchased plan %s for %.2f, %d commission(s) distributed",
		buyer.Username, plan.Title, plan.Price, len(commissions))
	return userPlan, nil
}
