package service

import (
	"context"
	"fmt"

	"github.com/apexearn/apexearn/internal/common"
	"github.com/apexearn/apexearn/internal/models"
	"github.com/apexearn/apexearn/monitoring"
	"github.com/apexearn/apexearn/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// distribute walks the buyer's sponsor chain and credits each qualifying
// ancestor's held bucket. It shares the purchase transaction: either the
// whole purchase lands, including every commission, or nothing does.
//
// A level with no percentage defined pays nothing but does not stop the
// walk; sparse structures like {1: 10, 3: 5} are legal. A blocked ancestor
// is skipped the same way. The walk ends at the root or at the depth
// ceiling, whichever comes first.
func (s *Service) distribute(ctx context.Context, buyer *models.User, plan *models.Plan, tx *gorm.DB) ([]*models.Commission, error) {
	var created []*models.Commission

	currentSponsorID := buyer.SponsorID
	for level := 1; level <= models.MaxReferralDepth && currentSponsorID != nil; level++ {
		sponsor, err := s.repo.GetUser(ctx, *currentSponsorID, tx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve level %d sponsor: %w", level, err)
		}
		if sponsor == nil {
			break
		}

		percent, defined := plan.CommissionStructure[level]
		if defined && percent > 0 && sponsor.Status == models.UserActive {
			amount := utils.RoundMoney(plan.Price * percent / 100)

			if err := s.credit(ctx, sponsor.ID, models.BucketHeld, amount, tx); err != nil {
				return nil, fmt.Errorf("failed to credit level %d commission: %w", level, err)
			}

			transaction := &models.Transaction{
				ID:          uuid.NewString(),
				UserID:      sponsor.ID,
				Type:        models.TxCommission,
				Amount:      amount,
				Status:      models.TxHeld,
				Description: fmt.Sprintf("Level %d commission from %s", level, buyer.Username),
				CreatedAt:   s.now(),
			}
			if err := s.repo.CreateTransaction(ctx, transaction, tx); err != nil {
				return nil, fmt.Errorf("failed to record level %d commission transaction: %w", level, err)
			}

			commission := &models.Commission{
				ID:            uuid.NewString(),
				UserID:        sponsor.ID,
				FromUserID:    buyer.ID,
				Level:         level,
				Amount:        amount,
				PlanID:        plan.ID,
				Status:        models.CommissionHeld,
				TransactionID: transaction.ID,
				CreatedAt:     s.now(),
			}
			if err := s.repo.CreateCommission(ctx, commission, tx); err != nil {
				return nil, fmt.Errorf("failed to record level %d commission: %w", level, err)
			}

			created = append(created, commission)
		}

		currentSponsorID = sponsor.SponsorID
	}

	return created, nil
}

// ReleaseCommission resolves a HELD commission. Approve moves the amount
// held -> available on the beneficiary and flips the mirrored transaction;
// reject forfeits the held amount outright. A commission that already left
// HELD fails with ErrCommissionNotHeld.
func (s *Service) ReleaseCommission(ctx context.Context, commissionID string, approve bool) error {
	commission, err := s.repo.GetCommissionByID(ctx, commissionID)
	if err != nil {
		return err
	}
	if commission == nil {
		return common.ErrCommissionNotFound
	}
	if commission.Status != models.CommissionHeld {
		return common.ErrCommissionNotHeld
	}

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			s.repo.Rollback(tx)
		}
	}()

	to := models.CommissionRejected
	if approve {
		to = models.CommissionApproved
	}

	// Status guard in the update doubles as the idempotency check under
	// concurrent admin clicks.
	moved, err := s.repo.TransitionCommissionStatus(ctx, commission.ID, to, tx)
	if err != nil {
		return err
	}
	if !moved {
		err = common.ErrCommissionNotHeld
		return err
	}

	if approve {
		if err = s.move(ctx, commission.UserID, models.BucketHeld, models.BucketAvailable, commission.Amount, tx); err != nil {
			return err
		}
		if err = s.repo.UpdateTransactionStatus(ctx, commission.TransactionID, models.TxApproved, tx); err != nil {
			return err
		}
	} else {
		if err = s.debit(ctx, commission.UserID, models.BucketHeld, commission.Amount, tx); err != nil {
			return err
		}
		if err = s.repo.UpdateTransactionStatus(ctx, commission.TransactionID, models.TxRejected, tx); err != nil {
			return err
		}
	}

	if err = s.repo.Commit(tx); err != nil {
		return fmt.Errorf("failed to commit commission release: %w", err)
	}

	monitoring.CommissionsReleasedTotal.WithLabelValues(string(to)).Inc()
	s.logger.Infof("Commission %s released as %s (beneficiary %s, amount %.2f)",
		commission.ID, to, commission.UserID, commission.Amount)
	return nil
}

func (s *Service) GetCommissionsByUser(ctx context.Context, userID string) ([]*models.Commission, error) {
	return s.repo.GetCommissionsByUser(ctx, userID)
}

func (s *Service) GetAllCommissions(ctx context.Context) ([]*models.Commission, error) {
	return s.repo.GetAllCommissions(ctx)
}
