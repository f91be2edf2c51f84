package service

import (
	"context"
	"fmt"

	"github.com/apexearn/apexearn/internal/common"
	"github.com/apexearn/apexearn/internal/models"
	"github.com/apexearn/apexearn/monitoring"
	"github.com/apexearn/apexearn/utils"
	"github.com/google/uuid"
)

// RequestDeposit opens a PENDING deposit: the amount lands in the pending
// bucket and becomes available only on admin approval.
func (s *Service) RequestDeposit(ctx context.Context, userID string, amount float64, method, referenceID string) (*models.DepositRequest, error) {
	if amount <= 0 {
		return nil, common.ErrInvalidAmount
	}
	user, err := s.repo.GetUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}

	amount = utils.RoundMoney(amount)

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			s.repo.Rollback(tx)
		}
	}()

	if err = s.credit(ctx, userID, models.BucketPending, amount, tx); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        models.TxDeposit,
		Amount:      amount,
		Status:      models.TxPending,
		Description: fmt.Sprintf("Deposit via %s", method),
		CreatedAt:   s.now(),
	}
	if err = s.repo.CreateTransaction(ctx, transaction, tx); err != nil {
		return nil, fmt.Errorf("failed to record deposit transaction: %w", err)
	}

	request := &models.DepositRequest{
		ID:            uuid.NewString(),
		UserID:        userID,
		Amount:        amount,
		Method:        method,
		ReferenceID:   referenceID,
		Status:        models.RequestPending,
		TransactionID: transaction.ID,
		CreatedAt:     s.now(),
	}
	if err = s.repo.CreateDepositRequest(ctx, request, tx); err != nil {
		return nil, fmt.Errorf("failed to create deposit request: %w", err)
	}

	if err = s.repo.Commit(tx); err != nil {
		return nil, fmt.Errorf("failed to commit deposit request: %w", err)
	}

	if s.notifier != nil {
		s.notifier.DepositRequested(user, request)
	}
	return request, nil
}

// RequestWithdrawal opens a PENDING withdrawal, parking the amount in the
// pending bucket until the admin approves or rejects it.
func (s *Service) RequestWithdrawal(ctx context.Context, userID string, amount float64, method string, accountDetails models.AccountDetails) (*models.WithdrawalRequest, error) {
	if amount <= 0 {
		return nil, common.ErrInvalidAmount
	}
	user, err := s.repo.GetUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}

	amount = utils.RoundMoney(amount)

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			s.repo.Rollback(tx)
		}
	}()

	if err = s.move(ctx, userID, models.BucketAvailable, models.BucketPending, amount, tx); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Type:        models.TxWithdrawal,
		Amount:      -amount,
		Status:      models.TxPending,
		Description: fmt.Sprintf("Withdrawal via %s", method),
		CreatedAt:   s.now(),
	}
	if err = s.repo.CreateTransaction(ctx, transaction, tx); err != nil {
		return nil, fmt.Errorf("failed to record withdrawal transaction: %w", err)
	}

	request := &models.WithdrawalRequest{
		ID:             uuid.NewString(),
		UserID:         userID,
		Amount:         amount,
		Method:         method,
		AccountDetails: accountDetails,
		Status:         models.RequestPending,
		TransactionID:  transaction.ID,
		CreatedAt:      s.now(),
	}
	if err = s.repo.CreateWithdrawalRequest(ctx, request, tx); err != nil {
		return nil, fmt.Errorf("failed to create withdrawal request: %w", err)
	}

	if err = s.repo.Commit(tx); err != nil {
		return nil, fmt.Errorf("failed to commit withdrawal request: %w", err)
	}

	if s.notifier != nil {
		s.notifier.WithdrawalRequested(user, request)
	}
	return request, nil
}

// ProcessDepositRequest drives a deposit PENDING -> APPROVED/REJECTED.
// Approval moves pending -> available; rejection removes the pending
// credit (approval is what grants availability, so there is nothing to
// restore). One-shot: a terminal request fails with
// ErrRequestAlreadyProcessed.
func (s *Service) ProcessDepositRequest(ctx context.Context, requestID string, approve bool) error {
	request, err := s.repo.GetDepositRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return common.ErrRequestNotFound
	}
	if request.Status != models.RequestPending {
		return common.ErrRequestAlreadyProcessed
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

	to := models.RequestRejected
	if approve {
		to = models.RequestApproved
	}
	moved, err := s.repo.TransitionDepositStatus(ctx, request.ID, to, tx)
	if err != nil {
		return err
	}
	if !moved {
		err = common.ErrRequestAlreadyProcessed
		return err
	}

	if approve {
		if err = s.move(ctx, request.UserID, models.BucketPending, models.BucketAvailable, request.Amount, tx); err != nil {
			return err
		}
		if err = s.repo.UpdateTransactionStatus(ctx, request.TransactionID, models.TxApproved, tx); err != nil {
			return err
		}
	} else {
		if err = s.debit(ctx, request.UserID, models.BucketPending, request.Amount, tx); err != nil {
			return err
		}
		if err = s.repo.UpdateTransactionStatus(ctx, request.TransactionID, models.TxRejected, tx); err != nil {
			return err
		}
	}

	if err = s.repo.Commit(tx); err != nil {
		return fmt.Errorf("failed to commit deposit decision: %w", err)
	}

	monitoring.RequestsProcessedTotal.WithLabelValues("deposit", string(to)).Inc()
	s.logger.Infof("Deposit request %s %s (user %s, amount %.2f)", request.ID, to, request.UserID, request.Amount)
	return nil
}

// ProcessWithdrawalRequest drives a withdrawal PENDING -> APPROVED/REJECTED.
// Approval debits the parked pending amount (funds leave the system);
// rejection refunds it to available.
func (s *Service) ProcessWithdrawalRequest(ctx context.Context, requestID string, approve bool) error {
	request, err := s.repo.GetWithdrawalRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request == nil {
		return common.ErrRequestNotFound
	}
	if request.Status != models.RequestPending {
		return common.ErrRequestAlreadyProcessed
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

	to := models.RequestRejected
	if approve {
		to = models.RequestApproved
	}
	moved, err := s.repo.TransitionWithdrawalStatus(ctx, request.ID, to, tx)
	if err != nil {
		return err
	}
	if !moved {
		err = common.ErrRequestAlreadyProcessed
		return err
	}

	if approve {
		if err = s.debit(ctx, request.UserID, models.BucketPending, request.Amount, tx); err != nil {
			return err
		}
		if err = s.repo.UpdateTransactionStatus(ctx, request.TransactionID, models.TxApproved, tx); err != nil {
			return err
		}
	} else {
		if err = s.move(ctx, request.UserID, models.BucketPending, models.BucketAvailable, request.Amount, tx); err != nil {
			return err
		}
		if err = s.repo.UpdateTransactionStatus(ctx, request.TransactionID, models.TxRejected, tx); err != nil {
			return err
		}
	}

	if err = s.repo.Commit(tx); err != nil {
		return fmt.Errorf("failed to commit withdrawal decision: %w", err)
	}

	monitoring.RequestsProcessedTotal.WithLabelValues("withdrawal", string(to)).Inc()
	s.logger.Infof("Withdrawal request %s %s (user %s, amount %.2f)", request.ID, to, request.UserID, request.Amount)
	return nil
}

func (s *Service) GetAllDepositRequests(ctx context.Context) ([]*models.DepositRequest, error) {
	return s.repo.GetAllDepositRequests(ctx)
}

func (s *Service) GetAllWithdrawalRequests(ctx context.Context) ([]*models.WithdrawalRequest, error) {
	return s.repo.GetAllWithdrawalRequests(ctx)
}
