package service

import (
	"context"
	"time"

	"github.com/apexearn/apexearn/internal/models"
	"github.com/apexearn/apexearn/utils"
	"gorm.io/gorm"
)

type Service struct {
	repo     Repository
	logger   *utils.Logger
	notifier Notifier
	now      func() time.Time
}

// Notifier receives out-of-band alerts about user actions that need admin
// attention. Implementations must not block; calls happen after commit.
type Notifier interface {
	DepositRequested(user *models.User, request *models.DepositRequest)
	WithdrawalRequested(user *models.User, request *models.WithdrawalRequest)
}

type Repository interface {
	GetUser(ctx context.Context, id string, tx *gorm.DB) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByReferralCode(ctx context.Context, code string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User, tx *gorm.DB) error
	UpdateUser(ctx context.Context, user *models.User, tx *gorm.DB) error
	UpdateUserStatus(ctx context.Context, id string, status models.UserStatus) error
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	GetChildren(ctx context.Context, sponsorID string) ([]*models.User, error)

	GetWallet(ctx context.Context, userID string, tx *gorm.DB) (*models.Wallet, error)
	CreditBucket(ctx context.Context, userID string, bucket models.Bucket, amount float64, tx *gorm.DB) error
	DebitBucket(ctx context.Context, userID string, bucket models.Bucket, amount float64, tx *gorm.DB) error

	GetPlan(ctx context.Context, id string) (*models.Plan, error)
	GetPlans(ctx context.Context, activeOnly bool) ([]*models.Plan, error)
	CreatePlan(ctx context.Context, plan *models.Plan) error
	UpdatePlan(ctx context.Context, plan *models.Plan) error
	CreateUserPlan(ctx context.Context, userPlan *models.UserPlan, tx *gorm.DB) error
	GetUserPlans(ctx context.Context, userID string) ([]*models.UserPlan, error)
	GetActiveUserPlans(ctx context.Context, userID string, now time.Time) ([]*models.UserPlan, error)
	CountExpiredSince(ctx context.Context, since, now time.Time) (int64, error)

	CreateTransaction(ctx context.Context, transaction *models.Transaction, tx *gorm.DB) error
	UpdateTransactionStatus(ctx context.Context, id string, status models.TransactionStatus, tx *gorm.DB) error
	GetTransactionsByUser(ctx context.Context, userID string) ([]*models.Transaction, error)

	CreateCommission(ctx context.Context, commission *models.Commission, tx *gorm.DB) error
	GetCommissionByID(ctx context.Context, id string) (*models.Commission, error)
	TransitionCommissionStatus(ctx context.Context, id string, to models.CommissionStatus, tx *gorm.DB) (bool, error)
	GetCommissionsByUser(ctx context.Context, userID string) ([]*models.Commission, error)
	GetAllCommissions(ctx context.Context) ([]*models.Commission, error)

	CreateDepositRequest(ctx context.Context, request *models.DepositRequest, tx *gorm.DB) error
	GetDepositRequestByID(ctx context.Context, id string) (*models.DepositRequest, error)
	TransitionDepositStatus(ctx context.Context, id string, to models.RequestStatus, tx *gorm.DB) (bool, error)
	GetAllDepositRequests(ctx context.Context) ([]*models.DepositRequest, error)
	CreateWithdrawalRequest(ctx context.Context, request *models.WithdrawalRequest, tx *gorm.DB) error
	GetWithdrawalRequestByID(ctx context.Context, id string) (*models.WithdrawalRequest, error)
	TransitionWithdrawalStatus(ctx context.Context, id string, to models.RequestStatus, tx *gorm.DB) (bool, error)
	GetAllWithdrawalRequests(ctx context.Context) ([]*models.WithdrawalRequest, error)
	CountPendingRequests(ctx context.Context) (int64, int64, error)

	BeginTransaction(ctx context.Context) (*gorm.DB, error)
	Commit(tx *gorm.DB) error
	Rollback(tx *gorm.DB)
}

func NewService(repo Repository, logger *utils.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// WithNotifier attaches the admin notifier. Without one, alerts are skipped.
func (s *Service) WithNotifier(n Notifier) *Service {
	s.notifier = n
	return s
}

// WithClock overrides the time source, for tests.
func (s *Service) WithClock(clock func() time.Time) *Service {
	s.now = clock
	return s
}
