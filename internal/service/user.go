package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/apexearn/apexearn/internal/common"
	"github.com/apexearn/apexearn/internal/models"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	FullName     string
	Username     string
	Email        string
	Password     string
	Mobile       string
	WhatsApp     string
	ReferralCode string // sponsor's code, optional
}

// Register creates a user with an empty wallet under the sponsor the
// referral code resolves to. Sponsorship is only assignable here, and a
// brand-new user has no descendants, so the forest stays acyclic by
// construction.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if existing, err := s.repo.GetUserByEmail(ctx, input.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, common.ErrEmailTaken
	}
	if existing, err := s.repo.GetUserByUsername(ctx, input.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, common.ErrUsernameTaken
	}

	var sponsorID *string
	if input.ReferralCode != "" {
		sponsor, err := s.repo.GetUserByReferralCode(ctx, input.ReferralCode)
		if err != nil {
			return nil, err
		}
		if sponsor == nil {
			return nil, common.ErrInvalidReferralCode
		}
		if strings.EqualFold(sponsor.Username, input.Username) || strings.EqualFold(sponsor.Email, input.Email) {
			return nil, common.ErrSelfReferral
		}
		sponsorID = &sponsor.ID
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), 8)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.NewString(),
		FullName:     input.FullName,
		Username:     input.Username,
		Email:        input.Email,
		Password:     string(hashed),
		Mobile:       input.Mobile,
		WhatsApp:     input.WhatsApp,
		SponsorID:    sponsorID,
		ReferralCode: generateReferralCode(input.Username, now.UnixMilli()),
		Role:         models.RoleUser,
		Status:       models.UserActive,
		CreatedAt:    now,
	}
	user.Wallet = &models.Wallet{UserID: user.ID}

	tx, err := s.repo.BeginTransaction(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := s.repo.CreateUser(ctx, user, tx); err != nil {
		s.repo.Rollback(tx)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	if err := s.repo.Commit(tx); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	s.logger.Infof("User %s registered (sponsor: %v)", user.Username, sponsorID != nil)
	return user, nil
}

func generateReferralCode(username string, millis int64) string {
	stamp := fmt.Sprintf("%d", millis)
	return strings.ToUpper(username) + stamp[len(stamp)-4:]
}

// Login verifies credentials and rejects blocked accounts.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, common.ErrInvalidCredentials
	}
	if user.Status == models.UserBlocked {
		return nil, common.ErrAccountBlocked
	}
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	return user, nil
}

type ProfileUpdate struct {
	FullName *string
	Mobile   *string
	WhatsApp *string
}

// UpdateProfile changes the editable profile fields only.
func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*models.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if update.FullName != nil {
		user.FullName = *update.FullName
	}
	if update.Mobile != nil {
		user.Mobile = *update.Mobile
	}
	if update.WhatsApp != nil {
		user.WhatsApp = *update.WhatsApp
	}
	if err := s.repo.UpdateUser(ctx, user, nil); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return common.ErrInvalidCredentials
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), 8)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)
	return s.repo.UpdateUser(ctx, user, nil)
}

// SetUserStatus toggles a user between ACTIVE and BLOCKED. Blocked users
// cannot log in and are skipped during commission distribution.
func (s *Service) SetUserStatus(ctx context.Context, userID string, status models.UserStatus) error {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.UpdateUserStatus(ctx, user.ID, status)
}

func (s *Service) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

// Dashboard aggregates everything the member home screen shows.
type Dashboard struct {
	User         *models.User          `json:"user"`
	Wallet       *models.Wallet        `json:"wallet"`
	ActivePlans  []*models.UserPlan    `json:"plans"`
	Commissions  []*models.Commission  `json:"commissions"`
	Transactions []*models.Transaction `json:"transactions"`
}

func (s *Service) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	plans, err := s.repo.GetActiveUserPlans(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	commissions, err := s.repo.GetCommissionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	transactions, err := s.repo.GetTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		User:         user,
		Wallet:       user.Wallet,
		ActivePlans:  plans,
		Commissions:  commissions,
		Transactions: transactions,
	}, nil
}
