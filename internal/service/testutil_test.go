package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/apexearn/apexearn/internal/models"
	"github.com/apexearn/apexearn/internal/repository"
	"github.com/apexearn/apexearn/utils"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	// A uniquely named shared-cache memory DB keeps each test isolated
	// while letting the pool and open transactions see the same data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	err = db.AutoMigrate(
		&models.User{},
		&models.Wallet{},
		&models.Plan{},
		&models.UserPlan{},
		&models.Transaction{},
		&models.Commission{},
		&models.DepositRequest{},
		&models.WithdrawalRequest{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	logger := utils.InitLogger()
	logger.SetLevel(logrus.ErrorLevel)

	repo := repository.NewRepository(db, logger)
	return NewService(repo, logger), db
}

func seedUser(t *testing.T, db *gorm.DB, username string, sponsorID *string, status models.UserStatus, available float64) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.NewString(),
		FullName:     username,
		Username:     username,
		Email:        username + "@example.com",
		Password:     "x",
		Mobile:       "5551234",
		SponsorID:    sponsorID,
		ReferralCode: username + "0000",
		Role:         models.RoleUser,
		Status:       status,
		CreatedAt:    time.Now().UTC(),
		Wallet:       &models.Wallet{Available: available},
	}
	user.Wallet.UserID = user.ID
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	return user
}

func seedPlan(t *testing.T, db *gorm.DB, price float64, duration int, structure models.CommissionStructure) *models.Plan {
	t.Helper()
	plan := &models.Plan{
		ID:                  uuid.NewString(),
		Title:               "Starter",
		Price:               price,
		Duration:            duration,
		CommissionStructure: structure,
		Status:              models.PlanActive,
		CreatedAt:           time.Now().UTC(),
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("failed to seed plan: %v", err)
	}
	return plan
}

func walletOf(t *testing.T, db *gorm.DB, userID string) *models.Wallet {
	t.Helper()
	var wallet models.Wallet
	if err := db.First(&wallet, "user_id = ?", userID).Error; err != nil {
		t.Fatalf("failed to read wallet of %s: %v", userID, err)
	}
	return &wallet
}
