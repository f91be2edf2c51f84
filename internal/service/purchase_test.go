package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/apexearn/apexearn/internal/common"
	"github.com/apexearn/apexearn/internal/models"
)

func TestBuyPlanDistributesCommissions(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	s2 := seedUser(t, db, "sponsor2", nil, models.UserActive, 0)
	s1 := seedUser(t, db, "sponsor1", &s2.ID, models.UserActive, 0)
	buyer := seedUser(t, db, "buyer", &s1.ID, models.UserActive, 150)

	plan := seedPlan(t, db, 100, 30, models.CommissionStructure{1: 10, 2: 5})

	userPlan, err := svc.BuyPlan(ctx, buyer.ID, plan.ID)
	if err != nil {
		t.Fatalf("BuyPlan failed: %v", err)
	}
	if userPlan.UserID != buyer.ID || userPlan.PlanID != plan.ID {
		t.Errorf("user plan = %+v, want buyer/plan ids", userPlan)
	}
	if want := now.AddDate(0, 0, 30); !userPlan.ExpiresAt.Equal(want) {
		t.Errorf("ExpiresAt = %v, want %v", userPlan.ExpiresAt, want)
	}

	if wallet := walletOf(t, db, buyer.ID); wallet.Available != 50 {
		t.Errorf("buyer available = %v, want 50", wallet.Available)
	}
	if wallet := walletOf(t, db, s1.ID); wallet.Held != 10 || wallet.Available != 0 {
		t.Errorf("level 1 sponsor wallet = %+v, want held 10", wallet)
	}
	if wallet := walletOf(t, db, s2.ID); wallet.Held != 5 || wallet.Available != 0 {
		t.Errorf("level 2 sponsor wallet = %+v, want held 5", wallet)
	}

	var commissions []*models.Commission
	if err := db.Order("level asc").Find(&commissions).Error; err != nil {
		t.Fatalf("failed to load commissions: %v", err)
	}
	if len(commissions) != 2 {
		t.Fatalf("commission count = %d, want 2", len(commissions))
	}
	for i, want := range []struct {
		userID string
		level  int
		amount float64
	}{{s1.ID, 1, 10}, {s2.ID, 2, 5}} {
		got := commissions[i]
		if got.UserID != want.userID || got.Level != want.level || got.Amount != want.amount {
			t.Errorf("commission[%d] = %+v, want user %s level %d amount %v", i, got, want.userID, want.level, want.amount)
		}
		if got.Status != models.CommissionHeld {
			t.Errorf("commission[%d] status = %s, want HELD", i, got.Status)
		}
		if got.FromUserID != buyer.ID {
			t.Errorf("commission[%d] from = %s, want buyer", i, got.FromUserID)
		}

		var mirrored models.Transaction
		if err := db.First(&mirrored, "id = ?", got.TransactionID).Error; err != nil {
			t.Fatalf("mirrored transaction missing for commission[%d]: %v", i, err)
		}
		if mirrored.Status != models.TxHeld || mirrored.Amount != want.amount {
			t.Errorf("mirrored transaction = %+v, want HELD %v", mirrored, want.amount)
		}
	}

	var purchase models.Transaction
	if err := db.First(&purchase, "user_id = ? AND type = ?", buyer.ID, models.TxPlanPurchase).Error; err != nil {
		t.Fatalf("purchase transaction missing: %v", err)
	}
	if purchase.Amount != -100 || purchase.Status != models.TxApproved {
		t.Errorf("purchase transaction = %+v, want -100 APPROVED", purchase)
	}
}

func TestBuyPlanSkipsUndefinedLevelsAndKeepsWalking(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	s2 := seedUser(t, db, "grand", nil, models.UserActive, 0)
	s1 := seedUser(t, db, "parent", &s2.ID, models.UserActive, 0)
	buyer := seedUser(t, db, "kid", &s1.ID, models.UserActive, 100)

	// Level 1 undefined: the walk must continue to level 2 anyway.
	plan := seedPlan(t, db, 100, 30, models.CommissionStructure{2: 5})

	if _, err := svc.BuyPlan(ctx, buyer.ID, plan.ID); err != nil {
		t.Fatalf("BuyPlan failed: %v", err)
	}

	if wallet := walletOf(t, db, s1.ID); wallet.Held != 0 {
		t.Errorf("level 1 held = %v, want 0", wallet.Held)
	}
	if wallet := walletOf(t, db, s2.ID); wallet.Held != 5 {
		t.Errorf("level 2 held = %v, want 5", wallet.Held)
	}

	var count int64
	db.Model(&models.Commission{}).Count(&count)
	if count != 1 {
		t.Errorf("commission count = %d, want 1", count)
	}
}

func TestBuyPlanSkipsBlockedAncestors(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	s2 := seedUser(t, db, "upline2", nil, models.UserActive, 0)
	s1 := seedUser(t, db, "upline1", &s2.ID, models.UserBlocked, 0)
	buyer := seedUser(t, db, "member", &s1.ID, models.UserActive, 100)

	plan := seedPlan(t, db, 100, 30, models.CommissionStructure{1: 10, 2: 5})

	if _, err := svc.BuyPlan(ctx, buyer.ID, plan.ID); err != nil {
		t.Fatalf("BuyPlan failed: %v", err)
	}

	// The blocked level 1 sponsor earns nothing but the walk still
	// reaches level 2 at its own rate.
	if wallet := walletOf(t, db, s1.ID); wallet.Held != 0 {
		t.Errorf("blocked sponsor held = %v, want 0", wallet.Held)
	}
	if wallet := walletOf(t, db, s2.ID); wallet.Held != 5 {
		t.Errorf("level 2 held = %v, want 5", wallet.Held)
	}
}

func TestBuyPlanInsufficientFunds(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "broke", nil, models.UserActive, 99.99)
	plan := seedPlan(t, db, 100, 30, nil)

	_, err := svc.BuyPlan(ctx, buyer.ID, plan.ID)
	if !errors.Is(err, common.ErrInsufficientFunds) {
		t.Fatalf("BuyPlan error = %v, want ErrInsufficientFunds", err)
	}

	if wallet := walletOf(t, db, buyer.ID); wallet.Available != 99.99 {
		t.Errorf("available = %v, want unchanged", wallet.Available)
	}
	var count int64
	db.Model(&models.UserPlan{}).Count(&count)
	if count != 0 {
		t.Errorf("user plan count = %d, want 0", count)
	}
}

func TestBuyPlanInactivePlan(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	buyer := seedUser(t, db, "eager", nil, models.UserActive, 500)
	plan := seedPlan(t, db, 100, 30, nil)
	if err := db.Model(&models.Plan{}).Where("id = ?", plan.ID).Update("status", models.PlanInactive).Error; err != nil {
		t.Fatalf("failed to deactivate plan: %v", err)
	}

	if _, err := svc.BuyPlan(ctx, buyer.ID, plan.ID); !errors.Is(err, common.ErrPlanInactive) {
		t.Fatalf("BuyPlan error = %v, want ErrPlanInactive", err)
	}
	if _, err := svc.BuyPlan(ctx, buyer.ID, "no-such-plan"); !errors.Is(err, common.ErrPlanNotFound) {
		t.Fatalf("BuyPlan error = %v, want ErrPlanNotFound", err)
	}
}

func TestBuyPlanRollsBackWhenDistributionFails(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	s1 := seedUser(t, db, "gone", nil, models.UserActive, 0)
	buyer := seedUser(t, db, "victim", &s1.ID, models.UserActive, 200)
	plan := seedPlan(t, db, 100, 30, models.CommissionStructure{1: 10})

	// With the sponsor's wallet row gone, the held credit mid-distribution
	// fails and the whole purchase must roll back.
	if err := db.Delete(&models.Wallet{}, "user_id = ?", s1.ID).Error; err != nil {
		t.Fatalf("failed to remove sponsor wallet: %v", err)
	}

	if _, err := svc.BuyPlan(ctx, buyer.ID, plan.ID); err == nil {
		t.Fatal("BuyPlan succeeded, want distribution failure")
	}

	if wallet := walletOf(t, db, buyer.ID); wallet.Available != 200 {
		t.Errorf("buyer available = %v, want 200 after rollback", wallet.Available)
	}
	for name, model := range map[string]interface{}{
		"user plans":   &models.UserPlan{},
		"transactions": &models.Transaction{},
		"commissions":  &models.Commission{},
	} {
		var count int64
		db.Model(model).Count(&count)
		if count != 0 {
			t.Errorf("%s count = %d, want 0 after rollback", name, count)
		}
	}
}
