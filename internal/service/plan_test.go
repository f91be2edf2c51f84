package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/apexearn/apexearn/internal/common"
	"github.com/apexearn/apexearn/internal/models"
)

func TestCreateAndUpdatePlan(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	plan, err := svc.CreatePlan(ctx, PlanInput{
		Title:               "Gold",
		Price:               250,
		Duration:            90,
		CommissionStructure: models.CommissionStructure{1: 10, 3: 2.5},
	})
	if err != nil {
		t.Fatalf("CreatePlan failed: %v", err)
	}
	if plan.Status != models.PlanActive {
		t.Errorf("default status = %s, want ACTIVE", plan.Status)
	}

	updated, err := svc.UpdatePlan(ctx, plan.ID, PlanInput{
		Title:    "Gold v2",
		Price:    300,
		Duration: 90,
		Status:   models.PlanInactive,
	})
	if err != nil {
		t.Fatalf("UpdatePlan failed: %v", err)
	}
	if updated.Title != "Gold v2" || updated.Price != 300 || updated.Status != models.PlanInactive {
		t.Errorf("updated plan = %+v", updated)
	}

	active, err := svc.GetPlans(ctx, true)
	if err != nil {
		t.Fatalf("GetPlans failed: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("active plan count = %d, want 0 after deactivation", len(active))
	}
	all, err := svc.GetPlans(ctx, false)
	if err != nil {
		t.Fatalf("GetPlans(all) failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("total plan count = %d, want 1", len(all))
	}

	if _, err := svc.UpdatePlan(ctx, "no-such-plan", PlanInput{Title: "x", Price: 1, Duration: 1}); !errors.Is(err, common.ErrPlanNotFound) {
		t.Errorf("error = %v, want ErrPlanNotFound", err)
	}
}

func TestPlanValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input PlanInput
	}{
		{"missing title", PlanInput{Price: 10, Duration: 30}},
		{"zero price", PlanInput{Title: "x", Duration: 30}},
		{"negative duration", PlanInput{Title: "x", Price: 10, Duration: -1}},
		{"level zero", PlanInput{Title: "x", Price: 10, Duration: 30, CommissionStructure: models.CommissionStructure{0: 5}}},
		{"level beyond ceiling", PlanInput{Title: "x", Price: 10, Duration: 30, CommissionStructure: models.CommissionStructure{models.MaxReferralDepth + 1: 5}}},
		{"percent above 100", PlanInput{Title: "x", Price: 10, Duration: 30, CommissionStructure: models.CommissionStructure{1: 101}}},
		{"negative percent", PlanInput{Title: "x", Price: 10, Duration: 30, CommissionStructure: models.CommissionStructure{1: -1}}},
	}
	for _, tc := range cases {
		if _, err := svc.CreatePlan(ctx, tc.input); err == nil {
			t.Errorf("%s: CreatePlan succeeded, want validation error", tc.name)
		}
	}
}

func TestUpdatePlanLeavesPastPurchasesAlone(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	sponsor := seedUser(t, db, "keeper", nil, models.UserActive, 0)
	buyer := seedUser(t, db, "early", &sponsor.ID, models.UserActive, 100)
	plan := seedPlan(t, db, 100, 30, models.CommissionStructure{1: 10})

	if _, err := svc.BuyPlan(ctx, buyer.ID, plan.ID); err != nil {
		t.Fatalf("BuyPlan failed: %v", err)
	}

	if _, err := svc.UpdatePlan(ctx, plan.ID, PlanInput{
		Title:               plan.Title,
		Price:               500,
		Duration:            30,
		CommissionStructure: models.CommissionStructure{1: 50},
	}); err != nil {
		t.Fatalf("UpdatePlan failed: %v", err)
	}

	// The materialized commission keeps the rate in force at purchase time.
	var commission models.Commission
	if err := db.First(&commission, "user_id = ?", sponsor.ID).Error; err != nil {
		t.Fatalf("commission missing: %v", err)
	}
	if commission.Amount != 10 {
		t.Errorf("commission amount = %v, want 10", commission.Amount)
	}
}

func TestCountExpiredSince(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	svc.WithClock(func() time.Time { return now })

	user := seedUser(t, db, "lapsed", nil, models.UserActive, 0)
	plans := []models.UserPlan{
		{ID: "up-1", UserID: user.ID, PlanID: "p", PurchasedAt: now.AddDate(0, -2, 0), ExpiresAt: now.Add(-6 * time.Hour)},
		{ID: "up-2", UserID: user.ID, PlanID: "p", PurchasedAt: now.AddDate(0, -2, 0), ExpiresAt: now.Add(-48 * time.Hour)},
		{ID: "up-3", UserID: user.ID, PlanID: "p", PurchasedAt: now, ExpiresAt: now.Add(24 * time.Hour)},
	}
	for i := range plans {
		if err := db.Create(&plans[i]).Error; err != nil {
			t.Fatalf("failed to seed user plan: %v", err)
		}
	}

	count, err := svc.CountExpiredSince(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("CountExpiredSince failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expired count = %d, want 1 (only the last-24h expiry)", count)
	}
}

func TestCountPendingRequests(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	user := seedUser(t, db, "busy", nil, models.UserActive, 100)
	if _, err := svc.RequestDeposit(ctx, user.ID, 10, "bank", ""); err != nil {
		t.Fatalf("RequestDeposit failed: %v", err)
	}
	if _, err := svc.RequestDeposit(ctx, user.ID, 20, "bank", ""); err != nil {
		t.Fatalf("RequestDeposit failed: %v", err)
	}
	if _, err := svc.RequestWithdrawal(ctx, user.ID, 30, "bank", nil); err != nil {
		t.Fatalf("RequestWithdrawal failed: %v", err)
	}

	deposits, withdrawals, err := svc.CountPendingRequests(ctx)
	if err != nil {
		t.Fatalf("CountPendingRequests failed: %v", err)
	}
	if deposits != 2 || withdrawals != 1 {
		t.Errorf("pending counts = %d/%d, want 2/1", deposits, withdrawals)
	}
}
