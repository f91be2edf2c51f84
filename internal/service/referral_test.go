package service

import (
	"context"
	"errors"
	"testing"

	"github.com/apexearn/apexearn/internal/common"
	"github.com/apexearn/apexearn/internal/models"
)

func TestAncestorsOf(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	root := seedUser(t, db, "root", nil, models.UserActive, 0)
	mid := seedUser(t, db, "mid", &root.ID, models.UserActive, 0)
	leafParent := seedUser(t, db, "leafparent", &mid.ID, models.UserBlocked, 0)
	leaf := seedUser(t, db, "leaf", &leafParent.ID, models.UserActive, 0)

	ancestors, err := svc.AncestorsOf(ctx, leaf.ID, 0)
	if err != nil {
		t.Fatalf("AncestorsOf failed: %v", err)
	}
	if len(ancestors) != 3 {
		t.Fatalf("ancestor count = %d, want 3", len(ancestors))
	}
	wantOrder := []string{leafParent.ID, mid.ID, root.ID}
	for i, ancestor := range ancestors {
		if ancestor.User.ID != wantOrder[i] {
			t.Errorf("ancestor[%d] = %s, want %s", i, ancestor.User.ID, wantOrder[i])
		}
		if ancestor.Level != i+1 {
			t.Errorf("ancestor[%d] level = %d, want %d", i, ancestor.Level, i+1)
		}
	}

	// Blocked ancestors are reported; eligibility is the caller's call.
	if ancestors[0].User.Status != models.UserBlocked {
		t.Errorf("ancestor[0] status = %s, want BLOCKED", ancestors[0].User.Status)
	}

	// maxLevels truncates the walk.
	capped, err := svc.AncestorsOf(ctx, leaf.ID, 2)
	if err != nil {
		t.Fatalf("AncestorsOf(2) failed: %v", err)
	}
	if len(capped) != 2 {
		t.Errorf("capped ancestor count = %d, want 2", len(capped))
	}

	if _, err := svc.AncestorsOf(ctx, "no-such-user", 0); !errors.Is(err, common.ErrUserNotFound) {
		t.Errorf("error = %v, want ErrUserNotFound", err)
	}
}

func TestAncestorsOfTerminatesOnCorruptChain(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	a := seedUser(t, db, "cyclea", nil, models.UserActive, 0)
	b := seedUser(t, db, "cycleb", &a.ID, models.UserActive, 0)

	// Force a sponsor cycle directly in the store. The depth ceiling must
	// still end the walk.
	if err := db.Model(&models.User{}).Where("id = ?", a.ID).Update("sponsor_id", b.ID).Error; err != nil {
		t.Fatalf("failed to corrupt chain: %v", err)
	}

	ancestors, err := svc.AncestorsOf(ctx, b.ID, 0)
	if err != nil {
		t.Fatalf("AncestorsOf failed: %v", err)
	}
	if len(ancestors) != models.MaxReferralDepth {
		t.Errorf("ancestor count = %d, want ceiling %d", len(ancestors), models.MaxReferralDepth)
	}
}

func TestGenealogy(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	root := seedUser(t, db, "treeroot", nil, models.UserActive, 0)
	childA := seedUser(t, db, "childa", &root.ID, models.UserActive, 0)
	childB := seedUser(t, db, "childb", &root.ID, models.UserActive, 0)
	grandchild := seedUser(t, db, "grandchild", &childA.ID, models.UserActive, 0)

	tree, err := svc.Genealogy(ctx, root.ID)
	if err != nil {
		t.Fatalf("Genealogy failed: %v", err)
	}
	if tree.User.ID != root.ID || tree.Level != 0 {
		t.Errorf("root node = %+v, want root at level 0", tree.User)
	}
	if len(tree.Children) != 2 {
		t.Fatalf("root children = %d, want 2", len(tree.Children))
	}

	byID := map[string]*models.GenealogyNode{}
	for _, child := range tree.Children {
		byID[child.User.ID] = child
		if child.Level != 1 {
			t.Errorf("child %s level = %d, want 1", child.User.Username, child.Level)
		}
	}
	nodeA, ok := byID[childA.ID]
	if !ok {
		t.Fatalf("child %s missing from tree", childA.Username)
	}
	if _, ok := byID[childB.ID]; !ok {
		t.Fatalf("child %s missing from tree", childB.Username)
	}

	if len(nodeA.Children) != 1 || nodeA.Children[0].User.ID != grandchild.ID {
		t.Errorf("grandchild subtree = %+v, want single node %s", nodeA.Children, grandchild.Username)
	}
	if nodeA.Children[0].Level != 2 {
		t.Errorf("grandchild level = %d, want 2", nodeA.Children[0].Level)
	}

	// A leaf gets an empty (not nil) children slice.
	leafTree, err := svc.Genealogy(ctx, grandchild.ID)
	if err != nil {
		t.Fatalf("leaf Genealogy failed: %v", err)
	}
	if leafTree.Children == nil || len(leafTree.Children) != 0 {
		t.Errorf("leaf children = %v, want empty slice", leafTree.Children)
	}
}
