package service

import (
	"context"
	"fmt"

	"github.com/apexearn/apexearn/internal/common"
	"github.com/apexearn/apexearn/internal/models"
)

// AncestorsOf walks the sponsor chain upward from a user, yielding the
// immediate sponsor at level 1. The walk stops at the root, at maxLevels,
// or at the hard depth ceiling. Blocked ancestors are included; callers
// decide eligibility. The ceiling guarantees termination even if a cycle
// were ever present in the data.
func (s *Service) AncestorsOf(ctx context.Context, userID string, maxLevels int) ([]models.Ancestor, error) {
	if maxLevels <= 0 || maxLevels > models.MaxReferralDepth {
		maxLevels = models.MaxReferralDepth
	}

	user, err := s.repo.GetUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}

	var ancestors []models.Ancestor
	currentSponsorID := user.SponsorID
	for level := 1; level <= maxLevels && currentSponsorID != nil; level++ {
		sponsor, err := s.repo.GetUser(ctx, *currentSponsorID, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve sponsor at level %d: %w", level, err)
		}
		if sponsor == nil {
			break
		}
		ancestors = append(ancestors, models.Ancestor{User: sponsor, Level: level})
		currentSponsorID = sponsor.SponsorID
	}

	return ancestors, nil
}

// Genealogy builds the downward referral tree rooted at the given user.
// Depth is bounded by the same ceiling as the upward walk.
func (s *Service) Genealogy(ctx context.Context, userID string) (*models.GenealogyNode, error) {
	user, err := s.repo.GetUser(ctx, userID, nil)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.ErrUserNotFound
	}
	return s.buildTree(ctx, user, 0)
}

func (s *Service) buildTree(ctx context.Context, user *models.User, level int) (*models.GenealogyNode, error) {
	node := &models.GenealogyNode{
		User: models.GenealogyUser{
			ID:        user.ID,
			Username:  user.Username,
			FullName:  user.FullName,
			CreatedAt: user.CreatedAt,
		},
		Level:    level,
		Children: []*models.GenealogyNode{},
	}

	if level >= models.MaxReferralDepth {
		return node, nil
	}

	children, err := s.repo.GetChildren(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		childNode, err := s.buildTree(ctx, child, level+1)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, childNode)
	}

	return node, nil
}
