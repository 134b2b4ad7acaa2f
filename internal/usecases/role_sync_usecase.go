package usecases

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"nft-gate.backend/internal/domain/entities"
	domainerrors "nft-gate.backend/internal/domain/errors"
	"nft-gate.backend/pkg/logger"
	"nft-gate.backend/pkg/metrics"
)

// RolePlatform is the external membership system holding guild roles
type RolePlatform interface {
	MemberRoles(ctx context.Context, communityID, memberID string) ([]string, error)
	AddRole(ctx context.Context, communityID, memberID, roleID string) error
	RemoveRole(ctx context.Context, communityID, memberID, roleID string) error
}

// RoleSyncUsecase applies the minimal role changes that make a member match
// the desired grants and revokes.
type RoleSyncUsecase struct {
	platform RolePlatform
}

// NewRoleSyncUsecase creates a new role sync usecase
func NewRoleSyncUsecase(platform RolePlatform) *RoleSyncUsecase {
	return &RoleSyncUsecase{platform: platform}
}

// Apply adds missing grants and removes held revokes. Re-applying the same
// sets is a no-op. A single failing role is recorded and skipped; only a
// failure to read the member aborts.
func (u *RoleSyncUsecase) Apply(ctx context.Context, communityID, memberID string, grants, revokes []string) (*entities.RoleSyncReport, error) {
	current, err := u.platform.MemberRoles(ctx, communityID, memberID)
	if err != nil {
		return nil, fmt.Errorf("%w: read member roles: %w", domainerrors.ErrRoleSyncFailure, err)
	}

	held := make(map[string]bool, len(current))
	for _, r := range current {
		held[r] = true
	}

	report := &entities.RoleSyncReport{
		Added:   []string{},
		Removed: []string{},
	}
	fail := func(op, roleID string, err error) {
		if report.Failures == nil {
			report.Failures = make(map[string]string)
		}
		report.Failures[roleID] = err.Error()
		metrics.RoleOperations.WithLabelValues(op, "error").Inc()
		logger.Warn(ctx, "Role sync operation failed",
			zap.String("op", op),
			zap.String("community_id", communityID),
			zap.String("member_id", memberID),
			zap.String("role_id", roleID),
			zap.Error(fmt.Errorf("%w: %w", domainerrors.ErrRoleSyncFailure, err)),
		)
	}

	for _, roleID := range grants {
		if held[roleID] {
			continue
		}
		if err := u.platform.AddRole(ctx, communityID, memberID, roleID); err != nil {
			fail("add", roleID, err)
			continue
		}
		held[roleID] = true
		report.Added = append(report.Added, roleID)
		metrics.RoleOperations.WithLabelValues("add", "ok").Inc()
	}

	for _, roleID := range revokes {
		if !held[roleID] {
			continue
		}
		if err := u.platform.RemoveRole(ctx, communityID, memberID, roleID); err != nil {
			fail("remove", roleID, err)
			continue
		}
		delete(held, roleID)
		report.Removed = append(report.Removed, roleID)
		metrics.RoleOperations.WithLabelValues("remove", "ok").Inc()
	}

	return report, nil
}
