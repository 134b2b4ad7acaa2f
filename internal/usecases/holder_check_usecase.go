package usecases

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"nft-gate.backend/internal/domain/entities"
	domainerrors "nft-gate.backend/internal/domain/errors"
	"nft-gate.backend/internal/domain/repositories"
	"nft-gate.backend/pkg/logger"
)

// AssetDiscoverer finds the reconciled holdings of a wallet
type AssetDiscoverer interface {
	Discover(ctx context.Context, wallet, collectionScope string) (*entities.DiscoveryResult, error)
}

// RoleSynchronizer applies desired role changes to a member
type RoleSynchronizer interface {
	Apply(ctx context.Context, communityID, memberID string, grants, revokes []string) (*entities.RoleSyncReport, error)
}

// Assessment is the outcome of discovery and rule evaluation for one wallet
type Assessment struct {
	Discovery  *entities.DiscoveryResult
	Evaluation entities.RoleEvaluation
	AssetCount int
	IsVerified bool
}

// HolderCheckUsecase runs Discovery, Evaluation, state upsert and role sync
// for one member. Both the interactive path and the scheduler go through it.
type HolderCheckUsecase struct {
	discovery AssetDiscoverer
	ruleRepo  repositories.GuildRuleRepository
	stateRepo repositories.UserVerificationRepository
	engine    *RuleEngine
	roles     RoleSynchronizer
	now       func() time.Time
}

// NewHolderCheckUsecase creates a new holder check usecase
func NewHolderCheckUsecase(
	discovery AssetDiscoverer,
	ruleRepo repositories.GuildRuleRepository,
	stateRepo repositories.UserVerificationRepository,
	engine *RuleEngine,
	roles RoleSynchronizer,
) *HolderCheckUsecase {
	return &HolderCheckUsecase{
		discovery: discovery,
		ruleRepo:  ruleRepo,
		stateRepo: stateRepo,
		engine:    engine,
		roles:     roles,
		now:       time.Now,
	}
}

// Assess loads the guild's rules, discovers the wallet's holdings and
// evaluates them. It fails with ErrSourceUnavailable when no source answered.
func (u *HolderCheckUsecase) Assess(ctx context.Context, communityID, wallet string) (*Assessment, error) {
	rules, err := u.ruleRepo.ListByGuild(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("failed to load guild rules: %w", err)
	}

	disc, err := u.discovery.Discover(ctx, wallet, commonCollection(rules))
	if err != nil {
		return nil, err
	}
	if disc.AllSourcesFailed() {
		return nil, domainerrors.ErrSourceUnavailable
	}

	ev := u.engine.Evaluate(disc.Assets, rules)
	return &Assessment{
		Discovery:  disc,
		Evaluation: ev,
		AssetCount: len(disc.Assets),
		IsVerified: AnyRuleMet(ev),
	}, nil
}

// Record upserts the member's verification state from an assessment
func (u *HolderCheckUsecase) Record(ctx context.Context, communityID, identityID, wallet string, a *Assessment, checkedAt time.Time) (*entities.UserVerificationState, error) {
	state := &entities.UserVerificationState{
		IdentityID:    identityID,
		CommunityID:   communityID,
		WalletAddress: wallet,
		IsVerified:    a.IsVerified,
		AssetCount:    a.AssetCount,
		LastCheckedAt: nullTime(checkedAt),
	}
	if err := u.stateRepo.Upsert(ctx, state); err != nil {
		return nil, fmt.Errorf("failed to save verification state: %w", err)
	}
	return state, nil
}

// Sync applies the assessment's roles. Failures are logged, never returned.
func (u *HolderCheckUsecase) Sync(ctx context.Context, communityID, identityID string, a *Assessment) *entities.RoleSyncReport {
	report, err := u.roles.Apply(ctx, communityID, identityID, a.Evaluation.Grants, a.Evaluation.Revokes)
	if err != nil {
		logger.Warn(ctx, "Role synchronization skipped",
			zap.String("community_id", communityID),
			zap.String("identity_id", identityID),
			zap.Error(err),
		)
		return nil
	}
	return report
}

// Recheck re-verifies a stored member end to end
func (u *HolderCheckUsecase) Recheck(ctx context.Context, state *entities.UserVerificationState) (*Assessment, error) {
	ctx = logger.WithMember(ctx, state.CommunityID, state.IdentityID)

	a, err := u.Assess(ctx, state.CommunityID, state.WalletAddress)
	if err != nil {
		return nil, err
	}
	if _, err := u.Record(ctx, state.CommunityID, state.IdentityID, state.WalletAddress, a, u.now().UTC()); err != nil {
		return nil, err
	}
	u.Sync(ctx, state.CommunityID, state.IdentityID, a)
	return a, nil
}
