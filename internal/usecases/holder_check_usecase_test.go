package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"nft-gate.backend/internal/domain/entities"
	domainerrors "nft-gate.backend/internal/domain/errors"
	"nft-gate.backend/internal/usecases"
)

type holderDeps struct {
	discovery *MockAssetDiscoverer
	rules     *MockGuildRuleRepository
	states    *MockUserVerificationRepository
	roles     *MockRoleSynchronizer
}

func newHolderCheck() (*usecases.HolderCheckUsecase, holderDeps) {
	d := holderDeps{
		discovery: new(MockAssetDiscoverer),
		rules:     new(MockGuildRuleRepository),
		states:    new(MockUserVerificationRepository),
		roles:     new(MockRoleSynchronizer),
	}
	uc := usecases.NewHolderCheckUsecase(d.discovery, d.rules, d.states, usecases.NewRuleEngine(), d.roles)
	return uc, d
}

func discovered(n int, collection string) *entities.DiscoveryResult {
	return &entities.DiscoveryResult{
		Assets:    reconciled(n, collection),
		PerSource: map[entities.SourceID]entities.SourceReport{"das": {Count: n}},
	}
}

func TestHolderCheckUsecase_Assess(t *testing.T) {
	uc, d := newHolderCheck()
	ctx := context.Background()
	rules := []*entities.GuildRule{tier("apes", "holder", 1), tier("apes", "whale", 5)}

	d.rules.On("ListByGuild", ctx, "g1").Return(rules, nil).Once()
	d.discovery.On("Discover", ctx, "wallet", "apes").Return(discovered(2, "apes"), nil).Once()

	a, err := uc.Assess(ctx, "g1", "wallet")
	require.NoError(t, err)
	assert.True(t, a.IsVerified)
	assert.Equal(t, 2, a.AssetCount)
	assert.Equal(t, []string{"holder"}, a.Evaluation.Grants)
	assert.Equal(t, []string{"whale"}, a.Evaluation.Revokes)
}

func TestHolderCheckUsecase_Assess_MixedCollectionsNotScoped(t *testing.T) {
	uc, d := newHolderCheck()
	ctx := context.Background()
	rules := []*entities.GuildRule{tier("apes", "holder", 1), tier("punks", "punk", 1)}

	d.rules.On("ListByGuild", ctx, "g1").Return(rules, nil).Once()
	d.discovery.On("Discover", ctx, "wallet", "").Return(discovered(0, "apes"), nil).Once()

	a, err := uc.Assess(ctx, "g1", "wallet")
	require.NoError(t, err)
	assert.False(t, a.IsVerified)
	d.discovery.AssertExpectations(t)
}

func TestHolderCheckUsecase_Assess_AllSourcesFailed(t *testing.T) {
	uc, d := newHolderCheck()
	ctx := context.Background()

	d.rules.On("ListByGuild", ctx, "g1").Return([]*entities.GuildRule{}, nil).Once()
	d.discovery.On("Discover", ctx, "wallet", "").Return(&entities.DiscoveryResult{
		PerSource: map[entities.SourceID]entities.SourceReport{
			"das":       {Error: "down"},
			"magiceden": {Error: "down"},
		},
	}, nil).Once()

	_, err := uc.Assess(ctx, "g1", "wallet")
	assert.ErrorIs(t, err, domainerrors.ErrSourceUnavailable)
}

func TestHolderCheckUsecase_Assess_RuleLoadFails(t *testing.T) {
	uc, d := newHolderCheck()
	ctx := context.Background()

	d.rules.On("ListByGuild", ctx, "g1").Return(nil, errors.New("db")).Once()

	_, err := uc.Assess(ctx, "g1", "wallet")
	assert.Error(t, err)
	d.discovery.AssertNotCalled(t, "Discover", mock.Anything, mock.Anything, mock.Anything)
}

func TestHolderCheckUsecase_Recheck(t *testing.T) {
	uc, d := newHolderCheck()
	state := &entities.UserVerificationState{
		IdentityID:    "m1",
		CommunityID:   "g1",
		WalletAddress: "wallet",
		IsVerified:    true,
		AssetCount:    3,
	}

	d.rules.On("ListByGuild", mock.Anything, "g1").Return([]*entities.GuildRule{tier("apes", "holder", 1)}, nil).Once()
	d.discovery.On("Discover", mock.Anything, "wallet", "apes").Return(discovered(0, "apes"), nil).Once()
	d.states.On("Upsert", mock.Anything, mock.MatchedBy(func(s *entities.UserVerificationState) bool {
		return s.IdentityID == "m1" && !s.IsVerified && s.AssetCount == 0 && s.LastCheckedAt.Valid
	})).Return(nil).Once()
	d.roles.On("Apply", mock.Anything, "g1", "m1", []string{}, []string{"holder"}).
		Return(&entities.RoleSyncReport{Removed: []string{"holder"}}, nil).Once()

	a, err := uc.Recheck(context.Background(), state)
	require.NoError(t, err)
	assert.False(t, a.IsVerified)
	d.states.AssertExpectations(t)
	d.roles.AssertExpectations(t)
}

func TestHolderCheckUsecase_SyncFailureIsSwallowed(t *testing.T) {
	uc, d := newHolderCheck()
	a := &usecases.Assessment{Evaluation: entities.RoleEvaluation{Grants: []string{"x"}, Revokes: []string{}}}

	d.roles.On("Apply", mock.Anything, "g1", "m1", []string{"x"}, []string{}).Return(nil, domainerrors.ErrRoleSyncFailure).Once()

	assert.Nil(t, uc.Sync(context.Background(), "g1", "m1", a))
}

func TestHolderCheckUsecase_Record(t *testing.T) {
	uc, d := newHolderCheck()
	checked := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := &usecases.Assessment{AssetCount: 7, IsVerified: true}

	d.states.On("Upsert", mock.Anything, mock.Anything).Return(nil).Once()

	state, err := uc.Record(context.Background(), "g1", "m1", "wallet", a, checked)
	require.NoError(t, err)
	assert.Equal(t, 7, state.AssetCount)
	assert.True(t, state.LastCheckedAt.Time.Equal(checked))
}
