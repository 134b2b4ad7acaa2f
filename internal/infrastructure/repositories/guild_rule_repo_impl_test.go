package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"nft-gate.backend/internal/domain/entities"
	domainerrors "nft-gate.backend/internal/domain/errors"
)

func TestGuildRuleRepository_CreateListDelete(t *testing.T) {
	db := newTestDB(t)
	createGuildRuleTable(t, db)
	repo := NewGuildRuleRepository(db)
	ctx := context.Background()

	base := time.Now().UTC()
	tier := &entities.GuildRule{
		CommunityID:   "guild-1",
		Kind:          entities.RuleKindQuantity,
		CollectionID:  "COLL",
		RoleID:        "role-holder",
		RequiredCount: 1,
		MaxCount:      null.IntFrom(2),
		CreatedAt:     base,
	}
	trait := &entities.GuildRule{
		CommunityID:  "guild-1",
		Kind:         entities.RuleKindTrait,
		CollectionID: "COLL",
		RoleID:       "role-gold",
		TraitType:    "Background",
		TraitValue:   "Gold",
		CreatedAt:    base.Add(time.Second),
	}
	other := &entities.GuildRule{
		CommunityID: "guild-2", Kind: entities.RuleKindQuantity, RoleID: "r", RequiredCount: 1,
	}
	require.NoError(t, repo.Create(ctx, tier))
	require.NoError(t, repo.Create(ctx, trait))
	require.NoError(t, repo.Create(ctx, other))

	rules, err := repo.ListByGuild(ctx, "guild-1")
	require.NoError(t, err)
	require.Len(t, rules, 2)
	assert.Equal(t, tier.ID, rules[0].ID)
	assert.Equal(t, int64(2), int64(rules[0].MaxCount.Int))
	assert.True(t, rules[0].MaxCount.Valid)
	assert.False(t, rules[1].MaxCount.Valid)
	assert.Equal(t, "Gold", rules[1].TraitValue)

	require.ErrorIs(t, repo.Delete(ctx, "guild-2", tier.ID), domainerrors.ErrNotFound)
	require.NoError(t, repo.Delete(ctx, "guild-1", tier.ID))
	require.ErrorIs(t, repo.Delete(ctx, "guild-1", uuid.New()), domainerrors.ErrNotFound)

	rules, err = repo.ListByGuild(ctx, "guild-1")
	require.NoError(t, err)
	require.Len(t, rules, 1)
}
