package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"nft-gate.backend/internal/domain/entities"
	domainerrors "nft-gate.backend/internal/domain/errors"
	"nft-gate.backend/internal/infrastructure/models"
	"nft-gate.backend/pkg/utils"
)

// GuildRuleRepository implements guild rule data operations
type GuildRuleRepository struct {
	db *gorm.DB
}

// NewGuildRuleRepository creates a new guild rule repository
func NewGuildRuleRepository(db *gorm.DB) *GuildRuleRepository {
	return &GuildRuleRepository{db: db}
}

// ListByGuild lists rules of a guild in configuration order
func (r *GuildRuleRepository) ListByGuild(ctx context.Context, communityID string) ([]*entities.GuildRule, error) {
	var ms []models.GuildRule
	if err := GetDB(ctx, r.db).
		Where("community_id = ?", communityID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}

	rules := make([]*entities.GuildRule, 0, len(ms))
	for i := range ms {
		rules = append(rules, r.toEntity(&ms[i]))
	}
	return rules, nil
}

// Create creates a rule
func (r *GuildRuleRepository) Create(ctx context.Context, rule *entities.GuildRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = utils.GenerateUUIDv7()
	}
	now := time.Now().UTC()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now

	m := &models.GuildRule{
		ID:            rule.ID,
		CommunityID:   rule.CommunityID,
		Kind:          string(rule.Kind),
		CollectionID:  rule.CollectionID,
		RoleID:        rule.RoleID,
		RequiredCount: rule.RequiredCount,
		MaxCount:      rule.MaxCount.Ptr(),
		TraitType:     rule.TraitType,
		TraitValue:    rule.TraitValue,
		CreatedAt:     rule.CreatedAt.UTC(),
		UpdatedAt:     now,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// Delete deletes a rule of a guild
func (r *GuildRuleRepository) Delete(ctx context.Context, communityID string, id uuid.UUID) error {
	result := GetDB(ctx, r.db).
		Where("id = ? AND community_id = ?", id, communityID).
		Delete(&models.GuildRule{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *GuildRuleRepository) toEntity(m *models.GuildRule) *entities.GuildRule {
	return &entities.GuildRule{
		ID:            m.ID,
		CommunityID:   m.CommunityID,
		Kind:          entities.RuleKind(m.Kind),
		CollectionID:  m.CollectionID,
		RoleID:        m.RoleID,
		RequiredCount: m.RequiredCount,
		MaxCount:      null.IntFromPtr(m.MaxCount),
		TraitType:     m.TraitType,
		TraitValue:    m.TraitValue,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
