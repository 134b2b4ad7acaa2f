package repositories

import (
	"context"

	"github.com/google/uuid"
	"nft-gate.backend/internal/domain/entities"
)

// GuildRuleRepository defines guild rule configuration operations
type GuildRuleRepository interface {
	ListByGuild(ctx context.Context, communityID string) ([]*entities.GuildRule, error)
	Create(ctx context.Context, rule *entities.GuildRule) error
	Delete(ctx context.Context, communityID string, id uuid.UUID) error
}
