package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"nft-gate.backend/internal/domain/entities"
	domainerrors "nft-gate.backend/internal/domain/errors"
	"nft-gate.backend/internal/domain/repositories"
	"nft-gate.backend/pkg/logger"
	"nft-gate.backend/pkg/utils"
)

// GuildAdminUsecase manages guild rules and exposes stored holder state to operators
type GuildAdminUsecase struct {
	ruleRepo  repositories.GuildRuleRepository
	stateRepo repositories.UserVerificationRepository
	now       func() time.Time
}

// NewGuildAdminUsecase creates a new guild admin usecase
func NewGuildAdminUsecase(ruleRepo repositories.GuildRuleRepository, stateRepo repositories.UserVerificationRepository) *GuildAdminUsecase {
	return &GuildAdminUsecase{ruleRepo: ruleRepo, stateRepo: stateRepo, now: time.Now}
}

// ListRules returns a guild's rules in evaluation order
func (u *GuildAdminUsecase) ListRules(ctx context.Context, communityID string) ([]*entities.GuildRule, error) {
	if strings.TrimSpace(communityID) == "" {
		return nil, domainerrors.ErrBadRequest
	}
	return u.ruleRepo.ListByGuild(ctx, communityID)
}

// CreateRule validates and stores a new rule
func (u *GuildAdminUsecase) CreateRule(ctx context.Context, communityID string, input *entities.CreateGuildRuleInput) (*entities.GuildRule, error) {
	communityID = strings.TrimSpace(communityID)
	if communityID == "" {
		return nil, domainerrors.ErrBadRequest
	}
	if err := validateRuleInput(input); err != nil {
		return nil, err
	}

	now := u.now().UTC()
	rule := &entities.GuildRule{
		ID:            utils.GenerateUUIDv7(),
		CommunityID:   communityID,
		Kind:          input.Kind,
		CollectionID:  strings.TrimSpace(input.CollectionID),
		RoleID:        strings.TrimSpace(input.RoleID),
		RequiredCount: input.RequiredCount,
		MaxCount:      null.IntFromPtr(input.MaxCount),
		TraitType:     strings.TrimSpace(input.TraitType),
		TraitValue:    input.TraitValue,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if rule.Kind == entities.RuleKindTrait {
		rule.RequiredCount = 0
		rule.MaxCount = null.Int{}
	}

	if err := u.ruleRepo.Create(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create guild rule: %w", err)
	}
	logger.Info(ctx, "Guild rule created",
		zap.String("community_id", communityID),
		zap.String("rule_id", rule.ID.String()),
		zap.String("kind", string(rule.Kind)),
		zap.String("role_id", rule.RoleID),
	)
	return rule, nil
}

// DeleteRule removes a rule. Roles it granted stay until the next evaluation
// no longer references them; they are then left alone.
func (u *GuildAdminUsecase) DeleteRule(ctx context.Context, communityID string, id uuid.UUID) error {
	if err := u.ruleRepo.Delete(ctx, communityID, id); err != nil {
		return err
	}
	logger.Info(ctx, "Guild rule deleted",
		zap.String("community_id", communityID),
		zap.String("rule_id", id.String()),
	)
	return nil
}

// ListHolders pages through the stored verification state of a guild
func (u *GuildAdminUsecase) ListHolders(ctx context.Context, communityID string, p utils.PaginationParams) ([]*entities.UserVerificationState, utils.PaginationMeta, error) {
	p = utils.GetPaginationParams(p.Page, p.Limit)
	states, total, err := u.stateRepo.ListByCommunity(ctx, communityID, p.Limit, p.CalculateOffset())
	if err != nil {
		return nil, utils.PaginationMeta{}, err
	}
	if states == nil {
		states = []*entities.UserVerificationState{}
	}
	return states, utils.CalculateMeta(total, p.Page, p.Limit), nil
}

func validateRuleInput(in *entities.CreateGuildRuleInput) error {
	if strings.TrimSpace(in.RoleID) == "" {
		return fmt.Errorf("%w: roleId is required", domainerrors.ErrInvalidInput)
	}
	switch in.Kind {
	case entities.RuleKindQuantity:
		if in.RequiredCount < 1 {
			return fmt.Errorf("%w: requiredCount must be at least 1", domainerrors.ErrInvalidInput)
		}
		if in.MaxCount != nil && *in.MaxCount < in.RequiredCount {
			return fmt.Errorf("%w: maxCount must not be below requiredCount", domainerrors.ErrInvalidInput)
		}
	case entities.RuleKindTrait:
		if strings.TrimSpace(in.TraitType) == "" || in.TraitValue == "" {
			return fmt.Errorf("%w: traitType and traitValue are required", domainerrors.ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown rule kind %q", domainerrors.ErrInvalidInput, in.Kind)
	}
	return nil
}
