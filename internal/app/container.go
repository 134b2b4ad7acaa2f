// Package app wires repositories, sources and usecases from configuration.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"nft-gate.backend/internal/config"
	"nft-gate.backend/internal/domain/entities"
	"nft-gate.backend/internal/infrastructure/discord"
	"nft-gate.backend/internal/infrastructure/jobs"
	"nft-gate.backend/internal/infrastructure/repositories"
	"nft-gate.backend/internal/infrastructure/sources"
	"nft-gate.backend/internal/usecases"
	"nft-gate.backend/pkg/crypto"
	"nft-gate.backend/pkg/logger"
	"nft-gate.backend/pkg/walletsig"
)

const sourceCachePrefix = "nftgate:source:"

var newRolePlatform = func(botToken string) (usecases.RolePlatform, error) {
	if botToken == "" {
		return discord.LoggingPlatform{}, nil
	}
	return discord.NewRolePlatform(botToken)
}

// Container holds the long-lived components of one process
type Container struct {
	Sessions *repositories.VerificationSessionRepository
	States   *repositories.UserVerificationRepository
	Rules    *repositories.GuildRuleRepository

	Holders      *usecases.HolderCheckUsecase
	Verification *usecases.VerificationUsecase
	GuildAdmin   *usecases.GuildAdminUsecase
	Scheduler    *jobs.ReverificationJob
}

// NewContainer builds every component on top of db. Redis-backed pieces are
// used only when Redis is configured and initialized.
func NewContainer(cfg *config.Config, db *gorm.DB) (*Container, error) {
	ctx := context.Background()

	sessionRepo := repositories.NewVerificationSessionRepository(db)
	stateRepo := repositories.NewUserVerificationRepository(db)
	ruleRepo := repositories.NewGuildRuleRepository(db)
	uow := repositories.NewUnitOfWork(db)

	var cache sources.ResponseCache = sources.NewMemoryCache()
	if cfg.Redis.Enabled() {
		cache = sources.NewRedisCache(sourceCachePrefix)
	}
	srcs, err := sources.NewFromConfig(cfg.Sources, cfg.RateLimit, cache)
	if err != nil {
		return nil, fmt.Errorf("failed to configure asset sources: %w", err)
	}
	ids := make([]string, len(srcs))
	for i, s := range srcs {
		ids[i] = string(s.ID())
	}
	logger.Info(ctx, "Asset sources configured", zap.Strings("sources", ids))

	platform, err := newRolePlatform(cfg.Discord.BotToken)
	if err != nil {
		return nil, err
	}
	if cfg.Discord.BotToken == "" {
		logger.Warn(ctx, "DISCORD_BOT_TOKEN not set, role changes are only logged")
	}

	verifier, err := walletsig.New(cfg.Chain.Type)
	if err != nil {
		return nil, err
	}
	hasher, err := crypto.NewTokenHasher(cfg.Security.TokenHashKey)
	if err != nil {
		return nil, fmt.Errorf("invalid token hash key: %w", err)
	}

	discovery := usecases.NewDiscoveryUsecase(srcs, cfg.Sources.MaxPages)
	roleSync := usecases.NewRoleSyncUsecase(platform)
	holders := usecases.NewHolderCheckUsecase(discovery, ruleRepo, stateRepo, usecases.NewRuleEngine(), roleSync)

	verification := usecases.NewVerificationUsecase(sessionRepo, uow, holders, verifier, hasher, usecases.VerificationConfig{
		CommunityName: cfg.Verification.CommunityName,
		Chain: entities.Chain{
			Type:    entities.ParseChainType(cfg.Chain.Type),
			ChainID: cfg.Chain.ChainID,
		},
		SessionTTL: cfg.Verification.SessionTTL,
	})

	scheduler := jobs.NewReverificationJob(stateRepo, sessionRepo, holders, cfg.Scheduler)
	if cfg.Redis.Enabled() {
		scheduler.SetLock(jobs.RedisLock)
	}

	return &Container{
		Sessions:     sessionRepo,
		States:       stateRepo,
		Rules:        ruleRepo,
		Holders:      holders,
		Verification: verification,
		GuildAdmin:   usecases.NewGuildAdminUsecase(ruleRepo, stateRepo),
		Scheduler:    scheduler,
	}, nil
}
