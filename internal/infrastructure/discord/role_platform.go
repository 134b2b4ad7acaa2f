// Package discord adapts a Discord bot session to guild role management.
package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	domainerrors "nft-gate.backend/internal/domain/errors"
	"nft-gate.backend/pkg/logger"
)

// memberAPI is the part of *discordgo.Session used here
type memberAPI interface {
	GuildMember(guildID, userID string, options ...discordgo.RequestOption) (*discordgo.Member, error)
	GuildMemberRoleAdd(guildID, userID, roleID string, options ...discordgo.RequestOption) error
	GuildMemberRoleRemove(guildID, userID, roleID string, options ...discordgo.RequestOption) error
}

var newSession = discordgo.New

// RolePlatform manages member roles through the Discord REST API
type RolePlatform struct {
	api memberAPI
}

// NewRolePlatform creates a platform authenticated with a bot token
func NewRolePlatform(botToken string) (*RolePlatform, error) {
	session, err := newSession("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &RolePlatform{api: session}, nil
}

// MemberRoles returns the role ids the member currently holds
func (p *RolePlatform) MemberRoles(ctx context.Context, guildID, memberID string) ([]string, error) {
	member, err := p.api.GuildMember(guildID, memberID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, translate(err)
	}
	return member.Roles, nil
}

// AddRole grants roleID to the member
func (p *RolePlatform) AddRole(ctx context.Context, guildID, memberID, roleID string) error {
	return translate(p.api.GuildMemberRoleAdd(guildID, memberID, roleID, discordgo.WithContext(ctx)))
}

// RemoveRole revokes roleID from the member
func (p *RolePlatform) RemoveRole(ctx context.Context, guildID, memberID, roleID string) error {
	return translate(p.api.GuildMemberRoleRemove(guildID, memberID, roleID, discordgo.WithContext(ctx)))
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil {
		switch restErr.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%w: %v", domainerrors.ErrNotFound, err)
		case http.StatusForbidden:
			return fmt.Errorf("%w: %v", domainerrors.ErrForbidden, err)
		}
	}
	return err
}

// LoggingPlatform only logs role changes. It is used when no bot token is
// configured and reports every member as holding no roles.
type LoggingPlatform struct{}

func (LoggingPlatform) MemberRoles(ctx context.Context, guildID, memberID string) ([]string, error) {
	return nil, nil
}

func (LoggingPlatform) AddRole(ctx context.Context, guildID, memberID, roleID string) error {
	logger.Info(ctx, "Role grant (dry run)",
		zap.String("guild_id", guildID), zap.String("member_id", memberID), zap.String("role_id", roleID))
	return nil
}

func (LoggingPlatform) RemoveRole(ctx context.Context, guildID, memberID, roleID string) error {
	logger.Info(ctx, "Role revoke (dry run)",
		zap.String("guild_id", guildID), zap.String("member_id", memberID), zap.String("role_id", roleID))
	return nil
}
