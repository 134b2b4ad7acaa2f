package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"nft-gate.backend/internal/domain/entities"
	domainerrors "nft-gate.backend/internal/domain/errors"
	"nft-gate.backend/internal/infrastructure/jobs"
	"nft-gate.backend/internal/interfaces/http/middleware"
	"nft-gate.backend/internal/interfaces/http/response"
	"nft-gate.backend/pkg/logger"
	"nft-gate.backend/pkg/utils"
)

type guildAdminService interface {
	ListRules(ctx context.Context, communityID string) ([]*entities.GuildRule, error)
	CreateRule(ctx context.Context, communityID string, input *entities.CreateGuildRuleInput) (*entities.GuildRule, error)
	DeleteRule(ctx context.Context, communityID string, id uuid.UUID) error
	ListHolders(ctx context.Context, communityID string, p utils.PaginationParams) ([]*entities.UserVerificationState, utils.PaginationMeta, error)
}

type cycleRunner interface {
	RunCycle(ctx context.Context) (*jobs.CycleReport, error)
}

// AdminHandler handles operator endpoints
type AdminHandler struct {
	guildAdmin guildAdminService
	scheduler  cycleRunner
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(guildAdmin guildAdminService, scheduler cycleRunner) *AdminHandler {
	return &AdminHandler{
		guildAdmin: guildAdmin,
		scheduler:  scheduler,
	}
}

// RunScheduler runs one re-verification cycle synchronously
// POST /api/v1/admin/scheduler/run
func (h *AdminHandler) RunScheduler(c *gin.Context) {
	operator, _ := middleware.GetOperator(c)
	logger.Info(c.Request.Context(), "Manual re-verification cycle requested", zap.String("operator", operator))

	report, err := h.scheduler.RunCycle(c.Request.Context())
	if err != nil && report == nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"report": report})
}

// ListRules lists a guild's rules
// GET /api/v1/admin/guilds/:communityId/rules
func (h *AdminHandler) ListRules(c *gin.Context) {
	rules, err := h.guildAdmin.ListRules(c.Request.Context(), c.Param("communityId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if rules == nil {
		rules = []*entities.GuildRule{}
	}

	response.Success(c, http.StatusOK, gin.H{"rules": rules})
}

// CreateRule adds a rule to a guild
// POST /api/v1/admin/guilds/:communityId/rules
func (h *AdminHandler) CreateRule(c *gin.Context) {
	var input entities.CreateGuildRuleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	rule, err := h.guildAdmin.CreateRule(c.Request.Context(), c.Param("communityId"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"rule": rule})
}

// DeleteRule removes a rule from a guild
// DELETE /api/v1/admin/guilds/:communityId/rules/:ruleId
func (h *AdminHandler) DeleteRule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("ruleId"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid rule ID"))
		return
	}

	if err := h.guildAdmin.DeleteRule(c.Request.Context(), c.Param("communityId"), id); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Rule deleted"})
}

// ListHolders pages through a guild's verification state
// GET /api/v1/admin/guilds/:communityId/holders
func (h *AdminHandler) ListHolders(c *gin.Context) {
	var p utils.PaginationParams
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid pagination"))
		return
	}

	holders, meta, err := h.guildAdmin.ListHolders(c.Request.Context(), c.Param("communityId"), p)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"holders":    holders,
		"pagination": meta,
	})
}
