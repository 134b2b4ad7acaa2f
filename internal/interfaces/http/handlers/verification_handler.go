package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"nft-gate.backend/internal/domain/entities"
	domainerrors "nft-gate.backend/internal/domain/errors"
	"nft-gate.backend/internal/interfaces/http/response"
)

type verificationService interface {
	CreateSession(ctx context.Context, input *entities.CreateSessionInput) (*entities.SessionChallenge, error)
	FindByToken(ctx context.Context, token string) (*entities.VerificationSession, error)
	Verify(ctx context.Context, token string, input *entities.VerifySessionInput) (*entities.VerificationResult, error)
}

// VerificationHandler handles the public verification flow
type VerificationHandler struct {
	verificationUsecase verificationService
}

// NewVerificationHandler creates a new verification handler
func NewVerificationHandler(verificationUsecase verificationService) *VerificationHandler {
	return &VerificationHandler{verificationUsecase: verificationUsecase}
}

// CreateSession starts a verification and returns the challenge to sign
// POST /api/v1/verifications
func (h *VerificationHandler) CreateSession(c *gin.Context) {
	var input entities.CreateSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	challenge, err := h.verificationUsecase.CreateSession(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, challenge)
}

// GetSession returns the state of a session
// GET /api/v1/verifications/:token
func (h *VerificationHandler) GetSession(c *gin.Context) {
	session, err := h.verificationUsecase.FindByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"session": session})
}

// Verify submits the signed challenge
// POST /api/v1/verifications/:token/verify
func (h *VerificationHandler) Verify(c *gin.Context) {
	var input entities.VerifySessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	result, err := h.verificationUsecase.Verify(c.Request.Context(), c.Param("token"), &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
