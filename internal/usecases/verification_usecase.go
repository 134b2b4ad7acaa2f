package usecases

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"nft-gate.backend/internal/domain/entities"
	domainerrors "nft-gate.backend/internal/domain/errors"
	"nft-gate.backend/internal/domain/repositories"
	"nft-gate.backend/pkg/crypto"
	"nft-gate.backend/pkg/logger"
	"nft-gate.backend/pkg/metrics"
	"nft-gate.backend/pkg/utils"
	"nft-gate.backend/pkg/walletsig"
)

// DefaultSessionTTL is how long a challenge can be signed
const DefaultSessionTTL = 10 * time.Minute

// TokenHasher derives the stored lookup hash of a session token
type TokenHasher interface {
	Hash(token string) string
}

// HolderChecker is the part of HolderCheckUsecase the session flow needs
type HolderChecker interface {
	Assess(ctx context.Context, communityID, wallet string) (*Assessment, error)
	Record(ctx context.Context, communityID, identityID, wallet string, a *Assessment, checkedAt time.Time) (*entities.UserVerificationState, error)
	Sync(ctx context.Context, communityID, identityID string, a *Assessment) *entities.RoleSyncReport
}

// VerificationConfig holds session settings
type VerificationConfig struct {
	CommunityName string
	Chain         entities.Chain
	SessionTTL    time.Duration
}

// VerificationUsecase issues signed-challenge sessions and verifies them
type VerificationUsecase struct {
	sessionRepo repositories.VerificationSessionRepository
	uow         repositories.UnitOfWork
	holders     HolderChecker
	verifier    walletsig.Verifier
	hasher      TokenHasher
	cfg         VerificationConfig

	now      func() time.Time
	newToken func() (string, error)
}

// NewVerificationUsecase creates a new verification usecase
func NewVerificationUsecase(
	sessionRepo repositories.VerificationSessionRepository,
	uow repositories.UnitOfWork,
	holders HolderChecker,
	verifier walletsig.Verifier,
	hasher TokenHasher,
	cfg VerificationConfig,
) *VerificationUsecase {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	return &VerificationUsecase{
		sessionRepo: sessionRepo,
		uow:         uow,
		holders:     holders,
		verifier:    verifier,
		hasher:      hasher,
		cfg:         cfg,
		now:         time.Now,
		newToken:    crypto.GenerateSessionToken,
	}
}

// CreateSession starts a verification. The raw token is only ever returned here.
func (u *VerificationUsecase) CreateSession(ctx context.Context, input *entities.CreateSessionInput) (*entities.SessionChallenge, error) {
	identityID := strings.TrimSpace(input.IdentityID)
	communityID := strings.TrimSpace(input.CommunityID)
	if identityID == "" || communityID == "" {
		return nil, domainerrors.ErrBadRequest
	}

	wallet := strings.TrimSpace(input.WalletAddress)
	if wallet != "" {
		if err := u.verifier.ValidateAddress(wallet); err != nil {
			return nil, domainerrors.ErrInvalidWalletFormat
		}
	}

	token, err := u.newToken()
	if err != nil {
		return nil, err
	}

	now := u.now().UTC()
	session := &entities.VerificationSession{
		ID:          utils.GenerateUUIDv7(),
		CommunityID: communityID,
		IdentityID:  identityID,
		TokenHash:   u.hasher.Hash(token),
		Status:      entities.SessionStatusPending,
		CreatedAt:   now,
		ExpiresAt:   now.Add(u.cfg.SessionTTL),
	}
	if wallet != "" {
		session.WalletAddress = null.StringFrom(wallet)
	}
	session.ChallengeMessage = u.buildChallenge(session)

	if err := u.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	logger.Info(logger.WithMember(ctx, communityID, identityID), "Verification session created",
		zap.String("session_id", session.ID.String()),
		zap.Time("expires_at", session.ExpiresAt),
	)

	return &entities.SessionChallenge{
		SessionID:        session.ID,
		Token:            token,
		ExpiresAt:        session.ExpiresAt,
		ChallengeMessage: session.ChallengeMessage,
	}, nil
}

// FindByToken looks a session up by its token, expiring it lazily
func (u *VerificationUsecase) FindByToken(ctx context.Context, token string) (*entities.VerificationSession, error) {
	if strings.TrimSpace(token) == "" {
		return nil, domainerrors.ErrSessionNotFound
	}
	hash := u.hasher.Hash(token)

	session, err := u.sessionByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	if session.IsExpiredAt(u.now()) {
		ok, err := u.sessionRepo.UpdateStatus(ctx, session.ID, entities.SessionStatusPending, entities.SessionStatusExpired, null.Time{})
		if err != nil {
			return nil, err
		}
		if !ok {
			// lost a race with another transition, report what won
			return u.sessionByHash(ctx, hash)
		}
		session.Status = entities.SessionStatusExpired
	}
	return session, nil
}

// Verify checks the signed challenge, evaluates holdings, records the outcome
// and syncs roles on a best-effort basis.
func (u *VerificationUsecase) Verify(ctx context.Context, token string, input *entities.VerifySessionInput) (*entities.VerificationResult, error) {
	session, err := u.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithMember(ctx, session.CommunityID, session.IdentityID)

	if err := pendingOnly(session); err != nil {
		return nil, err
	}

	wallet, err := u.resolveWallet(ctx, session, strings.TrimSpace(input.WalletAddress))
	if err != nil {
		return nil, err
	}

	if err := u.verifier.Verify([]byte(session.ChallengeMessage), input.Signature, wallet); err != nil {
		if _, uerr := u.sessionRepo.UpdateStatus(ctx, session.ID, entities.SessionStatusPending, entities.SessionStatusFailed, null.Time{}); uerr != nil {
			logger.Error(ctx, "Failed to mark session failed", zap.Error(uerr))
		}
		metrics.Verifications.WithLabelValues("invalid_signature").Inc()
		logger.Warn(ctx, "Signature rejected", zap.String("session_id", session.ID.String()))
		return nil, domainerrors.ErrInvalidSignature
	}

	assessment, err := u.holders.Assess(ctx, session.CommunityID, wallet)
	if err != nil {
		if errors.Is(err, domainerrors.ErrSourceUnavailable) {
			metrics.Verifications.WithLabelValues("source_unavailable").Inc()
		}
		return nil, err
	}

	verifiedAt := u.now().UTC()
	target := entities.SessionStatusCompleted
	if assessment.IsVerified {
		target = entities.SessionStatusVerified
	}

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if _, err := u.holders.Record(txCtx, session.CommunityID, session.IdentityID, wallet, assessment, verifiedAt); err != nil {
			return err
		}
		ok, err := u.sessionRepo.UpdateStatus(txCtx, session.ID, entities.SessionStatusPending, target, null.TimeFrom(verifiedAt))
		if err != nil {
			return err
		}
		if !ok {
			return domainerrors.ErrSessionAlreadyCompleted
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.holders.Sync(ctx, session.CommunityID, session.IdentityID, assessment)

	metrics.Verifications.WithLabelValues(string(target)).Inc()
	logger.Info(ctx, "Wallet verified",
		zap.String("session_id", session.ID.String()),
		zap.String("status", string(target)),
		zap.Int("asset_count", assessment.AssetCount),
	)

	return &entities.VerificationResult{
		SessionID:     session.ID,
		WalletAddress: wallet,
		Status:        target,
		AssetCount:    assessment.AssetCount,
		IsVerified:    assessment.IsVerified,
		RuleSummaries: assessment.Evaluation.Summaries,
		GrantedRoles:  assessment.Evaluation.Grants,
		RevokedRoles:  assessment.Evaluation.Revokes,
		PerSource:     assessment.Discovery.PerSource,
		VerifiedAt:    verifiedAt,
	}, nil
}

// resolveWallet returns the wallet the signature must come from, binding the
// supplied one when the session has none yet.
func (u *VerificationUsecase) resolveWallet(ctx context.Context, session *entities.VerificationSession, supplied string) (string, error) {
	if session.WalletAddress.Valid {
		bound := session.WalletAddress.String
		if supplied != "" && !u.verifier.SameAddress(bound, supplied) {
			return "", domainerrors.ErrWalletMismatch
		}
		return bound, nil
	}

	if supplied == "" {
		return "", domainerrors.ErrInvalidWalletFormat
	}
	if err := u.verifier.ValidateAddress(supplied); err != nil {
		return "", domainerrors.ErrInvalidWalletFormat
	}

	ok, err := u.sessionRepo.BindWallet(ctx, session.ID, supplied)
	if err != nil {
		return "", err
	}
	if ok {
		session.WalletAddress = null.StringFrom(supplied)
		return supplied, nil
	}

	// someone else bound or finished the session first
	current, err := u.sessionByHash(ctx, session.TokenHash)
	if err != nil {
		return "", err
	}
	if err := pendingOnly(current); err != nil {
		return "", err
	}
	if !current.WalletAddress.Valid || !u.verifier.SameAddress(current.WalletAddress.String, supplied) {
		return "", domainerrors.ErrWalletMismatch
	}
	return current.WalletAddress.String, nil
}

func (u *VerificationUsecase) sessionByHash(ctx context.Context, hash string) (*entities.VerificationSession, error) {
	session, err := u.sessionRepo.GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func pendingOnly(session *entities.VerificationSession) error {
	switch session.Status {
	case entities.SessionStatusPending:
		return nil
	case entities.SessionStatusExpired:
		return domainerrors.ErrSessionExpired
	default:
		return domainerrors.ErrSessionAlreadyCompleted
	}
}

func (u *VerificationUsecase) buildChallenge(s *entities.VerificationSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s wallet verification\n\n", u.cfg.CommunityName)
	b.WriteString("Sign this message to prove you own this wallet. It does not cost anything.\n\n")
	fmt.Fprintf(&b, "Community: %s\n", s.CommunityID)
	fmt.Fprintf(&b, "Identity: %s\n", s.IdentityID)
	fmt.Fprintf(&b, "Wallet: %s\n", walletOrPlaceholder(s.WalletAddress.String))
	if chain := u.cfg.Chain.GetCAIP2ID(); chain != "" {
		fmt.Fprintf(&b, "Chain: %s\n", chain)
	}
	fmt.Fprintf(&b, "Nonce: %s\n", s.ID.String())
	fmt.Fprintf(&b, "Issued At: %s\n", s.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Expires At: %s", s.ExpiresAt.Format(time.RFC3339))
	return b.String()
}
