package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"nft-gate.backend/internal/domain/entities"
	domainerrors "nft-gate.backend/internal/domain/errors"
	"nft-gate.backend/internal/infrastructure/models"
	"nft-gate.backend/pkg/utils"
)

// VerificationSessionRepository implements verification session data operations
type VerificationSessionRepository struct {
	db *gorm.DB
}

// NewVerificationSessionRepository creates a new verification session repository
func NewVerificationSessionRepository(db *gorm.DB) *VerificationSessionRepository {
	return &VerificationSessionRepository{db: db}
}

// Create persists a new session
func (r *VerificationSessionRepository) Create(ctx context.Context, session *entities.VerificationSession) error {
	if session.ID == uuid.Nil {
		session.ID = utils.GenerateUUIDv7()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	m := &models.VerificationSession{
		ID:               session.ID,
		CommunityID:      session.CommunityID,
		IdentityID:       session.IdentityID,
		WalletAddress:    session.WalletAddress.Ptr(),
		TokenHash:        session.TokenHash,
		ChallengeMessage: session.ChallengeMessage,
		Status:           string(session.Status),
		ExpiresAt:        session.ExpiresAt.UTC(),
		VerifiedAt:       session.VerifiedAt.Ptr(),
		CreatedAt:        session.CreatedAt.UTC(),
		UpdatedAt:        session.UpdatedAt,
	}
	return GetDB(ctx, r.db).Create(m).Error
}

// GetByTokenHash gets a session by the hash of its token
func (r *VerificationSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*entities.VerificationSession, error) {
	var m models.VerificationSession
	if err := GetDB(ctx, r.db).Where("token_hash = ?", tokenHash).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// BindWallet binds a wallet to a pending session that has none
func (r *VerificationSessionRepository) BindWallet(ctx context.Context, id uuid.UUID, walletAddress string) (bool, error) {
	result := GetDB(ctx, r.db).Model(&models.VerificationSession{}).
		Where("id = ? AND status = ? AND wallet_address IS NULL", id, string(entities.SessionStatusPending)).
		Updates(map[string]interface{}{
			"wallet_address": walletAddress,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// UpdateStatus performs a conditional status transition
func (r *VerificationSessionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.SessionStatus, verifiedAt null.Time) (bool, error) {
	updates := map[string]interface{}{
		"status":     string(to),
		"updated_at": time.Now().UTC(),
	}
	if verifiedAt.Valid {
		updates["verified_at"] = verifiedAt.Time.UTC()
	}

	result := GetDB(ctx, r.db).Model(&models.VerificationSession{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// DeleteTerminalBefore removes sessions that can no longer change and were
// created before the cutoff. Pending sessions already past their deadline
// count as expired.
func (r *VerificationSessionRepository) DeleteTerminalBefore(ctx context.Context, before time.Time) (int64, error) {
	statuses := make([]string, 0, len(entities.TerminalSessionStatuses))
	for _, s := range entities.TerminalSessionStatuses {
		statuses = append(statuses, string(s))
	}
	cutoff := before.UTC()

	result := GetDB(ctx, r.db).
		Where("created_at < ?", cutoff).
		Where("status IN ? OR (status = ? AND expires_at < ?)", statuses, string(entities.SessionStatusPending), cutoff).
		Delete(&models.VerificationSession{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *VerificationSessionRepository) toEntity(m *models.VerificationSession) *entities.VerificationSession {
	return &entities.VerificationSession{
		ID:               m.ID,
		CommunityID:      m.CommunityID,
		IdentityID:       m.IdentityID,
		WalletAddress:    null.StringFromPtr(m.WalletAddress),
		TokenHash:        m.TokenHash,
		ChallengeMessage: m.ChallengeMessage,
		Status:           entities.SessionStatus(m.Status),
		CreatedAt:        m.CreatedAt,
		ExpiresAt:        m.ExpiresAt,
		VerifiedAt:       null.TimeFromPtr(m.VerifiedAt),
		UpdatedAt:        m.UpdatedAt,
	}
}
