package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"nft-gate.backend/internal/domain/entities"
	domainerrors "nft-gate.backend/internal/domain/errors"
	"nft-gate.backend/internal/infrastructure/models"
	"nft-gate.backend/pkg/utils"
)

const reverificationPriorityExpr = `CASE
	WHEN last_checked_at IS NULL THEN 1
	WHEN last_checked_at < ? THEN 2
	WHEN asset_count >= ? AND last_checked_at < ? THEN 3
	WHEN created_at > ? THEN 4
	ELSE 5 END`

// UserVerificationRepository implements verification state data operations
type UserVerificationRepository struct {
	db *gorm.DB
}

// NewUserVerificationRepository creates a new user verification repository
func NewUserVerificationRepository(db *gorm.DB) *UserVerificationRepository {
	return &UserVerificationRepository{db: db}
}

// Upsert inserts or updates the state keyed by identity and community
func (r *UserVerificationRepository) Upsert(ctx context.Context, state *entities.UserVerificationState) error {
	now := time.Now().UTC()
	if state.ID == uuid.Nil {
		state.ID = utils.GenerateUUIDv7()
	}
	if state.CreatedAt.IsZero() {
		state.CreatedAt = now
	}
	state.UpdatedAt = now

	var lastChecked *time.Time
	if state.LastCheckedAt.Valid {
		t := state.LastCheckedAt.Time.UTC()
		lastChecked = &t
	}

	m := &models.UserVerification{
		ID:            state.ID,
		IdentityID:    state.IdentityID,
		CommunityID:   state.CommunityID,
		WalletAddress: state.WalletAddress,
		IsVerified:    state.IsVerified,
		AssetCount:    state.AssetCount,
		LastCheckedAt: lastChecked,
		CreatedAt:     state.CreatedAt.UTC(),
		UpdatedAt:     now,
	}

	return GetDB(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "identity_id"}, {Name: "community_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"wallet_address", "is_verified", "asset_count", "last_checked_at", "updated_at",
		}),
	}).Create(m).Error
}

// GetByIdentity gets the state of one identity in one community
func (r *UserVerificationRepository) GetByIdentity(ctx context.Context, identityID, communityID string) (*entities.UserVerificationState, error) {
	var m models.UserVerification
	err := GetDB(ctx, r.db).
		Where("identity_id = ? AND community_id = ?", identityID, communityID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

// ListByCommunity lists states of a community, newest first
func (r *UserVerificationRepository) ListByCommunity(ctx context.Context, communityID string, limit, offset int) ([]*entities.UserVerificationState, int64, error) {
	var total int64
	if err := GetDB(ctx, r.db).Model(&models.UserVerification{}).
		Where("community_id = ?", communityID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query := GetDB(ctx, r.db).
		Where("community_id = ?", communityID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var ms []models.UserVerification
	if err := query.Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	states := make([]*entities.UserVerificationState, 0, len(ms))
	for i := range ms {
		states = append(states, r.toEntity(&ms[i]))
	}
	return states, total, nil
}

type reverificationRow struct {
	models.UserVerification
	Priority int
}

// SelectForReverification ranks states by re-verification priority.
//
//	1 never checked
//	2 last checked before StaleAfter
//	3 holds >= HighValueAssetCount assets and last checked before HighValueStaleAfter
//	4 created within NewAccountWindow
//	5 everyone else
//
// Rows checked within Cooldown are skipped unless they rank 1 or 2. Within a
// tier the oldest check goes first, then the larger holder.
func (r *UserVerificationRepository) SelectForReverification(ctx context.Context, p entities.ReverificationPolicy) ([]entities.ReverificationCandidate, error) {
	now := p.Now.UTC()
	staleBefore := now.Add(-p.StaleAfter)
	highValueBefore := now.Add(-p.HighValueStaleAfter)
	newSince := now.Add(-p.NewAccountWindow)
	cooldownBefore := now.Add(-p.Cooldown)

	query := GetDB(ctx, r.db).Model(&models.UserVerification{}).
		Select("user_verifications.*, "+reverificationPriorityExpr+" AS priority",
			staleBefore, p.HighValueAssetCount, highValueBefore, newSince).
		Where("wallet_address <> ''").
		Where("last_checked_at IS NULL OR last_checked_at < ? OR last_checked_at < ?", staleBefore, cooldownBefore).
		Order("priority ASC").
		Order("last_checked_at ASC").
		Order("asset_count DESC")
	if p.Limit > 0 {
		query = query.Limit(p.Limit)
	}

	var rows []reverificationRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]entities.ReverificationCandidate, 0, len(rows))
	for i := range rows {
		out = append(out, entities.ReverificationCandidate{
			State:    r.toEntity(&rows[i].UserVerification),
			Priority: entities.ReverificationPriority(rows[i].Priority),
		})
	}
	return out, nil
}

func (r *UserVerificationRepository) toEntity(m *models.UserVerification) *entities.UserVerificationState {
	return &entities.UserVerificationState{
		ID:            m.ID,
		IdentityID:    m.IdentityID,
		CommunityID:   m.CommunityID,
		WalletAddress: m.WalletAddress,
		IsVerified:    m.IsVerified,
		AssetCount:    m.AssetCount,
		LastCheckedAt: null.TimeFromPtr(m.LastCheckedAt),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
