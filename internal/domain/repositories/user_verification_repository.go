package repositories

import (
	"context"

	"nft-gate.backend/internal/domain/entities"
)

// UserVerificationRepository defines per-community verification state operations
type UserVerificationRepository interface {
	// Upsert inserts or updates the row keyed by (IdentityID, CommunityID).
	// CreatedAt of an existing row is preserved.
	Upsert(ctx context.Context, state *entities.UserVerificationState) error
	GetByIdentity(ctx context.Context, identityID, communityID string) (*entities.UserVerificationState, error)
	ListByCommunity(ctx context.Context, communityID string, limit, offset int) ([]*entities.UserVerificationState, int64, error)
	SelectForReverification(ctx context.Context, policy entities.ReverificationPolicy) ([]entities.ReverificationCandidate, error)
}
