package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"nft-gate.backend/internal/domain/entities"
)

// VerificationSessionRepository defines verification session data operations
type VerificationSessionRepository interface {
	Create(ctx context.Context, session *entities.VerificationSession) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*entities.VerificationSession, error)
	// BindWallet sets the wallet of a pending session that has none yet.
	BindWallet(ctx context.Context, id uuid.UUID, walletAddress string) (bool, error)
	// UpdateStatus moves a session from one status to another. It reports false
	// when the session was no longer in the expected status.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entities.SessionStatus, verifiedAt null.Time) (bool, error)
	DeleteTerminalBefore(ctx context.Context, before time.Time) (int64, error)
}
