package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// SessionStatus represents the lifecycle state of a verification session
type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusVerified  SessionStatus = "verified"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusFailed    SessionStatus = "failed"
	SessionStatusExpired   SessionStatus = "expired"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s SessionStatus) IsTerminal() bool {
	return s != SessionStatusPending
}

// TerminalSessionStatuses lists every status a session cannot leave.
var TerminalSessionStatuses = []SessionStatus{
	SessionStatusVerified,
	SessionStatusCompleted,
	SessionStatusFailed,
	SessionStatusExpired,
}

// VerificationSession ties a community identity to a wallet through a signed challenge.
// The raw token is never stored, only TokenHash.
type VerificationSession struct {
	ID               uuid.UUID     `json:"id"`
	CommunityID      string        `json:"communityId"`
	IdentityID       string        `json:"identityId"`
	WalletAddress    null.String   `json:"walletAddress"`
	TokenHash        string        `json:"-"`
	ChallengeMessage string        `json:"challengeMessage"`
	Status           SessionStatus `json:"status"`
	CreatedAt        time.Time     `json:"createdAt"`
	ExpiresAt        time.Time     `json:"expiresAt"`
	VerifiedAt       null.Time     `json:"verifiedAt"`
	UpdatedAt        time.Time     `json:"updatedAt"`
}

// IsExpiredAt reports whether a pending session is past its deadline.
func (s *VerificationSession) IsExpiredAt(now time.Time) bool {
	return s.Status == SessionStatusPending && now.After(s.ExpiresAt)
}

// CreateSessionInput represents input for starting a verification
type CreateSessionInput struct {
	IdentityID    string `json:"identityId" binding:"required"`
	CommunityID   string `json:"communityId" binding:"required"`
	WalletAddress string `json:"walletAddress"`
}

// SessionChallenge is returned exactly once, when a session is created
type SessionChallenge struct {
	SessionID        uuid.UUID `json:"sessionId"`
	Token            string    `json:"token"`
	ExpiresAt        time.Time `json:"expiresAt"`
	ChallengeMessage string    `json:"challengeMessage"`
}

// VerifySessionInput represents the signed challenge submitted by the wallet owner
type VerifySessionInput struct {
	Signature     string `json:"signature" binding:"required"`
	WalletAddress string `json:"walletAddress"`
}

// VerificationResult is the payload returned after a successful signature check
type VerificationResult struct {
	SessionID     uuid.UUID                 `json:"sessionId"`
	WalletAddress string                    `json:"walletAddress"`
	Status        SessionStatus             `json:"status"`
	AssetCount    int                       `json:"assetCount"`
	IsVerified    bool                      `json:"isVerified"`
	RuleSummaries []RuleSummary             `json:"ruleSummaries"`
	GrantedRoles  []string                  `json:"grantedRoles"`
	RevokedRoles  []string                  `json:"revokedRoles"`
	PerSource     map[SourceID]SourceReport `json:"perSource"`
	VerifiedAt    time.Time                 `json:"verifiedAt"`
}
