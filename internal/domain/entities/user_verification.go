package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// UserVerificationState is the last known verification outcome for one
// identity inside one community.
type UserVerificationState struct {
	ID            uuid.UUID `json:"id"`
	IdentityID    string    `json:"identityId"`
	CommunityID   string    `json:"communityId"`
	WalletAddress string    `json:"walletAddress"`
	IsVerified    bool      `json:"isVerified"`
	AssetCount    int       `json:"assetCount"`
	LastCheckedAt null.Time `json:"lastCheckedAt"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ReverificationPriority ranks users for the periodic scheduler; lower runs first.
type ReverificationPriority int

const (
	PriorityNeverChecked ReverificationPriority = iota + 1
	PriorityStale
	PriorityHighValue
	PriorityNewAccount
	PriorityRoutine
)

// ReverificationCandidate is a state row selected for the next cycle
type ReverificationCandidate struct {
	State    *UserVerificationState
	Priority ReverificationPriority
}

// ReverificationPolicy carries the thresholds of the selection query
type ReverificationPolicy struct {
	Now                 time.Time
	StaleAfter          time.Duration
	HighValueStaleAfter time.Duration
	HighValueAssetCount int
	NewAccountWindow    time.Duration
	Cooldown            time.Duration
	Limit               int
}
