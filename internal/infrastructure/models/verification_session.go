package models

import (
	"time"

	"github.com/google/uuid"
)

type VerificationSession struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	CommunityID      string    `gorm:"type:varchar(64);not null;index"`
	IdentityID       string    `gorm:"type:varchar(64);not null;index"`
	WalletAddress    *string   `gorm:"type:varchar(128)"`
	TokenHash        string    `gorm:"type:varchar(128);not null;uniqueIndex"`
	ChallengeMessage string    `gorm:"type:text;not null"`
	Status           string    `gorm:"type:varchar(20);not null;index"`
	ExpiresAt        time.Time `gorm:"not null"`
	VerifiedAt       *time.Time
	CreatedAt        time.Time `gorm:"index"`
	UpdatedAt        time.Time
}

func (VerificationSession) TableName() string {
	return "verification_sessions"
}
