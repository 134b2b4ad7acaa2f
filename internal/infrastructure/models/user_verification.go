package models

import (
	"time"

	"github.com/google/uuid"
)

type UserVerification struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	IdentityID    string     `gorm:"type:varchar(64);not null;uniqueIndex:uq_user_verifications_identity_community,priority:1"`
	CommunityID   string     `gorm:"type:varchar(64);not null;uniqueIndex:uq_user_verifications_identity_community,priority:2;index"`
	WalletAddress string     `gorm:"type:varchar(128);not null"`
	IsVerified    bool       `gorm:"not null;default:false"`
	AssetCount    int        `gorm:"not null;default:0"`
	LastCheckedAt *time.Time `gorm:"index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (UserVerification) TableName() string {
	return "user_verifications"
}
