package models

import (
	"time"

	"github.com/google/uuid"
)

type GuildRule struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	CommunityID   string    `gorm:"type:varchar(64);not null;index"`
	Kind          string    `gorm:"type:varchar(20);not null"`
	CollectionID  string    `gorm:"type:varchar(128);not null;default:''"`
	RoleID        string    `gorm:"type:varchar(64);not null"`
	RequiredCount int       `gorm:"not null;default:0"`
	MaxCount      *int
	TraitType     string `gorm:"type:varchar(128);not null;default:''"`
	TraitValue    string `gorm:"type:varchar(256);not null;default:''"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (GuildRule) TableName() string {
	return "guild_rules"
}
