package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// RuleKind distinguishes quantity tiers from trait rules
type RuleKind string

const (
	RuleKindQuantity RuleKind = "quantity"
	RuleKindTrait    RuleKind = "trait"
)

// GuildRule maps NFT ownership in a collection to a guild role.
//
// Quantity rules sharing a (CommunityID, CollectionID) are mutually exclusive
// tiers. Trait rules are independent of tiers and of each other.
type GuildRule struct {
	ID            uuid.UUID `json:"id"`
	CommunityID   string    `json:"communityId"`
	Kind          RuleKind  `json:"kind"`
	CollectionID  string    `json:"collectionId"`
	RoleID        string    `json:"roleId"`
	RequiredCount int       `json:"requiredCount,omitempty"`
	MaxCount      null.Int  `json:"maxCount"`
	TraitType     string    `json:"traitType,omitempty"`
	TraitValue    string    `json:"traitValue,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateGuildRuleInput represents input for configuring a rule
type CreateGuildRuleInput struct {
	Kind          RuleKind `json:"kind" binding:"required,oneof=quantity trait"`
	CollectionID  string   `json:"collectionId"`
	RoleID        string   `json:"roleId" binding:"required"`
	RequiredCount int      `json:"requiredCount"`
	MaxCount      *int     `json:"maxCount"`
	TraitType     string   `json:"traitType"`
	TraitValue    string   `json:"traitValue"`
}
