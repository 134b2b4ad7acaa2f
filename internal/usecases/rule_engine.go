package usecases

import (
	"strings"

	"nft-gate.backend/internal/domain/entities"
)

// RuleEngine turns reconciled holdings into the desired role set of a guild.
// It is stateless and safe for concurrent use.
type RuleEngine struct{}

// NewRuleEngine creates a rule engine
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{}
}

// Evaluate computes grants and revokes for rules.
//
// Quantity rules sharing a collection are exclusive tiers: the eligible rule
// with the largest RequiredCount wins and every other tier role is revoked.
// Trait rules are independent. A role granted by any rule is never revoked.
func (e *RuleEngine) Evaluate(assets []entities.ReconciledAsset, rules []*entities.GuildRule) entities.RoleEvaluation {
	summaries := make([]entities.RuleSummary, len(rules))
	var grants, revokes []string

	groups := make(map[string][]int)
	var groupOrder []string

	for i, rule := range rules {
		summaries[i] = newSummary(rule)
		switch rule.Kind {
		case entities.RuleKindQuantity:
			key := strings.ToLower(rule.CollectionID)
			if _, ok := groups[key]; !ok {
				groupOrder = append(groupOrder, key)
			}
			groups[key] = append(groups[key], i)
		case entities.RuleKindTrait:
			owned := countWithTrait(assets, rule)
			summaries[i].OwnedCount = owned
			summaries[i].Met = owned > 0
			summaries[i].Selected = owned > 0
			if owned > 0 {
				grants = append(grants, rule.RoleID)
			} else {
				revokes = append(revokes, rule.RoleID)
			}
		}
	}

	for _, key := range groupOrder {
		idxs := groups[key]
		owned := countInCollection(assets, rules[idxs[0]].CollectionID)

		selected := -1
		for _, i := range idxs {
			rule := rules[i]
			summaries[i].OwnedCount = owned
			if !tierEligible(rule, owned) {
				continue
			}
			summaries[i].Met = true
			if selected < 0 || rule.RequiredCount > rules[selected].RequiredCount {
				selected = i
			}
		}

		for _, i := range idxs {
			if i == selected {
				summaries[i].Selected = true
				grants = append(grants, rules[i].RoleID)
				continue
			}
			revokes = append(revokes, rules[i].RoleID)
		}
	}

	grants = uniqueRoles(grants, nil)
	granted := make(map[string]bool, len(grants))
	for _, r := range grants {
		granted[r] = true
	}
	revokes = uniqueRoles(revokes, granted)

	return entities.RoleEvaluation{
		Grants:    grants,
		Revokes:   revokes,
		Summaries: summaries,
	}
}

// AnyRuleMet reports whether the evaluation satisfied at least one rule
func AnyRuleMet(ev entities.RoleEvaluation) bool {
	for _, s := range ev.Summaries {
		if s.Met {
			return true
		}
	}
	return false
}

// maxCount is inclusive
func tierEligible(rule *entities.GuildRule, owned int) bool {
	if owned < rule.RequiredCount {
		return false
	}
	return !rule.MaxCount.Valid || owned <= rule.MaxCount.Int
}

func countInCollection(assets []entities.ReconciledAsset, collectionID string) int {
	if collectionID == "" {
		return len(assets)
	}
	n := 0
	for i := range assets {
		if assets[i].InCollection(collectionID) {
			n++
		}
	}
	return n
}

func countWithTrait(assets []entities.ReconciledAsset, rule *entities.GuildRule) int {
	n := 0
	for i := range assets {
		if rule.CollectionID != "" && !assets[i].InCollection(rule.CollectionID) {
			continue
		}
		if assets[i].HasTrait(rule.TraitType, rule.TraitValue) {
			n++
		}
	}
	return n
}

func newSummary(rule *entities.GuildRule) entities.RuleSummary {
	s := entities.RuleSummary{
		RuleID:        rule.ID.String(),
		Kind:          rule.Kind,
		CollectionID:  rule.CollectionID,
		RoleID:        rule.RoleID,
		RequiredCount: rule.RequiredCount,
		TraitType:     rule.TraitType,
		TraitValue:    rule.TraitValue,
	}
	if rule.MaxCount.Valid {
		v := rule.MaxCount.Int
		s.MaxCount = &v
	}
	return s
}

// uniqueRoles keeps the first occurrence of each role, skipping excluded ones.
// The result is never nil.
func uniqueRoles(roles []string, exclude map[string]bool) []string {
	out := make([]string, 0, len(roles))
	seen := make(map[string]bool, len(roles))
	for _, r := range roles {
		if r == "" || seen[r] || exclude[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}

// commonCollection returns the collection every rule references, or "" when
// rules span several collections or one of them is unscoped.
func commonCollection(rules []*entities.GuildRule) string {
	if len(rules) == 0 {
		return ""
	}
	first := rules[0].CollectionID
	for _, r := range rules[1:] {
		if !strings.EqualFold(r.CollectionID, first) {
			return ""
		}
	}
	return first
}
