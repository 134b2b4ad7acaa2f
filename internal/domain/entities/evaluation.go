package entities

// RuleSummary records how one rule was evaluated, for reporting and audit logs
type RuleSummary struct {
	RuleID        string   `json:"ruleId"`
	Kind          RuleKind `json:"kind"`
	CollectionID  string   `json:"collectionId"`
	RoleID        string   `json:"roleId"`
	OwnedCount    int      `json:"ownedCount"`
	RequiredCount int      `json:"requiredCount,omitempty"`
	MaxCount      *int     `json:"maxCount,omitempty"`
	TraitType     string   `json:"traitType,omitempty"`
	TraitValue    string   `json:"traitValue,omitempty"`
	Met           bool     `json:"met"`
	Selected      bool     `json:"selected"`
}

// RoleEvaluation is the desired role state computed from ownership
type RoleEvaluation struct {
	Grants    []string      `json:"grants"`
	Revokes   []string      `json:"revokes"`
	Summaries []RuleSummary `json:"summaries"`
}

// RoleSyncReport describes what the role synchronizer changed
type RoleSyncReport struct {
	Added    []string          `json:"added"`
	Removed  []string          `json:"removed"`
	Failures map[string]string `json:"failures,omitempty"`
}
