package entities

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// SourceID identifies an external NFT indexing provider
type SourceID string

// Attribute is the canonical (type, value) trait shape used after discovery
type Attribute struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// SourceAsset is one item as reported by a single source, already normalized
type SourceAsset struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Collections []string    `json:"collections"`
	Attributes  []Attribute `json:"attributes"`
}

// SourcePage is one page of a paged owner listing
type SourcePage struct {
	Items   []SourceAsset `json:"items"`
	HasMore bool          `json:"hasMore"`
}

// SourceReport records what a single source contributed to a discovery
type SourceReport struct {
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

// ReconciledAsset is one logical asset merged across sources. Not persisted.
type ReconciledAsset struct {
	AssetID      string      `json:"assetId"`
	Key          string      `json:"-"`
	DisplayName  string      `json:"displayName"`
	CollectionID string      `json:"collectionId"`
	Collections  []string    `json:"collections"`
	Attributes   []Attribute `json:"attributes"`
	Sources      []SourceID  `json:"sources"`
}

// InCollection reports whether any source grouped the asset under collectionID.
func (a *ReconciledAsset) InCollection(collectionID string) bool {
	for _, c := range a.Collections {
		if strings.EqualFold(c, collectionID) {
			return true
		}
	}
	return false
}

// HasTrait reports whether the asset carries traitType (case-insensitive) with traitValue.
func (a *ReconciledAsset) HasTrait(traitType, traitValue string) bool {
	for _, attr := range a.Attributes {
		if strings.EqualFold(attr.Type, traitType) && attr.Value == traitValue {
			return true
		}
	}
	return false
}

// HasSource reports whether id reported the asset.
func (a *ReconciledAsset) HasSource(id SourceID) bool {
	for _, s := range a.Sources {
		if s == id {
			return true
		}
	}
	return false
}

// DiscoveryResult is the reconciled view of a wallet's holdings
type DiscoveryResult struct {
	Assets    []ReconciledAsset         `json:"assets"`
	PerSource map[SourceID]SourceReport `json:"perSource"`
}

// AllSourcesFailed reports whether no source produced a usable answer.
func (r *DiscoveryResult) AllSourcesFailed() bool {
	if len(r.PerSource) == 0 {
		return false
	}
	for _, rep := range r.PerSource {
		if rep.Error == "" {
			return false
		}
	}
	return true
}

// ParseAttributes normalizes raw metadata attributes into canonical form.
// Accepted encodings:
//
//	[{"trait_type": "Background", "value": "Red"}]
//	[{"type": "Background", "value": "Red"}]
//	{"Background": "Red"}
//
// Non-string values are stringified. Entries without a type are dropped.
func ParseAttributes(raw json.RawMessage) []Attribute {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var items []map[string]any
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		out := make([]Attribute, 0, len(items))
		for _, item := range items {
			typ := stringifyAttr(firstPresent(item, "trait_type", "traitType", "type", "key"))
			if typ == "" {
				continue
			}
			out = append(out, Attribute{Type: typ, Value: stringifyAttr(item["value"])})
		}
		return out
	}

	var kv map[string]any
	if err := json.Unmarshal(raw, &kv); err != nil {
		return nil
	}
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Attribute, 0, len(keys))
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			continue
		}
		out = append(out, Attribute{Type: k, Value: stringifyAttr(kv[k])})
	}
	return out
}

func firstPresent(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringifyAttr(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
