package entities

import "strings"

// ChainType represents the blockchain family a deployment verifies against
type ChainType string

const (
	ChainTypeEVM ChainType = "EVM"
	ChainTypeSVM ChainType = "SVM"
)

// Chain identifies the single chain a deployment gates on
type Chain struct {
	Type    ChainType `json:"type"`
	ChainID string    `json:"chainId"`
}

// GetCAIP2ID returns the CAIP-2 formatted chain ID
func (c *Chain) GetCAIP2ID() string {
	id := strings.TrimSpace(c.ChainID)
	if strings.Contains(id, ":") {
		return id
	}
	switch c.Type {
	case ChainTypeEVM:
		return "eip155:" + id
	case ChainTypeSVM:
		return "solana:" + id
	default:
		return id
	}
}

// ParseChainType maps a config value to a ChainType, defaulting to SVM.
func ParseChainType(v string) ChainType {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case "EVM", "ETHEREUM":
		return ChainTypeEVM
	default:
		return ChainTypeSVM
	}
}
