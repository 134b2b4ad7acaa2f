// Package walletsig checks that a wallet signed a challenge message.
package walletsig

import (
	"errors"
	"fmt"
	"strings"
)

const (
	SchemeSolana = "solana"
	SchemeEVM    = "evm"
)

var (
	ErrInvalidAddress   = errors.New("invalid wallet address")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Verifier validates addresses and signatures of one chain family
type Verifier interface {
	Scheme() string
	// ValidateAddress returns ErrInvalidAddress when addr is malformed.
	ValidateAddress(addr string) error
	// SameAddress compares two valid addresses with the family's case rules.
	SameAddress(a, b string) bool
	// Verify returns ErrInvalidSignature unless signature is a signature of
	// message by the key behind address.
	Verify(message []byte, signature, address string) error
}

// New returns the verifier for scheme
func New(scheme string) (Verifier, error) {
	switch strings.ToLower(strings.TrimSpace(scheme)) {
	case SchemeSolana, "svm", "":
		return SolanaVerifier{}, nil
	case SchemeEVM, "ethereum":
		return EVMVerifier{}, nil
	default:
		return nil, fmt.Errorf("unsupported signature scheme %q", scheme)
	}
}
