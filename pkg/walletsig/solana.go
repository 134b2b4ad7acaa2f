package walletsig

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"github.com/mr-tron/base58"
)

// SolanaVerifier checks ed25519 signatures by base58 encoded public keys.
// Signatures are accepted as base58, hex or base64.
type SolanaVerifier struct{}

func (SolanaVerifier) Scheme() string { return SchemeSolana }

func (SolanaVerifier) ValidateAddress(addr string) error {
	_, err := decodeSolanaKey(addr)
	return err
}

func (SolanaVerifier) SameAddress(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

func (SolanaVerifier) Verify(message []byte, signature, address string) error {
	pub, err := decodeSolanaKey(address)
	if err != nil {
		return err
	}
	sig, ok := decodeSolanaSignature(signature)
	if !ok {
		return ErrInvalidSignature
	}
	if !ed25519.Verify(pub, message, sig) {
		return ErrInvalidSignature
	}
	return nil
}

func decodeSolanaKey(addr string) (ed25519.PublicKey, error) {
	raw, err := base58.Decode(strings.TrimSpace(addr))
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, ErrInvalidAddress
	}
	return ed25519.PublicKey(raw), nil
}

func decodeSolanaSignature(s string) ([]byte, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if raw, err := base58.Decode(s); err == nil && len(raw) == ed25519.SignatureSize {
		return raw, true
	}
	if raw, err := hex.DecodeString(strings.TrimPrefix(s, "0x")); err == nil && len(raw) == ed25519.SignatureSize {
		return raw, true
	}
	if raw, err := base64.StdEncoding.DecodeString(s); err == nil && len(raw) == ed25519.SignatureSize {
		return raw, true
	}
	return nil, false
}
