package walletsig

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// EVMVerifier recovers the signer of an EIP-191 personal_sign message
type EVMVerifier struct{}

func (EVMVerifier) Scheme() string { return SchemeEVM }

func (EVMVerifier) ValidateAddress(addr string) error {
	if !common.IsHexAddress(strings.TrimSpace(addr)) {
		return ErrInvalidAddress
	}
	return nil
}

func (EVMVerifier) SameAddress(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func (v EVMVerifier) Verify(message []byte, signature, address string) error {
	if err := v.ValidateAddress(address); err != nil {
		return err
	}

	signature = strings.TrimSpace(signature)
	if !strings.HasPrefix(signature, "0x") && !strings.HasPrefix(signature, "0X") {
		signature = "0x" + signature
	}
	sig, err := hexutil.Decode(signature)
	if err != nil || len(sig) != crypto.SignatureLength {
		return ErrInvalidSignature
	}
	// wallets emit v as 27/28
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}

	pub, err := crypto.SigToPub(accounts.TextHash(message), sig)
	if err != nil {
		return ErrInvalidSignature
	}
	if crypto.PubkeyToAddress(*pub) != common.HexToAddress(strings.TrimSpace(address)) {
		return ErrInvalidSignature
	}
	return nil
}
