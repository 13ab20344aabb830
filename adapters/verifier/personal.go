// Package verifier checks personal-message signatures: the client signs the
// challenge message with its account key and we recover the signer address
// from the signature.
package verifier

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"

	"github.com/sui-direct/node/ports"
)

// PersonalVerifier recovers the signer of an EIP-191 personal-sign message
// and compares it to the claimed address.
type PersonalVerifier struct{}

func NewPersonalVerifier() ports.SignatureVerifier {
	return PersonalVerifier{}
}

// Verify reports whether signature over message was produced by address.
func (PersonalVerifier) Verify(message []byte, signature, address string) (bool, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return false, fmt.Errorf("decoding signature: %w", err)
	}
	if len(sig) != 65 {
		return false, fmt.Errorf("signature must be 65 bytes, got %d", len(sig))
	}

	// Wallets emit V as 27/28; recovery wants 0/1.
	sig = append([]byte(nil), sig...)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	hash := accounts.TextHash(message)
	pub, err := gethcrypto.SigToPub(hash, sig)
	if err != nil {
		return false, fmt.Errorf("recovering signer: %w", err)
	}

	recovered := gethcrypto.PubkeyToAddress(*pub)
	claimed := common.HexToAddress(strings.TrimSpace(address))
	return recovered == claimed, nil
}
