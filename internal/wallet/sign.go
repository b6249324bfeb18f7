package wallet

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// SignMessage produces an EIP-191 personal signature over msg with the
// record's key. The result is 0x-hex with the usual V offset of 27, which is
// what the eligibility endpoint verifies against.
func (r Record) SignMessage(msg string) (string, error) {
	pk, err := r.Key()
	if err != nil {
		return "", fmt.Errorf("parse key: %w", err)
	}
	sig, err := gethcrypto.Sign(accounts.TextHash([]byte(msg)), pk)
	if err != nil {
		return "", fmt.Errorf("sign message: %w", err)
	}
	sig[64] += 27
	return hexutil.Encode(sig), nil
}
