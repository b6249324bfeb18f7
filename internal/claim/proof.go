package claim

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// NormalizeProofEntry pads one merkle proof entry to the canonical 32-byte
// hex form: no-0x input is accepted, output is 0x-prefixed, left-zero-padded
// to 64 hex chars.
func NormalizeProofEntry(s string) (string, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if h == "" {
		return "", fmt.Errorf("empty proof entry")
	}
	if len(h) > 64 {
		return "", fmt.Errorf("proof entry longer than 32 bytes: %q", s)
	}
	for _, c := range h {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return "", fmt.Errorf("proof entry is not hex: %q", s)
		}
	}
	return "0x" + strings.Repeat("0", 64-len(h)) + h, nil
}

// NormalizeProof converts the raw API proof entries into bytes32 values.
func NormalizeProof(entries []string) ([]common.Hash, error) {
	out := make([]common.Hash, 0, len(entries))
	for i, e := range entries {
		n, err := NormalizeProofEntry(e)
		if err != nil {
			return nil, fmt.Errorf("proof[%d]: %w", i, err)
		}
		out = append(out, common.HexToHash(n))
	}
	return out, nil
}
