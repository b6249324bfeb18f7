package claim

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeClaimLayout(t *testing.T) {
	amount := big.NewInt(123)
	proof := []common.Hash{
		common.HexToHash("0x01"),
		common.HexToHash("0x02"),
	}

	data, err := EncodeClaim(amount, proof)
	require.NoError(t, err)

	selector := gethcrypto.Keccak256([]byte("claim(uint256,bytes32[])"))[:4]
	assert.Equal(t, selector, data[:4])

	// head: uint256 amount, then offset to the dynamic proof array
	assert.Equal(t, common.LeftPadBytes(amount.Bytes(), 32), data[4:36])
	assert.Equal(t, common.LeftPadBytes(big.NewInt(64).Bytes(), 32), data[36:68])

	// tail: array length then the two entries
	assert.Equal(t, common.LeftPadBytes(big.NewInt(2).Bytes(), 32), data[68:100])
	assert.Equal(t, proof[0].Bytes(), data[100:132])
	assert.Equal(t, proof[1].Bytes(), data[132:164])
	assert.Len(t, data, 164)
}

func TestEncodeClaimEmptyProof(t *testing.T) {
	data, err := EncodeClaim(big.NewInt(1), nil)
	require.NoError(t, err)
	// selector + amount + offset + zero length
	assert.Len(t, data, 4+32+32+32)
}
