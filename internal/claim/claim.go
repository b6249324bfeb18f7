package claim

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/Boer2333/mindnetwork/internal/wallet"
)

// The claim contract exposes a single method; gas terms are fixed by the
// deployment so we do not estimate.
const (
	claimGasLimit    = 160000
	claimGasPriceWei = 1_020_000_000 // 1.02 gwei
	receiptPollEvery = 3 * time.Second
)

var claimABI abi.ABI

func init() {
	const claimJSON = `[{"inputs":[{"internalType":"uint256","name":"fullAmount","type":"uint256"},{"internalType":"bytes32[]","name":"proof","type":"bytes32[]"}],"name":"claim","outputs":[],"stateMutability":"nonpayable","type":"function"}]`
	ab, _ := abi.JSON(strings.NewReader(claimJSON))
	claimABI = ab
}

// EncodeClaim packs claim(fullAmount, proof) calldata.
func EncodeClaim(amount *big.Int, proof []common.Hash) ([]byte, error) {
	return claimABI.Pack("claim", amount, proof)
}

// Submitter broadcasts claim transactions and waits for confirmation.
type Submitter struct {
	ec             *ethclient.Client
	chainID        *big.Int
	contract       common.Address
	confirmTimeout time.Duration

	Logf func(format string, a ...any)
}

func NewSubmitter(ec *ethclient.Client, chainID *big.Int, contract common.Address, confirmTimeout time.Duration) *Submitter {
	return &Submitter{ec: ec, chainID: chainID, contract: contract, confirmTimeout: confirmTimeout}
}

func (s *Submitter) logf(format string, a ...any) {
	if s.Logf != nil {
		s.Logf(format, a...)
	}
}

// Claim submits claim(amount, proof) from the wallet and waits for the
// receipt. Returns true when the transaction was mined with status 1; false
// with nil error when it was mined but reverted.
func (s *Submitter) Claim(ctx context.Context, rec wallet.Record, amount *big.Int, proof []common.Hash) (bool, error) {
	pk, err := rec.Key()
	if err != nil {
		return false, fmt.Errorf("claim key: %w", err)
	}

	data, err := EncodeClaim(amount, proof)
	if err != nil {
		return false, fmt.Errorf("claim pack: %w", err)
	}

	nonce, err := s.ec.PendingNonceAt(ctx, rec.Address)
	if err != nil {
		return false, fmt.Errorf("nonce: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: big.NewInt(claimGasPriceWei),
		Gas:      claimGasLimit,
		To:       &s.contract,
		Value:    big.NewInt(0),
		Data:     data,
	})
	signed, err := types.SignTx(tx, types.LatestSignerForChainID(s.chainID), pk)
	if err != nil {
		return false, fmt.Errorf("sign tx: %w", err)
	}

	if err := s.ec.SendTransaction(ctx, signed); err != nil {
		return false, fmt.Errorf("send tx: %w", err)
	}
	s.logf("claim tx sent: %s (wallet %s, amount %s)", signed.Hash().Hex(), rec.Address.Hex(), amount.String())

	rcpt, err := s.waitReceipt(ctx, signed.Hash())
	if err != nil {
		return false, err
	}
	return rcpt.Status == types.ReceiptStatusSuccessful, nil
}

// waitReceipt polls until the transaction is mined or the confirmation
// timeout elapses.
func (s *Submitter) waitReceipt(ctx context.Context, h common.Hash) (*types.Receipt, error) {
	deadline := time.Now().Add(s.confirmTimeout)
	for {
		rcpt, err := s.ec.TransactionReceipt(ctx, h)
		if err == nil && rcpt != nil {
			return rcpt, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("confirmation timeout for tx %s", h.Hex())
		}
		t := time.NewTimer(receiptPollEvery)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		}
	}
}
