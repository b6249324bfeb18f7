package runner

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Boer2333/mindnetwork/internal/eligibility"
	"github.com/Boer2333/mindnetwork/internal/wallet"
)

// fakeFetcher resolves eligibility by wallet address; it always reports the
// success sentinel so the retry loop is a pass-through here.
type fakeFetcher struct {
	mu      sync.Mutex
	amounts map[common.Address]string
	proofs  map[common.Address][]string
	errs    map[common.Address]error
	calls   int
}

func (f *fakeFetcher) Check(_ context.Context, rec wallet.Record, _ string) (*eligibility.Result, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if err := f.errs[rec.Address]; err != nil {
		return nil, err
	}
	return &eligibility.Result{Code: 0, Amount: f.amounts[rec.Address], Proof: f.proofs[rec.Address]}, nil
}

type fakeClaimer struct {
	mu       sync.Mutex
	included bool
	err      error
	claims   []common.Address
}

func (c *fakeClaimer) Claim(_ context.Context, rec wallet.Record, _ *big.Int, _ []common.Hash) (bool, error) {
	c.mu.Lock()
	c.claims = append(c.claims, rec.Address)
	c.mu.Unlock()
	return c.included, c.err
}

func testOptions(performClaim bool, concurrency int) Options {
	return Options{
		Concurrency:    concurrency,
		PerformClaim:   performClaim,
		SignMessage:    "test disclosure",
		Stagger:        -1,
		CooldownBase:   -1,
		CooldownJitter: -1,
	}
}

func newTestWallet(t *testing.T) wallet.Record {
	t.Helper()
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	return wallet.Record{
		Address:    gethcrypto.PubkeyToAddress(key.PublicKey),
		PrivateKey: hexutil.Encode(gethcrypto.FromECDSA(key)),
	}
}

const oneToken = "1000000000000000000"

func TestRunOneOutcomePerWallet(t *testing.T) {
	for _, concurrency := range []int{1, 3, 5} {
		wallets := make([]wallet.Record, 5)
		f := &fakeFetcher{amounts: map[common.Address]string{}, errs: map[common.Address]error{}}
		for i := range wallets {
			wallets[i] = newTestWallet(t)
			f.amounts[wallets[i].Address] = oneToken
		}
		// one wallet errors out at the eligibility stage
		f.errs[wallets[2].Address] = errors.New("api down")

		pool := New(f, nil, testOptions(false, concurrency))
		// single-attempt fetch; the retry schedule has its own tests
		pool.fetch = func(ctx context.Context, rec wallet.Record, sig string) (*eligibility.Result, error) {
			return f.Check(ctx, rec, sig)
		}
		outcomes, stats := pool.Run(context.Background(), wallets)

		require.Len(t, outcomes, len(wallets), "concurrency %d", concurrency)
		seen := map[string]int{}
		for _, o := range outcomes {
			seen[o.Address]++
		}
		for _, w := range wallets {
			assert.Equal(t, 1, seen[w.Address.Hex()], "concurrency %d", concurrency)
		}
		assert.Equal(t, 4, stats.Success)
		assert.Equal(t, 1, stats.Failed)
	}
}

func TestRunSigningFailureDoesNotBlockOthers(t *testing.T) {
	good := newTestWallet(t)
	bad := wallet.Record{
		Address:    common.HexToAddress("0x00000000000000000000000000000000000000bb"),
		PrivateKey: "not hex",
	}
	f := &fakeFetcher{amounts: map[common.Address]string{good.Address: oneToken}}

	pool := New(f, nil, testOptions(false, 2))
	outcomes, _ := pool.Run(context.Background(), []wallet.Record{bad, good})

	require.Len(t, outcomes, 2)
	byAddr := map[string]Outcome{}
	for _, o := range outcomes {
		byAddr[o.Address] = o
	}
	assert.Equal(t, StatusError, byAddr[bad.Address.Hex()].Status)
	assert.Equal(t, "0", byAddr[bad.Address.Hex()].Amount)
	assert.Equal(t, StatusSuccess, byAddr[good.Address.Hex()].Status)
	assert.Equal(t, "1.0", byAddr[good.Address.Hex()].Amount)
}

func TestRunZeroAmountStatusPerMode(t *testing.T) {
	w := newTestWallet(t)
	f := &fakeFetcher{amounts: map[common.Address]string{w.Address: "0"}}

	// claiming run calls out the missing eligibility
	pool := New(f, &fakeClaimer{}, testOptions(true, 1))
	outcomes, _ := pool.Run(context.Background(), []wallet.Record{w})
	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusNoEligibility, outcomes[0].Status)
	assert.Equal(t, "0", outcomes[0].Amount)

	// checking run records a plain zero-amount success
	pool = New(f, nil, testOptions(false, 1))
	outcomes, stats := pool.Run(context.Background(), []wallet.Record{w})
	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusSuccess, outcomes[0].Status)
	assert.Equal(t, "0", outcomes[0].Amount)
	assert.Equal(t, 0, stats.TotalClaimable.Sign())
}

func TestRunClaimOutcomes(t *testing.T) {
	w := newTestWallet(t)
	f := &fakeFetcher{
		amounts: map[common.Address]string{w.Address: oneToken},
		proofs:  map[common.Address][]string{w.Address: {"abc", "0x01"}},
	}

	// mined with status 1
	c := &fakeClaimer{included: true}
	pool := New(f, c, testOptions(true, 1))
	outcomes, stats := pool.Run(context.Background(), []wallet.Record{w})
	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusSuccess, outcomes[0].Status)
	assert.Equal(t, []common.Address{w.Address}, c.claims)
	assert.Equal(t, oneToken, stats.TotalClaimable.String())

	// mined but reverted
	pool = New(f, &fakeClaimer{included: false}, testOptions(true, 1))
	outcomes, stats = pool.Run(context.Background(), []wallet.Record{w})
	assert.Equal(t, StatusFailed, outcomes[0].Status)
	assert.Equal(t, 1, stats.Failed)

	// submit error
	pool = New(f, &fakeClaimer{err: errors.New("rpc down")}, testOptions(true, 1))
	outcomes, _ = pool.Run(context.Background(), []wallet.Record{w})
	assert.Equal(t, StatusError, outcomes[0].Status)
}

func TestRunBadProofIsError(t *testing.T) {
	w := newTestWallet(t)
	f := &fakeFetcher{
		amounts: map[common.Address]string{w.Address: oneToken},
		proofs:  map[common.Address][]string{w.Address: {"zz not hex"}},
	}
	c := &fakeClaimer{included: true}

	pool := New(f, c, testOptions(true, 1))
	outcomes, _ := pool.Run(context.Background(), []wallet.Record{w})
	require.Len(t, outcomes, 1)
	assert.Equal(t, StatusError, outcomes[0].Status)
	assert.Empty(t, c.claims)
}

func TestFold(t *testing.T) {
	outcomes := []Outcome{
		{Status: StatusSuccess, AmountWei: big.NewInt(100)},
		{Status: StatusSuccess, AmountWei: big.NewInt(50)},
		{Status: StatusFailed, AmountWei: big.NewInt(9999)},
		{Status: StatusError, AmountWei: big.NewInt(0)},
		{Status: StatusNoEligibility, AmountWei: big.NewInt(0)},
	}
	st := Fold(outcomes)
	assert.Equal(t, 2, st.Success)
	assert.Equal(t, 2, st.Failed)
	assert.Equal(t, "150", st.TotalClaimable.String())
}

func TestRunCancelledContextStillYieldsOutcomes(t *testing.T) {
	wallets := []wallet.Record{newTestWallet(t), newTestWallet(t), newTestWallet(t)}
	f := &fakeFetcher{amounts: map[common.Address]string{}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pool := New(f, nil, testOptions(false, 2))
	outcomes, _ := pool.Run(ctx, wallets)
	require.Len(t, outcomes, len(wallets))
	for _, o := range outcomes {
		assert.Equal(t, StatusError, o.Status)
	}
}
