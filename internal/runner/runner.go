package runner

import (
	"context"
	"math/big"
	"math/rand"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Boer2333/mindnetwork/internal/eligibility"
	"github.com/Boer2333/mindnetwork/internal/wallet"
)

// Status is the recorded outcome class for one wallet.
type Status string

const (
	StatusSuccess       Status = "success"
	StatusFailed        Status = "failed"
	StatusNoEligibility Status = "no_eligibility"
	StatusError         Status = "error"
)

// Outcome is the single record produced for one wallet. Outcomes are emitted
// in completion order, which under concurrency differs from input order.
type Outcome struct {
	Address   string
	Amount    string // human decimal, 18-dec scaling
	AmountWei *big.Int
	Status    Status
}

// Stats is folded from the outcome list in one pass after the pool drains,
// so pipelines never share mutable counters.
type Stats struct {
	Success        int
	Failed         int
	TotalClaimable *big.Int
}

// Claimer submits an on-chain claim for an eligible wallet.
// *claim.Submitter satisfies it.
type Claimer interface {
	Claim(ctx context.Context, rec wallet.Record, amount *big.Int, proof []common.Hash) (bool, error)
}

// Options tune the pool. Zero values fall back to the deployment defaults.
type Options struct {
	Concurrency  int
	PerformClaim bool
	SignMessage  string

	// Startup and per-wallet pacing. Zero picks the deployment defaults,
	// negative disables the pause entirely (tests rely on that). The
	// defaults throttle bursts that trip API-side rate limits.
	Stagger        time.Duration
	CooldownBase   time.Duration
	CooldownJitter time.Duration

	Logf func(format string, a ...any)
}

const (
	defaultStagger        = 2000 * time.Millisecond
	defaultCooldownBase   = 3000 * time.Millisecond
	defaultCooldownJitter = 4000 * time.Millisecond
)

// Pool processes a wallet list with bounded concurrency.
type Pool struct {
	fetcher eligibility.Fetcher
	claimer Claimer
	opts    Options

	// fetch wraps the eligibility call in the retry policy; tests swap it.
	fetch func(ctx context.Context, rec wallet.Record, signature string) (*eligibility.Result, error)
}

func New(fetcher eligibility.Fetcher, claimer Claimer, opts Options) *Pool {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	p := &Pool{fetcher: fetcher, claimer: claimer, opts: opts}
	p.fetch = func(ctx context.Context, rec wallet.Record, signature string) (*eligibility.Result, error) {
		return eligibility.FetchWithRetry(ctx, p.fetcher, rec, signature)
	}
	return p
}

func (p *Pool) logf(format string, a ...any) {
	if p.opts.Logf != nil {
		p.opts.Logf(format, a...)
	}
}

// Run processes every wallet exactly once with at most Concurrency wallets in
// flight. Workers pull indices from a shared queue until it drains; initial
// worker launches are staggered, and each worker cools down between wallets.
// A per-wallet failure is converted into an error outcome and never aborts
// sibling workers.
func (p *Pool) Run(ctx context.Context, wallets []wallet.Record) ([]Outcome, Stats) {
	workers := p.opts.Concurrency
	if workers > len(wallets) {
		workers = len(wallets)
	}

	jobs := make(chan int, len(wallets))
	for i := range wallets {
		jobs <- i
	}
	close(jobs)

	outcomes := make(chan Outcome, len(wallets))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			sleepCtx(ctx, time.Duration(slot)*p.stagger())
			p.work(ctx, wallets, jobs, outcomes)
		}(w)
	}
	wg.Wait()
	close(outcomes)

	collected := make([]Outcome, 0, len(wallets))
	for o := range outcomes {
		collected = append(collected, o)
	}
	return collected, Fold(collected)
}

// work drains the shared queue from one concurrency slot.
func (p *Pool) work(ctx context.Context, wallets []wallet.Record, jobs <-chan int, outcomes chan<- Outcome) {
	for idx := range jobs {
		rec := wallets[idx]

		// A cancelled run still owes one outcome per wallet.
		if ctx.Err() != nil {
			outcomes <- errorOutcome(rec, ctx.Err())
			continue
		}

		o := p.processWallet(ctx, rec)
		outcomes <- o
		p.logf("[%d/%d] %s -> %s (amount %s)", idx+1, len(wallets), o.Address, o.Status, o.Amount)

		sleepCtx(ctx, p.cooldown())
	}
}

func (p *Pool) stagger() time.Duration {
	switch {
	case p.opts.Stagger > 0:
		return p.opts.Stagger
	case p.opts.Stagger < 0:
		return 0
	default:
		return defaultStagger
	}
}

// cooldown returns the randomized pause taken after each wallet.
func (p *Pool) cooldown() time.Duration {
	base, jitter := p.opts.CooldownBase, p.opts.CooldownJitter
	if base == 0 && jitter == 0 {
		base, jitter = defaultCooldownBase, defaultCooldownJitter
	}
	if base < 0 {
		base = 0
	}
	if jitter <= 0 {
		return base
	}
	return base + time.Duration(rand.Int63n(int64(jitter)))
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// Fold reduces outcomes into run statistics in a single pass.
func Fold(outcomes []Outcome) Stats {
	st := Stats{TotalClaimable: big.NewInt(0)}
	for _, o := range outcomes {
		switch o.Status {
		case StatusSuccess:
			st.Success++
			if o.AmountWei != nil {
				st.TotalClaimable.Add(st.TotalClaimable, o.AmountWei)
			}
		case StatusFailed, StatusError:
			st.Failed++
		}
	}
	return st
}
