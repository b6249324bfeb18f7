package runner

import (
	"context"
	"math/big"

	"github.com/Boer2333/mindnetwork/internal/claim"
	"github.com/Boer2333/mindnetwork/internal/wallet"
)

// processWallet runs the whole per-wallet pipeline: sign, eligibility with
// retries, optional on-chain claim, outcome. Every failure path returns a
// recorded outcome instead of escaping to the pool.
func (p *Pool) processWallet(ctx context.Context, rec wallet.Record) Outcome {
	sig, err := rec.SignMessage(p.opts.SignMessage)
	if err != nil {
		p.logf("wallet %s: sign: %v", rec.Address.Hex(), err)
		return errorOutcome(rec, err)
	}

	res, err := p.fetch(ctx, rec, sig)
	if err != nil {
		p.logf("wallet %s: eligibility: %v", rec.Address.Hex(), err)
		return errorOutcome(rec, err)
	}

	amount := claim.ParseAmount(res.Amount)
	if amount.Sign() == 0 {
		// Checking runs historically record nothing-to-claim as a plain
		// zero-amount success; claiming runs call it out.
		if p.opts.PerformClaim {
			return Outcome{Address: rec.Address.Hex(), Amount: "0", AmountWei: big.NewInt(0), Status: StatusNoEligibility}
		}
		return Outcome{Address: rec.Address.Hex(), Amount: "0", AmountWei: big.NewInt(0), Status: StatusSuccess}
	}

	out := Outcome{
		Address:   rec.Address.Hex(),
		Amount:    claim.FormatAmount(amount),
		AmountWei: amount,
		Status:    StatusSuccess,
	}
	if !p.opts.PerformClaim {
		return out
	}

	proof, err := claim.NormalizeProof(res.Proof)
	if err != nil {
		p.logf("wallet %s: proof: %v", rec.Address.Hex(), err)
		return errorOutcome(rec, err)
	}

	included, err := p.claimer.Claim(ctx, rec, amount, proof)
	if err != nil {
		p.logf("wallet %s: claim: %v", rec.Address.Hex(), err)
		return errorOutcome(rec, err)
	}
	if !included {
		out.Status = StatusFailed
	}
	return out
}

func errorOutcome(rec wallet.Record, _ error) Outcome {
	return Outcome{Address: rec.Address.Hex(), Amount: "0", AmountWei: big.NewInt(0), Status: StatusError}
}
