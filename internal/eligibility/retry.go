package eligibility

import (
	"context"
	"fmt"
	"time"

	"github.com/Boer2333/mindnetwork/internal/wallet"
)

const maxAttempts = 5

// ErrRetriesExhausted wraps the last attempt's error once the budget is spent.
var ErrRetriesExhausted = fmt.Errorf("eligibility retries exhausted")

// Fetcher is the single-attempt eligibility call. *Client satisfies it.
type Fetcher interface {
	Check(ctx context.Context, rec wallet.Record, signature string) (*Result, error)
}

// sleepFn is swapped out in tests.
var sleepFn = waitBeforeRetry

// FetchWithRetry wraps one eligibility request in the bounded retry policy:
// up to maxAttempts attempts, a longer wait after provider rate limiting
// (HTTP 429) and a short linear wait otherwise. A response whose code is not
// the success sentinel counts as a failed attempt. On exhaustion the last
// error is surfaced; no partial result is returned.
func FetchWithRetry(ctx context.Context, f Fetcher, rec wallet.Record, signature string) (*Result, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		res, err := f.Check(ctx, rec, signature)
		if err == nil {
			if res.Code == 0 {
				return res, nil
			}
			err = fmt.Errorf("api code %d", res.Code)
		}
		lastErr = err

		if attempt == maxAttempts {
			break
		}
		if werr := sleepFn(ctx, backoffDelay(attempt, IsRateLimited(err))); werr != nil {
			return nil, werr
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrRetriesExhausted, lastErr)
}

// backoffDelay computes the wait after failed attempt k (k starting at 1).
func backoffDelay(attempt int, rateLimited bool) time.Duration {
	if rateLimited {
		return time.Duration(5000+attempt*2000) * time.Millisecond
	}
	return time.Duration(attempt*1000) * time.Millisecond
}

func waitBeforeRetry(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
