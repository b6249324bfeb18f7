package eligibility

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Boer2333/mindnetwork/internal/wallet"
)

// Result is one decoded eligibility response.
// Code 0 is the API's success sentinel; Amount is a base-units decimal string
// and Proof the raw merkle proof entries as returned.
type Result struct {
	Code   int
	Amount string
	Proof  []string
}

// StatusError is a non-2xx HTTP response from the eligibility endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("eligibility http %d: %s", e.StatusCode, e.Body)
}

// IsRateLimited reports whether err is an HTTP 429 from the endpoint.
func IsRateLimited(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == http.StatusTooManyRequests
}

// Client queries the airdrop eligibility endpoint.
type Client struct {
	baseURL    string
	appVersion string
	timeout    time.Duration // 0 = no per-request timeout
}

func NewClient(baseURL, appVersion string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, appVersion: appVersion, timeout: timeout}
}

// httpClientFor builds an HTTP client for one wallet, routed through the
// wallet's proxy when it has one. Keep-alives and transport limits mirror the
// RPC client setup.
func (c *Client) httpClientFor(rec wallet.Record) (*http.Client, error) {
	transport := &http.Transport{
		MaxIdleConns:    100,
		IdleConnTimeout: 90 * time.Second,
	}
	if rec.ProxyURL != "" {
		pu, err := url.Parse(rec.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(pu)
	}
	return &http.Client{Timeout: c.timeout, Transport: transport}, nil
}

type apiEnvelope struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Amount string `json:"amount"`
		// Proof arrives JSON-encoded inside the string.
		Proof string `json:"proof"`
	} `json:"data"`
}

// Check performs a single eligibility request for the wallet. One call per
// retry attempt; the retry policy lives in FetchWithRetry.
func (c *Client) Check(ctx context.Context, rec wallet.Record, signature string) (*Result, error) {
	httpc, err := c.httpClientFor(rec)
	if err != nil {
		return nil, err
	}

	u := c.baseURL + "/eligibility?wallet=" + rec.Address.Hex() + "&signature=" + url.QueryEscape(signature)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Origin", "https://airdrop.mindnetwork.xyz")
	req.Header.Set("Referer", "https://airdrop.mindnetwork.xyz/")
	req.Header.Set("X-App-Version", c.appVersion)

	resp, err := httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: trimBody(body)}
	}

	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w (body: %s)", err, trimBody(body))
	}

	res := &Result{Code: env.Code, Amount: env.Data.Amount}
	if env.Data.Proof != "" {
		if err := json.Unmarshal([]byte(env.Data.Proof), &res.Proof); err != nil {
			return nil, fmt.Errorf("decode proof: %w", err)
		}
	}
	return res, nil
}

func trimBody(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
