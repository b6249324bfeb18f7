package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Settings keeps the deployment-level configuration: endpoints, chain and
// the disclosure message. Defaults match the public Mind Network claim
// deployment; run-level knobs (input, output, concurrency, timeouts) live on
// the CLI flags.
type Settings struct {
	RPCURL      string
	ChainID     int64
	ContractHex string
	APIBaseURL  string
	SignMessage string
	AppVersion  string

	ConfirmTimeout time.Duration
}

// Load reads settings from environment supporting both UPPER_CASE and lower_case keys.
func Load() Settings {
	get := func(keys []string, def string) string {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" { return v }
		}
		return def
	}
	getInt64 := func(keys []string, def int64) int64 {
		s := get(keys, "")
		if s == "" { return def }
		if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil { return n }
		return def
	}
	getMS := func(keys []string, def int64) time.Duration {
		return time.Duration(getInt64(keys, def)) * time.Millisecond
	}

	st := Settings{}
	st.RPCURL      = get([]string{"rpc_url", "RPC_URL"}, "https://rpc-mainnet.mindnetwork.xyz")
	st.ChainID     = getInt64([]string{"chain_id", "CHAIN_ID"}, 228)
	st.ContractHex = get([]string{"claim_contract", "CLAIM_CONTRACT"}, "0x9D1f1D96FE4b9ef4Bb7B85eE72e232a6962e3C7b")
	st.APIBaseURL  = get([]string{"api_base_url", "API_BASE_URL"}, "https://airdrop.mindnetwork.xyz/api")
	st.SignMessage = get([]string{"sign_message", "SIGN_MESSAGE"}, "I confirm that I am claiming the Mind Network airdrop with this wallet and accept the airdrop terms.")
	st.AppVersion  = get([]string{"app_version", "APP_VERSION"}, "1.0.3")

	st.ConfirmTimeout = getMS([]string{"confirm_timeout_ms", "CONFIRM_TIMEOUT_MS"}, 180000)

	return st
}
