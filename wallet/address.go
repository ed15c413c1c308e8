package wallet

import (
	"strings"

	"github.com/tonkeeper/tongo/ton"
)

// Matches reports whether the connected wallet is the member's bound wallet.
// The same TON address has several textual encodings (raw workchain:hex,
// bounceable and non-bounceable base64), so the comparison is structural over
// the parsed account, never over the raw strings.
//
// The check fails open: a missing address or one that does not parse returns
// true. An incomplete or malformed mirror row must not lock the UI, and a
// genuinely wrong wallet still fails at the contract.
func Matches(connected, bound string) bool {
	connected = strings.TrimSpace(connected)
	bound = strings.TrimSpace(bound)
	if connected == "" || bound == "" {
		return true
	}
	a, err := ton.ParseAccountID(connected)
	if err != nil {
		return true
	}
	b, err := ton.ParseAccountID(bound)
	if err != nil {
		return true
	}
	return a == b
}
