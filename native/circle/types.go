package circle

import (
	"bytes"
	"encoding/json"
	"math/big"
	"strings"
)

// Status is the lifecycle state mirrored from the backend. The engine only
// ever reads it; transitions happen on-chain and are replayed by the indexer.
type Status string

const (
	StatusRecruiting    Status = "Recruiting"
	StatusLocked        Status = "Locked"
	StatusActive        Status = "Active"
	StatusCompleted     Status = "Completed"
	StatusTerminated    Status = "Terminated"
	StatusEmergencyStop Status = "EmergencyStop"
)

// Valid reports whether the status value is within the supported set.
func (s Status) Valid() bool {
	switch s {
	case StatusRecruiting, StatusLocked, StatusActive, StatusCompleted, StatusTerminated, StatusEmergencyStop:
		return true
	default:
		return false
	}
}

// Display returns the human-facing rendering of the status. Only
// EmergencyStop is aliased; everything else displays verbatim.
func (s Status) Display() string {
	if s == StatusEmergencyStop {
		return "Emergency Stop"
	}
	return string(s)
}

// Units is a non-negative token amount in minor units as received from the
// mirror. Backends are inconsistent about encoding amounts as JSON numbers or
// strings, and partially-indexed members can miss fields entirely, so any
// value that fails to parse decodes as zero rather than failing the payload.
type Units struct {
	value *big.Int
}

// NewUnits wraps a big.Int amount. Nil is treated as zero.
func NewUnits(v *big.Int) Units {
	if v == nil {
		return Units{}
	}
	return Units{value: new(big.Int).Set(v)}
}

// BigInt returns the amount as a fresh big.Int, never nil.
func (u Units) BigInt() *big.Int {
	if u.value == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(u.value)
}

// Sign reports the sign of the amount, 0 for unset.
func (u Units) Sign() int {
	if u.value == nil {
		return 0
	}
	return u.value.Sign()
}

func (u *Units) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		u.value = nil
		return nil
	}
	var s string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			u.value = nil
			return nil
		}
	} else {
		s = string(raw)
	}
	v, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok || v.Sign() < 0 {
		u.value = nil
		return nil
	}
	u.value = v
	return nil
}

func (u Units) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.BigInt().String())
}

// Snapshot is the immutable view of a circle at fetch time, exactly as the
// mirror reported it. Deadline fields stay raw ISO strings here; ReadSchedule
// normalises them per evaluation tick.
type Snapshot struct {
	ID                string `json:"circle_id"`
	Name              string `json:"name"`
	Status            Status `json:"status"`
	ContractAddress   string `json:"contract_address,omitempty"`
	NMembers          int64  `json:"n_members"`
	ContributionUnits Units  `json:"contribution_units"`
	CollateralRateBps int64  `json:"collateral_rate_bps"`
	OnchainPhase      *int64 `json:"onchain_phase,omitempty"`
	JettonWallet      string `json:"onchain_jetton_wallet,omitempty"`
	DueAt             string `json:"onchain_due_at,omitempty"`
	GraceEndAt        string `json:"onchain_grace_end_at,omitempty"`
	RevealEndAt       string `json:"onchain_reveal_end_at,omitempty"`
	CommitEndAt       string `json:"onchain_commit_end_at,omitempty"`
	LastIndexedAt     string `json:"last_indexed_at,omitempty"`
	LastAttemptAt     string `json:"last_indexer_attempt_at,omitempty"`
	LastIndexerError  string `json:"last_indexer_error,omitempty"`
}

// JoinStatusOnchain is the join-status sentinel meaning the member's join has
// been observed on-chain.
const JoinStatusOnchain = "onchain_joined"

// Member is the per-caller view. A nil *Member means the caller has not
// joined the circle.
type Member struct {
	JoinStatus    string `json:"join_status,omitempty"`
	WalletAddress string `json:"wallet_address,omitempty"`
	Collateral    Units  `json:"collateral"`
	Prefund       Units  `json:"prefund"`
	Credit        Units  `json:"credit"`
	VestingLocked Units  `json:"vesting_locked"`
	FutureLocked  Units  `json:"future_locked"`
	Withdrawable  Units  `json:"withdrawable"`
	DueRemaining  Units  `json:"due_remaining"`
}

// OnchainJoined reports whether the member's join is confirmed on-chain.
func (m *Member) OnchainJoined() bool {
	return m != nil && m.JoinStatus == JoinStatusOnchain
}

// Deposits returns collateral+prefund for an on-chain-joined member, zero
// otherwise. Used to pick the exit CTA label while recruiting.
func (m *Member) Deposits() *big.Int {
	if !m.OnchainJoined() {
		return big.NewInt(0)
	}
	return new(big.Int).Add(m.Collateral.BigInt(), m.Prefund.BigInt())
}
