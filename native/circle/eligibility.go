package circle

import (
	"fmt"
	"time"
)

// Contract phase codes as reported by the indexer.
const (
	PhaseFunding int64 = 0
	PhaseCommit  int64 = 1
	PhaseReveal  int64 = 2
	PhaseDefault int64 = 3
)

// CTA is a navigational call-to-action for the hosting UI, in priority order.
type CTA struct {
	Label string `json:"label"`
	Route string `json:"route"`
}

// Eligibility is the decision object: which liveness triggers are currently
// legal to attempt and which navigational actions apply. Recomputed wholesale
// on every tick; nothing here is stateful.
type Eligibility struct {
	CanRunDebit         bool  `json:"can_run_debit"`
	CanFinalizeAuction  bool  `json:"can_finalize_auction"`
	CanTerminateDefault bool  `json:"can_terminate_default"`
	CTAs                []CTA `json:"ctas"`
}

// Evaluate combines status, schedule, phase and member balances into the set
// of permitted actions.
//
// The liveness gates fail open on an unknown phase and fail closed on timing:
// a member must always be able to attempt a legitimate action when the mirror
// lags, but obviously-early or obviously-late attempts are suppressed. The
// contract is the final authority either way; a rejected call is an ordinary
// failure, not a logic error.
func Evaluate(snap *Snapshot, member *Member, now time.Time) Eligibility {
	var out Eligibility
	if snap == nil {
		return out
	}
	sched := ReadSchedule(snap, now)
	hasContract := snap.ContractAddress != ""

	out.CanRunDebit = hasContract &&
		sched.DueAt != nil && sched.GraceEnd != nil &&
		sched.Now >= *sched.DueAt && sched.Now < *sched.GraceEnd &&
		sched.PhaseAllows(PhaseFunding) &&
		sched.CommitEnd == nil

	out.CanFinalizeAuction = hasContract &&
		sched.RevealEnd != nil && sched.Now >= *sched.RevealEnd &&
		sched.PhaseAllows(PhaseCommit, PhaseReveal) &&
		snap.Status == StatusActive

	out.CanTerminateDefault = hasContract &&
		sched.GraceEnd != nil && sched.Now >= *sched.GraceEnd &&
		sched.CommitEnd == nil &&
		sched.PhaseAllows(PhaseDefault, PhaseFunding) &&
		(snap.Status == StatusLocked || snap.Status == StatusActive)

	out.CTAs = callsToAction(snap, member, sched)
	return out
}

func callsToAction(snap *Snapshot, member *Member, sched Schedule) []CTA {
	var out []CTA
	route := func(page string) string {
		return fmt.Sprintf("/circle/%s/%s", snap.ID, page)
	}
	switch snap.Status {
	case StatusRecruiting:
		if !member.OnchainJoined() {
			out = append(out, CTA{Label: "Join Circle", Route: route("join")})
			return out
		}
		label := "Exit Circle"
		if member.Deposits().Sign() > 0 {
			label = "Exit & Refund"
		}
		out = append(out, CTA{Label: label, Route: route("withdraw")})
	case StatusActive:
		if member != nil && member.Withdrawable.Sign() > 0 {
			out = append(out, CTA{Label: "Withdraw Now", Route: route("withdraw")})
		}
		if sched.AuctionOpen() {
			out = append(out, CTA{Label: "Go to Auction", Route: route("auction")})
		}
	case StatusCompleted, StatusTerminated, StatusEmergencyStop:
		out = append(out, CTA{Label: "Withdraw All", Route: route("withdraw")})
	}
	// Locked and unknown statuses expose read-only views only.
	return out
}
