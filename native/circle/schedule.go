package circle

import (
	"strings"
	"time"
)

// Schedule is the normalised deadline/phase view of a snapshot relative to a
// single evaluation instant. Every field that the mirror may omit is a
// pointer; absence always means "unknown", never "epoch zero", and callers
// must branch on nil before comparing against Now.
type Schedule struct {
	DueAt     *int64
	GraceEnd  *int64
	RevealEnd *int64
	CommitEnd *int64
	// Phase is the contract-reported phase code, nil when the indexer has
	// not yet read one. Eligibility gates treat nil permissively so that
	// liveness actions stay reachable while the mirror catches up.
	Phase *int64
	Now   int64
}

// ReadSchedule normalises the snapshot's optional ISO timestamps to Unix
// seconds. Unparseable values degrade to nil.
func ReadSchedule(snap *Snapshot, now time.Time) Schedule {
	s := Schedule{Now: now.Unix()}
	if snap == nil {
		return s
	}
	s.DueAt = parseUnix(snap.DueAt)
	s.GraceEnd = parseUnix(snap.GraceEndAt)
	s.RevealEnd = parseUnix(snap.RevealEndAt)
	s.CommitEnd = parseUnix(snap.CommitEndAt)
	if snap.OnchainPhase != nil {
		phase := *snap.OnchainPhase
		s.Phase = &phase
	}
	return s
}

// PhaseAllows reports whether the schedule's phase is one of the given codes.
// An unknown phase allows everything.
func (s Schedule) PhaseAllows(codes ...int64) bool {
	if s.Phase == nil {
		return true
	}
	for _, c := range codes {
		if *s.Phase == c {
			return true
		}
	}
	return false
}

// AuctionOpen reports whether a commit/reveal auction window is currently
// accepting participation.
func (s Schedule) AuctionOpen() bool {
	return s.CommitEnd != nil && s.RevealEnd != nil && s.Now < *s.RevealEnd
}

func parseUnix(iso string) *int64 {
	trimmed := strings.TrimSpace(iso)
	if trimmed == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, trimmed)
	if err != nil {
		return nil
	}
	sec := t.Unix()
	return &sec
}
