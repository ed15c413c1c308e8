package circle

import (
	"testing"
	"time"
)

func TestReadSchedule(t *testing.T) {
	now := time.Unix(1_700_000_000, 0).UTC()
	snap := &Snapshot{
		DueAt:       now.Add(-10 * time.Second).Format(time.RFC3339),
		GraceEndAt:  now.Add(100 * time.Second).Format(time.RFC3339),
		RevealEndAt: "not-a-timestamp",
	}
	phase := int64(2)
	snap.OnchainPhase = &phase

	sched := ReadSchedule(snap, now)
	if sched.Now != now.Unix() {
		t.Fatalf("now = %d, want %d", sched.Now, now.Unix())
	}
	if sched.DueAt == nil || *sched.DueAt != now.Unix()-10 {
		t.Fatalf("due = %v, want %d", sched.DueAt, now.Unix()-10)
	}
	if sched.GraceEnd == nil || *sched.GraceEnd != now.Unix()+100 {
		t.Fatalf("grace = %v, want %d", sched.GraceEnd, now.Unix()+100)
	}
	if sched.RevealEnd != nil {
		t.Fatalf("unparseable reveal deadline must read as nil, got %d", *sched.RevealEnd)
	}
	if sched.CommitEnd != nil {
		t.Fatal("absent commit deadline must read as nil")
	}
	if sched.Phase == nil || *sched.Phase != 2 {
		t.Fatalf("phase = %v, want 2", sched.Phase)
	}
}

func TestReadScheduleNilSnapshot(t *testing.T) {
	sched := ReadSchedule(nil, time.Unix(42, 0))
	if sched.DueAt != nil || sched.Phase != nil || sched.Now != 42 {
		t.Fatalf("unexpected schedule for nil snapshot: %+v", sched)
	}
}

func TestPhaseAllows(t *testing.T) {
	var sched Schedule
	if !sched.PhaseAllows(PhaseFunding) {
		t.Fatal("unknown phase must allow every gate")
	}
	phase := PhaseReveal
	sched.Phase = &phase
	if !sched.PhaseAllows(PhaseCommit, PhaseReveal) {
		t.Fatal("phase 2 must satisfy a gate listing it")
	}
	if sched.PhaseAllows(PhaseFunding) {
		t.Fatal("phase 2 must not satisfy a funding-only gate")
	}
}

func TestAuctionOpen(t *testing.T) {
	now := int64(1_000)
	commit := int64(900)
	reveal := int64(1_100)
	sched := Schedule{Now: now, CommitEnd: &commit, RevealEnd: &reveal}
	if !sched.AuctionOpen() {
		t.Fatal("window with future reveal end must be open")
	}
	past := int64(999)
	sched.RevealEnd = &past
	if sched.AuctionOpen() {
		t.Fatal("window past reveal end must be closed")
	}
	sched.RevealEnd = &reveal
	sched.CommitEnd = nil
	if sched.AuctionOpen() {
		t.Fatal("window without commit deadline must be closed")
	}
}
