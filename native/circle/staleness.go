package circle

import (
	"fmt"
	"strings"
	"time"
)

// StalenessLevel classifies how much the mirrored data should be trusted.
type StalenessLevel string

const (
	StaleFresh    StalenessLevel = "fresh"
	StaleWarning  StalenessLevel = "warning"
	StaleCritical StalenessLevel = "critical"
)

const (
	stalenessWarnSeconds = 300
	stalenessCritSeconds = 900
	maxErrorLength       = 120
)

// StalenessVerdict is the point-in-time indexer-health classification. It
// gates a warning banner only; eligibility decisions never consult it.
type StalenessVerdict struct {
	Level StalenessLevel `json:"level"`
	Title string         `json:"title,omitempty"`
	Age   string         `json:"age,omitempty"`
	Error string         `json:"error,omitempty"`
}

// CheckFreshness classifies the snapshot's indexer-health fields against the
// current time. A verdict of StaleFresh means no banner.
func CheckFreshness(snap *Snapshot, now time.Time) StalenessVerdict {
	if snap == nil {
		return StalenessVerdict{Level: StaleFresh}
	}
	lastOk := secondsAgo(snap.LastIndexedAt, now)
	lastAttempt := secondsAgo(snap.LastAttemptAt, now)
	errText := collapseWhitespace(snap.LastIndexerError)
	hasError := errText != ""

	stale := hasError
	if lastOk != nil {
		stale = *lastOk >= stalenessWarnSeconds
	}
	if !stale {
		return StalenessVerdict{Level: StaleFresh}
	}

	critical := hasError
	if lastOk != nil {
		critical = *lastOk >= stalenessCritSeconds
	}

	verdict := StalenessVerdict{Level: StaleWarning, Title: "Sync delayed"}
	if critical {
		verdict.Level = StaleCritical
		verdict.Title = "Chain sync delayed"
	}
	switch {
	case lastOk != nil:
		verdict.Age = "Last sync: " + formatAge(*lastOk)
	case lastAttempt != nil:
		verdict.Age = "Last attempt: " + formatAge(*lastAttempt)
	default:
		verdict.Age = "Sync status unknown"
	}
	if hasError {
		verdict.Error = truncate(errText, maxErrorLength)
	}
	return verdict
}

// secondsAgo returns the non-negative age of an ISO timestamp, nil when the
// value is absent or unparseable. Negative ages clamp to zero to tolerate
// clock skew between the indexer and the client.
func secondsAgo(iso string, now time.Time) *int64 {
	at := parseUnix(iso)
	if at == nil {
		return nil
	}
	age := now.Unix() - *at
	if age < 0 {
		age = 0
	}
	return &age
}

func formatAge(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	if minutes < 1 {
		return fmt.Sprintf("%ds ago", seconds)
	}
	hours := minutes / 60
	if hours < 1 {
		return fmt.Sprintf("%dm ago", minutes)
	}
	return fmt.Sprintf("%dh %dm ago", hours, minutes%60)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
