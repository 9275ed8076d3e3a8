package match

import (
	"strings"
	"time"
)

// Format identifies the playing format that scoring rules depend on.
type Format string

const (
	FormatT20    Format = "T20"
	FormatT10    Format = "T10"
	FormatODI    Format = "ODI"
	FormatTest   Format = "Test"
	FormatLeague Format = "League"
	FormatCup    Format = "Cup"
)

var AllFormats = map[Format]struct{}{
	FormatT20:    {},
	FormatT10:    {},
	FormatODI:    {},
	FormatTest:   {},
	FormatLeague: {},
	FormatCup:    {},
}

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Match is the real-world fixture fantasy contests are built on.
// Status gates contest creation and joining.
type Match struct {
	ID         string
	Sport      string
	Format     Format
	HomeTeamID string
	AwayTeamID string
	Status     Status
	StartsAt   time.Time
}

func NormalizeFormat(raw string) (Format, bool) {
	candidate := strings.TrimSpace(raw)
	for format := range AllFormats {
		if strings.EqualFold(candidate, string(format)) {
			return format, true
		}
	}
	return "", false
}

func NormalizeStatus(raw string) Status {
	return Status(strings.ToLower(strings.TrimSpace(raw)))
}

// Joinable reports whether contests bound to the match may still accept entries.
func (m Match) Joinable() bool {
	return m.Status == StatusUpcoming
}

// AcceptsStatUpdates reports whether operator stat corrections are still allowed.
// Cancelled matches are frozen; completed matches keep accepting corrections
// until archival, which happens outside this core.
func (m Match) AcceptsStatUpdates() bool {
	return m.Status != StatusCancelled
}
