package game

import (
	"fmt"
	"strings"
	"time"
)

// SessionReport is a summary of one run, built from the structured log and
// the final snapshot. The headless tool prints these; the desktop build can
// copy one to the clipboard.
type SessionReport struct {
	SessionID string
	Duration  time.Duration

	Intents int
	Ignored int
	Misses  int
	Hits    int
	Kills   int
	ByZone  [ZoneCount]int // kills per zone
	Spawned int
	Leaked  int

	FinalSnapshot StateSnapshot
}

// BuildReport folds the session log into a report.
func BuildReport(s *Session) SessionReport {
	log := s.Log()
	r := SessionReport{
		SessionID:     s.ID,
		FinalSnapshot: s.Snapshot(),
	}
	for _, e := range log.Entries() {
		if e.Elapsed > r.Duration {
			r.Duration = e.Elapsed
		}
		switch e.Category {
		case LogIntent:
			switch e.Key {
			case "received":
				r.Intents++
			case "ignored":
				r.Ignored++
			}
		case LogCombat:
			switch e.Key {
			case "no_target":
				r.Misses++
			case "hit":
				r.Hits++
			case "kill":
				r.Kills++
				for z := ZoneHead; z < ZoneCount; z++ {
					if e.Value == z.String() {
						r.ByZone[z]++
					}
				}
			}
		case LogEnemy:
			switch e.Key {
			case "spawned":
				r.Spawned++
			case "reached":
				r.Leaked++
			}
		}
	}
	return r
}

// Format renders the report as aligned text.
func (r SessionReport) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "session %s (%s)\n", r.SessionID, r.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "  score   %d (wave %d, health %.0f, over=%v)\n",
		r.FinalSnapshot.Score, r.FinalSnapshot.Wave, r.FinalSnapshot.Health, r.FinalSnapshot.IsOver)
	fmt.Fprintf(&b, "  intents %d (ignored %d, misses %d)\n", r.Intents, r.Ignored, r.Misses)
	fmt.Fprintf(&b, "  strikes %d hits, %d kills", r.Hits, r.Kills)
	if r.Kills > 0 {
		var parts []string
		for z := ZoneHead; z < ZoneCount; z++ {
			if r.ByZone[z] > 0 {
				parts = append(parts, fmt.Sprintf("%s %d", z, r.ByZone[z]))
			}
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "  enemies %d spawned, %d leaked\n", r.Spawned, r.Leaked)
	return b.String()
}
