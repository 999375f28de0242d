package game

import (
	"fmt"
	"strings"
	"time"
)

// Log categories.
const (
	LogIntent = "intent"
	LogCombat = "combat"
	LogEnemy  = "enemy"
	LogWave   = "wave"
	LogState  = "state"
)

// LogEntry is one machine-readable record of something the session did.
type LogEntry struct {
	Elapsed  time.Duration
	Category string
	Key      string
	Value    string
	NumVal   float64
}

// GameLog collects structured entries for reporting and assertions. It is
// only written from the session context, so no locking.
type GameLog struct {
	entries []LogEntry
	start   time.Time
}

func NewGameLog(start time.Time) *GameLog {
	return &GameLog{start: start}
}

func (l *GameLog) Add(now time.Time, category, key, value string, num float64) {
	if l == nil {
		return
	}
	l.entries = append(l.entries, LogEntry{
		Elapsed:  now.Sub(l.start),
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   num,
	})
}

func (l *GameLog) Entries() []LogEntry {
	if l == nil {
		return nil
	}
	return l.entries
}

// Filter returns entries matching category, and key if key is non-empty.
func (l *GameLog) Filter(category, key string) []LogEntry {
	if l == nil {
		return nil
	}
	var out []LogEntry
	for _, e := range l.entries {
		if e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

func (l *GameLog) HasEntry(category, key, value string) bool {
	for _, e := range l.Filter(category, key) {
		if value == "" || e.Value == value {
			return true
		}
	}
	return false
}

func (l *GameLog) CountOf(category, key string) int {
	return len(l.Filter(category, key))
}

// LastOf returns the most recent entry for category/key, or false.
func (l *GameLog) LastOf(category, key string) (LogEntry, bool) {
	entries := l.Filter(category, key)
	if len(entries) == 0 {
		return LogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// Format renders the log as aligned text, one entry per line.
func (l *GameLog) Format() string {
	var b strings.Builder
	for _, e := range l.Entries() {
		fmt.Fprintf(&b, "%8s  %-7s %-16s %s", e.Elapsed.Round(time.Millisecond), e.Category, e.Key, e.Value)
		if e.NumVal != 0 {
			fmt.Fprintf(&b, " (%.1f)", e.NumVal)
		}
		b.WriteByte('\n')
	}
	return b.String()
}
