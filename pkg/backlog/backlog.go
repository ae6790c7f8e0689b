// Package backlog keeps the dialogue history a player can scroll back
// through: every dialogue unit shown so far, oldest first, capped so a
// long session does not grow without bound.
package backlog

import "strings"

// Entry is one dialogue unit as it was shown: the speaker's display
// name (possibly empty for narration) and the joined text.
type Entry struct {
	Speaker string `json:"speaker,omitempty"`
	Text    string `json:"text"`
}

// DefaultLimit is the number of entries kept when none is specified.
const DefaultLimit = 200

// Backlog is an append-only, bounded dialogue history.
type Backlog struct {
	entries []Entry
	limit   int
}

// New creates a backlog keeping at most limit entries; limit <= 0 uses
// DefaultLimit.
func New(limit int) *Backlog {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Backlog{limit: limit}
}

// Add records a dialogue unit. Lines are joined with newlines, matching
// how multi-line text blocks are displayed.
func (b *Backlog) Add(speaker string, lines []string) {
	b.entries = append(b.entries, Entry{Speaker: speaker, Text: strings.Join(lines, "\n")})
	if len(b.entries) > b.limit {
		b.entries = b.entries[len(b.entries)-b.limit:]
	}
}

// Entries returns the history, oldest first. The slice is shared; do
// not mutate it.
func (b *Backlog) Entries() []Entry {
	return b.entries
}

// Len returns the number of entries kept.
func (b *Backlog) Len() int {
	return len(b.entries)
}

// String renders the backlog as plain text, one entry per paragraph.
func (b *Backlog) String() string {
	var sb strings.Builder
	for _, e := range b.entries {
		if e.Speaker != "" {
			sb.WriteString(e.Speaker + ": ")
		}
		sb.WriteString(e.Text + "\n")
	}
	return sb.String()
}
