// Package core holds the note domain: the NoteRecord model, the storage
// contract and the Store that persists every note as a single JSON value.
package core

import "time"

// StorageKey is the well-known key the whole NotesMap lives under.
// Nothing but Store may write under it.
const StorageKey = "storybook-scratchpad-notes"

// TimestampLayout mirrors the ISO-8601 form browsers produce with
// Date.prototype.toISOString (UTC, millisecond precision).
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// NoteRecord is one user annotation for one component example.
type NoteRecord struct {
	Note       string `json:"note" yaml:"note"`
	UpdatedAt  string `json:"updatedAt" yaml:"updatedAt"`
	StoryTitle string `json:"storyTitle,omitempty" yaml:"storyTitle,omitempty"`
}

// Time parses UpdatedAt. Records written by other tools may carry
// arbitrary strings, so callers must handle the error.
func (r NoteRecord) Time() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, r.UpdatedAt)
}

// NotesMap maps an example identifier to its note.
// It is the entire persisted state.
type NotesMap map[string]NoteRecord

// Entry is a NotesMap item with its identifier attached.
type Entry struct {
	ID         string `json:"id" yaml:"id"`
	NoteRecord `yaml:",inline"`
}

// FormatTimestamp renders t the way UpdatedAt is stored.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
