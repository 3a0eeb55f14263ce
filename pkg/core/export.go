package core

import "strings"

const (
	// ExportHeading opens every non-empty export.
	ExportHeading = "## Storybook Feedback"
	// EmptyExport is returned when there is nothing to export.
	EmptyExport = "No notes to copy."
)

// FormatForExport renders notes as Markdown for pasting elsewhere: a heading,
// then one "### <id>" section per note. Note text is copied verbatim, line
// breaks included.
//
// Sections are sorted byte-wise by identifier, not by the key order of the
// stored document. NotesMap carries no order, and SaveAll writes keys sorted,
// so a document written by another tool exports in the same order it will
// have after the next save.
func FormatForExport(notes NotesMap) string {
	if len(notes) == 0 {
		return EmptyExport
	}

	lines := []string{ExportHeading, ""}
	for _, id := range SortedIDs(notes) {
		lines = append(lines, "### "+id, notes[id].Note, "")
	}
	return strings.Join(lines, "\n")
}
