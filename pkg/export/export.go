// Package export renders a NotesMap for use outside the store: Markdown for
// pasting into chat or issues, JSON and YAML for other tools.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/scratchpad/pkg/core"
)

// Format names an export rendering.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
)

// ErrUnknownFormat is returned for unsupported format names.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported formats.
func Formats() []Format {
	return []Format{FormatMarkdown, FormatJSON, FormatYAML}
}

// ParseFormat validates a format name. "md" is accepted for Markdown.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatMarkdown, "md", "":
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// Render produces the export document. JSON and YAML render entries as a
// list ordered by identifier.
func Render(notes core.NotesMap, format Format) (string, error) {
	switch format {
	case FormatMarkdown:
		return core.FormatForExport(notes), nil
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries(notes)); err != nil {
			return "", fmt.Errorf("encode json: %w", err)
		}
		return buf.String(), nil
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(entries(notes)); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		return buf.String(), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

func entries(notes core.NotesMap) []core.Entry {
	out := make([]core.Entry, 0, len(notes))
	for _, id := range core.SortedIDs(notes) {
		out = append(out, core.Entry{ID: id, NoteRecord: notes[id]})
	}
	return out
}

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// Copy places text on the system clipboard.
func Copy(text string) error {
	if err := clipboardWriteAll(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}
