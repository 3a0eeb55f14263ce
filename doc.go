// Package scratchpad is the composition root for the scratchpad note store.
//
// Scratchpad attaches free-text notes to UI component examples (stories),
// keyed by the example identifier, and keeps all of them as a single JSON
// value under one well-known key of a key-value storage medium.
//
// Features:
//
//   - **Single-value persistence**: every write re-saves the whole map, so the
//     stored value is always one consistent JSON object.
//   - **Corruption tolerant**: unreadable data reads as "no notes" and is
//     overwritten by the next save.
//   - **Pluggable media**: filesystem (default), SQLite, or memory, selected
//     with WithAdapter or injected with WithStorage.
//   - **Editor support**: the autosave package debounces typing and flushes
//     on blur.
//
// Usage:
//
//	store, err := scratchpad.New("./notes", scratchpad.WithAdapter("fs"))
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	store.SaveNote(ctx, "button--primary", "Padding looks off", "Button/Primary")
//	fmt.Println(scratchpad.FormatForExport(store.GetAll(ctx)))
package scratchpad
