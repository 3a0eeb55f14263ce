// Package panel is the interactive note editor: a single text area bound to
// one example identifier, autosaving as the user types.
package panel

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/scratchpad/pkg/autosave"
	"github.com/aretw0/scratchpad/pkg/core"
	"github.com/aretw0/scratchpad/pkg/export"
)

// StatusDuration is how long a status message stays visible.
const StatusDuration = 2 * time.Second

const (
	statusSaved      = "Saved"
	statusCleared    = "Cleared"
	statusClearedAll = "All notes cleared"
	statusCopied     = "Copied to clipboard!"
	statusCopyFail   = "Copy failed"
	confirmClearAll  = "Clear all notes? (y/n)"
	emptySelection   = "Select a story to add notes."
	placeholder      = "Write feedback for this story..."
	helpLine         = "ctrl+s save • esc done • ctrl+d clear • ctrl+x clear all • ctrl+y copy all • ctrl+c quit"
)

var copyToClipboard = export.Copy

type savedMsg autosave.Result

type statusExpiredMsg struct {
	seq int
}

type styles struct {
	Title   lipgloss.Style
	Badge   lipgloss.Style
	Status  lipgloss.Style
	Warning lipgloss.Style
	Help    lipgloss.Style
	Empty   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7D56F4")),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF8700")).
			Bold(true),
		Help: lipgloss.NewStyle().
			Faint(true),
		Empty: lipgloss.NewStyle().
			Italic(true).
			Faint(true),
	}
}

// Model is the Bubble Tea model of the panel.
type Model struct {
	ctx     context.Context
	session *autosave.Session
	title   string
	input   textarea.Model
	saves   chan autosave.Result
	styles  styles

	count      int
	status     string
	statusSeq  int
	confirming bool
	quitting   bool
}

// New loads the note of id and returns a focused editor for it.
// An empty id produces a panel that only shows a selection hint.
func New(ctx context.Context, store *core.Store, id, title string, opts ...autosave.Option) Model {
	saves := make(chan autosave.Result, 16)
	opts = append(opts, autosave.WithOnSave(func(r autosave.Result) {
		select {
		case saves <- r:
		default:
		}
	}))
	session := autosave.New(store, id, title, opts...)

	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.SetWidth(72)
	ta.SetHeight(8)
	ta.SetValue(session.Load(ctx))
	if id != "" {
		ta.Focus()
	}

	return Model{
		ctx:     ctx,
		session: session,
		title:   title,
		input:   ta,
		saves:   saves,
		styles:  defaultStyles(),
		count:   session.Count(ctx),
	}
}

// Session returns the autosave session behind the panel.
func (m Model) Session() *autosave.Session {
	return m.session
}

// Value returns the current editor text.
func (m Model) Value() string {
	return m.input.Value()
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.waitForSave())
}

// waitForSave delivers debounced saves, which happen off the UI goroutine.
func (m Model) waitForSave() tea.Cmd {
	saves := m.saves
	return func() tea.Msg {
		return savedMsg(<-saves)
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if msg.Width > 4 {
			m.input.SetWidth(msg.Width - 4)
		}
		return m, nil

	case savedMsg:
		m.count = msg.Count
		return m, m.waitForSave()

	case statusExpiredMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if !m.input.Focused() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.session.FlushSilent(m.ctx, m.input.Value())
		m.quitting = true
		return m, tea.Quit
	}

	if m.session.ID() == "" {
		return m, nil
	}

	if m.confirming {
		m.confirming = false
		if msg.String() == "y" || msg.String() == "Y" {
			m.session.ClearAll(m.ctx)
			m.input.Reset()
			m.count = 0
			cmd := m.setStatus(statusClearedAll)
			return m, cmd
		}
		m.status = ""
		return m, nil
	}

	switch msg.Type {
	case tea.KeyCtrlS:
		m.session.Flush(m.ctx, m.input.Value())
		m.count = m.session.Count(m.ctx)
		cmd := m.setStatus(statusSaved)
		return m, cmd

	case tea.KeyEsc:
		if !m.input.Focused() {
			cmd := m.input.Focus()
			return m, cmd
		}
		m.input.Blur()
		m.session.Flush(m.ctx, m.input.Value())
		m.count = m.session.Count(m.ctx)
		cmd := m.setStatus(statusSaved)
		return m, cmd

	case tea.KeyCtrlD:
		m.session.Clear(m.ctx)
		m.input.Reset()
		m.count = m.session.Count(m.ctx)
		cmd := m.setStatus(statusCleared)
		return m, cmd

	case tea.KeyCtrlX:
		m.confirming = true
		m.status = confirmClearAll
		m.statusSeq++
		return m, nil

	case tea.KeyCtrlY:
		text := m.session.CopyAll(m.ctx, m.input.Value())
		m.count = m.session.Count(m.ctx)
		if err := copyToClipboard(text); err != nil {
			cmd := m.setStatus(statusCopyFail)
			return m, cmd
		}
		cmd := m.setStatus(statusCopied)
		return m, cmd

	case tea.KeyEnter:
		if !m.input.Focused() {
			cmd := m.input.Focus()
			return m, cmd
		}
	}

	if !m.input.Focused() {
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.session.Change(after)
	}
	return m, cmd
}

// setStatus shows text and schedules its removal. Older timers are ignored
// through the sequence number.
func (m *Model) setStatus(text string) tea.Cmd {
	m.status = text
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(StatusDuration, func(time.Time) tea.Msg {
		return statusExpiredMsg{seq: seq}
	})
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.session.ID() == "" {
		return m.styles.Empty.Render(emptySelection) + "\n"
	}

	header := m.styles.Title.Render(m.heading())
	if m.count > 0 {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, " ", m.styles.Badge.Render(countLabel(m.count)))
	}

	status := ""
	if m.status != "" {
		style := m.styles.Status
		if m.confirming {
			style = m.styles.Warning
		}
		status = style.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		m.input.View(),
		status,
		m.styles.Help.Render(helpLine),
	) + "\n"
}

func (m Model) heading() string {
	if m.title != "" {
		return m.title
	}
	return m.session.ID()
}

func countLabel(n int) string {
	if n == 1 {
		return "1 note"
	}
	return fmt.Sprintf("%d notes", n)
}

// Run opens the panel on the terminal and blocks until the user quits.
func Run(ctx context.Context, store *core.Store, id, title string, opts ...autosave.Option) error {
	m := New(ctx, store, id, title, opts...)
	defer m.session.Close()

	_, err := tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}
