// Package tui implements the full-screen Bubble Tea selector for MCP configs.
package tui

import (
	"os"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/0x6d61/mcpick/internal/scanner"
)

// State is the selector's position in its lifecycle.
type State int

const (
	StateSelecting State = iota // awaiting input
	StateCommitted              // enter pressed; selection is final
	StateCancelled              // q / ctrl+c; selection is empty
)

// Options configures a selector Model.
type Options struct {
	// Preselect names configs that start out selected.
	// Left empty the selector starts with nothing selected.
	Preselect []string
	// Highlight renders the preview through glamour.
	Highlight bool
	// ReadFile loads preview content. Defaults to os.ReadFile.
	ReadFile func(string) ([]byte, error)
	// Title overrides the header label.
	Title string
}

// previewState tracks the preview pane. path tags the content so that
// a late read for a file no longer under the cursor can be dropped.
type previewState struct {
	path    string
	content string
	loading bool
}

// Model is the root Bubble Tea model for the config selector.
type Model struct {
	width  int
	height int
	ready  bool
	state  State
	title  string

	configs []scanner.Descriptor // valid only, selectable
	invalid []scanner.Descriptor

	cursor       int
	selected     map[int]bool
	showPreview  bool
	showInvalid  bool
	expandErrors bool

	preview   previewState
	viewport  viewport.Model
	spinner   spinner.Model
	help      help.Model
	keys      keyMap
	highlight bool
	readFile  func(string) ([]byte, error)
}

// New builds a selector over descs. Invalid descriptors are listed but never selectable.
func New(descs []scanner.Descriptor, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorWarning)

	readFile := opts.ReadFile
	if readFile == nil {
		readFile = os.ReadFile
	}
	title := opts.Title
	if title == "" {
		title = "Select MCP configs"
	}

	m := Model{
		title:     title,
		configs:   scanner.ValidOnly(descs),
		invalid:   scanner.InvalidOnly(descs),
		selected:  make(map[int]bool),
		spinner:   s,
		help:      help.New(),
		keys:      defaultKeyMap(),
		highlight: opts.Highlight,
		readFile:  readFile,
	}

	// e only applies while the invalid section is visible.
	m.keys.ExpandErrors.SetEnabled(false)

	if len(opts.Preselect) > 0 {
		want := make(map[string]bool, len(opts.Preselect))
		for _, name := range opts.Preselect {
			want[name] = true
		}
		for i, d := range m.configs {
			if want[d.Name] {
				m.selected[i] = true
			}
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// State reports whether the selector is still running, committed or cancelled.
func (m Model) State() State {
	return m.state
}

// Result returns the committed selection in list order.
// It is empty unless the selector ended in StateCommitted.
func (m Model) Result() []scanner.Descriptor {
	if m.state != StateCommitted {
		return nil
	}
	var out []scanner.Descriptor
	for i, d := range m.configs {
		if m.selected[i] {
			out = append(out, d)
		}
	}
	return out
}

// current returns the descriptor under the cursor, or nil if there are no valid configs.
func (m *Model) current() *scanner.Descriptor {
	if m.cursor < 0 || m.cursor >= len(m.configs) {
		return nil
	}
	return &m.configs[m.cursor]
}

// selectedCount returns how many valid configs are selected.
func (m *Model) selectedCount() int {
	n := 0
	for i := range m.configs {
		if m.selected[i] {
			n++
		}
	}
	return n
}
