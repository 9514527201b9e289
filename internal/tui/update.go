package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model and routes all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.handleResize(msg.Width, msg.Height)
		m.ready = true
		if m.showPreview {
			return m, m.requestPreview(true)
		}
		return m, nil

	// Spinner only animates while a preview read is in flight.
	case spinner.TickMsg:
		if !m.preview.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case previewLoadedMsg:
		m.applyPreview(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey applies one key press to the selection state.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state != StateSelecting {
		return m, nil
	}

	// Nothing to select: any key continues with an empty selection.
	if len(m.configs) == 0 {
		m.state = StateCommitted
		return m, tea.Quit
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.state = StateCancelled
		return m, tea.Quit

	case key.Matches(msg, m.keys.Confirm):
		m.state = StateCommitted
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.moveCursor(-1) && m.showPreview {
			return m, m.requestPreview(false)
		}

	case key.Matches(msg, m.keys.Down):
		if m.moveCursor(1) && m.showPreview {
			return m, m.requestPreview(false)
		}

	case key.Matches(msg, m.keys.Toggle):
		if m.selected[m.cursor] {
			delete(m.selected, m.cursor)
		} else {
			m.selected[m.cursor] = true
		}

	case key.Matches(msg, m.keys.All):
		for i := range m.configs {
			m.selected[i] = true
		}

	case key.Matches(msg, m.keys.Clear):
		m.selected = make(map[int]bool)

	case key.Matches(msg, m.keys.Preview):
		m.showPreview = !m.showPreview
		if m.ready {
			m.handleResize(m.width, m.height)
		}
		if m.showPreview {
			return m, m.requestPreview(true)
		}
		m.preview = previewState{}

	case key.Matches(msg, m.keys.Invalid):
		m.showInvalid = !m.showInvalid
		m.keys.ExpandErrors.SetEnabled(m.showInvalid)

	case key.Matches(msg, m.keys.ExpandErrors):
		if m.showInvalid {
			m.expandErrors = !m.expandErrors
		}
	}

	return m, nil
}

// moveCursor moves the cursor by delta, clamped to the valid list. Reports whether it moved.
func (m *Model) moveCursor(delta int) bool {
	next := m.cursor + delta
	if next < 0 {
		next = 0
	}
	if next > len(m.configs)-1 {
		next = len(m.configs) - 1
	}
	if next == m.cursor {
		return false
	}
	m.cursor = next
	return true
}

// handleResize recomputes the list and preview pane dimensions.
func (m *Model) handleResize(w, h int) {
	m.width = w
	m.height = h

	pw, ph := m.previewSize()
	if !m.ready {
		m.viewport = viewport.New(pw, ph)
	} else {
		m.viewport.Width = pw
		m.viewport.Height = ph
	}
	m.help.Width = w
}

// layout returns the list width and the preview pane's outer width.
func (m *Model) layout() (listW, previewOuterW int) {
	if !m.showPreview {
		return m.width, 0
	}
	listW = m.width / 2
	return listW, m.width - listW
}

// bodyHeight is the height left for the list and preview between header and footer.
func (m *Model) bodyHeight() int {
	const (
		headerH = 2 // header bar + blank line
		footerH = 2 // blank line + help
	)
	h := m.height - headerH - footerH
	if h < 3 {
		h = 3
	}
	return h
}

// previewSize returns the inner content size of the preview pane.
func (m *Model) previewSize() (int, int) {
	const (
		paneHBorder = 4 // rounded border + horizontal padding
		paneVBorder = 3 // rounded border + title line
	)
	_, outer := m.layout()
	w := outer - paneHBorder
	if w < 10 {
		w = 10
	}
	h := m.bodyHeight() - paneVBorder
	if h < 1 {
		h = 1
	}
	return w, h
}

// requestPreview starts an async read of the file under the cursor.
// Unless force is set, an already loaded preview for the same path is reused.
func (m *Model) requestPreview(force bool) tea.Cmd {
	d := m.current()
	if d == nil {
		return nil
	}
	if !force && m.preview.path == d.Path && !m.preview.loading {
		return nil
	}
	w, h := m.previewSize()
	m.preview = previewState{path: d.Path, loading: true}
	return tea.Batch(loadPreview(d.Path, w, h, m.highlight, m.readFile), m.spinner.Tick)
}

// applyPreview stores a finished preview read, dropping results for files no longer under the cursor.
func (m *Model) applyPreview(msg previewLoadedMsg) {
	if !m.showPreview {
		return
	}
	d := m.current()
	if d == nil || d.Path != msg.path {
		return
	}
	m.preview = previewState{path: msg.path, content: msg.content}
	m.viewport.SetContent(msg.content)
	m.viewport.GotoTop()
}
