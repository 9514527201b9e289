package tui

import (
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/0x6d61/mcpick/internal/scanner"
)

// Run shows the full-screen selector and blocks until the user commits or cancels.
// A cancelled selection (q, ctrl+c) returns an empty slice and no error.
// in/out default to the process terminal when nil.
func Run(descs []scanner.Descriptor, opts Options, in io.Reader, out io.Writer) ([]scanner.Descriptor, error) {
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if in != nil {
		progOpts = append(progOpts, tea.WithInput(in))
	}
	if out != nil {
		progOpts = append(progOpts, tea.WithOutput(out))
	}

	p := tea.NewProgram(New(descs, opts), progOpts...)
	final, err := p.Run()
	if err != nil {
		if errors.Is(err, tea.ErrInterrupted) {
			return nil, nil
		}
		return nil, fmt.Errorf("tui: failed to run selector: %w", err)
	}

	m, ok := final.(Model)
	if !ok {
		return nil, fmt.Errorf("tui: unexpected final model %T", final)
	}
	return m.Result(), nil
}
