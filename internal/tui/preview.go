package tui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-runewidth"
)

// ellipsis marks content cut off at the pane edge.
const ellipsis = "…"

// previewLoadedMsg carries a finished preview read, tagged with the path it was issued for.
type previewLoadedMsg struct {
	path    string
	content string
}

// loadPreview reads path in the background and formats it for a width x height pane.
// Read errors come back as preview text.
func loadPreview(path string, width, height int, highlight bool, readFile func(string) ([]byte, error)) tea.Cmd {
	return func() tea.Msg {
		data, err := readFile(path)
		return previewLoadedMsg{
			path:    path,
			content: formatPreview(data, err, width, height, highlight),
		}
	}
}

// formatPreview pretty-prints JSON, truncates it to the pane and optionally highlights it.
func formatPreview(data []byte, readErr error, width, height int, highlight bool) string {
	if readErr != nil {
		return clip(fmt.Sprintf("Error reading file: %v", readErr), width, height)
	}

	text := string(data)
	isJSON := false
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err == nil {
		text = buf.String()
		isJSON = true
	}

	if !highlight || !isJSON {
		return clip(text, width, height)
	}

	// glamour の dark スタイルはコードブロックに左右マージンを付けるため、その分を先に削る。
	const glamourMargin = 4
	clipped := clip(text, max(10, width-glamourMargin), height)
	rendered, err := renderJSON(clipped)
	if err != nil {
		return clipped
	}
	return rendered
}

// clip limits text to height lines of at most width cells, marking cuts with an ellipsis.
func clip(text string, width, height int) string {
	text = strings.ReplaceAll(text, "\t", "  ")
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")

	truncated := false
	if height > 0 && len(lines) > height {
		lines = lines[:max(0, height-1)]
		truncated = true
	}
	for i, line := range lines {
		lines[i] = runewidth.Truncate(line, width, ellipsis)
	}
	if truncated {
		lines = append(lines, ellipsis)
	}
	return strings.Join(lines, "\n")
}

// renderJSON renders text as a highlighted JSON code block.
// WithAutoStyle は非 TTY で plain にフォールバックするので dark を明示する。
func renderJSON(text string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(0),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render("```json\n" + text + "\n```\n")
	if err != nil {
		return "", err
	}
	return strings.Trim(out, "\n"), nil
}
