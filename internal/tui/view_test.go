package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/0x6d61/mcpick/internal/scanner"
)

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

func TestView_NotReady(t *testing.T) {
	m := New(testDescs(), Options{})

	output := m.View()

	if !strings.Contains(output, "Loading") {
		t.Errorf("expected loading message before the first resize, got %q", output)
	}
}

func TestView_ListsValidConfigs(t *testing.T) {
	m := readyModel(t, testDescs(), Options{})

	output := m.View()

	for _, want := range []string{"MCPICK", "alpha", "beta", "gamma", "0/3 selected", "1 invalid"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in view output", want)
		}
	}
	if !strings.Contains(output, "›") {
		t.Error("expected cursor marker in view output")
	}
	if strings.Contains(output, "unexpected end of JSON input") {
		t.Error("expected invalid errors to stay hidden by default")
	}
}

func TestView_SelectedCount(t *testing.T) {
	m := readyModel(t, testDescs(), Options{})
	m, _ = press(t, m, keyRune('a'))

	output := m.View()

	if !strings.Contains(output, "3/3 selected") {
		t.Error("expected 3/3 selected after selecting all")
	}
	if !strings.Contains(output, "[x]") {
		t.Error("expected checked boxes after selecting all")
	}
}

func TestView_InvalidSection(t *testing.T) {
	m := readyModel(t, testDescs(), Options{})

	m, _ = press(t, m, keyRune('i'))
	output := m.View()
	if !strings.Contains(output, "✗ broken") {
		t.Error("expected invalid config name once the section is shown")
	}
	if strings.Contains(output, "unexpected end of JSON input") {
		t.Error("expected errors collapsed until e is pressed")
	}

	m, _ = press(t, m, keyRune('e'))
	output = m.View()
	if !strings.Contains(output, "unexpected end of JSON input") {
		t.Error("expected error detail once expanded")
	}
}

func TestView_NoValidConfigs(t *testing.T) {
	descs := []scanner.Descriptor{{Name: "bad", Path: "/cfg/bad.json", Error: "mcpServers.x.command: required"}}
	m := readyModel(t, descs, Options{})

	output := m.View()

	for _, want := range []string{"No valid MCP configs found.", "✗ bad", "mcpServers.x.command: required", "Press any key"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in empty-state view", want)
		}
	}
}

func TestView_PreviewPane(t *testing.T) {
	m := readyModel(t, testDescs(), Options{})
	m, _ = press(t, m, keyRune('p'))

	output := m.View()
	if !strings.Contains(output, "alpha.json") {
		t.Error("expected preview title for the file under the cursor")
	}
	if !strings.Contains(output, "Loading...") {
		t.Error("expected loading indicator while the preview is in flight")
	}

	m, _ = press(t, m, previewLoadedMsg{path: "/cfg/alpha.json", content: `"mcpServers": {}`})
	output = m.View()
	if !strings.Contains(output, `"mcpServers": {}`) {
		t.Error("expected preview content after the read completes")
	}
}

func TestView_NarrowTerminal(t *testing.T) {
	m := New(testDescs(), Options{})
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 20, Height: 5}, keyRune('p'))

	if m.View() == "" {
		t.Error("expected a view even on a tiny terminal")
	}
}

func TestView_InvalidSectionReachableInLongList(t *testing.T) {
	var descs []scanner.Descriptor
	for i := 0; i < 30; i++ {
		name := fmt.Sprintf("cfg%02d", i)
		descs = append(descs, scanner.Descriptor{Name: name, Path: "/cfg/" + name + ".json", Description: name, Valid: true})
	}
	descs = append(descs, scanner.Descriptor{Name: "zbroken", Path: "/cfg/zbroken.json", Error: "JSON syntax error: unexpected EOF"})

	m := New(descs, Options{})
	m, _ = press(t, m, tea.WindowSizeMsg{Width: 100, Height: 20}, keyRune('i'), keyRune('e'))
	for i := 0; i < 40; i++ {
		m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}

	output := m.View()

	if m.cursor != 29 {
		t.Fatalf("expected cursor on the last valid row, got %d", m.cursor)
	}
	for _, want := range []string{"cfg29", "Invalid configs", "✗ zbroken", "unexpected EOF"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in view output after scrolling to the end", want)
		}
	}
	if strings.Contains(output, "cfg00") {
		t.Error("expected the top of the list to be scrolled away")
	}
}

func TestView_HelpShowsErrorsKeyOnlyWithInvalidSection(t *testing.T) {
	m := readyModel(t, testDescs(), Options{})
	m.help.Width = 0

	if strings.Contains(m.help.View(m.keys), "e errors") {
		t.Error("expected the errors key to be hidden while the invalid section is collapsed")
	}

	m, _ = press(t, m, keyRune('i'))
	if !strings.Contains(m.help.View(m.keys), "e errors") {
		t.Error("expected the errors key in the footer once the invalid section is shown")
	}

	m, _ = press(t, m, keyRune('i'))
	if strings.Contains(m.help.View(m.keys), "e errors") {
		t.Error("expected the errors key to be hidden again")
	}
}
