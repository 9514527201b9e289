// Package prompt は stdin か stdout が端末でないときに使う行入力式の選択を実装する。
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/cancelreader"

	"github.com/0x6d61/mcpick/internal/scanner"
)

// ErrInterrupted は入力待ちの間に SIGINT か SIGTERM を受けたときに返る。
var ErrInterrupted = errors.New("prompt: interrupted")

// Options は Select の入出力と前回の選択を指定する。
type Options struct {
	In  io.Reader
	Out io.Writer
	// Previous はキャッシュされた選択。空入力ではこのうち今も有効なものを選び直す
	Previous []string
}

type styles struct {
	index    lipgloss.Style
	name     lipgloss.Style
	desc     lipgloss.Style
	previous lipgloss.Style
	invalid  lipgloss.Style
	hint     lipgloss.Style
}

func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		index:    r.NewStyle().Foreground(lipgloss.Color("#FFD700")),
		name:     r.NewStyle().Bold(true),
		desc:     r.NewStyle().Foreground(lipgloss.Color("#AF87FF")),
		previous: r.NewStyle().Foreground(lipgloss.Color("#87FF5F")),
		invalid:  r.NewStyle().Foreground(lipgloss.Color("#FF5555")),
		hint:     r.NewStyle().Foreground(lipgloss.Color("#555577")),
	}
}

// Select は設定の一覧を表示して1行読み、選ばれた有効な設定を返す。
func Select(ctx context.Context, descs []scanner.Descriptor, opts Options) ([]scanner.Descriptor, error) {
	in := opts.In
	if in == nil {
		in = os.Stdin
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	st := newStyles(out)

	valid := scanner.ValidOnly(descs)
	invalid := scanner.InvalidOnly(descs)

	if len(valid) == 0 {
		fmt.Fprintln(out, "No valid MCP configs found.")
		printInvalid(out, st, invalid)
		return nil, nil
	}

	previous := make(map[string]bool, len(opts.Previous))
	for _, name := range opts.Previous {
		previous[name] = true
	}

	fmt.Fprintln(out, "Available MCP configs:")
	for i, d := range valid {
		line := fmt.Sprintf("  %s %s", st.index.Render(fmt.Sprintf("%d.", i+1)), st.name.Render(d.Name))
		if d.Description != "" && d.Description != d.Name {
			line += "  " + st.desc.Render(d.Description)
		}
		if previous[d.Name] {
			line += " " + st.previous.Render("(previously selected)")
		}
		fmt.Fprintln(out, line)
	}
	printInvalid(out, st, invalid)

	if len(opts.Previous) > 0 {
		fmt.Fprintln(out, st.hint.Render("Press Enter to reuse the previous selection."))
	}
	fmt.Fprint(out, "Select configs (comma-separated numbers, 'all' or 'none'): ")

	line, err := readLine(ctx, in)
	if err != nil {
		return nil, err
	}

	input := strings.TrimSpace(line)
	switch {
	case input == "":
		return reselect(valid, previous), nil
	case input == "none":
		return nil, nil
	case strings.EqualFold(input, "all"):
		return valid, nil
	}

	indices := ParseSelection(input, len(valid))
	if len(indices) == 0 {
		fmt.Fprintln(out, "No valid selections")
		return nil, nil
	}
	picked := make([]scanner.Descriptor, 0, len(indices))
	for _, i := range indices {
		picked = append(picked, valid[i])
	}
	return picked, nil
}

// ParseSelection はカンマ区切りの 1 始まりの番号を 0 始まりのインデックスに変換する。
// [1, n] の整数でないトークンは捨て、重複は最初の位置だけ残す。
func ParseSelection(input string, n int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, tok := range strings.Split(input, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(tok))
		if err != nil || v < 1 || v > n {
			continue
		}
		if seen[v-1] {
			continue
		}
		seen[v-1] = true
		out = append(out, v-1)
	}
	return out
}

func printInvalid(out io.Writer, st styles, invalid []scanner.Descriptor) {
	if len(invalid) == 0 {
		return
	}
	fmt.Fprintln(out, "Invalid MCP configs (not selectable):")
	for _, d := range invalid {
		msg := strings.ReplaceAll(d.Error, "\n", "\n      ")
		fmt.Fprintf(out, "  %s %s\n", st.invalid.Render("✗ "+d.Name+":"), msg)
	}
}

// reselect は previous に含まれる有効な設定を一覧の順で返す。
func reselect(valid []scanner.Descriptor, previous map[string]bool) []scanner.Descriptor {
	var out []scanner.Descriptor
	for _, d := range valid {
		if previous[d.Name] {
			out = append(out, d)
		}
	}
	return out
}

type lineResult struct {
	line string
	err  error
}

// readLine は1行読む。SIGINT/SIGTERM か ctx のキャンセルで読み込みを取り消し、
// 読み込み側を解放してから戻る。取り消した行の入力はストリームに残る。
// 改行のない最終行も受け付け、空のストリームの io.EOF は空入力として扱う。
func readLine(ctx context.Context, in io.Reader) (string, error) {
	r, err := cancelreader.NewReader(in)
	if err != nil {
		// 通常ファイルは epoll に登録できない。ブロックしないのでそのまま読む
		r = nil
	}
	src := in
	if r != nil {
		defer r.Close()
		src = r
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	done := make(chan lineResult, 1)
	go func() {
		line, err := readUntilNewline(src)
		done <- lineResult{line: line, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("prompt: failed to read selection: %w", res.err)
		}
		return res.line, nil
	case <-sigCh:
		cancel(r, done)
		return "", ErrInterrupted
	case <-ctx.Done():
		cancel(r, done)
		return "", ctx.Err()
	}
}

// cancel は読み込みを取り消し、取り消せた場合は読み込みゴルーチンの終了を待つ。
func cancel(r cancelreader.CancelReader, done <-chan lineResult) {
	if r != nil && r.Cancel() {
		<-done
	}
}

// readUntilNewline は1バイトずつ読み、改行の後ろは読まない。
// 後続の入力は起動先のプロセスに渡るため、先読みするバッファは使えない。
func readUntilNewline(r io.Reader) (string, error) {
	var sb strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			sb.WriteByte(buf[0])
			if buf[0] == '\n' {
				return sb.String(), nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return sb.String(), nil
			}
			return sb.String(), err
		}
	}
}
