// Package selector は入出力に合わせて選択画面の種類を決めて実行し、
// 結果をプロジェクトごとにキャッシュへ保存する。
package selector

import (
	"context"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/0x6d61/mcpick/internal/prompt"
	"github.com/0x6d61/mcpick/internal/scanner"
	"github.com/0x6d61/mcpick/internal/selcache"
	"github.com/0x6d61/mcpick/internal/tui"
)

// Mode は選択画面の種類。
type Mode int

const (
	ModeFullScreen Mode = iota
	ModePrompt
)

func (m Mode) String() string {
	if m == ModeFullScreen {
		return "full-screen"
	}
	return "prompt"
}

// Options は Selector の入出力とキャッシュの設定。
type Options struct {
	In  io.Reader
	Out io.Writer

	ProjectDir string
	ConfigDir  string
	// Store は選択のキャッシュ。nil なら読み書きしない
	Store *selcache.Store

	// Preselect はフルスクリーン画面でキャッシュ済みの設定を選択済みにして始める。
	// 行入力では常に空入力で前回の選択を使える
	Preselect bool
	Highlight bool
}

// Selector は1回分の選択を実行する。
type Selector struct {
	opts Options

	isTerminal func(any) bool
	runTUI     func([]scanner.Descriptor, tui.Options, io.Reader, io.Writer) ([]scanner.Descriptor, error)
	runPrompt  func(context.Context, []scanner.Descriptor, prompt.Options) ([]scanner.Descriptor, error)
}

// New は Selector を作る。入出力が nil ならプロセスの stdin/stdout を使う。
func New(opts Options) *Selector {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Selector{
		opts:       opts,
		isTerminal: isTerminal,
		runTUI:     tui.Run,
		runPrompt:  prompt.Select,
	}
}

// Mode は Select が使う画面を返す。入出力の両方が端末のときだけフルスクリーンになる。
func (s *Selector) Mode() Mode {
	if s.isTerminal(s.opts.In) && s.isTerminal(s.opts.Out) {
		return ModeFullScreen
	}
	return ModePrompt
}

// Select は descs から使う設定を選ばせ、結果をキャッシュに保存する。
// キャッシュの書き込みに失敗しても警告ログだけ出して選択結果は返す。
func (s *Selector) Select(ctx context.Context, descs []scanner.Descriptor) ([]scanner.Descriptor, error) {
	var previous []string
	if s.opts.Store != nil {
		previous = s.opts.Store.Load(s.opts.ProjectDir, s.opts.ConfigDir)
	}

	var (
		picked []scanner.Descriptor
		err    error
	)
	switch s.Mode() {
	case ModeFullScreen:
		topts := tui.Options{Highlight: s.opts.Highlight}
		if s.opts.Preselect {
			topts.Preselect = previous
		}
		picked, err = s.runTUI(descs, topts, s.opts.In, s.opts.Out)
	default:
		picked, err = s.runPrompt(ctx, descs, prompt.Options{
			In:       s.opts.In,
			Out:      s.opts.Out,
			Previous: previous,
		})
	}
	if err != nil {
		return nil, err
	}

	if s.opts.Store != nil {
		names := make([]string, 0, len(picked))
		for _, d := range picked {
			names = append(names, d.Name)
		}
		if err := s.opts.Store.Save(s.opts.ProjectDir, s.opts.ConfigDir, names); err != nil {
			log.Printf("[cache] WARNING: failed to save selection: %v", err)
		}
	}
	return picked, nil
}

// fdStream は *os.File などファイルディスクリプタを持つストリーム。
type fdStream interface {
	Fd() uintptr
}

func isTerminal(stream any) bool {
	f, ok := stream.(fdStream)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
