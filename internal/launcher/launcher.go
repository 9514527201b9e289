// Package launcher は選択した MCP 設定を渡して起動先の CLI を実行する。
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"regexp"
	"strings"
	"syscall"

	"github.com/0x6d61/mcpick/internal/scanner"
)

// NotFoundError は起動先のバイナリが見つからないときに返る。
type NotFoundError struct {
	Binary string
	Err    error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("launcher: %s not found", e.Binary)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// Launcher は起動先 CLI のコマンドラインを組み立てて実行する。
type Launcher struct {
	// Binary は PATH から探すコマンド名か、実行ファイルへのパス
	Binary string
	// ConfigFlag は設定ファイルのパスの前に付ける。何も選ばれていなければ付けない
	ConfigFlag string
	// ExtraArgs はパススルー引数の前に入る
	ExtraArgs []string

	// LookPath の既定は exec.LookPath
	LookPath func(string) (string, error)

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Resolve は起動先バイナリの絶対パスを返す。
func (l *Launcher) Resolve() (string, error) {
	name := strings.TrimSpace(l.Binary)
	if name == "" {
		return "", errors.New("launcher: binary name must not be empty")
	}

	if strings.ContainsAny(name, `/\`) {
		abs, err := filepath.Abs(name)
		if err != nil {
			return "", fmt.Errorf("launcher: failed to resolve %q: %w", name, err)
		}
		info, err := os.Stat(abs)
		if err != nil || info.IsDir() {
			return "", &NotFoundError{Binary: name, Err: err}
		}
		return abs, nil
	}

	lookPath := l.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	p, err := lookPath(name)
	if err != nil {
		return "", &NotFoundError{Binary: name, Err: err}
	}
	if !filepath.IsAbs(p) {
		abs, err := filepath.Abs(p)
		if err != nil {
			return "", fmt.Errorf("launcher: resolved path is not absolute: %q", p)
		}
		p = abs
	}
	return p, nil
}

// Args は選択した設定に対する起動先の引数 (バイナリ名を除く) を返す。
func (l *Launcher) Args(configs []scanner.Descriptor, passthrough []string) []string {
	var args []string
	if len(configs) > 0 {
		args = append(args, l.ConfigFlag)
		for _, d := range configs {
			args = append(args, d.Path)
		}
	}
	args = append(args, l.ExtraArgs...)
	return append(args, passthrough...)
}

// Command は binary と選択した設定からエスケープ済みのコマンドラインを返す。
// Unix では POSIX シェル、Windows では CommandLineToArgvW の規則でクォートする。
func (l *Launcher) Command(binary string, configs []scanner.Descriptor, passthrough []string) string {
	return commandLine(binary, l.Args(configs, passthrough))
}

func commandLine(binary string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, quoteArg(binary))
	for _, a := range args {
		parts = append(parts, quoteArg(a))
	}
	return strings.Join(parts, " ")
}

// Run はバイナリを解決して起動し、終了を待つ。Unix ではシェル経由で、Windows では直接起動する。
// 待っている間に受けた SIGINT/SIGTERM は子プロセスに転送する。
// 返すコードは子の終了ステータスで、シグナルで終了した場合は 128+シグナル番号。
func (l *Launcher) Run(ctx context.Context, configs []scanner.Descriptor, passthrough []string) (int, error) {
	binary, err := l.Resolve()
	if err != nil {
		return 1, err
	}

	cmd := newCommand(ctx, binary, l.Args(configs, passthrough))
	cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	if l.Stdin != nil {
		cmd.Stdin = l.Stdin
	}
	if l.Stdout != nil {
		cmd.Stdout = l.Stdout
	}
	if l.Stderr != nil {
		cmd.Stderr = l.Stderr
	}

	if err := cmd.Start(); err != nil {
		return 1, fmt.Errorf("launcher: failed to start %s: %w", binary, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-sigCh:
				_ = cmd.Process.Signal(sig)
			case <-stop:
				return
			}
		}
	}()

	err = cmd.Wait()
	signal.Stop(sigCh)
	close(stop)

	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if code, ok := signalExitCode(exitErr.ProcessState); ok {
			return code, nil
		}
		return exitErr.ExitCode(), nil
	}
	return 1, fmt.Errorf("launcher: failed to wait for %s: %w", binary, err)
}

var shellSafe = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// Quote は s を POSIX シェル向けにエスケープする。記号を含まない語はそのまま返す。
func Quote(s string) string {
	if s == "" {
		return "''"
	}
	if shellSafe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
