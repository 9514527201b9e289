//go:build !windows

package launcher

import (
	"context"
	"os"
	"os/exec"
	"syscall"
)

// newCommand は組み立てたコマンドラインを /bin/sh -c で実行する。
func newCommand(ctx context.Context, binary string, args []string) *exec.Cmd {
	return exec.CommandContext(ctx, "/bin/sh", "-c", commandLine(binary, args))
}

func quoteArg(s string) string {
	return Quote(s)
}

// signalExitCode はシグナルで終了した子プロセスをシェルの慣例 128+N に変換する。
func signalExitCode(state *os.ProcessState) (int, bool) {
	if state == nil {
		return 0, false
	}
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok || !ws.Signaled() {
		return 0, false
	}
	return 128 + int(ws.Signal()), true
}
