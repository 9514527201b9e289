//go:build windows

package launcher

import (
	"context"
	"os"
	"os/exec"
	"syscall"
)

// newCommand は cmd.exe を介さずに直接起動する。引数のクォートは os/exec に任せる。
func newCommand(ctx context.Context, binary string, args []string) *exec.Cmd {
	return exec.CommandContext(ctx, binary, args...)
}

// quoteArg は CommandLineToArgvW の規則でエスケープする。
func quoteArg(s string) string {
	return syscall.EscapeArg(s)
}

func signalExitCode(*os.ProcessState) (int, bool) {
	return 0, false
}
