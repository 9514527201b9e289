package selcache

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// AppName はキャッシュディレクトリ名
const AppName = "mcpick"

// gitTimeout は git rev-parse の待ち時間の上限
const gitTimeout = 2 * time.Second

// DefaultDir は OS ごとのユーザーキャッシュディレクトリを返す。
//
//	Windows: %LOCALAPPDATA%\mcpick
//	macOS:   ~/Library/Caches/mcpick
//	その他:  $XDG_CACHE_HOME/mcpick（未設定なら ~/.cache/mcpick）
func DefaultDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, AppName), nil
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("selcache: resolve home dir: %w", err)
		}
		return filepath.Join(home, "Library", "Caches", AppName), nil
	default:
		if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
			return filepath.Join(dir, AppName), nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("selcache: resolve home dir: %w", err)
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// ProjectDir は cwd を含む git ワーキングツリーのルートを返す。
// git が使えない・リポジトリ外の場合は cwd 自体を返す。
func ProjectDir(ctx context.Context, cwd string) string {
	if abs, err := filepath.Abs(cwd); err == nil {
		cwd = abs
	}

	ctx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--show-toplevel")
	cmd.Dir = cwd
	out, err := cmd.Output()
	if err != nil {
		return cwd
	}
	root := strings.TrimSpace(string(out))
	if root == "" {
		return cwd
	}
	return filepath.Clean(root)
}
