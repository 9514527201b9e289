package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/0x6d61/mcpick/internal/launcher"
	"github.com/0x6d61/mcpick/internal/prompt"
	"github.com/0x6d61/mcpick/internal/scanner"
	"github.com/0x6d61/mcpick/internal/selcache"
	"github.com/0x6d61/mcpick/internal/selector"
)

// interruptedExitCode は SIGINT で中断されたときのシェル慣習の終了コード
const interruptedExitCode = 130

// runLaunch は scan → select → launch の本体
func runLaunch(ctx context.Context, opts rootOptions, passthrough []string) error {
	setupLogging(opts.verbose)

	env, err := resolveEnv(ctx, opts.configDir)
	if err != nil {
		return err
	}

	descs, err := scanner.Scan(ctx, env.configDir)
	if err != nil {
		var missing *scanner.MissingDirError
		if errors.As(err, &missing) {
			return fmt.Errorf("MCP config directory not found: %s (set --config-dir or MCPICK_CONFIG_DIR)", missing.Path)
		}
		return err
	}

	var store *selcache.Store
	if !opts.noCache {
		store = openStore()
	}

	sel := selector.New(selector.Options{
		ProjectDir: env.projectDir,
		ConfigDir:  env.configDir,
		Store:      store,
		Preselect:  env.settings.Preselect,
		Highlight:  env.settings.Highlight(),
	})
	if opts.verbose {
		log.Printf("[select] %d configs in %s, %s mode", len(descs), env.configDir, sel.Mode())
	}

	picked, err := sel.Select(ctx, descs)
	if err != nil {
		if errors.Is(err, prompt.ErrInterrupted) {
			return &exitCodeError{code: interruptedExitCode}
		}
		return err
	}

	l := &launcher.Launcher{
		Binary:     env.settings.Binary,
		ConfigFlag: env.settings.ConfigFlag,
		ExtraArgs:  env.settings.ExtraArgs,
	}

	if opts.print {
		binary, err := l.Resolve()
		if err != nil {
			// 見つからなくてもコマンドラインは表示できる
			binary = env.settings.Binary
		}
		fmt.Fprintln(os.Stdout, l.Command(binary, picked, passthrough))
		return nil
	}

	code, err := l.Run(ctx, picked, passthrough)
	if err != nil {
		var nf *launcher.NotFoundError
		if errors.As(err, &nf) {
			return fmt.Errorf("%s not found in PATH; set binary in config.yaml", nf.Binary)
		}
		return err
	}
	if code != 0 {
		return &exitCodeError{code: code}
	}
	return nil
}
