package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
)

// version はリリースビルド時に -ldflags で差し替える
var version = "dev"

// exitCodeError は子プロセスの終了コードを main まで運ぶ
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "mcpick [--config-dir DIR] [--no-cache] [--print] [--verbose] [--] [args...]",
		Short: "Pick MCP server configs and launch Claude with them",
		Long: `⚡ mcpick — choose MCP configs for this project, then launch the CLI with them

Configs are the *.json files in the config directory. The selection is
remembered per project (git root, or the current directory).

Every argument mcpick does not recognise is passed to the launched binary;
use -- to pass the rest verbatim.

Environment:
  MCPICK_CONFIG_DIR   config directory (default: ~/.claude/mcp-configs)
  MCPICK_HOME         directory holding config.yaml (default: ~/.mcpick)`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, passthrough, err := splitArgs(args)
			if err != nil {
				return err
			}
			if opts.help {
				return cmd.Help()
			}
			return runLaunch(cmd.Context(), opts, passthrough)
		},
	}

	// ヘルプ表示用。実際の解析は splitArgs が行う。
	root.Flags().String("config-dir", "", "MCP config directory")
	root.Flags().Bool("no-cache", false, "neither read nor write the selection cache")
	root.Flags().Bool("print", false, "print the command line instead of running it")
	root.Flags().Bool("verbose", false, "timestamped logs")

	root.AddCommand(newListCmd(), newCleanupCmd(), newCacheCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mcpick version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "mcpick", version)
		},
	}
}

// setupLogging は --verbose のときだけタイムスタンプを付ける
func setupLogging(verbose bool) {
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetFlags(log.LstdFlags)
		return
	}
	log.SetFlags(0)
}

func main() {
	setupLogging(false)

	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		var exitErr *exitCodeError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.code)
		}
		fmt.Fprintln(os.Stderr, "mcpick:", err)
		os.Exit(1)
	}
}
