package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0x6d61/mcpick/internal/cleanup"
)

func newCleanupCmd() *cobra.Command {
	var (
		configDir string
		opts      cleanup.Options
	)
	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Remove stale cache entries and broken config symlinks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(opts.Verbose)

			env, err := resolveEnv(cmd.Context(), configDir)
			if err != nil {
				return err
			}
			store := openStore()
			if store == nil {
				return fmt.Errorf("cleanup: cache directory unavailable")
			}

			opts.In = cmd.InOrStdin()
			opts.Out = cmd.OutOrStdout()
			res, err := cleanup.New(store, env.configDir, opts).Run()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			verb := "Removed"
			if opts.DryRun {
				verb = "Would remove"
			}
			fmt.Fprintf(out, "%s %d stale cache entries, %d invalid config references, %d broken symlinks\n",
				verb, res.StaleEntries, res.InvalidReferences, res.BrokenSymlinks)
			for _, f := range res.Failures {
				fmt.Fprintf(out, "  failed: %s\n", f)
			}
			if len(res.Failures) > 0 {
				return fmt.Errorf("cleanup: %d item(s) failed", len(res.Failures))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configDir, "config-dir", "", "MCP config directory")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "only report what would be removed")
	cmd.Flags().BoolVarP(&opts.AssumeYes, "yes", "y", false, "do not ask for confirmation")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "print every removed item")
	return cmd
}
