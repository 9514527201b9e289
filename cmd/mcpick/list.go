package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/0x6d61/mcpick/internal/scanner"
)

func newListCmd() *cobra.Command {
	var configDir string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List MCP configs and their validation status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := resolveEnv(cmd.Context(), configDir)
			if err != nil {
				return err
			}
			descs, err := scanner.Scan(cmd.Context(), env.configDir)
			if err != nil {
				return err
			}
			printList(cmd.OutOrStdout(), env.configDir, descs)
			return nil
		},
	}
	cmd.Flags().StringVar(&configDir, "config-dir", "", "MCP config directory")
	return cmd
}

// printList は1行1設定で、無効なものにはエラーを続けて表示する
func printList(w io.Writer, dir string, descs []scanner.Descriptor) {
	r := lipgloss.NewRenderer(w)
	ok := r.NewStyle().Foreground(lipgloss.Color("#87FF5F")).Render("✓")
	bad := r.NewStyle().Foreground(lipgloss.Color("#FF5555")).Render("✗")
	muted := r.NewStyle().Foreground(lipgloss.Color("#555577"))

	fmt.Fprintln(w, muted.Render(dir))
	if len(descs) == 0 {
		fmt.Fprintln(w, "No MCP configs found.")
		return
	}

	valid := 0
	for _, d := range descs {
		if d.Valid {
			valid++
			fmt.Fprintf(w, "%s %s  %s\n", ok, d.Name, muted.Render(d.Description))
			continue
		}
		fmt.Fprintf(w, "%s %s\n", bad, d.Name)
		for _, line := range strings.Split(d.Error, "\n") {
			fmt.Fprintf(w, "    %s\n", line)
		}
	}
	fmt.Fprintf(w, "\n%d valid, %d invalid\n", valid, len(descs)-valid)
}
