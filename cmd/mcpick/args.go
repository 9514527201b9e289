package main

import (
	"fmt"
	"strings"
)

// rootOptions はルートコマンドが自分で解釈するフラグ
type rootOptions struct {
	configDir string
	noCache   bool
	print     bool
	verbose   bool
	help      bool
}

// splitArgs は mcpick 自身のフラグを取り出し、残りを起動先にそのまま渡す。
// "--" 以降は全て起動先の引数として扱う（"--" 自体は捨てる）。
func splitArgs(args []string) (rootOptions, []string, error) {
	var opts rootOptions
	var passthrough []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			passthrough = append(passthrough, args[i+1:]...)
			return opts, passthrough, nil
		case arg == "--config-dir":
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("flag needs an argument: --config-dir")
			}
			opts.configDir = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config-dir="):
			opts.configDir = strings.TrimPrefix(arg, "--config-dir=")
		case arg == "--no-cache":
			opts.noCache = true
		case arg == "--print":
			opts.print = true
		case arg == "--verbose":
			opts.verbose = true
		case arg == "-h" || arg == "--help":
			opts.help = true
		default:
			passthrough = append(passthrough, arg)
		}
	}
	return opts, passthrough, nil
}
