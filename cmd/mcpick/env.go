package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/0x6d61/mcpick/internal/config"
	"github.com/0x6d61/mcpick/internal/scanner"
	"github.com/0x6d61/mcpick/internal/selcache"
)

// environment は各コマンドが共有する解決済みの設定
type environment struct {
	projectDir string
	configDir  string
	settings   *config.Settings
}

// resolveEnv はプロジェクトディレクトリ・.env・config.yaml・設定ディレクトリを順に解決する
func resolveEnv(ctx context.Context, configDirFlag string) (*environment, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	projectDir := selcache.ProjectDir(ctx, cwd)

	// .env は MCPICK_CONFIG_DIR などの解決より先に読む
	if err := config.LoadDotEnv(projectDir); err != nil {
		log.Printf("[config] WARNING: %v", err)
	}

	path, err := config.DefaultPath()
	if err != nil {
		return nil, err
	}
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	fallback, err := scanner.DefaultDir()
	if err != nil {
		return nil, err
	}

	return &environment{
		projectDir: projectDir,
		configDir:  settings.ResolveConfigDir(configDirFlag, fallback),
		settings:   settings,
	}, nil
}

// openStore はキャッシュストアを開く。キャッシュディレクトリが決まらなければ nil。
func openStore() *selcache.Store {
	dir, err := selcache.DefaultDir()
	if err != nil {
		log.Printf("[cache] WARNING: selection cache disabled: %v", err)
		return nil
	}
	return selcache.NewStore(dir)
}
