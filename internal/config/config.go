// Package config は mcpick の設定ファイル (config.yaml) と .env を扱う。
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// EnvHome は設定ファイルのディレクトリを上書きする環境変数
	EnvHome = "MCPICK_HOME"
	// EnvConfigDir は MCP 設定ディレクトリを上書きする環境変数
	EnvConfigDir = "MCPICK_CONFIG_DIR"

	DefaultBinary     = "claude"
	DefaultConfigFlag = "--mcp-config"
)

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// PreviewSettings はフルスクリーン選択画面のプレビュー設定
type PreviewSettings struct {
	Highlight *bool `yaml:"highlight"`
}

// Settings は config.yaml の設定構造
type Settings struct {
	ConfigDir  string          `yaml:"config_dir"`
	Binary     string          `yaml:"binary"`
	ConfigFlag string          `yaml:"config_flag"`
	Preview    PreviewSettings `yaml:"preview"`
	ExtraArgs  []string        `yaml:"extra_args"`
	// Preselect は前回の選択をフルスクリーン画面でも初期選択にする
	Preselect bool `yaml:"preselect"`
}

// Highlight はプレビューのシンタックスハイライトが有効かを返す（未指定なら true）
func (s *Settings) Highlight() bool {
	return s.Preview.Highlight == nil || *s.Preview.Highlight
}

// applyDefaults はゼロ値のフィールドにデフォルト値を適用する
func (s *Settings) applyDefaults() {
	if s.Binary == "" {
		s.Binary = DefaultBinary
	}
	if s.ConfigFlag == "" {
		s.ConfigFlag = DefaultConfigFlag
	}
}

// DefaultPath は設定ファイルのパスを返す。
// $MCPICK_HOME/config.yaml、未設定なら ~/.mcpick/config.yaml。
func DefaultPath() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return filepath.Join(ExpandHome(home), "config.yaml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: failed to resolve home dir: %w", err)
	}
	return filepath.Join(home, ".mcpick", "config.yaml"), nil
}

// Load は config.yaml を読み込む。
// ${VAR} 環境変数を展開する。
// ファイルが存在しない場合はデフォルトの Settings を返す。
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s := &Settings{}
			s.applyDefaults()
			return s, nil
		}
		return nil, fmt.Errorf("config: failed to read %s: %w", path, err)
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("config: failed to parse %s: %w", path, err)
	}

	// 環境変数を展開（パスとバイナリ名、追加引数）
	s.ConfigDir = expandEnvString(s.ConfigDir)
	s.Binary = expandEnvString(s.Binary)
	for i := range s.ExtraArgs {
		s.ExtraArgs[i] = expandEnvString(s.ExtraArgs[i])
	}

	s.applyDefaults()

	return &s, nil
}

// LoadDotEnv は dir/.env を読み込む。既存の環境変数は上書きしない。
// ファイルがなければ何もしない。
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("config: failed to load %s: %w", path, err)
	}
	return nil
}

// ResolveConfigDir は MCP 設定ディレクトリを決定する。
// 優先順位: flag > $MCPICK_CONFIG_DIR > config.yaml の config_dir > fallback。
func (s *Settings) ResolveConfigDir(flag, fallback string) string {
	dir := fallback
	switch {
	case flag != "":
		dir = flag
	case os.Getenv(EnvConfigDir) != "":
		dir = os.Getenv(EnvConfigDir)
	case s.ConfigDir != "":
		dir = s.ConfigDir
	}
	dir = ExpandHome(dir)
	if abs, err := filepath.Abs(dir); err == nil {
		return abs
	}
	return dir
}

// ExpandHome は先頭の ~ をホームディレクトリに置き換える
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") && !strings.HasPrefix(p, `~\`) {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, p[1:])
}

// expandEnvString は文字列内の ${VAR} をホスト環境変数で展開する
func expandEnvString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		return os.Getenv(varName)
	})
}
