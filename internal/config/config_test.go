package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/0x6d61/mcpick/internal/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_Valid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `config_dir: /srv/mcp
binary: claude-dev
config_flag: --mcp
preview:
  highlight: false
extra_args:
  - --verbose
preselect: true
`)

	s, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.ConfigDir != "/srv/mcp" {
		t.Errorf("expected config_dir '/srv/mcp', got '%s'", s.ConfigDir)
	}
	if s.Binary != "claude-dev" {
		t.Errorf("expected binary 'claude-dev', got '%s'", s.Binary)
	}
	if s.ConfigFlag != "--mcp" {
		t.Errorf("expected config_flag '--mcp', got '%s'", s.ConfigFlag)
	}
	if s.Highlight() {
		t.Error("expected highlight to be disabled")
	}
	if len(s.ExtraArgs) != 1 || s.ExtraArgs[0] != "--verbose" {
		t.Errorf("unexpected extra_args: %v", s.ExtraArgs)
	}
	if !s.Preselect {
		t.Error("expected preselect to be enabled")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_MCP_ROOT", "/home/testuser")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeFile(t, path, `config_dir: "${TEST_MCP_ROOT}/mcp"
extra_args: ["--model=${TEST_MCP_MODEL}"]
`)

	s, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.ConfigDir != "/home/testuser/mcp" {
		t.Errorf("expected expanded config_dir, got '%s'", s.ConfigDir)
	}
	if s.ExtraArgs[0] != "--model=" {
		t.Errorf("expected unset variable to expand to empty, got '%s'", s.ExtraArgs[0])
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	s, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if s.Binary != config.DefaultBinary {
		t.Errorf("expected default binary, got '%s'", s.Binary)
	}
	if s.ConfigFlag != config.DefaultConfigFlag {
		t.Errorf("expected default config flag, got '%s'", s.ConfigFlag)
	}
	if !s.Highlight() {
		t.Error("expected highlight enabled by default")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "binary: [unclosed\n")

	if _, err := config.Load(path); err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(config.EnvHome, "/etc/mcpick")
	p, err := config.DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join("/etc/mcpick", "config.yaml") {
		t.Errorf("unexpected path %s", p)
	}

	home := t.TempDir()
	t.Setenv(config.EnvHome, "")
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	p, err = config.DefaultPath()
	if err != nil {
		t.Fatal(err)
	}
	if p != filepath.Join(home, ".mcpick", "config.yaml") {
		t.Errorf("unexpected path %s", p)
	}
}

func TestResolveConfigDir_Precedence(t *testing.T) {
	s := &config.Settings{ConfigDir: "/from/yaml"}

	t.Setenv(config.EnvConfigDir, "/from/env")
	if got := s.ResolveConfigDir("/from/flag", "/fallback"); got != filepath.Clean("/from/flag") {
		t.Errorf("flag should win, got %s", got)
	}
	if got := s.ResolveConfigDir("", "/fallback"); got != filepath.Clean("/from/env") {
		t.Errorf("env should win over yaml, got %s", got)
	}

	t.Setenv(config.EnvConfigDir, "")
	if got := s.ResolveConfigDir("", "/fallback"); got != filepath.Clean("/from/yaml") {
		t.Errorf("yaml should win over fallback, got %s", got)
	}

	empty := &config.Settings{}
	if got := empty.ResolveConfigDir("", "/fallback"); got != filepath.Clean("/fallback") {
		t.Errorf("expected fallback, got %s", got)
	}
}

func TestResolveConfigDir_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	t.Setenv(config.EnvConfigDir, "")

	s := &config.Settings{}
	if got := s.ResolveConfigDir("~/mcp", "/fallback"); got != filepath.Join(home, "mcp") {
		t.Errorf("expected ~ expanded, got %s", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "MCPICK_TEST_DOTENV=from-file\nMCPICK_TEST_KEEP=from-file\n")
	t.Setenv("MCPICK_TEST_KEEP", "from-env")
	t.Setenv("MCPICK_TEST_DOTENV", "")
	os.Unsetenv("MCPICK_TEST_DOTENV")

	if err := config.LoadDotEnv(dir); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	if got := os.Getenv("MCPICK_TEST_DOTENV"); got != "from-file" {
		t.Errorf("expected value from .env, got %q", got)
	}
	if got := os.Getenv("MCPICK_TEST_KEEP"); got != "from-env" {
		t.Errorf("expected existing env to be kept, got %q", got)
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	if err := config.LoadDotEnv(t.TempDir()); err != nil {
		t.Errorf("expected nil for missing .env, got %v", err)
	}
}
