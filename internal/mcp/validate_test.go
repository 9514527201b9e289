package mcp

import (
	"encoding/json"
	"strings"
	"testing"
)

func mustParse(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("bad test JSON: %v", err)
	}
	return v
}

func TestValidate_RejectsNonObject(t *testing.T) {
	for _, input := range []string{`[]`, `"text"`, `42`, `null`, `true`} {
		_, errs := Validate(mustParse(t, input))
		if len(errs) != 1 {
			t.Errorf("%s: expected 1 error, got %v", input, errs)
			continue
		}
		if len(errs[0].Path) != 0 {
			t.Errorf("%s: expected root path, got %v", input, errs[0].Path)
		}
	}
}

func TestValidate_Cases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantPath string
		wantMsg  string
	}{
		{"description not string", `{"description": 1}`, "description", "expected string, received number"},
		{"servers not object", `{"mcpServers": []}`, "mcpServers", "expected object, received array"},
		{"entry not object", `{"mcpServers": {"a": "npx"}}`, "mcpServers.a", "expected object, received string"},
		{"no type no command", `{"mcpServers": {"a": {"args": []}}}`, "mcpServers.a", `missing "type"`},
		{"unknown type", `{"mcpServers": {"a": {"type": "websocket", "url": "ws://x"}}}`, "mcpServers.a.type", `invalid type "websocket"`},
		{"type not string", `{"mcpServers": {"a": {"type": 3}}}`, "mcpServers.a.type", "expected string"},
		{"stdio missing command", `{"mcpServers": {"a": {"type": "stdio"}}}`, "mcpServers.a.command", "required"},
		{"stdio blank command", `{"mcpServers": {"a": {"command": "  "}}}`, "mcpServers.a.command", "must not be empty"},
		{"args not array", `{"mcpServers": {"a": {"command": "x", "args": "y"}}}`, "mcpServers.a.args", "expected array"},
		{"args element", `{"mcpServers": {"a": {"command": "x", "args": ["ok", 2]}}}`, "mcpServers.a.args.1", "expected string, received number"},
		{"env value", `{"mcpServers": {"a": {"command": "x", "env": {"K": true}}}}`, "mcpServers.a.env.K", "expected string, received boolean"},
		{"http missing url", `{"mcpServers": {"a": {"type": "http"}}}`, "mcpServers.a.url", "required"},
		{"http bad url", `{"mcpServers": {"a": {"type": "http", "url": "not a url"}}}`, "mcpServers.a.url", "invalid url"},
		{"sse headers", `{"mcpServers": {"a": {"type": "sse", "url": "https://x.dev", "headers": []}}}`, "mcpServers.a.headers", "expected object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, errs := Validate(mustParse(t, tt.input))
			if cfg != nil {
				t.Errorf("expected nil config on failure, got %+v", cfg)
			}
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %d: %v", len(errs), errs)
			}
			if got := strings.Join(errs[0].Path, "."); got != tt.wantPath {
				t.Errorf("path: want %q, got %q", tt.wantPath, got)
			}
			if !strings.Contains(errs[0].Message, tt.wantMsg) {
				t.Errorf("message: want substring %q, got %q", tt.wantMsg, errs[0].Message)
			}
		})
	}
}

func TestValidate_AccumulatesAcrossEntries(t *testing.T) {
	_, errs := Validate(mustParse(t, `{"mcpServers": {
		"b": {"type": "http", "url": "nope"},
		"a": {"command": ""},
		"ok": {"command": "node"}
	}}`))
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	// 順序情報がない場合は名前順
	if errs[0].Path[1] != "a" || errs[1].Path[1] != "b" {
		t.Errorf("expected errors for a then b, got %v", errs)
	}
}

func TestValidate_IgnoresUnknownFields(t *testing.T) {
	cfg, errs := Validate(mustParse(t, `{"$schema": "x", "mcpServers": {"a": {"command": "x", "disabled": true}}}`))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(cfg.Servers) != 1 {
		t.Fatalf("expected 1 server, got %d", len(cfg.Servers))
	}
}

func TestFormatErrors(t *testing.T) {
	if got := FormatErrors(nil); got != "Unknown validation error" {
		t.Errorf("empty: got %q", got)
	}

	one := []ValidationError{{Path: []string{"mcpServers", "a", "url"}, Message: "required"}}
	if got := FormatErrors(one); got != "mcpServers.a.url: required" {
		t.Errorf("single: got %q", got)
	}

	root := []ValidationError{{Message: "expected object, received array"}}
	if got := FormatErrors(root); got != "root: expected object, received array" {
		t.Errorf("root: got %q", got)
	}

	many := []ValidationError{
		{Path: []string{"description"}, Message: "expected string, received number"},
		{Path: []string{"mcpServers", "a", "command"}, Message: "required"},
	}
	want := "Multiple validation errors:\n  • description: expected string, received number\n  • mcpServers.a.command: required"
	if got := FormatErrors(many); got != want {
		t.Errorf("multiple:\nwant %q\ngot  %q", want, got)
	}
}
