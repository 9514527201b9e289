package mcp

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// ValidationError は検証エラー1件。Path はフィールド名の並び（ルートは空）。
type ValidationError struct {
	Path    []string
	Message string
}

func (e ValidationError) String() string {
	path := "root"
	if len(e.Path) > 0 {
		path = strings.Join(e.Path, ".")
	}
	return path + ": " + e.Message
}

// ValidationErrors は検証エラーの一覧。error として扱える。
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	return FormatErrors(errs)
}

// FormatErrors はエラー一覧を1つの文字列にまとめる。
func FormatErrors(errs []ValidationError) string {
	switch len(errs) {
	case 0:
		return "Unknown validation error"
	case 1:
		return errs[0].String()
	}
	var sb strings.Builder
	sb.WriteString("Multiple validation errors:")
	for _, e := range errs {
		sb.WriteString("\n  • ")
		sb.WriteString(e.String())
	}
	return sb.String()
}

// Validate はパース済みの任意の値をスキーマに照らして検証する。
// mcpServers の順序情報を持たないため、サーバーは名前順に並ぶ。
func Validate(v any) (*Config, ValidationErrors) {
	return validate(v, nil)
}

// validate は order（mcpServers のキーの宣言順）が与えられればその順でサーバーを並べる。
func validate(v any, order []string) (*Config, ValidationErrors) {
	var errs ValidationErrors

	root, ok := v.(map[string]any)
	if !ok {
		errs = append(errs, ValidationError{Message: "expected object, received " + typeName(v)})
		return nil, errs
	}

	cfg := &Config{}
	if raw, ok := root["description"]; ok {
		if s, ok := raw.(string); ok {
			cfg.Description = s
		} else {
			errs = append(errs, ValidationError{
				Path:    []string{"description"},
				Message: "expected string, received " + typeName(raw),
			})
		}
	}

	raw, ok := root["mcpServers"]
	if !ok {
		return cfg, errs
	}
	servers, ok := raw.(map[string]any)
	if !ok {
		errs = append(errs, ValidationError{
			Path:    []string{"mcpServers"},
			Message: "expected object, received " + typeName(raw),
		})
		return nil, errs
	}

	for _, name := range serverOrder(servers, order) {
		entry, entryErrs := validateEntry([]string{"mcpServers", name}, servers[name])
		if len(entryErrs) > 0 {
			errs = append(errs, entryErrs...)
			continue
		}
		cfg.Servers = append(cfg.Servers, Server{Name: name, Entry: entry})
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return cfg, nil
}

// serverOrder は order に現れるキーをその順で、残りを名前順で返す。
func serverOrder(servers map[string]any, order []string) []string {
	seen := make(map[string]bool, len(servers))
	names := make([]string, 0, len(servers))
	for _, name := range order {
		if _, ok := servers[name]; ok && !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	var rest []string
	for name := range servers {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// validateEntry は1つのサーバーエントリを判別して検証し、型付きのエントリに変換する。
// type を持たず command を持つエントリは stdio として扱う。
func validateEntry(path []string, v any) (ServerEntry, ValidationErrors) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ValidationErrors{{Path: path, Message: "expected object, received " + typeName(v)}}
	}

	transport, errs := resolveTransport(path, obj)
	if len(errs) > 0 {
		return nil, errs
	}

	switch transport {
	case TransportStdio:
		errs = append(errs, requireString(path, obj, "command")...)
		errs = append(errs, checkStringList(path, obj, "args")...)
		errs = append(errs, checkStringMap(path, obj, "env")...)
		if len(errs) > 0 {
			return nil, errs
		}
		var s StdioServer
		if err := decodeEntry(obj, &s); err != nil {
			return nil, ValidationErrors{{Path: path, Message: err.Error()}}
		}
		if s.Args == nil {
			s.Args = []string{}
		}
		return s, nil

	default:
		errs = append(errs, requireURL(path, obj)...)
		errs = append(errs, checkStringMap(path, obj, "headers")...)
		errs = append(errs, checkStringMap(path, obj, "env")...)
		if len(errs) > 0 {
			return nil, errs
		}
		var ep RemoteEndpoint
		if err := decodeEntry(obj, &ep); err != nil {
			return nil, ValidationErrors{{Path: path, Message: err.Error()}}
		}
		if transport == TransportSSE {
			return SSEServer{RemoteEndpoint: ep}, nil
		}
		return HTTPServer{RemoteEndpoint: ep}, nil
	}
}

func resolveTransport(path []string, obj map[string]any) (Transport, ValidationErrors) {
	raw, ok := obj["type"]
	if !ok {
		if _, hasCommand := obj["command"]; hasCommand {
			return TransportStdio, nil
		}
		return "", ValidationErrors{{
			Path:    path,
			Message: `missing "type": expected "stdio", "http" or "sse" (entries without a type must declare "command")`,
		}}
	}
	s, ok := raw.(string)
	if !ok {
		return "", ValidationErrors{{
			Path:    appendPath(path, "type"),
			Message: "expected string, received " + typeName(raw),
		}}
	}
	switch t := Transport(s); t {
	case TransportStdio, TransportHTTP, TransportSSE:
		return t, nil
	}
	return "", ValidationErrors{{
		Path:    appendPath(path, "type"),
		Message: fmt.Sprintf(`invalid type %q: expected "stdio", "http" or "sse"`, s),
	}}
}

func requireString(path []string, obj map[string]any, field string) ValidationErrors {
	raw, ok := obj[field]
	if !ok {
		return ValidationErrors{{Path: appendPath(path, field), Message: "required"}}
	}
	s, ok := raw.(string)
	if !ok {
		return ValidationErrors{{Path: appendPath(path, field), Message: "expected string, received " + typeName(raw)}}
	}
	if strings.TrimSpace(s) == "" {
		return ValidationErrors{{Path: appendPath(path, field), Message: "must not be empty"}}
	}
	return nil
}

func requireURL(path []string, obj map[string]any) ValidationErrors {
	if errs := requireString(path, obj, "url"); len(errs) > 0 {
		return errs
	}
	s := obj["url"].(string)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return ValidationErrors{{Path: appendPath(path, "url"), Message: fmt.Sprintf("invalid url %q", s)}}
	}
	return nil
}

func checkStringList(path []string, obj map[string]any, field string) ValidationErrors {
	raw, ok := obj[field]
	if !ok {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		return ValidationErrors{{Path: appendPath(path, field), Message: "expected array, received " + typeName(raw)}}
	}
	var errs ValidationErrors
	for i, item := range list {
		if _, ok := item.(string); !ok {
			errs = append(errs, ValidationError{
				Path:    appendPath(path, field, fmt.Sprint(i)),
				Message: "expected string, received " + typeName(item),
			})
		}
	}
	return errs
}

func checkStringMap(path []string, obj map[string]any, field string) ValidationErrors {
	raw, ok := obj[field]
	if !ok {
		return nil
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return ValidationErrors{{Path: appendPath(path, field), Message: "expected object, received " + typeName(raw)}}
	}
	var errs ValidationErrors
	for _, k := range sortedKeys(m) {
		if _, ok := m[k].(string); !ok {
			errs = append(errs, ValidationError{
				Path:    appendPath(path, field, k),
				Message: "expected string, received " + typeName(m[k]),
			})
		}
	}
	return errs
}

// decodeEntry は検証済みの map を型付きの構造体へ変換する。未知のフィールドは無視する。
func decodeEntry(obj map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("mcp: create decoder: %w", err)
	}
	if err := dec.Decode(obj); err != nil {
		return fmt.Errorf("mcp: decode entry: %w", err)
	}
	return nil
}

func appendPath(path []string, elems ...string) []string {
	out := make([]string, 0, len(path)+len(elems))
	out = append(out, path...)
	return append(out, elems...)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// typeName は JSON 値の型名を返す（エラーメッセージ用）。
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
