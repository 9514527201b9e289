package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// SyntaxError は JSON として解釈できなかったことを表す。
type SyntaxError struct {
	Err error
}

func (e *SyntaxError) Error() string {
	return "JSON syntax error: " + e.Err.Error()
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// Decode は JSON バイト列をパースして検証する。
// 構文エラーは *SyntaxError、スキーマ違反は ValidationErrors を返す。
// サーバーはファイル内の宣言順に並ぶ。
func Decode(data []byte) (*Config, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, &SyntaxError{Err: err}
	}

	cfg, errs := validate(v, serverKeyOrder(data))
	if len(errs) > 0 {
		return nil, errs
	}
	return cfg, nil
}

// LoadConfig は指定パスの MCP 設定ファイルを読み込んで検証する。
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mcp: failed to read config %s: %w", path, err)
	}
	return Decode(data)
}

// serverKeyOrder は mcpServers オブジェクトのキーを出現順で返す。
// encoding/json の map はキー順を保持しないため、トークン単位で読み直す。
// 途中で読めなくなった場合はそこまでのキーを返す。
func serverKeyOrder(data []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(data))
	if tok, err := dec.Token(); err != nil || tok != json.Delim('{') {
		return nil
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, _ := tok.(string)
		if key != "mcpServers" {
			if skipValue(dec) != nil {
				return keys
			}
			continue
		}

		tok, err = dec.Token()
		if err != nil || tok != json.Delim('{') {
			return keys
		}
		keys = keys[:0]
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return keys
			}
			name, _ := tok.(string)
			keys = append(keys, name)
			if skipValue(dec) != nil {
				return keys
			}
		}
		if _, err := dec.Token(); err != nil {
			return keys
		}
	}
	return keys
}

func skipValue(dec *json.Decoder) error {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return errors.Join(errors.New("mcp: skip value"), err)
	}
	return nil
}
