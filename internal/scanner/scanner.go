// Package scanner は設定ディレクトリ内の *.json を並列に読み込み、
// 検証結果と表示名を持つ Descriptor の一覧を返す。
package scanner

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/0x6d61/mcpick/internal/mcp"
)

// DefaultDirName は既定の設定ディレクトリ（ホームディレクトリからの相対パス）
const DefaultDirName = ".claude/mcp-configs"

// Descriptor は走査で見つかった設定ファイル1件。
type Descriptor struct {
	// Name はファイル名から拡張子を除いたもの
	Name string
	// Path はファイルの絶対パス
	Path string
	// Description は表示用ラベル（DisplayName の結果、または "Invalid config: name"）
	Description string
	// Valid は JSON として読めてスキーマを満たす場合のみ true
	Valid bool
	// Error は Valid が false のときのエラーメッセージ
	Error string
	// Config は検証済みの設定（Valid の場合のみ）
	Config *mcp.Config
}

// MissingDirError は設定ディレクトリが存在しないことを表す。
type MissingDirError struct {
	Path string
}

func (e *MissingDirError) Error() string {
	return fmt.Sprintf("config directory not found: %s", e.Path)
}

// DefaultDir はホームディレクトリ配下の既定の設定ディレクトリを返す。
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("scanner: resolve home dir: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}

// Scan は dir 直下の *.json を読み込み、名前順の Descriptor 一覧を返す。
// dir が空なら DefaultDir を使う。
//
// dir が存在しない場合は *MissingDirError を返す。それ以外のディレクトリ読み込み
// エラーは警告ログを出して空の一覧を返す。個々のファイルのエラーは Descriptor に記録する。
func Scan(ctx context.Context, dir string) ([]Descriptor, error) {
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &MissingDirError{Path: dir}
		}
		log.Printf("[scan] WARNING: failed to access config dir %s: %v", dir, err)
		return []Descriptor{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("[scan] WARNING: failed to read config dir %s: %v", dir, err)
		return []Descriptor{}, nil
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}

	results := make([]Descriptor, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = scanFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scanner: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Name < results[j].Name
	})
	return results, nil
}

// scanFile は1ファイルを読み込んで検証する。失敗は Descriptor に記録し、返さない。
func scanFile(path string) Descriptor {
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	d := Descriptor{Name: name, Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return invalid(d, fmt.Sprintf("Failed to read file: %v", err))
	}

	cfg, err := mcp.Decode(data)
	if err != nil {
		var verrs mcp.ValidationErrors
		if errors.As(err, &verrs) {
			return invalid(d, mcp.FormatErrors(verrs))
		}
		return invalid(d, err.Error())
	}

	d.Valid = true
	d.Config = cfg
	d.Description = DisplayName(name, cfg.ServerNames())
	return d
}

func invalid(d Descriptor, msg string) Descriptor {
	d.Valid = false
	d.Error = msg
	d.Description = "Invalid config: " + d.Name
	return d
}

// DisplayName はファイル名と宣言されたサーバー名から表示名を作る。
//
//	サーバーなし              → filename
//	1つでファイル名と同じ名前 → servername
//	1つで別名                 → "filename → servername"
//	複数                      → "filename → a, b, c"（宣言順）
func DisplayName(filename string, servers []string) string {
	switch len(servers) {
	case 0:
		return filename
	case 1:
		if servers[0] == filename {
			return servers[0]
		}
		return filename + " → " + servers[0]
	default:
		return filename + " → " + strings.Join(servers, ", ")
	}
}

// ValidOnly は Valid な Descriptor だけを順序を保って返す。
func ValidOnly(descs []Descriptor) []Descriptor {
	var out []Descriptor
	for _, d := range descs {
		if d.Valid {
			out = append(out, d)
		}
	}
	return out
}

// InvalidOnly は Valid でない Descriptor だけを順序を保って返す。
func InvalidOnly(descs []Descriptor) []Descriptor {
	var out []Descriptor
	for _, d := range descs {
		if !d.Valid {
			out = append(out, d)
		}
	}
	return out
}
