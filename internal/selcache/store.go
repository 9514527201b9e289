// Package selcache は (プロジェクト, 設定ディレクトリ) の組ごとに
// 前回選択した設定名を JSON ファイルとして保存する。
package selcache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexflint/go-filemutex"
)

// Version はキャッシュファイルの形式バージョン。これ以外のレコードは無視する。
const Version = 1

const (
	filePrefix = "selection-"
	fileSuffix = ".json"
	lockName   = ".lock"
	keyLen     = 16
)

// Record はキャッシュファイル1件の内容
type Record struct {
	Version         int       `json:"version"`
	ProjectDir      string    `json:"projectDir"`
	ConfigDir       string    `json:"configDir"`
	LastModified    time.Time `json:"lastModified"`
	SelectedConfigs []string  `json:"selectedConfigs"`
}

// Entry はキャッシュディレクトリ内のレコードとそのファイルパス
type Entry struct {
	Path   string
	Record Record
}

// Store はキャッシュファイルの読み書きを管理する。
type Store struct {
	dir string
	now func() time.Time
}

// NewStore は dir を使う Store を返す。ディレクトリは Save 時に作成する。
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir はキャッシュディレクトリを返す。
func (s *Store) Dir() string { return s.dir }

// Key は projectDir と configDir の組から固定長のキーを作る。
func Key(projectDir, configDir string) string {
	sum := sha256.Sum256([]byte(projectDir + "::" + configDir))
	return hex.EncodeToString(sum[:])[:keyLen]
}

// PathFor は組に対応するキャッシュファイルのパスを返す。
func (s *Store) PathFor(projectDir, configDir string) string {
	return filepath.Join(s.dir, filePrefix+Key(projectDir, configDir)+fileSuffix)
}

// Load は前回選択した設定名を返す。
// ファイルがない・壊れている・バージョン違い・パスが一致しない場合は nil。
func (s *Store) Load(projectDir, configDir string) []string {
	rec, err := readRecord(s.PathFor(projectDir, configDir))
	if err != nil {
		return nil
	}
	if rec.ProjectDir != projectDir || rec.ConfigDir != configDir {
		return nil
	}
	return rec.SelectedConfigs
}

// Save は選択を保存する。names が空なら既存のファイルを削除する。
func (s *Store) Save(projectDir, configDir string, names []string) error {
	path := s.PathFor(projectDir, configDir)
	names = dedupe(names)

	if len(names) == 0 {
		// 消すものが無ければディレクトリもロックファイルも作らない
		if _, err := os.Lstat(path); errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return s.withLock(func() error {
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("selcache: remove %s: %w", path, err)
			}
			return nil
		})
	}

	rec := Record{
		Version:         Version,
		ProjectDir:      projectDir,
		ConfigDir:       configDir,
		LastModified:    s.now().UTC(),
		SelectedConfigs: names,
	}
	return s.withLock(func() error { return writeRecord(path, rec) })
}

// Clear はキャッシュレコードを全て削除し、削除件数を返す。
// 同じディレクトリにある無関係なファイルには触れない。
func (s *Store) Clear() (int, error) {
	paths, err := s.recordPaths()
	if err != nil {
		return 0, err
	}
	removed := 0
	err = s.withLock(func() error {
		var errs []error
		for _, p := range paths {
			if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
				errs = append(errs, fmt.Errorf("selcache: remove %s: %w", p, err))
				continue
			}
			removed++
		}
		return errors.Join(errs...)
	})
	return removed, err
}

// Entries は読み込める全レコードを返す。壊れたファイルは飛ばす。
func (s *Store) Entries() ([]Entry, error) {
	paths, err := s.recordPaths()
	if err != nil {
		return nil, err
	}
	var entries []Entry
	for _, p := range paths {
		rec, err := readRecord(p)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Path: p, Record: *rec})
	}
	return entries, nil
}

// Remove はキャッシュファイル1件を削除する。
func (s *Store) Remove(path string) error {
	return s.withLock(func() error {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("selcache: remove %s: %w", path, err)
		}
		return nil
	})
}

// Rewrite は選択名を names に置き換え、更新日時を新しくして書き戻す。
func (s *Store) Rewrite(e Entry, names []string) error {
	rec := e.Record
	rec.SelectedConfigs = dedupe(names)
	rec.LastModified = s.now().UTC()
	return s.withLock(func() error { return writeRecord(e.Path, rec) })
}

// recordPaths はキャッシュディレクトリ内のレコードファイルを列挙する。
func (s *Store) recordPaths() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("selcache: read dir %s: %w", s.dir, err)
	}
	var paths []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, name))
	}
	return paths, nil
}

// withLock はキャッシュディレクトリのロックを取って fn を実行する。
func (s *Store) withLock(fn func() error) error {
	if err := os.MkdirAll(s.dir, 0o750); err != nil {
		return fmt.Errorf("selcache: mkdir: %w", err)
	}
	mu, err := filemutex.New(filepath.Join(s.dir, lockName))
	if err != nil {
		return fmt.Errorf("selcache: open lock: %w", err)
	}
	defer mu.Close()

	if err := mu.Lock(); err != nil {
		return fmt.Errorf("selcache: lock: %w", err)
	}
	defer mu.Unlock()
	return fn()
}

func readRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("selcache: parse %s: %w", path, err)
	}
	if rec.Version != Version {
		return nil, fmt.Errorf("selcache: unsupported version %d in %s", rec.Version, path)
	}
	return &rec, nil
}

// writeRecord は一時ファイルに書いてから rename する。
func writeRecord(path string, rec Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("selcache: marshal: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("selcache: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("selcache: write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("selcache: write %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return fmt.Errorf("selcache: chmod %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("selcache: write %s: %w", path, err)
	}
	return nil
}

// dedupe は最初の出現順を保って重複を取り除く。
func dedupe(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}
