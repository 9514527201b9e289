// Package cleanup は選択キャッシュと設定ディレクトリの掃除を行う。
//
// 対象は3種類:
//   - プロジェクトディレクトリが消えたキャッシュレコード（レコードごと削除）
//   - 存在しない設定ファイルを参照している選択名（名前を除去、空になればレコード削除）
//   - 設定ディレクトリ直下のリンク切れ *.json シンボリックリンク（削除）
package cleanup

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/0x6d61/mcpick/internal/selcache"
)

// Options は掃除の動作設定
type Options struct {
	// DryRun は候補を数えるだけで何も変更しない
	DryRun bool
	// AssumeYes は確認プロンプトを出さずに実行する
	AssumeYes bool
	// Verbose は1件ごとの進捗を表示する
	Verbose bool

	In  io.Reader
	Out io.Writer
}

// Result はカテゴリごとの件数と、個別の失敗メッセージ
type Result struct {
	StaleEntries      int
	InvalidReferences int
	BrokenSymlinks    int
	Failures          []string
}

// Total は全カテゴリの合計件数を返す。
func (r *Result) Total() int {
	return r.StaleEntries + r.InvalidReferences + r.BrokenSymlinks
}

// pruneTarget は参照切れの名前を持つレコード
type pruneTarget struct {
	entry   selcache.Entry
	invalid []string
	keep    []string
}

// Cleaner はキャッシュストアと設定ディレクトリを掃除する。
type Cleaner struct {
	store     *selcache.Store
	configDir string
	opts      Options
	in        *bufio.Reader
	out       io.Writer
}

// New は Cleaner を返す。In/Out が nil なら標準入出力を使う。
func New(store *selcache.Store, configDir string, opts Options) *Cleaner {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	return &Cleaner{
		store:     store,
		configDir: configDir,
		opts:      opts,
		in:        bufio.NewReader(opts.In),
		out:       opts.Out,
	}
}

// Run は掃除を実行する。個々の削除失敗は Result.Failures に集め、処理は続ける。
// エラーを返すのはキャッシュディレクトリ自体が読めない場合のみ。
func (c *Cleaner) Run() (*Result, error) {
	entries, err := c.store.Entries()
	if err != nil {
		return nil, fmt.Errorf("cleanup: %w", err)
	}

	var stale []selcache.Entry
	var prune []pruneTarget
	for _, e := range entries {
		if missing(e.Record.ProjectDir) {
			stale = append(stale, e)
			continue
		}
		if t, ok := c.checkReferences(e); ok {
			prune = append(prune, t)
		}
	}
	broken := c.brokenSymlinks()

	res := &Result{}
	c.removeStale(stale, res)
	c.pruneReferences(prune, res)
	c.removeSymlinks(broken, res)
	return res, nil
}

// checkReferences は e が参照する設定名のうち、ファイルが無いものを探す。
// 名前はレコード自身の設定ディレクトリで照合する。ディレクトリごと無いレコードは対象外。
func (c *Cleaner) checkReferences(e selcache.Entry) (pruneTarget, bool) {
	t := pruneTarget{entry: e}
	dir := e.Record.ConfigDir
	if dir == "" {
		dir = c.configDir
	}
	if missing(dir) {
		return t, false
	}
	for _, name := range e.Record.SelectedConfigs {
		if missing(filepath.Join(dir, name+".json")) {
			t.invalid = append(t.invalid, name)
		} else {
			t.keep = append(t.keep, name)
		}
	}
	return t, len(t.invalid) > 0
}

// brokenSymlinks は設定ディレクトリ直下のリンク切れ *.json を返す。
func (c *Cleaner) brokenSymlinks() []string {
	entries, err := os.ReadDir(c.configDir)
	if err != nil {
		return nil
	}
	var broken []string
	for _, e := range entries {
		if e.Type()&os.ModeSymlink == 0 || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(c.configDir, e.Name())
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			broken = append(broken, path)
		}
	}
	return broken
}

func (c *Cleaner) removeStale(stale []selcache.Entry, res *Result) {
	if len(stale) == 0 {
		return
	}
	fmt.Fprintf(c.out, "Found %d stale cache entr%s (project no longer exists):\n", len(stale), plural(len(stale), "y", "ies"))
	for _, e := range stale {
		fmt.Fprintf(c.out, "  - %s\n", e.Record.ProjectDir)
	}
	if c.opts.DryRun {
		res.StaleEntries = len(stale)
		return
	}
	if !c.confirm("Remove stale cache entries?") {
		return
	}
	for _, e := range stale {
		if err := c.store.Remove(e.Path); err != nil {
			res.Failures = append(res.Failures, fmt.Sprintf("remove stale entry for %s: %v", e.Record.ProjectDir, err))
			continue
		}
		res.StaleEntries++
		c.verbosef("  removed cache entry for %s\n", e.Record.ProjectDir)
	}
}

func (c *Cleaner) pruneReferences(prune []pruneTarget, res *Result) {
	if len(prune) == 0 {
		return
	}
	total := 0
	for _, t := range prune {
		total += len(t.invalid)
	}
	fmt.Fprintf(c.out, "Found %d invalid config reference%s:\n", total, plural(total, "", "s"))
	for _, t := range prune {
		fmt.Fprintf(c.out, "  - %s: %s\n", t.entry.Record.ProjectDir, strings.Join(t.invalid, ", "))
	}
	if c.opts.DryRun {
		res.InvalidReferences = total
		return
	}
	if !c.confirm("Remove invalid config references?") {
		return
	}
	for _, t := range prune {
		var err error
		if len(t.keep) == 0 {
			err = c.store.Remove(t.entry.Path)
		} else {
			err = c.store.Rewrite(t.entry, t.keep)
		}
		if err != nil {
			res.Failures = append(res.Failures, fmt.Sprintf("update cache entry for %s: %v", t.entry.Record.ProjectDir, err))
			continue
		}
		res.InvalidReferences += len(t.invalid)
		if len(t.keep) == 0 {
			c.verbosef("  removed cache entry for %s (no valid configs left)\n", t.entry.Record.ProjectDir)
		} else {
			c.verbosef("  pruned %s from %s\n", strings.Join(t.invalid, ", "), t.entry.Record.ProjectDir)
		}
	}
}

func (c *Cleaner) removeSymlinks(broken []string, res *Result) {
	if len(broken) == 0 {
		return
	}
	fmt.Fprintf(c.out, "Found %d broken symlink%s in %s:\n", len(broken), plural(len(broken), "", "s"), c.configDir)
	for _, p := range broken {
		fmt.Fprintf(c.out, "  - %s\n", filepath.Base(p))
	}
	if c.opts.DryRun {
		res.BrokenSymlinks = len(broken)
		return
	}
	if !c.confirm("Remove broken symlinks?") {
		return
	}
	for _, p := range broken {
		if err := os.Remove(p); err != nil {
			res.Failures = append(res.Failures, fmt.Sprintf("remove symlink %s: %v", p, err))
			continue
		}
		res.BrokenSymlinks++
		c.verbosef("  removed %s\n", p)
	}
}

// confirm は yes/no を尋ねる。空入力は yes、入力が終わっていれば no。
func (c *Cleaner) confirm(question string) bool {
	if c.opts.AssumeYes {
		return true
	}
	fmt.Fprintf(c.out, "%s [Y/n] ", question)
	line, err := c.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(c.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "", "y", "yes":
		return true
	}
	return false
}

func (c *Cleaner) verbosef(format string, args ...any) {
	if c.opts.Verbose {
		fmt.Fprintf(c.out, format, args...)
	}
}

// missing は path が存在しないと確認できた場合に true を返す。
// 権限エラーなどで判定できない場合は存在するものとして扱う。
func missing(path string) bool {
	_, err := os.Stat(path)
	return errors.Is(err, os.ErrNotExist)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
