// Package pipeline runs the badge resolver over a documentation tree: it
// discovers source files, scans each for tags, resolves them for the build
// target and hands the rewritten content to a Sink.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	ignore "github.com/sabhiram/go-gitignore"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/sofmeright/badgetag/src/badge"
	"github.com/sofmeright/badgetag/src/config"
	"github.com/sofmeright/badgetag/src/tag"
)

// FileInfo identifies a document to process.
type FileInfo struct {
	Path    string // relative path from the root, slash-separated
	AbsPath string // path on disk
	Size    int64
}

// Result summarizes one processed document.
type Result struct {
	File     string
	Tags     int // occurrences found
	Rendered int // replaced with markup
	Dropped  int // removed for this target
	Kept     int // left as written
	Changed  bool
}

// Engine resolves badge tags across a set of documents.
type Engine struct {
	Source   config.SourceConfig
	RootDir  string
	Target   string
	Resolver *badge.Resolver
	Sink     Sink
	Jobs     int // max concurrent files (0 = NumCPU*2)
	Log      logrus.FieldLogger
}

// Run processes files concurrently and returns one Result per file, sorted
// by path. Per-file errors don't stop the run; they are aggregated into the
// returned error. Cancelling ctx stops new files from being started.
func (e *Engine) Run(ctx context.Context, files []FileInfo) ([]Result, error) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []Result
		errs    []error
	)

	jobs := e.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU() * 2
	}
	sem := semaphore.NewWeighted(int64(jobs))

	for _, file := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
			break
		}
		wg.Add(1)
		go func(f FileInfo) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := e.ProcessFile(f)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			results = append(results, res)
		}(file)
	}

	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].File < results[j].File })

	if len(errs) > 0 {
		return results, fmt.Errorf("%d file errors (first: %w)", len(errs), errs[0])
	}
	return results, nil
}

// ProcessFile resolves every tag in one document and writes the result to
// the engine's sink.
func (e *Engine) ProcessFile(f FileInfo) (Result, error) {
	res := Result{File: f.Path}

	data, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return res, fmt.Errorf("pipeline: reading %s: %w", f.Path, err)
	}

	out := e.Rewrite(data, f.Path, &res)
	res.Changed = string(out) != string(data)

	if e.Log != nil && res.Tags > 0 {
		e.Log.WithField("file", f.Path).Debugf("%d tags: %d rendered, %d dropped, %d kept",
			res.Tags, res.Rendered, res.Dropped, res.Kept)
	}

	if e.Sink != nil {
		if err := e.Sink.Write(f, out, res.Changed); err != nil {
			return res, fmt.Errorf("pipeline: writing %s: %w", f.Path, err)
		}
	}
	return res, nil
}

// Rewrite returns src with its tags resolved. Counters are added to res
// when it is non-nil.
func (e *Engine) Rewrite(src []byte, file string, res *Result) []byte {
	occs := tag.Scan(src, tag.ScanOptions{File: file, SkipCode: e.Source.SkipCode})
	if res != nil {
		res.Tags += len(occs)
	}

	return tag.Replace(src, occs, func(occ tag.Occurrence) string {
		r := e.Resolver.Evaluate(occ, e.Target)
		e.Resolver.Report(r)
		if res != nil {
			switch r.Outcome {
			case badge.Rendered:
				res.Rendered++
			case badge.Dropped:
				res.Dropped++
			case badge.Kept:
				res.Kept++
			}
		}
		return r.Text
	})
}

// CollectFiles returns the documents to process. With no paths it walks
// RootDir; otherwise each path (relative to RootDir unless absolute) is
// walked if it is a directory or taken as-is if it is a file. Walked files
// must match Source.Include and not Source.Exclude.
func (e *Engine) CollectFiles(paths ...string) ([]FileInfo, error) {
	if len(paths) == 0 {
		paths = []string{"."}
	}

	var gi *ignore.GitIgnore
	if e.Source.Gitignore {
		gi = loadGitignore(e.RootDir)
	}

	seen := map[string]bool{}
	var files []FileInfo
	add := func(fi FileInfo) {
		if !seen[fi.Path] {
			seen[fi.Path] = true
			files = append(files, fi)
		}
	}

	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(e.RootDir, p)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}

		if !info.IsDir() {
			add(FileInfo{Path: e.relPath(abs), AbsPath: abs, Size: info.Size()})
			continue
		}

		if err := e.walk(abs, gi, add); err != nil {
			return nil, err
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

func (e *Engine) walk(dir string, gi *ignore.GitIgnore, add func(FileInfo)) error {
	return filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel := e.relPath(p)

		if d.IsDir() {
			name := d.Name()
			if p != dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if p != dir && gi != nil && gi.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}
		if !matchesAny(e.Source.Include, rel) || matchesAny(e.Source.Exclude, rel) {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		add(FileInfo{Path: rel, AbsPath: p, Size: info.Size()})
		return nil
	})
}

// relPath returns p relative to RootDir with forward slashes. Paths outside
// the root are returned cleaned and slash-separated.
func (e *Engine) relPath(p string) string {
	rel, err := filepath.Rel(e.RootDir, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(filepath.Clean(p))
	}
	return filepath.ToSlash(rel)
}

func loadGitignore(root string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}
