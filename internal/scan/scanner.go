package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	ignore "github.com/sabhiram/go-gitignore"

	"devsweep/internal/project"
)

// defaultWorkers bounds concurrent directory reads during size
// accounting. Keeps file-descriptor usage flat on very wide trees.
const defaultWorkers = 8

// maxWarnings caps the warning log so a badly permissioned tree can't
// balloon memory.
const maxWarnings = 500

// ─── Results ─────────────────────────────────────────────────────────────────

// Candidate is a directory claimed for deletion: a classified build
// artifact or dependency cache together with its recursive disk usage.
// Candidates are never nested; once a directory is claimed, its subtree
// is opaque cache content and is excluded from further classification.
type Candidate struct {
	Path    string
	Type    project.Type
	Size    int64
	Entries int64
}

// Warning records a non-fatal problem encountered during a scan, such
// as an unreadable subdirectory. Warnings never abort the traversal.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) String() string {
	return w.Path + ": " + w.Err.Error()
}

// TotalSize sums the reported sizes of the given candidates.
func TotalSize(candidates []Candidate) int64 {
	var total int64
	for _, c := range candidates {
		total += c.Size
	}
	return total
}

// ─── Options ─────────────────────────────────────────────────────────────────

// Options control a single Scan call. The zero value scans for every
// project type with default concurrency and no exclusions.
type Options struct {
	// Types filters which project types may be claimed. Nil or empty
	// means all types.
	Types project.Set

	// Exclude holds gitignore-style patterns, matched against paths
	// relative to the scan root. Matching directories are skipped
	// entirely: never classified, never descended into.
	Exclude *ignore.GitIgnore

	// Workers bounds concurrent directory reads during size
	// accounting. Values <= 0 use the default.
	Workers int
}

// ─── Scanner ─────────────────────────────────────────────────────────────────

type scanner struct {
	ctx  context.Context
	root string
	opts Options
	sem  chan struct{}
	wg   sync.WaitGroup

	mu         sync.Mutex
	warnings   []Warning
	candidates []*Candidate
}

// Scan walks the tree rooted at root and returns every directory
// classified as a deletable build artifact or cache, sorted by size
// descending (ties broken by path). The classification walk runs on the
// calling goroutine; each candidate's size is computed by an
// independent sub-walk on a bounded worker pool.
//
// A missing or non-directory root is fatal and returns before any
// candidate is produced. Cancelling ctx stops the traversal between
// directory visits and returns the partial results alongside ctx.Err().
func Scan(ctx context.Context, root string, opts Options) ([]Candidate, []Warning, error) {
	root = filepath.Clean(root)

	info, err := os.Lstat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("scan root %s: not a directory", root)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	s := &scanner{
		ctx:  ctx,
		root: root,
		opts: opts,
		sem:  make(chan struct{}, workers),
	}

	s.walk(root)
	s.wg.Wait()

	out := make([]Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size != out[j].Size {
			return out[i].Size > out[j].Size
		}
		return out[i].Path < out[j].Path
	})

	return out, s.warnings, ctx.Err()
}

func (s *scanner) warn(path string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.warnings) < maxWarnings {
		s.warnings = append(s.warnings, Warning{Path: path, Err: err})
	}
}

// excluded reports whether path matches an exclude pattern. Patterns
// apply to the path relative to the scan root.
func (s *scanner) excluded(path string) bool {
	if s.opts.Exclude == nil {
		return false
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return false
	}
	return s.opts.Exclude.MatchesPath(rel)
}

// walk is the classification pass. Each directory is listed exactly
// once; that listing doubles as the sibling set for classifying its
// subdirectories, so no second read is needed. A claimed subtree is
// handed to the size pool and never descended into here, which is what
// keeps candidates from nesting.
func (s *scanner) walk(dir string) {
	if s.ctx.Err() != nil {
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		s.warn(dir, err)
		return
	}

	siblings := make([]string, len(entries))
	for i, e := range entries {
		siblings[i] = e.Name()
	}

	for _, e := range entries {
		// Symlinks report as non-directories here (Lstat semantics),
		// so they are opaque leaves and can never escape the root.
		if !e.IsDir() {
			continue
		}

		path := filepath.Join(dir, e.Name())
		if s.excluded(path) {
			continue
		}

		if t, ok := project.Match(e.Name(), siblings, s.opts.Types); ok {
			c := &Candidate{Path: path, Type: t}
			s.mu.Lock()
			s.candidates = append(s.candidates, c)
			s.mu.Unlock()

			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.measure(c)
			}()
			continue
		}

		s.walk(path)
	}
}

// measure fills in the candidate's recursive size and entry count. The
// sub-walk writes only to its own candidate, so no locking is needed
// between concurrent measurements.
func (s *scanner) measure(c *Candidate) {
	s.sizeWalk(c.Path, &c.Size, &c.Entries)
}

// sizeWalk is the opaque accounting pass beneath a claimed candidate.
// It never classifies. Unreadable directories are warned about and
// files that vanish mid-scan count as zero bytes; neither fails the
// candidate. The semaphore is held only during the ReadDir I/O so
// nested recursion cannot deadlock the pool.
func (s *scanner) sizeWalk(dir string, size, entries *int64) {
	if s.ctx.Err() != nil {
		return
	}

	s.sem <- struct{}{}
	list, err := os.ReadDir(dir)
	<-s.sem

	if err != nil {
		s.warn(dir, err)
		return
	}

	for _, e := range list {
		path := filepath.Join(dir, e.Name())
		if e.IsDir() {
			s.sizeWalk(path, size, entries)
			continue
		}

		info, err := e.Info()
		if err != nil {
			// TOCTOU: the entry disappeared between listing and stat.
			continue
		}

		*entries++
		if info.Mode().IsRegular() {
			*size += info.Size()
		}
	}
}
