package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/charlievieth/fastwalk"
)

// logger provides conditional debug output.
type logger struct {
	enabled bool
}

// printf prints debug output if logging is enabled.
func (l logger) printf(format string, args ...any) {
	if l.enabled {
		//nolint:forbidigo // Debug output to console
		fmt.Printf(format, args...)
	}
}

// calculateDepth returns the depth of a path relative to the root.
func calculateDepth(path, root string) int {
	relPath := strings.TrimPrefix(path, root)

	relPath = strings.TrimPrefix(relPath, string(filepath.Separator))
	if relPath == "" {
		return 0
	}

	return strings.Count(relPath, string(filepath.Separator)) + 1
}

// walker streams every entry below a volume root to an emit callback.
type walker struct {
	root    string
	workers int
	log     logger
	errs    atomic.Int64
}

// walk traverses the tree rooted at w.root with fastwalk and emits one Entry
// per directory and per regular file. Symlinks are never followed and
// non-regular files are dropped. Unreadable entries are counted and skipped
// so a single bad subtree cannot fail the walk.
//
// The emit callback runs concurrently from multiple walk workers and must be
// safe for parallel use. The returned bool reports that the walk was cut
// short by ctx.
func (w *walker) walk(ctx context.Context, emit func(Entry)) (bool, error) {
	conf := &fastwalk.Config{
		Follow:     false, // Don't follow symlinks
		NumWorkers: w.workers,
	}

	//nolint:varnamelen // d is standard for DirEntry
	err := fastwalk.Walk(conf, w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.errs.Add(1)
			w.log.printf("[debug]: error accessing path %s: %v\n", path, err)

			return nil // Skip unreadable entries
		}

		// Check cancellation periodically
		select {
		case <-ctx.Done():
			return context.Canceled
		default:
		}

		depth := calculateDepth(path, w.root)
		if depth == 0 {
			// The root itself is not part of its own listing.
			return nil
		}

		if d.IsDir() {
			emit(Entry{Path: path, IsDir: true, Depth: depth})

			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			w.errs.Add(1)
			w.log.printf("[debug]: error reading metadata for %s: %v\n", path, err)

			return nil //nolint:nilerr // Intentionally skip errors during walk
		}

		emit(Entry{
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Depth:   depth,
		})

		return nil
	})
	if errors.Is(err, context.Canceled) {
		return true, nil
	}

	return false, err
}

// errorCount returns the number of entries skipped due to errors.
func (w *walker) errorCount() int64 {
	return w.errs.Load()
}
