package analyzer

import (
	"container/heap"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// aggregator is one independent reduction over the entry stream. Add must be
// safe for concurrent use since fastwalk calls the walk callback from
// multiple goroutines.
type aggregator interface {
	Add(e Entry)
}

// aggShards is the lock striping factor for the map-backed aggregators.
const aggShards = 16

// shardIndex hashes a key with FNV-1a to pick a shard.
func shardIndex(key string) int {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)

	hash := uint32(offset32)
	for i := 0; i < len(key); i++ {
		hash ^= uint32(key[i])
		hash *= prime32
	}

	return int(hash % aggShards)
}

// hiddenName reports whether the last path element starts with a dot.
func hiddenName(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// normalizeExt returns the lower-cased extension of path without the leading
// dot. Dotfiles such as ".bashrc" and names without a dot map to the empty
// bucket.
func normalizeExt(path string) string {
	base := filepath.Base(path)

	ext := filepath.Ext(base)
	if ext == "" || ext == base {
		return ""
	}

	return strings.ToLower(ext[1:])
}

// ancestorPaths returns the folders that contain path, from the first level
// below root down to at most limit levels. The root itself is never included.
func ancestorPaths(path, root string, limit int) []string {
	relPath := strings.TrimPrefix(path, root)
	relPath = strings.TrimPrefix(relPath, string(filepath.Separator))

	prefix := len(path) - len(relPath)

	var out []string

	for i := 0; i < len(relPath) && len(out) < limit; i++ {
		if relPath[i] == filepath.Separator {
			out = append(out, path[:prefix+i])
		}
	}

	return out
}

// sortBySize orders files largest first; ties resolve by path so repeated
// scans of the same tree produce identical output.
func sortBySize(files []FileInfo) {
	sort.Slice(files, func(i, j int) bool {
		if files[i].Size != files[j].Size {
			return files[i].Size > files[j].Size
		}

		return files[i].Path < files[j].Path
	})
}

// folderTotal accumulates one folder's cumulative weight.
type folderTotal struct {
	depth int
	size  int64
	files int64
}

type folderShard struct {
	mu     sync.Mutex
	totals map[string]*folderTotal
}

// folderAggregator rolls every file up into its ancestor folders, bounded to
// maxDepth levels below the root. Contention is spread over shards keyed by
// folder path, so walk workers touching different subtrees rarely collide.
type folderAggregator struct {
	root     string
	maxDepth int
	minSize  int64
	shards   [aggShards]folderShard
}

func newFolderAggregator(root string, maxDepth int, minSize int64) *folderAggregator {
	a := &folderAggregator{root: root, maxDepth: maxDepth, minSize: minSize}
	for i := range a.shards {
		a.shards[i].totals = make(map[string]*folderTotal)
	}

	return a
}

// Add credits a file's size to every tracked ancestor folder.
func (a *folderAggregator) Add(e Entry) {
	if e.IsDir {
		return
	}

	for i, dir := range ancestorPaths(e.Path, a.root, a.maxDepth) {
		shard := &a.shards[shardIndex(dir)]

		shard.mu.Lock()

		total := shard.totals[dir]
		if total == nil {
			total = &folderTotal{depth: i + 1}
			shard.totals[dir] = total
		}

		total.size += e.Size
		total.files++

		shard.mu.Unlock()
	}
}

// Result merges the shards and returns qualifying folders, largest first.
// Folders below the size threshold and folders whose own name starts with a
// dot are dropped.
func (a *folderAggregator) Result() []FolderSize {
	var out []FolderSize

	for i := range a.shards {
		shard := &a.shards[i]

		shard.mu.Lock()

		for dir, total := range shard.totals {
			if total.size < a.minSize || hiddenName(dir) {
				continue
			}

			out = append(out, FolderSize{
				Path:  dir,
				Depth: total.depth,
				Size:  total.size,
				Files: total.files,
			})
		}

		shard.mu.Unlock()
	}

	// Sort by size (largest first); ties resolve by path for stable output.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size != out[j].Size {
			return out[i].Size > out[j].Size
		}

		return out[i].Path < out[j].Path
	})

	return out
}

type extTotal struct {
	size  int64
	count int64
}

type extShard struct {
	mu     sync.Mutex
	totals map[string]extTotal
}

// extAggregator buckets files by normalized extension.
type extAggregator struct {
	minSize int64
	shards  [aggShards]extShard
}

func newExtAggregator(minSize int64) *extAggregator {
	a := &extAggregator{minSize: minSize}
	for i := range a.shards {
		a.shards[i].totals = make(map[string]extTotal)
	}

	return a
}

// Add credits a file to its extension bucket.
func (a *extAggregator) Add(e Entry) {
	if e.IsDir {
		return
	}

	ext := normalizeExt(e.Path)
	shard := &a.shards[shardIndex(ext)]

	shard.mu.Lock()

	total := shard.totals[ext]
	total.size += e.Size
	total.count++
	shard.totals[ext] = total

	shard.mu.Unlock()
}

// Result merges the shards and returns qualifying buckets, largest first.
func (a *extAggregator) Result() []ExtensionStat {
	var out []ExtensionStat

	for i := range a.shards {
		shard := &a.shards[i]

		shard.mu.Lock()

		for ext, total := range shard.totals {
			if total.size < a.minSize {
				continue
			}

			out = append(out, ExtensionStat{Ext: ext, Size: total.size, Count: total.count})
		}

		shard.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Size != out[j].Size {
			return out[i].Size > out[j].Size
		}

		return out[i].Ext < out[j].Ext
	})

	return out
}

type topItem struct {
	file FileInfo
	seq  int64
}

// topHeap is a min-heap ordered by size, so the root is always the weakest
// tracked file. Among equal sizes the most recently admitted entry is
// weakest, which lets earlier files win ties.
type topHeap []topItem

func (h topHeap) Len() int { return len(h) }

func (h topHeap) Less(i, j int) bool {
	if h[i].file.Size != h[j].file.Size {
		return h[i].file.Size < h[j].file.Size
	}

	return h[i].seq > h[j].seq
}

func (h topHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *topHeap) Push(x any) { *h = append(*h, x.(topItem)) }

func (h *topHeap) Pop() any {
	old := *h
	item := old[len(old)-1]
	*h = old[:len(old)-1]

	return item
}

// topAggregator tracks the N largest files in a bounded min-heap, so memory
// stays at N items no matter how many files the walk sees.
type topAggregator struct {
	mu    sync.Mutex
	limit int
	seq   int64
	items topHeap
}

func newTopAggregator(limit int) *topAggregator {
	if limit < 0 {
		limit = 0
	}

	return &topAggregator{limit: limit, items: make(topHeap, 0, limit)}
}

// Add offers a file to the heap. Once full, only a strictly larger file
// displaces the weakest member, so an equal-sized latecomer never evicts an
// earlier file.
func (a *topAggregator) Add(e Entry) {
	if e.IsDir || a.limit == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.seq++
	item := topItem{
		file: FileInfo{Path: e.Path, Size: e.Size, ModTime: e.ModTime},
		seq:  a.seq,
	}

	if len(a.items) < a.limit {
		heap.Push(&a.items, item)

		return
	}

	if e.Size <= a.items[0].file.Size {
		return
	}

	a.items[0] = item
	heap.Fix(&a.items, 0)
}

// Result returns the tracked files, largest first. Equal sizes keep the
// order in which the files were admitted.
func (a *topAggregator) Result() []FileInfo {
	a.mu.Lock()
	defer a.mu.Unlock()

	items := make([]topItem, len(a.items))
	copy(items, a.items)

	sort.Slice(items, func(i, j int) bool {
		if items[i].file.Size != items[j].file.Size {
			return items[i].file.Size > items[j].file.Size
		}

		return items[i].seq < items[j].seq
	})

	out := make([]FileInfo, len(items))
	for i, item := range items {
		out[i] = item.file
	}

	return out
}

// recentAggregator collects large files modified within a trailing window
// measured against a fixed anchor, so every file in one scan is judged
// against the same instant.
type recentAggregator struct {
	mu      sync.Mutex
	anchor  time.Time
	window  time.Duration
	minSize int64
	files   []FileInfo
}

func newRecentAggregator(anchor time.Time, window time.Duration, minSize int64) *recentAggregator {
	return &recentAggregator{anchor: anchor, window: window, minSize: minSize}
}

// Add keeps files at least minSize bytes whose age is within the window.
// A file modified exactly at the window boundary still counts as recent.
func (a *recentAggregator) Add(e Entry) {
	if e.IsDir || e.Size < a.minSize {
		return
	}

	if a.anchor.Sub(e.ModTime) > a.window {
		return
	}

	a.mu.Lock()
	a.files = append(a.files, FileInfo{Path: e.Path, Size: e.Size, ModTime: e.ModTime})
	a.mu.Unlock()
}

// Result returns the collected files, largest first.
func (a *recentAggregator) Result() []FileInfo {
	a.mu.Lock()
	defer a.mu.Unlock()

	sortBySize(a.files)

	return a.files
}

// staleAggregator collects large files untouched for at least the window.
type staleAggregator struct {
	mu      sync.Mutex
	anchor  time.Time
	window  time.Duration
	minSize int64
	files   []FileInfo
}

func newStaleAggregator(anchor time.Time, window time.Duration, minSize int64) *staleAggregator {
	return &staleAggregator{anchor: anchor, window: window, minSize: minSize}
}

// Add keeps files at least minSize bytes whose age reaches the window.
// A file aged exactly the window counts as stale.
func (a *staleAggregator) Add(e Entry) {
	if e.IsDir || e.Size < a.minSize {
		return
	}

	if a.anchor.Sub(e.ModTime) < a.window {
		return
	}

	a.mu.Lock()
	a.files = append(a.files, FileInfo{Path: e.Path, Size: e.Size, ModTime: e.ModTime})
	a.mu.Unlock()
}

// Result returns the collected files, largest first.
func (a *staleAggregator) Result() []FileInfo {
	a.mu.Lock()
	defer a.mu.Unlock()

	sortBySize(a.files)

	return a.files
}
