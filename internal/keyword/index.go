package keyword

import (
	"sort"
	"sync"
)

// Entry is a scorable unit held by the index: chunk content plus the
// metadata carried back out in search results.
type Entry struct {
	ID       string
	Content  string
	Source   string
	Metadata map[string]string
}

// Result is one scored hit. Seq is the insertion order of the entry and is
// used to keep ties stable.
type Result struct {
	Entry Entry
	Score float64
	Seq   int
}

// Index is an in-memory lexical index. Safe for concurrent use; Search
// holds only a read lock so queries proceed in parallel.
type Index struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Add appends entries to the corpus. Insertion order is preserved and
// determines tie order in search results.
func (ix *Index) Add(entries ...Entry) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries = append(ix.entries, entries...)
}

// Count returns the number of indexed entries.
func (ix *Index) Count() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// Search scores every entry against query and returns hits with score > 0,
// sorted by score descending. Equal scores keep insertion order. limit <= 0
// means unlimited.
func (ix *Index) Search(query string, limit int) []Result {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	var results []Result
	for i, e := range ix.entries {
		s := Score(query, e.Content)
		if s <= 0 {
			continue
		}
		results = append(results, Result{Entry: e, Score: s, Seq: i})
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score > results[b].Score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Reset drops all entries.
func (ix *Index) Reset() {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	ix.entries = nil
}
