package ledger

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryRepository keeps ledger entries in memory.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryRepository constructs an empty in-memory ledger.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: map[string]Entry{}}
}

// Get returns the entry for target and postPath or ErrEntryNotFound.
func (r *MemoryRepository) Get(_ context.Context, target, postPath string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[memoryKey(target, postPath)]
	if !ok {
		return Entry{}, ErrEntryNotFound
	}
	return entry, nil
}

// Record stores entry, replacing any previous entry for the same post.
func (r *MemoryRepository) Record(_ context.Context, entry Entry) (Entry, error) {
	entry = normalizeEntry(entry)
	r.mu.Lock()
	r.entries[memoryKey(entry.Target, entry.PostPath)] = entry
	r.mu.Unlock()
	return entry, nil
}

// List returns every entry for target ordered by post path.
func (r *MemoryRepository) List(_ context.Context, target string) ([]Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Entry
	for _, entry := range r.entries {
		if entry.Target == target {
			out = append(out, entry)
		}
	}
	slices.SortFunc(out, func(a, b Entry) int {
		return strings.Compare(a.PostPath, b.PostPath)
	})
	return out, nil
}

func memoryKey(target, postPath string) string {
	return target + "\x00" + postPath
}
