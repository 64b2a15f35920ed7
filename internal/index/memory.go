package index

import (
	"slices"
	"strings"
	"sync"
	"time"
)

// MarkIndex caches the descending listing of a marks directory together
// with the directory modification time it was read at. Listings handed
// out are never mutated: every change builds a new slice.
type MarkIndex struct {
	mu         sync.RWMutex
	names      []string  // mark names, newest first
	dirStamp   time.Time // marks/ mtime the listing matches
	loaded     bool
	lastReload time.Time // when the listing was last read from disk
}

// NewMarkIndex creates an empty, unloaded index.
func NewMarkIndex() *MarkIndex {
	return &MarkIndex{}
}

// SortDescending orders names the way listings are presented: ascending
// by bytes, then reversed.
func SortDescending(names []string) {
	slices.Sort(names)
	slices.Reverse(names)
}

// Find returns the position of name in a descending listing.
func Find(names []string, name string) (int, bool) {
	return slices.BinarySearchFunc(names, name, func(e, target string) int {
		return strings.Compare(target, e)
	})
}

// Replace installs a freshly read listing. names must already be descending.
func (idx *MarkIndex) Replace(names []string, dirStamp time.Time) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.names = names
	idx.dirStamp = dirStamp
	idx.loaded = true
	idx.lastReload = time.Now()
}

// Snapshot returns the current listing and the directory stamp it matches.
// ok is false until the first Replace.
func (idx *MarkIndex) Snapshot() (names []string, dirStamp time.Time, ok bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.names, idx.dirStamp, idx.loaded
}

// Add inserts name at its ordered position and records the new stamp.
func (idx *MarkIndex) Add(name string, dirStamp time.Time) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	pos, found := Find(idx.names, name)
	if !found {
		next := make([]string, 0, len(idx.names)+1)
		next = append(next, idx.names[:pos]...)
		next = append(next, name)
		next = append(next, idx.names[pos:]...)
		idx.names = next
	}
	idx.dirStamp = dirStamp
}

// Remove drops name and records the new stamp.
func (idx *MarkIndex) Remove(name string, dirStamp time.Time) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if pos, found := Find(idx.names, name); found {
		next := make([]string, 0, len(idx.names)-1)
		next = append(next, idx.names[:pos]...)
		next = append(next, idx.names[pos+1:]...)
		idx.names = next
	}
	idx.dirStamp = dirStamp
}

// Invalidate forces the next reader to reload from disk.
func (idx *MarkIndex) Invalidate() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.loaded = false
}

// Count returns the number of marks in the listing.
func (idx *MarkIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.names)
}

// GetLastReload returns when the listing was last read from disk.
func (idx *MarkIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
