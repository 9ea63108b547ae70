// Package tagstore holds raw tag memory for the test harness. A Store is the
// seam between the codec and whatever owns the tag bytes: an emulated
// controller adapter, or the in-memory snapshot used for offline runs.
package tagstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrTagNotFound is returned when a tag has never been written.
var ErrTagNotFound = errors.New("tag not found")

// Store reads and writes whole-tag byte images.
type Store interface {
	ReadTag(ctx context.Context, name string) ([]byte, error)
	WriteTag(ctx context.Context, name string, data []byte) error
}

// ScanFunc lets a MemoryStore emulate controller logic: it is called with a
// copy of the tag after every write and its result becomes the stored value.
type ScanFunc func(tag string, data []byte) ([]byte, error)

// MemoryStore is a Store backed by a map. Data is copied on the way in and
// out so callers never share a buffer with the store.
// It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.Mutex
	tags map[string][]byte
	scan ScanFunc
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tags: make(map[string][]byte)}
}

// SetScan installs a ScanFunc. Pass nil to remove it.
func (s *MemoryStore) SetScan(fn ScanFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scan = fn
}

// ReadTag returns a copy of the tag's bytes.
func (s *MemoryStore) ReadTag(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, ok := s.tags[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTagNotFound, name)
	}
	return clone(data), nil
}

// WriteTag stores a copy of data, then runs the scan function if one is set.
func (s *MemoryStore) WriteTag(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := clone(data)
	if s.scan != nil {
		scanned, err := s.scan(name, clone(stored))
		if err != nil {
			return fmt.Errorf("scan %s: %w", name, err)
		}
		stored = clone(scanned)
	}
	s.tags[name] = stored
	return nil
}

// Tags returns the stored tag names in sorted order.
func (s *MemoryStore) Tags() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.tags))
	for name := range s.tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
