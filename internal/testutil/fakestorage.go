// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"todo/internal/storage"
)

// Write records one Set call on a FakeStorage.
type Write struct {
	Key   string
	Value string
}

// FakeStorage is an in-memory implementation of storage.Storage for testing.
type FakeStorage struct {
	mu     sync.RWMutex
	slots  map[string][]byte
	writes []Write
	closed bool

	// Error injection for testing
	GetErr   error
	SetErr   error
	CloseErr error
}

// NewFakeStorage creates an empty FakeStorage.
func NewFakeStorage() *FakeStorage {
	return &FakeStorage{slots: make(map[string][]byte)}
}

// Put seeds a slot without recording a write.
func (f *FakeStorage) Put(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots[key] = []byte(value)
}

// Value returns the raw value of a slot.
func (f *FakeStorage) Value(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.slots[key]
	return string(v), ok
}

// Writes returns every Set call in order, including failed ones.
func (f *FakeStorage) Writes() []Write {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Write, len(f.writes))
	copy(out, f.writes)
	return out
}

// Closed reports whether Close was called.
func (f *FakeStorage) Closed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.closed
}

// Get implements storage.Storage.
func (f *FakeStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if f.GetErr != nil {
		return nil, f.GetErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.slots[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set implements storage.Storage.
func (f *FakeStorage) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, Write{Key: key, Value: string(value)})
	if f.SetErr != nil {
		return f.SetErr
	}
	f.slots[key] = append([]byte(nil), value...)
	return nil
}

// Close implements storage.Storage.
func (f *FakeStorage) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return f.CloseErr
}
