package storage

import (
	"context"
	"maps"
	"slices"
)

// Buffer stages writes over a base Reader. Backends without native multi-key
// transactions run the update function against a Buffer and apply its mutations
// in one atomic step afterwards.
type Buffer struct {
	base    Reader
	sets    map[string][]byte
	deletes map[string]struct{}
}

var _ Txn = (*Buffer)(nil)

// NewBuffer creates a Buffer reading through to base.
func NewBuffer(base Reader) *Buffer {
	return &Buffer{
		base:    base,
		sets:    make(map[string][]byte),
		deletes: make(map[string]struct{}),
	}
}

// Get returns the pending value for key if one is staged, otherwise reads base.
func (b *Buffer) Get(ctx context.Context, key string) ([]byte, error) {
	if _, ok := b.deletes[key]; ok {
		return nil, ErrNotFound
	}
	if v, ok := b.sets[key]; ok {
		return slices.Clone(v), nil
	}
	return b.base.Get(ctx, key)
}

// Set stages a write.
func (b *Buffer) Set(_ context.Context, key string, value []byte) error {
	delete(b.deletes, key)
	b.sets[key] = slices.Clone(value)
	return nil
}

// Delete stages a removal.
func (b *Buffer) Delete(_ context.Context, key string) error {
	delete(b.sets, key)
	b.deletes[key] = struct{}{}
	return nil
}

// Sets returns the staged writes. The returned map is a copy.
func (b *Buffer) Sets() map[string][]byte {
	return maps.Clone(b.sets)
}

// Deletes returns the staged removals in key order.
func (b *Buffer) Deletes() []string {
	keys := slices.Collect(maps.Keys(b.deletes))
	slices.Sort(keys)
	return keys
}

// Empty reports whether nothing has been staged.
func (b *Buffer) Empty() bool {
	return len(b.sets) == 0 && len(b.deletes) == 0
}
