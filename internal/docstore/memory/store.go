// Package memory implements the document store in process memory.
// It backs tests, the demo seeder, and single-process development runs.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/campuseats/freefood-backend/internal/docstore"
	"github.com/campuseats/freefood-backend/internal/domain"
)

// Store keeps documents as canonical JSON bytes guarded by a single mutex.
// Transactions take the write lock for their whole duration, so they are
// fully serialized — correct, and plenty for an in-memory backend.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte // collection -> id -> doc
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{data: make(map[string]map[string][]byte)}
}

var _ docstore.Store = (*Store)(nil)

func (s *Store) Put(ctx context.Context, collection, id string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("memory: marshal %s/%s: %w", collection, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(collection, id, raw)
	return nil
}

func (s *Store) Get(ctx context.Context, collection, id string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	raw, ok := s.data[collection][id]
	s.mu.RUnlock()

	if !ok {
		return fmt.Errorf("memory: %s/%s: %w", collection, id, domain.ErrNotFound)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("memory: decode %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data[collection], id)
	return nil
}

func (s *Store) QueryByField(ctx context.Context, collection, field, value string, limit int, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	raws := s.matchLocked(collection, field, value, limit)
	s.mu.RUnlock()

	return decodeSlice(raws, out)
}

func (s *Store) ListAll(ctx context.Context, collection string, out any) error {
	return s.QueryByField(ctx, collection, "", "", 0, out)
}

// RunTransaction serializes fn against all other store access. Writes are
// staged and applied only when fn returns nil.
func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx docstore.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{store: s, staged: make(map[string]map[string]*[]byte)}
	if err := fn(ctx, tx); err != nil {
		return err
	}

	for collection, docs := range tx.staged {
		for id, raw := range docs {
			if raw == nil {
				delete(s.data[collection], id)
				continue
			}
			s.putLocked(collection, id, *raw)
		}
	}
	return nil
}

func (s *Store) putLocked(collection, id string, raw []byte) {
	if s.data[collection] == nil {
		s.data[collection] = make(map[string][]byte)
	}
	s.data[collection][id] = raw
}

// matchLocked returns raw docs whose top-level field equals value, sorted by
// id for deterministic results. An empty field matches everything.
func (s *Store) matchLocked(collection, field, value string, limit int) [][]byte {
	ids := make([]string, 0, len(s.data[collection]))
	for id := range s.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var raws [][]byte
	for _, id := range ids {
		raw := s.data[collection][id]
		if field != "" && !fieldEquals(raw, field, value) {
			continue
		}
		raws = append(raws, raw)
		if limit > 0 && len(raws) >= limit {
			break
		}
	}
	return raws
}

// memTx stages writes on top of the locked store. A nil staged entry marks
// a delete.
type memTx struct {
	store  *Store
	staged map[string]map[string]*[]byte
}

func (t *memTx) Get(ctx context.Context, collection, id string, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if staged, ok := t.staged[collection][id]; ok {
		if staged == nil {
			return fmt.Errorf("memory: %s/%s: %w", collection, id, domain.ErrNotFound)
		}
		return json.Unmarshal(*staged, out)
	}

	raw, ok := t.store.data[collection][id]
	if !ok {
		return fmt.Errorf("memory: %s/%s: %w", collection, id, domain.ErrNotFound)
	}
	return json.Unmarshal(raw, out)
}

func (t *memTx) Put(ctx context.Context, collection, id string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("memory: marshal %s/%s: %w", collection, id, err)
	}
	if t.staged[collection] == nil {
		t.staged[collection] = make(map[string]*[]byte)
	}
	t.staged[collection][id] = &raw
	return nil
}

func (t *memTx) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.staged[collection] == nil {
		t.staged[collection] = make(map[string]*[]byte)
	}
	t.staged[collection][id] = nil
	return nil
}

func (t *memTx) QueryByField(ctx context.Context, collection, field, value string, limit int, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Merge committed docs with staged writes, then filter.
	merged := make(map[string][]byte, len(t.store.data[collection]))
	for id, raw := range t.store.data[collection] {
		merged[id] = raw
	}
	for id, raw := range t.staged[collection] {
		if raw == nil {
			delete(merged, id)
			continue
		}
		merged[id] = *raw
	}

	ids := make([]string, 0, len(merged))
	for id := range merged {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var raws [][]byte
	for _, id := range ids {
		raw := merged[id]
		if field != "" && !fieldEquals(raw, field, value) {
			continue
		}
		raws = append(raws, raw)
		if limit > 0 && len(raws) >= limit {
			break
		}
	}
	return decodeSlice(raws, out)
}

func (t *memTx) ListAll(ctx context.Context, collection string, out any) error {
	return t.QueryByField(ctx, collection, "", "", 0, out)
}

func fieldEquals(raw []byte, field, value string) bool {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return false
	}
	fieldRaw, ok := doc[field]
	if !ok {
		return false
	}
	var s string
	if err := json.Unmarshal(fieldRaw, &s); err != nil {
		return false
	}
	return s == value
}

// decodeSlice re-assembles raw docs into a JSON array and decodes it into
// out, so callers get typed slices without per-backend mapping code.
func decodeSlice(raws [][]byte, out any) error {
	msgs := make([]json.RawMessage, len(raws))
	for i, raw := range raws {
		msgs[i] = raw
	}
	arr, err := json.Marshal(msgs)
	if err != nil {
		return fmt.Errorf("memory: marshal result set: %w", err)
	}
	if err := json.Unmarshal(arr, out); err != nil {
		return fmt.Errorf("memory: decode result set: %w", err)
	}
	return nil
}
