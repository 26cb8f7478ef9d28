package store

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/status"
)

// MemoryStore is an in-process Store used by tests and local tooling. It
// implements optimistic transactions: commits verify that every record read
// inside the transaction is still at the version it was read at, so of N
// concurrent transactions on one record exactly one commits and the rest fail
// with status.ErrTransactionConflict.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*memRecord

	subMu   sync.Mutex
	nextSub int
	subs    map[int]func(*Record)
}

type memRecord struct {
	data    map[string]any
	version uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*memRecord),
		subs:    make(map[int]func(*Record)),
	}
}

// Seed loads a record as-is, bypassing transactions. Records are created
// out-of-band in this system; Seed is that out-of-band path.
func (s *MemoryStore) Seed(key string, data map[string]any) {
	s.mu.Lock()
	s.records[key] = &memRecord{data: maps.Clone(data)}
	s.mu.Unlock()
	s.publish(&Record{Key: key, Data: maps.Clone(data)})
}

func (s *MemoryStore) Get(ctx context.Context, key string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[key]
	if !ok {
		return nil, status.ErrNotFound
	}
	return &Record{Key: key, Data: maps.Clone(rec.data)}, nil
}

func (s *MemoryStore) QueryEqual(ctx context.Context, field, value string) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Record
	for _, key := range s.sortedKeys() {
		rec := s.records[key]
		if fieldString(rec.data[field]) == value {
			out = append(out, &Record{Key: key, Data: maps.Clone(rec.data)})
		}
	}
	return out, nil
}

func (s *MemoryStore) ScanAll(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Record, 0, len(s.records))
	for _, key := range s.sortedKeys() {
		out = append(out, &Record{Key: key, Data: maps.Clone(s.records[key].data)})
	}
	return out, nil
}

func (s *MemoryStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	tx := &memTx{
		store: s,
		reads: make(map[string]uint64),
		stage: make(map[string]map[string]any),
	}
	if err := fn(tx); err != nil {
		return err
	}

	s.mu.Lock()
	for key, version := range tx.reads {
		rec, ok := s.records[key]
		if !ok || rec.version != version {
			s.mu.Unlock()
			return status.ErrTransactionConflict
		}
	}
	changed := make([]*Record, 0, len(tx.stage))
	for key, patch := range tx.stage {
		rec := s.records[key]
		maps.Copy(rec.data, patch)
		rec.version++
		changed = append(changed, &Record{Key: key, Data: maps.Clone(rec.data)})
	}
	s.mu.Unlock()

	for _, rec := range changed {
		s.publish(rec)
	}
	return nil
}

func (s *MemoryStore) Subscribe(fn func(rec *Record)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *MemoryStore) publish(rec *Record) {
	s.subMu.Lock()
	listeners := make([]func(*Record), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(rec)
	}
}

// sortedKeys keeps enumeration order deterministic. Callers hold s.mu.
func (s *MemoryStore) sortedKeys() []string {
	keys := make([]string, 0, len(s.records))
	for key := range s.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type memTx struct {
	store *MemoryStore
	reads map[string]uint64
	stage map[string]map[string]any
}

func (t *memTx) Get(key string) (*Record, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	rec, ok := t.store.records[key]
	if !ok {
		return nil, status.ErrNotFound
	}
	t.reads[key] = rec.version
	data := maps.Clone(rec.data)
	if patch, ok := t.stage[key]; ok {
		maps.Copy(data, patch)
	}
	return &Record{Key: key, Data: data}, nil
}

func (t *memTx) Update(key string, patch map[string]any) error {
	if _, ok := t.reads[key]; !ok {
		// Blind writes still need a version to verify at commit.
		t.store.mu.RLock()
		rec, exists := t.store.records[key]
		if !exists {
			t.store.mu.RUnlock()
			return status.ErrNotFound
		}
		t.reads[key] = rec.version
		t.store.mu.RUnlock()
	}
	staged, ok := t.stage[key]
	if !ok {
		staged = make(map[string]any, len(patch))
		t.stage[key] = staged
	}
	maps.Copy(staged, patch)
	return nil
}

func fieldString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
