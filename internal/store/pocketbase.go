package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"github.com/paiforbusiness1-rgb/LiveSHOW-Promo-Control/internal/status"
)

// PocketBaseStore adapts a PocketBase collection to the Store interface. The
// change feed is driven by the app's record hooks, fanned out to a local
// subscriber list so callers get a per-subscription unsubscribe without
// touching the hook registry.
type PocketBaseStore struct {
	app        core.App
	collection string

	mu      sync.Mutex
	nextSub int
	subs    map[int]func(*Record)
	hooked  bool
}

func NewPocketBaseStore(app core.App, collection string) *PocketBaseStore {
	return &PocketBaseStore{
		app:        app,
		collection: collection,
		subs:       make(map[int]func(*Record)),
	}
}

func (s *PocketBaseStore) Get(ctx context.Context, key string) (*Record, error) {
	rec, err := s.app.FindRecordById(s.collection, key)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return toDocument(rec), nil
}

func (s *PocketBaseStore) QueryEqual(ctx context.Context, field, value string) ([]*Record, error) {
	recs, err := s.app.FindAllRecords(s.collection, dbx.HashExp{field: value})
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return toDocuments(recs), nil
}

func (s *PocketBaseStore) ScanAll(ctx context.Context) ([]*Record, error) {
	recs, err := s.app.FindAllRecords(s.collection)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return toDocuments(recs), nil
}

func (s *PocketBaseStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	err := s.app.RunInTransaction(func(txApp core.App) error {
		return fn(&pbTx{app: txApp, collection: s.collection})
	})
	if err == nil {
		return nil
	}
	// Sentinels raised inside fn pass through untouched.
	if errors.Is(err, status.ErrNotFound) ||
		errors.Is(err, status.ErrTransactionConflict) ||
		errors.Is(err, status.ErrStoreUnavailable) {
		return err
	}
	if isLockContention(err) {
		return fmt.Errorf("%w: %v", status.ErrTransactionConflict, err)
	}
	return fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
}

func (s *PocketBaseStore) Subscribe(fn func(rec *Record)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hooked {
		s.bindHooks()
		s.hooked = true
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *PocketBaseStore) bindHooks() {
	notify := func(e *core.RecordEvent) error {
		s.publish(toDocument(e.Record))
		return e.Next()
	}
	s.app.OnRecordAfterCreateSuccess(s.collection).BindFunc(notify)
	s.app.OnRecordAfterUpdateSuccess(s.collection).BindFunc(notify)
}

func (s *PocketBaseStore) publish(rec *Record) {
	s.mu.Lock()
	listeners := make([]func(*Record), 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(rec)
	}
}

type pbTx struct {
	app        core.App
	collection string
}

func (t *pbTx) Get(key string) (*Record, error) {
	rec, err := t.app.FindRecordById(t.collection, key)
	if err != nil {
		return nil, mapLookupErr(err)
	}
	return toDocument(rec), nil
}

func (t *pbTx) Update(key string, patch map[string]any) error {
	rec, err := t.app.FindRecordById(t.collection, key)
	if err != nil {
		return mapLookupErr(err)
	}
	for field, value := range patch {
		rec.Set(field, value)
	}
	return t.app.Save(rec)
}

func toDocument(rec *core.Record) *Record {
	return &Record{Key: rec.Id, Data: rec.FieldsData()}
}

func toDocuments(recs []*core.Record) []*Record {
	docs := make([]*Record, len(recs))
	for i, rec := range recs {
		docs[i] = toDocument(rec)
	}
	return docs
}

func mapLookupErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return status.ErrNotFound
	}
	return fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
}

// SQLite reports write contention as busy/locked driver errors.
func isLockContention(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database is busy") ||
		strings.Contains(msg, "busy_snapshot")
}
