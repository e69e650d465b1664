// Package memory implements the store client boundary fully in process. It
// backs the repositories of entities without real persistence needs and all
// repository-level tests.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lhpaul/finadmin/internal/store"

	"github.com/google/uuid"
)

// Store is an in-memory hierarchical document store keyed by document path.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*record
}

type record struct {
	data       map[string]interface{}
	createTime time.Time
	updateTime time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{docs: make(map[string]*record)}
}

func (s *Store) Collection(path string) store.CollectionRef {
	return &collectionRef{store: s, path: strings.Trim(path, "/")}
}

func (s *Store) CollectionGroup(name string) store.Query {
	return &query{store: s, group: name}
}

func (s *Store) Doc(path string) store.DocumentRef {
	path = strings.Trim(path, "/")
	segments := strings.Split(path, "/")
	id := segments[len(segments)-1]
	return &documentRef{store: s, path: path, id: id}
}

func (s *Store) Batch() store.Batch {
	return &batch{store: s}
}

// RunTransaction executes fn against a serializable view of the store. Reads
// observe committed state; writes buffer and apply atomically on success.
func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx store.Transaction) error) error {
	tx := &transaction{store: s}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	return s.applyWrites(tx.writes)
}

func (s *Store) Close(ctx context.Context) error {
	return nil
}

// Len reports the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

var _ store.Client = (*Store)(nil)

// collectionRef

type collectionRef struct {
	store *Store
	path  string
}

func (c *collectionRef) Path() string { return c.path }

func (c *collectionRef) Doc(id string) store.DocumentRef {
	return &documentRef{store: c.store, path: c.path + "/" + id, id: id}
}

func (c *collectionRef) NewDoc() store.DocumentRef {
	return c.Doc(uuid.NewString())
}

func (c *collectionRef) Where(field, operator string, value interface{}) store.Query {
	return c.query().Where(field, operator, value)
}

func (c *collectionRef) OrderBy(field string, direction store.Direction) store.Query {
	return c.query().OrderBy(field, direction)
}

func (c *collectionRef) Limit(n int) store.Query  { return c.query().Limit(n) }
func (c *collectionRef) Offset(n int) store.Query { return c.query().Offset(n) }

func (c *collectionRef) Documents(ctx context.Context) ([]*store.Snapshot, error) {
	return c.query().Documents(ctx)
}

func (c *collectionRef) query() *query {
	return &query{store: c.store, collection: c.path}
}

// documentRef

type documentRef struct {
	store *Store
	path  string
	id    string
}

func (d *documentRef) ID() string   { return d.id }
func (d *documentRef) Path() string { return d.path }

func (d *documentRef) Get(ctx context.Context) (*store.Snapshot, error) {
	d.store.mu.RLock()
	defer d.store.mu.RUnlock()
	rec, ok := d.store.docs[d.path]
	if !ok {
		return nil, store.NewError(store.CodeNotFound, fmt.Sprintf("no document at %s", d.path))
	}
	return d.snapshot(rec), nil
}

func (d *documentRef) Create(ctx context.Context, data map[string]interface{}) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	return d.store.createLocked(d.path, data)
}

func (d *documentRef) Update(ctx context.Context, data map[string]interface{}) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	return d.store.updateLocked(d.path, data)
}

func (d *documentRef) Delete(ctx context.Context) error {
	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	return d.store.deleteLocked(d.path)
}

func (d *documentRef) snapshot(rec *record) *store.Snapshot {
	data := make(map[string]interface{}, len(rec.data))
	for k, v := range rec.data {
		data[k] = v
	}
	return &store.Snapshot{
		ID:         d.id,
		Path:       d.path,
		Exists:     true,
		Data:       data,
		CreateTime: rec.createTime,
		UpdateTime: rec.updateTime,
	}
}

// Locked mutations shared by direct writes, batches and transactions.

func (s *Store) createLocked(path string, data map[string]interface{}) error {
	if _, exists := s.docs[path]; exists {
		return store.NewError(store.CodeAlreadyExists, fmt.Sprintf("document already exists at %s", path))
	}
	now := time.Now()
	s.docs[path] = &record{data: materialize(data, now), createTime: now, updateTime: now}
	return nil
}

func (s *Store) updateLocked(path string, data map[string]interface{}) error {
	rec, ok := s.docs[path]
	if !ok {
		return store.NewError(store.CodeNotFound, fmt.Sprintf("no document at %s", path))
	}
	now := time.Now()
	for k, v := range materialize(data, now) {
		rec.data[k] = v
	}
	rec.updateTime = now
	return nil
}

func (s *Store) deleteLocked(path string) error {
	if _, ok := s.docs[path]; !ok {
		return store.NewError(store.CodeNotFound, fmt.Sprintf("no document at %s", path))
	}
	delete(s.docs, path)
	return nil
}

// materialize resolves write sentinels into concrete values.
func materialize(data map[string]interface{}, now time.Time) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		if fv, ok := v.(store.FieldValue); ok && fv == store.ServerTimestamp {
			out[k] = now
			continue
		}
		out[k] = v
	}
	return out
}

// write buffering for batches and transactions

type bufferedWrite struct {
	kind string // "create", "update", "delete"
	path string
	data map[string]interface{}
}

func (s *Store) applyWrites(writes []bufferedWrite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Validate first so a failing write leaves the store untouched.
	for _, w := range writes {
		_, exists := s.docs[w.path]
		switch w.kind {
		case "create":
			if exists {
				return store.NewError(store.CodeAlreadyExists, fmt.Sprintf("document already exists at %s", w.path))
			}
		case "update", "delete":
			if !exists {
				return store.NewError(store.CodeNotFound, fmt.Sprintf("no document at %s", w.path))
			}
		}
	}
	for _, w := range writes {
		switch w.kind {
		case "create":
			if err := s.createLocked(w.path, w.data); err != nil {
				return err
			}
		case "update":
			if err := s.updateLocked(w.path, w.data); err != nil {
				return err
			}
		case "delete":
			if err := s.deleteLocked(w.path); err != nil {
				return err
			}
		}
	}
	return nil
}

type batch struct {
	store  *Store
	writes []bufferedWrite
}

func (b *batch) Create(ref store.DocumentRef, data map[string]interface{}) {
	b.writes = append(b.writes, bufferedWrite{kind: "create", path: ref.Path(), data: data})
}

func (b *batch) Update(ref store.DocumentRef, data map[string]interface{}) {
	b.writes = append(b.writes, bufferedWrite{kind: "update", path: ref.Path(), data: data})
}

func (b *batch) Delete(ref store.DocumentRef) {
	b.writes = append(b.writes, bufferedWrite{kind: "delete", path: ref.Path()})
}

func (b *batch) Commit(ctx context.Context) error {
	err := b.store.applyWrites(b.writes)
	b.writes = nil
	return err
}

type transaction struct {
	store  *Store
	writes []bufferedWrite
}

func (t *transaction) Get(ref store.DocumentRef) (*store.Snapshot, error) {
	return ref.Get(context.Background())
}

func (t *transaction) Create(ref store.DocumentRef, data map[string]interface{}) {
	t.writes = append(t.writes, bufferedWrite{kind: "create", path: ref.Path(), data: data})
}

func (t *transaction) Update(ref store.DocumentRef, data map[string]interface{}) {
	t.writes = append(t.writes, bufferedWrite{kind: "update", path: ref.Path(), data: data})
}

func (t *transaction) Delete(ref store.DocumentRef) {
	t.writes = append(t.writes, bufferedWrite{kind: "delete", path: ref.Path()})
}
