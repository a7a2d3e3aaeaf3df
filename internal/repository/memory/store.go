// Package memory implements the folder and file repositories in process.
//
// All data lives in one state value guarded by Store.mu. A unit of work
// (ExecTx) clones the committed state, runs against the clone and publishes
// it on success, so readers never observe a half-applied move. Writers are
// serialized by Store.writeMu; a write issued outside ExecTx runs as its own
// single-statement transaction.
package memory

import (
	"context"
	"sync"
	"time"

	"arbor/internal/domain/models"
	"arbor/internal/domain/repositories"
)

type state struct {
	folders      map[int64]models.Folder
	files        map[int64]models.File
	nextFolderID int64
	nextFileID   int64
}

func newState() *state {
	return &state{
		folders:      make(map[int64]models.Folder),
		files:        make(map[int64]models.File),
		nextFolderID: 1,
		nextFileID:   1,
	}
}

// clone deep-copies the state. Pointer fields of the records are copied so
// a discarded transaction cannot leak writes through shared pointers.
func (st *state) clone() *state {
	c := &state{
		folders:      make(map[int64]models.Folder, len(st.folders)),
		files:        make(map[int64]models.File, len(st.files)),
		nextFolderID: st.nextFolderID,
		nextFileID:   st.nextFileID,
	}
	for id, f := range st.folders {
		c.folders[id] = copyFolder(f)
	}
	for id, f := range st.files {
		c.files[id] = copyFile(f)
	}
	return c
}

// Store holds the in-memory folder and file relations
type Store struct {
	mu        sync.RWMutex
	writeMu   sync.Mutex
	committed *state
	now       func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the timestamp source
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store. Ids start at 1 for both relations.
func NewStore(opts ...Option) *Store {
	s := &Store{
		committed: newState(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// txContextKey scopes an open transaction to the store that started it
type txContextKey struct{}

type txState struct {
	owner *Store
	work  *state
}

var _ repositories.TransactionManager = (*Store)(nil)

// ExecTx runs fn against a private copy of the data and commits it if fn
// returns nil. A ctx already inside a transaction of this store joins it.
func (s *Store) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	if s.txFrom(ctx) != nil {
		return fn(ctx)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txContextKey{}, &txState{owner: s, work: work})); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()

	return nil
}

// Ping reports whether ctx is still usable; the store itself is always up
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) txFrom(ctx context.Context) *state {
	tx, ok := ctx.Value(txContextKey{}).(*txState)
	if !ok || tx.owner != s {
		return nil
	}
	return tx.work
}

// read runs fn against the transaction state carried by ctx, or the
// committed state under a read lock
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if work := s.txFrom(ctx); work != nil {
		return fn(work)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.committed)
}

// write runs fn inside the caller's transaction or a fresh one
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if work := s.txFrom(ctx); work != nil {
		return fn(work)
	}
	return s.ExecTx(ctx, func(txCtx context.Context) error {
		return fn(s.txFrom(txCtx))
	})
}

func copyFolder(f models.Folder) models.Folder {
	if f.ParentID != nil {
		id := *f.ParentID
		f.ParentID = &id
	}
	if f.DeletedAt != nil {
		t := *f.DeletedAt
		f.DeletedAt = &t
	}
	return f
}

func copyFile(f models.File) models.File {
	if f.FolderID != nil {
		id := *f.FolderID
		f.FolderID = &id
	}
	if f.Size != nil {
		n := *f.Size
		f.Size = &n
	}
	if f.MimeType != nil {
		m := *f.MimeType
		f.MimeType = &m
	}
	if f.DeletedAt != nil {
		t := *f.DeletedAt
		f.DeletedAt = &t
	}
	return f
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
