package cache

import (
	"context"
	"database/sql"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Preparer is satisfied by *sql.DB and *sql.Conn.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// stmtEntry counts the callers still using a statement. An evicted entry is
// closed by whichever of eviction or the last release comes second.
type stmtEntry struct {
	stmt    *sql.Stmt
	refs    int
	evicted bool
}

// StatementCache keeps prepared statements. A statement leaves the cache on
// eviction but is closed only once every caller holding it has released it.
type StatementCache struct {
	cache *lru.Cache[uint64, *stmtEntry]
	mu    sync.Mutex
}

func NewStatementCache(size int) *StatementCache {
	// Add and Purge run with mu held, so the callback does not lock.
	cache, _ := lru.NewWithEvict(size, func(key uint64, e *stmtEntry) {
		e.evicted = true
		if e.refs == 0 {
			e.stmt.Close()
		}
	})

	return &StatementCache{
		cache: cache,
	}
}

// GetOrPrepare returns the cached statement for query, preparing it on db on a
// miss. The caller must call release once it is done with the statement,
// including any rows read from it.
func (s *StatementCache) GetOrPrepare(ctx context.Context, db Preparer, query string) (*sql.Stmt, func(), error) {
	key := Fingerprint("", query)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.cache.Get(key)
	if !ok {
		stmt, err := db.PrepareContext(ctx, query)
		if err != nil {
			return nil, nil, err
		}
		e = &stmtEntry{stmt: stmt}
		s.cache.Add(key, e)
	}
	e.refs++

	var once sync.Once
	return e.stmt, func() { once.Do(func() { s.release(e) }) }, nil
}

func (s *StatementCache) release(e *stmtEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.refs--
	if e.evicted && e.refs == 0 {
		e.stmt.Close()
	}
}

// Len reports how many statements are cached.
func (s *StatementCache) Len() int {
	return s.cache.Len()
}

// Close evicts every statement. Statements still in use close on release.
func (s *StatementCache) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Purge()
	return nil
}
