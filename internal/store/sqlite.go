package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // The pure Go SQLite driver
)

// SQLiteStore keeps every collection as a two-column table (id, doc) in a
// single SQLite file. Documents are stored as JSON and filters are applied
// in-process after decoding; at this scale a table scan per query is fine
// and keeps the backend honest about the document model.
//
// SQLite tolerates exactly one writer at a time, so all writes to a
// collection are serialized through a per-collection mutex.
type SQLiteStore struct {
	db *sql.DB

	serviceLock sync.Mutex             // protects the two maps below
	collMutexes map[string]*sync.Mutex // one write mutex per collection
	tables      map[string]bool        // collections whose table exists
}

// OpenSQLite opens (creating if necessary) the store file at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", path, err)
	}
	return &SQLiteStore{
		db:          db,
		collMutexes: make(map[string]*sync.Mutex),
		tables:      make(map[string]bool),
	}, nil
}

// Collection returns a handle for the named collection. The backing table
// is created lazily on first use.
func (s *SQLiteStore) Collection(name string) Collection {
	return &sqliteCollection{store: s, name: name}
}

// Close shuts the underlying database connection.
func (s *SQLiteStore) Close(ctx context.Context) error {
	if err := s.db.Close(); err != nil {
		return err
	}
	log.Println("INFO: Document store closed.")
	return nil
}

// getMutex retrieves or creates the write mutex for a collection.
func (s *SQLiteStore) getMutex(name string) *sync.Mutex {
	s.serviceLock.Lock()
	defer s.serviceLock.Unlock()

	if _, ok := s.collMutexes[name]; !ok {
		s.collMutexes[name] = &sync.Mutex{}
	}
	return s.collMutexes[name]
}

// ensureTable creates the collection's table if it hasn't been seen yet.
// Safe to call on every operation; the result is cached.
func (s *SQLiteStore) ensureTable(name string) error {
	s.serviceLock.Lock()
	defer s.serviceLock.Unlock()

	if s.tables[name] {
		return nil
	}
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %q (
			id  TEXT PRIMARY KEY,
			doc TEXT NOT NULL
		);`, "collection_"+name)
	if _, err := s.db.Exec(query); err != nil {
		return err
	}
	s.tables[name] = true
	return nil
}

type sqliteCollection struct {
	store *SQLiteStore
	name  string
}

func (c *sqliteCollection) table() string {
	return fmt.Sprintf("%q", "collection_"+c.name)
}

func (c *sqliteCollection) FindOne(ctx context.Context, filter Filter) (Document, error) {
	docs, err := c.scan(ctx, filter, 1)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}
	return docs[0], nil
}

func (c *sqliteCollection) Find(ctx context.Context, filter Filter) ([]Document, error) {
	return c.scan(ctx, filter, 0)
}

func (c *sqliteCollection) Insert(ctx context.Context, doc Document) (string, error) {
	if err := c.store.ensureTable(c.name); err != nil {
		return "", err
	}

	// Work on a copy so the caller's map isn't mutated.
	stored := make(Document, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}
	id := uuid.NewString()
	stored["id"] = id

	raw, err := json.Marshal(stored)
	if err != nil {
		return "", err
	}

	mutex := c.store.getMutex(c.name)
	mutex.Lock()
	defer mutex.Unlock()

	query := fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES (?, ?);`, c.table())
	if _, err := c.store.db.ExecContext(ctx, query, id, string(raw)); err != nil {
		return "", err
	}
	return id, nil
}

func (c *sqliteCollection) UpdateOne(ctx context.Context, filter Filter, set Document) error {
	if err := c.store.ensureTable(c.name); err != nil {
		return err
	}

	mutex := c.store.getMutex(c.name)
	mutex.Lock()
	defer mutex.Unlock()

	// Find-then-rewrite under the collection mutex so two concurrent
	// updates can't clobber each other's fields.
	docs, err := c.scan(ctx, filter, 1)
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		return ErrNoDocuments
	}

	doc := docs[0]
	for k, v := range set {
		doc[k] = v
	}
	id, _ := doc["id"].(string)

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE %s SET doc = ? WHERE id = ?;`, c.table())
	_, err = c.store.db.ExecContext(ctx, query, string(raw), id)
	return err
}

func (c *sqliteCollection) Count(ctx context.Context, filter Filter) (int64, error) {
	docs, err := c.scan(ctx, filter, 0)
	if err != nil {
		return 0, err
	}
	return int64(len(docs)), nil
}

// scan walks the collection in insertion (rowid) order and returns
// documents matching filter, up to limit (0 means no limit).
func (c *sqliteCollection) scan(ctx context.Context, filter Filter, limit int) ([]Document, error) {
	if err := c.store.ensureTable(c.name); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT doc FROM %s ORDER BY rowid;`, c.table())
	rows, err := c.store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var doc Document
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, err
		}
		if !Matches(doc, filter) {
			continue
		}
		docs = append(docs, doc)
		if limit > 0 && len(docs) == limit {
			break
		}
	}
	return docs, rows.Err()
}
