// Package store defines the document store the rest of the application is
// built on: named collections of schemaless JSON documents with lookup by
// field equality or set membership. Two backends implement it, an embedded
// SQLite store for single-node deployments and a MongoDB store for anything
// with an external database. Handlers and engines receive a Store at
// construction and never touch a driver directly.
package store

import (
	"context"
	"errors"
)

// ErrNoDocuments is returned by FindOne and UpdateOne when no document
// matches the filter. Both backends translate their driver-native
// "not found" into this sentinel so callers only check one error.
var ErrNoDocuments = errors.New("store: no documents in result")

// Document is a single schemaless record. Values follow JSON conventions:
// strings, float64 numbers, bools, []any and nested map[string]any.
type Document = map[string]any

// In is a set-membership predicate. A filter value of type In matches a
// document whose field equals any member of the set.
type In []any

// Filter selects documents by top-level field value. Plain values match by
// equality; In values match by membership. An empty filter matches every
// document in the collection.
type Filter map[string]any

// Collection is one named set of documents.
type Collection interface {
	// FindOne returns the first document matching filter, in insertion
	// order, or ErrNoDocuments.
	FindOne(ctx context.Context, filter Filter) (Document, error)

	// Find returns all documents matching filter, in insertion order.
	Find(ctx context.Context, filter Filter) ([]Document, error)

	// Insert stores a new document and returns its generated id. The
	// stored document carries the id in its "id" field.
	Insert(ctx context.Context, doc Document) (string, error)

	// UpdateOne merges set into the first document matching filter.
	// Fields not named in set are left untouched.
	UpdateOne(ctx context.Context, filter Filter, set Document) error

	// Count returns the number of documents matching filter.
	Count(ctx context.Context, filter Filter) (int64, error)
}

// Store hands out collections and owns the lifecycle of the underlying
// connection. Connect on startup, Close on shutdown.
type Store interface {
	Collection(name string) Collection
	Close(ctx context.Context) error
}

// Matches reports whether doc satisfies filter. It is used by the SQLite
// backend, which filters in-process, and by tests; the Mongo backend
// compiles filters to native queries instead.
func Matches(doc Document, filter Filter) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok {
			return false
		}
		if set, isSet := want.(In); isSet {
			if !memberOf(got, set) {
				return false
			}
			continue
		}
		if !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

func memberOf(got any, set In) bool {
	for _, candidate := range set {
		if valuesEqual(got, candidate) {
			return true
		}
	}
	return false
}

// valuesEqual compares a stored value with a filter value. Numeric types
// are widened to float64 first so that a filter built with an int matches
// a number that came back from JSON decoding as float64.
func valuesEqual(got, want any) bool {
	if gf, ok := asFloat(got); ok {
		wf, ok := asFloat(want)
		return ok && gf == wf
	}
	return got == want
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
