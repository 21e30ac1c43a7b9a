package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close(context.Background()) })
	return st
}

func TestInsertAndFindOne(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	coll := st.Collection("things")

	id, err := coll.Insert(ctx, Document{"name": "widget", "qty": 3})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := coll.FindOne(ctx, Filter{"id": id})
	require.NoError(t, err)
	assert.Equal(t, "widget", doc["name"])
	assert.Equal(t, id, doc["id"])
	assert.Equal(t, float64(3), doc["qty"], "numbers come back as float64")

	_, err = coll.FindOne(ctx, Filter{"id": "no-such-id"})
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestInsertDoesNotMutateCallerDocument(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	doc := Document{"name": "widget"}
	_, err := st.Collection("things").Insert(ctx, doc)
	require.NoError(t, err)

	_, hasID := doc["id"]
	assert.False(t, hasID, "caller's map must not gain an id field")
}

func TestFindInsertionOrder(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	coll := st.Collection("things")

	for i := 0; i < 5; i++ {
		_, err := coll.Insert(ctx, Document{"seq": i, "kind": "ordered"})
		require.NoError(t, err)
	}

	docs, err := coll.Find(ctx, Filter{"kind": "ordered"})
	require.NoError(t, err)
	require.Len(t, docs, 5)
	for i, doc := range docs {
		assert.Equal(t, float64(i), doc["seq"])
	}
}

func TestFindWithInFilter(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	coll := st.Collection("registrations")

	for _, status := range []string{"pending", "confirmed", "waitlisted", "cancelled"} {
		_, err := coll.Insert(ctx, Document{"status": status})
		require.NoError(t, err)
	}

	docs, err := coll.Find(ctx, Filter{"status": In{"pending", "confirmed"}})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	n, err := coll.Count(ctx, Filter{"status": In{"pending", "confirmed"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestUpdateOneMerges(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	coll := st.Collection("profiles")

	id, err := coll.Insert(ctx, Document{"sport": "soccer", "bio": "keep me"})
	require.NoError(t, err)

	err = coll.UpdateOne(ctx, Filter{"id": id}, Document{"sport": "futsal"})
	require.NoError(t, err)

	doc, err := coll.FindOne(ctx, Filter{"id": id})
	require.NoError(t, err)
	assert.Equal(t, "futsal", doc["sport"])
	assert.Equal(t, "keep me", doc["bio"], "unmentioned fields survive the merge")
	assert.Equal(t, id, doc["id"])
}

func TestUpdateOneNoMatch(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	err := st.Collection("profiles").UpdateOne(ctx, Filter{"id": "missing"}, Document{"sport": "golf"})
	assert.ErrorIs(t, err, ErrNoDocuments)
}

func TestUpdateOneFirstMatchOnly(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	coll := st.Collection("things")

	first, err := coll.Insert(ctx, Document{"kind": "dup", "n": 1})
	require.NoError(t, err)
	second, err := coll.Insert(ctx, Document{"kind": "dup", "n": 2})
	require.NoError(t, err)

	err = coll.UpdateOne(ctx, Filter{"kind": "dup"}, Document{"touched": true})
	require.NoError(t, err)

	doc, err := coll.FindOne(ctx, Filter{"id": first})
	require.NoError(t, err)
	assert.Equal(t, true, doc["touched"])

	doc, err = coll.FindOne(ctx, Filter{"id": second})
	require.NoError(t, err)
	_, touched := doc["touched"]
	assert.False(t, touched)
}

func TestCollectionsAreIsolated(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	_, err := st.Collection("alpha").Insert(ctx, Document{"name": "only here"})
	require.NoError(t, err)

	n, err := st.Collection("beta").Count(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestConcurrentInserts(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	coll := st.Collection("burst")

	const workers = 8
	const perWorker = 10
	errs := make(chan error, workers*perWorker)
	for w := 0; w < workers; w++ {
		go func(w int) {
			for i := 0; i < perWorker; i++ {
				_, err := coll.Insert(ctx, Document{"worker": fmt.Sprintf("w%d", w), "i": i})
				errs <- err
			}
		}(w)
	}
	for i := 0; i < workers*perWorker; i++ {
		require.NoError(t, <-errs)
	}

	n, err := coll.Count(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(workers*perWorker), n)
}
