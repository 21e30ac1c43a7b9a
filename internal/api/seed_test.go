package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportexhq/sportex/internal/model"
	"github.com/sportexhq/sportex/internal/store"
)

func TestSeed(t *testing.T) {
	h, st := newTestAPI(t)
	ctx := context.Background()

	rec := doJSON(t, h, http.MethodPost, "/seed", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Seeded", body["message"])
	assert.NotEmpty(t, body["admin_id"])
	assert.NotEmpty(t, body["team_id"])
	eventIDs, _ := body["event_ids"].([]any)
	assert.Len(t, eventIDs, 2)

	// Admin + coach + organizer + ten athletes.
	users, err := st.Collection(model.CollectionUsers).Count(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(13), users)

	profiles, err := st.Collection(model.CollectionProfiles).Count(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(10), profiles)

	regs, err := st.Collection(model.CollectionRegistrations).Count(ctx, store.Filter{"status": string(model.StatusConfirmed)})
	require.NoError(t, err)
	assert.Equal(t, int64(3), regs)

	// Seeded accounts can log in with their documented passwords.
	rec = doJSON(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "coach@sportex.io", "password": "coach123",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSeedIdempotent(t *testing.T) {
	h, st := newTestAPI(t)
	ctx := context.Background()

	rec := doJSON(t, h, http.MethodPost, "/seed", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/seed", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Already seeded", decodeBody(t, rec)["message"])

	users, err := st.Collection(model.CollectionUsers).Count(ctx, store.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(13), users, "a second seed must not duplicate data")
}

// Any existing user blocks the seed, not just a previous seed run.
func TestSeedSkipsWhenUsersExist(t *testing.T) {
	h, st := newTestAPI(t)

	registerUser(t, h, "early@example.com", "pw123456", "Early Bird", "athlete")

	rec := doJSON(t, h, http.MethodPost, "/seed", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Already seeded", decodeBody(t, rec)["message"])

	users, err := st.Collection(model.CollectionUsers).Count(context.Background(), store.Filter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), users)
}
