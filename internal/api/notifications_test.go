package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkNotificationRead(t *testing.T) {
	h, _ := newTestAPI(t)
	coachToken := registerUser(t, h, "coach@example.com", "pw123456", "Coach", "coach")
	athleteToken := registerUser(t, h, "athlete@example.com", "pw123456", "Athlete", "athlete")
	athleteID := whoAmI(t, h, athleteToken)

	teamID := createTeam(t, h, coachToken, "Austin Hawks")
	rec := doJSON(t, h, http.MethodPost, "/teams/"+teamID+"/add?user_id="+athleteID, coachToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/notifications", athleteToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results, _ := decodeBody(t, rec)["results"].([]any)
	require.Len(t, results, 1)
	notification, _ := results[0].(map[string]any)
	notificationID, _ := notification["id"].(string)
	require.NotEmpty(t, notificationID)

	// Another user can't mark it; ownership failures read as not-found.
	rec = doJSON(t, h, http.MethodPost, "/notifications/"+notificationID+"/read", coachToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/notifications/"+notificationID+"/read", athleteToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["ok"])

	rec = doJSON(t, h, http.MethodGet, "/notifications", athleteToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results, _ = decodeBody(t, rec)["results"].([]any)
	require.Len(t, results, 1)
	notification, _ = results[0].(map[string]any)
	assert.Equal(t, true, notification["read"])
}

func TestListNotificationsEmpty(t *testing.T) {
	h, _ := newTestAPI(t)
	token := registerUser(t, h, "quiet@example.com", "pw123456", "Quiet", "athlete")

	rec := doJSON(t, h, http.MethodGet, "/notifications", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results, _ := decodeBody(t, rec)["results"].([]any)
	assert.Empty(t, results)
}
