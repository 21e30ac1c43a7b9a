package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootBanner(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Sportex API running", decodeBody(t, rec)["message"])
}

func TestRegisterLoginMeFlow(t *testing.T) {
	h, _ := newTestAPI(t)

	token := registerUser(t, h, "pat@example.com", "s3cret-pw", "Pat", "athlete")

	// Same email again is a conflict, not a second account.
	rec := doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "pat@example.com", "password": "other-pw", "name": "Pat Again",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email already registered", decodeBody(t, rec)["error"])

	rec = doJSON(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "pat@example.com", "password": "s3cret-pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.NotEmpty(t, body["access_token"])
	assert.Equal(t, "bearer", body["token_type"])

	rec = doJSON(t, h, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decodeBody(t, rec)
	assert.Equal(t, "pat@example.com", me["email"])
	assert.Equal(t, "Pat", me["name"])
	assert.Equal(t, "athlete", me["role"])
	assert.Equal(t, true, me["is_active"])
	_, leaked := me["password_hash"]
	assert.False(t, leaked, "password hash must never be in a response")
}

func TestRegisterValidation(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "", "password": "pw", "name": "Nameless",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "not-an-email", "password": "pw", "name": "Nameless",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"email": "x@example.com", "password": "pw", "name": "X", "role": "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginInvalidCredentials(t *testing.T) {
	h, _ := newTestAPI(t)
	registerUser(t, h, "pat@example.com", "s3cret-pw", "Pat", "")

	rec := doJSON(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "pat@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decodeBody(t, rec)["error"])

	rec = doJSON(t, h, http.MethodPost, "/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "whatever",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", decodeBody(t, rec)["error"])
}

func TestAuthMiddleware(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authorization token is required", decodeBody(t, rec)["error"])

	rec = doJSON(t, h, http.MethodGet, "/me", "garbage.token.here", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid or expired token", decodeBody(t, rec)["error"])
}

func TestGoogleLoginNotConfigured(t *testing.T) {
	h, _ := newTestAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/auth/google/login", "", nil)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}
