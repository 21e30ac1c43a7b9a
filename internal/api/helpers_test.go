package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sportexhq/sportex/internal/config"
	"github.com/sportexhq/sportex/internal/notify"
	"github.com/sportexhq/sportex/internal/registration"
	"github.com/sportexhq/sportex/internal/store"
)

// newTestAPI wires a full server against a throwaway SQLite store and
// returns the routed handler plus the store for direct assertions.
func newTestAPI(t *testing.T) (http.Handler, store.Store) {
	t.Helper()

	st, err := store.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close(context.Background()) })

	cfg := &config.Config{
		ServerAddr:  ":0",
		JwtSecret:   "api-test-secret",
		StoreDriver: "sqlite",
	}
	emitter := notify.NewEmitter(st, nil)
	engine := registration.NewEngine(st, emitter)
	srv := NewServer(cfg, st, emitter, engine)

	router := chi.NewRouter()
	srv.RegisterRoutes(router)
	return router, st
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// decodeBody unmarshals a JSON response body into a generic map.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

// registerUser creates an account through the public endpoint and returns
// its bearer token.
func registerUser(t *testing.T, h http.Handler, email, password, name, role string) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	token, _ := decodeBody(t, rec)["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

// whoAmI resolves a token to the caller's user id via /me.
func whoAmI(t *testing.T, h http.Handler, token string) string {
	t.Helper()
	rec := doJSON(t, h, http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	id, _ := decodeBody(t, rec)["id"].(string)
	require.NotEmpty(t, id)
	return id
}

// uploadGPX posts raw GPX bytes as a multipart form to the performance
// importer.
func uploadGPX(t *testing.T, h http.Handler, token string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("gpx", "session.gpx")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/athletes/me/performance", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
