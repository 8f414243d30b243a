package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/beename"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/database/memory"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/handler"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/linking"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/user"
	"github.com/p0t4t0sandwich/bee-name-generator/internal/verifier"
)

const testAPIKey = "test-key"

// newTestRouter wires the real services over the in-memory store
func newTestRouter(t *testing.T) (http.Handler, *memory.Store) {
	t.Helper()
	handler.InitValidator()

	store := memory.NewStore()
	registry := verifier.NewRegistry()
	registry.Register(domain.PlatformMinecraft, verifier.VerifierFunc(func(ctx context.Context, username string) (domain.Account, error) {
		if username != "Steve" {
			return nil, domain.ErrAccountNotFound
		}
		return &domain.MinecraftAccount{ID: "mc-steve", Username: "Steve", Edition: domain.MinecraftEditionJava}, nil
	}))

	users := user.NewService(store.Users(), user.CacheConfig{})
	linker := linking.NewService(store.Users(), store.PendingLinks(), registry, nil, linking.Config{})
	names := beename.NewService(store.BeeNames(), nil)

	return NewRouter(Options{APIKey: testAPIKey}, users, linker, names), store
}

func do(t *testing.T, h http.Handler, method, target, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set(HeaderAuthorization, "Bearer "+testAPIKey)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	h, _ := newTestRouter(t)

	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/", "", false).Code)
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/healthz", "", false).Code)
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/readyz", "", false).Code)
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/version", "", false).Code)
	assert.Equal(t, http.StatusOK, do(t, h, "GET", "/metrics", "", false).Code)

	// No names uploaded yet
	assert.Equal(t, http.StatusNotFound, do(t, h, "GET", "/api/v1/bee-name-generator/name", "", false).Code)
}

func TestRouter_ProtectedRoutesRequireKey(t *testing.T) {
	h, _ := newTestRouter(t)

	routes := []struct{ method, path string }{
		{"POST", "/api/v1/bee-name-generator/name/buzz"},
		{"DELETE", "/api/v1/bee-name-generator/name/buzz"},
		{"GET", "/api/v1/bee-name-generator/suggestion"},
		{"GET", "/api/v1/bee-name-generator/suggestion/5"},
		{"PUT", "/api/v1/bee-name-generator/suggestion/buzz"},
		{"DELETE", "/api/v1/bee-name-generator/suggestion/buzz"},
		{"POST", "/api/v1/users/resolve"},
		{"GET", "/api/v1/users/abc"},
		{"POST", "/api/v1/link"},
		{"GET", "/api/v1/link/status"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, do(t, h, rt.method, rt.path, "", false).Code)
		})
	}
}

func TestRouter_BeeNameLifecycle(t *testing.T) {
	h, store := newTestRouter(t)

	// Anyone can suggest through the landing page form
	form := url.Values{"name": {"Bee Movie"}}
	req := httptest.NewRequest("POST", "/api/v1/bee-name-generator/suggestion", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"bee movie"}`, rec.Body.String())

	rec = do(t, h, "GET", "/api/v1/bee-name-generator/suggestion/10", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"names":["bee movie"]}`, rec.Body.String())

	rec = do(t, h, "PUT", "/api/v1/bee-name-generator/suggestion/bee%20movie", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, "GET", "/api/v1/bee-name-generator/name", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"bee movie"}`, rec.Body.String())

	rec = do(t, h, "POST", "/api/v1/bee-name-generator/name", `{"name":"bee movie"}`, true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, "DELETE", "/api/v1/bee-name-generator/name/bee%20movie", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	count, err := store.BeeNames().Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRouter_LinkFlow(t *testing.T) {
	h, _ := newTestRouter(t)

	body := `{"origin":{"platform":"discord","username":"buzz","id":"42"},"target":{"platform":"minecraft","username":"Steve"}}`
	rec := do(t, h, "POST", "/api/v1/link", body, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result linking.LinkResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "Your Minecraft Java account has been linked", result.Data)

	rec = do(t, h, "GET", "/api/v1/link/status?platform=discord&platform_id=42", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var status linking.LinkStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.ElementsMatch(t, []string{"discord", "minecraft"}, status.LinkedPlatforms)

	// A second Discord user cannot take the same Minecraft account
	body = `{"origin":{"platform":"discord","username":"other","id":"43"},"target":{"platform":"minecraft","username":"Steve"}}`
	rec = do(t, h, "POST", "/api/v1/link", body, true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, "GET", "/api/v1/users/"+status.UserID, "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"Steve"`)
}
