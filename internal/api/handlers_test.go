package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/api"
	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/config"
	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/profile"
	"github.com/evolute-studio/evolute-dojo-server-sub001/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, store profile.Store, opts ...api.Option) http.Handler {
	t.Helper()
	var n atomic.Int64
	env := config.DefaultProfileEnv{AdminPrivateKey: "0xenvkey", RPCURL: "http://localhost:5050"}
	repo := profile.NewRepository(store, profile.StaticEnv(env), nil)
	svc := profile.NewService(repo, profile.WithIDGenerator(func() string {
		return fmt.Sprintf("p%d", n.Add(1))
	}))
	return api.NewServer(svc, config.NullLogger(), opts...)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type profileBody struct {
	Profile profile.Profile `json:"profile"`
}

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

func prodBody() map[string]any {
	return map[string]any{
		"name":            "Prod",
		"adminAddress":    "0xabc",
		"adminPrivateKey": "0xdef",
		"rpcUrl":          "https://rpc.example",
		"toriiUrl":        "https://torii.example",
		"worldAddress":    "0x123",
		"contracts":       map[string]string{"gameContract": "0x1"},
	}
}

// ---------------------------------------------------------------------------
// GET /profiles
// ---------------------------------------------------------------------------

func TestListEmpty(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())

	rec := do(t, h, http.MethodGet, "/profiles", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	l := decode[profile.Listing](t, rec)
	require.Len(t, l.Profiles, 1)
	assert.Equal(t, profile.DefaultID, l.Profiles[0].ID)
	assert.Equal(t, "0xenvkey", l.Profiles[0].AdminPrivateKey)
	require.NotNil(t, l.ActiveProfile)
	assert.Equal(t, profile.DefaultID, l.ActiveProfile.ID)
}

// ---------------------------------------------------------------------------
// POST /profiles
// ---------------------------------------------------------------------------

func TestCreateProfile(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())

	rec := do(t, h, http.MethodPost, "/profiles", prodBody())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	created := decode[profileBody](t, rec).Profile
	assert.Equal(t, "p1", created.ID)
	assert.Equal(t, profile.Redacted, created.AdminPrivateKey)

	l := decode[profile.Listing](t, do(t, h, http.MethodGet, "/profiles", nil))
	require.Len(t, l.Profiles, 2)
	assert.Equal(t, profile.Redacted, l.Profiles[1].AdminPrivateKey)
	assert.Equal(t, "p1", l.ActiveProfile.ID)
}

func TestCreateDuplicateName(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/profiles", prodBody()).Code)

	rec := do(t, h, http.MethodPost, "/profiles", prodBody())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "name", decode[errorBody](t, rec).Field)
}

func TestCreateInvalidContract(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	body := prodBody()
	body["contracts"] = map[string]string{"gameContract": "not-hex"}

	rec := do(t, h, http.MethodPost, "/profiles", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	e := decode[errorBody](t, rec)
	assert.Equal(t, "contracts.gameContract", e.Field)
	assert.Contains(t, e.Error, "contracts.gameContract")
}

func TestCreateMalformedBody(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	req := httptest.NewRequest(http.MethodPost, "/profiles", strings.NewReader("{oops"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateStorageFailure(t *testing.T) {
	store := profile.NewMemStore()
	store.FailSaves(errors.New("read-only filesystem"))
	h := newTestServer(t, store)

	rec := do(t, h, http.MethodPost, "/profiles", prodBody())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "read-only filesystem")
}

// ---------------------------------------------------------------------------
// GET /profiles/{id}
// ---------------------------------------------------------------------------

func TestGetProfileIsRedacted(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	do(t, h, http.MethodPost, "/profiles", prodBody())

	rec := do(t, h, http.MethodGet, "/profiles/p1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[profileBody](t, rec).Profile
	assert.Equal(t, "Prod", p.Name)
	assert.Equal(t, profile.Redacted, p.AdminPrivateKey)
}

func TestGetProfileNotFound(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/profiles/ghost", nil).Code)
}

func TestGetActiveProfile(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	do(t, h, http.MethodPost, "/profiles", prodBody())

	rec := do(t, h, http.MethodGet, "/profiles/active", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[profileBody](t, rec).Profile
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, profile.Redacted, p.AdminPrivateKey)
}

// ---------------------------------------------------------------------------
// PUT /profiles/{id}
// ---------------------------------------------------------------------------

func TestUpdateDefaultForbidden(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodPut, "/profiles/default", prodBody()).Code)
}

func TestUpdateMissing(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPut, "/profiles/ghost", prodBody()).Code)
}

func TestUpdateValidation(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	do(t, h, http.MethodPost, "/profiles", prodBody())
	body := prodBody()
	body["rpcUrl"] = "not a url"

	rec := do(t, h, http.MethodPut, "/profiles/p1", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "rpcUrl", decode[errorBody](t, rec).Field)
}

func TestUpdateProfile(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	do(t, h, http.MethodPost, "/profiles", prodBody())
	body := prodBody()
	body["description"] = "renamed"
	body["name"] = "Production"

	rec := do(t, h, http.MethodPut, "/profiles/p1", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	p := decode[profileBody](t, rec).Profile
	assert.Equal(t, "Production", p.Name)
	assert.Equal(t, "renamed", p.Description)
	assert.Equal(t, profile.Redacted, p.AdminPrivateKey)
}

// ---------------------------------------------------------------------------
// DELETE /profiles/{id}
// ---------------------------------------------------------------------------

func TestDeleteDefaultForbidden(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	assert.Equal(t, http.StatusForbidden, do(t, h, http.MethodDelete, "/profiles/default", nil).Code)
}

func TestDeleteMissing(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, "/profiles/ghost", nil).Code)
}

func TestDeleteActiveFallsBackToDefault(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	do(t, h, http.MethodPost, "/profiles", prodBody())

	require.Equal(t, http.StatusOK, do(t, h, http.MethodDelete, "/profiles/p1", nil).Code)

	l := decode[profile.Listing](t, do(t, h, http.MethodGet, "/profiles", nil))
	assert.Len(t, l.Profiles, 1)
	assert.Equal(t, profile.DefaultID, l.ActiveProfile.ID)
}

// ---------------------------------------------------------------------------
// POST /profiles/{id}/activate
// ---------------------------------------------------------------------------

func TestActivate(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	do(t, h, http.MethodPost, "/profiles", prodBody())

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/profiles/default/activate", nil).Code)
	l := decode[profile.Listing](t, do(t, h, http.MethodGet, "/profiles", nil))
	assert.Equal(t, profile.DefaultID, l.ActiveProfile.ID)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/profiles/ghost/activate", nil).Code)
}

// ---------------------------------------------------------------------------
// GET /profiles/{id}/health
// ---------------------------------------------------------------------------

func TestHealthUsesProfileRPC(t *testing.T) {
	var probed string
	probe := func(_ context.Context, url string, _ time.Duration) (rpc.Endpoint, error) {
		probed = url
		return rpc.Endpoint{URL: url, ChainID: "SN_MAIN", BlockNumber: 42, Healthy: true}, nil
	}
	h := newTestServer(t, profile.NewMemStore(), api.WithProbe(probe))
	do(t, h, http.MethodPost, "/profiles", prodBody())

	rec := do(t, h, http.MethodGet, "/profiles/p1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ep := decode[rpc.Endpoint](t, rec)
	assert.Equal(t, "https://rpc.example", probed)
	assert.True(t, ep.Healthy)
	assert.Equal(t, uint64(42), ep.BlockNumber)
}

func TestHealthReportsUnhealthy(t *testing.T) {
	probe := func(_ context.Context, url string, _ time.Duration) (rpc.Endpoint, error) {
		return rpc.Endpoint{URL: url, Error: "connection refused"}, errors.New("connection refused")
	}
	h := newTestServer(t, profile.NewMemStore(), api.WithProbe(probe))

	rec := do(t, h, http.MethodGet, "/profiles/default/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ep := decode[rpc.Endpoint](t, rec)
	assert.False(t, ep.Healthy)
	assert.Equal(t, "connection refused", ep.Error)
}

// ---------------------------------------------------------------------------
// Routing and middleware
// ---------------------------------------------------------------------------

func TestHealthz(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", nil).Code)
}

func TestUnknownRoute(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/nope", nil).Code)
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	for _, tc := range []struct{ method, path string }{
		{http.MethodPatch, "/profiles/p1"},
		{http.MethodPatch, "/profiles"},
		{http.MethodGet, "/profiles/p1/activate"},
		{http.MethodPost, "/profiles/active"},
	} {
		rec := do(t, h, tc.method, tc.path, nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", tc.method, tc.path)
		assert.Equal(t, "method not allowed", decode[errorBody](t, rec).Error)
	}
}

func TestUnknownProfileSubroute(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	rec := do(t, h, http.MethodGet, "/profiles/p1/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "route not found", decode[errorBody](t, rec).Error)
}

func TestRateLimit(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore(), api.WithRateLimit(0.001, 2))

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/profiles", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/profiles", nil).Code)

	rec := do(t, h, http.MethodGet, "/profiles", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestCreateOversizedBody(t *testing.T) {
	h := newTestServer(t, profile.NewMemStore())
	body := prodBody()
	body["description"] = strings.Repeat("a", config.MaxRequestBody+1)

	rec := do(t, h, http.MethodPost, "/profiles", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Error, "invalid request body")

	list := decode[profile.Listing](t, do(t, h, http.MethodGet, "/profiles", nil))
	assert.Len(t, list.Profiles, 1)
}
