package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zenGate-Global/palmyra-admins/contracts"
	adminshandler "github.com/zenGate-Global/palmyra-admins/domains/admins/be/handler"
	adminsidentity "github.com/zenGate-Global/palmyra-admins/domains/admins/be/identity"
	adminsrepo "github.com/zenGate-Global/palmyra-admins/domains/admins/be/repo"
	adminsservice "github.com/zenGate-Global/palmyra-admins/domains/admins/be/service"
	"github.com/zenGate-Global/palmyra-admins/platform/go/auth/devtoken"
	"github.com/zenGate-Global/palmyra-admins/platform/go/metrics"
	"github.com/zenGate-Global/palmyra-admins/platform/go/persistence"
)

type testServer struct {
	handler http.Handler
	store   *adminsrepo.MemoryStore
}

func newTestServer(t *testing.T, ready func(ctx context.Context) error) testServer {
	t.Helper()

	logger := zaptest.NewLogger(t)

	validator, err := persistence.NewProfileValidator()
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	provisioningMetrics, err := metrics.NewProvisioning(registry)
	require.NoError(t, err)

	store := adminsrepo.NewMemoryStore()
	svc := adminsservice.New(adminsrepo.New(store, validator), adminsidentity.NewMemoryProvider(), adminsservice.WithMetrics(provisioningMetrics))

	authMiddleware, err := buildAuthMiddleware(config{AuthProvider: "dev"}, nil, logger)
	require.NoError(t, err)

	spec, err := contracts.GetSwagger()
	require.NoError(t, err)

	return testServer{
		store: store,
		handler: newRouter(routerOptions{
			logger:         logger,
			admins:         adminshandler.New(svc, logger),
			auth:           authMiddleware,
			contract:       spec,
			requestTimeout: 5 * time.Second,
			metrics:        promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
			ready:          ready,
		}),
	}
}

type callResponse struct {
	Result map[string]any `json:"result"`
	Error  *struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s testServer) call(t *testing.T, method, path, token, body string) (int, callResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var resp callResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func mintToken(t *testing.T, name string, isAdmin bool) string {
	t.Helper()

	token, err := devtoken.BuildUnsignedFirebaseToken(devtoken.Params{
		ProjectID: "demo-admins",
		UserID:    "caller-" + strings.ToLower(name),
		Email:     strings.ToLower(name) + "@x.com",
		Name:      name,
		IsAdmin:   isAdmin,
	}, time.Now())
	require.NoError(t, err)
	return token
}

func TestCreateAdminEndToEnd(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)

	code, resp := srv.call(t, http.MethodPost, "/createAdmin", "",
		`{"data":{"email":"a@x.com","password":"secret1","displayName":"Ann","role":"editor","permissions":[]}}`)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, true, resp.Result["success"])
	firstID, _ := resp.Result["id"].(string)
	require.NotEmpty(t, firstID)

	code, resp = srv.call(t, http.MethodPost, "/createAdmin", mintToken(t, "Mallory", false),
		`{"data":{"email":"c@x.com","password":"secret3","displayName":"Cy","role":"editor","permissions":[]}}`)
	require.Equal(t, http.StatusForbidden, code)
	require.Equal(t, "PERMISSION_DENIED", resp.Error.Status)

	code, resp = srv.call(t, http.MethodPost, "/v1/createAdmin", mintToken(t, "Bo", true),
		`{"data":{"email":"b@x.com","password":"secret2","displayName":"Bea","role":"editor","permissions":["view_admins"]}}`)
	require.Equal(t, http.StatusOK, code)

	profiles := srv.store.Profiles()
	require.Len(t, profiles, 2)
	for _, p := range profiles {
		if p.UserID == firstID {
			require.Equal(t, adminsservice.RoleSuperAdmin, p.Role)
			require.Equal(t, adminsservice.CreatedBySystem, p.CreatedBy)
			continue
		}
		require.Equal(t, "editor", p.Role)
		require.Equal(t, []string{"view_admins"}, p.Permissions)
		require.Equal(t, "Bo", p.CreatedBy)
	}

	code, resp = srv.call(t, http.MethodPost, "/createAdmin", mintToken(t, "Bo", true),
		`{"data":{"email":"b@x.com","password":"secret2","role":"editor","permissions":[]}}`)
	require.Equal(t, http.StatusInternalServerError, code)
	require.Equal(t, "INTERNAL", resp.Error.Status)
	require.Equal(t, adminsidentity.ErrEmailExists.Error(), resp.Error.Message)
	require.Len(t, srv.store.Profiles(), 2)
}

func TestCreateAdminRejectsBadRequests(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, nil)

	code, resp := srv.call(t, http.MethodPost, "/createAdmin", "not-a-token", `{"data":{"email":"a@x.com"}}`)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "UNAUTHENTICATED", resp.Error.Status)

	code, resp = srv.call(t, http.MethodGet, "/createAdmin", "", ``)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "INVALID_ARGUMENT", resp.Error.Status)

	code, resp = srv.call(t, http.MethodPost, "/createAdmin", "", `{"data":null}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "Bad Request", resp.Error.Message)

	code, resp = srv.call(t, http.MethodPost, "/createAdmin", "", `{"data":{"email":"a@x.com","permissions":"all"}}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, "INVALID_ARGUMENT", resp.Error.Status)

	require.Empty(t, srv.store.Profiles())
}

func TestOperationalEndpoints(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(ctx context.Context) error { return errors.New("db down") })

	for path, want := range map[string]int{
		"/healthz":      http.StatusOK,
		"/readyz":       http.StatusServiceUnavailable,
		"/metrics":      http.StatusOK,
		"/openapi.json": http.StatusOK,
		"/docs":         http.StatusOK,
	} {
		rec := httptest.NewRecorder()
		srv.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, want, rec.Code, path)
	}
}

func TestBuildAuthMiddlewareRejectsUnknownProvider(t *testing.T) {
	t.Parallel()

	_, err := buildAuthMiddleware(config{AuthProvider: "saml"}, nil, zaptest.NewLogger(t))
	require.Error(t, err)

	_, err = buildAuthMiddleware(config{AuthProvider: "firebase"}, nil, zaptest.NewLogger(t))
	require.Error(t, err)
}
