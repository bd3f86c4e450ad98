package rest_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/interfaces/rest"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

func TestRouter_Health(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/health", nil, anonymous)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
	assert.NotEmpty(t, w.Header().Get(constants.HeaderXRequestID))
}

func TestRouter_RootRedirectsToLeads(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/", nil, anonymous)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, constants.PathLeads, w.Header().Get("Location"))
}

func TestRouter_MethodOverride(t *testing.T) {
	env := newTestEnv(t)
	lead := env.factory.Lead(env.owner)

	w := env.do(http.MethodPost, "/leads/"+lead.ID, url.Values{"_method": {"get"}}, asBrowser)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	w = env.do(http.MethodPost, "/leads/"+lead.ID+"?format=json", url.Values{"_method": {"delete"}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_Preflight(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodOptions, "/leads", nil)
	req.Header.Set("Origin", "http://app.example.com")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouter_Metrics(t *testing.T) {
	env := newTestEnv(t)
	reg := prometheus.NewRegistry()
	router := rest.NewRouter(env.sm, rest.RouterOptions{Views: env.views, Logger: zap.NewNop(), Registry: reg})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `lcrm_http_requests_total{method="GET",route="/health",status="200"} 1`)
}
