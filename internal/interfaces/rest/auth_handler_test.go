package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumbe/lcrm-app/internal/testsupport"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

func TestAuthHandler_LoginForm(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, constants.PathLogin, url.Values{
		"email":    {env.owner.Email},
		"password": {testsupport.TestPassword},
	}, anonymous)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, constants.PathLeads, w.Header().Get("Location"))

	var token string
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == constants.CookieAuthToken {
			token = cookie.Value
			assert.True(t, cookie.HttpOnly)
		}
	}
	require.NotEmpty(t, token)

	// The cookie alone authenticates page loads
	req := httptest.NewRequest(http.MethodGet, "/leads?format=json", nil)
	req.AddCookie(&http.Cookie{Name: constants.CookieAuthToken, Value: token})
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_LoginForm_Rejected(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, constants.PathLogin, url.Values{
		"email":    {env.owner.Email},
		"password": {"wrong"},
	}, anonymous)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	view := env.rendered()
	assert.Equal(t, "login", view.Name)
	assert.Equal(t, env.owner.Email, view.Data["Email"])
	assert.Equal(t, "Invalid email or password", view.Data["Error"])
}

func TestAuthHandler_APILoginAndMe(t *testing.T) {
	env := newTestEnv(t)

	payload, err := json.Marshal(map[string]string{"email": env.owner.Email, "password": testsupport.TestPassword})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(payload))
	req.Header.Set("Content-Type", constants.ContentTypeJSON)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	env.token = token
	w = env.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, env.owner.Email, decode(t, w)["user"].(map[string]interface{})["email"])

	w = env.do(http.MethodPost, "/api/auth/logout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/api/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_APILogin_BadEmail(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"nope","password":"x"}`))
	req.Header.Set("Content-Type", constants.ContentTypeJSON)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequireAuth_SessionStoreDown(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.sm.Connection().Close())

	w := env.do(http.MethodGet, "/leads?format=json", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "database")
	assert.Equal(t, "Internal Server Error", decode(t, w)["error"])
}
