package rest_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Lumbe/lcrm-app/internal/application/services"
	"github.com/Lumbe/lcrm-app/internal/domain/models"
	"github.com/Lumbe/lcrm-app/internal/interfaces/rest"
	"github.com/Lumbe/lcrm-app/internal/testsupport"
	"github.com/Lumbe/lcrm-app/pkg/auth"
	"github.com/Lumbe/lcrm-app/pkg/constants"
)

const testHost = "http://crm.example.com"

// renderedView records what a handler asked to render
type renderedView struct {
	Name string
	Data gin.H
}

func (v *renderedView) Render(w http.ResponseWriter) error {
	v.WriteContentType(w)
	_, err := io.WriteString(w, v.Name)
	return err
}

func (v *renderedView) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
}

type recordingViews struct {
	last *renderedView
}

func (r *recordingViews) Instance(name string, data interface{}) render.Render {
	h, _ := data.(gin.H)
	r.last = &renderedView{Name: name, Data: h}
	return r.last
}

type testEnv struct {
	t         *testing.T
	ctx       context.Context
	router    *gin.Engine
	sm        *services.ServiceManager
	factory   *testsupport.Factory
	views     *recordingViews
	owner     *models.User
	token     string
	sessionID string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	conn := testsupport.OpenDB(t)
	cfg := testsupport.Config(t)
	sm := services.NewServiceManager(conn, cfg, auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL), zap.NewNop())
	views := &recordingViews{}
	router := rest.NewRouter(sm, rest.RouterOptions{Views: views, Logger: zap.NewNop()})

	factory := testsupport.NewFactory(t, conn)
	owner := factory.User()
	result, err := sm.Auth.Login(context.Background(), owner.Email, testsupport.TestPassword)
	require.NoError(t, err)

	return &testEnv{
		t:         t,
		ctx:       context.Background(),
		router:    router,
		sm:        sm,
		factory:   factory,
		views:     views,
		owner:     owner,
		token:     result.Token,
		sessionID: result.SessionID,
	}
}

type requestOption func(*http.Request)

// asXHR marks the request the way a remote link or form sends it
func asXHR(r *http.Request) {
	r.Header.Set(constants.HeaderRequestedWith, constants.XMLHttpRequest)
	r.Header.Set(constants.HeaderAccept, "text/javascript, application/javascript, */*; q=0.01")
}

func asJSON(r *http.Request) {
	r.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)
}

func asXML(r *http.Request) {
	r.Header.Set(constants.HeaderAccept, constants.ContentTypeXML)
}

func asBrowser(r *http.Request) {
	r.Header.Set(constants.HeaderAccept, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
}

func from(path string) requestOption {
	return func(r *http.Request) {
		r.Header.Set(constants.HeaderReferer, testHost+path)
	}
}

func anonymous(r *http.Request) {
	r.Header.Del(constants.HeaderAuthorization)
}

// do sends an authenticated request; form values travel urlencoded
func (e *testEnv) do(method, target string, form url.Values, opts ...requestOption) *httptest.ResponseRecorder {
	e.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set(constants.HeaderAuthorization, constants.BearerPrefix+e.token)
	for _, opt := range opts {
		opt(req)
	}

	e.views.last = nil
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// rendered returns the view of the last request
func (e *testEnv) rendered() *renderedView {
	e.t.Helper()
	require.NotNil(e.t, e.views.last, "no view was rendered")
	return e.views.last
}

// session loads the UI session of the logged in user as saved by the last request
func (e *testEnv) session() *services.Session {
	e.t.Helper()
	sess, err := e.sm.Sessions.Load(e.ctx, e.sessionID)
	require.NoError(e.t, err)
	return sess
}

func (e *testEnv) setSession(fn func(*services.Session)) {
	e.t.Helper()
	sess := e.session()
	fn(sess)
	require.NoError(e.t, e.sm.Sessions.Save(e.ctx, sess))
}

func (e *testEnv) flash(kind string) string {
	e.t.Helper()
	msg, _ := e.session().PeekFlash(kind)
	return msg
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func leadIDs(leads []*models.Lead) []string {
	ids := make([]string, len(leads))
	for i, l := range leads {
		ids[i] = l.ID
	}
	return ids
}
