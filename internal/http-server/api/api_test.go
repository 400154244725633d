package api

import (
	"HereToHelp/impl/core"
	"HereToHelp/internal/config"
	"HereToHelp/internal/render"
	"HereToHelp/internal/service/auth"
	"HereToHelp/internal/ws"
	"HereToHelp/wizard/workflow"
	"HereToHelp/wizard/workflows/support"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jwtSecret = strings.Repeat("k", 48)

type acceptAll struct{}

func (acceptAll) Submit(context.Context, string, []byte) error { return nil }

func newTestRouter(t *testing.T, local bool) http.Handler {
	t.Helper()
	log := slogt.New(t)

	conf := &config.Config{Local: local}
	conf.Auth.TokenName = "hackneyToken"
	conf.Auth.JwtSecret = jwtSecret
	conf.Auth.UserGroup = "users"
	conf.Auth.AdminGroup = "admins"
	conf.Listen.Timeout = 5 * time.Second

	w, err := support.NewSupportWorkflow(support.Options{})
	require.NoError(t, err)
	engine := workflow.NewWorkflowEngine(log)
	require.NoError(t, engine.RegisterWorkflow(w))
	r, err := render.New(log)
	require.NoError(t, err)

	c := core.New(log)
	require.NoError(t, c.SetWorkflow(engine, support.WorkflowID))
	c.SetRenderer(r)
	c.SetSubmissionService(acceptAll{})
	c.SetAuthService(auth.NewAuthService(conf, log))

	return NewRouter(conf, log, c, ws.NewHub(log))
}

func token(t *testing.T, groups ...string) string {
	t.Helper()
	signer, err := jose.NewSigner(jose.SigningKey{Algorithm: jose.HS256, Key: []byte(jwtSecret)}, nil)
	require.NoError(t, err)
	tok, err := jwt.Signed(signer).Claims(map[string]any{"name": "Sam", "groups": groups}).Serialize()
	require.NoError(t, err)
	return tok
}

func do(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouter_Landing(t *testing.T) {
	router := newTestRouter(t, true)

	rec := do(router, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/step-1"`)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "hackneyToken", Value: token(t, "users")})
	rec = do(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Signed in as Sam")

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "hackneyToken", Value: "garbage"})
	rec = do(router, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRouter_RequireHTTPS(t *testing.T) {
	router := newTestRouter(t, false)

	rec := do(router, httptest.NewRequest(http.MethodGet, "http://example.com/step-2?a=b", nil))
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assert.Equal(t, "https://example.com/step-2?a=b", rec.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	rec = do(router, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "max-age=15552000; includeSubDomains", rec.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "SAMEORIGIN", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Equal(t, "off", rec.Header().Get("X-DNS-Prefetch-Control"))
}

func TestRouter_StepValidationRedirect(t *testing.T) {
	router := newTestRouter(t, true)

	form := url.Values{"first_name": {"Ada"}}
	req := httptest.NewRequest(http.MethodPost, "/step-5", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(router, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	loc, err := url.Parse(rec.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "/step-5", loc.Path)
	assert.Equal(t, "Enter your last name.", loc.Query().Get("last_name_error"))
	assert.Equal(t, "Ada", loc.Query().Get("first_name"))

	rec = do(router, httptest.NewRequest(http.MethodGet, rec.Header().Get("Location"), nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enter your last name.")
	assert.Contains(t, rec.Body.String(), `value="Ada"`)
}

func TestRouter_StepContinues(t *testing.T) {
	router := newTestRouter(t, true)

	form := url.Values{"is_on_behalf": {"yes"}}
	req := httptest.NewRequest(http.MethodPost, "/step-1", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := do(router, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/step-1-1"`)
}

func TestRouter_Errors(t *testing.T) {
	router := newTestRouter(t, true)

	rec := do(router, httptest.NewRequest(http.MethodGet, "/no-such-page", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")

	rec = do(router, httptest.NewRequest(http.MethodGet, "/a/b", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(router, httptest.NewRequest(http.MethodPut, "/step-1", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRouter_Admin(t *testing.T) {
	router := newTestRouter(t, true)

	rec := do(router, httptest.NewRequest(http.MethodGet, "/admin/outbox", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/outbox", nil)
	req.AddCookie(&http.Cookie{Name: "hackneyToken", Value: token(t, "users")})
	rec = do(router, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/outbox", nil)
	req.AddCookie(&http.Cookie{Name: "hackneyToken", Value: token(t, "admins")})
	rec = do(router, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)

	req = httptest.NewRequest(http.MethodGet, "/admin/outbox?status=bogus", nil)
	req.AddCookie(&http.Cookie{Name: "hackneyToken", Value: token(t, "admins")})
	rec = do(router, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_AdminRetryNeedsXHR(t *testing.T) {
	router := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/admin/outbox/some-id/retry", nil)
	req.AddCookie(&http.Cookie{Name: "hackneyToken", Value: token(t, "admins")})
	rec := do(router, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/admin/outbox/some-id/retry", nil)
	req.AddCookie(&http.Cookie{Name: "hackneyToken", Value: token(t, "admins")})
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	rec = do(router, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, true)

	rec := do(router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "heretohelp_")
}
