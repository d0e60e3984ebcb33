package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kube-rca/perfcheckup/internal/admin"
	"github.com/kube-rca/perfcheckup/internal/model"
	"github.com/kube-rca/perfcheckup/internal/service"
	"github.com/kube-rca/perfcheckup/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct {
	loginErr     error
	loggedOut    string
	lastLoginID  string
	lastPassword string
}

func (f *fakeSessions) Login(_ context.Context, loginID, password string) (string, string, int64, error) {
	f.lastLoginID, f.lastPassword = loginID, password
	if f.loginErr != nil {
		return "", "", 0, f.loginErr
	}
	return "access-token", "refresh-token", 900, nil
}

func (f *fakeSessions) Logout(_ context.Context, refreshToken string) error {
	f.loggedOut = refreshToken
	return nil
}

func (f *fakeSessions) CookieConfig() service.CookieConfig {
	return service.CookieConfig{Name: "perfcheckup_refresh", Path: "/", SameSite: http.SameSiteLaxMode, MaxAge: 3600}
}

func (f *fakeSessions) AccessCookieConfig() service.CookieConfig {
	return service.CookieConfig{Name: "perfcheckup_access", Path: "/", SameSite: http.SameSiteLaxMode, MaxAge: 900}
}

type fakeUsers struct {
	users []model.User
	err   error
}

func (f fakeUsers) ListUsers(context.Context) ([]model.User, error) {
	return f.users, f.err
}

func newAdminRouter(sessions *fakeSessions, users userLister) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAdminHandler(sessions, users, admin.NewMenu())

	router := gin.New()
	router.SetHTMLTemplate(view.New())
	router.GET("/admin/login", h.LoginForm)
	router.POST("/admin/login", h.Login)
	router.GET("/admin/logout", h.Logout)
	router.GET("/admin/", AdminAuthMiddleware(fakeTokens{"admin-token": testAdmin}), h.Dashboard)
	return router
}

func postLogin(router *gin.Engine, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAdminLoginSetsCookiesAndRedirects(t *testing.T) {
	sessions := &fakeSessions{}
	router := newAdminRouter(sessions, fakeUsers{})

	rec := postLogin(router, url.Values{
		"id":          {"admin"},
		"password":    {"secret-password"},
		"redirect_to": {"/admin/performance-checkup"},
	})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/performance-checkup", rec.Header().Get("Location"))
	assert.Equal(t, "admin", sessions.lastLoginID)

	cookies := strings.Join(rec.Header().Values("Set-Cookie"), "\n")
	assert.Contains(t, cookies, "perfcheckup_access=access-token")
	assert.Contains(t, cookies, "perfcheckup_refresh=refresh-token")
}

func TestAdminLoginFailureRendersForm(t *testing.T) {
	router := newAdminRouter(&fakeSessions{loginErr: service.ErrUnauthorized}, fakeUsers{})

	rec := postLogin(router, url.Values{"id": {"admin"}, "password": {"wrong-password"}})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown username or incorrect password.")
	assert.Contains(t, rec.Body.String(), `value="admin"`)
	assert.Empty(t, rec.Header().Values("Set-Cookie"))
}

func TestAdminLoginServerError(t *testing.T) {
	router := newAdminRouter(&fakeSessions{loginErr: errors.New("db down")}, fakeUsers{})

	rec := postLogin(router, url.Values{"id": {"admin"}, "password": {"secret-password"}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Login is temporarily unavailable.")
}

func TestAdminLogoutClearsCookies(t *testing.T) {
	sessions := &fakeSessions{}
	router := newAdminRouter(sessions, fakeUsers{})

	req := httptest.NewRequest(http.MethodGet, "/admin/logout", nil)
	req.AddCookie(&http.Cookie{Name: "perfcheckup_refresh", Value: "refresh-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
	assert.Equal(t, "refresh-token", sessions.loggedOut)
	assert.Len(t, rec.Header().Values("Set-Cookie"), 2)
}

func TestAdminDashboardListsUsers(t *testing.T) {
	users := fakeUsers{users: []model.User{
		{ID: 1, LoginID: "admin", Role: model.RoleAdministrator, CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}}
	router := newAdminRouter(&fakeSessions{}, users)

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.AddCookie(&http.Cookie{Name: "perfcheckup_access", Value: "admin-token"})
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<td>administrator</td>")
	assert.Contains(t, rec.Body.String(), "2024-03-01")
	assert.Contains(t, rec.Body.String(), "Log out (admin)")
}

func TestAdminDashboardStoreFailure(t *testing.T) {
	router := newAdminRouter(&fakeSessions{}, fakeUsers{err: errors.New("db down")})

	req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSafeRedirect(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{name: "admin path", target: "/admin/performance-checkup?x=1", want: "/admin/performance-checkup?x=1"},
		{name: "empty", target: "", want: "/admin/"},
		{name: "external", target: "https://evil.example/admin", want: "/admin/"},
		{name: "protocol relative", target: "//evil.example/admin", want: "/admin/"},
		{name: "non admin", target: "/ping", want: "/admin/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, safeRedirect(tt.target))
		})
	}
}
