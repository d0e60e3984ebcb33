package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kube-rca/perfcheckup/internal/admin"
	"github.com/kube-rca/perfcheckup/internal/config"
	"github.com/kube-rca/perfcheckup/internal/detector"
	"github.com/kube-rca/perfcheckup/internal/model"
	"github.com/kube-rca/perfcheckup/internal/service"
	"github.com/kube-rca/perfcheckup/internal/store"
	"github.com/kube-rca/perfcheckup/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAdmin  = &model.AuthUser{ID: 1, LoginID: "admin", Role: model.RoleAdministrator}
	testEditor = &model.AuthUser{ID: 2, LoginID: "editor", Role: model.RoleEditor}
)

type fakeTokens map[string]*model.AuthUser

func (f fakeTokens) ParseAccessToken(token string) (*model.AuthUser, error) {
	if user, ok := f[token]; ok {
		return user, nil
	}
	return nil, errors.New("invalid token")
}

type fixedMemory float64

func (f fixedMemory) PeakMB() float64 { return float64(f) }

type checkupFixture struct {
	router *gin.Engine
	svc    *service.CheckupService
	nonces *service.NonceService
}

// newCheckupFixture builds the admin chain with every request running
// queries database queries.
func newCheckupFixture(t *testing.T, queries int) *checkupFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	nonces, err := service.NewNonceService("test-secret", "24h")
	require.NoError(t, err)
	svc, err := service.NewCheckupService(detector.New(config.DemoThresholds()), store.NewMemoryStore(), nonces, "24h")
	require.NoError(t, err)

	h := NewCheckupHandler(svc, admin.NewMenu(), "/admin/ajax")
	tokens := fakeTokens{"admin-token": testAdmin, "editor-token": testEditor}

	router := gin.New()
	router.SetHTMLTemplate(view.New())
	runQueries := func(c *gin.Context) {
		rec := GetRecorder(c)
		for i := 0; i < queries; i++ {
			rec.Record("SELECT 1", time.Millisecond, "")
		}
		c.Next()
	}

	group := router.Group("/admin",
		InstrumentMiddleware(false, fixedMemory(1)),
		AdminAuthMiddleware(tokens),
		h.HandleDismissal,
		h.Notices,
		runQueries,
	)
	group.GET("/performance-checkup", h.InfoPage)
	group.GET("/ajax/heartbeat", h.InfoPage)
	group.GET("/missing", func(c *gin.Context) { c.String(http.StatusNotFound, "not found") })

	api := router.Group("/api/v1", InstrumentMiddleware(false, fixedMemory(3)), AuthMiddleware(tokens), runQueries)
	api.GET("/checkup/status", h.Status)

	return &checkupFixture{router: router, svc: svc, nonces: nonces}
}

func (f *checkupFixture) get(target, token string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestNoticesInjectsWarningNotice(t *testing.T) {
	f := newCheckupFixture(t, 60)

	rec := f.get("/admin/performance-checkup", "admin-token")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `notice notice-warning is-dismissible performance-checkup-notice`)
	assert.Contains(t, body, "<strong>60 database queries</strong>")
	assert.Contains(t, body, "Dismiss for 24 hours")
	assert.Contains(t, body, "performance_checkup_dismiss=1")
	assert.NotContains(t, body, view.NoticeMarker)
	assert.Contains(t, body, "60 queries")
}

func TestNoticesInfoSeverityBetweenTiers(t *testing.T) {
	f := newCheckupFixture(t, 11)

	body := f.get("/admin/performance-checkup", "admin-token").Body.String()

	assert.Contains(t, body, "notice notice-info ")
	assert.Contains(t, body, "This is noticeable but not necessarily a problem.")
}

func TestNoticesSilentUnderThresholds(t *testing.T) {
	f := newCheckupFixture(t, 10)

	rec := f.get("/admin/performance-checkup", "admin-token")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "notice notice-")
	assert.NotContains(t, rec.Body.String(), view.NoticeMarker)
	assert.Contains(t, rec.Body.String(), "Current Status")
}

func TestNoticesSkipBackgroundRequests(t *testing.T) {
	f := newCheckupFixture(t, 60)

	ajax := f.get("/admin/ajax/heartbeat", "admin-token")
	xhr := f.get("/admin/performance-checkup", "admin-token", "X-Requested-With", "XMLHttpRequest")

	assert.NotContains(t, ajax.Body.String(), "notice notice-")
	assert.NotContains(t, xhr.Body.String(), "notice notice-")
}

func TestNoticesPassThroughNonHTML(t *testing.T) {
	f := newCheckupFixture(t, 60)

	rec := f.get("/admin/missing", "admin-token")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not found", rec.Body.String())
}

func TestInfoPageRequiresManageOptions(t *testing.T) {
	f := newCheckupFixture(t, 60)

	rec := f.get("/admin/performance-checkup", "editor-token")

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "You do not have sufficient permissions to access this page.")
	assert.NotContains(t, rec.Body.String(), "notice notice-")
}

func TestAdminPagesRedirectAnonymousToLogin(t *testing.T) {
	f := newCheckupFixture(t, 0)

	rec := f.get("/admin/performance-checkup?x=1", "")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login?redirect_to=%2Fadmin%2Fperformance-checkup%3Fx%3D1", rec.Header().Get("Location"))
}

func TestHandleDismissalSetsFlagAndRedirects(t *testing.T) {
	f := newCheckupFixture(t, 60)
	token, err := f.nonces.Create(testAdmin.ID, service.DismissAction)
	require.NoError(t, err)

	rec := f.get("/admin/performance-checkup?tab=1&performance_checkup_dismiss=1&_nonce="+token, "admin-token")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/performance-checkup?tab=1", rec.Header().Get("Location"))
	assert.True(t, f.svc.IsDismissed(context.Background(), testAdmin.ID))

	next := f.get("/admin/performance-checkup", "admin-token")
	assert.Equal(t, http.StatusOK, next.Code)
	assert.NotContains(t, next.Body.String(), "notice notice-")
}

func TestHandleDismissalIgnoresInvalidNonce(t *testing.T) {
	f := newCheckupFixture(t, 60)

	rec := f.get("/admin/performance-checkup?performance_checkup_dismiss=1&_nonce=bogus", "admin-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, f.svc.IsDismissed(context.Background(), testAdmin.ID))
	assert.Contains(t, rec.Body.String(), "notice notice-warning")
}

func TestHandleDismissalRejectsOtherUsersNonce(t *testing.T) {
	f := newCheckupFixture(t, 60)
	token, err := f.nonces.Create(testEditor.ID, service.DismissAction)
	require.NoError(t, err)

	rec := f.get("/admin/performance-checkup?performance_checkup_dismiss=1&_nonce="+token, "admin-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, f.svc.IsDismissed(context.Background(), testAdmin.ID))
}

func TestStatusReportsRequestReadings(t *testing.T) {
	f := newCheckupFixture(t, 7)

	rec := f.get("/api/v1/checkup/status", "admin-token")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp model.CheckupStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 7, resp.Data.QueryCount)
	assert.Equal(t, 3.0, resp.Data.PeakMemoryMB)
	assert.False(t, resp.Data.VerboseQueries)
}

func TestStatusForbiddenForEditors(t *testing.T) {
	f := newCheckupFixture(t, 0)

	assert.Equal(t, http.StatusForbidden, f.get("/api/v1/checkup/status", "editor-token").Code)
	assert.Equal(t, http.StatusUnauthorized, f.get("/api/v1/checkup/status", "").Code)
}

func TestCheckupHandlerRegistersToolsMenu(t *testing.T) {
	menu := admin.NewMenu()
	NewCheckupHandler(nil, menu, "")

	item, ok := menu.Find("performance-checkup")
	require.True(t, ok)
	assert.Equal(t, admin.ParentTools, item.Parent)
	assert.Equal(t, service.InfoPagePath, item.Path)
	assert.Empty(t, menu.Visible(testEditor))
	assert.True(t, strings.HasPrefix(menu.Visible(testAdmin)[0].Path, "/admin/"))
}

func TestNoticesLetsRecoveryAnswerPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	nonces, err := service.NewNonceService("test-secret", "24h")
	require.NoError(t, err)
	svc, err := service.NewCheckupService(detector.New(config.DemoThresholds()), store.NewMemoryStore(), nonces, "24h")
	require.NoError(t, err)
	h := NewCheckupHandler(svc, admin.NewMenu(), "")

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/admin/broken",
		AdminAuthMiddleware(fakeTokens{"admin-token": testAdmin}),
		h.Notices,
		func(c *gin.Context) { panic("boom") },
	)

	req := httptest.NewRequest(http.MethodGet, "/admin/broken", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestInfoPageOffersRestoreWhileDismissed(t *testing.T) {
	f := newCheckupFixture(t, 60)

	before := f.get("/admin/performance-checkup", "admin-token")
	assert.NotContains(t, before.Body.String(), "Show notices again")

	require.NoError(t, f.svc.Dismiss(context.Background(), testAdmin.ID))
	after := f.get("/admin/performance-checkup", "admin-token")

	require.Equal(t, http.StatusOK, after.Code)
	assert.Contains(t, after.Body.String(), "Show notices again")
	assert.Contains(t, after.Body.String(), "performance_checkup_restore=1")
	assert.NotContains(t, after.Body.String(), "notice notice-")
}

func TestHandleDismissalRestoresNotice(t *testing.T) {
	f := newCheckupFixture(t, 60)
	ctx := context.Background()
	require.NoError(t, f.svc.Dismiss(ctx, testAdmin.ID))
	token, err := f.nonces.Create(testAdmin.ID, service.RestoreAction)
	require.NoError(t, err)

	rec := f.get("/admin/performance-checkup?performance_checkup_restore=1&_nonce="+token, "admin-token")

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/performance-checkup", rec.Header().Get("Location"))
	assert.False(t, f.svc.IsDismissed(ctx, testAdmin.ID))

	next := f.get("/admin/performance-checkup", "admin-token")
	assert.Contains(t, next.Body.String(), "notice notice-warning")
}

func TestHandleDismissalRestoreNeedsRestoreNonce(t *testing.T) {
	f := newCheckupFixture(t, 60)
	ctx := context.Background()
	require.NoError(t, f.svc.Dismiss(ctx, testAdmin.ID))
	dismissToken, err := f.nonces.Create(testAdmin.ID, service.DismissAction)
	require.NoError(t, err)

	rec := f.get("/admin/performance-checkup?performance_checkup_restore=1&_nonce="+dismissToken, "admin-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.svc.IsDismissed(ctx, testAdmin.ID))
}
