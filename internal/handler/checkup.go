package handler

import (
	"bytes"
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kube-rca/perfcheckup/internal/admin"
	"github.com/kube-rca/perfcheckup/internal/detector"
	"github.com/kube-rca/perfcheckup/internal/model"
	"github.com/kube-rca/perfcheckup/internal/service"
	"github.com/kube-rca/perfcheckup/internal/view"
)

const permissionDeniedMessage = "You do not have sufficient permissions to access this page."

// checkupService - 서비스 인터페이스
type checkupService interface {
	Run(ctx context.Context, user *model.AuthUser, snap detector.Snapshot) model.DetectionResult
	BuildNotice(results model.DetectionResult, user *model.AuthUser, current *url.URL) (*model.Notice, error)
	VerifyDismissNonce(token string, userID int64) bool
	Dismiss(ctx context.Context, userID int64) error
	IsDismissed(ctx context.Context, userID int64) bool
	VerifyRestoreNonce(token string, userID int64) bool
	Restore(ctx context.Context, userID int64) error
	RestoreURL(userID int64) (string, error)
}

// CheckupHandler - 성능 점검 알림 / dismissal / 안내 페이지
type CheckupHandler struct {
	svc        checkupService
	menu       *admin.Menu
	ajaxPrefix string
}

func NewCheckupHandler(svc checkupService, menu *admin.Menu, ajaxPrefix string) *CheckupHandler {
	menu.Add(admin.MenuItem{
		Title:      "Performance Checkup",
		Slug:       "performance-checkup",
		Path:       service.InfoPagePath,
		Parent:     admin.ParentTools,
		Capability: model.CapManageOptions,
		Icon:       "dashicons-superhero",
		Position:   80,
	})
	return &CheckupHandler{svc: svc, menu: menu, ajaxPrefix: ajaxPrefix}
}

func (h *CheckupHandler) isBackground(c *gin.Context) bool {
	if strings.EqualFold(c.GetHeader("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	return h.ajaxPrefix != "" && strings.HasPrefix(c.Request.URL.Path, h.ajaxPrefix)
}

// HandleDismissal runs before the page handler. A request carrying the
// dismissal (or restore) marker and a valid nonce sets (or clears) the 24h
// flag and is redirected to the same URL without them. Anything else
// passes through untouched.
func (h *CheckupHandler) HandleDismissal(c *gin.Context) {
	_, dismiss := c.GetQuery(service.DismissParam)
	_, restore := c.GetQuery(service.RestoreParam)
	user := GetAuthUser(c)
	if (!dismiss && !restore) || user == nil {
		c.Next()
		return
	}

	token := c.Query(service.NonceParam)
	ctx := c.Request.Context()
	switch {
	case dismiss && h.svc.VerifyDismissNonce(token, user.ID):
		if err := h.svc.Dismiss(ctx, user.ID); err != nil {
			log.Printf("[Checkup] Failed to store dismissal (user=%d, request=%s): %v", user.ID, GetRequestID(c), err)
		} else {
			log.Printf("[Checkup] Notice dismissed for 24h (user=%d)", user.ID)
		}
	case restore && h.svc.VerifyRestoreNonce(token, user.ID):
		if err := h.svc.Restore(ctx, user.ID); err != nil {
			log.Printf("[Checkup] Failed to clear dismissal (user=%d, request=%s): %v", user.ID, GetRequestID(c), err)
		} else {
			log.Printf("[Checkup] Notice restored (user=%d)", user.ID)
		}
	default:
		c.Next()
		return
	}

	c.Redirect(http.StatusFound, service.StripDismissParams(c.Request.URL))
	c.Abort()
}

// Notices buffers the admin page, runs the checks once the handler has
// generated it and injects the combined notice at the layout's notice
// marker before the response is sent.
func (h *CheckupHandler) Notices(c *gin.Context) {
	if h.isBackground(c) {
		c.Next()
		return
	}

	user := GetAuthUser(c)
	if !user.Can(model.CapManageOptions) {
		c.Next()
		return
	}

	w := newBufferedWriter(c.Writer)
	c.Writer = w
	// A panic below must reach gin.Recovery with the real writer in place.
	defer func() { c.Writer = w.ResponseWriter }()
	c.Next()
	c.Writer = w.ResponseWriter

	body := w.body.Bytes()
	if w.status == http.StatusOK &&
		strings.HasPrefix(w.Header().Get("Content-Type"), "text/html") &&
		bytes.Contains(body, []byte(view.NoticeMarker)) {
		body = view.InjectNotice(body, h.renderNotice(c, user))
	}
	w.flush(body)
}

func (h *CheckupHandler) renderNotice(c *gin.Context, user *model.AuthUser) string {
	results := h.svc.Run(c.Request.Context(), user, GetRecorder(c))
	if len(results) == 0 {
		return ""
	}

	notice, err := h.svc.BuildNotice(results, user, c.Request.URL)
	if err != nil {
		log.Printf("[Checkup] Failed to build notice (request=%s): %v", GetRequestID(c), err)
		return ""
	}

	html, err := view.RenderNotice(notice)
	if err != nil {
		log.Printf("[Checkup] Failed to render notice (request=%s): %v", GetRequestID(c), err)
		return ""
	}

	log.Printf("[Checkup] %s %s: %d finding(s), severity=%s (request=%s)",
		c.Request.Method, c.Request.URL.Path, len(results), results.Severity(), GetRequestID(c))
	return html
}

// InfoPage renders the explanatory page with a live reading of this request.
func (h *CheckupHandler) InfoPage(c *gin.Context) {
	user := GetAuthUser(c)
	if !user.Can(model.CapManageOptions) {
		c.HTML(http.StatusForbidden, "forbidden", view.Page{Title: "Error", Data: permissionDeniedMessage})
		c.Abort()
		return
	}

	data := view.InfoPageData{Status: GetRecorder(c).Status()}
	if h.svc.IsDismissed(c.Request.Context(), user.ID) {
		restoreURL, err := h.svc.RestoreURL(user.ID)
		if err != nil {
			log.Printf("[Checkup] Failed to build restore link (request=%s): %v", GetRequestID(c), err)
		}
		data.RestoreURL = restoreURL
	}

	c.HTML(http.StatusOK, "performance-checkup", newPage(c, h.menu, "Performance Checkup", data))
}

// Status godoc
// @Summary Live performance reading of this request
// @Tags checkup
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.CheckupStatusResponse
// @Failure 401,403 {object} model.ErrorResponse
// @Router /api/v1/checkup/status [get]
func (h *CheckupHandler) Status(c *gin.Context) {
	user := GetAuthUser(c)
	if !user.Can(model.CapManageOptions) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, model.CheckupStatusResponse{
		Status: "success",
		Data:   GetRecorder(c).Status(),
	})
}
