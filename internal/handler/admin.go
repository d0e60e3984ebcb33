package handler

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kube-rca/perfcheckup/internal/admin"
	"github.com/kube-rca/perfcheckup/internal/model"
	"github.com/kube-rca/perfcheckup/internal/service"
	"github.com/kube-rca/perfcheckup/internal/view"
)

const dashboardPath = "/admin/"

type userLister interface {
	ListUsers(ctx context.Context) ([]model.User, error)
}

type sessionAuthenticator interface {
	Login(ctx context.Context, loginID, password string) (string, string, int64, error)
	Logout(ctx context.Context, refreshToken string) error
	CookieConfig() service.CookieConfig
	AccessCookieConfig() service.CookieConfig
}

// AdminHandler - 관리자 HTML 페이지 (로그인, 대시보드)
type AdminHandler struct {
	auth  sessionAuthenticator
	users userLister
	menu  *admin.Menu
}

func NewAdminHandler(auth sessionAuthenticator, users userLister, menu *admin.Menu) *AdminHandler {
	menu.Add(admin.MenuItem{
		Title:      "Dashboard",
		Slug:       "dashboard",
		Path:       dashboardPath,
		Capability: model.CapRead,
		Icon:       "dashicons-dashboard",
		Position:   2,
	})
	return &AdminHandler{auth: auth, users: users, menu: menu}
}

func newPage(c *gin.Context, menu *admin.Menu, title string, data any) view.Page {
	user := GetAuthUser(c)
	return view.Page{
		Title: title,
		User:  user,
		Menu:  menu.Visible(user),
		Data:  data,
	}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		log.Printf("[Admin] Failed to list users (request=%s): %v", GetRequestID(c), err)
		c.String(http.StatusInternalServerError, "server error")
		return
	}
	c.HTML(http.StatusOK, "dashboard", newPage(c, h.menu, "Dashboard", view.DashboardData{Users: users}))
}

func (h *AdminHandler) LoginForm(c *gin.Context) {
	c.HTML(http.StatusOK, "login", view.Page{
		Title: "Log In",
		Data:  view.LoginData{Redirect: safeRedirect(c.Query("redirect_to"))},
	})
}

func (h *AdminHandler) Login(c *gin.Context) {
	loginID := c.PostForm("id")
	redirect := safeRedirect(c.PostForm("redirect_to"))

	accessToken, refreshToken, _, err := h.auth.Login(c.Request.Context(), loginID, c.PostForm("password"))
	if err != nil {
		status := http.StatusUnauthorized
		message := "Unknown username or incorrect password."
		if err != service.ErrUnauthorized && err != service.ErrInvalidInput {
			log.Printf("[Admin] Login failed (request=%s): %v", GetRequestID(c), err)
			status = http.StatusInternalServerError
			message = "Login is temporarily unavailable."
		}
		c.HTML(status, "login", view.Page{
			Title: "Log In",
			Data:  view.LoginData{Error: message, LoginID: loginID, Redirect: redirect},
		})
		return
	}

	setCookie(c, h.auth.AccessCookieConfig(), accessToken)
	setCookie(c, h.auth.CookieConfig(), refreshToken)
	c.Redirect(http.StatusFound, redirect)
}

func (h *AdminHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(h.auth.CookieConfig().Name)
	_ = h.auth.Logout(c.Request.Context(), refreshToken)
	clearCookie(c, h.auth.AccessCookieConfig())
	clearCookie(c, h.auth.CookieConfig())
	c.Redirect(http.StatusFound, loginPath)
}

// safeRedirect only allows local admin paths.
func safeRedirect(target string) string {
	if strings.HasPrefix(target, "/admin") && !strings.HasPrefix(target, "//") && !strings.Contains(target, "\\") {
		return target
	}
	return dashboardPath
}

func setCookie(c *gin.Context, cfg service.CookieConfig, value string) {
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.Name, value, cfg.MaxAge, cfg.Path, cfg.Domain, cfg.Secure, true)
}

func clearCookie(c *gin.Context, cfg service.CookieConfig) {
	c.SetSameSite(cfg.SameSite)
	c.SetCookie(cfg.Name, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
}
