package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kube-rca/perfcheckup/internal/model"
	"github.com/kube-rca/perfcheckup/internal/service"
)

// authAPI - JSON 인증 API가 사용하는 서비스 인터페이스
type authAPI interface {
	Register(ctx context.Context, loginID, password string) (string, string, int64, error)
	Login(ctx context.Context, loginID, password string) (string, string, int64, error)
	Refresh(ctx context.Context, refreshToken string) (string, string, int64, error)
	Logout(ctx context.Context, refreshToken string) error
	AllowSignup() bool
	CookieConfig() service.CookieConfig
}

// AuthHandler - JSON 인증 API
//
// 발급된 access token은 Bearer로 /api/v1/checkup/status 호출에 사용합니다.
// refresh token은 HttpOnly 쿠키로만 전달됩니다.
type AuthHandler struct {
	svc authAPI
}

func NewAuthHandler(svc authAPI) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type credentialFunc func(ctx context.Context, loginID, password string) (string, string, int64, error)

// Register godoc
// @Summary Register a new user
// @Description Sign up when ALLOW_SIGNUP is true. New accounts get the editor role and cannot read checkup status.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.AuthRequest true "Login ID and password"
// @Success 200 {object} model.AuthResponse
// @Failure 400,403,409,500 {object} model.ErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	h.withCredentials(c, h.svc.Register)
}

// Login godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.AuthRequest true "Login ID and password"
// @Success 200 {object} model.AuthResponse
// @Failure 400,401,500 {object} model.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	h.withCredentials(c, h.svc.Login)
}

func (h *AuthHandler) withCredentials(c *gin.Context, issue credentialFunc) {
	var req model.AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid request"})
		return
	}
	h.respondTokens(c)(issue(c.Request.Context(), req.ID, req.Password))
}

// Refresh godoc
// @Summary Refresh access token
// @Description Rotates the refresh token cookie (perfcheckup_refresh).
// @Tags auth
// @Produce json
// @Success 200 {object} model.AuthResponse
// @Failure 401,500 {object} model.ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, _ := c.Cookie(h.svc.CookieConfig().Name)
	h.respondTokens(c)(h.svc.Refresh(c.Request.Context(), refreshToken))
}

// respondTokens writes the access token body and the refresh cookie, or
// the mapped error.
func (h *AuthHandler) respondTokens(c *gin.Context) func(string, string, int64, error) {
	return func(accessToken, refreshToken string, expiresIn int64, err error) {
		if err != nil {
			writeAuthError(c, err)
			return
		}
		setCookie(c, h.svc.CookieConfig(), refreshToken)
		c.JSON(http.StatusOK, model.AuthResponse{
			AccessToken: accessToken,
			ExpiresIn:   expiresIn,
		})
	}
}

// Logout godoc
// @Summary Logout
// @Description Revokes refresh token (if present) and clears cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} model.AuthLogoutResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	refreshToken, _ := c.Cookie(h.svc.CookieConfig().Name)
	_ = h.svc.Logout(c.Request.Context(), refreshToken)
	clearCookie(c, h.svc.CookieConfig())
	c.JSON(http.StatusOK, model.AuthLogoutResponse{Status: "logged_out"})
}

// Config godoc
// @Summary Get auth config
// @Tags auth
// @Produce json
// @Success 200 {object} model.AuthConfigResponse
// @Router /api/v1/auth/config [get]
func (h *AuthHandler) Config(c *gin.Context) {
	c.JSON(http.StatusOK, model.AuthConfigResponse{AllowSignup: h.svc.AllowSignup()})
}

// Me godoc
// @Summary Get current user
// @Description Returns role and capabilities. manage_options is required for the checkup status API.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.AuthMeResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user := GetAuthUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, model.AuthMeResponse{
		UserID:       user.ID,
		LoginID:      user.LoginID,
		Role:         user.Role,
		Capabilities: user.Capabilities(),
	})
}

var authErrors = map[error]struct {
	status  int
	message string
}{
	service.ErrInvalidInput: {http.StatusBadRequest, "invalid input"},
	service.ErrUnauthorized: {http.StatusUnauthorized, "unauthorized"},
	service.ErrForbidden:    {http.StatusForbidden, "signup disabled"},
	service.ErrConflict:     {http.StatusConflict, "already exists"},
}

func writeAuthError(c *gin.Context, err error) {
	if mapped, ok := authErrors[err]; ok {
		c.JSON(mapped.status, model.ErrorResponse{Error: mapped.message})
		return
	}
	c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
}
