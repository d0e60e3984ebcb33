package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kube-rca/perfcheckup/internal/model"
	"github.com/kube-rca/perfcheckup/internal/querylog"
)

const (
	authUserKey     = "auth_user"
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
	accessCookie    = "perfcheckup_access"
	loginPath       = "/admin/login"
)

// AccessTokenParser - access token 검증 인터페이스
type AccessTokenParser interface {
	ParseAccessToken(tokenStr string) (*model.AuthUser, error)
}

// AuthMiddleware - API용 Bearer 인증
func AuthMiddleware(authService AccessTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		user, err := authService.ParseAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

// AdminAuthMiddleware - 관리자 HTML 페이지 인증
//
// Bearer 헤더 또는 access token 쿠키를 받습니다. 인증 실패 시 로그인 페이지로 보냅니다.
func AdminAuthMiddleware(authService AccessTokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token, _ = c.Cookie(accessCookie)
		}

		user, err := authService.ParseAccessToken(token)
		if token == "" || err != nil {
			c.Redirect(http.StatusFound, loginPath+"?redirect_to="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}

		c.Set(authUserKey, user)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func GetAuthUser(c *gin.Context) *model.AuthUser {
	if value, ok := c.Get(authUserKey); ok {
		if user, ok := value.(*model.AuthUser); ok {
			return user
		}
	}
	return nil
}

// RequestIDMiddleware - 요청마다 X-Request-ID 부여 (클라이언트가 보낸 값이 있으면 유지)
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// InstrumentMiddleware - 요청 단위 Recorder를 request context에 연결
//
// 이후 핸들러가 c.Request.Context()로 실행한 쿼리는 querylog.Tracer가 이 Recorder에 기록합니다.
func InstrumentMiddleware(verbose bool, memory querylog.MemorySampler) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec := querylog.NewRecorder(verbose, memory)
		c.Request = c.Request.WithContext(querylog.NewContext(c.Request.Context(), rec))
		c.Next()
	}
}

// GetRecorder returns the request recorder. Uninstrumented requests get an
// empty one so callers never handle nil.
func GetRecorder(c *gin.Context) *querylog.Recorder {
	if rec := querylog.FromContext(c.Request.Context()); rec != nil {
		return rec
	}
	return querylog.NewRecorder(false, nil)
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
				c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}

		c.Next()
	}
}
