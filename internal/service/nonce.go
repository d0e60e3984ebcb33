package service

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// NonceService - 특정 action에 묶인 anti-forgery 토큰 발급/검증
//
// 토큰은 HS256 JWT이며 sub(사용자 ID)와 act(action)가 모두 일치해야 유효합니다.
// 서명 키는 JWT_SECRET에서 파생하므로 access token을 nonce로 재사용할 수 없습니다.
type NonceService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

type nonceClaims struct {
	Action string `json:"act"`
	jwt.RegisteredClaims
}

func NewNonceService(jwtSecret, ttl string) (*NonceService, error) {
	if jwtSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET is required", ErrMisconfigured)
	}
	parsed, err := time.ParseDuration(ttl)
	if err != nil || parsed <= 0 {
		return nil, fmt.Errorf("%w: invalid CHECKUP_NONCE_TTL", ErrMisconfigured)
	}

	key := sha256.Sum256([]byte("nonce|" + jwtSecret))
	return &NonceService{
		secret: key[:],
		ttl:    parsed,
		now:    time.Now,
	}, nil
}

func (s *NonceService) Create(userID int64, action string) (string, error) {
	now := s.now()
	claims := nonceClaims{
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify reports whether token was issued by Create for the same user and action.
func (s *NonceService) Verify(token string, userID int64, action string) bool {
	if token == "" {
		return false
	}

	claims := &nonceClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return false
	}

	return claims.Action == action && claims.Subject == strconv.FormatInt(userID, 10)
}
