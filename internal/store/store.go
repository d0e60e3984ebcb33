// Package store holds the expiring per-key flags used by the checkup notice.
//
// 백엔드:
//   - memory: 단일 인스턴스 / 테스트용 (기본값)
//   - redis: 여러 인스턴스가 같은 dismissal 상태를 공유해야 할 때
//   - postgres: db.Postgres가 같은 인터페이스를 구현 (transients 테이블)
package store

import (
	"context"
	"time"
)

// TransientStore - TTL이 있는 key-value 저장소
type TransientStore interface {
	// Exists reports whether key is present and unexpired.
	Exists(ctx context.Context, key string) (bool, error)
	Set(ctx context.Context, key string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
