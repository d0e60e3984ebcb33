package service

import (
	"context"
	"fmt"
	"html/template"
	"log"
	"net/url"
	"time"

	"github.com/kube-rca/perfcheckup/internal/detector"
	"github.com/kube-rca/perfcheckup/internal/model"
	"github.com/kube-rca/perfcheckup/internal/store"
)

const (
	DismissAction = "performance_checkup_dismiss"
	DismissParam  = "performance_checkup_dismiss"
	RestoreAction = "performance_checkup_restore"
	RestoreParam  = "performance_checkup_restore"
	NonceParam    = "_nonce"

	InfoPagePath = "/admin/performance-checkup"

	dismissKeyPrefix = "performance_checkup_notice_dismissed_"
)

// CheckupService - 점검 실행, 알림 구성, 24시간 dismissal 처리
type CheckupService struct {
	detector   *detector.Detector
	transients store.TransientStore
	nonces     *NonceService
	dismissTTL time.Duration
}

func NewCheckupService(det *detector.Detector, transients store.TransientStore, nonces *NonceService, dismissTTL string) (*CheckupService, error) {
	ttl, err := time.ParseDuration(dismissTTL)
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("%w: invalid CHECKUP_DISMISS_TTL", ErrMisconfigured)
	}
	return &CheckupService{
		detector:   det,
		transients: transients,
		nonces:     nonces,
		dismissTTL: ttl,
	}, nil
}

func dismissKey(userID int64) string {
	return fmt.Sprintf("%s%d", dismissKeyPrefix, userID)
}

// IsDismissed reports whether the user's suppression flag is set. A store
// failure is logged and treated as not dismissed.
func (s *CheckupService) IsDismissed(ctx context.Context, userID int64) bool {
	dismissed, err := s.transients.Exists(ctx, dismissKey(userID))
	if err != nil {
		log.Printf("[Checkup] Failed to read dismissal flag (user=%d): %v", userID, err)
		return false
	}
	return dismissed
}

// Dismiss suppresses the notice for userID until the dismissal TTL passes.
func (s *CheckupService) Dismiss(ctx context.Context, userID int64) error {
	return s.transients.Set(ctx, dismissKey(userID), s.dismissTTL)
}

func (s *CheckupService) VerifyDismissNonce(token string, userID int64) bool {
	return s.nonces.Verify(token, userID, DismissAction)
}

// Restore clears the user's dismissal so the notice shows again on the
// next admin page.
func (s *CheckupService) Restore(ctx context.Context, userID int64) error {
	return s.transients.Delete(ctx, dismissKey(userID))
}

func (s *CheckupService) VerifyRestoreNonce(token string, userID int64) bool {
	return s.nonces.Verify(token, userID, RestoreAction)
}

// RestoreURL returns the info page link that clears the user's dismissal.
func (s *CheckupService) RestoreURL(userID int64) (string, error) {
	token, err := s.nonces.Create(userID, RestoreAction)
	if err != nil {
		return "", fmt.Errorf("failed to create restore nonce: %w", err)
	}
	q := url.Values{}
	q.Set(RestoreParam, "1")
	q.Set(NonceParam, token)
	return InfoPagePath + "?" + q.Encode(), nil
}

// Run applies the gate and, when it passes, the checks. It returns an
// empty result for users without manage_options or with an active dismissal.
func (s *CheckupService) Run(ctx context.Context, user *model.AuthUser, snap detector.Snapshot) model.DetectionResult {
	if !user.Can(model.CapManageOptions) {
		return model.DetectionResult{}
	}
	if s.IsDismissed(ctx, user.ID) {
		return model.DetectionResult{}
	}
	return s.detector.Run(snap)
}

// BuildNotice combines results into one notice. It returns nil when there
// is nothing to show.
func (s *CheckupService) BuildNotice(results model.DetectionResult, user *model.AuthUser, current *url.URL) (*model.Notice, error) {
	ordered := results.Ordered()
	if len(ordered) == 0 {
		return nil, nil
	}

	token, err := s.nonces.Create(user.ID, DismissAction)
	if err != nil {
		return nil, fmt.Errorf("failed to create dismiss nonce: %w", err)
	}

	notice := &model.Notice{
		Severity:   results.Severity(),
		Messages:   make([]template.HTML, 0, len(ordered)),
		InfoURL:    InfoPagePath,
		DismissURL: DismissURL(current, token),
	}
	for _, res := range ordered {
		notice.Messages = append(notice.Messages, res.Message)
		if res.ID == model.CheckSlowQueries {
			notice.SlowQuery = res.Queries
		}
	}
	return notice, nil
}

// DismissURL returns current with the dismissal marker and nonce added.
func DismissURL(current *url.URL, token string) string {
	u := *current
	q := u.Query()
	q.Set(DismissParam, "1")
	q.Set(NonceParam, token)
	u.RawQuery = q.Encode()
	return u.RequestURI()
}

// StripDismissParams returns current without the dismissal or restore
// marker and the nonce.
func StripDismissParams(current *url.URL) string {
	u := *current
	q := u.Query()
	q.Del(DismissParam)
	q.Del(RestoreParam)
	q.Del(NonceParam)
	u.RawQuery = q.Encode()
	return u.RequestURI()
}
