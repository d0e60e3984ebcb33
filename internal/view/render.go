// Package view renders the admin HTML: the shared layout, the admin pages
// and the performance checkup notice.
//
// 모든 동적 값은 html/template이 context에 맞게 escape 합니다.
// 알림 메시지(model.CheckResult.Message)만 숫자가 치환된 고정 문장이므로 template.HTML로 그대로 출력합니다.
package view

import (
	"bytes"
	"html/template"

	"github.com/kube-rca/perfcheckup/internal/admin"
	"github.com/kube-rca/perfcheckup/internal/model"
)

// NoticeMarker - layout 안에서 관리자 알림이 삽입되는 위치
const NoticeMarker = "<!--admin-notices-->"

// Page - 모든 관리자 페이지가 공유하는 layout 데이터
type Page struct {
	Title string
	User  *model.AuthUser
	Menu  []admin.MenuItem
	Data  any
}

// InfoPageData - Performance Checkup 안내 페이지 데이터
type InfoPageData struct {
	Status model.CheckupStatus
	// RestoreURL is set while the viewer has the notice dismissed.
	RestoreURL string
}

// DashboardData - 대시보드 데이터
type DashboardData struct {
	Users []model.User
}

// LoginData - 로그인 폼 데이터
type LoginData struct {
	Error    string
	LoginID  string
	Redirect string
}

// html/template drops comments written in template text, so the marker is
// emitted as trusted HTML instead. Only users who can receive the notice
// get a marker.
var funcs = template.FuncMap{
	"noticeMarker": func(user *model.AuthUser) template.HTML {
		if !user.Can(model.CapManageOptions) {
			return ""
		}
		return template.HTML(NoticeMarker)
	},
}

// New parses every admin page template.
func New() *template.Template {
	t := template.New("admin").Funcs(funcs)
	for _, src := range []string{layoutTemplate, noticeTemplate, dashboardTemplate, infoPageTemplate, loginTemplate, forbiddenTemplate} {
		template.Must(t.Parse(src))
	}
	return t
}

var noticeTmpl = template.Must(template.New("notice").Parse(noticeTemplate))

// RenderNotice renders the combined checkup notice.
func RenderNotice(n *model.Notice) (string, error) {
	if n == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := noticeTmpl.ExecuteTemplate(&buf, "notice", n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// InjectNotice replaces the notice marker of page with notice. An empty
// notice removes the marker.
func InjectNotice(page []byte, notice string) []byte {
	return bytes.Replace(page, []byte(NoticeMarker), []byte(notice), 1)
}
