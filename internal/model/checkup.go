package model

import "html/template"

// CheckID - 개별 점검 항목 식별자
type CheckID string

const (
	CheckQueryCount  CheckID = "query_count"
	CheckSlowQueries CheckID = "slow_queries"
	CheckMemory      CheckID = "memory"
)

// CheckOrder - 점검 실행 순서이자 알림 메시지 표시 순서
var CheckOrder = []CheckID{CheckQueryCount, CheckSlowQueries, CheckMemory}

// Severity - 점검 결과 심각도
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// SlowQuery - 임계값을 넘은 단일 쿼리
type SlowQuery struct {
	Time float64 `json:"time"`
	SQL  string  `json:"sql"`
}

// CheckResult - 점검 항목 하나의 결과
//
// Message는 숫자만 치환된 고정 문장이므로 HTML로 그대로 출력합니다.
type CheckResult struct {
	ID       CheckID       `json:"id"`
	Value    float64       `json:"value"`
	Severity Severity      `json:"severity"`
	Message  template.HTML `json:"message"`
	Queries  []SlowQuery   `json:"queries,omitempty"`
}

// DetectionResult - 한 번의 페이지 로드에 대한 점검 결과 모음
type DetectionResult map[CheckID]CheckResult

// Ordered returns the present results in check order.
func (r DetectionResult) Ordered() []CheckResult {
	out := make([]CheckResult, 0, len(r))
	for _, id := range CheckOrder {
		if res, ok := r[id]; ok {
			out = append(out, res)
		}
	}
	return out
}

// HasWarning reports whether any result is warning severity.
func (r DetectionResult) HasWarning() bool {
	for _, res := range r {
		if res.Severity == SeverityWarning {
			return true
		}
	}
	return false
}

// Severity returns the overall notice severity.
func (r DetectionResult) Severity() Severity {
	if r.HasWarning() {
		return SeverityWarning
	}
	return SeverityInfo
}

// QueryLogEntry - verbose query logging 활성화 시 기록되는 쿼리 정보
type QueryLogEntry struct {
	SQL     string  `json:"sql"`
	Elapsed float64 `json:"elapsed"`
	Caller  string  `json:"caller"`
}

// Notice - 관리자 화면 상단에 렌더링되는 통합 알림
type Notice struct {
	Severity   Severity
	Messages   []template.HTML
	SlowQuery  []SlowQuery
	InfoURL    string
	DismissURL string
}

// CheckupStatus - 현재 요청의 측정값 (info 페이지 / status API)
type CheckupStatus struct {
	QueryCount     int     `json:"queryCount"`
	PeakMemoryMB   float64 `json:"peakMemoryMb"`
	VerboseQueries bool    `json:"verboseQueries"`
}

type CheckupStatusResponse struct {
	Status string        `json:"status"`
	Data   CheckupStatus `json:"data"`
}
