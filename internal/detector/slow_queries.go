package detector

import (
	"fmt"
	"html/template"
	"sort"

	"github.com/kube-rca/perfcheckup/internal/model"
)

// maxSlowQueries caps how many slow queries are kept for display.
const maxSlowQueries = 3

type SlowQueryCheck struct {
	thresholdSeconds float64
}

func NewSlowQueryCheck(thresholdSeconds float64) *SlowQueryCheck {
	return &SlowQueryCheck{thresholdSeconds: thresholdSeconds}
}

func (c *SlowQueryCheck) ID() model.CheckID {
	return model.CheckSlowQueries
}

// Run only sees durations when verbose query logging is on; otherwise the
// check is skipped.
func (c *SlowQueryCheck) Run(snap Snapshot) *model.CheckResult {
	entries, ok := snap.QueryLog()
	if !ok || len(entries) == 0 {
		return nil
	}

	var slow []model.SlowQuery
	for _, entry := range entries {
		if entry.Elapsed > c.thresholdSeconds {
			slow = append(slow, model.SlowQuery{Time: entry.Elapsed, SQL: entry.SQL})
		}
	}
	if len(slow) == 0 {
		return nil
	}

	sort.SliceStable(slow, func(i, j int) bool {
		return slow[i].Time > slow[j].Time
	})

	top := slow
	if len(top) > maxSlowQueries {
		top = top[:maxSlowQueries]
	}

	return &model.CheckResult{
		Value:    float64(len(slow)),
		Severity: model.SeverityWarning,
		Message:  slowQueryMessage(len(slow), slow[0].Time),
		Queries:  append([]model.SlowQuery(nil), top...),
	}
}

func slowQueryMessage(count int, slowest float64) template.HTML {
	noun := "queries"
	if count == 1 {
		noun = "query"
	}

	return template.HTML(fmt.Sprintf(
		"Found <strong>%d slow database %s</strong>. The slowest took <strong>%.3f seconds</strong>. "+
			"Slow queries are often caused by missing indexes, large tables, or poorly written plugin code. "+
			"Check the Performance Checkup page for details.",
		count, noun, slowest,
	))
}
