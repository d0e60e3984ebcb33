// Package detector classifies the counters of one admin page load against
// static thresholds.
package detector

import (
	"github.com/kube-rca/perfcheckup/internal/config"
	"github.com/kube-rca/perfcheckup/internal/model"
)

// Snapshot is the read-only view of a request's counters the checks consume.
type Snapshot interface {
	QueryCount() int
	// QueryLog returns ok=false when verbose query logging is disabled.
	QueryLog() (entries []model.QueryLogEntry, ok bool)
	PeakMemoryMB() float64
}

// Check - 개별 점검 인터페이스
type Check interface {
	ID() model.CheckID
	Run(snap Snapshot) *model.CheckResult
}

type Detector struct {
	checks []Check
}

func New(t config.Thresholds) *Detector {
	return &Detector{
		checks: []Check{
			NewQueryCountCheck(t.QueryCountThreshold, t.QueryCountWarning),
			NewSlowQueryCheck(t.SlowQuerySeconds),
			NewMemoryCheck(t.MemoryWarningMB),
		},
	}
}

// Run executes every check against snap. Checks that find nothing worth
// reporting leave no entry.
func (d *Detector) Run(snap Snapshot) model.DetectionResult {
	results := make(model.DetectionResult, len(d.checks))
	for _, check := range d.checks {
		if res := check.Run(snap); res != nil {
			res.ID = check.ID()
			results[check.ID()] = *res
		}
	}
	return results
}
