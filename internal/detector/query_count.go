package detector

import (
	"fmt"
	"html/template"

	"github.com/kube-rca/perfcheckup/internal/model"
)

type QueryCountCheck struct {
	threshold int
	warning   int
}

func NewQueryCountCheck(threshold, warning int) *QueryCountCheck {
	return &QueryCountCheck{threshold: threshold, warning: warning}
}

func (c *QueryCountCheck) ID() model.CheckID {
	return model.CheckQueryCount
}

func (c *QueryCountCheck) Run(snap Snapshot) *model.CheckResult {
	count := snap.QueryCount()
	if count <= c.threshold {
		return nil
	}

	severity := model.SeverityInfo
	if count > c.warning {
		severity = model.SeverityWarning
	}

	return &model.CheckResult{
		Value:    float64(count),
		Severity: severity,
		Message:  queryCountMessage(count, severity),
	}
}

func queryCountMessage(count int, severity model.Severity) template.HTML {
	if severity == model.SeverityWarning {
		return template.HTML(fmt.Sprintf(
			"This admin page made <strong>%d database queries</strong>. That's quite high. "+
				"Large numbers usually point to inefficient plugins or themes that make repeated queries in loops. "+
				"It may not be urgent, but it's worth investigating.",
			count,
		))
	}

	return template.HTML(fmt.Sprintf(
		"This admin page made <strong>%d database queries</strong>. "+
			"This is noticeable but not necessarily a problem. If the admin feels slow, this might be why.",
		count,
	))
}
