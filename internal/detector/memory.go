package detector

import (
	"fmt"
	"html/template"

	"github.com/kube-rca/perfcheckup/internal/model"
)

type MemoryCheck struct {
	warningMB float64
}

func NewMemoryCheck(warningMB float64) *MemoryCheck {
	return &MemoryCheck{warningMB: warningMB}
}

func (c *MemoryCheck) ID() model.CheckID {
	return model.CheckMemory
}

func (c *MemoryCheck) Run(snap Snapshot) *model.CheckResult {
	mb := snap.PeakMemoryMB()
	if mb <= c.warningMB {
		return nil
	}

	return &model.CheckResult{
		Value:    mb,
		Severity: model.SeverityInfo,
		Message:  memoryMessage(mb),
	}
}

func memoryMessage(mb float64) template.HTML {
	return template.HTML(fmt.Sprintf(
		"This page used <strong>%.1f MB</strong> of memory. "+
			"This isn't necessarily bad - the admin needs memory to work. "+
			"But if you're hitting memory limits, this reading can help identify which pages are the culprits.",
		mb,
	))
}
