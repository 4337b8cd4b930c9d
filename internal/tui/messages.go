package tui

import (
	"time"

	"github.com/Veraticus/budget-manager/internal/report"
)

type summaryLoadedMsg struct {
	loadedAt time.Time
	err      error
	summary  *report.SummaryReport
}
