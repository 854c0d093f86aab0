package tui

import (
	"github.com/zscaler-hero/catscan/analyzer"
	"github.com/zscaler-hero/catscan/report"
	"github.com/zscaler-hero/catscan/zia"

	tea "github.com/charmbracelet/bubbletea"
)

// CategoriesMsg delivers the custom category listing, or the fetch error.
type CategoriesMsg struct {
	Categories []zia.Category
	Err        error
}

// AnalysisEventMsg wraps one pipeline progress event.
type AnalysisEventMsg analyzer.Event

// AnalysisDoneMsg signals the pipeline has finished. The zero value is the
// events-channel-closed sentinel; the message carrying the actual reports
// comes from the pipeline command itself.
type AnalysisDoneMsg struct {
	Reports []*report.CategoryReport
	Err     error
}

// ExportDoneMsg signals the report files have been written.
type ExportDoneMsg struct {
	Paths []string
	Err   error
}

// waitForEvent returns a tea.Cmd that reads one event from the progress
// channel. When the channel closes it returns the AnalysisDoneMsg
// sentinel.
func waitForEvent(ch <-chan analyzer.Event) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-ch
		if !ok {
			return AnalysisDoneMsg{}
		}
		return AnalysisEventMsg(evt)
	}
}
