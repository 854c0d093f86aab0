package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/zscaler-hero/catscan/report"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	successStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle     = lipgloss.NewStyle().Faint(true)
	cellStyle    = lipgloss.NewStyle()
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// maxSummarySamples caps the per-category sample mapping rows.
const maxSummarySamples = 7

// RenderSummary produces a Lip Gloss styled summary of the analyzed
// categories, the per-category sample mappings, export paths, and any
// warnings collected along the way.
func RenderSummary(reps []*report.CategoryReport, exportPaths, warnings []string) string {
	var b strings.Builder

	if len(reps) == 0 {
		b.WriteString(errorStyle.Render("No categories were analyzed."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(titleStyle.Render(fmt.Sprintf("Analyzed %d categories", len(reps))))
	b.WriteString("\n")

	rows := make([][]string, 0, len(reps))
	for _, rep := range reps {
		s := rep.Summary
		rows = append(rows, []string{
			s.Category,
			fmt.Sprintf("%d", s.TotalURLs),
			fmt.Sprintf("%d (%.1f%%)", s.Classified, s.ClassifiedPercent()),
			fmt.Sprintf("%d (%.1f%%)", s.Uncategorized, s.UncategorizedPercent()),
			fmt.Sprintf("%d", s.FailedURLs),
		})
	}

	summaryTable := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Category", "URLs", "Categorized", "Uncategorized", "Failed").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 4 && row >= 0 && row < len(rows) && rows[row][4] != "0" {
				return failedStyle
			}
			return cellStyle
		}).
		Rows(rows...)
	b.WriteString(summaryTable.Render())
	b.WriteString("\n\n")

	for _, rep := range reps {
		b.WriteString(renderSample(rep))
	}

	if len(exportPaths) > 0 {
		b.WriteString(successStyle.Render("Reports written:"))
		b.WriteString("\n")
		for _, path := range exportPaths {
			b.WriteString("  " + path + "\n")
		}
	}

	if len(warnings) > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("\nWarnings (%d):", len(warnings))))
		b.WriteString("\n")
		for _, warning := range warnings {
			b.WriteString(dimStyle.Render("  " + warning))
			b.WriteString("\n")
		}
	}

	return b.String()
}

// renderSample renders a short URL-to-category table for one category.
func renderSample(rep *report.CategoryReport) string {
	if len(rep.Records) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(rep.Summary.Category))
	b.WriteString("\n")

	rows := make([][]string, 0, maxSummarySamples)
	for i, rec := range rep.Records {
		if i == maxSummarySamples {
			break
		}
		rows = append(rows, []string{rec.URL, rec.CategoryCell()})
	}

	sampleTable := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("URL", "Zscaler Category").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Rows(rows...)
	b.WriteString(sampleTable.Render())
	b.WriteString("\n")
	if extra := len(rep.Records) - maxSummarySamples; extra > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more entries in the exported report", extra)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}
