package reportlist

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cityconnect/cityconnect/internal/model"
	"github.com/cityconnect/cityconnect/internal/theme"
)

// ReportItem wraps a model.Report so it can be used in a bubbles/list.
type ReportItem struct {
	Report model.Report
}

// FilterValue returns the string used for fuzzy filtering.
func (i ReportItem) FilterValue() string { return i.Report.Title }

// Title returns the report title for the list.
func (i ReportItem) Title() string { return i.Report.Title }

// Description returns a short summary line for the list.
func (i ReportItem) Description() string {
	parts := []string{
		string(i.Report.Status),
		i.Report.CategoryName(),
		relativeTime(i.Report.CreatedAt),
	}
	return strings.Join(parts, " | ")
}

// ItemDelegate implements list.ItemDelegate for rendering report rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single report row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(ReportItem)
	if !ok {
		return
	}

	r := ri.Report
	isSelected := index == m.Index()

	scoreBadge := theme.ScoreStyle(r.VoteScore).Render(fmt.Sprintf("%+d", r.VoteScore))
	statusBadge := theme.StatusStyle(r.Status).Render(string(r.Status))

	categoryBadge := ""
	if name := r.CategoryName(); name != "" {
		categoryBadge = lipgloss.NewStyle().
			Foreground(theme.ColorMagenta).
			Render(" [" + name + "]")
	}

	reporter := r.ReporterName
	if reporter == "" {
		reporter = "anonymous"
	}

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(relativeTime(r.CreatedAt))

	line := fmt.Sprintf(
		"%s %s %s%s by %s  %s",
		scoreBadge, statusBadge, r.Title, categoryBadge, reporter, timeStr,
	)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	case d < 7*24*time.Hour:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	default:
		weeks := int(d.Hours() / 24 / 7)
		if weeks == 1 {
			return "1w ago"
		}
		return fmt.Sprintf("%dw ago", weeks)
	}
}
