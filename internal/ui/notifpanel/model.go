package notifpanel

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cityconnect/cityconnect/internal/keys"
	"github.com/cityconnect/cityconnect/internal/model"
	"github.com/cityconnect/cityconnect/internal/theme"
)

// BackMsg signals the parent to navigate back to the previous view.
type BackMsg struct{}

// MarkReadRequestMsg asks the parent to mark one notification read.
type MarkReadRequestMsg struct {
	ID string
}

// MarkAllReadRequestMsg asks the parent to mark every notification read.
type MarkAllReadRequestMsg struct{}

// OpenReportMsg asks the parent to open the report a notification is about.
type OpenReportMsg struct {
	ReportID string
}

// Model is the notification center view. The notification slice is
// owned by the stream relay; this model only renders a copy.
type Model struct {
	notifications []model.Notification
	cursor        int
	offset        int
	keys          *keys.KeyMap
	width         int
	height        int
}

// New creates a new notification panel model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetNotifications replaces the rendered notification list. The cursor
// is clamped so relay updates cannot leave it out of range.
func (m *Model) SetNotifications(notifications []model.Notification) {
	m.notifications = notifications
	if m.cursor >= len(notifications) {
		m.cursor = len(notifications) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// Update handles messages for the notification panel.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.notifications)-1 {
			m.cursor++
		}
		m.scrollToCursor()

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.scrollToCursor()

	case key.Matches(keyMsg, m.keys.Select):
		n, ok := m.selected()
		if !ok {
			return m, nil
		}
		var cmds []tea.Cmd
		if !n.IsRead {
			id := n.ID
			cmds = append(cmds, func() tea.Msg { return MarkReadRequestMsg{ID: id} })
		}
		if n.ReportID != "" {
			reportID := n.ReportID
			cmds = append(cmds, func() tea.Msg { return OpenReportMsg{ReportID: reportID} })
		}
		return m, tea.Batch(cmds...)

	case key.Matches(keyMsg, m.keys.MarkAllRead):
		return m, func() tea.Msg { return MarkAllReadRequestMsg{} }
	}

	return m, nil
}

// View renders the notification panel.
func (m Model) View() string {
	if len(m.notifications) == 0 {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No notifications.\n\nUpdates about your reports will appear here.")
	}

	visible := m.visibleRows()
	end := m.offset + visible
	if end > len(m.notifications) {
		end = len(m.notifications)
	}

	var rows []string
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderRow(i))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// renderRow draws a single notification line.
func (m Model) renderRow(i int) string {
	n := m.notifications[i]

	marker := "●"
	markerStyle := lipgloss.NewStyle().Foreground(theme.ColorBlue)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	msgStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	if n.IsRead {
		marker = "○"
		markerStyle = theme.DimmedStyle
		titleStyle = theme.DimmedStyle
		msgStyle = theme.DimmedStyle
	}

	timeStr := theme.DimmedStyle.Render(relativeTime(n.CreatedAt))

	line := fmt.Sprintf(
		"%s %s %s %s  %s",
		markerStyle.Render(marker),
		titleStyle.Render(n.Title),
		theme.DimmedStyle.Render("·"),
		msgStyle.Render(truncate(n.Message, m.width/2)),
		timeStr,
	)

	if i == m.cursor {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// selected returns the notification under the cursor.
func (m Model) selected() (model.Notification, bool) {
	if m.cursor < 0 || m.cursor >= len(m.notifications) {
		return model.Notification{}, false
	}
	return m.notifications[m.cursor], true
}

// scrollToCursor keeps the cursor within the visible window.
func (m *Model) scrollToCursor() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) visibleRows() int {
	rows := m.height
	if rows < 1 {
		rows = 1
	}
	return rows
}

// SetSize updates the panel dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.scrollToCursor()
}

// truncate shortens s to at most max runes, appending an ellipsis.
func truncate(s string, max int) string {
	if max < 4 {
		max = 4
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max-3])) + "..."
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
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
