package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cityconnect/cityconnect/internal/keys"
	"github.com/cityconnect/cityconnect/internal/model"
	"github.com/cityconnect/cityconnect/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// ReportLoadedMsg carries the freshly fetched report detail.
type ReportLoadedMsg struct {
	Report model.Report

	// UserVote is the caller's active vote on the report, nil when the
	// caller has not voted.
	UserVote *model.VoteType
}

// VoteRequestMsg asks the parent to cast or toggle a vote.
type VoteRequestMsg struct {
	ReportID string
	VoteType model.VoteType
	UserVote *model.VoteType
}

// StatusRequestMsg asks the parent to open the admin status form.
type StatusRequestMsg struct {
	Report model.Report
}

// Model is the report detail view component.
type Model struct {
	report   *model.Report
	userVote *model.VoteType
	viewport viewport.Model
	keys     *keys.KeyMap
	isAdmin  bool
	width    int
	height   int
	loading  bool
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// SetAdmin toggles the admin-only status action.
func (m *Model) SetAdmin(isAdmin bool) {
	m.isAdmin = isAdmin
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SetReport updates the report being displayed and re-renders.
func (m *Model) SetReport(r model.Report, userVote *model.VoteType) {
	m.report = &r
	m.userVote = userVote
	m.loading = false
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// ApplyVote updates the local vote score and the caller's vote after a
// vote round trip.
func (m *Model) ApplyVote(score int, userVote *model.VoteType) {
	if m.report == nil {
		return
	}
	m.report.VoteScore = score
	m.userVote = userVote
	m.viewport.SetContent(m.renderContent())
}

// Report returns the currently displayed report.
func (m Model) Report() (model.Report, bool) {
	if m.report == nil {
		return model.Report{}, false
	}
	return *m.report, true
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ReportLoadedMsg:
		m.SetReport(msg.Report, msg.UserVote)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case key.Matches(msg, m.keys.Upvote):
			return m, m.voteCmd(model.VoteUpvote)

		case key.Matches(msg, m.keys.Downvote):
			return m, m.voteCmd(model.VoteDownvote)

		case key.Matches(msg, m.keys.SetStatus):
			if m.isAdmin && m.report != nil {
				r := *m.report
				return m, func() tea.Msg { return StatusRequestMsg{Report: r} }
			}
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// voteCmd emits a vote request for the current report. Votes only apply
// to public reports, matching the backend rule.
func (m Model) voteCmd(vt model.VoteType) tea.Cmd {
	if m.report == nil || m.report.PrivacyLevel == model.PrivacyPrivate {
		return nil
	}
	id := m.report.ID
	userVote := m.userVote
	return func() tea.Msg {
		return VoteRequestMsg{ReportID: id, VoteType: vt, UserVote: userVote}
	}
}

// View renders the detail view.
func (m Model) View() string {
	if m.loading {
		loadingStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return loadingStyle.Render("Loading report...")
	}

	if m.report == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No report selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.report == nil {
		return ""
	}

	r := m.report
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(r.Title))

	// Badges line: status + score + privacy
	statusBadge := theme.StatusStyle(r.Status).Render(string(r.Status))
	scoreBadge := theme.ScoreStyle(r.VoteScore).Render(
		fmt.Sprintf("%+d votes", r.VoteScore),
	)
	privacyBadge := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(string(r.PrivacyLevel))

	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top, statusBadge, "  ", scoreBadge, "  ", privacyBadge,
	)
	sections = append(sections, badgeLine)

	if m.userVote != nil {
		voteNote := lipgloss.NewStyle().
			Foreground(theme.ColorBlue).
			Italic(true).
			Render("your vote: " + string(*m.userVote))
		sections = append(sections, voteNote)
	}
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	if name := r.CategoryName(); name != "" {
		line := name
		if r.Category.Department != "" {
			line += " (" + r.Category.Department + ")"
		}
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Category:"),
			valStyle.Render(line),
		))
	}

	reporter := r.ReporterName
	if reporter == "" {
		reporter = "anonymous"
	}
	sections = append(sections, fmt.Sprintf(
		"%s  %s",
		metaStyle.Render("Reporter:"),
		valStyle.Render(reporter),
	))

	if r.LocationLat != nil && r.LocationLng != nil {
		sections = append(sections, fmt.Sprintf(
			"%s  %s",
			metaStyle.Render("Location:"),
			valStyle.Render(fmt.Sprintf("%.5f, %.5f", *r.LocationLat, *r.LocationLng)),
		))
	}
	if !r.CreatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Created:"),
			valStyle.Render(r.CreatedAt.Format("2006-01-02 15:04")),
		))
	}
	if !r.UpdatedAt.IsZero() {
		sections = append(sections, fmt.Sprintf(
			"%s   %s",
			metaStyle.Render("Updated:"),
			valStyle.Render(r.UpdatedAt.Format("2006-01-02 15:04")),
		))
	}
	if r.PhotoURL != "" {
		sections = append(sections, fmt.Sprintf(
			"%s     %s",
			metaStyle.Render("Photo:"),
			valStyle.Render(r.PhotoURL),
		))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "", separator, "")

	descHeaderStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	sections = append(sections, descHeaderStyle.Render("Description"))

	body := r.Description
	if body == "" {
		body = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No description")
	}
	sections = append(sections, body)

	hints := "u: upvote  d: downvote"
	if r.PrivacyLevel == model.PrivacyPrivate {
		hints = "voting unavailable for private reports"
	}
	if m.isAdmin {
		hints += "  s: set status"
	}
	sections = append(sections, "", theme.HelpStyle.Render(hints))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}
