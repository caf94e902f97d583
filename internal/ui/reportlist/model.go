package reportlist

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cityconnect/cityconnect/internal/keys"
	"github.com/cityconnect/cityconnect/internal/model"
	"github.com/cityconnect/cityconnect/internal/theme"
)

// ReportsLoadedMsg is sent when a report listing has been fetched.
type ReportsLoadedMsg struct {
	Reports []model.Report

	// FromCache marks listings served by the local cache because the
	// backend was unreachable.
	FromCache bool
}

// SelectedReportMsg is sent when the user opens a report's detail view.
type SelectedReportMsg struct {
	Report model.Report
}

// FilterChangedMsg asks the parent to refetch with the new filters.
type FilterChangedMsg struct {
	Search     string
	CategoryID int
}

// Model is the report list view, shared by the public, mine, and
// admin listings.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	categories  []model.Category
	categoryIdx int
	search      string
	searchMode  bool
	searchInput textinput.Model
	fromCache   bool
	width       int
	height      int
}

// New creates a new report list model with the given title.
func New(title string, k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = title
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search reports..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		categoryIdx: -1,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// SetCategories installs the category set cycled by the filter key.
func (m *Model) SetCategories(categories []model.Category) {
	m.categories = categories
}

// Update handles messages for the report list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ReportsLoadedMsg:
		m.fromCache = msg.FromCache
		items := make([]list.Item, len(msg.Reports))
		for i, r := range msg.Reports {
			items[i] = ReportItem{Report: r}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.search = m.searchInput.Value()
		return m, m.emitFilterChanged()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.search = ""
		return m, m.emitFilterChanged()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(ReportItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedReportMsg{Report: item.Report}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleCategory):
		m.cycleCategory()
		return m, m.emitFilterChanged()
	}

	// Delegate to the list for navigation keys (up/down/pgup/pgdn)
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// cycleCategory advances the category filter: all -> each category -> all.
func (m *Model) cycleCategory() {
	if len(m.categories) == 0 {
		m.categoryIdx = -1
		return
	}
	m.categoryIdx++
	if m.categoryIdx >= len(m.categories) {
		m.categoryIdx = -1
	}
}

// emitFilterChanged reports the active filters to the parent.
func (m Model) emitFilterChanged() tea.Cmd {
	search := m.search
	categoryID := m.CategoryID()
	return func() tea.Msg {
		return FilterChangedMsg{Search: search, CategoryID: categoryID}
	}
}

// CategoryID returns the active category filter, zero when unfiltered.
func (m Model) CategoryID() int {
	if m.categoryIdx < 0 || m.categoryIdx >= len(m.categories) {
		return 0
	}
	return m.categories[m.categoryIdx].ID
}

// Search returns the active search filter.
func (m Model) Search() string {
	return m.search
}

// Searching reports whether the search input currently owns the keyboard.
func (m Model) Searching() bool {
	return m.searchMode
}

// SelectedReport returns the currently highlighted report.
func (m Model) SelectedReport() (model.Report, bool) {
	item, ok := m.list.SelectedItem().(ReportItem)
	if !ok {
		return model.Report{}, false
	}
	return item.Report, true
}

// FilterSummary describes the active filters for the status bar.
func (m Model) FilterSummary() string {
	summary := ""
	if m.search != "" {
		summary = "search: " + m.search
	}
	if id := m.CategoryID(); id > 0 {
		name := ""
		for _, c := range m.categories {
			if c.ID == id {
				name = c.Name
			}
		}
		if summary != "" {
			summary += " | "
		}
		summary += "category: " + name
	}
	if m.fromCache {
		if summary != "" {
			summary += " | "
		}
		summary += "offline (cached)"
	}
	return summary
}

// View renders the report list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no reports are available.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.search != "" || m.CategoryID() > 0 {
		return style.Render("No matching reports.\nTry adjusting your filters.")
	}

	return style.Render("No reports yet.\n\nPress n to file the first one.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
