package statusform

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/cityconnect/cityconnect/internal/model"
	"github.com/cityconnect/cityconnect/internal/theme"
)

// StatusSubmittedMsg is dispatched when the admin picks a new status.
type StatusSubmittedMsg struct {
	ReportID string
	Status   model.ReportStatus
}

// CancelMsg is dispatched when the admin aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	status model.ReportStatus
}

// Model is the Bubble Tea model for the admin status change form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	reportID string
	title    string
	width    int
	height   int
}

// New creates a new status form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form for the given report.
func (m *Model) Start(r model.Report) tea.Cmd {
	m.reportID = r.ID
	m.title = r.Title
	m.fb.status = r.Status
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the status form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		id := m.reportID
		status := m.fb.status
		return m, func() tea.Msg {
			return StatusSubmittedMsg{ReportID: id, Status: status}
		}
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the status form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Update status: "+m.title) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	opts := make([]huh.Option[model.ReportStatus], len(model.ReportStatuses))
	for i, s := range model.ReportStatuses {
		opts[i] = huh.NewOption(string(s), s)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[model.ReportStatus]().
				Title("Status").
				Options(opts...).
				Value(&m.fb.status),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 30 {
		w = 30
	}
	if w > 60 {
		w = 60
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 8 {
		h = 8
	}
	return h
}
