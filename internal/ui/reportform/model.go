package reportform

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/cityconnect/cityconnect/internal/model"
	"github.com/cityconnect/cityconnect/internal/theme"
)

// ReportSubmittedMsg is dispatched when the user completes the form.
type ReportSubmittedMsg struct {
	Request model.CreateReportRequest
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// newCategorySentinel is the select value that switches the form to
// free-text category entry.
const newCategorySentinel = -1

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title         string
	description   string
	categoryID    int
	newCategory   string
	newDepartment string
	privacy       model.PrivacyLevel
	lat           string
	lng           string
}

// Model is the Bubble Tea model for the new report form.
type Model struct {
	form       *huh.Form
	fb         *formBindings
	categories []model.Category
	width      int
	height     int
}

// New creates a new report form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{privacy: model.PrivacyPublic},
		width:  width,
		height: height,
	}
}

// SetCategories sets the available categories for the selector.
func (m *Model) SetCategories(categories []model.Category) {
	m.categories = categories
}

// Start initializes a fresh form.
func (m *Model) Start() tea.Cmd {
	m.fb.title = ""
	m.fb.description = ""
	m.fb.categoryID = 0
	if len(m.categories) > 0 {
		m.fb.categoryID = m.categories[0].ID
	}
	m.fb.newCategory = ""
	m.fb.newDepartment = ""
	m.fb.privacy = model.PrivacyPublic
	m.fb.lat = ""
	m.fb.lng = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the report form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the report form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("File a Report") + "\n" + m.form.View()

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
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("Broken streetlight on Jalan Merdeka...").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewText().
			Title("Description").
			Placeholder("What happened, and where exactly?").
			Value(&m.fb.description).
			Validate(validateRequired("Description")),
		m.categoryField(),
		huh.NewInput().
			Title("New category name").
			Placeholder("Only when proposing a new category").
			Value(&m.fb.newCategory),
		huh.NewInput().
			Title("New category department").
			Placeholder("Department that should handle it").
			Value(&m.fb.newDepartment),
		huh.NewSelect[model.PrivacyLevel]().
			Title("Privacy").
			Options(
				huh.NewOption("Public (visible to everyone)", model.PrivacyPublic),
				huh.NewOption("Private (only you and admins)", model.PrivacyPrivate),
				huh.NewOption("Anonymous (public, name hidden)", model.PrivacyAnonymous),
			).
			Value(&m.fb.privacy),
		huh.NewInput().
			Title("Latitude").
			Placeholder("Optional, e.g. -6.2088").
			Value(&m.fb.lat).
			Validate(validateOptionalCoordinate(-90, 90)),
		huh.NewInput().
			Title("Longitude").
			Placeholder("Optional, e.g. 106.8456").
			Value(&m.fb.lng).
			Validate(validateOptionalCoordinate(-180, 180)),
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) categoryField() huh.Field {
	opts := make([]huh.Option[int], 0, len(m.categories)+1)
	for _, c := range m.categories {
		label := c.Name
		if c.Department != "" {
			label = fmt.Sprintf("%s (%s)", c.Name, c.Department)
		}
		opts = append(opts, huh.NewOption(label, c.ID))
	}
	opts = append(opts, huh.NewOption("Propose a new category...", newCategorySentinel))

	return huh.NewSelect[int]().
		Title("Category").
		Options(opts...).
		Value(&m.fb.categoryID)
}

func (m Model) handleSubmit() tea.Cmd {
	req := model.CreateReportRequest{
		Title:        strings.TrimSpace(m.fb.title),
		Description:  strings.TrimSpace(m.fb.description),
		PrivacyLevel: m.fb.privacy,
	}

	if m.fb.categoryID == newCategorySentinel {
		req.NewCategoryName = strings.TrimSpace(m.fb.newCategory)
		req.NewCategoryDepartment = strings.TrimSpace(m.fb.newDepartment)
	} else {
		req.CategoryID = m.fb.categoryID
	}

	if lat, ok := parseCoordinate(m.fb.lat); ok {
		req.LocationLat = &lat
	}
	if lng, ok := parseCoordinate(m.fb.lng); ok {
		req.LocationLng = &lng
	}

	return func() tea.Msg { return ReportSubmittedMsg{Request: req} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func parseCoordinate(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalCoordinate(min, max float64) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("must be a decimal number")
		}
		if v < min || v > max {
			return fmt.Errorf("must be between %g and %g", min, max)
		}
		return nil
	}
}
