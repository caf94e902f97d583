package authform

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/cityconnect/cityconnect/internal/api"
	"github.com/cityconnect/cityconnect/internal/model"
	"github.com/cityconnect/cityconnect/internal/theme"
)

// LoginSubmittedMsg is dispatched when the login form completes.
type LoginSubmittedMsg struct {
	Email    string
	Password string
}

// RegisterSubmittedMsg is dispatched when the registration form completes.
type RegisterSubmittedMsg struct {
	Request api.RegisterRequest
}

// SwitchMsg asks the parent to swap between the login and register forms.
type SwitchMsg struct {
	ToRegister bool
}

// Mode selects which of the two forms is shown.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
)

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email    string
	password string
	confirm  string
	name     string
	role     model.Role
}

// Model is the Bubble Tea model for the login and registration forms.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	mode   Mode
	errMsg string
	width  int
	height int
}

// New creates a new auth form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{role: model.RoleCitizen},
		width:  width,
		height: height,
	}
}

// StartLogin initializes the login form. A previously entered email is
// kept so a failed attempt does not force retyping it.
func (m *Model) StartLogin() tea.Cmd {
	m.mode = ModeLogin
	m.fb.password = ""
	m.form = m.buildLoginForm()
	return m.form.Init()
}

// StartRegister initializes the registration form.
func (m *Model) StartRegister() tea.Cmd {
	m.mode = ModeRegister
	m.fb.password = ""
	m.fb.confirm = ""
	m.form = m.buildRegisterForm()
	return m.form.Init()
}

// Mode returns the active form mode.
func (m Model) Mode() Mode { return m.mode }

// SetError records a submission failure and restarts the current form.
func (m *Model) SetError(err error) tea.Cmd {
	if err != nil {
		m.errMsg = err.Error()
	}
	if m.mode == ModeRegister {
		return m.StartRegister()
	}
	return m.StartLogin()
}

// Update handles messages for the auth forms.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	// Swap between the two forms from any field.
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+r" {
		toRegister := m.mode == ModeLogin
		return m, func() tea.Msg { return SwitchMsg{ToRegister: toRegister} }
	}

	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if m.mode == ModeRegister && m.fb.password != m.fb.confirm {
			m.errMsg = "passwords do not match"
			return m, m.StartRegister()
		}
		m.errMsg = ""
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		// Aborting registration returns to login; aborting login does
		// nothing, the session is required.
		if m.mode == ModeRegister {
			return m, func() tea.Msg { return SwitchMsg{ToRegister: false} }
		}
		return m, m.StartLogin()
	}

	return m, cmd
}

// View renders the active auth form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "Sign in to CityConnect"
	hint := "ctrl+r: create an account"
	if m.mode == ModeRegister {
		titleText = "Create a CityConnect account"
		hint = "ctrl+r or esc: back to sign in"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	sections := []string{titleStyle.Render(titleText)}
	if m.errMsg != "" {
		sections = append(sections, theme.ErrorBarStyle.Render(m.errMsg))
	}
	sections = append(sections, m.form.View(), theme.HelpStyle.Render(hint))

	content := strings.Join(sections, "\n")

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildLoginForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validateRequired("Password")),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) buildRegisterForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Full name").
				Value(&m.fb.name).
				Validate(validateRequired("Name")),
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.fb.email).
				Validate(validateEmail),
			huh.NewSelect[model.Role]().
				Title("Account type").
				Options(
					huh.NewOption(model.RoleCitizen.Label(), model.RoleCitizen),
					huh.NewOption(model.RoleAdminSanitation.Label(), model.RoleAdminSanitation),
					huh.NewOption(model.RoleAdminHealth.Label(), model.RoleAdminHealth),
					huh.NewOption(model.RoleAdminInfrastructure.Label(), model.RoleAdminInfrastructure),
				).
				Value(&m.fb.role),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(validatePassword),
			huh.NewInput().
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	if m.mode == ModeLogin {
		email := strings.TrimSpace(m.fb.email)
		password := m.fb.password
		return func() tea.Msg {
			return LoginSubmittedMsg{Email: email, Password: password}
		}
	}

	req := api.RegisterRequest{
		Email:    strings.TrimSpace(m.fb.email),
		Password: m.fb.password,
		Name:     strings.TrimSpace(m.fb.name),
		Role:     m.fb.role,
	}
	return func() tea.Msg { return RegisterSubmittedMsg{Request: req} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 6
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("Email is required")
	}
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return fmt.Errorf("enter a valid email address")
	}
	return nil
}

func validatePassword(s string) error {
	if len(s) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}
