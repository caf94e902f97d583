// Package app wires the views, the session, and the notification relay
// into the root Bubble Tea model.
package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cityconnect/cityconnect/internal/api"
	"github.com/cityconnect/cityconnect/internal/cache"
	"github.com/cityconnect/cityconnect/internal/keys"
	"github.com/cityconnect/cityconnect/internal/model"
	"github.com/cityconnect/cityconnect/internal/session"
	"github.com/cityconnect/cityconnect/internal/stream"
	"github.com/cityconnect/cityconnect/internal/theme"
	"github.com/cityconnect/cityconnect/internal/ui"
	"github.com/cityconnect/cityconnect/internal/ui/authform"
	"github.com/cityconnect/cityconnect/internal/ui/command"
	"github.com/cityconnect/cityconnect/internal/ui/detail"
	"github.com/cityconnect/cityconnect/internal/ui/helpview"
	"github.com/cityconnect/cityconnect/internal/ui/notifpanel"
	"github.com/cityconnect/cityconnect/internal/ui/reportform"
	"github.com/cityconnect/cityconnect/internal/ui/reportlist"
	"github.com/cityconnect/cityconnect/internal/ui/statusform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewRegister
	ViewBrowse
	ViewMine
	ViewAll
	ViewDetail
	ViewReportForm
	ViewStatusForm
	ViewNotifications
	ViewHelp
	ViewCommand
)

// Model is the root Bubble Tea model that manages view routing, layout,
// the session, and the notification relay.
type Model struct {
	currentView  ViewState
	previousView ViewState

	// listView remembers which listing the detail view returns to.
	listView ViewState

	layout  ui.Layout
	keys    *keys.KeyMap
	client  *api.Client
	session *session.Store
	relay   *stream.Relay
	cache   *cache.Cache

	authView    authform.Model
	browseList  reportlist.Model
	mineList    reportlist.Model
	allList     reportlist.Model
	detailView  detail.Model
	reportForm  reportform.Model
	statusForm  statusform.Model
	notifPanel  notifpanel.Model
	helpView    helpview.Model
	commandView command.Model

	categories []model.Category
	errMsg     string
	statusMsg  string
	ready      bool
}

// New creates the root application model.
func New(client *api.Client, sess *session.Store, relay *stream.Relay, store *cache.Cache) Model {
	k := keys.DefaultKeyMap()

	return Model{
		currentView: ViewLogin,
		listView:    ViewBrowse,
		keys:        k,
		client:      client,
		session:     sess,
		relay:       relay,
		cache:       store,
		authView:    authform.New(80, 24),
		browseList:  reportlist.New("Public Reports", k, 80, 24),
		mineList:    reportlist.New("My Reports", k, 80, 24),
		allList:     reportlist.New("All Reports", k, 80, 24),
		detailView:  detail.New(k, 80, 24),
		reportForm:  reportform.New(80, 24),
		statusForm:  statusform.New(80, 24),
		notifPanel:  notifpanel.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
	}
}

// Init revalidates any stored token before showing the first view.
func (m Model) Init() tea.Cmd {
	return m.loadSession()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.authView.SetSize(w, h)
		m.browseList.SetSize(w, h)
		m.mineList.SetSize(w, h)
		m.allList.SetSize(w, h)
		m.detailView.SetSize(w, h)
		m.reportForm.SetSize(w, h)
		m.statusForm.SetSize(w, h)
		m.notifPanel.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		// Forward to the active view so huh forms can lay themselves out.
		return m.updateActiveView(msg)

	case tea.FocusMsg:
		m.relay.SetFocused(true)
		return m, nil

	case tea.BlurMsg:
		m.relay.SetFocused(false)
		return m, nil

	case sessionLoadedMsg:
		if m.session.Authenticated() {
			return m.enterSession()
		}
		m.currentView = ViewLogin
		return m, m.authView.StartLogin()

	case authform.LoginSubmittedMsg:
		return m, m.login(msg.Email, msg.Password)

	case authform.RegisterSubmittedMsg:
		return m, m.register(msg.Request)

	case authform.SwitchMsg:
		if msg.ToRegister {
			m.currentView = ViewRegister
			return m, m.authView.StartRegister()
		}
		m.currentView = ViewLogin
		return m, m.authView.StartLogin()

	case loginResultMsg:
		if msg.err != nil {
			return m, m.authView.SetError(msg.err)
		}
		m.statusMsg = fmt.Sprintf("signed in as %s", msg.user.Name)
		return m.enterSession()

	case registerResultMsg:
		if msg.err != nil {
			return m, m.authView.SetError(msg.err)
		}
		m.currentView = ViewLogin
		m.statusMsg = "account created, sign in to continue"
		return m, m.authView.StartLogin()

	case stream.SeededMsg:
		if msg.Err != nil {
			m.statusMsg = "notifications unavailable, showing cached"
			return m, tea.Batch(m.relay.WaitForEvent(), m.loadCachedNotifications())
		}
		m.notifPanel.SetNotifications(m.relay.Notifications())
		return m, tea.Batch(m.relay.WaitForEvent(), m.mirrorNotifications())

	case cachedNotificationsMsg:
		m.relay.SeedCached(msg.notifications)
		m.notifPanel.SetNotifications(m.relay.Notifications())
		return m, nil

	case stream.EventMsg:
		m.notifPanel.SetNotifications(m.relay.Notifications())
		return m, tea.Batch(m.relay.WaitForEvent(), m.mirrorNotifications())

	case stream.ClosedMsg:
		if msg.Err != nil {
			m.statusMsg = "notification stream disconnected"
		}
		return m, nil

	case stream.ReadResultMsg:
		m.notifPanel.SetNotifications(m.relay.Notifications())
		return m, m.mirrorNotifications()

	case reportsFetchedMsg:
		return m.applyReportsFetched(msg)

	case categoriesLoadedMsg:
		if msg.err != nil {
			return m, nil
		}
		m.categories = msg.categories
		m.browseList.SetCategories(msg.categories)
		m.mineList.SetCategories(msg.categories)
		m.allList.SetCategories(msg.categories)
		m.reportForm.SetCategories(msg.categories)
		return m, nil

	case reportlist.SelectedReportMsg:
		m.listView = m.currentView
		m.currentView = ViewDetail
		m.detailView.SetAdmin(m.session.IsAdmin())
		m.detailView.SetLoading(true)
		return m, m.loadReportDetail(msg.Report.ID)

	case notifpanel.OpenReportMsg:
		m.currentView = ViewDetail
		m.detailView.SetAdmin(m.session.IsAdmin())
		m.detailView.SetLoading(true)
		return m, m.loadReportDetail(msg.ReportID)

	case reportlist.FilterChangedMsg:
		if m.isListView(m.currentView) {
			return m, m.loadReports(m.currentView, msg.Search, msg.CategoryID)
		}
		return m, nil

	case reportFetchedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.detailView.SetLoading(false)
			m.currentView = m.listView
			return m, nil
		}
		m.detailView.SetReport(*msg.report, msg.userVote)
		return m, nil

	case detail.BackMsg:
		m.currentView = m.listView
		return m, nil

	case detail.VoteRequestMsg:
		if !m.session.Authenticated() {
			m.statusMsg = "sign in to vote"
			return m, nil
		}
		return m, m.toggleVote(msg.ReportID, msg.UserVote, msg.VoteType)

	case voteResultMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.detailView.ApplyVote(msg.resp.VoteScore, msg.resp.UserVoteType)
		return m, nil

	case detail.StatusRequestMsg:
		m.previousView = m.currentView
		m.currentView = ViewStatusForm
		return m, m.statusForm.Start(msg.Report)

	case statusform.StatusSubmittedMsg:
		m.currentView = ViewDetail
		return m, m.updateStatus(msg.ReportID, msg.Status)

	case statusform.CancelMsg:
		m.currentView = ViewDetail
		return m, nil

	case statusUpdatedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.statusMsg = "status updated"
		m.detailView.SetLoading(true)
		return m, m.loadReportDetail(msg.reportID)

	case reportform.ReportSubmittedMsg:
		return m, m.createReport(msg.Request)

	case reportform.CancelMsg:
		m.currentView = m.listView
		return m, nil

	case reportCreatedMsg:
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			m.currentView = m.listView
			return m, nil
		}
		m.statusMsg = "report filed"
		m.currentView = ViewMine
		m.listView = ViewMine
		return m, tea.Batch(
			m.loadReports(ViewMine, m.mineList.Search(), m.mineList.CategoryID()),
			m.loadCategories(),
		)

	case notifpanel.BackMsg:
		m.currentView = m.listView
		return m, nil

	case notifpanel.MarkReadRequestMsg:
		return m, m.relay.MarkRead(msg.ID)

	case notifpanel.MarkAllReadRequestMsg:
		return m, m.relay.MarkAllRead()

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(string(msg))

	case tea.KeyMsg:
		if handled, mdl, cmd := m.handleGlobalKey(msg); handled {
			return mdl, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work regardless of the active
// view. Views with text input (forms, search, palette) keep their keys.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (bool, tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.relay.Stop()
		return true, m, tea.Quit
	}

	if m.hasTextInput() {
		return false, m, nil
	}

	m.errMsg = ""

	switch msg.String() {
	case "q":
		if m.isListView(m.currentView) {
			m.relay.Stop()
			return true, m, tea.Quit
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return true, m, nil

	case ":":
		if m.currentView == ViewCommand {
			m.currentView = m.previousView
			return true, m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return true, m, m.commandView.Focus()

	case "1":
		cmd := m.switchList(ViewBrowse)
		return true, m, cmd

	case "2":
		if !m.requireAuth() {
			return true, m, nil
		}
		cmd := m.switchList(ViewMine)
		return true, m, cmd

	case "3":
		if !m.session.IsAdmin() {
			m.statusMsg = "admin access required"
			return true, m, nil
		}
		cmd := m.switchList(ViewAll)
		return true, m, cmd

	case "b":
		if !m.requireAuth() {
			return true, m, nil
		}
		if m.currentView == ViewNotifications {
			m.currentView = m.listView
			return true, m, nil
		}
		m.currentView = ViewNotifications
		m.notifPanel.SetNotifications(m.relay.Notifications())
		return true, m, nil

	case "n":
		if !m.requireAuth() {
			return true, m, nil
		}
		if m.isListView(m.currentView) {
			m.currentView = ViewReportForm
			return true, m, m.reportForm.Start()
		}

	case "r":
		if m.isListView(m.currentView) {
			list := m.activeList()
			return true, m, tea.Batch(
				m.loadReports(m.currentView, list.Search(), list.CategoryID()),
				m.loadCategories(),
			)
		}

	case "L":
		if m.session.Authenticated() {
			return m.logout()
		}
	}

	return false, m, nil
}

// enterSession moves to the browse view and brings up the session-wide
// machinery: the notification relay and the shared category set.
func (m Model) enterSession() (tea.Model, tea.Cmd) {
	m.currentView = ViewBrowse
	m.listView = ViewBrowse
	return m, tea.Batch(
		m.relay.Start(m.session.Token()),
		m.loadCategories(),
		m.loadReports(ViewBrowse, "", 0),
	)
}

// logout tears the session down and returns to the login form.
func (m Model) logout() (bool, tea.Model, tea.Cmd) {
	m.relay.Stop()
	m.session.Logout()
	m.notifPanel.SetNotifications(nil)
	m.currentView = ViewLogin
	m.listView = ViewBrowse
	m.statusMsg = "signed out"
	return true, m, m.authView.StartLogin()
}

// switchList activates one of the three listings and refreshes it.
func (m *Model) switchList(view ViewState) tea.Cmd {
	if !m.isListView(m.currentView) && m.currentView != ViewNotifications {
		return nil
	}
	m.currentView = view
	m.listView = view
	list := m.activeList()
	return m.loadReports(view, list.Search(), list.CategoryID())
}

// requireAuth nudges anonymous users toward the login form.
func (m *Model) requireAuth() bool {
	if m.session.Authenticated() {
		return true
	}
	m.statusMsg = "sign in required"
	m.currentView = ViewLogin
	return false
}

// applyReportsFetched routes a fetched listing into the right list view.
func (m Model) applyReportsFetched(msg reportsFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.errMsg = msg.err.Error()
		return m, nil
	}

	loaded := reportlist.ReportsLoadedMsg{
		Reports:   msg.reports,
		FromCache: msg.fromCache,
	}
	if msg.fromCache {
		m.statusMsg = "backend unreachable, showing cached reports"
	}

	var cmd tea.Cmd
	switch msg.view {
	case ViewMine:
		m.mineList, cmd = m.mineList.Update(loaded)
	case ViewAll:
		m.allList, cmd = m.allList.Update(loaded)
	default:
		m.browseList, cmd = m.browseList.Update(loaded)
	}
	return m, cmd
}

// executeCommand handles a command string from the command palette.
func (m Model) executeCommand(cmd string) (tea.Model, tea.Cmd) {
	switch cmd {
	case "browse", "public":
		c := m.switchList(ViewBrowse)
		return m, c
	case "mine", "my":
		if !m.requireAuth() {
			return m, nil
		}
		c := m.switchList(ViewMine)
		return m, c
	case "all":
		if !m.session.IsAdmin() {
			m.statusMsg = "admin access required"
			return m, nil
		}
		c := m.switchList(ViewAll)
		return m, c
	case "notifications", "inbox":
		if !m.requireAuth() {
			return m, nil
		}
		m.currentView = ViewNotifications
		m.notifPanel.SetNotifications(m.relay.Notifications())
		return m, nil
	case "new", "report":
		if !m.requireAuth() {
			return m, nil
		}
		m.currentView = ViewReportForm
		return m, m.reportForm.Start()
	case "refresh":
		if m.isListView(m.currentView) {
			list := m.activeList()
			return m, m.loadReports(m.currentView, list.Search(), list.CategoryID())
		}
		return m, nil
	case "read all":
		return m, m.relay.MarkAllRead()
	case "logout":
		if m.session.Authenticated() {
			_, mdl, c := m.logout()
			return mdl, c
		}
		return m, nil
	case "quit", "q":
		m.relay.Stop()
		return m, tea.Quit
	default:
		m.statusMsg = fmt.Sprintf("unknown command: %s", cmd)
		return m, nil
	}
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin, ViewRegister:
		m.authView, cmd = m.authView.Update(msg)
	case ViewBrowse:
		m.browseList, cmd = m.browseList.Update(msg)
	case ViewMine:
		m.mineList, cmd = m.mineList.Update(msg)
	case ViewAll:
		m.allList, cmd = m.allList.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewReportForm:
		m.reportForm, cmd = m.reportForm.Update(msg)
	case ViewStatusForm:
		m.statusForm, cmd = m.statusForm.Update(msg)
	case ViewNotifications:
		m.notifPanel, cmd = m.notifPanel.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// hasTextInput reports whether the active view owns the keyboard.
func (m Model) hasTextInput() bool {
	switch m.currentView {
	case ViewLogin, ViewRegister, ViewReportForm, ViewStatusForm, ViewCommand:
		return true
	}
	return m.isListView(m.currentView) && m.activeList().Searching()
}

// isListView reports whether the view is one of the three listings.
func (m Model) isListView(v ViewState) bool {
	return v == ViewBrowse || v == ViewMine || v == ViewAll
}

// activeList returns the listing backing the current (or last) list view.
func (m Model) activeList() *reportlist.Model {
	switch m.listView {
	case ViewMine:
		return &m.mineList
	case ViewAll:
		return &m.allList
	default:
		return &m.browseList
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := "CityConnect"
	if unread := m.relay.UnreadCount(); unread > 0 {
		title = fmt.Sprintf("CityConnect [%d new]", unread)
	}
	header := m.layout.RenderHeader(title, m.sessionSegment())
	content := m.renderContent()
	statusBar := m.renderStatusBar()

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// sessionSegment describes the signed-in identity for the header.
func (m Model) sessionSegment() string {
	user := m.session.User()
	if user == nil {
		return "anonymous"
	}
	return fmt.Sprintf("%s (%s)", user.Name, user.Role.Label())
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewLogin, ViewRegister:
		return m.authView.View()
	case ViewBrowse:
		return m.browseList.View()
	case ViewMine:
		return m.mineList.View()
	case ViewAll:
		return m.allList.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewReportForm:
		return m.reportForm.View()
	case ViewStatusForm:
		return m.statusForm.View()
	case ViewNotifications:
		return m.notifPanel.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	default:
		return ""
	}
}

// renderStatusBar picks the most urgent line for the bottom bar.
func (m Model) renderStatusBar() string {
	if m.errMsg != "" {
		return theme.ErrorBarStyle.Render(m.errMsg)
	}
	if m.statusMsg != "" {
		return m.layout.RenderStatusBar(m.statusMsg)
	}
	return m.layout.RenderStatusBar(m.keyHints())
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewLogin, ViewRegister:
		return "enter submit | ctrl+r switch form | ctrl+c quit"
	case ViewHelp:
		return "? close help"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewDetail:
		return "esc back | u upvote | d downvote | j/k scroll"
	case ViewReportForm, ViewStatusForm:
		return "enter submit | esc cancel"
	case ViewNotifications:
		return "enter open & mark read | A mark all read | esc back"
	default:
		if summary := m.activeList().FilterSummary(); summary != "" {
			return summary
		}
		return "q quit | ? help | / search | f filter | n new | b notifications | 1/2/3 views"
	}
}
