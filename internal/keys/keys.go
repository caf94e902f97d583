package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Search
	Search key.Binding

	// Command palette
	Command key.Binding

	// Help toggle
	Help key.Binding

	// Manual refresh
	Refresh key.Binding

	// View switching
	Browse        key.Binding
	Mine          key.Binding
	AllReports    key.Binding
	Notifications key.Binding

	// Report actions
	NewReport key.Binding
	Upvote    key.Binding
	Downvote  key.Binding
	SetStatus key.Binding

	// Category filter
	CycleCategory key.Binding

	// Notification actions
	MarkAllRead key.Binding

	// Session
	Logout key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open detail"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Command: key.NewBinding(
			key.WithKeys(":"),
			key.WithHelp(":", "command palette"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Browse: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "public reports"),
		),
		Mine: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "my reports"),
		),
		AllReports: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "all reports (admin)"),
		),
		Notifications: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "notifications"),
		),
		NewReport: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new report"),
		),
		Upvote: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upvote"),
		),
		Downvote: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "downvote"),
		),
		SetStatus: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "set status"),
		),
		CycleCategory: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "cycle category filter"),
		),
		MarkAllRead: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "mark all read"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "log out"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Quit, k.Help, k.Search,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Search, k.Command, k.Help, k.Refresh},
		{k.Browse, k.Mine, k.AllReports, k.Notifications},
		{k.NewReport, k.Upvote, k.Downvote, k.SetStatus},
		{k.CycleCategory, k.MarkAllRead, k.Logout},
	}
}
