package app

import (
	"context"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cityconnect/cityconnect/internal/api"
	"github.com/cityconnect/cityconnect/internal/cache"
	"github.com/cityconnect/cityconnect/internal/model"
)

// sessionLoadedMsg signals that startup token revalidation finished.
type sessionLoadedMsg struct{}

// loginResultMsg carries the outcome of a login attempt.
type loginResultMsg struct {
	user *model.User
	err  error
}

// registerResultMsg carries the outcome of a registration attempt.
type registerResultMsg struct {
	err error
}

// reportsFetchedMsg carries a fetched report listing for one view.
type reportsFetchedMsg struct {
	view      ViewState
	reports   []model.Report
	fromCache bool
	err       error
}

// categoriesLoadedMsg carries the category set for filters and forms.
type categoriesLoadedMsg struct {
	categories []model.Category
	err        error
}

// reportFetchedMsg carries a fetched report detail and the caller's vote.
type reportFetchedMsg struct {
	report   *model.Report
	userVote *model.VoteType
	err      error
}

// reportCreatedMsg carries the outcome of filing a report.
type reportCreatedMsg struct {
	report *model.Report
	err    error
}

// voteResultMsg carries the score and vote state after a vote round trip.
type voteResultMsg struct {
	resp *model.VoteResponse
	err  error
}

// statusUpdatedMsg carries the outcome of an admin status change.
type statusUpdatedMsg struct {
	reportID string
	err      error
}

// loadSession revalidates any stored token before the first render.
func (m Model) loadSession() tea.Cmd {
	s := m.session
	return func() tea.Msg {
		s.Load(context.Background())
		return sessionLoadedMsg{}
	}
}

// login exchanges credentials for a session.
func (m Model) login(email, password string) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		user, err := s.Login(context.Background(), email, password)
		return loginResultMsg{user: user, err: err}
	}
}

// register creates a new account. It does not sign the user in.
func (m Model) register(req api.RegisterRequest) tea.Cmd {
	s := m.session
	return func() tea.Msg {
		err := s.Register(context.Background(), req.Email, req.Password, req.Name, req.Role)
		return registerResultMsg{err: err}
	}
}

// loadReports fetches the listing backing the given view. On a gateway
// failure the local cache serves a stale copy; fresh results are
// mirrored back into it.
func (m Model) loadReports(view ViewState, search string, categoryID int) tea.Cmd {
	client := m.client
	store := m.cache
	filter := api.ReportFilter{Search: search, CategoryID: categoryID}

	return func() tea.Msg {
		ctx := context.Background()

		var (
			resp *model.ReportListResponse
			err  error
		)
		switch view {
		case ViewMine:
			resp, err = client.MyReports(ctx, filter)
		case ViewAll:
			resp, err = client.Reports(ctx)
		default:
			resp, err = client.PublicReports(ctx, filter)
		}

		if err == nil {
			mirrorReports(ctx, store, view, resp.Reports)
			return reportsFetchedMsg{view: view, reports: resp.Reports}
		}

		cached, cacheErr := cachedReports(ctx, store, view, search, categoryID)
		if cacheErr != nil || cached == nil {
			return reportsFetchedMsg{view: view, err: err}
		}
		return reportsFetchedMsg{view: view, reports: cached, fromCache: true}
	}
}

// mirrorReports writes a fresh listing into the read cache. Cache
// failures never surface; the listing already rendered from the network.
func mirrorReports(ctx context.Context, store *cache.Cache, view ViewState, reports []model.Report) {
	if store == nil || view == ViewAll {
		return
	}
	if err := store.UpsertReports(ctx, reports, view == ViewMine); err != nil {
		log.Printf("app: mirroring reports: %v", err)
	}
}

// cachedReports reads a stale listing for offline display. The admin
// listing has no cached counterpart.
func cachedReports(ctx context.Context, store *cache.Cache, view ViewState, search string, categoryID int) ([]model.Report, error) {
	if store == nil || view == ViewAll {
		return nil, nil
	}
	mine := view == ViewMine
	return store.GetReports(ctx, cache.ReportFilter{
		Mine:       &mine,
		Query:      search,
		CategoryID: categoryID,
	})
}

// loadCategories fetches the category set for filters and the report form.
func (m Model) loadCategories() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		categories, err := client.Categories(context.Background())
		return categoriesLoadedMsg{categories: categories, err: err}
	}
}

// loadReportDetail fetches one report and, for signed-in users on
// voteable reports, their active vote.
func (m Model) loadReportDetail(id string) tea.Cmd {
	client := m.client
	authenticated := m.session.Authenticated()

	return func() tea.Msg {
		ctx := context.Background()

		report, err := client.Report(ctx, id)
		if err != nil {
			return reportFetchedMsg{err: err}
		}

		var userVote *model.VoteType
		if authenticated && report.PrivacyLevel != model.PrivacyPrivate {
			vote, voteErr := client.Vote(ctx, id)
			if voteErr != nil {
				// The detail still renders; only the vote marker is lost.
				log.Printf("app: fetching vote state: %v", voteErr)
			} else {
				userVote = vote.UserVoteType
			}
		}

		return reportFetchedMsg{report: report, userVote: userVote}
	}
}

// createReport files a new report.
func (m Model) createReport(req model.CreateReportRequest) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		report, err := client.CreateReport(context.Background(), req)
		return reportCreatedMsg{report: report, err: err}
	}
}

// toggleVote casts, replaces, or removes a vote.
func (m Model) toggleVote(reportID string, current *model.VoteType, requested model.VoteType) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		resp, err := client.ToggleVote(context.Background(), reportID, current, requested)
		return voteResultMsg{resp: resp, err: err}
	}
}

// updateStatus moves a report to a new triage status (admin only).
func (m Model) updateStatus(reportID string, status model.ReportStatus) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		err := client.UpdateReportStatus(context.Background(), reportID, status)
		return statusUpdatedMsg{reportID: reportID, err: err}
	}
}

// cachedNotificationsMsg carries the offline notification mirror, read
// back when the snapshot fetch fails.
type cachedNotificationsMsg struct {
	notifications []model.Notification
}

// loadCachedNotifications reads the notification mirror so the bell
// panel stays browsable while the backend is unreachable.
func (m Model) loadCachedNotifications() tea.Cmd {
	store := m.cache
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		notifications, err := store.GetNotifications(context.Background())
		if err != nil {
			log.Printf("app: reading cached notifications: %v", err)
			return nil
		}
		return cachedNotificationsMsg{notifications: notifications}
	}
}

// mirrorNotifications copies the relay's notification list into the
// read cache in the background.
func (m Model) mirrorNotifications() tea.Cmd {
	store := m.cache
	relay := m.relay
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		err := store.UpsertNotifications(context.Background(), relay.Notifications())
		if err != nil {
			log.Printf("app: mirroring notifications: %v", err)
		}
		return nil
	}
}
