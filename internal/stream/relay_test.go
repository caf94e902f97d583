package stream

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityconnect/cityconnect/internal/api"
	"github.com/cityconnect/cityconnect/internal/model"
)

// recordingNotifier captures desktop pushes for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	pushes []string
}

func (n *recordingNotifier) Push(title, message, tag string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pushes = append(n.pushes, title)
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pushes)
}

func newTestRelay() (*Relay, *recordingNotifier) {
	notifier := &recordingNotifier{}
	client := api.NewClient("http://localhost:0", time.Second)
	return New(client, notifier), notifier
}

func notif(id string, read bool) model.Notification {
	return model.Notification{
		ID:      id,
		Title:   "title " + id,
		Message: "message " + id,
		IsRead:  read,
	}
}

func TestApplyPrependsInArrivalOrder(t *testing.T) {
	r, _ := newTestRelay()

	r.apply(notif("n1", false))
	r.apply(notif("n2", false))
	r.apply(notif("n3", false))

	got := r.Notifications()
	require.Len(t, got, 3)
	assert.Equal(t, "n3", got[0].ID)
	assert.Equal(t, "n2", got[1].ID)
	assert.Equal(t, "n1", got[2].ID)
	assert.Equal(t, 3, r.UnreadCount())
}

func TestApplyForwardsToDesktopOnlyWhenUnfocused(t *testing.T) {
	r, notifier := newTestRelay()

	r.SetFocused(true)
	r.apply(notif("n1", false))
	assert.Equal(t, 0, notifier.count())

	r.SetFocused(false)
	r.apply(notif("n2", false))
	assert.Equal(t, 1, notifier.count())
}

func TestMarkReadLocalIsMonotonic(t *testing.T) {
	r, _ := newTestRelay()
	r.apply(notif("n1", false))
	r.apply(notif("n2", false))

	r.markReadLocal("n1")
	assert.Equal(t, 1, r.UnreadCount())

	// Marking the same notification again must not touch the counter.
	r.markReadLocal("n1")
	assert.Equal(t, 1, r.UnreadCount())

	got := r.Notifications()
	for _, n := range got {
		if n.ID == "n1" {
			assert.True(t, n.IsRead)
		}
	}
}

func TestMarkReadLocalCounterNeverNegative(t *testing.T) {
	r, _ := newTestRelay()
	r.seed(&model.NotificationListResponse{
		Notifications: []model.Notification{notif("n1", false)},
		UnreadCount:   0,
	})

	r.markReadLocal("n1")
	assert.Equal(t, 0, r.UnreadCount())
}

func TestMarkAllReadLocalIsIdempotent(t *testing.T) {
	r, _ := newTestRelay()
	r.apply(notif("n1", false))
	r.apply(notif("n2", true))

	r.markAllReadLocal()
	assert.Equal(t, 0, r.UnreadCount())
	for _, n := range r.Notifications() {
		assert.True(t, n.IsRead)
	}

	r.markAllReadLocal()
	assert.Equal(t, 0, r.UnreadCount())
}

func TestSeedCachedPrimesEmptyRelay(t *testing.T) {
	r, _ := newTestRelay()

	r.SeedCached([]model.Notification{
		notif("n2", false),
		notif("n1", true),
	})

	got := r.Notifications()
	require.Len(t, got, 2)
	assert.Equal(t, "n2", got[0].ID)

	// The counter is rebuilt from the stored read flags.
	assert.Equal(t, 1, r.UnreadCount())

	// Live events keep prepending on top of the cached list.
	r.apply(notif("n3", false))
	got = r.Notifications()
	assert.Equal(t, "n3", got[0].ID)
	assert.Equal(t, 2, r.UnreadCount())
}

func TestSeedCachedDoesNotOverwriteServerState(t *testing.T) {
	r, _ := newTestRelay()
	r.seed(&model.NotificationListResponse{
		Notifications: []model.Notification{notif("server1", false)},
		UnreadCount:   1,
	})

	r.SeedCached([]model.Notification{notif("stale1", false)})

	got := r.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, "server1", got[0].ID)
	assert.Equal(t, 1, r.UnreadCount())
}

func TestSeedClampsNegativeUnread(t *testing.T) {
	r, _ := newTestRelay()
	r.seed(&model.NotificationListResponse{UnreadCount: -4})

	assert.Equal(t, 0, r.UnreadCount())
}

func TestHandleFrameDropsMalformedAndForeignEvents(t *testing.T) {
	r, _ := newTestRelay()

	r.handleFrame(serverEvent{name: "connected", data: `{"status":"ok"}`})
	assert.Empty(t, r.Notifications())

	r.handleFrame(serverEvent{name: "notification", data: `{bad json`})
	assert.Empty(t, r.Notifications())
	assert.Equal(t, 0, r.UnreadCount())

	r.handleFrame(serverEvent{name: "notification", data: `{"id":"n1","title":"ok"}`})
	require.Len(t, r.Notifications(), 1)
	assert.Equal(t, 1, r.UnreadCount())
}

func TestRelayEndToEnd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/notifications", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"notifications": [
				{"id":"old1","title":"seeded","is_read":false}
			],
			"unread_count": 1
		}`)
	})
	mux.HandleFunc("/api/v1/notifications/stream", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tok", r.URL.Query().Get("token"))
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)

		fmt.Fprint(w, "event: connected\ndata: {}\n\n")
		fmt.Fprint(w, "event: notification\ndata: {broken\n\n")
		fmt.Fprint(w, "event: notification\ndata: {\"id\":\"live1\",\"title\":\"fresh\"}\n\n")
		flusher.Flush()
	})

	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := api.NewClient(srv.URL, 5*time.Second)
	r := New(client, &recordingNotifier{})
	defer r.Stop()

	cmd := r.Start("tok")
	require.NotNil(t, cmd)

	seeded, ok := cmd().(SeededMsg)
	require.True(t, ok)
	require.NoError(t, seeded.Err)
	assert.Equal(t, 1, r.UnreadCount())

	event, ok := r.WaitForEvent()().(EventMsg)
	require.True(t, ok)
	assert.Equal(t, "live1", event.Notification.ID)

	// The malformed frame was dropped; the stream delivered one event.
	got := r.Notifications()
	require.Len(t, got, 2)
	assert.Equal(t, "live1", got[0].ID)
	assert.Equal(t, "old1", got[1].ID)
	assert.Equal(t, 2, r.UnreadCount())

	// The handler returned, so the connection closes without reconnect.
	_, ok = r.WaitForEvent()().(ClosedMsg)
	assert.True(t, ok)

	// The relay is still marked running until Stop, so Start is a no-op.
	assert.Nil(t, r.Start("tok"))
}
