// Package stream is the notification relay: it turns server-pushed
// events into local notification state and platform alerts. One live
// event-stream connection exists per authenticated session; inbound
// events are prepended to an in-memory list in arrival order and
// mirrored to the desktop notifier when the terminal is not focused.
package stream

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cityconnect/cityconnect/internal/api"
	"github.com/cityconnect/cityconnect/internal/model"
	"github.com/cityconnect/cityconnect/internal/notify"
)

// SeededMsg is sent after the snapshot fetch has primed the relay.
type SeededMsg struct {
	Err error
}

// EventMsg is sent for each streamed notification applied to the list.
type EventMsg struct {
	Notification model.Notification
}

// ClosedMsg is sent when the stream connection terminates. The relay
// does not reconnect; it stays silent until the session ends or the
// program restarts.
type ClosedMsg struct {
	Err error
}

// ReadResultMsg is sent after a mark-read or mark-all-read attempt.
// Backend rejections are logged, never surfaced, so the message carries
// no error.
type ReadResultMsg struct{}

// eventName is the SSE event carrying a notification payload. The
// stream also emits a "connected" handshake, which is ignored.
const eventName = "notification"

// Relay owns the notification list and unread counter for the current
// session. All mutation goes through its own operations; the stream
// goroutine and the UI share it under one mutex.
type Relay struct {
	client   *api.Client
	notifier notify.Notifier

	// msgCh hands stream results to the Bubble Tea runtime via
	// WaitForEvent commands.
	msgCh chan tea.Msg

	mu            sync.Mutex
	notifications []model.Notification
	unread        int
	focused       bool
	running       bool
	cancel        context.CancelFunc
}

// New creates a disconnected relay.
func New(client *api.Client, notifier notify.Notifier) *Relay {
	return &Relay{
		client:   client,
		notifier: notifier,
		msgCh:    make(chan tea.Msg, 16),
		// Assume focused until the runtime reports otherwise, so a
		// burst right after startup does not spam the desktop.
		focused: true,
	}
}

// Start fetches the snapshot, opens the live stream, and returns a
// command that waits for relay messages. Calling Start while a stream
// is already open is a no-op.
func (r *Relay) Start(token string) tea.Cmd {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = true
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.mu.Unlock()

	go r.run(ctx, token)

	return r.WaitForEvent()
}

// Stop closes the live connection and resets the relay to disconnected.
// Idempotent; called on logout and on program teardown.
func (r *Relay) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running {
		return
	}
	r.cancel()
	r.running = false
	r.notifications = nil
	r.unread = 0
}

// WaitForEvent returns a command that blocks until the relay produces
// the next message. The app re-arms it after each relay message.
func (r *Relay) WaitForEvent() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-r.msgCh
		if !ok {
			return nil
		}
		return msg
	}
}

// run seeds state from the snapshot endpoint and then consumes the
// live stream until the connection drops or ctx is canceled.
func (r *Relay) run(ctx context.Context, token string) {
	snapshot, err := r.client.Notifications(ctx)
	if err != nil {
		log.Printf("relay: snapshot fetch failed: %v", err)
		r.send(SeededMsg{Err: err})
	} else {
		r.seed(snapshot)
		r.send(SeededMsg{})
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, r.client.NotificationStreamURL(token), nil,
	)
	if err != nil {
		r.send(ClosedMsg{Err: err})
		return
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// The stream outlives any request timeout, so it uses a transport
	// without one. Cancellation rides on ctx instead.
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("relay: stream connect failed: %v", err)
		r.send(ClosedMsg{Err: err})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("relay: stream rejected with status %d", resp.StatusCode)
		r.send(ClosedMsg{Err: &api.RequestError{
			StatusCode: resp.StatusCode,
			Message:    "stream connection rejected",
		}})
		return
	}

	err = readEvents(resp.Body, r.handleFrame)
	if ctx.Err() != nil {
		err = ctx.Err()
	}
	r.send(ClosedMsg{Err: err})
}

// handleFrame processes one SSE frame. Malformed payloads are dropped
// per message without terminating the stream.
func (r *Relay) handleFrame(ev serverEvent) {
	if ev.name != eventName {
		return
	}

	var n model.Notification
	if err := json.Unmarshal([]byte(ev.data), &n); err != nil {
		log.Printf("relay: dropping malformed event: %v", err)
		return
	}

	r.apply(n)
	r.send(EventMsg{Notification: n})
}

// seed replaces local state with the server snapshot.
func (r *Relay) seed(snapshot *model.NotificationListResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = append([]model.Notification(nil), snapshot.Notifications...)
	r.unread = snapshot.UnreadCount
	if r.unread < 0 {
		r.unread = 0
	}
}

// SeedCached primes the relay from the offline mirror after a failed
// snapshot fetch. The unread counter is rebuilt from the stored read
// flags. A relay that already holds notifications is left untouched;
// streamed events keep prepending on top of the cached list.
func (r *Relay) SeedCached(notifications []model.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.notifications) > 0 {
		return
	}

	r.notifications = append([]model.Notification(nil), notifications...)
	r.unread = 0
	for _, n := range notifications {
		if !n.IsRead {
			r.unread++
		}
	}
}

// apply prepends a streamed notification, bumps the unread counter, and
// forwards to the platform surface when the terminal is unfocused.
func (r *Relay) apply(n model.Notification) {
	r.mu.Lock()
	r.notifications = append([]model.Notification{n}, r.notifications...)
	r.unread++
	focused := r.focused
	r.mu.Unlock()

	if !focused {
		if err := r.notifier.Push(n.Title, n.Message, n.ID); err != nil {
			log.Printf("relay: desktop notification failed: %v", err)
		}
	}
}

// MarkRead flips one notification to read, backend first. A backend
// rejection leaves local state unchanged and is logged, not surfaced.
func (r *Relay) MarkRead(id string) tea.Cmd {
	return func() tea.Msg {
		if err := r.client.MarkNotificationRead(context.Background(), id); err != nil {
			log.Printf("relay: mark read %s failed: %v", id, err)
			return ReadResultMsg{}
		}
		r.markReadLocal(id)
		return ReadResultMsg{}
	}
}

// MarkAllRead flips every notification to read under the same
// backend-first, silent-fail policy. Idempotent.
func (r *Relay) MarkAllRead() tea.Cmd {
	return func() tea.Msg {
		if err := r.client.MarkAllNotificationsRead(context.Background()); err != nil {
			log.Printf("relay: mark all read failed: %v", err)
			return ReadResultMsg{}
		}
		r.markAllReadLocal()
		return ReadResultMsg{}
	}
}

// markReadLocal applies a successful single mark-read: is_read moves
// false to true only, and the counter is decremented with a floor of
// zero.
func (r *Relay) markReadLocal(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notifications {
		if r.notifications[i].ID != id {
			continue
		}
		if !r.notifications[i].IsRead {
			r.notifications[i].IsRead = true
			if r.unread > 0 {
				r.unread--
			}
		}
		return
	}
}

// markAllReadLocal applies a successful mark-all-read.
func (r *Relay) markAllReadLocal() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notifications {
		r.notifications[i].IsRead = true
	}
	r.unread = 0
}

// SetFocused records whether the terminal currently has focus. The
// relay only forwards to the desktop surface while unfocused.
func (r *Relay) SetFocused(focused bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.focused = focused
}

// Notifications returns a copy of the list, newest first.
func (r *Relay) Notifications() []model.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Notification(nil), r.notifications...)
}

// UnreadCount returns the current unread counter. Never negative.
func (r *Relay) UnreadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unread
}

// send delivers a message to the UI without blocking the stream
// goroutine; messages are dropped if the UI stops draining.
func (r *Relay) send(msg tea.Msg) {
	select {
	case r.msgCh <- msg:
	default:
	}
}
