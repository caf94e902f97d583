package model

import "time"

// Notification represents an alert pushed to the user about activity
// on one of their reports.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// UserID is the account this notification belongs to.
	UserID string `json:"user_id"`

	// ReportID links this notification to the originating report,
	// when there is one.
	ReportID string `json:"report_id,omitempty"`

	// Title is the short headline shown in the bell panel.
	Title string `json:"title"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// IsRead indicates whether the user has seen this notification.
	// It only ever transitions from false to true.
	IsRead bool `json:"is_read"`

	// CreatedAt is when this notification was generated server-side.
	CreatedAt time.Time `json:"created_at"`
}

// NotificationListResponse is the snapshot payload used to seed the
// relay before the live stream takes over.
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
}
