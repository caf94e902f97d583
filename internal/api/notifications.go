package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/cityconnect/cityconnect/internal/model"
)

// Notifications fetches the snapshot used to seed the relay: the full
// notification list plus the server-side unread count.
func (c *Client) Notifications(ctx context.Context) (*model.NotificationListResponse, error) {
	var resp model.NotificationListResponse
	if err := c.get(ctx, "/notifications", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MarkNotificationRead marks a single notification as read server-side.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return invalidIDError("notification", id)
	}
	return c.patch(ctx, fmt.Sprintf("/notifications/%s/read", id), nil, nil)
}

// MarkAllNotificationsRead marks every notification as read server-side.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.patch(ctx, "/notifications/read-all", nil, nil)
}

// NotificationStreamURL builds the live event-stream URL. The token
// travels as a query parameter because the event-stream transport
// cannot set custom headers.
func (c *Client) NotificationStreamURL(token string) string {
	return c.baseURL + basePath + "/notifications/stream?token=" + url.QueryEscape(token)
}
