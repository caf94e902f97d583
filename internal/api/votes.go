package api

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/cityconnect/cityconnect/internal/model"
)

// voteRequest is the cast-vote payload.
type voteRequest struct {
	VoteType model.VoteType `json:"vote_type"`
}

// CastVote registers or replaces the caller's vote on a public report.
func (c *Client) CastVote(ctx context.Context, reportID string, voteType model.VoteType) (*model.VoteResponse, error) {
	if _, err := uuid.Parse(reportID); err != nil {
		return nil, invalidIDError("report", reportID)
	}
	var resp model.VoteResponse
	err := c.post(ctx, fmt.Sprintf("/reports/%s/vote", reportID), voteRequest{VoteType: voteType}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveVote deletes the caller's vote and returns the updated score.
func (c *Client) RemoveVote(ctx context.Context, reportID string) (*model.VoteResponse, error) {
	if _, err := uuid.Parse(reportID); err != nil {
		return nil, invalidIDError("report", reportID)
	}
	var resp model.VoteResponse
	if err := c.delete(ctx, fmt.Sprintf("/reports/%s/vote", reportID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Vote returns the caller's current vote and the report's total score.
func (c *Client) Vote(ctx context.Context, reportID string) (*model.VoteResponse, error) {
	if _, err := uuid.Parse(reportID); err != nil {
		return nil, invalidIDError("report", reportID)
	}
	var resp model.VoteResponse
	if err := c.get(ctx, fmt.Sprintf("/reports/%s/vote", reportID), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ToggleVote applies the client-side vote toggle: requesting the same
// type as the active vote removes it; any other request casts or
// replaces. Exactly one vote per user per report is active at a time.
func (c *Client) ToggleVote(
	ctx context.Context,
	reportID string,
	current *model.VoteType,
	requested model.VoteType,
) (*model.VoteResponse, error) {
	if current != nil && *current == requested {
		return c.RemoveVote(ctx, reportID)
	}
	return c.CastVote(ctx, reportID, requested)
}
