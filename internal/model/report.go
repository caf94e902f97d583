package model

import "time"

// ReportStatus is the triage state of a report. Transitions are owned
// entirely by the backend; the client only renders them.
type ReportStatus string

const (
	StatusPending    ReportStatus = "pending"
	StatusAccepted   ReportStatus = "accepted"
	StatusInProgress ReportStatus = "in_progress"
	StatusCompleted  ReportStatus = "completed"
	StatusRejected   ReportStatus = "rejected"
)

// ReportStatuses lists every triage state in display order.
var ReportStatuses = []ReportStatus{
	StatusPending,
	StatusAccepted,
	StatusInProgress,
	StatusCompleted,
	StatusRejected,
}

// PrivacyLevel controls who can see a report and its reporter.
type PrivacyLevel string

const (
	PrivacyPublic    PrivacyLevel = "public"
	PrivacyPrivate   PrivacyLevel = "private"
	PrivacyAnonymous PrivacyLevel = "anonymous"
)

// VoteType is the direction of a vote on a public report.
type VoteType string

const (
	VoteUpvote   VoteType = "upvote"
	VoteDownvote VoteType = "downvote"
)

// Category groups reports by the city department that handles them.
type Category struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
}

// Report is a display copy of a citizen issue report. All invariants
// (status transitions, vote arithmetic, privacy rules) are enforced
// server-side.
type Report struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	CategoryID   int          `json:"category_id"`
	Category     *Category    `json:"category,omitempty"`
	LocationLat  *float64     `json:"location_lat,omitempty"`
	LocationLng  *float64     `json:"location_lng,omitempty"`
	PhotoURL     string       `json:"photo_url,omitempty"`
	PrivacyLevel PrivacyLevel `json:"privacy_level"`
	ReporterID   string       `json:"reporter_id,omitempty"`
	ReporterName string       `json:"reporter_name,omitempty"`
	Status       ReportStatus `json:"status"`
	VoteScore    int          `json:"vote_score"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// CategoryName returns the category name when the backend embedded it.
func (r Report) CategoryName() string {
	if r.Category != nil {
		return r.Category.Name
	}
	return ""
}

// CreateReportRequest is the payload for filing a new report. Either
// CategoryID or NewCategoryName+NewCategoryDepartment must be set; the
// backend rejects requests with neither.
type CreateReportRequest struct {
	Title                 string       `json:"title"`
	Description           string       `json:"description"`
	CategoryID            int          `json:"category_id,omitempty"`
	NewCategoryName       string       `json:"new_category_name,omitempty"`
	NewCategoryDepartment string       `json:"new_category_department,omitempty"`
	LocationLat           *float64     `json:"location_lat,omitempty"`
	LocationLng           *float64     `json:"location_lng,omitempty"`
	PrivacyLevel          PrivacyLevel `json:"privacy_level"`
}

// VoteResponse carries the report's score after a vote operation and
// the caller's active vote, absent when the vote was removed.
type VoteResponse struct {
	VoteScore    int       `json:"vote_score"`
	UserVoteType *VoteType `json:"user_vote_type,omitempty"`
}

// ReportListResponse is a page of reports with the total match count.
type ReportListResponse struct {
	Reports []Report `json:"reports"`
	Total   int      `json:"total"`
}

// CategoriesResponse wraps the category list endpoint payload.
type CategoriesResponse struct {
	Categories []Category `json:"categories"`
}
