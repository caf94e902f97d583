package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/cityconnect/cityconnect/internal/model"
)

// ReportFilter holds the optional query filters for report listings.
type ReportFilter struct {
	// Search matches against title and description server-side.
	Search string

	// CategoryID restricts results to one category; zero means all.
	CategoryID int
}

// query builds the encoded query string, empty when no filter is set.
func (f ReportFilter) query() string {
	params := url.Values{}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.CategoryID > 0 {
		params.Set("category_id", strconv.Itoa(f.CategoryID))
	}
	if encoded := params.Encode(); encoded != "" {
		return "?" + encoded
	}
	return ""
}

// PublicReports lists public reports. Anonymous access is allowed.
func (c *Client) PublicReports(ctx context.Context, filter ReportFilter) (*model.ReportListResponse, error) {
	var resp model.ReportListResponse
	if err := c.get(ctx, "/reports/public"+filter.query(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// MyReports lists the authenticated user's own reports.
func (c *Client) MyReports(ctx context.Context, filter ReportFilter) (*model.ReportListResponse, error) {
	var resp model.ReportListResponse
	if err := c.get(ctx, "/reports/my"+filter.query(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reports lists every report. Requires an admin credential.
func (c *Client) Reports(ctx context.Context) (*model.ReportListResponse, error) {
	var resp model.ReportListResponse
	if err := c.get(ctx, "/reports/", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Report fetches a single report by ID.
func (c *Client) Report(ctx context.Context, id string) (*model.Report, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, invalidIDError("report", id)
	}
	var report model.Report
	if err := c.get(ctx, "/reports/"+id, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// createReportResponse wraps the creation endpoint payload.
type createReportResponse struct {
	Message string       `json:"message"`
	Report  model.Report `json:"report"`
}

// CreateReport files a new report. The request must carry either an
// existing category ID or a new category name and department.
func (c *Client) CreateReport(ctx context.Context, req model.CreateReportRequest) (*model.Report, error) {
	var resp createReportResponse
	if err := c.post(ctx, "/reports/", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Report, nil
}

// UpdateReportStatus moves a report to a new triage status (admin only).
func (c *Client) UpdateReportStatus(ctx context.Context, id string, status model.ReportStatus) error {
	if _, err := uuid.Parse(id); err != nil {
		return invalidIDError("report", id)
	}
	body := map[string]model.ReportStatus{"status": status}
	return c.patch(ctx, fmt.Sprintf("/reports/%s/status", id), body, nil)
}

// Categories lists all report categories.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var resp model.CategoriesResponse
	if err := c.get(ctx, "/reports/categories", &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// CreateCategory adds a new category handled by the given department.
func (c *Client) CreateCategory(ctx context.Context, name, department string) (*model.Category, error) {
	var resp struct {
		Message  string         `json:"message"`
		Category model.Category `json:"category"`
	}
	body := map[string]string{"name": name, "department": department}
	if err := c.post(ctx, "/reports/categories", body, &resp); err != nil {
		return nil, err
	}
	return &resp.Category, nil
}
