package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cityconnect/cityconnect/internal/cache"
	"github.com/cityconnect/cityconnect/internal/model"
	"github.com/cityconnect/cityconnect/tests/testutil"
)

func sampleReport(id, title string, categoryID int, created time.Time) model.Report {
	return model.Report{
		ID:          id,
		Title:       title,
		Description: "desc " + title,
		CategoryID:  categoryID,
		Category: &model.Category{
			ID:         categoryID,
			Name:       "Roads",
			Department: "Public Works",
		},
		PrivacyLevel: model.PrivacyPublic,
		ReporterName: "Ana",
		Status:       model.StatusPending,
		VoteScore:    2,
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestUpsertAndGetReports(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err := c.UpsertReports(ctx, []model.Report{
		sampleReport("r1", "Pothole on Main St", 1, base),
		sampleReport("r2", "Broken streetlight", 2, base.Add(time.Hour)),
	}, false)
	require.NoError(t, err)

	got, err := c.GetReports(ctx, cache.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Newest first.
	assert.Equal(t, "r2", got[0].ID)
	assert.Equal(t, "r1", got[1].ID)

	// The embedded category round-trips.
	require.NotNil(t, got[1].Category)
	assert.Equal(t, "Roads", got[1].Category.Name)
	assert.Equal(t, "Public Works", got[1].Category.Department)
	assert.Equal(t, model.StatusPending, got[1].Status)
}

func TestUpsertReportsReplacesExisting(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := sampleReport("r1", "Pothole", 1, created)
	require.NoError(t, c.UpsertReports(ctx, []model.Report{r}, false))

	r.Status = model.StatusCompleted
	r.VoteScore = 9
	require.NoError(t, c.UpsertReports(ctx, []model.Report{r}, false))

	got, err := c.GetReports(ctx, cache.ReportFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.StatusCompleted, got[0].Status)
	assert.Equal(t, 9, got[0].VoteScore)
}

func TestGetReportsFilters(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, c.UpsertReports(ctx, []model.Report{
		sampleReport("pub1", "Pothole on Main St", 1, base),
		sampleReport("pub2", "Overflowing bins", 2, base.Add(time.Minute)),
	}, false))
	require.NoError(t, c.UpsertReports(ctx, []model.Report{
		sampleReport("mine1", "My broken fence report", 1, base.Add(2*time.Minute)),
	}, true))

	mine := true
	got, err := c.GetReports(ctx, cache.ReportFilter{Mine: &mine})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "mine1", got[0].ID)

	got, err = c.GetReports(ctx, cache.ReportFilter{Query: "pothole"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "pub1", got[0].ID)

	got, err = c.GetReports(ctx, cache.ReportFilter{CategoryID: 2})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "pub2", got[0].ID)

	got, err = c.GetReports(ctx, cache.ReportFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestNotificationMirror(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err := c.UpsertNotifications(ctx, []model.Notification{
		{ID: "n1", UserID: "u1", Title: "older", CreatedAt: base},
		{ID: "n2", UserID: "u1", Title: "newer", CreatedAt: base.Add(time.Hour)},
	})
	require.NoError(t, err)

	got, err := c.GetNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "n2", got[0].ID)
	assert.False(t, got[0].IsRead)

	// Re-upserting after a mark-read round trip carries the flag over.
	err = c.UpsertNotifications(ctx, []model.Notification{
		{ID: "n2", UserID: "u1", Title: "newer", IsRead: true, CreatedAt: base.Add(time.Hour)},
	})
	require.NoError(t, err)

	got, err = c.GetNotifications(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].IsRead)
	assert.False(t, got[1].IsRead)
}

func TestEmptyBatchesAreNoOps(t *testing.T) {
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.UpsertReports(ctx, nil, false))
	require.NoError(t, c.UpsertNotifications(ctx, nil))

	got, err := c.GetReports(ctx, cache.ReportFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
