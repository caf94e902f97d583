// Package cache mirrors backend reads into a local SQLite database so
// report lists and the notification panel render instantly on startup
// and stay browsable while the backend is unreachable. The cache is a
// display copy only; it never feeds writes back to the server.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/cityconnect/cityconnect/internal/model"
)

// ReportFilter controls filtering for cached report queries.
type ReportFilter struct {
	// Mine restricts results to the user's own reports when true,
	// to public browsing entries when false, and to everything when nil.
	Mine *bool

	// Query matches title and description with a substring search.
	Query string

	// CategoryID restricts to one category; zero means all.
	CategoryID int

	// Status restricts to one triage status.
	Status *model.ReportStatus

	Limit int
}

// Cache is the local read cache backed by SQLite.
type Cache struct {
	db *sqlx.DB
}

// Open opens (or creates) the cache database at dbPath, enables WAL
// mode, and runs any pending schema migrations.
func Open(dbPath string) (*Cache, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	c := &Cache{db: db}
	if err := c.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (c *Cache) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := c.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = c.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := c.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// UpsertReports inserts or replaces a batch of fetched reports. The
// mine flag records which listing the batch came from.
func (c *Cache) UpsertReports(ctx context.Context, reports []model.Report, mine bool) error {
	if len(reports) == 0 {
		return nil
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO reports (
			id, title, description, category_id, category_name, department,
			privacy_level, reporter_id, reporter_name, status, vote_score,
			mine, created_at, updated_at, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, r := range reports {
		categoryName := ""
		department := ""
		if r.Category != nil {
			categoryName = r.Category.Name
			department = r.Category.Department
		}

		_, err = stmt.ExecContext(ctx,
			r.ID, r.Title, r.Description, r.CategoryID, categoryName, department,
			string(r.PrivacyLevel), r.ReporterID, r.ReporterName, string(r.Status),
			r.VoteScore, boolToInt(mine), r.CreatedAt.UTC(), r.UpdatedAt.UTC(), now,
		)
		if err != nil {
			return fmt.Errorf("upserting report %s: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// GetReports retrieves cached reports matching the filter, newest first.
func (c *Cache) GetReports(ctx context.Context, filter ReportFilter) ([]model.Report, error) {
	var conditions []string
	var args []interface{}

	if filter.Mine != nil {
		conditions = append(conditions, "mine = ?")
		args = append(args, boolToInt(*filter.Mine))
	}
	if filter.Query != "" {
		conditions = append(conditions, "(title LIKE ? OR description LIKE ?)")
		q := "%" + filter.Query + "%"
		args = append(args, q, q)
	}
	if filter.CategoryID > 0 {
		conditions = append(conditions, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filter.Status))
	}

	query := "SELECT * FROM reports"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := c.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cached reports: %w", err)
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}

	return reports, rows.Err()
}

// UpsertNotifications inserts or replaces a batch of notifications.
func (c *Cache) UpsertNotifications(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO notifications (
			id, user_id, report_id, title, message, is_read, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, n := range notifications {
		_, err = stmt.ExecContext(ctx,
			n.ID, n.UserID, n.ReportID, n.Title, n.Message,
			boolToInt(n.IsRead), n.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("upserting notification %s: %w", n.ID, err)
		}
	}

	return tx.Commit()
}

// GetNotifications retrieves cached notifications, newest first.
func (c *Cache) GetNotifications(ctx context.Context) ([]model.Notification, error) {
	rows, err := c.db.QueryxContext(ctx,
		"SELECT * FROM notifications ORDER BY created_at DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("querying cached notifications: %w", err)
	}
	defer rows.Close()

	var notifications []model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// scanReport scans a report row from a sqlx.Rows result set.
func scanReport(rows *sqlx.Rows) (model.Report, error) {
	var (
		r            model.Report
		categoryName string
		department   string
		privacy      string
		status       string
		mine         int
		createdAt    time.Time
		updatedAt    time.Time
		fetchedAt    time.Time
	)

	err := rows.Scan(
		&r.ID, &r.Title, &r.Description, &r.CategoryID, &categoryName, &department,
		&privacy, &r.ReporterID, &r.ReporterName, &status, &r.VoteScore,
		&mine, &createdAt, &updatedAt, &fetchedAt,
	)
	if err != nil {
		return model.Report{}, fmt.Errorf("scanning report row: %w", err)
	}

	r.PrivacyLevel = model.PrivacyLevel(privacy)
	r.Status = model.ReportStatus(status)
	r.CreatedAt = createdAt
	r.UpdatedAt = updatedAt
	if categoryName != "" {
		r.Category = &model.Category{
			ID:         r.CategoryID,
			Name:       categoryName,
			Department: department,
		}
	}

	return r, nil
}

// scanNotification scans a notification row from a sqlx.Rows result set.
func scanNotification(rows *sqlx.Rows) (model.Notification, error) {
	var (
		n         model.Notification
		readInt   int
		createdAt time.Time
	)

	err := rows.Scan(
		&n.ID, &n.UserID, &n.ReportID, &n.Title, &n.Message,
		&readInt, &createdAt,
	)
	if err != nil {
		return model.Notification{}, fmt.Errorf("scanning notification row: %w", err)
	}

	n.IsRead = readInt != 0
	n.CreatedAt = createdAt

	return n, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
