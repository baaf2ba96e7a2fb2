// Package visits keeps privacy-conscious page statistics: visits are
// stored with a salted hash instead of the client IP, Do-Not-Track is
// honoured, and records older than the retention window are purged.
// It also counts clicks on outbound project links.
package visits

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/doneil/portfolio/internal/clock"
)

// DefaultRetention is how long visit records are kept.
const DefaultRetention = 365 * 24 * time.Hour

// Visit is one recorded page view.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// ProjectClicks is the outbound click count of one project card.
type ProjectClicks struct {
	Slug      string    `json:"slug"`
	Clicks    int64     `json:"clicks"`
	LastClick time.Time `json:"last_click"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors    int64           `json:"total_visitors"`
	UniqueVisitors   int64           `json:"unique_visitors"`
	VisitorsToday    int64           `json:"visitors_today"`
	VisitorsThisWeek int64           `json:"visitors_this_week"`
	TotalClicks      int64           `json:"total_clicks"`
	TopProjects      []ProjectClicks `json:"top_projects"`
	RecentVisitors   []Visit         `json:"recent_visitors"`
}

// Tracker records visits and clicks.
type Tracker struct {
	db        *sql.DB
	salt      string
	clock     clock.Clock
	logger    *slog.Logger
	retention time.Duration
	wg        sync.WaitGroup
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithSalt fixes the IP hashing salt. Without it a random salt is drawn,
// so hashes only correlate visits within one process lifetime.
func WithSalt(salt string) Option {
	return func(t *Tracker) { t.salt = salt }
}

// WithClock sets the time source.
func WithClock(c clock.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tracker) { t.logger = logger }
}

// WithRetention overrides DefaultRetention.
func WithRetention(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.retention = d
		}
	}
}

// NewTracker wraps an opened database.
func NewTracker(db *sql.DB, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		db:        db,
		clock:     clock.Real(),
		logger:    slog.Default(),
		retention: DefaultRetention,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.salt == "" {
		salt, err := RandomToken()
		if err != nil {
			return nil, err
		}
		t.salt = salt
	}
	return t, nil
}

// RandomToken returns 32 random bytes, hex encoded.
func RandomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashIP returns a truncated salted hash of ip, stable for a given salt.
func (t *Tracker) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + t.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// Record stores a visit.
func (t *Tracker) Record(ctx context.Context, ip, userAgent, path string) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO visits (hashed_ip, user_agent, path, visited_at) VALUES (?, ?, ?, ?)`,
		t.HashIP(ip), userAgent, path, t.clock.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// RecordClick counts one outbound click on a project.
func (t *Tracker) RecordClick(ctx context.Context, slug string) error {
	_, err := t.db.ExecContext(ctx, `
		INSERT INTO project_clicks (slug, clicks, last_click_at) VALUES (?, 1, ?)
		ON CONFLICT (slug) DO UPDATE SET clicks = clicks + 1, last_click_at = excluded.last_click_at`,
		slug, t.clock.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("recording click on %s: %w", slug, err)
	}
	return nil
}

// Clicks returns the click count of one project.
func (t *Tracker) Clicks(ctx context.Context, slug string) (int64, error) {
	var clicks int64
	err := t.db.QueryRowContext(ctx, `SELECT clicks FROM project_clicks WHERE slug = ?`, slug).Scan(&clicks)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading clicks of %s: %w", slug, err)
	}
	return clicks, nil
}

// Cleanup deletes visits older than the retention window.
func (t *Tracker) Cleanup(ctx context.Context) (int64, error) {
	cutoff := t.clock.Now().Add(-t.retention).UnixMilli()
	result, err := t.db.ExecContext(ctx, `DELETE FROM visits WHERE visited_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up visits: %w", err)
	}
	deleted, _ := result.RowsAffected()
	if deleted > 0 {
		t.logger.Info("privacy cleanup", "deleted", deleted, "retention", t.retention)
	}
	return deleted, nil
}

// Stats summarises visits and clicks.
func (t *Tracker) Stats(ctx context.Context) (*Stats, error) {
	now := t.clock.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).UnixMilli()
	weekAgo := now.Add(-7 * 24 * time.Hour).UnixMilli()

	stats := &Stats{}
	counts := []struct {
		dest  *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visits`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visits`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visits WHERE visited_at >= ?`, []any{startOfDay}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visits WHERE visited_at >= ?`, []any{weekAgo}},
		{&stats.TotalClicks, `SELECT COALESCE(SUM(clicks), 0) FROM project_clicks`, nil},
	}
	for _, c := range counts {
		if err := t.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dest); err != nil {
			return nil, fmt.Errorf("stats: %w", err)
		}
	}

	top, err := t.topProjects(ctx)
	if err != nil {
		return nil, err
	}
	stats.TopProjects = top

	recent, err := t.Recent(ctx, 50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = recent
	return stats, nil
}

func (t *Tracker) topProjects(ctx context.Context) ([]ProjectClicks, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT slug, clicks, COALESCE(last_click_at, 0) FROM project_clicks
		ORDER BY clicks DESC, last_click_at DESC LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("top projects: %w", err)
	}
	defer rows.Close()

	var out []ProjectClicks
	for rows.Next() {
		var p ProjectClicks
		var last int64
		if err := rows.Scan(&p.Slug, &p.Clicks, &last); err != nil {
			return nil, fmt.Errorf("top projects: %w", err)
		}
		p.LastClick = time.UnixMilli(last).UTC()
		out = append(out, p)
	}
	return out, rows.Err()
}

// Recent returns the latest visits, newest first.
func (t *Tracker) Recent(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := t.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), visited_at
		FROM visits ORDER BY visited_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent visits: %w", err)
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var v Visit
		var at int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &at); err != nil {
			return nil, fmt.Errorf("recent visits: %w", err)
		}
		v.Timestamp = time.UnixMilli(at).UTC()
		out = append(out, v)
	}
	return out, rows.Err()
}

var untrackedPrefixes = []string{
	"/static/", "/admin/", "/api/", "/stream", "/out/", "/favicon", "/healthz",
}

// Middleware records page views in the background. Asset, API and admin
// paths are skipped, as are clients sending DNT: 1 and requests that
// matched no route.
func (t *Tracker) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.Request.URL.Path
		if c.Request.Method != "GET" || c.GetHeader("DNT") == "1" || untracked(path) || c.FullPath() == "" {
			return
		}

		ip, userAgent := c.ClientIP(), c.GetHeader("User-Agent")
		t.wg.Add(1)
		go func() {
			defer t.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := t.Record(ctx, ip, userAgent, path); err != nil {
				t.logger.Warn("visit not recorded", "error", err)
			}
		}()
	}
}

func untracked(path string) bool {
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Wait blocks until background writes started by Middleware finish.
func (t *Tracker) Wait() { t.wg.Wait() }

// RunCleanup purges expired visits now and then every interval until
// ctx is cancelled.
func (t *Tracker) RunCleanup(ctx context.Context, interval time.Duration) {
	if _, err := t.Cleanup(ctx); err != nil {
		t.logger.Warn("privacy cleanup failed", "error", err)
	}
	ticker := t.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := t.Cleanup(ctx); err != nil {
				t.logger.Warn("privacy cleanup failed", "error", err)
			}
		}
	}
}
