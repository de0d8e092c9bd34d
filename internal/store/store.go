// Package store persists daily pull request snapshots to a local SQLite
// database so reports can be compared and graphed over time.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"prreporter/internal/domain"
)

// HistoryStore is a single-table snapshot archive keyed by (repo, date).
type HistoryStore struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the
// schema exists. Use ":memory:" for an ephemeral store in tests.
func Open(path string) (*HistoryStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA busy_timeout=5000;"); err != nil {
		return nil, fmt.Errorf("failed to set database pragmas: %w", err)
	}

	s := &HistoryStore{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("history store migration failed: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}

func (s *HistoryStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS pr_stats (
		repo_name TEXT,
		date TEXT,
		total_prs INTEGER,
		avg_age_days REAL,
		avg_age_days_excluding_oldest REAL,
		avg_comments REAL,
		avg_comments_with_comments REAL,
		approved_prs INTEGER,
		oldest_pr_age REAL,
		oldest_pr_title TEXT,
		prs_with_zero_comments INTEGER,
		PRIMARY KEY (repo_name, date)
	)`)
	return err
}

// Save upserts the snapshot for its (repo, date) key; re-running a report
// on the same day replaces that day's row.
func (s *HistoryStore) Save(ctx context.Context, snapshot domain.Snapshot) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO pr_stats
		(repo_name, date, total_prs, avg_age_days, avg_age_days_excluding_oldest,
		 avg_comments, avg_comments_with_comments, approved_prs,
		 oldest_pr_age, oldest_pr_title, prs_with_zero_comments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snapshot.Repo,
		snapshot.Date,
		snapshot.TotalPRs,
		snapshot.AvgAgeDays,
		snapshot.AvgAgeDaysExclOldest,
		snapshot.AvgComments,
		snapshot.AvgCommentsNonZero,
		snapshot.ApprovedPRs,
		snapshot.OldestPRAgeDays,
		snapshot.OldestPRTitle,
		snapshot.ZeroCommentPRs,
	)
	if err != nil {
		return fmt.Errorf("failed to save snapshot for %s/%s: %w", snapshot.Repo, snapshot.Date, err)
	}
	return nil
}

const snapshotColumns = `repo_name, date, total_prs, avg_age_days,
	avg_age_days_excluding_oldest, avg_comments, avg_comments_with_comments,
	approved_prs, oldest_pr_age, oldest_pr_title, prs_with_zero_comments`

// Load returns the snapshot stored for the repository on the given day.
func (s *HistoryStore) Load(ctx context.Context, repo, date string) (domain.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM pr_stats WHERE repo_name = ? AND date = ?`,
		repo, date)
	return scanSnapshot(row, repo, date)
}

// LoadLatest returns the most recent snapshot for the repository.
func (s *HistoryStore) LoadLatest(ctx context.Context, repo string) (domain.Snapshot, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+snapshotColumns+` FROM pr_stats WHERE repo_name = ? ORDER BY date DESC LIMIT 1`,
		repo)
	return scanSnapshot(row, repo, "any date")
}

// LoadRange returns all snapshots on or after since, oldest first. An empty
// repo selects every repository.
func (s *HistoryStore) LoadRange(ctx context.Context, repo, since string) ([]domain.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM pr_stats WHERE date >= ?`
	args := []any{since}
	if repo != "" {
		query += ` AND repo_name = ?`
		args = append(args, repo)
	}
	query += ` ORDER BY repo_name, date`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot range: %w", err)
	}
	defer rows.Close()

	var snapshots []domain.Snapshot
	for rows.Next() {
		var snap domain.Snapshot
		if err := rows.Scan(
			&snap.Repo, &snap.Date, &snap.TotalPRs, &snap.AvgAgeDays,
			&snap.AvgAgeDaysExclOldest, &snap.AvgComments, &snap.AvgCommentsNonZero,
			&snap.ApprovedPRs, &snap.OldestPRAgeDays, &snap.OldestPRTitle,
			&snap.ZeroCommentPRs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

func scanSnapshot(row *sql.Row, repo, date string) (domain.Snapshot, error) {
	var snap domain.Snapshot
	err := row.Scan(
		&snap.Repo, &snap.Date, &snap.TotalPRs, &snap.AvgAgeDays,
		&snap.AvgAgeDaysExclOldest, &snap.AvgComments, &snap.AvgCommentsNonZero,
		&snap.ApprovedPRs, &snap.OldestPRAgeDays, &snap.OldestPRTitle,
		&snap.ZeroCommentPRs,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Snapshot{}, fmt.Errorf("%w for %s (%s)", domain.ErrNoHistoricalData, repo, date)
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to load snapshot for %s (%s): %w", repo, date, err)
	}
	return snap, nil
}
