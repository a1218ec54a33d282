package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Alias1177/matchforecast/internal/model"
	_ "github.com/lib/pq"
)

// DefaultRecentLimit is how many ledger rows RecentLogs returns when no limit is given
const DefaultRecentLimit = 10

// ErrEntryNotFound is returned when an update targets a missing ledger row
var ErrEntryNotFound = errors.New("ledger entry not found")

// DB represents a database connection
type DB struct {
	*sql.DB
}

// ConnectionParams holds PostgreSQL connection parameters
type ConnectionParams struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// New creates a new database connection
func New(ctx context.Context, params ConnectionParams) (*DB, error) {
	if params.SSLMode == "" {
		params.SSLMode = "disable"
	}

	// Create PostgreSQL connection string
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		params.Host, params.Port, params.User, params.Password, params.DBName, params.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	// Check connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	ledger := &DB{db}
	if err := ledger.CreateTables(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return ledger, nil
}

// CreateTables creates the ledger table if it doesn't exist
func (db *DB) CreateTables(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS analyzer_logs (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			date TEXT NOT NULL,
			match TEXT NOT NULL,
			prediction TEXT NOT NULL,
			confidence TEXT NOT NULL,
			result TEXT NOT NULL,
			roi DOUBLE PRECISION NOT NULL DEFAULT 0,
			home_form TEXT NOT NULL,
			away_form TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("creating analyzer_logs: %w", err)
	}
	return nil
}

// InsertLog stores a new ledger entry and fills in its ID and creation time
func (db *DB) InsertLog(ctx context.Context, entry *model.LogEntry) error {
	err := db.QueryRowContext(ctx, `
		INSERT INTO analyzer_logs (
			run_id, date, match, prediction, confidence, result, roi, home_form, away_form
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`,
		entry.RunID, entry.Date, entry.Match, string(entry.Prediction), string(entry.Confidence),
		entry.Result, entry.ROI, string(entry.HomeFormSource), string(entry.AwayFormSource),
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting ledger entry for %q: %w", entry.Match, err)
	}
	return nil
}

// RecentLogs returns the newest entries first
func (db *DB) RecentLogs(ctx context.Context, limit int) ([]model.LogEntry, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	rows, err := db.QueryContext(ctx, `
		SELECT id, run_id, date, match, prediction, confidence, result, roi, home_form, away_form, created_at
		FROM analyzer_logs
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent logs: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// LogsByDate returns all entries recorded for a date, oldest first
func (db *DB) LogsByDate(ctx context.Context, date string) ([]model.LogEntry, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, run_id, date, match, prediction, confidence, result, roi, home_form, away_form, created_at
		FROM analyzer_logs
		WHERE date = $1
		ORDER BY id ASC
	`, date)
	if err != nil {
		return nil, fmt.Errorf("querying logs for %s: %w", date, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// UpdateResult records the reconciled outcome and ROI of an entry
func (db *DB) UpdateResult(ctx context.Context, id int64, result string, roi float64) error {
	res, err := db.ExecContext(ctx, `
		UPDATE analyzer_logs
		SET result = $1, roi = $2
		WHERE id = $3
	`, result, roi, id)
	if err != nil {
		return fmt.Errorf("updating ledger entry %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating ledger entry %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: id %d", ErrEntryNotFound, id)
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]model.LogEntry, error) {
	var entries []model.LogEntry
	for rows.Next() {
		var e model.LogEntry
		var prediction, confidence, homeForm, awayForm string
		if err := rows.Scan(
			&e.ID, &e.RunID, &e.Date, &e.Match, &prediction, &confidence,
			&e.Result, &e.ROI, &homeForm, &awayForm, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning ledger row: %w", err)
		}
		e.Prediction = model.Label(prediction)
		e.Confidence = model.Confidence(confidence)
		e.HomeFormSource = model.FormSource(homeForm)
		e.AwayFormSource = model.FormSource(awayForm)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ledger rows: %w", err)
	}
	return entries, nil
}
