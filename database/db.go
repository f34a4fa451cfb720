package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/korjavin/mathdungeonbot/models"
	_ "github.com/mattn/go-sqlite3"
)

// DB handles all database operations
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes tables
func New(dbPath string) (*DB, error) {
	if dir := filepath.Dir(dbPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	if err = createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return &DB{conn: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// createTables creates the necessary tables if they don't exist
func createTables(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS attempts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			run_id TEXT NOT NULL,
			category TEXT NOT NULL,
			difficulty INTEGER NOT NULL,
			question TEXT NOT NULL,
			expected TEXT NOT NULL,
			given TEXT NOT NULL,
			correct BOOLEAN NOT NULL,
			timed_out BOOLEAN NOT NULL,
			xp_gained INTEGER NOT NULL,
			coins_gained INTEGER NOT NULL,
			timestamp INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			dungeon_level INTEGER NOT NULL,
			difficulty TEXT NOT NULL,
			ended_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// Explanations are keyed by question text, generated problems have no ids
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS explanation_cache (
			question TEXT PRIMARY KEY,
			response TEXT NOT NULL
		)
	`)
	return err
}

// SaveAttempt records one answered problem
func (db *DB) SaveAttempt(a models.Attempt) error {
	if a.Timestamp == 0 {
		a.Timestamp = time.Now().Unix()
	}
	_, err := db.conn.Exec(
		`INSERT INTO attempts (user_id, run_id, category, difficulty, question, expected, given,
			correct, timed_out, xp_gained, coins_gained, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.UserID, a.RunID, string(a.Category), a.Difficulty, a.Question, a.Expected, a.Given,
		a.Correct, a.TimedOut, a.XPGained, a.CoinsGained, a.Timestamp,
	)
	return err
}

// GetUserStats retrieves statistics about the user's answers
func (db *DB) GetUserStats(userID int64) (correct int, incorrect int, err error) {
	err = db.conn.QueryRow(
		"SELECT COUNT(*) FROM attempts WHERE user_id = ? AND correct = 1",
		userID,
	).Scan(&correct)
	if err != nil {
		return 0, 0, err
	}

	err = db.conn.QueryRow(
		"SELECT COUNT(*) FROM attempts WHERE user_id = ? AND correct = 0",
		userID,
	).Scan(&incorrect)
	return correct, incorrect, err
}

// GetWeakestCategories returns the categories the user misses most often
func (db *DB) GetWeakestCategories(userID int64, limit int) ([]models.CategoryMisses, error) {
	rows, err := db.conn.Query(`
		SELECT category, COUNT(*) as misses
		FROM attempts
		WHERE user_id = ? AND correct = 0
		GROUP BY category
		ORDER BY misses DESC, category ASC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.CategoryMisses
	for rows.Next() {
		var category string
		var misses int
		if err := rows.Scan(&category, &misses); err != nil {
			return nil, err
		}
		result = append(result, models.CategoryMisses{
			Category: models.Category(category),
			Misses:   misses,
		})
	}

	return result, rows.Err()
}

// SaveRun records a finished run
func (db *DB) SaveRun(r models.RunSummary) error {
	if r.EndedAt == 0 {
		r.EndedAt = time.Now().Unix()
	}
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO runs (run_id, user_id, dungeon_level, difficulty, ended_at) VALUES (?, ?, ?, ?, ?)",
		r.RunID, r.UserID, r.DungeonLevel, string(r.Difficulty), r.EndedAt,
	)
	return err
}

// GetBestRun returns the user's deepest finished run; ok is false if none
func (db *DB) GetBestRun(userID int64) (run models.RunSummary, ok bool, err error) {
	var difficulty string
	err = db.conn.QueryRow(`
		SELECT run_id, dungeon_level, difficulty, ended_at
		FROM runs
		WHERE user_id = ?
		ORDER BY dungeon_level DESC, ended_at ASC
		LIMIT 1
	`, userID).Scan(&run.RunID, &run.DungeonLevel, &difficulty, &run.EndedAt)

	if err == sql.ErrNoRows {
		return models.RunSummary{}, false, nil
	}
	if err != nil {
		return models.RunSummary{}, false, err
	}

	run.UserID = userID
	run.Difficulty = models.Tier(difficulty)
	return run, true, nil
}

// CacheExplanation stores an AI explanation for a question
func (db *DB) CacheExplanation(question, response string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO explanation_cache (question, response) VALUES (?, ?)",
		question, response,
	)
	return err
}

// GetCachedExplanation retrieves a cached explanation, "" when there is none
func (db *DB) GetCachedExplanation(question string) (string, error) {
	var response string
	err := db.conn.QueryRow(
		"SELECT response FROM explanation_cache WHERE question = ?",
		question,
	).Scan(&response)

	if err == sql.ErrNoRows {
		return "", nil // No cached response
	}

	return response, err
}
