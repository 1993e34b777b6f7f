// Package db caches registry traffic in SQLite: raw downloaded filing
// documents and assembled lookup results. The extraction engine itself
// stays stateless; the cache sits behind the server so repeated lookups
// for the same company do not re-download multi-megabyte filings.
package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Marcximus/dansk-firma-finder/pkg/regnskab"
)

// DB wraps a SQLite database connection for registry data caching.
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes tables.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.createTables(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) createTables() error {
	documentsSQL := `
		CREATE TABLE IF NOT EXISTS documents (
			dokument_url TEXT PRIMARY KEY,
			cvr TEXT NOT NULL,
			dokument_type TEXT NOT NULL,
			data BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := db.conn.Exec(documentsSQL); err != nil {
		return fmt.Errorf("failed to create documents table: %w", err)
	}

	documentsIndexSQL := `CREATE INDEX IF NOT EXISTS idx_documents_cvr ON documents(cvr);`
	if _, err := db.conn.Exec(documentsIndexSQL); err != nil {
		return fmt.Errorf("failed to create documents index: %w", err)
	}

	resultsSQL := `
		CREATE TABLE IF NOT EXISTS results (
			cvr TEXT PRIMARY KEY,
			data BLOB NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`
	if _, err := db.conn.Exec(resultsSQL); err != nil {
		return fmt.Errorf("failed to create results table: %w", err)
	}

	return nil
}

// StoreDocument caches the raw text of one downloaded filing document.
func (db *DB) StoreDocument(cvrNumber, docType, docURL string, data []byte) error {
	query := `
		INSERT OR REPLACE INTO documents (dokument_url, cvr, dokument_type, data)
		VALUES (?, ?, ?, ?)
	`
	if _, err := db.conn.Exec(query, docURL, cvrNumber, docType, data); err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}
	return nil
}

// GetDocument retrieves a cached document by its retrieval URL.
func (db *DB) GetDocument(docURL string) ([]byte, error) {
	query := "SELECT data FROM documents WHERE dokument_url = ?"

	var data []byte
	err := db.conn.QueryRow(query, docURL).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("document not cached for %s", docURL)
		}
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	return data, nil
}

// StoreResult caches the assembled lookup response for a CVR number.
func (db *DB) StoreResult(cvrNumber string, result *regnskab.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO results (cvr, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
	`
	if _, err := db.conn.Exec(query, cvrNumber, data); err != nil {
		return fmt.Errorf("failed to store result: %w", err)
	}
	return nil
}

// GetResult retrieves a cached lookup response for a CVR number.
func (db *DB) GetResult(cvrNumber string) (*regnskab.Result, error) {
	query := "SELECT data FROM results WHERE cvr = ?"

	var data []byte
	err := db.conn.QueryRow(query, cvrNumber).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("result not cached for CVR %s", cvrNumber)
		}
		return nil, fmt.Errorf("failed to query result: %w", err)
	}

	var result regnskab.Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

// IsResultStale checks whether the cached result for a CVR number is
// older than maxAge. A missing entry is stale.
func (db *DB) IsResultStale(cvrNumber string, maxAge time.Duration) (bool, error) {
	query := "SELECT updated_at FROM results WHERE cvr = ?"

	var updatedAt string
	err := db.conn.QueryRow(query, cvrNumber).Scan(&updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return true, nil
		}
		return false, fmt.Errorf("failed to query result timestamp: %w", err)
	}

	// SQLite CURRENT_TIMESTAMP returns RFC3339 format.
	timestamp, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return false, fmt.Errorf("failed to parse timestamp: %w", err)
	}

	return time.Since(timestamp) > maxAge, nil
}

// ListCVRs returns all CVR numbers with a cached result.
func (db *DB) ListCVRs() ([]string, error) {
	query := "SELECT cvr FROM results ORDER BY cvr"

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var cvrs []string
	for rows.Next() {
		var cvrNumber string
		if err := rows.Scan(&cvrNumber); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		cvrs = append(cvrs, cvrNumber)
	}
	return cvrs, nil
}
