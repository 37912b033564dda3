package repobundle

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Bundle is a saved generation: the assembled output plus summary numbers
// for listing.
type Bundle struct {
	ID        int64     `db:"id"`
	Label     string    `db:"label"`
	Files     int       `db:"files"`
	Bytes     int       `db:"bytes"`
	Tokens    int       `db:"tokens"`
	Content   string    `db:"content"`
	CreatedAt time.Time `db:"created_at"`
}

// BundleStore persists generated bundles in SQLite.
type BundleStore struct {
	DB     *sqlx.DB
	Logger *slog.Logger
}

// Migrate creates the bundles table if it does not exist.
func (bs *BundleStore) Migrate() error {
	_, err := bs.DB.Exec(`
		CREATE TABLE IF NOT EXISTS bundles (
			id INTEGER PRIMARY KEY,
			label TEXT NOT NULL,
			files INTEGER NOT NULL,
			bytes INTEGER NOT NULL,
			tokens INTEGER NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create bundles table: %w", err)
	}
	return nil
}

// SaveBundle inserts a bundle and returns its ID.
func (bs *BundleStore) SaveBundle(b *Bundle) (int64, error) {
	result, err := bs.DB.Exec(
		"INSERT INTO bundles (label, files, bytes, tokens, content, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		b.Label, b.Files, b.Bytes, b.Tokens, b.Content, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save bundle: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get bundle ID: %w", err)
	}
	return id, nil
}

// GetBundle returns the bundle with the given ID.
func (bs *BundleStore) GetBundle(id int64) (*Bundle, error) {
	var b Bundle
	err := bs.DB.Get(&b, "SELECT * FROM bundles WHERE id = ?", id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no bundle with ID %d", id)
		}
		return nil, fmt.Errorf("failed to get bundle: %w", err)
	}
	return &b, nil
}

// ListBundles returns all saved bundles, most recent first, without their
// content payloads.
func (bs *BundleStore) ListBundles() ([]Bundle, error) {
	var bundles []Bundle
	err := bs.DB.Select(&bundles,
		"SELECT id, label, files, bytes, tokens, '' AS content, created_at FROM bundles ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list bundles: %w", err)
	}
	return bundles, nil
}
