package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver

	"monogrid/internal/logging"
	"monogrid/internal/metrics"
)

// Default timeout for database operations
const defaultTimeout = 5 * time.Second

// ErrNotFound is returned when a collection or post does not exist.
var ErrNotFound = errors.New("not found")

// Database manages all persistence for collections and community posts.
type Database struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// New opens (or creates) the database at dbPath and applies the schema.
// dbPath must be the full path to the database FILE, and the parent
// directory must already exist and be writable; startup.LoadConfig
// validates the directory before this is called.
func New(ctx context.Context, dbPath string) (*Database, error) {
	logging.Info("Database path: %s", dbPath)

	// WAL mode plus a busy timeout avoids "database is locked" errors
	// when exports and collection edits overlap.
	connStr := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000", dbPath)

	db, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after ping failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	d := &Database{
		db:     db,
		dbPath: dbPath,
	}

	if err := d.initialize(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logging.Error("failed to close database after initialization failure: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to initialize database schema: %w", err)
	}

	if err := d.seedCollections(ctx); err != nil {
		logging.Warn("Failed to seed default collections: %v", err)
	}

	d.refreshGauges(ctx)

	logging.Info("Database initialized successfully at %s", dbPath)
	return d, nil
}

func (d *Database) initialize(ctx context.Context) error {
	schema := `
	-- Named sets of saved catalog assets
	CREATE TABLE IF NOT EXISTS collections (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_collections_created ON collections(created_at);

	-- Saved assets, one row per (collection, asset) pair. The
	-- descriptor column holds the asset's full JSON so exports can
	-- resolve tiers without the upstream catalog.
	CREATE TABLE IF NOT EXISTS collection_assets (
		collection_id TEXT NOT NULL,
		asset_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		descriptor TEXT NOT NULL,
		added_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now')),
		PRIMARY KEY (collection_id, asset_id),
		FOREIGN KEY (collection_id) REFERENCES collections(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_collection_assets_added ON collection_assets(collection_id, added_at);

	-- Community board posts
	CREATE TABLE IF NOT EXISTS community_posts (
		id TEXT PRIMARY KEY,
		author TEXT NOT NULL,
		title TEXT NOT NULL,
		body TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		likes INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL DEFAULT (strftime('%s', 'now'))
	);

	CREATE INDEX IF NOT EXISTS idx_community_posts_created ON community_posts(created_at);
	`

	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return err
	}

	// Cascade deletes from collections to their saved assets.
	if _, err := d.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return err
	}

	return nil
}

// Close closes the underlying database connection.
func (d *Database) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	logging.Info("Closing database at %s", d.dbPath)
	return d.db.Close()
}

// recordQuery tracks a query outcome for metrics.
func recordQuery(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DBQueryTotal.WithLabelValues(operation, status).Inc()
}

// refreshGauges updates the collection and post count gauges.
func (d *Database) refreshGauges(ctx context.Context) {
	var collections, posts float64
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM collections").Scan(&collections); err == nil {
		metrics.CollectionsTotal.Set(collections)
	}
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM community_posts").Scan(&posts); err == nil {
		metrics.CommunityPostsTotal.Set(posts)
	}
}
