package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"monogrid/internal/assets"
	"monogrid/internal/logging"
	"monogrid/internal/metrics"
)

// defaultCollections are created once on a fresh database so the UI
// never starts empty.
var defaultCollections = []struct {
	name        string
	description string
}{
	{"Favorites", "Your hand-picked highlights"},
	{"Inspiration", "References and mood studies"},
}

// seedCollections inserts the default collections into an empty store.
func (d *Database) seedCollections(ctx context.Context) error {
	var count int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM collections").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, c := range defaultCollections {
		if _, err := d.CreateCollection(ctx, c.name, c.description); err != nil {
			return err
		}
	}
	logging.Info("Seeded %d default collections", len(defaultCollections))
	return nil
}

// CreateCollection creates a new, empty collection.
func (d *Database) CreateCollection(ctx context.Context, name, description string) (*Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("collection name is required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	c := &Collection{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now(),
	}

	_, err := d.db.ExecContext(ctx,
		"INSERT INTO collections (id, name, description, created_at) VALUES (?, ?, ?, ?)",
		c.ID, c.Name, c.Description, c.CreatedAt.Unix())
	recordQuery("create_collection", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	metrics.CollectionsTotal.Inc()
	return c, nil
}

// ListCollections returns all collections, newest first, with their
// asset counts.
func (d *Database) ListCollections(ctx context.Context) ([]Collection, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	query := `
		SELECT c.id, c.name, c.description, c.created_at, COUNT(ca.asset_id)
		FROM collections c
		LEFT JOIN collection_assets ca ON ca.collection_id = c.id
		GROUP BY c.id
		ORDER BY c.created_at DESC, c.name
	`

	rows, err := d.db.QueryContext(ctx, query)
	recordQuery("list_collections", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	defer rows.Close()

	var out []Collection
	for rows.Next() {
		var c Collection
		var createdAt int64
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &createdAt, &c.AssetCount); err != nil {
			return nil, fmt.Errorf("failed to scan collection: %w", err)
		}
		c.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, c)
	}
	return out, rows.Err()
}

// GetCollection returns one collection by id.
func (d *Database) GetCollection(ctx context.Context, id string) (*Collection, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	query := `
		SELECT c.id, c.name, c.description, c.created_at, COUNT(ca.asset_id)
		FROM collections c
		LEFT JOIN collection_assets ca ON ca.collection_id = c.id
		WHERE c.id = ?
		GROUP BY c.id
	`

	var c Collection
	var createdAt int64
	err := d.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Description, &createdAt, &c.AssetCount)
	recordQuery("get_collection", err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}

	c.CreatedAt = time.Unix(createdAt, 0)
	return &c, nil
}

// DeleteCollection removes a collection and its saved assets.
func (d *Database) DeleteCollection(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := d.db.ExecContext(ctx, "DELETE FROM collections WHERE id = ?", id)
	recordQuery("delete_collection", err)
	if err != nil {
		return fmt.Errorf("failed to delete collection: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	metrics.CollectionsTotal.Dec()
	return nil
}

// AddAsset saves an asset into a collection. Saving an asset that is
// already present is a no-op; the returned bool reports whether a new
// row was inserted.
func (d *Database) AddAsset(ctx context.Context, collectionID string, a assets.Asset) (bool, error) {
	descriptor, err := json.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("failed to encode asset: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.collectionExists(ctx, collectionID); err != nil {
		return false, err
	}

	query := `
		INSERT INTO collection_assets (collection_id, asset_id, kind, descriptor, added_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection_id, asset_id) DO NOTHING
	`

	res, err := d.db.ExecContext(ctx, query,
		collectionID, a.ID, string(a.Kind), string(descriptor), time.Now().Unix())
	recordQuery("add_asset", err)
	if err != nil {
		return false, fmt.Errorf("failed to add asset: %w", err)
	}

	rows, _ := res.RowsAffected()
	return rows > 0, nil
}

// RemoveAsset removes an asset from a collection.
func (d *Database) RemoveAsset(ctx context.Context, collectionID string, assetID int64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := d.db.ExecContext(ctx,
		"DELETE FROM collection_assets WHERE collection_id = ? AND asset_id = ?",
		collectionID, assetID)
	recordQuery("remove_asset", err)
	if err != nil {
		return fmt.Errorf("failed to remove asset: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAssets returns a collection's saved assets in the order they were
// added. orientation optionally filters to "landscape", "portrait", or
// "square" buckets; an empty string returns everything.
func (d *Database) ListAssets(ctx context.Context, collectionID, orientation string) ([]assets.Asset, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if err := d.collectionExists(ctx, collectionID); err != nil {
		return nil, err
	}

	rows, err := d.db.QueryContext(ctx,
		"SELECT descriptor FROM collection_assets WHERE collection_id = ? ORDER BY added_at, asset_id",
		collectionID)
	recordQuery("list_assets", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	out := []assets.Asset{}
	for rows.Next() {
		var descriptor string
		if err := rows.Scan(&descriptor); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}

		var a assets.Asset
		if err := json.Unmarshal([]byte(descriptor), &a); err != nil {
			logging.Warn("Skipping undecodable asset in collection %s: %v", collectionID, err)
			continue
		}

		if orientation != "" && a.Orientation() != orientation {
			continue
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (d *Database) collectionExists(ctx context.Context, id string) error {
	var one int
	err := d.db.QueryRowContext(ctx, "SELECT 1 FROM collections WHERE id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
