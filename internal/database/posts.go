package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"monogrid/internal/metrics"
)

// CreatePost adds a new post to the community board.
func (d *Database) CreatePost(ctx context.Context, author, title, body, imageURL string) (*CommunityPost, error) {
	author = strings.TrimSpace(author)
	title = strings.TrimSpace(title)
	if author == "" || title == "" {
		return nil, fmt.Errorf("author and title are required")
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	p := &CommunityPost{
		ID:        uuid.NewString(),
		Author:    author,
		Title:     title,
		Body:      strings.TrimSpace(body),
		ImageURL:  strings.TrimSpace(imageURL),
		CreatedAt: time.Now(),
	}

	_, err := d.db.ExecContext(ctx,
		"INSERT INTO community_posts (id, author, title, body, image_url, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		p.ID, p.Author, p.Title, p.Body, p.ImageURL, p.CreatedAt.Unix())
	recordQuery("create_post", err)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	metrics.CommunityPostsTotal.Inc()
	return p, nil
}

// ListPosts returns all posts, newest first.
func (d *Database) ListPosts(ctx context.Context) ([]CommunityPost, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, author, title, body, image_url, likes, created_at
		FROM community_posts
		ORDER BY created_at DESC, id
	`)
	recordQuery("list_posts", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var out []CommunityPost
	for rows.Next() {
		var p CommunityPost
		var createdAt int64
		if err := rows.Scan(&p.ID, &p.Author, &p.Title, &p.Body, &p.ImageURL, &p.Likes, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		p.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, p)
	}
	return out, rows.Err()
}

// LikePost increments a post's like counter and returns the new count.
func (d *Database) LikePost(ctx context.Context, id string) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var likes int
	err := d.db.QueryRowContext(ctx,
		"UPDATE community_posts SET likes = likes + 1 WHERE id = ? RETURNING likes",
		id).Scan(&likes)
	recordQuery("like_post", err)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to like post: %w", err)
	}
	return likes, nil
}

// DeletePost removes a post from the board.
func (d *Database) DeletePost(ctx context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := d.db.ExecContext(ctx, "DELETE FROM community_posts WHERE id = ?", id)
	recordQuery("delete_post", err)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rows, _ := res.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}

	metrics.CommunityPostsTotal.Dec()
	return nil
}
