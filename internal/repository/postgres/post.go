package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dkarpov/goblog/internal/apperrors"
	"github.com/dkarpov/goblog/internal/models"
)

type PostRepo struct {
	DB DBTX
}

const createPost = `-- name: CreatePost
WITH inserted AS (
	INSERT INTO posts (id, author_id, title, content, created_at)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id, seq, author_id, title, content, created_at
)
SELECT i.id, i.seq, i.author_id, u.username, i.title, i.content, i.created_at
FROM inserted i
JOIN users u ON u.id = i.author_id
`

func (r *PostRepo) CreatePost(ctx context.Context, authorID uuid.UUID, title string, content string) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, createPost, uuid.New(), authorID, title, content, time.Now())
	post, err := pgx.CollectOneRow(rows, rowToPost)
	if err != nil {
		return post, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

const getPost = `-- name: GetPost
SELECT p.id, p.seq, p.author_id, u.username, p.title, p.content, p.created_at
FROM posts p
JOIN users u ON u.id = p.author_id
WHERE p.id = $1
`

func (r *PostRepo) GetPost(ctx context.Context, id uuid.UUID) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, getPost, id)
	post, err := pgx.CollectOneRow(rows, rowToPost)

	switch {
	case err == nil:
		return post, nil
	case errors.Is(err, pgx.ErrNoRows):
		return post, apperrors.ErrPostNotFound
	default:
		return post, fmt.Errorf("db error: %w", err)
	}
}

// Only title and content are writable: author, id and created_at never change
const updatePost = `-- name: UpdatePost
WITH updated AS (
	UPDATE posts
	SET title = $2, content = $3
	WHERE id = $1
	RETURNING id, seq, author_id, title, content, created_at
)
SELECT u.id, u.seq, u.author_id, us.username, u.title, u.content, u.created_at
FROM updated u
JOIN users us ON us.id = u.author_id
`

func (r *PostRepo) UpdatePost(ctx context.Context, id uuid.UUID, title string, content string) (models.Post, error) {
	rows, _ := r.DB.Query(ctx, updatePost, id, title, content)
	post, err := pgx.CollectOneRow(rows, rowToPost)

	switch {
	case err == nil:
		return post, nil
	case errors.Is(err, pgx.ErrNoRows):
		return post, apperrors.ErrPostNotFound
	default:
		return post, fmt.Errorf("db error: %w", err)
	}
}

const deletePost = `-- name: DeletePost
DELETE FROM posts
WHERE id = $1
`

func (r *PostRepo) DeletePost(ctx context.Context, id uuid.UUID) error {
	tag, err := r.DB.Exec(ctx, deletePost, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return nil
}

const listPosts = `-- name: ListPosts
SELECT p.id, p.seq, p.author_id, u.username, p.title, p.content, p.created_at
FROM posts p
JOIN users u ON u.id = p.author_id
ORDER BY p.created_at DESC, p.seq DESC
`

func (r *PostRepo) ListPosts(ctx context.Context) ([]models.Post, error) {
	rows, _ := r.DB.Query(ctx, listPosts)
	posts, err := pgx.CollectRows(rows, rowToPost)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return posts, nil
}

func rowToPost(row pgx.CollectableRow) (models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.Seq, &p.AuthorID, &p.Author, &p.Title, &p.Content, &p.CreatedAt)
	return p, err
}
