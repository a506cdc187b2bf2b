package itemrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"shareit/model"
	"shareit/util/database"
)

type Repo interface {
	Create(ctx context.Context, it *model.Item) error
	Update(ctx context.Context, it *model.Item) error
	GetByID(ctx context.Context, id int64) (*model.Item, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error)
	ListByRequest(ctx context.Context, requestID int64) ([]model.Item, error)
	Search(ctx context.Context, text string) ([]model.Item, error)
	Delete(ctx context.Context, id int64) error

	CreateComment(ctx context.Context, c *model.Comment) error
	ListCommentsByItem(ctx context.Context, itemID int64) ([]model.CommentView, error)
}

type repo struct{ db *database.DB }

func New(db *database.DB) Repo { return &repo{db} }

func (r *repo) Create(ctx context.Context, it *model.Item) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO items (name, description, available, owner_id, request_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		it.Name, it.Description, it.Available, it.OwnerID, it.RequestID,
	).Scan(&it.ID)
}

func (r *repo) Update(ctx context.Context, it *model.Item) error {
	_, err := r.db.Pool.Exec(ctx, `
		UPDATE items
		SET name = $2, description = $3, available = $4
		WHERE id = $1`,
		it.ID, it.Name, it.Description, it.Available)
	return err
}

func (r *repo) GetByID(ctx context.Context, id int64) (*model.Item, error) {
	it := &model.Item{}
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, description, available, owner_id, request_id
		FROM items
		WHERE id = $1`,
		id,
	).Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (r *repo) ListByOwner(ctx context.Context, ownerID int64) ([]model.Item, error) {
	const q = `
		SELECT id, name, description, available, owner_id, request_id
		FROM items
		WHERE owner_id = $1
		ORDER BY name`
	return r.list(ctx, q, ownerID)
}

func (r *repo) ListByRequest(ctx context.Context, requestID int64) ([]model.Item, error) {
	const q = `
		SELECT id, name, description, available, owner_id, request_id
		FROM items
		WHERE request_id = $1
		ORDER BY id`
	return r.list(ctx, q, requestID)
}

// searchQuery matches name or description case-insensitively and never
// returns an unavailable item.
const searchQuery = `
	SELECT id, name, description, available, owner_id, request_id
	FROM items
	WHERE available = true
	  AND (name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
	ORDER BY name`

func (r *repo) Search(ctx context.Context, text string) ([]model.Item, error) {
	return r.list(ctx, searchQuery, text)
}

func (r *repo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.Pool.Exec(ctx, `DELETE FROM items WHERE id = $1`, id)
	return err
}

func (r *repo) CreateComment(ctx context.Context, c *model.Comment) error {
	return r.db.Pool.QueryRow(ctx, `
		INSERT INTO comments (text, item_id, author_id, created)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		c.Text, c.ItemID, c.AuthorID, c.Created,
	).Scan(&c.ID)
}

func (r *repo) ListCommentsByItem(ctx context.Context, itemID int64) ([]model.CommentView, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT c.id, c.text, u.name, c.created
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.item_id = $1
		ORDER BY c.created DESC`,
		itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CommentView
	for rows.Next() {
		var cv model.CommentView
		if err := rows.Scan(&cv.ID, &cv.Text, &cv.AuthorName, &cv.Created); err != nil {
			return nil, err
		}
		out = append(out, cv)
	}
	return out, rows.Err()
}

func (r *repo) list(ctx context.Context, q string, args ...any) ([]model.Item, error) {
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Item
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Description, &it.Available, &it.OwnerID, &it.RequestID); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
